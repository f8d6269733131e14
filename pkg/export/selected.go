// File: pkg/export/selected.go
package export

import (
	"context"
	"fmt"
	"path/filepath"

	"direxport/pkg/strip"

	"go.uber.org/zap"
)

// ConfirmFunc asks the caller whether a file that the rules would leave out
// should be exported anyway.
type ConfirmFunc func(relPath string) (bool, error)

// SelectedOptions holds the inputs of an export of explicitly chosen files.
type SelectedOptions struct {
	Root             string
	Files            []string // Paths to export, absolute or relative to the working directory.
	IgnoreFile       string
	IncludeFile      string
	GlobalIgnore     []string
	GlobalInclude    []string
	IncludeStructure bool
	RemoveComments   bool
	AllowIgnored     bool        // Export excluded files without asking.
	Confirm          ConfirmFunc // Consulted for files the rules leave out; nil skips them.
	Stripper         strip.Stripper
	MaxWorkers       int // Concurrent file reads; runtime.NumCPU() when <= 0.
}

// RunSelected exports the given files in the order given. A file that is
// excluded (unless AllowIgnored) or not allow-listed is passed to Confirm
// and dropped unless confirmed. Like Run, nothing is returned on cancellation.
func RunSelected(ctx context.Context, opts SelectedOptions, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	absRoot, err := checkRoot(opts.Root)
	if err != nil {
		logger.Error("Export root is not available", zap.String("root", opts.Root), zap.Error(err))
		return nil, err
	}
	logger.Info("Starting selected files export", zap.String("root", absRoot), zap.Int("files", len(opts.Files)))

	policy, err := LoadPolicy(absRoot, opts.GlobalIgnore, opts.IgnoreFile, opts.GlobalInclude, opts.IncludeFile, logger)
	if err != nil {
		return nil, err
	}

	doc := Document{
		IncludeStructure: opts.IncludeStructure,
		Title:            SelectedFilesTitle,
	}
	var diagnostics []Diagnostic

	if opts.IncludeStructure {
		tree, treeDiags, err := RenderStructure(ctx, absRoot, policy, logger)
		diagnostics = append(diagnostics, treeDiags...)
		if err != nil {
			return nil, err
		}
		doc.Structure = tree
	}

	jobs := make([]fileJob, 0, len(opts.Files))
	for _, file := range opts.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		absPath, err := filepath.Abs(file)
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{Op: "stat", Path: file, Err: err})
			continue
		}
		relPath := relativePath(absRoot, absPath)

		excluded := policy.Excluded(relPath, false)
		included := policy.Included(relPath)
		if (excluded && !opts.AllowIgnored) || !included {
			ok, err := confirm(opts.Confirm, relPath)
			if err != nil {
				return nil, fmt.Errorf("failed to confirm %s: %w", relPath, err)
			}
			if !ok {
				logger.Debug("Skipping file left out by rules", zap.String("file", relPath),
					zap.Bool("excluded", excluded), zap.Bool("included", included))
				continue
			}
		}
		jobs = append(jobs, fileJob{absPath: absPath, relPath: relPath})
	}

	renderer := fileRenderer{stripper: stripperFor(opts.RemoveComments, opts.Stripper), logger: logger}
	blocks, readDiags, err := renderConcurrently(ctx, jobs, opts.MaxWorkers, renderer, logger)
	diagnostics = mergeDiagnostics(diagnostics, readDiags)
	if err != nil {
		logger.Info("Selected files export canceled, discarding output")
		return nil, err
	}
	doc.Blocks = blocks

	logger.Info("Selected files export assembled", zap.Int("files", len(blocks)), zap.Int("diagnostics", len(diagnostics)))
	return &Result{
		Document:    []byte(doc.String()),
		Files:       len(blocks),
		Diagnostics: diagnostics,
	}, nil
}

func confirm(fn ConfirmFunc, relPath string) (bool, error) {
	if fn == nil {
		return false, nil
	}
	return fn(relPath)
}
