// File: pkg/export/execute.go
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"direxport/pkg/ignore"
	"direxport/pkg/strip"

	"go.uber.org/zap"
)

// Run exports a directory into a single document held in memory. The
// document is returned only when the walk completes; on cancellation or a
// precondition failure nothing is returned and the caller must not write
// any output.
func Run(ctx context.Context, opts Options, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()

	absRoot, err := checkRoot(opts.Root)
	if err != nil {
		logger.Error("Export root is not available", zap.String("root", opts.Root), zap.Error(err))
		return nil, err
	}
	logger.Info("Starting export", zap.String("root", absRoot))

	policy, err := LoadPolicy(absRoot, opts.GlobalIgnore, opts.IgnoreFile, opts.GlobalInclude, opts.IncludeFile, logger)
	if err != nil {
		return nil, err
	}

	doc := Document{
		Description:      resolveDescription(absRoot, opts.Description, logger),
		IncludeStructure: opts.IncludeStructure,
	}
	var diagnostics []Diagnostic

	if opts.IncludeStructure {
		tree, treeDiags, err := RenderStructure(ctx, absRoot, policy, logger)
		diagnostics = append(diagnostics, treeDiags...)
		if err != nil {
			logger.Info("Export canceled while rendering structure")
			return nil, err
		}
		doc.Structure = tree
	}

	if err := ctx.Err(); err != nil {
		logger.Info("Export canceled before traversal")
		return nil, err
	}

	traverser := NewTraverser(absRoot, policy, stripperFor(opts.RemoveComments, opts.Stripper), logger)
	blocks, walkDiags, err := traverser.Collect(ctx)
	diagnostics = mergeDiagnostics(diagnostics, walkDiags)
	if err != nil {
		logger.Info("Export canceled, discarding output", zap.Int("diagnostics", len(diagnostics)))
		return nil, err
	}
	doc.Blocks = blocks

	logger.Info("Export assembled",
		zap.Int("files", len(blocks)),
		zap.Int("diagnostics", len(diagnostics)),
		zap.Duration("elapsed", time.Since(startTime)))

	return &Result{
		Document:    []byte(doc.String()),
		Files:       len(blocks),
		Diagnostics: diagnostics,
	}, nil
}

// LoadPolicy builds the selection policy for root. Rule files are resolved
// relative to root unless absolute; missing files contribute no rules.
func LoadPolicy(root string, globalIgnore []string, ignoreFile string, globalInclude []string, includeFile string, logger *zap.Logger) (*Policy, error) {
	excludes, err := ignore.LoadExcludes(globalIgnore, resolveUnder(root, ignoreFile), logger)
	if err != nil {
		logger.Error("Failed to load exclusion rules", zap.Error(err))
		return nil, err
	}
	includes, err := ignore.LoadIncludes(globalInclude, resolveUnder(root, includeFile), logger)
	if err != nil {
		logger.Error("Failed to load inclusion rules", zap.Error(err))
		return nil, err
	}
	logger.Debug("Loaded selection rules",
		zap.Int("exclusionRules", excludes.Len()),
		zap.Int("inclusionRules", includes.Len()))
	return NewPolicy(excludes, includes), nil
}

// mergeDiagnostics appends extra to diags, skipping entries with an Op and
// Path already reported. The structure walk and the content walk visit the
// same entries, so one failure would otherwise surface twice.
func mergeDiagnostics(diags, extra []Diagnostic) []Diagnostic {
	seen := make(map[[2]string]struct{}, len(diags)+len(extra))
	for _, d := range diags {
		seen[[2]string{d.Op, d.Path}] = struct{}{}
	}
	for _, d := range extra {
		key := [2]string{d.Op, d.Path}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		diags = append(diags, d)
	}
	return diags
}

// resolveDescription returns the contents of the description file when
// description names a regular file under root, otherwise the text itself.
func resolveDescription(root, description string, logger *zap.Logger) string {
	if description == "" {
		return ""
	}
	descPath := resolveUnder(root, description)
	info, err := os.Stat(descPath)
	if err != nil || !info.Mode().IsRegular() {
		return description
	}
	content, err := os.ReadFile(descPath)
	if err != nil {
		logger.Warn("Failed to read description file, using text as-is",
			zap.String("file", descPath), zap.Error(err))
		return description
	}
	return decodeText(content)
}

// stripperFor picks the comment stripper for an export.
func stripperFor(removeComments bool, s strip.Stripper) strip.Stripper {
	if !removeComments {
		return nil
	}
	if s == nil {
		return strip.NewSyntax()
	}
	return s
}

// resolveUnder joins name to root unless name is empty or absolute.
func resolveUnder(root, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(root, name)
}

// ResolveOutputPath returns the absolute output path for output under root.
func ResolveOutputPath(root, output string) (string, error) {
	if output == "" {
		return "", fmt.Errorf("no output file configured")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return resolveUnder(absRoot, output), nil
}
