// File: pkg/export/worker.go
package export

import (
	"context"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// fileJob is one file queued for rendering.
type fileJob struct {
	absPath string
	relPath string
}

// jobResult keeps a worker's output in its input slot.
type jobResult struct {
	block   RenderedBlock
	warning *Diagnostic
	err     error
	done    bool
}

// renderConcurrently renders jobs with a bounded worker pool and returns the
// blocks in job order. Jobs not started before ctx is canceled are dropped
// and the context error is returned.
func renderConcurrently(ctx context.Context, jobs []fileJob, maxWorkers int, renderer fileRenderer, logger *zap.Logger) ([]RenderedBlock, []Diagnostic, error) {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}

	results := make([]jobResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	logger.Debug("Distributing files to workers", zap.Int("files", len(jobs)), zap.Int("workers", maxWorkers))
	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			block, warning, err := renderer.render(job.absPath, job.relPath, filepath.Base(job.absPath))
			results[i] = jobResult{block: block, warning: warning, err: err, done: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var (
		blocks      []RenderedBlock
		diagnostics []Diagnostic
	)
	for i, res := range results {
		if !res.done {
			continue
		}
		if res.err != nil {
			logger.Warn("Failed to process file", zap.String("file", jobs[i].relPath), zap.Error(res.err))
			diagnostics = append(diagnostics, Diagnostic{Op: "read", Path: jobs[i].relPath, Err: res.err})
			continue
		}
		if res.warning != nil {
			diagnostics = append(diagnostics, *res.warning)
		}
		blocks = append(blocks, res.block)
	}
	logger.Debug("All files processed", zap.Int("processedFiles", len(blocks)))
	return blocks, diagnostics, nil
}
