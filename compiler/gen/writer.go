package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/marco/internal/logger"
)

// Writer renders jennifer files and writes them to disk with parallel
// execution. Each file is passed through goimports before it is written.
type Writer struct {
	outDir  string
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// NewWriter creates a new writer for the given output directory.
func NewWriter(outDir string) *Writer {
	return &Writer{
		outDir:  outDir,
		workers: runtime.GOMAXPROCS(0),
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the generation metrics.
func (w *Writer) Metrics() *WriterMetrics {
	return w.metrics
}

// fileTask represents a single file generation task.
type fileTask struct {
	name string // output file name (relative to outDir)
	typ  string // source type name
	file *jen.File
}

// WriteAll writes all files in parallel. The first failure cancels the
// remaining tasks.
func (w *Writer) WriteAll(ctx context.Context, files []fileTask) error {
	if len(files) == 0 {
		return nil
	}
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)

	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.generateFile(ctx, f)
			}
		})
	}

	return eg.Wait()
}

// generateFile renders, formats and writes a single file.
func (w *Writer) generateFile(ctx context.Context, f fileTask) error {
	// 1. Render
	var buf bytes.Buffer
	if err := f.file.Render(&buf); err != nil {
		return &GenerationError{Phase: "render", Type: f.typ, File: f.name, Cause: err}
	}

	// 2. Format using goimports (removes unused imports and adds missing ones)
	fullPath := filepath.Join(w.outDir, f.name)
	formatted, err := imports.Process(fullPath, buf.Bytes(), nil)
	if err != nil {
		// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
		debugPath := fullPath + ".error"
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return &GenerationError{
			Phase:   "format",
			Type:    f.typ,
			File:    f.name,
			Message: "unformatted output written to " + debugPath,
			Cause:   err,
		}
	}

	// 3. Write file
	if err := os.WriteFile(fullPath, formatted, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.name, err)
	}

	// Update metrics
	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(formatted))
	w.mu.Unlock()

	logger.FromContext(ctx).Debug("Generated file", "type", f.typ, "path", fullPath, "bytes", len(formatted))
	return nil
}
