package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/marco/compiler/gen"
	"github.com/syssam/marco/compiler/load"
	"github.com/syssam/marco/internal/logger"
	"github.com/syssam/marco/internal/watch"
)

// WatchCmd returns the watch command, which regenerates the files of
// structs carrying marco directives whenever their source changes.
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate on Go file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	cmd.Flags().Bool("once", false, "Generate all files once and exit")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	once, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fmt.Errorf("failed to get once flag: %w", err)
	}
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return err
	}
	generated := func(path string) bool {
		return strings.HasSuffix(path, cfg.Suffix)
	}

	if err := generateAll(ctx, dir, cfg, generated); err != nil {
		return err
	}
	if once {
		return nil
	}

	w, err := watch.New(watch.WithIgnore(generated))
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Info("Watching for changes", "dir", dir)
	err = w.Run(ctx, func(path string) {
		if _, err := regenerate(ctx, path, cfg); err != nil {
			log.Error("Generation failed", "path", path, "error", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// generateAll regenerates every source file below dir in parallel.
func generateAll(ctx context.Context, dir string, cfg *gen.Config, skip func(string) bool) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go") && !skip(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range files {
		eg.Go(func() error {
			_, err := regenerate(ctx, path, cfg)
			return err
		})
	}
	return eg.Wait()
}

// regenerate generates the files of the structs of path that carry a
// //marco:derive or //marco:data directive. Files without directives are
// skipped.
func regenerate(ctx context.Context, path string, cfg *gen.Config) ([]string, error) {
	file, err := load.ParseFile(path, nil)
	if err != nil {
		return nil, err
	}
	g := gen.NewGenerator(file, cfg)
	reqs, err := g.Plan("", nil, 0)
	if gen.IsConfigError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	paths, err := g.Generate(ctx, reqs...)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		logger.FromContext(ctx).Info("Generated file", "path", p)
	}
	return paths, nil
}
