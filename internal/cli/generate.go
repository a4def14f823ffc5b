package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/syssam/marco/compiler/gen"
	"github.com/syssam/marco/compiler/load"
	"github.com/syssam/marco/internal/logger"
)

// GenerateCmd returns the generate command. It is meant to run from a
// go:generate directive, reading GOFILE, GOLINE and GOPACKAGE:
//
//	//go:generate go run github.com/syssam/marco/cmd/marco generate --type=Book --gen=Getter,Builder
func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate methods for the structs of a Go file",
		Long: `Generate methods for the structs of a Go file.

The file defaults to $GOFILE. Without --type, the struct following the
go:generate line ($GOLINE) is used; failing that, every struct with a
//marco:derive or //marco:data directive. Without --gen, the //marco:derive
list of the struct is used, or the configured generators.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}
	cmd.Flags().String("type", "", "Struct type to generate for")
	cmd.Flags().StringSlice("gen", nil, "Generators to run (Getter, Setter, Wither, Builder)")
	cmd.Flags().String("output", "", "Output directory (default: directory of the source file)")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	path := os.Getenv("GOFILE")
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no source file: pass a file or run from a go:generate directive")
	}
	line, err := goLine()
	if err != nil {
		return err
	}
	typeName, err := cmd.Flags().GetString("type")
	if err != nil {
		return fmt.Errorf("failed to get type flag: %w", err)
	}
	gens, err := cmd.Flags().GetStringSlice("gen")
	if err != nil {
		return fmt.Errorf("failed to get gen flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	var opts []gen.Option
	if output != "" {
		opts = append(opts, gen.WithOutputDir(output))
	}
	cfg, err := loadConfig(cmd, filepath.Dir(path), opts...)
	if err != nil {
		return err
	}
	file, err := load.ParseFile(path, nil)
	if err != nil {
		return err
	}
	if pkg := os.Getenv("GOPACKAGE"); pkg != "" && pkg != file.Package() {
		log.Debug("Package differs from GOPACKAGE", "package", file.Package(), "GOPACKAGE", pkg)
	}

	g := gen.NewGenerator(file, cfg)
	reqs, err := g.Plan(typeName, gens, line)
	if err != nil {
		return err
	}
	paths, err := g.Generate(ctx, reqs...)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.Info("Generated file", "path", p)
	}
	return nil
}

// goLine returns the line of the go:generate directive, or 0 when not run
// by go generate.
func goLine() (int, error) {
	v := os.Getenv("GOLINE")
	if v == "" {
		return 0, nil
	}
	line, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid GOLINE %q: %w", v, err)
	}
	return line, nil
}
