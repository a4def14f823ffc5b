// Package cli implements the marco command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/syssam/marco/compiler/gen"
	"github.com/syssam/marco/internal/config"
	"github.com/syssam/marco/internal/logger"
)

// Version is the marco version reported by --version.
var Version = "dev"

// RootCmd returns the marco command with all subcommands.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "marco",
		Short:         "Generate getters, setters, withers and builders for Go structs",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, json, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				return err
			}
			logger.SetupLogger(level, json)
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), logger.GetDefault()))
			return nil
		},
	}
	root.PersistentFlags().String("log-level", string(logger.InfoLevel), "Log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	root.AddCommand(
		GenerateCmd(),
		ComposeCmd(),
		WatchCmd(),
	)
	return root
}

// loadConfig builds the generator configuration for sources in dir: the
// .marco.yaml file found from dir, overridden by extra options.
func loadConfig(cmd *cobra.Command, dir string, extra ...gen.Option) (*gen.Config, error) {
	file, err := config.Discover(dir)
	if err != nil {
		return nil, err
	}
	if file.Path != "" {
		logger.FromContext(cmd.Context()).Debug("Using config file", "path", file.Path)
	}
	return gen.NewConfig(append(file.Options(), extra...)...)
}
