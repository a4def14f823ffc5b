package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syssam/marco/compiler/gen"
	"github.com/syssam/marco/internal/logger"
)

// ComposeCmd returns the compose command, which rewrites //marco:data
// directives into go:generate and //marco:derive directives.
func ComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose <file>...",
		Short: "Expand //marco:data directives in place",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCompose,
	}
	cmd.Flags().Bool("dry-run", false, "Print the rewritten files to stdout without writing them")
	return cmd
}

func runCompose(cmd *cobra.Command, args []string) error {
	log := logger.FromContext(cmd.Context())
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	for _, path := range args {
		cfg, err := loadConfig(cmd, filepath.Dir(path))
		if err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		out, changed, err := gen.ComposeSource(path, nil, cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if dryRun {
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			continue
		}
		if !changed {
			log.Debug("No data directive", "path", path)
			continue
		}
		if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Info("Composed file", "path", path)
	}
	return nil
}
