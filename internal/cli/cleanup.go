package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvanderp/campfinder/internal/auth"
	"github.com/rvanderp/campfinder/internal/config"
)

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := openDB(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer closeDB(database)

			if err := auth.NewSessionStore(database).Cleanup(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Expired sessions removed.")
			return nil
		},
	}
}
