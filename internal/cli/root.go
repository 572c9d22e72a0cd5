// Package cli defines the cobra command tree for campfinder.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rvanderp/campfinder/internal/db"
)

var flagDB string

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "campfinder",
		Short:         "A community campground listing server",
		Long:          "Server-rendered community campground listings: register, log in, add location-tagged campgrounds, comment, and search.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.campfinder/campfinder.db)")

	root.AddCommand(
		newServeCmd(),
		newCleanupCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag, the configured
// path, or the default path, in that order.
func openDB(configured string) (*sql.DB, error) {
	path := flagDB
	if path == "" {
		path = configured
	}
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
