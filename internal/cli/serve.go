package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvanderp/campfinder/internal/config"
	"github.com/rvanderp/campfinder/internal/geocode"
	"github.com/rvanderp/campfinder/internal/logging"
	"github.com/rvanderp/campfinder/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the campfinder server",
		Long:  "Start the HTTP server for the campfinder web UI.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides PORT)")

	return cmd
}

func runServe(port int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	logging.Setup(cfg.DevMode)

	database, err := openDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeDB(database)

	geocoder, err := geocode.NewClient(cfg.GeocoderKey)
	if err != nil {
		return err
	}
	if cfg.GeocoderURL != "" {
		geocoder.SetBaseURL(cfg.GeocoderURL)
	}

	srv, err := web.NewServer(database, web.Options{
		SessionSecret: cfg.SessionSecret,
		BaseURL:       cfg.BaseURL,
		Geocoder:      geocoder,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	if port == 0 {
		port = cfg.Port
	}

	return srv.ListenAndServe(port)
}
