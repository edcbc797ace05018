// Command wipedata deletes every record from the given collections, one after
// another, and always closes the database connection before exiting.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/01moynul/taptosell-admin/internal/config"
	"github.com/01moynul/taptosell-admin/internal/logging"
	"github.com/01moynul/taptosell-admin/internal/maintenance"
	"github.com/01moynul/taptosell-admin/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var collections []string

	cmd := &cobra.Command{
		Use:   "wipedata",
		Short: "Delete all records from admin collections",
		Long: fmt.Sprintf("Delete all records from each collection in order (default %s).\nAllowed collections: %s.",
			strings.Join(maintenance.DefaultCollections, ", "), strings.Join(store.Collections, ", ")),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return maintenance.ValidateCollections(collections)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate("wipedata"); err != nil {
				return err
			}

			logger := logging.New("wipedata", cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conn := maintenance.MySQLConnector{DSN: cfg.DBDSN, Logger: logger}
			results, err := maintenance.Wipe(ctx, conn, collections, logger)
			if err != nil {
				logger.Error().Err(err).Msg("wipe aborted")
				return err
			}

			var total int64
			for _, r := range results {
				total += r.Deleted
			}
			logger.Info().Int64("deleted", total).Int("collections", len(results)).Msg("wipe complete")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&collections, "collections", maintenance.DefaultCollections, "collections to wipe, in order")
	return cmd
}
