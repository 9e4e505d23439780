package main

import (
	"errors"
	"fmt"
	"log/slog"

	"museumBooker/internal/config"
	"museumBooker/internal/storage/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.DriverPostgres {
				return errors.New("migrate requires the postgres storage driver")
			}

			log := setupLogger(cfg.Env)

			pg, err := postgres.InitDB(&cfg.Database, cfg.Storage.LockTimeout)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer pg.Close()

			applied, err := pg.Migrate(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			if len(applied) == 0 {
				log.Info("schema is up to date")
				return nil
			}
			for _, name := range applied {
				log.Info("migration applied", slog.String("file", name))
			}

			return nil
		},
	}
}
