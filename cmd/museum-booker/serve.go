package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"museumBooker/internal/booking"
	"museumBooker/internal/calendar"
	"museumBooker/internal/config"
	"museumBooker/internal/ledger"
	"museumBooker/internal/lib/logger/sl"
	"museumBooker/internal/notify"
	"museumBooker/internal/pricing"
	"museumBooker/internal/storage"
	"museumBooker/internal/storage/memory"
	"museumBooker/internal/storage/postgres"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(configPath *string) *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the booking HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			log := setupLogger(cfg.Env)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, log, cfg, migrateUp)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "apply database migrations on startup")

	return cmd
}

func serve(ctx context.Context, log *slog.Logger, cfg *config.Config, migrateUp bool) error {
	log.Info("starting museum booker",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("notify", cfg.Notify.Driver),
	)
	log.Debug("debug messages are enabled")

	store, err := openStore(ctx, log, cfg, migrateUp)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(log, cfg.Pricing.SeedPath, time.Now())
	if err != nil {
		_ = store.Close()
		return err
	}

	notifier, err := openNotifier(log, cfg.Notify)
	if err != nil {
		_ = store.Close()
		return err
	}

	dispatcher := notify.NewDispatcher(log, notifier, cfg.Notify.Timeout)
	slots := ledger.New(log, store, cfg.Booking.DefaultCapacity)

	workflow := booking.New(log, store, slots, catalog, dispatcher,
		booking.WithCompensationTimeout(cfg.Booking.CompensationTimeout),
	)
	cal := calendar.New(log, slots, cfg.Booking.DefaultTimeSlots, cfg.Booking.DefaultTicketType, time.Now)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      newRouter(log, cfg, workflow, cal, catalog),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info("application stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shutdown server", sl.Err(err))
		}

		if err := dispatcher.Wait(shutdownCtx); err != nil {
			log.Error("notifications still in flight at shutdown", sl.Err(err))
		}

		if err := notifier.Close(); err != nil {
			log.Error("failed to close notifier", sl.Err(err))
		}

		if err := store.Close(); err != nil {
			log.Error("failed to close storage", sl.Err(err))
		}

		log.Info("application stopped")

		return nil
	})

	return g.Wait()
}

func openStore(ctx context.Context, log *slog.Logger, cfg *config.Config, migrateUp bool) (storage.Store, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(cfg.Storage.LockTimeout), nil
	}

	pg, err := postgres.InitDB(&cfg.Database, cfg.Storage.LockTimeout)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	if migrateUp {
		applied, err := pg.Migrate(ctx)
		if err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		for _, name := range applied {
			log.Info("migration applied", slog.String("file", name))
		}
	}

	return pg, nil
}

func loadCatalog(log *slog.Logger, seedPath string, now time.Time) (*pricing.Catalog, error) {
	rules := pricing.DefaultRules(now)

	if seedPath != "" {
		var err error
		if rules, err = pricing.LoadSeed(seedPath, now); err != nil {
			return nil, err
		}
	} else {
		log.Info("no pricing seed configured, using default prices")
	}

	return pricing.NewCatalog(log, rules)
}

func openNotifier(log *slog.Logger, cfg config.Notify) (notify.Notifier, error) {
	if cfg.Driver == config.NotifyAMQP {
		n, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.Exchange, cfg.RoutingKey)
		if err != nil {
			return nil, fmt.Errorf("init notifier: %w", err)
		}
		return n, nil
	}

	return notify.NewLogNotifier(log), nil
}
