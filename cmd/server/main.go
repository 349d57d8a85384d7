package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/jbudget-be/internal/config"
	"github.com/hongminglow/jbudget-be/internal/logging"
	"github.com/hongminglow/jbudget-be/internal/server"
	"github.com/hongminglow/jbudget-be/internal/storage"
	"github.com/hongminglow/jbudget-be/internal/storage/backend"
)

type storeOpener func(context.Context, config.Config) (storage.Store, error)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.AppEnv)
	if envErr != nil {
		log.Debug("no .env file found; relying on existing environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log, backend.Open)
	stop()
	if err != nil {
		log.WithError(err).Error("server stopped with error")
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails. The store is
// closed before it returns either way.
func run(ctx context.Context, cfg config.Config, log logrus.FieldLogger, open storeOpener) error {
	store, err := open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("close storage")
		}
	}()

	srv := server.New(cfg, store, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":    cfg.HTTPAddress(),
			"backend": cfg.DataBackend,
			"env":     cfg.AppEnv,
		}).Info("jbudget backend listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
