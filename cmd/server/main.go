package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/educare-hub/internal/config"
	"github.com/iliyamo/educare-hub/internal/logger"
	"github.com/iliyamo/educare-hub/internal/queue"
	"github.com/iliyamo/educare-hub/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if cfg.RateLimit.Enabled && rdb == nil {
		log.Warn("redis unreachable, rate limiting disabled", zap.String("addr", cfg.Redis.Addr))
	}

	events := queue.NewPublisher(cfg.Events, log)
	e := router.New(cfg, router.Deps{
		Store:  store,
		Redis:  rdb,
		Events: events,
		Log:    log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.Store.Driver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if cfg.Events.Enabled {
		consumer := queue.NewConsumer(cfg.Events, log)
		g.Go(func() error { return consumer.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs error
		errs = multierr.Append(errs, e.Shutdown(sctx))
		if p, ok := events.(*queue.AMQPPublisher); ok {
			errs = multierr.Append(errs, p.Wait(sctx))
		}
		errs = multierr.Append(errs, store.Close(sctx))
		if rdb != nil {
			errs = multierr.Append(errs, rdb.Close())
		}
		return errs
	})

	return g.Wait()
}
