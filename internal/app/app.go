// Package app wires the process together: configuration, logging,
// storage, services and the TLS listener. All shared components are
// constructed here once and injected; nothing is package-global.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/figstore/internal/adapter/postgres"
	figrepo "github.com/heartmarshall/figstore/internal/adapter/postgres/figure"
	"github.com/heartmarshall/figstore/internal/adapter/userdir"
	"github.com/heartmarshall/figstore/internal/auth"
	"github.com/heartmarshall/figstore/internal/bus"
	"github.com/heartmarshall/figstore/internal/cache"
	"github.com/heartmarshall/figstore/internal/config"
	"github.com/heartmarshall/figstore/internal/domain"
	authsvc "github.com/heartmarshall/figstore/internal/service/auth"
	figsvc "github.com/heartmarshall/figstore/internal/service/figure"
	"github.com/heartmarshall/figstore/internal/transport/tcp"
)

// Run builds the application and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := NewLogger(cfg.Log)
	log.Info("starting figstore")

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	figureCache := cache.New(cache.Config{
		Capacity:      cfg.Cache.Capacity,
		MaxAge:        cfg.Cache.MaxAge,
		SweepInterval: cfg.Cache.SweepInterval,
	}, log)
	defer figureCache.Shutdown()

	events := bus.New(cfg.Notify.Buffer, log)

	repo := figrepo.New(pool, &domain.SequenceGenerator{})
	figures := figsvc.NewService(log, repo, figureCache, events)

	users, err := userdir.New(userdir.DefaultSeeds())
	if err != nil {
		return fmt.Errorf("seed user directory: %w", err)
	}
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	gate := authsvc.NewGate(log, users, tokens)

	server := tcp.NewServer(log, cfg.Server, figures, gate)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logEvents(ctx, log, events)
		return nil
	})

	g.Go(func() error {
		return server.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	log.Info("figstore stopped")
	return nil
}

// logEvents mirrors every catalog change notification into the log
// until ctx is cancelled.
func logEvents(ctx context.Context, log *slog.Logger, events *bus.Bus) {
	ch, cancel := events.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			log.Info("catalog changed",
				slog.String("kind", ev.Kind.String()),
				slog.Int64("id", ev.Figure.ID),
				slog.String("name", ev.Figure.Name),
			)
		}
	}
}
