package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/mathquiz/internal/config"
	"github.com/playperu/mathquiz/internal/database"
	"github.com/playperu/mathquiz/internal/handler/health"
	"github.com/playperu/mathquiz/internal/highscore"
	"github.com/playperu/mathquiz/internal/mathquiz"
	"github.com/playperu/mathquiz/internal/migrations"
	"github.com/playperu/mathquiz/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- High-score storage ---
	var kv highscore.KV
	checks := map[string]health.Checker{}

	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")

		kv = highscore.NewRedisKV(rdb)
		checks["redis"] = health.CheckFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	} else {
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("connecting to sqlite: %w", err)
		}
		defer db.Close()

		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath)

		kv = highscore.NewSQLiteKV(db)
		checks["sqlite"] = health.CheckFunc(db.PingContext)
	}

	scores := highscore.NewStore(kv, logger)

	// --- Games ---
	rules := cfg.Game.Rules()
	broker := server.NewBroker()
	games := server.NewRegistry(logger, broker, cfg.SessionTTL, func(p mathquiz.Presenter) *mathquiz.Session {
		return mathquiz.NewSession(mathquiz.Options{
			Rules:     rules,
			Clock:     mathquiz.SystemClock{},
			Generator: mathquiz.NewGenerator(),
			Presenter: p,
			Scores:    scores,
			Logger:    logger,
		})
	})
	defer games.Close()

	if cfg.AdminPasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH not set, high scores can be cleared without a password")
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Games:     games,
		Broker:    broker,
		Scores:    scores,
		Tokens:    server.NewTokens(cfg.TokenSecret, cfg.TokenTTL),
		AdminHash: cfg.AdminPasswordHash,
		Health:    checks,
		SPADir:    cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		return games.Run(gctx)
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
