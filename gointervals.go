package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"gointervals/config"
	"gointervals/router"
	"gointervals/store"
)

var configFile = flag.StringP("config", "c", "", "path to the config file (yaml, json or toml)")

func newLogger(cfg config.Log, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "log level %q", cfg.Level)
	}

	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05.000"}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func newEngine(registry router.Registry, logger zerolog.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(router.Logger(logger), gin.Recovery())
	router.IntervalRouter(engine, registry)
	return engine
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	resolver, err := store.OpenMySQL(ctx, cfg.MySQL.Store())
	if err != nil {
		return err
	}
	defer resolver.Close()

	cache := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer cache.Close()

	if err := cache.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "ping redis")
	}

	registry := store.NewRegistry(resolver, store.NewRedisCache(cache, cfg.Redis.TTL), logger)

	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: newEngine(registry, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("listen", cfg.Listen).Msg("Serving interval sets")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func main() {
	flag.Parse()
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Interval service stopped")
	}
}
