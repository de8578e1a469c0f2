package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"novatail/internal/application/port"
	"novatail/internal/application/usecase/poller"
	"novatail/internal/infrastructure/archive/composite"
	pgarchive "novatail/internal/infrastructure/archive/postgres"
	redisarchive "novatail/internal/infrastructure/archive/redis"
	sqlitearchive "novatail/internal/infrastructure/archive/sqlite"
	"novatail/internal/infrastructure/config"
	"novatail/internal/infrastructure/gateway/nova"
	"novatail/internal/infrastructure/logger"
	"novatail/internal/interfaces/console"
	"novatail/internal/interfaces/multi"
	"novatail/internal/interfaces/wsforward"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Setup(false)

	cfg, err := config.Parse(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Verbose {
		logger.Setup(true)
	}
	if cfg.Interval < config.MinRecommendedInterval {
		log.Warn().Int("interval", cfg.Interval).Int("min", config.MinRecommendedInterval).
			Msg("poll interval below recommended minimum, this may cause excessive API load")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := nova.New(ctx, cfg.Cloud)
	if err != nil {
		log.Fatal().Err(err).Str("cloud", cfg.Cloud).Msg("cloud connection failed")
	}

	// output sinks (stdout, plus optional websocket forwarding)
	var sink port.Sink = console.NewSink()
	if cfg.Backends.Forward.Enabled {
		fwd := wsforward.New(cfg.Backends.Forward.URL)
		defer fwd.Close()
		sink = multi.New(sink, fwd)
	}

	archive := buildArchive(cfg)
	if archive != nil {
		defer archive.Close()
	}

	svc := poller.NewService(poller.Deps{
		Gateway:    gw,
		Sink:       sink,
		Archive:    archive,
		InstanceID: cfg.Instance,
		Interval:   time.Duration(cfg.Interval) * time.Second,
		Prefix:     cfg.Prefix,
	})

	// startup validation: a missing instance is fatal before the loop
	if _, err := svc.Resolve(ctx); err != nil {
		log.Fatal().Err(err).Msg("instance validation failed")
	}

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("console poller exited")
	}
}

// buildArchive assembles the configured archive backends, nil when none
// are enabled (the service falls back to a no-op archive).
func buildArchive(cfg *config.Config) port.Archive {
	var archives []port.Archive

	if c := cfg.Backends.Archive.SQLite; c.Enabled {
		repo, err := sqlitearchive.New(c.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", c.Path).Msg("sqlite archive init failed")
		}
		log.Info().Str("path", c.Path).Msg("sqlite archive enabled")
		archives = append(archives, repo)
	}
	if c := cfg.Backends.Archive.Postgres; c.Enabled {
		repo, err := pgarchive.New(c.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres archive init failed")
		}
		log.Info().Msg("postgres archive enabled")
		archives = append(archives, repo)
	}
	if c := cfg.Backends.Archive.Redis; c.Enabled {
		rdb := redisclient.NewClient(&redisclient.Options{Addr: c.Addr})
		log.Info().Str("addr", c.Addr).Str("stream", c.Stream).Msg("redis archive enabled")
		archives = append(archives, redisarchive.New(rdb, c.Stream, c.Channel))
	}

	switch len(archives) {
	case 0:
		return nil
	case 1:
		return archives[0]
	default:
		return composite.New(archives...)
	}
}
