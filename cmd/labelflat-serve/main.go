package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/labelflat/internal/app"
	"github.com/hyperifyio/labelflat/internal/cache"
	"github.com/hyperifyio/labelflat/internal/pipeline"
	"github.com/hyperifyio/labelflat/internal/server"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		cfg        app.Config
		envFiles   string
		configPath string
		clearCache bool
	)
	flag.StringVar(&cfg.ListenAddr, "listen", "", "Listen address (default :8080)")
	flag.IntVar(&cfg.BatchLimit, "batch-limit", 0, "Concurrent conversions per batch request")
	flag.StringVar(&cfg.CacheDir, "cache-dir", "", "Directory for cached conversions (disabled when empty)")
	flag.DurationVar(&cfg.CacheMaxAge, "cache.max-age", 0, "Purge cache entries older than this at startup (0 keeps all)")
	flag.BoolVar(&cfg.CacheStrictPerms, "cache.strict-perms", false, "Restrict cache directory to 0700 and entries to 0600")
	flag.BoolVar(&clearCache, "cache.clear", false, "Empty the cache directory at startup")
	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&envFiles, "env-file", ".env", "Comma-separated dotenv files to load")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.Parse()

	if err := app.LoadEnvFiles(strings.Split(envFiles, ",")...); err != nil {
		log.Fatal().Err(err).Msg("load env files")
	}
	app.ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			log.Fatal().Err(err).Msg("apply config")
		}
	}
	app.ApplyDefaults(&cfg)
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = pipeline.DefaultBatchLimit
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	s := &server.Server{BatchLimit: cfg.BatchLimit, Version: app.BuildVersion}
	dc, err := openCache(cfg, clearCache)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.CacheDir).Msg("open cache")
	}
	s.Cache = dc
	log.Info().Str("addr", cfg.ListenAddr).Int("batch_limit", cfg.BatchLimit).Msg("listening")
	if err := s.Router().Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// openCache prepares the document cache described by cfg. It returns nil when
// no cache directory is configured. clear empties the directory first;
// otherwise entries older than CacheMaxAge are purged.
func openCache(cfg app.Config, clear bool) (*cache.DocCache, error) {
	if cfg.CacheDir == "" {
		return nil, nil
	}
	dc := &cache.DocCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	if clear {
		if err := cache.ClearDir(cfg.CacheDir); err != nil {
			return nil, fmt.Errorf("clear cache: %w", err)
		}
		log.Info().Str("dir", cfg.CacheDir).Msg("cache cleared")
	} else {
		n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache purge failed")
		}
		log.Info().Str("dir", cfg.CacheDir).Int("purged", n).Msg("document cache enabled")
	}
	return dc, nil
}
