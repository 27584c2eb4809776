package app

import (
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/hyperifyio/labelflat/internal/export"
)

// dateLayout is the layout of --date and the config file date.
const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD processing date.
func ParseDate(s string) (time.Time, error) {
    return time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
}

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env. Malformed values are logged
// and ignored.
func ApplyEnvToConfig(cfg *Config) {
    if cfg == nil { return }

    if cfg.Product == "" {
        cfg.Product = os.Getenv("LABELFLAT_PRODUCT")
    }
    if len(cfg.DebugFormats) == 0 {
        if s := strings.TrimSpace(os.Getenv("LABELFLAT_DEBUG_FORMATS")); s != "" {
            if formats, err := export.ParseFormats(s); err == nil {
                cfg.DebugFormats = formats
            } else {
                log.Warn().Err(err).Str("env", "LABELFLAT_DEBUG_FORMATS").Msg("ignoring env value")
            }
        }
    }
    if cfg.ListenAddr == "" {
        cfg.ListenAddr = os.Getenv("LISTEN_ADDR")
    }
    if cfg.CacheDir == "" {
        cfg.CacheDir = os.Getenv("LABELFLAT_CACHE_DIR")
    }
    if cfg.CacheMaxAge == 0 {
        if s := strings.TrimSpace(os.Getenv("LABELFLAT_CACHE_MAX_AGE")); s != "" {
            if d, err := time.ParseDuration(s); err == nil && d > 0 {
                cfg.CacheMaxAge = d
            } else {
                log.Warn().Str("env", "LABELFLAT_CACHE_MAX_AGE").Str("value", s).Msg("ignoring env value")
            }
        }
    }
    if cfg.BatchLimit == 0 {
        if s := strings.TrimSpace(os.Getenv("LABELFLAT_BATCH_LIMIT")); s != "" {
            if n, err := strconv.Atoi(s); err == nil && n > 0 {
                cfg.BatchLimit = n
            } else {
                log.Warn().Str("env", "LABELFLAT_BATCH_LIMIT").Str("value", s).Msg("ignoring env value")
            }
        }
    }

    // Booleans
    setBool := func(dst *bool, envKey string) {
        if *dst { return }
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            if s == "1" || s == "true" || s == "yes" || s == "on" {
                *dst = true
            }
        }
    }
    setBool(&cfg.Debug, "LABELFLAT_DEBUG")
    setBool(&cfg.Verbose, "VERBOSE")
    setBool(&cfg.CacheStrictPerms, "LABELFLAT_CACHE_STRICT_PERMS")
}

// ApplyDefaults fills whatever is still unset after flags, env and file.
func ApplyDefaults(cfg *Config) {
    if cfg == nil { return }
    if len(cfg.DebugFormats) == 0 { cfg.DebugFormats = []export.Format{export.CSV} }
    if cfg.ListenAddr == "" { cfg.ListenAddr = DefaultListenAddr }
}
