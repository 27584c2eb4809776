package app

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/hyperifyio/labelflat/internal/export"
)

// LoadEnvFiles reads KEY=VALUE pairs and populates os.Environ.
func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
    t.Setenv("FOO", "")
    t.Setenv("BAR", "")

    dir := t.TempDir()
    envPath := filepath.Join(dir, ".env.test")
    content := "\n# sample dotenv file\nFOO=alpha\nBAR=\"beta\"\n"
    if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
        t.Fatalf("write dotenv: %v", err)
    }

    if err := LoadEnvFiles(envPath); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }

    if got := os.Getenv("FOO"); got != "alpha" {
        t.Fatalf("FOO=%q, want alpha", got)
    }
    if got := os.Getenv("BAR"); got != "beta" {
        t.Fatalf("BAR=%q, want beta", got)
    }
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
    t.Setenv("K", "")
    dir := t.TempDir()
    a := filepath.Join(dir, ".env.a")
    b := filepath.Join(dir, ".env.b")
    if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil { t.Fatalf("write a: %v", err) }
    if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil { t.Fatalf("write b: %v", err) }

    if err := LoadEnvFiles(a, filepath.Join(dir, "missing.env"), b); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    if got := os.Getenv("K"); got != "second" {
        t.Fatalf("override order failed: got %q, want second", got)
    }
}

func TestApplyEnvToConfig_FromEnv(t *testing.T) {
    t.Setenv("LABELFLAT_PRODUCT", "LINUREX 50 WP")
    t.Setenv("LABELFLAT_DEBUG", "yes")
    t.Setenv("LABELFLAT_DEBUG_FORMATS", "xlsx,pdf")
    t.Setenv("LABELFLAT_BATCH_LIMIT", "8")
    t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
    t.Setenv("VERBOSE", "0")

    var cfg Config
    ApplyEnvToConfig(&cfg)
    if cfg.Product != "LINUREX 50 WP" {
        t.Fatalf("Product=%q", cfg.Product)
    }
    if !cfg.Debug {
        t.Fatalf("expected Debug from env")
    }
    if len(cfg.DebugFormats) != 2 || cfg.DebugFormats[0] != export.XLSX || cfg.DebugFormats[1] != export.PDF {
        t.Fatalf("DebugFormats=%v", cfg.DebugFormats)
    }
    if cfg.BatchLimit != 8 || cfg.ListenAddr != "127.0.0.1:9000" {
        t.Fatalf("service settings not applied: %+v", cfg)
    }
    if cfg.Verbose {
        t.Fatalf("VERBOSE=0 must not enable verbose")
    }
}

// Explicit values (flags) win over env.
func TestApplyEnvToConfig_FlagsTakePrecedence(t *testing.T) {
    t.Setenv("LABELFLAT_PRODUCT", "FROM ENV")
    t.Setenv("LABELFLAT_BATCH_LIMIT", "not-a-number")
    cfg := Config{Product: "FROM FLAG"}
    ApplyEnvToConfig(&cfg)
    if cfg.Product != "FROM FLAG" {
        t.Fatalf("Product=%q, want FROM FLAG", cfg.Product)
    }
    if cfg.BatchLimit != 0 {
        t.Fatalf("malformed env must be ignored, got %d", cfg.BatchLimit)
    }
}

func TestApplyEnvToConfig_Cache(t *testing.T) {
    t.Setenv("LABELFLAT_CACHE_DIR", "/tmp/labelflat-cache")
    t.Setenv("LABELFLAT_CACHE_MAX_AGE", "2h")
    t.Setenv("LABELFLAT_CACHE_STRICT_PERMS", "true")
    var cfg Config
    ApplyEnvToConfig(&cfg)
    if cfg.CacheDir != "/tmp/labelflat-cache" || cfg.CacheMaxAge != 2*time.Hour || !cfg.CacheStrictPerms {
        t.Fatalf("cache settings not applied: %+v", cfg)
    }

    t.Setenv("LABELFLAT_CACHE_MAX_AGE", "soon")
    cfg = Config{}
    ApplyEnvToConfig(&cfg)
    if cfg.CacheMaxAge != 0 {
        t.Fatalf("malformed duration must be ignored, got %v", cfg.CacheMaxAge)
    }
}
