package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/labelflat/internal/export"
)

// DefaultListenAddr is used by the HTTP service when nothing else is set.
const DefaultListenAddr = ":8080"

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
    Input   string `yaml:"input" json:"input"`
    Output  string `yaml:"output" json:"output"`
    Product string `yaml:"product" json:"product"`
    Verbose bool   `yaml:"verbose" json:"verbose"`
    // Date is YYYY-MM-DD.
    Date string `yaml:"date" json:"date"`

    Debug struct {
        Enable  bool     `yaml:"enable" json:"enable"`
        Formats []string `yaml:"formats" json:"formats"`
    } `yaml:"debug" json:"debug"`

    Server struct {
        Listen     string `yaml:"listen" json:"listen"`
        BatchLimit int    `yaml:"batchLimit" json:"batchLimit"`
        CacheDir   string `yaml:"cacheDir" json:"cacheDir"`
        // CacheMaxAge is a Go duration such as 72h.
        CacheMaxAge string `yaml:"cacheMaxAge" json:"cacheMaxAge"`
        CacheStrictPerms bool `yaml:"cacheStrictPerms" json:"cacheStrictPerms"`
    } `yaml:"server" json:"server"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg, so explicit flags and env keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
    if cfg == nil { return nil }

    if cfg.InputPath == "" && fc.Input != "" { cfg.InputPath = fc.Input }
    if cfg.OutputPath == "" && fc.Output != "" { cfg.OutputPath = fc.Output }
    if cfg.Product == "" && fc.Product != "" { cfg.Product = fc.Product }
    if !cfg.Verbose && fc.Verbose { cfg.Verbose = true }
    if !cfg.Debug && fc.Debug.Enable { cfg.Debug = true }
    if len(cfg.DebugFormats) == 0 && len(fc.Debug.Formats) > 0 {
        formats, err := export.ParseFormats(strings.Join(fc.Debug.Formats, ","))
        if err != nil {
            return fmt.Errorf("config: debug.formats: %w", err)
        }
        cfg.DebugFormats = formats
    }
    if cfg.Date.IsZero() && fc.Date != "" {
        d, err := ParseDate(fc.Date)
        if err != nil {
            return fmt.Errorf("config: date: %w", err)
        }
        cfg.Date = d
    }
    if cfg.ListenAddr == "" && fc.Server.Listen != "" { cfg.ListenAddr = fc.Server.Listen }
    if cfg.BatchLimit == 0 && fc.Server.BatchLimit > 0 { cfg.BatchLimit = fc.Server.BatchLimit }
    if cfg.CacheDir == "" && fc.Server.CacheDir != "" { cfg.CacheDir = fc.Server.CacheDir }
    if !cfg.CacheStrictPerms && fc.Server.CacheStrictPerms { cfg.CacheStrictPerms = true }
    if cfg.CacheMaxAge == 0 && fc.Server.CacheMaxAge != "" {
        d, err := time.ParseDuration(fc.Server.CacheMaxAge)
        if err != nil {
            return fmt.Errorf("config: server.cacheMaxAge: %w", err)
        }
        cfg.CacheMaxAge = d
    }
    return nil
}

// ValidateConfig performs minimal validation of the settings a conversion run
// needs.
func ValidateConfig(cfg Config) error {
    if strings.TrimSpace(cfg.InputPath) == "" {
        return errors.New("config: input path is required")
    }
    if strings.TrimSpace(cfg.OutputPath) == "" {
        return errors.New("config: output path is required (-o/--output)")
    }
    if filepath.Clean(cfg.InputPath) == filepath.Clean(cfg.OutputPath) {
        return errors.New("config: output path must differ from input path")
    }
    if cfg.BatchLimit < 0 {
        return errors.New("config: negative batch limit is not allowed")
    }
    if cfg.CacheMaxAge < 0 {
        return errors.New("config: negative cache max age is not allowed")
    }
    return nil
}
