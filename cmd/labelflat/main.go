package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/labelflat/internal/app"
	"github.com/hyperifyio/labelflat/internal/export"
)

const usage = `Convert MinerU label tables to the herbicide usage JSON schema.

Usage:
  labelflat [flags] <input.md|input_middle.json> -o <output.json>

Examples:
  labelflat document.md -o output.json --product "AFALON 50 SC"
  labelflat path/middle.json -o output.json --product "LINUREX 50 WP" --debug

Flags:
`

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("invalid arguments")
		os.Exit(1)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// parseArgs reads flags, dotenv files, env and an optional config file into a
// Config. Flags win over env, env over the config file. Flags may appear
// before or after the positional input path.
func parseArgs(args []string, stderr io.Writer) (app.Config, error) {
	var (
		cfg         app.Config
		outputPath  string
		formats     string
		date        string
		configPath  string
		envFiles    string
		showVersion bool
	)
	fs := flag.NewFlagSet("labelflat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&outputPath, "o", "", "Output JSON file (required)")
	fs.StringVar(&outputPath, "output", "", "Output JSON file (required)")
	fs.StringVar(&cfg.Product, "product", "", "Product name")
	fs.BoolVar(&cfg.Debug, "debug", false, "Save flattened tables next to the output for debugging")
	fs.StringVar(&formats, "debug.formats", "", "Comma-separated debug export formats: csv, xlsx, pdf (default csv)")
	fs.StringVar(&date, "date", "", "Processing date YYYY-MM-DD (default today)")
	fs.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	fs.StringVar(&envFiles, "env-file", ".env", "Comma-separated dotenv files to load")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return cfg, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if showVersion {
		fmt.Fprintln(stderr, app.VersionString())
		return cfg, flag.ErrHelp
	}
	if len(positional) > 1 {
		return cfg, fmt.Errorf("expected one input file, got %d", len(positional))
	}
	if len(positional) == 1 {
		cfg.InputPath = positional[0]
	}
	cfg.OutputPath = outputPath

	if s := strings.TrimSpace(formats); s != "" {
		f, err := export.ParseFormats(s)
		if err != nil {
			return cfg, err
		}
		cfg.DebugFormats = f
	}
	if s := strings.TrimSpace(date); s != "" {
		d, err := app.ParseDate(s)
		if err != nil {
			return cfg, fmt.Errorf("invalid --date: %w", err)
		}
		cfg.Date = d
	}

	if err := app.LoadEnvFiles(strings.Split(envFiles, ",")...); err != nil {
		return cfg, fmt.Errorf("load env files: %w", err)
	}
	app.ApplyEnvToConfig(&cfg)

	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	sum, err := a.Run(ctx)
	if err != nil {
		return err
	}
	if len(sum.ExportErrors) > 0 {
		log.Warn().Int("failed", len(sum.ExportErrors)).Msg("some debug exports failed")
	}
	log.Info().Int("tables", sum.Tables).Int("instructions", sum.Instructions).Int("issues", len(sum.Issues)).Msg("done")
	return nil
}
