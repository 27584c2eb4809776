package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/labelflat/internal/export"
	"github.com/hyperifyio/labelflat/internal/pipeline"
	"github.com/hyperifyio/labelflat/internal/schema"
	"github.com/hyperifyio/labelflat/internal/source"
	"github.com/hyperifyio/labelflat/internal/validate"
)

// Sentinel errors surfaced to the CLI. Each maps to a non-zero exit.
var (
	ErrUnsupportedInput = source.ErrUnsupportedInput
	ErrNoTables         = pipeline.ErrNoTables
	ErrNoSchemas        = pipeline.ErrNoSchemas
)

type App struct {
	cfg Config
	now func() time.Time
}

// Summary describes a finished run.
type Summary struct {
	Fragments    int
	Tables       int
	Instructions int
	// Exports lists debug files written; ExportErrors the ones that failed.
	Exports      []string
	ExportErrors []error
	// Issues are sanity findings on the written document.
	Issues []validate.Issue
}

func New(cfg Config) (*App, error) {
	ApplyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &App{cfg: cfg, now: time.Now}, nil
}

func (a *App) runInfo() schema.RunInfo {
	date := a.cfg.Date
	if date.IsZero() {
		date = a.now()
	}
	return schema.RunInfo{SourceFile: a.cfg.InputPath, Product: a.cfg.Product, Date: date}
}

// Run converts the configured input into the output document. Nothing is
// written to OutputPath unless the whole conversion succeeds; debug exports
// are written for every processed table even when it does not.
func (a *App) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	// 1) Load table fragments
	start := time.Now()
	fragments, kind, err := source.Load(a.cfg.InputPath)
	if err != nil {
		return sum, fmt.Errorf("load input: %w", err)
	}
	sum.Fragments = len(fragments)
	log.Info().Str("stage", "load").Str("input", a.cfg.InputPath).Str("kind", string(kind)).
		Int("tables", len(fragments)).Int64("elapsed", time.Since(start).Milliseconds()).Msg("extracted table markup")
	if len(fragments) == 0 {
		return sum, ErrNoTables
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	// 2) Parse, flatten and extract
	start = time.Now()
	res, convErr := pipeline.Convert(fragments, a.runInfo())
	sum.Tables = len(res.Tables)
	for _, t := range res.Tables {
		if t.Empty() {
			log.Warn().Str("stage", "flatten").Int("table", t.Fragment+1).Msg("empty table, skipping")
			continue
		}
		if t.Stats.Malformed() {
			log.Debug().Str("stage", "flatten").Int("table", t.Fragment+1).
				Int("dropped_cells", t.Stats.DroppedCells).Int("unfilled_slots", t.Stats.UnfilledSlots).
				Msg("table did not tile its grid")
		}
		log.Info().Str("stage", "extract").Int("table", t.Fragment+1).Int("part", t.Part+1).
			Int("rows", t.Grid.Rows()).Int("cols", t.Grid.Cols()).Int("instructions", len(t.Instructions)).Msg("flattened table")
	}
	log.Debug().Str("stage", "extract").Int64("elapsed", time.Since(start).Milliseconds()).Msg("conversion done")

	// 3) Optional debug exports
	if a.cfg.Debug {
		sum.Exports, sum.ExportErrors = a.exportTables(res.Tables)
	}

	if convErr != nil {
		return sum, convErr
	}
	sum.Instructions = len(res.Document.Instructions)

	// 4) Sanity check; findings are warnings only
	sum.Issues = validate.Document(res.Document)
	for _, is := range sum.Issues {
		log.Warn().Str("stage", "validate").Int("row", is.Row).Str("field", is.Field).Msg(is.Message)
	}

	// 5) Write output
	if err := writeDocument(a.cfg.OutputPath, res.Document); err != nil {
		return sum, fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("stage", "write").Str("out", a.cfg.OutputPath).Int("instructions", sum.Instructions).Msg("wrote output")
	return sum, nil
}

// exportTables writes each non-empty table in every configured format.
// Failures are logged and returned; they never abort the run.
func (a *App) exportTables(tables []pipeline.TableResult) ([]string, []error) {
	var (
		written []string
		errs    []error
	)
	for _, t := range tables {
		if t.Empty() {
			continue
		}
		title := fmt.Sprintf("%s table %d", filepath.Base(a.cfg.InputPath), t.Fragment+1)
		for _, f := range a.cfg.DebugFormats {
			p := export.FileName(a.cfg.OutputPath, t.Fragment, t.Part, f)
			if err := export.WriteFile(p, f, t.Grid, title); err != nil {
				log.Warn().Str("stage", "export").Err(err).Str("path", p).Msg("debug export failed")
				errs = append(errs, err)
				continue
			}
			log.Info().Str("stage", "export").Str("path", p).Msg("wrote debug export")
			written = append(written, p)
		}
	}
	return written, errs
}
