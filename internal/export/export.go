// Package export writes flattened grids to files for inspection: CSV,
// XLSX workbooks and PDF tables.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/labelflat/internal/grid"
)

// Format is a debug export file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

// ErrUnknownFormat is returned for format names other than csv, xlsx and pdf.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormats parses a comma-separated list such as "csv,xlsx". Duplicates
// are collapsed and an empty list yields CSV only.
func ParseFormats(s string) ([]Format, error) {
	seen := map[Format]bool{}
	var out []Format
	for _, p := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(p)))
		if f == "" {
			continue
		}
		switch f {
		case CSV, XLSX, PDF:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		out = []Format{CSV}
	}
	return out, nil
}

// FileName derives the export path for a table from the main output path by
// replacing its extension: out.json -> out_table1_flattened.csv. fragment
// and part are 0-based; parts after the first get a _<n> suffix.
func FileName(outputPath string, fragment, part int, f Format) string {
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	name := fmt.Sprintf("%s_table%d_flattened", base, fragment+1)
	if part > 0 {
		name += fmt.Sprintf("_%d", part+1)
	}
	return name + "." + string(f)
}

// Write renders g in format f. title is used by formats that carry one.
func Write(w io.Writer, f Format, g grid.Grid, title string) error {
	switch f {
	case CSV:
		return WriteCSV(w, g)
	case XLSX:
		return WriteXLSX(w, g, title)
	case PDF:
		return WritePDF(w, g, title)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// WriteFile writes g to path in format f.
func WriteFile(path string, f Format, g grid.Grid, title string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(out, f, g, title); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// WriteCSV writes one record per grid row.
func WriteCSV(w io.Writer, g grid.Grid) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(g); err != nil {
		return err
	}
	return cw.Error()
}
