// Package source pulls raw <table> markup out of layout-extraction outputs:
// MinerU markdown files and middle.json page layouts.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Kind is the input format of a source file.
type Kind string

const (
	KindMarkdown   Kind = "markdown"
	KindMiddleJSON Kind = "middle_json"
)

// ErrUnsupportedInput is returned for files that are neither .md nor .json.
var ErrUnsupportedInput = errors.New("input must be .json or .md")

var tableRe = regexp.MustCompile(`(?is)<table\b[^>]*>.*?</table>`)

// FromMarkdown returns every <table>...</table> substring in document order.
func FromMarkdown(content string) []string {
	return tableRe.FindAllString(content, -1)
}

type layoutDet struct {
	CategoryType string  `json:"category_type"`
	HTML         *string `json:"html"`
}

type page struct {
	LayoutDets []layoutDet `json:"layout_dets"`
}

// FromMiddleJSON returns the html of every layout entry categorized as a
// table, in page order. The document must be a JSON array of pages.
func FromMiddleJSON(data []byte) ([]string, error) {
	var pages []page
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("parse middle json: %w", err)
	}
	var out []string
	for _, p := range pages {
		for _, det := range p.LayoutDets {
			if det.CategoryType == "table" && det.HTML != nil {
				out = append(out, *det.HTML)
			}
		}
	}
	return out, nil
}

// Parse extracts table fragments from content of the given kind.
func Parse(kind Kind, content []byte) ([]string, error) {
	switch kind {
	case KindMarkdown:
		return FromMarkdown(string(content)), nil
	case KindMiddleJSON:
		return FromMiddleJSON(content)
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrUnsupportedInput, kind)
}

// KindOf picks the input kind from a file extension.
func KindOf(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return KindMarkdown, nil
	case ".json":
		return KindMiddleJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
}

// Load reads path and extracts its table fragments.
func Load(path string) ([]string, Kind, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, kind, fmt.Errorf("read input: %w", err)
	}
	tables, err := Parse(kind, b)
	if err != nil {
		return nil, kind, err
	}
	return tables, kind, nil
}
