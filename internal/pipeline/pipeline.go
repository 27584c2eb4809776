// Package pipeline converts raw table markup into a single herbicide usage
// document: tokenize, flatten, extract, assemble.
package pipeline

import (
	"errors"

	"github.com/hyperifyio/labelflat/internal/fields"
	"github.com/hyperifyio/labelflat/internal/grid"
	"github.com/hyperifyio/labelflat/internal/htmltable"
	"github.com/hyperifyio/labelflat/internal/schema"
)

var (
	// ErrNoTables is returned when the input holds no table markup.
	ErrNoTables = errors.New("no tables found")
	// ErrNoSchemas is returned when no table produced any instruction.
	ErrNoSchemas = errors.New("no valid schemas generated")
)

// TableResult is the outcome for one parsed table.
type TableResult struct {
	// Fragment is the 0-based index of the markup fragment the table came
	// from; Part is its 0-based position inside that fragment.
	Fragment int
	Part     int

	Grid         grid.Grid
	Stats        grid.Stats
	Instructions []schema.Instruction
}

// Empty reports whether the table flattened to nothing.
func (t TableResult) Empty() bool { return t.Grid.Rows() == 0 }

// Result holds the merged document and the per-table intermediate results.
type Result struct {
	Document schema.Document
	Tables   []TableResult
}

// Convert runs every fragment through the pipeline. Each table is handled
// independently and yields its own partial document; documents with at least
// one instruction are merged in encounter order. Convert returns
// ErrNoTables for an empty fragment list and ErrNoSchemas, together with the
// per-table results, when nothing could be extracted.
func Convert(fragments []string, info schema.RunInfo) (Result, error) {
	if len(fragments) == 0 {
		return Result{}, ErrNoTables
	}
	var (
		res  Result
		docs []schema.Document
	)
	for i, markup := range fragments {
		for part, table := range htmltable.Parse(markup) {
			tr := TableResult{Fragment: i, Part: part, Grid: grid.Flatten(table)}
			if !tr.Empty() {
				tr.Stats = grid.Inspect(table)
				tr.Instructions = fields.Extract(tr.Grid)
			}
			res.Tables = append(res.Tables, tr)
			if len(tr.Instructions) > 0 {
				docs = append(docs, schema.Assemble(tr.Instructions, info))
			}
		}
	}
	doc, ok := schema.Merge(docs)
	if !ok {
		return res, ErrNoSchemas
	}
	res.Document = doc
	return res, nil
}
