// Package grid expands span-annotated tables into dense rectangular grids
// where every row is self-contained.
package grid

import "github.com/hyperifyio/labelflat/internal/htmltable"

// Grid is a rectangular array of cell texts with no spans left. It is built
// once by Flatten and only read afterwards.
type Grid [][]string

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of columns, or 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// slot is one grid position while the grid is being filled. An unfilled
// slot is distinct from a slot filled with an empty string.
type slot struct {
	text   string
	filled bool
}

// Flatten expands merged cells so that each cell's content is repeated into
// every position it covers. The column count is the sum of the first row's
// column spans. Cells that would run past the grid are truncated, cells
// beyond the last column of a row are dropped and positions no span covers
// become "". Flatten never fails; an empty table yields an empty grid.
func Flatten(t htmltable.Table) Grid {
	if len(t) == 0 {
		return Grid{}
	}
	slots, _ := fill(t)
	g := make(Grid, len(slots))
	for r, row := range slots {
		g[r] = make([]string, len(row))
		for c, s := range row {
			// unfilled slots resolve to ""
			g[r][c] = s.text
		}
	}
	return g
}

// Stats describes how well a table's cells tiled its grid.
type Stats struct {
	// DroppedCells counts cells skipped because their row was already full.
	DroppedCells int
	// UnfilledSlots counts grid positions that no cell covered.
	UnfilledSlots int
}

// Malformed reports whether the table did not tile its grid exactly.
func (s Stats) Malformed() bool { return s.DroppedCells > 0 || s.UnfilledSlots > 0 }

// Inspect runs the same fill as Flatten and reports the recovery it had to
// apply. The grid itself is unaffected.
func Inspect(t htmltable.Table) Stats {
	if len(t) == 0 {
		return Stats{}
	}
	slots, dropped := fill(t)
	st := Stats{DroppedCells: dropped}
	for _, row := range slots {
		for _, s := range row {
			if !s.filled {
				st.UnfilledSlots++
			}
		}
	}
	return st
}

func numCols(first htmltable.Row) int {
	n := 0
	for _, c := range first {
		n += span(c.ColSpan)
	}
	return n
}

// span guards against cells that were not built by htmltable.Parse.
func span(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// fill lays cells out top to bottom with a per-row column cursor. A cell
// with a row span writes ahead into later rows, so the cursor first skips
// any position an earlier row already claimed.
func fill(t htmltable.Table) ([][]slot, int) {
	rows := len(t)
	cols := numCols(t[0])
	slots := make([][]slot, rows)
	for r := range slots {
		slots[r] = make([]slot, cols)
	}

	dropped := 0
	for r, row := range t {
		col := 0
		for i, cell := range row {
			for col < cols && slots[r][col].filled {
				col++
			}
			if col >= cols {
				dropped += len(row) - i
				break
			}
			rs, cs := span(cell.RowSpan), span(cell.ColSpan)
			for rr := r; rr < min(r+rs, rows); rr++ {
				for cc := col; cc < min(col+cs, cols); cc++ {
					slots[rr][cc] = slot{text: cell.Content, filled: true}
				}
			}
			// advance by the declared span even when the write was truncated
			col += cs
		}
	}
	return slots, dropped
}
