// Package fields maps flattened label-table rows to herbicide usage
// instructions by header keyword matching and free-text parsing.
package fields

import (
	"github.com/hyperifyio/labelflat/internal/grid"
	"github.com/hyperifyio/labelflat/internal/schema"
)

// Extract treats the first grid row as the header and turns every data row
// with a non-blank crop into an instruction. Instructions are numbered from 1
// in row order, counting only emitted rows. Grids with fewer than two rows
// yield nil.
func Extract(g grid.Grid) []schema.Instruction {
	if g.Rows() < 2 {
		return nil
	}
	cols := DetectColumns(g[0])

	out := make([]schema.Instruction, 0, g.Rows()-1)
	for _, row := range g[1:] {
		crop := cols.Text(row, RoleCrop)
		if crop == "" {
			continue
		}
		timing := cols.Text(row, RoleTiming)
		appType := timing
		if appType == "" {
			appType = schema.UnspecifiedApplication
		}
		out = append(out, schema.Instruction{
			ID:              len(out) + 1,
			Crop:            crop,
			ApplicationType: appType,
			Weeds:           ParseWeedList(cols.Text(row, RoleWeeds)),
			Dose:            ParseDose(cols.Text(row, RoleDose)),
			Timing:          schema.Timing{CropStage: timing},
			Remarks:         cols.Text(row, RoleRemarks),
		})
	}
	return out
}
