package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hyperifyio/labelflat/internal/grid"
)

const defaultSheet = "Sheet1"

// maxSheetName is Excel's sheet name length limit.
const maxSheetName = 31

// WriteXLSX writes g to a single-sheet workbook named after title. The
// header row is bold and frozen.
func WriteXLSX(w io.Writer, g grid.Grid, title string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(title)
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return err
		}
	}
	for r, row := range g {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if g.Rows() > 0 && g.Cols() > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(g.Cols(), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// sheetName strips characters Excel rejects in sheet names and truncates.
func sheetName(title string) string {
	var b []rune
	for _, r := range title {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		b = append(b, r)
		if len(b) == maxSheetName {
			break
		}
	}
	if len(b) == 0 {
		return defaultSheet
	}
	return string(b)
}
