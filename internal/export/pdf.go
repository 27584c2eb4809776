package export

import (
    "io"

    "github.com/jung-kurt/gofpdf"

    "github.com/hyperifyio/labelflat/internal/grid"
)

// WritePDF renders g as a bordered table on landscape A4 pages with the
// header row in bold. Column widths are split evenly across the page; long
// cell texts are cut to fit. This is a debugging aid, not a layout engine.
func WritePDF(w io.Writer, g grid.Grid, title string) error {
    pdf := gofpdf.New("L", "mm", "A4", "")
    // Core fonts are cp1252; translate UTF-8 so Spanish accents survive.
    tr := pdf.UnicodeTranslatorFromDescriptor("")
    pdf.SetFont("Helvetica", "", 8)
    pdf.AddPage()

    if title != "" {
        pdf.SetFont("Helvetica", "B", 12)
        pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
        pdf.Ln(2)
    }
    if g.Cols() == 0 {
        return pdf.Output(w)
    }

    pageW, _ := pdf.GetPageSize()
    left, _, right, _ := pdf.GetMargins()
    colW := (pageW - left - right) / float64(g.Cols())
    const rowH = 6.0

    for r, row := range g {
        if r == 0 {
            pdf.SetFont("Helvetica", "B", 8)
        } else {
            pdf.SetFont("Helvetica", "", 8)
        }
        for _, v := range row {
            pdf.CellFormat(colW, rowH, fit(pdf, tr(v), colW-2), "1", 0, "L", r == 0, 0, "")
        }
        pdf.Ln(-1)
    }
    return pdf.Output(w)
}

// fit shortens s until it fits width at the current font, marking the cut.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
    if pdf.GetStringWidth(s) <= width {
        return s
    }
    b := []byte(s)
    for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > width {
        b = b[:len(b)-1]
    }
    return string(b) + "..."
}
