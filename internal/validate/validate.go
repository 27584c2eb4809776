// Package validate checks an assembled document for values that are legal
// JSON but suspicious for a label, such as inverted dose ranges.
package validate

import (
    "fmt"
    "strings"

    "github.com/hyperifyio/labelflat/internal/schema"
)

// Issue is one finding. Row is the position in instrucciones_uso_desagregadas
// (1-based), or 0 for document-level findings.
type Issue struct {
    Row     int
    Field   string
    Message string
}

func (i Issue) String() string {
    if i.Row == 0 {
        return fmt.Sprintf("%s: %s", i.Field, i.Message)
    }
    return fmt.Sprintf("row %d: %s: %s", i.Row, i.Field, i.Message)
}

// Document returns every issue found in doc, in row order. No issues means
// nil. Findings never block output; callers log them.
func Document(doc schema.Document) []Issue {
    var issues []Issue
    if strings.TrimSpace(doc.Product.TradeName) == "" {
        issues = append(issues, Issue{Field: "nombre_comercial", Message: "product name is empty"})
    }
    prevID := 0
    for i, in := range doc.Instructions {
        row := i + 1
        if strings.TrimSpace(in.Crop) == "" {
            issues = append(issues, Issue{row, "cultivo_autorizado", "crop is empty"})
        }
        // IDs restart at 1 for each merged table and otherwise increase by one.
        if in.ID != 1 && in.ID != prevID+1 {
            issues = append(issues, Issue{row, "id_fila", fmt.Sprintf("id %d does not follow %d", in.ID, prevID)})
        }
        prevID = in.ID
        issues = append(issues, checkDose(row, in.Dose)...)
    }
    return issues
}

func checkDose(row int, d schema.Dose) []Issue {
    var issues []Issue
    if (d.Min == nil) != (d.Max == nil) {
        issues = append(issues, Issue{row, "dosis", "only one bound of the range is set"})
        return issues
    }
    if d.Min == nil {
        if !blank(d.Text) {
            issues = append(issues, Issue{row, "dosis", fmt.Sprintf("could not parse %q", d.Text)})
        }
        return issues
    }
    if *d.Min > *d.Max {
        issues = append(issues, Issue{row, "dosis", fmt.Sprintf("min %g exceeds max %g", *d.Min, *d.Max)})
    }
    if *d.Min < 0 {
        issues = append(issues, Issue{row, "dosis", "negative dose"})
    }
    return issues
}

func blank(s string) bool {
    switch strings.TrimSpace(s) {
    case "", "-", "N/A":
        return true
    }
    return false
}
