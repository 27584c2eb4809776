// Package htmltable groups the markup events of <table>/<tr>/<td> elements
// into tables of rows of span-annotated cells.
package htmltable

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Cell is one <td> as it appears in markup, before span expansion.
type Cell struct {
	Content string
	RowSpan int
	ColSpan int
}

// Row holds the cells of one <tr> in source order. A row with merged cells
// has fewer entries than the table's logical column count.
type Row []Cell

// Table holds rows in source order.
type Table []Row

// parser tracks nesting strictly by tag name. Close tags that do not match
// the current state are ignored.
type parser struct {
	tables []Table

	table Table
	row   Row
	text  strings.Builder
	attrs []html.Attribute

	inTable bool
	inRow   bool
	inCell  bool
}

// Parse returns every non-empty table found in markup, in document order.
// It never fails: malformed nesting is tolerated and stray close tags are
// no-ops.
func Parse(markup string) []Table {
	z := html.NewTokenizer(strings.NewReader(markup))
	p := &parser{}
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF; reading from a string cannot fail otherwise.
			return p.tables
		case html.StartTagToken:
			tok := z.Token()
			p.start(tok.Data, tok.Attr)
		case html.EndTagToken:
			tok := z.Token()
			p.end(tok.Data)
		case html.SelfClosingTagToken:
			tok := z.Token()
			p.start(tok.Data, tok.Attr)
			p.end(tok.Data)
		case html.TextToken:
			if p.inCell {
				p.text.Write(z.Text())
			}
		}
	}
}

func (p *parser) start(tag string, attrs []html.Attribute) {
	switch tag {
	case "table":
		p.inTable = true
		p.table = nil
	case "tr":
		if !p.inTable {
			return
		}
		p.inRow = true
		p.row = nil
	case "td":
		if !p.inRow {
			return
		}
		p.inCell = true
		p.text.Reset()
		p.attrs = attrs
	}
}

func (p *parser) end(tag string) {
	switch tag {
	case "table":
		if len(p.table) > 0 {
			p.tables = append(p.tables, p.table)
		}
		p.inTable = false
		p.table = nil
	case "tr":
		if !p.inRow {
			return
		}
		if len(p.row) > 0 {
			p.table = append(p.table, p.row)
		}
		p.inRow = false
		p.row = nil
	case "td":
		if !p.inCell {
			return
		}
		p.row = append(p.row, Cell{
			Content: cleanText(p.text.String()),
			RowSpan: spanAttr(p.attrs, "rowspan"),
			ColSpan: spanAttr(p.attrs, "colspan"),
		})
		p.inCell = false
		p.text.Reset()
		p.attrs = nil
	}
}

func cleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// spanAttr reads a span attribute, falling back to 1 when it is missing,
// non-numeric or not positive.
func spanAttr(attrs []html.Attribute, key string) int {
	for _, a := range attrs {
		if a.Key != key {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(a.Val))
		if err != nil || n < 1 {
			return 1
		}
		return n
	}
	return 1
}
