package htmltable

import (
	"reflect"
	"testing"
)

func TestParse_SpansAndInlineMarkup(t *testing.T) {
	markup := `<table>
      <tr><td>Cultivo</td><td colspan="2">Dosis <b>(L/ha)</b></td></tr>
      <tr><td rowspan="2"> Maíz </td><td>1,0</td><td>1,5</td></tr>
      <tr><td>2,0</td><td>2,5</td></tr>
    </table>`

	tables := Parse(markup)
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	want := Table{
		{{"Cultivo", 1, 1}, {"Dosis (L/ha)", 1, 2}},
		{{"Maíz", 2, 1}, {"1,0", 1, 1}, {"1,5", 1, 1}},
		{{"2,0", 1, 1}, {"2,5", 1, 1}},
	}
	if !reflect.DeepEqual(tables[0], want) {
		t.Fatalf("unexpected table:\n got %#v\nwant %#v", tables[0], want)
	}
}

func TestParse_MultipleTablesInOrder(t *testing.T) {
	markup := `<table><tr><td>a</td></tr></table><p>text</p><table><tr><td>b</td></tr></table>`
	tables := Parse(markup)
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[0][0][0].Content != "a" || tables[1][0][0].Content != "b" {
		t.Fatalf("tables out of order: %#v", tables)
	}
}

func TestParse_BadSpanAttributesFallBackToOne(t *testing.T) {
	markup := `<table><tr><td rowspan="x" colspan="0">a</td><td colspan="-3">b</td><td rowspan=" 3 ">c</td></tr></table>`
	tables := Parse(markup)
	row := tables[0][0]
	if row[0].RowSpan != 1 || row[0].ColSpan != 1 {
		t.Fatalf("expected defaults for non-numeric/zero spans, got %+v", row[0])
	}
	if row[1].ColSpan != 1 {
		t.Fatalf("expected default for negative colspan, got %+v", row[1])
	}
	if row[2].RowSpan != 3 {
		t.Fatalf("expected padded rowspan to parse as 3, got %+v", row[2])
	}
}

func TestParse_DropsEmptyRowsAndTables(t *testing.T) {
	markup := `<table><tr></tr><tr><td>x</td></tr><tr> </tr></table><table></table>`
	tables := Parse(markup)
	if len(tables) != 1 {
		t.Fatalf("expected empty table to be dropped, got %d tables", len(tables))
	}
	if len(tables[0]) != 1 {
		t.Fatalf("expected cell-less rows to be dropped, got %d rows", len(tables[0]))
	}
}

func TestParse_ToleratesStrayCloseTags(t *testing.T) {
	markup := `</td></tr><table></td><tr><td>a</td></td></tr></tr></table></table>`
	tables := Parse(markup)
	if len(tables) != 1 || len(tables[0]) != 1 || len(tables[0][0]) != 1 {
		t.Fatalf("unexpected structure: %#v", tables)
	}
	if tables[0][0][0].Content != "a" {
		t.Fatalf("got %q, want a", tables[0][0][0].Content)
	}
}

func TestParse_IgnoresCellsOutsideRowsAndRowsOutsideTables(t *testing.T) {
	markup := `<tr><td>orphan</td></tr><td>loose</td><table><td>no row</td><tr><td>ok</td></tr></table>`
	tables := Parse(markup)
	if len(tables) != 1 || len(tables[0]) != 1 {
		t.Fatalf("unexpected structure: %#v", tables)
	}
	if got := tables[0][0][0].Content; got != "ok" {
		t.Fatalf("got %q, want ok", got)
	}
}

func TestParse_DecodesEntitiesAndNormalizesNFC(t *testing.T) {
	markup := "<table><tr><td>Mai\u0301z &amp; Trigo</td><td/></tr></table>"
	tables := Parse(markup)
	row := tables[0][0]
	if row[0].Content != "Maíz & Trigo" {
		t.Fatalf("got %q", row[0].Content)
	}
	if len(row) != 2 || row[1].Content != "" {
		t.Fatalf("expected self-closing td to yield an empty cell, got %#v", row)
	}
}

func TestParse_NoTables(t *testing.T) {
	if got := Parse("<p>nothing here</p>"); len(got) != 0 {
		t.Fatalf("expected no tables, got %#v", got)
	}
	if got := Parse(""); len(got) != 0 {
		t.Fatalf("expected no tables for empty input, got %#v", got)
	}
}
