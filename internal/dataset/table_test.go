package dataset

import (
	"math"
	"testing"
)

func TestNew_TypeInference(t *testing.T) {
	tbl := New(
		[]string{"BRAND", "NSQTY", "NSAMT", "MIXED", "EMPTY"},
		[][]string{
			{"Acme", "10", "1,234.50", "12", ""},
			{"Zen", "5", "99", "abc", ""},
			{"Acme", "", "nan", "7", ""},
		},
	)

	tests := []struct {
		name string
		want Kind
	}{
		{"BRAND", Categorical},
		{"NSQTY", Numeric},
		{"NSAMT", Numeric},
		{"MIXED", Categorical}, // one non-numeric cell makes the whole column categorical
		{"EMPTY", Numeric},     // all-null columns classify as numeric
	}
	for _, tt := range tests {
		kind, ok := tbl.ColumnKind(tt.name)
		if !ok {
			t.Fatalf("column %q missing", tt.name)
		}
		if kind != tt.want {
			t.Errorf("column %q: expected kind %v, got %v", tt.name, tt.want, kind)
		}
	}

	// Comma-grouped numbers parse as plain floats
	if got := tbl.Number("NSAMT", 0); got != 1234.5 {
		t.Errorf("expected 1234.5, got %v", got)
	}

	// NA tokens read as missing
	if !math.IsNaN(tbl.Number("NSAMT", 2)) {
		t.Error("expected NaN for a nan cell")
	}
	if !math.IsNaN(tbl.Number("NSQTY", 2)) {
		t.Error("expected NaN for an empty cell")
	}
}

func TestNew_ShortRecords(t *testing.T) {
	tbl := New(
		[]string{"A", "B", "C"},
		[][]string{
			{"x", "1", "2"},
			{"y"},
		},
	)

	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if !math.IsNaN(tbl.Number("B", 1)) {
		t.Error("short record should null-fill missing cells")
	}
	if _, ok := tbl.Category("A", 1); !ok {
		t.Error("present cell should stay valid")
	}
}

func TestNew_DuplicateHeaders(t *testing.T) {
	tbl := New(
		[]string{"X", "X"},
		[][]string{{"a", "b"}},
	)

	cols := tbl.Columns()
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(cols))
	}
	if cols[0].Name != "X" || cols[1].Name != "X.1" {
		t.Errorf("expected X and X.1, got %q and %q", cols[0].Name, cols[1].Name)
	}
	if v, _ := tbl.Category("X.1", 0); v != "b" {
		t.Errorf("expected second column value b, got %q", v)
	}
}

func TestTable_NullDistinctFromBlankString(t *testing.T) {
	tbl := New(
		[]string{"COLOR", "QTY"},
		[][]string{
			{"red x", "1"}, // literal text keeps its spaces trimmed only at the ends
			{"", "2"},
			{"null", "3"},
		},
	)

	if v, ok := tbl.Category("COLOR", 0); !ok || v != "red x" {
		t.Errorf("expected red x, got %q (ok=%v)", v, ok)
	}
	for i := 1; i <= 2; i++ {
		if _, ok := tbl.Category("COLOR", i); ok {
			t.Errorf("row %d: expected null category", i)
		}
	}
}

func TestTable_Candidates(t *testing.T) {
	tbl := New(
		[]string{"BRAND", "QTY", SourceColumn},
		[][]string{{"Acme", "1", "a.csv"}},
	)

	dims := tbl.Dimensions()
	if len(dims) != 1 || dims[0] != "BRAND" {
		t.Errorf("expected dimensions [BRAND], got %v", dims)
	}
	measures := tbl.Measures()
	if len(measures) != 1 || measures[0] != "QTY" {
		t.Errorf("expected measures [QTY], got %v", measures)
	}

	// The source tag stays addressable even though it is not a candidate
	if !tbl.HasColumn(SourceColumn) {
		t.Error("source column should exist")
	}
}

func TestTable_Cell(t *testing.T) {
	tbl := New(
		[]string{"BRAND", "QTY", "AMT"},
		[][]string{
			{"Acme", "12", "12.5"},
			{"", "", ""},
		},
	)

	if v, ok := tbl.Cell("BRAND", 0); !ok || v != "Acme" {
		t.Errorf("expected Acme, got %q", v)
	}
	if v, ok := tbl.Cell("QTY", 0); !ok || v != "12" {
		t.Errorf("expected 12, got %q", v)
	}
	if v, ok := tbl.Cell("AMT", 0); !ok || v != "12.5" {
		t.Errorf("expected 12.5, got %q", v)
	}
	if _, ok := tbl.Cell("BRAND", 1); ok {
		t.Error("null cell should not be ok")
	}
	if _, ok := tbl.Cell("QTY", 1); ok {
		t.Error("missing numeric cell should not be ok")
	}
}

func TestTable_OutOfRange(t *testing.T) {
	tbl := New([]string{"A"}, [][]string{{"x"}})

	if _, ok := tbl.Category("A", 5); ok {
		t.Error("out of range read should not be ok")
	}
	if !math.IsNaN(tbl.Number("missing", 0)) {
		t.Error("unknown column should read as NaN")
	}
}
