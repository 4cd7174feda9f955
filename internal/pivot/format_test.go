package pivot

import (
	"math"
	"testing"
)

func TestIndianInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"three digits stay plain", 950, "950"},
		{"four digits", 1000, "1,000"},
		{"lakh boundary", 100000, "1,00,000"},
		{"seven digits", 1234567, "12,34,567"},
		{"crore scale", 123456789, "12,34,56,789"},
		{"zero", 0, "0"},
		{"negative", -1234567, "-12,34,567"},
		{"half rounds away from zero", 12.5, "13"},
		{"negative half rounds away from zero", -12.5, "-13"},
		{"rounds toward zero below half", -0.4, "0"},
		{"undefined value", Value{}, ""},
		{"nil", nil, ""},
		{"nan", math.NaN(), ""},
		{"numeric string", "120", "120"},
		{"non-numeric falls back to text", "Acme", "Acme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndianInt(tt.in); got != tt.want {
				t.Errorf("IndianInt(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIndianMoney(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"four digit amount", 1234.5, "1,234.50"},
		{"integral keeps decimals", 150, "150.00"},
		{"zero", 0, "0.00"},
		{"three digit integer part ungrouped", 999.99, "999.99"},
		{"lakh scale", 1234567.891, "12,34,567.89"},
		{"negative", -1234.5, "-1,234.50"},
		{"negative three digit amount", -999.99, "-999.99"},
		{"tiny negative rounds to unsigned zero", -0.001, "0.00"},
		{"undefined value", Value{}, ""},
		{"non-numeric falls back to text", "n/a", "n/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndianMoney(tt.in); got != tt.want {
				t.Errorf("IndianMoney(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"rounds down", 33.4, "33%"},
		{"half rounds away from zero", 33.5, "34%"},
		{"negative half rounds away from zero", -33.5, "-34%"},
		{"zero", 0, "0%"},
		{"over hundred", 250.0, "250%"},
		{"undefined value", Value{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.in); got != tt.want {
				t.Errorf("Percent(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"no grouping", 1234567, "1234567"},
		{"rounds", 12.4, "12"},
		{"negative", -7.5, "-8"},
		{"undefined value", Value{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainInt(tt.in); got != tt.want {
				t.Errorf("PlainInt(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNum_NormalizesNonFinite(t *testing.T) {
	if Num(math.NaN()).Valid {
		t.Error("NaN should normalize to undefined")
	}
	if Num(math.Inf(1)).Valid || Num(math.Inf(-1)).Valid {
		t.Error("infinities should normalize to undefined")
	}
	if v := Num(1.5); !v.Valid || v.Float != 1.5 {
		t.Errorf("expected defined 1.5, got %+v", v)
	}
}

func TestFormatCell_ColumnRules(t *testing.T) {
	v := Num(1234.5)
	tests := []struct {
		col  string
		want string
	}{
		{ColQtyRaw, "1235"},
		{ColInventoryDays, "1235"},
		{ColSaleAmt, "1,234.50"},
		{ColMarginPct, "1235%"},
		{ColSellThroughPct, "1235%"},
		{ColSaleQty, "1,235"},
	}
	for _, tt := range tests {
		if got := FormatCell(tt.col, v); got != tt.want {
			t.Errorf("FormatCell(%q) = %q, want %q", tt.col, got, tt.want)
		}
	}

	// Undefined renders empty for every column rule
	for _, col := range MetricOrder {
		if got := FormatCell(col, Value{}); got != "" {
			t.Errorf("FormatCell(%q, undefined) = %q, want empty", col, got)
		}
	}
}
