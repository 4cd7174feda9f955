package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// SourceColumn tags every row with the CSV file it came from. It is part of
// the table but never offered as a grouping dimension.
const SourceColumn = "__source__"

type Kind uint8

const (
	Categorical Kind = iota
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

type Column struct {
	Name string
	Kind Kind
}

// Table is an immutable columnar dataset. Column kinds are inferred once at
// construction; readers never re-infer types. Categorical columns keep null
// distinct from every literal value, numeric columns mark missing cells NaN.
type Table struct {
	cols    []Column
	index   map[string]int
	cats    map[string]catColumn
	nums    map[string][]float64
	rows    int
	sources []string
	loaded  time.Time
}

type catColumn struct {
	vals  []string
	valid []bool
}

// Tokens read as missing values, matching what pandas-style CSV loaders
// treat as NA.
var naTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"NaN":  {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"null": {},
	"NULL": {},
	"None": {},
}

// New builds a table from raw string cells. Cells are trimmed, NA tokens
// become null, and a column is numeric only when every non-null cell parses
// as a number after comma stripping. Short records are null-padded on the
// right. Duplicate header names get a pandas-style ".N" suffix.
func New(headers []string, records [][]string) *Table {
	t := &Table{
		index:  make(map[string]int, len(headers)),
		cats:   make(map[string]catColumn),
		nums:   make(map[string][]float64),
		rows:   len(records),
		loaded: time.Now(),
	}

	for j, name := range headers {
		if _, taken := t.index[name]; taken {
			base := name
			for n := 1; ; n++ {
				name = base + "." + strconv.Itoa(n)
				if _, taken := t.index[name]; !taken {
					break
				}
			}
		}

		vals := make([]string, len(records))
		valid := make([]bool, len(records))
		numeric := true
		for i, rec := range records {
			var cell string
			if j < len(rec) {
				cell = strings.TrimSpace(rec[j])
			}
			if _, na := naTokens[cell]; na {
				continue
			}
			vals[i] = cell
			valid[i] = true
			if numeric {
				if _, ok := parseNumber(cell); !ok {
					numeric = false
				}
			}
		}

		kind := Categorical
		if numeric {
			kind = Numeric
			nums := make([]float64, len(records))
			for i := range records {
				if !valid[i] {
					nums[i] = math.NaN()
					continue
				}
				f, _ := parseNumber(vals[i])
				nums[i] = f
			}
			t.nums[name] = nums
		} else {
			t.cats[name] = catColumn{vals: vals, valid: valid}
		}

		t.index[name] = len(t.cols)
		t.cols = append(t.cols, Column{Name: name, Kind: kind})
	}

	return t
}

// parseNumber parses a cell as a float after stripping thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (t *Table) Len() int { return t.rows }

// Columns returns the ordered schema. The slice is shared; treat it as
// read-only.
func (t *Table) Columns() []Column { return t.cols }

// Dimensions lists the categorical columns offered as grouping candidates.
// The source tag column is excluded.
func (t *Table) Dimensions() []string {
	out := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		if c.Kind == Categorical && c.Name != SourceColumn {
			out = append(out, c.Name)
		}
	}
	return out
}

// Measures lists the numeric columns offered as measure candidates.
func (t *Table) Measures() []string {
	out := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		if c.Kind == Numeric {
			out = append(out, c.Name)
		}
	}
	return out
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) ColumnKind(name string) (Kind, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.cols[i].Kind, true
}

// Category returns the value of a categorical cell; ok is false for null
// cells and for columns that are not categorical.
func (t *Table) Category(name string, i int) (string, bool) {
	col, ok := t.cats[name]
	if !ok || i < 0 || i >= t.rows || !col.valid[i] {
		return "", false
	}
	return col.vals[i], true
}

// Number returns the value of a numeric cell, NaN when the cell is missing
// or the column is not numeric.
func (t *Table) Number(name string, i int) float64 {
	col, ok := t.nums[name]
	if !ok || i < 0 || i >= t.rows {
		return math.NaN()
	}
	return col[i]
}

// Cell returns any cell as display text; ok is false for null cells.
// Numeric cells render with the shortest exact representation.
func (t *Table) Cell(name string, i int) (string, bool) {
	if v, ok := t.Category(name, i); ok {
		return v, true
	}
	if col, ok := t.nums[name]; ok && i >= 0 && i < t.rows && !math.IsNaN(col[i]) {
		return strconv.FormatFloat(col[i], 'f', -1, 64), true
	}
	return "", false
}

func (t *Table) Sources() []string { return t.sources }

func (t *Table) LoadedAt() time.Time { return t.loaded }
