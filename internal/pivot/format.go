package pivot

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Value is an explicit optional numeric. The zero Value is undefined, which
// is how a metric with no defined inputs stays distinct from a metric that
// sums to zero.
type Value struct {
	Float float64
	Valid bool
}

// Num wraps a float as a defined Value. NaN and infinities normalize to
// undefined so they never leak into display or export.
func Num(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float: f, Valid: true}
}

func (v Value) plus(w Value) Value {
	if !v.Valid || !w.Valid {
		return Value{}
	}
	return Num(v.Float + w.Float)
}

func (v Value) minus(w Value) Value {
	if !v.Valid || !w.Valid {
		return Value{}
	}
	return Num(v.Float - w.Float)
}

// ratio is num/den scaled, undefined when either side is undefined or the
// denominator is zero.
func ratio(num, den Value, scale float64) Value {
	if !num.Valid || !den.Valid || den.Float == 0 {
		return Value{}
	}
	return Num(num.Float / den.Float * scale)
}

type cellState uint8

const (
	cellEmpty cellState = iota
	cellNumber
	cellText
)

// coerce reads any cell-ish input as a number. Undefined Values, nils and
// NaNs are empty; numeric strings count as numbers; everything else is
// opaque text.
func coerce(v any) (float64, cellState) {
	switch x := v.(type) {
	case nil:
		return 0, cellEmpty
	case Value:
		if !x.Valid || math.IsNaN(x.Float) {
			return 0, cellEmpty
		}
		return x.Float, cellNumber
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, cellEmpty
		}
		return x, cellNumber
	case float32:
		return coerce(float64(x))
	case int:
		return float64(x), cellNumber
	case int64:
		return float64(x), cellNumber
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f, cellNumber
		}
		return 0, cellText
	default:
		return 0, cellText
	}
}

func format(v any, fn func(float64) string) string {
	f, st := coerce(v)
	switch st {
	case cellEmpty:
		return ""
	case cellNumber:
		return fn(f)
	default:
		// Corrupt input degrades to its plain text form.
		return fmt.Sprint(v)
	}
}

// IndianInt rounds half away from zero and applies Indian digit grouping:
// the last three digits, then pairs. 1234567 renders as 12,34,567.
func IndianInt(v any) string { return format(v, indianInt) }

// IndianMoney renders two decimals with Indian grouping on the integer
// part. Integral amounts keep the .00.
func IndianMoney(v any) string { return format(v, indianMoney) }

// Percent rounds to a whole number and appends %.
func Percent(v any) string {
	return format(v, func(f float64) string { return plainInt(f) + "%" })
}

// PlainInt rounds half away from zero with no grouping.
func PlainInt(v any) string { return format(v, plainInt) }

func plainInt(f float64) string {
	r := math.Round(f)
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func indianInt(f float64) string {
	r := math.Round(f)
	if r == 0 {
		return "0"
	}
	s := groupIndian(strconv.FormatFloat(math.Abs(r), 'f', -1, 64))
	if r < 0 {
		s = "-" + s
	}
	return s
}

func indianMoney(f float64) string {
	s := strconv.FormatFloat(math.Abs(f), 'f', 2, 64)
	ip, fp, _ := strings.Cut(s, ".")
	out := groupIndian(ip) + "." + fp
	if f < 0 && s != "0.00" {
		out = "-" + out
	}
	return out
}

// groupIndian inserts separators into a digit string: the rightmost group
// of three, then groups of two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	parts := []string{tail}
	for len(head) > 2 {
		parts = append(parts, head[len(head)-2:])
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append(parts, head)
	}
	slices.Reverse(parts)
	return strings.Join(parts, ",")
}

// FormatCell renders a metric value with the display rule for its column:
// QY-2 and inventory days plain, amounts as money, percent columns with %,
// quantities with Indian grouping.
func FormatCell(col string, v any) string {
	switch col {
	case ColQtyRaw, ColInventoryDays:
		return PlainInt(v)
	case ColSaleAmt:
		return IndianMoney(v)
	case ColMarginPct, ColSellThroughPct:
		return Percent(v)
	default:
		return IndianInt(v)
	}
}
