package pivot

import (
	"math"

	"github.com/AMANSINGH8797/retail-pivot/internal/dataset"
)

// Stable column keys of the pivot table. The export workbook and the JSON
// surface both key rows by these names.
const (
	ColRow            = "Row"
	ColQtyRaw         = "QY-2"
	ColMarginPct      = "Sum of Net Margin %"
	ColSaleAmt        = "Sum of Net Sale Amt"
	ColSellThroughPct = "Sum of Sell Through %"
	ColInventoryDays  = "Sum of Inventory Days"
	ColSaleQty        = "Sum of Net Sale Qty"
)

// MetricOrder fixes the column order. Metrics whose roles were never mapped
// drop out; the relative order never changes.
var MetricOrder = []string{
	ColQtyRaw,
	ColMarginPct,
	ColSaleAmt,
	ColSellThroughPct,
	ColInventoryDays,
	ColSaleQty,
}

// Mapping assigns dataset columns to measure roles. An empty name means the
// role is unmapped: metrics that need it are omitted entirely rather than
// computed as zero.
type Mapping struct {
	OpenQty           string
	SaleQty           string
	SaleAmt           string
	MarginAmt         string
	PurchaseQty       string
	PurchaseReturnQty string
	CloseQty          string
	DailyAvgQty       string
	PeriodDays        string
}

func (m Mapping) columns() []string {
	var out []string
	for _, c := range []string{
		m.OpenQty, m.SaleQty, m.SaleAmt, m.MarginAmt,
		m.PurchaseQty, m.PurchaseReturnQty, m.CloseQty, m.DailyAvgQty, m.PeriodDays,
	} {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// InvDaysMode selects how Sum of Inventory Days is derived.
type InvDaysMode string

const (
	// InvDaysPeriod averages the mapped period-day column.
	InvDaysPeriod InvDaysMode = "period"
	// InvDaysComputed derives days as mean closing stock over mean daily
	// average sales.
	InvDaysComputed InvDaysMode = "computed"
)

// metricsFor computes the pivot metrics over a subset of dataset rows.
// Sums use minimum-count semantics: a sum over zero non-missing cells is
// undefined, never zero. Keys exist exactly for the metrics whose required
// roles are mapped; their values may still be undefined.
func metricsFor(t *dataset.Table, rows []int, m Mapping, mode InvDaysMode) map[string]Value {
	out := make(map[string]Value, len(MetricOrder))

	if m.SaleQty != "" {
		qty := sumMin(t, rows, m.SaleQty)
		out[ColQtyRaw] = qty
		out[ColSaleQty] = qty
	}

	if m.MarginAmt != "" && m.SaleAmt != "" {
		out[ColMarginPct] = ratio(sumMin(t, rows, m.MarginAmt), sumMin(t, rows, m.SaleAmt), 100)
	}

	if m.SaleAmt != "" {
		out[ColSaleAmt] = sumMin(t, rows, m.SaleAmt)
	}

	if m.SaleQty != "" && (m.OpenQty != "" || m.PurchaseQty != "") {
		den := sumOrZero(t, rows, m.OpenQty).
			plus(sumOrZero(t, rows, m.PurchaseQty)).
			minus(sumOrZero(t, rows, m.PurchaseReturnQty))
		out[ColSellThroughPct] = ratio(sumMin(t, rows, m.SaleQty), den, 100)
	}

	switch {
	case mode == InvDaysPeriod && m.PeriodDays != "":
		out[ColInventoryDays] = meanOf(t, rows, m.PeriodDays)
	case mode == InvDaysComputed && m.CloseQty != "" && m.DailyAvgQty != "":
		out[ColInventoryDays] = ratio(meanOf(t, rows, m.CloseQty), meanOf(t, rows, m.DailyAvgQty), 1)
	}

	return out
}

func sumMin(t *dataset.Table, rows []int, col string) Value {
	sum, n := 0.0, 0
	for _, i := range rows {
		v := t.Number(col, i)
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return Value{}
	}
	return Num(sum)
}

// sumOrZero is the sell-through denominator rule: an unmapped role
// contributes zero, a mapped role contributes its sum and may poison the
// denominator with undefined.
func sumOrZero(t *dataset.Table, rows []int, col string) Value {
	if col == "" {
		return Num(0)
	}
	return sumMin(t, rows, col)
}

func meanOf(t *dataset.Table, rows []int, col string) Value {
	sum, n := 0.0, 0
	for _, i := range rows {
		v := t.Number(col, i)
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return Value{}
	}
	return Num(sum / float64(n))
}
