package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/AMANSINGH8797/retail-pivot/internal/pivot"
	"github.com/AMANSINGH8797/retail-pivot/internal/settings"
)

// pivotSignals mirrors the datastar signals the dashboard binds. The JSON
// API accepts the same shape, so both surfaces share one conversion into
// selections.
type pivotSignals struct {
	RowDims        []string `json:"rowDims"`
	YearCol        string   `json:"yearCol"`
	PeriodCol      string   `json:"periodCol"`
	DateCaption    string   `json:"dateCaption"`
	OpenQty        string   `json:"openQty"`
	SaleQty        string   `json:"saleQty"`
	SaleAmt        string   `json:"saleAmt"`
	MarginAmt      string   `json:"marginAmt"`
	PurQty         string   `json:"purQty"`
	PrQty          string   `json:"prQty"`
	CloseQty       string   `json:"closeQty"`
	DavgQty        string   `json:"davgQty"`
	InvDaysFormula string   `json:"invDaysFormula"`
}

func (s pivotSignals) selections() settings.Settings {
	// Multi-select bindings can surface placeholder entries; an empty
	// string is never a real column.
	dims := make([]string, 0, len(s.RowDims))
	for _, d := range s.RowDims {
		if d != "" {
			dims = append(dims, d)
		}
	}

	return settings.Settings{
		RowDims:        dims,
		YearColumn:     s.YearCol,
		PeriodColumn:   s.PeriodCol,
		DateCaption:    s.DateCaption,
		OpenQty:        s.OpenQty,
		SaleQty:        s.SaleQty,
		SaleAmt:        s.SaleAmt,
		MarginAmt:      s.MarginAmt,
		PurchaseQty:    s.PurQty,
		PurchaseRetQty: s.PrQty,
		CloseQty:       s.CloseQty,
		DailyAvgQty:    s.DavgQty,
		InvDaysFormula: s.InvDaysFormula,
	}
}

// signalsFor seeds the dashboard bindings from saved selections.
func signalsFor(sel settings.Settings) pivotSignals {
	return pivotSignals{
		RowDims:        sel.RowDims,
		YearCol:        sel.YearColumn,
		PeriodCol:      sel.PeriodColumn,
		DateCaption:    sel.DateCaption,
		OpenQty:        sel.OpenQty,
		SaleQty:        sel.SaleQty,
		SaleAmt:        sel.SaleAmt,
		MarginAmt:      sel.MarginAmt,
		PurQty:         sel.PurchaseQty,
		PrQty:          sel.PurchaseRetQty,
		CloseQty:       sel.CloseQty,
		DavgQty:        sel.DailyAvgQty,
		InvDaysFormula: sel.InvDaysFormula,
	}
}

type dashboardSignals struct {
	pivotSignals
	Groups      int    `json:"groups"`
	GeneratedAt string `json:"generatedAt"`
	ExportMsg   string `json:"exportMsg"`
}

// DashboardSignals renders the initial datastar signal set for the
// dashboard page, seeded from the given selections.
func DashboardSignals(sel settings.Settings) (string, error) {
	s := dashboardSignals{pivotSignals: signalsFor(sel)}
	if s.RowDims == nil {
		s.RowDims = []string{}
	}
	if s.InvDaysFormula == "" {
		s.InvDaysFormula = string(pivot.InvDaysPeriod)
	}

	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal signals: %w", err)
	}
	return string(b), nil
}
