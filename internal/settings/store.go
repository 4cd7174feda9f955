package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/AMANSINGH8797/retail-pivot/internal/pivot"
)

// Settings is the persisted record of the last-used selections. The JSON
// keys match the settings.json schema the original desktop tool wrote, so
// an existing file keeps working.
type Settings struct {
	RowDims        []string `json:"row_dims"`
	YearColumn     string   `json:"col_year,omitempty"`
	PeriodColumn   string   `json:"col_period,omitempty"`
	DateCaption    string   `json:"date_caption,omitempty"`
	OpenQty        string   `json:"m_open_qty,omitempty"`
	SaleQty        string   `json:"m_sale_qty,omitempty"`
	SaleAmt        string   `json:"m_sale_amt,omitempty"`
	MarginAmt      string   `json:"m_margin_amt,omitempty"`
	PurchaseQty    string   `json:"m_pur_qty,omitempty"`
	PurchaseRetQty string   `json:"m_pr_qty,omitempty"`
	CloseQty       string   `json:"m_close_qty,omitempty"`
	DailyAvgQty    string   `json:"m_davg_qty,omitempty"`
	InvDaysFormula string   `json:"inv_days_formula,omitempty"`
}

// Request converts the selections into a pivot build request. An absent
// formula defaults to period mode.
func (s Settings) Request() pivot.Request {
	mode := pivot.InvDaysMode(s.InvDaysFormula)
	if mode == "" {
		mode = pivot.InvDaysPeriod
	}
	return pivot.Request{
		Dimensions: s.RowDims,
		Measures: pivot.Mapping{
			OpenQty:           s.OpenQty,
			SaleQty:           s.SaleQty,
			SaleAmt:           s.SaleAmt,
			MarginAmt:         s.MarginAmt,
			PurchaseQty:       s.PurchaseQty,
			PurchaseReturnQty: s.PurchaseRetQty,
			CloseQty:          s.CloseQty,
			DailyAvgQty:       s.DailyAvgQty,
			PeriodDays:        s.PeriodColumn,
		},
		InventoryDays: mode,
	}
}

// Store reads and writes the settings file. Writes are last-writer-wins;
// the mutex only serializes writers within this process.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the saved selections, or the zero value when no file exists
// yet.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var set Settings
	if err := json.Unmarshal(raw, &set); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	return set, nil
}

func (s *Store) Save(set Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
