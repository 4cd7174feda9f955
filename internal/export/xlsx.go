package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/AMANSINGH8797/retail-pivot/internal/pivot"
)

const sheetName = "Pivot"

// Filename returns the timestamped workbook name for one export.
func Filename(now time.Time) string {
	return "pivot_" + now.Format("20060102_150405") + ".xlsx"
}

// WriteXLSX writes the raw pivot to an .xlsx workbook: one header row, one
// row per group, the grand total last. Cells carry exact numeric values
// rather than display strings, and undefined metrics stay empty.
func WriteXLSX(path string, pt *pivot.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"EEF3FF"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "CFD8E3", Style: 2}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, col := range pt.Columns {
		f.SetCellValue(sheetName, cellName(i+1, 1), col)
	}
	f.SetCellStyle(sheetName, "A1", cellName(len(pt.Columns), 1), headerStyle)

	for rowIdx, rec := range pt.Records() {
		rowNum := rowIdx + 2
		for i, col := range pt.Columns {
			v, ok := rec[col]
			if !ok || v == nil {
				continue
			}
			f.SetCellValue(sheetName, cellName(i+1, rowNum), v)
		}
	}

	// Keep the header visible and give the label column room
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(sheetName, "A", "A", 36)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
