package importer

import (
	"fmt"

	"github.com/extrame/xls"
)

// ReadXLSRows walks the first sheet of an .xls workbook and returns a
// cell grid with cells at their absolute column positions, so header
// detection and data rows stay aligned. Everything downstream works on
// the grid, keeping the binary format at arm's length.
func ReadXLSRows(path string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
