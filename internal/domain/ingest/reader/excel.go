package reader

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first sheet of a modern Excel workbook.
func ReadXLSX(data []byte) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return &Result{Rows: rows}, nil
}

// ReadXLS reads the first sheet of a legacy BIFF workbook. Old exports from
// accounting packages still arrive in this format.
func ReadXLS(data []byte) (*Result, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open legacy workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoSheets
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoSheets
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return &Result{Rows: rows}, nil
}
