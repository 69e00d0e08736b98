package tabular

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseSpreadsheet parses an .xlsx/.xls workbook. Only the first sheet is
// read. Cells are returned as raw strings: date cells keep their serial
// number form here and are decoded by the column resolver, so that grouping
// and range tracking see the same value the file carries.
func ParseSpreadsheet(data []byte, hasHeader bool) ([][]string, []string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	var header []string
	var records [][]string
	for _, rec := range rows {
		if isEmptyRecord(rec) {
			continue
		}
		if hasHeader && header == nil {
			header = make([]string, len(rec))
			for i, h := range rec {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		records = append(records, rec)
	}

	if header == nil {
		width := 0
		for _, rec := range records {
			if len(rec) > width {
				width = len(rec)
			}
		}
		header = make([]string, width)
		for i := range header {
			header[i] = fmt.Sprintf("col%d", i+1)
		}
	}

	return records, header, nil
}
