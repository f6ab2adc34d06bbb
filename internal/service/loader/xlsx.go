package loader

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadSalesXLSX reads the first sheet of a workbook whose header row names
// Date, Category and Sales columns (any order, case-insensitive).
func (s *Service) LoadSalesXLSX(ctx context.Context, r io.Reader) (*Report, error) {
	const op = "service.loader.LoadSalesXLSX"

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidPayload, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPayload)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: read rows: %w", op, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPayload)
	}

	idx := map[string]int{"date": -1, "category": -1, "sales": -1}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[key]; ok {
			idx[key] = i
		}
	}
	for key, i := range idx {
		if i < 0 {
			return nil, fmt.Errorf("%s: %w: missing %q column", op, ErrInvalidPayload, key)
		}
	}

	data := make([]rawSale, 0, len(rows)-1)
	for _, row := range rows[1:] {
		data = append(data, rawSale{
			date:     excelDate(cell(row, idx["date"])),
			category: cell(row, idx["category"]),
			sales:    cell(row, idx["sales"]),
		})
	}

	return s.saveSales(ctx, op, data)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// excelDate converts a raw serial ("45296") to YYYY-MM-DD and leaves text dates alone.
func excelDate(v string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format("2006-01-02")
}
