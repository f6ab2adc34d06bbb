package generate_excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"sales-dashboard/internal/pivot"
	"sales-dashboard/internal/service/report"
)

const (
	pivotSheet = "Sales Pivot"
	flatSheet  = "Sales Data"
	numFmt     = "#,##0.###"
)

type PivotBuilder interface {
	BuildPivot(ctx context.Context, filter report.Filter) (*report.Pivot, error)
}

type GenerateExcelService struct {
	builder PivotBuilder
}

func NewGenerateService(builder PivotBuilder) *GenerateExcelService {
	return &GenerateExcelService{builder: builder}
}

// GenerateExcel writes the category x month pivot and the flat grouped rows to an xlsx workbook.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, filter report.Filter) ([]byte, error) {
	const op = "service.generate-excel.GenerateExcel"

	p, err := g.builder.BuildPivot(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", pivotSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: styles: %w", op, err)
	}

	if err := writePivot(f, st, p.Result); err != nil {
		return nil, fmt.Errorf("%s: pivot sheet: %w", op, err)
	}
	if err := writeFlat(f, st, p); err != nil {
		return nil, fmt.Errorf("%s: flat sheet: %w", op, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write: %w", op, err)
	}

	return buf.Bytes(), nil
}

type styles struct {
	header int
	number int
	total  int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	format := numFmt

	st.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return st, err
	}

	st.number, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &format,
		Alignment:    &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return st, err
	}

	st.total, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		CustomNumFmt: &format,
		Alignment:    &excelize.Alignment{Horizontal: "center"},
	})
	return st, err
}

func writePivot(f *excelize.File, st styles, res *pivot.Result) error {
	cols := res.ColumnKeys()
	rows := res.RowKeys()
	lastCol := len(cols) + 2

	// header
	if err := f.SetCellValue(pivotSheet, cellName(1, 1), "Category"); err != nil {
		return err
	}
	for i, c := range cols {
		if err := f.SetCellValue(pivotSheet, cellName(i+2, 1), res.ColumnLabel(c)); err != nil {
			return err
		}
	}
	if err := f.SetCellValue(pivotSheet, cellName(lastCol, 1), "Total"); err != nil {
		return err
	}
	if err := f.SetCellStyle(pivotSheet, cellName(1, 1), cellName(lastCol, 1), st.header); err != nil {
		return err
	}

	for r, row := range rows {
		rowNum := r + 2
		if err := f.SetCellValue(pivotSheet, cellName(1, rowNum), res.RowLabel(row)); err != nil {
			return err
		}
		for i, c := range cols {
			var v interface{} = pivot.Placeholder
			if n, ok := res.Cell(row, c); ok {
				v = n
			}
			if err := f.SetCellValue(pivotSheet, cellName(i+2, rowNum), v); err != nil {
				return err
			}
		}
		if err := f.SetCellValue(pivotSheet, cellName(lastCol, rowNum), res.RowTotal(row)); err != nil {
			return err
		}
	}
	if len(rows) > 0 {
		if err := f.SetCellStyle(pivotSheet, cellName(2, 2), cellName(lastCol, len(rows)+1), st.number); err != nil {
			return err
		}
	}

	totalRow := len(rows) + 2
	if err := f.SetCellValue(pivotSheet, cellName(1, totalRow), "Grand Total"); err != nil {
		return err
	}
	for i, c := range cols {
		if err := f.SetCellValue(pivotSheet, cellName(i+2, totalRow), res.ColumnTotal(c)); err != nil {
			return err
		}
	}
	if err := f.SetCellValue(pivotSheet, cellName(lastCol, totalRow), res.GrandTotal()); err != nil {
		return err
	}
	if err := f.SetCellStyle(pivotSheet, cellName(1, totalRow), cellName(lastCol, totalRow), st.total); err != nil {
		return err
	}

	if err := f.SetPanes(pivotSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return err
	}

	return f.SetColWidth(pivotSheet, "A", "A", 24)
}

func writeFlat(f *excelize.File, st styles, p *report.Pivot) error {
	if _, err := f.NewSheet(flatSheet); err != nil {
		return err
	}

	for i, name := range []string{"Month", "Category", "Total Sales"} {
		if err := f.SetCellValue(flatSheet, cellName(i+1, 1), name); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(flatSheet, "A1", "C1", st.header); err != nil {
		return err
	}

	for i, r := range p.Rows {
		rowNum := i + 2
		if err := f.SetCellValue(flatSheet, cellName(1, rowNum), r.Month); err != nil {
			return err
		}
		if err := f.SetCellValue(flatSheet, cellName(2, rowNum), r.Category); err != nil {
			return err
		}
		if err := f.SetCellValue(flatSheet, cellName(3, rowNum), r.TotalSales); err != nil {
			return err
		}
	}

	return f.SetColWidth(flatSheet, "A", "C", 18)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
