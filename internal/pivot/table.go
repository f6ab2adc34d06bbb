package pivot

import "strconv"

const (
	totalLabel      = "Total"
	grandTotalLabel = "Grand Total"
)

// Table is the display form of a Result: a header, one row per row key and a
// trailing grand-total row.
type Table struct {
	Header []string   `json:"header"`
	Rows   []TableRow `json:"rows"`
	Totals TableRow   `json:"totals"`
}

type TableRow struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Cells []string `json:"cells"`
	Total string   `json:"total"`
}

// Table renders the result with the configured formatter and labels.
func (r *Result) Table() Table {
	header := make([]string, 0, len(r.colKeys)+2)
	header = append(header, "")
	for _, col := range r.colKeys {
		header = append(header, r.columnLabel(col))
	}
	header = append(header, totalLabel)

	rows := make([]TableRow, 0, len(r.rowKeys))
	for _, row := range r.rowKeys {
		cells := make([]string, 0, len(r.colKeys))
		for _, col := range r.colKeys {
			cells = append(cells, r.CellText(row, col))
		}
		rows = append(rows, TableRow{
			Key:   row,
			Label: r.rowLabel(row),
			Cells: cells,
			Total: r.format(r.rowTotals[row]),
		})
	}

	totals := make([]string, 0, len(r.colKeys))
	for _, col := range r.colKeys {
		totals = append(totals, r.format(r.colTotals[col]))
	}

	return Table{
		Header: header,
		Rows:   rows,
		Totals: TableRow{
			Label: grandTotalLabel,
			Cells: totals,
			Total: r.format(r.grand),
		},
	}
}

// ColumnLabel returns the display label for a column key.
func (r *Result) ColumnLabel(col string) string { return r.columnLabel(col) }

// RowLabel returns the display label for a row key.
func (r *Result) RowLabel(row string) string { return r.rowLabel(row) }

func (r *Result) format(v float64) string {
	if r.opts.Format != nil {
		return r.opts.Format(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *Result) columnLabel(col string) string {
	if r.opts.ColumnLabel != nil {
		return r.opts.ColumnLabel(col)
	}
	return col
}

func (r *Result) rowLabel(row string) string {
	if r.opts.RowLabel != nil {
		return r.opts.RowLabel(row)
	}
	return row
}
