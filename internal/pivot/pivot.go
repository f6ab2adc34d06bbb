// Package pivot cross-tabulates flat fact rows into row/column keys, cells and totals.
//
// A build is a pure function of its input slice and Config: nothing is cached between
// calls and the input is never modified.
package pivot

import (
	"log/slog"
	"math"
)

// Placeholder is rendered for a (row, column) pair that has no numeric data.
const Placeholder = "-"

// FactRecord is one measurable row: a row dimension, a column dimension and a measure.
type FactRecord struct {
	Row     string  `json:"row"`
	Column  string  `json:"column"`
	Measure float64 `json:"measure"`
}

// Config selects which attribute of T plays which pivot role.
type Config[T any] struct {
	// Row and Column return false when the record has no value for the dimension.
	Row    func(T) (string, bool)
	Column func(T) (string, bool)
	// Measure returns false when the value is missing or not numeric.
	Measure func(T) (float64, bool)

	Options
}

// Options are the selector-independent knobs shared by every Build variant.
type Options struct {
	RowOrder    KeyOrder
	ColumnOrder KeyOrder

	// Format renders numbers for Table and CellText. Nil keeps the raw value.
	Format func(float64) string

	// RowLabel and ColumnLabel map raw keys to display labels in Table.
	RowLabel    func(string) string
	ColumnLabel func(string) string

	Logger *slog.Logger
}

// Option mutates Options for the BuildFacts/BuildFields helpers.
type Option func(*Options)

func WithRowOrder(o KeyOrder) Option    { return func(opts *Options) { opts.RowOrder = o } }
func WithColumnOrder(o KeyOrder) Option { return func(opts *Options) { opts.ColumnOrder = o } }
func WithFormat(f func(float64) string) Option {
	return func(opts *Options) { opts.Format = f }
}
func WithRowLabel(f func(string) string) Option {
	return func(opts *Options) { opts.RowLabel = f }
}
func WithColumnLabel(f func(string) string) Option {
	return func(opts *Options) { opts.ColumnLabel = f }
}
func WithLogger(l *slog.Logger) Option { return func(opts *Options) { opts.Logger = l } }

type cellKey struct {
	row, col string
}

// Result is the cross-tab of one build.
type Result struct {
	rowKeys []string
	colKeys []string

	cells      map[cellKey]float64
	rowTotals  map[string]float64
	colTotals  map[string]float64
	grand      float64
	skipped    int
	nonNumeric int

	opts Options
}

// Build cross-tabulates records according to cfg. Duplicate (row, column) pairs are
// summed. Records missing a dimension are skipped and reported through cfg.Logger.
func Build[T any](records []T, cfg Config[T]) *Result {
	const op = "pivot.Build"

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	res := &Result{
		cells:     make(map[cellKey]float64),
		rowTotals: make(map[string]float64),
		colTotals: make(map[string]float64),
		opts:      cfg.Options,
	}

	seenRows := make(map[string]struct{})
	seenCols := make(map[string]struct{})

	for i, rec := range records {
		row, okRow := cfg.Row(rec)
		col, okCol := cfg.Column(rec)
		if !okRow || !okCol {
			res.skipped++
			log.Debug("record without pivot dimension",
				slog.String("op", op),
				slog.Int("index", i),
				slog.Bool("has_row", okRow),
				slog.Bool("has_column", okCol),
			)
			continue
		}

		if _, ok := seenRows[row]; !ok {
			seenRows[row] = struct{}{}
			res.rowKeys = append(res.rowKeys, row)
		}
		if _, ok := seenCols[col]; !ok {
			seenCols[col] = struct{}{}
			res.colKeys = append(res.colKeys, col)
		}

		v, ok := cfg.Measure(rec)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			res.nonNumeric++
			log.Debug("record without numeric measure",
				slog.String("op", op),
				slog.Int("index", i),
				slog.String("row", row),
				slog.String("column", col),
			)
			continue
		}

		res.cells[cellKey{row, col}] += v
		res.rowTotals[row] += v
		res.colTotals[col] += v
		res.grand += v
	}

	if res.skipped > 0 || res.nonNumeric > 0 {
		log.Warn("records skipped while building pivot",
			slog.String("op", op),
			slog.Int("skipped", res.skipped),
			slog.Int("non_numeric", res.nonNumeric),
			slog.Int("total", len(records)),
		)
	}

	res.rowKeys = cfg.RowOrder.apply(res.rowKeys)
	res.colKeys = cfg.ColumnOrder.apply(res.colKeys)
	if res.rowKeys == nil {
		res.rowKeys = []string{}
	}
	if res.colKeys == nil {
		res.colKeys = []string{}
	}

	return res
}

// BuildFacts builds a pivot over the canonical fact tuple.
func BuildFacts(records []FactRecord, opts ...Option) *Result {
	cfg := Config[FactRecord]{
		Row:     func(r FactRecord) (string, bool) { return r.Row, true },
		Column:  func(r FactRecord) (string, bool) { return r.Column, true },
		Measure: func(r FactRecord) (float64, bool) { return r.Measure, true },
	}
	for _, o := range opts {
		o(&cfg.Options)
	}
	return Build(records, cfg)
}

// RowKeys returns the distinct row values. The slice is a copy.
func (r *Result) RowKeys() []string { return append([]string{}, r.rowKeys...) }

// ColumnKeys returns the distinct column values. The slice is a copy.
func (r *Result) ColumnKeys() []string { return append([]string{}, r.colKeys...) }

// Cell returns the summed measure for the pair, or false when no numeric data exists.
func (r *Result) Cell(row, col string) (float64, bool) {
	v, ok := r.cells[cellKey{row, col}]
	return v, ok
}

func (r *Result) RowTotal(row string) float64    { return r.rowTotals[row] }
func (r *Result) ColumnTotal(col string) float64 { return r.colTotals[col] }
func (r *Result) GrandTotal() float64            { return r.grand }

// Skipped is the number of input records dropped for a missing dimension.
func (r *Result) Skipped() int { return r.skipped }

// NonNumeric is the number of records whose measure was missing, non-numeric or
// not finite. Their keys still appear but they add nothing to cells or totals.
func (r *Result) NonNumeric() int { return r.nonNumeric }

// CellText renders a cell, using Placeholder for absent pairs.
func (r *Result) CellText(row, col string) string {
	v, ok := r.Cell(row, col)
	if !ok {
		return Placeholder
	}
	return r.format(v)
}
