package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"sales-dashboard/internal/pivot"
	"sales-dashboard/internal/storage"
)

var ErrInvalidFilter = errors.New("invalid report filter")

// AllCategories is the filter value that disables category filtering.
const AllCategories = "All"

type SalesStorage interface {
	GetGroupedSales(ctx context.Context, period storage.SalesPeriod) ([]storage.GroupedSales, error)
	GetCategoryTotals(ctx context.Context, period storage.SalesPeriod) ([]storage.CategoryTotal, error)
}

type Service struct {
	storage  SalesStorage
	log      *slog.Logger
	keyOrder pivot.KeyOrder
}

func NewService(storage SalesStorage, log *slog.Logger, keyOrder pivot.KeyOrder) *Service {
	return &Service{storage: storage, log: log, keyOrder: keyOrder}
}

// Filter is the snapshot of the dashboard controls a report is built from.
type Filter struct {
	Categories []string
	Period     storage.SalesPeriod
	// KeyOrder overrides the month ordering configured for the service.
	KeyOrder string
}

type MonthPoint struct {
	Month  string             `json:"month"`
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values"`
}

type SalesReport struct {
	Pivot      pivot.Table             `json:"pivot"`
	Months     []string                `json:"months"`
	Categories []string                `json:"categories"`
	Displayed  []string                `json:"displayed_categories"`
	GrandTotal float64                 `json:"grand_total"`
	Skipped    int                     `json:"skipped"`
	NonNumeric int                     `json:"non_numeric"`
	Flat       []storage.GroupedSales  `json:"flat"`
	ByMonth    []MonthPoint            `json:"by_month"`
	ByCategory []storage.CategoryTotal `json:"by_category"`
}

// Pivot is the intermediate form shared by the JSON report and the Excel export.
type Pivot struct {
	Result     *pivot.Result
	Rows       []storage.GroupedSales
	Totals     []storage.CategoryTotal
	Categories []string
}

// BuildPivot loads grouped sales and category totals in parallel, applies the
// category filter and cross-tabulates category x month.
func (s *Service) BuildPivot(ctx context.Context, filter Filter) (*Pivot, error) {
	const op = "service.report.BuildPivot"

	order := s.keyOrder
	if filter.KeyOrder != "" {
		o, err := pivot.ParseKeyOrder(filter.KeyOrder)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidFilter, err)
		}
		order = o
	}
	if p := filter.Period; p.From != nil && p.To != nil && p.To.Before(*p.From) {
		return nil, fmt.Errorf("%s: %w: period ends before it starts", op, ErrInvalidFilter)
	}

	var (
		grouped []storage.GroupedSales
		totals  []storage.CategoryTotal
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		grouped, err = s.storage.GetGroupedSales(gCtx, filter.Period)
		if err != nil {
			return fmt.Errorf("grouped sales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		totals, err = s.storage.GetCategoryTotals(gCtx, filter.Period)
		if err != nil {
			return fmt.Errorf("category totals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories := distinctCategories(grouped)
	selected := selectedSet(filter.Categories)

	rows := make([]storage.GroupedSales, 0, len(grouped))
	for _, r := range grouped {
		if selected == nil || selected[r.Category] {
			rows = append(rows, r)
		}
	}

	filteredTotals := make([]storage.CategoryTotal, 0, len(totals))
	for _, t := range totals {
		if selected == nil || selected[t.Category] {
			filteredTotals = append(filteredTotals, t)
		}
	}

	res := pivot.Build(rows, pivot.Config[storage.GroupedSales]{
		Row: func(r storage.GroupedSales) (string, bool) {
			c := strings.TrimSpace(r.Category)
			return c, c != ""
		},
		Column: func(r storage.GroupedSales) (string, bool) {
			m := strings.TrimSpace(r.Month)
			return m, m != ""
		},
		Measure: func(r storage.GroupedSales) (float64, bool) { return r.TotalSales, true },
		Options: pivot.Options{
			ColumnOrder: order,
			Format:      pivot.Thousands,
			ColumnLabel: monthLabeler(rows),
			Logger:      s.log,
		},
	})

	return &Pivot{
		Result:     res,
		Rows:       rows,
		Totals:     filteredTotals,
		Categories: categories,
	}, nil
}

// SalesReport builds everything the pivot page renders: table, flat view and chart series.
func (s *Service) SalesReport(ctx context.Context, filter Filter) (*SalesReport, error) {
	const op = "service.report.SalesReport"

	p, err := s.BuildPivot(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res := p.Result
	months := res.ColumnKeys()
	displayed := res.RowKeys()

	byMonth := make([]MonthPoint, 0, len(months))
	for _, m := range months {
		point := MonthPoint{
			Month:  m,
			Label:  res.ColumnLabel(m),
			Values: make(map[string]float64),
		}
		for _, c := range displayed {
			if v, ok := res.Cell(c, m); ok {
				point.Values[c] = v
			}
		}
		byMonth = append(byMonth, point)
	}

	return &SalesReport{
		Pivot:      res.Table(),
		Months:     months,
		Categories: p.Categories,
		Displayed:  displayed,
		GrandTotal: res.GrandTotal(),
		Skipped:    res.Skipped(),
		NonNumeric: res.NonNumeric(),
		Flat:       p.Rows,
		ByMonth:    byMonth,
		ByCategory: p.Totals,
	}, nil
}

// selectedSet returns nil when every category should be shown.
func selectedSet(categories []string) map[string]bool {
	set := make(map[string]bool)
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if strings.EqualFold(c, AllCategories) {
			return nil
		}
		set[c] = true
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func distinctCategories(rows []storage.GroupedSales) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		if _, ok := seen[r.Category]; ok || r.Category == "" {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// monthLabeler shows "Mar" for single-year data and "Mar 2024" once the months
// span several years.
func monthLabeler(rows []storage.GroupedSales) func(string) string {
	years := make(map[int]struct{})
	for _, r := range rows {
		if y, _, ok := pivot.ParseMonth(r.Month); ok {
			years[y] = struct{}{}
		}
	}
	multiYear := len(years) > 1

	return func(key string) string {
		y, _, ok := pivot.ParseMonth(key)
		if !ok {
			return key
		}
		label := pivot.MonthLabel(key)
		if multiYear && y > 0 {
			return fmt.Sprintf("%s %d", label, y)
		}
		return label
	}
}
