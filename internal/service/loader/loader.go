package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"sales-dashboard/internal/storage"
)

var (
	ErrEmptyPayload   = errors.New("payload contains no rows")
	ErrInvalidPayload = errors.New("invalid payload")
)

const defaultBatchSize = 500

type Storage interface {
	SaveSales(ctx context.Context, batchID string, records []storage.SalesRecord) (int, error)
	SaveEmployees(ctx context.Context, batchID string, employees []storage.Employee) (int, error)
}

type Service struct {
	storage   Storage
	log       *slog.Logger
	batchSize int
	newID     func() string
}

func NewService(storage Storage, log *slog.Logger, batchSize int) *Service {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		storage:   storage,
		log:       log,
		batchSize: batchSize,
		newID:     uuid.NewString,
	}
}

// Report describes one load. Skipped holds the zero-based indices of rejected items.
type Report struct {
	BatchID  string `json:"batch_id"`
	Total    int    `json:"total"`
	Inserted int    `json:"inserted"`
	Skipped  []int  `json:"skipped"`
}

type salesItem struct {
	Date     string `json:"Date"`
	Category string `json:"Category"`
	Sales    any    `json:"Sales"`
}

// LoadSales reads a JSON array of {Date, Category, Sales} objects.
func (s *Service) LoadSales(ctx context.Context, r io.Reader) (*Report, error) {
	const op = "service.loader.LoadSales"

	var items []salesItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidPayload, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPayload)
	}

	rows := make([]rawSale, 0, len(items))
	for _, it := range items {
		rows = append(rows, rawSale{date: it.Date, category: it.Category, sales: it.Sales})
	}

	return s.saveSales(ctx, op, rows)
}

type rawSale struct {
	date     string
	category string
	sales    any
}

func (s *Service) saveSales(ctx context.Context, op string, rows []rawSale) (*Report, error) {
	rep := &Report{BatchID: s.newID(), Total: len(rows), Skipped: []int{}}

	valid := make([]storage.SalesRecord, 0, len(rows))
	for i, raw := range rows {
		rec, reason := parseSale(raw)
		if reason != "" {
			s.log.Warn("sales row skipped",
				slog.String("op", op),
				slog.Int("index", i),
				slog.String("reason", reason),
			)
			rep.Skipped = append(rep.Skipped, i)
			continue
		}
		valid = append(valid, rec)
	}

	err := inBatches(ctx, valid, s.batchSize, func(batch []storage.SalesRecord) error {
		n, err := s.storage.SaveSales(ctx, rep.BatchID, batch)
		rep.Inserted += n
		return err
	})
	if err != nil {
		return rep, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("sales loaded",
		slog.String("op", op),
		slog.String("batch_id", rep.BatchID),
		slog.Int("inserted", rep.Inserted),
		slog.Int("skipped", len(rep.Skipped)),
	)

	return rep, nil
}

func parseSale(raw rawSale) (storage.SalesRecord, string) {
	if strings.TrimSpace(raw.date) == "" {
		return storage.SalesRecord{}, "missing date"
	}
	date, err := ParseDate(raw.date)
	if err != nil {
		return storage.SalesRecord{}, "invalid date " + strconv.Quote(raw.date)
	}

	category := strings.TrimSpace(raw.category)
	if category == "" {
		return storage.SalesRecord{}, "missing category"
	}

	sales, ok := toNumber(raw.sales)
	if !ok {
		return storage.SalesRecord{}, "sales is not a number"
	}

	return storage.SalesRecord{Date: date, Category: category, Sales: sales}, ""
}

type employeeItem struct {
	EmpNo              string `json:"EmpNo"`
	EmpName            string `json:"EmpName"`
	SiteDesignation    string `json:"SiteDesignation"`
	Designation        string `json:"Designation"`
	Head               string `json:"Head"`
	Department         string `json:"Department"`
	HOD                string `json:"HOD"`
	DOJ                string `json:"DOJ"`
	Visa               string `json:"VISA"`
	IqamaNo            string `json:"IqamaNo"`
	Status             string `json:"Status"`
	Category           string `json:"Category"`
	Payrole            string `json:"Payrole"`
	Sponser            string `json:"Sponser"`
	Project            string `json:"Project"`
	AccomodationStatus string `json:"AccomodationStatus"`
}

// LoadEmployees reads the HR export (a JSON array of employee objects).
func (s *Service) LoadEmployees(ctx context.Context, r io.Reader) (*Report, error) {
	const op = "service.loader.LoadEmployees"

	var items []employeeItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidPayload, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPayload)
	}

	rep := &Report{BatchID: s.newID(), Total: len(items), Skipped: []int{}}

	valid := make([]storage.Employee, 0, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.EmpNo) == "" || strings.TrimSpace(it.EmpName) == "" {
			s.log.Warn("employee skipped", slog.String("op", op), slog.Int("index", i), slog.String("reason", "missing emp no or name"))
			rep.Skipped = append(rep.Skipped, i)
			continue
		}
		doj, err := ParseDate(it.DOJ)
		if err != nil {
			s.log.Warn("employee skipped", slog.String("op", op), slog.Int("index", i), slog.String("reason", "invalid DOJ"))
			rep.Skipped = append(rep.Skipped, i)
			continue
		}

		valid = append(valid, storage.Employee{
			EmpNo:               strings.TrimSpace(it.EmpNo),
			EmpName:             strings.TrimSpace(it.EmpName),
			SiteDesignation:     it.SiteDesignation,
			Designation:         it.Designation,
			Head:                it.Head,
			Department:          it.Department,
			HOD:                 it.HOD,
			DOJ:                 doj,
			Visa:                it.Visa,
			IqamaNo:             it.IqamaNo,
			Status:              it.Status,
			Category:            it.Category,
			Payrole:             it.Payrole,
			Sponser:             it.Sponser,
			Project:             it.Project,
			AccommodationStatus: it.AccomodationStatus,
		})
	}

	err := inBatches(ctx, valid, s.batchSize, func(batch []storage.Employee) error {
		n, err := s.storage.SaveEmployees(ctx, rep.BatchID, batch)
		rep.Inserted += n
		return err
	})
	if err != nil {
		return rep, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("employees loaded",
		slog.String("op", op),
		slog.String("batch_id", rep.BatchID),
		slog.Int("inserted", rep.Inserted),
		slog.Int("skipped", len(rep.Skipped)),
	)

	return rep, nil
}

func inBatches[T any](ctx context.Context, items []T, size int, save func([]T) error) error {
	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+size, len(items))
		if err := save(items[start:end]); err != nil {
			return fmt.Errorf("batch at %d: %w", start, err)
		}
	}
	return nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"2-Jan-2006",
	"02-Jan-06",
}

// ParseDate accepts the date spellings found in the JSON exports.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		var err error
		f, err = strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", ""), 64)
		if err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
