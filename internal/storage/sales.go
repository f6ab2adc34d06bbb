package storage

import "time"

type SalesRecord struct {
	ID       int64     `json:"id"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Sales    float64   `json:"sales"`
	BatchID  string    `json:"batch_id,omitempty"`
}

// GroupedSales is one GROUP BY month, category row. Month is "YYYY-MM".
type GroupedSales struct {
	Month      string  `json:"month"`
	Category   string  `json:"category"`
	TotalSales float64 `json:"total_sales"`
}

type CategoryTotal struct {
	Category   string  `json:"category"`
	TotalSales float64 `json:"total_sales"`
}

// SalesPeriod bounds GetGroupedSales. Nil ends are open.
type SalesPeriod struct {
	From *time.Time
	To   *time.Time
}
