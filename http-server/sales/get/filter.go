package get

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"sales-dashboard/internal/service/report"
	"sales-dashboard/internal/storage"
)

const dateLayout = "2006-01-02"

// ParseReportFilter reads ?category=A&category=B (or category=A,B), from, to and order.
func ParseReportFilter(r *http.Request) (report.Filter, error) {
	q := r.URL.Query()

	filter := report.Filter{
		Categories: Categories(q["category"]),
		KeyOrder:   q.Get("order"),
	}

	from, err := parseDate(q.Get("from"))
	if err != nil {
		return filter, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		return filter, fmt.Errorf("invalid to date: %w", err)
	}
	filter.Period = storage.SalesPeriod{From: from, To: to}

	return filter, nil
}

// Categories flattens repeated and comma separated category params.
func Categories(values []string) []string {
	var out []string
	for _, v := range values {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
