package pivot

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// BuildFields pivots loosely shaped rows (decoded JSON, scanned maps) by field name.
func BuildFields(records []map[string]any, rowField, columnField, measureField string, opts ...Option) *Result {
	cfg := Config[map[string]any]{
		Row:     FieldString(rowField),
		Column:  FieldString(columnField),
		Measure: FieldNumber(measureField),
	}
	for _, o := range opts {
		o(&cfg.Options)
	}
	return Build(records, cfg)
}

// FieldString selects a dimension from a map record. Nil and absent values are missing.
func FieldString(field string) func(map[string]any) (string, bool) {
	return func(rec map[string]any) (string, bool) {
		v, ok := rec[field]
		if !ok || v == nil {
			return "", false
		}
		switch x := v.(type) {
		case string:
			return x, true
		case json.Number:
			return x.String(), true
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), true
		case float32:
			return strconv.FormatFloat(float64(x), 'f', -1, 32), true
		case int:
			return strconv.Itoa(x), true
		case int64:
			return strconv.FormatInt(x, 10), true
		case bool:
			return strconv.FormatBool(x), true
		case []byte:
			return string(x), true
		}
		return "", false
	}
}

// FieldNumber selects a measure from a map record.
func FieldNumber(field string) func(map[string]any) (float64, bool) {
	return func(rec map[string]any) (float64, bool) {
		return toFloat(rec[field])
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		return f, err == nil
	}
	return 0, false
}

// Thousands formats with grouping separators and at most three fraction digits,
// the way the dashboard showed totals ("1,234.5").
func Thousands(v float64) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}
