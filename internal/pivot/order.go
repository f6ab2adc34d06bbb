package pivot

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrUnknownKeyOrder = errors.New("unknown key order")

// KeyOrder decides how distinct row or column keys are arranged.
// The zero value keeps first-seen order.
type KeyOrder struct {
	name string
	less func(a, b string) bool
}

var (
	FirstSeen = KeyOrder{name: "first-seen"}
	Sorted    = KeyOrder{name: "sorted", less: func(a, b string) bool { return a < b }}
	Calendar  = KeyOrder{name: "calendar", less: MonthLess}
)

// OrderBy arranges keys with an explicit comparator. Ties keep first-seen order.
func OrderBy(less func(a, b string) bool) KeyOrder {
	return KeyOrder{name: "custom", less: less}
}

// ParseKeyOrder maps the query/config spelling to a KeyOrder. Empty means first-seen.
func ParseKeyOrder(s string) (KeyOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-seen", "first_seen":
		return FirstSeen, nil
	case "sorted", "alpha":
		return Sorted, nil
	case "calendar", "month":
		return Calendar, nil
	}
	return FirstSeen, fmt.Errorf("%w: %q", ErrUnknownKeyOrder, s)
}

func (o KeyOrder) String() string {
	if o.name == "" {
		return FirstSeen.name
	}
	return o.name
}

func (o KeyOrder) apply(keys []string) []string {
	if o.less == nil || len(keys) < 2 {
		return keys
	}
	out := append([]string{}, keys...)
	sort.SliceStable(out, func(i, j int) bool { return o.less(out[i], out[j]) })
	return out
}

var monthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var fullMonthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// ParseMonth understands "Jan", "january", "Jan 2025", "Mar-2026", "2024-03" and
// "2024-03-15". year is 0 when the label carries no year.
func ParseMonth(label string) (year, month int, ok bool) {
	s := strings.TrimSpace(label)
	if s == "" {
		return 0, 0, false
	}

	if parts := strings.Split(s, "-"); len(parts) >= 2 {
		y, errY := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		if errY == nil && errM == nil {
			if m < 1 || m > 12 {
				return 0, 0, false
			}
			return y, m, true
		}
	}

	name, rest, hasYear := strings.Cut(s, " ")
	if !hasYear {
		name, rest, hasYear = strings.Cut(s, "-")
	}

	month = monthByName(name)
	if month == 0 {
		return 0, 0, false
	}
	if !hasYear {
		return 0, month, true
	}

	rest = strings.TrimSpace(rest)
	if len(rest) != 4 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(rest)
	if err != nil || year <= 0 {
		return 0, 0, false
	}
	return year, month, true
}

// monthByName matches the three-letter abbreviation or the full name, any case.
func monthByName(name string) int {
	name = strings.ToLower(name)
	for i := range monthNames {
		if name == strings.ToLower(monthNames[i]) || name == fullMonthNames[i] {
			return i + 1
		}
	}
	return 0
}

// MonthLabel turns "2024-03" into "Mar". Unrecognised keys are returned unchanged.
func MonthLabel(key string) string {
	_, m, ok := ParseMonth(key)
	if !ok {
		return key
	}
	return monthNames[m-1]
}

// MonthLess orders month keys by year then calendar month. Keys that are not
// months sort after all months, lexically among themselves.
func MonthLess(a, b string) bool {
	ya, ma, okA := ParseMonth(a)
	yb, mb, okB := ParseMonth(b)
	switch {
	case okA && okB:
		if ya != yb {
			return ya < yb
		}
		return ma < mb
	case okA:
		return true
	case okB:
		return false
	}
	return a < b
}
