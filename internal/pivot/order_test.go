package pivot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyOrder(t *testing.T) {
	for in, want := range map[string]KeyOrder{
		"":           FirstSeen,
		"first-seen": FirstSeen,
		"Sorted":     Sorted,
		"calendar":   Calendar,
	} {
		got, err := ParseKeyOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, want.String(), got.String(), in)
	}

	_, err := ParseKeyOrder("random")
	assert.ErrorIs(t, err, ErrUnknownKeyOrder)
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in          string
		year, month int
		ok          bool
	}{
		{"Jan", 0, 1, true},
		{"september", 0, 9, true},
		{"2024-03", 2024, 3, true},
		{"2024-12-31", 2024, 12, true},
		{"Mar-2026", 2026, 3, true},
		{"Jan 2025", 2025, 1, true},
		{"December 2024", 2024, 12, true},
		{"Junk", 0, 0, false},
		{"Marble", 0, 0, false},
		{"Jan 25", 0, 0, false},
		{"Jan foo", 0, 0, false},
		{"2024-13", 0, 0, false},
		{"Q1", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			y, m, ok := ParseMonth(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.year, y)
			assert.Equal(t, tt.month, m)
		})
	}
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Mar", MonthLabel("2024-03"))
	assert.Equal(t, "Dec", MonthLabel("december"))
	assert.Equal(t, "Total", MonthLabel("Total"))
	assert.Equal(t, "Junk", MonthLabel("Junk"))
	assert.Equal(t, "Jan", MonthLabel("Jan 2025"))
}

func TestCalendarOrder_NamedMonthsWithYear(t *testing.T) {
	res := BuildFacts([]FactRecord{
		{Row: "Pipe", Column: "Jan 2025", Measure: 1},
		{Row: "Pipe", Column: "Marble", Measure: 1},
		{Row: "Pipe", Column: "Dec 2024", Measure: 1},
		{Row: "Pipe", Column: "Feb 2025", Measure: 1},
	}, WithColumnOrder(Calendar))

	assert.Equal(t, []string{"Dec 2024", "Jan 2025", "Feb 2025", "Marble"}, res.ColumnKeys())
}

func TestCalendarOrder(t *testing.T) {
	keys := []string{"2025-01", "Other", "2024-11", "2024-02", "Alpha"}

	got := Calendar.apply(keys)

	assert.Equal(t, []string{"2024-02", "2024-11", "2025-01", "Alpha", "Other"}, got)
	assert.Equal(t, []string{"2025-01", "Other", "2024-11", "2024-02", "Alpha"}, keys)
}

func TestFirstSeenOrder_KeepsInput(t *testing.T) {
	keys := []string{"b", "a", "c"}
	assert.Equal(t, keys, FirstSeen.apply(keys))
	assert.Equal(t, keys, KeyOrder{}.apply(keys))
}
