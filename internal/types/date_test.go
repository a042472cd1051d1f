package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(date("2025-01-20"), date("2025-01-20")))
	assert.Equal(t, 1, DaysBetween(date("2025-01-20"), date("2025-01-21")))
	assert.Equal(t, -3, DaysBetween(date("2025-01-20"), date("2025-01-17")))
	// Truncation: time-of-day never affects day arithmetic.
	assert.Equal(t, 1, DaysBetween(
		time.Date(2025, 1, 20, 23, 59, 0, 0, time.UTC),
		time.Date(2025, 1, 21, 0, 1, 0, 0, time.UTC)))
}

func TestNextDueDate(t *testing.T) {
	testCases := []struct {
		name     string
		current  string
		months   int
		today    string
		expected string
	}{
		{
			name:     "one_month_ahead",
			current:  "2025-01-20",
			months:   1,
			today:    "2025-01-20",
			expected: "2025-02-20",
		},
		{
			name:     "quarterly_plan",
			current:  "2025-01-20",
			months:   3,
			today:    "2025-01-25",
			expected: "2025-04-20",
		},
		{
			name:     "late_payment_skips_past_cycles",
			current:  "2025-01-20",
			months:   1,
			today:    "2025-04-05",
			expected: "2025-04-20",
		},
		{
			name:     "result_on_today_advances_again",
			current:  "2025-01-20",
			months:   1,
			today:    "2025-02-20",
			expected: "2025-03-20",
		},
		{
			name:     "month_end_rollover",
			current:  "2025-01-31",
			months:   1,
			today:    "2025-01-31",
			expected: "2025-03-03",
		},
		{
			name:     "zero_months_defaults_to_monthly",
			current:  "2025-01-20",
			months:   0,
			today:    "2025-01-20",
			expected: "2025-02-20",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextDueDate(date(tc.current), tc.months, date(tc.today))
			assert.Equal(t, date(tc.expected), got)
		})
	}
}

func TestCycleReference(t *testing.T) {
	assert.Equal(t, "2025-01", CycleReference(date("2025-01-20")))
	assert.Equal(t, "2025-12", CycleReference(date("2025-12-01")))
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "20/01/2025", FormatDisplayDate(date("2025-01-20")))
	assert.Equal(t, "", FormatDisplayDate(time.Time{}))
}
