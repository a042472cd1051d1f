package types

import (
	"time"
)

const (
	// DisplayDateFormat is the customer-facing date format used in notices.
	DisplayDateFormat = "02/01/2006"

	// CycleReferenceFormat is the billing period label format, e.g. "2025-12".
	CycleReferenceFormat = "2006-01"
)

// ToDate truncates a timestamp to a calendar date at midnight UTC.
// All due dates, payment dates and scheduled dates are stored this way so
// that day arithmetic is exact.
func ToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from `from` to `to`.
// Negative when `to` is before `from`. Both values are truncated to dates.
func DaysBetween(from, to time.Time) int {
	return int(ToDate(to).Sub(ToDate(from)).Hours() / 24)
}

// NextDueDate adds the plan periodicity in calendar months to the current
// due date. If the result would not be strictly after `today` (periodicity
// misconfigured, or the routine ran late), it keeps advancing whole periods
// until it is. Guarantees the returned date is strictly in the future
// relative to `today`.
func NextDueDate(current time.Time, periodMonths int, today time.Time) time.Time {
	if periodMonths < 1 {
		periodMonths = 1
	}
	due := ToDate(current).AddDate(0, periodMonths, 0)
	today = ToDate(today)
	for !due.After(today) {
		due = due.AddDate(0, periodMonths, 0)
	}
	return due
}

// CycleReference returns the human billing-period label for a due date.
func CycleReference(dueDate time.Time) string {
	return dueDate.Format(CycleReferenceFormat)
}

// FormatDisplayDate formats a date for customer-facing content.
func FormatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayDateFormat)
}
