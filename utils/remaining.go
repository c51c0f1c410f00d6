package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of every calendar date.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date, tolerating a trailing time part.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// RemainingTime describes how long a rental has left before endDate,
// counted from the calendar day of now.
func RemainingTime(endDate string, now time.Time) string {
	if endDate == "" {
		return "-"
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return "-"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(today) {
		return "Expiré"
	}

	months := 0
	for !today.AddDate(0, months+1, 0).After(end) {
		months++
	}
	days := int(end.Sub(today.AddDate(0, months, 0)).Hours() / 24)

	if months > 0 {
		return fmt.Sprintf("%d mois %d jours", months, days)
	}
	return fmt.Sprintf("%d jours", days)
}
