package calendar

import (
	"strings"
	"time"
)

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Name returns the full English name for a month number 1-12.
func Name(month int) string {
	return monthNames[month-1]
}

// Number returns the month number for a full or abbreviated English name.
func Number(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, full := range monthNames {
		lower := strings.ToLower(full)
		if name == lower || (len(name) >= 3 && strings.HasPrefix(lower, name)) {
			return i + 1, true
		}
	}
	return 0, false
}

// Add shifts (year, month) by delta months. Delta may be negative.
func Add(year, month, delta int) (int, int) {
	total := month - 1 + delta
	y := year + total/12
	m := total%12 + 1
	if m < 1 {
		y--
		m += 12
	}
	return y, m
}

// StartOf returns midnight on the first day of the month.
func StartOf(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// EndOf returns midnight on the last day of the month.
func EndOf(year, month int) time.Time {
	ny, nm := Add(year, month, 1)
	return StartOf(ny, nm).AddDate(0, 0, -1)
}
