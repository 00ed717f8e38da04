package window

import (
	"time"

	"github.com/envreport/sitesummary/internal/calendar"
)

// Month is one calendar month of a resolved reporting window.
type Month struct {
	Year  int
	Month int
}

func (m Month) Name() string {
	return calendar.Name(m.Month)
}

// Window is an inclusive, calendar-contiguous run of months.
type Window []Month

// Start returns midnight on the first day of the window.
func (w Window) Start() time.Time {
	first := w[0]
	return calendar.StartOf(first.Year, first.Month)
}

// End returns midnight on the last day of the window.
func (w Window) End() time.Time {
	last := w[len(w)-1]
	return calendar.EndOf(last.Year, last.Month)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(w.Start()) && !day.After(w.End())
}

// FromSchedule resolves the window for a reporting month against a site's
// ordered visit schedule: walk the calendar from the previous scheduled visit
// to the target month, inclusive. The predecessor of the first scheduled month
// wraps to the last one. Months skipped between visits are walked, not
// filtered, so the window covers everything since the last report. If the
// target month is not in the schedule at all, the window degenerates to the
// single target month.
func FromSchedule(visits []string, targetMonth, targetYear int) Window {
	targetName := calendar.Name(targetMonth)

	prev := ""
	for i, v := range visits {
		n, ok := calendar.Number(v)
		if !ok || n != targetMonth {
			continue
		}
		if i > 0 {
			prev = visits[i-1]
		} else {
			prev = visits[len(visits)-1]
		}
		break
	}
	if prev == "" || prev == targetName {
		return Window{{Year: targetYear, Month: targetMonth}}
	}

	prevNum, ok := calendar.Number(prev)
	if !ok {
		return Window{{Year: targetYear, Month: targetMonth}}
	}

	// Count months walking forward from predecessor to target, then assign
	// years backward from the target so a wrap lands in the prior year.
	span := targetMonth - prevNum
	if span < 0 {
		span += 12
	}

	out := make(Window, 0, span+1)
	for i := span; i >= 0; i-- {
		y, m := calendar.Add(targetYear, targetMonth, -i)
		out = append(out, Month{Year: y, Month: m})
	}
	return out
}

// Lookback produces the inclusive n-month window ending at the reference month.
func Lookback(refYear, refMonth, n int) Window {
	if n < 1 {
		n = 1
	}
	out := make(Window, 0, n)
	for i := n - 1; i >= 0; i-- {
		y, m := calendar.Add(refYear, refMonth, -i)
		out = append(out, Month{Year: y, Month: m})
	}
	return out
}
