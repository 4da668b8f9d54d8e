package models

import "time"

// Period selects the date window of the transactions list.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodAll     Period = "all"
)

// Periods lists the filters in display order.
var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly, PeriodAll}

// ParsePeriod maps a query value to a Period. Missing or unknown values mean
// PeriodAll.
func ParsePeriod(value string) Period {
	switch p := Period(value); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return p
	default:
		return PeriodAll
	}
}

// Range returns the inclusive first and last day of the period containing
// today. ok is false for PeriodAll.
func (p Period) Range(today time.Time) (start, end time.Time, ok bool) {
	today = NormalizeDate(today)

	switch p {
	case PeriodDaily:
		return today, today, true
	case PeriodWeekly:
		// Monday is day zero of the week.
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6), true
	case PeriodMonthly:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), true
	case PeriodYearly:
		start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Bounds is Range as optional repository filter values.
func (p Period) Bounds(today time.Time) (start, end *time.Time) {
	s, e, ok := p.Range(today)
	if !ok {
		return nil, nil
	}
	return &s, &e
}

func (p Period) String() string {
	return string(p)
}
