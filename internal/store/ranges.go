package store

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Preset names a relative date range for fetching transactions.
type Preset string

const (
	PresetToday     Preset = "today"
	PresetYesterday Preset = "yesterday"
	PresetLastWeek  Preset = "last-week"
	PresetThisMonth Preset = "this-month"
	PresetLastMonth Preset = "last-month"
)

// PresetRange resolves a preset into an inclusive [start, end] date range.
// Boundaries are computed from now on every call, never cached:
//
//	last-week  - Monday through Sunday of the calendar week before the
//	             current one
//	this-month - the 1st of the current month through today
//	last-month - the full previous calendar month
func PresetRange(p Preset, now time.Time) (start, end civil.Date, err error) {
	today := civil.DateOf(now)

	switch p {
	case PresetToday:
		return today, today, nil

	case PresetYesterday:
		y := today.AddDays(-1)
		return y, y, nil

	case PresetLastWeek:
		// Days since Monday of the current week; time.Weekday is Sunday-based.
		sinceMonday := (int(now.Weekday()) + 6) % 7
		thisMonday := today.AddDays(-sinceMonday)
		return thisMonday.AddDays(-7), thisMonday.AddDays(-1), nil

	case PresetThisMonth:
		first := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
		return first, today, nil

	case PresetLastMonth:
		firstOfThis := time.Date(today.Year, today.Month, 1, 0, 0, 0, 0, time.UTC)
		firstOfPrev := firstOfThis.AddDate(0, -1, 0)
		lastOfPrev := firstOfThis.AddDate(0, 0, -1)
		return civil.DateOf(firstOfPrev), civil.DateOf(lastOfPrev), nil

	default:
		return civil.Date{}, civil.Date{}, fmt.Errorf("PresetRange: unknown preset %q", p)
	}
}

// FilterForPreset builds a Fetch filter for a preset range scoped to a user.
func FilterForPreset(p Preset, now time.Time, userEmail string) (Filter, error) {
	start, end, err := PresetRange(p, now)
	if err != nil {
		return Filter{}, err
	}
	return Filter{Start: &start, End: &end, UserEmail: userEmail}, nil
}
