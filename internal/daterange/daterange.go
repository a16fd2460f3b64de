package daterange

import (
	"time"

	"github.com/dcastano/brandpulse-backend/pkg/enums"
)

// timeNowUTC is swapped out in tests.
var timeNowUTC = func() time.Time { return time.Now().UTC() }

const isoDate = "2006-01-02"

// Range is an inclusive [Start, End] day window with the preset it was
// resolved from.
type Range struct {
	Start  time.Time
	End    time.Time
	Preset enums.Preset
}

// ResolvePreset converts a preset token into a concrete inclusive window.
// Unknown or empty tokens normalize to the default trailing window; resolution
// never fails on bad input. Both endpoints are truncated to the day.
func ResolvePreset(token string) Range {
	preset := enums.NormalizePreset(token)
	now := truncateDay(timeNowUTC())

	var start, end time.Time
	switch preset {
	case enums.PresetYesterday:
		start = now.AddDate(0, 0, -1)
		end = start
	case enums.PresetLast14:
		start = now.AddDate(0, 0, -14)
		end = now
	case enums.PresetLast30:
		start = now.AddDate(0, 0, -30)
		end = now
	case enums.PresetThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = now
	case enums.PresetLastMonth:
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = firstOfThis.AddDate(0, -1, 0)
		end = firstOfThis.AddDate(0, 0, -1)
	default:
		start = now.AddDate(0, 0, -7)
		end = now
	}

	return Range{Start: start, End: end, Preset: preset}
}

// PriorPeriod returns the immediately preceding window of identical inclusive
// day count, ending the day before r.Start.
func PriorPeriod(r Range) Range {
	end := r.Start.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(r.Days() - 1))
	return Range{Start: start, End: end, Preset: r.Preset}
}

// Days returns the inclusive day count of the window.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// StartISO returns the start date as yyyy-MM-dd.
func (r Range) StartISO() string {
	return r.Start.Format(isoDate)
}

// EndISO returns the end date as yyyy-MM-dd.
func (r Range) EndISO() string {
	return r.End.Format(isoDate)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
