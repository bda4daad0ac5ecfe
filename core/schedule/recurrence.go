package schedule

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// maxExpansionWeeks bounds runaway expansion. It is a safety valve,
// not a semantic guarantee.
const maxExpansionWeeks = 200

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Expand expands a RecurrenceSpec into an ordered sequence of session intervals.
// Weekdays with an invalid time range (End <= Start) are skipped; no selected
// weekday means an empty result. Expansion is a pure function: it never fails,
// it only produces fewer (or no) intervals.
func Expand(spec RecurrenceSpec) []Interval {
	days := make([]time.Weekday, 0, len(spec.Slots))
	for wd, slot := range spec.Slots {
		if slot.End > slot.Start {
			days = append(days, wd)
		}
	}
	if len(days) == 0 {
		return nil
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	horizon := spec.StartDate.AddDate(0, 0, 7*maxExpansionWeeks)
	until := horizon
	if spec.Mode == RepeatUntil && !spec.UntilDate.IsZero() {
		// inclusive of the whole until-date
		y, m, d := spec.UntilDate.Date()
		boundary := time.Date(y, m, d, 23, 59, 59, 0, location(spec.StartDate))
		if boundary.Before(until) {
			until = boundary
		}
	}

	intervals := make([]Interval, 0)
	for _, wd := range days {
		slot := spec.Slots[wd]
		dtstart := firstOnOrAfter(spec.StartDate, wd, slot)

		r, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Dtstart:   dtstart,
			Until:     until,
			Byweekday: []rrule.Weekday{rruleWeekdays[wd]},
		})
		if err != nil {
			continue
		}

		for _, start := range r.Between(dtstart, until, true) {
			intervals = append(intervals, Interval{Start: start, End: start.Add(slot.Duration())})
		}
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start.Before(intervals[j].Start) })

	if spec.Mode == RepeatCount {
		count := spec.TotalSessions
		if count < 1 {
			count = 1
		}
		if len(intervals) > count {
			intervals = intervals[:count]
		}
	}
	return intervals
}

// firstOnOrAfter returns the first occurrence of weekday `wd` at the slot's
// start time, on or after the spec's start date.
func firstOnOrAfter(startDate time.Time, wd time.Weekday, slot DaySlot) time.Time {
	days := (int(wd) - int(startDate.Weekday()) + 7) % 7
	date := startDate.AddDate(0, 0, days)
	y, m, d := date.Date()
	return time.Date(y, m, d, slot.Start/60, slot.Start%60, 0, 0, location(startDate))
}

func location(t time.Time) *time.Location {
	if loc := t.Location(); loc != nil {
		return loc
	}
	return time.UTC
}
