package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mwalimu/ratiba/core"
)

// SlotInput is one weekday's time range as submitted by the bulk-create panel.
type SlotInput struct {
	Weekday string `json:"weekday" validate:"required,weekday"`
	Start   string `json:"start" validate:"required,clocktime"`
	End     string `json:"end" validate:"required,clocktime"`
}

// GenerateSchedule is the bulk-create request expanded into session intervals.
type GenerateSchedule struct {
	StartDate     time.Time   `json:"start_date" validate:"required"`
	Slots         []SlotInput `json:"slots" validate:"required,min=1,dive"`
	RepeatMode    string      `json:"repeat_mode" validate:"required,oneof=count until"`
	TotalSessions int         `json:"total_sessions"`
	UntilDate     time.Time   `json:"until_date"`
}

func (g *GenerateSchedule) Validate(validate *validator.Validate) error {
	for i := range g.Slots {
		g.Slots[i].Weekday = core.CleanString(g.Slots[i].Weekday, true /* lower */)
		g.Slots[i].Start = core.CleanString(g.Slots[i].Start)
		g.Slots[i].End = core.CleanString(g.Slots[i].End)
	}
	g.RepeatMode = core.CleanString(g.RepeatMode, true /* lower */)
	return validate.Struct(g)
}

// Spec converts a validated request into a RecurrenceSpec. A weekday listed
// twice keeps its last configuration.
func (g GenerateSchedule) Spec() RecurrenceSpec {
	slots := make(map[time.Weekday]DaySlot, len(g.Slots))
	for _, in := range g.Slots {
		wd, ok := parseWeekday(in.Weekday)
		if !ok {
			continue
		}
		slots[wd] = DaySlot{Start: clockMinutes(in.Start), End: clockMinutes(in.End)}
	}
	return RecurrenceSpec{
		StartDate:     g.StartDate,
		Slots:         slots,
		Mode:          RepeatMode(g.RepeatMode),
		TotalSessions: g.TotalSessions,
		UntilDate:     g.UntilDate,
	}
}

// SaveEvent is one event of a full-list save request. Events without an id
// were created in the editing session and get a fresh one assigned.
type SaveEvent struct {
	ID    string    `json:"_id"`
	Title string    `json:"title"`
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
}

// SaveSchedule is the authoritative save payload: the full current event list.
type SaveSchedule struct {
	Events []SaveEvent `json:"events" validate:"required,min=1,dive"`
}

func (ss *SaveSchedule) Validate(validate *validator.Validate) error {
	for i := range ss.Events {
		ss.Events[i].Title = core.CleanString(ss.Events[i].Title)
	}
	return validate.Struct(ss)
}

// EventList materializes the payload as store events, in submission order.
func (ss SaveSchedule) EventList(defaultTitle string) []Event {
	events := make([]Event, 0, len(ss.Events))
	for i, in := range ss.Events {
		ev := Event{
			ID:     in.ID,
			Title:  in.Title,
			Start:  in.Start.UTC(),
			End:    in.End.UTC(),
			Origin: OriginServer,
			Order:  i + 1,
		}
		if ev.ID == "" {
			ev.ID = uuid.New().String()
			ev.Origin = OriginLocal
		}
		if ev.Title == "" {
			ev.Title = defaultTitle
		}
		events = append(events, ev)
	}
	return events
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdays[s]
	return wd, ok
}

// clockMinutes converts a validated "15:04" clock string to minutes since midnight.
func clockMinutes(s string) int {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}
