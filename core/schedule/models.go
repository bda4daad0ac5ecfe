package schedule

import (
	"time"
)

// Origin tags where a calendar event came from. Overlay events are
// render-only unavailability markers and are never stored or saved.
type Origin string

const (
	OriginServer  Origin = "server"
	OriginLocal   Origin = "local"
	OriginOverlay Origin = "overlay"
)

// Event is a single calendar session interval.
type Event struct {
	ID     string    `json:"_id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"` // UTC
	End    time.Time `json:"end"`   // UTC
	Origin Origin    `json:"origin"`
	Order  int       `json:"order"`
}

func (e Event) IsOverlay() bool { return e.Origin == OriginOverlay }

// SameTime reports field-wise time equality with another event.
func (e Event) SameTime(other Event) bool {
	return e.Start.Equal(other.Start) && e.End.Equal(other.End)
}

// Interval is a bare (start, end) pair produced by recurrence expansion
// and served by the busy feed.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ChangeType identifies the user gesture that caused a change.
type ChangeType string

const (
	ChangeDrop        ChangeType = "drop"
	ChangeResize      ChangeType = "resize"
	ChangeDelete      ChangeType = "delete"
	ChangeSelectSlot  ChangeType = "selectSlot"
	ChangeSelectEvent ChangeType = "selectEvent"
)

// ChangeRecord is one entry of the store's append-only gesture log.
type ChangeRecord struct {
	Type    ChangeType `json:"type"`
	EventID string     `json:"event_id"`
	Start   time.Time  `json:"start,omitempty"`
	End     time.Time  `json:"end,omitempty"`
}

// ChangeSet is the three-way diff of a live event list against its baseline.
type ChangeSet struct {
	Created []Event
	Edited  []Event
	Deleted []string
}

func (cs ChangeSet) IsEmpty() bool {
	return len(cs.Created) == 0 && len(cs.Edited) == 0 && len(cs.Deleted) == 0
}

// RepeatMode selects how recurrence expansion stops.
type RepeatMode string

const (
	RepeatCount RepeatMode = "count"
	RepeatUntil RepeatMode = "until"
)

// DaySlot is a weekday's configured time range, in minutes since midnight.
type DaySlot struct {
	Start int
	End   int
}

func (s DaySlot) Duration() time.Duration {
	return time.Duration(s.End-s.Start) * time.Minute
}

// RecurrenceSpec is the rule expanded into concrete session intervals.
// Weekdays absent from Slots contribute no events; slots whose End is not
// strictly after Start are skipped.
type RecurrenceSpec struct {
	StartDate     time.Time
	Slots         map[time.Weekday]DaySlot
	Mode          RepeatMode
	TotalSessions int       // RepeatCount mode; clamped to a minimum of 1
	UntilDate     time.Time // RepeatUntil mode; inclusive date boundary
}

// Schedule is the persisted schedule of one teaching request.
type Schedule struct {
	RequestID    string  `json:"request_id"`
	Title        string  `json:"title"`
	TutorID      string  `json:"tutor_id"`
	StudentID    string  `json:"student_id"`
	StudentEmail string  `json:"-"`
	Events       []Event `json:"events"`
}

// IsOwner reports whether the given user may mutate this schedule.
func (s Schedule) IsOwner(userID string) bool {
	return s.TutorID != "" && s.TutorID == userID
}

// IsParty reports whether the given user takes part in this schedule.
func (s Schedule) IsParty(userID string) bool {
	return s.IsOwner(userID) || (s.StudentID != "" && s.StudentID == userID)
}
