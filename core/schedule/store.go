package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Store is the in-memory event collection backing one editing session.
// It is seeded from a server snapshot, mutated through user gestures and
// read back at save time. A Store belongs to a single editing session and
// is not safe for concurrent use.
type Store struct {
	title     string
	minEvents int

	events   []Event
	baseline map[string]Event
	edited   map[string]struct{}
	deleted  []string
	changes  []ChangeRecord
}

// NewStore returns an empty store. The optional minEvents (default 1) is the
// lower bound below which removals are silently rejected.
func NewStore(title string, minEvents ...int) *Store {
	min := 1
	if len(minEvents) > 0 {
		min = minEvents[0]
	}
	return &Store{
		title:     title,
		minEvents: min,
		baseline:  make(map[string]Event),
		edited:    make(map[string]struct{}),
	}
}

func (s *Store) Title() string { return s.title }

// Seed replaces the whole collection with a server snapshot and establishes a
// new baseline: all change-sets and the gesture log are reset. Overlay events
// are never part of the store and are dropped.
func (s *Store) Seed(events []Event) {
	s.events = make([]Event, 0, len(events))
	s.baseline = make(map[string]Event, len(events))
	s.edited = make(map[string]struct{})
	s.deleted = nil
	s.changes = nil

	for _, ev := range events {
		if ev.IsOverlay() {
			continue
		}
		if ev.Origin == "" {
			ev.Origin = OriginServer
		}
		if ev.Title == "" {
			ev.Title = s.title
		}
		s.events = append(s.events, ev)
		s.baseline[ev.ID] = ev
	}
	s.renumber()
}

// Add appends a new locally-created event and assigns it a fresh identifier.
// The stored copy is returned.
func (s *Store) Add(start, end time.Time) Event {
	return s.insert(len(s.events), start, end)
}

// AddAfter inserts a new event immediately after the event matching refID,
// or at the end when refID is unknown.
func (s *Store) AddAfter(refID string, start, end time.Time) Event {
	at := len(s.events)
	for i, ev := range s.events {
		if ev.ID == refID {
			at = i + 1
			break
		}
	}
	return s.insert(at, start, end)
}

func (s *Store) insert(at int, start, end time.Time) Event {
	ev := Event{
		ID:     uuid.New().String(),
		Title:  s.title,
		Start:  start,
		End:    end,
		Origin: OriginLocal,
	}
	s.events = append(s.events, Event{})
	copy(s.events[at+1:], s.events[at:])
	s.events[at] = ev
	s.renumber()

	s.record(ChangeRecord{Type: ChangeSelectSlot, EventID: ev.ID, Start: start, End: end})
	return s.events[at]
}

// UpdateTime mutates the start/end of the event matching id. Unknown ids are
// no-ops. The optional kind (default ChangeDrop) tags the gesture log entry.
func (s *Store) UpdateTime(id string, start, end time.Time, kind ...ChangeType) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.events[i].Start = start
	s.events[i].End = end

	if base, ok := s.baseline[id]; ok {
		// field-wise comparison against the baseline counterpart
		if s.events[i].SameTime(base) && s.events[i].Title == base.Title {
			delete(s.edited, id)
		} else {
			s.edited[id] = struct{}{}
		}
	}

	ct := ChangeDrop
	if len(kind) > 0 {
		ct = kind[0]
	}
	s.record(ChangeRecord{Type: ct, EventID: id, Start: start, End: end})
	return true
}

// Remove deletes the event matching id. Unknown ids are no-ops, and a removal
// that would drop the collection below the configured minimum is silently
// rejected. Baselined events land in the deleted set (idempotently); local-only
// events are simply dropped.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	if len(s.events) <= s.minEvents {
		return false
	}

	s.events = append(s.events[:i], s.events[i+1:]...)
	s.renumber()

	if _, ok := s.baseline[id]; ok {
		if !s.isDeleted(id) {
			s.deleted = append(s.deleted, id)
		}
		delete(s.edited, id)
	}
	s.record(ChangeRecord{Type: ChangeDelete, EventID: id})
	return true
}

// Events returns a copy of the live collection in order.
func (s *Store) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Get returns the live event matching id.
func (s *Store) Get(id string) (Event, bool) {
	if i := s.index(id); i >= 0 {
		return s.events[i], true
	}
	return Event{}, false
}

func (s *Store) Len() int { return len(s.events) }

// Created returns the current snapshot of events that were never baselined.
func (s *Store) Created() []Event {
	out := make([]Event, 0)
	for _, ev := range s.events {
		if _, ok := s.baseline[ev.ID]; !ok {
			out = append(out, ev)
		}
	}
	return out
}

// Edited returns the current snapshot of baselined events whose fields differ
// from their baseline counterpart.
func (s *Store) Edited() []Event {
	out := make([]Event, 0)
	for _, ev := range s.events {
		if _, ok := s.edited[ev.ID]; ok {
			out = append(out, ev)
		}
	}
	return out
}

// Deleted returns the ids of baselined events removed from the collection.
func (s *Store) Deleted() []string {
	out := make([]string, len(s.deleted))
	copy(out, s.deleted)
	return out
}

// Changes returns the append-only gesture log since the last Seed.
func (s *Store) Changes() []ChangeRecord {
	out := make([]ChangeRecord, len(s.changes))
	copy(out, s.changes)
	return out
}

func (s *Store) index(id string) int {
	for i, ev := range s.events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) isDeleted(id string) bool {
	for _, del := range s.deleted {
		if del == id {
			return true
		}
	}
	return false
}

func (s *Store) record(change ChangeRecord) {
	s.changes = append(s.changes, change)
}

func (s *Store) renumber() {
	for i := range s.events {
		s.events[i].Order = i + 1
	}
}
