package schedule

import (
	"fmt"
	"time"
)

// ConfirmFunc asks the user to confirm deletion of an event.
type ConfirmFunc func(Event) bool

// Planner binds calendar gestures (drag, resize, slot-select, click-to-delete,
// bulk generation) to Store mutations. Only the schedule owner may mutate;
// everyone else gets a read-only view. Overlay events are merged into the
// visible list at render time only and never reach the store.
type Planner struct {
	store   *Store
	canEdit bool
	confirm ConfirmFunc
}

// NewPlanner wraps a store for one editing session. The optional confirm
// callback gates click-to-delete; absent, deletion is applied directly.
func NewPlanner(store *Store, canEdit bool, confirm ...ConfirmFunc) *Planner {
	p := &Planner{store: store, canEdit: canEdit}
	if len(confirm) > 0 {
		p.confirm = confirm[0]
	}
	return p
}

func (p *Planner) Store() *Store { return p.store }

// Drag time-shifts an event to a new interval.
func (p *Planner) Drag(id string, start, end time.Time) bool {
	if !p.canEdit {
		return false
	}
	return p.store.UpdateTime(id, start, end, ChangeDrop)
}

// Resize duration-shifts an event to a new interval.
func (p *Planner) Resize(id string, start, end time.Time) bool {
	if !p.canEdit {
		return false
	}
	return p.store.UpdateTime(id, start, end, ChangeResize)
}

// SelectSlot synthesizes a new event over the dragged empty range.
func (p *Planner) SelectSlot(start, end time.Time) (Event, bool) {
	if !p.canEdit || !end.After(start) {
		return Event{}, false
	}
	return p.store.Add(start, end), true
}

// SelectEvent handles a click on an event: overlay events are informational
// only; otherwise, after confirmation, the event is removed.
func (p *Planner) SelectEvent(ev Event) bool {
	if ev.IsOverlay() || !p.canEdit {
		return false
	}
	if _, ok := p.store.Get(ev.ID); !ok {
		return false
	}
	if p.confirm != nil && !p.confirm(ev) {
		return false
	}
	return p.store.Remove(ev.ID)
}

// BulkCreate expands a recurrence spec and appends every generated interval
// to the store. The added events are returned in order.
func (p *Planner) BulkCreate(spec RecurrenceSpec) []Event {
	if !p.canEdit {
		return nil
	}
	intervals := Expand(spec)
	added := make([]Event, 0, len(intervals))
	for _, iv := range intervals {
		added = append(added, p.store.Add(iv.Start, iv.End))
	}
	return added
}

// VisibleEvents merges the live collection with read-only overlay events
// computed from the busy feed. Overlays are rebuilt on every call and never
// written back.
func (p *Planner) VisibleEvents(busy []Interval) []Event {
	events := p.store.Events()
	for i, iv := range busy {
		events = append(events, Event{
			ID:     fmt.Sprintf("busy-%d", i),
			Title:  "Unavailable",
			Start:  iv.Start,
			End:    iv.End,
			Origin: OriginOverlay,
		})
	}
	return events
}
