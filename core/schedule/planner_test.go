package schedule

import (
	"testing"
	"time"
)

func Test_Planner_readOnly(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now), serverEvent("b", now.Add(24*time.Hour)))
	p := NewPlanner(s, false)

	if p.Drag("a", now.Add(time.Hour), now.Add(2*time.Hour)) {
		t.Error("Drag() mutated a read-only session")
	}
	if p.Resize("a", now, now.Add(2*time.Hour)) {
		t.Error("Resize() mutated a read-only session")
	}
	if _, ok := p.SelectSlot(now.Add(48*time.Hour), now.Add(49*time.Hour)); ok {
		t.Error("SelectSlot() mutated a read-only session")
	}
	if p.SelectEvent(s.Events()[0]) {
		t.Error("SelectEvent() mutated a read-only session")
	}
	if added := p.BulkCreate(RecurrenceSpec{
		StartDate:     now,
		Slots:         map[time.Weekday]DaySlot{time.Monday: {Start: 600, End: 660}},
		Mode:          RepeatCount,
		TotalSessions: 3,
	}); added != nil {
		t.Errorf("BulkCreate() = %v; want nil", added)
	}

	if s.Len() != 2 || len(s.Changes()) != 0 {
		t.Errorf("read-only session left %d events and %d changes; want untouched", s.Len(), len(s.Changes()))
	}
}

func Test_Planner_gestures(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now), serverEvent("b", now.Add(24*time.Hour)))
	p := NewPlanner(s, true)

	if !p.Drag("a", now.Add(time.Hour), now.Add(2*time.Hour)) {
		t.Error("Drag() = false; want true")
	}
	if !p.Resize("b", now.Add(24*time.Hour), now.Add(26*time.Hour)) {
		t.Error("Resize() = false; want true")
	}

	changes := s.Changes()
	if len(changes) != 2 || changes[0].Type != ChangeDrop || changes[1].Type != ChangeResize {
		t.Errorf("Changes() = %v; want [drop resize]", changes)
	}

	ev, ok := p.SelectSlot(now.Add(48*time.Hour), now.Add(49*time.Hour))
	if !ok || ev.Origin != OriginLocal {
		t.Errorf("SelectSlot() = %v, %v; want a fresh local event", ev, ok)
	}

	// an inverted or empty range synthesizes nothing
	if _, ok := p.SelectSlot(now, now); ok {
		t.Error("SelectSlot() accepted an empty range")
	}
	if _, ok := p.SelectSlot(now.Add(time.Hour), now); ok {
		t.Error("SelectSlot() accepted an inverted range")
	}
}

func Test_Planner_SelectEvent(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now), serverEvent("b", now.Add(24*time.Hour)))

	var confirmed []Event
	p := NewPlanner(s, true, func(ev Event) bool {
		confirmed = append(confirmed, ev)
		return ev.ID == "a"
	})

	// overlays are informational only
	overlay := Event{ID: "busy-0", Start: now, End: now.Add(time.Hour), Origin: OriginOverlay}
	if p.SelectEvent(overlay) {
		t.Error("SelectEvent(overlay) = true; want informational no-op")
	}

	evB, _ := s.Get("b")
	if p.SelectEvent(evB) {
		t.Error("SelectEvent() removed an event the user declined to delete")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d; want 2", s.Len())
	}

	evA, _ := s.Get("a")
	if !p.SelectEvent(evA) {
		t.Error("SelectEvent() = false; want confirmed removal")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d; want 1", s.Len())
	}
	if len(confirmed) != 2 {
		t.Errorf("confirm callback ran %d times; want 2", len(confirmed))
	}
}

func Test_Planner_SelectEvent_noConfirm(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now), serverEvent("b", now.Add(24*time.Hour)))
	p := NewPlanner(s, true)

	evA, _ := s.Get("a")
	if !p.SelectEvent(evA) {
		t.Error("SelectEvent() = false; want direct removal without a confirm callback")
	}
}

func Test_Planner_BulkCreate(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now))
	p := NewPlanner(s, true)

	added := p.BulkCreate(RecurrenceSpec{
		StartDate:     date(2021, time.June, 7),
		Slots:         map[time.Weekday]DaySlot{time.Monday: {Start: 600, End: 660}},
		Mode:          RepeatCount,
		TotalSessions: 3,
	})

	if len(added) != 3 {
		t.Fatalf("BulkCreate() added %d events; want 3", len(added))
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d; want 4", s.Len())
	}
	for i, ev := range added {
		if ev.Origin != OriginLocal {
			t.Errorf("added[%d].Origin = %q; want %q", i, ev.Origin, OriginLocal)
		}
	}
	if created := s.Created(); len(created) != 3 {
		t.Errorf("Created() has %d events; want 3", len(created))
	}
}

func Test_Planner_VisibleEvents(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now))
	p := NewPlanner(s, true)

	busy := []Interval{
		{Start: now.Add(24 * time.Hour), End: now.Add(25 * time.Hour)},
		{Start: now.Add(48 * time.Hour), End: now.Add(49 * time.Hour)},
	}

	visible := p.VisibleEvents(busy)

	if len(visible) != 3 {
		t.Fatalf("VisibleEvents() returned %d events; want 3", len(visible))
	}
	overlays := visible[1:]
	for i, ev := range overlays {
		if !ev.IsOverlay() {
			t.Errorf("overlays[%d].Origin = %q; want %q", i, ev.Origin, OriginOverlay)
		}
		if ev.Title != "Unavailable" {
			t.Errorf("overlays[%d].Title = %q; want %q", i, ev.Title, "Unavailable")
		}
	}

	// overlays never reach the store
	if s.Len() != 1 {
		t.Errorf("Len() = %d; want 1", s.Len())
	}
	if len(s.Changes()) != 0 {
		t.Errorf("Changes() = %v; want none", s.Changes())
	}
}
