package schedule

import (
	"testing"
	"time"
)

func serverEvent(id string, start time.Time) Event {
	return Event{
		ID:     id,
		Title:  "Tutoring Session",
		Start:  start,
		End:    start.Add(time.Hour),
		Origin: OriginServer,
	}
}

func seededStore(t *testing.T, events ...Event) *Store {
	t.Helper()
	s := NewStore("Tutoring Session")
	s.Seed(events)
	return s
}

func Test_Store_Seed(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := NewStore("Tutoring Session")
	s.Seed([]Event{
		serverEvent("a", now),
		{ID: "x", Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Origin: OriginOverlay},
		{ID: "b", Start: now.Add(3 * time.Hour), End: now.Add(4 * time.Hour)},
	})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d; want 2 (overlay dropped)", s.Len())
	}

	events := s.Events()
	if events[0].Order != 1 || events[1].Order != 2 {
		t.Errorf("orders = %d, %d; want 1, 2", events[0].Order, events[1].Order)
	}
	// zero-valued origin and title get defaults
	if events[1].Origin != OriginServer {
		t.Errorf("Origin = %q; want %q", events[1].Origin, OriginServer)
	}
	if events[1].Title != "Tutoring Session" {
		t.Errorf("Title = %q; want the store default", events[1].Title)
	}

	// seeding again resets all pending changes
	s.Remove("a")
	s.Seed([]Event{serverEvent("a", now)})
	if len(s.Deleted()) != 0 || len(s.Changes()) != 0 {
		t.Errorf("Seed() did not reset pending changes: deleted=%v changes=%v", s.Deleted(), s.Changes())
	}
}

func Test_Store_Add(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now))

	ev := s.Add(now.Add(24*time.Hour), now.Add(25*time.Hour))

	if ev.ID == "" {
		t.Error("Add() did not assign an id")
	}
	if ev.Origin != OriginLocal {
		t.Errorf("Origin = %q; want %q", ev.Origin, OriginLocal)
	}
	if ev.Order != 2 {
		t.Errorf("Order = %d; want 2", ev.Order)
	}

	created := s.Created()
	if len(created) != 1 || created[0].ID != ev.ID {
		t.Errorf("Created() = %v; want the added event only", created)
	}

	changes := s.Changes()
	if len(changes) != 1 || changes[0].Type != ChangeSelectSlot || changes[0].EventID != ev.ID {
		t.Errorf("Changes() = %v; want one selectSlot record", changes)
	}
}

func Test_Store_AddAfter(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now), serverEvent("b", now.Add(24*time.Hour)))

	ev := s.AddAfter("a", now.Add(time.Hour), now.Add(2*time.Hour))

	events := s.Events()
	if events[1].ID != ev.ID {
		t.Errorf("AddAfter() inserted at %d; want position 2", ev.Order)
	}
	for i, want := range []int{1, 2, 3} {
		if events[i].Order != want {
			t.Errorf("events[%d].Order = %d; want %d", i, events[i].Order, want)
		}
	}

	// unknown reference appends at the end
	last := s.AddAfter("nope", now.Add(48*time.Hour), now.Add(49*time.Hour))
	if last.Order != s.Len() {
		t.Errorf("AddAfter(unknown) Order = %d; want %d", last.Order, s.Len())
	}
}

func Test_Store_UpdateTime(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now))

	if s.UpdateTime("nope", now, now.Add(time.Hour)) {
		t.Error("UpdateTime(unknown) = true; want a no-op")
	}

	if !s.UpdateTime("a", now.Add(time.Hour), now.Add(2*time.Hour)) {
		t.Fatal("UpdateTime() = false; want true")
	}
	if edited := s.Edited(); len(edited) != 1 || edited[0].ID != "a" {
		t.Errorf("Edited() = %v; want [a]", edited)
	}

	// moving back to the baseline interval clears the edited flag
	if !s.UpdateTime("a", now, now.Add(time.Hour)) {
		t.Fatal("UpdateTime() = false; want true")
	}
	if edited := s.Edited(); len(edited) != 0 {
		t.Errorf("Edited() = %v; want none after reverting", edited)
	}

	changes := s.Changes()
	if len(changes) != 2 {
		t.Fatalf("Changes() has %d records; want 2", len(changes))
	}
	for i, c := range changes {
		if c.Type != ChangeDrop {
			t.Errorf("changes[%d].Type = %q; want default %q", i, c.Type, ChangeDrop)
		}
	}

	s.UpdateTime("a", now.Add(time.Hour), now.Add(3*time.Hour), ChangeResize)
	changes = s.Changes()
	if changes[len(changes)-1].Type != ChangeResize {
		t.Errorf("last change Type = %q; want %q", changes[len(changes)-1].Type, ChangeResize)
	}
}

func Test_Store_Remove(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now), serverEvent("b", now.Add(24*time.Hour)))

	if s.Remove("nope") {
		t.Error("Remove(unknown) = true; want a no-op")
	}

	if !s.Remove("a") {
		t.Fatal("Remove() = false; want true")
	}
	if got := s.Deleted(); len(got) != 1 || got[0] != "a" {
		t.Errorf("Deleted() = %v; want [a]", got)
	}
	if events := s.Events(); events[0].ID != "b" || events[0].Order != 1 {
		t.Errorf("remaining events = %v; want b renumbered to 1", events)
	}

	// the last remaining event cannot be removed
	if s.Remove("b") {
		t.Error("Remove() dropped the collection below the minimum")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d; want 1", s.Len())
	}
}

func Test_Store_Remove_minEvents(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := NewStore("Tutoring Session", 2)
	s.Seed([]Event{
		serverEvent("a", now),
		serverEvent("b", now.Add(24*time.Hour)),
		serverEvent("c", now.Add(48*time.Hour)),
	})

	if !s.Remove("a") {
		t.Fatal("Remove() = false; want true")
	}
	if s.Remove("b") {
		t.Error("Remove() went below the configured minimum of 2")
	}
}

func Test_Store_Remove_localEvent(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now))
	ev := s.Add(now.Add(24*time.Hour), now.Add(25*time.Hour))

	if !s.Remove(ev.ID) {
		t.Fatal("Remove() = false; want true")
	}
	// local-only events never land in the deleted set
	if got := s.Deleted(); len(got) != 0 {
		t.Errorf("Deleted() = %v; want none", got)
	}
	if got := s.Created(); len(got) != 0 {
		t.Errorf("Created() = %v; want none", got)
	}
}

func Test_Store_Remove_idempotentDeletes(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now), serverEvent("b", now.Add(24*time.Hour)))

	s.Remove("a")
	s.Remove("a") // unknown now; no-op
	if got := s.Deleted(); len(got) != 1 {
		t.Errorf("Deleted() = %v; want [a] exactly once", got)
	}
}

func Test_Store_editThenRemove(t *testing.T) {
	now := at(2021, time.June, 7, 10, 0)
	s := seededStore(t, serverEvent("a", now), serverEvent("b", now.Add(24*time.Hour)))

	s.UpdateTime("a", now.Add(time.Hour), now.Add(2*time.Hour))
	s.Remove("a")

	if got := s.Edited(); len(got) != 0 {
		t.Errorf("Edited() = %v; want none after removal", got)
	}
	if got := s.Deleted(); len(got) != 1 || got[0] != "a" {
		t.Errorf("Deleted() = %v; want [a]", got)
	}
}
