package schedule

// Diff computes a three-way diff of a live event list against its baseline
// snapshot. Overlay events on either side are ignored. Deleted ids come out
// in baseline order; created and edited events in current order.
func Diff(baseline, current []Event) ChangeSet {
	var cs ChangeSet

	base := make(map[string]Event, len(baseline))
	for _, ev := range baseline {
		if ev.IsOverlay() {
			continue
		}
		base[ev.ID] = ev
	}

	seen := make(map[string]struct{}, len(current))
	for _, ev := range current {
		if ev.IsOverlay() {
			continue
		}
		seen[ev.ID] = struct{}{}

		orig, ok := base[ev.ID]
		if !ok {
			cs.Created = append(cs.Created, ev)
			continue
		}
		if !ev.SameTime(orig) || ev.Title != orig.Title {
			cs.Edited = append(cs.Edited, ev)
		}
	}

	for _, ev := range baseline {
		if ev.IsOverlay() {
			continue
		}
		if _, ok := seen[ev.ID]; !ok {
			cs.Deleted = append(cs.Deleted, ev.ID)
		}
	}
	return cs
}
