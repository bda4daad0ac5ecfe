package inmemdb

import (
	"context"
	"sort"

	"github.com/mwalimu/ratiba/core/schedule"
)

type scheduleRepository struct {
	db *DB
}

var _ schedule.Repository = (*scheduleRepository)(nil)

func NewScheduleRepository(db *DB) *scheduleRepository {
	return &scheduleRepository{db: db}
}

// PutSchedule stores (or replaces) a whole schedule; used by tests and seeding.
func (repo *scheduleRepository) PutSchedule(ctx context.Context, sched schedule.Schedule) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cp := sched
	cp.Events = make([]schedule.Event, len(sched.Events))
	copy(cp.Events, sched.Events)
	repo.db.schedules[sched.RequestID] = &cp
	return nil
}

func (repo *scheduleRepository) GetSchedule(ctx context.Context, requestID string) (schedule.Schedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sched, ok := repo.db.schedules[requestID]
	if !ok {
		return schedule.Schedule{}, schedule.ErrNotFound
	}

	cp := *sched
	cp.Events = make([]schedule.Event, len(sched.Events))
	copy(cp.Events, sched.Events)
	sort.SliceStable(cp.Events, func(i, j int) bool { return cp.Events[i].Order < cp.Events[j].Order })
	return cp, nil
}

func (repo *scheduleRepository) ReplaceEvents(ctx context.Context, requestID string, cs schedule.ChangeSet) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sched, ok := repo.db.schedules[requestID]
	if !ok {
		return schedule.ErrNotFound
	}

	deleted := make(map[string]struct{}, len(cs.Deleted))
	for _, id := range cs.Deleted {
		deleted[id] = struct{}{}
	}
	edited := make(map[string]schedule.Event, len(cs.Edited))
	for _, ev := range cs.Edited {
		edited[ev.ID] = ev
	}

	events := make([]schedule.Event, 0, len(sched.Events)+len(cs.Created))
	for _, ev := range sched.Events {
		if _, ok := deleted[ev.ID]; ok {
			continue
		}
		if upd, ok := edited[ev.ID]; ok {
			ev.Start = upd.Start
			ev.End = upd.End
			ev.Title = upd.Title
		}
		events = append(events, ev)
	}
	for _, ev := range cs.Created {
		ev.Origin = schedule.OriginServer
		events = append(events, ev)
	}
	for i := range events {
		events[i].Order = i + 1
	}
	sched.Events = events
	return nil
}

func (repo *scheduleRepository) BusyIntervals(ctx context.Context, userID string) ([]schedule.Interval, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	intervals := make([]schedule.Interval, 0)
	for _, sched := range repo.db.schedules {
		if !sched.IsParty(userID) {
			continue
		}
		for _, ev := range sched.Events {
			intervals = append(intervals, schedule.Interval{Start: ev.Start, End: ev.End})
		}
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start.Before(intervals[j].Start) })
	return intervals, nil
}
