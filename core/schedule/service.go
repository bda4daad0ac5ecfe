package schedule

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/mwalimu/ratiba/core"
)

var (
	// errors
	ErrNotFound = errors.New("schedule not found")
)

type (
	Repository interface {
		// GetSchedule returns the schedule of a teaching request with its
		// events ordered by their order field.
		GetSchedule(ctx context.Context, requestID string) (Schedule, error)
		// ReplaceEvents applies a computed change-set atomically.
		ReplaceEvents(ctx context.Context, requestID string, cs ChangeSet) error
		// BusyIntervals returns the intervals during which the given user is
		// already booked, across all their schedules.
		BusyIntervals(ctx context.Context, userID string) ([]Interval, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// Fetch returns the schedule used to seed an editing session.
func (svc *Service) Fetch(ctx context.Context, requestID string) (Schedule, error) {
	return svc.repo.GetSchedule(ctx, requestID)
}

// Save persists the full current event list of an editing session: the diff
// against the stored baseline is computed here and applied in one shot.
// A failed save leaves the stored schedule unchanged so the caller may retry.
func (svc *Service) Save(ctx context.Context, requestID string, events []Event) (Schedule, error) {
	sched, err := svc.repo.GetSchedule(ctx, requestID)
	if err != nil {
		return Schedule{}, err
	}

	live := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.IsOverlay() {
			continue
		}
		live = append(live, ev)
	}
	if min := svc.conf.Schedule.MinEvents; len(live) < min {
		return Schedule{}, core.NewValidationError(
			fmt.Errorf("a schedule must keep at least %d session(s)", min))
	}

	cs := Diff(sched.Events, live)
	if cs.IsEmpty() {
		return sched, nil
	}

	if err := svc.repo.ReplaceEvents(ctx, requestID, cs); err != nil {
		return Schedule{}, err
	}

	sched, err = svc.repo.GetSchedule(ctx, requestID)
	if err != nil {
		return Schedule{}, err
	}
	svc.notifySaved(sched)
	return sched, nil
}

// Busy returns the read-only busy feed of the given user, rendered as
// overlay events by the editing session.
func (svc *Service) Busy(ctx context.Context, userID string) ([]Interval, error) {
	return svc.repo.BusyIntervals(ctx, userID)
}

func (svc *Service) notifySaved(sched Schedule) {
	if svc.mailSvc == nil || sched.StudentEmail == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: sched.StudentEmail}},
		Subject:      "Your tutoring schedule has been updated",
		TemplateName: "schedule-updated",
		TemplateData: struct {
			Title    string
			Sessions int
		}{sched.Title, len(sched.Events)},
	})
}
