package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/mwalimu/ratiba/core/schedule"
	"github.com/mwalimu/ratiba/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// ScheduleSeeder is satisfied by repositories that can store a whole schedule
// directly, bypassing the change-set path.
type ScheduleSeeder interface {
	PutSchedule(ctx context.Context, sched schedule.Schedule) error
}

func CreateSchedule(
	t *testing.T,
	repo ScheduleSeeder,
	requestID, title, tutorID, studentID, studentEmail string,
	events ...schedule.Event,
) schedule.Schedule {
	t.Helper()

	for i := range events {
		if events[i].Origin == "" {
			events[i].Origin = schedule.OriginServer
		}
		events[i].Order = i + 1
	}
	sched := schedule.Schedule{
		RequestID:    requestID,
		Title:        title,
		TutorID:      tutorID,
		StudentID:    studentID,
		StudentEmail: studentEmail,
		Events:       events,
	}
	if err := repo.PutSchedule(context.Background(), sched); err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}
	return sched
}

// Session returns an hour-long event interval on the given date.
func Session(year int, month time.Month, day, hour int) (time.Time, time.Time) {
	start := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}
