package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/ratiba/core/schedule"
)

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) *scheduleRepository {
	return &scheduleRepository{db: db}
}

type scheduleRow struct {
	RequestID    string      `db:"request_id"`
	Title        string      `db:"title"`
	TutorID      string      `db:"tutor_id"`
	StudentID    string      `db:"student_id"`
	StudentEmail null.String `db:"student_email"`
}

type eventRow struct {
	ID        string      `db:"id"`
	RequestID string      `db:"request_id"`
	Title     null.String `db:"title"`
	StartsAt  time.Time   `db:"starts_at"`
	EndsAt    time.Time   `db:"ends_at"`
	Ord       int         `db:"ord"`
}

func (row eventRow) event() schedule.Event {
	return schedule.Event{
		ID:     row.ID,
		Title:  row.Title.String,
		Start:  row.StartsAt.UTC(),
		End:    row.EndsAt.UTC(),
		Origin: schedule.OriginServer,
		Order:  row.Ord,
	}
}

// trapNoRowsErr maps psql "no rows" err to schedule.ErrNotFound
func (repo scheduleRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return schedule.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *scheduleRepository) GetSchedule(ctx context.Context, requestID string) (schedule.Schedule, error) {
	var row scheduleRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT request_id, title, tutor_id, student_id, student_email FROM schedule WHERE request_id = $1`,
		requestID,
	)
	if err != nil {
		return schedule.Schedule{}, repo.trapNoRowsErr(err, "getting schedule")
	}

	var evRows []eventRow
	err = repo.db.SelectContext(ctx, &evRows,
		`SELECT id, request_id, title, starts_at, ends_at, ord FROM schedule_event WHERE request_id = $1 ORDER BY ord, starts_at`,
		requestID,
	)
	if err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "getting schedule events")
	}

	events := make([]schedule.Event, 0, len(evRows))
	for _, row := range evRows {
		events = append(events, row.event())
	}
	return schedule.Schedule{
		RequestID:    row.RequestID,
		Title:        row.Title,
		TutorID:      row.TutorID,
		StudentID:    row.StudentID,
		StudentEmail: row.StudentEmail.String,
		Events:       events,
	}, nil
}

func (repo *scheduleRepository) ReplaceEvents(ctx context.Context, requestID string, cs schedule.ChangeSet) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting tx")
	}
	defer func() { _ = tx.Rollback() }()

	if len(cs.Deleted) > 0 {
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM schedule_event WHERE request_id = $1 AND id = ANY($2)`,
			requestID, pq.Array(cs.Deleted),
		); err != nil {
			return errors.Wrap(err, "deleting events")
		}
	}

	for _, ev := range cs.Edited {
		if _, err = tx.ExecContext(ctx,
			`UPDATE schedule_event SET title = $1, starts_at = $2, ends_at = $3 WHERE request_id = $4 AND id = $5`,
			null.NewString(ev.Title, ev.Title != ""), ev.Start.UTC(), ev.End.UTC(), requestID, ev.ID,
		); err != nil {
			return errors.Wrap(err, "updating events")
		}
	}

	for _, ev := range cs.Created {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO schedule_event (id, request_id, title, starts_at, ends_at, ord) VALUES ($1, $2, $3, $4, $5, $6)`,
			ev.ID, requestID, null.NewString(ev.Title, ev.Title != ""), ev.Start.UTC(), ev.End.UTC(), ev.Order,
		); err != nil {
			return errors.Wrap(err, "inserting events")
		}
	}

	// resequence the derived order field
	if _, err = tx.ExecContext(ctx,
		`UPDATE schedule_event e SET ord = t.rn
		 FROM (SELECT id, row_number() OVER (ORDER BY starts_at, id) AS rn FROM schedule_event WHERE request_id = $1) t
		 WHERE e.id = t.id`,
		requestID,
	); err != nil {
		return errors.Wrap(err, "resequencing events")
	}

	return errors.Wrap(tx.Commit(), "committing tx")
}

func (repo *scheduleRepository) BusyIntervals(ctx context.Context, userID string) ([]schedule.Interval, error) {
	var rows []struct {
		StartsAt time.Time `db:"starts_at"`
		EndsAt   time.Time `db:"ends_at"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT e.starts_at, e.ends_at
		 FROM schedule_event e
		 JOIN schedule s ON s.request_id = e.request_id
		 WHERE s.tutor_id = $1 OR s.student_id = $1
		 ORDER BY e.starts_at`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "getting busy intervals")
	}

	intervals := make([]schedule.Interval, 0, len(rows))
	for _, row := range rows {
		intervals = append(intervals, schedule.Interval{Start: row.StartsAt.UTC(), End: row.EndsAt.UTC()})
	}
	return intervals, nil
}
