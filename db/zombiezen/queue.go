package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anvena/launchpad/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// validateQueueJob checks for required fields in a job before insertion.
func validateQueueJob(job db.Job) error {
	var missingFields []string
	if job.JobType == "" {
		missingFields = append(missingFields, "JobType")
	}
	if len(missingFields) > 0 {
		return fmt.Errorf("%w: %s", db.ErrMissingFields, strings.Join(missingFields, ", "))
	}
	return nil
}

// newJobFromStmt creates a Job struct from a SQLite statement row.
func newJobFromStmt(stmt *sqlite.Stmt) (*db.Job, error) {
	createdAt, err := db.TimeParse(stmt.GetText("created_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created_at time: %w", err)
	}

	updatedAt, err := db.TimeParse(stmt.GetText("updated_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated_at time: %w", err)
	}

	scheduledFor, err := db.TimeParse(stmt.GetText("scheduled_for"))
	if err != nil {
		return nil, fmt.Errorf("error parsing scheduled_for time: %w", err)
	}

	lockedAt, err := db.TimeParse(stmt.GetText("locked_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing locked_at time: %w", err)
	}

	completedAt, err := db.TimeParse(stmt.GetText("completed_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing completed_at time: %w", err)
	}

	return &db.Job{
		ID:           stmt.GetInt64("id"),
		JobType:      stmt.GetText("job_type"),
		Payload:      json.RawMessage(stmt.GetText("payload")),
		PayloadExtra: json.RawMessage(stmt.GetText("payload_extra")),
		Status:       stmt.GetText("status"),
		Attempts:     int(stmt.GetInt64("attempts")),
		MaxAttempts:  int(stmt.GetInt64("max_attempts")),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		ScheduledFor: scheduledFor,
		LockedAt:     lockedAt,
		CompletedAt:  completedAt,
		LastError:    stmt.GetText("last_error"),
		Recurrent:    stmt.GetInt64("recurrent") != 0,
		Interval:     time.Duration(stmt.GetInt64("interval")),
	}, nil
}

// InsertJob adds a new job to the queue. The partial unique index on
// (job_type, payload) for pending jobs surfaces duplicate requests as
// db.ErrConstraintUnique.
func (d *Db) InsertJob(job db.Job) error {
	if err := validateQueueJob(job); err != nil {
		return err
	}

	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("queue insert failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	maxAttempts := job.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 3
	}

	scheduledFor := job.ScheduledFor
	if scheduledFor.IsZero() {
		scheduledFor = time.Now()
	}

	err = sqlitex.Execute(conn, `INSERT INTO job_queue
		(job_type, payload, payload_extra, attempts, max_attempts, scheduled_for, recurrent, interval)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{
				job.JobType,
				string(job.Payload),
				string(job.PayloadExtra),
				job.Attempts,
				maxAttempts,
				db.TimeFormat(scheduledFor),
				job.Recurrent,
				int64(job.Interval),
			},
		})
	if err != nil {
		return mapConstraintError(err)
	}
	return nil
}

// Claim atomically locks up to limit due jobs and returns them. sqlite's
// single-writer model makes the UPDATE..RETURNING a sufficient claim: two
// schedulers cannot lock the same row.
func (d *Db) Claim(limit int) ([]*db.Job, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("queue claim failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	var jobs []*db.Job
	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET locked_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			attempts = attempts + 1,
			updated_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id IN (
			SELECT id FROM job_queue
			WHERE status = 'pending'
				AND locked_at = ''
				AND scheduled_for <= (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
				AND attempts < max_attempts
			ORDER BY scheduled_for ASC
			LIMIT ?
		)
		RETURNING id, job_type, payload, payload_extra, status, attempts, max_attempts,
			created_at, updated_at, scheduled_for, locked_at, completed_at,
			last_error, recurrent, interval`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				job, err := newJobFromStmt(stmt)
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
				return nil
			},
			Args: []interface{}{limit},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to claim jobs: %w", err)
	}
	return jobs, nil
}

func (d *Db) MarkCompleted(jobID int64) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("queue update failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET status = 'completed',
			completed_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			locked_at = ''
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{jobID},
		})
	if err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return nil
}

func (d *Db) MarkFailed(jobID int64, errMsg string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("queue update failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	// A failed attempt frees the lock; the job stays pending until attempts
	// reach max_attempts, then flips to failed.
	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET status = CASE WHEN attempts >= max_attempts THEN 'failed' ELSE 'pending' END,
			last_error = ?,
			updated_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			locked_at = ''
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{errMsg, jobID},
		})
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

// MarkRecurrentCompleted completes a recurrent job and schedules its next
// run in one script, so a crash between the two statements cannot drop the
// recurrence.
func (d *Db) MarkRecurrentCompleted(completedJobID int64, newJob db.Job) error {
	if err := validateQueueJob(newJob); err != nil {
		return err
	}

	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("queue update failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer endFn(&err)

	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET status = 'completed',
			completed_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			locked_at = ''
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{completedJobID},
		})
	if err != nil {
		return fmt.Errorf("failed to complete recurrent job: %w", err)
	}

	maxAttempts := newJob.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 3
	}

	err = sqlitex.Execute(conn, `INSERT INTO job_queue
		(job_type, payload, payload_extra, max_attempts, scheduled_for, recurrent, interval)
		VALUES (?, ?, ?, ?, ?, 1, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{
				newJob.JobType,
				string(newJob.Payload),
				string(newJob.PayloadExtra),
				maxAttempts,
				db.TimeFormat(newJob.ScheduledFor),
				int64(newJob.Interval),
			},
		})
	if err != nil {
		return fmt.Errorf("failed to schedule next recurrent job: %w", err)
	}
	return nil
}
