package jobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const jobColumns = "id, run_id, correlation_id, status, codec, width, height, image_count, frame_duration_ms, bit_rate, audio, output, error_kind, error_message, created_at, updated_at, finished_at, duration_ms"

// ErrNotFound is returned when a job row does not exist.
var ErrNotFound = errors.New("job not found")

// Insert records a newly started job with status running.
func (s *Store) Insert(ctx context.Context, job Job) (*Job, error) {
	if strings.TrimSpace(job.CorrelationID) == "" {
		return nil, errors.New("correlation id required")
	}
	created := job.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	timestamp := created.UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO jobs (
            run_id, correlation_id, status, codec, width, height, image_count,
            frame_duration_ms, bit_rate, audio, output, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.RunID,
		job.CorrelationID,
		StatusRunning,
		job.Codec,
		job.Width,
		job.Height,
		job.ImageCount,
		job.FrameDurationMS,
		job.BitRate,
		nullableString(job.Audio),
		nullableString(job.Output),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Result is the terminal state of a job.
type Result struct {
	Status       Status
	Output       string
	ErrorKind    string
	ErrorMessage string
	FinishedAt   time.Time
	Duration     time.Duration
}

// Finish moves a running job to its terminal status.
func (s *Store) Finish(ctx context.Context, correlationID string, result Result) error {
	if result.Status != StatusSucceeded && result.Status != StatusFailed {
		return fmt.Errorf("finish job: invalid terminal status %q", result.Status)
	}
	finished := result.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	timestamp := finished.UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs SET status = ?, output = COALESCE(?, output), error_kind = ?, error_message = ?,
            finished_at = ?, updated_at = ?, duration_ms = ?
        WHERE correlation_id = ? AND status = ?`,
		result.Status,
		nullableString(result.Output),
		nullableString(result.ErrorKind),
		nullableString(result.ErrorMessage),
		timestamp,
		timestamp,
		result.Duration.Milliseconds(),
		correlationID,
		StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish job %s: %w", correlationID, ErrNotFound)
	}
	return nil
}

// GetByID fetches a single job.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return job, err
}

// GetByCorrelationID fetches the job recorded for an orchestrator run.
func (s *Store) GetByCorrelationID(ctx context.Context, correlationID string) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), "SELECT "+jobColumns+" FROM jobs WHERE correlation_id = ?", correlationID)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", correlationID, ErrNotFound)
	}
	return job, err
}

// List returns the newest jobs first. A limit of zero or less returns all.
func (s *Store) List(ctx context.Context, limit int) ([]*Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// LatestSucceeded returns the newest successful jobs, newest first.
func (s *Store) LatestSucceeded(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 1
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+jobColumns+" FROM jobs WHERE status = ? AND output IS NOT NULL ORDER BY id DESC LIMIT ?",
		StatusSucceeded, limit)
	if err != nil {
		return nil, fmt.Errorf("latest succeeded: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ResetInterrupted fails jobs left running by a process that exited before
// they finished.
func (s *Store) ResetInterrupted(ctx context.Context) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs SET status = ?, error_kind = ?, error_message = ?, finished_at = ?, updated_at = ?
        WHERE status = ?`,
		StatusFailed,
		"interrupted",
		"process exited before the job finished",
		timestamp,
		timestamp,
		StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("reset interrupted jobs: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of jobs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		job          Job
		status       string
		audio        sql.NullString
		output       sql.NullString
		errorKind    sql.NullString
		errorMessage sql.NullString
		createdRaw   string
		updatedRaw   string
		finishedRaw  sql.NullString
		durationMS   sql.NullInt64
	)
	if err := scanner.Scan(
		&job.ID,
		&job.RunID,
		&job.CorrelationID,
		&status,
		&job.Codec,
		&job.Width,
		&job.Height,
		&job.ImageCount,
		&job.FrameDurationMS,
		&job.BitRate,
		&audio,
		&output,
		&errorKind,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&finishedRaw,
		&durationMS,
	); err != nil {
		return nil, err
	}
	job.Status = Status(status)
	job.Audio = audio.String
	job.Output = output.String
	job.ErrorKind = errorKind.String
	job.ErrorMessage = errorMessage.String
	if created, err := parseTimeString(createdRaw); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		job.UpdatedAt = updated
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			job.FinishedAt = &finished
		}
	}
	if durationMS.Valid {
		job.Duration = time.Duration(durationMS.Int64) * time.Millisecond
	}
	return &job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
