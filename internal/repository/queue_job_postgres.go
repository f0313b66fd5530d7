package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Notifuse/notifuse/internal/domain"
)

// queueJobRepository implements domain.QueueJobRepository for PostgreSQL,
// backing one queue.Shard per workspace.
type queueJobRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewQueueJobRepository creates a new PostgreSQL queue job repository.
func NewQueueJobRepository(workspaceRepo domain.WorkspaceRepository) domain.QueueJobRepository {
	return &queueJobRepository{workspaceRepo: workspaceRepo}
}

func (r *queueJobRepository) Create(ctx context.Context, job *domain.QueueJob) error {
	db, err := r.workspaceRepo.GetConnection(ctx, job.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = domain.QueueJobStatusPending
	}

	query := `
		INSERT INTO webhook_queue_jobs (
			id, webhook_id, event_kind, payload, status,
			attempt_number, max_attempts, scheduled_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = db.ExecContext(ctx, query,
		job.ID, job.WebhookID, string(job.EventKind), job.Payload, string(job.Status),
		job.AttemptNumber, job.MaxAttempts, job.ScheduledAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create queue job: %w", err)
	}
	return nil
}

func (r *queueJobRepository) PickDue(ctx context.Context, workspaceID string, limit int, now time.Time) ([]*domain.QueueJob, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	// SELECT ... FOR UPDATE SKIP LOCKED lets multiple shard instances (e.g.
	// during a deploy overlap) pick disjoint job sets from the same table.
	query := `
		UPDATE webhook_queue_jobs
		SET status = 'processing', updated_at = $2
		WHERE id IN (
			SELECT id FROM webhook_queue_jobs
			WHERE status = 'pending' AND scheduled_at <= $2
			ORDER BY scheduled_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, webhook_id, event_kind, payload, status, attempt_number,
			max_attempts, scheduled_at, last_attempt_at, last_error, created_at, updated_at
	`

	rows, err := db.QueryContext(ctx, query, limit, now)
	if err != nil {
		return nil, fmt.Errorf("failed to pick due jobs: %w", err)
	}
	defer rows.Close()

	return scanQueueJobs(rows, workspaceID)
}

func (r *queueJobRepository) ResetStuckProcessing(ctx context.Context, workspaceID string) (int, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := db.ExecContext(ctx, `
		UPDATE webhook_queue_jobs SET status = 'pending', updated_at = $1
		WHERE status = 'processing'
	`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to reset stuck jobs: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func (r *queueJobRepository) Finalize(ctx context.Context, job *domain.QueueJob) error {
	db, err := r.workspaceRepo.GetConnection(ctx, job.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	job.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE webhook_queue_jobs
		SET status = $2, attempt_number = $3, scheduled_at = $4,
			last_attempt_at = $5, last_error = $6, updated_at = $7
		WHERE id = $1
	`

	_, err = db.ExecContext(ctx, query,
		job.ID, string(job.Status), job.AttemptNumber, job.ScheduledAt,
		job.LastAttemptAt, nullableString(job.LastError), job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize queue job: %w", err)
	}
	return nil
}

func (r *queueJobRepository) RetryAllFailed(ctx context.Context, workspaceID string) (int, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := db.ExecContext(ctx, `
		UPDATE webhook_queue_jobs
		SET status = 'pending', attempt_number = 0, scheduled_at = $1, updated_at = $1
		WHERE status = 'failed'
	`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to retry failed jobs: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func (r *queueJobRepository) Status(ctx context.Context, workspaceID string) (domain.QueueStatusCounts, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return domain.QueueStatusCounts{}, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'processing'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(*) FILTER (WHERE status = 'success')
		FROM webhook_queue_jobs
	`

	var counts domain.QueueStatusCounts
	err = db.QueryRowContext(ctx, query).Scan(&counts.Pending, &counts.Processing, &counts.Failed, &counts.Succeeded)
	if err != nil {
		return domain.QueueStatusCounts{}, fmt.Errorf("failed to query queue status: %w", err)
	}
	return counts, nil
}

func (r *queueJobRepository) Cleanup(ctx context.Context, workspaceID string, olderThan time.Time) (int, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := db.ExecContext(ctx, `
		DELETE FROM webhook_queue_jobs
		WHERE status IN ('success', 'failed') AND updated_at < $1
	`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up queue jobs: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func (r *queueJobRepository) EarliestScheduled(ctx context.Context, workspaceID string) (*time.Time, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	var scheduledAt sql.NullTime
	err = db.QueryRowContext(ctx, `
		SELECT MIN(scheduled_at) FROM webhook_queue_jobs WHERE status = 'pending'
	`).Scan(&scheduledAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query earliest scheduled job: %w", err)
	}
	if !scheduledAt.Valid {
		return nil, nil
	}
	return &scheduledAt.Time, nil
}

func scanQueueJobs(rows *sql.Rows, workspaceID string) ([]*domain.QueueJob, error) {
	var jobs []*domain.QueueJob
	for rows.Next() {
		var job domain.QueueJob
		var eventKind, status string
		var lastAttemptAt sql.NullTime
		var lastError sql.NullString

		err := rows.Scan(
			&job.ID, &job.WebhookID, &eventKind, &job.Payload, &status, &job.AttemptNumber,
			&job.MaxAttempts, &job.ScheduledAt, &lastAttemptAt, &lastError, &job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue job: %w", err)
		}

		job.WorkspaceID = workspaceID
		job.EventKind = domain.EventKind(eventKind)
		job.Status = domain.QueueJobStatus(status)
		if lastAttemptAt.Valid {
			job.LastAttemptAt = &lastAttemptAt.Time
		}
		if lastError.Valid {
			job.LastError = lastError.String
		}

		jobs = append(jobs, &job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue jobs: %w", err)
	}
	return jobs, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
