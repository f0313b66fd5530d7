package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Notifuse/notifuse/internal/domain"
)

// deliveryLogRepository implements domain.DeliveryLogRepository for PostgreSQL.
type deliveryLogRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewDeliveryLogRepository creates a new PostgreSQL delivery log repository.
func NewDeliveryLogRepository(workspaceRepo domain.WorkspaceRepository) domain.DeliveryLogRepository {
	return &deliveryLogRepository{workspaceRepo: workspaceRepo}
}

const deliveryLogSelectQuery = `
	SELECT
		id, webhook_id, job_id, event_kind, request_url, attempt_number, status,
		response_status_code, response_body, error_message, elapsed_ms, payload,
		created_at, delivered_at, next_retry_at
	FROM webhook_delivery_logs
`

func (r *deliveryLogRepository) Append(ctx context.Context, entry *domain.DeliveryLog) error {
	db, err := r.workspaceRepo.GetConnection(ctx, entry.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO webhook_delivery_logs (
			id, webhook_id, job_id, event_kind, request_url, attempt_number, status,
			response_status_code, response_body, error_message, elapsed_ms, payload,
			created_at, delivered_at, next_retry_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = db.ExecContext(ctx, query,
		entry.ID, entry.WebhookID, entry.JobID, string(entry.EventKind), entry.RequestURL,
		entry.AttemptNumber, string(entry.Status), entry.ResponseStatusCode, entry.ResponseBody,
		entry.ErrorMessage, entry.ElapsedMs, entry.Payload, entry.CreatedAt, entry.DeliveredAt, entry.NextRetryAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append delivery log: %w", err)
	}
	return nil
}

func (r *deliveryLogRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.DeliveryLog, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	row := db.QueryRowContext(ctx, deliveryLogSelectQuery+" WHERE id = $1", id)
	log, err := scanDeliveryLogRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("delivery log not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan delivery log: %w", err)
	}
	log.WorkspaceID = workspaceID
	return log, nil
}

func (r *deliveryLogRepository) ListByWebhook(ctx context.Context, workspaceID string, webhookID *string, limit, offset int, successFilter *bool) ([]*domain.DeliveryLog, int, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	where := ""
	args := []interface{}{}
	argN := 1
	addClause := func(clause string, arg interface{}) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, argN)
		args = append(args, arg)
		argN++
	}

	if webhookID != nil {
		addClause("webhook_id = $%d", *webhookID)
	}
	if successFilter != nil {
		if *successFilter {
			addClause("status = $%d", string(domain.DeliveryLogStatusSuccess))
		} else {
			addClause("status != $%d", string(domain.DeliveryLogStatusSuccess))
		}
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM webhook_delivery_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count delivery logs: %w", err)
	}

	query := deliveryLogSelectQuery + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list delivery logs: %w", err)
	}
	defer rows.Close()

	logs, err := scanDeliveryLogs(rows, workspaceID)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *deliveryLogRepository) RecentFailures(ctx context.Context, workspaceID, webhookID string, limit int) ([]*domain.DeliveryLog, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := deliveryLogSelectQuery + `
		WHERE webhook_id = $1 AND status != $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := db.QueryContext(ctx, query, webhookID, string(domain.DeliveryLogStatusSuccess), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent failures: %w", err)
	}
	defer rows.Close()

	return scanDeliveryLogs(rows, workspaceID)
}

func (r *deliveryLogRepository) DeleteOlderThan(ctx context.Context, workspaceID string, olderThan time.Time) (int, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM webhook_delivery_logs WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old delivery logs: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func scanDeliveryLogRow(s rowScanner) (*domain.DeliveryLog, error) {
	var l domain.DeliveryLog
	var eventKind, status string
	var responseStatusCode sql.NullInt64
	var responseBody, errorMessage sql.NullString
	var deliveredAt, nextRetryAt sql.NullTime

	err := s.Scan(
		&l.ID, &l.WebhookID, &l.JobID, &eventKind, &l.RequestURL, &l.AttemptNumber, &status,
		&responseStatusCode, &responseBody, &errorMessage, &l.ElapsedMs, &l.Payload,
		&l.CreatedAt, &deliveredAt, &nextRetryAt,
	)
	if err != nil {
		return nil, err
	}

	l.EventKind = domain.EventKind(eventKind)
	l.Status = domain.DeliveryLogStatus(status)
	if responseStatusCode.Valid {
		code := int(responseStatusCode.Int64)
		l.ResponseStatusCode = &code
	}
	if responseBody.Valid {
		l.ResponseBody = &responseBody.String
	}
	if errorMessage.Valid {
		l.ErrorMessage = &errorMessage.String
	}
	if deliveredAt.Valid {
		l.DeliveredAt = &deliveredAt.Time
	}
	if nextRetryAt.Valid {
		l.NextRetryAt = &nextRetryAt.Time
	}

	return &l, nil
}

func scanDeliveryLogs(rows *sql.Rows, workspaceID string) ([]*domain.DeliveryLog, error) {
	var logs []*domain.DeliveryLog
	for rows.Next() {
		l, err := scanDeliveryLogRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery log: %w", err)
		}
		l.WorkspaceID = workspaceID
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery logs: %w", err)
	}
	return logs, nil
}
