package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/lib/pq"
)

// webhookRepository implements domain.WebhookRepository for PostgreSQL. Each
// workspace owns its own database, reached through workspaceRepo.GetConnection,
// matching the sharding model the rest of this package's repositories use.
type webhookRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewWebhookRepository creates a new PostgreSQL webhook repository.
func NewWebhookRepository(workspaceRepo domain.WorkspaceRepository) domain.WebhookRepository {
	return &webhookRepository{workspaceRepo: workspaceRepo}
}

func (r *webhookRepository) Create(ctx context.Context, workspaceID string, webhook *domain.Webhook) error {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	now := time.Now().UTC()
	webhook.CreatedAt = now
	webhook.UpdatedAt = now

	headersJSON, err := json.Marshal(webhook.CustomHeaders)
	if err != nil {
		return fmt.Errorf("failed to marshal custom headers: %w", err)
	}

	query := `
		INSERT INTO webhooks (
			id, name, target_url, secret, event_kinds, custom_headers,
			is_active, retry_enabled, max_retries, timeout_ms,
			total_deliveries, successful_deliveries, failed_deliveries,
			consecutive_failures, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
	`

	_, err = db.ExecContext(ctx, query,
		webhook.ID,
		webhook.Name,
		webhook.TargetURL,
		webhook.Secret,
		pq.Array(eventKindStrings(webhook.EventKinds)),
		headersJSON,
		webhook.IsActive,
		webhook.RetryEnabled,
		webhook.MaxRetries,
		webhook.TimeoutMs,
		webhook.TotalDeliveries,
		webhook.SuccessfulDeliveries,
		webhook.FailedDeliveries,
		webhook.ConsecutiveFailures,
		webhook.CreatedAt,
		webhook.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}
	return nil
}

func (r *webhookRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Webhook, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	row := db.QueryRowContext(ctx, webhookSelectQuery+" WHERE id = $1", id)
	return scanWebhook(row)
}

func (r *webhookRepository) List(ctx context.Context, workspaceID string, activeOnly bool) ([]*domain.Webhook, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := webhookSelectQuery
	if activeOnly {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer rows.Close()

	return scanWebhooks(rows)
}

func (r *webhookRepository) ByOwnerAndEvent(ctx context.Context, workspaceID string, kind domain.EventKind) ([]*domain.Webhook, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := webhookSelectQuery + `
		WHERE is_active = true
			AND (event_kinds @> ARRAY[$1]::text[] OR event_kinds @> ARRAY['*']::text[])
		ORDER BY created_at ASC
	`

	rows, err := db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to look up subscribed webhooks: %w", err)
	}
	defer rows.Close()

	return scanWebhooks(rows)
}

func (r *webhookRepository) Update(ctx context.Context, workspaceID string, webhook *domain.Webhook) error {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	webhook.UpdatedAt = time.Now().UTC()

	headersJSON, err := json.Marshal(webhook.CustomHeaders)
	if err != nil {
		return fmt.Errorf("failed to marshal custom headers: %w", err)
	}

	query := `
		UPDATE webhooks
		SET name = $2, target_url = $3, event_kinds = $4, custom_headers = $5,
			is_active = $6, retry_enabled = $7, max_retries = $8, timeout_ms = $9,
			updated_at = $10
		WHERE id = $1
	`

	result, err := db.ExecContext(ctx, query,
		webhook.ID,
		webhook.Name,
		webhook.TargetURL,
		pq.Array(eventKindStrings(webhook.EventKinds)),
		headersJSON,
		webhook.IsActive,
		webhook.RetryEnabled,
		webhook.MaxRetries,
		webhook.TimeoutMs,
		webhook.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update webhook: %w", err)
	}
	return requireRowsAffected(result, "webhook not found: %s", webhook.ID)
}

func (r *webhookRepository) Delete(ctx context.Context, workspaceID, id string) error {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return requireRowsAffected(result, "webhook not found: %s", id)
}

// RecordAttempt mutates all five rolling-counter fields in a single UPDATE so
// the "totalDeliveries = successfulDeliveries + failedDeliveries" and
// "consecutiveFailures resets to 0 on success" invariants always hold, even
// under concurrent attempts against the same webhook row.
func (r *webhookRepository) RecordAttempt(ctx context.Context, workspaceID, id string, success bool, at time.Time) error {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := `
		UPDATE webhooks
		SET total_deliveries = total_deliveries + 1,
			successful_deliveries = successful_deliveries + CASE WHEN $2 THEN 1 ELSE 0 END,
			failed_deliveries = failed_deliveries + CASE WHEN $2 THEN 0 ELSE 1 END,
			consecutive_failures = CASE WHEN $2 THEN 0 ELSE consecutive_failures + 1 END,
			last_triggered_at = $3,
			last_success_at = CASE WHEN $2 THEN $3 ELSE last_success_at END,
			last_failure_at = CASE WHEN $2 THEN last_failure_at ELSE $3 END,
			updated_at = $3
		WHERE id = $1
	`

	result, err := db.ExecContext(ctx, query, id, success, at)
	if err != nil {
		return fmt.Errorf("failed to record delivery attempt: %w", err)
	}
	return requireRowsAffected(result, "webhook not found: %s", id)
}

func (r *webhookRepository) RegenerateSecret(ctx context.Context, workspaceID, id, newSecret string) error {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := db.ExecContext(ctx, `UPDATE webhooks SET secret = $2, updated_at = $3 WHERE id = $1`, id, newSecret, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to regenerate webhook secret: %w", err)
	}
	return requireRowsAffected(result, "webhook not found: %s", id)
}

const webhookSelectQuery = `
	SELECT
		id, name, target_url, secret, event_kinds, custom_headers,
		is_active, retry_enabled, max_retries, timeout_ms,
		total_deliveries, successful_deliveries, failed_deliveries, consecutive_failures,
		last_triggered_at, last_success_at, last_failure_at, created_at, updated_at
	FROM webhooks
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWebhookRow(s rowScanner) (*domain.Webhook, error) {
	var w domain.Webhook
	var eventKinds []string
	var headersJSON []byte
	var lastTriggeredAt, lastSuccessAt, lastFailureAt sql.NullTime

	err := s.Scan(
		&w.ID, &w.Name, &w.TargetURL, &w.Secret, pq.Array(&eventKinds), &headersJSON,
		&w.IsActive, &w.RetryEnabled, &w.MaxRetries, &w.TimeoutMs,
		&w.TotalDeliveries, &w.SuccessfulDeliveries, &w.FailedDeliveries, &w.ConsecutiveFailures,
		&lastTriggeredAt, &lastSuccessAt, &lastFailureAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.EventKinds = make([]domain.EventKind, len(eventKinds))
	for i, k := range eventKinds {
		w.EventKinds[i] = domain.EventKind(k)
	}

	if len(headersJSON) > 0 {
		if err := json.Unmarshal(headersJSON, &w.CustomHeaders); err != nil {
			return nil, fmt.Errorf("failed to unmarshal custom headers: %w", err)
		}
	}

	if lastTriggeredAt.Valid {
		w.LastTriggeredAt = &lastTriggeredAt.Time
	}
	if lastSuccessAt.Valid {
		w.LastSuccessAt = &lastSuccessAt.Time
	}
	if lastFailureAt.Valid {
		w.LastFailureAt = &lastFailureAt.Time
	}

	return &w, nil
}

func scanWebhook(row *sql.Row) (*domain.Webhook, error) {
	w, err := scanWebhookRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("webhook not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan webhook: %w", err)
	}
	return w, nil
}

func scanWebhooks(rows *sql.Rows) ([]*domain.Webhook, error) {
	var webhooks []*domain.Webhook
	for rows.Next() {
		w, err := scanWebhookRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook: %w", err)
		}
		webhooks = append(webhooks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating webhooks: %w", err)
	}
	return webhooks, nil
}

func requireRowsAffected(result sql.Result, format, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf(format, id)
	}
	return nil
}

func eventKindStrings(kinds []domain.EventKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
