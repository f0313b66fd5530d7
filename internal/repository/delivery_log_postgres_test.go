package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/Notifuse/notifuse/internal/repository/testutil"
)

func newDeliveryLogTestRepo(t *testing.T) (domain.DeliveryLogRepository, sqlmock.Sqlmock, string) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	t.Cleanup(cleanup)

	workspaceID := "ws-1"
	wsRepo := testutil.NewMockWorkspaceRepository(db)
	wsRepo.AddWorkspaceDB(workspaceID, db)

	return NewDeliveryLogRepository(wsRepo), mock, workspaceID
}

func deliveryLogColumns() []string {
	return []string{
		"id", "webhook_id", "job_id", "event_kind", "request_url", "attempt_number", "status",
		"response_status_code", "response_body", "error_message", "elapsed_ms", "payload",
		"created_at", "delivered_at", "next_retry_at",
	}
}

func TestDeliveryLogRepository_Append(t *testing.T) {
	repo, mock, workspaceID := newDeliveryLogTestRepo(t)

	entry := &domain.DeliveryLog{
		ID:            "log-1",
		WorkspaceID:   workspaceID,
		WebhookID:     "wh-1",
		JobID:         "job-1",
		EventKind:     domain.EventAppDeployed,
		RequestURL:    "https://example.com/hook",
		AttemptNumber: 1,
		Status:        domain.DeliveryLogStatusSuccess,
		ElapsedMs:     120,
		Payload:       []byte(`{}`),
	}

	mock.ExpectExec(`INSERT INTO webhook_delivery_logs`).
		WithArgs(
			entry.ID, entry.WebhookID, entry.JobID, string(entry.EventKind), entry.RequestURL,
			entry.AttemptNumber, string(entry.Status), entry.ResponseStatusCode, entry.ResponseBody,
			entry.ErrorMessage, entry.ElapsedMs, entry.Payload, sqlmock.AnyArg(), entry.DeliveredAt, entry.NextRetryAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), entry)
	require.NoError(t, err)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestDeliveryLogRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, workspaceID := newDeliveryLogTestRepo(t)

	mock.ExpectQuery(`(?s)SELECT.*FROM webhook_delivery_logs WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(deliveryLogColumns()))

	_, err := repo.GetByID(context.Background(), workspaceID, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivery log not found")
}

func TestDeliveryLogRepository_GetByID_Found(t *testing.T) {
	repo, mock, workspaceID := newDeliveryLogTestRepo(t)

	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(`(?s)SELECT.*FROM webhook_delivery_logs WHERE id = \$1`).
		WithArgs("log-1").
		WillReturnRows(sqlmock.NewRows(deliveryLogColumns()).AddRow(
			"log-1", "wh-1", "job-1", "app.deployed", "https://example.com/hook", 1, "success",
			200, "ok", nil, 120, []byte(`{}`),
			now, now, nil,
		))

	entry, err := repo.GetByID(context.Background(), workspaceID, "log-1")
	require.NoError(t, err)
	assert.Equal(t, workspaceID, entry.WorkspaceID)
	require.NotNil(t, entry.ResponseStatusCode)
	assert.Equal(t, 200, *entry.ResponseStatusCode)
	require.NotNil(t, entry.ResponseBody)
	assert.Equal(t, "ok", *entry.ResponseBody)
	assert.Nil(t, entry.ErrorMessage)
}

func TestDeliveryLogRepository_ListByWebhook_FiltersAndPaginates(t *testing.T) {
	repo, mock, workspaceID := newDeliveryLogTestRepo(t)

	webhookID := "wh-1"
	successFilter := false

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM webhook_delivery_logs.*WHERE webhook_id = \$1 AND status != \$2`).
		WithArgs(webhookID, string(domain.DeliveryLogStatusSuccess)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`(?s)SELECT.*FROM webhook_delivery_logs.*WHERE webhook_id = \$1 AND status != \$2.*ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(webhookID, string(domain.DeliveryLogStatusSuccess), 10, 0).
		WillReturnRows(sqlmock.NewRows(deliveryLogColumns()).AddRow(
			"log-1", webhookID, "job-1", "app.deployed", "https://example.com/hook", 2, "failed",
			nil, nil, "boom", 80, []byte(`{}`),
			time.Now().UTC(), nil, nil,
		))

	logs, total, err := repo.ListByWebhook(context.Background(), workspaceID, &webhookID, 10, 0, &successFilter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].ErrorMessage)
	assert.Equal(t, "boom", *logs[0].ErrorMessage)
}

func TestDeliveryLogRepository_ListByWebhook_NoFilters(t *testing.T) {
	repo, mock, workspaceID := newDeliveryLogTestRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM webhook_delivery_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`(?s)SELECT.*FROM webhook_delivery_logs.*ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(25, 0).
		WillReturnRows(sqlmock.NewRows(deliveryLogColumns()))

	logs, total, err := repo.ListByWebhook(context.Background(), workspaceID, nil, 25, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, logs)
}

func TestDeliveryLogRepository_RecentFailures(t *testing.T) {
	repo, mock, workspaceID := newDeliveryLogTestRepo(t)

	mock.ExpectQuery(`(?s)SELECT.*FROM webhook_delivery_logs.*WHERE webhook_id = \$1 AND status != \$2.*ORDER BY created_at DESC.*LIMIT \$3`).
		WithArgs("wh-1", string(domain.DeliveryLogStatusSuccess), 5).
		WillReturnRows(sqlmock.NewRows(deliveryLogColumns()))

	logs, err := repo.RecentFailures(context.Background(), workspaceID, "wh-1", 5)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestDeliveryLogRepository_DeleteOlderThan(t *testing.T) {
	repo, mock, workspaceID := newDeliveryLogTestRepo(t)

	cutoff := time.Now().Add(-30 * 24 * time.Hour).UTC()

	mock.ExpectExec(`DELETE FROM webhook_delivery_logs WHERE created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteOlderThan(context.Background(), workspaceID, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestDeliveryLogRepository_DeleteOlderThan_DBError(t *testing.T) {
	repo, mock, workspaceID := newDeliveryLogTestRepo(t)

	cutoff := time.Now().UTC()

	mock.ExpectExec(`DELETE FROM webhook_delivery_logs WHERE created_at < \$1`).
		WithArgs(cutoff).
		WillReturnError(errors.New("db down"))

	_, err := repo.DeleteOlderThan(context.Background(), workspaceID, cutoff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete old delivery logs")
}
