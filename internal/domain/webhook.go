package domain

//go:generate mockgen -destination mocks/mock_webhook_repository.go -package mocks github.com/Notifuse/notifuse/internal/domain WebhookRepository
//go:generate mockgen -destination mocks/mock_queue_job_repository.go -package mocks github.com/Notifuse/notifuse/internal/domain QueueJobRepository
//go:generate mockgen -destination mocks/mock_delivery_log_repository.go -package mocks github.com/Notifuse/notifuse/internal/domain DeliveryLogRepository

import (
	"context"
	"time"
)

// EventKind is a tag from the closed set of things that can happen on the
// platform and be subscribed to by a Webhook.
type EventKind string

const (
	EventAppCreated         EventKind = "app.created"
	EventAppDeployed        EventKind = "app.deployed"
	EventAppExported        EventKind = "app.exported"
	EventAppError           EventKind = "app.error"
	EventGenerationComplete EventKind = "generation.complete"
	EventDeploymentComplete EventKind = "deployment.complete"
	EventUserRegistered     EventKind = "user.registered"
	EventUserVerified       EventKind = "user.verified"
	EventPaymentSuccess     EventKind = "payment.success"
	EventPaymentFailed      EventKind = "payment.failed"

	// EventKindWildcard subscribes a Webhook to every event kind.
	EventKindWildcard EventKind = "*"
)

// EventKinds enumerates the closed set of subscribable event kinds, in the
// order surfaced by the admin event-catalog endpoint. It does not include
// the wildcard, which is a subscription-time modifier rather than a kind
// that is ever actually emitted.
var EventKinds = []EventKind{
	EventAppCreated,
	EventAppDeployed,
	EventAppExported,
	EventAppError,
	EventGenerationComplete,
	EventDeploymentComplete,
	EventUserRegistered,
	EventUserVerified,
	EventPaymentSuccess,
	EventPaymentFailed,
}

// IsValidEventKind reports whether kind belongs to the closed set.
func IsValidEventKind(kind EventKind) bool {
	for _, k := range EventKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Webhook is a user-configured HTTP endpoint subscribed to one or more
// event kinds. The owner id is the workspace id: every Webhook belongs
// solely to the workspace that created it.
type Webhook struct {
	ID                  string            `json:"id"`
	WorkspaceID         string            `json:"workspace_id"`
	Name                string            `json:"name"`
	TargetURL           string            `json:"target_url"`
	Secret              string            `json:"-"`
	EventKinds          []EventKind       `json:"event_kinds"`
	CustomHeaders       map[string]string `json:"custom_headers,omitempty"`
	IsActive            bool              `json:"is_active"`
	RetryEnabled        bool              `json:"retry_enabled"`
	MaxRetries          int               `json:"max_retries"`
	TimeoutMs           int               `json:"timeout_ms"`
	TotalDeliveries     int64             `json:"total_deliveries"`
	SuccessfulDeliveries int64            `json:"successful_deliveries"`
	FailedDeliveries    int64             `json:"failed_deliveries"`
	ConsecutiveFailures int               `json:"consecutive_failures"`
	LastTriggeredAt     *time.Time        `json:"last_triggered_at,omitempty"`
	LastSuccessAt       *time.Time        `json:"last_success_at,omitempty"`
	LastFailureAt       *time.Time        `json:"last_failure_at,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// AutoPauseThreshold is the recommended (operator-driven, never automatic)
// consecutive-failure count at which the admin surface flags a webhook as a
// candidate for manual pausing.
const AutoPauseThreshold = 20

// AutoPauseRecommended reports whether w has accumulated enough consecutive
// failures that an operator should consider pausing it. This is advisory
// only: nothing in this package pauses a webhook automatically.
func (w *Webhook) AutoPauseRecommended() bool {
	return w.ConsecutiveFailures >= AutoPauseThreshold
}

// SubscribesTo reports whether the webhook is active and subscribed to kind,
// either directly or via the wildcard.
func (w *Webhook) SubscribesTo(kind EventKind) bool {
	if !w.IsActive {
		return false
	}
	for _, k := range w.EventKinds {
		if k == kind || k == EventKindWildcard {
			return true
		}
	}
	return false
}

// QueueJobStatus is the state of a QueueJob. Once a job reaches a terminal
// status (success, failed) it never leaves it.
type QueueJobStatus string

const (
	QueueJobStatusPending    QueueJobStatus = "pending"
	QueueJobStatusProcessing QueueJobStatus = "processing"
	QueueJobStatusSuccess    QueueJobStatus = "success"
	QueueJobStatusFailed     QueueJobStatus = "failed"
)

// QueueJob is one unit of work on a per-workspace shard's durable queue:
// "deliver this event kind's payload to this webhook."
type QueueJob struct {
	ID            string         `json:"id"`
	WorkspaceID   string         `json:"workspace_id"`
	WebhookID     string         `json:"webhook_id"`
	EventKind     EventKind      `json:"event_kind"`
	Payload       []byte         `json:"-"`
	Status        QueueJobStatus `json:"status"`
	AttemptNumber int            `json:"attempt_number"`
	MaxAttempts   int            `json:"max_attempts"`
	ScheduledAt   time.Time      `json:"scheduled_at"`
	LastAttemptAt *time.Time     `json:"last_attempt_at,omitempty"`
	LastError     string         `json:"last_error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// IsDue reports whether the job is eligible to be picked up by the shard's
// tick loop at the given instant.
func (j *QueueJob) IsDue(now time.Time) bool {
	return j.Status == QueueJobStatusPending && !j.ScheduledAt.After(now)
}

// DeliveryLogStatus is the outcome recorded for a single delivery attempt.
type DeliveryLogStatus string

const (
	DeliveryLogStatusSuccess  DeliveryLogStatus = "success"
	DeliveryLogStatusRetrying DeliveryLogStatus = "retrying"
	DeliveryLogStatusFailed   DeliveryLogStatus = "failed"
)

// DeliveryLog is one append-only row per delivery attempt, kept for audit
// even after the owning QueueJob is cleaned up.
type DeliveryLog struct {
	ID                 string            `json:"id"`
	WorkspaceID        string            `json:"workspace_id"`
	WebhookID          string            `json:"webhook_id"`
	JobID              string            `json:"job_id"`
	EventKind          EventKind         `json:"event_kind"`
	RequestURL         string            `json:"request_url"`
	AttemptNumber      int               `json:"attempt_number"`
	Status             DeliveryLogStatus `json:"status"`
	ResponseStatusCode *int              `json:"response_status_code,omitempty"`
	ResponseBody       *string           `json:"response_body,omitempty"`
	ErrorMessage       *string           `json:"error_message,omitempty"`
	ElapsedMs          int               `json:"elapsed_ms"`
	Payload            []byte            `json:"-"`
	CreatedAt          time.Time         `json:"created_at"`
	DeliveredAt        *time.Time        `json:"delivered_at,omitempty"`
	NextRetryAt        *time.Time        `json:"next_retry_at,omitempty"`
}

// WebhookRepository persists Webhook rows and their delivery counters.
type WebhookRepository interface {
	Create(ctx context.Context, workspaceID string, webhook *Webhook) error
	GetByID(ctx context.Context, workspaceID, id string) (*Webhook, error)
	List(ctx context.Context, workspaceID string, activeOnly bool) ([]*Webhook, error)
	// ByOwnerAndEvent returns only active webhooks whose subscribed events
	// contain kind or the wildcard.
	ByOwnerAndEvent(ctx context.Context, workspaceID string, kind EventKind) ([]*Webhook, error)
	Update(ctx context.Context, workspaceID string, webhook *Webhook) error
	Delete(ctx context.Context, workspaceID, id string) error
	// RecordAttempt atomically updates lastTriggered, lastSuccess/lastFailure,
	// consecutiveFailures, and the total/successful/failed counters.
	RecordAttempt(ctx context.Context, workspaceID, id string, success bool, at time.Time) error
	RegenerateSecret(ctx context.Context, workspaceID, id, newSecret string) error
}

// QueueJobRepository persists the per-workspace shard's durable queue.
type QueueJobRepository interface {
	Create(ctx context.Context, job *QueueJob) error
	// PickDue reads up to limit pending jobs whose scheduledAt has passed,
	// ascending by scheduledAt, and atomically marks them processing.
	PickDue(ctx context.Context, workspaceID string, limit int, now time.Time) ([]*QueueJob, error)
	// ResetStuckProcessing resets every job left in "processing" (e.g. after
	// a crash) back to pending, preserving attemptNumber.
	ResetStuckProcessing(ctx context.Context, workspaceID string) (int, error)
	Finalize(ctx context.Context, job *QueueJob) error
	RetryAllFailed(ctx context.Context, workspaceID string) (int, error)
	Status(ctx context.Context, workspaceID string) (QueueStatusCounts, error)
	Cleanup(ctx context.Context, workspaceID string, olderThan time.Time) (int, error)
	// EarliestScheduled returns the earliest scheduledAt among pending jobs,
	// used by the shard to size its sleep between ticks.
	EarliestScheduled(ctx context.Context, workspaceID string) (*time.Time, error)
}

// QueueStatusCounts is the result of QueueJobRepository.Status.
type QueueStatusCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Failed     int `json:"failed"`
	Succeeded  int `json:"succeeded"`
}

// DeliveryLogRepository persists the append-only delivery audit log.
type DeliveryLogRepository interface {
	Append(ctx context.Context, entry *DeliveryLog) error
	GetByID(ctx context.Context, workspaceID, id string) (*DeliveryLog, error)
	// ListByWebhook paginates logs for a webhook, or for the whole workspace
	// when webhookID is nil, optionally filtered by success.
	ListByWebhook(ctx context.Context, workspaceID string, webhookID *string, limit, offset int, successFilter *bool) ([]*DeliveryLog, int, error)
	RecentFailures(ctx context.Context, workspaceID, webhookID string, limit int) ([]*DeliveryLog, error)
	DeleteOlderThan(ctx context.Context, workspaceID string, olderThan time.Time) (int, error)
}
