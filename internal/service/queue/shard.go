// Package queue implements the per-workspace durable job queue that drains
// webhook deliveries: one goroutine per workspace shard, backoff on retry,
// and a circuit breaker + rate limiter per webhook target.
package queue

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/Notifuse/notifuse/internal/service/delivery"
	"github.com/Notifuse/notifuse/pkg/logger"
)

// BackoffSchedule computes the delay before a given retry attempt.
type BackoffSchedule func(attempt int) time.Duration

// DefaultBackoff implements the fixed schedule: 1s, 5s, 30s for attempts
// 1, 2, and 3-or-later.
func DefaultBackoff(attempt int) time.Duration {
	switch {
	case attempt <= 1:
		return 1 * time.Second
	case attempt == 2:
		return 5 * time.Second
	default:
		return 30 * time.Second
	}
}

// ExponentialBackoff returns a BackoffSchedule computing base*2^(n-1),
// the alternative mode also used by the error-classification pipeline's
// fix-retry loop.
func ExponentialBackoff(base time.Duration) BackoffSchedule {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		d := base
		for i := 1; i < attempt; i++ {
			d *= 2
		}
		return d
	}
}

// ShardConfig configures a Shard's behavior.
type ShardConfig struct {
	// MaxJobsPerTick bounds how many due jobs a single drain pass claims.
	MaxJobsPerTick int
	// TickInterval is how often the shard polls for due jobs when idle.
	TickInterval time.Duration
	// Backoff computes the delay before the next retry for a given attempt
	// number. Defaults to DefaultBackoff.
	Backoff BackoffSchedule
	// JobRetention is how old a terminal job must be before Cleanup removes it.
	JobRetention time.Duration
}

// DefaultShardConfig returns the spec's defaults.
func DefaultShardConfig() ShardConfig {
	return ShardConfig{
		MaxJobsPerTick: 10,
		TickInterval:   500 * time.Millisecond,
		Backoff:        DefaultBackoff,
		JobRetention:   7 * 24 * time.Hour,
	}
}

// Shard drains the queued jobs belonging to a single workspace. Jobs within
// a shard are processed one at a time (cooperative, single-threaded);
// independent workspaces run in parallel, each owning its own Shard.
type Shard struct {
	workspaceID string
	jobs        domain.QueueJobRepository
	webhooks    domain.WebhookRepository
	deliveries  domain.DeliveryLogRepository
	client      *delivery.Client
	breakers    *IntegrationCircuitBreaker
	limiter     *IntegrationRateLimiter
	cfg         ShardConfig
	log         logger.Logger
}

// NewShard builds a Shard for one workspace.
func NewShard(
	workspaceID string,
	jobs domain.QueueJobRepository,
	webhooks domain.WebhookRepository,
	deliveries domain.DeliveryLogRepository,
	client *delivery.Client,
	breakers *IntegrationCircuitBreaker,
	limiter *IntegrationRateLimiter,
	cfg ShardConfig,
	log logger.Logger,
) *Shard {
	if cfg.MaxJobsPerTick <= 0 {
		cfg.MaxJobsPerTick = DefaultShardConfig().MaxJobsPerTick
	}
	if cfg.Backoff == nil {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.JobRetention <= 0 {
		cfg.JobRetention = DefaultShardConfig().JobRetention
	}
	return &Shard{
		workspaceID: workspaceID,
		jobs:        jobs,
		webhooks:    webhooks,
		deliveries:  deliveries,
		client:      client,
		breakers:    breakers,
		limiter:     limiter,
		cfg:         cfg,
		log:         log.WithField("workspace_id", workspaceID),
	}
}

// Recover resets any job left in "processing" from a previous crash back to
// "pending", preserving its attempt count, so it is picked up again.
func (s *Shard) Recover(ctx context.Context) error {
	n, err := s.jobs.ResetStuckProcessing(ctx, s.workspaceID)
	if err != nil {
		return fmt.Errorf("failed to recover stuck jobs: %w", err)
	}
	if n > 0 {
		s.log.WithField("count", n).Info("recovered stuck processing jobs")
	}
	return nil
}

// Run drains due jobs on cfg.TickInterval until ctx is cancelled.
func (s *Shard) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.log.WithField("error", err.Error()).Error("shard tick failed")
			}
		}
	}
}

// Tick claims up to MaxJobsPerTick due jobs, ascending by scheduled time,
// and drains them one at a time.
func (s *Shard) Tick(ctx context.Context) error {
	jobs, err := s.jobs.PickDue(ctx, s.workspaceID, s.cfg.MaxJobsPerTick, time.Now())
	if err != nil {
		return fmt.Errorf("failed to pick due jobs: %w", err)
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ScheduledAt.Before(jobs[j].ScheduledAt) })

	for _, job := range jobs {
		s.process(ctx, job)
	}
	return nil
}

func (s *Shard) process(ctx context.Context, job *domain.QueueJob) {
	webhook, err := s.webhooks.GetByID(ctx, s.workspaceID, job.WebhookID)
	if err != nil {
		job.Status = domain.QueueJobStatusFailed
		job.LastError = fmt.Sprintf("webhook not found: %v", err)
		s.finalize(ctx, job, nil)
		return
	}

	if s.breakers.IsOpen(webhook.ID) {
		job.LastError = "circuit open: target repeatedly failing"
		s.scheduleRetry(ctx, job, webhook)
		return
	}

	if s.limiter != nil {
		_ = s.limiter.Wait(ctx, webhook.ID, 0)
	}

	result := s.client.Deliver(ctx, webhook.TargetURL, job.Payload, webhook.Secret, job.EventKind, webhook.TimeoutMs, webhook.CustomHeaders)
	s.recordDelivery(ctx, job, webhook, result)

	if result.Success {
		s.breakers.RecordSuccess(webhook.ID)
		job.Status = domain.QueueJobStatusSuccess
		now := time.Now()
		job.LastAttemptAt = &now
		s.finalize(ctx, job, webhook)
		return
	}

	s.breakers.RecordFailure(webhook.ID, DeliveryFailure{
		Retryable: result.ShouldRetry,
		Message:   failureMessage(result),
	})
	job.LastError = failureMessage(result)

	if result.ShouldRetry && webhook.RetryEnabled && job.AttemptNumber < job.MaxAttempts {
		s.scheduleRetry(ctx, job, webhook)
		return
	}

	job.Status = domain.QueueJobStatusFailed
	now := time.Now()
	job.LastAttemptAt = &now
	s.finalize(ctx, job, webhook)
}

func (s *Shard) scheduleRetry(ctx context.Context, job *domain.QueueJob, webhook *domain.Webhook) {
	job.Status = domain.QueueJobStatusPending
	job.AttemptNumber++
	job.ScheduledAt = time.Now().Add(s.cfg.Backoff(job.AttemptNumber))
	now := time.Now()
	job.LastAttemptAt = &now

	if err := s.jobs.Finalize(ctx, job); err != nil {
		s.log.WithField("error", err.Error()).Error("failed to reschedule job")
	}
}

func (s *Shard) finalize(ctx context.Context, job *domain.QueueJob, webhook *domain.Webhook) {
	if err := s.jobs.Finalize(ctx, job); err != nil {
		s.log.WithField("error", err.Error()).Error("failed to finalize job")
	}

	if webhook == nil {
		return
	}

	success := job.Status == domain.QueueJobStatusSuccess
	if err := s.webhooks.RecordAttempt(ctx, s.workspaceID, webhook.ID, success, time.Now()); err != nil {
		s.log.WithField("error", err.Error()).Error("failed to record delivery attempt on webhook")
	}
}

func (s *Shard) recordDelivery(ctx context.Context, job *domain.QueueJob, webhook *domain.Webhook, result delivery.Result) {
	entry := &domain.DeliveryLog{
		WorkspaceID:   s.workspaceID,
		WebhookID:     webhook.ID,
		JobID:         job.ID,
		EventKind:     job.EventKind,
		RequestURL:    webhook.TargetURL,
		AttemptNumber: job.AttemptNumber,
		Payload:       job.Payload,
		ElapsedMs:     result.ElapsedMs,
	}

	if result.StatusCode != 0 {
		code := result.StatusCode
		entry.ResponseStatusCode = &code
	}
	if result.ResponseBody != "" {
		body := result.ResponseBody
		entry.ResponseBody = &body
	}
	if result.Err != nil {
		msg := result.Err.Error()
		entry.ErrorMessage = &msg
	}

	switch {
	case result.Success:
		entry.Status = domain.DeliveryLogStatusSuccess
		now := time.Now()
		entry.DeliveredAt = &now
	case result.ShouldRetry && webhook.RetryEnabled && job.AttemptNumber < job.MaxAttempts:
		entry.Status = domain.DeliveryLogStatusRetrying
		next := time.Now().Add(s.cfg.Backoff(job.AttemptNumber + 1))
		entry.NextRetryAt = &next
	default:
		entry.Status = domain.DeliveryLogStatusFailed
	}

	if err := s.deliveries.Append(ctx, entry); err != nil {
		s.log.WithField("error", err.Error()).Error("failed to append delivery log")
	}
}

func failureMessage(result delivery.Result) string {
	if result.Err != nil {
		return result.Err.Error()
	}
	return fmt.Sprintf("status %d", result.StatusCode)
}

// RetryAllFailed resets every terminally-failed job in the workspace back
// to pending with a fresh attempt counter, for the admin "retry" action.
func (s *Shard) RetryAllFailed(ctx context.Context) (int, error) {
	return s.jobs.RetryAllFailed(ctx, s.workspaceID)
}

// Status returns the current pending/processing/failed/succeeded counts.
func (s *Shard) Status(ctx context.Context) (domain.QueueStatusCounts, error) {
	return s.jobs.Status(ctx, s.workspaceID)
}

// Cleanup deletes terminal jobs older than cfg.JobRetention.
func (s *Shard) Cleanup(ctx context.Context) (int, error) {
	return s.jobs.Cleanup(ctx, s.workspaceID, time.Now().Add(-s.cfg.JobRetention))
}
