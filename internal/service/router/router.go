// Package router implements the EventRouter: for every emitted event it
// finds the matching webhook subscriptions and enqueues one delivery job
// per match, publishing the raw event on the process-wide EventBus along
// the way so the Notifier can push live-session updates.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/Notifuse/notifuse/pkg/logger"
)

// EventRouter fans a single emitted event out to every webhook subscribed
// to it, enqueueing one durable QueueJob per matching subscription.
type EventRouter struct {
	webhooks domain.WebhookRepository
	jobs     domain.QueueJobRepository
	bus      domain.EventBus
	log      logger.Logger

	// lookups coalesces concurrent ByOwnerAndEvent calls for the same
	// (workspace, kind) pair into a single repository round trip — a
	// burst of the same event kind fired at once (e.g. a batch import
	// emitting N app.created events) shares one lookup instead of N.
	lookups singleflight.Group
}

// New builds an EventRouter. bus may be nil, in which case emit/emitToOne
// skip the EventBus publish step (useful for tests that only care about
// enqueueing).
func New(webhooks domain.WebhookRepository, jobs domain.QueueJobRepository, bus domain.EventBus, log logger.Logger) *EventRouter {
	return &EventRouter{webhooks: webhooks, jobs: jobs, bus: bus, log: log}
}

// Emit validates payload against kind's field contract, stamps a
// timestamp if missing, looks up every active subscription for
// (workspaceID, kind), and enqueues one job per match in parallel. A
// failure enqueueing one subscription's job does not abort the others.
func (r *EventRouter) Emit(ctx context.Context, workspaceID string, kind domain.EventKind, payload map[string]interface{}) error {
	if errs := domain.ValidatePayload(kind, payload); len(errs) > 0 {
		r.log.WithFields(map[string]interface{}{
			"workspace_id": workspaceID,
			"event_kind":   string(kind),
			"errors":       errs,
		}).Warn("dropping event: payload failed validation")
		return nil
	}

	stampTimestamp(payload)

	subs, err := r.lookupSubscriptions(ctx, workspaceID, kind)
	if err != nil {
		return fmt.Errorf("failed to look up subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	r.fanOut(ctx, workspaceID, subs, kind, body)
	r.publish(ctx, workspaceID, kind, payload)
	return nil
}

// EmitToOne bypasses the subscription lookup and enqueues a single job
// directly against webhookId, used by the admin surface's test-send
// action.
func (r *EventRouter) EmitToOne(ctx context.Context, workspaceID, webhookID string, kind domain.EventKind, payload map[string]interface{}) error {
	stampTimestamp(payload)

	webhook, err := r.webhooks.GetByID(ctx, workspaceID, webhookID)
	if err != nil {
		return fmt.Errorf("failed to look up webhook: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err := r.enqueue(ctx, workspaceID, webhook, kind, body); err != nil {
		return fmt.Errorf("failed to enqueue test delivery: %w", err)
	}
	r.publish(ctx, workspaceID, kind, payload)
	return nil
}

// lookupSubscriptions coalesces concurrent calls for the same
// (workspaceID, kind) via singleflight.Group, so a burst of identical
// events shares one ByOwnerAndEvent round trip instead of one each.
func (r *EventRouter) lookupSubscriptions(ctx context.Context, workspaceID string, kind domain.EventKind) ([]*domain.Webhook, error) {
	key := workspaceID + "|" + string(kind)
	v, err, _ := r.lookups.Do(key, func() (interface{}, error) {
		return r.webhooks.ByOwnerAndEvent(ctx, workspaceID, kind)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Webhook), nil
}

func (r *EventRouter) fanOut(ctx context.Context, workspaceID string, subs []*domain.Webhook, kind domain.EventKind, body []byte) {
	g, gctx := errgroup.WithContext(ctx)
	for _, webhook := range subs {
		webhook := webhook
		g.Go(func() error {
			if err := r.enqueue(gctx, workspaceID, webhook, kind, body); err != nil {
				r.log.WithFields(map[string]interface{}{
					"workspace_id": workspaceID,
					"webhook_id":   webhook.ID,
					"event_kind":   string(kind),
					"error":        err.Error(),
				}).Error("failed to enqueue webhook delivery")
			}
			return nil
		})
	}
	// Every goroutine swallows its own error so one failing subscription
	// never aborts the others; Wait only blocks until all complete.
	_ = g.Wait()
}

func (r *EventRouter) enqueue(ctx context.Context, workspaceID string, webhook *domain.Webhook, kind domain.EventKind, body []byte) error {
	job := &domain.QueueJob{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		WebhookID:   webhook.ID,
		EventKind:   kind,
		Payload:     body,
		Status:      domain.QueueJobStatusPending,
		AttemptNumber: 1,
		MaxAttempts:   maxAttempts(webhook),
		ScheduledAt:   time.Now(),
	}
	return r.jobs.Create(ctx, job)
}

func maxAttempts(webhook *domain.Webhook) int {
	if webhook.MaxRetries <= 0 {
		return 1
	}
	return webhook.MaxRetries + 1
}

func (r *EventRouter) publish(ctx context.Context, workspaceID string, kind domain.EventKind, payload map[string]interface{}) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(ctx, domain.EventPayload{
		Type:        domain.EventType(kind),
		WorkspaceID: workspaceID,
		Data:        payload,
	})
}

func stampTimestamp(payload map[string]interface{}) {
	if _, ok := payload["timestamp"]; !ok {
		payload["timestamp"] = time.Now().UnixMilli()
	}
}
