// Package notifier pushes live-session progress messages for
// workflow-triggering operations. It is deliberately thin: durable state
// always lives in the repositories behind EventRouter and QueueShard, so a
// failed push here is never fatal to the operation it describes.
package notifier

import (
	"context"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/Notifuse/notifuse/pkg/logger"
)

// Notifier pushes workflow_triggered / workflow_execution_update /
// workflow_execution_complete messages to the owner's live session
// channel via the process-wide EventBus.
type Notifier struct {
	bus domain.EventBus
	log logger.Logger
}

// New builds a Notifier over the given EventBus.
func New(bus domain.EventBus, log logger.Logger) *Notifier {
	return &Notifier{bus: bus, log: log}
}

// Triggered announces that a workflow run has started.
func (n *Notifier) Triggered(ctx context.Context, workspaceID, workflowID, executionID string) {
	n.push(ctx, domain.EventWorkflowTriggered, workspaceID, executionID, map[string]interface{}{
		"workflow_id":  workflowID,
		"execution_id": executionID,
	})
}

// ExecutionUpdate announces incremental progress on a running execution.
func (n *Notifier) ExecutionUpdate(ctx context.Context, workspaceID, executionID string, progress float64, message string) {
	n.push(ctx, domain.EventWorkflowExecutionUpdate, workspaceID, executionID, map[string]interface{}{
		"execution_id": executionID,
		"progress":     progress,
		"message":      message,
	})
}

// ExecutionComplete announces an execution's terminal state.
func (n *Notifier) ExecutionComplete(ctx context.Context, workspaceID, executionID string, success bool, message string) {
	n.push(ctx, domain.EventWorkflowExecutionComplete, workspaceID, executionID, map[string]interface{}{
		"execution_id": executionID,
		"success":      success,
		"message":      message,
	})
}

func (n *Notifier) push(ctx context.Context, eventType domain.EventType, workspaceID, entityID string, data map[string]interface{}) {
	if n.bus == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			n.log.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
				"entity_id":    entityID,
				"event":        string(eventType),
				"panic":        r,
			}).Error("recovered from panic pushing live-session notification")
		}
	}()

	n.bus.Publish(ctx, domain.EventPayload{
		Type:        eventType,
		WorkspaceID: workspaceID,
		EntityID:    entityID,
		Data:        data,
	})
}
