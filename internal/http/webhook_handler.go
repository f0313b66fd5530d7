package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/Notifuse/notifuse/internal/http/middleware"
	"github.com/Notifuse/notifuse/internal/service"
	"github.com/Notifuse/notifuse/internal/service/errorpipeline"
	"github.com/Notifuse/notifuse/internal/service/notifier"
	"github.com/Notifuse/notifuse/internal/service/router"
	"github.com/Notifuse/notifuse/internal/webhooksign"
	"github.com/Notifuse/notifuse/pkg/logger"
)

// WebhookHandler serves the admin surface: CRUD over webhook subscriptions,
// test-send, secret rotation, paginated log retrieval, and manual retry.
// Every operation requires that the caller is a member of the workspace
// that owns the subject webhook.
type WebhookHandler struct {
	webhooks domain.WebhookRepository
	jobs     domain.QueueJobRepository
	logs     domain.DeliveryLogRepository
	router   *router.EventRouter
	auth     *service.AuthService
	logger   logger.Logger

	// notifier pushes the same emitted event onto the live EventBus for
	// connected admin-UI sessions, alongside the durable webhook delivery
	// EventRouter.Emit already enqueued. errorPipeline classifies
	// app.error payloads for auto-fix retry bookkeeping. Both may be nil
	// (e.g. in tests exercising CRUD-only routes), in which case handleEmit
	// skips them.
	notifier      *notifier.Notifier
	errorPipeline *errorpipeline.Pipeline
}

// NewWebhookHandler builds a WebhookHandler.
func NewWebhookHandler(
	webhooks domain.WebhookRepository,
	jobs domain.QueueJobRepository,
	logs domain.DeliveryLogRepository,
	router *router.EventRouter,
	auth *service.AuthService,
	logger logger.Logger,
	notifier *notifier.Notifier,
	errorPipeline *errorpipeline.Pipeline,
) *WebhookHandler {
	return &WebhookHandler{
		webhooks:      webhooks,
		jobs:          jobs,
		logs:          logs,
		router:        router,
		auth:          auth,
		logger:        logger,
		notifier:      notifier,
		errorPipeline: errorPipeline,
	}
}

// RegisterRoutes registers the admin webhook routes under an auth-required
// middleware chain.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux, publicKeyProvider *middleware.AuthConfig) {
	requireAuth := publicKeyProvider.RequireAuth()

	mux.Handle("POST /api/webhooks", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /api/webhooks", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /api/webhooks/{id}", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /api/webhooks/{id}", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /api/webhooks/{id}", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("POST /api/webhooks/{id}/test", requireAuth(http.HandlerFunc(h.handleTest)))
	mux.Handle("POST /api/webhooks/{id}/regenerate-secret", requireAuth(http.HandlerFunc(h.handleRegenerateSecret)))
	mux.Handle("GET /api/webhooks/{id}/logs", requireAuth(http.HandlerFunc(h.handleLogs)))
	mux.Handle("POST /api/webhooks/{id}/logs/{logId}/retry", requireAuth(http.HandlerFunc(h.handleRetryDelivery)))
	mux.Handle("POST /api/webhooks/events/emit", requireAuth(http.HandlerFunc(h.handleEmit)))
	mux.Handle("POST /api/webhooks/events/test", requireAuth(http.HandlerFunc(h.handleEmitValidate)))
	mux.Handle("GET /api/webhooks/events", requireAuth(http.HandlerFunc(h.handleEventCatalog)))
}

// handleEventCatalog handles GET /api/webhooks/events: the closed set of
// subscribable event kinds, for populating the admin UI's subscription form.
func (h *WebhookHandler) handleEventCatalog(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, domain.EventKinds)
}

// writeData wraps a successful admin-surface response in the
// {success: true, data: <payload>} envelope.
func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// authorizeWorkspace verifies the bearer-token caller is a member of
// workspaceID, mapping membership/lookup failures to 403 (this admin surface
// treats "not a member" and "workspace unknown" alike: the caller never gets
// to distinguish the two). It returns a request carrying the resolved
// workspace-scoped context.
func (h *WebhookHandler) authorizeWorkspace(w http.ResponseWriter, r *http.Request, workspaceID string) (*http.Request, bool) {
	if workspaceID == "" {
		WriteJSONError(w, "workspace_id is required", http.StatusBadRequest)
		return r, false
	}
	ctx, _, _, err := h.auth.AuthenticateUserForWorkspace(r.Context(), workspaceID)
	if err != nil {
		WriteJSONError(w, "caller does not have access to this workspace", http.StatusForbidden)
		return r, false
	}
	return r.WithContext(ctx), true
}

// writeRepoError classifies a repository error as 404 (message contains
// "not found") or 500, writing the appropriate error envelope.
func (h *WebhookHandler) writeRepoError(w http.ResponseWriter, action string, err error) {
	h.logger.WithField("error", err.Error()).Error(action)
	if strings.Contains(err.Error(), "not found") {
		WriteJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	WriteJSONError(w, err.Error(), http.StatusInternalServerError)
}

type webhookCreateRequest struct {
	WorkspaceID   string            `json:"workspace_id"`
	Name          string            `json:"name"`
	TargetURL     string            `json:"target_url"`
	EventKinds    []string          `json:"event_kinds"`
	CustomHeaders map[string]string `json:"custom_headers,omitempty"`
	RetryEnabled  bool              `json:"retry_enabled"`
	MaxRetries    int               `json:"max_retries"`
	TimeoutMs     int               `json:"timeout_ms"`
}

func parseEventKinds(raw []string) ([]domain.EventKind, string) {
	if len(raw) == 0 {
		return nil, "event_kinds is required"
	}
	kinds := make([]domain.EventKind, 0, len(raw))
	for _, k := range raw {
		kind := domain.EventKind(k)
		if kind != domain.EventKindWildcard && !domain.IsValidEventKind(kind) {
			return nil, "unknown event kind: " + k
		}
		kinds = append(kinds, kind)
	}
	return kinds, ""
}

// handleCreate handles POST /api/webhooks
func (h *WebhookHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req webhookCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if _, ok := h.authorizeWorkspace(w, r, req.WorkspaceID); !ok {
		return
	}

	if req.Name == "" {
		WriteJSONError(w, "name is required", http.StatusBadRequest)
		return
	}
	if reason := webhooksign.ValidationError(req.TargetURL); reason != "" {
		WriteJSONError(w, "invalid target_url: "+reason, http.StatusBadRequest)
		return
	}
	kinds, errMsg := parseEventKinds(req.EventKinds)
	if errMsg != "" {
		WriteJSONError(w, errMsg, http.StatusBadRequest)
		return
	}

	secret, err := webhooksign.GenerateSecret()
	if err != nil {
		h.writeRepoError(w, "failed to generate webhook secret", err)
		return
	}

	timeoutMs := req.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 30000
	}

	webhook := &domain.Webhook{
		ID:            uuid.New().String(),
		Name:          req.Name,
		TargetURL:     req.TargetURL,
		Secret:        secret,
		EventKinds:    kinds,
		CustomHeaders: req.CustomHeaders,
		IsActive:      true,
		RetryEnabled:  req.RetryEnabled,
		MaxRetries:    req.MaxRetries,
		TimeoutMs:     timeoutMs,
	}

	if err := h.webhooks.Create(r.Context(), req.WorkspaceID, webhook); err != nil {
		h.writeRepoError(w, "failed to create webhook", err)
		return
	}

	writeData(w, http.StatusCreated, webhook)
}

// handleList handles GET /api/webhooks?workspace_id=&isActive=
func (h *WebhookHandler) handleList(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspace_id")
	req, ok := h.authorizeWorkspace(w, r, workspaceID)
	if !ok {
		return
	}

	activeOnly := false
	if v := r.URL.Query().Get("isActive"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			WriteJSONError(w, "isActive must be a boolean", http.StatusBadRequest)
			return
		}
		activeOnly = parsed
	}

	webhooks, err := h.webhooks.List(req.Context(), workspaceID, activeOnly)
	if err != nil {
		h.writeRepoError(w, "failed to list webhooks", err)
		return
	}

	writeData(w, http.StatusOK, webhooks)
}

// handleGet handles GET /api/webhooks/{id}?workspace_id=
func (h *WebhookHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspace_id")
	req, ok := h.authorizeWorkspace(w, r, workspaceID)
	if !ok {
		return
	}

	webhook, err := h.webhooks.GetByID(req.Context(), workspaceID, r.PathValue("id"))
	if err != nil {
		h.writeRepoError(w, "failed to get webhook", err)
		return
	}

	writeData(w, http.StatusOK, webhook)
}

type webhookUpdateRequest struct {
	WorkspaceID   string            `json:"workspace_id"`
	Name          string            `json:"name"`
	TargetURL     string            `json:"target_url"`
	EventKinds    []string          `json:"event_kinds"`
	CustomHeaders map[string]string `json:"custom_headers,omitempty"`
	IsActive      bool              `json:"is_active"`
	RetryEnabled  bool              `json:"retry_enabled"`
	MaxRetries    int               `json:"max_retries"`
	TimeoutMs     int               `json:"timeout_ms"`
}

// handleUpdate handles PUT /api/webhooks/{id}
func (h *WebhookHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req webhookUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req2, ok := h.authorizeWorkspace(w, r, req.WorkspaceID)
	if !ok {
		return
	}

	id := r.PathValue("id")
	existing, err := h.webhooks.GetByID(req2.Context(), req.WorkspaceID, id)
	if err != nil {
		h.writeRepoError(w, "failed to get webhook", err)
		return
	}

	if req.Name == "" {
		WriteJSONError(w, "name is required", http.StatusBadRequest)
		return
	}
	if reason := webhooksign.ValidationError(req.TargetURL); reason != "" {
		WriteJSONError(w, "invalid target_url: "+reason, http.StatusBadRequest)
		return
	}
	kinds, errMsg := parseEventKinds(req.EventKinds)
	if errMsg != "" {
		WriteJSONError(w, errMsg, http.StatusBadRequest)
		return
	}

	existing.Name = req.Name
	existing.TargetURL = req.TargetURL
	existing.EventKinds = kinds
	existing.CustomHeaders = req.CustomHeaders
	existing.IsActive = req.IsActive
	existing.RetryEnabled = req.RetryEnabled
	existing.MaxRetries = req.MaxRetries
	if req.TimeoutMs > 0 {
		existing.TimeoutMs = req.TimeoutMs
	}

	if err := h.webhooks.Update(req2.Context(), req.WorkspaceID, existing); err != nil {
		h.writeRepoError(w, "failed to update webhook", err)
		return
	}

	writeData(w, http.StatusOK, existing)
}

// handleDelete handles DELETE /api/webhooks/{id}?workspace_id=
func (h *WebhookHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspace_id")
	req, ok := h.authorizeWorkspace(w, r, workspaceID)
	if !ok {
		return
	}

	if err := h.webhooks.Delete(req.Context(), workspaceID, r.PathValue("id")); err != nil {
		h.writeRepoError(w, "failed to delete webhook", err)
		return
	}

	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}

type workspaceOnlyRequest struct {
	WorkspaceID string `json:"workspace_id"`
}

// handleTest handles POST /api/webhooks/{id}/test: enqueues a job carrying
// a synthetic {test:true, timestamp} payload, bypassing subscription lookup.
func (h *WebhookHandler) handleTest(w http.ResponseWriter, r *http.Request) {
	var req workspaceOnlyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req2, ok := h.authorizeWorkspace(w, r, req.WorkspaceID)
	if !ok {
		return
	}

	id := r.PathValue("id")
	webhook, err := h.webhooks.GetByID(req2.Context(), req.WorkspaceID, id)
	if err != nil {
		h.writeRepoError(w, "failed to get webhook", err)
		return
	}

	kind := domain.EventKindWildcard
	if len(webhook.EventKinds) > 0 && webhook.EventKinds[0] != domain.EventKindWildcard {
		kind = webhook.EventKinds[0]
	}

	payload := map[string]interface{}{
		"test":      true,
		"timestamp": time.Now().UnixMilli(),
	}

	if err := h.router.EmitToOne(req2.Context(), req.WorkspaceID, id, kind, payload); err != nil {
		h.writeRepoError(w, "failed to enqueue test delivery", err)
		return
	}

	writeData(w, http.StatusOK, map[string]bool{"enqueued": true})
}

// handleRegenerateSecret handles POST /api/webhooks/{id}/regenerate-secret
func (h *WebhookHandler) handleRegenerateSecret(w http.ResponseWriter, r *http.Request) {
	var req workspaceOnlyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req2, ok := h.authorizeWorkspace(w, r, req.WorkspaceID)
	if !ok {
		return
	}

	id := r.PathValue("id")
	secret, err := webhooksign.GenerateSecret()
	if err != nil {
		h.writeRepoError(w, "failed to generate webhook secret", err)
		return
	}

	if err := h.webhooks.RegenerateSecret(req2.Context(), req.WorkspaceID, id, secret); err != nil {
		h.writeRepoError(w, "failed to regenerate webhook secret", err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"secret": secret})
}

// handleLogs handles GET /api/webhooks/{id}/logs?workspace_id=&limit=&offset=&success=
func (h *WebhookHandler) handleLogs(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspace_id")
	req, ok := h.authorizeWorkspace(w, r, workspaceID)
	if !ok {
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 100 {
			WriteJSONError(w, "limit must be between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			WriteJSONError(w, "offset must be >= 0", http.StatusBadRequest)
			return
		}
		offset = parsed
	}

	var successFilter *bool
	if v := r.URL.Query().Get("success"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			WriteJSONError(w, "success must be a boolean", http.StatusBadRequest)
			return
		}
		successFilter = &parsed
	}

	id := r.PathValue("id")
	logs, total, err := h.logs.ListByWebhook(req.Context(), workspaceID, &id, limit, offset, successFilter)
	if err != nil {
		h.writeRepoError(w, "failed to list delivery logs", err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// handleRetryDelivery handles POST /api/webhooks/{id}/logs/{logId}/retry:
// replays the original delivery log's payload as a new queue job.
func (h *WebhookHandler) handleRetryDelivery(w http.ResponseWriter, r *http.Request) {
	var req workspaceOnlyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req2, ok := h.authorizeWorkspace(w, r, req.WorkspaceID)
	if !ok {
		return
	}

	id := r.PathValue("id")
	logID := r.PathValue("logId")

	entry, err := h.logs.GetByID(req2.Context(), req.WorkspaceID, logID)
	if err != nil {
		h.writeRepoError(w, "failed to get delivery log", err)
		return
	}
	if entry.WebhookID != id {
		WriteJSONError(w, "delivery log does not belong to this webhook", http.StatusBadRequest)
		return
	}

	webhook, err := h.webhooks.GetByID(req2.Context(), req.WorkspaceID, id)
	if err != nil {
		h.writeRepoError(w, "failed to get webhook", err)
		return
	}

	job := &domain.QueueJob{
		ID:          uuid.New().String(),
		WorkspaceID: req.WorkspaceID,
		WebhookID:   webhook.ID,
		EventKind:   entry.EventKind,
		Payload:     entry.Payload,
		Status:      domain.QueueJobStatusPending,
		AttemptNumber: 1,
		MaxAttempts:   webhook.MaxRetries + 1,
		ScheduledAt:   time.Now(),
	}
	if err := h.jobs.Create(req2.Context(), job); err != nil {
		h.writeRepoError(w, "failed to enqueue retry", err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"job_id": job.ID})
}

type emitRequest struct {
	WorkspaceID string                 `json:"workspace_id"`
	EventKind   string                 `json:"event_kind"`
	Payload     map[string]interface{} `json:"payload"`
}

// handleEmit handles POST /api/webhooks/events/emit: the internal producer
// entry point. Fire-and-forget: enqueue failures for individual
// subscriptions do not surface here.
func (h *WebhookHandler) handleEmit(w http.ResponseWriter, r *http.Request) {
	var req emitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req2, ok := h.authorizeWorkspace(w, r, req.WorkspaceID)
	if !ok {
		return
	}
	if req.Payload == nil {
		req.Payload = map[string]interface{}{}
	}

	kind := domain.EventKind(req.EventKind)
	if err := h.router.Emit(req2.Context(), req.WorkspaceID, kind, req.Payload); err != nil {
		h.writeRepoError(w, "failed to emit event", err)
		return
	}

	h.notifyLiveSession(req2.Context(), req.WorkspaceID, kind, req.Payload)

	writeData(w, http.StatusOK, map[string]bool{"accepted": true})
}

// notifyLiveSession pushes select event kinds onto the live EventBus
// (Notifier) and, for app.error, submits the failure to the ErrorPipeline
// for classification and auto-fix retry. It never blocks handleEmit's
// response on anything more than the in-process EventBus publish: both
// notifier and errorPipeline may be nil, and a panic inside either is
// recovered internally (see Notifier.push and Pipeline.Submit), so the
// webhook delivery path this method runs alongside is never affected by it.
func (h *WebhookHandler) notifyLiveSession(ctx context.Context, workspaceID string, kind domain.EventKind, payload map[string]interface{}) {
	appID, _ := payload["appId"].(string)

	switch kind {
	case domain.EventAppCreated:
		if h.notifier != nil {
			h.notifier.Triggered(ctx, workspaceID, appID, uuid.New().String())
		}
	case domain.EventGenerationComplete, domain.EventDeploymentComplete:
		if h.notifier != nil {
			h.notifier.ExecutionComplete(ctx, workspaceID, appID, true, string(kind))
		}
	case domain.EventAppError:
		message, _ := payload["message"].(string)
		if h.notifier != nil {
			h.notifier.ExecutionComplete(ctx, workspaceID, appID, false, message)
		}
		if h.errorPipeline != nil && message != "" {
			h.errorPipeline.Submit(message)
		}
	}
}

// handleEmitValidate handles POST /api/webhooks/events/test: validates a
// payload against its event kind's field contract without enqueueing
// anything, letting integrators check a payload shape before wiring it up.
func (h *WebhookHandler) handleEmitValidate(w http.ResponseWriter, r *http.Request) {
	var req emitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Payload == nil {
		req.Payload = map[string]interface{}{}
	}

	errs := domain.ValidatePayload(domain.EventKind(req.EventKind), req.Payload)
	writeData(w, http.StatusOK, map[string]interface{}{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}
