package queue

import (
	"context"
	"sync"
	"time"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/Notifuse/notifuse/internal/service/delivery"
	"github.com/Notifuse/notifuse/pkg/logger"
)

// DiscoveryInterval is how often Manager re-lists workspaces to pick up
// newly created ones, mirroring the teacher's daily-telemetry scheduler
// idiom but on a much tighter interval since shards must start draining
// soon after a workspace (and its first webhook) exists.
const DiscoveryInterval = 30 * time.Second

// Manager owns one Shard per active workspace, starting and stopping them
// as workspaces come and go. There is no per-workspace registry anywhere
// else in this codebase to ground this on directly; it follows the
// teacher's TelemetryService.StartDailyScheduler ticker-goroutine idiom,
// just scoped to one Shard.Run per workspace instead of one fan-out call.
type Manager struct {
	workspaces domain.WorkspaceRepository
	jobs        domain.QueueJobRepository
	webhooks    domain.WebhookRepository
	deliveries  domain.DeliveryLogRepository
	client      *delivery.Client
	cfg         ShardConfig
	cbConfig    CircuitBreakerConfig
	log         logger.Logger

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// NewManager builds a shard Manager. The repositories passed in must be the
// same workspace-sharded implementations used elsewhere (each call takes a
// workspaceID and resolves its own *sql.DB via the workspace repository).
func NewManager(
	workspaces domain.WorkspaceRepository,
	jobs domain.QueueJobRepository,
	webhooks domain.WebhookRepository,
	deliveries domain.DeliveryLogRepository,
	client *delivery.Client,
	cfg ShardConfig,
	log logger.Logger,
) *Manager {
	return &Manager{
		workspaces: workspaces,
		jobs:       jobs,
		webhooks:   webhooks,
		deliveries: deliveries,
		client:     client,
		cfg:        cfg,
		cbConfig:   DefaultCircuitBreakerConfig(),
		log:        log,
		running:    make(map[string]context.CancelFunc),
	}
}

// Start discovers every existing workspace, launches a Shard for each, and
// then keeps polling on DiscoveryInterval to pick up new ones, until ctx is
// cancelled.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.discover(ctx); err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(DiscoveryInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				m.stopAll()
				return
			case <-ticker.C:
				if err := m.discover(ctx); err != nil {
					m.log.WithField("error", err.Error()).Error("shard manager: failed to discover workspaces")
				}
			}
		}
	}()

	return nil
}

func (m *Manager) discover(ctx context.Context) error {
	workspaces, err := m.workspaces.List(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ws := range workspaces {
		if _, ok := m.running[ws.ID]; ok {
			continue
		}
		m.startShard(ctx, ws.ID)
	}
	return nil
}

// startShard launches one Shard in its own goroutine. Caller must hold m.mu.
func (m *Manager) startShard(parent context.Context, workspaceID string) {
	shardCtx, cancel := context.WithCancel(parent)
	m.running[workspaceID] = cancel

	shard := NewShard(
		workspaceID,
		m.jobs,
		m.webhooks,
		m.deliveries,
		m.client,
		NewIntegrationCircuitBreaker(m.cbConfig),
		NewIntegrationRateLimiter(),
		m.cfg,
		m.log,
	)

	go func() {
		if err := shard.Recover(shardCtx); err != nil {
			m.log.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
				"error":        err.Error(),
			}).Error("shard manager: failed to recover stuck jobs")
		}
		shard.Run(shardCtx)
	}()
}

// Stop cancels every running shard and blocks until Start's background
// goroutine has observed the cancellation.
func (m *Manager) Stop() {
	m.stopAll()
}

func (m *Manager) stopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for workspaceID, cancel := range m.running {
		cancel()
		delete(m.running, workspaceID)
	}
}

// ActiveShardCount reports how many workspace shards are currently running,
// used by tests and health checks.
func (m *Manager) ActiveShardCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.running)
}
