package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"

	"github.com/Notifuse/notifuse/config"
	"github.com/Notifuse/notifuse/internal/database"
	"github.com/Notifuse/notifuse/internal/domain"
	httpHandler "github.com/Notifuse/notifuse/internal/http"
	"github.com/Notifuse/notifuse/internal/http/middleware"
	"github.com/Notifuse/notifuse/internal/migrations"
	"github.com/Notifuse/notifuse/internal/repository"
	"github.com/Notifuse/notifuse/internal/service"
	"github.com/Notifuse/notifuse/internal/service/delivery"
	"github.com/Notifuse/notifuse/internal/service/errorpipeline"
	"github.com/Notifuse/notifuse/internal/service/notifier"
	"github.com/Notifuse/notifuse/internal/service/queue"
	"github.com/Notifuse/notifuse/internal/service/router"
	"github.com/Notifuse/notifuse/pkg/cache"
	"github.com/Notifuse/notifuse/pkg/logger"
	"github.com/Notifuse/notifuse/pkg/tracing"
)

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	// Getters for app components accessed in tests
	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB

	// Repository getters for testing
	GetUserRepository() domain.UserRepository
	GetWorkspaceRepository() domain.WorkspaceRepository
	GetAuthRepository() domain.AuthRepository
	GetWebhookRepository() domain.WebhookRepository
	GetQueueJobRepository() domain.QueueJobRepository
	GetDeliveryLogRepository() domain.DeliveryLogRepository

	// Webhook pipeline component getters for testing
	GetEventBus() domain.EventBus
	GetEventRouter() *router.EventRouter
	GetNotifier() *notifier.Notifier
	GetErrorPipeline() *errorpipeline.Pipeline
	GetShardManager() *queue.Manager

	// Server status methods
	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	// Methods for initialization steps
	InitDB() error
	InitTracing() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	// Graceful shutdown methods
	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App encapsulates the application dependencies and configuration. It is
// trimmed from the teacher's SaaS surface (contacts/lists/templates/
// broadcasts/email-provider integrations) down to what the webhook delivery
// and workflow-trigger subsystem needs: multi-tenant auth/user/workspace
// infrastructure plus the webhook domain stack.
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB

	// Repositories
	userRepo      domain.UserRepository
	workspaceRepo domain.WorkspaceRepository
	authRepo      domain.AuthRepository
	webhookRepo   domain.WebhookRepository
	queueJobRepo  domain.QueueJobRepository
	deliveryRepo  domain.DeliveryLogRepository

	// Services
	authService      *service.AuthService
	userService       *service.UserService
	workspaceService  *service.WorkspaceService

	// Webhook delivery / workflow-trigger pipeline
	eventBus       domain.EventBus
	eventRouter    *router.EventRouter
	notifierSvc    *notifier.Notifier
	deliveryClient *delivery.Client
	errorPipeline  *errorpipeline.Pipeline
	shardManager   *queue.Manager

	// HTTP handlers
	mux    *http.ServeMux
	server *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64          // atomic counter for active HTTP requests
	requestWg       sync.WaitGroup // wait group for active requests
	shutdownTimeout time.Duration  // configurable shutdown timeout
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLogger(),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 60 * time.Second,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing. Kept for the auth/user
// subsystem the teacher already instruments this way; the webhook delivery
// path itself is not traced through OpenCensus (see DESIGN.md).
func (a *App) InitTracing() error {
	tracingConfig := &a.config.Tracing

	if err := tracing.InitTracing(tracingConfig); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if tracingConfig.Enabled {
		a.logger.WithField("trace_exporter", tracingConfig.TraceExporter).
			WithField("sampling_rate", tracingConfig.SamplingProbability).
			Info("Tracing initialized successfully")
	}

	return nil
}

// InitDB initializes the system database connection, runs migrations, and
// sets pool limits.
func (a *App) InitDB() error {
	if a.db != nil {
		// Already set, e.g. by WithMockDB in tests.
		return nil
	}

	a.logger.WithField("host", a.config.Database.Host).
		WithField("dbname", a.config.Database.DBName).
		Info("Connecting to system database")

	if err := database.EnsureSystemDatabaseExists(database.GetPostgresDSN(&a.config.Database), a.config.Database.DBName); err != nil {
		return fmt.Errorf("failed to ensure system database exists: %w", err)
	}

	driverName := "postgres"
	if a.config.Tracing.Enabled {
		var err error
		driverName, err = ocsql.Register(driverName, ocsql.WithAllTraceOptions())
		if err != nil {
			return fmt.Errorf("failed to register opencensus sql driver: %w", err)
		}
	}

	db, err := sql.Open(driverName, database.GetSystemDSN(&a.config.Database))
	if err != nil {
		return fmt.Errorf("failed to connect to system database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping system database: %w", err)
	}

	if err := database.InitializeDatabase(db, a.config.RootEmail); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	migrationManager := migrations.NewManager(a.logger)
	if err := migrationManager.RunMigrations(context.Background(), a.config, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	maxOpen, maxIdle, maxLifetime := database.GetConnectionPoolSettings()
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	a.db = db
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	a.userRepo = repository.NewUserRepository(a.db)
	a.authRepo = repository.NewSQLAuthRepository(a.db, a.logger)
	a.workspaceRepo = repository.NewWorkspaceRepository(a.db, &a.config.Database)
	a.webhookRepo = repository.NewWebhookRepository(a.workspaceRepo)
	a.queueJobRepo = repository.NewQueueJobRepository(a.workspaceRepo)
	a.deliveryRepo = repository.NewDeliveryLogRepository(a.workspaceRepo)

	return nil
}

// stubEmailSender is a minimal EmailSender used in place of the teacher's
// pkg/mailer (SMTP/console mailer): this subsystem delivers webhooks, not
// transactional email, so there is no SMTP/provider wiring to call into.
// It still satisfies UserService's EmailSender dependency so magic-code
// sign-in keeps working end to end.
type stubEmailSender struct {
	log logger.Logger
}

func (s *stubEmailSender) SendMagicCode(email, code string) error {
	s.log.WithFields(map[string]interface{}{"email": email}).Info("magic code requested (no mailer wired)")
	log.Printf("magic code for %s: %s", email, code)
	return nil
}

// InitServices initializes auth/user/workspace services plus the webhook
// delivery and workflow-trigger pipeline (EventRouter, Notifier,
// ErrorPipeline, shard Manager).
func (a *App) InitServices() error {
	a.eventBus = domain.NewInMemoryEventBus()

	var err error
	a.authService, err = service.NewAuthService(service.AuthServiceConfig{
		Repository:          a.authRepo,
		WorkspaceRepository: a.workspaceRepo,
		PrivateKey:          a.config.Security.PasetoPrivateKeyBytes,
		PublicKey:           a.config.Security.PasetoPublicKeyBytes,
		Logger:              a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}

	a.userService, err = service.NewUserService(service.UserServiceConfig{
		Repository:    a.userRepo,
		AuthService:   a.authService,
		EmailSender:   &stubEmailSender{log: a.logger},
		SessionExpiry: 30 * 24 * time.Hour,
		IsProduction:  a.config.IsProduction(),
		Logger:        a.logger,
		Tracer:        tracing.GetTracer(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize user service: %w", err)
	}

	a.workspaceService = service.NewWorkspaceService(
		a.workspaceRepo,
		a.logger,
		a.userService,
		a.authService,
		a.config,
	)

	a.eventRouter = router.New(a.webhookRepo, a.queueJobRepo, a.eventBus, a.logger)
	a.notifierSvc = notifier.New(a.eventBus, a.logger)

	httpClient := &http.Client{Timeout: 10 * time.Second}
	if a.config.Tracing.Enabled {
		httpClient = tracing.WrapHTTPClient(httpClient)
	}
	a.deliveryClient = delivery.NewClient(httpClient, a.logger)

	shardCfg := queue.DefaultShardConfig()
	shardCfg.JobRetention = time.Duration(a.config.Webhook.JobRetentionMS) * time.Millisecond
	a.shardManager = queue.NewManager(a.workspaceRepo, a.queueJobRepo, a.webhookRepo, a.deliveryRepo, a.deliveryClient, shardCfg, a.logger)

	// ErrorPipeline classifies app.error webhook payloads (see
	// WebhookHandler.handleEmit). There is no in-process sandbox/build
	// runner in this subsystem's scope to actually repair a classified
	// error, so the fix function only exercises the pipeline's retry and
	// backoff bookkeeping and always reports the attempt as unresolved;
	// see DESIGN.md's Open Question decision on this.
	fixFunc := func(ctx context.Context, classified *domain.ClassifiedError) error {
		return fmt.Errorf("no auto-fix executor is configured for kind %q", classified.Kind)
	}
	a.errorPipeline = errorpipeline.New(fixFunc, cache.NewInMemoryCache(time.Minute), errorpipeline.DefaultConfig(), a.logger)

	return nil
}

// InitHandlers registers the admin HTTP surface.
func (a *App) InitHandlers() error {
	a.mux = http.NewServeMux()

	authMiddleware := middleware.NewAuthMiddleware(a.config.Security.PasetoPublicKey)

	webhookHandler := httpHandler.NewWebhookHandler(
		a.webhookRepo,
		a.queueJobRepo,
		a.deliveryRepo,
		a.eventRouter,
		a.authService,
		a.logger,
		a.notifierSvc,
		a.errorPipeline,
	)
	webhookHandler.RegisterRoutes(a.mux, authMiddleware)

	return nil
}

// Start starts the HTTP server and the webhook pipeline's background loops.
func (a *App) Start() error {
	var handler http.Handler = a.mux
	handler = a.gracefulShutdownMiddleware(handler)
	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
	}
	handler = middleware.CORSMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info(fmt.Sprintf("Server starting on %s", addr))

	a.serverMu.Lock()
	if a.serverStarted != nil {
		close(a.serverStarted)
	}
	a.serverStarted = make(chan struct{})
	a.server = &http.Server{Addr: addr, Handler: handler}
	serverStarted := a.serverStarted
	a.serverMu.Unlock()

	close(serverStarted)

	if a.shardManager != nil {
		if err := a.shardManager.Start(a.shutdownCtx); err != nil {
			a.logger.WithField("error", err.Error()).Error("failed to start webhook shard manager")
		}
	}
	if a.errorPipeline != nil {
		go a.errorPipeline.Run(a.shutdownCtx)
	}

	if a.config.Server.SSL.Enabled {
		return a.server.ListenAndServeTLS(a.config.Server.SSL.CertFile, a.config.Server.SSL.KeyFile)
	}

	return a.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and the webhook pipeline.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	a.shutdownCancel()
	if a.shardManager != nil {
		a.shardManager.Stop()
	}
	if a.errorPipeline != nil {
		a.errorPipeline.Abort()
	}

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources(ctx)
	}

	activeCount := a.getActiveRequestCount()
	a.logger.WithField("active_requests", activeCount).Info("Active requests at shutdown start")

	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining - time.Second
			if shutdownTimeout < 0 {
				shutdownTimeout = 0
			}
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	serverShutdownDone := make(chan error, 1)
	go func() {
		serverShutdownDone <- server.Shutdown(shutdownCtx)
	}()

	requestsDone := make(chan struct{}, 1)
	go func() {
		defer close(requestsDone)
		done := make(chan struct{})
		go func() {
			a.requestWg.Wait()
			close(done)
		}()

		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				a.logger.WithField("active_requests", a.getActiveRequestCount()).Info("Still waiting for requests to complete...")
			case <-shutdownCtx.Done():
				a.logger.WithField("active_requests", a.getActiveRequestCount()).Warn("Shutdown timeout reached, forcing shutdown")
				return
			}
		}
	}()

	var shutdownErr error
	select {
	case err := <-serverShutdownDone:
		shutdownErr = err
		a.logger.Info("HTTP server shutdown completed")
	case <-shutdownCtx.Done():
		a.logger.Warn("Shutdown timeout reached")
		shutdownErr = fmt.Errorf("shutdown timeout exceeded")
	}

	if shutdownErr == nil {
		select {
		case <-requestsDone:
		case <-time.After(2 * time.Second):
			if activeCount := a.getActiveRequestCount(); activeCount > 0 {
				a.logger.WithField("active_requests", activeCount).Warn("Some requests still active, proceeding with shutdown")
			}
		}
	}

	if cleanupErr := a.cleanupResources(ctx); cleanupErr != nil {
		a.logger.WithField("error", cleanupErr.Error()).Error("Error during resource cleanup")
		if shutdownErr == nil {
			shutdownErr = cleanupErr
		}
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}

	return shutdownErr
}

func (a *App) cleanupResources(ctx context.Context) error {
	a.logger.Info("Cleaning up resources...")

	if a.db != nil {
		if a.config.Tracing.Enabled {
			if err := ocsql.RecordStats(a.db, 5*time.Second); err != nil {
				a.logger.WithField("error", err.Error()).Error("Failed to record final database stats for tracing")
			}
		}
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing database connection")
			return err
		}
	}

	a.logger.Info("Resource cleanup completed")
	return nil
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created and initialized
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	if started == nil {
		a.logger.Error("serverStarted channel is nil - server initialization error")
		<-ctx.Done()
		return false
	}

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting webhook delivery service")

	if err := a.InitTracing(); err != nil {
		return err
	}
	if err := a.InitDB(); err != nil {
		return err
	}
	if err := a.InitRepositories(); err != nil {
		return err
	}
	if err := a.InitServices(); err != nil {
		return err
	}
	if err := a.InitHandlers(); err != nil {
		return err
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

func (a *App) GetConfig() *config.Config { return a.config }
func (a *App) GetLogger() logger.Logger  { return a.logger }
func (a *App) GetMux() *http.ServeMux    { return a.mux }
func (a *App) GetDB() *sql.DB            { return a.db }

func (a *App) GetUserRepository() domain.UserRepository               { return a.userRepo }
func (a *App) GetWorkspaceRepository() domain.WorkspaceRepository      { return a.workspaceRepo }
func (a *App) GetAuthRepository() domain.AuthRepository               { return a.authRepo }
func (a *App) GetWebhookRepository() domain.WebhookRepository         { return a.webhookRepo }
func (a *App) GetQueueJobRepository() domain.QueueJobRepository       { return a.queueJobRepo }
func (a *App) GetDeliveryLogRepository() domain.DeliveryLogRepository { return a.deliveryRepo }

func (a *App) GetEventBus() domain.EventBus               { return a.eventBus }
func (a *App) GetEventRouter() *router.EventRouter        { return a.eventRouter }
func (a *App) GetNotifier() *notifier.Notifier            { return a.notifierSvc }
func (a *App) GetErrorPipeline() *errorpipeline.Pipeline  { return a.errorPipeline }
func (a *App) GetShardManager() *queue.Manager            { return a.shardManager }

// incrementActiveRequests atomically increments the active request counter
func (a *App) incrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, 1)
	a.requestWg.Add(1)
}

// decrementActiveRequests atomically decrements the active request counter
func (a *App) decrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, -1)
	a.requestWg.Done()
}

func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// GetActiveRequestCount returns the current number of active requests
func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
	a.logger.WithField("shutdown_timeout", timeout).Info("Shutdown timeout configured")
}

// GetShutdownContext returns the shutdown context for components that need to watch for shutdown
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

type shutdownCtxKey struct{}

// gracefulShutdownMiddleware wraps HTTP handlers to track active requests
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		a.incrementActiveRequests()
		defer a.decrementActiveRequests()

		ctx := context.WithValue(r.Context(), shutdownCtxKey{}, a.shutdownCtx)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

// Ensure App implements AppInterface
var _ AppInterface = (*App)(nil)
