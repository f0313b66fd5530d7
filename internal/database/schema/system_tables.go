package schema

// Schema definitions - no external imports needed

// TableDefinitions contains all the SQL statements to create the system
// database tables: workspace registry, minimal user identity for the admin
// surface's bearer tokens, and the webhook subsystem's own tables.
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		type VARCHAR(20) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_sessions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS workspaces (
		id VARCHAR(20) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		settings JSONB NOT NULL DEFAULT '{"timezone": "UTC"}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_workspaces (
		user_id UUID NOT NULL,
		workspace_id VARCHAR(20) NOT NULL,
		role VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, workspace_id)
	)`,
	`CREATE TABLE IF NOT EXISTS webhooks (
		id VARCHAR(36) PRIMARY KEY,
		workspace_id VARCHAR(20) NOT NULL,
		name VARCHAR(255) NOT NULL,
		target_url TEXT NOT NULL,
		secret VARCHAR(255) NOT NULL,
		event_kinds TEXT[] NOT NULL,
		custom_headers JSONB DEFAULT '{}'::jsonb,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		retry_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		max_retries INTEGER NOT NULL DEFAULT 3,
		timeout_ms INTEGER NOT NULL DEFAULT 5000,
		success_count BIGINT NOT NULL DEFAULT 0,
		failure_count BIGINT NOT NULL DEFAULT 0,
		consecutive_failures INTEGER NOT NULL DEFAULT 0,
		last_delivery_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_queue_jobs (
		id VARCHAR(36) PRIMARY KEY,
		workspace_id VARCHAR(20) NOT NULL,
		webhook_id VARCHAR(36) NOT NULL,
		event_kind VARCHAR(100) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		attempt_count INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 3,
		next_attempt_at TIMESTAMP NOT NULL,
		last_error TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_deliveries (
		id VARCHAR(36) PRIMARY KEY,
		workspace_id VARCHAR(20) NOT NULL,
		webhook_id VARCHAR(36) NOT NULL,
		job_id VARCHAR(36) NOT NULL,
		event_kind VARCHAR(100) NOT NULL,
		attempt_number INTEGER NOT NULL DEFAULT 1,
		status VARCHAR(20) NOT NULL,
		request_body TEXT,
		response_status_code INTEGER,
		response_body TEXT,
		error_message TEXT,
		duration_ms INTEGER,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR(255) PRIMARY KEY,
		value TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_workspaces_workspace_id ON user_workspaces (workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_webhooks_workspace_id ON webhooks (workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_queue_jobs_status_next_attempt ON webhook_queue_jobs (status, next_attempt_at)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_queue_jobs_workspace_id ON webhook_queue_jobs (workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_webhook_id ON webhook_deliveries (webhook_id)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_job_id ON webhook_deliveries (job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_created_at ON webhook_deliveries (created_at)`,
}

// TableNames returns a list of all table names in creation order
var TableNames = []string{
	"users",
	"user_sessions",
	"workspaces",
	"user_workspaces",
	"webhooks",
	"webhook_queue_jobs",
	"webhook_deliveries",
	"settings",
}
