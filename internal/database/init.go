package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Notifuse/notifuse/internal/database/schema"
	"github.com/Notifuse/notifuse/internal/domain"
)

// InitializeDatabase creates all necessary system database tables if they
// don't exist, and seeds a root user so the admin surface has at least one
// identity to issue PASETO tokens for.
func InitializeDatabase(db *sql.DB, rootEmail string) error {
	for _, query := range schema.TableDefinitions {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if rootEmail != "" {
		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", rootEmail).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check root user existence: %w", err)
		}

		if !exists {
			rootUser := &domain.User{
				ID:        uuid.New().String(),
				Type:      domain.UserTypeUser,
				Email:     rootEmail,
				Name:      "Root User",
				CreatedAt: time.Now().UTC(),
				UpdatedAt: time.Now().UTC(),
			}

			query := `
				INSERT INTO users (id, type, email, name, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`
			_, err = db.Exec(query,
				rootUser.ID,
				rootUser.Type,
				rootUser.Email,
				rootUser.Name,
				rootUser.CreatedAt,
				rootUser.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to create root user: %w", err)
			}
		}
	}

	return nil
}

// InitializeWorkspaceDatabase creates the webhook subsystem's tables in a
// workspace-specific database, for deployments that split one Postgres
// database per workspace instead of using workspace_id columns in a shared
// system database.
func InitializeWorkspaceDatabase(db *sql.DB) error {
	queries := []string{
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
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create workspace table: %w", err)
		}
	}

	return nil
}

// CleanDatabase drops all tables in reverse order
func CleanDatabase(db *sql.DB) error {
	for i := len(schema.TableNames) - 1; i >= 0; i-- {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", schema.TableNames[i])
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", schema.TableNames[i], err)
		}
	}
	return nil
}
