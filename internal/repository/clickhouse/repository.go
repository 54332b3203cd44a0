package clickhouse

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zjzeller/portfolio-website/internal/domain"
)

// Repository implements repository.EventRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the analytics tables if they don't exist
func (r *Repository) InitSchema(ctx context.Context) error {
	pageViews := `
	CREATE TABLE IF NOT EXISTS page_views (
		page_path String,
		page_title String,
		referrer String,
		user_agent String,
		session_id String,
		created_at DateTime64(3) DEFAULT now64(3)
	) ENGINE = MergeTree
	ORDER BY (created_at)
	PARTITION BY toYYYYMM(created_at)
	`

	resumeEvents := `
	CREATE TABLE IF NOT EXISTS resume_events (
		event_type LowCardinality(String),
		referrer String,
		user_agent String,
		session_id String,
		created_at DateTime64(3) DEFAULT now64(3)
	) ENGINE = MergeTree
	ORDER BY (created_at)
	PARTITION BY toYYYYMM(created_at)
	`

	if err := r.client.Conn().Exec(ctx, pageViews); err != nil {
		return fmt.Errorf("failed to create page_views table: %w", err)
	}
	if err := r.client.Conn().Exec(ctx, resumeEvents); err != nil {
		return fmt.Errorf("failed to create resume_events table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized")
	return nil
}

// InsertPageView stores a single page-view record
func (r *Repository) InsertPageView(ctx context.Context, view *domain.PageView) error {
	if view.CreatedAt.IsZero() {
		view.CreatedAt = time.Now()
	}

	batch, err := r.client.Conn().PrepareBatch(ctx,
		"INSERT INTO page_views (page_path, page_title, referrer, user_agent, session_id, created_at)")
	if err != nil {
		return fmt.Errorf("failed to prepare page_views insert: %w", err)
	}

	if err := batch.Append(
		view.PagePath,
		view.PageTitle,
		view.Referrer,
		view.UserAgent,
		view.SessionID,
		view.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to append page view: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to insert page view: %w", err)
	}

	return nil
}

// InsertResumeEvent stores a single resume view/download record
func (r *Repository) InsertResumeEvent(ctx context.Context, event *domain.ResumeEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	batch, err := r.client.Conn().PrepareBatch(ctx,
		"INSERT INTO resume_events (event_type, referrer, user_agent, session_id, created_at)")
	if err != nil {
		return fmt.Errorf("failed to prepare resume_events insert: %w", err)
	}

	if err := batch.Append(
		string(event.EventType),
		event.Referrer,
		event.UserAgent,
		event.SessionID,
		event.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to append resume event: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to insert resume event: %w", err)
	}

	return nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}
