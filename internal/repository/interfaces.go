package repository

import (
	"context"

	"github.com/zjzeller/portfolio-website/internal/domain"
)

// EventRepository defines the interface for analytics storage operations
type EventRepository interface {
	// InsertPageView stores a single page-view record
	InsertPageView(ctx context.Context, view *domain.PageView) error

	// InsertResumeEvent stores a single resume view/download record
	InsertResumeEvent(ctx context.Context, event *domain.ResumeEvent) error

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the underlying connection
	Close() error
}
