package domain

import "time"

// ResumeEventType distinguishes the two resume interactions we record.
type ResumeEventType string

const (
	ResumeEventView     ResumeEventType = "view"
	ResumeEventDownload ResumeEventType = "download"
)

// PageView is a single page-load record stored in ClickHouse.
// Optional fields that were absent or failed sanitization are empty strings.
type PageView struct {
	PagePath  string    `ch:"page_path"`
	PageTitle string    `ch:"page_title"`
	Referrer  string    `ch:"referrer"`
	UserAgent string    `ch:"user_agent"`
	SessionID string    `ch:"session_id"`
	CreatedAt time.Time `ch:"created_at"`
}

// ResumeEvent records a resume view or download.
type ResumeEvent struct {
	EventType ResumeEventType `ch:"event_type"`
	Referrer  string          `ch:"referrer"`
	UserAgent string          `ch:"user_agent"`
	SessionID string          `ch:"session_id"`
	CreatedAt time.Time       `ch:"created_at"`
}
