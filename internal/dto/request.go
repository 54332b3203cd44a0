package dto

// Event type values accepted by POST /api/analytics/track.
const (
	EventTypePageView       = "page_view"
	EventTypeResumeView     = "resume_view"
	EventTypeResumeDownload = "resume_download"
)

// TrackEventRequest documents the tracking payload. The handler decodes the
// body into a generic map and extracts fields through an allow-list instead
// of binding this struct directly: unrecognized or mistyped fields must be
// dropped silently, not rejected.
type TrackEventRequest struct {
	Type      string `json:"type"`
	PagePath  string `json:"page_path,omitempty"`
	PageTitle string `json:"page_title,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}
