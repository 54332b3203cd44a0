package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zjzeller/portfolio-website/internal/domain"
	"github.com/zjzeller/portfolio-website/internal/dto"
	"github.com/zjzeller/portfolio-website/internal/repository"
)

// Client input errors mapped to 400 responses by the handler.
var (
	ErrInvalidEventType = errors.New("invalid event type")
	ErrPagePathRequired = errors.New("page_path is required")
)

// AnalyticsService validates tracking payloads and forwards accepted records
// to the analytics store.
type AnalyticsService struct {
	repository     repository.EventRepository
	maxFieldLength int
	log            *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo repository.EventRepository, maxFieldLength int, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		repository:     repo,
		maxFieldLength: maxFieldLength,
		log:            log,
	}
}

// Track dispatches on the payload's type field and forwards the sanitized
// record. Only allow-listed fields are read; free-text values are truncated,
// never rejected. Store failures are logged and swallowed: the tracking
// pipeline is best-effort telemetry and must not surface storage problems to
// the browser.
func (s *AnalyticsService) Track(ctx context.Context, fields map[string]any, userAgent string) error {
	eventType, _ := fields["type"].(string)

	switch eventType {
	case dto.EventTypePageView:
		pagePath := s.sanitizeString(fields["page_path"])
		if pagePath == "" {
			return ErrPagePathRequired
		}

		view := &domain.PageView{
			PagePath:  pagePath,
			PageTitle: s.sanitizeString(fields["page_title"]),
			Referrer:  s.sanitizeString(fields["referrer"]),
			UserAgent: userAgent,
			SessionID: sessionID(fields["session_id"]),
		}

		if err := s.repository.InsertPageView(ctx, view); err != nil {
			s.log.Error("Failed to store page view",
				zap.String("page_path", view.PagePath),
				zap.Error(err))
		}
		return nil

	case dto.EventTypeResumeView, dto.EventTypeResumeDownload:
		resumeType := domain.ResumeEventView
		if eventType == dto.EventTypeResumeDownload {
			resumeType = domain.ResumeEventDownload
		}

		event := &domain.ResumeEvent{
			EventType: resumeType,
			Referrer:  s.sanitizeString(fields["referrer"]),
			UserAgent: userAgent,
			SessionID: sessionID(fields["session_id"]),
		}

		if err := s.repository.InsertResumeEvent(ctx, event); err != nil {
			s.log.Error("Failed to store resume event",
				zap.String("event_type", string(event.EventType)),
				zap.Error(err))
		}
		return nil

	default:
		return ErrInvalidEventType
	}
}

// sanitizeString accepts only string values and truncates them to the
// configured ceiling. Anything else becomes absent, not an error.
func (s *AnalyticsService) sanitizeString(value any) string {
	str, ok := value.(string)
	if !ok {
		return ""
	}
	runes := []rune(str)
	if len(runes) > s.maxFieldLength {
		return string(runes[:s.maxFieldLength])
	}
	return str
}

// sessionID keeps a session id only in canonical 8-4-4-4-12 textual UUID
// form. The length check rules out the urn:, braced and bare-hex variants
// that uuid.Parse would otherwise accept.
func sessionID(value any) string {
	str, ok := value.(string)
	if !ok || len(str) != 36 {
		return ""
	}
	if _, err := uuid.Parse(str); err != nil {
		return ""
	}
	return str
}
