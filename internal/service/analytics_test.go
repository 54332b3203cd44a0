package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/zjzeller/portfolio-website/internal/domain"
)

const testUserAgent = "Mozilla/5.0 (X11; Linux x86_64)"

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) InsertPageView(ctx context.Context, view *domain.PageView) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

func (m *MockEventRepository) InsertResumeEvent(ctx context.Context, event *domain.ResumeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestService(repo *MockEventRepository) *AnalyticsService {
	return NewAnalyticsService(repo, 500, zap.NewNop())
}

func TestTrack_PageView_ForwardsSanitizedRecord(t *testing.T) {
	repo := new(MockEventRepository)
	svc := newTestService(repo)

	var stored *domain.PageView
	repo.On("InsertPageView", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.PageView)
		}).
		Return(nil)

	fields := map[string]any{
		"type":       "page_view",
		"page_path":  "/projects",
		"page_title": "Projects",
		"referrer":   "https://duckduckgo.com/",
		"session_id": "9f1b6c2e-4a3d-4f5e-8b6a-1c2d3e4f5a6b",
	}

	err := svc.Track(context.Background(), fields, testUserAgent)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	assert.Equal(t, "/projects", stored.PagePath)
	assert.Equal(t, "Projects", stored.PageTitle)
	assert.Equal(t, "https://duckduckgo.com/", stored.Referrer)
	assert.Equal(t, testUserAgent, stored.UserAgent)
	assert.Equal(t, "9f1b6c2e-4a3d-4f5e-8b6a-1c2d3e4f5a6b", stored.SessionID)
}

func TestTrack_PageView_TruncatesLongFields(t *testing.T) {
	repo := new(MockEventRepository)
	svc := newTestService(repo)

	var stored *domain.PageView
	repo.On("InsertPageView", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.PageView)
		}).
		Return(nil)

	fields := map[string]any{
		"type":      "page_view",
		"page_path": "/" + strings.Repeat("a", 600),
	}

	err := svc.Track(context.Background(), fields, testUserAgent)

	assert.NoError(t, err)
	assert.Len(t, []rune(stored.PagePath), 500)
}

func TestTrack_PageView_NonStringFieldsBecomeAbsent(t *testing.T) {
	repo := new(MockEventRepository)
	svc := newTestService(repo)

	var stored *domain.PageView
	repo.On("InsertPageView", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.PageView)
		}).
		Return(nil)

	fields := map[string]any{
		"type":       "page_view",
		"page_path":  "/",
		"page_title": 42.0,
		"referrer":   []any{"nope"},
	}

	err := svc.Track(context.Background(), fields, testUserAgent)

	assert.NoError(t, err)
	assert.Empty(t, stored.PageTitle)
	assert.Empty(t, stored.Referrer)
}

func TestTrack_SessionID_DroppedUnlessCanonicalUUID(t *testing.T) {
	cases := []struct {
		name   string
		value  any
		keptAs string
	}{
		{"canonical", "9f1b6c2e-4a3d-4f5e-8b6a-1c2d3e4f5a6b", "9f1b6c2e-4a3d-4f5e-8b6a-1c2d3e4f5a6b"},
		{"uppercase hex", "9F1B6C2E-4A3D-4F5E-8B6A-1C2D3E4F5A6B", "9F1B6C2E-4A3D-4F5E-8B6A-1C2D3E4F5A6B"},
		{"not a uuid", "definitely-not-a-uuid", ""},
		{"braced form", "{9f1b6c2e-4a3d-4f5e-8b6a-1c2d3e4f5a6b}", ""},
		{"bare hex", "9f1b6c2e4a3d4f5e8b6a1c2d3e4f5a6b", ""},
		{"non-string", 12345.0, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockEventRepository)
			svc := newTestService(repo)

			var stored *domain.ResumeEvent
			repo.On("InsertResumeEvent", mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					stored = args.Get(1).(*domain.ResumeEvent)
				}).
				Return(nil)

			fields := map[string]any{
				"type":       "resume_view",
				"session_id": tc.value,
			}

			err := svc.Track(context.Background(), fields, testUserAgent)

			assert.NoError(t, err)
			assert.Equal(t, tc.keptAs, stored.SessionID)
		})
	}
}

func TestTrack_PageView_MissingPagePath(t *testing.T) {
	repo := new(MockEventRepository)
	svc := newTestService(repo)

	err := svc.Track(context.Background(), map[string]any{"type": "page_view"}, testUserAgent)

	assert.ErrorIs(t, err, ErrPagePathRequired)
	repo.AssertNotCalled(t, "InsertPageView")
}

func TestTrack_UnknownEventType(t *testing.T) {
	repo := new(MockEventRepository)
	svc := newTestService(repo)

	err := svc.Track(context.Background(), map[string]any{"type": "click"}, testUserAgent)
	assert.ErrorIs(t, err, ErrInvalidEventType)

	err = svc.Track(context.Background(), map[string]any{"type": 7.0}, testUserAgent)
	assert.ErrorIs(t, err, ErrInvalidEventType)

	repo.AssertNotCalled(t, "InsertPageView")
	repo.AssertNotCalled(t, "InsertResumeEvent")
}

func TestTrack_ResumeDownload_MapsEventType(t *testing.T) {
	repo := new(MockEventRepository)
	svc := newTestService(repo)

	var stored *domain.ResumeEvent
	repo.On("InsertResumeEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.ResumeEvent)
		}).
		Return(nil)

	err := svc.Track(context.Background(), map[string]any{"type": "resume_download"}, testUserAgent)

	assert.NoError(t, err)
	assert.Equal(t, domain.ResumeEventDownload, stored.EventType)
	assert.Equal(t, testUserAgent, stored.UserAgent)
	assert.Empty(t, stored.SessionID)
}

func TestTrack_UserAgentComesFromHeaderNotBody(t *testing.T) {
	repo := new(MockEventRepository)
	svc := newTestService(repo)

	var stored *domain.PageView
	repo.On("InsertPageView", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.PageView)
		}).
		Return(nil)

	fields := map[string]any{
		"type":       "page_view",
		"page_path":  "/",
		"user_agent": "spoofed-agent",
	}

	err := svc.Track(context.Background(), fields, testUserAgent)

	assert.NoError(t, err)
	assert.Equal(t, testUserAgent, stored.UserAgent)
}

func TestTrack_StoreFailureIsSwallowed(t *testing.T) {
	repo := new(MockEventRepository)
	svc := newTestService(repo)

	repo.On("InsertPageView", mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))

	fields := map[string]any{
		"type":      "page_view",
		"page_path": "/",
	}

	err := svc.Track(context.Background(), fields, testUserAgent)

	assert.NoError(t, err, "best-effort telemetry must not surface store failures")
	repo.AssertExpectations(t)
}
