package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zjzeller/portfolio-website/internal/config"
	"github.com/zjzeller/portfolio-website/internal/dto"
	"github.com/zjzeller/portfolio-website/internal/httpx"
	"github.com/zjzeller/portfolio-website/internal/poster"
	"github.com/zjzeller/portfolio-website/internal/ratelimit"
	"github.com/zjzeller/portfolio-website/internal/service"
)

// Handler owns the HTTP surface: the analytics tracking endpoint, the
// scheduled daily-post trigger, health and metrics.
type Handler struct {
	analytics service.AnalyticsTracker
	poster    poster.Runner
	limiter   *ratelimit.Limiter
	cfg       *config.Config
	siteHost  string
	router    *gin.Engine
	log       *zap.Logger
}

// NewHandler creates the handler and registers all routes. metrics may be
// nil, in which case no request metrics are recorded.
func NewHandler(
	analytics service.AnalyticsTracker,
	posterRunner poster.Runner,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
	metrics *httpx.Metrics,
	log *zap.Logger,
) *Handler {
	h := &Handler{
		analytics: analytics,
		poster:    posterRunner,
		limiter:   limiter,
		cfg:       cfg,
		siteHost:  siteHost(cfg.Service.SiteURL),
		router:    gin.Default(),
		log:       log,
	}

	if metrics != nil {
		h.router.Use(metrics.Handler())
	}
	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.router.POST("/api/analytics/track", h.trackEvent)
	h.router.GET("/api/cron/daily-post", h.dailyPost)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// trackEvent handles POST /api/analytics/track. The steps form a hard gate
// chain: rate limit, origin check, parse, dispatch. Each failure terminates
// the request with no side effect.
func (h *Handler) trackEvent(c *gin.Context) {
	key := clientKey(c.GetHeader("X-Forwarded-For"))
	if !h.limiter.CheckAndIncrement(key) {
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "Too many requests"})
		return
	}

	// Requests without an origin header pass through: server-to-server
	// calls and same-origin navigations may omit it.
	if origin := c.GetHeader("Origin"); origin != "" && !h.originAllowed(origin) {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.log.Warn("Unparsable tracking payload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to track event"})
		return
	}

	err := h.analytics.Track(c.Request.Context(), fields, c.GetHeader("User-Agent"))
	switch {
	case errors.Is(err, service.ErrInvalidEventType):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid event type"})
	case errors.Is(err, service.ErrPagePathRequired):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "page_path is required"})
	case err != nil:
		h.log.Error("Analytics tracking error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to track event"})
	default:
		c.JSON(http.StatusOK, dto.TrackEventResponse{Success: true})
	}
}

// dailyPost handles the scheduled GET /api/cron/daily-post trigger.
func (h *Handler) dailyPost(c *gin.Context) {
	secret := h.cfg.Poster.CronSecret
	supplied := c.GetHeader("Authorization")
	if secret == "" ||
		subtle.ConstantTimeCompare([]byte(supplied), []byte("Bearer "+secret)) != 1 {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	// Fail fast on missing credentials before any paid API call.
	if missing := h.missingPosterConfig(); len(missing) > 0 {
		h.log.Error("Missing required poster credentials", zap.Strings("missing", missing))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Server misconfiguration"})
		return
	}

	timeout := time.Duration(h.cfg.Poster.TimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	result, err := h.poster.Run(ctx)
	switch {
	case errors.Is(err, poster.ErrNoPostText):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "No post text generated"})
	case err != nil:
		h.log.Error("Daily post failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to post daily update"})
	default:
		c.JSON(http.StatusOK, dto.DailyPostResponse{
			Success: true,
			Topic:   result.Topic,
			Post:    result.Post,
			TweetID: result.PostID,
		})
	}
}

func (h *Handler) missingPosterConfig() []string {
	required := map[string]string{
		"ANTHROPIC_API_KEY":     h.cfg.Poster.AnthropicAPIKey,
		"X_API_KEY":             h.cfg.Poster.XAPIKey,
		"X_API_SECRET":          h.cfg.Poster.XAPISecret,
		"X_ACCESS_TOKEN":        h.cfg.Poster.XAccessToken,
		"X_ACCESS_TOKEN_SECRET": h.cfg.Poster.XAccessTokenSecret,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// originAllowed compares the origin header's host against the configured
// site host. Host equality, not prefix matching: https://example.com must
// reject https://example.com.evil.com.
func (h *Handler) originAllowed(origin string) bool {
	if h.siteHost == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, h.siteHost)
}

// clientKey derives the rate-limit key from the first address in the
// forwarded-for chain, or a sentinel when absent.
func clientKey(forwardedFor string) string {
	first, _, _ := strings.Cut(forwardedFor, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return "unknown"
	}
	return first
}

func siteHost(siteURL string) string {
	if siteURL == "" {
		return ""
	}
	u, err := url.Parse(siteURL)
	if err != nil {
		return ""
	}
	return u.Host
}
