package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/zjzeller/portfolio-website/internal/config"
	"github.com/zjzeller/portfolio-website/internal/generator"
	"github.com/zjzeller/portfolio-website/internal/handler"
	"github.com/zjzeller/portfolio-website/internal/httpx"
	"github.com/zjzeller/portfolio-website/internal/logger"
	"github.com/zjzeller/portfolio-website/internal/poster"
	"github.com/zjzeller/portfolio-website/internal/ratelimit"
	"github.com/zjzeller/portfolio-website/internal/repository/clickhouse"
	"github.com/zjzeller/portfolio-website/internal/service"
	"github.com/zjzeller/portfolio-website/internal/social"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	// Initialize ClickHouse client and analytics repository
	clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(clickhouseClient *clickhouse.Client) {
		if err := clickhouseClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(clickhouseClient)

	repo := clickhouse.NewRepository(clickhouseClient, log)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize ClickHouse schema", zap.Error(err))
	}

	// Initialize rate limiter with its periodic sweep
	limiter := ratelimit.New(
		cfg.Analytics.RateLimitMax,
		time.Duration(cfg.Analytics.RateLimitWindowSec)*time.Second,
		log)
	limiter.StartSweeper(ctx)

	// Initialize analytics service
	analytics := service.NewAnalyticsService(repo, cfg.Analytics.MaxFieldLength, log)

	// Initialize the daily poster and its external clients
	textGenerator := generator.NewAnthropicGenerator(
		cfg.Poster.AnthropicAPIKey,
		cfg.Poster.AnthropicModel,
		cfg.Poster.MaxTokens,
		log)

	publisher := social.NewTwitterClient(social.Credentials{
		APIKey:       cfg.Poster.XAPIKey,
		APISecret:    cfg.Poster.XAPISecret,
		AccessToken:  cfg.Poster.XAccessToken,
		AccessSecret: cfg.Poster.XAccessTokenSecret,
	}, log)

	dailyPoster := poster.New(textGenerator, publisher, cfg.Poster.StripEmoji, log)

	// Initialize handler
	metrics := httpx.NewMetrics("portfolio_api")
	h := handler.NewHandler(analytics, dailyPoster, limiter, cfg, metrics, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
