package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/api/clients/youtubeclient"
	"yt-insight/cmd/api/event/dispatcher"
	"yt-insight/cmd/api/httpclient"
	"yt-insight/cmd/api/quota"
	"yt-insight/cmd/api/router"
	"yt-insight/cmd/api/services"
	"yt-insight/cmd/internal/logger"
	"yt-insight/config"
	"yt-insight/db"
	"yt-insight/eventbus"
	"yt-insight/feeder"
	"yt-insight/repositories"
	"yt-insight/repositories/memory"
	"yt-insight/summarizer"
)

// @title           YT Insight API
// @version         1.0
// @description     Sentiment and summary analysis of YouTube video comments
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx := context.Background()

	deps, health, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		logger.Log.Errorf("failed to initialize storage: %v", err)
		os.Exit(1)
	}
	defer cleanup()

	source, err := youtubeclient.New(ctx, youtubeclient.Config{
		APIKey:   cfg.YouTube.APIKey,
		Endpoint: cfg.YouTube.Endpoint,
		Timeout:  cfg.YouTube.RequestTimeout,
	})
	if err != nil {
		logger.Log.Errorf("failed to create youtube client: %v", err)
		os.Exit(1)
	}
	deps.Source = source

	generator, err := summarizer.New(ctx, summarizer.Config{
		Provider:     cfg.LLM.Provider,
		ModelName:    cfg.LLM.ModelName,
		GeminiAPIKey: cfg.LLM.GeminiAPIKey,
		OpenAIAPIKey: cfg.LLM.OpenAIAPIKey,
		MaxComments:  cfg.LLM.MaxComments,
	})
	if err != nil {
		logger.Log.Errorf("failed to create generator: %v", err)
		os.Exit(1)
	}
	deps.Generator = generator

	deps.Tiers = services.NewTierPolicy(tierOverrides(cfg))
	deps.Quota = quota.NewGenerationQuotaLimiter(cfg.GenerationQuota)
	deps.Feed = feeder.New(httpclient.New(httpclient.Config{Upstream: "youtube-feed"}), feeder.DefaultFeedURL)

	bus := newEventBus(cfg.Events)
	defer bus.Close()
	deps.Events = dispatcher.NewEventDispatcher(bus, cfg.Events.Topic)

	svc := services.NewYouTubeService(deps, services.YouTubeServiceOptions{
		HonorForceRefresh: cfg.Analysis.HonorForceRefresh,
	})

	routerDeps := router.Deps{YouTube: svc, Health: health}
	if cfg.Auth.JWTSecret != "" {
		tokens, err := auth.NewJWTManager(cfg.Auth)
		if err != nil {
			logger.Log.Errorf("failed to create jwt manager: %v", err)
			os.Exit(1)
		}
		routerDeps.Tokens = tokens
	} else {
		logger.Log.Warn("JWT_SECRET not set; every request is served as free tier")
	}

	r := router.New(routerDeps)
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Span-Id", "X-Quota-Remaining"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("api server listening", logger.Fields{
			"addr":     cfg.Server.Addr,
			"storage":  cfg.Storage.Backend,
			"provider": cfg.LLM.Provider,
			"model":    generator.ModelName(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("api server error: %v", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Log.Info("shutting down api server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("graceful shutdown failed: %v", err)
	}
}

// buildStores 는 storage.backend 설정에 맞는 저장소를 만든다.
func buildStores(ctx context.Context, cfg config.AppConfig) (services.YouTubeServiceDeps, router.HealthCheck, func(), error) {
	var deps services.YouTubeServiceDeps

	if cfg.Storage.Backend == "memory" {
		logger.Log.Warn("using in-memory storage; data is lost on restart")
		deps.Videos = memory.NewVideoRepository()
		deps.Comments = memory.NewCommentRepository()
		deps.Analyses = memory.NewAnalysisRepository()
		deps.GenerationLogs = memory.NewGenerationLogRepository()
		return deps, nil, func() {}, nil
	}

	if err := db.Init(ctx); err != nil {
		return deps, nil, nil, err
	}
	database := db.Database()
	deps.Videos = repositories.NewVideoRepository(database)
	deps.Comments = repositories.NewCommentRepository(database)
	deps.Analyses = repositories.NewAnalysisRepository(database)
	deps.GenerationLogs = repositories.NewGenerationLogRepository(database)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx); err != nil {
			logger.Log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}
	return deps, db.Ping, cleanup, nil
}

// tierOverrides 는 tiers 설정에 free 가 없으면 youtube.default_max_comments 를 free 한도로 쓴다.
func tierOverrides(cfg config.AppConfig) map[string]config.TierConfig {
	out := make(map[string]config.TierConfig, len(cfg.Tiers)+1)
	for k, v := range cfg.Tiers {
		out[k] = v
	}
	if _, ok := out[services.TierFree]; !ok {
		out[services.TierFree] = config.TierConfig{MaxComments: cfg.YouTube.DefaultMaxComments}
	}
	return out
}

// newEventBus 는 events.enabled 일 때 Kafka producer 를, 아니면 no-op 버스를 반환한다.
// Kafka 연결에 실패해도 API 는 이벤트 없이 동작한다.
func newEventBus(cfg config.EventsConfig) eventbus.EventBus {
	if !cfg.Enabled {
		return eventbus.NoopEventBus{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := eventbus.EnsureTopic(ctx, cfg.Brokers, cfg.Topic, 3); err != nil {
		logger.Log.Warnf("failed to ensure kafka topic %s: %v", cfg.Topic, err)
	}
	bus, err := eventbus.NewKafkaEventBus(eventbus.KafkaConfig{Brokers: cfg.Brokers, ClientID: "yt-insight-api"})
	if err != nil {
		logger.Log.Errorf("failed to create kafka event bus, events disabled: %v", err)
		return eventbus.NoopEventBus{}
	}
	return bus
}
