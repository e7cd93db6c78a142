package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"yt-insight/cmd/api/clients/youtubeclient"
	"yt-insight/cmd/api/dto"
	"yt-insight/cmd/internal/logger"
	"yt-insight/feeder"
	"yt-insight/models"
	"yt-insight/repositories"
	"yt-insight/summarizer"
)

// VideoSource 는 YouTube Data API 조회 계약이다.
type VideoSource interface {
	FetchVideoMetadata(ctx context.Context, videoID string) (*youtubeclient.VideoMetadata, error)
	FetchComments(ctx context.Context, videoID string, maxComments int) ([]youtubeclient.CommentRecord, error)
}

type VideoStore interface {
	FindByID(ctx context.Context, id string) (*models.Video, error)
	Insert(ctx context.Context, v *models.Video) error
	UpdateIngestionStatus(ctx context.Context, id string, status models.IngestionStatus) error
}

type CommentStore interface {
	InsertMany(ctx context.Context, comments []models.Comment) error
	FindByVideoID(ctx context.Context, videoID string) ([]models.Comment, error)
}

type AnalysisStore interface {
	FindByVideoID(ctx context.Context, videoID string) (*models.Analysis, error)
	Insert(ctx context.Context, a *models.Analysis) error
	UpdateByVideoID(ctx context.Context, videoID string, upd models.AnalysisUpdate) (*models.Analysis, error)
}

type GenerationLogStore interface {
	Insert(ctx context.Context, l *models.GenerationLog) error
}

type QuotaLimiter interface {
	Reserve(ctx context.Context) (bool, error)
	// Remaining 은 오늘 남은 예약 수다. 일일 한도가 없으면 -1.
	Remaining() int
}

type EventPublisher interface {
	PublishVideoIngested(ctx context.Context, video *models.Video, commentsIngested int) error
	PublishAnalysisGenerated(ctx context.Context, a *models.Analysis) error
}

type UploadsFeed interface {
	FetchChannelUploads(ctx context.Context, channelID string, limit int) ([]feeder.UploadItem, error)
}

// YouTubeServiceDeps 는 main 에서 한 번 생성해 주입하는 의존성 묶음이다.
// Quota, Events, Feed 는 nil 이면 비활성으로 동작한다.
type YouTubeServiceDeps struct {
	Source         VideoSource
	Generator      summarizer.Generator
	Videos         VideoStore
	Comments       CommentStore
	Analyses       AnalysisStore
	GenerationLogs GenerationLogStore
	Tiers          *TierPolicy
	Quota          QuotaLimiter
	Events         EventPublisher
	Feed           UploadsFeed
}

type YouTubeServiceOptions struct {
	// HonorForceRefresh 가 true 일 때만 forceRefresh 요청이 캐시된 분석을 재생성한다.
	HonorForceRefresh bool
}

// YouTubeService 는 영상 수집, 분석 생성, 분석 캐시를 조율한다.
//
// 같은 videoId 에 대한 동시 수집/생성은 singleflight 로 한 번만 수행하고,
// 프로세스 간 경합은 저장소의 unique 키 충돌 후 재조회로 처리한다.
type YouTubeService struct {
	deps YouTubeServiceDeps
	opts YouTubeServiceOptions

	ingestGroup   singleflight.Group
	generateGroup singleflight.Group
}

func NewYouTubeService(deps YouTubeServiceDeps, opts YouTubeServiceOptions) *YouTubeService {
	if deps.Tiers == nil {
		deps.Tiers = NewTierPolicy(nil)
	}
	return &YouTubeService{deps: deps, opts: opts}
}

// GetVideo 는 저장된 영상을 반환하고, 없거나 수집이 끝나지 않았으면 upstream 에서 수집한다.
func (s *YouTubeService) GetVideo(ctx context.Context, videoID, tier string) (*dto.VideoDTO, error) {
	v, err := s.deps.Videos.FindByID(ctx, videoID)
	switch {
	case err == nil && isComplete(v):
		logger.DebugWithFields("video cache hit", logger.Fields{"video_id": videoID})
		return s.loadVideo(ctx, v)
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to load video: %w", err)
	}

	maxComments := s.deps.Tiers.Resolve(tier).MaxComments
	_, err, shared := s.ingestGroup.Do(videoID, func() (any, error) {
		// 먼저 들어온 요청이 끊겨도 함께 기다리는 요청이 실패하지 않도록 취소를 분리한다.
		return nil, s.ingest(context.WithoutCancel(ctx), videoID, maxComments)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.DebugWithFields("joined in-flight ingestion", logger.Fields{"video_id": videoID})
	}

	v, err = s.deps.Videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload video: %w", err)
	}
	return s.loadVideo(ctx, v)
}

func (s *YouTubeService) loadVideo(ctx context.Context, v *models.Video) (*dto.VideoDTO, error) {
	comments, err := s.deps.Comments.FindByVideoID(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	out := mapVideo(v, comments)
	return &out, nil
}

// ingest 는 메타데이터 저장(pending) 후 댓글을 저장하고 complete 로 표시한다.
// 이미 pending/failed 인 영상은 댓글 수집부터 다시 수행한다.
func (s *YouTubeService) ingest(ctx context.Context, videoID string, maxComments int) error {
	v, err := s.deps.Videos.FindByID(ctx, videoID)
	if errors.Is(err, repositories.ErrNotFound) {
		v, err = s.insertVideo(ctx, videoID)
	}
	if err != nil {
		return err
	}
	if isComplete(v) {
		return nil
	}

	fields := logger.Fields{"video_id": videoID, "max_comments": maxComments}
	logger.InfoWithFields("ingesting comments", fields)

	records, err := s.deps.Source.FetchComments(ctx, videoID, maxComments)
	if err != nil {
		s.markFailed(ctx, videoID, err)
		return err
	}
	comments := commentsFromRecords(videoID, records)
	if err := s.deps.Comments.InsertMany(ctx, comments); err != nil {
		s.markFailed(ctx, videoID, err)
		return fmt.Errorf("failed to store comments: %w", err)
	}
	if err := s.deps.Videos.UpdateIngestionStatus(ctx, videoID, models.IngestionComplete); err != nil {
		return fmt.Errorf("failed to mark video ingested: %w", err)
	}

	fields["comments"] = len(comments)
	logger.InfoWithFields("video ingested", fields)

	if s.deps.Events != nil {
		v.IngestionStatus = models.IngestionComplete
		if err := s.deps.Events.PublishVideoIngested(ctx, v, len(comments)); err != nil {
			logger.WarnWithFields("failed to publish video ingested event", logger.Fields{"video_id": videoID, "error": err.Error()})
		}
	}
	return nil
}

func (s *YouTubeService) insertVideo(ctx context.Context, videoID string) (*models.Video, error) {
	meta, err := s.deps.Source.FetchVideoMetadata(ctx, videoID)
	if errors.Is(err, youtubeclient.ErrVideoNotFound) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}

	v := videoFromMetadata(meta)
	v.ID = videoID
	err = s.deps.Videos.Insert(ctx, v)
	if errors.Is(err, repositories.ErrDuplicateKey) {
		// 다른 인스턴스가 먼저 저장했다.
		return s.deps.Videos.FindByID(ctx, videoID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store video: %w", err)
	}
	return v, nil
}

func (s *YouTubeService) markFailed(ctx context.Context, videoID string, cause error) {
	logger.ErrorWithFields("video ingestion failed", logger.Fields{"video_id": videoID, "error": cause.Error()})
	if err := s.deps.Videos.UpdateIngestionStatus(ctx, videoID, models.IngestionFailed); err != nil {
		logger.ErrorWithFields("failed to mark ingestion failed", logger.Fields{"video_id": videoID, "error": err.Error()})
	}
}

func isComplete(v *models.Video) bool {
	// ingestion_status 가 없는 문서는 상태 필드 도입 전에 완료된 수집이다.
	return v.IngestionStatus == models.IngestionComplete || v.IngestionStatus == ""
}

// Summarize 는 캐시된 분석을 반환하고, 없으면 생성해 저장한다.
// forceRefresh 는 HonorForceRefresh 옵션이 켜진 경우에만 반영된다.
func (s *YouTubeService) Summarize(ctx context.Context, videoID string, forceRefresh bool, tier string) (*dto.AnalysisDTO, error) {
	v, err := s.deps.Videos.FindByID(ctx, videoID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}
	if !isComplete(v) {
		return nil, ErrIngestionIncomplete
	}

	comments, err := s.deps.Comments.FindByVideoID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	existing, err := s.deps.Analyses.FindByVideoID(ctx, videoID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}

	fields := logger.Fields{"video_id": videoID, "tier": s.deps.Tiers.Resolve(tier).Name, "force_refresh": forceRefresh}

	if len(comments) == 0 {
		if existing != nil {
			out := mapAnalysis(existing)
			return &out, nil
		}
		logger.InfoWithFields("no comments, storing placeholder analysis", fields)
		a, err := s.storeAnalysis(ctx, noCommentsAnalysis(videoID))
		if err != nil {
			return nil, err
		}
		out := mapAnalysis(a)
		return &out, nil
	}

	if existing != nil && !(forceRefresh && s.opts.HonorForceRefresh) {
		logger.DebugWithFields("analysis cache hit", fields)
		out := mapAnalysis(existing)
		return &out, nil
	}

	res, err, _ := s.generateGroup.Do(videoID, func() (any, error) {
		return s.generate(context.WithoutCancel(ctx), v, comments, existing != nil)
	})
	if err != nil {
		return nil, err
	}
	out := mapAnalysis(res.(*models.Analysis))
	return &out, nil
}

func (s *YouTubeService) generate(ctx context.Context, v *models.Video, comments []models.Comment, refresh bool) (*models.Analysis, error) {
	if s.deps.Quota != nil {
		ok, err := s.deps.Quota.Reserve(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrQuotaExceeded
		}
	}

	fields := logger.Fields{"video_id": v.ID, "comments": len(comments), "model": s.deps.Generator.ModelName()}
	logger.InfoWithFields("generating analysis", fields)

	result, reqLog, genErr := s.deps.Generator.GenerateAnalysis(ctx, v, comments)
	s.saveGenerationLog(ctx, v.ID, reqLog, genErr)
	if genErr != nil {
		fields["error"] = genErr.Error()
		logger.ErrorWithFields("analysis generation failed", fields)
		return nil, genErr
	}

	modelName := s.deps.Generator.ModelName()
	sentiment := result.ToModelSentiment()

	var a *models.Analysis
	var err error
	if refresh {
		analyzed := result.CommentsAnalyzed
		a, err = s.deps.Analyses.UpdateByVideoID(ctx, v.ID, models.AnalysisUpdate{
			SentimentStats:   &sentiment,
			KeyPoints:        result.ToModelKeyPoints(),
			Comprehensive:    &result.Comprehensive,
			CommentsAnalyzed: &analyzed,
			ModelName:        &modelName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update analysis: %w", err)
		}
	} else {
		a, err = s.storeAnalysis(ctx, &models.Analysis{
			VideoID:          v.ID,
			SentimentStats:   sentiment,
			KeyPoints:        result.ToModelKeyPoints(),
			Comprehensive:    result.Comprehensive,
			CommentsAnalyzed: result.CommentsAnalyzed,
			ModelName:        modelName,
		})
		if err != nil {
			return nil, err
		}
	}

	logger.InfoWithFields("analysis generated", fields)
	if s.deps.Events != nil {
		if err := s.deps.Events.PublishAnalysisGenerated(ctx, a); err != nil {
			logger.WarnWithFields("failed to publish analysis generated event", logger.Fields{"video_id": v.ID, "error": err.Error()})
		}
	}
	return a, nil
}

// storeAnalysis 는 분석을 저장하고, 다른 요청이 먼저 저장했다면 그 결과를 반환한다.
func (s *YouTubeService) storeAnalysis(ctx context.Context, a *models.Analysis) (*models.Analysis, error) {
	err := s.deps.Analyses.Insert(ctx, a)
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return s.deps.Analyses.FindByVideoID(ctx, a.VideoID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}
	return a, nil
}

func (s *YouTubeService) saveGenerationLog(ctx context.Context, videoID string, l *summarizer.RequestLog, genErr error) {
	if s.deps.GenerationLogs == nil || l == nil {
		return
	}
	doc := &models.GenerationLog{
		VideoID:        videoID,
		Provider:       l.Provider,
		ModelName:      l.ModelName,
		ModelVersion:   l.ModelVersion,
		InputTokens:    l.TokenUsage.InputTokens,
		OutputTokens:   l.TokenUsage.OutputTokens,
		TotalTokens:    l.TokenUsage.TotalTokens,
		DurationMs:     l.LatencyMs,
		InputPrompt:    l.Prompt,
		OutputResponse: l.Response,
		RequestedAt:    l.RequestedAt,
		CompletedAt:    l.GeneratedAt,
	}
	if genErr != nil {
		msg := genErr.Error()
		doc.ErrorMessage = &msg
	}
	if err := s.deps.GenerationLogs.Insert(ctx, doc); err != nil {
		logger.WarnWithFields("failed to save generation log", logger.Fields{"video_id": videoID, "error": err.Error()})
	}
}

func noCommentsAnalysis(videoID string) *models.Analysis {
	return &models.Analysis{
		VideoID:        videoID,
		SentimentStats: models.SentimentStats{Positive: 0, Neutral: 100, Negative: 0},
		KeyPoints: []models.KeyPoint{{
			Title:   "No comments available",
			Content: "This video has no comments to analyze. Comments may be disabled or no one has commented yet.",
		}},
		Comprehensive:    "There are no comments available for this video, so no audience sentiment could be analyzed.",
		CommentsAnalyzed: 0,
		ModelName:        "none",
	}
}

// GenerationQuotaRemaining 은 오늘 남은 분석 생성 횟수다. 한도가 없으면 -1.
func (s *YouTubeService) GenerationQuotaRemaining() int {
	if s.deps.Quota == nil {
		return -1
	}
	return s.deps.Quota.Remaining()
}

// GetAnalysis 는 캐시된 분석만 조회한다. 생성하지 않는다.
func (s *YouTubeService) GetAnalysis(ctx context.Context, videoID string) (*dto.AnalysisDTO, error) {
	a, err := s.deps.Analyses.FindByVideoID(ctx, videoID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}
	out := mapAnalysis(a)
	return &out, nil
}

// ChannelUploads 는 채널의 최근 업로드 목록을 공개 피드로 조회한다.
func (s *YouTubeService) ChannelUploads(ctx context.Context, channelID string, limit int) ([]dto.ChannelUploadDTO, error) {
	if s.deps.Feed == nil {
		return nil, errors.New("channel feed is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	items, err := s.deps.Feed.FetchChannelUploads(ctx, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel uploads: %w", err)
	}
	return mapUploads(items), nil
}

// Tiers 는 등급별 한도표다.
func (s *YouTubeService) Tiers() []dto.TierDTO {
	tiers := s.deps.Tiers.List()
	out := make([]dto.TierDTO, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, dto.TierDTO{Name: t.Name, MaxComments: t.MaxComments})
	}
	return out
}
