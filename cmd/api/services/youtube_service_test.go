package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-insight/cmd/api/clients/youtubeclient"
	"yt-insight/feeder"
	"yt-insight/models"
	"yt-insight/repositories/memory"
	"yt-insight/summarizer"
)

type fakeSource struct {
	mu           sync.Mutex
	comments     []youtubeclient.CommentRecord
	notFound     bool
	commentErrs  []error
	gate         chan struct{}
	metaCalls    atomic.Int32
	commentCalls atomic.Int32
	lastMax      int
}

func (f *fakeSource) FetchVideoMetadata(_ context.Context, videoID string) (*youtubeclient.VideoMetadata, error) {
	f.metaCalls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.notFound {
		return nil, youtubeclient.ErrVideoNotFound
	}
	return &youtubeclient.VideoMetadata{
		ID:           videoID,
		Title:        "Test video",
		ChannelID:    "UC123",
		ChannelTitle: "Test channel",
		PublishedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Thumbnail:    "https://i.ytimg.com/vi/" + videoID + "/maxresdefault.jpg",
		ViewCount:    1000,
		LikeCount:    10,
		CommentCount: int64(len(f.comments)),
	}, nil
}

func (f *fakeSource) FetchComments(_ context.Context, _ string, maxComments int) ([]youtubeclient.CommentRecord, error) {
	f.commentCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastMax = maxComments
	if len(f.commentErrs) > 0 {
		err := f.commentErrs[0]
		f.commentErrs = f.commentErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	n := min(maxComments, len(f.comments))
	return append([]youtubeclient.CommentRecord(nil), f.comments[:n]...), nil
}

func records(texts ...string) []youtubeclient.CommentRecord {
	out := make([]youtubeclient.CommentRecord, 0, len(texts))
	for i, t := range texts {
		out = append(out, youtubeclient.CommentRecord{
			ID:                fmt.Sprintf("comment-%03d", i),
			AuthorDisplayName: fmt.Sprintf("user%d", i),
			TextDisplay:       t,
			TextOriginal:      t,
		})
	}
	return out
}

type fakeGenerator struct {
	calls    atomic.Int32
	results  []string
	err      error
	lastSeen []models.Comment
}

func (g *fakeGenerator) ModelName() string { return "stub-model" }

func (g *fakeGenerator) GenerateAnalysis(_ context.Context, _ *models.Video, comments []models.Comment) (*summarizer.Result, *summarizer.RequestLog, error) {
	n := int(g.calls.Add(1))
	g.lastSeen = comments
	reqLog := &summarizer.RequestLog{Provider: "stub", ModelName: "stub-model", Prompt: "prompt", RequestedAt: time.Now(), GeneratedAt: time.Now()}
	if g.err != nil {
		return nil, reqLog, g.err
	}
	comprehensive := "Viewers are split."
	if n-1 < len(g.results) {
		comprehensive = g.results[n-1]
	}
	used := summarizer.Truncate(comments, summarizer.DefaultMaxComments)
	return &summarizer.Result{
		SentimentStats:   summarizer.Sentiment{Positive: 50, Neutral: 0, Negative: 50},
		KeyPoints:        []summarizer.KeyPoint{{Title: "Mixed reaction", Content: "Half loved it."}},
		Comprehensive:    comprehensive,
		CommentsAnalyzed: len(used),
	}, reqLog, nil
}

type fakeQuota struct{ allow bool }

func (q fakeQuota) Reserve(context.Context) (bool, error) { return q.allow, nil }

func (q fakeQuota) Remaining() int {
	if q.allow {
		return -1
	}
	return 0
}

type recordingEvents struct {
	mu        sync.Mutex
	ingested  []string
	generated []string
}

func (r *recordingEvents) PublishVideoIngested(_ context.Context, v *models.Video, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingested = append(r.ingested, v.ID)
	return nil
}

func (r *recordingEvents) PublishAnalysisGenerated(_ context.Context, a *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generated = append(r.generated, a.VideoID)
	return nil
}

type fakeFeed struct{ items []feeder.UploadItem }

func (f fakeFeed) FetchChannelUploads(_ context.Context, _ string, limit int) ([]feeder.UploadItem, error) {
	if limit > 0 && len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

type fixture struct {
	svc    *YouTubeService
	source *fakeSource
	gen    *fakeGenerator
	videos *memory.VideoRepository
	logs   *memory.GenerationLogRepository
	events *recordingEvents
}

func newFixture(source *fakeSource, opts YouTubeServiceOptions) *fixture {
	f := &fixture{
		source: source,
		gen:    &fakeGenerator{},
		videos: memory.NewVideoRepository(),
		logs:   memory.NewGenerationLogRepository(),
		events: &recordingEvents{},
	}
	f.svc = NewYouTubeService(YouTubeServiceDeps{
		Source:         source,
		Generator:      f.gen,
		Videos:         f.videos,
		Comments:       memory.NewCommentRepository(),
		Analyses:       memory.NewAnalysisRepository(),
		GenerationLogs: f.logs,
		Tiers:          NewTierPolicy(nil),
		Quota:          fakeQuota{allow: true},
		Events:         f.events,
		Feed: fakeFeed{items: []feeder.UploadItem{
			{VideoID: "aaaaaaaaaaa", Title: "one"},
			{VideoID: "bbbbbbbbbbb", Title: "two"},
		}},
	}, opts)
	return f
}

const vid = "dQw4w9WgXcQ"

func TestGetVideoIsIdempotent(t *testing.T) {
	f := newFixture(&fakeSource{comments: records("first", "second", "third")}, YouTubeServiceOptions{})
	ctx := context.Background()

	first, err := f.svc.GetVideo(ctx, vid, TierFree)
	require.NoError(t, err)
	second, err := f.svc.GetVideo(ctx, vid, TierFree)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), f.source.metaCalls.Load())
	assert.Equal(t, int32(1), f.source.commentCalls.Load())

	assert.Equal(t, vid, first.ID)
	assert.Equal(t, "complete", first.IngestionStatus)
	require.Len(t, first.Comments, 3)
	assert.Equal(t, "first", first.Comments[0].TextOriginal)
	assert.Equal(t, "third", first.Comments[2].TextOriginal)
	assert.Equal(t, []string{vid}, f.events.ingested)
}

func TestGetVideoNotFound(t *testing.T) {
	f := newFixture(&fakeSource{notFound: true}, YouTubeServiceOptions{})

	_, err := f.svc.GetVideo(context.Background(), vid, TierFree)
	assert.ErrorIs(t, err, ErrVideoNotFound)

	_, err = f.videos.FindByID(context.Background(), vid)
	assert.Error(t, err)
}

func TestGetVideoUsesTierCommentCap(t *testing.T) {
	tests := []struct {
		tier string
		want int
	}{
		{tier: TierFree, want: 100},
		{tier: TierPro, want: 500},
		{tier: TierPremium, want: 1000},
		{tier: "unknown", want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			src := &fakeSource{}
			f := newFixture(src, YouTubeServiceOptions{})
			_, err := f.svc.GetVideo(context.Background(), vid, tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.lastMax)
		})
	}
}

func TestGetVideoCommentFailureMarksFailedAndResumes(t *testing.T) {
	upstream := &youtubeclient.UpstreamError{Op: "commentThreads.list", Message: "quota exceeded"}
	src := &fakeSource{comments: records("a", "b"), commentErrs: []error{upstream}}
	f := newFixture(src, YouTubeServiceOptions{})
	ctx := context.Background()

	_, err := f.svc.GetVideo(ctx, vid, TierFree)
	var upErr *youtubeclient.UpstreamError
	require.True(t, errors.As(err, &upErr))

	stored, err := f.videos.FindByID(ctx, vid)
	require.NoError(t, err)
	assert.Equal(t, models.IngestionFailed, stored.IngestionStatus)

	_, err = f.svc.Summarize(ctx, vid, false, TierFree)
	assert.ErrorIs(t, err, ErrIngestionIncomplete)

	video, err := f.svc.GetVideo(ctx, vid, TierFree)
	require.NoError(t, err)
	assert.Equal(t, "complete", video.IngestionStatus)
	assert.Len(t, video.Comments, 2)
	assert.Equal(t, int32(1), src.metaCalls.Load())
	assert.Equal(t, int32(2), src.commentCalls.Load())
}

func TestConcurrentGetVideoFetchesOnce(t *testing.T) {
	src := &fakeSource{comments: records("x", "y"), gate: make(chan struct{})}
	f := newFixture(src, YouTubeServiceOptions{})

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.GetVideo(context.Background(), vid, TierFree)
		}(i)
	}

	require.Eventually(t, func() bool { return src.metaCalls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), src.metaCalls.Load())
	assert.Equal(t, int32(1), src.commentCalls.Load())
}

func TestSummarizeZeroCommentsSkipsGenerator(t *testing.T) {
	f := newFixture(&fakeSource{}, YouTubeServiceOptions{})
	ctx := context.Background()

	_, err := f.svc.GetVideo(ctx, vid, TierFree)
	require.NoError(t, err)

	a, err := f.svc.Summarize(ctx, vid, false, TierFree)
	require.NoError(t, err)
	assert.Equal(t, 0, a.CommentsAnalyzed)
	assert.Equal(t, 0, a.SentimentStats.Positive)
	assert.Equal(t, 100, a.SentimentStats.Neutral)
	assert.Equal(t, 0, a.SentimentStats.Negative)
	assert.Len(t, a.KeyPoints, 1)

	again, err := f.svc.Summarize(ctx, vid, true, TierFree)
	require.NoError(t, err)
	assert.Equal(t, a.CreatedAt, again.CreatedAt)
	assert.Equal(t, int32(0), f.gen.calls.Load())
	assert.Empty(t, f.logs.List())
}

func TestSummarizeReturnsCacheRegardlessOfForceRefresh(t *testing.T) {
	f := newFixture(&fakeSource{comments: records("great video!", "terrible, hated it")}, YouTubeServiceOptions{})
	ctx := context.Background()

	_, err := f.svc.GetVideo(ctx, vid, TierFree)
	require.NoError(t, err)

	first, err := f.svc.Summarize(ctx, vid, false, TierFree)
	require.NoError(t, err)
	for _, force := range []bool{false, true} {
		again, err := f.svc.Summarize(ctx, vid, force, TierFree)
		require.NoError(t, err)
		assert.Equal(t, first.CreatedAt, again.CreatedAt)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, int32(1), f.gen.calls.Load())
}

func TestSummarizeFirstResponseMatchesStoredAnalysis(t *testing.T) {
	for name, source := range map[string]*fakeSource{
		"generated":   {comments: records("nice", "meh")},
		"no comments": {},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(source, YouTubeServiceOptions{})
			ctx := context.Background()

			_, err := f.svc.GetVideo(ctx, vid, TierFree)
			require.NoError(t, err)

			first, err := f.svc.Summarize(ctx, vid, false, TierFree)
			require.NoError(t, err)
			assert.Equal(t, time.UTC, first.CreatedAt.Location())
			assert.Zero(t, first.CreatedAt.Nanosecond()%int(time.Millisecond))

			stored, err := f.svc.GetAnalysis(ctx, vid)
			require.NoError(t, err)
			again, err := f.svc.Summarize(ctx, vid, false, TierFree)
			require.NoError(t, err)

			firstJSON, err := json.Marshal(first)
			require.NoError(t, err)
			for _, other := range []any{stored, again} {
				otherJSON, err := json.Marshal(other)
				require.NoError(t, err)
				assert.JSONEq(t, string(firstJSON), string(otherJSON))
			}
		})
	}
}

func TestSummarizeHonorsForceRefreshWhenEnabled(t *testing.T) {
	f := newFixture(&fakeSource{comments: records("good", "bad")}, YouTubeServiceOptions{HonorForceRefresh: true})
	f.gen.results = []string{"first take", "second take"}
	ctx := context.Background()

	_, err := f.svc.GetVideo(ctx, vid, TierFree)
	require.NoError(t, err)

	first, err := f.svc.Summarize(ctx, vid, false, TierFree)
	require.NoError(t, err)
	assert.Equal(t, "first take", first.Comprehensive)

	cached, err := f.svc.Summarize(ctx, vid, false, TierFree)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	refreshed, err := f.svc.Summarize(ctx, vid, true, TierFree)
	require.NoError(t, err)
	assert.Equal(t, "second take", refreshed.Comprehensive)
	assert.False(t, refreshed.CreatedAt.Before(first.CreatedAt))
	assert.Equal(t, int32(2), f.gen.calls.Load())

	stored, err := f.svc.GetAnalysis(ctx, vid)
	require.NoError(t, err)
	assert.Equal(t, refreshed, stored)
}

func TestSummarizeEndToEnd(t *testing.T) {
	f := newFixture(&fakeSource{comments: records("great video!", "terrible, hated it")}, YouTubeServiceOptions{})
	ctx := context.Background()

	_, err := f.svc.GetAnalysis(ctx, vid)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	_, err = f.svc.GetVideo(ctx, vid, TierFree)
	require.NoError(t, err)

	a, err := f.svc.Summarize(ctx, vid, false, TierFree)
	require.NoError(t, err)
	assert.Equal(t, 2, a.CommentsAnalyzed)
	assert.Equal(t, 50, a.SentimentStats.Positive)
	assert.Equal(t, 0, a.SentimentStats.Neutral)
	assert.Equal(t, 50, a.SentimentStats.Negative)
	require.Len(t, a.KeyPoints, 1)
	assert.Equal(t, "Mixed reaction", a.KeyPoints[0].Title)
	assert.Equal(t, "Viewers are split.", a.Comprehensive)

	got, err := f.svc.GetAnalysis(ctx, vid)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	require.Len(t, f.gen.lastSeen, 2)
	assert.Equal(t, "great video!", f.gen.lastSeen[0].TextOriginal)

	logs := f.logs.List()
	require.Len(t, logs, 1)
	assert.Equal(t, vid, logs[0].VideoID)
	assert.Nil(t, logs[0].ErrorMessage)
	assert.Equal(t, []string{vid}, f.events.generated)
}

func TestSummarizeBeforeIngestion(t *testing.T) {
	f := newFixture(&fakeSource{}, YouTubeServiceOptions{})

	_, err := f.svc.Summarize(context.Background(), vid, false, TierFree)
	assert.ErrorIs(t, err, ErrVideoNotFound)
	assert.Equal(t, int32(0), f.source.metaCalls.Load())
}

func TestSummarizeQuotaExceeded(t *testing.T) {
	f := newFixture(&fakeSource{comments: records("a")}, YouTubeServiceOptions{})
	f.svc.deps.Quota = fakeQuota{allow: false}
	ctx := context.Background()

	_, err := f.svc.GetVideo(ctx, vid, TierFree)
	require.NoError(t, err)

	_, err = f.svc.Summarize(ctx, vid, false, TierFree)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, int32(0), f.gen.calls.Load())
}

func TestSummarizeGenerationError(t *testing.T) {
	f := newFixture(&fakeSource{comments: records("a")}, YouTubeServiceOptions{})
	f.gen.err = &summarizer.GenerationError{Message: "model overloaded"}
	ctx := context.Background()

	_, err := f.svc.GetVideo(ctx, vid, TierFree)
	require.NoError(t, err)

	_, err = f.svc.Summarize(ctx, vid, false, TierFree)
	var genErr *summarizer.GenerationError
	require.True(t, errors.As(err, &genErr))

	_, err = f.svc.GetAnalysis(ctx, vid)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	logs := f.logs.List()
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].ErrorMessage)
	assert.Contains(t, *logs[0].ErrorMessage, "model overloaded")
	assert.Empty(t, f.events.generated)
}

func TestChannelUploads(t *testing.T) {
	f := newFixture(&fakeSource{}, YouTubeServiceOptions{})

	items, err := f.svc.ChannelUploads(context.Background(), "UC123", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "aaaaaaaaaaa", items[0].VideoID)
}

func TestTiers(t *testing.T) {
	f := newFixture(&fakeSource{}, YouTubeServiceOptions{})

	tiers := f.svc.Tiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, "free", tiers[0].Name)
	assert.Equal(t, 1000, tiers[2].MaxComments)
}
