package youtubeclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"yt-insight/cmd/api/httpclient"
	"yt-insight/cmd/internal/logger"
)

const (
	DefaultEndpoint = "https://youtube.googleapis.com/"
	// maxPageSize 는 commentThreads.list 의 maxResults 상한이다.
	maxPageSize = 100
)

// ErrVideoNotFound 는 upstream 이 videos.list 에서 0건을 반환한 경우다 (삭제/비공개/존재하지 않음).
var ErrVideoNotFound = errors.New("video not found")

// UpstreamError 는 YouTube Data API 호출 실패(전송/인증/쿼터)를 감싼다. 재시도하지 않는다.
type UpstreamError struct {
	Op      string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("youtube %s failed: %s", e.Op, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// VideoMetadata 는 정규화된 영상 메타데이터다.
type VideoMetadata struct {
	ID           string
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	PublishedAt  time.Time
	Thumbnail    string
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// CommentRecord 는 정규화된 top-level 댓글이다.
type CommentRecord struct {
	ID                    string
	AuthorDisplayName     string
	AuthorProfileImageURL *string
	AuthorChannelID       *string
	TextDisplay           string
	TextOriginal          string
	LikeCount             int64
	PublishedAt           time.Time
	UpdatedAt             time.Time
}

// Client 는 YouTube Data API v3 의 videos/commentThreads 조회를 감싼다.
type Client struct {
	svc  *youtube.Service
	base *httpclient.BaseClient
}

// New 는 API key 인증과 로깅 트랜스포트가 붙은 클라이언트를 생성한다.
func New(ctx context.Context, cfg Config) (*Client, error) {
	hc := httpclient.New(httpclient.Config{
		Upstream: "youtube",
		Timeout:  cfg.Timeout,
		Transport: &transport.APIKey{
			Key:       cfg.APIKey,
			Transport: http.DefaultTransport,
		},
	})
	return NewWithHTTPClient(ctx, hc, cfg.Endpoint)
}

// NewWithHTTPClient 는 이미 인증이 구성된 http.Client 로 클라이언트를 만든다.
func NewWithHTTPClient(ctx context.Context, hc *http.Client, endpoint string) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	svc, err := youtube.NewService(ctx, option.WithHTTPClient(hc), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Client{
		svc:  svc,
		base: httpclient.NewBaseClient(hc, endpoint),
	}, nil
}

// videos.list 응답. statistics 는 문자열 숫자로 오며 잘못된 값이 섞여 있어도 전체 요청을 실패시키지 않도록
// 라이브러리 타입 대신 lenientCount 로 직접 디코딩한다.
type videoListResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID         string                `json:"id"`
	Snippet    *youtube.VideoSnippet `json:"snippet"`
	Statistics videoStatistics       `json:"statistics"`
}

type videoStatistics struct {
	ViewCount    lenientCount `json:"viewCount"`
	LikeCount    lenientCount `json:"likeCount"`
	CommentCount lenientCount `json:"commentCount"`
}

// lenientCount 는 문자열/숫자 모두 허용하고 파싱 실패 시 0 이 된다.
type lenientCount int64

func (c *lenientCount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*c = 0
		return nil
	}
	*c = lenientCount(n)
	return nil
}

// FetchVideoMetadata 는 영상 메타데이터를 조회한다.
// 0건이면 ErrVideoNotFound, 그 외 실패는 *UpstreamError 를 반환한다.
func (c *Client) FetchVideoMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	q := url.Values{}
	q.Set("part", "snippet,statistics")
	q.Set("id", videoID)
	q.Set("alt", "json")

	req, err := c.base.NewRequest(ctx, http.MethodGet, "youtube/v3/videos", q, nil)
	if err != nil {
		return nil, &UpstreamError{Op: "videos.list", Message: err.Error(), Err: err}
	}
	resp, err := c.base.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: "videos.list", Message: err.Error(), Err: err}
	}
	defer googleapi.CloseBody(resp)
	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, &UpstreamError{Op: "videos.list", Message: upstreamMessage(err), Err: err}
	}

	var body videoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &UpstreamError{Op: "videos.list", Message: "invalid response: " + err.Error(), Err: err}
	}
	if len(body.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	item := body.Items[0]
	meta := &VideoMetadata{
		ID:           item.ID,
		ViewCount:    int64(item.Statistics.ViewCount),
		LikeCount:    int64(item.Statistics.LikeCount),
		CommentCount: int64(item.Statistics.CommentCount),
	}
	if meta.ID == "" {
		meta.ID = videoID
	}
	if s := item.Snippet; s != nil {
		meta.Title = s.Title
		meta.Description = s.Description
		meta.ChannelID = s.ChannelId
		meta.ChannelTitle = s.ChannelTitle
		meta.PublishedAt = parseTime(s.PublishedAt)
		meta.Thumbnail = BestThumbnail(s.Thumbnails)
	}
	return meta, nil
}

// BestThumbnail 은 maxres > standard > high > medium > default 순으로 가장 큰 썸네일 URL 을 고른다.
func BestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// FetchComments 는 relevance 순으로 top-level 댓글을 페이지 단위(최대 100)로 가져온다.
// maxComments 에 도달하거나 다음 페이지 토큰이 없으면 멈춘다.
// 중간 페이지 실패도 전체 실패로 처리한다.
func (c *Client) FetchComments(ctx context.Context, videoID string, maxComments int) ([]CommentRecord, error) {
	if maxComments <= 0 {
		return []CommentRecord{}, nil
	}

	out := make([]CommentRecord, 0, min(maxComments, maxPageSize))
	pageToken := ""
	pages := 0
	for len(out) < maxComments {
		remaining := maxComments - len(out)
		call := c.svc.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			MaxResults(int64(min(maxPageSize, remaining))).
			Order("relevance").
			TextFormat("html").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			// 댓글이 비활성화된 영상은 댓글 0개로 취급한다.
			if pages == 0 && isCommentsDisabled(err) {
				logger.InfoWithFields("comments disabled", logger.Fields{"video_id": videoID})
				return []CommentRecord{}, nil
			}
			return nil, &UpstreamError{Op: "commentThreads.list", Message: upstreamMessage(err), Err: err}
		}
		pages++

		for _, item := range resp.Items {
			if len(out) >= maxComments {
				break
			}
			if rec, ok := toCommentRecord(item); ok {
				out = append(out, rec)
			}
		}

		if resp.NextPageToken == "" || len(resp.Items) == 0 {
			break
		}
		pageToken = resp.NextPageToken
	}

	logger.DebugWithFields("comments fetched", logger.Fields{
		"video_id": videoID,
		"pages":    pages,
		"count":    len(out),
	})
	return out, nil
}

func toCommentRecord(ct *youtube.CommentThread) (CommentRecord, bool) {
	if ct == nil || ct.Snippet == nil || ct.Snippet.TopLevelComment == nil || ct.Snippet.TopLevelComment.Snippet == nil {
		return CommentRecord{}, false
	}
	top := ct.Snippet.TopLevelComment
	s := top.Snippet

	rec := CommentRecord{
		ID:                top.Id,
		AuthorDisplayName: s.AuthorDisplayName,
		TextDisplay:       s.TextDisplay,
		TextOriginal:      s.TextOriginal,
		LikeCount:         s.LikeCount,
		PublishedAt:       parseTime(s.PublishedAt),
		UpdatedAt:         parseTime(s.UpdatedAt),
	}
	if rec.ID == "" {
		rec.ID = ct.Id
	}
	if s.AuthorProfileImageUrl != "" {
		v := s.AuthorProfileImageUrl
		rec.AuthorProfileImageURL = &v
	}
	if s.AuthorChannelId != nil && s.AuthorChannelId.Value != "" {
		v := s.AuthorChannelId.Value
		rec.AuthorChannelID = &v
	}
	return rec, rec.ID != ""
}

func isCommentsDisabled(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range gerr.Errors {
		if item.Reason == "commentsDisabled" {
			return true
		}
	}
	return false
}

func upstreamMessage(err error) string {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	return err.Error()
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
