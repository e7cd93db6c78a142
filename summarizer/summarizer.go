package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"yt-insight/models"
)

// DefaultMaxComments 는 한 번의 분석 요청에 포함하는 최대 댓글 수다.
const DefaultMaxComments = 100

const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

// Result 는 LLM 이 반환해야 하는 구조화 응답이다.
type Result struct {
	SentimentStats   Sentiment  `json:"sentimentStats" jsonschema_description:"Percentages of positive, neutral and negative comments (0-100 each)"`
	KeyPoints        []KeyPoint `json:"keyPoints" jsonschema_description:"3 to 5 key points raised by commenters, most important first"`
	Comprehensive    string     `json:"comprehensive" jsonschema_description:"A 4-5 paragraph summary of the audience reaction"`
	CommentsAnalyzed int        `json:"-"`
}

type Sentiment struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type KeyPoint struct {
	Title   string `json:"title" jsonschema_description:"Short headline of the point"`
	Content string `json:"content" jsonschema_description:"One or two sentences explaining the point"`
}

// RequestLog 는 LLM 호출 한 건의 모니터링 정보다. 호출이 실패해도 가능한 만큼 채워서 반환한다.
type RequestLog struct {
	Provider     string
	Prompt       string
	Response     string
	LatencyMs    int64
	TokenUsage   TokenUsage
	ModelName    string
	ModelVersion string
	RequestedAt  time.Time
	GeneratedAt  time.Time
}

type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// GenerationError 는 LLM 호출 실패 또는 파싱 불가 응답을 감싼다. 재시도하지 않는다.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return "analysis generation failed: " + e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

func newGenerationError(err error) *GenerationError {
	return &GenerationError{Message: err.Error(), Err: err}
}

// Generator 는 영상과 댓글로부터 감성/요약 분석을 생성한다.
type Generator interface {
	GenerateAnalysis(ctx context.Context, video *models.Video, comments []models.Comment) (*Result, *RequestLog, error)
	ModelName() string
}

const SYSTEM_INSTRUCTION = `
You are an audience insight assistant for YouTube creators.
You receive a video's title, channel and a list of its top comments, one per block in the form "<author>: <text>".
Analyze the overall audience reaction and respond with a JSON object with exactly three keys:

1. sentimentStats: an object with integer fields positive, neutral and negative.
   Each value is a percentage between 0 and 100 and the three values should add up to 100.
2. keyPoints: an array of 3 to 5 objects, each with a short "title" and a "content" of one or two sentences.
   Order them from most to least significant.
3. comprehensive: a 4 to 5 paragraph summary of what viewers think about the video,
   separated by blank lines.

Constraints:
- Base the analysis only on the comments provided. Do not invent facts about the video.
- You MUST NOT wrap the JSON output in a markdown code block (e.g., ` + "```json ... ```" + `).
- The response should contain ONLY the raw JSON string.
`

// Truncate 는 전달된 순서를 유지한 채 앞에서부터 max 개만 남긴다. 재정렬하지 않는다.
func Truncate(comments []models.Comment, max int) []models.Comment {
	if max <= 0 {
		max = DefaultMaxComments
	}
	if len(comments) > max {
		return comments[:max]
	}
	return comments
}

// BuildPrompt 는 결정적인 사용자 프롬프트를 만든다.
func BuildPrompt(video *models.Video, comments []models.Comment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Video title: %s\n", video.Title)
	fmt.Fprintf(&b, "Channel: %s\n", video.ChannelTitle)
	fmt.Fprintf(&b, "Total comments on video: %d\n", video.CommentCount)
	fmt.Fprintf(&b, "Comments provided: %d\n\n", len(comments))
	b.WriteString("Comments:\n\n")

	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		text := c.TextOriginal
		if text == "" {
			text = c.TextDisplay
		}
		lines = append(lines, fmt.Sprintf("%s: %s", c.AuthorDisplayName, text))
	}
	b.WriteString(strings.Join(lines, "\n\n"))
	return b.String()
}

// ParseResult 는 모델 응답 텍스트를 Result 로 변환한다. 코드블록으로 감싼 응답도 허용한다.
func ParseResult(text string) (*Result, error) {
	raw := stripCodeFence(text)
	if raw == "" {
		return nil, errors.New("empty response from model")
	}

	var r Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	if r.KeyPoints == nil {
		r.KeyPoints = []KeyPoint{}
	}
	return &r, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ToModelKeyPoints 는 응답의 key point 를 저장 모델로 옮긴다.
func (r *Result) ToModelKeyPoints() []models.KeyPoint {
	out := make([]models.KeyPoint, 0, len(r.KeyPoints))
	for _, kp := range r.KeyPoints {
		out = append(out, models.KeyPoint{Title: kp.Title, Content: kp.Content})
	}
	return out
}

func (r *Result) ToModelSentiment() models.SentimentStats {
	return models.SentimentStats{
		Positive: r.SentimentStats.Positive,
		Neutral:  r.SentimentStats.Neutral,
		Negative: r.SentimentStats.Negative,
	}
}

// Config 는 Generator 생성에 필요한 설정이다.
type Config struct {
	Provider     string
	ModelName    string
	GeminiAPIKey string
	OpenAIAPIKey string
	MaxComments  int
}

// New 는 provider 설정에 맞는 Generator 를 생성한다.
func New(ctx context.Context, cfg Config) (Generator, error) {
	switch cfg.Provider {
	case "", ProviderGoogle:
		g, err := NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.ModelName, cfg.MaxComments)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderOpenAI:
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.ModelName, cfg.MaxComments), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
