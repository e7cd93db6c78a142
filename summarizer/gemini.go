package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"yt-insight/models"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator 는 Google Gemini 로 분석을 생성한다.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	maxComments int
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string, maxComments int) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	return newGeminiGenerator(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model, maxComments)
}

func newGeminiGenerator(ctx context.Context, cc *genai.ClientConfig, model string, maxComments int) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if maxComments <= 0 {
		maxComments = DefaultMaxComments
	}
	return &GeminiGenerator{client: client, model: model, maxComments: maxComments}, nil
}

func (g *GeminiGenerator) ModelName() string { return g.model }

// analysisSchema 는 Gemini structured output 용 응답 스키마다.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sentimentStats": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"positive": {Type: genai.TypeInteger},
				"neutral":  {Type: genai.TypeInteger},
				"negative": {Type: genai.TypeInteger},
			},
			Required: []string{"positive", "neutral", "negative"},
		},
		"keyPoints": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":   {Type: genai.TypeString},
					"content": {Type: genai.TypeString},
				},
				Required: []string{"title", "content"},
			},
		},
		"comprehensive": {Type: genai.TypeString},
	},
	Required: []string{"sentimentStats", "keyPoints", "comprehensive"},
}

func (g *GeminiGenerator) GenerateAnalysis(ctx context.Context, video *models.Video, comments []models.Comment) (*Result, *RequestLog, error) {
	used := Truncate(comments, g.maxComments)
	prompt := BuildPrompt(video, used)

	startTime := time.Now()
	reqLog := &RequestLog{
		Provider:    ProviderGoogle,
		Prompt:      fmt.Sprintf("%s\n\n%s", SYSTEM_INSTRUCTION, prompt),
		ModelName:   g.model,
		RequestedAt: startTime,
	}

	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SYSTEM_INSTRUCTION}}},
			ResponseMIMEType:  "application/json",
			ResponseSchema:    analysisSchema,
		},
	)
	reqLog.LatencyMs = time.Since(startTime).Milliseconds()
	reqLog.GeneratedAt = time.Now()
	if err != nil {
		return nil, reqLog, newGenerationError(err)
	}

	text := result.Text()
	reqLog.Response = text
	reqLog.ModelVersion = result.ModelVersion
	if result.UsageMetadata != nil {
		reqLog.TokenUsage = TokenUsage{
			InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
		}
	}

	parsed, err := ParseResult(text)
	if err != nil {
		return nil, reqLog, newGenerationError(err)
	}
	parsed.CommentsAnalyzed = len(used)
	return parsed, reqLog, nil
}
