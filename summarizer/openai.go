package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"yt-insight/models"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var resultSchema = GenerateSchema[Result]()

// OpenAIGenerator 는 OpenAI chat completions 의 structured output 으로 분석을 생성한다.
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	maxComments int
}

func NewOpenAIGenerator(apiKey, model string, maxComments int, opts ...option.RequestOption) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if maxComments <= 0 {
		maxComments = DefaultMaxComments
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIGenerator{
		client:      openai.NewClient(opts...),
		model:       model,
		maxComments: maxComments,
	}
}

func (g *OpenAIGenerator) ModelName() string { return g.model }

func (g *OpenAIGenerator) GenerateAnalysis(ctx context.Context, video *models.Video, comments []models.Comment) (*Result, *RequestLog, error) {
	used := Truncate(comments, g.maxComments)
	prompt := BuildPrompt(video, used)

	startTime := time.Now()
	reqLog := &RequestLog{
		Provider:    ProviderOpenAI,
		Prompt:      fmt.Sprintf("%s\n\n%s", SYSTEM_INSTRUCTION, prompt),
		ModelName:   g.model,
		RequestedAt: startTime,
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "comment_analysis",
		Description: openai.String("Sentiment and summary of a YouTube video's comments"),
		Schema:      resultSchema,
		Strict:      openai.Bool(true),
	}

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SYSTEM_INSTRUCTION),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(g.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	reqLog.LatencyMs = time.Since(startTime).Milliseconds()
	reqLog.GeneratedAt = time.Now()
	if err != nil {
		return nil, reqLog, newGenerationError(err)
	}

	reqLog.ModelVersion = completion.Model
	reqLog.TokenUsage = TokenUsage{
		InputTokens:  completion.Usage.PromptTokens,
		OutputTokens: completion.Usage.CompletionTokens,
		TotalTokens:  completion.Usage.TotalTokens,
	}
	if len(completion.Choices) == 0 {
		return nil, reqLog, newGenerationError(errors.New("no response from OpenAI"))
	}

	raw := completion.Choices[0].Message.Content
	reqLog.Response = raw
	if raw == "" {
		return nil, reqLog, newGenerationError(fmt.Errorf("OpenAI returned empty response. Finish reason: %s", completion.Choices[0].FinishReason))
	}

	parsed, err := ParseResult(raw)
	if err != nil {
		return nil, reqLog, newGenerationError(err)
	}
	parsed.CommentsAnalyzed = len(used)
	return parsed, reqLog, nil
}
