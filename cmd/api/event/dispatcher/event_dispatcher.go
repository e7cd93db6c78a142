package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"yt-insight/cmd/api/trace"
	"yt-insight/eventbus"
	"yt-insight/events"
	"yt-insight/models"
)

const eventSource = "api"

// EventDispatcher API 서버용 도메인 이벤트 발행 서비스
type EventDispatcher struct {
	bus   eventbus.EventBus
	topic string
}

// NewEventDispatcher 새로운 이벤트 디스패처 생성
func NewEventDispatcher(bus eventbus.EventBus, topic string) *EventDispatcher {
	return &EventDispatcher{bus: bus, topic: topic}
}

func newBaseEvent(t events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   "1.0",
	}
}

// PublishVideoIngested 영상 수집 완료 이벤트 발행
func (d *EventDispatcher) PublishVideoIngested(ctx context.Context, video *models.Video, commentsIngested int) error {
	base := newBaseEvent(events.VideoIngested)
	return d.publish(ctx, base, video.ID, events.VideoIngestedEvent{
		BaseEvent:        base,
		VideoID:          video.ID,
		ChannelID:        video.ChannelID,
		Title:            video.Title,
		CommentsIngested: commentsIngested,
	})
}

// PublishAnalysisGenerated AI 분석 생성 완료 이벤트 발행
func (d *EventDispatcher) PublishAnalysisGenerated(ctx context.Context, a *models.Analysis) error {
	base := newBaseEvent(events.AnalysisGenerated)
	return d.publish(ctx, base, a.VideoID, events.AnalysisGeneratedEvent{
		BaseEvent:        base,
		VideoID:          a.VideoID,
		Positive:         a.SentimentStats.Positive,
		Neutral:          a.SentimentStats.Neutral,
		Negative:         a.SentimentStats.Negative,
		CommentsAnalyzed: a.CommentsAnalyzed,
		ModelName:        a.ModelName,
	})
}

// publish 는 영상 id 를 파티션 키로 발행한다. 메시지 ID/시각은 payload 의 BaseEvent 와 맞춘다.
func (d *EventDispatcher) publish(ctx context.Context, base events.BaseEvent, videoID string, payload any) error {
	evt, err := eventbus.NewJSONEvent(string(base.Type), videoID, payload)
	if err != nil {
		return fmt.Errorf("failed to build event: %w", err)
	}
	evt.ID = base.ID
	evt.OccurredAt = base.Timestamp
	evt = evt.WithHeader("source", base.Source).
		WithHeader("request_id", trace.RequestIDFromContext(ctx))
	return d.bus.Publish(ctx, d.topic, evt)
}
