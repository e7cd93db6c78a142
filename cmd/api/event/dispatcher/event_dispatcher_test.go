package dispatcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-insight/cmd/api/trace"
	"yt-insight/eventbus"
	"yt-insight/events"
	"yt-insight/models"
)

type recordingBus struct {
	topics []string
	events []eventbus.Event
}

func (b *recordingBus) Publish(_ context.Context, topic string, e eventbus.Event) error {
	b.topics = append(b.topics, topic)
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) Close() {}

func TestPublishVideoIngested(t *testing.T) {
	bus := &recordingBus{}
	d := NewEventDispatcher(bus, "yt-insight.video.events")

	ctx := trace.WithRequestAndSpan(context.Background(), "req-42", 0)
	err := d.PublishVideoIngested(ctx, &models.Video{ID: "vid1", ChannelID: "UC1", Title: "t"}, 42)
	require.NoError(t, err)

	require.Len(t, bus.events, 1)
	assert.Equal(t, "yt-insight.video.events", bus.topics[0])
	evt := bus.events[0]
	assert.Equal(t, string(events.VideoIngested), evt.Type)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "vid1", evt.Key)
	assert.Equal(t, map[string]string{"source": "api", "request_id": "req-42"}, evt.Headers)

	got, err := eventbus.DecodeJSON[events.VideoIngestedEvent](evt)
	require.NoError(t, err)
	assert.Equal(t, evt.ID, got.ID)
	assert.True(t, evt.OccurredAt.Equal(got.Timestamp))
	assert.Equal(t, "vid1", got.VideoID)
	assert.Equal(t, 42, got.CommentsIngested)
	assert.Equal(t, "api", got.Source)
}

func TestPublishAnalysisGenerated(t *testing.T) {
	bus := &recordingBus{}
	d := NewEventDispatcher(bus, "topic")

	err := d.PublishAnalysisGenerated(context.Background(), &models.Analysis{
		VideoID:          "vid1",
		SentimentStats:   models.SentimentStats{Positive: 50, Neutral: 0, Negative: 50},
		CommentsAnalyzed: 2,
		ModelName:        "gemini-2.5-flash",
	})
	require.NoError(t, err)

	assert.Equal(t, string(events.AnalysisGenerated), bus.events[0].Type)
	assert.Equal(t, "vid1", bus.events[0].Key)
	assert.NotContains(t, bus.events[0].Headers, "request_id")
	got, err := eventbus.DecodeJSON[events.AnalysisGeneratedEvent](bus.events[0])
	require.NoError(t, err)
	assert.Equal(t, 50, got.Positive)
	assert.Equal(t, 50, got.Negative)
	assert.Equal(t, 2, got.CommentsAnalyzed)
	assert.Equal(t, "gemini-2.5-flash", got.ModelName)
}
