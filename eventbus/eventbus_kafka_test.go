package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 연결할 수 없는 브로커를 가리키는 producer 다. librdkafka 는 연결을 지연하므로 생성은 성공한다.
func newUnreachableBus(t *testing.T) *KafkaEventBus {
	t.Helper()
	bus, err := NewKafkaEventBus(KafkaConfig{Brokers: "127.0.0.1:1", ClientID: "yt-insight-test"})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = bus.producer.Purge(kafka.PurgeQueue | kafka.PurgeInFlight)
		bus.Close()
	})
	return bus
}

func TestKafkaPublishDoesNotWaitForBroker(t *testing.T) {
	bus := newUnreachableBus(t)
	evt, err := NewJSONEvent("analysis.generated", "dQw4w9WgXcQ", samplePayload{VideoID: "dQw4w9WgXcQ"})
	require.NoError(t, err)

	start := time.Now()
	err = bus.Publish(context.Background(), "yt-insight.events", evt)
	elapsed := time.Since(start)

	assert.NoError(t, err)
	assert.Less(t, elapsed, time.Second)
}

func TestKafkaPublishCanceledContext(t *testing.T) {
	bus := newUnreachableBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(ctx, "yt-insight.events", Event{ID: "e1", Type: "video.ingested"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHeaderValue(t *testing.T) {
	msg, err := buildMessage("topic", Event{ID: "e1", Type: "video.ingested", Key: "vid1"})
	require.NoError(t, err)

	assert.Equal(t, "video.ingested", headerValue(msg, HeaderEventType))
	assert.Equal(t, "e1", headerValue(msg, HeaderEventID))
	assert.Empty(t, headerValue(msg, "missing"))
}
