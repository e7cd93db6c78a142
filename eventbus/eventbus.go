package eventbus

import (
	"context"
	"encoding/json"
	"time"
)

// Event 는 토픽에 발행되는 메시지 한 건이다.
//
// Key 는 파티션 키로 영상 id 를 쓴다. 같은 영상의 수집/분석 이벤트가 한 파티션에서 순서대로 소비된다.
// Headers 는 Kafka 메시지 헤더로만 전달되고 본문에는 포함되지 않는다.
type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Payload    json.RawMessage   `json:"payload"`
	Key        string            `json:"-"`
	Headers    map[string]string `json:"-"`
}

// EventBus 는 발행 전용이다. 구독은 다운스트림 컨슈머의 몫이다.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// NoopEventBus 는 events.enabled=false 일 때 쓰며 모든 이벤트를 버린다.
type NoopEventBus struct{}

func (NoopEventBus) Publish(context.Context, string, Event) error { return nil }
func (NoopEventBus) Close()                                      {}
