package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewJSONEvent 는 payload 를 JSON 으로 인코딩한 이벤트를 만든다. ID 는 UUIDv4 로 새로 발급한다.
func NewJSONEvent(eventType, key string, payload any) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    b,
		Key:        key,
	}, nil
}

// WithHeader 는 헤더 하나를 추가한 복사본을 반환한다. 빈 값은 무시한다.
func (e Event) WithHeader(key, value string) Event {
	if value == "" {
		return e
	}
	headers := make(map[string]string, len(e.Headers)+1)
	for k, v := range e.Headers {
		headers[k] = v
	}
	headers[key] = value
	e.Headers = headers
	return e
}

// DecodeJSON 은 Event.Payload 를 T 로 언마샬한다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to unmarshal %s payload: %w", evt.Type, err)
	}
	return out, nil
}
