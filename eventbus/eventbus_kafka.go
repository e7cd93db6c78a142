package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"yt-insight/cmd/internal/logger"
)

const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

type KafkaConfig struct {
	Brokers  string
	ClientID string
}

// KafkaEventBus 는 confluent-kafka-go producer 기반 EventBus 다.
// Publish 는 로컬 큐에 넣고 바로 반환하며, 전달 결과는 logProducerEvents 가 기록한다.
type KafkaEventBus struct {
	producer *kafka.Producer
}

func NewKafkaEventBus(cfg KafkaConfig) (*KafkaEventBus, error) {
	cm := &kafka.ConfigMap{
		"bootstrap.servers":  cfg.Brokers,
		"acks":               "all",
		"enable.idempotence": true,
		"linger.ms":          20,
	}
	if cfg.ClientID != "" {
		_ = cm.SetKey("client.id", cfg.ClientID)
	}
	p, err := kafka.NewProducer(cm)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	go logProducerEvents(p)

	return &KafkaEventBus{producer: p}, nil
}

// logProducerEvents 는 전달 보고와 클라이언트 오류를 로그로 남긴다.
func logProducerEvents(p *kafka.Producer) {
	for e := range p.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			fields := logger.Fields{"topic": ev.TopicPartition.String(), "event_type": headerValue(ev, HeaderEventType), "event_id": headerValue(ev, HeaderEventID)}
			if ev.TopicPartition.Error != nil {
				fields["error"] = ev.TopicPartition.Error.Error()
				logger.ErrorWithFields("kafka delivery failed", fields)
				continue
			}
			logger.DebugWithFields("event delivered", fields)
		case kafka.Error:
			logger.ErrorWithFields("kafka client error", logger.Fields{"code": ev.Code().String(), "error": ev.Error()})
		}
	}
}

// Close 는 남은 메시지를 최대 5초간 플러시하고 producer 를 닫는다.
func (k *KafkaEventBus) Close() {
	if k.producer == nil {
		return
	}
	if remaining := k.producer.Flush(5000); remaining > 0 {
		logger.Log.Warnf("%d kafka messages still queued after flush", remaining)
	}
	k.producer.Close()
	logger.Log.Info("kafka producer closed")
}

// Publish 는 이벤트를 producer 큐에 넣는다. 브로커 전달을 기다리지 않으므로
// 반환되는 오류는 직렬화 실패나 큐 포화 같은 로컬 오류뿐이다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := buildMessage(topic, event)
	if err != nil {
		return err
	}
	if err := k.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", event.Type, err)
	}
	return nil
}

func headerValue(m *kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// buildMessage 는 이벤트를 Kafka 메시지로 변환한다. Key 가 비어 있으면 이벤트 ID 로 파티셔닝한다.
func buildMessage(topic string, event Event) (*kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.Type, err)
	}
	key := event.Key
	if key == "" {
		key = event.ID
	}

	headers := []kafka.Header{
		{Key: HeaderEventType, Value: []byte(event.Type)},
		{Key: HeaderEventID, Value: []byte(event.ID)},
	}
	names := make([]string, 0, len(event.Headers))
	for name := range event.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		headers = append(headers, kafka.Header{Key: name, Value: []byte(event.Headers[name])})
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          value,
		Headers:        headers,
	}, nil
}
