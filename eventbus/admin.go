package eventbus

import (
	"context"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"yt-insight/cmd/internal/logger"
)

// EnsureTopic 은 이벤트 토픽을 만든다. 이미 있으면 성공으로 본다.
// 로컬 단일 브로커 기준이라 replication factor 는 1 이다.
func EnsureTopic(ctx context.Context, brokers, topic string, partitions int) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{"bootstrap.servers": brokers})
	if err != nil {
		return fmt.Errorf("failed to create kafka admin client: %w", err)
	}
	defer admin.Close()

	if partitions <= 0 {
		partitions = 1
	}
	results, err := admin.CreateTopics(ctx, []kafka.TopicSpecification{{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	}})
	if err != nil {
		return fmt.Errorf("failed to create topic %s: %w", topic, err)
	}

	for _, r := range results {
		switch r.Error.Code() {
		case kafka.ErrNoError:
			logger.InfoWithFields("kafka topic created", logger.Fields{"topic": r.Topic, "partitions": partitions})
		case kafka.ErrTopicAlreadyExists:
		default:
			return fmt.Errorf("failed to create topic %s: %v", r.Topic, r.Error)
		}
	}
	return nil
}
