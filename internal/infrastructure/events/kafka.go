package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes decision events to one topic keyed by status id, so
// all events of a status land in the same partition.
type KafkaPublisher struct {
	*producer.Producer
	topic string
}

func NewKafkaPublisher(p *producer.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{p, topic}
}

func (kp *KafkaPublisher) Publish(ctx context.Context, event *entity.DecisionEvent) error {
	msg, err := kafkaMessage(kp.topic, event)
	if err != nil {
		return fmt.Errorf("KafkaPublisher - Publish: %w", err)
	}

	err = kp.Writer.WriteMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("KafkaPublisher - Publish - kp.Writer.WriteMessages: %w", err)
	}

	return nil
}

func (kp *KafkaPublisher) Close() error {
	err := kp.Producer.Close()
	if err != nil {
		return fmt.Errorf("KafkaPublisher - Close: %w", err)
	}

	return nil
}

func kafkaMessage(topic string, event *entity.DecisionEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("json.Marshal: %w", err)
	}

	return kafka.Message{
		Topic: topic,
		Key:   []byte(event.StatusID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID.String())},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}
