package queue

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

var _ Sink = (*KafkaSink)(nil)

// KafkaSink publishes lifecycle events as JSON to a single topic, keyed by
// document ID so per-document ordering is preserved within a partition.
type KafkaSink struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaSink(brokers, topic string) (*KafkaSink, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return nil, err
	}

	sink := &KafkaSink{
		producer: producer,
		topic:    topic,
	}

	// Drain delivery reports; failed deliveries are advisory, log and move on.
	go func() {
		for e := range producer.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				logrus.Warnf("event delivery failed: %v", m.TopicPartition.Error)
			}
		}
	}()

	return sink, nil
}

func (k *KafkaSink) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &k.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(event.DocumentID),
		Value: value,
	}, nil)
}

func (k *KafkaSink) Close() error {
	k.producer.Flush(5000)
	k.producer.Close()
	return nil
}
