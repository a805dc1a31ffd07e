package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes register events to a Kafka topic, keyed by owner so that
// events of one register stay ordered within a partition.
type Publisher struct {
	writer messageWriter
}

var _ portsrepo.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, event domain.RegisterEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(event.OwnerID),
			Value: data,
			Time:  event.At,
			Headers: []kafka.Header{
				{Key: "action", Value: []byte(event.Action)},
			},
		},
	)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
