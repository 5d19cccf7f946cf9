// Package messaging streams analysed-ticket events to Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/events"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes events to one topic, keyed by ticket id so all events of a
// ticket land on the same partition.
type Publisher struct {
	writer messageWriter
	logger *zap.Logger
}

// Publishing runs inline after the intake commit, so batches are flushed
// almost immediately instead of after kafka-go's 1s default.
const (
	batchTimeout = 10 * time.Millisecond
	writeTimeout = 5 * time.Second
)

// NewPublisher creates a Kafka-backed publisher.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: newWriter(brokers, topic),
		logger: logger,
	}
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// Handle publishes event and satisfies events.EventHandler.
func (p *Publisher) Handle(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.TicketID, 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("kafka publish failed",
			zap.Int64("ticket_id", event.TicketID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}

	p.logger.Debug("event sent to kafka",
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
	return nil
}

// Register subscribes the publisher to analysed-ticket events.
func (p *Publisher) Register(dispatcher events.Dispatcher) {
	if p == nil || dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketAnalyzed, p.Handle)
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
