package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"parkslot/pkg/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"

	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

var ErrPublisherClosed = errors.New("event publisher is closed")

// BookingEvent is the payload published to the booking event stream for
// downstream consumers (reminders, reporting). Publishing is best-effort:
// a failed publish never fails the booking operation itself.
type BookingEvent struct {
	EventID    string        `json:"event_id"`
	Type       string        `json:"type"`
	Booking    model.Booking `json:"booking"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Publisher is the sink for booking events. A nil *KafkaPublisher is a valid
// no-op sink, so callers never need to branch on whether events are enabled.
type Publisher interface {
	Publish(ctx context.Context, eventType string, booking model.Booking) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
	source string
	mu     sync.RWMutex
	closed bool
}

func NewKafkaPublisher(brokers []string, topic, source string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // hash by booking id so events per booking stay ordered
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
	}

	return &KafkaPublisher{
		writer: writer,
		source: source,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, booking model.Booking) error {
	if p == nil {
		return nil
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPublisherClosed
	}
	p.mu.RUnlock()

	event := BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Booking:    booking,
		OccurredAt: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(booking.ID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(event.EventID)},
			{Key: HeaderEventType, Value: []byte(eventType)},
			{Key: HeaderSource, Value: []byte(p.source)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
