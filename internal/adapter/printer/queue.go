package printer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/polkiloo/pos80/internal/domain/model"
)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueSink publishes jobs to an AMQP exchange consumed by remote print stations.
type QueueSink struct {
	name       string
	exchange   string
	routingKey string
	pub        publisher
}

type queueJob struct {
	Printer string `json:"printer"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

func (s *QueueSink) Send(ctx context.Context, title, body string) (model.PrintAck, error) {
	payload, err := json.Marshal(queueJob{Printer: s.name, Title: title, Body: body})
	if err != nil {
		return model.PrintAck{}, err
	}
	id := uuid.NewString()
	now := time.Now()
	err = s.pub.PublishWithContext(ctx, s.exchange, s.routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    id,
		Timestamp:    now,
		Body:         payload,
	})
	if err != nil {
		return model.PrintAck{}, fmt.Errorf("publish to %s: %w", s.exchange, err)
	}
	return model.PrintAck{Printer: s.name, Reference: id, SentAt: now}, nil
}

var dialAMQP = amqp.Dial

// Broker owns a lazily dialled AMQP connection shared by queue sinks.
type Broker struct {
	url      string
	exchange string
	logger   *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewBroker returns a broker for url. Nothing is dialled until first use.
func NewBroker(url, exchange string, logger *slog.Logger) *Broker {
	return &Broker{url: url, exchange: exchange, logger: logger}
}

func (b *Broker) publisher() (publisher, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.url == "" {
		return nil, ErrNoBroker
	}
	if b.ch != nil && !b.ch.IsClosed() {
		return b.ch, nil
	}
	if b.conn == nil || b.conn.IsClosed() {
		conn, err := dialAMQP(b.url)
		if err != nil {
			return nil, fmt.Errorf("dial amqp: %w", err)
		}
		b.conn = conn
	}
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(b.exchange, "direct", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", b.exchange, err)
	}
	b.ch = ch
	b.logger.Info("amqp print exchange ready", slog.String("exchange", b.exchange))
	return ch, nil
}

// Close releases the channel and connection if they were opened.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ch != nil {
		_ = b.ch.Close()
		b.ch = nil
	}
	if b.conn != nil {
		err := b.conn.Close()
		b.conn = nil
		return err
	}
	return nil
}
