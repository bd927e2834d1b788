package resultqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	StandardQueueName   = "result_event_queue"
	DeadLetterQueueName = "result_event_dlq"
)

// ResultQueueMessage is the payload stored in RabbitMQ for one result-ready
// event. FailedCount tracks ingestion attempts so the worker can divert
// repeatedly failing orders to the DLQ.
type ResultQueueMessage struct {
	OrderID     string `json:"order_id"`
	FailedCount int    `json:"failed_count"`
}

// Service manages the RabbitMQ queues backing asynchronous result ingestion.
type Service struct {
	ch       *amqp.Channel
	log      *zap.Logger
	prefetch int
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

// NewService declares the durable queues, enables publisher confirms, and
// sets QoS on a dedicated channel.
func NewService(conn *amqp.Connection, log *zap.Logger, prefetch int) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		StandardQueueName, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	)
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		DeadLetterQueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	svc := &Service{
		ch:       ch,
		log:      log,
		prefetch: prefetch,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}

	return svc, nil
}

// PublishResultEvent enqueues a fresh result-ready event. Satisfies
// contracts.ResultEventPublisher so the webhook controller never touches
// the channel directly.
func (s *Service) PublishResultEvent(ctx context.Context, orderID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("ResultQueue.PublishResultEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("order_id", orderID),
	)

	return s.publish(ctx, StandardQueueName, ResultQueueMessage{OrderID: orderID})
}

// Reenqueue puts a message (with its bumped FailedCount) back on the tail of
// the standard queue.
func (s *Service) Reenqueue(ctx context.Context, message ResultQueueMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("ResultQueue.Reenqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("order_id", message.OrderID),
		zap.Int("failed_count", message.FailedCount),
	)

	return s.publish(ctx, StandardQueueName, message)
}

// EnqueueToDeadQueue parks a message that exhausted its ingestion attempts.
func (s *Service) EnqueueToDeadQueue(ctx context.Context, message ResultQueueMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("ResultQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("order_id", message.OrderID),
	)

	return s.publish(ctx, DeadLetterQueueName, message)
}

// QueuedItem is a fetched delivery and its decoded payload.
type QueuedItem struct {
	DeliveryTag uint64
	Message     ResultQueueMessage
}

// FetchN retrieves up to n messages using basic.get without auto-ack.
func (s *Service) FetchN(ctx context.Context, n int) ([]QueuedItem, error) {
	if n <= 0 {
		n = 1
	}
	items := make([]QueuedItem, 0, n)

	for i := 0; i < n; i++ {
		d, ok, err := s.ch.Get(StandardQueueName, false)
		if err != nil {
			return nil, exceptions.ErrQueueConsume(err)
		}
		if !ok {
			break
		}
		var payload ResultQueueMessage
		if err := json.Unmarshal(d.Body, &payload); err != nil {
			// Invalid JSON goes straight to the DLQ to avoid a poison loop.
			_ = d.Ack(false)
			_ = s.publishRaw(ctx, DeadLetterQueueName, d.Body)
			continue
		}
		items = append(items, QueuedItem{DeliveryTag: d.DeliveryTag, Message: payload})
	}

	return items, nil
}

// AckMessage acknowledges a message by delivery tag.
func (s *Service) AckMessage(deliveryTag uint64) error {
	if err := s.ch.Ack(deliveryTag, false); err != nil {
		return exceptions.ErrQueueConsume(err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, queue string, message ResultQueueMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publishRaw(ctx, queue, body)
}

func (s *Service) publishRaw(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrQueuePublish(err)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrQueuePublish(fmt.Errorf("message not confirmed"))
		}
	case <-ctx.Done():
		return exceptions.ErrQueuePublish(ctx.Err())
	}
	return nil
}
