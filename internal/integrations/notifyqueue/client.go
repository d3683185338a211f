package notifyqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client публикует события жизненного цикла бронирований в RabbitMQ
// Очередь durable, сообщения persistent; публикация асинхронная и никогда
// не блокирует и не откатывает переход статуса - ошибки только логируются
type Client struct {
	url     string
	queue   string
	timeout time.Duration
	log     Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewClient создает клиента и устанавливает соединение с брокером
// Недоступный брокер не фатален: клиент попробует переподключиться
// при каждой публикации
func NewClient(url, queue string, timeout time.Duration, log Logger) *Client {
	c := &Client{
		url:     url,
		queue:   queue,
		timeout: timeout,
		log:     log,
	}

	if err := c.connect(); err != nil {
		log.Warn("notifyqueue: initial connect failed, will retry on publish: %v", err)
	}

	return c
}

// connect устанавливает соединение и декларирует очередь (идемпотентно)
func (c *Client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && !c.conn.IsClosed() && c.ch != nil {
		return nil
	}

	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("%w: dial: %v", ErrNotConnected, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("%w: open channel: %v", ErrNotConnected, err)
	}

	// durable, чтобы сообщения переживали перезапуск брокера
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("%w: declare queue: %v", ErrNotConnected, err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

// Close закрывает соединение с брокером
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Emit асинхронно публикует событие жизненного цикла
// Возврата ошибки нет намеренно: эмиссия fire-and-forget, сбой публикации
// не должен влиять на результат операции
func (c *Client) Emit(kind domain.EventKind, res *domain.Reservation, metadata map[string]string) {
	event := ReservationEvent{
		Kind:            string(kind),
		ReservationID:   res.ID,
		ReferenceNumber: res.ReferenceNumber,
		LabID:           res.LabID,
		RequesterID:     res.RequesterID,
		Status:          string(res.Status),
		StartTime:       res.StartTime,
		EndTime:         res.EndTime,
		Metadata:        metadata,
		EmittedAt:       time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if err := c.publish(ctx, event); err != nil {
			c.log.Error("notifyqueue: failed to publish %s for reservation id=%d: %v",
				kind, res.ID, err)
			return
		}
		c.log.Info("notifyqueue: published %s for reservation id=%d", kind, res.ID)
	}()
}

// publish публикует одно событие, переподключаясь при необходимости
func (c *Client) publish(ctx context.Context, event ReservationEvent) error {
	if err := c.connect(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", c.queue, false, false, pub); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	return nil
}

// NopEmitter заглушка эмиттера, когда публикация событий выключена
type NopEmitter struct{}

// Emit ничего не делает
func (NopEmitter) Emit(domain.EventKind, *domain.Reservation, map[string]string) {}
