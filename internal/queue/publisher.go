package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/config"
)

// Publisher sends activity events.  Implementations never fail the caller:
// errors are logged and swallowed, since an event is a side effect of a
// write that has already succeeded.
type Publisher interface {
	Publish(ctx context.Context, ev ActivityEvent)
}

// Noop discards every event.  It is used when events are disabled.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, ActivityEvent) {}

// AMQPPublisher publishes persistent JSON messages to a durable RabbitMQ
// queue through the default exchange.  Each Publish runs in its own
// goroutine under a fresh timeout, so a slow or unreachable broker never
// holds up the request that produced the event.
type AMQPPublisher struct {
	url     string
	queue   string
	timeout time.Duration
	log     *zap.Logger

	wg sync.WaitGroup
}

// NewPublisher returns an AMQPPublisher when events are enabled and Noop
// otherwise.
func NewPublisher(cfg config.EventsConfig, log *zap.Logger) Publisher {
	if !cfg.Enabled {
		return Noop{}
	}
	return newAMQPPublisher(cfg, log)
}

func newAMQPPublisher(cfg config.EventsConfig, log *zap.Logger) *AMQPPublisher {
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &AMQPPublisher{url: cfg.URL, queue: cfg.Queue, timeout: timeout, log: log}
}

// Publish implements Publisher.  It returns immediately; ctx only carries
// values, its cancellation is ignored.
func (p *AMQPPublisher) Publish(ctx context.Context, ev ActivityEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		if err := p.publish(ctx, ev); err != nil {
			p.log.Warn("publish activity event failed",
				zap.String("type", ev.Type),
				zap.String("course_id", ev.CourseID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight publishes finish or ctx is done.
func (p *AMQPPublisher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for publishes: %w", ctx.Err())
	}
}

func (p *AMQPPublisher) publish(ctx context.Context, ev ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.timeout)})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, p.queue); err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// declare makes sure the durable queue exists; declaring is idempotent.
func declare(ch *amqp.Channel, name string) error {
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}
