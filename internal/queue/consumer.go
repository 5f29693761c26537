package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/config"
)

const (
	activityLogFile = "activity.log"
	minBackoff      = time.Second
	maxBackoff      = 30 * time.Second
)

// Consumer reads activity events from the queue and appends one line per
// event to <LogDir>/activity.log.
type Consumer struct {
	url    string
	queue  string
	logDir string
	log    *zap.Logger
}

// NewConsumer builds a Consumer from the events configuration.
func NewConsumer(cfg config.EventsConfig, log *zap.Logger) *Consumer {
	return &Consumer{url: cfg.URL, queue: cfg.Queue, logDir: cfg.LogDir, log: log}
}

// Run connects to the broker and consumes until ctx is cancelled.  Lost
// connections are re-established with exponential backoff, so Run only
// returns once ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := minBackoff
	for {
		conn, err := amqp.DialConfig(c.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
		if err != nil {
			c.log.Warn("activity consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = minBackoff

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn("activity consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("activity consumer: set QoS failed", zap.Error(err))
	}
	if err := declare(ch, c.queue); err != nil {
		return err
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				c.log.Warn("activity consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // do not requeue a message that cannot be handled
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(c.logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.logDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.logDir, activityLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLine(ev ActivityEvent) string {
	switch ev.Type {
	case EventEnrollmentCreated:
		return fmt.Sprintf("[%s] Enrollment created | enrollment_id=%s | course_id=%s | course=%q | student=%s\n",
			ev.OccurredAt, ev.EnrollmentID, ev.CourseID, ev.CourseTitle, ev.StudentEmail)
	case EventCourseDeleted:
		return fmt.Sprintf("[%s] Course deleted | course_id=%s | course=%q | by=%s | enrollments_removed=%d\n",
			ev.OccurredAt, ev.CourseID, ev.CourseTitle, ev.ActorEmail, ev.DeletedEnrollments)
	default:
		return fmt.Sprintf("[%s] %s | course_id=%s\n", ev.OccurredAt, ev.Type, ev.CourseID)
	}
}

// sleep waits for d or until ctx is done.  It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
