// Package notify publishes best-effort job-lifecycle events to AMQP.
// The queue is not this service's dispatch mechanism, internal/store's
// atomic claim already is, so publishing here is additive and
// fire-and-forget: a publish failure is logged and never fails the
// worker.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event is the JSON body published for job.completed / job.failed.
type Event struct {
	JobID     string `json:"jobId"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Publisher is an optional secondary notification channel. A nil
// *Publisher is valid and Publish on it is a no-op, so callers can
// wire notify unconditionally and let Config decide whether it is
// backed by a real connection.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   *slog.Logger
}

// NewPublisher dials url and declares queue durable. There is no
// retry/DLQ topology here; the store already owns retries via the
// PENDING reset.
func NewPublisher(url, queue string, log *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queue, log: log}, nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Publish emits ev to the configured queue. Errors are logged, not
// returned: a dropped notification must never fail job processing.
func (p *Publisher) Publish(ctx context.Context, ev Event) {
	if p == nil {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("notify encode failed", "job_id", ev.JobID, "error", err)
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = p.ch.PublishWithContext(pctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
	})
	if err != nil {
		p.log.Warn("notify publish failed", "job_id", ev.JobID, "error", err)
	}
}
