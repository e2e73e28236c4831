package app

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// WebhookJob is one accepted webhook payload awaiting background
// processing, tagged with the channel it arrived on.
type WebhookJob struct {
	Channel domain.Channel
	Payload *domain.WebhookPayload
}

// Enqueuer is the webhook handler's view of the dispatcher: accepted
// payloads are handed off and the HTTP response returns immediately.
type Enqueuer interface {
	Enqueue(job WebhookJob) bool
}

// Dispatcher is a bounded work queue consumed by a fixed pool of workers.
// Each worker normalizes a payload and runs every resulting event through
// the orchestrator. Queue-full policy is drop: the payload is discarded
// with an error log and a metrics increment rather than blocking the
// webhook handler.
type Dispatcher struct {
	jobs       chan WebhookJob
	workers    int
	normalizer *Normalizer
	orch       *Orchestrator
	logger     *slog.Logger
}

func NewDispatcher(normalizer *Normalizer, orch *Orchestrator, workers, queueSize int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		jobs:       make(chan WebhookJob, queueSize),
		workers:    workers,
		normalizer: normalizer,
		orch:       orch,
		logger:     logger.With("component", "dispatcher"),
	}
}

// Enqueue hands a payload to the worker pool without blocking. It returns
// false when the queue is full and the payload was dropped; the webhook
// caller still receives its success acknowledgment either way ("accepted"
// is a distinct outcome from "processed").
func (d *Dispatcher) Enqueue(job WebhookJob) bool {
	select {
	case d.jobs <- job:
		queueDepthGauge.Set(float64(len(d.jobs)))
		return true
	default:
		queueDroppedCounter.Inc()
		d.logger.Error("Work queue full, dropping webhook payload", "channel", job.Channel)
		return false
	}
}

// Run starts the worker pool and blocks until ctx is cancelled. Jobs left
// in the queue at shutdown are abandoned; in-flight events run to
// completion of their current external call timeout.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		workerID := i
		g.Go(func() error {
			return d.work(groupCtx, workerID)
		})
	}
	d.logger.Info("Dispatcher workers started", "workers", d.workers, "queue_size", cap(d.jobs))
	return g.Wait()
}

func (d *Dispatcher) work(ctx context.Context, workerID int) error {
	for {
		select {
		case job := <-d.jobs:
			queueDepthGauge.Set(float64(len(d.jobs)))
			d.process(ctx, job)
		case <-ctx.Done():
			d.logger.Info("Dispatcher worker shutting down", "worker_id", workerID)
			return ctx.Err()
		}
	}
}

// process normalizes one payload and runs each event independently; a
// failure in one event never aborts the others from the same payload.
func (d *Dispatcher) process(ctx context.Context, job WebhookJob) {
	events := d.normalizer.Normalize(job.Payload)
	if len(events) == 0 {
		d.logger.Debug("Webhook payload yielded no events", "channel", job.Channel)
		return
	}

	for _, event := range events {
		webhookEventsNormalizedCounter.WithLabelValues(string(event.Kind())).Inc()
		d.orch.ProcessEvent(ctx, event, job.Channel)
	}
}
