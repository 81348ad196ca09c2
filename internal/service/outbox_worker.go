package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iyhunko/product-catalog-service/internal/metrics"
	"github.com/iyhunko/product-catalog-service/internal/model"
	"github.com/iyhunko/product-catalog-service/internal/repository"
)

// DefaultOutboxBatchSize is the number of pending events handled per poll.
const DefaultOutboxBatchSize = 10

// EventPublisher sends an encoded event body to the message broker.
type EventPublisher interface {
	PublishRaw(ctx context.Context, body []byte) error
}

// OutboxWorker polls the events table and publishes pending events.
type OutboxWorker struct {
	events    repository.EventRepository
	publisher EventPublisher
	interval  time.Duration
	batchSize int
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewOutboxWorker creates a new OutboxWorker.
func NewOutboxWorker(events repository.EventRepository, publisher EventPublisher, interval time.Duration) *OutboxWorker {
	return &OutboxWorker{
		events:    events,
		publisher: publisher,
		interval:  interval,
		batchSize: DefaultOutboxBatchSize,
		stopChan:  make(chan struct{}),
	}
}

// Start processes pending events every interval until ctx is done or Stop is called.
func (w *OutboxWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker stopped by context")
			return
		case <-w.stopChan:
			slog.Info("Outbox worker stopped")
			return
		case <-ticker.C:
			w.ProcessPending(ctx)
		}
	}
}

// Stop stops the outbox worker. It is safe to call more than once.
func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

// ProcessPending publishes one batch of pending events, oldest first.
// Every event ends up processed or failed, a failed publish does not stop the batch.
func (w *OutboxWorker) ProcessPending(ctx context.Context) {
	pending, err := w.events.ListPending(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to retrieve pending events", slog.Any("err", err))
		return
	}
	if len(pending) == 0 {
		return
	}

	slog.Info("Processing pending events", slog.Int("count", len(pending)))

	for _, event := range pending {
		status := model.EventStatusProcessed
		if err := w.publisher.PublishRaw(ctx, event.EventData); err != nil {
			slog.Error("Failed to publish event",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.EventType),
				slog.Any("err", err))
			status = model.EventStatusFailed
		}

		if err := w.events.UpdateStatus(ctx, event.ID, status); err != nil {
			slog.Error("Failed to update event status",
				slog.String("event_id", event.ID.String()),
				slog.String("status", string(status)),
				slog.Any("err", err))
			continue
		}

		metrics.OutboxEventsPublished.WithLabelValues(string(status)).Inc()
		slog.Debug("Event handled",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
			slog.String("status", string(status)))
	}
}
