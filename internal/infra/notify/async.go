package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type notification struct {
	userID  uuid.UUID
	title   string
	message string
}

// AsyncDispatcher decouples notification delivery from the caller: the
// enqueue never blocks and never fails. When the queue is full the
// notification is dropped with a warning, which the contract allows.
type AsyncDispatcher struct {
	sink   Notifier
	logger *slog.Logger
	queue  chan notification

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewAsyncDispatcher(sink Notifier, logger *slog.Logger, queueSize, workers int) *AsyncDispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 1
	}

	d := &AsyncDispatcher{
		sink:   sink,
		logger: logger,
		queue:  make(chan notification, queueSize),
	}
	for range workers {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *AsyncDispatcher) Notify(_ context.Context, userID uuid.UUID, title, message string) error {
	select {
	case d.queue <- notification{userID: userID, title: title, message: message}:
	default:
		d.logger.Warn("notification queue full, dropping", "user_id", userID, "title", title)
	}
	return nil
}

// Close stops accepting work and waits for in-flight deliveries.
func (d *AsyncDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *AsyncDispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		// Caller context is long gone by delivery time.
		if err := d.sink.Notify(context.Background(), n.userID, n.title, n.message); err != nil {
			d.logger.Warn("failed to deliver notification", "user_id", n.userID, "title", n.title, "error", err)
		}
	}
}
