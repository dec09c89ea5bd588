package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is returned when the delivery backlog is at capacity.
var ErrQueueFull = errors.New("notification queue full")

// ErrStopped is returned for deliveries offered after Stop.
var ErrStopped = errors.New("notification worker stopped")

// Publisher is the broker the worker delivers to.
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

type delivery struct {
	routingKey string
	body       any
}

// NotificationWorker moves broker publishes off the request path. It
// satisfies the same PublishJSON contract as the broker, so it can stand in
// front of one.
type NotificationWorker struct {
	publisher Publisher
	logger    *zap.Logger
	timeout   time.Duration

	mu      sync.RWMutex
	stopped bool
	queue   chan delivery
	done    chan struct{}
}

// NewNotificationWorker builds a worker with a bounded backlog.
func NewNotificationWorker(publisher Publisher, queueSize int, timeout time.Duration, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationWorker{
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
		queue:     make(chan delivery, queueSize),
		done:      make(chan struct{}),
	}
}

// Start launches the delivery loop.
func (w *NotificationWorker) Start() {
	go w.run()
}

// PublishJSON enqueues a delivery without blocking. The caller's context is
// not carried over since it ends with the request.
func (w *NotificationWorker) PublishJSON(_ context.Context, routingKey string, v any) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrStopped
	}
	select {
	case w.queue <- delivery{routingKey: routingKey, body: v}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new deliveries, drains the backlog and waits for the loop to
// exit.
func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for d := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		if err := w.publisher.PublishJSON(ctx, d.routingKey, d.body); err != nil {
			w.logger.Warn("event publish failed", zap.String("routing_key", d.routingKey), zap.Error(err))
		}
		cancel()
	}
}
