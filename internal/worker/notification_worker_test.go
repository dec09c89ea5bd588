package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type recordingPublisher struct {
	mu      sync.Mutex
	keys    []string
	release chan struct{}
	fail    error
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, routingKey string, _ any) error {
	if p.release != nil {
		<-p.release
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return p.fail
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func TestNotificationWorker_DeliversInOrderAndDrainsOnStop(t *testing.T) {
	pub := &recordingPublisher{}
	w := NewNotificationWorker(pub, 8, time.Second, zaptest.NewLogger(t))
	w.Start()

	requestCtx, cancel := context.WithCancel(context.Background())
	for _, key := range []string{"order.created", "order.status_changed", "restaurant.deleted"} {
		if err := w.PublishJSON(requestCtx, key, map[string]int{"id": 1}); err != nil {
			t.Fatalf("enqueue %s: %v", key, err)
		}
	}
	cancel()
	w.Stop()

	got := pub.published()
	if len(got) != 3 || got[0] != "order.created" || got[2] != "restaurant.deleted" {
		t.Fatalf("unexpected deliveries: %v", got)
	}
	if err := w.PublishJSON(context.Background(), "order.created", nil); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped after stop, got %v", err)
	}
}

func TestNotificationWorker_FullQueueDoesNotBlock(t *testing.T) {
	pub := &recordingPublisher{release: make(chan struct{})}
	w := NewNotificationWorker(pub, 1, time.Second, zaptest.NewLogger(t))

	if err := w.PublishJSON(context.Background(), "a", nil); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := w.PublishJSON(context.Background(), "b", nil); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	w.Start()
	close(pub.release)
	w.Stop()
	if got := pub.published(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected deliveries: %v", got)
	}
}

func TestNotificationWorker_PublishErrorsAreSwallowed(t *testing.T) {
	pub := &recordingPublisher{fail: errors.New("broker down")}
	w := NewNotificationWorker(pub, 4, time.Second, zaptest.NewLogger(t))
	w.Start()
	if err := w.PublishJSON(context.Background(), "user.registered", nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	w.Stop()
	if got := pub.published(); len(got) != 1 {
		t.Fatalf("expected one attempt, got %v", got)
	}
}
