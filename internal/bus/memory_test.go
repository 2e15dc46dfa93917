package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/banglaclir/clir-search/internal/pkg/logger"
)

func TestMemoryBusDelivery(t *testing.T) {
	b := NewMemoryBus(logger.Default())
	ctx := context.Background()

	var mu sync.Mutex
	var received []Event

	err := b.Subscribe(ctx, TopicSearchCompleted, func(_ context.Context, e Event) error {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	event := NewEvent(TopicSearchCompleted, "test", map[string]any{"query": "cricket"})
	if err := b.Publish(ctx, TopicSearchCompleted, event); err != nil {
		t.Fatal(err)
	}

	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("received %d events, want 1", len(received))
	}
	if received[0].ID != event.ID || received[0].Type != TopicSearchCompleted {
		t.Errorf("received = %+v, want published event", received[0])
	}
}

func TestMemoryBusFanOut(t *testing.T) {
	b := NewMemoryBus(logger.Default())
	ctx := context.Background()

	var count sync.WaitGroup
	count.Add(3)

	for i := 0; i < 3; i++ {
		err := b.Subscribe(ctx, TopicIndexBuilt, func(_ context.Context, _ Event) error {
			count.Done()
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	if err := b.Publish(ctx, TopicIndexBuilt, NewEvent(TopicIndexBuilt, "test", nil)); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		count.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all subscribers received the event")
	}

	b.Close()
}

func TestMemoryBusNoSubscribers(t *testing.T) {
	b := NewMemoryBus(logger.Default())
	defer b.Close()

	// Publishing with no subscribers is not an error.
	if err := b.Publish(context.Background(), TopicEvaluationCompleted, NewEvent(TopicEvaluationCompleted, "test", nil)); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
}

func TestMemoryBusClosed(t *testing.T) {
	b := NewMemoryBus(logger.Default())
	b.Close()

	ctx := context.Background()
	if err := b.Publish(ctx, TopicIndexBuilt, NewEvent(TopicIndexBuilt, "test", nil)); err == nil {
		t.Error("Publish() on closed bus should fail")
	}
	if err := b.Subscribe(ctx, TopicIndexBuilt, func(context.Context, Event) error { return nil }); err == nil {
		t.Error("Subscribe() on closed bus should fail")
	}
}

func TestNewEvent(t *testing.T) {
	e1 := NewEvent(TopicIndexBuilt, "test", nil)
	e2 := NewEvent(TopicIndexBuilt, "test", nil)

	if e1.ID == "" || e1.ID == e2.ID {
		t.Error("events must carry unique IDs")
	}
	if e1.Timestamp == 0 {
		t.Error("event timestamp not set")
	}
}

func TestParseKafkaBrokers(t *testing.T) {
	got := ParseKafkaBrokers(" broker1:9092 , broker2:9092")
	if len(got) != 2 || got[0] != "broker1:9092" || got[1] != "broker2:9092" {
		t.Errorf("ParseKafkaBrokers() = %v", got)
	}
	if ParseKafkaBrokers("") != nil {
		t.Error("ParseKafkaBrokers(\"\") should be nil")
	}
}
