package transport

import (
	"fmt"
	"testing"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()

	var order []string
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("sub-%d", i)
		bus.Subscribe("tick", func(any) { order = append(order, name) })
	}

	bus.Publish("tick", nil)

	if len(order) != 5 {
		t.Fatalf("%d subscribers ran, want 5", len(order))
	}
	for i, name := range order {
		if want := fmt.Sprintf("sub-%d", i); name != want {
			t.Fatalf("delivery order = %v", order)
		}
	}
}

func TestSubscribeCancelIsIdempotent(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	cancel := bus.Subscribe("tick", func(any) { calls++ })
	bus.Publish("tick", nil)

	cancel()
	cancel()
	bus.Publish("tick", nil)

	if calls != 1 {
		t.Fatalf("subscriber ran %d times, want 1", calls)
	}
}
