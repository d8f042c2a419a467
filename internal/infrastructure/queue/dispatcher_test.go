package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/airrush/charter-api/internal/core/domain"
	"github.com/airrush/charter-api/internal/core/ports"
)

type recordingDelivery struct {
	mu     sync.Mutex
	events []ports.StatusEvent
	done   chan struct{}
	expect int
}

func (d *recordingDelivery) Deliver(ctx context.Context, ev ports.StatusEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	if len(d.events) == d.expect {
		close(d.done)
	}
	return nil
}

func cargoStatusEvent(airwaybill string, version int64) ports.StatusEvent {
	return ports.StatusEvent{
		ID:   airwaybill + "-v",
		Kind: ports.KindCargo,
		Cargo: &domain.CargoBooking{
			Airwaybill: airwaybill,
			Status:     domain.CargoInTransit,
			Version:    version,
		},
	}
}

func TestDispatcher_DeliversAllEvents(t *testing.T) {
	delivery := &recordingDelivery{done: make(chan struct{}), expect: 3}
	d := NewDispatcher(4, delivery, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(cargoStatusEvent("NBO-AAAAAA", 1))
	d.Enqueue(cargoStatusEvent("NBO-BBBBBB", 1))
	d.Enqueue(cargoStatusEvent("NBO-CCCCCC", 1))

	select {
	case <-delivery.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for deliveries")
	}
}

func TestDispatcher_PreservesPerBookingOrder(t *testing.T) {
	delivery := &recordingDelivery{done: make(chan struct{}), expect: 5}
	d := NewDispatcher(3, delivery, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for v := int64(1); v <= 5; v++ {
		d.Enqueue(cargoStatusEvent("NBO-AAAAAA", v))
	}

	select {
	case <-delivery.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for deliveries")
	}

	delivery.mu.Lock()
	defer delivery.mu.Unlock()
	for i, ev := range delivery.events {
		if ev.Version() != int64(i+1) {
			t.Fatalf("event %d out of order: version %d", i, ev.Version())
		}
	}
}

func TestDispatcher_ShardingIsDeterministic(t *testing.T) {
	d := NewDispatcher(8, &recordingDelivery{done: make(chan struct{}), expect: 0}, zerolog.Nop())

	first := d.shardIndex("NBO-AB12CD")
	for i := 0; i < 100; i++ {
		if d.shardIndex("NBO-AB12CD") != first {
			t.Fatal("shard index must be stable for the same airwaybill")
		}
	}
}
