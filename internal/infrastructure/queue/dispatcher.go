package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/airrush/charter-api/internal/api/metrics"
	"github.com/airrush/charter-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes status events to a fixed set of workers using
// consistent hashing on the airwaybill, guaranteeing per-booking
// notification ordering while keeping delivery off the mutation path.
type Dispatcher struct {
	workers  []chan ports.StatusEvent
	delivery ports.NotificationService
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, delivery ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.StatusEvent, numWorkers),
		delivery: delivery,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.StatusEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its airwaybill.
// Callers must enqueue only after the mutation has been persisted. The
// call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(ev ports.StatusEvent) {
	i := d.shardIndex(ev.Airwaybill())
	d.workers[i] <- ev
	metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps an airwaybill deterministically to a worker index.
func (d *Dispatcher) shardIndex(airwaybill string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(airwaybill))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.StatusEvent) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotifyQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.delivery.Deliver(ctx, ev); err != nil {
				d.log.Error().Err(err).
					Str("airwaybill", ev.Airwaybill()).
					Str("event_id", ev.ID).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
		}
	}
}
