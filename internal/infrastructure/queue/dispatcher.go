package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
)

// DepthFunc is told the queue depth of a worker after each change.
type DepthFunc func(worker string, depth int)

// Dispatcher spreads access events over a fixed set of workers. Events for
// the same principal always land on the same worker so they are stored in
// the order they happened.
type Dispatcher struct {
	workers []chan domain.AccessEvent
	service ports.AuditService
	log     zerolog.Logger
	depth   DepthFunc
	wg      sync.WaitGroup
}

var _ ports.AuditRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers workers, or
// defaultWorkers when numWorkers <= 0. depth may be nil.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger, depth DepthFunc) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if depth == nil {
		depth = func(string, int) {}
	}
	d := &Dispatcher{
		workers: make([]chan domain.AccessEvent, numWorkers),
		service: service,
		log:     log,
		depth:   depth,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AccessEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain their queues and exit once ctx is
// cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() { d.wg.Wait() }

// Record enqueues event without blocking. When the worker's queue is full
// the event is dropped and logged.
func (d *Dispatcher) Record(event domain.AccessEvent) {
	idx := d.shardIndex(shardKey(event))
	select {
	case d.workers[idx] <- event:
		d.depth(strconv.Itoa(idx), len(d.workers[idx]))
	default:
		d.log.Warn().
			Str("kind", string(event.Kind)).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

func shardKey(event domain.AccessEvent) string {
	if event.Email != "" {
		return event.Email
	}
	return event.RemoteIP
}

func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AccessEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			d.depth(label, len(ch))
			d.process(ctx, id, event)
		}
	}
}

// drain stores whatever is still queued at shutdown with a fresh context.
func (d *Dispatcher) drain(id int, ch <-chan domain.AccessEvent) {
	for {
		select {
		case event := <-ch:
			d.process(context.Background(), id, event)
		default:
			d.depth(strconv.Itoa(id), 0)
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event domain.AccessEvent) {
	if err := d.service.Process(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("kind", string(event.Kind)).
			Int("worker_id", id).
			Msg("audit event processing failed")
	}
}
