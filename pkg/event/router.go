package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

// Source identifies the subsystem that emits a notification.
type Source string

// Well-known sources.
const (
	SourceWiFi         Source = "WIFI_EVENT"
	SourceIP           Source = "IP_EVENT"
	SourceProvisioning Source = "WIFI_PROV_EVENT"
)

// ID is a source-specific event identifier.
type ID int32

// AnyID registers a handler for every event of a source.
const AnyID ID = -1

// DefaultQueueSize is the per-source queue capacity.
const DefaultQueueSize = 32

// Errors returned by the router.
var (
	ErrNotRunning  = errors.New("event router not running")
	ErrNilHandler  = errors.New("nil event handler")
	ErrEmptySource = errors.New("empty event source")
	ErrUnknownID   = errors.New("unknown handler id")
	ErrQueueClosed = errors.New("event queue closed")
)

// Event is one delivered notification.
type Event struct {
	Source Source
	ID     ID
	Data   any

	// Seq is the router-wide posting order.
	Seq uint64

	// Posted is when Post accepted the event.
	Posted time.Time
}

// Handler receives events.
type Handler func(Event)

// HandlerID identifies a registration for Unregister.
type HandlerID uint64

// Config configures a Router.
type Config struct {
	// QueueSize bounds each per-source queue. Zero means DefaultQueueSize.
	QueueSize int

	// Names maps (source, id) to readable names for logs and traces.
	Names map[Source]map[ID]string

	Logger *slog.Logger
	Trace  log.Logger
}

type registration struct {
	id      HandlerID
	source  Source
	eventID ID
	handler Handler
}

type sourceQueue struct {
	ch   chan Event
	done chan struct{}
}

// Router is the event-dispatch registry.
type Router struct {
	cfg    Config
	logger *slog.Logger
	trace  log.Logger

	mu       sync.RWMutex
	handlers map[Source][]registration
	queues   map[Source]*sourceQueue

	nextID    atomic.Uint64
	seq       atomic.Uint64
	running   atomic.Bool
	delivered atomic.Uint64
	panics    atomic.Uint64

	stopOnce sync.Once
	stopped  chan struct{}
	posting  sync.WaitGroup // Posts admitted before stopped closed
	drain    chan struct{}  // closed once every admitted Post has returned
}

// NewRouter creates a router. Start must be called before Post.
func NewRouter(cfg Config) *Router {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Router{
		cfg:      cfg,
		logger:   logger,
		trace:    log.OrNoop(cfg.Trace),
		handlers: make(map[Source][]registration),
		queues:   make(map[Source]*sourceQueue),
		stopped:  make(chan struct{}),
		drain:    make(chan struct{}),
	}
}

// Start enables posting. Calling Start on a running router is a no-op.
func (r *Router) Start() error {
	select {
	case <-r.stopped:
		return ErrQueueClosed
	default:
	}
	r.running.Store(true)
	return nil
}

// Running reports whether Post accepts events.
func (r *Router) Running() bool {
	return r.running.Load()
}

// Register adds handler for (source, id). Use AnyID for every event of source.
func (r *Router) Register(source Source, id ID, handler Handler) (HandlerID, error) {
	if source == "" {
		return 0, ErrEmptySource
	}
	if handler == nil {
		return 0, ErrNilHandler
	}
	hid := HandlerID(r.nextID.Inc())

	r.mu.Lock()
	r.handlers[source] = append(r.handlers[source], registration{
		id:      hid,
		source:  source,
		eventID: id,
		handler: handler,
	})
	r.mu.Unlock()

	r.logger.Debug("event handler registered", "source", source, "event", r.name(source, id), "handler", hid)
	return hid, nil
}

// Unregister removes a registration. Events already queued may still be
// delivered to handlers that were registered when they were dispatched.
func (r *Router) Unregister(hid HandlerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for src, regs := range r.handlers {
		for i, reg := range regs {
			if reg.id == hid {
				r.handlers[src] = append(regs[:i:i], regs[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownID, hid)
}

// Post queues an event for asynchronous delivery. It blocks only while the
// source queue is full, honouring ctx. A nil error means the event will be
// delivered, even if Stop runs concurrently.
func (r *Router) Post(ctx context.Context, source Source, id ID, data any) error {
	if !r.running.Load() {
		return ErrNotRunning
	}
	if source == "" {
		return ErrEmptySource
	}

	r.mu.RLock()
	select {
	case <-r.stopped:
		r.mu.RUnlock()
		return ErrQueueClosed
	default:
	}
	r.posting.Add(1)
	r.mu.RUnlock()
	defer r.posting.Done()

	q, err := r.queue(source)
	if err != nil {
		return err
	}
	ev := Event{
		Source: source,
		ID:     id,
		Data:   data,
		Seq:    r.seq.Inc(),
		Posted: time.Now(),
	}
	select {
	case q.ch <- ev:
		return nil
	case <-r.stopped:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops dispatching. Events buffered at the time of the call are
// delivered before Stop returns. Stop must not be called from a handler.
func (r *Router) Stop() {
	r.stopOnce.Do(func() {
		r.running.Store(false)

		r.mu.Lock()
		close(r.stopped)
		queues := make([]*sourceQueue, 0, len(r.queues))
		for _, q := range r.queues {
			queues = append(queues, q)
		}
		r.mu.Unlock()

		// The final drain starts only after in-flight Posts have either
		// queued their event or given up.
		r.posting.Wait()
		close(r.drain)

		for _, q := range queues {
			<-q.done
		}
	})
}

// Stats returns the number of handler invocations and recovered panics.
func (r *Router) Stats() (delivered, panics uint64) {
	return r.delivered.Load(), r.panics.Load()
}

// Name returns the registered readable name for (source, id), or the
// numeric id.
func (r *Router) Name(source Source, id ID) string {
	return r.name(source, id)
}

func (r *Router) name(source Source, id ID) string {
	if id == AnyID {
		return "ANY"
	}
	if names, ok := r.cfg.Names[source]; ok {
		if n, ok := names[id]; ok {
			return n
		}
	}
	return fmt.Sprintf("%d", id)
}

func (r *Router) queue(source Source) (*sourceQueue, error) {
	r.mu.RLock()
	q, ok := r.queues[source]
	r.mu.RUnlock()
	if ok {
		return q, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.stopped:
		return nil, ErrQueueClosed
	default:
	}
	if q, ok = r.queues[source]; ok {
		return q, nil
	}
	q = &sourceQueue{
		ch:   make(chan Event, r.cfg.QueueSize),
		done: make(chan struct{}),
	}
	r.queues[source] = q
	go r.dispatchLoop(q)
	return q, nil
}

// dispatchLoop delivers events of one source in order. The queue channel is
// never closed; once Stop has no Posts in flight the loop drains what is
// buffered and exits.
func (r *Router) dispatchLoop(q *sourceQueue) {
	defer close(q.done)
	for {
		select {
		case ev := <-q.ch:
			r.dispatch(ev)
		case <-r.drain:
			for {
				select {
				case ev := <-q.ch:
					r.dispatch(ev)
				default:
					return
				}
			}
		}
	}
}

func (r *Router) dispatch(ev Event) {
	r.mu.RLock()
	regs := r.handlers[ev.Source]
	targets := make([]Handler, 0, len(regs))
	for _, reg := range regs {
		if reg.eventID == AnyID || reg.eventID == ev.ID {
			targets = append(targets, reg.handler)
		}
	}
	r.mu.RUnlock()

	name := r.name(ev.Source, ev.ID)
	r.logger.Debug("dispatching event", "source", ev.Source, "event", name, "seq", ev.Seq, "handlers", len(targets))

	r.trace.Log(log.Event{
		Timestamp: time.Now(),
		Component: log.ComponentRouter,
		Category:  log.CategoryDispatch,
		Dispatch: &log.DispatchEvent{
			Source:   string(ev.Source),
			ID:       int32(ev.ID),
			Name:     name,
			Seq:      ev.Seq,
			Handlers: len(targets),
			Latency:  time.Since(ev.Posted),
		},
	})

	for _, h := range targets {
		r.invoke(h, ev, name)
	}
}

func (r *Router) invoke(h Handler, ev Event, name string) {
	defer func() {
		if p := recover(); p != nil {
			r.panics.Inc()
			err := fmt.Errorf("handler panic: %v", p)
			r.logger.Error("event handler panicked", "source", ev.Source, "event", name, "error", err)
			r.trace.Log(log.NewErrorEvent(log.ComponentRouter, "dispatch "+string(ev.Source)+"/"+name, err, false))
		}
	}()
	h(ev)
	r.delivered.Inc()
}
