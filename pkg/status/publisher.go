package status

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

// States published besides the component states.
const (
	StateOnline  = "online"
	StateOffline = "offline"
	StateFailed  = "failed"
)

const defaultQueueSize = 64

// Status is the published document.
type Status struct {
	// State is the latest state, e.g. STATION_CONNECTED.
	State string `json:"state"`

	// Entity is what changed state, e.g. PROVISIONING.
	Entity string `json:"entity,omitempty"`

	// Source and Event are the last dispatched notification.
	Source string `json:"source,omitempty"`
	Event  string `json:"event,omitempty"`

	Reason string    `json:"reason,omitempty"`
	TS     time.Time `json:"ts"`
}

// Topic returns the status topic for a device.
func Topic(prefix, deviceID string) string {
	return prefix + "/" + deviceID + "/bringup"
}

// OfflinePayload is the last-will document.
func OfflinePayload() []byte {
	data, _ := json.Marshal(Status{State: StateOffline})
	return data
}

// Config configures a Publisher.
type Config struct {
	Transport Transport
	Topic     string
	QoS       byte

	// QueueSize bounds the publish backlog. Defaults to 64.
	QueueSize int

	// Now defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Publisher turns trace events into retained status documents. Log never
// blocks: documents that do not fit the queue are dropped.
type Publisher struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	source string
	event  string
	last   Status

	// qmu guards queue sends against Close.
	qmu     sync.Mutex
	closed  bool
	queue   chan Status
	done    chan struct{}
	closing sync.Once

	published atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

// NewPublisher starts a Publisher and publishes the online document.
func NewPublisher(cfg Config) *Publisher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &Publisher{
		cfg:    cfg,
		logger: logger.With("component", "status"),
		queue:  make(chan Status, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	p.enqueue(Status{State: StateOnline, TS: cfg.Now()})
	return p
}

// Log implements log.Logger.
func (p *Publisher) Log(e log.Event) {
	var st Status
	p.mu.Lock()
	switch {
	case e.Dispatch != nil:
		p.source = e.Dispatch.Source
		p.event = e.Dispatch.Name
		p.mu.Unlock()
		return
	case e.StateChange != nil:
		st = Status{
			State:  e.StateChange.NewState,
			Entity: e.StateChange.Entity.String(),
			Reason: e.StateChange.Reason,
		}
	case e.Error != nil && e.Error.Fatal:
		st = Status{
			State:  StateFailed,
			Entity: e.Component.String(),
			Reason: e.Error.Message,
		}
	default:
		p.mu.Unlock()
		return
	}
	st.Source = p.source
	st.Event = p.event
	st.TS = e.Timestamp
	if st.TS.IsZero() {
		st.TS = p.cfg.Now()
	}
	p.last = st
	p.mu.Unlock()

	p.enqueue(st)
}

// Last returns the most recent component status.
func (p *Publisher) Last() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Published returns the number of documents delivered to the broker.
func (p *Publisher) Published() uint64 { return p.published.Load() }

// Dropped returns the number of documents dropped on a full queue.
func (p *Publisher) Dropped() uint64 { return p.dropped.Load() }

// Failed returns the number of documents the transport rejected.
func (p *Publisher) Failed() uint64 { return p.failed.Load() }

// Close drains the queue, publishes the offline document and closes the
// transport.
func (p *Publisher) Close() error {
	var err error
	p.closing.Do(func() {
		p.qmu.Lock()
		p.closed = true
		close(p.queue)
		p.qmu.Unlock()
		<-p.done
		p.publish(Status{State: StateOffline, TS: p.cfg.Now()})
		err = p.cfg.Transport.Close()
	})
	return err
}

func (p *Publisher) enqueue(st Status) {
	p.qmu.Lock()
	defer p.qmu.Unlock()
	if p.closed {
		p.dropped.Inc()
		return
	}
	select {
	case p.queue <- st:
	default:
		p.dropped.Inc()
		p.logger.Warn("status queue full, dropping", "state", st.State)
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for st := range p.queue {
		p.publish(st)
	}
}

func (p *Publisher) publish(st Status) {
	payload, err := json.Marshal(st)
	if err != nil {
		p.failed.Inc()
		return
	}
	if err := p.cfg.Transport.Publish(p.cfg.Topic, payload, p.cfg.QoS, true); err != nil {
		p.failed.Inc()
		p.logger.Warn("failed to publish status", "state", st.State, "error", err)
		return
	}
	p.published.Inc()
}

var _ log.Logger = (*Publisher)(nil)
