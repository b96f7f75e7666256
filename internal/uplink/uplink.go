package uplink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/binding"
	"github.com/nerrad567/instrument-core/internal/component"
	"github.com/nerrad567/instrument-core/internal/infrastructure/mqtt"
)

// queueDepth bounds the batches waiting for the publisher goroutine.
const queueDepth = 64

// bindingName identifies the uplink in runtime status and write sources.
const bindingName = "mqtt"

// Broker is the part of *mqtt.Client the uplink uses.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Logger defines the logging interface for the uplink.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures an Uplink.
type Options struct {
	Topics mqtt.Topics
	QoS    byte
	// Retain publishes persistent values as retained messages.
	Retain bool
}

// StatePayload is the JSON document published for one endpoint.
type StatePayload struct {
	Value     any    `json:"value"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
}

// Stats counts publisher activity.
type Stats struct {
	Published uint64 `json:"published"`
	Failed    uint64 `json:"failed"`
	Dropped   uint64 `json:"dropped"`
	Received  uint64 `json:"received"`
}

// Uplink is a runtime binding bridging the address table and a broker.
type Uplink struct {
	exchange *binding.Exchange
	broker   Broker
	opts     Options
	logger   Logger

	// byTopic maps a topic-form address (no leading slash) to its table address.
	byTopic map[string]string

	queue     chan []binding.Reading
	started   atomic.Bool
	startOnce sync.Once
	done      chan struct{}

	published atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
	received  atomic.Uint64
}

// New creates an uplink over table publishing through broker.
func New(table *address.Table, broker Broker, opts Options) *Uplink {
	u := &Uplink{
		exchange: binding.NewExchange(bindingName, table),
		broker:   broker,
		opts:     opts,
		logger:   noopLogger{},
		byTopic:  make(map[string]string, table.Len()),
		queue:    make(chan []binding.Reading, queueDepth),
		done:     make(chan struct{}),
	}
	for _, en := range table.Entries() {
		u.byTopic[strings.TrimPrefix(en.Address, "/")] = en.Address
	}
	u.exchange.OnChange = u.enqueue
	return u
}

// SetLogger sets the logger for the uplink and its exchange.
func (u *Uplink) SetLogger(logger Logger) {
	u.logger = logger
	u.exchange.SetLogger(logger)
}

// Name identifies the uplink in runtime status.
func (u *Uplink) Name() string { return bindingName }

// Exchange returns the underlying exchange.
func (u *Uplink) Exchange() *binding.Exchange { return u.exchange }

// Attach checks the table against tree and that every address is a valid topic suffix.
func (u *Uplink) Attach(tree *component.Tree) error {
	if err := u.exchange.Attach(tree); err != nil {
		return err
	}
	for _, en := range u.exchange.Table().Entries() {
		if !mqtt.ValidAddress(en.Address) {
			return fmt.Errorf("%w: %q", ErrInvalidAddress, en.Address)
		}
	}
	return nil
}

// ExternalSources applies writes received since the last tick.
func (u *Uplink) ExternalSources() { u.exchange.ExternalSources() }

// ExternalDestinations captures changes and hands them to the publisher.
func (u *Uplink) ExternalDestinations() { u.exchange.ExternalDestinations() }

// Start subscribes to the set topics and starts the publisher goroutine,
// which runs until ctx is cancelled.
func (u *Uplink) Start(ctx context.Context) error {
	if !u.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if err := u.broker.Subscribe(u.opts.Topics.AllSets(), u.opts.QoS, u.handleSet); err != nil {
		close(u.done)
		return fmt.Errorf("subscribing to set topics: %w", err)
	}
	go u.run(ctx)
	return nil
}

// Done is closed once the publisher goroutine has exited.
func (u *Uplink) Done() <-chan struct{} { return u.done }

// Stats returns publisher counters.
func (u *Uplink) Stats() Stats {
	return Stats{
		Published: u.published.Load(),
		Failed:    u.failed.Load(),
		Dropped:   u.dropped.Load(),
		Received:  u.received.Load(),
	}
}

func (u *Uplink) run(ctx context.Context) {
	defer close(u.done)
	for {
		select {
		case <-ctx.Done():
			if err := u.broker.Unsubscribe(u.opts.Topics.AllSets()); err != nil {
				u.logger.Debug("unsubscribe on shutdown failed", "error", err)
			}
			return
		case batch := <-u.queue:
			for _, r := range batch {
				u.publish(r)
			}
		}
	}
}

// enqueue runs on the runtime goroutine and never blocks.
func (u *Uplink) enqueue(changed []binding.Reading) {
	var batch []binding.Reading
	for _, r := range changed {
		if Publishable(r) {
			batch = append(batch, r)
		}
	}
	if len(batch) == 0 {
		return
	}
	select {
	case u.queue <- batch:
	default:
		u.dropped.Add(uint64(len(batch)))
		u.logger.Warn("publish queue full, readings dropped", "count", len(batch))
	}
}

func (u *Uplink) publish(r binding.Reading) {
	payload, err := EncodeState(r, time.Now())
	if err != nil {
		u.failed.Add(1)
		u.logger.Error("encoding endpoint state", "address", r.Address, "error", err)
		return
	}
	retained := u.opts.Retain && r.Kind == "persistent"
	if err := u.broker.Publish(u.opts.Topics.State(r.Address), payload, u.opts.QoS, retained); err != nil {
		u.failed.Add(1)
		u.logger.Warn("publishing endpoint state", "address", r.Address, "error", err)
		return
	}
	u.published.Add(1)
}

// handleSet runs on the broker's goroutine; it only queues the write.
func (u *Uplink) handleSet(topic string, payload []byte) error {
	addr, ok := u.opts.Topics.SetAddress(topic)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}
	full, ok := u.byTopic[addr]
	if !ok {
		return fmt.Errorf("%w: %s", address.ErrNotFound, addr)
	}
	u.received.Add(1)
	return u.exchange.Post(binding.Write{
		Address: full,
		Value:   strings.TrimSpace(string(payload)),
		Source:  bindingName,
	})
}

// Publishable reports whether a changed reading is worth sending. Events
// are sent when they fire, not when they are cleared.
func Publishable(r binding.Reading) bool {
	switch r.Kind {
	case "bang", "occasional":
		return r.Fresh
	default:
		return true
	}
}

// EncodeState renders the state document for r.
func EncodeState(r binding.Reading, now time.Time) ([]byte, error) {
	return json.Marshal(StatePayload{
		Value:     r.Value,
		Kind:      r.Kind,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	})
}
