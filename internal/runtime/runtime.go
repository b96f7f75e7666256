package runtime

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nerrad567/instrument-core/internal/component"
)

// Logger defines the logging interface for the runtime.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Binding participates in every pass after the tree.
//
// Attach is called once by Setup, before any Init. A binding may also define
// any of the component lifecycle methods (Init() error, ExternalSources(),
// Main(), ExternalDestinations()); they are bound the same way as for
// components.
type Binding interface {
	Attach(tree *component.Tree) error
}

// Options configures a Runtime.
type Options struct {
	// FatalInit makes Setup fail when any Init returns an error.
	FatalInit bool

	// Bindings are attached in order and walked after the tree.
	Bindings []Binding
}

// Pass identifies one of the three per-tick passes.
type Pass int

// Passes in execution order.
const (
	PassSources Pass = iota
	PassMain
	PassDestinations
)

// String returns the lifecycle method name of the pass.
func (p Pass) String() string {
	switch p {
	case PassSources:
		return "ExternalSources"
	case PassMain:
		return "Main"
	case PassDestinations:
		return "ExternalDestinations"
	default:
		return fmt.Sprintf("Pass(%d)", int(p))
	}
}

// participant is a tree node or a binding with its bound lifecycle.
type participant struct {
	name string
	lc   component.Lifecycle
}

// Runtime executes the lifecycle of a component tree.
type Runtime struct {
	tree     *component.Tree
	opts     Options
	logger   Logger
	parts    []participant
	bindings int // number of trailing participants that are bindings

	mu      sync.RWMutex
	stats   Stats
	status  []Status
	started bool // Setup was called, whether or not it succeeded
	ready   bool
}

// New creates a runtime for tree.
func New(tree *component.Tree, opts Options) *Runtime {
	r := &Runtime{
		tree:   tree,
		opts:   opts,
		logger: noopLogger{},
	}

	tree.Walk(func(n *component.Node) {
		r.parts = append(r.parts, participant{name: nodeName(tree, n), lc: n.Lifecycle})
	})
	for _, b := range opts.Bindings {
		r.parts = append(r.parts, participant{name: bindingName(b), lc: component.BindLifecycle(b)})
	}
	r.bindings = len(opts.Bindings)

	r.status = make([]Status, len(r.parts))
	for i, p := range r.parts {
		r.status[i] = Status{Name: p.name, Healthy: true, Binding: i >= len(r.parts)-r.bindings}
	}
	return r
}

// SetLogger sets the logger for the runtime.
func (r *Runtime) SetLogger(logger Logger) {
	r.logger = logger
}

// Tree returns the tree driven by the runtime.
func (r *Runtime) Tree() *component.Tree { return r.tree }

// Setup attaches bindings and initialises every component once, parents
// before parts, then bindings. It may only be called once: a failed Setup
// leaves some bindings attached and some components initialised, so the
// runtime is not retried.
func (r *Runtime) Setup() error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadySetup
	}
	r.started = true
	r.mu.Unlock()

	for _, b := range r.opts.Bindings {
		if err := b.Attach(r.tree); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrAttachFailed, bindingName(b), err)
		}
	}

	failed := 0
	for i, p := range r.parts {
		if p.lc.Init == nil {
			continue
		}
		err := r.initOne(i, p)
		if err == nil {
			continue
		}
		failed++
		r.logger.Error("component init failed", "component", p.name, "error", err)
		r.mu.Lock()
		r.status[i].InitErr = err.Error()
		r.status[i].Healthy = false
		r.mu.Unlock()
		if r.opts.FatalInit {
			return fmt.Errorf("%w: %s: %w", ErrInitFailed, p.name, err)
		}
	}

	r.mu.Lock()
	r.ready = true
	r.stats.Started = time.Now()
	r.mu.Unlock()

	r.logger.Info("runtime set up",
		"nodes", r.tree.Len(),
		"endpoints", len(r.tree.Endpoints()),
		"bindings", r.bindings,
		"init_failures", failed,
	)
	return nil
}

// initOne runs one Init, converting a panic into an error.
func (r *Runtime) initOne(i int, p participant) (err error) {
	defer func() {
		if v := recover(); v != nil {
			r.recordPanic(i, "Init", v)
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return p.lc.Init()
}

// Tick performs one sources/main/destinations cycle.
func (r *Runtime) Tick() {
	start := time.Now()

	r.pass(PassSources)
	r.pass(PassMain)
	r.pass(PassDestinations)

	d := time.Since(start)
	r.mu.Lock()
	r.stats.Ticks++
	r.stats.LastTick = d
	if d > r.stats.MaxTick {
		r.stats.MaxTick = d
	}
	r.mu.Unlock()
}

// pass walks every participant for one lifecycle method.
func (r *Runtime) pass(p Pass) {
	for i := range r.parts {
		var fn func()
		switch p {
		case PassSources:
			fn = r.parts[i].lc.ExternalSources
		case PassMain:
			fn = r.parts[i].lc.Main
		case PassDestinations:
			fn = r.parts[i].lc.ExternalDestinations
		}
		if fn != nil {
			r.call(i, p, fn)
		}
	}
}

// call invokes fn and recovers a panic so one component cannot stop the loop.
func (r *Runtime) call(i int, p Pass, fn func()) {
	defer func() {
		if v := recover(); v != nil {
			r.recordPanic(i, p.String(), v)
		}
	}()
	fn()
}

func (r *Runtime) recordPanic(i int, method string, v any) {
	msg := fmt.Sprintf("%s: %v", method, v)
	r.logger.Error("component panicked", "component", r.parts[i].name, "method", method, "panic", v)

	r.mu.Lock()
	r.status[i].Panics++
	r.status[i].LastPanic = msg
	r.status[i].Healthy = false
	r.mu.Unlock()
}

// Run sets the runtime up if needed and ticks every period until ctx is
// cancelled. A tick that takes longer than period counts as an overrun;
// missed ticks are dropped rather than queued.
func (r *Runtime) Run(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		return ErrInvalidPeriod
	}

	r.mu.RLock()
	ready := r.ready
	r.mu.RUnlock()
	if !ready {
		if err := r.Setup(); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	r.logger.Info("runtime started", "period", period.String())
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runtime stopped", "ticks", r.Stats().Ticks)
			return nil
		case <-ticker.C:
			r.Tick()
			r.mu.Lock()
			if r.stats.LastTick > period {
				r.stats.Overruns++
			}
			r.mu.Unlock()
		}
	}
}

// nodeName is the slash-joined display path, or the node name for the root.
func nodeName(tree *component.Tree, n *component.Node) string {
	if n.Index == tree.Root().Index || len(n.Names) == 0 {
		return n.Name
	}
	return strings.Join(n.Names, "/")
}

// bindingName uses Name() when the binding has one.
func bindingName(b Binding) string {
	if n, ok := b.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", b)
}
