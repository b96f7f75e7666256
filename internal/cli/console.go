package cli

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/nerrad567/instrument-core/internal/component"
)

// maxLinesPerTick bounds how many queued lines one tick dispatches.
const maxLinesPerTick = 8

// Logger defines the logging interface for the console.
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

// Console is a runtime binding feeding lines from a reader to a Dispatcher.
// Lines are read on a separate goroutine and dispatched on the runtime
// goroutine during ExternalDestinations, after every component has produced
// its outputs for the tick.
type Console struct {
	d      *Dispatcher
	in     io.Reader
	lines  chan string
	logger Logger

	startOnce sync.Once
	done      chan struct{}

	// OnResult, if set, is called after each dispatched line.
	OnResult func(line string, status int)
}

// NewConsole creates a console reading commands from in.
func NewConsole(d *Dispatcher, in io.Reader) *Console {
	return &Console{
		d:      d,
		in:     in,
		lines:  make(chan string, maxLinesPerTick*4),
		logger: noopLogger{},
		done:   make(chan struct{}),
	}
}

// SetLogger sets the logger for the console.
func (c *Console) SetLogger(logger Logger) {
	c.logger = logger
}

// Name identifies the console in runtime status.
func (c *Console) Name() string { return "console" }

// Attach satisfies runtime.Binding; the console needs nothing from the tree.
func (c *Console) Attach(*component.Tree) error { return nil }

// Start begins reading lines until the reader is exhausted or ctx is cancelled.
// A goroutine blocked in Read only observes cancellation once Read returns,
// so callers should close the reader on shutdown.
func (c *Console) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		go c.read(ctx)
	})
}

// Done is closed when the reader goroutine exits.
func (c *Console) Done() <-chan struct{} { return c.done }

func (c *Console) read(ctx context.Context) {
	defer close(c.done)
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		c.logger.Warn("console read failed", "error", err)
	}
}

// ExternalDestinations dispatches queued lines.
func (c *Console) ExternalDestinations() {
	for i := 0; i < maxLinesPerTick; i++ {
		select {
		case line := <-c.lines:
			st := c.d.Dispatch(line)
			if st != StatusOK {
				c.logger.Debug("console command failed", "line", line, "status", st)
			}
			if c.OnResult != nil {
				c.OnResult(line, st)
			}
		default:
			return
		}
	}
}
