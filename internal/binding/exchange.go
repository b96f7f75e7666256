package binding

import (
	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/component"
)

// Logger defines the logging interface for bindings.
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

// Exchange is the synchronisation point between one transport and the tree.
// It implements runtime.Binding.
type Exchange struct {
	name     string
	table    *address.Table
	mailbox  *Mailbox
	snapshot *Snapshot
	logger   Logger

	// OnWrite, if set, is called after each applied or failed write.
	OnWrite func(w Write, err error)
	// OnChange, if set, receives the readings that changed in a tick.
	// It runs on the runtime goroutine and must not block.
	OnChange func(changed []Reading)
}

// NewExchange creates an exchange over table.
func NewExchange(name string, table *address.Table) *Exchange {
	return &Exchange{
		name:     name,
		table:    table,
		mailbox:  NewMailbox(0),
		snapshot: NewSnapshot(),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the exchange.
func (x *Exchange) SetLogger(logger Logger) {
	x.logger = logger
}

// Name identifies the exchange in runtime status.
func (x *Exchange) Name() string { return x.name }

// Table returns the address table.
func (x *Exchange) Table() *address.Table { return x.table }

// Snapshot returns the read side.
func (x *Exchange) Snapshot() *Snapshot { return x.snapshot }

// Post queues a write from any goroutine.
func (x *Exchange) Post(w Write) error {
	if w.Source == "" {
		w.Source = x.name
	}
	if err := x.mailbox.Post(w); err != nil {
		x.logger.Warn("write dropped", "binding", x.name, "address", w.Address, "error", err)
		return err
	}
	return nil
}

// Attach checks that the address table describes tree.
func (x *Exchange) Attach(tree *component.Tree) error {
	if x.table.Tree() != tree {
		return ErrTreeMismatch
	}
	return nil
}

// ExternalSources applies pending writes.
func (x *Exchange) ExternalSources() {
	for _, w := range x.mailbox.Drain() {
		err := Apply(x.table, w)
		if err != nil {
			x.logger.Warn("write rejected",
				"binding", x.name, "source", w.Source, "address", w.Address, "error", err)
		} else {
			x.logger.Debug("write applied", "binding", x.name, "source", w.Source, "address", w.Address)
		}
		if x.OnWrite != nil {
			x.OnWrite(w, err)
		}
	}
}

// ExternalDestinations captures the snapshot and reports changes.
func (x *Exchange) ExternalDestinations() {
	changed := x.snapshot.Capture(x.table)
	if len(changed) > 0 && x.OnChange != nil {
		x.OnChange(changed)
	}
}
