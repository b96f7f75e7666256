// Package telemetry records endpoint activity to a time-series store.
package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/binding"
	"github.com/nerrad567/instrument-core/internal/component"
	"github.com/nerrad567/instrument-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/instrument-core/internal/runtime"
)

// DefaultSampleEvery is used when Options.SampleEvery is not positive.
const DefaultSampleEvery = 100

// Writer accepts points without blocking for long. *influxdb.Client implements it.
type Writer interface {
	WritePoint(p *write.Point)
}

// StatsSource provides tick statistics. *runtime.Runtime implements it.
type StatsSource interface {
	Stats() runtime.Stats
}

// Options configures a Recorder.
type Options struct {
	Instrument string
	Session    string
	// SampleEvery is the number of ticks between numeric samples.
	SampleEvery int
}

// Recorder is a runtime binding. Every tick it records bangs and occasional
// values that carried a new event; every SampleEvery ticks it samples all numeric
// endpoints and, when a StatsSource is set, the runtime statistics.
type Recorder struct {
	table *address.Table
	w     Writer
	opts  Options
	stats StatsSource
	now   func() time.Time

	tick uint64
	seqs []uint64 // event counts seen in the previous tick, by endpoint index
}

// New creates a recorder over table writing to w.
func New(table *address.Table, w Writer, opts Options) *Recorder {
	if opts.SampleEvery <= 0 {
		opts.SampleEvery = DefaultSampleEvery
	}
	return &Recorder{
		table: table,
		w:     w,
		opts:  opts,
		now:   time.Now,
		seqs:  make([]uint64, table.Len()),
	}
}

// SetStats sets the source of runtime statistics.
func (r *Recorder) SetStats(s StatsSource) {
	r.stats = s
}

// Name identifies the recorder in runtime status.
func (r *Recorder) Name() string { return "telemetry" }

// Attach checks that the table describes tree.
func (r *Recorder) Attach(tree *component.Tree) error {
	if r.table.Tree() != tree {
		return binding.ErrTreeMismatch
	}
	return nil
}

// ExternalDestinations records this tick's events and, periodically, samples.
func (r *Recorder) ExternalDestinations() {
	now := r.now()
	r.tick++
	sample := r.tick%uint64(r.opts.SampleEvery) == 0

	for i, en := range r.table.Entries() {
		e := en.Endpoint
		switch e.Kind() {
		case "bang", "occasional":
			seq := component.Seq(e.Ref())
			if seq != r.seqs[i] {
				r.w.WritePoint(influxdb.EndpointEvent(r.opts.Instrument, r.opts.Session, en.Address, e.Kind(), now))
			}
			r.seqs[i] = seq
			if e.Kind() == "bang" {
				continue
			}
		}
		if !sample {
			continue
		}
		if v, ok := component.Float(e.Value()); ok {
			r.w.WritePoint(influxdb.EndpointSample(r.opts.Instrument, r.opts.Session, en.Address, v, now))
		}
	}

	if sample && r.stats != nil {
		st := r.stats.Stats()
		r.w.WritePoint(influxdb.RuntimeSample(r.opts.Instrument, r.opts.Session,
			st.Ticks, st.Overruns, st.LastTick, st.MaxTick, now))
	}
}
