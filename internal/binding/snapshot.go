package binding

import (
	"reflect"
	"sync"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/component"
)

// Reading is the captured state of one endpoint.
type Reading struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Group   string `json:"group"`
	Value   any    `json:"value"`
	Fresh   bool   `json:"fresh"`
}

// Snapshot holds the last captured readings of every endpoint. Capture is
// called by the runtime goroutine; the getters are safe for concurrent use.
type Snapshot struct {
	mu       sync.RWMutex
	readings []Reading
	seqs     []uint64 // event counts at the last capture, by entry
	index    map[string]int
	version  uint64
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{index: make(map[string]int)}
}

// Capture reads every endpoint in table and returns the readings that changed
// since the previous capture. The first capture reports everything. A
// fresh flag-like endpoint that carried a new event is reported even when
// its value and freshness look the same as last time.
func (s *Snapshot) Capture(table *address.Table) []Reading {
	entries := table.Entries()
	next := make([]Reading, len(entries))
	seqs := make([]uint64, len(entries))
	var changed []Reading

	s.mu.RLock()
	prev, prevSeqs := s.readings, s.seqs
	s.mu.RUnlock()

	for i, en := range entries {
		e := en.Endpoint
		r := Reading{
			Address: en.Address,
			Kind:    e.Kind(),
			Group:   e.Group.String(),
			Value:   e.Value(),
			Fresh:   freshOf(e.Ref()),
		}
		next[i] = r
		seqs[i] = component.Seq(e.Ref())
		if len(prev) != len(entries) || (r.Fresh && seqs[i] != prevSeqs[i]) || differs(prev[i], r) {
			changed = append(changed, r)
		}
	}

	s.mu.Lock()
	s.readings = next
	s.seqs = seqs
	if len(s.index) != len(next) {
		s.index = make(map[string]int, len(next))
		for i, r := range next {
			s.index[r.Address] = i
		}
	}
	s.version++
	s.mu.Unlock()

	return changed
}

// Get returns the last reading for addr.
func (s *Snapshot) Get(addr string) (Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[addr]
	if !ok {
		return Reading{}, false
	}
	return s.readings[i], true
}

// All returns every reading in walk order.
func (s *Snapshot) All() []Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Reading, len(s.readings))
	copy(out, s.readings)
	return out
}

// Version counts captures; zero means nothing has been captured yet.
func (s *Snapshot) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// freshOf reports freshness of flag-like endpoints; persistent values are never fresh.
func freshOf(ref any) bool {
	if f, ok := ref.(component.ClearableFlag); ok {
		return f.Fresh()
	}
	return false
}

// differs reports whether cur is news relative to prev: a new value, or a
// flag-like endpoint whose freshness changed.
func differs(prev, cur Reading) bool {
	if prev.Fresh != cur.Fresh {
		return true
	}
	return !reflect.DeepEqual(prev.Value, cur.Value)
}
