// Package preset saves and restores the instrument's parameters.
//
// A preset is the textual value of every settable persistent input,
// keyed by address. Capturing and applying read and write the tree, so
// both must run on the runtime goroutine (or before the runtime starts).
package preset

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/binding"
	"github.com/nerrad567/instrument-core/internal/component"
)

// Preset is a named set of parameter values.
type Preset struct {
	Name        string            `json:"name"`
	Instrument  string            `json:"instrument"`
	Description string            `json:"description,omitempty"`
	Values      map[string]string `json:"values"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Summary describes a stored preset without its values.
type Summary struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Values      int       `json:"values"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Addresses returns the preset's addresses in sorted order.
func (p *Preset) Addresses() []string {
	out := make([]string, 0, len(p.Values))
	for a := range p.Values {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Repository stores presets.
type Repository interface {
	Save(ctx context.Context, p *Preset) error
	Get(ctx context.Context, name string) (*Preset, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, name string) error
}

// ValidName reports whether name can be used as a preset name.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsFunc(name, unicode.IsSpace)
}

// Parameter reports whether an endpoint belongs in a preset: a persistent
// input that accepts text.
func Parameter(e *component.Endpoint) bool {
	return e.Group == component.GroupInputs &&
		e.Caps.Has(component.CapPersistent) &&
		e.Caps.Has(component.CapSettable)
}

// Capture records every parameter in table.
func Capture(table *address.Table, name string) *Preset {
	p := &Preset{Name: name, Values: make(map[string]string)}
	for _, en := range table.Entries() {
		if Parameter(en.Endpoint) {
			p.Values[en.Address] = fmt.Sprint(en.Endpoint.Value())
		}
	}
	return p
}

// Result reports what Apply did.
type Result struct {
	Applied int
	// Skipped lists addresses the tree no longer has or that are no longer parameters.
	Skipped []string
	// Failed maps addresses to the error their value produced.
	Failed map[string]error
}

// Apply writes p's values into the tree behind table. Unknown addresses are
// skipped and bad values reported; neither stops the remaining values.
func Apply(table *address.Table, p *Preset) Result {
	var res Result
	for _, addr := range p.Addresses() {
		e, ok := table.Lookup(addr)
		if !ok || !Parameter(e) {
			res.Skipped = append(res.Skipped, addr)
			continue
		}
		if err := binding.Set(e, p.Values[addr]); err != nil {
			if res.Failed == nil {
				res.Failed = make(map[string]error)
			}
			res.Failed[addr] = err
			continue
		}
		res.Applied++
	}
	return res
}

// Load fetches the named preset from repo and applies it.
func Load(ctx context.Context, repo Repository, table *address.Table, name string) (Result, error) {
	p, err := repo.Get(ctx, name)
	if err != nil {
		return Result{}, err
	}
	return Apply(table, p), nil
}
