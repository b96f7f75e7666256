package address

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nerrad567/instrument-core/internal/component"
	"github.com/nerrad567/instrument-core/internal/naming"
)

// Style controls how addresses are formatted.
type Style struct {
	// Delimiter separates path segments: '/' or '.'.
	Delimiter rune
	// Naming converts each segment.
	Naming naming.Style
	// Prefix is prepended verbatim, e.g. "/dmi".
	Prefix string
}

// Slash is kebab-case segments joined by '/', the default for CLI and MQTT.
var Slash = Style{Delimiter: '/', Naming: naming.Kebab}

// Dotted is snake_case segments joined by '.'.
var Dotted = Style{Delimiter: '.', Naming: naming.Snake}

// Validate checks the style.
func (s Style) Validate() error {
	if s.Delimiter != '/' && s.Delimiter != '.' {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, s.Delimiter)
	}
	return nil
}

// Format joins converted segments into an address.
func Format(names []string, s Style) string {
	var b strings.Builder
	b.WriteString(s.Prefix)
	for i, n := range names {
		if i > 0 || s.Prefix != "" {
			b.WriteRune(s.Delimiter)
		}
		b.WriteString(naming.Convert(n, s.Naming))
	}
	return b.String()
}

// Entry pairs an endpoint with its address.
type Entry struct {
	Address  string
	Endpoint *component.Endpoint
}

// Table maps every endpoint of a tree to a unique address.
type Table struct {
	style   Style
	tree    *component.Tree
	entries []Entry        // in endpoint index order
	byAddr  map[string]int // address -> endpoint index
	nodes   []string       // node index -> node address
}

// Build computes the address table for tree.
func Build(tree *component.Tree, s Style) (*Table, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	eps := tree.Endpoints()
	t := &Table{
		style:   s,
		tree:    tree,
		entries: make([]Entry, len(eps)),
		byAddr:  make(map[string]int, len(eps)),
		nodes:   make([]string, tree.Len()),
	}

	for i := range eps {
		e := tree.Endpoint(i)
		addr := Format(e.Names, s)
		if prev, dup := t.byAddr[addr]; dup {
			return nil, fmt.Errorf("%w: %q for %s and %s", ErrCollision, addr,
				strings.Join(t.entries[prev].Endpoint.Names, "/"), strings.Join(e.Names, "/"))
		}
		t.byAddr[addr] = i
		t.entries[i] = Entry{Address: addr, Endpoint: e}
	}
	tree.Walk(func(n *component.Node) {
		t.nodes[n.Index] = Format(n.Names, s)
	})

	return t, nil
}

// Style returns the style the table was built with.
func (t *Table) Style() Style { return t.style }

// Tree returns the tree the table was built from.
func (t *Table) Tree() *component.Tree { return t.tree }

// Len returns the number of addresses.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns every entry in walk order. The slice must not be modified.
func (t *Table) Entries() []Entry { return t.entries }

// Address returns the address of endpoint i.
func (t *Table) Address(i int) string { return t.entries[i].Address }

// NodeAddress returns the address prefix of node i ("" or the prefix for the root).
func (t *Table) NodeAddress(i int) string { return t.nodes[i] }

// Lookup returns the endpoint with the given address.
func (t *Table) Lookup(addr string) (*component.Endpoint, bool) {
	i, ok := t.byAddr[addr]
	if !ok {
		return nil, false
	}
	return t.entries[i].Endpoint, true
}

// Resolve is Lookup returning ErrNotFound.
func (t *Table) Resolve(addr string) (*component.Endpoint, error) {
	e, ok := t.Lookup(addr)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, addr)
	}
	return e, nil
}

// Match returns the entries whose address starts with prefix, in walk order.
// A prefix matches whole segments only: "button" matches "button/pressed"
// but not "buttons/pressed".
func (t *Table) Match(prefix string) []Entry {
	if prefix == "" {
		return t.entries
	}
	prefix = strings.TrimSuffix(prefix, string(t.style.Delimiter))
	var out []Entry
	for _, e := range t.entries {
		if e.Address == prefix || strings.HasPrefix(e.Address, prefix+string(t.style.Delimiter)) {
			out = append(out, e)
		}
	}
	return out
}

// Sorted returns all addresses in lexical order.
func (t *Table) Sorted() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Address)
	}
	sort.Strings(out)
	return out
}
