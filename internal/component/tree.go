package component

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/nerrad567/instrument-core/internal/naming"
)

// NodeKind distinguishes components from assemblies.
type NodeKind int

const (
	// KindComponent is a struct with groups or lifecycle methods.
	KindComponent NodeKind = iota
	// KindAssembly is a plain struct or array grouping components.
	KindAssembly
)

// String returns "component" or "assembly".
func (k NodeKind) String() string {
	if k == KindAssembly {
		return "assembly"
	}
	return "component"
}

// Group identifies the group an endpoint is declared in.
type Group int

const (
	// GroupInputs holds endpoints written by the outside world.
	GroupInputs Group = iota
	// GroupOutputs holds endpoints written by the component.
	GroupOutputs
)

// String returns "input" or "output".
func (g Group) String() string {
	if g == GroupOutputs {
		return "output"
	}
	return "input"
}

// Node is one component or assembly in the tree.
type Node struct {
	Index  int
	Parent int // -1 for the root

	// Path holds the Go field names leading to the node.
	Path []string
	// Names holds the display names leading to the node. Empty for the root.
	Names []string
	// Name is the node's own display name (the type name for the root).
	Name string

	Type      reflect.Type
	Kind      NodeKind
	Children  []int
	Inputs    []int
	Outputs   []int
	Lifecycle Lifecycle

	ptr any
}

// Component returns a pointer to the node's struct value.
func (n *Node) Component() any { return n.ptr }

// Endpoint is one input or output of a component.
type Endpoint struct {
	Index       int
	Node        int
	Group       Group
	Field       string
	Name        string
	Names       []string // node names followed by Name
	Description string
	Caps        Capability

	ref any
}

// Ref returns a pointer to the endpoint value.
func (e *Endpoint) Ref() any { return e.ref }

// Value returns the reportable value of the endpoint (see Read).
func (e *Endpoint) Value() any { return Read(e.ref) }

// Kind returns the endpoint kind name.
func (e *Endpoint) Kind() string { return e.Caps.Kind() }

// Tree is the introspected structure of a component tree.
type Tree struct {
	nodes     []Node
	endpoints []Endpoint
}

// Root returns the root node.
func (t *Tree) Root() *Node { return &t.nodes[0] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node at index i.
func (t *Tree) Node(i int) *Node { return &t.nodes[i] }

// Nodes returns all nodes in walk order. The slice must not be modified.
func (t *Tree) Nodes() []Node { return t.nodes }

// Endpoint returns the endpoint at index i.
func (t *Tree) Endpoint(i int) *Endpoint { return &t.endpoints[i] }

// Endpoints returns all endpoints in walk order. The slice must not be modified.
func (t *Tree) Endpoints() []Endpoint { return t.endpoints }

// Walk calls fn for every node in declaration order, parents before parts.
func (t *Tree) Walk(fn func(n *Node)) {
	for i := range t.nodes {
		fn(&t.nodes[i])
	}
}

// Find returns the endpoint whose display names match names exactly.
func (t *Tree) Find(names ...string) (*Endpoint, bool) {
	for i := range t.endpoints {
		if equalNames(t.endpoints[i].Names, names) {
			return &t.endpoints[i], true
		}
	}
	return nil, false
}

// FindNode returns the node whose display names match names exactly.
func (t *Tree) FindNode(names ...string) (*Node, bool) {
	for i := range t.nodes {
		if equalNames(t.nodes[i].Names, names) {
			return &t.nodes[i], true
		}
	}
	return nil, false
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Build introspects the tree rooted at root, which must be a non-nil pointer
// to a struct. The returned Tree holds references into root; root must
// outlive it and must not be copied afterwards.
func Build(root any) (*Tree, error) {
	rv := reflect.ValueOf(root)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, ErrInvalidRoot
	}

	b := &builder{tree: &Tree{}}
	v := rv.Elem()
	name := naming.Words(v.Type().Name())
	if _, err := b.node(v, -1, nil, nil, name); err != nil {
		return nil, err
	}
	if len(b.tree.nodes) == 0 {
		// The root is an empty assembly; keep it so the tree is never empty.
		b.tree.nodes = append(b.tree.nodes, Node{
			Parent: -1, Name: name, Type: v.Type(), Kind: KindAssembly, ptr: root,
		})
	}
	return b.tree, nil
}

type builder struct {
	tree *Tree
}

// node walks one struct value. It returns false when v turned out to be an
// assembly without components, in which case nothing was appended.
func (b *builder) node(v reflect.Value, parent int, path, names []string, name string) (bool, error) {
	ptr := v.Addr().Interface()
	if Classify(ptr).IsEndpoint() {
		return false, fmt.Errorf("%w: %s", ErrStrayEndpoint, strings.Join(path, "."))
	}

	lc := BindLifecycle(ptr)
	kind := KindAssembly
	if !lc.Empty() || hasGroups(v) {
		kind = KindComponent
	}

	mark := len(b.tree.nodes)
	markEndpoints := len(b.tree.endpoints)
	b.tree.nodes = append(b.tree.nodes, Node{
		Index:     mark,
		Parent:    parent,
		Path:      path,
		Names:     names,
		Name:      name,
		Type:      v.Type(),
		Kind:      kind,
		Lifecycle: lc,
		ptr:       ptr,
	})

	seen := make(map[string]string)
	claim := func(n, field string) error {
		if prev, dup := seen[n]; dup {
			return fmt.Errorf("%w: %q used by %s and %s under %s",
				ErrDuplicatePath, n, prev, field, describePath(path))
		}
		seen[n] = field
		return nil
	}

	var children []Field
	if kind == KindComponent {
		if err := b.groups(v, mark, path, names, claim); err != nil {
			return false, err
		}
		if _, pv, ok := groupField(v, groupParts); ok {
			if pv.Kind() != reflect.Struct {
				return false, fmt.Errorf("%w: %s.%s", ErrInvalidGroup, describePath(path), groupParts)
			}
			children = Fields(pv)
		}
		if err := checkStray(v, path); err != nil {
			return false, err
		}
	} else {
		children = Fields(v)
	}

	var kids []int
	for _, f := range children {
		childPath := appendPath(path, f.GoName)
		childName := f.Name()
		childNames := appendPath(names, childName)
		idx := len(b.tree.nodes)

		var kept bool
		var err error
		switch {
		case f.Value.Kind() == reflect.Pointer && f.Value.Type().Elem().Kind() == reflect.Struct:
			return false, fmt.Errorf("%w: %s", ErrAliasedNode, describePath(childPath))
		case f.Value.Kind() == reflect.Array:
			elem := f.Value.Type().Elem()
			if elem.Kind() == reflect.Pointer && elem.Elem().Kind() == reflect.Struct {
				return false, fmt.Errorf("%w: %s", ErrAliasedNode, describePath(childPath))
			}
			if elem.Kind() != reflect.Struct {
				if kind == KindComponent {
					return false, fmt.Errorf("%w: %s (%s)", ErrInvalidPart, describePath(childPath), f.Value.Type())
				}
				continue
			}
			kept, err = b.array(f.Value, mark, childPath, childNames, childName)
		case f.Value.Kind() == reflect.Struct:
			if Classify(f.Ptr()).IsEndpoint() {
				return false, fmt.Errorf("%w: %s", ErrStrayEndpoint, describePath(childPath))
			}
			kept, err = b.node(f.Value, mark, childPath, childNames, childName)
		case kind == KindComponent:
			return false, fmt.Errorf("%w: %s (%s)", ErrInvalidPart, describePath(childPath), f.Value.Type())
		default:
			continue
		}
		if err != nil {
			return false, err
		}
		if !kept {
			continue
		}
		if err := claim(childName, f.GoName); err != nil {
			return false, err
		}
		kids = append(kids, idx)
	}

	if kind == KindAssembly && len(kids) == 0 {
		b.tree.nodes = b.tree.nodes[:mark]
		b.tree.endpoints = b.tree.endpoints[:markEndpoints]
		return false, nil
	}
	b.tree.nodes[mark].Children = kids
	return true, nil
}

// array walks a fixed-size array of components as an assembly whose parts
// are named by index: pads/0/hit, pads/1/hit, ...
func (b *builder) array(v reflect.Value, parent int, path, names []string, name string) (bool, error) {
	mark := len(b.tree.nodes)
	markEndpoints := len(b.tree.endpoints)
	b.tree.nodes = append(b.tree.nodes, Node{
		Index:  mark,
		Parent: parent,
		Path:   path,
		Names:  names,
		Name:   name,
		Type:   v.Type(),
		Kind:   KindAssembly,
		ptr:    v.Addr().Interface(),
	})

	var kids []int
	for i := 0; i < v.Len(); i++ {
		seg := strconv.Itoa(i)
		elemPath := appendPath(path, seg)
		elem := v.Index(i)
		if Classify(elem.Addr().Interface()).IsEndpoint() {
			return false, fmt.Errorf("%w: %s", ErrStrayEndpoint, describePath(elemPath))
		}
		idx := len(b.tree.nodes)
		kept, err := b.node(elem, mark, elemPath, appendPath(names, seg), seg)
		if err != nil {
			return false, err
		}
		if kept {
			kids = append(kids, idx)
		}
	}

	if len(kids) == 0 {
		b.tree.nodes = b.tree.nodes[:mark]
		b.tree.endpoints = b.tree.endpoints[:markEndpoints]
		return false, nil
	}
	b.tree.nodes[mark].Children = kids
	return true, nil
}

// groups registers the Inputs and Outputs endpoints of a component.
func (b *builder) groups(v reflect.Value, idx int, path, names []string, claim func(n, field string) error) error {
	for _, g := range []struct {
		field string
		group Group
	}{{groupInputs, GroupInputs}, {groupOutputs, GroupOutputs}} {
		_, gv, ok := groupField(v, g.field)
		if !ok {
			continue
		}
		if gv.Kind() != reflect.Struct {
			return fmt.Errorf("%w: %s.%s", ErrInvalidGroup, describePath(path), g.field)
		}
		for _, f := range Fields(gv) {
			fieldPath := appendPath(appendPath(path, g.field), f.GoName)
			if f.Value.Kind() == reflect.Pointer {
				return fmt.Errorf("%w: %s", ErrAliasedNode, describePath(fieldPath))
			}
			ref := f.Ptr()
			caps := Classify(ref)
			if !caps.IsEndpoint() {
				return fmt.Errorf("%w: %s (%s)", ErrNotEndpoint, describePath(fieldPath), f.Value.Type())
			}
			if caps.Has(CapRanged) {
				lo, hi, init := ref.(Ranged).Bounds()
				if !(lo <= init && init <= hi) {
					return fmt.Errorf("%w: %s init %g not in [%g, %g]",
						ErrInvalidRange, describePath(fieldPath), init, lo, hi)
				}
			}

			name := endpointName(ref, f)
			if err := claim(name, g.field+"."+f.GoName); err != nil {
				return err
			}
			var desc string
			if d, ok := ref.(Described); ok {
				desc = d.Description()
			}

			ei := len(b.tree.endpoints)
			b.tree.endpoints = append(b.tree.endpoints, Endpoint{
				Index:       ei,
				Node:        idx,
				Group:       g.group,
				Field:       f.GoName,
				Name:        name,
				Names:       appendPath(names, name),
				Description: desc,
				Caps:        caps,
				ref:         ref,
			})
			n := &b.tree.nodes[idx]
			if g.group == GroupInputs {
				n.Inputs = append(n.Inputs, ei)
			} else {
				n.Outputs = append(n.Outputs, ei)
			}
		}
	}
	return nil
}

// checkStray rejects endpoints declared directly on a component.
func checkStray(v reflect.Value, path []string) error {
	for _, f := range Fields(v) {
		switch f.GoName {
		case groupInputs, groupOutputs, groupParts, groupState:
			continue
		}
		if f.Value.Kind() != reflect.Struct {
			continue
		}
		if Classify(f.Ptr()).IsEndpoint() {
			return fmt.Errorf("%w: %s", ErrStrayEndpoint, describePath(appendPath(path, f.GoName)))
		}
	}
	return nil
}

func hasGroups(v reflect.Value) bool {
	for _, g := range []string{groupInputs, groupOutputs, groupParts, groupState} {
		if _, _, ok := groupField(v, g); ok {
			return true
		}
	}
	return false
}

// endpointName prefers the declared name, then the tag, then the field name.
func endpointName(ref any, f Field) string {
	if n, ok := ref.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return f.Name()
}

// appendPath returns a new slice so sibling paths never share backing arrays.
func appendPath(path []string, seg string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = seg
	return out
}

func describePath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, ".")
}
