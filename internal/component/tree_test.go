package component

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nerrad567/instrument-core/internal/endpoint"
)

type sensor struct {
	Inputs struct {
		Threshold endpoint.Number[float32]
		Enabled   endpoint.Value[bool] `dmi:"on"`
	}
	Outputs struct {
		Level endpoint.Value[float32]
		Hit   endpoint.Bang
		Note  endpoint.Text
	}
	State struct {
		Count int
	}
	inits int
}

func (p *sensor) Init() error { p.inits++; return nil }
func (p *sensor) Main()       {}

type leaf struct {
	Outputs struct {
		Pressed endpoint.Flag
	}
}

type wrapper struct {
	Parts struct {
		Inner leaf
	}
	Outputs struct {
		Busy endpoint.Flag
	}
}

func (w *wrapper) ExternalSources() {}

type rig struct {
	Wifi   sensor
	Button wrapper
	Spare  struct {
		Nothing int
	}
	Label string
}

func newRig() *rig {
	r := &rig{}
	r.Wifi.Inputs.Threshold = endpoint.NewNumber[float32]("threshold", "trigger level", 0, 1, 0.5)
	r.Button.Outputs.Busy = endpoint.NewFlag("busy", "")
	return r
}

func TestBuild_WalkOrder(t *testing.T) {
	tree, err := Build(newRig())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var got []string
	tree.Walk(func(n *Node) {
		got = append(got, n.Kind.String()+":"+n.Name)
	})
	want := []string{"assembly:rig", "component:Wifi", "component:Button", "component:Inner"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}

	inner := tree.Node(3)
	if inner.Parent != 2 {
		t.Errorf("Inner.Parent = %d, want 2", inner.Parent)
	}
	if diff := cmp.Diff([]string{"Button", "Parts", "Inner"}, inner.Path); diff != "" {
		t.Errorf("Inner.Path mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Button", "Inner"}, inner.Names); diff != "" {
		t.Errorf("Inner.Names mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Endpoints(t *testing.T) {
	tree, err := Build(newRig())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	type row struct {
		Path  string
		Group string
		Kind  string
	}
	var got []row
	for i := range tree.Endpoints() {
		e := tree.Endpoint(i)
		path := ""
		for j, n := range e.Names {
			if j > 0 {
				path += "/"
			}
			path += n
		}
		got = append(got, row{path, e.Group.String(), e.Kind()})
	}
	want := []row{
		{"Wifi/threshold", "input", "persistent"},
		{"Wifi/on", "input", "persistent"},
		{"Wifi/Level", "output", "persistent"},
		{"Wifi/Hit", "output", "bang"},
		{"Wifi/Note", "output", "occasional"},
		{"Button/busy", "output", "flag"},
		{"Button/Inner/Pressed", "output", "flag"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("endpoints mismatch (-want +got):\n%s", diff)
	}

	e, ok := tree.Find("Wifi", "threshold")
	if !ok {
		t.Fatal("Find(Wifi, threshold) not found")
	}
	if e.Description != "trigger level" {
		t.Errorf("Description = %q, want %q", e.Description, "trigger level")
	}
	if !e.Caps.Has(CapRanged | CapSettable) {
		t.Errorf("Caps = %v, want ranged and settable", e.Caps)
	}
}

func TestBuild_BindsLifecycle(t *testing.T) {
	r := newRig()
	tree, err := Build(r)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wifi := tree.Node(1)
	if wifi.Lifecycle.Init == nil || wifi.Lifecycle.Main == nil {
		t.Fatal("Wifi lifecycle not bound")
	}
	if wifi.Lifecycle.ExternalSources != nil {
		t.Error("Wifi.ExternalSources bound but not defined")
	}
	if err := wifi.Lifecycle.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if r.Wifi.inits != 1 {
		t.Errorf("inits = %d, want 1 (bound to the tree value)", r.Wifi.inits)
	}
	if !tree.Root().Lifecycle.Empty() {
		t.Error("root assembly should have no lifecycle")
	}
}

func TestBuild_DoesNotMutate(t *testing.T) {
	r := newRig()
	r.Wifi.Outputs.Hit.Trigger()
	before := *r

	if _, err := Build(r); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !r.Wifi.Outputs.Hit.Fresh() {
		t.Error("Build cleared a bang")
	}
	if r.Wifi.inits != before.Wifi.inits {
		t.Error("Build ran Init")
	}
}

type aliased struct {
	Part *leaf
}

type stray struct {
	Outputs struct {
		Ok endpoint.Flag
	}
	Loose endpoint.Flag
}

type notEndpoint struct {
	Inputs struct {
		Count int
	}
}

type dupe struct {
	Outputs struct {
		A endpoint.Flag `dmi:"same"`
		B endpoint.Flag `dmi:"same"`
	}
}

type numbered struct {
	Parts struct {
		Count int
	}
}

type aliasedArray struct {
	Parts struct {
		Pads [2]*leaf
	}
}

type dupeParts struct {
	Left  leaf `dmi:"side"`
	Right leaf `dmi:"side"`
}

// skewed declares an init value outside its own range.
type skewed struct{ v float64 }

func (s *skewed) Bounds() (min, max, init float64) { return 0, 1, 2 }
func (s *skewed) Value() any                       { return s.v }

type badRange struct {
	Inputs struct {
		Gain skewed
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		root any
		want error
	}{
		{"nil", nil, ErrInvalidRoot},
		{"not a pointer", leaf{}, ErrInvalidRoot},
		{"nil pointer", (*leaf)(nil), ErrInvalidRoot},
		{"pointer to non-struct", new(int), ErrInvalidRoot},
		{"pointer node", &aliased{Part: &leaf{}}, ErrAliasedNode},
		{"stray endpoint", &stray{}, ErrStrayEndpoint},
		{"non-endpoint input", &notEndpoint{}, ErrNotEndpoint},
		{"duplicate endpoint", &dupe{}, ErrDuplicatePath},
		{"duplicate part", &dupeParts{}, ErrDuplicatePath},
		{"init outside range", &badRange{}, ErrInvalidRange},
		{"scalar part", &numbered{}, ErrInvalidPart},
		{"array of pointers", &aliasedArray{}, ErrAliasedNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.root)
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

type drumPad struct {
	Inputs struct {
		Hit endpoint.Bang
	}
	inits int
}

func (p *drumPad) Init() error { p.inits++; return nil }

type drumKit struct {
	Parts struct {
		Pads [3]drumPad
	}
	Outputs struct {
		Master endpoint.Value[float32]
	}
}

func TestBuild_ArrayOfParts(t *testing.T) {
	kit := &drumKit{}
	tree, err := Build(kit)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var nodes []string
	tree.Walk(func(n *Node) {
		nodes = append(nodes, n.Kind.String()+":"+n.Name)
	})
	wantNodes := []string{
		"component:drum Kit",
		"assembly:Pads",
		"component:0",
		"component:1",
		"component:2",
	}
	if diff := cmp.Diff(wantNodes, nodes); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}

	var paths []string
	for _, e := range tree.Endpoints() {
		paths = append(paths, strings.Join(e.Names, "/"))
	}
	want := []string{"Master", "Pads/0/Hit", "Pads/1/Hit", "Pads/2/Hit"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("endpoints mismatch (-want +got):\n%s", diff)
	}

	// Every element is a live part of the tree.
	for i := range tree.Nodes() {
		if n := tree.Node(i); n.Lifecycle.Init != nil {
			if err := n.Lifecycle.Init(); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
		}
	}
	for i, p := range kit.Parts.Pads {
		if p.inits != 1 {
			t.Errorf("pad %d inits = %d, want 1", i, p.inits)
		}
	}
	e, ok := tree.Find("Pads", "1", "Hit")
	if !ok {
		t.Fatal("Find(Pads, 1, Hit) not found")
	}
	e.Ref().(*endpoint.Bang).Trigger()
	if !kit.Parts.Pads[1].Inputs.Hit.Fresh() {
		t.Error("endpoint does not refer to the array element")
	}
}

func TestBuild_EmptyAssemblyPruned(t *testing.T) {
	type empty struct {
		Misc struct{ N int }
	}
	tree, err := Build(&empty{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (root only)", tree.Len())
	}
	if len(tree.Endpoints()) != 0 {
		t.Errorf("Endpoints() = %d, want 0", len(tree.Endpoints()))
	}
}

func TestCheckRanges(t *testing.T) {
	r := newRig()
	tree, err := Build(r)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if v := tree.CheckRanges(); len(v) != 0 {
		t.Fatalf("CheckRanges() = %v, want none", v)
	}

	r.Wifi.Inputs.Threshold.Set(1.5)
	v := tree.CheckRanges()
	if len(v) != 1 {
		t.Fatalf("CheckRanges() = %d violations, want 1", len(v))
	}
	if got := v[0].String(); got != "Wifi/threshold: 1.5 not in [0, 1]" {
		t.Errorf("Violation.String() = %q", got)
	}
}
