package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/nerrad567/instrument-core/internal/component"
	"github.com/nerrad567/instrument-core/internal/endpoint"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// journal records lifecycle calls across the whole tree.
type journal struct {
	calls []string
}

func (j *journal) add(s string) { j.calls = append(j.calls, s) }

type recorder struct {
	Outputs struct {
		Seen endpoint.Bang
	}
	name string
	j    *journal
	err  error
}

func (r *recorder) Init() error           { r.j.add(r.name + ".Init"); return r.err }
func (r *recorder) ExternalSources()      { r.j.add(r.name + ".ExternalSources") }
func (r *recorder) Main()                 { r.j.add(r.name + ".Main"); r.Outputs.Seen.Trigger() }
func (r *recorder) ExternalDestinations() { r.j.add(r.name + ".ExternalDestinations") }

type outer struct {
	Parts struct {
		Inner recorder
	}
	j *journal
}

func (o *outer) Init() error { o.j.add("outer.Init"); return nil }
func (o *outer) Main()       { o.j.add("outer.Main") }

type pair struct {
	A recorder
	B outer
}

func newPair(j *journal) *pair {
	p := &pair{}
	p.A.name, p.A.j = "A", j
	p.B.j = j
	p.B.Parts.Inner.name, p.B.Parts.Inner.j = "inner", j
	return p
}

func buildRuntime(t *testing.T, root any, opts Options) *Runtime {
	t.Helper()
	tree, err := component.Build(root)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return New(tree, opts)
}

type journalBinding struct {
	j        *journal
	attached *component.Tree
}

func (b *journalBinding) Name() string { return "journal" }

func (b *journalBinding) Attach(tree *component.Tree) error {
	b.attached = tree
	b.j.add("journal.Attach")
	return nil
}

func (b *journalBinding) ExternalSources()      { b.j.add("journal.ExternalSources") }
func (b *journalBinding) ExternalDestinations() { b.j.add("journal.ExternalDestinations") }

func TestSetupAndTick_Order(t *testing.T) {
	j := &journal{}
	pb := &journalBinding{j: j}
	rt := buildRuntime(t, newPair(j), Options{Bindings: []Binding{pb}})

	if err := rt.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	rt.Tick()

	want := []string{
		"journal.Attach",
		"A.Init", "outer.Init", "inner.Init",
		"A.ExternalSources", "inner.ExternalSources", "journal.ExternalSources",
		"A.Main", "outer.Main", "inner.Main",
		"A.ExternalDestinations", "inner.ExternalDestinations", "journal.ExternalDestinations",
	}
	if diff := cmp.Diff(want, j.calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
	if pb.attached != rt.Tree() {
		t.Error("binding attached to a different tree")
	}
}

// Component A's ExternalSources must run before component B's Main in the
// same tick, regardless of declaration order.
func TestTick_SourcesBeforeMain(t *testing.T) {
	j := &journal{}
	p := newPair(j)
	rt := buildRuntime(t, p, Options{})
	if err := rt.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	j.calls = nil
	rt.Tick()

	index := func(s string) int {
		for i, c := range j.calls {
			if c == s {
				return i
			}
		}
		t.Fatalf("%s not called", s)
		return -1
	}
	if index("inner.ExternalSources") > index("A.Main") {
		t.Error("inner.ExternalSources ran after A.Main")
	}
	if index("A.ExternalSources") > index("inner.Main") {
		t.Error("A.ExternalSources ran after inner.Main")
	}
}

func TestTick_DoesNotClearFlags(t *testing.T) {
	j := &journal{}
	p := newPair(j)
	rt := buildRuntime(t, p, Options{})
	if err := rt.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	rt.Tick()
	rt.Tick()
	if !p.A.Outputs.Seen.Fresh() {
		t.Error("Tick cleared a bang it did not own")
	}
	if got := rt.Stats().Ticks; got != 2 {
		t.Errorf("Stats().Ticks = %d, want 2", got)
	}
}

func TestSetup_InitFailureKeepsRunning(t *testing.T) {
	j := &journal{}
	p := newPair(j)
	p.A.err = errors.New("sensor missing")
	rt := buildRuntime(t, p, Options{})

	if err := rt.Setup(); err != nil {
		t.Fatalf("Setup() error = %v, want nil", err)
	}
	j.calls = nil
	rt.Tick()
	if len(j.calls) == 0 || j.calls[0] != "A.ExternalSources" {
		t.Errorf("failed component not ticked: %v", j.calls)
	}

	st := rt.Status()
	if st[1].Name != "A" || st[1].Healthy || st[1].InitErr != "sensor missing" {
		t.Errorf("Status()[1] = %+v, want unhealthy A with init error", st[1])
	}
	if !st[2].Healthy {
		t.Errorf("Status()[2] = %+v, want healthy", st[2])
	}
}

func TestSetup_FatalInit(t *testing.T) {
	j := &journal{}
	p := newPair(j)
	p.B.Parts.Inner.err = errors.New("bus fault")
	rt := buildRuntime(t, p, Options{FatalInit: true})

	err := rt.Setup()
	if !errors.Is(err, ErrInitFailed) {
		t.Fatalf("Setup() error = %v, want %v", err, ErrInitFailed)
	}
	if rt.Ready() {
		t.Error("Ready() = true after fatal init")
	}

	// A failed setup is not retried: A must not be initialised again.
	j.calls = nil
	if err := rt.Setup(); !errors.Is(err, ErrAlreadySetup) {
		t.Errorf("second Setup() error = %v, want %v", err, ErrAlreadySetup)
	}
	if err := rt.Run(context.Background(), time.Millisecond); !errors.Is(err, ErrAlreadySetup) {
		t.Errorf("Run() after failed Setup error = %v, want %v", err, ErrAlreadySetup)
	}
	if len(j.calls) != 0 {
		t.Errorf("calls after failed Setup = %v, want none", j.calls)
	}
}

func TestSetup_Twice(t *testing.T) {
	rt := buildRuntime(t, newPair(&journal{}), Options{})
	if err := rt.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := rt.Setup(); !errors.Is(err, ErrAlreadySetup) {
		t.Errorf("second Setup() error = %v, want %v", err, ErrAlreadySetup)
	}
}

type failingBinding struct{}

func (failingBinding) Attach(*component.Tree) error { return errors.New("no table") }

func TestSetup_AttachFailure(t *testing.T) {
	j := &journal{}
	b := &journalBinding{j: j}
	rt := buildRuntime(t, newPair(j), Options{Bindings: []Binding{b, failingBinding{}}})
	if err := rt.Setup(); !errors.Is(err, ErrAttachFailed) {
		t.Errorf("Setup() error = %v, want %v", err, ErrAttachFailed)
	}
	if err := rt.Setup(); !errors.Is(err, ErrAlreadySetup) {
		t.Errorf("second Setup() error = %v, want %v", err, ErrAlreadySetup)
	}
	if diff := cmp.Diff([]string{"journal.Attach"}, j.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

type faulty struct {
	Outputs struct {
		Count endpoint.Value[int]
	}
}

func (f *faulty) Main() { panic("divide by zero") }

type faultyRig struct {
	Bad  faulty
	Good recorder
}

func TestTick_RecoversPanics(t *testing.T) {
	j := &journal{}
	r := &faultyRig{}
	r.Good.name, r.Good.j = "good", j
	rt := buildRuntime(t, r, Options{})
	if err := rt.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	rt.Tick()
	rt.Tick()

	var mains int
	for _, c := range j.calls {
		if c == "good.Main" {
			mains++
		}
	}
	if mains != 2 {
		t.Errorf("good.Main ran %d times, want 2", mains)
	}
	st := rt.Status()[1]
	if st.Panics != 2 || st.LastPanic != "Main: divide by zero" || st.Healthy {
		t.Errorf("Status()[1] = %+v, want 2 panics in Main and unhealthy", st)
	}
	if good := rt.Status()[2]; !good.Healthy {
		t.Errorf("Status()[2] = %+v, want healthy", good)
	}
}

func TestRun(t *testing.T) {
	j := &journal{}
	rt := buildRuntime(t, newPair(j), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx, time.Millisecond) }()

	deadline := time.After(2 * time.Second)
	for rt.Stats().Ticks < 3 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("runtime did not tick")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	if err := <-done; err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
	if !rt.Ready() {
		t.Error("Run did not set up the runtime")
	}
}

func TestRun_InvalidPeriod(t *testing.T) {
	rt := buildRuntime(t, newPair(&journal{}), Options{})
	if err := rt.Run(context.Background(), 0); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("Run() error = %v, want %v", err, ErrInvalidPeriod)
	}
}
