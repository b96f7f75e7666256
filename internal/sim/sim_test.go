package sim

import (
	"errors"
	"math"
	"testing"
)

func TestPin_Script(t *testing.T) {
	p := NewPin(true, false)
	want := []bool{true, false, false, false}
	for i, w := range want {
		got, err := p.Read()
		if err != nil {
			t.Fatalf("Read() #%d error = %v", i, err)
		}
		if got != w {
			t.Errorf("Read() #%d = %v, want %v", i, got, w)
		}
	}
}

func TestPin_Loop(t *testing.T) {
	p := NewPin(true, false)
	p.Loop = true
	want := []bool{true, false, true, false}
	for i, w := range want {
		if got, _ := p.Read(); got != w {
			t.Errorf("Read() #%d = %v, want %v", i, got, w)
		}
	}
}

func TestPin_SetAndFault(t *testing.T) {
	p := NewPin()
	p.FailRead(1)
	p.Set(true)

	if got, err := p.Read(); err != nil || !got {
		t.Errorf("Read() = %v, %v, want true, nil", got, err)
	}
	if _, err := p.Read(); !errors.Is(err, ErrPinFault) {
		t.Errorf("Read() error = %v, want %v", err, ErrPinFault)
	}
	if p.Reads() != 2 {
		t.Errorf("Reads() = %d, want 2", p.Reads())
	}
}

func TestOscillator(t *testing.T) {
	o := NewOscillator(4, 2)
	o.Every = 2

	if _, ok, _ := o.Sample(); ok {
		t.Fatal("first call produced a sample with Every=2")
	}
	v, ok, err := o.Sample()
	if err != nil || !ok {
		t.Fatalf("Sample() = %v, %v, %v", v, ok, err)
	}
	if v.X() != 2 || v.Y() != 0 || v.Z() != 1 {
		t.Errorf("first sample = %v, want 2,0,1", v)
	}

	o.Sample()
	v, _, _ = o.Sample()
	if math.Abs(float64(v.X())) > 1e-6 || math.Abs(float64(v.Y()-2)) > 1e-6 {
		t.Errorf("quarter-turn sample = %v, want 0,2,1", v)
	}
}
