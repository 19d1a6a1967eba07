package lfo

import (
	"math"
	"testing"
)

func TestPhaseOffsetSineShape(t *testing.T) {
	// Quarter, half and three-quarter cycle of a 1 Hz sine.
	if v := PhaseOffset(1, 0.5, 0.25); math.Abs(v-0.5) > 1e-9 {
		t.Errorf("offset at 0.25s: got %f, want 0.5", v)
	}
	if v := PhaseOffset(1, 0.5, 0.5); math.Abs(v) > 1e-9 {
		t.Errorf("offset at 0.5s: got %f, want ~0", v)
	}
	if v := PhaseOffset(1, 0.5, 0.75); math.Abs(v+0.5) > 1e-9 {
		t.Errorf("offset at 0.75s: got %f, want -0.5", v)
	}
}

func TestFrequencyRatioIsPhaseDerivative(t *testing.T) {
	const rate, depth, dt = 6.0, 0.02, 1e-6
	for _, at := range []float64{0, 0.01, 0.04, 0.1, 0.13} {
		slope := (PhaseOffset(rate, depth, at+dt) - PhaseOffset(rate, depth, at-dt)) / (2 * dt)
		want := 1 + slope/(2*math.Pi)
		if got := FrequencyRatio(rate, depth, at); math.Abs(got-want) > 1e-6 {
			t.Errorf("ratio at %.2fs: got %f, want %f", at, got, want)
		}
	}
}

func TestInactiveModulation(t *testing.T) {
	if v := PhaseOffset(5, 0, 0.05); v != 0 {
		t.Errorf("zero depth should give no offset, got %f", v)
	}
	if v := PhaseOffset(0, 1, 0.3); v != 0 {
		t.Errorf("zero rate should give no offset, got %f", v)
	}
	if r := FrequencyRatio(0, 1, 0.3); r != 1 {
		t.Errorf("zero rate ratio = %f, want 1", r)
	}
	l := New(0, 5.0)
	if f, d := l.Params(); f != 0 || d != 0 {
		t.Errorf("inactive params = (%f, %f), want zeros", f, d)
	}
}

func TestLFOActive(t *testing.T) {
	l := &LFO{}
	if l.Active() {
		t.Error("default LFO should not be active")
	}
	l.Set(1.0, 5.0)
	if !l.Active() {
		t.Error("configured LFO should be active")
	}
	if f, d := l.Params(); f != 5 || d != 1 {
		t.Errorf("params = (%f, %f), want (5, 1)", f, d)
	}
	l.Set(0, 5.0)
	if l.Active() {
		t.Error("zero depth LFO should not be active")
	}
}

func TestLFOSanitizesInput(t *testing.T) {
	l := New(-1, math.NaN())
	if l.Depth() != 0 || l.Rate() != 0 {
		t.Errorf("bad input should clear, got depth=%f rate=%f", l.Depth(), l.Rate())
	}
	l.Set(0.1, 1000)
	if l.Rate() != MaxRateHz {
		t.Errorf("rate should cap at %f, got %f", MaxRateHz, l.Rate())
	}
}
