package osc

import (
	"math"

	"github.com/polysynth/polysynth/internal/lfo"
	"github.com/polysynth/polysynth/internal/waveform"
)

// Formula evaluates its waveform analytically from elapsed time. Position is
// the sample index.
type Formula struct {
	base
	index float64
}

func NewFormula(sampleRate int, freq float64, w waveform.Type, gainDB float64) *Formula {
	return &Formula{base: newBase(float64(sampleRate), freq, w, gainDB)}
}

func (o *Formula) Sample(lfoFreq, lfoDepth float64) float32 {
	t := o.index / o.sampleRate
	x := twoPi*o.freq*t + o.freq*lfo.PhaseOffset(lfoFreq, lfoDepth, t)
	o.index++
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0
	}
	return float32(waveform.Eval(o.wave, x) * o.amp)
}

func (o *Formula) Position() float64 { return o.index }
func (o *Formula) Elapsed() float64  { return o.index }

// FormulaFactory builds Formula oscillators.
type FormulaFactory struct {
	SampleRate int
}

func NewFormulaFactory(sampleRate int) FormulaFactory {
	return FormulaFactory{SampleRate: sampleRate}
}

func (f FormulaFactory) New(freq float64, w waveform.Type, gainDB float64, at Phase) Oscillator {
	o := NewFormula(f.SampleRate, freq, w, gainDB)
	if at.Position > 0 {
		o.index = math.Floor(at.Position)
	}
	return o
}
