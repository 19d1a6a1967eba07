package osc

import (
	"math"

	"github.com/polysynth/polysynth/internal/waveform"
)

const twoPi = math.Pi * 2

// Oscillator produces one sample per call and advances its own phase.
// Setters never reset the phase, so retuning a sounding voice is click free.
type Oscillator interface {
	// Sample returns the next sample, frequency-modulated by a sine LFO of
	// lfoFreq Hz and lfoDepth (see lfo.PhaseOffset). Both flavors produce
	// the same vibrato for the same arguments.
	Sample(lfoFreq, lfoDepth float64) float32
	SetFrequency(hz float64)
	SetWave(w waveform.Type)
	SetGain(db float64)
	Frequency() float64
	Wave() waveform.Type
	Gain() float64
	// Position is the current phase position. Its unit is specific to the
	// oscillator flavor.
	Position() float64
	// Elapsed is the number of samples produced so far. It times the LFO.
	Elapsed() float64
}

// Phase is where an oscillator starts. Pass PhaseOf an existing voice to
// the same Factory to start a new one in step with it, LFO included.
type Phase struct {
	Position float64
	Elapsed  float64
}

func PhaseOf(o Oscillator) Phase {
	return Phase{Position: o.Position(), Elapsed: o.Elapsed()}
}

// Factory creates oscillators of one flavor.
type Factory interface {
	New(freq float64, w waveform.Type, gainDB float64, at Phase) Oscillator
}

// Amplitude converts a gain in decibels to a linear factor.
func Amplitude(db float64) float64 {
	return math.Pow(10, db/20)
}

// base carries the state shared by both flavors.
type base struct {
	sampleRate float64
	freq       float64
	wave       waveform.Type
	gainDB     float64
	amp        float64
}

func newBase(sampleRate, freq float64, w waveform.Type, gainDB float64) base {
	if sampleRate <= 0 {
		sampleRate = 1
	}
	return base{
		sampleRate: sampleRate,
		freq:       freq,
		wave:       w,
		gainDB:     gainDB,
		amp:        Amplitude(gainDB),
	}
}

func (b *base) SetFrequency(hz float64) { b.freq = hz }
func (b *base) SetWave(w waveform.Type) { b.wave = w }

func (b *base) SetGain(db float64) {
	b.gainDB = db
	b.amp = Amplitude(db)
}

func (b *base) Frequency() float64  { return b.freq }
func (b *base) Wave() waveform.Type { return b.wave }
func (b *base) Gain() float64       { return b.gainDB }
