package voice

import (
	"fmt"
	"math"

	"github.com/polysynth/polysynth/internal/waveform"
)

const (
	// NumSlots is the number of oscillator slots each note carries.
	NumSlots = 3
	// MaxUnison caps the voices a single slot may stack.
	MaxUnison = 16
	// MaxDetuneSemitones is the spread of the outermost unison pair at
	// Detune 1.0.
	MaxDetuneSemitones = 2.0
)

// SlotParams configures one oscillator slot.
type SlotParams struct {
	Enabled bool          `json:"enabled"`
	Wave    waveform.Type `json:"wave"`
	Unison  int           `json:"unison"`
	Detune  float64       `json:"detune"` // fraction of MaxDetuneSemitones
	GainDB  float64       `json:"gainDb"`
}

// Slots is the full per-note oscillator configuration.
type Slots [NumSlots]SlotParams

// DefaultSlots enables a single sine voice in slot 0.
func DefaultSlots() Slots {
	var s Slots
	for i := range s {
		s[i] = SlotParams{Wave: waveform.Sine, Unison: 1}
	}
	s[0].Enabled = true
	return s
}

// ValidSlot reports whether i addresses an existing slot.
func ValidSlot(i int) bool { return i >= 0 && i < NumSlots }

// Normalized clamps unison and detune into their legal ranges.
func (p SlotParams) Normalized() SlotParams {
	if p.Unison < 1 {
		p.Unison = 1
	}
	if p.Unison > MaxUnison {
		p.Unison = MaxUnison
	}
	if math.IsNaN(p.Detune) || p.Detune < 0 {
		p.Detune = 0
	}
	if p.Detune > 1 {
		p.Detune = 1
	}
	if math.IsNaN(p.GainDB) || math.IsInf(p.GainDB, 0) {
		p.GainDB = 0
	}
	if !p.Wave.Valid() {
		p.Wave = waveform.Sine
	}
	return p
}

// Validate rejects values Normalized would have to change.
func (p SlotParams) Validate() error {
	switch {
	case !p.Wave.Valid():
		return fmt.Errorf("invalid waveform %d", int(p.Wave))
	case p.Unison < 1 || p.Unison > MaxUnison:
		return fmt.Errorf("unison %d out of range 1..%d", p.Unison, MaxUnison)
	case math.IsNaN(p.Detune) || p.Detune < 0 || p.Detune > 1:
		return fmt.Errorf("detune %v out of range 0..1", p.Detune)
	case math.IsNaN(p.GainDB) || math.IsInf(p.GainDB, 0):
		return fmt.Errorf("gain %v is not finite", p.GainDB)
	}
	return nil
}

// NoteFrequency is the pitch of note n semitones above base.
func NoteFrequency(base float64, note int) float64 {
	return base * math.Pow(2, float64(note)/12)
}

// AppendUnison appends the frequencies of a unison stack centred on center.
// An odd count starts with the centre voice; the remaining voices come in
// (above, below) pairs whose spread halves with each pair.
func AppendUnison(dst []float64, center float64, unison int, detune float64) []float64 {
	if unison < 1 {
		unison = 1
	}
	if unison%2 == 1 {
		dst = append(dst, center)
	}
	spread := detune * MaxDetuneSemitones
	for i := 0; i < unison/2; i++ {
		d := spread / math.Pow(2, float64(i))
		dst = append(dst, center*math.Pow(2, d/12), center*math.Pow(2, -d/12))
	}
	return dst
}

// UnisonFrequencies returns the frequencies of a unison stack.
func UnisonFrequencies(center float64, unison int, detune float64) []float64 {
	return AppendUnison(make([]float64, 0, unison), center, unison, detune)
}
