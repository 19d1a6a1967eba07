package voice

import (
	"github.com/polysynth/polysynth/internal/osc"
)

// NoteGenerator is one sounding note: a unison stack of oscillators per
// enabled slot plus the timestamps the envelope is evaluated against.
type NoteGenerator struct {
	TriggerOn  float64
	TriggerOff float64
	Pressed    bool

	freq    float64
	factory osc.Factory
	slots   Slots
	oscs    [NumSlots][]osc.Oscillator
	scratch []float64
}

// New builds a held note at freq, triggered at now. Disabled slots get no
// oscillators until they are enabled.
func New(freq float64, slots Slots, f osc.Factory, now float64) *NoteGenerator {
	n := &NoteGenerator{
		TriggerOn: now,
		Pressed:   true,
		freq:      freq,
		factory:   f,
	}
	for i := range slots {
		p := slots[i].Normalized()
		n.slots[i] = p
		if p.Enabled {
			n.oscs[i] = n.build(p, osc.Phase{})
		}
	}
	return n
}

func (n *NoteGenerator) Frequency() float64 { return n.freq }

// Release marks the note as no longer held.
func (n *NoteGenerator) Release(now float64) {
	if !n.Pressed {
		return
	}
	n.TriggerOff = now
	n.Pressed = false
}

// Sample sums one tick of every enabled slot.
func (n *NoteGenerator) Sample(lfoFreq, lfoDepth float64) float32 {
	var total float32
	for i := range n.oscs {
		if !n.slots[i].Enabled {
			continue
		}
		for _, o := range n.oscs[i] {
			total += o.Sample(lfoFreq, lfoDepth)
		}
	}
	return total
}

// Voices returns the live oscillators of a slot. Callers must not retain it.
func (n *NoteGenerator) Voices(slot int) []osc.Oscillator {
	if !ValidSlot(slot) {
		return nil
	}
	return n.oscs[slot]
}

// SlotParams returns the configuration a slot is currently playing.
func (n *NoteGenerator) SlotParams(slot int) SlotParams {
	if !ValidSlot(slot) {
		return SlotParams{}
	}
	return n.slots[slot]
}

// SetSlotParams retunes a slot. A changed unison count rebuilds the stack in
// phase with its first voice; an unchanged count retunes in place. Disabling
// a slot mutes it but keeps its voices so re-enabling does not reallocate.
func (n *NoteGenerator) SetSlotParams(slot int, p SlotParams) {
	if !ValidSlot(slot) {
		return
	}
	p = p.Normalized()
	n.slots[slot] = p
	cur := n.oscs[slot]
	switch {
	case !p.Enabled:
		return
	case len(cur) == 0:
		n.oscs[slot] = n.build(p, osc.Phase{})
	case len(cur) != p.Unison:
		n.oscs[slot] = n.build(p, osc.PhaseOf(cur[0]))
	default:
		n.scratch = AppendUnison(n.scratch[:0], n.freq, p.Unison, p.Detune)
		for i, o := range cur {
			o.SetFrequency(n.scratch[i])
			o.SetWave(p.Wave)
			o.SetGain(p.GainDB)
		}
	}
}

func (n *NoteGenerator) build(p SlotParams, at osc.Phase) []osc.Oscillator {
	n.scratch = AppendUnison(n.scratch[:0], n.freq, p.Unison, p.Detune)
	out := make([]osc.Oscillator, len(n.scratch))
	for i, f := range n.scratch {
		out[i] = n.factory.New(f, p.Wave, p.GainDB, at)
	}
	return out
}
