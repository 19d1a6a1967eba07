package synth

import (
	"math"

	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/voice"
)

// NotePressed starts a held voice for note. Pressing a note that is already
// held does nothing. A note that is still fading out keeps fading while a
// fresh voice starts alongside it. Notes pitched at or above the Nyquist
// frequency cannot be rendered and are ignored.
func (s *Synth) NotePressed(note int) {
	if _, ok := s.held[note]; ok {
		return
	}
	freq := voice.NoteFrequency(s.params.BaseFrequency, note)
	if !s.renderable(freq) {
		return
	}
	s.held[note] = voice.New(freq, s.slots, s.factory, s.clock.Now())
	s.heldOrder = append(s.heldOrder, note)
}

func (s *Synth) renderable(freq float64) bool {
	if math.IsNaN(freq) || math.IsInf(freq, 0) {
		return false
	}
	return freq < float64(s.params.SampleRate)/2
}

// NoteReleased moves a held note into its release phase. Unknown notes are
// ignored.
func (s *Synth) NoteReleased(note int) {
	n, ok := s.held[note]
	if !ok {
		return
	}
	delete(s.held, note)
	for i, held := range s.heldOrder {
		if held == note {
			s.heldOrder = append(s.heldOrder[:i], s.heldOrder[i+1:]...)
			break
		}
	}
	s.release(n)
}

// AllNotesOff releases every held note in press order.
func (s *Synth) AllNotesOff() {
	for _, note := range s.heldOrder {
		s.release(s.held[note])
		delete(s.held, note)
	}
	s.heldOrder = s.heldOrder[:0]
}

func (s *Synth) release(n *voice.NoteGenerator) {
	n.Release(s.clock.Now())
	if len(s.releasing) >= s.params.MaxReleasing {
		drop := len(s.releasing) - s.params.MaxReleasing + 1
		copy(s.releasing, s.releasing[drop:])
		for i := len(s.releasing) - drop; i < len(s.releasing); i++ {
			s.releasing[i] = nil
		}
		s.releasing = s.releasing[:len(s.releasing)-drop]
	}
	s.releasing = append(s.releasing, n)
}

// UpdateOscillatorParams reconfigures one slot for future notes and every
// sounding note. Out of range slots are ignored.
func (s *Synth) UpdateOscillatorParams(slot int, p voice.SlotParams) {
	if !voice.ValidSlot(slot) {
		return
	}
	p = p.Normalized()
	s.slots[slot] = p
	for _, note := range s.heldOrder {
		s.held[note].SetSlotParams(slot, p)
	}
	for _, n := range s.releasing {
		n.SetSlotParams(slot, p)
	}
}

// SetEnvelopeParam changes one field of the shared envelope. Sounding notes
// pick it up on the next sample.
func (s *Synth) SetEnvelopeParam(p envelope.Param, v float64) error {
	return s.env.Set(p, v)
}

// SetLFO changes the shared vibrato.
func (s *Synth) SetLFO(rateHz, depth float64) {
	s.lfo.Set(depth, rateHz)
}
