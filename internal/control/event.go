// Package control carries parameter and note changes from UI or config
// goroutines to the audio goroutine.
package control

import (
	"fmt"

	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/voice"
)

// Kind identifies an Event.
type Kind int

const (
	NotePress Kind = iota
	NoteRelease
	ChangeOscillatorParams
	ChangeEnvelopeParam
	ChangeLFO
	AllNotesOff
)

func (k Kind) String() string {
	switch k {
	case NotePress:
		return "note-press"
	case NoteRelease:
		return "note-release"
	case ChangeOscillatorParams:
		return "change-oscillator"
	case ChangeEnvelopeParam:
		return "change-envelope"
	case ChangeLFO:
		return "change-lfo"
	case AllNotesOff:
		return "all-notes-off"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is a single control message. Only the fields relevant to Kind are
// meaningful.
type Event struct {
	Kind  Kind
	Note  int
	Slot  int
	Osc   voice.SlotParams
	Param envelope.Param
	// Value is the envelope value for ChangeEnvelopeParam and the LFO rate
	// in Hz for ChangeLFO.
	Value float64
	Depth float64
}

func Press(note int) Event   { return Event{Kind: NotePress, Note: note} }
func Release(note int) Event { return Event{Kind: NoteRelease, Note: note} }

func Oscillator(slot int, p voice.SlotParams) Event {
	return Event{Kind: ChangeOscillatorParams, Slot: slot, Osc: p}
}

func Envelope(p envelope.Param, v float64) Event {
	return Event{Kind: ChangeEnvelopeParam, Param: p, Value: v}
}

func LFO(rateHz, depth float64) Event {
	return Event{Kind: ChangeLFO, Value: rateHz, Depth: depth}
}

func NotesOff() Event { return Event{Kind: AllNotesOff} }

// Validate checks an event before it is queued.
func (e Event) Validate() error {
	switch e.Kind {
	case NotePress, NoteRelease, AllNotesOff:
		return nil
	case ChangeOscillatorParams:
		if !voice.ValidSlot(e.Slot) {
			return fmt.Errorf("slot %d: %w", e.Slot, ErrInvalidSlot)
		}
		return nil
	case ChangeEnvelopeParam:
		if !e.Param.Valid() {
			return fmt.Errorf("%s: %w", e.Param, ErrInvalidParam)
		}
		if !finiteNonNegative(e.Value) {
			return fmt.Errorf("%s %v: %w", e.Param, e.Value, ErrInvalidValue)
		}
		return nil
	case ChangeLFO:
		if !finiteNonNegative(e.Value) || !finiteNonNegative(e.Depth) {
			return fmt.Errorf("lfo rate %v depth %v: %w", e.Value, e.Depth, ErrInvalidValue)
		}
		return nil
	}
	return fmt.Errorf("%s: %w", e.Kind, ErrUnknownKind)
}
