// Package synth is the polyphonic voice pool. A Synth is driven from a
// single audio goroutine: it drains at most one control event per sample,
// mixes every held and releasing note, and retires notes whose release has
// faded to silence.
package synth

import (
	"fmt"

	"github.com/polysynth/polysynth/internal/clock"
	"github.com/polysynth/polysynth/internal/control"
	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/lfo"
	"github.com/polysynth/polysynth/internal/osc"
	"github.com/polysynth/polysynth/internal/voice"
	"github.com/polysynth/polysynth/internal/wavetable"
)

type Option func(*Synth)

// WithClock replaces the default sample-counting clock. If c also
// implements clock.Ticker it is advanced once per produced sample.
func WithClock(c clock.Clock) Option {
	return func(s *Synth) {
		s.clock = c
	}
}

type Synth struct {
	rx     *control.Receiver
	params Params
	clock  clock.Clock
	ticker clock.Ticker

	factory osc.Factory
	bank    *wavetable.Bank

	env   envelope.ADSR
	lfo   lfo.LFO
	slots voice.Slots

	held      map[int]*voice.NoteGenerator
	heldOrder []int
	releasing []*voice.NoteGenerator
}

// New builds a Synth that reads control events from rx. A nil rx is allowed
// and behaves like a disconnected channel.
func New(rx *control.Receiver, p Params, opts ...Option) (*Synth, error) {
	p = p.withDefaults()
	if err := p.Envelope.Validate(); err != nil {
		return nil, fmt.Errorf("synth: envelope: %w", err)
	}
	s := &Synth{
		rx:        rx,
		params:    p,
		env:       p.Envelope,
		lfo:       lfo.New(p.LFODepth, p.LFORate),
		held:      make(map[int]*voice.NoteGenerator),
		heldOrder: make([]int, 0, 16),
		releasing: make([]*voice.NoteGenerator, 0, p.MaxReleasing),
	}
	for i := range p.Slots {
		s.slots[i] = p.Slots[i].Normalized()
	}

	switch p.Flavor {
	case FlavorFormula:
		s.factory = osc.NewFormulaFactory(p.SampleRate)
	case FlavorWavetable:
		bank, err := wavetable.NewBank(p.TableSize)
		if err != nil {
			return nil, fmt.Errorf("synth: %w", err)
		}
		s.bank = bank
		s.factory = osc.NewTableFactory(bank, p.SampleRate)
	default:
		return nil, fmt.Errorf("synth: unknown oscillator flavor %q", p.Flavor)
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clock.NewSampleClock(p.SampleRate)
	}
	s.ticker, _ = s.clock.(clock.Ticker)
	return s, nil
}

func (s *Synth) SampleRate() int    { return s.params.SampleRate }
func (s *Synth) ChannelCount() int  { return 1 }
func (s *Synth) Clock() clock.Clock { return s.clock }

func (s *Synth) Envelope() envelope.ADSR { return s.env }
func (s *Synth) LFO() lfo.LFO            { return s.lfo }
func (s *Synth) Slots() voice.Slots      { return s.slots }

func (s *Synth) HeldCount() int      { return len(s.heldOrder) }
func (s *Synth) ReleasingCount() int { return len(s.releasing) }

// Held returns the note generator held for note, if any.
func (s *Synth) Held(note int) (*voice.NoteGenerator, bool) {
	n, ok := s.held[note]
	return n, ok
}

// Next drains at most one pending control event, produces one sample and
// advances the clock. It never blocks.
func (s *Synth) Next() float32 {
	if ev, ok := s.rx.TryRecv(); ok {
		s.Apply(ev)
	}
	out := s.Sample()
	if s.ticker != nil {
		s.ticker.Tick()
	}
	return out
}

// Process fills dst with consecutive mono samples.
func (s *Synth) Process(dst []float32) {
	for i := range dst {
		dst[i] = s.Next()
	}
}

// Apply performs one control event immediately. Events that fail validation
// are ignored.
func (s *Synth) Apply(ev control.Event) {
	switch ev.Kind {
	case control.NotePress:
		s.NotePressed(ev.Note)
	case control.NoteRelease:
		s.NoteReleased(ev.Note)
	case control.ChangeOscillatorParams:
		s.UpdateOscillatorParams(ev.Slot, ev.Osc)
	case control.ChangeEnvelopeParam:
		_ = s.SetEnvelopeParam(ev.Param, ev.Value)
	case control.ChangeLFO:
		s.SetLFO(ev.Value, ev.Depth)
	case control.AllNotesOff:
		s.AllNotesOff()
	}
}

// Sample mixes every sounding note at the current clock time without
// touching the control channel or advancing the clock.
func (s *Synth) Sample() float32 {
	now := s.clock.Now()
	lfoFreq, lfoDepth := s.lfo.Params()

	var out float32
	for _, note := range s.heldOrder {
		n := s.held[note]
		amp := s.env.Amplitude(now, n.TriggerOn, n.TriggerOff, true)
		out += n.Sample(lfoFreq, lfoDepth) * float32(amp)
	}

	live := s.releasing[:0]
	for _, n := range s.releasing {
		amp := s.env.Amplitude(now, n.TriggerOn, n.TriggerOff, false)
		if amp == 0 {
			continue
		}
		out += n.Sample(lfoFreq, lfoDepth) * float32(amp)
		live = append(live, n)
	}
	for i := len(live); i < len(s.releasing); i++ {
		s.releasing[i] = nil
	}
	s.releasing = live
	return out
}
