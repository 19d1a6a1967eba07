package config

import (
	"slices"

	"github.com/polysynth/polysynth/internal/control"
	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/voice"
)

// Diff returns the control events that move a running synth from prev's
// dynamic settings to next's. Master volume and effects are not carried by
// control events; see EffectsChanged.
func Diff(prev, next *Config) []control.Event {
	var evs []control.Event

	oe, ne := prev.Envelope.ADSR(), next.Envelope.ADSR()
	for _, p := range []envelope.Param{envelope.Attack, envelope.Decay, envelope.Release, envelope.Sustain, envelope.Start} {
		if oe.Get(p) != ne.Get(p) {
			evs = append(evs, control.Envelope(p, ne.Get(p)))
		}
	}
	if prev.LFO != next.LFO {
		evs = append(evs, control.LFO(next.LFO.RateHz, next.LFO.Depth))
	}
	ps, ns := prev.SlotArray(), next.SlotArray()
	for i := 0; i < voice.NumSlots; i++ {
		if ps[i] != ns[i] {
			evs = append(evs, control.Oscillator(i, ns[i]))
		}
	}
	return evs
}

// EffectsChanged reports whether the effect chains differ.
func EffectsChanged(prev, next *Config) bool {
	return !slices.EqualFunc(prev.Effects, next.Effects, func(a, b EffectConfig) bool {
		return a.Type == b.Type && slices.Equal(a.Params, b.Params)
	})
}

// StaticChanged reports whether a reload touched settings that only take
// effect on restart.
func StaticChanged(prev, next *Config) bool {
	return prev.StaticConfig != next.StaticConfig
}
