package synth

import (
	"fmt"
	"strings"

	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/voice"
	"github.com/polysynth/polysynth/internal/wavetable"
)

// Flavor selects how oscillators generate their waveform.
type Flavor string

const (
	FlavorFormula   Flavor = "formula"
	FlavorWavetable Flavor = "wavetable"
)

// ParseFlavor accepts the flavor names case-insensitively; "table" is an
// alias for wavetable.
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "formula":
		return FlavorFormula, nil
	case "wavetable", "table":
		return FlavorWavetable, nil
	}
	return "", fmt.Errorf("unknown oscillator flavor %q", s)
}

type Params struct {
	SampleRate    int
	BaseFrequency float64 // pitch of note 0
	MaxReleasing  int
	TableSize     int
	Flavor        Flavor
	Envelope      envelope.ADSR
	LFORate       float64
	LFODepth      float64
	Slots         voice.Slots
}

func DefaultParams() Params {
	return Params{
		SampleRate:    44100,
		BaseFrequency: 220,
		MaxReleasing:  32,
		TableSize:     wavetable.DefaultSize,
		Flavor:        FlavorFormula,
		Envelope:      envelope.Default(),
		Slots:         voice.DefaultSlots(),
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.SampleRate <= 0 {
		p.SampleRate = d.SampleRate
	}
	if p.BaseFrequency <= 0 {
		p.BaseFrequency = d.BaseFrequency
	}
	if p.MaxReleasing <= 0 {
		p.MaxReleasing = d.MaxReleasing
	}
	if p.TableSize == 0 {
		p.TableSize = d.TableSize
	}
	if p.Flavor == "" {
		p.Flavor = d.Flavor
	}
	return p
}
