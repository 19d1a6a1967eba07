// Package config reads the JSON patch file. Static settings are fixed for
// the life of the process; dynamic settings may be hot-reloaded.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/polysynth/polysynth/internal/effects"
	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/synth"
	"github.com/polysynth/polysynth/internal/voice"
)

const defaultConfig = `{
	"sampleRate": 44100,
	"oscillator": "formula",
	"waveTableSize": 128,
	"baseFrequency": 220,
	"maxReleasing": 32,
	"eventBuffer": 256,
	"watchConfig": true,
	"masterVolume": 0.8,
	"envelope": {
		"attackSeconds": 1,
		"decaySeconds": 1,
		"releaseSeconds": 2,
		"sustainLevel": 0.1,
		"startLevel": 0.11
	},
	"lfo": { "rateHz": 0, "depth": 0 },
	"slots": [
		{ "enabled": true, "wave": "sine", "unison": 1, "detune": 0, "gainDb": 0 },
		{ "enabled": false, "wave": "saw", "unison": 1, "detune": 0, "gainDb": 0 },
		{ "enabled": false, "wave": "square", "unison": 1, "detune": 0, "gainDb": 0 }
	],
	"effects": []
}
`

var ErrInvalid = errors.New("invalid config")

type EnvelopeConfig struct {
	AttackSeconds  float64 `json:"attackSeconds"`
	DecaySeconds   float64 `json:"decaySeconds"`
	ReleaseSeconds float64 `json:"releaseSeconds"`
	SustainLevel   float64 `json:"sustainLevel"`
	StartLevel     float64 `json:"startLevel"`
}

func (e EnvelopeConfig) ADSR() envelope.ADSR {
	return envelope.ADSR{
		AttackTime:   e.AttackSeconds,
		DecayTime:    e.DecaySeconds,
		ReleaseTime:  e.ReleaseSeconds,
		SustainLevel: e.SustainLevel,
		StartLevel:   e.StartLevel,
	}
}

type LFOConfig struct {
	RateHz float64 `json:"rateHz"`
	Depth  float64 `json:"depth"`
}

type EffectConfig struct {
	Type   string    `json:"type"`
	Params []float64 `json:"params,omitempty"`
}

type StaticConfig struct {
	SampleRate    int          `json:"sampleRate"`
	Oscillator    synth.Flavor `json:"oscillator"`
	WaveTableSize int          `json:"waveTableSize"`
	BaseFrequency float64      `json:"baseFrequency"`
	MaxReleasing  int          `json:"maxReleasing"`
	EventBuffer   int          `json:"eventBuffer"`
	WatchConfig   bool         `json:"watchConfig"`
}

type DynamicConfig struct {
	MasterVolume float64            `json:"masterVolume"`
	Envelope     EnvelopeConfig     `json:"envelope"`
	LFO          LFOConfig          `json:"lfo"`
	Slots        []voice.SlotParams `json:"slots"`
	Effects      []EffectConfig     `json:"effects"`
}

type Config struct {
	StaticConfig
	DynamicConfig
}

// Default returns the built-in patch.
func Default() *Config {
	c, err := Parse([]byte(defaultConfig))
	if err != nil {
		panic(fmt.Sprintf("config: default config does not parse: %v", err))
	}
	return c
}

// Read loads the config at p, writing the default patch there first if the
// file does not exist.
func Read(p string) (*Config, error) {
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(p, []byte(defaultConfig), 0o644); err != nil {
			return nil, fmt.Errorf("can't write default config: %w", err)
		}
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("can't read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a config document. Fields left out of data
// keep their default values.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal([]byte(defaultConfig), &c); err != nil {
		return nil, fmt.Errorf("unmarshalling default: %w", err)
	}
	defaults := c.Slots
	c.Slots = nil
	c.Effects = nil
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshalling: %w", err)
	}
	if c.Slots == nil {
		c.Slots = defaults
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sampleRate %d", ErrInvalid, c.SampleRate)
	case c.BaseFrequency <= 0:
		return fmt.Errorf("%w: baseFrequency %v", ErrInvalid, c.BaseFrequency)
	case c.MaxReleasing <= 0:
		return fmt.Errorf("%w: maxReleasing %d", ErrInvalid, c.MaxReleasing)
	case c.MasterVolume < 0 || c.MasterVolume > 1:
		return fmt.Errorf("%w: masterVolume %v not in 0..1", ErrInvalid, c.MasterVolume)
	case len(c.Slots) > voice.NumSlots:
		return fmt.Errorf("%w: %d slots, at most %d", ErrInvalid, len(c.Slots), voice.NumSlots)
	}
	if _, err := synth.ParseFlavor(string(c.Oscillator)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Oscillator == synth.FlavorWavetable && c.WaveTableSize < 2 {
		return fmt.Errorf("%w: waveTableSize %d", ErrInvalid, c.WaveTableSize)
	}
	if err := c.Envelope.ADSR().Validate(); err != nil {
		return fmt.Errorf("%w: envelope: %w", ErrInvalid, err)
	}
	if c.LFO.RateHz < 0 || c.LFO.Depth < 0 {
		return fmt.Errorf("%w: negative lfo setting", ErrInvalid)
	}
	for i, s := range c.Slots {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: slot %d: %w", ErrInvalid, i, err)
		}
	}
	for i, e := range c.Effects {
		if _, err := effects.New(e.Type, e.Params, c.SampleRate); err != nil {
			return fmt.Errorf("%w: effect %d: %w", ErrInvalid, i, err)
		}
	}
	return nil
}

// SlotArray expands Slots to a full slot array; missing slots are disabled.
func (c *Config) SlotArray() voice.Slots {
	s := voice.DefaultSlots()
	s[0].Enabled = false
	for i, p := range c.Slots {
		s[i] = p
	}
	return s
}

// SynthParams converts the config to voice pool parameters.
func (c *Config) SynthParams() synth.Params {
	flavor, _ := synth.ParseFlavor(string(c.Oscillator))
	return synth.Params{
		SampleRate:    c.SampleRate,
		BaseFrequency: c.BaseFrequency,
		MaxReleasing:  c.MaxReleasing,
		TableSize:     c.WaveTableSize,
		Flavor:        flavor,
		Envelope:      c.Envelope.ADSR(),
		LFORate:       c.LFO.RateHz,
		LFODepth:      c.LFO.Depth,
		Slots:         c.SlotArray(),
	}
}

// EffectChain builds the configured post-mix chain, or nil when none is set.
func (c *Config) EffectChain() (*effects.Chain, error) {
	if len(c.Effects) == 0 {
		return nil, nil
	}
	chain := effects.NewChain()
	for _, e := range c.Effects {
		fx, err := effects.New(e.Type, e.Params, c.SampleRate)
		if err != nil {
			return nil, err
		}
		chain.Add(fx)
	}
	return chain, nil
}
