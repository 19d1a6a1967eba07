package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysynth/polysynth/internal/control"
	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/synth"
	"github.com/polysynth/polysynth/internal/voice"
	"github.com/polysynth/polysynth/internal/waveform"
)

func TestDefaultConfigUnmarshal(t *testing.T) {
	var c Config
	require.NoError(t, json.Unmarshal([]byte(defaultConfig), &c))
	assert.Equal(t, 44100, c.SampleRate)
	assert.Len(t, c.Slots, voice.NumSlots)
	assert.Equal(t, waveform.Saw, c.Slots[1].Wave)
}

func TestDefaultMatchesSynthDefaults(t *testing.T) {
	c := Default()
	p := c.SynthParams()
	d := synth.DefaultParams()
	assert.Equal(t, d.SampleRate, p.SampleRate)
	assert.Equal(t, d.BaseFrequency, p.BaseFrequency)
	assert.Equal(t, d.MaxReleasing, p.MaxReleasing)
	assert.Equal(t, d.Envelope, p.Envelope)
	assert.Equal(t, d.Flavor, p.Flavor)
	assert.True(t, p.Slots[0].Enabled)
	assert.False(t, p.Slots[1].Enabled)
}

func TestReadWritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polysynth.json")
	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig, string(data))
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte(`{"oscillator": "wavetable", "lfo": {"rateHz": 5, "depth": 0.01}}`))
	require.NoError(t, err)
	assert.Equal(t, synth.FlavorWavetable, c.Oscillator)
	assert.Equal(t, LFOConfig{RateHz: 5, Depth: 0.01}, c.LFO)
	assert.Equal(t, 44100, c.SampleRate)
	assert.Len(t, c.Slots, voice.NumSlots)
	assert.Empty(t, c.Effects)
}

func TestParseShortSlotList(t *testing.T) {
	c, err := Parse([]byte(`{"slots": [{"enabled": true, "wave": "triangle", "unison": 5, "detune": 0.4}]}`))
	require.NoError(t, err)
	s := c.SlotArray()
	assert.Equal(t, voice.SlotParams{Enabled: true, Wave: waveform.Triangle, Unison: 5, Detune: 0.4}, s[0])
	assert.False(t, s[1].Enabled)
	assert.False(t, s[2].Enabled)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":        `{`,
		"sample rate":   `{"sampleRate": 0}`,
		"flavor":        `{"oscillator": "granular"}`,
		"table size":    `{"oscillator": "wavetable", "waveTableSize": 1}`,
		"volume":        `{"masterVolume": 1.5}`,
		"envelope":      `{"envelope": {"attackSeconds": -1}}`,
		"lfo":           `{"lfo": {"rateHz": -2}}`,
		"wave name":     `{"slots": [{"enabled": true, "wave": "noise", "unison": 1}]}`,
		"unison":        `{"slots": [{"enabled": true, "wave": "sine", "unison": 0}]}`,
		"too many":      `{"slots": [{"unison":1},{"unison":1},{"unison":1},{"unison":1}]}`,
		"unknown fx":    `{"effects": [{"type": "phaser"}]}`,
		"base freq":     `{"baseFrequency": -220}`,
		"max releasing": `{"maxReleasing": 0}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
	_, err := Parse([]byte(`{"sampleRate": -1}`))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestEffectChain(t *testing.T) {
	c, err := Parse([]byte(`{"effects": [{"type": "delay", "params": [100]}, {"type": "reverb"}]}`))
	require.NoError(t, err)
	chain, err := c.EffectChain()
	require.NoError(t, err)
	assert.Equal(t, 2, chain.Len())

	none, err := Default().EffectChain()
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDiff(t *testing.T) {
	prev := Default()
	next := Default()
	assert.Empty(t, Diff(prev, next))

	next.Envelope.AttackSeconds = 0.2
	next.Envelope.SustainLevel = 0.3
	next.LFO = LFOConfig{RateHz: 4, Depth: 0.02}
	next.Slots = append([]voice.SlotParams(nil), prev.Slots...)
	next.Slots[2].Enabled = true
	next.MasterVolume = 0.1

	want := []control.Event{
		control.Envelope(envelope.Attack, 0.2),
		control.Envelope(envelope.Sustain, 0.3),
		control.LFO(4, 0.02),
		control.Oscillator(2, next.Slots[2]),
	}
	assert.Equal(t, want, Diff(prev, next))
	assert.False(t, StaticChanged(prev, next))
	assert.False(t, EffectsChanged(prev, next))

	next.Effects = []EffectConfig{{Type: "chorus"}}
	assert.True(t, EffectsChanged(prev, next))
	next.SampleRate = 48000
	assert.True(t, StaticChanged(prev, next))
}

func TestDiffEventsPassValidation(t *testing.T) {
	prev := Default()
	next, err := Parse([]byte(`{"envelope": {"attackSeconds": 0.1, "decaySeconds": 0.2, "releaseSeconds": 0.3, "sustainLevel": 0.4, "startLevel": 0.5}, "lfo": {"rateHz": 3, "depth": 0.1}}`))
	require.NoError(t, err)
	evs := Diff(prev, next)
	require.Len(t, evs, 6)
	for _, ev := range evs {
		assert.NoError(t, ev.Validate(), ev.Kind.String())
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polysynth.json")
	_, err := Read(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	configs := make(chan *Config, 4)
	errs := make(chan error, 4)
	require.NoError(t, Watch(ctx, path, configs, errs))

	require.NoError(t, os.WriteFile(path, []byte(`{"masterVolume": 0.25}`), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-configs:
			// A write may surface as several events; wait for the full document.
			if c.MasterVolume == 0.25 {
				return
			}
		case err := <-errs:
			t.Logf("transient reload error: %v", err)
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatchMissingFile(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "x.json"), make(chan *Config), make(chan error))
	assert.Error(t, err)
}
