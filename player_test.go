package polysynth

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysynth/polysynth/internal/audio"
	"github.com/polysynth/polysynth/internal/config"
	"github.com/polysynth/polysynth/internal/control"
	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/voice"
	"github.com/polysynth/polysynth/internal/waveform"
)

func pull(p *Player, n int) []float32 {
	buf := make([]float32, n)
	p.Source().Process(buf)
	return buf
}

func TestPlayerMasterVolumeRuntimeAPI(t *testing.T) {
	pl, err := NewPlayer(WithSampleRate(48000))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if got := pl.MasterVolume(); got != 0.8 {
		t.Fatalf("default master volume = %v, want 0.8", got)
	}
	pl.SetMasterVolume(0.35)
	if got := pl.MasterVolume(); got != 0.35 {
		t.Fatalf("master volume = %v, want 0.35", got)
	}
	pl.SetMasterVolume(-2)
	if got := pl.MasterVolume(); got != 0 {
		t.Fatalf("master volume should clamp to 0, got %v", got)
	}
	if pl.SampleRate() != 48000 {
		t.Fatalf("sample rate = %d", pl.SampleRate())
	}
}

func TestPlayerRejectsNegativeSampleRate(t *testing.T) {
	_, err := NewPlayer(WithSampleRate(-1))
	assert.Error(t, err)
}

func TestPlayerNotesReachSynth(t *testing.T) {
	var tapped int
	pl, err := NewPlayer(WithSampleTap(func(buf []float32) { tapped += len(buf) }))
	require.NoError(t, err)

	require.NoError(t, pl.NotePress(0))
	require.NoError(t, pl.NotePress(4))
	pull(pl, 64)
	assert.Equal(t, 2, pl.Synth().HeldCount())
	assert.Equal(t, 64, tapped)

	require.NoError(t, pl.NoteRelease(4))
	pull(pl, 1)
	assert.Equal(t, 1, pl.Synth().HeldCount())

	require.NoError(t, pl.AllNotesOff())
	pull(pl, 1)
	assert.Equal(t, 0, pl.Synth().HeldCount())
}

func TestPlayerParameterEvents(t *testing.T) {
	pl, err := NewPlayer()
	require.NoError(t, err)

	saw := voice.SlotParams{Enabled: true, Wave: waveform.Saw, Unison: 2, Detune: 0.1}
	require.NoError(t, pl.SetOscillator(1, saw))
	require.NoError(t, pl.SetEnvelope(envelope.Release, 0.5))
	require.NoError(t, pl.SetLFO(3, 0.002))
	pull(pl, 3)

	s := pl.Synth()
	assert.Equal(t, saw, s.Slots()[1])
	assert.Equal(t, 0.5, s.Envelope().ReleaseTime)
	l := s.LFO()
	assert.Equal(t, 3.0, l.Rate())

	assert.ErrorIs(t, pl.SetOscillator(voice.NumSlots, saw), control.ErrInvalidSlot)
	assert.ErrorIs(t, pl.SetEnvelope(envelope.Attack, -1), control.ErrInvalidValue)
}

func TestPlayerApplyStopsAtFirstError(t *testing.T) {
	pl, err := NewPlayer()
	require.NoError(t, err)
	err = pl.Apply(control.Press(1), control.Oscillator(-1, voice.SlotParams{}), control.Press(2))
	require.ErrorIs(t, err, control.ErrInvalidSlot)
	pull(pl, 4)
	assert.Equal(t, 1, pl.Synth().HeldCount())
}

func TestPlayerOutputIsClipped(t *testing.T) {
	cfg, err := config.Parse([]byte(`{
		"masterVolume": 1,
		"envelope": {"attackSeconds": 0, "decaySeconds": 0, "releaseSeconds": 0.1, "sustainLevel": 1, "startLevel": 1},
		"slots": [{"enabled": true, "wave": "square", "unison": 8, "detune": 0, "gainDb": 6}]
	}`))
	require.NoError(t, err)
	pl, err := NewPlayer(WithConfig(cfg))
	require.NoError(t, err)
	require.NoError(t, pl.NotePress(0))

	var hitCeiling bool
	for _, v := range pull(pl, 2000) {
		require.LessOrEqual(t, math.Abs(float64(v)), 1.0)
		if math.Abs(float64(v)) == 1 {
			hitCeiling = true
		}
	}
	assert.True(t, hitCeiling)
}

func TestPlayerEQBand(t *testing.T) {
	pl, err := NewPlayer()
	require.NoError(t, err)
	assert.Equal(t, float32(1), pl.EQBand(2))
	pl.SetEQBand(2, 0.5)
	assert.Equal(t, float32(0.5), pl.EQBand(2))
}

func TestPlayerReload(t *testing.T) {
	pl, err := NewPlayer()
	require.NoError(t, err)

	next := config.Default()
	next.MasterVolume = 0.3
	next.Envelope.AttackSeconds = 0.05
	next.Effects = []config.EffectConfig{{Type: "reverb"}}
	require.NoError(t, pl.Reload(next))
	pull(pl, 4)

	assert.Equal(t, 0.3, pl.MasterVolume())
	assert.Equal(t, 0.05, pl.Synth().Envelope().AttackTime)
	assert.Equal(t, 1, pl.mix.effects.Load().Len())
	assert.Equal(t, next.DynamicConfig, pl.Config().DynamicConfig)

	static := config.Default()
	static.SampleRate = 22050
	err = pl.Reload(static)
	assert.True(t, errors.Is(err, ErrRestartRequired))
	assert.Equal(t, 44100, pl.Config().SampleRate)
	assert.Nil(t, pl.mix.effects.Load())
}

func TestPlayerNullBackendLifecycle(t *testing.T) {
	var pulled atomic.Int64
	pl, err := NewPlayer(
		WithBackend(audio.BackendNull),
		WithSampleTap(func(buf []float32) { pulled.Add(int64(len(buf))) }),
	)
	require.NoError(t, err)
	require.NoError(t, pl.Start())
	assert.True(t, pl.IsPlaying())
	require.NoError(t, pl.NotePress(0))

	deadline := time.Now().Add(2 * time.Second)
	for pulled.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.NotZero(t, pulled.Load())
	pl.Pause()
	assert.False(t, pl.IsPlaying())
	pl.Resume()
	assert.True(t, pl.IsPlaying())
	require.NoError(t, pl.Stop())
	assert.False(t, pl.IsPlaying())
	assert.ErrorIs(t, pl.NotePress(1), control.ErrClosed)
}
