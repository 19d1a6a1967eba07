// Package polysynth is a polyphonic software synthesizer. A Player owns the
// voice pool, the audio device connection and the control channel that
// feeds note and parameter changes to the audio goroutine.
package polysynth

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/polysynth/polysynth/internal/audio"
	"github.com/polysynth/polysynth/internal/clock"
	"github.com/polysynth/polysynth/internal/config"
	"github.com/polysynth/polysynth/internal/control"
	"github.com/polysynth/polysynth/internal/effects"
	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/synth"
	"github.com/polysynth/polysynth/internal/voice"
)

// ErrRestartRequired is returned by Reload when static settings changed.
// Dynamic settings from the new config are still applied.
var ErrRestartRequired = errors.New("static settings changed; restart to apply")

type PlayerOption func(*playerConfig)

type playerConfig struct {
	cfg        *config.Config
	sampleRate int
	backend    audio.Backend
	sampleTap  func([]float32)
	clock      clock.Clock
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{backend: audio.BackendEbiten}
}

// WithConfig sets the patch. Without it the built-in default patch is used.
func WithConfig(cfg *config.Config) PlayerOption {
	return func(pc *playerConfig) {
		pc.cfg = cfg
	}
}

// WithSampleRate overrides the sample rate of the patch.
func WithSampleRate(sampleRate int) PlayerOption {
	return func(pc *playerConfig) {
		pc.sampleRate = sampleRate
	}
}

func WithBackend(b audio.Backend) PlayerOption {
	return func(pc *playerConfig) {
		pc.backend = b
	}
}

// WithSampleTap installs a callback invoked with each generated mono buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(pc *playerConfig) {
		pc.sampleTap = tap
	}
}

// WithClock replaces the sample-counting clock envelopes are timed by.
func WithClock(c clock.Clock) PlayerOption {
	return func(pc *playerConfig) {
		pc.clock = c
	}
}

type Player struct {
	mu      sync.Mutex
	cfg     *config.Config
	backend audio.Backend
	synth   *synth.Synth
	tx      *control.Sender
	mix     *mixer
	out     audio.Output
}

// mixer is the post-mix stage between the voice pool and the device:
// effects, master EQ, master volume, clipping and the sample tap.
type mixer struct {
	synth     *synth.Synth
	effects   atomic.Pointer[effects.Chain]
	eq        *effects.EQ5Band
	volume    atomic.Uint64 // float64 bits
	sampleTap func([]float32)
}

func newMixer(s *synth.Synth, chain *effects.Chain, volume float64, tap func([]float32)) *mixer {
	m := &mixer{
		synth:     s,
		eq:        effects.NewEQ5Band(s.SampleRate()),
		sampleTap: tap,
	}
	m.effects.Store(chain)
	m.setVolume(volume)
	return m
}

func (m *mixer) setVolume(v float64) {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	m.volume.Store(math.Float64bits(v))
}

func (m *mixer) getVolume() float64 { return math.Float64frombits(m.volume.Load()) }

func (m *mixer) Process(dst []float32) {
	m.synth.Process(dst)
	m.effects.Load().ProcessBuffer(dst)
	eqOn := !m.eq.Flat()
	vol := float32(m.getVolume())
	for i, x := range dst {
		if eqOn {
			x = m.eq.Process(x)
		}
		dst[i] = clamp(x*vol, -1, 1)
	}
	if m.sampleTap != nil {
		m.sampleTap(dst)
	}
}

func (m *mixer) SampleRate() int   { return m.synth.SampleRate() }
func (m *mixer) ChannelCount() int { return m.synth.ChannelCount() }

func NewPlayer(opts ...PlayerOption) (*Player, error) {
	pc := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&pc)
	}
	cfg := pc.cfg
	if cfg == nil {
		cfg = config.Default()
	}
	if pc.sampleRate != 0 {
		if pc.sampleRate < 0 {
			return nil, errors.New("sampleRate must be positive")
		}
		c := *cfg
		c.SampleRate = pc.sampleRate
		cfg = &c
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tx, rx := control.NewChannel(cfg.EventBuffer)
	var synthOpts []synth.Option
	if pc.clock != nil {
		synthOpts = append(synthOpts, synth.WithClock(pc.clock))
	}
	s, err := synth.New(rx, cfg.SynthParams(), synthOpts...)
	if err != nil {
		return nil, err
	}
	chain, err := cfg.EffectChain()
	if err != nil {
		return nil, err
	}
	return &Player{
		cfg:     cfg,
		backend: pc.backend,
		synth:   s,
		tx:      tx,
		mix:     newMixer(s, chain, cfg.MasterVolume, pc.sampleTap),
	}, nil
}

// Start opens the audio device, if not already open, and begins playback.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		out, err := audio.Open(p.backend, p.mix)
		if err != nil {
			return err
		}
		p.out = out
	}
	p.out.Play()
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out != nil {
		p.out.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out != nil {
		p.out.Play()
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out != nil && p.out.IsPlaying()
}

// Stop closes the audio device and disconnects the control channel. The
// Player cannot be restarted afterwards.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tx.Close()
	if p.out == nil {
		return nil
	}
	err := p.out.Close()
	p.out = nil
	return err
}

func (p *Player) NotePress(note int) error   { return p.tx.TrySend(control.Press(note)) }
func (p *Player) NoteRelease(note int) error { return p.tx.TrySend(control.Release(note)) }
func (p *Player) AllNotesOff() error         { return p.tx.TrySend(control.NotesOff()) }

func (p *Player) SetOscillator(slot int, sp voice.SlotParams) error {
	return p.tx.TrySend(control.Oscillator(slot, sp))
}

func (p *Player) SetEnvelope(param envelope.Param, v float64) error {
	return p.tx.TrySend(control.Envelope(param, v))
}

func (p *Player) SetLFO(rateHz, depth float64) error {
	return p.tx.TrySend(control.LFO(rateHz, depth))
}

// Apply queues events in order and stops at the first failure.
func (p *Player) Apply(events ...control.Event) error {
	for i, ev := range events {
		if err := p.tx.TrySend(ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Kind, err)
		}
	}
	return nil
}

// Reload moves the running patch to cfg. Dynamic settings are queued as
// control events or swapped in directly; changed static settings are
// reported with ErrRestartRequired.
func (p *Player) Reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	prev := p.cfg
	p.mu.Unlock()

	if err := p.Apply(config.Diff(prev, cfg)...); err != nil {
		return err
	}
	if config.EffectsChanged(prev, cfg) {
		chain, err := cfg.EffectChain()
		if err != nil {
			return err
		}
		p.mix.effects.Store(chain)
	}
	p.mix.setVolume(cfg.MasterVolume)

	next := *cfg
	next.StaticConfig = prev.StaticConfig
	p.mu.Lock()
	p.cfg = &next
	p.mu.Unlock()

	if config.StaticChanged(prev, cfg) {
		return ErrRestartRequired
	}
	return nil
}

// SetMasterVolume sets the post-mix gain. Negative values clamp to 0.
// It takes effect on the audio thread without locking.
func (p *Player) SetMasterVolume(volume float64) { p.mix.setVolume(volume) }

func (p *Player) MasterVolume() float64 { return p.mix.getVolume() }

// SetEQBand sets the gain for a master EQ band (0-4). 1.0 = unity.
// Band frequencies: 0=<200Hz, 1=200-800Hz, 2=800-2.5kHz, 3=2.5-8kHz, 4=>8kHz.
func (p *Player) SetEQBand(band int, gain float32) {
	p.mix.eq.SetGain(band, gain)
}

func (p *Player) EQBand(band int) float32 {
	return p.mix.eq.Gain(band)
}

func (p *Player) SampleRate() int { return p.synth.SampleRate() }

// Config returns the patch currently in effect.
func (p *Player) Config() *config.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// Synth exposes the voice pool. Only touch it from the audio goroutine, or
// while no output is running.
func (p *Player) Synth() *synth.Synth { return p.synth }

// Source is the post-mix sample stream. Pulling from it advances the
// synth; use it for offline rendering only when no output is running.
func (p *Player) Source() audio.SampleSource { return p.mix }

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
