package polysynth

import (
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/polysynth/polysynth/internal/config"
	"github.com/polysynth/polysynth/internal/synth"
)

// RenderChord plays notes together for hold seconds, releases them, and
// keeps rendering for tail seconds. The result is the post-mix mono stream
// exactly as a device would have received it.
func RenderChord(cfg *config.Config, notes []int, hold, tail float64) ([]float32, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if hold < 0 || tail < 0 {
		return nil, errors.New("hold and tail must not be negative")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := synth.New(nil, cfg.SynthParams())
	if err != nil {
		return nil, err
	}
	chain, err := cfg.EffectChain()
	if err != nil {
		return nil, err
	}
	mix := newMixer(s, chain, cfg.MasterVolume, nil)

	sr := float64(cfg.SampleRate)
	holdFrames := int(math.Round(hold * sr))
	tailFrames := int(math.Round(tail * sr))
	out := make([]float32, holdFrames+tailFrames)

	for _, n := range notes {
		s.NotePressed(n)
	}
	mix.Process(out[:holdFrames])
	s.AllNotesOff()
	mix.Process(out[holdFrames:])
	return out, nil
}

// WriteWAV encodes mono samples as 16-bit PCM. Samples are clipped to
// [-1, 1].
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return errors.New("sampleRate must be positive")
	}
	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, v := range samples {
		buf.Data[i] = int(math.Round(float64(clamp(v, -1, 1)) * math.MaxInt16))
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return nil
}
