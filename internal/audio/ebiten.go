package audio

import (
	"fmt"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// sharedAudioContext returns the process-wide ebiten context. Ebiten allows
// only one, so later callers must ask for the same rate.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// EbitenOutput plays through ebiten's audio context, which always runs in
// stereo.
type EbitenOutput struct {
	player *ebitaudio.Player
	reader *StreamReader
}

func NewEbitenOutput(src SampleSource) (*EbitenOutput, error) {
	ctx, err := sharedAudioContext(src.SampleRate())
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(src, 2)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, fmt.Errorf("ebiten player: %w", err)
	}
	pl.SetBufferSize(20 * time.Millisecond)
	return &EbitenOutput{player: pl, reader: reader}, nil
}

func (o *EbitenOutput) Play()           { o.player.Play() }
func (o *EbitenOutput) Pause()          { o.player.Pause() }
func (o *EbitenOutput) IsPlaying() bool { return o.player.IsPlaying() }

// Position returns what the listener is hearing now.
func (o *EbitenOutput) Position() time.Duration {
	return o.player.Position()
}

func (o *EbitenOutput) Close() error {
	o.player.Pause()
	if err := o.player.Close(); err != nil {
		return err
	}
	return o.reader.Close()
}
