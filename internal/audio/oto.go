package audio

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	otoOnce       sync.Once
	otoContext    *oto.Context
	otoErr        error
	otoSampleRate int
)

func sharedOtoContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		otoSampleRate = sampleRate
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
		}
		var ready chan struct{}
		otoContext, ready, otoErr = oto.NewContext(op)
		if otoErr == nil {
			<-ready
		}
	})
	if otoErr != nil {
		return nil, fmt.Errorf("oto context: %w", otoErr)
	}
	if otoSampleRate != sampleRate {
		return nil, fmt.Errorf("oto context already initialized at %d Hz (requested %d Hz)", otoSampleRate, sampleRate)
	}
	return otoContext, nil
}

// OtoOutput plays a mono stream directly through oto.
type OtoOutput struct {
	player *oto.Player
}

func NewOtoOutput(src SampleSource) (*OtoOutput, error) {
	ctx, err := sharedOtoContext(src.SampleRate())
	if err != nil {
		return nil, err
	}
	return &OtoOutput{player: ctx.NewPlayer(NewStreamReader(src, 1))}, nil
}

func (o *OtoOutput) Play()           { o.player.Play() }
func (o *OtoOutput) Pause()          { o.player.Pause() }
func (o *OtoOutput) IsPlaying() bool { return o.player.IsPlaying() }

func (o *OtoOutput) Close() error {
	o.player.Pause()
	return o.player.Close()
}
