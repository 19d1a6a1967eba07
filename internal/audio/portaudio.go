//go:build portaudio

package audio

import (
	"fmt"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// PortAudioOutput plays through the default PortAudio device. It is only
// built with the portaudio tag because it needs the C library.
type PortAudioOutput struct {
	stream  *portaudio.Stream
	src     SampleSource
	playing atomic.Bool
}

func NewPortAudioOutput(src SampleSource) (Output, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("can't init portaudio: %w", err)
	}
	o := &PortAudioOutput{src: src}
	stream, err := portaudio.OpenDefaultStream(0, src.ChannelCount(), float64(src.SampleRate()), portaudio.FramesPerBufferUnspecified, o.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("can't open portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("can't start portaudio stream: %w", err)
	}
	o.stream = stream
	return o, nil
}

// process runs on the PortAudio callback thread. While paused it writes
// silence without pulling from the source.
func (o *PortAudioOutput) process(out []float32) {
	if !o.playing.Load() {
		clear(out)
		return
	}
	o.src.Process(out)
}

func (o *PortAudioOutput) Play()           { o.playing.Store(true) }
func (o *PortAudioOutput) Pause()          { o.playing.Store(false) }
func (o *PortAudioOutput) IsPlaying() bool { return o.playing.Load() }

func (o *PortAudioOutput) Close() error {
	o.playing.Store(false)
	err := o.stream.Close()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
