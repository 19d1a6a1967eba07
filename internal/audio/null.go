package audio

import (
	"sync"
	"sync/atomic"
	"time"
)

// NullOutput pulls from its source at the real-time rate and discards the
// result. It keeps a synth's clock advancing on machines without a sound
// device.
type NullOutput struct {
	src     SampleSource
	period  time.Duration
	frames  int
	playing atomic.Bool
	pulled  atomic.Int64
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NullBlock is the number of frames pulled per wakeup.
const NullBlock = 256

func NewNullOutput(src SampleSource) *NullOutput {
	sr := src.SampleRate()
	if sr <= 0 {
		sr = 44100
	}
	o := &NullOutput{
		src:    src,
		period: time.Duration(NullBlock) * time.Second / time.Duration(sr),
		frames: NullBlock,
		done:   make(chan struct{}),
	}
	o.wg.Add(1)
	go o.run()
	return o
}

func (o *NullOutput) run() {
	defer o.wg.Done()
	ch := max(o.src.ChannelCount(), 1)
	buf := make([]float32, o.frames*ch)
	t := time.NewTicker(o.period)
	defer t.Stop()
	for {
		select {
		case <-o.done:
			return
		case <-t.C:
			if !o.playing.Load() {
				continue
			}
			o.src.Process(buf)
			o.pulled.Add(int64(o.frames))
		}
	}
}

func (o *NullOutput) Play()           { o.playing.Store(true) }
func (o *NullOutput) Pause()          { o.playing.Store(false) }
func (o *NullOutput) IsPlaying() bool { return o.playing.Load() }

// Frames is the number of frames pulled so far.
func (o *NullOutput) Frames() int64 { return o.pulled.Load() }

func (o *NullOutput) Close() error {
	o.once.Do(func() {
		o.playing.Store(false)
		close(o.done)
		o.wg.Wait()
	})
	return nil
}
