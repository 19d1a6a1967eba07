// Package clock supplies the time base that note trigger timestamps and
// envelope evaluation are measured against.
package clock

import "time"

// Clock reports seconds since some fixed origin.
type Clock interface {
	Now() float64
}

// Ticker is implemented by clocks that advance once per produced sample.
type Ticker interface {
	Tick()
}

// SampleClock counts produced samples. It is deterministic and keeps
// envelope timing locked to the audio stream.
type SampleClock struct {
	sampleRate float64
	ticks      uint64
}

func NewSampleClock(sampleRate int) *SampleClock {
	if sampleRate <= 0 {
		sampleRate = 1
	}
	return &SampleClock{sampleRate: float64(sampleRate)}
}

func (c *SampleClock) Now() float64  { return float64(c.ticks) / c.sampleRate }
func (c *SampleClock) Tick()         { c.ticks++ }
func (c *SampleClock) Ticks() uint64 { return c.ticks }
func (c *SampleClock) Reset()        { c.ticks = 0 }

// WallClock reads elapsed wall time since construction.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Now() float64 { return time.Since(c.start).Seconds() }
