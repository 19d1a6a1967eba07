// Package effects holds the mono post-mix processors that can be chained
// after the voice pool.
package effects

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownEffect = errors.New("unknown effect")

// Effector processes one mono sample at a time.
type Effector interface {
	Process(x float32) float32
	Reset()
}

// Chain applies a sequence of effects in order.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(x float32) float32 {
	for _, e := range c.effects {
		x = e.Process(x)
	}
	return x
}

// ProcessBuffer runs the chain over buf in place.
func (c *Chain) ProcessBuffer(buf []float32) {
	if c == nil || len(c.effects) == 0 {
		return
	}
	for i, x := range buf {
		buf[i] = c.Process(x)
	}
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.effects)
}

// New builds an effect by name. Missing positional params take the
// defaults listed beside each constructor call.
func New(name string, params []float64, sampleRate int) (Effector, error) {
	get := func(idx int, def float64) float64 {
		if idx < len(params) {
			return params[idx]
		}
		return def
	}
	switch strings.ToLower(name) {
	case "delay":
		return NewDelay(sampleRate,
			get(0, 250),          // delay ms
			float32(get(1, 0.4)), // feedback
			float32(get(2, 0.3)), // wet
		), nil
	case "reverb":
		return NewReverb(sampleRate,
			float32(get(0, 0.5)),  // room size
			float32(get(1, 0.7)),  // feedback
			float32(get(2, 0.25)), // wet
		), nil
	case "chorus":
		return NewChorus(sampleRate,
			float32(get(0, 15)),  // delay ms
			float32(get(1, 0.3)), // feedback
			float32(get(2, 3)),   // depth ms
			float32(get(3, 1.5)), // rate Hz
			float32(get(4, 0.4)), // wet
		), nil
	case "dist", "distortion":
		return NewDistortion(sampleRate,
			float32(get(0, 4)),    // pre gain
			float32(get(1, 0.5)),  // post gain
			float32(get(2, 8000)), // lpf cutoff
		), nil
	case "eq":
		return NewEQ3Band(sampleRate,
			float32(get(0, 1.0)),  // low gain
			float32(get(1, 1.0)),  // mid gain
			float32(get(2, 1.0)),  // high gain
			float32(get(3, 300)),  // low freq
			float32(get(4, 3000)), // high freq
		), nil
	case "comp", "compressor":
		return NewCompressor(sampleRate,
			float32(get(0, -20)), // threshold dB
			float32(get(1, 4)),   // ratio
			float32(get(2, 5)),   // attack ms
			float32(get(3, 100)), // release ms
			float32(get(4, 0)),   // makeup dB
		), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownEffect, name)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
