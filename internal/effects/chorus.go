package effects

import "math"

// Chorus is a sine-modulated short delay. Small delays with high feedback
// give a flanger.
type Chorus struct {
	buf      []float32
	pos      int
	depth    float32 // samples
	rate     float64 // radians per sample
	phase    float64
	feedback float32
	wet      float32
}

// NewChorus creates a chorus/flanger effect.
// delayMs: base delay time in ms (typically 5-30ms)
// feedback: feedback amount 0..0.9
// depthMs: modulation depth in ms
// rateHz: modulation rate in Hz
// wet: wet/dry mix 0..1
func NewChorus(sampleRate int, delayMs, feedback, depthMs, rateHz, wet float32) *Chorus {
	baseSamples := int(float64(delayMs) * float64(sampleRate) / 1000.0)
	depthSamples := float64(depthMs) * float64(sampleRate) / 1000.0
	size := max(baseSamples+int(depthSamples)+2, 4)
	return &Chorus{
		buf:      make([]float32, size),
		depth:    float32(depthSamples),
		rate:     2.0 * math.Pi * float64(rateHz) / float64(sampleRate),
		feedback: clamp(feedback, 0, 0.9),
		wet:      clamp(wet, 0, 1),
	}
}

func (c *Chorus) Process(x float32) float32 {
	mod := float32(math.Sin(c.phase)) * c.depth
	c.phase += c.rate
	if c.phase > 2*math.Pi {
		c.phase -= 2 * math.Pi
	}
	c.buf[c.pos] = x

	size := len(c.buf)
	readPos := float32(c.pos) - (float32(size/2) + mod)
	for readPos < 0 {
		readPos += float32(size)
	}
	i0 := int(readPos) % size
	i1 := (i0 + 1) % size
	frac := readPos - float32(int(readPos))
	delayed := c.buf[i0]*(1-frac) + c.buf[i1]*frac

	c.buf[c.pos] += delayed * c.feedback
	c.pos = (c.pos + 1) % size
	return x*(1-c.wet) + delayed*c.wet
}

func (c *Chorus) Reset() {
	clear(c.buf)
	c.pos = 0
	c.phase = 0
}
