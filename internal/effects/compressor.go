package effects

import "math"

// Compressor is a peak-following downward compressor.
type Compressor struct {
	threshold float32 // linear
	ratio     float32
	attack    float32 // follower coefficient
	release   float32
	makeup    float32
	env       float32
}

// NewCompressor creates a compressor effect.
// thresholdDB: threshold in dB (e.g., -20)
// ratio: compression ratio (e.g., 4 for 4:1)
// attackMs, releaseMs: follower times in ms
// makeupDB: makeup gain in dB
func NewCompressor(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float32) *Compressor {
	if ratio < 1 {
		ratio = 1
	}
	return &Compressor{
		threshold: dbToLinear(thresholdDB),
		ratio:     ratio,
		attack:    followerCoeff(sampleRate, attackMs),
		release:   followerCoeff(sampleRate, releaseMs),
		makeup:    dbToLinear(makeupDB),
	}
}

func (c *Compressor) Process(x float32) float32 {
	level := float32(math.Abs(float64(x)))
	if level > c.env {
		c.env += c.attack * (level - c.env)
	} else {
		c.env += c.release * (level - c.env)
	}
	return x * c.gain() * c.makeup
}

// gain maps the excess over threshold through the ratio.
func (c *Compressor) gain() float32 {
	if c.env <= c.threshold || c.threshold <= 0 {
		return 1
	}
	over := float64(c.env / c.threshold)
	return float32(math.Pow(over, float64(1/c.ratio-1)))
}

func (c *Compressor) Reset() { c.env = 0 }

func dbToLinear(db float32) float32 {
	return float32(math.Pow(10, float64(db)/20))
}

func followerCoeff(sampleRate int, ms float32) float32 {
	if ms <= 0 {
		return 1
	}
	return float32(1.0 - math.Exp(-1.0/(float64(ms)*float64(sampleRate)/1000.0)))
}
