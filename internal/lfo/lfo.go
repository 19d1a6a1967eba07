package lfo

import "math"

// MaxRateHz bounds the LFO rate; anything faster is audio-rate FM.
const MaxRateHz = 50.0

// LFO holds the shared low-frequency modulation applied to every voice.
// Oscillators evaluate it with PhaseOffset or FrequencyRatio against their
// own time base.
type LFO struct {
	depth  float64 // phase deviation in carrier cycles per Hz of carrier
	rateHz float64
}

// New returns an LFO with the given depth and rate.
func New(depth, rateHz float64) LFO {
	var l LFO
	l.Set(depth, rateHz)
	return l
}

// Set configures the LFO parameters. Negative or non-finite inputs are
// treated as zero and the rate is capped at MaxRateHz.
func (l *LFO) Set(depth, rateHz float64) {
	l.depth = sanitize(depth)
	l.rateHz = math.Min(sanitize(rateHz), MaxRateHz)
}

func (l *LFO) Depth() float64 { return l.depth }
func (l *LFO) Rate() float64  { return l.rateHz }

// Active returns true if the LFO has non-zero depth and rate.
func (l *LFO) Active() bool {
	return l.depth != 0 && l.rateHz != 0
}

// Params returns the (frequency, depth) pair handed to oscillators, or zeros
// when the LFO is inactive.
func (l *LFO) Params() (float64, float64) {
	if !l.Active() {
		return 0, 0
	}
	return l.rateHz, l.depth
}

// PhaseOffset is the vibrato phase shift at time t, in radians per Hz of
// carrier frequency: a carrier at f Hz is evaluated at 2*pi*f*t plus
// f*PhaseOffset.
func PhaseOffset(rateHz, depth, t float64) float64 {
	if rateHz == 0 || depth == 0 {
		return 0
	}
	return depth * math.Sin(2*math.Pi*rateHz*t)
}

// FrequencyRatio is the instantaneous frequency of the same vibrato relative
// to the carrier. It is the time derivative of PhaseOffset over 2*pi, so
// oscillators that integrate frequency and oscillators that evaluate phase
// directly swing by the same amount.
func FrequencyRatio(rateHz, depth, t float64) float64 {
	if rateHz == 0 || depth == 0 {
		return 1
	}
	return 1 + depth*rateHz*math.Cos(2*math.Pi*rateHz*t)
}

func sanitize(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
