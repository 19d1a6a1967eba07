package effects

import (
	"math"
	"sync/atomic"
)

// Bands is the number of EQ5Band bands.
const Bands = 5

// Crossovers are the band edges of EQ5Band in Hz.
var Crossovers = [Bands - 1]float64{200, 800, 2500, 8000}

// EQ5Band is the master equaliser. Gains are stored as float32 bit patterns
// so a control goroutine can change them while the audio goroutine reads.
type EQ5Band struct {
	gains  [Bands]atomic.Uint32
	alphas [Bands - 1]float32
	lp     [Bands - 1]float32
}

// NewEQ5Band creates a 5-band EQ with all gains at unity.
func NewEQ5Band(sampleRate int) *EQ5Band {
	eq := &EQ5Band{}
	for i, freq := range Crossovers {
		eq.alphas[i] = onePoleAlpha(sampleRate, freq)
	}
	for i := range eq.gains {
		eq.gains[i].Store(math.Float32bits(1))
	}
	return eq
}

// SetGain sets the linear gain of band 0..4. Out of range bands are ignored.
func (eq *EQ5Band) SetGain(band int, gain float32) {
	if band >= 0 && band < Bands {
		eq.gains[band].Store(math.Float32bits(gain))
	}
}

func (eq *EQ5Band) Gain(band int) float32 {
	if band >= 0 && band < Bands {
		return math.Float32frombits(eq.gains[band].Load())
	}
	return 1
}

// Flat reports whether every band is at unity.
func (eq *EQ5Band) Flat() bool {
	for i := range eq.gains {
		if eq.Gain(i) != 1 {
			return false
		}
	}
	return true
}

func (eq *EQ5Band) Process(x float32) float32 {
	var out float32
	rem := x
	for i := range eq.alphas {
		eq.lp[i] += eq.alphas[i] * (rem - eq.lp[i])
		out += eq.lp[i] * eq.Gain(i)
		rem -= eq.lp[i]
	}
	return out + rem*eq.Gain(Bands-1)
}

func (eq *EQ5Band) Reset() {
	clear(eq.lp[:])
}
