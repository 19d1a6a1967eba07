package waveform

import (
	"fmt"
	"math"
	"strings"
)

const twoPi = math.Pi * 2

// PulseDuty is the fraction of a pulse cycle spent high.
const PulseDuty = 0.2

// Type selects the shape an oscillator or wavetable produces.
type Type int

const (
	Sine Type = iota
	Saw
	Triangle
	Square
	Pulse
)

// Count is the number of waveform types.
const Count = 5

var names = [Count]string{"sine", "saw", "triangle", "square", "pulse"}

// All returns every waveform in declaration order.
func All() []Type {
	return []Type{Sine, Saw, Triangle, Square, Pulse}
}

func (t Type) Valid() bool { return t >= 0 && t < Count }

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("waveform(%d)", int(t))
	}
	return names[t]
}

// ParseType resolves a waveform by name. Matching is case-insensitive and
// accepts a few common short forms.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return Sine, nil
	case "saw", "sawtooth":
		return Saw, nil
	case "triangle", "tri":
		return Triangle, nil
	case "square", "sqr":
		return Square, nil
	case "pulse":
		return Pulse, nil
	}
	return Sine, fmt.Errorf("unknown waveform %q (expected sine|saw|triangle|square|pulse)", name)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid waveform %d", int(t))
	}
	return []byte(names[t]), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Eval returns the value of waveform t at phase angle x (radians).
// Every shape spans [-1, 1].
func Eval(t Type, x float64) float64 {
	switch t {
	case Saw:
		c := x / twoPi
		return 2 * (c - math.Floor(c+0.5))
	case Triangle:
		return math.Asin(math.Sin(x)) * (2 / math.Pi)
	case Square:
		// Inverted relative to sin: high on the negative half cycle.
		if math.Sin(x) < 0 {
			return 1
		}
		return -1
	case Pulse:
		c := x / twoPi
		if c-math.Floor(c) < PulseDuty {
			return 1
		}
		return -1
	default:
		return math.Sin(x)
	}
}
