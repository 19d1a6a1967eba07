package envelope

import (
	"errors"
	"fmt"
	"math"
)

// Silence is the level at or below which Amplitude reports exactly zero.
// The voice pool relies on an exact zero to retire released notes.
const Silence = 1e-4

var ErrInvalidValue = errors.New("envelope value must be a finite non-negative number")

// Param names one adjustable envelope field.
type Param int

const (
	Attack Param = iota
	Decay
	Release
	Sustain
	Start
)

func (p Param) String() string {
	switch p {
	case Attack:
		return "attack"
	case Decay:
		return "decay"
	case Release:
		return "release"
	case Sustain:
		return "sustain"
	case Start:
		return "start"
	}
	return fmt.Sprintf("param(%d)", int(p))
}

func (p Param) Valid() bool { return p >= Attack && p <= Start }

// ADSR is a stateless attack-decay-sustain-release curve. Times are seconds,
// levels are linear gain. Decay begins when the attack ends.
type ADSR struct {
	AttackTime   float64
	DecayTime    float64
	ReleaseTime  float64
	SustainLevel float64
	StartLevel   float64
}

// Default returns the stock envelope: a one second swell to 0.11 that settles
// to 0.1 over the following second and fades out over two.
func Default() ADSR {
	return ADSR{
		AttackTime:   1.0,
		DecayTime:    1.0,
		ReleaseTime:  2.0,
		SustainLevel: 0.1,
		StartLevel:   0.11,
	}
}

// Validate reports whether every field is finite and non-negative.
func (e ADSR) Validate() error {
	for _, v := range []float64{e.AttackTime, e.DecayTime, e.ReleaseTime, e.SustainLevel, e.StartLevel} {
		if !validValue(v) {
			return ErrInvalidValue
		}
	}
	return nil
}

// Set changes one field.
func (e *ADSR) Set(p Param, v float64) error {
	if !validValue(v) {
		return fmt.Errorf("%s %v: %w", p, v, ErrInvalidValue)
	}
	switch p {
	case Attack:
		e.AttackTime = v
	case Decay:
		e.DecayTime = v
	case Release:
		e.ReleaseTime = v
	case Sustain:
		e.SustainLevel = v
	case Start:
		e.StartLevel = v
	default:
		return fmt.Errorf("unknown envelope param %d", int(p))
	}
	return nil
}

// Get returns the current value of one field.
func (e ADSR) Get(p Param) float64 {
	switch p {
	case Attack:
		return e.AttackTime
	case Decay:
		return e.DecayTime
	case Release:
		return e.ReleaseTime
	case Sustain:
		return e.SustainLevel
	case Start:
		return e.StartLevel
	}
	return 0
}

// Level is the held-note curve at lifetime seconds after note-on.
func (e ADSR) Level(lifetime float64) float64 {
	switch {
	case lifetime < 0:
		return 0
	case lifetime <= e.AttackTime:
		if e.AttackTime <= 0 {
			return e.StartLevel
		}
		return lifetime / e.AttackTime * e.StartLevel
	case lifetime <= e.AttackTime+e.DecayTime:
		if e.DecayTime <= 0 {
			return e.SustainLevel
		}
		frac := (lifetime - e.AttackTime) / e.DecayTime
		return e.StartLevel + frac*(e.SustainLevel-e.StartLevel)
	default:
		return e.SustainLevel
	}
}

// Amplitude evaluates the envelope at time for a note triggered at
// triggerOn and, once pressed is false, released at triggerOff.
func (e ADSR) Amplitude(time, triggerOn, triggerOff float64, pressed bool) float64 {
	var amp float64
	if pressed {
		amp = e.Level(time - triggerOn)
	} else {
		from := e.Level(triggerOff - triggerOn)
		elapsed := time - triggerOff
		switch {
		case elapsed < 0:
			amp = from
		case elapsed >= e.ReleaseTime:
			amp = 0
		default:
			amp = from * (1 - elapsed/e.ReleaseTime)
		}
	}
	if amp <= Silence {
		return 0
	}
	return amp
}

func validValue(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
