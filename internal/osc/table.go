package osc

import (
	"math"

	"github.com/polysynth/polysynth/internal/lfo"
	"github.com/polysynth/polysynth/internal/waveform"
	"github.com/polysynth/polysynth/internal/wavetable"
)

// Table reads a shared wavetable with linear interpolation. Position is the
// fractional table index.
type Table struct {
	base
	bank  *wavetable.Bank
	table *wavetable.Table
	index float64
	ticks float64
}

func NewTable(bank *wavetable.Bank, sampleRate int, freq float64, w waveform.Type, gainDB float64) *Table {
	return &Table{
		base:  newBase(float64(sampleRate), freq, w, gainDB),
		bank:  bank,
		table: bank.Table(w),
	}
}

func (o *Table) SetWave(w waveform.Type) {
	o.wave = w
	o.table = o.bank.Table(w)
}

func (o *Table) Sample(lfoFreq, lfoDepth float64) float32 {
	sig := o.table.Lerp(o.index)

	freq := o.freq * lfo.FrequencyRatio(lfoFreq, lfoDepth, o.ticks/o.sampleRate)
	o.ticks++

	size := float64(o.table.Len())
	o.index = math.Mod(o.index+freq*size/o.sampleRate, size)
	switch {
	case math.IsNaN(o.index):
		o.index = 0
	case o.index < 0:
		o.index += size
	}
	return float32(sig * o.amp)
}

func (o *Table) Position() float64 { return o.index }
func (o *Table) Elapsed() float64  { return o.ticks }

// TableFactory builds Table oscillators sharing one bank.
type TableFactory struct {
	Bank       *wavetable.Bank
	SampleRate int
}

func NewTableFactory(bank *wavetable.Bank, sampleRate int) TableFactory {
	return TableFactory{Bank: bank, SampleRate: sampleRate}
}

func (f TableFactory) New(freq float64, w waveform.Type, gainDB float64, at Phase) Oscillator {
	o := NewTable(f.Bank, f.SampleRate, freq, w, gainDB)
	size := float64(o.table.Len())
	if at.Position > 0 && at.Position < size {
		o.index = at.Position
	}
	if at.Elapsed > 0 {
		o.ticks = math.Floor(at.Elapsed)
	}
	return o
}
