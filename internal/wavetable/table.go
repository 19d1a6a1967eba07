package wavetable

import (
	"errors"
	"fmt"
	"math"

	"github.com/polysynth/polysynth/internal/waveform"
)

const twoPi = math.Pi * 2

// DefaultSize is the number of samples per cycle used when none is configured.
const DefaultSize = 128

var ErrTableSize = errors.New("wavetable size must be at least 2")

// Table is one precomputed waveform cycle. It is never mutated after New
// returns, so any number of oscillators may read it concurrently.
type Table struct {
	wave    waveform.Type
	samples []float64
}

// New precomputes size samples spanning one cycle of w.
func New(size int, w waveform.Type) (*Table, error) {
	if size < 2 {
		return nil, ErrTableSize
	}
	if !w.Valid() {
		return nil, fmt.Errorf("wavetable: invalid waveform %d", int(w))
	}
	samples := make([]float64, size)
	for i := range samples {
		samples[i] = waveform.Eval(w, twoPi*float64(i)/float64(size))
	}
	return &Table{wave: w, samples: samples}, nil
}

func (t *Table) Wave() waveform.Type { return t.wave }
func (t *Table) Len() int            { return len(t.samples) }

// At returns the raw sample at index i, wrapping out-of-range indices.
func (t *Table) At(i int) float64 {
	n := len(t.samples)
	i %= n
	if i < 0 {
		i += n
	}
	return t.samples[i]
}

// Lerp linearly interpolates between the two entries bracketing pos.
// pos is expected in [0, Len()).
func (t *Table) Lerp(pos float64) float64 {
	idx := math.Floor(pos)
	frac := pos - idx
	n := len(t.samples)
	i0 := int(idx) % n
	if i0 < 0 {
		i0 += n
	}
	i1 := (i0 + 1) % n
	return t.samples[i0]*(1-frac) + t.samples[i1]*frac
}

// Bank holds one table per waveform, all of the same size.
type Bank struct {
	size   int
	tables [waveform.Count]*Table
}

// NewBank builds a table of the given size for every waveform.
func NewBank(size int) (*Bank, error) {
	b := &Bank{size: size}
	for _, w := range waveform.All() {
		t, err := New(size, w)
		if err != nil {
			return nil, fmt.Errorf("build %s table: %w", w, err)
		}
		b.tables[w] = t
	}
	return b, nil
}

func (b *Bank) Size() int { return b.size }

// Table returns the table for w. Invalid types fall back to sine.
func (b *Bank) Table(w waveform.Type) *Table {
	if !w.Valid() {
		return b.tables[waveform.Sine]
	}
	return b.tables[w]
}
