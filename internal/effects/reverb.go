package effects

// Reverb is a Schroeder reverberator: four parallel combs into two series
// allpasses.
type Reverb struct {
	combs   [4]delayLine
	allpass [2]delayLine
	wet     float32
}

type delayLine struct {
	buf []float32
	pos int
	fb  float32
}

// NewReverb creates a reverb effect.
// roomSize: 0..1 scales the delay lengths
// feedback: 0..0.95 sets the decay time
// wet: wet/dry mix 0..1
func NewReverb(sampleRate int, roomSize, feedback, wet float32) *Reverb {
	base := max(int(float32(sampleRate)*roomSize*0.05), 10)
	fb := clamp(feedback, 0, 0.95)
	r := &Reverb{wet: clamp(wet, 0, 1)}
	// Mutually prime-ish ratios keep the comb resonances apart.
	combLens := [4]int{base, base * 1117 / 1000, base * 1271 / 1000, base * 1437 / 1000}
	for i := range r.combs {
		r.combs[i] = delayLine{buf: make([]float32, combLens[i]), fb: fb}
	}
	apLens := [2]int{base * 347 / 1000, base * 213 / 1000}
	for i := range r.allpass {
		r.allpass[i] = delayLine{buf: make([]float32, max(apLens[i], 1)), fb: 0.5}
	}
	return r
}

func (r *Reverb) Process(x float32) float32 {
	var tail float32
	for i := range r.combs {
		tail += r.combs[i].comb(x)
	}
	tail *= 0.25
	for i := range r.allpass {
		tail = r.allpass[i].allpass(tail)
	}
	return x*(1-r.wet) + tail*r.wet
}

func (r *Reverb) Reset() {
	for i := range r.combs {
		r.combs[i].reset()
	}
	for i := range r.allpass {
		r.allpass[i].reset()
	}
}

func (d *delayLine) comb(in float32) float32 {
	out := d.buf[d.pos]
	d.buf[d.pos] = in + out*d.fb
	d.advance()
	return out
}

func (d *delayLine) allpass(in float32) float32 {
	delayed := d.buf[d.pos]
	d.buf[d.pos] = in + delayed*d.fb
	d.advance()
	return delayed - in
}

func (d *delayLine) advance() {
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
}

func (d *delayLine) reset() {
	clear(d.buf)
	d.pos = 0
}
