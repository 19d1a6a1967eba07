package audio

import (
	"encoding/binary"
	"math"
)

// StreamReader encodes a SampleSource as little-endian float32 frames with
// a fixed output channel count. Mono sources are duplicated across the
// output channels; sources that already match are copied through.
type StreamReader struct {
	source   SampleSource
	channels int
	buf      []float32
}

func NewStreamReader(source SampleSource, channels int) *StreamReader {
	if channels < 1 {
		channels = 1
	}
	return &StreamReader{source: source, channels: channels}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	frameBytes := 4 * r.channels
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}
	in := r.source.ChannelCount()
	if in < 1 {
		in = 1
	}
	need := frames * in
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)

	off := 0
	for f := 0; f < frames; f++ {
		for c := 0; c < r.channels; c++ {
			v := r.buf[f*in+min(c, in-1)]
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(v))
			off += 4
		}
	}
	return frames * frameBytes, nil
}

func (r *StreamReader) Close() error { return nil }
