package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"
)

type rampSource struct {
	channels int
	next     float32
}

func (s *rampSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = s.next
		s.next++
	}
}

func (s *rampSource) SampleRate() int   { return 8000 }
func (s *rampSource) ChannelCount() int { return s.channels }

func decode(p []byte) []float32 {
	out := make([]float32, len(p)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	return out
}

func TestStreamReaderDuplicatesMonoToStereo(t *testing.T) {
	r := NewStreamReader(&rampSource{channels: 1}, 2)
	p := make([]byte, 8*4+3) // trailing partial frame is ignored
	n, err := r.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 32 {
		t.Fatalf("read %d bytes, want 32", n)
	}
	got := decode(p[:n])
	want := []float32{0, 0, 1, 1, 2, 2, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %f, want %f (all %v)", i, got[i], want[i], got)
		}
	}
}

func TestStreamReaderMonoPassThrough(t *testing.T) {
	r := NewStreamReader(&rampSource{channels: 1}, 1)
	p := make([]byte, 16)
	n, err := r.Read(p)
	if err != nil || n != 16 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	got := decode(p)
	for i, v := range got {
		if v != float32(i) {
			t.Fatalf("sample %d = %f", i, v)
		}
	}
	// The source continues where it left off.
	r.Read(p)
	if got := decode(p)[0]; got != 4 {
		t.Fatalf("second read starts at %f, want 4", got)
	}
}

func TestStreamReaderStereoSource(t *testing.T) {
	r := NewStreamReader(&rampSource{channels: 2}, 2)
	p := make([]byte, 16)
	r.Read(p)
	got := decode(p)
	for i, v := range got {
		if v != float32(i) {
			t.Fatalf("sample %d = %f", i, v)
		}
	}
}

func TestStreamReaderShortBuffer(t *testing.T) {
	r := NewStreamReader(&rampSource{channels: 1}, 2)
	n, err := r.Read(make([]byte, 7))
	if n != 0 || err != nil {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestParseBackend(t *testing.T) {
	for in, want := range map[string]Backend{"": BackendEbiten, "OTO": BackendOto, "null": BackendNull, "portaudio": BackendPortAudio} {
		got, err := ParseBackend(in)
		if err != nil || got != want {
			t.Errorf("ParseBackend(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseBackend("alsa"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
	if _, err := Open("alsa", &rampSource{channels: 1}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestNullOutputPullsOnlyWhilePlaying(t *testing.T) {
	out, err := Open(BackendNull, &rampSource{channels: 1})
	if err != nil {
		t.Fatal(err)
	}
	o := out.(*NullOutput)
	defer o.Close()

	time.Sleep(100 * time.Millisecond)
	if o.Frames() != 0 {
		t.Fatalf("paused output pulled %d frames", o.Frames())
	}
	o.Play()
	if !o.IsPlaying() {
		t.Fatal("expected playing")
	}
	deadline := time.Now().Add(2 * time.Second)
	for o.Frames() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if o.Frames() == 0 {
		t.Fatal("playing output never pulled")
	}
	o.Pause()
	if err := o.Close(); err != nil {
		t.Fatal(err)
	}
	if err := o.Close(); err != nil {
		t.Fatal(err)
	}
}
