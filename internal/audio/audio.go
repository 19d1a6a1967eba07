// Package audio connects a pull-based sample source to a sound device.
package audio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownBackend     = errors.New("unknown audio backend")
	ErrBackendUnavailable = errors.New("audio backend not compiled in")
)

// SampleSource produces interleaved float32 samples on demand. Process is
// called from the device goroutine only.
type SampleSource interface {
	Process(dst []float32)
	SampleRate() int
	ChannelCount() int
}

// Output is a running connection between a SampleSource and a device.
type Output interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

type Backend string

const (
	BackendEbiten    Backend = "ebiten"
	BackendOto       Backend = "oto"
	BackendPortAudio Backend = "portaudio"
	BackendNull      Backend = "null"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(s)); b {
	case BackendEbiten, BackendOto, BackendPortAudio, BackendNull:
		return b, nil
	case "":
		return BackendEbiten, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownBackend, s)
}

// Open starts src on the named backend, paused.
func Open(b Backend, src SampleSource) (Output, error) {
	var (
		out Output
		err error
	)
	switch b {
	case BackendEbiten, "":
		var o *EbitenOutput
		if o, err = NewEbitenOutput(src); err == nil {
			out = o
		}
	case BackendOto:
		var o *OtoOutput
		if o, err = NewOtoOutput(src); err == nil {
			out = o
		}
	case BackendPortAudio:
		out, err = NewPortAudioOutput(src)
	case BackendNull:
		out = NewNullOutput(src)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownBackend, b)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s output: %w", b, err)
	}
	return out, nil
}
