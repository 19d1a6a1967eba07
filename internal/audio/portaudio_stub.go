//go:build !portaudio

package audio

// NewPortAudioOutput reports ErrBackendUnavailable; build with
// -tags portaudio to enable it.
func NewPortAudioOutput(src SampleSource) (Output, error) {
	return nil, ErrBackendUnavailable
}
