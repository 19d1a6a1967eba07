package polysynth

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysynth/polysynth/internal/config"
	"github.com/polysynth/polysynth/internal/synth"
)

func shortPatch(t *testing.T, doc string) *config.Config {
	t.Helper()
	c, err := config.Parse([]byte(doc))
	require.NoError(t, err)
	return c
}

const fastDoc = `{
	"envelope": {"attackSeconds": 0.02, "decaySeconds": 0.05, "releaseSeconds": 0.1, "sustainLevel": 0.3, "startLevel": 0.5},
	"masterVolume": 1
}`

func hashSamples(samples []float32) [32]byte {
	buf := make([]byte, 4*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return sha256.Sum256(buf)
}

func TestRenderChordIsDeterministic(t *testing.T) {
	for _, flavor := range []synth.Flavor{synth.FlavorFormula, synth.FlavorWavetable} {
		t.Run(string(flavor), func(t *testing.T) {
			cfg := shortPatch(t, fastDoc)
			cfg.Oscillator = flavor
			cfg.Effects = []config.EffectConfig{{Type: "delay", Params: []float64{30}}, {Type: "chorus"}}

			a, err := RenderChord(cfg, []int{0, 4, 7}, 0.3, 0.2)
			require.NoError(t, err)
			b, err := RenderChord(cfg, []int{0, 4, 7}, 0.3, 0.2)
			require.NoError(t, err)
			assert.Equal(t, hashSamples(a), hashSamples(b))
		})
	}
}

func TestRenderChordShape(t *testing.T) {
	cfg := shortPatch(t, fastDoc)
	out, err := RenderChord(cfg, []int{0, 7}, 0.25, 0.25)
	require.NoError(t, err)
	require.Len(t, out, int(0.5*float64(cfg.SampleRate)))

	assert.Zero(t, out[0])
	var peak float64
	for _, v := range out {
		require.LessOrEqual(t, math.Abs(float64(v)), 1.0)
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	assert.Greater(t, peak, 0.1)

	// The 100ms release has finished well before the end of the tail.
	for i, v := range out[len(out)-1000:] {
		require.Zerof(t, v, "tail sample %d", i)
	}
}

func TestRenderChordRejectsNegativeDurations(t *testing.T) {
	_, err := RenderChord(nil, []int{0}, -1, 0)
	assert.Error(t, err)
}

func TestWriteWAVRoundTrip(t *testing.T) {
	const sr = 22050
	samples := make([]float32, 2000)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / sr))
	}
	samples[10] = 3 // clipped

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, samples, sr))
	require.NoError(t, f.Close())

	r, err := os.Open(path)
	require.NoError(t, err)
	defer r.Close()
	dec := wav.NewDecoder(r)
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, uint32(sr), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint16(16), dec.BitDepth)
	require.Len(t, buf.Data, len(samples))
	assert.Equal(t, math.MaxInt16, buf.Data[10])
	for i, v := range buf.Data {
		want := float64(clamp(samples[i], -1, 1))
		require.InDeltaf(t, want, float64(v)/math.MaxInt16, 1.0/math.MaxInt16, "sample %d", i)
	}
}

func TestWriteWAVRejectsBadRate(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "bad.wav"))
	require.NoError(t, err)
	defer f.Close()
	assert.Error(t, WriteWAV(f, []float32{0}, 0))
}
