package control

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/voice"
	"github.com/polysynth/polysynth/internal/waveform"
)

func TestSendAndReceiveInOrder(t *testing.T) {
	tx, rx := NewChannel(8)
	ctx := context.Background()

	want := []Event{
		Press(3),
		Oscillator(1, voice.SlotParams{Enabled: true, Wave: waveform.Saw, Unison: 2}),
		Envelope(envelope.Attack, 0.5),
		LFO(5, 0.01),
		Release(3),
		NotesOff(),
	}
	for _, ev := range want {
		require.NoError(t, tx.Send(ctx, ev))
	}
	for _, w := range want {
		got, ok := rx.TryRecv()
		require.True(t, ok)
		assert.Equal(t, w, got)
	}
	_, ok := rx.TryRecv()
	assert.False(t, ok, "queue should be empty")
	assert.True(t, rx.Connected())
}

func TestValidationFailsFast(t *testing.T) {
	tx, rx := NewChannel(4)
	ctx := context.Background()

	cases := []struct {
		name string
		ev   Event
		err  error
	}{
		{"slot too high", Oscillator(voice.NumSlots, voice.SlotParams{}), ErrInvalidSlot},
		{"negative slot", Oscillator(-1, voice.SlotParams{}), ErrInvalidSlot},
		{"negative envelope", Envelope(envelope.Decay, -1), ErrInvalidValue},
		{"nan envelope", Envelope(envelope.Sustain, math.NaN()), ErrInvalidValue},
		{"bad param", Envelope(envelope.Param(42), 1), ErrInvalidParam},
		{"negative lfo", LFO(-1, 0.1), ErrInvalidValue},
		{"unknown kind", Event{Kind: Kind(99)}, ErrUnknownKind},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.ErrorIs(t, tx.Send(ctx, c.ev), c.err)
			assert.ErrorIs(t, tx.TrySend(c.ev), c.err)
		})
	}
	_, ok := rx.TryRecv()
	assert.False(t, ok, "rejected events must not be queued")
}

func TestTrySendFull(t *testing.T) {
	tx, _ := NewChannel(2)
	require.NoError(t, tx.TrySend(Press(0)))
	require.NoError(t, tx.TrySend(Press(1)))
	assert.ErrorIs(t, tx.TrySend(Press(2)), ErrFull)
}

func TestSendHonoursContext(t *testing.T) {
	tx, _ := NewChannel(1)
	require.NoError(t, tx.TrySend(Press(0)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tx.Send(ctx, Press(1)), context.DeadlineExceeded)
}

func TestCloseUnblocksSend(t *testing.T) {
	tx, _ := NewChannel(1)
	require.NoError(t, tx.TrySend(Press(0)))

	errc := make(chan error, 1)
	go func() { errc <- tx.Send(context.Background(), Press(1)) }()
	time.Sleep(10 * time.Millisecond)
	tx.Close()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Send still blocked after Close")
	}
}

func TestDisconnectDrainsThenStops(t *testing.T) {
	tx, rx := NewChannel(4)
	require.NoError(t, tx.TrySend(Press(7)))
	tx.Close()
	tx.Close()

	assert.True(t, tx.Closed())
	assert.ErrorIs(t, tx.TrySend(Press(8)), ErrClosed)
	assert.ErrorIs(t, tx.Send(context.Background(), Press(8)), ErrClosed)

	ev, ok := rx.TryRecv()
	require.True(t, ok, "queued event must survive Close")
	assert.Equal(t, 7, ev.Note)

	for i := 0; i < 3; i++ {
		_, ok = rx.TryRecv()
		assert.False(t, ok)
	}
	assert.False(t, rx.Connected())
}

func TestNilReceiver(t *testing.T) {
	var rx *Receiver
	_, ok := rx.TryRecv()
	assert.False(t, ok)
	assert.False(t, rx.Connected())
}

func TestConcurrentSenders(t *testing.T) {
	const senders, each = 4, 50
	tx, rx := NewChannel(senders * each)

	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				assert.NoError(t, tx.Send(context.Background(), Press(s*each+i)))
			}
		}(s)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for {
		ev, ok := rx.TryRecv()
		if !ok {
			break
		}
		seen[ev.Note] = true
	}
	assert.Len(t, seen, senders*each)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "note-press", NotePress.String())
	assert.Equal(t, "change-lfo", ChangeLFO.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
