package control

import (
	"context"
	"errors"
	"math"
	"sync"
)

var (
	ErrInvalidSlot  = errors.New("invalid oscillator slot")
	ErrInvalidParam = errors.New("invalid envelope parameter")
	ErrInvalidValue = errors.New("value must be a finite non-negative number")
	ErrUnknownKind  = errors.New("unknown event kind")
	ErrFull         = errors.New("control queue full")
	ErrClosed       = errors.New("control channel closed")
)

// DefaultCapacity is the queue depth used when NewChannel is given zero.
const DefaultCapacity = 256

// NewChannel returns the two ends of a buffered event queue.
func NewChannel(capacity int) (*Sender, *Receiver) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	ch := make(chan Event, capacity)
	done := make(chan struct{})
	return &Sender{ch: ch, done: done}, &Receiver{ch: ch, done: done}
}

// Sender is the producer end. It is safe for concurrent use.
type Sender struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

// Send validates ev and queues it, waiting for room until ctx is done or
// the channel is closed.
func (s *Sender) Send(ctx context.Context, ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if s.Closed() {
		return ErrClosed
	}
	select {
	case s.ch <- ev:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend validates ev and queues it without waiting.
func (s *Sender) TrySend(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if s.Closed() {
		return ErrClosed
	}
	select {
	case s.ch <- ev:
		return nil
	default:
		return ErrFull
	}
}

// Close disconnects the receiver. Events already queued are still delivered.
func (s *Sender) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Sender) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Receiver is the consumer end, owned by the audio goroutine.
type Receiver struct {
	ch           chan Event
	done         chan struct{}
	disconnected bool
}

// TryRecv returns the next queued event without blocking. Once the sender
// has closed and the queue is drained it keeps returning false.
func (r *Receiver) TryRecv() (Event, bool) {
	if r == nil || r.disconnected {
		return Event{}, false
	}
	select {
	case ev := <-r.ch:
		return ev, true
	default:
	}
	select {
	case <-r.done:
		r.disconnected = true
	default:
	}
	return Event{}, false
}

// Connected reports whether events may still arrive.
func (r *Receiver) Connected() bool { return r != nil && !r.disconnected }

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
