package clock

import (
	"testing"
	"time"
)

func TestSampleClockAdvancesPerTick(t *testing.T) {
	c := NewSampleClock(100)
	if c.Now() != 0 {
		t.Fatalf("fresh clock = %f", c.Now())
	}
	for i := 0; i < 150; i++ {
		c.Tick()
	}
	if c.Now() != 1.5 || c.Ticks() != 150 {
		t.Fatalf("after 150 ticks at 100Hz: now=%f ticks=%d", c.Now(), c.Ticks())
	}
	c.Reset()
	if c.Now() != 0 {
		t.Fatal("reset should rewind to zero")
	}
}

func TestWallClockIsMonotonic(t *testing.T) {
	c := NewWallClock()
	a := c.Now()
	time.Sleep(2 * time.Millisecond)
	if b := c.Now(); b <= a {
		t.Fatalf("wall clock did not advance: %f then %f", a, b)
	}
}

var (
	_ Clock  = (*SampleClock)(nil)
	_ Ticker = (*SampleClock)(nil)
	_ Clock  = (*WallClock)(nil)
)
