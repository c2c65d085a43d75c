package sequencer

import (
	"sync"
	"testing"
	"time"
)

func TestStepDuration(t *testing.T) {
	tests := []struct {
		bpm  int
		want time.Duration
	}{
		{120, 125 * time.Millisecond},
		{112, time.Minute / 112 / 4},
		{60, 250 * time.Millisecond},
		{0, 15 * time.Second},
		{-5, 15 * time.Second},
	}
	for _, tt := range tests {
		if got := StepDuration(tt.bpm); got != tt.want {
			t.Errorf("StepDuration(%d): expected %v, got %v", tt.bpm, tt.want, got)
		}
	}
}

func collectTicks(c *Clock, n int) []int64 {
	var mu sync.Mutex
	var ticks []int64
	got := make(chan struct{})
	c.Start(func(t int64) {
		mu.Lock()
		ticks = append(ticks, t)
		if len(ticks) == n {
			close(got)
		}
		mu.Unlock()
	})
	select {
	case <-got:
	case <-time.After(2 * time.Second):
	}
	c.Stop()
	mu.Lock()
	defer mu.Unlock()
	return append([]int64(nil), ticks...)
}

func TestClockTicksInOrder(t *testing.T) {
	c := NewClock(6000)
	ticks := collectTicks(c, 5)
	if len(ticks) < 5 {
		t.Fatalf("Expected at least 5 ticks, got %d", len(ticks))
	}
	for i, tk := range ticks {
		if tk != int64(i) {
			t.Fatalf("Expected tick %d, got %d", i, tk)
		}
	}
	if c.Running() {
		t.Error("Expected clock stopped")
	}

	// restart continues the count
	next := c.NextTick()
	more := collectTicks(c, 2)
	if len(more) == 0 || more[0] != next {
		t.Errorf("Expected restart at tick %d, got %v", next, more)
	}
}

func TestClockFirstTickImmediate(t *testing.T) {
	c := NewClock(1) // 15s period
	fired := make(chan int64, 1)
	c.Start(func(t int64) { fired <- t })
	defer c.Stop()

	select {
	case tk := <-fired:
		if tk != 0 {
			t.Errorf("Expected tick 0, got %d", tk)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected the first tick without waiting a period")
	}
}

func TestClockDoubleStart(t *testing.T) {
	c := NewClock(120)
	if !c.Start(func(int64) {}) {
		t.Fatal("Expected first start to succeed")
	}
	if c.Start(func(int64) {}) {
		t.Error("Expected second start to be refused")
	}
	c.Stop()
	c.Stop() // no-op
}

func TestClockSetBPMFromHandler(t *testing.T) {
	c := NewClock(1)
	fast := make(chan struct{})
	var once sync.Once
	c.Start(func(tk int64) {
		if tk == 0 {
			c.SetBPM(6000)
		}
		if tk >= 3 {
			once.Do(func() { close(fast) })
		}
	})
	defer c.Stop()

	select {
	case <-fast:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected re-armed clock to tick at the new tempo")
	}
	if c.Period() != StepDuration(6000) {
		t.Errorf("Expected period %v, got %v", StepDuration(6000), c.Period())
	}
}

func TestClockSetBPMWhileStopped(t *testing.T) {
	c := NewClock(120)
	c.SetBPM(60)
	if c.Period() != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", c.Period())
	}
}
