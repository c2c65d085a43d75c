package sequencer

import (
	"sync"
	"time"

	"go-autotracker/debug"
)

// StepDuration is the length of one tick (a sixteenth note) at bpm.
// Tempos below 1 are treated as 1.
func StepDuration(bpm int) time.Duration {
	if bpm < 1 {
		bpm = 1
	}
	return time.Minute / time.Duration(bpm) / 4
}

// Clock emits numbered ticks from a single goroutine. Tick 0 fires as soon
// as the clock starts; a tempo change re-arms the one ticker in place.
type Clock struct {
	mu      sync.Mutex
	period  time.Duration
	next    int64
	running bool
	stop    chan struct{}
	done    chan struct{}
	rearm   chan time.Duration
}

// NewClock creates a stopped clock at bpm
func NewClock(bpm int) *Clock {
	return &Clock{
		period: StepDuration(bpm),
		rearm:  make(chan time.Duration, 1),
	}
}

// Start runs handler for every tick until Stop. The counter continues from
// where a previous Stop left it. Returns false if already running.
func (c *Clock) Start(handler func(tick int64)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return false
	}
	select {
	case <-c.rearm:
	default:
	}
	c.running = true
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	debug.Log("clock", "start at tick %d, period %v", c.next, c.period)
	go c.run(handler, c.period, c.stop, c.done)
	return true
}

func (c *Clock) run(handler func(int64), period time.Duration, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	c.fire(handler)
	for {
		select {
		case <-stop:
			return
		case p := <-c.rearm:
			ticker.Reset(p)
			debug.Log("clock", "rearmed, period %v", p)
		case <-ticker.C:
			c.fire(handler)
		}
	}
}

func (c *Clock) fire(handler func(int64)) {
	c.mu.Lock()
	t := c.next
	c.next++
	c.mu.Unlock()
	handler(t)
}

// SetBPM changes the tick period. Safe to call from the tick handler.
func (c *Clock) SetBPM(bpm int) {
	p := StepDuration(bpm)
	c.mu.Lock()
	c.period = p
	running := c.running
	c.mu.Unlock()
	if !running {
		return
	}
	// keep only the latest request
	select {
	case <-c.rearm:
	default:
	}
	select {
	case c.rearm <- p:
	default:
	}
}

// Stop halts the clock and waits for the tick goroutine to exit. It must
// not be called from the tick handler.
func (c *Clock) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	stop, done := c.stop, c.done
	c.mu.Unlock()

	close(stop)
	<-done
	debug.Log("clock", "stopped before tick %d", c.NextTick())
}

// Running reports whether the clock is ticking
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Period returns the current tick period
func (c *Clock) Period() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.period
}

// NextTick returns the number the next tick will carry
func (c *Clock) NextTick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}
