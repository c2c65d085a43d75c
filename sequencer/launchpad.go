package sequencer

import (
	"context"
	"sync"
	"time"

	"go-autotracker/debug"
	"go-autotracker/midi"
)

// LED refresh rate
const ledFPS = 30

// Launchpad layout: voices 0..4 on grid rows 7..3, one 8-step page at a
// time, page indicator on the top row, mute state on the side column.
const (
	lpTopVoiceRow = 7
	lpPageWidth   = 8
)

var (
	ledPlayhead = [3]uint8{255, 255, 255}
	ledPage     = [3]uint8{0, 100, 255}
	ledUnmuted  = [3]uint8{0, 255, 0}
	ledMuted    = [3]uint8{255, 0, 0}
)

// VoiceForRow maps a grid row to its voice
func VoiceForRow(row int) (int, bool) {
	v := lpTopVoiceRow - row
	return v, v >= 0 && v < NumVoices
}

// LaunchpadDisplay renders patterns onto a grid controller. Updates are
// diffed against what the pads already show and flushed at ledFPS.
type LaunchpadDisplay struct {
	mu       sync.Mutex
	ctrl     midi.Controller
	colors   [NumVoices][3]uint8
	muted    func() [NumVoices]bool
	patterns [NumVoices]Pattern
	step     int
	dirty    bool
	prevLEDs map[[2]int]LEDState
}

// NewLaunchpadDisplay creates a display for ctrl. muted reports the
// current mute state; it may be nil.
func NewLaunchpadDisplay(ctrl midi.Controller, colors [NumVoices][3]uint8, muted func() [NumVoices]bool) *LaunchpadDisplay {
	if muted == nil {
		muted = func() [NumVoices]bool { return [NumVoices]bool{} }
	}
	return &LaunchpadDisplay{
		ctrl:     ctrl,
		colors:   colors,
		muted:    muted,
		prevLEDs: make(map[[2]int]LEDState),
		dirty:    true,
	}
}

func (d *LaunchpadDisplay) SetPatterns(patterns [NumVoices]Pattern, _ string) {
	d.mu.Lock()
	d.patterns = patterns
	d.dirty = true
	d.mu.Unlock()
}

func (d *LaunchpadDisplay) HighlightRow(step int) {
	d.mu.Lock()
	if step != d.step {
		d.step = step
		d.dirty = true
	}
	d.mu.Unlock()
}

// Invalidate forces a full flush, e.g. after the mute state changed
func (d *LaunchpadDisplay) Invalidate() {
	d.mu.Lock()
	d.dirty = true
	d.mu.Unlock()
}

// RenderLEDs returns every lit pad for the current state
func (d *LaunchpadDisplay) RenderLEDs() []LEDState {
	d.mu.Lock()
	patterns, step := d.patterns, d.step
	d.mu.Unlock()
	muted := d.muted()

	page := step / lpPageWidth
	playCol := step % lpPageWidth

	var leds []LEDState
	for v := 0; v < NumVoices; v++ {
		row := lpTopVoiceRow - v
		for col := 0; col < lpPageWidth; col++ {
			if col == playCol {
				leds = append(leds, LEDState{Row: row, Col: col, Color: ledPlayhead})
				continue
			}
			if c, ok := slotColor(patterns[v][page*lpPageWidth+col], d.colors[v]); ok {
				leds = append(leds, LEDState{Row: row, Col: col, Color: c})
			}
		}
		side := ledUnmuted
		if muted[v] {
			side = ledMuted
		}
		leds = append(leds, LEDState{Row: row, Col: 8, Color: side})
	}
	leds = append(leds, LEDState{Row: 8, Col: page, Color: ledPage})
	return leds
}

// slotColor is full colour for an onset, dim for a held note
func slotColor(s Slot, c [3]uint8) ([3]uint8, bool) {
	switch sl := s.(type) {
	case NoteSlot:
		switch sl.Kind {
		case NotePitch:
			return c, true
		case NoteCont:
			return [3]uint8{c[0] / 4, c[1] / 4, c[2] / 4}, true
		}
	case DrumSlot:
		if sl.Hit != DrumOff {
			return c, true
		}
	}
	return [3]uint8{}, false
}

// Flush sends the pads that changed since the last flush
func (d *LaunchpadDisplay) Flush() {
	d.mu.Lock()
	dirty := d.dirty
	d.dirty = false
	d.mu.Unlock()
	if !dirty {
		return
	}

	leds := d.RenderLEDs()
	next := make(map[[2]int]LEDState, len(leds))
	var updates []midi.LEDUpdate
	for _, led := range leds {
		key := [2]int{led.Row, led.Col}
		next[key] = led
		if prev, ok := d.prevLEDs[key]; !ok || prev != led {
			updates = append(updates, midi.LEDUpdate{Row: led.Row, Col: led.Col, Color: led.Color, Channel: led.Channel})
		}
	}
	// clear pads that went dark
	for key := range d.prevLEDs {
		if _, ok := next[key]; !ok {
			updates = append(updates, midi.LEDUpdate{Row: key[0], Col: key[1]})
		}
	}
	d.prevLEDs = next

	if len(updates) > 0 {
		debug.LogEvery(ledFPS, "lp", "flush batch=%d lit=%d", len(updates), len(next))
		if err := d.ctrl.SetLEDBatch(updates); err != nil {
			debug.Log("lp", "%s: %v", d.ctrl.ID(), err)
		}
	}
}

// Run flushes at ledFPS and routes pad presses on voice rows to onVoice
// until ctx is done or the controller closes its pad channel
func (d *LaunchpadDisplay) Run(ctx context.Context, onVoice func(voice int)) {
	ticker := time.NewTicker(time.Second / ledFPS)
	defer ticker.Stop()
	pads := d.ctrl.PadEvents()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Flush()
		case ev, ok := <-pads:
			if !ok {
				return
			}
			if v, ok := VoiceForRow(ev.Row); ok && onVoice != nil {
				onVoice(v)
				d.Invalidate()
			}
		}
	}
}
