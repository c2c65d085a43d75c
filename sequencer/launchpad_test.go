package sequencer

import (
	"context"
	"testing"
	"time"

	"go-autotracker/midi"
)

type fakePads struct {
	batches [][]midi.LEDUpdate
	pads    chan midi.PadEvent
}

func (f *fakePads) ID() string { return "fake" }
func (f *fakePads) Type() midi.ControllerType { return midi.ControllerLaunchpad }
func (f *fakePads) PadEvents() <-chan midi.PadEvent { return f.pads }
func (f *fakePads) SetLEDRGB(row, col int, rgb [3]uint8, ch uint8) error {
	return f.SetLEDBatch([]midi.LEDUpdate{{Row: row, Col: col, Color: rgb, Channel: ch}})
}
func (f *fakePads) SetLEDBatch(u []midi.LEDUpdate) error {
	f.batches = append(f.batches, u)
	return nil
}
func (f *fakePads) Close() error { return nil }

var testColors = [NumVoices][3]uint8{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0}, {255, 0, 255}}

func TestVoiceForRow(t *testing.T) {
	for row := 0; row < 9; row++ {
		v, ok := VoiceForRow(row)
		wantOK := row >= 3 && row <= 7
		if ok != wantOK || (ok && v != 7-row) {
			t.Errorf("row %d: got voice %d ok=%v", row, v, ok)
		}
	}
}

func TestLaunchpadRender(t *testing.T) {
	var p [NumVoices]Pattern
	for v := range p {
		p[v] = Empty(MusicContext{}, nil)
	}
	p[DrumVoice] = EmptyDrum(MusicContext{}, nil)
	p[0][9] = NoteSlot{Kind: NotePitch, Pitch: 1}
	p[0][10] = NoteSlot{Kind: NoteCont}
	p[DrumVoice][11] = DrumSlot{Hit: Kick}

	d := NewLaunchpadDisplay(&fakePads{}, testColors, func() [NumVoices]bool {
		return [NumVoices]bool{false, true}
	})
	d.SetPatterns(p, "")
	d.HighlightRow(8) // page 1, playhead col 0

	leds := map[[2]int][3]uint8{}
	for _, l := range d.RenderLEDs() {
		leds[[2]int{l.Row, l.Col}] = l.Color
	}

	checks := []struct {
		row, col int
		want     [3]uint8
	}{
		{7, 0, ledPlayhead},
		{3, 0, ledPlayhead},
		{7, 1, testColors[0]},
		{7, 2, [3]uint8{63, 0, 0}},
		{3, 3, testColors[DrumVoice]},
		{7, 8, ledUnmuted},
		{6, 8, ledMuted},
		{8, 1, ledPage},
	}
	for _, c := range checks {
		if got, ok := leds[[2]int{c.row, c.col}]; !ok || got != c.want {
			t.Errorf("pad (%d,%d): expected %v, got %v (lit=%v)", c.row, c.col, c.want, got, ok)
		}
	}
	if _, ok := leds[[2]int{7, 3}]; ok {
		t.Error("Expected empty slot pad dark")
	}
	if _, ok := leds[[2]int{8, 0}]; ok {
		t.Error("Expected only the current page lit")
	}
}

func TestLaunchpadFlushDiffs(t *testing.T) {
	ctrl := &fakePads{}
	d := NewLaunchpadDisplay(ctrl, testColors, nil)
	s := NewScheduler("test")
	d.SetPatterns(s.Patterns(), s.Code())

	d.Flush()
	if len(ctrl.batches) != 1 {
		t.Fatalf("Expected first flush to send, got %d batches", len(ctrl.batches))
	}
	first := len(ctrl.batches[0])

	d.Flush()
	if len(ctrl.batches) != 1 {
		t.Error("Expected clean flush to send nothing")
	}

	d.HighlightRow(1)
	d.Flush()
	if len(ctrl.batches) != 2 {
		t.Fatal("Expected moved playhead to flush")
	}
	if n := len(ctrl.batches[1]); n >= first || n == 0 {
		t.Errorf("Expected a small diff batch, got %d of %d", n, first)
	}

	// moving to the next page moves the page indicator and clears pad (8,0)
	d.HighlightRow(8)
	d.Flush()
	cleared := false
	for _, u := range ctrl.batches[2] {
		if u.Row == 8 && u.Col == 0 && u.Color == ([3]uint8{}) {
			cleared = true
		}
	}
	if !cleared {
		t.Error("Expected old page indicator cleared")
	}
}

func TestLaunchpadRunRoutesPads(t *testing.T) {
	ctrl := &fakePads{pads: make(chan midi.PadEvent, 4)}
	d := NewLaunchpadDisplay(ctrl, testColors, nil)

	got := make(chan int, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		d.Run(ctx, func(v int) { got <- v })
		close(done)
	}()

	ctrl.pads <- midi.PadEvent{Row: 5, Col: 2, Velocity: 100}
	ctrl.pads <- midi.PadEvent{Row: 0, Col: 0, Velocity: 100} // not a voice row
	ctrl.pads <- midi.PadEvent{Row: 3, Col: 8, Velocity: 100}

	for _, want := range []int{2, 4} {
		select {
		case v := <-got:
			if v != want {
				t.Errorf("Expected voice %d, got %d", want, v)
			}
		case <-time.After(time.Second):
			t.Fatalf("Expected voice %d", want)
		}
	}

	close(ctrl.pads)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected Run to return when pads close")
	}
}
