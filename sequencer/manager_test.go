package sequencer

import (
	"sync"
	"testing"
	"time"
)

type recordingSynth struct {
	mu    sync.Mutex
	slots []Slot
}

func (r *recordingSynth) Play(s Slot) {
	r.mu.Lock()
	r.slots = append(r.slots, s)
	r.mu.Unlock()
}

func (r *recordingSynth) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

type recordingDisplay struct {
	mu    sync.Mutex
	codes []string
	rows  []int
}

func (d *recordingDisplay) SetPatterns(_ [NumVoices]Pattern, code string) {
	d.mu.Lock()
	d.codes = append(d.codes, code)
	d.mu.Unlock()
}

func (d *recordingDisplay) HighlightRow(step int) {
	d.mu.Lock()
	d.rows = append(d.rows, step)
	d.mu.Unlock()
}

func newTestManager(seed string) (*Manager, [NumVoices]*recordingSynth) {
	var synths [NumVoices]*recordingSynth
	var tracks [NumVoices]*Track
	for v := range tracks {
		synths[v] = &recordingSynth{}
		tracks[v] = NewTrack(VoiceNames[v], uint8(v), synths[v])
	}
	return NewManager(NewScheduler(seed), tracks), synths
}

func TestTrackMuteSendsOneSilence(t *testing.T) {
	synth := &recordingSynth{}
	tr := NewTrack("bass", 0, synth)

	tr.Play(NoteSlot{Kind: NotePitch, Pitch: 3}, false)
	tr.Muted = true
	for i := 0; i < 4; i++ {
		tr.Play(NoteSlot{Kind: NotePitch, Pitch: 5}, false)
	}
	tr.Muted = false
	tr.Play(NoteSlot{Kind: NoteCont}, false)

	if len(synth.slots) != 3 {
		t.Fatalf("Expected 3 slots (note, silence, cont), got %d", len(synth.slots))
	}
	if synth.slots[1] != (NoteSlot{Kind: NoteOff}) {
		t.Errorf("Expected NoteOff silence, got %v", synth.slots[1])
	}

	drums := &recordingSynth{}
	dt := NewTrack("drums", 9, drums)
	dt.Muted = true
	dt.Play(DrumSlot{Hit: Kick}, false)
	if len(drums.slots) != 1 || drums.slots[0] != (DrumSlot{Hit: DrumOff}) {
		t.Errorf("Expected one drum silence, got %v", drums.slots)
	}
}

func TestTrackSolo(t *testing.T) {
	a := NewTrack("a", 0, nil)
	b := NewTrack("b", 1, nil)
	b.Solo = true
	if a.Audible(true) || !b.Audible(true) {
		t.Error("Expected only the soloed track audible")
	}
	if !a.Audible(false) {
		t.Error("Expected unmuted track audible without solo")
	}
}

func TestManagerStepFansOut(t *testing.T) {
	m, synths := newTestManager("test")
	disp := &recordingDisplay{}
	m.AddDisplay(disp)

	for f := int64(0); f <= CycleTicks; f++ {
		if _, ok := m.Step(f); !ok {
			t.Fatalf("tick %d rejected", f)
		}
	}
	if _, ok := m.Step(3); ok {
		t.Error("Expected stale tick rejected")
	}

	for v, s := range synths {
		if s.count() != CycleTicks+1 {
			t.Errorf("voice %d: expected %d slots, got %d", v, CycleTicks+1, s.count())
		}
	}

	// AddDisplay, first tick, first mutation
	want := []string{goldenChains["test"][0], goldenChains["test"][0], goldenChains["test"][1]}
	if len(disp.codes) != len(want) {
		t.Fatalf("Expected %d SetPatterns calls, got %d", len(want), len(disp.codes))
	}
	for i := range want {
		if disp.codes[i] != want[i] {
			t.Errorf("SetPatterns %d: expected %s, got %s", i, want[i], disp.codes[i])
		}
	}
	if len(disp.rows) != CycleTicks+2 || disp.rows[len(disp.rows)-1] != 0 {
		t.Errorf("Expected a highlight per tick ending on row 0, got %d rows", len(disp.rows))
	}

	snap := m.Snapshot()
	if snap.Code != goldenChains["test"][1] || snap.Tick != CycleTicks || snap.Step != 0 {
		t.Errorf("Unexpected snapshot %s tick=%d step=%d", snap.Code, snap.Tick, snap.Step)
	}
}

func TestManagerMuteAndSnapshot(t *testing.T) {
	m, synths := newTestManager("mute")
	if snap := m.Snapshot(); snap.Tick != -1 || snap.Playing {
		t.Errorf("Expected idle snapshot, got tick=%d playing=%v", snap.Tick, snap.Playing)
	}

	if !m.ToggleMute(1) {
		t.Fatal("Expected voice 1 muted")
	}
	if m.ToggleMute(7) {
		t.Error("Expected out-of-range voice ignored")
	}
	for f := int64(0); f < 10; f++ {
		m.Step(f)
	}
	if synths[1].count() != 1 {
		t.Errorf("Expected muted voice to get one silence slot, got %d", synths[1].count())
	}
	if !m.Snapshot().Muted[1] || !m.Muted()[1] {
		t.Error("Expected mute in snapshot")
	}

	m.ToggleSolo(0)
	m.Step(10)
	if synths[2].count() != 11 {
		t.Errorf("Expected voice 2 silenced once under solo, got %d slots", synths[2].count())
	}

	select {
	case <-m.UpdateChan:
	default:
		t.Error("Expected an update notification")
	}
}

func TestManagerRemoveDisplay(t *testing.T) {
	m, _ := newTestManager("rm")
	d := &recordingDisplay{}
	m.AddDisplay(d)
	m.RemoveDisplay(d)
	m.Step(0)
	if len(d.rows) != 1 {
		t.Errorf("Expected no highlights after removal, got %d", len(d.rows))
	}
}

func TestManagerPlayStop(t *testing.T) {
	m, synths := newTestManager("play")
	m.clock = NewClock(6000) // 2.5ms ticks
	m.sched.state.BPM = 6000

	m.Play()
	deadline := time.Now().Add(2 * time.Second)
	for synths[0].count() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !m.Playing() {
		t.Error("Expected manager playing")
	}
	m.Stop()
	if m.Playing() {
		t.Error("Expected manager stopped")
	}

	n := synths[0].count()
	if n < 5 {
		t.Fatalf("Expected at least 5 ticks, got %d", n)
	}
	time.Sleep(20 * time.Millisecond)
	if synths[0].count() != n {
		t.Error("Expected no slots after Stop")
	}

	// resume continues the tick count
	last := m.Snapshot().Tick
	m.Play()
	for m.Snapshot().Tick <= last && time.Now().Before(deadline.Add(time.Second)) {
		time.Sleep(time.Millisecond)
	}
	m.Stop()
	if got := m.Snapshot().Tick; got <= last {
		t.Errorf("Expected ticks to continue past %d, got %d", last, got)
	}
}
