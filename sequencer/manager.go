package sequencer

import (
	"slices"
	"sync"

	"go-autotracker/debug"
)

// Snapshot is a consistent copy of what the TUI shows
type Snapshot struct {
	Playing  bool
	State    SongState
	Code     string
	Voices   [NumVoices]string
	Patterns [NumVoices]Pattern
	Tick     int64
	Step     int
	Muted    [NumVoices]bool
	Solo     [NumVoices]bool
}

// Manager drives the scheduler from the clock and fans each frame out to
// the tracks and displays
type Manager struct {
	mu       sync.Mutex
	sched    *Scheduler
	clock    *Clock
	tracks   [NumVoices]*Track
	displays []Display
	frame    Frame
	started  bool // a frame has been produced

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// VoiceNames are the default track names
var VoiceNames = [NumVoices]string{"bass", "lead", "melody", "counter", "drums"}

// NewManager wires a scheduler to five tracks. A nil track gets a silent synth.
func NewManager(sched *Scheduler, tracks [NumVoices]*Track) *Manager {
	for v, t := range tracks {
		if t == nil {
			tracks[v] = NewTrack(VoiceNames[v], uint8(v), nil)
		}
	}
	return &Manager{
		sched:      sched,
		clock:      NewClock(sched.State().BPM),
		tracks:     tracks,
		UpdateChan: make(chan struct{}, 1),
	}
}

// AddDisplay attaches a display and shows it the current patterns
func (m *Manager) AddDisplay(d Display) {
	m.mu.Lock()
	m.displays = append(m.displays, d)
	patterns, code, step := m.sched.Patterns(), m.sched.Code(), m.frame.Step
	m.mu.Unlock()

	d.SetPatterns(patterns, code)
	d.HighlightRow(step)
}

// RemoveDisplay detaches a display
func (m *Manager) RemoveDisplay(d Display) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.displays = slices.DeleteFunc(m.displays, func(x Display) bool { return x == d })
}

// Play starts the clock at the song's tempo
func (m *Manager) Play() {
	m.clock.SetBPM(m.sched.State().BPM)
	if m.clock.Start(func(t int64) { m.Step(t) }) {
		debug.Log("mgr", "play %s", m.sched.Code())
		m.notify()
	}
}

// Stop halts the clock and silences every voice
func (m *Manager) Stop() {
	m.clock.Stop()

	m.mu.Lock()
	patterns := m.sched.Patterns()
	for v, t := range m.tracks {
		t.Silence(patterns[v][0])
	}
	m.mu.Unlock()

	debug.Log("mgr", "stop at tick %d", m.clock.NextTick())
	m.notify()
}

// TogglePlay starts or stops playback
func (m *Manager) TogglePlay() {
	if m.clock.Running() {
		m.Stop()
	} else {
		m.Play()
	}
}

// Playing reports whether the clock is running
func (m *Manager) Playing() bool {
	return m.clock.Running()
}

// Step handles one clock tick: advance the scheduler, play the row,
// update displays. The clock calls it; headless callers drive it directly.
func (m *Manager) Step(tick int64) (Frame, bool) {
	m.mu.Lock()
	fr, ok := m.sched.Tick(tick)
	if !ok {
		m.mu.Unlock()
		debug.Log("mgr", "stale tick %d ignored", tick)
		return fr, false
	}
	m.frame = fr
	m.started = true

	solo := m.soloActive()
	for v, t := range m.tracks {
		t.Play(fr.Row[v], solo)
	}

	displays := slices.Clone(m.displays)
	patterns, code, bpm := m.sched.Patterns(), m.sched.Code(), m.sched.State().BPM
	m.mu.Unlock()

	if fr.TempoChanged {
		m.clock.SetBPM(bpm)
		debug.Log("mgr", "tempo %d", bpm)
	}
	for _, d := range displays {
		if fr.Regenerated {
			d.SetPatterns(patterns, code)
		}
		d.HighlightRow(fr.Step)
	}
	debug.LogEvery(CycleTicks, "mgr", "tick %d", tick)

	m.notify()
	return fr, true
}

// soloActive expects mu held
func (m *Manager) soloActive() bool {
	for _, t := range m.tracks {
		if t.Solo {
			return true
		}
	}
	return false
}

// ToggleMute flips a voice's mute and returns the new state
func (m *Manager) ToggleMute(voice int) bool {
	if voice < 0 || voice >= NumVoices {
		return false
	}
	m.mu.Lock()
	t := m.tracks[voice]
	t.Muted = !t.Muted
	muted := t.Muted
	m.mu.Unlock()

	debug.Log("mgr", "voice %d muted=%v", voice, muted)
	m.notify()
	return muted
}

// ToggleSolo flips a voice's solo and returns the new state
func (m *Manager) ToggleSolo(voice int) bool {
	if voice < 0 || voice >= NumVoices {
		return false
	}
	m.mu.Lock()
	t := m.tracks[voice]
	t.Solo = !t.Solo
	solo := t.Solo
	m.mu.Unlock()

	m.notify()
	return solo
}

// Muted returns the mute state of every voice
func (m *Manager) Muted() [NumVoices]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out [NumVoices]bool
	for v, t := range m.tracks {
		out[v] = t.Muted
	}
	return out
}

// Snapshot returns the current state for display
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		Playing:  m.clock.Running(),
		State:    m.sched.State(),
		Code:     m.sched.Code(),
		Voices:   m.sched.Voices(),
		Patterns: m.sched.Patterns(),
		Tick:     m.frame.Tick,
		Step:     m.frame.Step,
	}
	if !m.started {
		s.Tick = -1
	}
	for v, t := range m.tracks {
		s.Muted[v] = t.Muted
		s.Solo[v] = t.Solo
	}
	return s
}

// Code returns the current save code
func (m *Manager) Code() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sched.Code()
}

// notify wakes the TUI without blocking
func (m *Manager) notify() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
