package sequencer

import (
	"crypto/rand"

	"go-autotracker/debug"
	"go-autotracker/rng"
)

// Frame is what one clock tick produces
type Frame struct {
	Tick int64
	Step int // Tick mod PatternSize, the row to highlight
	Row  [NumVoices]Slot

	// Regenerated is set on the first tick and whenever a mutation
	// replaced the patterns during this tick
	Regenerated  bool
	TempoChanged bool
}

// Scheduler owns the song state and the random source. It turns a
// monotonic tick count into rows, mutating every CycleTicks ticks.
// It is not safe for concurrent use; the host serialises ticks.
type Scheduler struct {
	src      *rng.Source
	state    SongState
	names    [NumVoices]string
	patterns [NumVoices]Pattern
	code     string
	last     int64 // last tick handled, -1 before the first
}

// NewScheduler starts a fresh song from a seed string
func NewScheduler(seed string) *Scheduler {
	src := &rng.Source{}
	st := NewSongState(seed, src)
	debug.Log("sched", "new song seed=%q key=%d seedCode=%s", seed, st.Key, st.SeedCode)
	return newScheduler(src, st)
}

// RestoreScheduler rebuilds a song from a save code
func RestoreScheduler(code string) (*Scheduler, error) {
	st, err := Decode(code)
	if err != nil {
		return nil, err
	}
	debug.Log("sched", "restored %s", code)
	return newScheduler(&rng.Source{}, st), nil
}

// NewSong interprets user input: a save code restores, anything else
// seeds a fresh song, and an empty string gets a random seed.
func NewSong(input string) (*Scheduler, error) {
	if IsCode(input) {
		return RestoreScheduler(input)
	}
	if input == "" {
		input = rand.Text()
	}
	return NewScheduler(input), nil
}

func newScheduler(src *rng.Source, st SongState) *Scheduler {
	s := &Scheduler{src: src, state: st, last: -1}
	s.regenerate()
	return s
}

// Tick handles clock tick f. Ticks must increase; a stale tick returns
// false and changes nothing. If ticks were skipped every crossed cycle
// boundary still mutates once, so the song is the same either way.
func (s *Scheduler) Tick(f int64) (Frame, bool) {
	if f <= s.last {
		return Frame{}, false
	}

	fr := Frame{Tick: f, Step: int(f % PatternSize), Regenerated: s.last < 0}

	for b := (s.last/CycleTicks + 1) * CycleTicks; b <= f; b += CycleTicks {
		if s.state.mutate(s.src) {
			fr.TempoChanged = true
		}
		s.regenerate()
		fr.Regenerated = true
	}
	s.last = f

	for v := range fr.Row {
		fr.Row[v] = s.patterns[v][fr.Step]
	}
	return fr, true
}

func (s *Scheduler) regenerate() {
	s.src.Seed(s.state.SeedCode)
	s.names, s.patterns = chooseVoices(s.state.Context(), s.src)
	s.code = Encode(s.state)
	debug.Log("sched", "regenerate %s voices=%v", s.code, s.names)
}

// State returns a copy of the song state
func (s *Scheduler) State() SongState { return s.state }

// Code returns the save code of the current state
func (s *Scheduler) Code() string { return s.code }

// Patterns returns the five current patterns
func (s *Scheduler) Patterns() [NumVoices]Pattern { return s.patterns }

// Voices returns the generator name feeding each voice
func (s *Scheduler) Voices() [NumVoices]string { return s.names }

// LastTick returns the last tick handled, -1 before the first
func (s *Scheduler) LastTick() int64 { return s.last }
