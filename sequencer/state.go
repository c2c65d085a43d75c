package sequencer

import (
	"fmt"

	"go-autotracker/rng"
	"go-autotracker/theory"
)

// Defaults for a fresh song
const (
	DefaultBPM     = 112
	SeedCodeLength = 4
	CycleTicks     = 2 * PatternSize // ticks between mutations
)

const hexDigits = "0123456789abcdef"

// SongState is everything a save code reconstructs. Patterns are not part
// of it; they regenerate from SeedCode.
type SongState struct {
	Key         int          `json:"key"`
	Scale       theory.Scale `json:"scale"`
	Progression int          `json:"progression"` // index into the progression library
	BPM         int          `json:"bpm"`
	SongIndex   int          `json:"songIndex"`
	SeedCode    string       `json:"seedCode"`
}

// NewSongState builds the state for a fresh song seeded from s. The source
// is left positioned after the seed code draws.
func NewSongState(s string, r *rng.Source) SongState {
	r.Seed(s)
	st := SongState{
		Key:         r.IntBelow(12),
		Scale:       theory.Minor,
		Progression: 0,
		BPM:         DefaultBPM,
	}
	st.SeedCode = drawSeedCode(r)
	return st
}

// Context resolves the harmonic frame for the generators
func (s SongState) Context() MusicContext {
	p, _ := theory.ProgressionAt(s.Progression)
	return MusicContext{Progression: p, Key: s.Key, Scale: s.Scale}
}

// Describe is a short human summary used by the TUI and logs
func (s SongState) Describe() string {
	return fmt.Sprintf("%s %s  prog %d  %dbpm  #%d", theory.KeyName(s.Key), s.Scale.Name, s.Progression, s.BPM, s.SongIndex)
}

// mutate advances one 128-tick cycle. Draw order: bpm, modulation,
// progression, then the next seed code.
func (s *SongState) mutate(r rng.Rand) (tempoChanged bool) {
	s.SongIndex++
	if s.SongIndex%8 == 0 {
		bpm := r.IntBelow(80) + 100
		tempoChanged = bpm != s.BPM
		s.BPM = bpm
	}
	if s.SongIndex%4 == 0 {
		s.Key, s.Scale = theory.Modulate(r, s.Key, s.Scale)
	}
	if s.SongIndex%2 == 0 {
		s.Progression = r.IntBelow(theory.NumProgressions())
	}
	s.SeedCode = drawSeedCode(r)
	return tempoChanged
}

func drawSeedCode(r rng.Rand) string {
	b := make([]byte, SeedCodeLength)
	for i := range b {
		b[i] = hexDigits[r.IntBelow(len(hexDigits))]
	}
	return string(b)
}
