package audio

import (
	"math"
	"sync"

	"go-autotracker/sequencer"
	"go-autotracker/theory"

	"github.com/gopxl/beep"
)

// Pulse voice envelope
const (
	pulseLevel   = 0.1
	pulseSustain = 0.7  // fraction of level held after the decay
	pulseDecay   = 0.04 // seconds
	pulseRelease = 0.01
	maxDuty      = 0.95
)

// PulseSynth is a pulse-wave voice. Play and Stream may run on different
// goroutines.
type PulseSynth struct {
	mu    sync.Mutex
	sr    beep.SampleRate
	phase float64
	freq  param
	gain  param
	width float64
}

// NewPulseSynth creates a silent voice
func NewPulseSynth(sr beep.SampleRate) *PulseSynth {
	s := &PulseSynth{sr: sr}
	s.freq.set(theory.A0Frequency)
	return s
}

// Play applies one slot: a pitch starts a note (gliding if asked), "---"
// releases, and every slot sets the pulse width
func (s *PulseSynth) Play(slot sequencer.Slot) {
	n, ok := slot.(sequencer.NoteSlot)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch n.Kind {
	case sequencer.NoteOff:
		s.gain.approach(0, pulseRelease, s.sr)
	case sequencer.NotePitch:
		s.freq.approach(theory.Frequency(float64(n.Pitch)), n.Glide/10, s.sr)
		s.gain.set(pulseLevel)
		s.gain.approach(pulseLevel*pulseSustain, pulseDecay, s.sr)
	}
	s.width = n.PulseWidth
}

// Duty returns the fraction of each cycle spent high
func (s *PulseSynth) Duty() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return duty(s.width)
}

func duty(width float64) float64 {
	return math.Min(0.5+width/2, maxDuty)
}

func (s *PulseSynth) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := duty(s.width)
	for i := range samples {
		v := -1.0
		if s.phase < d {
			v = 1.0
		}
		v *= s.gain.next()
		samples[i][0] = v
		samples[i][1] = v

		s.phase += s.freq.next() / float64(s.sr)
		s.phase -= math.Floor(s.phase)
	}
	return len(samples), true
}

func (s *PulseSynth) Err() error { return nil }
