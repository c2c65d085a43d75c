package audio

import (
	"math"
	"math/rand"
	"sync"

	"go-autotracker/sequencer"

	"github.com/gopxl/beep"
)

const drumToneFreq = 55.0

// Drum envelopes: gain points spread evenly over a duration
var (
	kickTone   = []float64{0.3, 0.3, 0.2, 0.1, 0}
	snareTone  = []float64{0.2, 0.06, 0.02, 0}
	snareNoise = []float64{0.2, 0.15, 0}
	hatNoise   = []float64{0.1, 0.04, 0}
)

// DrumSynth mixes a detuned square tone with white noise
type DrumSynth struct {
	mu     sync.Mutex
	sr     beep.SampleRate
	rnd    *rand.Rand
	phase  float64
	detune param // cents
	tone   curve
	noise  curve
	pan    float64 // noise pan, re-rolled per hat
}

// NewDrumSynth creates a drum voice. seed fixes the noise and hat pan.
func NewDrumSynth(sr beep.SampleRate, seed int64) *DrumSynth {
	return &DrumSynth{sr: sr, rnd: rand.New(rand.NewSource(seed))}
}

// Play triggers a hit; DrumOff and note slots do nothing
func (s *DrumSynth) Play(slot sequencer.Slot) {
	d, ok := slot.(sequencer.DrumSlot)
	if !ok || d.Hit == sequencer.DrumOff {
		return
	}
	vel := d.Velocity
	if vel == 0 {
		vel = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch d.Hit {
	case sequencer.Kick:
		s.detune.set(3000)
		s.detune.approach(0, 0.07, s.sr)
		s.tone = newCurve(kickTone, 0.10, s.sr, vel)
	case sequencer.Snare:
		s.detune.set(2400)
		s.detune.approach(600, 0.04, s.sr)
		s.tone = newCurve(snareTone, 0.10, s.sr, vel)
		s.noise = newCurve(snareNoise, 0.15, s.sr, vel)
	case sequencer.Noise:
		s.noise = newCurve(hatNoise, 0.08, s.sr, vel)
		s.pan = s.rnd.Float64()*0.4 - 0.2
	}
}

func (s *DrumSynth) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	left := math.Min(1, 1-s.pan)
	right := math.Min(1, 1+s.pan)
	for i := range samples {
		freq := drumToneFreq * math.Exp2(s.detune.next()/1200)
		sq := -1.0
		if s.phase < 0.5 {
			sq = 1.0
		}
		tone := sq * s.tone.next()
		s.phase += freq / float64(s.sr)
		s.phase -= math.Floor(s.phase)

		noise := (s.rnd.Float64()*2 - 1) * s.noise.next()
		samples[i][0] = tone + noise*left
		samples[i][1] = tone + noise*right
	}
	return len(samples), true
}

func (s *DrumSynth) Err() error { return nil }
