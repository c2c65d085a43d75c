package audio

import (
	"math"
	"testing"

	"go-autotracker/sequencer"

	"github.com/gopxl/beep"
)

const testRate = beep.SampleRate(44100)

func peak(samples [][2]float64) float64 {
	var p float64
	for _, s := range samples {
		p = math.Max(p, math.Max(math.Abs(s[0]), math.Abs(s[1])))
	}
	return p
}

func TestPulseSynthSilentUntilNote(t *testing.T) {
	s := NewPulseSynth(testRate)
	buf := make([][2]float64, 512)
	n, ok := s.Stream(buf)
	if n != len(buf) || !ok {
		t.Fatalf("Expected full buffer and ok, got %d %v", n, ok)
	}
	if p := peak(buf); p != 0 {
		t.Errorf("Expected silence, got peak %f", p)
	}
	if s.Err() != nil {
		t.Errorf("Expected no error, got %v", s.Err())
	}
}

func TestPulseSynthEnvelope(t *testing.T) {
	s := NewPulseSynth(testRate)
	s.Play(sequencer.NoteSlot{Kind: sequencer.NotePitch, Pitch: 12})

	attack := make([][2]float64, 64)
	s.Stream(attack)
	if p := peak(attack); p < 0.09 || p > pulseLevel+1e-9 {
		t.Errorf("Expected attack near %f, got %f", pulseLevel, p)
	}

	// well past the decay time constant the level settles at the sustain
	held := make([][2]float64, testRate.N(1e9/2))
	s.Stream(held)
	tail := held[len(held)-256:]
	if p := peak(tail); math.Abs(p-pulseLevel*pulseSustain) > 1e-3 {
		t.Errorf("Expected sustain %f, got %f", pulseLevel*pulseSustain, p)
	}

	s.Play(sequencer.NoteSlot{Kind: sequencer.NoteOff})
	rel := make([][2]float64, testRate.N(1e8)) // 100ms, ten release constants
	s.Stream(rel)
	if p := peak(rel[len(rel)-64:]); p > 1e-4 {
		t.Errorf("Expected release to silence, got %f", p)
	}
}

func TestPulseSynthContKeepsNote(t *testing.T) {
	s := NewPulseSynth(testRate)
	s.Play(sequencer.NoteSlot{Kind: sequencer.NotePitch, Pitch: 0})
	s.Stream(make([][2]float64, 2048))

	s.Play(sequencer.NoteSlot{Kind: sequencer.NoteCont, PulseWidth: 0.6})
	if d := s.Duty(); math.Abs(d-0.8) > 1e-9 {
		t.Errorf("Expected duty 0.8, got %f", d)
	}
	buf := make([][2]float64, 256)
	s.Stream(buf)
	if peak(buf) < 0.05 {
		t.Error("Expected cont to keep the note sounding")
	}

	s.Play(sequencer.NoteSlot{Kind: sequencer.NoteCont, PulseWidth: 1})
	if d := s.Duty(); d != maxDuty {
		t.Errorf("Expected duty capped at %f, got %f", maxDuty, d)
	}
	s.Play(sequencer.NoteSlot{Kind: sequencer.NoteCont})
	if d := s.Duty(); d != 0.5 {
		t.Errorf("Expected absent width to reset duty to 0.5, got %f", d)
	}
}

func TestPulseSynthGlide(t *testing.T) {
	s := NewPulseSynth(testRate)
	s.Play(sequencer.NoteSlot{Kind: sequencer.NotePitch, Pitch: 0})
	s.Play(sequencer.NoteSlot{Kind: sequencer.NotePitch, Pitch: 12, Glide: 1})

	s.Stream(make([][2]float64, 1))
	if f := s.freq.value; f <= 55 || f >= 100 {
		t.Errorf("Expected frequency part way through the glide, got %f", f)
	}

	s.Play(sequencer.NoteSlot{Kind: sequencer.NotePitch, Pitch: 24})
	if s.freq.value != 220 {
		t.Errorf("Expected an immediate jump without glide, got %f", s.freq.value)
	}
}

func TestPulseSynthIgnoresDrums(t *testing.T) {
	s := NewPulseSynth(testRate)
	s.Play(sequencer.DrumSlot{Hit: sequencer.Kick})
	buf := make([][2]float64, 128)
	s.Stream(buf)
	if peak(buf) != 0 {
		t.Error("Expected drum slot to be ignored")
	}
}

func TestDrumSynthHits(t *testing.T) {
	tests := []struct {
		name string
		hit  sequencer.Drum
		max  float64
	}{
		{"kick", sequencer.Kick, 0.3},
		{"snare", sequencer.Snare, 0.4},
		{"hat", sequencer.Noise, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDrumSynth(testRate, 1)
			s.Play(sequencer.DrumSlot{Hit: tt.hit})

			buf := make([][2]float64, testRate.N(5e7)) // 50ms
			s.Stream(buf)
			p := peak(buf)
			if p == 0 || p > tt.max+1e-9 {
				t.Errorf("Expected peak in (0, %f], got %f", tt.max, p)
			}

			// every envelope has ended after 200ms
			s.Stream(make([][2]float64, testRate.N(2e8)))
			tail := make([][2]float64, 256)
			s.Stream(tail)
			if peak(tail) != 0 {
				t.Errorf("Expected silence after the hit, got %f", peak(tail))
			}
		})
	}
}

func TestDrumSynthVelocityScales(t *testing.T) {
	loud := NewDrumSynth(testRate, 1)
	soft := NewDrumSynth(testRate, 1)
	loud.Play(sequencer.DrumSlot{Hit: sequencer.Kick})
	soft.Play(sequencer.DrumSlot{Hit: sequencer.Kick, Velocity: 0.5})

	a := make([][2]float64, 64)
	b := make([][2]float64, 64)
	loud.Stream(a)
	soft.Stream(b)
	if math.Abs(peak(b)-peak(a)/2) > 1e-9 {
		t.Errorf("Expected half-velocity peak %f, got %f", peak(a)/2, peak(b))
	}

	off := NewDrumSynth(testRate, 1)
	off.Play(sequencer.DrumSlot{Hit: sequencer.DrumOff})
	c := make([][2]float64, 64)
	off.Stream(c)
	if peak(c) != 0 {
		t.Error("Expected DrumOff to stay silent")
	}
}

func TestHatPanStaysNarrow(t *testing.T) {
	s := NewDrumSynth(testRate, 7)
	for i := 0; i < 50; i++ {
		s.Play(sequencer.DrumSlot{Hit: sequencer.Noise})
		if s.pan < -0.2 || s.pan > 0.2 {
			t.Fatalf("Expected pan within ±0.2, got %f", s.pan)
		}
	}
}

func TestCurve(t *testing.T) {
	c := newCurve([]float64{1, 0}, 1, beep.SampleRate(4), 2)
	want := []float64{2, 1.5, 1, 0.5, 0, 0}
	for i, w := range want {
		if got := c.next(); math.Abs(got-w) > 1e-9 {
			t.Errorf("sample %d: expected %f, got %f", i, w, got)
		}
	}
	var empty curve
	if empty.next() != 0 {
		t.Error("Expected empty curve to be silent")
	}
}

func TestEngineGraph(t *testing.T) {
	e := NewEngine(44100, 80)
	voices := e.Voices()
	if _, ok := voices[sequencer.DrumVoice].(*DrumSynth); !ok {
		t.Errorf("Expected drum synth on the drum voice, got %T", voices[sequencer.DrumVoice])
	}
	for v := 0; v < sequencer.DrumVoice; v++ {
		if _, ok := voices[v].(*PulseSynth); !ok {
			t.Errorf("voice %d: expected pulse synth, got %T", v, voices[v])
		}
	}

	buf := make([][2]float64, 256)
	e.Output().Stream(buf)
	if peak(buf) != 0 {
		t.Error("Expected silent output before any slot")
	}

	// voice 1 is panned left
	voices[1].Play(sequencer.NoteSlot{Kind: sequencer.NotePitch, Pitch: 12})
	e.Output().Stream(buf)
	var l, r float64
	for _, s := range buf {
		l += math.Abs(s[0])
		r += math.Abs(s[1])
	}
	if l <= r {
		t.Errorf("Expected left-heavy output, got L=%f R=%f", l, r)
	}

	e.SetVolume(0)
	e.Output().Stream(buf)
	if peak(buf) != 0 {
		t.Error("Expected volume 0 to silence the output")
	}
	e.Close() // never started, no-op
}
