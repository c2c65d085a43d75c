// Package theory holds the fixed musical tables the generators read from:
// scales, chord shapes and the chord progression library.
package theory

import (
	"fmt"
	"math"

	"go-autotracker/rng"
)

// Scale is a named seven-step interval table
type Scale struct {
	Name  string
	Steps [7]int
}

var (
	Major = Scale{Name: "major", Steps: [7]int{0, 2, 3, 5, 7, 8, 10}}
	Minor = Scale{Name: "minor", Steps: [7]int{0, 2, 4, 5, 7, 9, 11}}
)

// Len is the number of steps in a scale
func (s Scale) Len() int { return len(s.Steps) }

// Step returns the interval for any scale index, wrapping on both sides
func (s Scale) Step(i int) int {
	return s.Steps[mod(i, len(s.Steps))]
}

// Flag is the scale's save-code byte: 0 major, 1 minor
func (s Scale) Flag() int {
	if s == Minor {
		return 1
	}
	return 0
}

// ScaleFromFlag is the inverse of Flag. Any non-zero flag is minor.
func ScaleFromFlag(flag int) Scale {
	if flag == 0 {
		return Major
	}
	return Minor
}

// Chord shapes as scale-index offsets from the chord root
var (
	Triad  = []int{0, 2, 4}
	Single = []int{0}
)

// ProgressionLength is the number of chord degrees in a progression.
// Each degree lasts four steps, so one progression spans a pattern.
const ProgressionLength = 16

// StepsPerChord is how many pattern steps share one progression degree
const StepsPerChord = 4

// Progression is a sequence of 1-based scale degrees
type Progression [ProgressionLength]int

// The library order is part of the save-code format: codes store an index
// into this slice.
var progressions = []Progression{
	{1, 1, 1, 1, 6, 6, 6, 6, 4, 4, 4, 4, 3, 3, 5, 5},
	{1, 1, 1, 1, 6, 6, 6, 6, 1, 1, 1, 1, 6, 6, 6, 6},
	{4, 4, 4, 4, 5, 5, 5, 5, 1, 1, 1, 1, 1, 1, 3, 3},
	{1, 1, 6, 6, 4, 4, 5, 5, 1, 1, 6, 6, 3, 3, 5, 5},
	{5, 5, 4, 4, 1, 1, 1, 1, 5, 5, 6, 6, 1, 1, 1, 1},
	{6, 6, 6, 6, 5, 5, 5, 5, 4, 4, 4, 4, 5, 5, 5, 5},
	{1, 1, 1, 1, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5},
	{6, 6, 6, 6, 4, 4, 4, 4, 1, 1, 1, 1, 1, 1, 5, 5},
	{1, 1, 1, 1, 1, 1, 1, 1, 4, 4, 4, 4, 4, 4, 4, 4},
}

// NumProgressions is the size of the progression library
func NumProgressions() int { return len(progressions) }

// ProgressionAt returns library entry i
func ProgressionAt(i int) (Progression, bool) {
	if i < 0 || i >= len(progressions) {
		return Progression{}, false
	}
	return progressions[i], true
}

// Degree returns the chord degree under pattern step i
func (p Progression) Degree(step int) int {
	return p[mod(step/StepsPerChord, ProgressionLength)]
}

// ChordDegrees returns the scale indices of the chord under step, before
// transposition into a key
func ChordDegrees(p Progression, scale Scale, step int, shape []int) []int {
	d := p.Degree(step)
	out := make([]int, len(shape))
	for i, o := range shape {
		out[i] = mod(d-1+o, scale.Len())
	}
	return out
}

// ChordAt returns the pitches of the chord under step in the given key
func ChordAt(p Progression, key int, scale Scale, step int, shape []int) []int {
	degrees := ChordDegrees(p, scale, step, shape)
	out := make([]int, len(degrees))
	for i, d := range degrees {
		out[i] = key + scale.Steps[d]
	}
	return out
}

// Modulate moves to the relative major/minor or one step round the circle of
// fifths. Draw order: one IntBelow(2), then one Float64 only for the fifths move.
func Modulate(r rng.Rand, key int, scale Scale) (int, Scale) {
	if r.IntBelow(2) == 0 {
		if scale == Minor {
			return mod(key+3, 12), Major
		}
		return mod(key+9, 12), Minor
	}
	if r.Float64() < 0.5 {
		return mod(key+7, 12), scale
	}
	return mod(key+5, 12), scale
}

// A0 is the pitch that renders as octave 0
const A0 = -12

// A0Frequency is the frequency of pitch 0
const A0Frequency = 55.0

var noteNames = [12]string{"A-", "A#", "B-", "C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#"}

// NoteName renders a pitch tracker style, e.g. pitch 0 is "A-1"
func NoteName(pitch int) string {
	v := pitch - A0
	return fmt.Sprintf("%s%d", noteNames[mod(v, 12)], floorDiv(v, 12))
}

// KeyName names a key offset from A
func KeyName(key int) string {
	name := noteNames[mod(key, 12)]
	if name[1] == '-' {
		return name[:1]
	}
	return name
}

// Frequency returns the oscillator frequency for a pitch
func Frequency(pitch float64) float64 {
	return A0Frequency * math.Pow(2, pitch/12)
}

// MIDINote maps a pitch to a MIDI note number. Pitch 0 is A1, MIDI 33.
func MIDINote(pitch int) uint8 {
	n := pitch + 33
	if n < 0 {
		n = 0
	}
	if n > 127 {
		n = 127
	}
	return uint8(n)
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}
