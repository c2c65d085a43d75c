package sequencer

import (
	"fmt"
	"strconv"
	"strings"

	"go-autotracker/theory"
)

// CodePrefix starts every save code
const CodePrefix = "0x"

// CodeLength is the full length of a save code including the prefix
const CodeLength = len(CodePrefix) + 5*2 + SeedCodeLength

// Encode renders a song state as a save code:
// 0x + key + scale flag + progression + bpm + song index (two hex digits
// each, bpm and song index mod 256) + seed code. Output is lower case.
func Encode(s SongState) string {
	var b strings.Builder
	b.Grow(CodeLength)
	b.WriteString(CodePrefix)
	for _, v := range []int{s.Key, s.Scale.Flag(), s.Progression, s.BPM, s.SongIndex} {
		fmt.Fprintf(&b, "%02x", v&0xff)
	}
	b.WriteString(strings.ToLower(s.SeedCode))
	return b.String()
}

// Decode parses a save code. Hex digits may be either case. Nothing is
// built unless every field validates.
func Decode(code string) (SongState, error) {
	if !strings.HasPrefix(code, CodePrefix) {
		return SongState{}, decodeErr(code, "prefix", ErrCodePrefix)
	}
	if len(code) != CodeLength {
		return SongState{}, decodeErr(code, "length", fmt.Errorf("%w: got %d characters", ErrCodeLength, len(code)-len(CodePrefix)))
	}

	body := strings.ToLower(code[len(CodePrefix):])
	for i, c := range body {
		if !strings.ContainsRune(hexDigits, c) {
			return SongState{}, decodeErr(code, "hex", fmt.Errorf("%w: %q at %d", ErrCodeHex, c, i+len(CodePrefix)))
		}
	}

	fields := []string{"key", "scale", "progression", "bpm", "songIndex"}
	vals := make([]int, len(fields))
	for i := range fields {
		v, err := strconv.ParseUint(body[i*2:i*2+2], 16, 8)
		if err != nil {
			return SongState{}, decodeErr(code, fields[i], err)
		}
		vals[i] = int(v)
	}

	if vals[0] >= 12 {
		return SongState{}, decodeErr(code, "key", fmt.Errorf("%w: %d", ErrKeyRange, vals[0]))
	}
	if vals[2] >= theory.NumProgressions() {
		return SongState{}, decodeErr(code, "progression", fmt.Errorf("%w: %d", ErrProgressionIndex, vals[2]))
	}

	return SongState{
		Key:         vals[0],
		Scale:       theory.ScaleFromFlag(vals[1]),
		Progression: vals[2],
		BPM:         vals[3],
		SongIndex:   vals[4],
		SeedCode:    body[10:],
	}, nil
}

// IsCode reports whether input should be treated as a save code rather
// than a seed string
func IsCode(input string) bool {
	return strings.HasPrefix(input, CodePrefix)
}
