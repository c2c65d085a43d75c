// Package rng is the seeded random source behind every generated pattern.
//
// A string seed is hashed with xmur3 into four 32-bit words which initialise
// an sfc32 generator. Identical seeds give identical streams, which is what
// makes a save code reproduce a song.
package rng

import "unicode/utf16"

// Rand is the subset of Source the generators draw from
type Rand interface {
	Float64() float64
	IntBelow(n int) int
	Flip(p float64) bool
}

// Source is an sfc32 generator
type Source struct {
	a, b, c, d uint32
}

// New returns a Source seeded from s
func New(s string) *Source {
	r := &Source{}
	r.Seed(s)
	return r
}

// Seed resets the stream from an arbitrary string
func (r *Source) Seed(s string) {
	h := newHash(s)
	r.a = h.next()
	r.b = h.next()
	r.c = h.next()
	r.d = h.next()
}

// Uint32 returns the next raw 32-bit word
func (r *Source) Uint32() uint32 {
	t := r.a + r.b
	r.a = r.b ^ r.b>>9
	r.b = r.c + r.c<<3
	r.c = r.c<<21 | r.c>>11
	r.d++
	t += r.d
	r.c += t
	return t
}

// Float64 returns a float in [0,1)
func (r *Source) Float64() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// IntBelow returns an int in [0,n). n <= 0 returns 0.
func (r *Source) IntBelow(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Float64() * float64(n))
}

// Flip returns true with probability p
func (r *Source) Flip(p float64) bool {
	return r.Float64() < p
}

// Choose returns a uniformly selected element of xs. xs must not be empty.
func Choose[T any](r Rand, xs []T) T {
	return xs[r.IntBelow(len(xs))]
}

// xmur3 string hash; hashes UTF-16 code units so non-ASCII seeds match the
// browser-era save links.
type hash struct {
	h uint32
}

func newHash(s string) *hash {
	units := utf16.Encode([]rune(s))
	h := uint32(1779033703) ^ uint32(len(units))
	for _, u := range units {
		h = (h ^ uint32(u)) * 3432918353
		h = h<<13 | h>>19
	}
	return &hash{h: h}
}

func (x *hash) next() uint32 {
	h := x.h
	h = (h ^ h>>16) * 2246822507
	h = (h ^ h>>13) * 3266489909
	h ^= h >> 16
	x.h = h
	return h
}
