package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// param is a per-sample control value that jumps or moves exponentially
// towards a target
type param struct {
	value  float64
	target float64
	coef   float64 // fraction of the remaining distance covered per sample
}

func (p *param) set(v float64) {
	p.value, p.target, p.coef = v, v, 0
}

// approach moves towards target with time constant tau seconds; tau <= 0 jumps
func (p *param) approach(target, tau float64, sr beep.SampleRate) {
	if tau <= 0 {
		p.set(target)
		return
	}
	p.target = target
	p.coef = 1 - math.Exp(-1/(tau*float64(sr)))
}

func (p *param) next() float64 {
	p.value += (p.target - p.value) * p.coef
	return p.value
}

// curve interpolates linearly through evenly spaced points over n samples,
// then holds the last point
type curve struct {
	points []float64
	n, pos int
}

func newCurve(points []float64, seconds float64, sr beep.SampleRate, scale float64) curve {
	c := curve{points: make([]float64, len(points)), n: int(seconds * float64(sr))}
	for i, p := range points {
		c.points[i] = p * scale
	}
	return c
}

func (c *curve) next() float64 {
	if len(c.points) == 0 {
		return 0
	}
	if c.pos >= c.n || len(c.points) == 1 {
		return c.points[len(c.points)-1]
	}
	x := float64(c.pos) / float64(c.n) * float64(len(c.points)-1)
	i := int(x)
	frac := x - float64(i)
	c.pos++
	return c.points[i]*(1-frac) + c.points[i+1]*frac
}
