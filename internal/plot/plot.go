// Package plot samples a single-variable expression over an interval for
// graphing. Expressions are parsed once and evaluated with x bound to each
// sample point.
package plot

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/zephyrtronium/calcexpr"
)

// Var is the name of the variable bound at each sample.
const Var = "x"

// Range describes the interval to sample. Width is the width of the target
// in pixels; the interval is sampled twice per pixel.
type Range struct {
	XMin  float64 `json:"xMin"`
	XMax  float64 `json:"xMax"`
	Width int     `json:"width"`
}

// Validate reports whether the range can be sampled.
func (r Range) Validate() error {
	switch {
	case math.IsNaN(r.XMin) || math.IsInf(r.XMin, 0) || math.IsNaN(r.XMax) || math.IsInf(r.XMax, 0):
		return errors.New("plot range must be finite")
	case !(r.XMin < r.XMax):
		return fmt.Errorf("empty plot range [%g, %g]", r.XMin, r.XMax)
	case r.Width <= 0:
		return fmt.Errorf("plot width must be positive, not %d", r.Width)
	}
	return nil
}

// Step is the distance between samples.
func (r Range) Step() float64 {
	return (r.XMax - r.XMin) / float64(2*r.Width)
}

// Point is one sample on the curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a run of consecutive samples that all evaluated to finite values.
type Segment []Point

// Curve is the sampled expression.
type Curve struct {
	// Segments holds the continuous pieces of the curve in order of x. A
	// sample that fails to evaluate or is not finite ends a segment.
	Segments []Segment `json:"segments"`
	// Samples is the number of points evaluated.
	Samples int `json:"samples"`
	// Skipped is the number of samples that failed or were not finite.
	Skipped int `json:"skipped"`
	// YMin and YMax bound the finite samples. Both are 0 if there are none.
	YMin float64 `json:"yMin"`
	YMax float64 `json:"yMax"`
}

// Sample evaluates e at evenly spaced points from r.XMin to r.XMax inclusive.
// ctx supplies the angle mode and other variables; it is not modified.
func Sample(e *calcexpr.Expr, ctx *calcexpr.Context, r Range) (*Curve, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	ctx = ctx.Clone()
	xs := floats.Span(make([]float64, 2*r.Width+1), r.XMin, r.XMax)
	ys := make([]float64, 0, len(xs))
	c := Curve{Samples: len(xs)}
	var cur Segment
	for _, x := range xs {
		y, err := ctx.Set(Var, x).Eval(e)
		if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
			c.Skipped++
			if len(cur) > 0 {
				c.Segments = append(c.Segments, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, Point{X: x, Y: y})
		ys = append(ys, y)
	}
	if len(cur) > 0 {
		c.Segments = append(c.Segments, cur)
	}
	if len(ys) > 0 {
		c.YMin = floats.Min(ys)
		c.YMax = floats.Max(ys)
	}
	return &c, nil
}

// SampleString parses src and samples it. Parse errors are returned as is.
func SampleString(src string, ctx *calcexpr.Context, r Range, opts ...calcexpr.ParseOption) (*Curve, error) {
	e, err := calcexpr.Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	return Sample(e, ctx, r)
}
