// Package anim drives frame and alpha animations of surface nodes from a
// single-threaded display refresh cycle.
package anim

import (
	"fmt"
	"time"
)

// Curve is the timing function of an animated transition.
type Curve int

const (
	CurveEaseInOut Curve = iota
	CurveSpring
)

func (c Curve) String() string {
	switch c {
	case CurveEaseInOut:
		return "ease-in-out"
	case CurveSpring:
		return "spring"
	default:
		return "unknown"
	}
}

// Transition describes how a layout change is applied: immediately, or
// animated over a duration with a curve.
type Transition struct {
	Duration time.Duration
	Curve    Curve
}

// Immediate applies new values synchronously.
var Immediate = Transition{}

// Animated returns an animated transition.
func Animated(d time.Duration, c Curve) Transition {
	return Transition{Duration: d, Curve: c}
}

// IsAnimated reports whether the transition interpolates.
func (t Transition) IsAnimated() bool {
	return t.Duration > 0
}

func (t Transition) String() string {
	if !t.IsAnimated() {
		return "immediate"
	}
	return fmt.Sprintf("animated(%s, %s)", t.Duration, t.Curve)
}
