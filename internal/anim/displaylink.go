package anim

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/tessro/chatsurface/internal/geom"
)

// Spring parameters used for CurveSpring. They settle well within the
// 0.4s layout transition.
const (
	springFPS       = 60
	springFrequency = 12.0
	springDamping   = 0.8
)

// Node is an on-screen element with an animatable frame and alpha. Frame and
// Alpha hold the presented values; they move toward their targets on ticks.
type Node struct {
	Frame geom.Rect
	Alpha float64

	frameAnim *animation
	alphaAnim *animation
}

// NewNode returns a fully opaque node at frame.
func NewNode(frame geom.Rect) *Node {
	return &Node{Frame: frame, Alpha: 1}
}

// Animating reports whether the node has a running animation.
func (n *Node) Animating() bool {
	return n.frameAnim != nil || n.alphaAnim != nil
}

type property int

const (
	propFrame property = iota
	propAlpha
)

type animation struct {
	node *Node
	prop property
	tr   Transition

	fromFrame, toFrame geom.Rect
	fromAlpha, toAlpha float64

	started bool
	start   time.Time

	spring    harmonica.Spring
	springPos float64
	springVel float64
	simulated time.Duration

	completion func(finished bool)
}

func (a *animation) progress(now time.Time) (float64, bool) {
	if !a.started {
		a.started = true
		a.start = now
		return 0, false
	}
	elapsed := now.Sub(a.start)
	if elapsed >= a.tr.Duration {
		return 1, true
	}
	switch a.tr.Curve {
	case CurveSpring:
		step := time.Second / springFPS
		for a.simulated < elapsed {
			a.springPos, a.springVel = a.spring.Update(a.springPos, a.springVel, 1)
			a.simulated += step
		}
		return a.springPos, false
	default:
		return easeInOut(float64(elapsed) / float64(a.tr.Duration)), false
	}
}

func (a *animation) apply(p float64) {
	switch a.prop {
	case propFrame:
		a.node.Frame = lerpRect(a.fromFrame, a.toFrame, p)
	case propAlpha:
		a.node.Alpha = a.fromAlpha + (a.toAlpha-a.fromAlpha)*p
	}
}

func (a *animation) finish() {
	switch a.prop {
	case propFrame:
		a.node.Frame = a.toFrame
		a.node.frameAnim = nil
	case propAlpha:
		a.node.Alpha = a.toAlpha
		a.node.alphaAnim = nil
	}
}

// DisplayLink is the display refresh cycle. Callbacks scheduled with
// Schedule run on the next Tick, before running animations advance. It is not
// safe for concurrent use; all calls happen on the UI goroutine.
type DisplayLink struct {
	pending []func()
	running []*animation
}

// NewDisplayLink returns an idle display link.
func NewDisplayLink() *DisplayLink {
	return &DisplayLink{}
}

// Schedule runs fn on the next tick.
func (d *DisplayLink) Schedule(fn func()) {
	d.pending = append(d.pending, fn)
}

// Active reports whether a tick would do any work.
func (d *DisplayLink) Active() bool {
	return len(d.pending) > 0 || len(d.running) > 0
}

// Tick runs the callbacks scheduled before this tick and advances animations.
// Callbacks scheduled during the tick run on the following one.
func (d *DisplayLink) Tick(now time.Time) {
	callbacks := d.pending
	d.pending = nil
	for _, fn := range callbacks {
		fn()
	}

	running := d.running
	d.running = nil
	var finished []*animation
	for _, a := range running {
		if !a.owned() {
			continue
		}
		p, done := a.progress(now)
		if done {
			a.finish()
			finished = append(finished, a)
			continue
		}
		a.apply(p)
		d.running = append(d.running, a)
	}
	for _, a := range finished {
		if a.completion != nil {
			a.completion(true)
		}
	}
}

// owned reports whether the animation is still the node's current one.
func (a *animation) owned() bool {
	switch a.prop {
	case propFrame:
		return a.node.frameAnim == a
	default:
		return a.node.alphaAnim == a
	}
}

// UpdateFrame moves n to frame. Immediate transitions, and animated ones whose
// target equals the presented frame, complete synchronously. An animation
// already running on the frame is superseded and completes with false.
func (d *DisplayLink) UpdateFrame(n *Node, frame geom.Rect, tr Transition, completion func(finished bool)) {
	d.UpdateFrameForced(n, frame, tr, false, completion)
}

// UpdateFrameForced is UpdateFrame that animates even when the target equals
// the presented frame.
func (d *DisplayLink) UpdateFrameForced(n *Node, frame geom.Rect, tr Transition, force bool, completion func(finished bool)) {
	prev := n.frameAnim
	n.frameAnim = nil
	if prev != nil && prev.completion != nil {
		defer prev.completion(false)
	}
	if !tr.IsAnimated() || (n.Frame == frame && !force) {
		n.Frame = frame
		if completion != nil {
			completion(true)
		}
		return
	}
	a := d.newAnimation(n, propFrame, tr, completion)
	a.fromFrame, a.toFrame = n.Frame, frame
	n.frameAnim = a
	d.running = append(d.running, a)
}

// UpdateAlpha fades n to alpha with the same completion rules as UpdateFrame.
func (d *DisplayLink) UpdateAlpha(n *Node, alpha float64, tr Transition, completion func(finished bool)) {
	prev := n.alphaAnim
	n.alphaAnim = nil
	if prev != nil && prev.completion != nil {
		defer prev.completion(false)
	}
	if !tr.IsAnimated() || n.Alpha == alpha {
		n.Alpha = alpha
		if completion != nil {
			completion(true)
		}
		return
	}
	a := d.newAnimation(n, propAlpha, tr, completion)
	a.fromAlpha, a.toAlpha = n.Alpha, alpha
	n.alphaAnim = a
	d.running = append(d.running, a)
}

func (d *DisplayLink) newAnimation(n *Node, prop property, tr Transition, completion func(bool)) *animation {
	a := &animation{node: n, prop: prop, tr: tr, completion: completion}
	if tr.Curve == CurveSpring {
		a.spring = harmonica.NewSpring(harmonica.FPS(springFPS), springFrequency, springDamping)
	}
	return a
}

func easeInOut(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	return 1 - math.Pow(-2*p+2, 3)/2
}

func lerpInt(a, b int, p float64) int {
	return a + int(math.Round(float64(b-a)*p))
}

func lerpRect(a, b geom.Rect, p float64) geom.Rect {
	return geom.Rect{
		X: lerpInt(a.X, b.X, p),
		Y: lerpInt(a.Y, b.Y, p),
		W: lerpInt(a.W, b.W, p),
		H: lerpInt(a.H, b.H, p),
	}
}
