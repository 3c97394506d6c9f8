package transition

import (
	"log/slog"

	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/geom"
	"github.com/tessro/chatsurface/internal/layout"
	"github.com/tessro/chatsurface/internal/panel"
)

// Op is the kind of animation directive.
type Op int

const (
	OpAppear Op = iota
	OpUpdate
	OpDisappear
)

func (o Op) String() string {
	switch o {
	case OpAppear:
		return "appear"
	case OpUpdate:
		return "update"
	case OpDisappear:
		return "disappear"
	default:
		return "unknown"
	}
}

// Directive tells the scheduler how to move one panel for a layout pass.
type Directive struct {
	Slot  panel.Slot
	Op    Op
	Panel panel.Panel

	// From is the start frame of an appearing panel.
	From      geom.Rect
	FromAlpha float64

	To      geom.Rect
	ToAlpha float64

	// AnimateOut runs the context panel's own exit hook as the second
	// completion signal instead of an alpha fade.
	AnimateOut bool
	// GuardReassign skips the release if the slot holds the panel again by
	// the time both signals arrive.
	GuardReassign bool
	// Force animates the frame even when it already equals the target.
	Force bool

	host *Host
}

// Host is an installed panel and the node presenting it.
type Host struct {
	Panel panel.Panel
	Node  *anim.Node
}

type departure struct {
	host  *Host
	join  *anim.Join
	guard bool
}

// Scheduler owns the panel instances installed in each slot and animates
// them in and out. A slot holds one active host and at most one departing
// host whose exit animation is still running.
type Scheduler struct {
	link      *anim.DisplayLink
	hosts     [panel.SlotCount]*Host
	departing [panel.SlotCount]*departure

	onRelease func(slot panel.Slot, p panel.Panel)
	released  int
}

// NewScheduler returns a scheduler animating on link.
func NewScheduler(link *anim.DisplayLink) *Scheduler {
	return &Scheduler{link: link}
}

// OnRelease registers a callback run when a departing panel is released.
func (s *Scheduler) OnRelease(fn func(slot panel.Slot, p panel.Panel)) {
	s.onRelease = fn
}

// Installed returns the active panel of every slot.
func (s *Scheduler) Installed() panel.Set {
	var set panel.Set
	for _, slot := range panel.Slots {
		if h := s.hosts[slot]; h != nil {
			set[slot] = h.Panel
		}
	}
	return set
}

// Host returns the active host of slot, or nil.
func (s *Scheduler) Host(slot panel.Slot) *Host {
	return s.hosts[slot]
}

// Departing returns the host whose exit animation is running in slot, or nil.
func (s *Scheduler) Departing(slot panel.Slot) *Host {
	if d := s.departing[slot]; d != nil {
		return d.host
	}
	return nil
}

// Released returns how many departing panels have been released.
func (s *Scheduler) Released() int { return s.released }

// Plan diffs the installed panels against next and produces the directives
// for one layout pass. For every slot, the appear/update of the incoming
// panel and the disappear of its predecessor are planned together.
func (s *Scheduler) Plan(next panel.Set, res layout.Result) []Directive {
	var out []Directive
	for _, slot := range panel.Slots {
		prev := s.hosts[slot]
		incoming := next[slot]
		frame := res.Frames[slot]

		if incoming != nil && frame.Present {
			if prev != nil && panel.Same(prev.Panel, incoming) {
				out = append(out, Directive{
					Slot: slot, Op: OpUpdate, Panel: incoming,
					To: frame.Rect, ToAlpha: 1,
				})
			} else {
				out = append(out, appearDirective(slot, incoming, frame.Rect, res))
			}
		}
		if prev != nil && !panel.Same(prev.Panel, incoming) {
			out = append(out, disappearDirective(slot, prev, next, res))
		}
	}
	return out
}

func appearDirective(slot panel.Slot, p panel.Panel, to geom.Rect, res layout.Result) Directive {
	d := Directive{Slot: slot, Op: OpAppear, Panel: p, To: to, ToAlpha: 1, From: to, FromAlpha: 1}
	switch slot {
	case panel.SlotTitleAccessory:
		d.From = to.Offset(0, -to.H)
	case panel.SlotInputPanel, panel.SlotAccessoryPanel:
		d.From = to.WithY(res.PreviousStackTop)
		d.FromAlpha = 0
	case panel.SlotInputSurface:
		d.From = to.WithY(res.Viewport.H - res.PreviousBottomInset)
	case panel.SlotInputContextPanel:
		d.FromAlpha = 0
	}
	return d
}

func disappearDirective(slot panel.Slot, prev *Host, next panel.Set, res layout.Result) Directive {
	cur := prev.Node.Frame
	bottom := res.Viewport.H - res.BottomInset()
	d := Directive{Slot: slot, Op: OpDisappear, Panel: prev.Panel, To: cur, ToAlpha: 0, host: prev}
	switch slot {
	case panel.SlotTitleAccessory:
		d.To = cur.WithY(cur.Y - cur.H)
		d.ToAlpha = prev.Node.Alpha
	case panel.SlotInputPanel:
		d.To = cur.WithY(bottom)
		d.GuardReassign = true
	case panel.SlotAccessoryPanel:
		target := bottom
		if next[panel.SlotInputPanel] != nil && res.Frames[panel.SlotInputPanel].Present {
			target = res.Frames[panel.SlotInputPanel].Rect.MinY()
		}
		d.To = cur.WithY(target)
	case panel.SlotInputContextPanel:
		placement := panel.PlacementFor(prev.Panel.Variant().Kind)
		if cp, ok := prev.Panel.(panel.ContextPanel); ok {
			placement = cp.Placement()
		}
		d.To = res.ContextRect(placement)
		d.ToAlpha = prev.Node.Alpha
		d.AnimateOut = true
	case panel.SlotInputSurface:
		d.To = geom.Rect{X: 0, Y: bottom, W: res.Viewport.W, H: max(res.BottomInset(), cur.H)}
		d.ToAlpha = prev.Node.Alpha
		d.Force = true
		d.GuardReassign = true
	}
	return d
}

// Apply runs the directives with tr. Immediate transitions apply every frame
// synchronously and release departing panels before returning.
func (s *Scheduler) Apply(ds []Directive, tr anim.Transition) {
	for _, d := range ds {
		switch d.Op {
		case OpAppear:
			s.appear(d, tr)
		case OpUpdate:
			h := s.hosts[d.Slot]
			if h == nil {
				continue
			}
			s.link.UpdateFrame(h.Node, d.To, tr, nil)
			s.link.UpdateAlpha(h.Node, d.ToAlpha, tr, nil)
		case OpDisappear:
			s.disappear(d, tr)
		}
	}
}

func (s *Scheduler) appear(d Directive, tr anim.Transition) {
	// The same instance coming back before its exit finished: the pending
	// release is superseded and the node animates from where it is.
	if dep := s.departing[d.Slot]; dep != nil && panel.Same(dep.host.Panel, d.Panel) {
		dep.join.Cancel()
		s.departing[d.Slot] = nil
		s.hosts[d.Slot] = dep.host
		slog.Debug("departure superseded", "slot", d.Slot.String(), "variant", d.Panel.Variant().String())
		s.link.UpdateFrame(dep.host.Node, d.To, tr, nil)
		s.link.UpdateAlpha(dep.host.Node, d.ToAlpha, tr, nil)
		return
	}

	node := anim.NewNode(d.From)
	node.Alpha = d.FromAlpha
	host := &Host{Panel: d.Panel, Node: node}
	s.hosts[d.Slot] = host
	s.link.UpdateFrame(node, d.To, tr, nil)
	s.link.UpdateAlpha(node, d.ToAlpha, tr, nil)
}

func (s *Scheduler) disappear(d Directive, tr anim.Transition) {
	host := d.host
	if host == nil {
		return
	}
	if s.hosts[d.Slot] == host {
		s.hosts[d.Slot] = nil
	}

	// A slot keeps one departing host; an older one still animating is
	// released now.
	if old := s.departing[d.Slot]; old != nil {
		old.join.Cancel()
		s.departing[d.Slot] = nil
		s.release(d.Slot, old.host)
	}

	dep := &departure{host: host, guard: d.GuardReassign}
	dep.join = anim.NewJoin(func() { s.finishDeparture(d.Slot, dep) })
	s.departing[d.Slot] = dep

	s.link.UpdateFrameForced(host.Node, d.To, tr, d.Force, dep.join.First)

	cp, isContext := host.Panel.(panel.ContextPanel)
	switch {
	case d.AnimateOut && isContext && tr.IsAnimated():
		cp.AnimateOut(dep.join.SecondDone)
	case d.AnimateOut:
		dep.join.Second(true)
	default:
		s.link.UpdateAlpha(host.Node, d.ToAlpha, tr, dep.join.Second)
	}
}

func (s *Scheduler) finishDeparture(slot panel.Slot, dep *departure) {
	if s.departing[slot] == dep {
		s.departing[slot] = nil
	}
	if dep.guard {
		if h := s.hosts[slot]; h != nil && panel.Same(h.Panel, dep.host.Panel) {
			return
		}
	}
	s.release(slot, dep.host)
}

func (s *Scheduler) release(slot panel.Slot, h *Host) {
	s.released++
	slog.Debug("panel released", "slot", slot.String(), "variant", h.Panel.Variant().String())
	if s.onRelease != nil {
		s.onRelease(slot, h.Panel)
	}
}
