// Package transition coalesces layout requests and animates panels in and
// out of the chat surface's slots.
package transition

import (
	"log/slog"

	"github.com/tessro/chatsurface/internal/anim"
)

// Request is a pending layout request stamped with its generation.
type Request struct {
	ID         uint64
	Transition anim.Transition
}

// Decision records what Coalescer.Request did with a request.
type Decision int

const (
	// DecisionScheduled queued the request for the next tick.
	DecisionScheduled Decision = iota
	// DecisionKept left an already pending animated request in place.
	DecisionKept
	// DecisionRestamped re-queued the pending animated request under a new id.
	DecisionRestamped
	// DecisionFlushed ran the layout synchronously.
	DecisionFlushed
)

func (d Decision) String() string {
	switch d {
	case DecisionScheduled:
		return "scheduled"
	case DecisionKept:
		return "kept"
	case DecisionRestamped:
		return "restamped"
	case DecisionFlushed:
		return "flushed"
	default:
		return "unknown"
	}
}

// Coalescer is a single-slot pending-request queue. Each Schedule replaces
// the pending request with a newer generation; when the display link ticks,
// only the request matching the latest generation runs.
type Coalescer struct {
	link    *anim.DisplayLink
	nextID  uint64
	pending *Request
	fire    func(anim.Transition)
}

// NewCoalescer returns a coalescer that calls fire on the display link's next
// tick for the latest scheduled request.
func NewCoalescer(link *anim.DisplayLink, fire func(anim.Transition)) *Coalescer {
	return &Coalescer{link: link, fire: fire}
}

// Schedule queues tr for the next tick and returns its generation.
func (c *Coalescer) Schedule(tr anim.Transition) uint64 {
	id := c.nextID
	c.nextID++
	c.pending = &Request{ID: id, Transition: tr}
	c.link.Schedule(func() {
		if c.pending == nil || c.pending.ID != id {
			return
		}
		req := *c.pending
		c.pending = nil
		c.fire(req.Transition)
	})
	return id
}

// Pending returns the queued request, if any.
func (c *Coalescer) Pending() (Request, bool) {
	if c.pending == nil {
		return Request{}, false
	}
	return *c.pending, true
}

// Clear drops the queued request. A layout pass that runs for any reason
// satisfies whatever was pending.
func (c *Coalescer) Clear() {
	c.pending = nil
}

// Request applies the precedence rules for a layout request that is not a
// focus change.
//
// Interactive updates never flush: a pending immediate request is replaced
// by tr, a pending animated request is kept as is, and with nothing pending
// tr is scheduled. Non-interactive updates flush synchronously unless an
// animated request is pending, in which case that request is re-stamped so
// it runs after this update.
func (c *Coalescer) Request(tr anim.Transition, interactive bool) Decision {
	pending, ok := c.Pending()
	var d Decision
	switch {
	case interactive && !ok:
		c.Schedule(tr)
		d = DecisionScheduled
	case interactive && !pending.Transition.IsAnimated():
		c.Schedule(tr)
		d = DecisionScheduled
	case interactive:
		d = DecisionKept
	case ok && pending.Transition.IsAnimated():
		c.Schedule(pending.Transition)
		d = DecisionRestamped
	default:
		c.fire(tr)
		d = DecisionFlushed
	}
	slog.Debug("layout request",
		"transition", tr.String(),
		"interactive", interactive,
		"decision", d.String(),
	)
	return d
}
