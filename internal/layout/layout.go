// Package layout computes frames and insets of the chat surface from the
// resolved panels and the viewport geometry.
//
// The message list is laid out flipped: its newest content is anchored to
// the visual bottom, so its "top" inset is the input stack and its "bottom"
// inset is the navigation bar.
package layout

import (
	"time"

	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/geom"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
)

// DefaultNavButtonMargin is the gap between the floating navigation buttons
// and the input stack / right edge.
const DefaultNavButtonMargin = 1

// Input is everything a layout pass depends on besides the panels.
type Input struct {
	Viewport     geom.Size
	NavBarHeight int
	// SafeInsets are the device insets (status bar, home indicator, gutters).
	SafeInsets geom.Insets
	// KeyboardInset is the platform keyboard height for this pass.
	KeyboardInset int
	// PreviousKeyboardInset is the keyboard inset of the prior pass.
	PreviousKeyboardInset int

	// Currently installed (pre-update) heights, used for slide-in origins.
	SurfaceInstalled          bool
	InstalledSurfaceHeight    int
	InputPanelInstalled       bool
	InstalledInputPanelHeight int

	Transition anim.Transition
	// Fresh marks slots whose panel was installed by this pass. Fresh panels
	// are laid out immediately and animate in from their start frame.
	Fresh [panel.SlotCount]bool

	NavButtons      geom.Size
	NavButtonMargin int

	State *presentation.State
}

// Frame is a slot's computed rectangle. Present is false for empty slots.
type Frame struct {
	Rect    geom.Rect
	Present bool
}

// ListUpdate is handed to the message list once per layout pass.
type ListUpdate struct {
	Size     geom.Size
	Insets   geom.Insets
	Duration time.Duration
	Curve    anim.Curve
}

// Result is the outcome of a layout pass.
type Result struct {
	Viewport geom.Size

	// Insets are the surface insets after the pass: Top includes the
	// navigation bar and title accessory, Bottom is the surface height or
	// keyboard inset.
	Insets geom.Insets

	// PreviousBottomInset is the surface or keyboard height before the pass.
	PreviousBottomInset int
	// PreviousStackTop is where the input stack used to end; panels appearing
	// in the input stack slide up from here.
	PreviousStackTop int

	// InputPanelsHeight is the sum of the input panel and accessory heights.
	InputPanelsHeight int

	Heights [panel.SlotCount]int
	Frames  [panel.SlotCount]Frame

	ContextOverList       geom.Rect
	ContextOverInputPanel geom.Rect

	InputBackground geom.Rect
	Separator       geom.Rect
	NavigateButtons geom.Rect

	List ListUpdate
}

// BottomInset returns the height reserved by the surface or keyboard.
func (r Result) BottomInset() int { return r.Insets.Bottom }

// StackTop returns the Y coordinate of the top of the input stack.
func (r Result) StackTop() int {
	return r.Viewport.H - r.Insets.Bottom - r.InputPanelsHeight
}

// ObscuredHeight is the total height covered by the top chrome and the input
// panels, excluding the keyboard or surface.
func (r Result) ObscuredHeight() int {
	return r.Insets.Top + r.InputPanelsHeight
}

// ContextRect returns the rectangle for an input context panel placement.
func (r Result) ContextRect(p panel.Placement) geom.Rect {
	if p == panel.PlacementOverInputPanel {
		return r.ContextOverInputPanel
	}
	return r.ContextOverList
}

// Engine computes layouts. It holds no state; every call is a pure function
// of its arguments and the heights the panels report.
type Engine struct{}

// Layout runs a layout pass. Empty slots never block the pass: they get an
// absent frame and contribute nothing.
func (Engine) Layout(in Input, slots panel.Set) Result {
	width := in.Viewport.W
	vh := in.Viewport.H
	res := Result{Viewport: in.Viewport}

	// Where the input stack ended before this pass, on the same basis as
	// insets.Bottom below.
	res.PreviousBottomInset = max(in.SafeInsets.Bottom, in.PreviousKeyboardInset)
	if in.SurfaceInstalled {
		res.PreviousBottomInset = in.SafeInsets.Bottom + in.InstalledSurfaceHeight
	}
	res.PreviousStackTop = vh - res.PreviousBottomInset
	if in.InputPanelInstalled {
		res.PreviousStackTop -= in.InstalledInputPanelHeight
	}

	trFor := func(slot panel.Slot) anim.Transition {
		if in.Fresh[slot] {
			return anim.Immediate
		}
		return in.Transition
	}

	// Input surface replaces the keyboard.
	insets := geom.Insets{
		Top:   in.SafeInsets.Top + in.NavBarHeight,
		Left:  in.SafeInsets.Left,
		Right: in.SafeInsets.Right,
	}
	if s := slots[panel.SlotInputSurface]; s != nil {
		h := max(0, s.UpdateLayout(width, trFor(panel.SlotInputSurface), in.State))
		res.Heights[panel.SlotInputSurface] = h
		insets.Bottom = in.SafeInsets.Bottom + h
	} else {
		insets.Bottom = max(in.SafeInsets.Bottom, in.KeyboardInset)
	}

	// Title accessory sits directly below the navigation bar.
	if p := slots[panel.SlotTitleAccessory]; p != nil {
		h := max(0, p.UpdateLayout(width, trFor(panel.SlotTitleAccessory), in.State))
		res.Heights[panel.SlotTitleAccessory] = h
		res.Frames[panel.SlotTitleAccessory] = Frame{
			Rect:    geom.Rect{X: 0, Y: insets.Top, W: width, H: h},
			Present: true,
		}
		insets.Top += h
	}

	// Bottom-up stack: [surface][input panel][accessory].
	stack := 0
	if p := slots[panel.SlotInputPanel]; p != nil {
		h := max(0, p.UpdateLayout(width, trFor(panel.SlotInputPanel), in.State))
		res.Heights[panel.SlotInputPanel] = h
		res.Frames[panel.SlotInputPanel] = Frame{
			Rect:    geom.Rect{X: 0, Y: vh - insets.Bottom - stack - h, W: width, H: h},
			Present: true,
		}
		stack += h
	}
	if p := slots[panel.SlotAccessoryPanel]; p != nil {
		var h int
		if m, ok := p.(panel.Measurer); ok {
			h = m.Measure(width)
		} else {
			h = p.UpdateLayout(width, trFor(panel.SlotAccessoryPanel), in.State)
		}
		h = max(0, h)
		res.Heights[panel.SlotAccessoryPanel] = h
		res.Frames[panel.SlotAccessoryPanel] = Frame{
			Rect:    geom.Rect{X: 0, Y: vh - insets.Bottom - stack - h, W: width, H: h},
			Present: true,
		}
		stack += h
	}
	res.InputPanelsHeight = stack
	res.Insets = insets

	if slots[panel.SlotInputSurface] != nil {
		h := res.Heights[panel.SlotInputSurface]
		res.Frames[panel.SlotInputSurface] = Frame{
			Rect:    geom.Rect{X: 0, Y: vh - insets.Bottom, W: width, H: h},
			Present: true,
		}
	}

	res.InputBackground = geom.Rect{X: 0, Y: vh - insets.Bottom - stack, W: width, H: stack}
	res.Separator = geom.Rect{X: 0, Y: res.InputBackground.Y - 1, W: width, H: 1}

	res.List = ListUpdate{
		Size: in.Viewport,
		Insets: geom.Insets{
			Top:    insets.Bottom + stack,
			Bottom: insets.Top,
			Left:   insets.Right,
			Right:  insets.Left,
		},
		Duration: in.Transition.Duration,
		Curve:    in.Transition.Curve,
	}

	margin := in.NavButtonMargin
	res.NavigateButtons = geom.Rect{
		X: width - in.NavButtons.W - margin,
		Y: vh - insets.Bottom - stack - in.NavButtons.H - margin,
		W: in.NavButtons.W,
		H: in.NavButtons.H,
	}

	// Context rectangles: between the title accessory and the input stack,
	// or extended over the input panel.
	inputH := res.Heights[panel.SlotInputPanel]
	res.ContextOverList = geom.Rect{
		X: 0, Y: insets.Top, W: width,
		H: max(0, vh-insets.Bottom-stack-insets.Top),
	}
	res.ContextOverInputPanel = geom.Rect{
		X: 0, Y: insets.Top, W: width,
		H: max(0, vh-insets.Bottom-(stack-inputH)-insets.Top),
	}
	if p := slots[panel.SlotInputContextPanel]; p != nil {
		placement := panel.PlacementFor(p.Variant().Kind)
		cp, isContext := p.(panel.ContextPanel)
		if isContext {
			placement = cp.Placement()
		}
		rect := res.ContextRect(placement)
		if isContext {
			cp.LayoutIn(rect.Size(), trFor(panel.SlotInputContextPanel), in.State)
		}
		res.Heights[panel.SlotInputContextPanel] = rect.H
		res.Frames[panel.SlotInputContextPanel] = Frame{Rect: rect, Present: true}
	}

	return res
}
