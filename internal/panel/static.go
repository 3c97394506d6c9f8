package panel

import (
	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/geom"
	"github.com/tessro/chatsurface/internal/presentation"
)

// Static is a content-less panel with a fixed height. The headless layout
// command renders with it, and it stands in for real panels in tests.
type Static struct {
	V         Variant
	Height    int
	Place     Placement
	LaidOutIn geom.Size

	// LayoutCalls counts UpdateLayout invocations; LastTransition is the
	// transition of the most recent one.
	LayoutCalls    int
	LastTransition anim.Transition

	// InstantOut makes AnimateOut complete synchronously.
	InstantOut bool

	focused     bool
	dismiss     func()
	outPending  func()
	outRequests int
}

// NewStatic returns a static panel for v.
func NewStatic(v Variant, height int) *Static {
	return &Static{V: v, Height: height, Place: PlacementFor(v.Kind)}
}

// Variant implements Panel.
func (s *Static) Variant() Variant { return s.V }

// UpdateLayout implements Panel.
func (s *Static) UpdateLayout(width int, tr anim.Transition, _ *presentation.State) int {
	s.LayoutCalls++
	s.LastTransition = tr
	return s.Height
}

// Measure implements Measurer.
func (s *Static) Measure(int) int { return s.Height }

// SetDismissHandler implements Dismissable.
func (s *Static) SetDismissHandler(fn func()) { s.dismiss = fn }

// Dismiss emits a dismiss request as a close button would.
func (s *Static) Dismiss() {
	if s.dismiss != nil {
		s.dismiss()
	}
}

// EnsureFocused implements Focusable.
func (s *Static) EnsureFocused() { s.focused = true }

// EnsureUnfocused implements Focusable.
func (s *Static) EnsureUnfocused() { s.focused = false }

// Focused implements Focusable.
func (s *Static) Focused() bool { return s.focused }

// Placement implements ContextPanel.
func (s *Static) Placement() Placement { return s.Place }

// LayoutIn implements ContextPanel.
func (s *Static) LayoutIn(size geom.Size, tr anim.Transition, _ *presentation.State) {
	s.LaidOutIn = size
	s.LastTransition = tr
}

// AnimateOut implements ContextPanel.
func (s *Static) AnimateOut(done func()) {
	s.outRequests++
	if s.InstantOut {
		done()
		return
	}
	s.outPending = done
}

// AnimateOutRequests reports how many times AnimateOut ran.
func (s *Static) AnimateOutRequests() int { return s.outRequests }

// FinishAnimateOut completes a pending AnimateOut.
func (s *Static) FinishAnimateOut() {
	if fn := s.outPending; fn != nil {
		s.outPending = nil
		fn()
	}
}

// StaticFactory builds Static panels with per-kind heights and records every
// instance it creates.
type StaticFactory struct {
	Heights    map[Kind]int
	InstantOut bool
	Created    []*Static
}

// NewPanel implements Factory.
func (f *StaticFactory) NewPanel(v Variant, _ *presentation.State) Panel {
	p := NewStatic(v, f.Heights[v.Kind])
	p.InstantOut = f.InstantOut
	f.Created = append(f.Created, p)
	return p
}

// CreatedKinds lists the kinds of every instance created so far.
func (f *StaticFactory) CreatedKinds() []Kind {
	kinds := make([]Kind, len(f.Created))
	for i, p := range f.Created {
		kinds[i] = p.V.Kind
	}
	return kinds
}
