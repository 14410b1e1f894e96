package label

import "fmt"

// Element is one drawable unit on a label. Position and size are
// expressed in the same unit as the owning Label's dimensions.
// Elements are created by the Builder, mutated in place by Scale and
// vertical-offset adjustments, and live as long as their Label.
type Element interface {
	// Draw paints the element onto the surface, honoring its rotation.
	// ctx is the draw-time context passed through by Label.Render.
	Draw(s Surface, ctx any) error
	// Scale multiplies position, size and any size-derived state by
	// factor. Callers must guarantee factor > 0.
	Scale(factor float64)
	// MeasuredHeight returns the current rendered height. Measurements
	// feed layout decisions only, never drawing.
	MeasuredHeight() float64
	// MeasuredWidth returns the current rendered width.
	MeasuredWidth(b Backend) (float64, error)
	Position() (x, y float64)
	SetPosition(x, y float64)
}

// Condition decides whether a conditional element or branch applies to
// a runtime context value.
type Condition func(ctx any) bool

// When builds a Condition that first checks the context is a T and
// then applies pred. A nil pred matches any context of type T. The
// type test happens once here, at the boundary, rather than being
// re-derived by every caller.
func When[T any](pred func(T) bool) Condition {
	return func(ctx any) bool {
		v, ok := ctx.(T)
		if !ok {
			return false
		}
		return pred == nil || pred(v)
	}
}

// Conditional wraps exactly one inner element and draws it only when
// its condition holds for the draw-time context. Geometry operations
// delegate to the inner element, so the wrapper and its content can
// never drift apart.
type Conditional struct {
	cond  Condition
	inner Element
}

// NewConditional wraps inner. Both arguments are required.
func NewConditional(cond Condition, inner Element) (*Conditional, error) {
	if cond == nil {
		return nil, fmt.Errorf("label: conditional requires a condition")
	}
	if inner == nil {
		return nil, fmt.Errorf("label: conditional requires an element")
	}
	return &Conditional{cond: cond, inner: inner}, nil
}

// Inner returns the wrapped element.
func (c *Conditional) Inner() Element { return c.inner }

func (c *Conditional) Draw(s Surface, ctx any) error {
	if !c.cond(ctx) {
		return nil
	}
	return c.inner.Draw(s, ctx)
}

func (c *Conditional) Scale(factor float64) { c.inner.Scale(factor) }

func (c *Conditional) MeasuredHeight() float64 { return c.inner.MeasuredHeight() }

func (c *Conditional) MeasuredWidth(b Backend) (float64, error) { return c.inner.MeasuredWidth(b) }

func (c *Conditional) Position() (float64, float64) { return c.inner.Position() }

func (c *Conditional) SetPosition(x, y float64) { c.inner.SetPosition(x, y) }

// drawRotated brackets a draw with Push/Rotate/Pop when rotation is
// non-zero. The pivot is the element's own anchor.
func drawRotated(s Surface, degrees, x, y float64, draw func() error) error {
	if degrees == 0 {
		return draw()
	}
	s.Push()
	defer s.Pop()
	s.Rotate(degrees, x, y)
	return draw()
}
