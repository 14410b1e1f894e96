package label

import "fmt"

// Label is a fixed-size canvas plus an insertion-ordered sequence of
// elements. Insertion order is paint order: later elements occlude
// earlier ones. A Label and its elements belong to a single builder
// session; nothing here is safe for concurrent use.
type Label struct {
	width    float64
	height   float64
	elements []Element
}

// New creates an empty label. Both dimensions must be strictly
// positive.
func New(width, height float64) (*Label, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("label: dimensions must be positive, got %gx%g", width, height)
	}
	return &Label{width: width, height: height}, nil
}

func (l *Label) Width() float64  { return l.width }
func (l *Label) Height() float64 { return l.height }

// Elements returns the element sequence in paint order.
func (l *Label) Elements() []Element { return l.elements }

// Add appends an element. No deduplication, no reordering.
func (l *Label) Add(e Element) error {
	if e == nil {
		return fmt.Errorf("label: cannot add a nil element")
	}
	l.elements = append(l.elements, e)
	return nil
}

// Scale multiplies the label dimensions and every element by factor,
// atomically from the caller's point of view: no element is ever
// scaled independently of the label it belongs to.
func (l *Label) Scale(factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("label: scale factor must be positive, got %g", factor)
	}
	l.width *= factor
	l.height *= factor
	for _, e := range l.elements {
		e.Scale(factor)
	}
	return nil
}

// Render allocates a white surface of the label's size, draws every
// element in insertion order passing ctx to each, and hands the
// finished pixel buffer to sink. A failing element aborts the whole
// render; nothing is skipped.
func (l *Label) Render(b Backend, ctx any, sink Sink) error {
	if b == nil {
		return fmt.Errorf("label: render requires a backend")
	}
	if sink == nil {
		return fmt.Errorf("label: render requires a sink")
	}
	s, err := b.NewSurface(l.width, l.height)
	if err != nil {
		return fmt.Errorf("label: allocate %gx%g surface: %w", l.width, l.height, err)
	}
	for _, e := range l.elements {
		if err := e.Draw(s, ctx); err != nil {
			return err
		}
	}
	return sink(s.Raster())
}
