package label

import (
	"fmt"
	"image/color"
)

// Text is a single run of glyphs at a fixed anchor. A nil Color draws
// black. The measured width is cached after the first measurement and
// cleared by Scale; clearing it is part of the Scale contract, since a
// scaled run must be re-measured at its new size.
type Text struct {
	Value    string
	X, Y     float64
	Font     Font
	Size     float64
	Color    color.Color
	Rotation float64

	measured *float64
}

func (t *Text) Draw(s Surface, _ any) error {
	col := t.Color
	if col == nil {
		col = color.Black
	}
	return drawRotated(s, t.Rotation, t.X, t.Y, func() error {
		return s.Text(t.X, t.Y, t.Value, t.Font, t.Size, col)
	})
}

func (t *Text) Scale(factor float64) {
	t.X *= factor
	t.Y *= factor
	t.Size *= factor
	t.measured = nil
}

// MeasuredHeight reports the font size; text extent below the
// baseline is a rendering concern, not a layout one.
func (t *Text) MeasuredHeight() float64 { return t.Size }

func (t *Text) MeasuredWidth(b Backend) (float64, error) {
	if t.measured != nil {
		return *t.measured, nil
	}
	if b == nil {
		return 0, fmt.Errorf("label: measuring text requires a backend")
	}
	w, err := b.TextWidth(t.Value, t.Font, t.Size)
	if err != nil {
		return 0, err
	}
	t.measured = &w
	return w, nil
}

func (t *Text) Position() (float64, float64) { return t.X, t.Y }

func (t *Text) SetPosition(x, y float64) { t.X, t.Y = x, y }
