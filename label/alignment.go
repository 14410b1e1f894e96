package label

import "fmt"

// Alignment selects the horizontal placement policy applied when an
// element is added to a Builder. AlignNone keeps the element's own x.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "none"
	}
}

// ParseAlignment resolves an alignment by its serialized name.
func ParseAlignment(name string) (Alignment, error) {
	switch name {
	case "", "none":
		return AlignNone, nil
	case "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignNone, fmt.Errorf("label: unknown alignment %q", name)
	}
}
