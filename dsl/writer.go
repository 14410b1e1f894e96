package dsl

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/EskenderDev/etiqueta/label"
)

// Marshal serializes a label into the textual persisted form. Element
// positions are written as resolved, so a rebuilt label reproduces the
// same geometry without re-running alignment. Conditional elements do
// not serialize: their predicate is a closure with no textual
// counterpart.
func Marshal(l *label.Label) ([]byte, error) {
	if l == nil {
		return nil, fmt.Errorf("dsl: cannot marshal a nil label")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "label %s %s {\n", num(l.Width()), num(l.Height()))
	for _, e := range l.Elements() {
		switch el := e.(type) {
		case *label.Text:
			fmt.Fprintf(&sb, "\ttext %q x %s y %s size %s", el.Value, num(el.X), num(el.Y), num(el.Size))
			writeFont(&sb, el.Font)
			if el.Color != nil {
				fmt.Fprintf(&sb, " color %s", hexColor(el.Color))
			}
			writeRotation(&sb, el.Rotation)
		case *label.Image:
			if el.Src == "" {
				return nil, fmt.Errorf("dsl: image element has no src to serialize")
			}
			fmt.Fprintf(&sb, "\timage %q x %s y %s width %s height %s",
				el.Src, num(el.X), num(el.Y), num(el.Width), num(el.Height))
			writeRotation(&sb, el.Rotation)
		case *label.Barcode:
			fmt.Fprintf(&sb, "\tbarcode %q symbology %s x %s y %s width %s height %s",
				el.Payload, el.Symbology, num(el.X), num(el.Y), num(el.Width), num(el.Height))
			writeRotation(&sb, el.Rotation)
		case *label.Conditional:
			return nil, fmt.Errorf("dsl: conditional elements do not serialize")
		default:
			return nil, fmt.Errorf("dsl: cannot serialize element type %T", e)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func writeFont(sb *strings.Builder, f label.Font) {
	if f.Name != "" {
		fmt.Fprintf(sb, " font %q", f.Name)
	}
	if f.Src != "" {
		fmt.Fprintf(sb, " font-src %q", f.Src)
	}
	if f.Style != "" {
		fmt.Fprintf(sb, " style %q", f.Style)
	}
}

func writeRotation(sb *strings.Builder, deg float64) {
	if deg != 0 {
		fmt.Fprintf(sb, " rotate %s", num(deg))
	}
}

// num formats without exponents so the Number lexer can read it back.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
