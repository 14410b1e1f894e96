package label

import (
	"fmt"
	"image/color"
	"math"

	"github.com/EskenderDev/etiqueta/binding"
)

// edgeMargin is the fixed horizontal margin used by left and right
// alignment, in label units.
const edgeMargin = 5.0

// BuildOptions configures the collaborators a Builder needs. Backend
// is required; Encoder only once a barcode is added.
type BuildOptions struct {
	Backend Backend
	Encoder Encoder
}

// Builder composes a Label through a fluent surface. Contract
// violations (bad dimensions, absent references, non-positive factors)
// stick as the builder's first error and turn every later call into a
// no-op; Build and Err surface that error. Geometric overflow is not
// an error: elements are clamped back inside the canvas instead.
type Builder struct {
	label   *Label
	backend Backend
	encoder Encoder
	context any
	lastY   float64
	err     error
}

// NewBuilder starts a session for a width x height label.
func NewBuilder(width, height float64, opts BuildOptions) (*Builder, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("label: builder requires a measurement backend")
	}
	l, err := New(width, height)
	if err != nil {
		return nil, err
	}
	return &Builder{label: l, backend: opts.Backend, encoder: opts.Encoder}, nil
}

// WithContext binds the context object consulted by decision chains
// and by ${path} interpolation of text payloads.
func (b *Builder) WithContext(ctx any) *Builder {
	b.context = ctx
	return b
}

// Context returns the bound context object.
func (b *Builder) Context() any { return b.context }

// Err returns the first recorded contract violation, if any.
func (b *Builder) Err() error { return b.err }

// LastY returns the lowest vertical extent reached by any element
// added so far.
func (b *Builder) LastY() float64 { return b.lastY }

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AddText measures, aligns, clamps and appends a text run. The payload
// is interpolated against the bound context first.
func (b *Builder) AddText(t Text, align Alignment) *Builder {
	if b.err != nil {
		return b
	}
	if t.Size <= 0 {
		return b.fail(fmt.Errorf("label: text size must be positive, got %g", t.Size))
	}
	t.Value = binding.Interpolate(t.Value, b.context)
	return b.insert(&t, align)
}

// AddImage aligns, clamps and appends a bitmap. The bitmap reference
// is required.
func (b *Builder) AddImage(img Image, align Alignment) *Builder {
	if b.err != nil {
		return b
	}
	if img.Bitmap == nil {
		return b.fail(fmt.Errorf("label: image element requires a bitmap"))
	}
	if img.Width <= 0 || img.Height <= 0 {
		return b.fail(fmt.Errorf("label: image rect must be positive, got %gx%g", img.Width, img.Height))
	}
	return b.insert(&img, align)
}

// AddBarcode aligns, clamps and appends a barcode. The symbol itself
// is produced by the session's encoder at draw time.
func (b *Builder) AddBarcode(bc Barcode, align Alignment) *Builder {
	if b.err != nil {
		return b
	}
	if b.encoder == nil {
		return b.fail(fmt.Errorf("label: no barcode encoder configured"))
	}
	if bc.Width <= 0 || bc.Height <= 0 {
		return b.fail(fmt.Errorf("label: barcode rect must be positive, got %gx%g", bc.Width, bc.Height))
	}
	if bc.Symbology == "" {
		bc.Symbology = Code128
	}
	bc.Payload = binding.Interpolate(bc.Payload, b.context)
	bc.encoder = b.encoder
	return b.insert(&bc, align)
}

// AddConditional wraps e so it only draws when cond holds for the
// draw-time context, then aligns, clamps and appends the wrapper.
func (b *Builder) AddConditional(cond Condition, e Element, align Alignment) *Builder {
	if b.err != nil {
		return b
	}
	wrapped, err := NewConditional(cond, e)
	if err != nil {
		return b.fail(err)
	}
	return b.insert(wrapped, align)
}

// AddSplitText chunks text into runs of at most maxLen characters,
// greedy left to right with no word-boundary awareness, and appends
// one text element per chunk at y + i*lineSpacing. Empty input still
// yields exactly one empty line, so downstream layout always has a
// line to position.
func (b *Builder) AddSplitText(text string, x, y float64, font Font, size float64, maxLen int, lineSpacing float64, col color.Color, align Alignment) *Builder {
	if b.err != nil {
		return b
	}
	if maxLen <= 0 {
		return b.fail(fmt.Errorf("label: split length must be positive, got %d", maxLen))
	}
	if size <= 0 {
		return b.fail(fmt.Errorf("label: text size must be positive, got %g", size))
	}
	text = binding.Interpolate(text, b.context)
	for i, line := range chunkRunes(text, maxLen) {
		b.insert(&Text{
			Value: line,
			X:     x,
			Y:     y + float64(i)*lineSpacing,
			Font:  font,
			Size:  size,
			Color: col,
		}, align)
		if b.err != nil {
			break
		}
	}
	return b
}

// insert applies the alignment directive, clamps the element inside
// the canvas, appends it and advances lastY. Clamping runs after every
// insertion; there is no mode that lets an element render outside the
// canvas.
func (b *Builder) insert(e Element, align Alignment) *Builder {
	w, err := e.MeasuredWidth(b.backend)
	if err != nil {
		return b.fail(err)
	}
	h := e.MeasuredHeight()
	x, y := e.Position()

	switch align {
	case AlignLeft:
		x = edgeMargin
	case AlignCenter:
		x = (b.label.width - w) / 2
	case AlignRight:
		x = b.label.width - w - edgeMargin
	}

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+w > b.label.width {
		x = b.label.width - w
	}
	if y+h > b.label.height {
		y = b.label.height - h
	}

	e.SetPosition(x, y)
	if err := b.label.Add(e); err != nil {
		return b.fail(err)
	}
	if y+h > b.lastY {
		b.lastY = y + h
	}
	return b
}

// Scale scales the label, every element and the tracked extent by a
// strictly positive factor.
func (b *Builder) Scale(factor float64) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.label.Scale(factor); err != nil {
		return b.fail(err)
	}
	b.lastY *= factor
	return b
}

// ScaleToFit scales uniformly by min(targetWidth/W, targetHeight/H):
// aspect ratio is preserved, never stretched per axis.
func (b *Builder) ScaleToFit(targetWidth, targetHeight float64) *Builder {
	if b.err != nil {
		return b
	}
	if targetWidth <= 0 || targetHeight <= 0 {
		return b.fail(fmt.Errorf("label: fit target must be positive, got %gx%g", targetWidth, targetHeight))
	}
	return b.Scale(math.Min(targetWidth/b.label.width, targetHeight/b.label.height))
}

// CenterVertically shifts every element by (height - lastY) / 2. The
// offset may be negative when content already overflows, pulling it
// upward. A label without elements is left untouched.
func (b *Builder) CenterVertically() *Builder {
	if b.err != nil {
		return b
	}
	if len(b.label.elements) == 0 {
		return b
	}
	offset := (b.label.height - b.lastY) / 2
	for _, e := range b.label.elements {
		x, y := e.Position()
		e.SetPosition(x, y+offset)
	}
	b.lastY += offset
	return b
}

// Build finalizes the session and returns the label, or the first
// recorded error.
func (b *Builder) Build() (*Label, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.label, nil
}

// Generate renders the label with the bound context and hands the
// pixel buffer to sink, preserving the fluent chain.
func (b *Builder) Generate(sink Sink) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.label.Render(b.backend, b.context, sink); err != nil {
		return b.fail(err)
	}
	return b
}

// chunkRunes slices s into runs of at most n runes. Empty input yields
// a single empty chunk.
func chunkRunes(s string, n int) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return []string{""}
	}
	var out []string
	for start := 0; start < len(runes); start += n {
		end := start + n
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
