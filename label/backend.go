package label

import (
	"fmt"
	"image"
	"image/color"
)

// Backend measures text and allocates drawing surfaces. It is injected
// into the Builder so that measurement never touches global state;
// implementations are expected to scope any temporary resources to the
// duration of each call.
type Backend interface {
	// TextWidth returns the rendered width of text at the given font
	// and size, in label units.
	TextWidth(text string, font Font, size float64) (float64, error)
	// NewSurface allocates a surface of the given size in label units,
	// cleared to white.
	NewSurface(width, height float64) (Surface, error)
}

// Surface is a drawing target for one render pass. Rotated draws must
// be bracketed: Push, Rotate about the pivot, draw, Pop.
type Surface interface {
	Push()
	Pop()
	// Rotate rotates subsequent draws by degrees around (x, y).
	Rotate(degrees, x, y float64)
	Text(x, y float64, text string, font Font, size float64, col color.Color) error
	Image(x, y, width, height float64, img image.Image) error
	// Raster returns the finished pixel buffer.
	Raster() image.Image
}

// Sink receives the finished pixel buffer of a render.
type Sink func(img image.Image) error

// Encoder produces a raster barcode symbol for a payload. Payloads the
// symbology cannot represent must surface as errors, not as malformed
// images.
type Encoder interface {
	Encode(payload string, sym Symbology, widthPx, heightPx int) (image.Image, error)
}

// Font references a typeface by name. Src optionally points at a font
// file or an injected resource; how it resolves is up to the Backend.
type Font struct {
	Name  string
	Src   string
	Style string
}

// Symbology identifies a linear or matrix barcode standard.
type Symbology string

const (
	Code128 Symbology = "CODE_128"
	EAN13   Symbology = "EAN_13"
	QRCode  Symbology = "QR_CODE"
)

// ParseSymbology resolves a symbology by its serialized name. The
// empty string resolves to Code128.
func ParseSymbology(name string) (Symbology, error) {
	switch Symbology(name) {
	case "":
		return Code128, nil
	case Code128, EAN13, QRCode:
		return Symbology(name), nil
	default:
		return "", fmt.Errorf("label: unknown symbology %q", name)
	}
}
