package label

import (
	"fmt"
	"math"
)

// Barcode renders a payload as a symbol filling a target rectangle.
// The symbol is produced by the injected Encoder at draw time and is
// never cached; an empty payload is legal here and fails, if at all,
// inside the encoder. An empty Symbology means Code128.
type Barcode struct {
	Payload   string
	Symbology Symbology
	X, Y      float64
	Width     float64
	Height    float64
	Rotation  float64

	encoder Encoder
}

func (bc *Barcode) Draw(s Surface, _ any) error {
	if bc.encoder == nil {
		return fmt.Errorf("label: barcode %q has no encoder", bc.Payload)
	}
	sym := bc.Symbology
	if sym == "" {
		sym = Code128
	}
	img, err := bc.encoder.Encode(bc.Payload, sym, pixels(bc.Width), pixels(bc.Height))
	if err != nil {
		return fmt.Errorf("label: encode %s barcode: %w", sym, err)
	}
	return drawRotated(s, bc.Rotation, bc.X, bc.Y, func() error {
		return s.Image(bc.X, bc.Y, bc.Width, bc.Height, img)
	})
}

func (bc *Barcode) Scale(factor float64) {
	bc.X *= factor
	bc.Y *= factor
	bc.Width *= factor
	bc.Height *= factor
}

func (bc *Barcode) MeasuredHeight() float64 { return bc.Height }

func (bc *Barcode) MeasuredWidth(Backend) (float64, error) { return bc.Width, nil }

func (bc *Barcode) Position() (float64, float64) { return bc.X, bc.Y }

func (bc *Barcode) SetPosition(x, y float64) { bc.X, bc.Y = x, y }

// pixels converts a size in label units to a pixel count, never below
// one so the encoder always has a drawable target.
func pixels(v float64) int {
	px := int(math.Round(v))
	if px < 1 {
		px = 1
	}
	return px
}
