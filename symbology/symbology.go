// Package symbology implements label.Encoder over
// github.com/boombuler/barcode. It never draws anything itself; it
// only turns payloads into raster symbols sized for a target rect.
package symbology

import (
	"fmt"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"

	"github.com/EskenderDev/etiqueta/label"
)

// Encoder encodes CODE_128, EAN_13 and QR_CODE payloads. The zero
// value is ready to use.
type Encoder struct{}

var _ label.Encoder = Encoder{}

// Encode produces a symbol scaled to widthPx x heightPx. A payload the
// symbology cannot represent (bad EAN checksum, out-of-alphabet rune)
// comes back as an error, never as a malformed image.
func (Encoder) Encode(payload string, sym label.Symbology, widthPx, heightPx int) (image.Image, error) {
	var (
		bc  barcode.Barcode
		err error
	)
	switch sym {
	case label.Code128, "":
		bc, err = code128.Encode(payload)
	case label.EAN13:
		bc, err = ean.Encode(payload)
	case label.QRCode:
		bc, err = qr.Encode(payload, qr.M, qr.Auto)
	default:
		return nil, fmt.Errorf("symbology: unsupported symbology %q", sym)
	}
	if err != nil {
		return nil, fmt.Errorf("symbology: encode %q as %s: %w", payload, sym, err)
	}
	scaled, err := barcode.Scale(bc, widthPx, heightPx)
	if err != nil {
		return nil, fmt.Errorf("symbology: scale %s symbol to %dx%d: %w", sym, widthPx, heightPx, err)
	}
	return scaled, nil
}
