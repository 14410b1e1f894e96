package symbology_test

import (
	"strings"
	"testing"

	"github.com/EskenderDev/etiqueta/label"
	"github.com/EskenderDev/etiqueta/symbology"
)

func TestEncodeCode128(t *testing.T) {
	enc := symbology.Encoder{}
	img, err := enc.Encode("LBL-001", label.Code128, 300, 60)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 300 || b.Dy() != 60 {
		t.Fatalf("got %dx%d symbol, want 300x60", b.Dx(), b.Dy())
	}
}

func TestEncodeEmptySymbologyMeansCode128(t *testing.T) {
	enc := symbology.Encoder{}
	if _, err := enc.Encode("A", "", 200, 40); err != nil {
		t.Fatalf("Encode with empty symbology: %v", err)
	}
}

func TestEncodeEAN13(t *testing.T) {
	enc := symbology.Encoder{}
	img, err := enc.Encode("5901234123457", label.EAN13, 300, 120)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if img.Bounds().Dx() != 300 {
		t.Fatalf("got width %d, want 300", img.Bounds().Dx())
	}
}

func TestEncodeEAN13BadPayload(t *testing.T) {
	enc := symbology.Encoder{}
	if _, err := enc.Encode("not-a-number", label.EAN13, 300, 120); err == nil {
		t.Fatalf("expected an error for a non-numeric EAN payload")
	}
}

func TestEncodeQR(t *testing.T) {
	enc := symbology.Encoder{}
	img, err := enc.Encode("https://example.com/t/42", label.QRCode, 120, 120)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 120 || b.Dy() != 120 {
		t.Fatalf("got %dx%d symbol, want 120x120", b.Dx(), b.Dy())
	}
}

func TestEncodeUnsupportedSymbology(t *testing.T) {
	enc := symbology.Encoder{}
	_, err := enc.Encode("x", label.Symbology("AZTEC"), 100, 100)
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("got %v, want an unsupported-symbology error", err)
	}
}

func TestEncodeTargetTooSmall(t *testing.T) {
	enc := symbology.Encoder{}
	// A code128 symbol needs more modules than two pixels can hold, so
	// scaling must fail instead of producing a malformed image.
	if _, err := enc.Encode("LBL-001", label.Code128, 2, 2); err == nil {
		t.Fatalf("expected a scale error for an undersized target")
	}
}
