package label

import (
	"fmt"
	"image"
	"strings"
	"testing"
)

func TestRenderPaintsInInsertionOrder(t *testing.T) {
	l, err := New(100, 50)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Add(&Text{Value: "first", X: 1, Y: 2, Size: 10})
	l.Add(&Text{Value: "second", X: 3, Y: 4, Size: 10})

	backend := &stubBackend{}
	var captured *stubSurface
	err = l.Render(backendCapture{backend, &captured}, nil, func(image.Image) error { return nil })
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(captured.ops) != 2 {
		t.Fatalf("got %d draw calls, want 2: %v", len(captured.ops), captured.ops)
	}
	if !strings.Contains(captured.ops[0], "first") || !strings.Contains(captured.ops[1], "second") {
		t.Fatalf("paint order wrong: %v", captured.ops)
	}
}

// backendCapture exposes the surface a render allocated.
type backendCapture struct {
	inner *stubBackend
	out   **stubSurface
}

func (b backendCapture) TextWidth(text string, f Font, size float64) (float64, error) {
	return b.inner.TextWidth(text, f, size)
}

func (b backendCapture) NewSurface(w, h float64) (Surface, error) {
	s, err := b.inner.NewSurface(w, h)
	if err == nil {
		*b.out = s.(*stubSurface)
	}
	return s, err
}

func TestRenderAbortsOnElementError(t *testing.T) {
	l, _ := New(100, 50)
	l.Add(&Barcode{Payload: "no encoder", Width: 10, Height: 10})
	l.Add(&Text{Value: "never", Size: 10})

	var sinkRan bool
	err := l.Render(&stubBackend{}, nil, func(image.Image) error {
		sinkRan = true
		return nil
	})
	if err == nil {
		t.Fatalf("expected the element error")
	}
	if sinkRan {
		t.Fatalf("sink ran after a failed draw")
	}
}

func TestRenderValidatesCollaborators(t *testing.T) {
	l, _ := New(100, 50)
	if err := l.Render(nil, nil, func(image.Image) error { return nil }); err == nil {
		t.Fatalf("expected an error for a nil backend")
	}
	if err := l.Render(&stubBackend{}, nil, nil); err == nil {
		t.Fatalf("expected an error for a nil sink")
	}
}

func TestAddRejectsNilElement(t *testing.T) {
	l, _ := New(100, 50)
	if err := l.Add(nil); err == nil {
		t.Fatalf("expected an error for a nil element")
	}
}

func TestConditionalSkipsWhenContextMismatches(t *testing.T) {
	inner := &Text{Value: "sale", X: 5, Y: 5, Size: 10}
	cond, err := NewConditional(When(func(o order) bool { return o.Qty > 0 }), inner)
	if err != nil {
		t.Fatalf("NewConditional: %v", err)
	}

	s := &stubSurface{width: 100, height: 50}
	if err := cond.Draw(s, order{Qty: 0}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(s.ops) != 0 {
		t.Fatalf("element drew despite a failing condition: %v", s.ops)
	}

	if err := cond.Draw(s, order{Qty: 2}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(s.ops) != 1 {
		t.Fatalf("element did not draw for a passing condition: %v", s.ops)
	}
}

func TestConditionalDelegatesGeometry(t *testing.T) {
	inner := &Text{Value: "geo", X: 5, Y: 7, Size: 10}
	cond, err := NewConditional(When[order](nil), inner)
	if err != nil {
		t.Fatalf("NewConditional: %v", err)
	}
	cond.SetPosition(11, 13)
	if inner.X != 11 || inner.Y != 13 {
		t.Fatalf("SetPosition did not reach the inner element: %g,%g", inner.X, inner.Y)
	}
	cond.Scale(2)
	if !approx(inner.Size, 20) {
		t.Fatalf("Scale did not reach the inner element: size=%g", inner.Size)
	}
	if h := cond.MeasuredHeight(); !approx(h, 20) {
		t.Fatalf("MeasuredHeight: got %g, want 20", h)
	}
	w, err := cond.MeasuredWidth(&stubBackend{})
	if err != nil {
		t.Fatalf("MeasuredWidth: %v", err)
	}
	if !approx(w, 30) {
		t.Fatalf("MeasuredWidth: got %g, want 30", w)
	}
}

func TestNewConditionalRequiresBothArguments(t *testing.T) {
	if _, err := NewConditional(nil, &Text{Size: 10}); err == nil {
		t.Fatalf("expected an error for a nil condition")
	}
	if _, err := NewConditional(When[order](nil), nil); err == nil {
		t.Fatalf("expected an error for a nil element")
	}
}

func TestRotatedDrawIsBracketed(t *testing.T) {
	s := &stubSurface{width: 100, height: 50}
	txt := &Text{Value: "tilted", X: 10, Y: 20, Size: 10, Rotation: 90}
	if err := txt.Draw(s, nil); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	want := []string{"push", "rotate 90@10,20", `text "tilted" 10,20`, "pop"}
	if len(s.ops) != len(want) {
		t.Fatalf("got ops %v, want %v", s.ops, want)
	}
	for i := range want {
		if s.ops[i] != want[i] {
			t.Fatalf("op %d: got %q, want %q", i, s.ops[i], want[i])
		}
	}
}

func TestUnrotatedDrawSkipsBracketing(t *testing.T) {
	s := &stubSurface{width: 100, height: 50}
	txt := &Text{Value: "flat", X: 1, Y: 2, Size: 10}
	if err := txt.Draw(s, nil); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(s.ops) != 1 || !strings.HasPrefix(s.ops[0], "text") {
		t.Fatalf("expected a bare text op, got %v", s.ops)
	}
}

func TestTextMeasurementCacheClearedByScale(t *testing.T) {
	txt := &Text{Value: "abcd", Size: 10}
	backend := &stubBackend{}
	w, err := txt.MeasuredWidth(backend)
	if err != nil {
		t.Fatalf("MeasuredWidth: %v", err)
	}
	if !approx(w, 20) {
		t.Fatalf("got width %g, want 20", w)
	}

	// The cache answers without a backend until Scale invalidates it.
	if w, err = txt.MeasuredWidth(nil); err != nil || !approx(w, 20) {
		t.Fatalf("cached measurement: got %g, %v", w, err)
	}
	txt.Scale(2)
	if _, err = txt.MeasuredWidth(nil); err == nil {
		t.Fatalf("cache survived a scale")
	}
	if w, err = txt.MeasuredWidth(backend); err != nil || !approx(w, 40) {
		t.Fatalf("re-measure after scale: got %g, %v", w, err)
	}
}

func TestBarcodeDrawEncodesAtPixelSize(t *testing.T) {
	enc := &stubEncoder{}
	bc := &Barcode{Payload: "4711", Symbology: QRCode, X: 5, Y: 5, Width: 30.4, Height: 29.6, encoder: enc}
	s := &stubSurface{width: 100, height: 50}
	if err := bc.Draw(s, nil); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(enc.calls) != 1 || enc.calls[0] != "QR_CODE 4711 30x30" {
		t.Fatalf("encoder calls: %v", enc.calls)
	}
}

func TestBarcodeDrawWrapsEncoderError(t *testing.T) {
	enc := &stubEncoder{encodeErr: fmt.Errorf("checksum")}
	bc := &Barcode{Payload: "bad", X: 0, Y: 0, Width: 10, Height: 10, encoder: enc}
	err := bc.Draw(&stubSurface{}, nil)
	if err == nil || !strings.Contains(err.Error(), "checksum") {
		t.Fatalf("encoder error not surfaced: %v", err)
	}
}

func TestParseSymbology(t *testing.T) {
	if sym, err := ParseSymbology(""); err != nil || sym != Code128 {
		t.Fatalf("empty name: got %q, %v", sym, err)
	}
	if sym, err := ParseSymbology("EAN_13"); err != nil || sym != EAN13 {
		t.Fatalf("EAN_13: got %q, %v", sym, err)
	}
	if _, err := ParseSymbology("PDF417"); err == nil {
		t.Fatalf("expected an error for an unknown symbology")
	}
}
