package binding_test

import (
	"testing"

	"github.com/EskenderDev/etiqueta/binding"
)

type shipment struct {
	Ref   string
	Boxes []box
	Meta  *meta
}

type box struct {
	SKU string
	Qty int
}

type meta struct {
	Carrier string
}

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"name": "Ada",
		"order": map[string]any{
			"id":    4711,
			"items": []any{"bolt", "nut"},
		},
	}
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"Hello ${name}!", "Hello Ada!"},
		{"#${order.id}", "#4711"},
		{"first: ${order.items[0]}", "first: bolt"},
		{"${name} / ${order.items[1]}", "Ada / nut"},
		{"${missing.path}", "${missing.path}"},
		{"${}", "${}"},
		{"${ name }", "Ada"},
	}
	for _, tc := range cases {
		if got := binding.Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := binding.Interpolate("${name}", nil); got != "${name}" {
		t.Fatalf("got %q, want the placeholder untouched", got)
	}
}

func TestLookupStructPath(t *testing.T) {
	s := &shipment{
		Ref:   "S-9",
		Boxes: []box{{SKU: "A1", Qty: 2}, {SKU: "B2", Qty: 5}},
		Meta:  &meta{Carrier: "DHL"},
	}
	cases := []struct {
		path string
		want any
	}{
		{"Ref", "S-9"},
		{"Boxes[1].SKU", "B2"},
		{"Boxes[0].Qty", 2},
		{"Meta.Carrier", "DHL"},
	}
	for _, tc := range cases {
		got, ok := binding.Lookup(s, tc.path)
		if !ok {
			t.Fatalf("Lookup(%q) did not resolve", tc.path)
		}
		if got != tc.want {
			t.Fatalf("Lookup(%q): got %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestLookupMisses(t *testing.T) {
	s := shipment{Boxes: []box{{SKU: "A1"}}}
	for _, path := range []string{
		"Nope",
		"Boxes[5].SKU",
		"Boxes[-1]",
		"Boxes[0].Nope",
		"Ref.Deeper",
		"Boxes[0",
		"Boxes[x]",
	} {
		if _, ok := binding.Lookup(s, path); ok {
			t.Fatalf("Lookup(%q) resolved unexpectedly", path)
		}
	}
}

func TestLookupNilPointer(t *testing.T) {
	s := shipment{}
	if _, ok := binding.Lookup(s, "Meta.Carrier"); ok {
		t.Fatalf("lookup through a nil pointer resolved")
	}
}
