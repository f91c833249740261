package codec

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

// TestJSONCoder verifies parsing, the empty-string shortcut and the
// short-output rule on encode.
func TestJSONCoder(t *testing.T) {
	var c JSONCoder

	got, err := c.Decode(`{"a":1,"b":[true]}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := Object{"a": json.Number("1"), "b": []any{true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("decode = %#v, want %#v", got, want)
	}

	empty, err := c.Decode("")
	if err != nil || !reflect.DeepEqual(empty, Object{}) {
		t.Fatalf("empty decode = %#v, %v", empty, err)
	}

	if _, err := c.Decode("{"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"empty object", Object{}, ""},
		{"short number", 7, ""},
		{"object", Object{"k": "v"}, `{"k":"v"}`},
		{"no html escaping", Object{"u": "<a&b>"}, `{"u":"<a&b>"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Encode(tt.in)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got != tt.want {
				t.Fatalf("encode = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestDecimalConverter verifies exact textual round trip of prices.
func TestDecimalConverter(t *testing.T) {
	var c DecimalConverter

	got, err := c.Decode(json.Number("9.99"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	d, ok := got.(decimal.Decimal)
	if !ok || !d.Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("unexpected decimal %#v", got)
	}

	back, err := c.Encode(d)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if back != json.Number("9.99") {
		t.Fatalf("encode = %#v", back)
	}

	if _, err := c.Decode(true); err == nil {
		t.Fatal("expected error for boolean")
	}
}
