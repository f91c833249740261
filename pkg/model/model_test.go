package model

import (
	"testing"

	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
)

func usePlatform(t *testing.T, p codec.Platform) {
	t.Helper()
	prev := codec.CurrentPlatform()
	codec.SetPlatform(p)
	t.Cleanup(func() { codec.SetPlatform(prev) })
}

func mustWire(t *testing.T, s string) codec.Object {
	t.Helper()
	v, err := jsonutil.UnmarshalString(s)
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	obj, ok := v.(codec.Object)
	if !ok {
		t.Fatalf("fixture is %T, want object", v)
	}
	return obj
}

// canonical renders v as JSON with sorted keys so structurally equal values
// compare equal regardless of number representation details.
func canonical(t *testing.T, v any) string {
	t.Helper()
	s, err := jsonutil.MarshalString(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return s
}

func assertRoundTrip(t *testing.T, c codec.Converter, wire codec.Object) any {
	t.Helper()
	decoded, err := c.Decode(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	encoded, err := c.Encode(decoded)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := canonical(t, encoded), canonical(t, wire); got != want {
		t.Fatalf("round trip mismatch:\n got  %s\n want %s", got, want)
	}
	return decoded
}
