package transport

import (
	"testing"
)

// TestHub_EmitOrderAndRemove verifies listeners run in registration order and
// removed listeners stop receiving.
func TestHub_EmitOrderAndRemove(t *testing.T) {
	var h Hub
	var got []string

	first := h.Add("evt", func(p string) { got = append(got, "a:"+p) })
	h.Add("evt", func(p string) { got = append(got, "b:"+p) })
	h.Add("other", func(p string) { got = append(got, "c:"+p) })

	h.Emit("evt", "1")
	first.Remove()
	first.Remove()
	h.Emit("evt", "2")

	want := []string{"a:1", "b:1", "b:2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if n := h.Len("evt"); n != 1 {
		t.Fatalf("Len = %d, want 1", n)
	}
}

// TestHub_PanickingListener verifies one failing listener does not block the
// rest.
func TestHub_PanickingListener(t *testing.T) {
	var h Hub
	called := false
	h.Add("evt", func(string) { panic("boom") })
	h.Add("evt", func(string) { called = true })

	h.Emit("evt", "{}")
	if !called {
		t.Fatal("second listener was not called")
	}
}

// TestHub_RemoveAll verifies RemoveAll clears every event.
func TestHub_RemoveAll(t *testing.T) {
	var h Hub
	sub := h.Add("a", func(string) { t.Fatal("should not be called") })
	h.Add("b", func(string) { t.Fatal("should not be called") })

	h.RemoveAll()
	sub.Remove()
	h.Emit("a", "")
	h.Emit("b", "")
	if h.Len("a")+h.Len("b") != 0 {
		t.Fatal("listeners survived RemoveAll")
	}
}
