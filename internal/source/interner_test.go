package source

import "testing"

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()

	id := in.Intern("loopVariable")
	if id == NoStringID {
		t.Fatalf("expected non-sentinel ID")
	}
	if again := in.Intern("loopVariable"); again != id {
		t.Fatalf("expected stable ID, got %v then %v", id, again)
	}
	s, ok := in.Lookup(id)
	if !ok || s != "loopVariable" {
		t.Fatalf("lookup: expected loopVariable, got %q ok=%v", s, ok)
	}
}

func TestInternerEmptyString(t *testing.T) {
	in := NewInterner()
	if id := in.Intern(""); id != NoStringID {
		t.Fatalf("expected empty string to map to NoStringID, got %v", id)
	}
	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("expected empty string for sentinel, got %q ok=%v", s, ok)
	}
}

func TestInternerUnknownID(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(StringID(42)); ok {
		t.Fatalf("expected lookup miss for unknown ID")
	}
}
