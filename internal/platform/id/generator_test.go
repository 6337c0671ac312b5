package id

import "testing"

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
	if !Valid(first) {
		t.Fatalf("expected generated id %q to parse", first)
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	if Valid("not-a-uuid") {
		t.Fatalf("expected garbage to be rejected")
	}
	if !Valid("7c9e6679-7425-40de-944b-e07fc1f90ae7") {
		t.Fatalf("expected canonical uuid to be accepted")
	}
}
