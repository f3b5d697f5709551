package ownedtypes_test

import (
	"testing"

	"github.com/kolkov/rlc/ownedtypes"
)

func TestNewGetRoundTrips(t *testing.T) {
	b := ownedtypes.New(42)
	if got := b.Get(); got != 42 {
		t.Errorf("Get() = %d, want 42", got)
	}
}

func TestIntoRawThenFreeDoesNotPanic(t *testing.T) {
	b := ownedtypes.New("hello")
	p := ownedtypes.IntoRaw(b)
	ownedtypes.Free[string](p)
}

func TestForgetReturnsSamePointerAsIntoRaw(t *testing.T) {
	b := ownedtypes.New(7)
	p1 := ownedtypes.Forget(b)
	if p1 == nil {
		t.Fatal("Forget returned a nil pointer")
	}
	if p2 := ownedtypes.IntoRaw(b); p1 != p2 {
		t.Errorf("Forget = %p, IntoRaw = %p, want the same pointer", p1, p2)
	}
}
