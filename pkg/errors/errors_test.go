package errors

import (
	stderr "errors"
	"testing"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := New("cause")
	err := Newf("context %d", 1).Wrap(cause)
	if got := err.Error(); got != "context 1: cause" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsMatchesDownTheChain(t *testing.T) {
	sentinel := New("sentinel")
	err := New("outer").Wrap(New("middle").Wrap(sentinel))
	if !Is(err, sentinel) {
		t.Error("expected Is to match the wrapped sentinel")
	}
	if Is(err, New("sentinel")) {
		t.Error("distinct values with equal messages must not match")
	}
}

func TestSentinelSurvivesWrappingACause(t *testing.T) {
	sentinel := New("sentinel")
	cause := stderr.New("exit status 128")
	err := Newf("git fetch %s", "origin").Wrap(sentinel).Wrap(cause)

	if !Is(err, sentinel) {
		t.Error("wrapping a cause must not drop the sentinel")
	}
	if !Is(err, cause) {
		t.Error("the cause must stay reachable too")
	}
	if got := err.Error(); got != "git fetch origin: sentinel: exit status 128" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderr.New("std cause")
	err := New("outer").Wrap(cause)
	unwrapped := err.Unwrap()
	if len(unwrapped) != 1 || unwrapped[0] != cause {
		t.Errorf("Unwrap() = %v", unwrapped)
	}
	var nilErr *Error
	if nilErr.Unwrap() != nil {
		t.Error("nil error unwraps to nil")
	}
}

func TestAs(t *testing.T) {
	err := New("outer").Wrap(New("inner"))
	var target *Error
	if !As(err, &target) {
		t.Fatal("As should find *Error")
	}
	if target.Error() != "outer: inner" {
		t.Errorf("As found %q", target.Error())
	}
}
