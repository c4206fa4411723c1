package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIsMatchesBareCode(t *testing.T) {
	err := &E{C: OscTimeout, Op: "pmc.apply", Msg: "xtal"}
	if !errors.Is(err, OscTimeout) {
		t.Fatal("wrapped code did not match")
	}
	if errors.Is(err, PLLLockTimeout) {
		t.Fatal("matched the wrong code")
	}
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	inner := &E{C: NACK, Op: "twi.tx"}
	err := fmt.Errorf("probe: %w", inner)
	if !errors.Is(err, NACK) {
		t.Fatal("code lost through fmt wrapping")
	}
}

func TestErrorString(t *testing.T) {
	err := &E{C: OutOfRange, Op: "pmc.validate", Msg: "pll_mul"}
	if got := err.Error(); got != "pmc.validate: out_of_range: pll_mul" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil is not ok")
	}
	if Of(UnknownPin) != UnknownPin {
		t.Fatal("bare code not extracted")
	}
	if Of(&E{C: NotOwner}) != NotOwner {
		t.Fatal("wrapped code not extracted")
	}
	if Of(errors.New("boom")) != Error {
		t.Fatal("foreign error not mapped to the fallback")
	}
}
