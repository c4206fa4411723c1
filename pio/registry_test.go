package pio_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/compenguy/atsam3xa/chip"
	"github.com/compenguy/atsam3xa/errcode"
	"github.com/compenguy/atsam3xa/pio"
	"github.com/compenguy/atsam3xa/sim"
)

func newRegistry(t *testing.T) ([6]*sim.PIO, *pio.Registry) {
	t.Helper()
	var sims [6]*sim.PIO
	var groups [6]*pio.Block
	for i := range sims {
		sims[i] = sim.NewPIO()
		groups[i] = sims[i].Block()
	}
	return sims, pio.NewRegistry(&chip.SAM3X8E, groups)
}

func TestClaimOutputProgramsLine(t *testing.T) {
	sims, r := newRegistry(t)
	pin := pio.PA(8)
	if err := r.Claim(pin, pio.FuncOutput, chip.PWM); err != nil {
		t.Fatalf("claim: %+v", err)
	}
	a := sims[0]
	mask := uint32(1 << 8)
	if a.PSR.Raw()&mask == 0 {
		t.Fatal("pin left peripheral control")
	}
	if a.OSR.Raw()&mask == 0 {
		t.Fatal("output not enabled")
	}
	if a.Pulled&mask != 0 {
		t.Fatal("pull-up still on for a push-pull output")
	}
	if a.MultiDrive&mask != 0 {
		t.Fatal("multi-drive on for a push-pull output")
	}
}

func TestClaimPeripheralSelectsBeforeHandover(t *testing.T) {
	sims, r := newRegistry(t)
	a := sims[1]
	var order []string
	oldABSR, oldPDR := a.ABSR.OnWrite, a.PDR.OnWrite
	a.ABSR.OnWrite = func(v uint32) {
		order = append(order, "absr")
		if oldABSR != nil {
			oldABSR(v)
		}
	}
	a.PDR.OnWrite = func(v uint32) {
		order = append(order, "pdr")
		if oldPDR != nil {
			oldPDR(v)
		}
	}

	pin := pio.PB(12)
	if err := r.Claim(pin, pio.FuncPeriphB, chip.TWI1); err != nil {
		t.Fatalf("claim: %+v", err)
	}
	if len(order) != 2 || order[0] != "absr" || order[1] != "pdr" {
		t.Fatalf("write order = %v, want function select before handover", order)
	}
	if a.ABSR.Raw()&(1<<12) == 0 {
		t.Fatal("peripheral B not selected")
	}
	if a.PSR.Raw()&(1<<12) != 0 {
		t.Fatal("pin still under pio control")
	}
}

func TestClaimConflictLeavesPinUntouched(t *testing.T) {
	sims, r := newRegistry(t)
	pin := pio.PA(3)
	if err := r.Claim(pin, pio.FuncPeriphA, chip.TWI0); err != nil {
		t.Fatalf("first claim: %+v", err)
	}
	before := sims[0].PSR.Raw()

	err := r.Claim(pin, pio.FuncOutput, chip.PWM)
	if !errors.Is(err, errcode.AlreadyClaimed) {
		t.Fatalf("err = %v, want already_claimed", err)
	}
	if sims[0].PSR.Raw() != before {
		t.Fatal("conflicting claim reprogrammed the pin")
	}
	owner, fn, held := r.Assignment(pin)
	if !held || owner != chip.TWI0 || fn != pio.FuncPeriphA {
		t.Fatalf("assignment = %v/%v/%v, want the original claim", owner, fn, held)
	}
}

func TestReClaimSameFunctionWritesNothing(t *testing.T) {
	sims, r := newRegistry(t)
	pin := pio.PA(5)
	if err := r.Claim(pin, pio.FuncInputPullUp, chip.ADC); err != nil {
		t.Fatalf("claim: %+v", err)
	}
	writes := 0
	sims[0].PER.OnWrite = func(v uint32) { writes++ }
	if err := r.Claim(pin, pio.FuncInputPullUp, chip.ADC); err != nil {
		t.Fatalf("re-claim: %+v", err)
	}
	if writes != 0 {
		t.Fatalf("idempotent re-claim performed %d writes", writes)
	}
}

func TestOwnerMayReconfigure(t *testing.T) {
	sims, r := newRegistry(t)
	pin := pio.PA(6)
	if err := r.Claim(pin, pio.FuncInput, chip.ADC); err != nil {
		t.Fatalf("claim: %+v", err)
	}
	if err := r.Claim(pin, pio.FuncOutput, chip.ADC); err != nil {
		t.Fatalf("reconfigure: %+v", err)
	}
	if sims[0].OSR.Raw()&(1<<6) == 0 {
		t.Fatal("reconfigure did not enable the output")
	}
	_, fn, _ := r.Assignment(pin)
	if fn != pio.FuncOutput {
		t.Fatalf("fn = %v, want output", fn)
	}
}

func TestReleaseParksAndFrees(t *testing.T) {
	sims, r := newRegistry(t)
	pin := pio.PA(7)
	if err := r.Claim(pin, pio.FuncOutput, chip.PWM); err != nil {
		t.Fatalf("claim: %+v", err)
	}
	if err := r.Release(pin, chip.ADC); !errors.Is(err, errcode.NotOwner) {
		t.Fatalf("foreign release: err = %v, want not_owner", err)
	}
	if err := r.Release(pin, chip.PWM); err != nil {
		t.Fatalf("release: %+v", err)
	}
	mask := uint32(1 << 7)
	a := sims[0]
	if a.OSR.Raw()&mask != 0 {
		t.Fatal("released pin still driving")
	}
	if a.PSR.Raw()&mask == 0 {
		t.Fatal("released pin not back under pio control")
	}
	if a.Pulled&mask != 0 {
		t.Fatal("released pin still pulled up, parked input must float")
	}
	if _, _, held := r.Assignment(pin); held {
		t.Fatal("assignment survived release")
	}
	// Released pins are claimable again.
	if err := r.Claim(pin, pio.FuncInput, chip.ADC); err != nil {
		t.Fatalf("re-claim after release: %+v", err)
	}
}

func TestUnknownPin(t *testing.T) {
	_, r := newRegistry(t)
	// No PIOE on the 144-pin part.
	if err := r.Claim(pio.PE(0), pio.FuncInput, chip.ADC); !errors.Is(err, errcode.UnknownPin) {
		t.Fatalf("err = %v, want unknown_pin", err)
	}
	// PD only carries p0..p10 there.
	if err := r.Claim(pio.PD(20), pio.FuncInput, chip.ADC); !errors.Is(err, errcode.UnknownPin) {
		t.Fatalf("err = %v, want unknown_pin", err)
	}
}

func TestUnknownPinNamesTheOperation(t *testing.T) {
	_, r := newRegistry(t)
	pin := pio.PE(0)
	_, gpioErr := r.GPIO(pin, chip.ADC)
	cases := []struct {
		op  string
		err error
	}{
		{"pio.claim", r.Claim(pin, pio.FuncInput, chip.ADC)},
		{"pio.release", r.Release(pin, chip.ADC)},
		{"pio.gpio", gpioErr},
	}
	for _, c := range cases {
		if !errors.Is(c.err, errcode.UnknownPin) {
			t.Fatalf("%s: err = %v, want unknown_pin", c.op, c.err)
		}
		if !strings.HasPrefix(c.err.Error(), c.op+":") {
			t.Fatalf("%s: error %q does not name the operation", c.op, c.err)
		}
	}
}

func TestGPIOHandle(t *testing.T) {
	sims, r := newRegistry(t)
	pin := pio.PC(2)
	if err := r.Claim(pin, pio.FuncOutput, chip.PWM); err != nil {
		t.Fatalf("claim: %+v", err)
	}
	if _, err := r.GPIO(pin, chip.ADC); !errors.Is(err, errcode.NotOwner) {
		t.Fatalf("foreign gpio: err = %v, want not_owner", err)
	}
	g, err := r.GPIO(pin, chip.PWM)
	if err != nil {
		t.Fatalf("gpio: %+v", err)
	}

	mask := uint32(1 << 2)
	g.Set()
	if sims[2].ODSR.Raw()&mask == 0 {
		t.Fatal("set did not drive the line")
	}
	if !g.Get() {
		t.Fatal("driven line reads low")
	}
	g.Toggle()
	if sims[2].ODSR.Raw()&mask != 0 {
		t.Fatal("toggle did not clear the line")
	}
	g.Clear()
	if g.Get() {
		t.Fatal("cleared line reads high")
	}
}

func TestGPIORequiresGPIOFunction(t *testing.T) {
	_, r := newRegistry(t)
	pin := pio.PA(17)
	if err := r.Claim(pin, pio.FuncPeriphA, chip.TWI0); err != nil {
		t.Fatalf("claim: %+v", err)
	}
	if _, err := r.GPIO(pin, chip.TWI0); !errors.Is(err, errcode.OutOfRange) {
		t.Fatalf("err = %v, want out_of_range", err)
	}
}

func TestParsePin(t *testing.T) {
	cases := []struct {
		in   string
		want pio.Pin
		ok   bool
	}{
		{"pa8", pio.PA(8), true},
		{"PB12", pio.PB(12), true},
		{"pd10", pio.PD(10), true},
		{"pg1", pio.Pin{}, false},
		{"a8", pio.Pin{}, false},
		{"pa", pio.Pin{}, false},
		{"pa99", pio.Pin{}, false},
	}
	for _, c := range cases {
		got, ok := pio.ParsePin(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParsePin(%q) = %v,%v, want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
