package pmc_test

import (
	"errors"
	"testing"

	"github.com/compenguy/atsam3xa/chip"
	"github.com/compenguy/atsam3xa/errcode"
	"github.com/compenguy/atsam3xa/pmc"
	"github.com/compenguy/atsam3xa/sim"
)

func newGate(t *testing.T) (*sim.PMC, *pmc.Gate) {
	t.Helper()
	p := sim.NewPMC()
	return p, pmc.NewGate(p.Block(), &chip.SAM3X8E)
}

func TestGateBankZero(t *testing.T) {
	p, g := newGate(t)
	if err := g.Enable(chip.TWI0); err != nil {
		t.Fatalf("enable: %+v", err)
	}
	if p.PCSR0.Raw()&(1<<uint(chip.TWI0)) == 0 {
		t.Fatal("twi0 bit not set in PCSR0")
	}
	if !g.Enabled(chip.TWI0) {
		t.Fatal("twi0 not reported enabled")
	}
	// Enabling again is harmless.
	if err := g.Enable(chip.TWI0); err != nil {
		t.Fatalf("re-enable: %+v", err)
	}
	if err := g.Disable(chip.TWI0); err != nil {
		t.Fatalf("disable: %+v", err)
	}
	if g.Enabled(chip.TWI0) {
		t.Fatal("twi0 still reported enabled after disable")
	}
}

func TestGateBankOne(t *testing.T) {
	p, g := newGate(t)
	if err := g.Enable(chip.EMAC); err != nil {
		t.Fatalf("enable: %+v", err)
	}
	if p.PCSR1.Raw()&(1<<uint(chip.EMAC-32)) == 0 {
		t.Fatal("emac bit not set in PCSR1")
	}
	if !g.Enabled(chip.EMAC) {
		t.Fatal("emac not reported enabled")
	}
}

func TestGateRejectsAbsentPeripheral(t *testing.T) {
	_, g := newGate(t)
	// SPI1 only exists on the 217-pin part.
	if err := g.Enable(chip.SPI1); !errors.Is(err, errcode.UnknownPeripheral) {
		t.Fatalf("err = %v, want unknown_peripheral", err)
	}
	if g.Enabled(chip.SPI1) {
		t.Fatal("absent peripheral reported enabled")
	}
}

func TestGateAlwaysClockedIsNoOp(t *testing.T) {
	p, g := newGate(t)
	if err := g.Enable(chip.SUPC); err != nil {
		t.Fatalf("enable: %+v", err)
	}
	if err := g.Disable(chip.SUPC); err != nil {
		t.Fatalf("disable: %+v", err)
	}
	if p.PCSR0.Raw() != 0 {
		t.Fatalf("system block gating touched PCSR0: %#x", p.PCSR0.Raw())
	}
	if !g.Enabled(chip.SUPC) {
		t.Fatal("system block must always report enabled")
	}
}
