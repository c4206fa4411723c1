package pmc

import (
	"github.com/compenguy/atsam3xa/chip"
	"github.com/compenguy/atsam3xa/errcode"
)

// Gate controls the per-peripheral bus clock switches. Every driver must
// enable its gate before touching its own registers; access to an
// ungated peripheral is undefined hardware behaviour, not a catchable
// error.
//
// Enable and disable are single set/clear register writes and therefore
// safe to call from an interrupt context.
type Gate struct {
	b       *Block
	variant *chip.Variant
}

// NewGate wraps the PMC gating registers for the given variant.
func NewGate(b *Block, variant *chip.Variant) *Gate {
	return &Gate{b: b, variant: variant}
}

func (g *Gate) check(id chip.PeripheralID) error {
	if !g.variant.HasPeripheral(id) {
		return &errcode.E{C: errcode.UnknownPeripheral, Op: "pmc.gate", Msg: id.String()}
	}
	return nil
}

// Enable turns on the bus clock for the peripheral. Enabling an already
// enabled gate succeeds; gating a system block that is not under PMC
// control is a silent no-op.
func (g *Gate) Enable(id chip.PeripheralID) error {
	if err := g.check(id); err != nil {
		return err
	}
	if id.AlwaysClocked() {
		return nil
	}
	if id < 32 {
		g.b.PCER0.Set(1 << uint(id))
	} else {
		g.b.PCER1.Set(1 << uint(id-32))
	}
	return nil
}

// Disable turns off the bus clock for the peripheral. Only call this
// once no component holds a live handle to the peripheral; that
// discipline belongs to the driver layer.
func (g *Gate) Disable(id chip.PeripheralID) error {
	if err := g.check(id); err != nil {
		return err
	}
	if id.AlwaysClocked() {
		return nil
	}
	if id < 32 {
		g.b.PCDR0.Set(1 << uint(id))
	} else {
		g.b.PCDR1.Set(1 << uint(id-32))
	}
	return nil
}

// Enabled reports the gate status for the peripheral. System blocks not
// under PMC control always read enabled.
func (g *Gate) Enabled(id chip.PeripheralID) bool {
	if !g.variant.HasPeripheral(id) {
		return false
	}
	if id.AlwaysClocked() {
		return true
	}
	if id < 32 {
		return g.b.PCSR0.HasBits(1 << uint(id))
	}
	return g.b.PCSR1.HasBits(1 << uint(id-32))
}
