// Package matrix controls the bus-matrix system I/O configuration. The
// only knob the HAL needs is SYSIO12: while set, the ERASE function owns
// the pad and PC0 is unavailable to the pin registry.
package matrix

import "github.com/compenguy/atsam3xa/regs"

// Block is the slice of the bus matrix this package touches.
type Block struct {
	SYSIO regs.Register // CCFG_SYSIO
}

const sysio12 = 1 << 12

// Interconnect wraps the matrix configuration registers.
type Interconnect struct {
	b *Block
}

// NewInterconnect wraps the block and releases the ERASE pad so PC0 can
// be claimed, the safe default for running firmware.
func NewInterconnect(b *Block) *Interconnect {
	ic := &Interconnect{b: b}
	ic.DisableSysIO()
	return ic
}

// DisableSysIO hands the shared pad to the PIO controller (PC0).
func (ic *Interconnect) DisableSysIO() { ic.b.SYSIO.ClearBits(sysio12) }

// EnableSysIO hands the shared pad back to the ERASE function.
func (ic *Interconnect) EnableSysIO() { ic.b.SYSIO.SetBits(sysio12) }

// SysIOEnabled reports whether ERASE currently owns the pad.
func (ic *Interconnect) SysIOEnabled() bool { return ic.b.SYSIO.HasBits(sysio12) }
