// Package sim emulates the SAM3X clock, PIO and peripheral register
// blocks in plain memory so the HAL can be exercised on a development
// host. The emulation models the handshake behavior the drivers depend
// on (status flags following control writes, set/clear register pairs)
// rather than the full silicon.
package sim

import "github.com/compenguy/atsam3xa/regs"

// Reg is an in-memory register. OnWrite, when set, observes the final
// value after every mutation; OnRead can substitute the returned value.
type Reg struct {
	v       uint32
	OnWrite func(v uint32)
	OnRead  func(v uint32) uint32
}

var _ regs.Register = (*Reg)(nil)

func (r *Reg) Get() uint32 {
	if r.OnRead != nil {
		return r.OnRead(r.v)
	}
	return r.v
}

func (r *Reg) Set(v uint32) {
	r.v = v
	if r.OnWrite != nil {
		r.OnWrite(r.v)
	}
}

func (r *Reg) SetBits(mask uint32)   { r.Set(r.v | mask) }
func (r *Reg) ClearBits(mask uint32) { r.Set(r.v &^ mask) }

func (r *Reg) HasBits(mask uint32) bool { return r.Get()&mask != 0 }

func (r *Reg) ReplaceBits(val, mask uint32, pos uint8) {
	r.Set(r.v&^(mask<<pos) | (val&mask)<<pos)
}

// Raw returns the stored value without invoking OnRead. Tests use it to
// assert what a driver actually wrote.
func (r *Reg) Raw() uint32 { return r.v }
