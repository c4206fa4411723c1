package sim

import "github.com/compenguy/atsam3xa/pio"

// PIO emulates one PIO controller. The set/clear register pairs fold
// into their status registers; pull-up and multi-driver state is tracked
// so tests can assert the full pin configuration. Input levels are
// driven through the Drive method.
type PIO struct {
	PER, PDR, PSR    Reg
	OER, ODR, OSR    Reg
	SODR, CODR, ODSR Reg
	PDSR             Reg
	MDER, MDDR       Reg
	PUER, PUDR       Reg
	ABSR             Reg

	// Pulled and MultiDrive reflect the write-only enable/disable pairs
	// that have no status register in the block.
	Pulled     uint32
	MultiDrive uint32
}

// NewPIO returns an emulated controller in its reset state: all pins
// under GPIO control as pulled-up inputs.
func NewPIO() *PIO {
	p := &PIO{Pulled: 0xffffffff}
	p.PSR.v = 0xffffffff

	p.PER.OnWrite = func(v uint32) { p.PSR.v |= v }
	p.PDR.OnWrite = func(v uint32) { p.PSR.v &^= v }
	p.OER.OnWrite = func(v uint32) { p.OSR.v |= v }
	p.ODR.OnWrite = func(v uint32) { p.OSR.v &^= v }
	p.SODR.OnWrite = func(v uint32) { p.ODSR.v |= v }
	p.CODR.OnWrite = func(v uint32) { p.ODSR.v &^= v }
	p.MDER.OnWrite = func(v uint32) { p.MultiDrive |= v }
	p.MDDR.OnWrite = func(v uint32) { p.MultiDrive &^= v }
	p.PUER.OnWrite = func(v uint32) { p.Pulled |= v }
	p.PUDR.OnWrite = func(v uint32) { p.Pulled &^= v }

	// Outputs read back their driven level; inputs read the external
	// level set through Drive.
	p.PDSR.OnRead = func(v uint32) uint32 {
		return (p.ODSR.v & p.OSR.v) | (v &^ p.OSR.v)
	}

	return p
}

// Drive sets the external level seen on input pins.
func (p *PIO) Drive(mask uint32, high bool) {
	if high {
		p.PDSR.v |= mask
	} else {
		p.PDSR.v &^= mask
	}
}

// Block assembles the driver-facing register file.
func (p *PIO) Block() *pio.Block {
	return &pio.Block{
		PER: &p.PER, PDR: &p.PDR, PSR: &p.PSR,
		OER: &p.OER, ODR: &p.ODR, OSR: &p.OSR,
		SODR: &p.SODR, CODR: &p.CODR, ODSR: &p.ODSR, PDSR: &p.PDSR,
		MDER: &p.MDER, MDDR: &p.MDDR,
		PUER: &p.PUER, PUDR: &p.PUDR,
		ABSR: &p.ABSR,
	}
}
