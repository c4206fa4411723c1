//go:build baremetal

package platform

import (
	"runtime/volatile"
	"unsafe"

	"github.com/compenguy/atsam3xa/matrix"
	"github.com/compenguy/atsam3xa/pio"
	"github.com/compenguy/atsam3xa/pmc"
	"github.com/compenguy/atsam3xa/regs"
	"github.com/compenguy/atsam3xa/twi"
	"github.com/compenguy/atsam3xa/uart"
)

// Peripheral base addresses (SAM3X/A datasheet, product memory map).
const (
	pmcBase    = 0x400E0600
	supcBase   = 0x400E1A10
	matrixBase = 0x400E0400
	uartBase   = 0x400E0800
	twi0Base   = 0x4008C000
	twi1Base   = 0x40090000

	pioABase = 0x400E0E00
	pioBBase = 0x400E1000
	pioCBase = 0x400E1200
	pioDBase = 0x400E1400
	pioEBase = 0x400E1600
	pioFBase = 0x400E1800
)

func reg(addr uintptr) regs.Register {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

func pioBlock(base uintptr) *pio.Block {
	return &pio.Block{
		PER: reg(base + 0x00), PDR: reg(base + 0x04), PSR: reg(base + 0x08),
		OER: reg(base + 0x10), ODR: reg(base + 0x14), OSR: reg(base + 0x18),
		SODR: reg(base + 0x30), CODR: reg(base + 0x34),
		ODSR: reg(base + 0x38), PDSR: reg(base + 0x3C),
		MDER: reg(base + 0x50), MDDR: reg(base + 0x54),
		PUDR: reg(base + 0x60), PUER: reg(base + 0x64),
		ABSR: reg(base + 0x70),
	}
}

func twiBlock(base uintptr) *twi.Block {
	return &twi.Block{
		CR: reg(base + 0x00), MMR: reg(base + 0x04), CWGR: reg(base + 0x10),
		SR: reg(base + 0x20), RHR: reg(base + 0x30), THR: reg(base + 0x34),
	}
}

// SAM3X maps the register files onto the live peripherals. The PIO slots
// cover all six controllers; on packages below the 217-pin part the
// variant's pin map keeps the absent groups unreachable.
func SAM3X() *Blocks {
	return &Blocks{
		PMC: &pmc.Block{
			MOR: reg(pmcBase + 0x20), MCFR: reg(pmcBase + 0x24),
			PLLAR: reg(pmcBase + 0x28), UCKR: reg(pmcBase + 0x1C),
			MCKR: reg(pmcBase + 0x30), SR: reg(pmcBase + 0x68),
			PCER0: reg(pmcBase + 0x10), PCDR0: reg(pmcBase + 0x14), PCSR0: reg(pmcBase + 0x18),
			PCER1: reg(pmcBase + 0x100), PCDR1: reg(pmcBase + 0x104), PCSR1: reg(pmcBase + 0x108),
		},
		SUPC: &pmc.SUPC{
			CR: reg(supcBase + 0x00),
			SR: reg(supcBase + 0x14),
		},
		PIO: [6]*pio.Block{
			pioBlock(pioABase), pioBlock(pioBBase), pioBlock(pioCBase),
			pioBlock(pioDBase), pioBlock(pioEBase), pioBlock(pioFBase),
		},
		Matrix: &matrix.Block{SYSIO: reg(matrixBase + 0x114)},
		UART: &uart.Block{
			CR: reg(uartBase + 0x00), MR: reg(uartBase + 0x04),
			SR: reg(uartBase + 0x14), RHR: reg(uartBase + 0x18),
			THR: reg(uartBase + 0x1C), BRGR: reg(uartBase + 0x20),
		},
		TWI0: twiBlock(twi0Base),
		TWI1: twiBlock(twi1Base),
	}
}
