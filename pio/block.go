package pio

import "github.com/compenguy/atsam3xa/regs"

// Block is one PIO controller's register file. All registers except ABSR
// are bit-per-pin set/clear pairs: writing a mask affects exactly the
// pins in the mask, which is why claim and release stay interrupt-safe
// without read-modify-write cycles. ABSR is the one shared
// read-modify-write register.
type Block struct {
	PER regs.Register // PIO enable (pin under GPIO control)
	PDR regs.Register // PIO disable (pin under peripheral control)
	PSR regs.Register // PIO status

	OER regs.Register // output enable
	ODR regs.Register // output disable
	OSR regs.Register // output status

	SODR regs.Register // set output data
	CODR regs.Register // clear output data
	ODSR regs.Register // output data status
	PDSR regs.Register // pin data status (input level)

	MDER regs.Register // multi-driver (open drain) enable
	MDDR regs.Register // multi-driver disable

	PUER regs.Register // pull-up enable
	PUDR regs.Register // pull-up disable

	ABSR regs.Register // peripheral A/B select: 0 = A, 1 = B
}
