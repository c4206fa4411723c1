package pmc

import "github.com/compenguy/atsam3xa/regs"

// Block is the Power Management Controller register file. The platform
// layer supplies it; this package only performs semantic read/write/poll
// calls against the fields, never address arithmetic.
type Block struct {
	MOR   regs.Register // CKGR_MOR: main oscillator control
	MCFR  regs.Register // CKGR_MCFR: main clock frequency measurement
	PLLAR regs.Register // CKGR_PLLAR: PLLA control
	UCKR  regs.Register // CKGR_UCKR: UTMI PLL control
	MCKR  regs.Register // PMC_MCKR: master clock selection/prescale
	SR    regs.Register // PMC_SR: status flags

	// Peripheral clock gating, PIDs 8..31 in bank 0, 32..44 in bank 1.
	PCER0 regs.Register // enable (write-only set)
	PCDR0 regs.Register // disable (write-only set)
	PCSR0 regs.Register // status
	PCER1 regs.Register
	PCDR1 regs.Register
	PCSR1 regs.Register
}

// SUPC is the slice of the Supply Controller the clock model needs for
// slow clock source selection.
type SUPC struct {
	CR regs.Register // SUPC_CR
	SR regs.Register // SUPC_SR
}

// CKGR_MOR fields.
const (
	morMOSCXTEN = 1 << 0 // main crystal oscillator enable
	morMOSCXTBY = 1 << 1 // main crystal oscillator bypass
	morMOSCRCEN = 1 << 3 // fast RC oscillator enable

	morMOSCRCFMask uint32 = 0x7
	morMOSCRCFPos  uint8  = 4

	morMOSCXTSTMask uint32 = 0xff
	morMOSCXTSTPos  uint8  = 8

	morKey = 0x37 << 16 // write password, required on every MOR write

	morMOSCSEL = 1 << 24 // main clock source: 0 fast RC, 1 crystal
)

// CKGR_PLLAR fields.
const (
	pllarDIVAMask uint32 = 0xff
	pllarDIVAPos  uint8  = 0

	pllarCOUNTMask uint32 = 0x3f
	pllarCOUNTPos  uint8  = 8

	pllarMULAMask uint32 = 0x7ff
	pllarMULAPos  uint8  = 16

	pllarONE = 1 << 29 // must be set on every PLLAR write
)

// CKGR_UCKR fields.
const (
	uckrUPLLEN = 1 << 16

	uckrCOUNTMask uint32 = 0xf
	uckrCOUNTPos  uint8  = 20
)

// PMC_MCKR fields.
const (
	mckrCSSMask uint32 = 0x3
	mckrCSSPos  uint8  = 0

	mckrPRESMask uint32 = 0x7
	mckrPRESPos  uint8  = 4

	mckrPLLADIV2 = 1 << 12
	mckrUPLLDIV2 = 1 << 13
)

// PMC_MCKR.CSS selector values.
const (
	cssSlow uint32 = 0
	cssMain uint32 = 1
	cssPLLA uint32 = 2
	cssUPLL uint32 = 3
)

// PMC_SR flags.
const (
	srMOSCXTS  = 1 << 0  // crystal oscillator stabilized
	srLOCKA    = 1 << 1  // PLLA locked
	srMCKRDY   = 1 << 3  // master clock ready
	srLOCKU    = 1 << 6  // UTMI PLL locked
	srOSCSELS  = 1 << 7  // slow clock oscillator selection done
	srMOSCSELS = 1 << 16 // main oscillator selection done
	srMOSCRCS  = 1 << 17 // fast RC stabilized
)

// CKGR_MCFR fields.
const (
	mcfrMAINFMask uint32 = 0xffff
	mcfrMAINFPos  uint8  = 0
	mcfrMAINFRDY         = 1 << 16
)

// SUPC fields.
const (
	supcKey     = 0xa5 << 24
	supcXTALSEL = 1 << 3 // switch slow clock to the 32.768 kHz crystal
	supcOSCSEL  = 1 << 7 // SR: slow clock running from the crystal
)
