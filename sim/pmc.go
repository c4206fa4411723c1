package sim

import "github.com/compenguy/atsam3xa/pmc"

// Register layouts mirrored from the datasheet. The emulation keeps its
// own copies so it stays decoupled from the driver's internals.
const (
	morMOSCXTEN  = 1 << 0
	morMOSCXTBY  = 1 << 1
	morMOSCRCEN  = 1 << 3
	morMOSCRCF   = 0x7 << 4
	morMOSCSEL   = 1 << 24
	pllarMULA    = 0x7ff << 16
	uckrUPLLEN   = 1 << 16
	srMOSCXTS    = 1 << 0
	srLOCKA      = 1 << 1
	srMCKRDY     = 1 << 3
	srLOCKU      = 1 << 6
	srOSCSELS    = 1 << 7
	srMOSCSELS   = 1 << 16
	srMOSCRCS    = 1 << 17
	mcfrMAINFRDY = 1 << 16
	supcKeyMask  = 0xff << 24
	supcKey      = 0xa5 << 24
	supcXTALSEL  = 1 << 3
	supcOSCSEL   = 1 << 7
)

// Status flags callers can list in Stuck.
const (
	StatusMOSCXTS  = srMOSCXTS
	StatusLOCKA    = srLOCKA
	StatusMCKRDY   = srMCKRDY
	StatusLOCKU    = srLOCKU
	StatusMOSCSELS = srMOSCSELS
	StatusMOSCRCS  = srMOSCRCS
)

// PMC emulates the power management controller's handshake behavior:
// control writes retract the matching status flag, which reasserts after
// SettleReads polls of PMC_SR. Flags listed in Stuck never reassert,
// which is how timeout paths are exercised.
type PMC struct {
	MOR, MCFR, PLLAR, UCKR, MCKR, SR         Reg
	PCER0, PCDR0, PCSR0, PCER1, PCDR1, PCSR1 Reg
	SupcCR, SupcSR                           Reg

	// SettleReads is how many SR polls a retracted flag takes to come
	// back. Zero means the first poll after the write sees it set.
	SettleReads int

	// Stuck flags never reassert.
	Stuck uint32

	// SlowXtalStuck keeps SUPC_SR.OSCSEL low after a crystal switch.
	SlowXtalStuck bool

	// MainHz feeds the CKGR_MCFR frequency measurement.
	MainHz uint32
	// SlowHz is the reference for the measurement counter.
	SlowHz uint32

	pending map[uint32]int
}

// NewPMC returns an emulated PMC in its reset state: fast RC running and
// selected, master clock ready on the slow clock.
func NewPMC() *PMC {
	p := &PMC{
		SlowHz:  32_000,
		MainHz:  4_000_000,
		pending: make(map[uint32]int),
	}
	p.MOR.v = morMOSCRCEN
	p.SR.v = srMOSCRCS | srMOSCSELS | srMCKRDY

	lastMOR := p.MOR.v
	p.MOR.OnWrite = func(v uint32) {
		prev := lastMOR
		lastMOR = v
		if v&morMOSCRCEN == 0 {
			p.SR.v &^= srMOSCRCS
		} else if prev&morMOSCRCEN == 0 || prev&morMOSCRCF != v&morMOSCRCF {
			// Enable or retrim restarts the RC settling.
			p.schedule(srMOSCRCS)
		}
		if v&(morMOSCXTEN|morMOSCXTBY) == 0 {
			p.SR.v &^= srMOSCXTS
		} else if prev&(morMOSCXTEN|morMOSCXTBY) == 0 {
			p.schedule(srMOSCXTS)
		}
		if prev&morMOSCSEL != v&morMOSCSEL {
			p.schedule(srMOSCSELS)
		}
	}

	p.PLLAR.OnWrite = func(v uint32) {
		if v&pllarMULA != 0 {
			p.schedule(srLOCKA)
		} else {
			p.SR.v &^= srLOCKA
		}
	}
	p.UCKR.OnWrite = func(v uint32) {
		if v&uckrUPLLEN != 0 {
			p.schedule(srLOCKU)
		} else {
			p.SR.v &^= srLOCKU
		}
	}
	p.MCKR.OnWrite = func(v uint32) {
		p.schedule(srMCKRDY)
	}

	p.SR.OnRead = func(v uint32) uint32 {
		p.settle()
		return p.SR.v
	}

	p.MCFR.OnRead = func(v uint32) uint32 {
		return mcfrMAINFRDY | (p.MainHz*16/p.SlowHz)&0xffff
	}

	p.PCER0.OnWrite = func(v uint32) { p.PCSR0.v |= v }
	p.PCDR0.OnWrite = func(v uint32) { p.PCSR0.v &^= v }
	p.PCER1.OnWrite = func(v uint32) { p.PCSR1.v |= v }
	p.PCDR1.OnWrite = func(v uint32) { p.PCSR1.v &^= v }

	p.SupcCR.OnWrite = func(v uint32) {
		if v&supcKeyMask == supcKey && v&supcXTALSEL != 0 && !p.SlowXtalStuck {
			p.SupcSR.v |= supcOSCSEL
		}
	}

	return p
}

func (p *PMC) schedule(flag uint32) {
	p.SR.v &^= flag
	if flag&p.Stuck != 0 {
		delete(p.pending, flag)
		return
	}
	p.pending[flag] = p.SettleReads
}

func (p *PMC) settle() {
	for flag, left := range p.pending {
		if left <= 0 {
			p.SR.v |= flag
			delete(p.pending, flag)
			continue
		}
		p.pending[flag] = left - 1
	}
}

// Block assembles a driver-facing register file over the emulated
// registers.
func (p *PMC) Block() *pmc.Block {
	return &pmc.Block{
		MOR: &p.MOR, MCFR: &p.MCFR, PLLAR: &p.PLLAR, UCKR: &p.UCKR,
		MCKR: &p.MCKR, SR: &p.SR,
		PCER0: &p.PCER0, PCDR0: &p.PCDR0, PCSR0: &p.PCSR0,
		PCER1: &p.PCER1, PCDR1: &p.PCDR1, PCSR1: &p.PCSR1,
	}
}

// Supc assembles the supply controller slice.
func (p *PMC) Supc() *pmc.SUPC {
	return &pmc.SUPC{CR: &p.SupcCR, SR: &p.SupcSR}
}
