package pmc

import (
	"time"

	"github.com/compenguy/atsam3xa/chip"
	"github.com/compenguy/atsam3xa/errcode"
	"github.com/compenguy/atsam3xa/event"
	"github.com/compenguy/atsam3xa/regs"
)

// State is a phase of the clock switching sequence.
type State uint8

const (
	Unconfigured State = iota
	OscillatorStabilizing
	PLLLocking
	SwitchPending
	Stable
	Failed
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case OscillatorStabilizing:
		return "oscillator_stabilizing"
	case PLLLocking:
		return "pll_locking"
	case SwitchPending:
		return "switch_pending"
	case Stable:
		return "stable"
	case Failed:
		return "failed"
	}
	return "state?"
}

// Transition is published on the sequencer's event stream whenever the
// state changes. Err is set only on entry to Failed.
type Transition struct {
	From, To State
	Err      error
}

// Sequencer applies validated clock configurations to the hardware in
// the one safe order, polling stability flags between steps. It owns the
// authoritative record of the last applied configuration.
//
// The sequencer is not internally locked: hold it in a single execution
// context, or bracket Apply in an application critical section if
// interrupt handlers can reach the PMC.
type Sequencer struct {
	b       *Block
	supc    *SUPC // optional; slow clock crystal control
	variant *chip.Variant

	state  State
	active Validated

	now func() time.Time

	// Transitions observes every state change, including failures.
	Transitions event.Stream[Transition]
}

// NewSequencer wraps a PMC block for the given variant. supc may be nil
// when the board never switches the slow clock crystal. The active
// configuration starts as the hardware reset default (4 MHz fast RC).
func NewSequencer(b *Block, supc *SUPC, variant *chip.Variant) *Sequencer {
	reset, err := Validate(variant, ResetConfig())
	if err != nil {
		// The reset default is within range on every variant.
		panic("pmc: reset config invalid: " + err.Error())
	}
	return &Sequencer{
		b:       b,
		supc:    supc,
		variant: variant,
		state:   Unconfigured,
		active:  *reset,
		now:     time.Now,
	}
}

// SetNow replaces the time source used to bound stability polls. Tests
// use this to simulate instant success or a stuck flag without waiting.
func (s *Sequencer) SetNow(now func() time.Time) { s.now = now }

// State returns the current sequencing state.
func (s *Sequencer) State() State { return s.state }

// Active returns the last successfully applied configuration. Until the
// first Apply this is the hardware reset default.
func (s *Sequencer) Active() *Validated {
	a := s.active
	return &a
}

// MasterHz is the active master clock frequency. Peripheral drivers use
// this and PeripheralHz to derive divisors and tick counts.
func (s *Sequencer) MasterHz() uint32 { return s.active.mckHz }

// PeripheralHz is the active peripheral bus frequency.
func (s *Sequencer) PeripheralHz() uint32 { return s.active.periphHz }

// SlowHz is the current slow clock rate, read back from the supply
// controller when one is attached.
func (s *Sequencer) SlowHz() uint32 {
	if s.supc != nil && s.supc.SR.HasBits(supcOSCSEL) {
		return slowXtalHz
	}
	if s.supc == nil && s.active.cfg.SlowCrystal {
		return slowXtalHz
	}
	return slowRCHz
}

func (s *Sequencer) setState(to State, err error) {
	from := s.state
	s.state = to
	s.Transitions.Publish(Transition{From: from, To: to, Err: err})
}

func (s *Sequencer) fail(code errcode.Code, field string) error {
	err := &errcode.E{C: code, Op: "pmc.apply", Msg: field}
	s.setState(Failed, err)
	return err
}

// wait busy-polls r until every bit in mask is set or the deadline
// passes. There is no blocking primitive beneath this loop; the bound is
// the injected time source.
func (s *Sequencer) wait(r regs.Register, mask uint32, deadline time.Time) bool {
	for !r.HasBits(mask) {
		if s.now().After(deadline) {
			return false
		}
	}
	return true
}

// morModify read-modify-writes CKGR_MOR. Every write carries the key.
func (s *Sequencer) morModify(set, clear uint32) {
	v := s.b.MOR.Get()
	v = (v &^ clear) | set | morKey
	s.b.MOR.Set(v)
}

// Crystal startup time in units of 8 slow clock cycles, as programmed
// into MOSCXTST when enabling the crystal circuit.
const xtalStartup = 8

// Apply drives the hardware from the active configuration to v, in the
// fixed order: oscillator enable and stabilization, PLL programming and
// lock, master clock switch, prescale, readback verification. Each wait
// is bounded by timeout; on expiry the sequence stops with an error and
// the previously active configuration stays authoritative (the hardware
// does not roll back, and neither does the sequencer guess).
//
// Re-applying the active configuration is a no-op success. A failed
// sequence is never retried internally; the caller decides whether to
// retry, fall back, or halt.
func (s *Sequencer) Apply(v *Validated, timeout time.Duration) error {
	if v == nil {
		return &errcode.E{C: errcode.InvalidSource, Op: "pmc.apply", Msg: "nil config"}
	}
	if v.variant != s.variant {
		return &errcode.E{C: errcode.InvalidSource, Op: "pmc.apply", Msg: "variant mismatch"}
	}
	if s.state == Stable && v.cfg == s.active.cfg {
		return nil
	}

	deadline := s.now().Add(timeout)
	cfg := v.cfg

	// Step 1: bring up and select the oscillator feeding the tree.
	s.setState(OscillatorStabilizing, nil)

	osc := cfg.Source
	if cfg.Source.IsPLL() {
		osc = cfg.PLLRef
	}
	switch osc {
	case SourceSlow:
		if cfg.SlowCrystal && s.supc != nil && !s.supc.SR.HasBits(supcOSCSEL) {
			// One-way switch; the RC cannot be re-selected afterwards.
			s.supc.CR.Set(supcKey | supcXTALSEL)
			if !s.wait(s.supc.SR, supcOSCSEL, deadline) {
				return s.fail(errcode.OscTimeout, "slow_xtal")
			}
		}

	case SourceFastRC:
		s.morModify(morMOSCRCEN, 0)
		if !s.wait(s.b.SR, srMOSCRCS, deadline) {
			return s.fail(errcode.OscTimeout, "fastrc")
		}
		// Retrim, then let the RC settle at the new frequency.
		s.morModify(uint32(cfg.RC)<<morMOSCRCFPos, morMOSCRCFMask<<morMOSCRCFPos)
		if !s.wait(s.b.SR, srMOSCRCS, deadline) {
			return s.fail(errcode.OscTimeout, "fastrc")
		}
		s.morModify(0, morMOSCSEL)
		if !s.wait(s.b.SR, srMOSCSELS, deadline) {
			return s.fail(errcode.OscTimeout, "moscsel")
		}
		// Crystal circuit no longer needed.
		s.morModify(0, morMOSCXTEN|morMOSCXTBY)

	case SourceXtal:
		// Enable RC and crystal together so anything running off the
		// main clock sees a smooth handover, then select the crystal
		// and drop the RC.
		s.morModify(morMOSCRCEN|morMOSCXTEN|uint32(xtalStartup)<<morMOSCXTSTPos, morMOSCXTBY)
		if !s.wait(s.b.SR, srMOSCRCS, deadline) {
			return s.fail(errcode.OscTimeout, "fastrc")
		}
		if !s.wait(s.b.SR, srMOSCXTS, deadline) {
			return s.fail(errcode.OscTimeout, "xtal")
		}
		s.morModify(morMOSCSEL, 0)
		if !s.wait(s.b.SR, srMOSCSELS, deadline) {
			return s.fail(errcode.OscTimeout, "moscsel")
		}
		s.morModify(0, morMOSCRCEN)

	case SourceXtalBypass:
		// The external clock is already stable; no stabilization flag
		// to poll, only the selection handshake.
		s.morModify(morMOSCXTBY, morMOSCXTEN)
		s.morModify(morMOSCSEL, 0)
		if !s.wait(s.b.SR, srMOSCSELS, deadline) {
			return s.fail(errcode.OscTimeout, "moscsel")
		}
		s.morModify(0, morMOSCRCEN)
	}

	// Step 2: program and lock the PLL when one is selected. The switch
	// must never happen before the lock flag is observed.
	switch cfg.Source {
	case SourcePLLA:
		s.setState(PLLLocking, nil)
		s.b.PLLAR.Set(pllarONE |
			uint32(cfg.PLL.Mul-1)<<pllarMULAPos |
			uint32(cfg.PLL.Div)<<pllarDIVAPos |
			uint32(cfg.PLL.SettleTicks)<<pllarCOUNTPos)
		if !s.wait(s.b.SR, srLOCKA, deadline) {
			return s.fail(errcode.PLLLockTimeout, "plla")
		}
	case SourceUPLL:
		s.setState(PLLLocking, nil)
		s.b.UCKR.SetBits(uckrUPLLEN | uint32(cfg.PLL.SettleTicks)<<uckrCOUNTPos)
		if !s.wait(s.b.SR, srLOCKU, deadline) {
			return s.fail(errcode.PLLLockTimeout, "upll")
		}
	}

	// Steps 3-4: switch the master clock and program the prescaler. For
	// PLL sources the prescaler and divider are set up first and the
	// selector is primed on the main clock; for the others the selector
	// switches first. MCKRDY gates every MCKR write.
	s.setState(SwitchPending, nil)

	if cfg.Source.IsPLL() {
		s.b.MCKR.ReplaceBits(uint32(cfg.Prescaler), mckrPRESMask, mckrPRESPos)
		if !s.wait(s.b.SR, srMCKRDY, deadline) {
			return s.fail(errcode.SwitchTimeout, "prescaler")
		}

		div2Bit := uint32(mckrPLLADIV2)
		if cfg.Source == SourceUPLL {
			div2Bit = mckrUPLLDIV2
		}
		mckr := s.b.MCKR.Get()
		mckr = mckr&^(mckrCSSMask<<mckrCSSPos) | cssMain
		if cfg.PLL.Div2 {
			mckr |= div2Bit
		} else {
			mckr &^= div2Bit
		}
		s.b.MCKR.Set(mckr)
		if !s.wait(s.b.SR, srMCKRDY, deadline) {
			return s.fail(errcode.SwitchTimeout, "prime")
		}
	}

	s.b.MCKR.ReplaceBits(cfg.Source.css(), mckrCSSMask, mckrCSSPos)
	if !s.wait(s.b.SR, srMCKRDY, deadline) {
		return s.fail(errcode.SwitchTimeout, "css")
	}

	if !cfg.Source.IsPLL() {
		s.b.MCKR.ReplaceBits(uint32(cfg.Prescaler), mckrPRESMask, mckrPRESPos)
		if !s.wait(s.b.SR, srMCKRDY, deadline) {
			return s.fail(errcode.SwitchTimeout, "prescaler")
		}
	}

	// Step 5: the selector must read back as the requested source. The
	// hardware refuses some illegal switches silently, so detect rather
	// than assume.
	if regs.Field(s.b.MCKR.Get(), mckrCSSMask, mckrCSSPos) != cfg.Source.css() {
		return s.fail(errcode.SwitchTimeout, "readback")
	}

	s.active = *v
	s.setState(Stable, nil)
	return nil
}

// MeasuredMainHz reads the main clock frequency counted against the slow
// clock, waiting up to timeout for a fresh measurement. Useful to sanity
// check a crystal against its nominal rate.
func (s *Sequencer) MeasuredMainHz(timeout time.Duration) (uint32, error) {
	deadline := s.now().Add(timeout)
	if !s.wait(s.b.MCFR, mcfrMAINFRDY, deadline) {
		return 0, &errcode.E{C: errcode.OscTimeout, Op: "pmc.measure", Msg: "mainfrdy"}
	}
	// MAINF counts main clock ticks over 16 slow clock cycles.
	mainf := regs.Field(s.b.MCFR.Get(), mcfrMAINFMask, mcfrMAINFPos)
	return mainf * s.SlowHz() / 16, nil
}

// EnableSlowClockCrystal switches the slow clock from its RC oscillator
// to the 32.768 kHz crystal. The switch is permanent until reset.
func (s *Sequencer) EnableSlowClockCrystal(timeout time.Duration) error {
	if s.supc == nil {
		return &errcode.E{C: errcode.InvalidSource, Op: "pmc.slowclock", Msg: "no supc"}
	}
	if s.supc.SR.HasBits(supcOSCSEL) {
		return nil
	}
	deadline := s.now().Add(timeout)
	s.supc.CR.Set(supcKey | supcXTALSEL)
	if !s.wait(s.supc.SR, supcOSCSEL, deadline) {
		return &errcode.E{C: errcode.OscTimeout, Op: "pmc.slowclock", Msg: "slow_xtal"}
	}
	return nil
}
