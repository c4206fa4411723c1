package pmc

import (
	"github.com/compenguy/atsam3xa/chip"
	"github.com/compenguy/atsam3xa/errcode"
	"github.com/compenguy/atsam3xa/x/mathx"
)

// PLLConfig describes a PLL multiplier/divider pair. For PLLA the output
// is ref*Mul/Div (Mul is the effective factor; the hardware field stores
// Mul-1). For the UTMI PLL the ratio is fixed by the variant and Mul/Div
// are ignored; only Div2 and SettleTicks apply.
type PLLConfig struct {
	Mul uint16
	Div uint8
	// Div2 halves the PLL output on the way into the master clock.
	Div2 bool
	// SettleTicks is how many slow clock ticks the PLL is given to lock.
	SettleTicks uint8
}

// Config is a candidate clock tree: which source drives the master
// clock, how a selected PLL is fed and ratioed, and the prescale applied
// before distribution. Construct one, have Validate check it, then hand
// the result to the Sequencer. Immutable after validation.
type Config struct {
	Source Source

	// RC is the fast RC trim, read when the fast RC is the source or the
	// PLL reference.
	RC RCFreq
	// XtalHz is the board crystal (or bypass input) frequency, read when
	// the crystal path is the source or the PLL reference.
	XtalHz uint32
	// SlowCrystal selects the 32.768 kHz crystal for the slow clock.
	SlowCrystal bool

	// PLLRef is the reference source when Source is a PLL. It must be an
	// oscillator, never another PLL.
	PLLRef Source
	PLL    PLLConfig

	Prescaler Prescaler
}

// Validated is a configuration that passed Validate for a particular
// variant, with its derived frequencies. It is the only accepted input
// to Sequencer.Apply; there is no other way to construct one.
type Validated struct {
	cfg      Config
	variant  *chip.Variant
	oscHz    uint32 // oscillator (or PLL reference) frequency
	pllHz    uint32 // PLL output before Div2; 0 when no PLL in the path
	mckHz    uint32 // master clock after Div2 and prescale
	periphHz uint32 // peripheral bus clock
}

// Config returns a copy of the underlying configuration.
func (v *Validated) Config() Config { return v.cfg }

// MasterHz is the master clock frequency this configuration produces.
func (v *Validated) MasterHz() uint32 { return v.mckHz }

// PeripheralHz is the peripheral bus frequency this configuration
// produces. On this family the bus runs at the master clock rate.
func (v *Validated) PeripheralHz() uint32 { return v.periphHz }

func invalidSource(field string) error {
	return &errcode.E{C: errcode.InvalidSource, Op: "pmc.validate", Msg: field}
}

func outOfRange(field string) error {
	return &errcode.E{C: errcode.OutOfRange, Op: "pmc.validate", Msg: field}
}

// oscRateHz resolves the frequency of a plain oscillator source, range
// checking its parameters against the variant.
func oscRateHz(v *chip.Variant, cfg *Config, src Source) (uint32, error) {
	switch src {
	case SourceSlow:
		if cfg.SlowCrystal {
			return slowXtalHz, nil
		}
		return slowRCHz, nil
	case SourceFastRC:
		hz := cfg.RC.Hz()
		if hz == 0 {
			return 0, outOfRange("rc")
		}
		return hz, nil
	case SourceXtal, SourceXtalBypass:
		if !mathx.Between(cfg.XtalHz, v.XtalMinHz, v.XtalMaxHz) {
			return 0, outOfRange("xtal_hz")
		}
		return cfg.XtalHz, nil
	}
	return 0, invalidSource("source")
}

// Validate checks a candidate configuration against the variant's
// documented limits, in a fixed order: source availability, PLL
// reference legality, master clock ceiling, peripheral bus ceiling.
// It is pure computation; no register is read or written. On failure
// the returned error names the offending field and nothing is partially
// validated.
func Validate(variant *chip.Variant, cfg Config) (*Validated, error) {
	// (a) The selected source must exist on this variant.
	if cfg.Source > SourceUPLL {
		return nil, invalidSource("source")
	}
	if cfg.Source == SourceUPLL && !variant.HasUPLL {
		return nil, invalidSource("source")
	}

	out := &Validated{cfg: cfg, variant: variant}

	// (b) Resolve the oscillator feeding the tree. A PLL must be fed by
	// a real oscillator: chaining PLLs is rejected before any range math.
	if cfg.Source.IsPLL() {
		if cfg.PLLRef.IsPLL() || cfg.PLLRef == SourceSlow {
			return nil, invalidSource("pll_ref")
		}
		hz, err := oscRateHz(variant, &cfg, cfg.PLLRef)
		if err != nil {
			return nil, err
		}
		out.oscHz = hz
	} else {
		hz, err := oscRateHz(variant, &cfg, cfg.Source)
		if err != nil {
			return nil, err
		}
		out.oscHz = hz
	}

	// PLL ratio checks and output frequency.
	switch cfg.Source {
	case SourcePLLA:
		if !mathx.Between(cfg.PLL.Mul, 2, variant.PLLAMulMax) {
			return nil, outOfRange("pll_mul")
		}
		if !mathx.Between(cfg.PLL.Div, 1, variant.PLLADivMax) {
			return nil, outOfRange("pll_div")
		}
		if cfg.PLL.SettleTicks > uint8(pllarCOUNTMask) {
			return nil, outOfRange("pll_settle")
		}
		out.pllHz = uint32(uint64(out.oscHz) * uint64(cfg.PLL.Mul) / uint64(cfg.PLL.Div))
		if !mathx.Between(out.pllHz, variant.PLLAOutMinHz, variant.PLLAOutMaxHz) {
			return nil, outOfRange("pll_out_hz")
		}
	case SourceUPLL:
		// The UTMI PLL only locks from the documented reference rate.
		if out.oscHz != variant.UPLLRefHz {
			return nil, outOfRange("pll_ref_hz")
		}
		if cfg.PLL.SettleTicks > uint8(uckrCOUNTMask) {
			return nil, outOfRange("pll_settle")
		}
		out.pllHz = out.oscHz * uint32(variant.UPLLMul)
	}

	// (c) Master clock ceiling after dividers and prescale.
	mck := out.oscHz
	if cfg.Source.IsPLL() {
		mck = out.pllHz
		if cfg.PLL.Div2 {
			mck /= 2
		}
	}
	div := cfg.Prescaler.Divisor()
	if div == 0 {
		return nil, outOfRange("prescaler")
	}
	mck /= div
	if mck > variant.MaxCoreHz {
		return nil, outOfRange("master_hz")
	}
	out.mckHz = mck

	// (d) Peripheral bus ceiling.
	out.periphHz = mck
	if out.periphHz > variant.MaxPeriphHz {
		return nil, outOfRange("peripheral_hz")
	}

	return out, nil
}

// ResetConfig is the clock tree the hardware wakes up with: the
// uncalibrated 4 MHz fast RC, undivided.
func ResetConfig() Config {
	return Config{Source: SourceFastRC, RC: RC4MHz, Prescaler: Pres1}
}
