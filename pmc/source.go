package pmc

// Source selects a clock that can feed the master clock, directly or as
// a PLL reference. Values are immutable descriptors; a configuration
// selects them, nothing mutates them.
type Source uint8

const (
	// SourceSlow is the always-running 32 kHz slow clock (RC or, once
	// switched, the 32.768 kHz crystal).
	SourceSlow Source = iota
	// SourceFastRC is the internal fast RC oscillator (4/8/12 MHz).
	SourceFastRC
	// SourceXtal is the main crystal or ceramic oscillator.
	SourceXtal
	// SourceXtalBypass feeds an external clock through the crystal pins
	// with the oscillator circuit bypassed.
	SourceXtalBypass
	// SourcePLLA multiplies the main clock by a configurable ratio.
	SourcePLLA
	// SourceUPLL is the UTMI PLL, a fixed multiplier from a 12 MHz
	// reference (the family's second PLL).
	SourceUPLL
)

func (s Source) String() string {
	switch s {
	case SourceSlow:
		return "slow"
	case SourceFastRC:
		return "fastrc"
	case SourceXtal:
		return "xtal"
	case SourceXtalBypass:
		return "bypass"
	case SourcePLLA:
		return "plla"
	case SourceUPLL:
		return "upll"
	}
	return "source?"
}

// IsPLL reports whether the source needs a lock step before use.
func (s Source) IsPLL() bool { return s == SourcePLLA || s == SourceUPLL }

// isMainOsc reports whether the source runs off the main oscillator
// circuit (fast RC or crystal path).
func (s Source) isMainOsc() bool {
	return s == SourceFastRC || s == SourceXtal || s == SourceXtalBypass
}

// css returns the MCKR.CSS selector value for the source.
func (s Source) css() uint32 {
	switch s {
	case SourceSlow:
		return cssSlow
	case SourcePLLA:
		return cssPLLA
	case SourceUPLL:
		return cssUPLL
	default:
		return cssMain
	}
}

// RCFreq is a fast RC oscillator trim setting.
type RCFreq uint8

const (
	RC4MHz  RCFreq = 0 // uncalibrated power-on default
	RC8MHz  RCFreq = 1
	RC12MHz RCFreq = 2
)

// Hz returns the nominal output frequency, or 0 for an invalid trim.
func (f RCFreq) Hz() uint32 {
	switch f {
	case RC4MHz:
		return 4_000_000
	case RC8MHz:
		return 8_000_000
	case RC12MHz:
		return 12_000_000
	}
	return 0
}

// Prescaler divides the master clock before distribution. Values are the
// MCKR.PRES field encodings.
type Prescaler uint8

const (
	Pres1  Prescaler = 0
	Pres2  Prescaler = 1
	Pres4  Prescaler = 2
	Pres8  Prescaler = 3
	Pres16 Prescaler = 4
	Pres32 Prescaler = 5
	Pres64 Prescaler = 6
	Pres3  Prescaler = 7 // the odd one out, divides by three
)

// Divisor returns the division factor, or 0 for an invalid encoding.
func (p Prescaler) Divisor() uint32 {
	switch {
	case p == Pres3:
		return 3
	case p <= Pres64:
		return 1 << p
	}
	return 0
}

// PrescalerFor maps a division factor back to its encoding, for tools.
func PrescalerFor(div uint32) (Prescaler, bool) {
	switch div {
	case 1:
		return Pres1, true
	case 2:
		return Pres2, true
	case 3:
		return Pres3, true
	case 4:
		return Pres4, true
	case 8:
		return Pres8, true
	case 16:
		return Pres16, true
	case 32:
		return Pres32, true
	case 64:
		return Pres64, true
	}
	return 0, false
}

// Slow clock rates. The RC is loose, the crystal is a watch crystal.
const (
	slowRCHz   = 32_000
	slowXtalHz = 32_768
)
