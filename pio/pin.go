// Package pio is the pin function registry for the parallel I/O
// controllers: it tracks which peripheral owns each physical pin and
// performs the multiplexer writes that put a claim into effect.
package pio

// Group identifies a PIO controller (port).
type Group uint8

const (
	GroupA Group = iota
	GroupB
	GroupC
	GroupD
	GroupE
	GroupF
	numGroups
)

func (g Group) String() string {
	if g < numGroups {
		return string('a' + rune(g))
	}
	return "?"
}

// Pin identifies one physical pin by controller and line. Comparable;
// used directly as the assignment map key.
type Pin struct {
	Group Group
	Index uint8
}

func (p Pin) String() string { return "p" + p.Group.String() + itoa(p.Index) }

func (p Pin) mask() uint32 { return 1 << uint(p.Index) }

// Per-group constructors, matching the datasheet naming (PA0..PF6).
func PA(n uint8) Pin { return Pin{GroupA, n} }
func PB(n uint8) Pin { return Pin{GroupB, n} }
func PC(n uint8) Pin { return Pin{GroupC, n} }
func PD(n uint8) Pin { return Pin{GroupD, n} }
func PE(n uint8) Pin { return Pin{GroupE, n} }
func PF(n uint8) Pin { return Pin{GroupF, n} }

// ParsePin reads datasheet pin names of the form "pa8" or "PB12".
func ParsePin(s string) (Pin, bool) {
	if len(s) < 3 || len(s) > 4 || (s[0] != 'p' && s[0] != 'P') {
		return Pin{}, false
	}
	g := s[1] | 0x20
	if g < 'a' || g > 'f' {
		return Pin{}, false
	}
	var n uint8
	for _, c := range []byte(s[2:]) {
		if c < '0' || c > '9' {
			return Pin{}, false
		}
		n = n*10 + (c - '0')
	}
	if n > 31 {
		return Pin{}, false
	}
	return Pin{Group(g - 'a'), n}, true
}

// Func is what a pin is claimed to do: plain GPIO in one of the line
// disciplines, or one of the two attached peripheral functions.
type Func uint8

const (
	FuncInput Func = iota
	FuncInputPullUp
	FuncOutput
	FuncOutputOpenDrain
	FuncPeriphA
	FuncPeriphB
)

func (f Func) String() string {
	switch f {
	case FuncInput:
		return "input"
	case FuncInputPullUp:
		return "input_pullup"
	case FuncOutput:
		return "output"
	case FuncOutputOpenDrain:
		return "output_opendrain"
	case FuncPeriphA:
		return "periph_a"
	case FuncPeriphB:
		return "periph_b"
	}
	return "func?"
}

// isGPIO reports whether the function leaves the pin under PIO control.
func (f Func) isGPIO() bool { return f <= FuncOutputOpenDrain }

// itoa renders a pin index without pulling in strconv on MCU builds.
func itoa(n uint8) string {
	if n >= 10 {
		return string([]byte{'0' + n/10, '0' + n%10})
	}
	return string([]byte{'0' + n})
}
