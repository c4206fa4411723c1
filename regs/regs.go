// Package regs defines the register access surface the HAL core is
// written against. The volatile, address-based nature of real hardware
// registers is confined to implementations of Register; everything above
// this interface is plain computation.
package regs

// Register is a single 32-bit hardware register. The method set matches
// TinyGo's volatile.Register32 so the bare-metal platform layer can
// satisfy it with a thin wrapper.
type Register interface {
	Get() uint32
	Set(v uint32)
	SetBits(mask uint32)
	ClearBits(mask uint32)
	HasBits(mask uint32) bool
	// ReplaceBits writes val into the field selected by mask<<pos,
	// leaving all other bits untouched.
	ReplaceBits(val, mask uint32, pos uint8)
}

// Field extracts the field mask<<pos from v.
func Field(v, mask uint32, pos uint8) uint32 {
	return (v >> pos) & mask
}
