package pio

// GPIO is a level handle for a claimed GPIO pin. Set and Clear are
// single set/clear register writes, safe from interrupt context.
type GPIO struct {
	b    *Block
	mask uint32
}

// Set drives the line high (for outputs).
func (g *GPIO) Set() { g.b.SODR.Set(g.mask) }

// Clear drives the line low.
func (g *GPIO) Clear() { g.b.CODR.Set(g.mask) }

// Get reads the physical line level. If the controller's clock gate is
// off, this returns the level from when it was last clocked.
func (g *GPIO) Get() bool { return g.b.PDSR.HasBits(g.mask) }

// Toggle inverts the driven level. Not atomic: a read followed by a
// set/clear write.
func (g *GPIO) Toggle() {
	if g.b.ODSR.HasBits(g.mask) {
		g.Clear()
	} else {
		g.Set()
	}
}
