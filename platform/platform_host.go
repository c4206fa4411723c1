//go:build !baremetal

package platform

import (
	"github.com/compenguy/atsam3xa/matrix"
	"github.com/compenguy/atsam3xa/sim"
)

// Sim is the host-side stand-in for a SAM3X: emulated register files
// plus handles to the emulations so tests and the shell can inject
// input and inspect state.
type Sim struct {
	PMC  *sim.PMC
	PIO  [6]*sim.PIO
	UART *sim.UART
	TWI0 *sim.TWI
	TWI1 *sim.TWI

	Blocks Blocks
}

// NewSim builds a fully emulated machine. twiAddr is the slave address
// answered on both TWI buses.
func NewSim(twiAddr uint16) *Sim {
	s := &Sim{
		PMC:  sim.NewPMC(),
		UART: sim.NewUART(),
		TWI0: sim.NewTWI(twiAddr),
		TWI1: sim.NewTWI(twiAddr),
	}
	s.Blocks = Blocks{
		PMC:    s.PMC.Block(),
		SUPC:   s.PMC.Supc(),
		Matrix: &matrix.Block{SYSIO: new(sim.Reg)},
		UART:   s.UART.Block(),
		TWI0:   s.TWI0.Block(),
		TWI1:   s.TWI1.Block(),
	}
	for i := range s.PIO {
		s.PIO[i] = sim.NewPIO()
		s.Blocks.PIO[i] = s.PIO[i].Block()
	}
	return s
}

// SAM3X matches the baremetal constructor so callers build the same way
// on either side of the tag.
func SAM3X() *Blocks {
	return &NewSim(0).Blocks
}
