// Package platform binds the register-file types to a concrete machine:
// real SAM3X peripherals under the baremetal build tag, the in-memory
// emulation everywhere else. Code above this package never sees the
// difference.
package platform

import (
	"github.com/compenguy/atsam3xa/matrix"
	"github.com/compenguy/atsam3xa/pio"
	"github.com/compenguy/atsam3xa/pmc"
	"github.com/compenguy/atsam3xa/twi"
	"github.com/compenguy/atsam3xa/uart"
)

// Blocks is the full set of register files the HAL drives. PIO entries
// are indexed by pio.Group; entries past the package's last controller
// are nil and the pin registry rejects their pins.
type Blocks struct {
	PMC    *pmc.Block
	SUPC   *pmc.SUPC
	PIO    [6]*pio.Block
	Matrix *matrix.Block
	UART   *uart.Block
	TWI0   *twi.Block
	TWI1   *twi.Block
}
