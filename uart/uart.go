// Package uart drives the simple two-wire UART (PID 8, PA8/PA9 on
// peripheral A). It is the reference consumer of the clock core: it
// enables its gate, claims its pins, and derives its baud divisor from
// the live peripheral bus frequency.
package uart

import (
	"github.com/compenguy/atsam3xa/chip"
	"github.com/compenguy/atsam3xa/errcode"
	"github.com/compenguy/atsam3xa/pio"
	"github.com/compenguy/atsam3xa/pmc"
	"github.com/compenguy/atsam3xa/regs"
	"github.com/compenguy/atsam3xa/x/mathx"
)

// Block is the UART register file.
type Block struct {
	CR   regs.Register // control
	MR   regs.Register // mode
	SR   regs.Register // status
	RHR  regs.Register // receive holding
	THR  regs.Register // transmit holding
	BRGR regs.Register // baud rate generator
}

// UART_CR bits.
const (
	crRSTRX  = 1 << 2
	crRSTTX  = 1 << 3
	crRXEN   = 1 << 4
	crTXEN   = 1 << 6
	crRSTSTA = 1 << 8
)

// UART_MR fields.
const (
	mrPARMask uint32 = 0x7
	mrPARPos  uint8  = 9

	mrCHMODEMask uint32 = 0x3
	mrCHMODEPos  uint8  = 14
)

// UART_SR flags.
const (
	srRXRDY   = 1 << 0
	srTXRDY   = 1 << 1
	srTXEMPTY = 1 << 9
)

const brgrCDMask uint32 = 0xffff

// Parity is the line parity strategy (UART_MR.PAR encoding).
type Parity uint8

const (
	ParityEven  Parity = 0
	ParityOdd   Parity = 1
	ParitySpace Parity = 2
	ParityMark  Parity = 3
	ParityNone  Parity = 4
)

// ChannelMode selects normal operation or one of the loopback modes
// (UART_MR.CHMODE encoding). Loopback is handy for self test.
type ChannelMode uint8

const (
	ModeNormal         ChannelMode = 0
	ModeAutoEcho       ChannelMode = 1
	ModeLocalLoopback  ChannelMode = 2
	ModeRemoteLoopback ChannelMode = 3
)

// Clock supplies the live bus frequency the baud divisor derives from.
// *pmc.Sequencer satisfies it.
type Clock interface {
	PeripheralHz() uint32
}

// Config for New.
type Config struct {
	Baud   uint32
	Parity Parity
	Mode   ChannelMode
}

// UART is a configured port. Not internally locked; one execution
// context per direction.
type UART struct {
	b   *Block
	clk Clock
}

// Pins used by the UART, fixed by the silicon.
var (
	PinRX = pio.PA(8)
	PinTX = pio.PA(9)
)

// New gates the peripheral clock on, claims the RX/TX pins and brings
// the port up with the requested framing. The gate and pin claims are
// the first register-touching steps, in that order.
func New(b *Block, gate *pmc.Gate, pins *pio.Registry, clk Clock, cfg Config) (*UART, error) {
	if err := gate.Enable(chip.UART); err != nil {
		return nil, err
	}
	if err := pins.Claim(PinRX, pio.FuncPeriphA, chip.UART); err != nil {
		return nil, err
	}
	if err := pins.Claim(PinTX, pio.FuncPeriphA, chip.UART); err != nil {
		return nil, err
	}

	u := &UART{b: b, clk: clk}
	b.CR.Set(crRSTRX | crRSTTX | crRSTSTA)
	if err := u.SetBaud(cfg.Baud); err != nil {
		return nil, err
	}
	b.MR.Set(uint32(cfg.Parity)<<mrPARPos | uint32(cfg.Mode)<<mrCHMODEPos)
	b.CR.Set(crRXEN | crTXEN)
	return u, nil
}

// SetBaud programs the divisor for the requested rate against the
// current bus frequency: CD = busHz / (16 * baud).
func (u *UART) SetBaud(baud uint32) error {
	if baud == 0 {
		return &errcode.E{C: errcode.OutOfRange, Op: "uart.baud", Msg: "baud"}
	}
	cd := mathx.RoundDiv(u.clk.PeripheralHz(), baud<<4)
	if !mathx.Between(cd, 1, brgrCDMask) {
		return &errcode.E{C: errcode.OutOfRange, Op: "uart.baud", Msg: "divisor"}
	}
	u.b.BRGR.Set(cd)
	return nil
}

// Baud returns the effective rate implied by the programmed divisor.
func (u *UART) Baud() uint32 {
	cd := u.b.BRGR.Get() & brgrCDMask
	if cd == 0 {
		return 0
	}
	return u.clk.PeripheralHz() / (cd << 4)
}

// WriteByte blocks until the transmit holding register is free, then
// queues b.
func (u *UART) WriteByte(c byte) error {
	for !u.b.SR.HasBits(srTXRDY) {
	}
	u.b.THR.Set(uint32(c))
	return nil
}

// Write implements io.Writer.
func (u *UART) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := u.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Flush blocks until the transmitter has drained.
func (u *UART) Flush() {
	for !u.b.SR.HasBits(srTXEMPTY) {
	}
}

// Buffered reports whether a received byte is waiting.
func (u *UART) Buffered() int {
	if u.b.SR.HasBits(srRXRDY) {
		return 1
	}
	return 0
}

// TryRead returns the next received byte if one is ready. It never
// blocks; poll Buffered or call again.
func (u *UART) TryRead() (byte, bool) {
	if !u.b.SR.HasBits(srRXRDY) {
		return 0, false
	}
	return byte(u.b.RHR.Get()), true
}
