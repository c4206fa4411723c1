package sim

import "github.com/compenguy/atsam3xa/uart"

const (
	uartRXRDY   = 1 << 0
	uartTXRDY   = 1 << 1
	uartTXEMPTY = 1 << 9
)

// UART emulates the UART register file. The transmitter is always ready
// and drains to Sent; Feed queues receive bytes.
type UART struct {
	CR, MR, SR, RHR, THR, BRGR Reg

	// Sent collects every byte written to the transmit holding register.
	Sent []byte

	rx []byte
}

// NewUART returns an emulated UART.
func NewUART() *UART {
	u := &UART{}
	u.THR.OnWrite = func(v uint32) { u.Sent = append(u.Sent, byte(v)) }
	u.SR.OnRead = func(v uint32) uint32 {
		sr := uint32(uartTXRDY | uartTXEMPTY)
		if len(u.rx) > 0 {
			sr |= uartRXRDY
		}
		return sr
	}
	u.RHR.OnRead = func(v uint32) uint32 {
		if len(u.rx) == 0 {
			return 0
		}
		b := u.rx[0]
		u.rx = u.rx[1:]
		return uint32(b)
	}
	return u
}

// Feed queues bytes on the receive side.
func (u *UART) Feed(b []byte) { u.rx = append(u.rx, b...) }

// Block assembles the driver-facing register file.
func (u *UART) Block() *uart.Block {
	return &uart.Block{
		CR: &u.CR, MR: &u.MR, SR: &u.SR,
		RHR: &u.RHR, THR: &u.THR, BRGR: &u.BRGR,
	}
}
