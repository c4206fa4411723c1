// Package twi drives the two-wire interface (I²C) controllers in master
// mode. It satisfies the tinygo.org/x/drivers I2C contract so existing
// sensor drivers can run over it unchanged.
package twi

import (
	"github.com/compenguy/atsam3xa/chip"
	"github.com/compenguy/atsam3xa/errcode"
	"github.com/compenguy/atsam3xa/pio"
	"github.com/compenguy/atsam3xa/pmc"
	"github.com/compenguy/atsam3xa/regs"
	"github.com/compenguy/atsam3xa/x/mathx"

	"tinygo.org/x/drivers"
)

// Block is the TWI register file.
type Block struct {
	CR   regs.Register // control
	MMR  regs.Register // master mode
	CWGR regs.Register // clock waveform generator
	SR   regs.Register // status
	RHR  regs.Register // receive holding
	THR  regs.Register // transmit holding
}

// TWI_CR bits.
const (
	crSTART = 1 << 0
	crSTOP  = 1 << 1
	crMSEN  = 1 << 2
	crMSDIS = 1 << 3
	crSWRST = 1 << 7
)

// TWI_MMR fields.
const (
	mmrMREAD = 1 << 12

	mmrDADRMask uint32 = 0x7f
	mmrDADRPos  uint8  = 16
)

// TWI_CWGR fields.
const (
	cwgrCLDIVPos uint8 = 0
	cwgrCHDIVPos uint8 = 8
	cwgrCKDIVPos uint8 = 16
)

// TWI_SR flags.
const (
	srTXCOMP = 1 << 0
	srRXRDY  = 1 << 1
	srTXRDY  = 1 << 2
	srNACK   = 1 << 8
)

// Instance names one TWI controller: its gate PID and the pins carrying
// data and clock (both on peripheral A).
type Instance struct {
	ID  chip.PeripheralID
	SDA pio.Pin
	SCL pio.Pin
}

var (
	TWI0 = Instance{ID: chip.TWI0, SDA: pio.PA(17), SCL: pio.PA(18)}
	TWI1 = Instance{ID: chip.TWI1, SDA: pio.PB(12), SCL: pio.PB(13)}
)

// Clock supplies the live bus frequency. *pmc.Sequencer satisfies it.
type Clock interface {
	PeripheralHz() uint32
}

// Config for New.
type Config struct {
	// Hz is the bus speed, typically 100_000 or 400_000. Zero selects
	// standard mode.
	Hz uint32
}

// TWI is a configured controller in master mode.
type TWI struct {
	b    *Block
	inst Instance
}

// Compile-time conformance with the tinygo driver contract.
var _ drivers.I2C = (*TWI)(nil)

// Spin budget for status polls; TWI has no dedicated timeout counter, so
// bound the busy loops by iteration.
const pollBudget = 1 << 24

// New gates the controller's clock on, claims its pins, and programs the
// clock waveform from the live bus frequency.
func New(b *Block, inst Instance, gate *pmc.Gate, pins *pio.Registry, clk Clock, cfg Config) (*TWI, error) {
	if err := gate.Enable(inst.ID); err != nil {
		return nil, err
	}
	if err := pins.Claim(inst.SDA, pio.FuncPeriphA, inst.ID); err != nil {
		return nil, err
	}
	if err := pins.Claim(inst.SCL, pio.FuncPeriphA, inst.ID); err != nil {
		return nil, err
	}

	hz := cfg.Hz
	if hz == 0 {
		hz = 100_000
	}
	t := &TWI{b: b, inst: inst}
	b.CR.Set(crSWRST)
	b.CR.Set(crMSDIS)
	if err := t.setSpeed(clk.PeripheralHz(), hz); err != nil {
		return nil, err
	}
	b.CR.Set(crMSEN)
	return t, nil
}

// setSpeed programs CWGR so both clock half-periods hit the requested
// rate: halfPeriod = ((div << ckdiv) + 4) / busHz.
func (t *TWI) setSpeed(busHz, hz uint32) error {
	div := mathx.CeilDiv(busHz, 2*hz)
	if div > 4 {
		div -= 4
	}
	var ckdiv uint32
	for div > 0xff {
		div >>= 1
		ckdiv++
	}
	if ckdiv > 7 {
		return &errcode.E{C: errcode.OutOfRange, Op: "twi.speed", Msg: "hz"}
	}
	t.b.CWGR.Set(div<<cwgrCLDIVPos | div<<cwgrCHDIVPos | ckdiv<<cwgrCKDIVPos)
	return nil
}

// poll waits for any bit in mask, watching for a NACK alongside.
func (t *TWI) poll(mask uint32) error {
	for i := 0; i < pollBudget; i++ {
		sr := t.b.SR.Get()
		if sr&srNACK != 0 {
			return &errcode.E{C: errcode.NACK, Op: "twi.tx", Msg: "nack"}
		}
		if sr&mask != 0 {
			return nil
		}
	}
	return &errcode.E{C: errcode.Timeout, Op: "twi.tx", Msg: "status poll"}
}

// Tx performs a master write of w followed by a master read into r, each
// phase with its own start and stop. Either slice may be empty.
func (t *TWI) Tx(addr uint16, w, r []byte) error {
	if len(w) > 0 {
		t.b.MMR.Set(uint32(addr&uint16(mmrDADRMask)) << mmrDADRPos)
		for _, c := range w {
			t.b.THR.Set(uint32(c))
			if err := t.poll(srTXRDY); err != nil {
				return err
			}
		}
		t.b.CR.Set(crSTOP)
		if err := t.poll(srTXCOMP); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		t.b.MMR.Set(uint32(addr&uint16(mmrDADRMask))<<mmrDADRPos | mmrMREAD)
		if len(r) == 1 {
			// Single byte: start and stop together.
			t.b.CR.Set(crSTART | crSTOP)
		} else {
			t.b.CR.Set(crSTART)
		}
		for i := range r {
			if len(r) > 1 && i == len(r)-1 {
				t.b.CR.Set(crSTOP)
			}
			if err := t.poll(srRXRDY); err != nil {
				return err
			}
			r[i] = byte(t.b.RHR.Get())
		}
		if err := t.poll(srTXCOMP); err != nil {
			return err
		}
	}
	return nil
}
