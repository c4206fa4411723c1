package sim

import "github.com/compenguy/atsam3xa/twi"

const (
	twiSTART = 1 << 0

	twiMREAD   = 1 << 12
	twiDADRPos = 16

	twiTXCOMP = 1 << 0
	twiRXRDY  = 1 << 1
	twiTXRDY  = 1 << 2
	twiNACK   = 1 << 8
)

// TWI emulates a TWI controller with a single slave attached at
// SlaveAddr. Master writes land in Writes; master reads return Reply.
// Any other address answers with NACK, which clears on the status read
// that observes it.
type TWI struct {
	CR, MMR, CWGR, SR, RHR, THR Reg

	SlaveAddr uint16
	Reply     []byte
	Writes    []byte

	addr  uint16
	mread bool
	rx    []byte
	nack  bool
}

// NewTWI returns an emulated controller with a slave at addr.
func NewTWI(addr uint16) *TWI {
	t := &TWI{SlaveAddr: addr}

	t.MMR.OnWrite = func(v uint32) {
		t.addr = uint16(v>>twiDADRPos) & 0x7f
		t.mread = v&twiMREAD != 0
	}
	t.CR.OnWrite = func(v uint32) {
		if v&twiSTART != 0 && t.mread {
			if t.addr != t.SlaveAddr {
				t.nack = true
				return
			}
			t.rx = append(t.rx[:0], t.Reply...)
		}
	}
	t.THR.OnWrite = func(v uint32) {
		if t.addr != t.SlaveAddr {
			t.nack = true
			return
		}
		t.Writes = append(t.Writes, byte(v))
	}
	t.SR.OnRead = func(v uint32) uint32 {
		sr := uint32(twiTXCOMP | twiTXRDY)
		if t.nack {
			t.nack = false
			return sr | twiNACK
		}
		if len(t.rx) > 0 {
			sr |= twiRXRDY
		}
		return sr
	}
	t.RHR.OnRead = func(v uint32) uint32 {
		if len(t.rx) == 0 {
			return 0
		}
		b := t.rx[0]
		t.rx = t.rx[1:]
		return uint32(b)
	}
	return t
}

// Block assembles the driver-facing register file.
func (t *TWI) Block() *twi.Block {
	return &twi.Block{
		CR: &t.CR, MMR: &t.MMR, CWGR: &t.CWGR,
		SR: &t.SR, RHR: &t.RHR, THR: &t.THR,
	}
}
