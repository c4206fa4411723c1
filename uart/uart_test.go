package uart_test

import (
	"errors"
	"testing"

	"github.com/compenguy/atsam3xa/chip"
	"github.com/compenguy/atsam3xa/errcode"
	"github.com/compenguy/atsam3xa/pio"
	"github.com/compenguy/atsam3xa/pmc"
	"github.com/compenguy/atsam3xa/sim"
	"github.com/compenguy/atsam3xa/uart"
)

type fixedClock uint32

func (c fixedClock) PeripheralHz() uint32 { return uint32(c) }

type machine struct {
	pmc  *sim.PMC
	u    *sim.UART
	gate *pmc.Gate
	pins *pio.Registry
}

func newMachine(t *testing.T) *machine {
	t.Helper()
	m := &machine{pmc: sim.NewPMC(), u: sim.NewUART()}
	m.gate = pmc.NewGate(m.pmc.Block(), &chip.SAM3X8E)
	var groups [6]*pio.Block
	for i := range groups {
		groups[i] = sim.NewPIO().Block()
	}
	m.pins = pio.NewRegistry(&chip.SAM3X8E, groups)
	return m
}

func TestNewBringsUpPort(t *testing.T) {
	m := newMachine(t)
	u, err := uart.New(m.u.Block(), m.gate, m.pins, fixedClock(84_000_000), uart.Config{
		Baud: 115200, Parity: uart.ParityNone,
	})
	if err != nil {
		t.Fatalf("new: %+v", err)
	}
	if !m.gate.Enabled(chip.UART) {
		t.Fatal("uart gate not enabled")
	}
	for _, pin := range []pio.Pin{uart.PinRX, uart.PinTX} {
		owner, fn, held := m.pins.Assignment(pin)
		if !held || owner != chip.UART || fn != pio.FuncPeriphA {
			t.Fatalf("%s: assignment = %v/%v/%v", pin, owner, fn, held)
		}
	}
	// 84 MHz / (16 * 115200) rounds to 46, which reads back as 114130.
	if got := u.Baud(); got != 114130 {
		t.Fatalf("baud = %d, want 114130", got)
	}
}

func TestSetBaudRange(t *testing.T) {
	m := newMachine(t)
	u, err := uart.New(m.u.Block(), m.gate, m.pins, fixedClock(84_000_000), uart.Config{Baud: 9600})
	if err != nil {
		t.Fatalf("new: %+v", err)
	}
	if err := u.SetBaud(0); !errors.Is(err, errcode.OutOfRange) {
		t.Fatalf("baud 0: err = %v, want out_of_range", err)
	}
	// A divisor above the requested rate makes CD round to zero.
	if err := u.SetBaud(84_000_000); !errors.Is(err, errcode.OutOfRange) {
		t.Fatalf("absurd baud: err = %v, want out_of_range", err)
	}
}

func TestWriteAndFlush(t *testing.T) {
	m := newMachine(t)
	u, err := uart.New(m.u.Block(), m.gate, m.pins, fixedClock(84_000_000), uart.Config{Baud: 115200})
	if err != nil {
		t.Fatalf("new: %+v", err)
	}
	n, err := u.Write([]byte("ping"))
	if err != nil || n != 4 {
		t.Fatalf("write = %d,%v", n, err)
	}
	u.Flush()
	if string(m.u.Sent) != "ping" {
		t.Fatalf("wire = %q, want %q", m.u.Sent, "ping")
	}
}

func TestTryRead(t *testing.T) {
	m := newMachine(t)
	u, err := uart.New(m.u.Block(), m.gate, m.pins, fixedClock(84_000_000), uart.Config{Baud: 115200})
	if err != nil {
		t.Fatalf("new: %+v", err)
	}
	if _, ok := u.TryRead(); ok {
		t.Fatal("read from an idle line")
	}
	m.u.Feed([]byte{0x42})
	if u.Buffered() != 1 {
		t.Fatal("pending byte not reported")
	}
	b, ok := u.TryRead()
	if !ok || b != 0x42 {
		t.Fatalf("read = %#x,%v, want 0x42", b, ok)
	}
	if _, ok := u.TryRead(); ok {
		t.Fatal("read past the fed data")
	}
}
