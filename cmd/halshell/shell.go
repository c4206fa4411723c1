//go:build !baremetal

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/compenguy/atsam3xa/chip"
	"github.com/compenguy/atsam3xa/matrix"
	"github.com/compenguy/atsam3xa/pio"
	"github.com/compenguy/atsam3xa/platform"
	"github.com/compenguy/atsam3xa/pmc"
	"github.com/compenguy/atsam3xa/twi"
	"github.com/compenguy/atsam3xa/uart"
)

const applyTimeout = time.Second

// shell wraps an emulated SAM3X with a command interpreter. It is kept
// separate from the terminal loop so the commands are testable.
type shell struct {
	sim     *platform.Sim
	variant *chip.Variant

	seq  *pmc.Sequencer
	gate *pmc.Gate
	pins *pio.Registry
	ic   *matrix.Interconnect
	u    *uart.UART
	bus  *twi.TWI
}

// twiSlave is the address the emulated bus answers on.
const twiSlave = 0x38

func newShell(variant *chip.Variant) (*shell, error) {
	s := &shell{
		sim:     platform.NewSim(twiSlave),
		variant: variant,
	}
	b := &s.sim.Blocks
	s.seq = pmc.NewSequencer(b.PMC, b.SUPC, variant)
	s.gate = pmc.NewGate(b.PMC, variant)
	s.pins = pio.NewRegistry(variant, b.PIO)
	s.ic = matrix.NewInterconnect(b.Matrix)

	u, err := uart.New(b.UART, s.gate, s.pins, s.seq, uart.Config{Baud: 115200})
	if err != nil {
		return nil, err
	}
	s.u = u

	bus, err := twi.New(b.TWI0, twi.TWI0, s.gate, s.pins, s.seq, twi.Config{Hz: 400_000})
	if err != nil {
		return nil, err
	}
	s.bus = bus
	return s, nil
}

// exec runs one command line and returns its output.
func (s *shell) exec(line string) (string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", nil
	}
	switch args[0] {
	case "help":
		return helpText, nil
	case "state":
		return s.cmdState(), nil
	case "freq":
		return s.cmdFreq()
	case "clock":
		return s.cmdClock(args[1:])
	case "gate":
		return s.cmdGate(args[1:])
	case "pin":
		return s.cmdPin(args[1:])
	case "uart":
		return s.cmdUART(args[1:])
	case "twi":
		return s.cmdTWI(args[1:])
	case "sysio":
		return s.cmdSysIO(args[1:])
	}
	return "", fmt.Errorf("unknown command %q, try help", args[0])
}

const helpText = `state                         sequencer state and active source
freq                          clock tree frequencies
clock rc [4|8|12]             run from the fast RC oscillator
clock xtal <hz>               run from the main crystal
clock plla [<mhz>]            run from PLLA (default 84, 12 MHz RC ref)
gate enable|disable <name>    peripheral clock gating
gate status <name>
pin claim <pin> <func>        claim as gpio (func: input|pullup|output|opendrain)
pin release <pin>
pin set|clear|get <pin>       drive or read a claimed gpio
pin show <pin>
uart write <text>             transmit on the uart
uart baud [<rate>]
twi write <hex bytes>         master write to the attached slave
twi read <n>
sysio [on|off]                hand pc0 to the erase function or the pio`

func (s *shell) cmdState() string {
	a := s.seq.Active().Config()
	return fmt.Sprintf("%s source=%s", s.seq.State(), a.Source)
}

func (s *shell) cmdFreq() (string, error) {
	measured, err := s.seq.MeasuredMainHz(applyTimeout)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("master=%d peripheral=%d slow=%d measured_main=%d",
		s.seq.MasterHz(), s.seq.PeripheralHz(), s.seq.SlowHz(), measured), nil
}

func (s *shell) apply(cfg pmc.Config) (string, error) {
	v, err := pmc.Validate(s.variant, cfg)
	if err != nil {
		return "", err
	}
	if err := s.seq.Apply(v, applyTimeout); err != nil {
		return "", err
	}
	return fmt.Sprintf("stable at %d Hz", s.seq.MasterHz()), nil
}

func (s *shell) cmdClock(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("clock: need rc, xtal or plla")
	}
	switch args[0] {
	case "rc":
		rc := pmc.RC4MHz
		if len(args) > 1 {
			switch args[1] {
			case "4":
				rc = pmc.RC4MHz
			case "8":
				rc = pmc.RC8MHz
			case "12":
				rc = pmc.RC12MHz
			default:
				return "", fmt.Errorf("clock rc: trim must be 4, 8 or 12")
			}
		}
		return s.apply(pmc.Config{Source: pmc.SourceFastRC, RC: rc, Prescaler: pmc.Pres1})
	case "xtal":
		if len(args) < 2 {
			return "", fmt.Errorf("clock xtal: need frequency in Hz")
		}
		hz, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return "", err
		}
		return s.apply(pmc.Config{Source: pmc.SourceXtal, XtalHz: uint32(hz), Prescaler: pmc.Pres1})
	case "plla":
		// 12 MHz RC reference times 14, halved on the way out.
		mul := uint16(14)
		if len(args) > 1 {
			mhz, err := strconv.ParseUint(args[1], 10, 16)
			if err != nil {
				return "", err
			}
			mul = uint16(mhz) / 6
		}
		return s.apply(pmc.Config{
			Source:    pmc.SourcePLLA,
			PLLRef:    pmc.SourceFastRC,
			RC:        pmc.RC12MHz,
			PLL:       pmc.PLLConfig{Mul: mul, Div: 1, Div2: true, SettleTicks: 16},
			Prescaler: pmc.Pres1,
		})
	}
	return "", fmt.Errorf("clock: unknown source %q", args[0])
}

func (s *shell) pid(name string) (chip.PeripheralID, error) {
	if id, ok := chip.LookupPeripheral(strings.ToLower(name)); ok {
		return id, nil
	}
	return 0, fmt.Errorf("unknown peripheral %q", name)
}

func (s *shell) cmdGate(args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("gate: need enable|disable|status <name>")
	}
	id, err := s.pid(args[1])
	if err != nil {
		return "", err
	}
	switch args[0] {
	case "enable":
		return "ok", s.gate.Enable(id)
	case "disable":
		return "ok", s.gate.Disable(id)
	case "status":
		if s.gate.Enabled(id) {
			return "enabled", nil
		}
		return "disabled", nil
	}
	return "", fmt.Errorf("gate: unknown action %q", args[0])
}

// Shell-held pins are owned by the pin's own PIO controller.
func gpioOwner(p pio.Pin) chip.PeripheralID {
	return chip.PIOA + chip.PeripheralID(p.Group)
}

func (s *shell) cmdPin(args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("pin: need an action and a pin")
	}
	p, ok := pio.ParsePin(args[1])
	if !ok {
		return "", fmt.Errorf("bad pin %q", args[1])
	}
	owner := gpioOwner(p)

	switch args[0] {
	case "claim":
		fn := pio.FuncInput
		if len(args) > 2 {
			switch args[2] {
			case "input":
				fn = pio.FuncInput
			case "pullup":
				fn = pio.FuncInputPullUp
			case "output":
				fn = pio.FuncOutput
			case "opendrain":
				fn = pio.FuncOutputOpenDrain
			default:
				return "", fmt.Errorf("bad function %q", args[2])
			}
		}
		return "ok", s.pins.Claim(p, fn, owner)
	case "release":
		return "ok", s.pins.Release(p, owner)
	case "set", "clear", "get":
		g, err := s.pins.GPIO(p, owner)
		if err != nil {
			return "", err
		}
		switch args[0] {
		case "set":
			g.Set()
			return "ok", nil
		case "clear":
			g.Clear()
			return "ok", nil
		default:
			if g.Get() {
				return "1", nil
			}
			return "0", nil
		}
	case "show":
		id, fn, held := s.pins.Assignment(p)
		if !held {
			return fmt.Sprintf("%s unclaimed", p), nil
		}
		return fmt.Sprintf("%s %s owner=%s", p, fn, id), nil
	}
	return "", fmt.Errorf("pin: unknown action %q", args[0])
}

func (s *shell) cmdUART(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("uart: need write or baud")
	}
	switch args[0] {
	case "write":
		msg := strings.Join(args[1:], " ")
		if _, err := s.u.Write([]byte(msg)); err != nil {
			return "", err
		}
		s.u.Flush()
		return fmt.Sprintf("sent %d bytes, wire: %x", len(msg), s.sim.UART.Sent), nil
	case "baud":
		if len(args) > 1 {
			rate, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return "", err
			}
			if err := s.u.SetBaud(uint32(rate)); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("baud=%d", s.u.Baud()), nil
	}
	return "", fmt.Errorf("uart: unknown action %q", args[0])
}

func (s *shell) cmdTWI(args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("twi: need write <hex> or read <n>")
	}
	switch args[0] {
	case "write":
		payload, err := hex.DecodeString(strings.Join(args[1:], ""))
		if err != nil {
			return "", err
		}
		if err := s.bus.Tx(twiSlave, payload, nil); err != nil {
			return "", err
		}
		return fmt.Sprintf("wrote %d bytes", len(payload)), nil
	case "read":
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return "", fmt.Errorf("twi read: bad count %q", args[1])
		}
		buf := make([]byte, n)
		if err := s.bus.Tx(twiSlave, nil, buf); err != nil {
			return "", err
		}
		return hex.EncodeToString(buf), nil
	}
	return "", fmt.Errorf("twi: unknown action %q", args[0])
}

func (s *shell) cmdSysIO(args []string) (string, error) {
	if len(args) > 0 {
		switch args[0] {
		case "on":
			s.ic.EnableSysIO()
		case "off":
			s.ic.DisableSysIO()
		default:
			return "", fmt.Errorf("sysio: want on or off, not %q", args[0])
		}
	}
	if s.ic.SysIOEnabled() {
		return "erase", nil
	}
	return "pio", nil
}
