// Package chip is the static catalog of SAM3X/A target variants: which
// peripherals and PIO pins each package exposes, and the documented
// frequency limits the clock model validates against.
package chip

// PeripheralID identifies a peripheral instance. The numeric value is the
// PID used for clock gating (PCER/PCDR/PCSR) and interrupt control.
type PeripheralID uint8

const (
	SUPC   PeripheralID = 0
	RSTC   PeripheralID = 1
	RTC    PeripheralID = 2
	RTT    PeripheralID = 3
	WDT    PeripheralID = 4
	PMC    PeripheralID = 5
	EFC0   PeripheralID = 6
	EFC1   PeripheralID = 7
	UART   PeripheralID = 8
	SMC    PeripheralID = 9
	SDRAMC PeripheralID = 10
	PIOA   PeripheralID = 11
	PIOB   PeripheralID = 12
	PIOC   PeripheralID = 13
	PIOD   PeripheralID = 14
	PIOE   PeripheralID = 15
	PIOF   PeripheralID = 16
	USART0 PeripheralID = 17
	USART1 PeripheralID = 18
	USART2 PeripheralID = 19
	USART3 PeripheralID = 20
	HSMCI  PeripheralID = 21
	TWI0   PeripheralID = 22
	TWI1   PeripheralID = 23
	SPI0   PeripheralID = 24
	SPI1   PeripheralID = 25
	SSC    PeripheralID = 26
	TC0    PeripheralID = 27
	TC1    PeripheralID = 28
	TC2    PeripheralID = 29
	TC3    PeripheralID = 30
	TC4    PeripheralID = 31
	TC5    PeripheralID = 32
	TC6    PeripheralID = 33
	TC7    PeripheralID = 34
	TC8    PeripheralID = 35
	PWM    PeripheralID = 36
	ADC    PeripheralID = 37
	DACC   PeripheralID = 38
	DMAC   PeripheralID = 39
	UOTGHS PeripheralID = 40
	TRNG   PeripheralID = 41
	EMAC   PeripheralID = 42
	CAN0   PeripheralID = 43
	CAN1   PeripheralID = 44
)

// NumPeripheralIDs is one past the highest PID on any family member.
const NumPeripheralIDs = 45

var pidNames = map[PeripheralID]string{
	SUPC: "supc", RSTC: "rstc", RTC: "rtc", RTT: "rtt", WDT: "wdt",
	PMC: "pmc", EFC0: "efc0", EFC1: "efc1", UART: "uart", SMC: "smc",
	SDRAMC: "sdramc", PIOA: "pioa", PIOB: "piob", PIOC: "pioc",
	PIOD: "piod", PIOE: "pioe", PIOF: "piof", USART0: "usart0",
	USART1: "usart1", USART2: "usart2", USART3: "usart3", HSMCI: "hsmci",
	TWI0: "twi0", TWI1: "twi1", SPI0: "spi0", SPI1: "spi1", SSC: "ssc",
	TC0: "tc0", TC1: "tc1", TC2: "tc2", TC3: "tc3", TC4: "tc4",
	TC5: "tc5", TC6: "tc6", TC7: "tc7", TC8: "tc8", PWM: "pwm",
	ADC: "adc", DACC: "dacc", DMAC: "dmac", UOTGHS: "uotghs",
	TRNG: "trng", EMAC: "emac", CAN0: "can0", CAN1: "can1",
}

func (id PeripheralID) String() string {
	if n, ok := pidNames[id]; ok {
		return n
	}
	return "pid?"
}

// LookupPeripheral resolves a lower-case peripheral name, for tools.
func LookupPeripheral(name string) (PeripheralID, bool) {
	for id, n := range pidNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// AlwaysClocked reports whether the peripheral's clock is not under PMC
// control (system blocks, PIDs 0..7). Gating these is a silent no-op.
func (id PeripheralID) AlwaysClocked() bool { return id <= EFC1 }

// Variant describes one family member: the frequency ceilings its
// datasheet documents and the peripherals and pins its package exposes.
// Variants are immutable; treat the predefined values as read-only.
type Variant struct {
	Name string

	// Clock limits.
	MaxCoreHz   uint32 // master clock ceiling
	MaxPeriphHz uint32 // peripheral bus ceiling (MCK-driven on this family)
	XtalMinHz   uint32 // main crystal range
	XtalMaxHz   uint32

	// PLLA constraints. Output is mainck*mul/div, optionally halved.
	PLLAOutMinHz uint32
	PLLAOutMaxHz uint32
	PLLAMulMax   uint16 // effective multiplier ceiling (MULA+1)
	PLLADivMax   uint8

	// UPLL (PLL B): fixed multiplier from a mandatory reference.
	HasUPLL   bool
	UPLLMul   uint16
	UPLLRefHz uint32

	// GroupPins[g] is the implemented-pin mask for PIO group g (A=0..F=5).
	// A zero mask means the controller is absent from the package.
	GroupPins [6]uint32

	periphs uint64 // bitmask of available PIDs
}

// HasPeripheral reports whether the variant exposes the peripheral.
func (v *Variant) HasPeripheral(id PeripheralID) bool {
	if id >= NumPeripheralIDs {
		return false
	}
	return v.periphs&(1<<uint(id)) != 0
}

func pidMask(ids ...PeripheralID) uint64 {
	var m uint64
	for _, id := range ids {
		m |= 1 << uint(id)
	}
	return m
}

// Peripherals common to every family member.
var commonPIDs = pidMask(
	SUPC, RSTC, RTC, RTT, WDT, PMC, EFC0, EFC1, UART, SMC,
	PIOA, PIOB, USART0, USART1, USART2, HSMCI, TWI0, TWI1, SPI0, SSC,
	TC0, TC1, TC2, TC3, TC4, TC5, PWM, ADC, DACC, DMAC, UOTGHS, TRNG,
	CAN0, CAN1,
)

const (
	pins31 = 0xffffffff // p0..p31
	pins30 = 0x7fffffff // p0..p30
	pins10 = 0x000007ff // p0..p10
	pins6  = 0x0000007f // p0..p6
)

// SAM3X8E is the 144-pin part used on the Arduino Due: PIOA-PIOD,
// Ethernet MAC, USART3 on peripheral B.
var SAM3X8E = Variant{
	Name:         "sam3x8e",
	MaxCoreHz:    84_000_000,
	MaxPeriphHz:  84_000_000,
	XtalMinHz:    3_000_000,
	XtalMaxHz:    20_000_000,
	PLLAOutMinHz: 84_000_000,
	PLLAOutMaxHz: 192_000_000,
	PLLAMulMax:   2048,
	PLLADivMax:   255,
	HasUPLL:      true,
	UPLLMul:      40,
	UPLLRefHz:    12_000_000,
	GroupPins:    [6]uint32{pins31, pins31, pins30, pins10, 0, 0},
	periphs:      commonPIDs | pidMask(PIOC, PIOD, USART3, TC6, TC7, TC8, EMAC),
}

// SAM3X8H is the 217-pin part: PIOA-PIOF, SDRAM controller, second SPI.
var SAM3X8H = Variant{
	Name:         "sam3x8h",
	MaxCoreHz:    84_000_000,
	MaxPeriphHz:  84_000_000,
	XtalMinHz:    3_000_000,
	XtalMaxHz:    20_000_000,
	PLLAOutMinHz: 84_000_000,
	PLLAOutMaxHz: 192_000_000,
	PLLAMulMax:   2048,
	PLLADivMax:   255,
	HasUPLL:      true,
	UPLLMul:      40,
	UPLLRefHz:    12_000_000,
	GroupPins:    [6]uint32{pins31, pins31, pins30, pins30, pins31, pins6},
	periphs: commonPIDs | pidMask(SDRAMC, PIOC, PIOD, PIOE, PIOF,
		USART3, SPI1, TC6, TC7, TC8, EMAC),
}

// SAM3A4C is the 100-pin part: PIOA-PIOB only, no Ethernet.
var SAM3A4C = Variant{
	Name:         "sam3a4c",
	MaxCoreHz:    84_000_000,
	MaxPeriphHz:  84_000_000,
	XtalMinHz:    3_000_000,
	XtalMaxHz:    20_000_000,
	PLLAOutMinHz: 84_000_000,
	PLLAOutMaxHz: 192_000_000,
	PLLAMulMax:   2048,
	PLLADivMax:   255,
	HasUPLL:      true,
	UPLLMul:      40,
	UPLLRefHz:    12_000_000,
	GroupPins:    [6]uint32{pins31, pins31, 0, 0, 0, 0},
	periphs:      commonPIDs,
}

// ByName resolves a variant from its lower-case name, for tools.
func ByName(name string) (*Variant, bool) {
	switch name {
	case SAM3X8E.Name:
		return &SAM3X8E, true
	case SAM3X8H.Name:
		return &SAM3X8H, true
	case SAM3A4C.Name:
		return &SAM3A4C, true
	}
	return nil, false
}
