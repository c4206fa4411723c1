package chip

import "testing"

func TestAlwaysClockedBoundary(t *testing.T) {
	for id := SUPC; id <= EFC1; id++ {
		if !id.AlwaysClocked() {
			t.Fatalf("%s should be always clocked", id)
		}
	}
	if UART.AlwaysClocked() {
		t.Fatal("uart is under pmc control")
	}
}

func TestVariantPeripherals(t *testing.T) {
	if !SAM3X8E.HasPeripheral(EMAC) {
		t.Fatal("sam3x8e carries an emac")
	}
	if SAM3X8E.HasPeripheral(SPI1) {
		t.Fatal("sam3x8e has no second spi")
	}
	if !SAM3X8H.HasPeripheral(SPI1) {
		t.Fatal("sam3x8h carries a second spi")
	}
	if SAM3A4C.HasPeripheral(EMAC) {
		t.Fatal("sam3a4c has no emac")
	}
	if SAM3X8E.HasPeripheral(NumPeripheralIDs) {
		t.Fatal("out of range pid reported present")
	}
}

func TestVariantPinMasks(t *testing.T) {
	if SAM3X8E.GroupPins[4] != 0 {
		t.Fatal("sam3x8e has no pioe")
	}
	if SAM3X8E.GroupPins[3]&(1<<10) == 0 {
		t.Fatal("pd10 exists on sam3x8e")
	}
	if SAM3X8E.GroupPins[3]&(1<<11) != 0 {
		t.Fatal("pd11 does not exist on sam3x8e")
	}
}

func TestLookups(t *testing.T) {
	if v, ok := ByName("sam3x8h"); !ok || v != &SAM3X8H {
		t.Fatal("variant lookup failed")
	}
	if _, ok := ByName("sam9"); ok {
		t.Fatal("unknown variant resolved")
	}
	if id, ok := LookupPeripheral("twi1"); !ok || id != TWI1 {
		t.Fatalf("twi1 resolved to %v,%v", id, ok)
	}
	if _, ok := LookupPeripheral("nope"); ok {
		t.Fatal("unknown peripheral resolved")
	}
}

func TestPIDNames(t *testing.T) {
	if UART.String() != "uart" {
		t.Fatalf("uart name = %q", UART.String())
	}
	if PeripheralID(60).String() != "pid?" {
		t.Fatal("out of range pid needs a placeholder name")
	}
}
