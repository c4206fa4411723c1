package sim

import "testing"

func TestRegBitOps(t *testing.T) {
	r := &Reg{}
	r.Set(0xf0)
	r.SetBits(0x0f)
	if r.Get() != 0xff {
		t.Fatalf("get = %#x", r.Get())
	}
	r.ClearBits(0xf0)
	if !r.HasBits(0x0f) || r.HasBits(0xf0) {
		t.Fatal("clear bits")
	}
	r.ReplaceBits(0x5, 0x7, 4)
	if r.Get() != 0x5f {
		t.Fatalf("replace = %#x", r.Get())
	}
}

func TestRegHooks(t *testing.T) {
	r := &Reg{}
	var seen []uint32
	r.OnWrite = func(v uint32) { seen = append(seen, v) }
	r.OnRead = func(v uint32) uint32 { return v | 1 }

	r.Set(2)
	r.SetBits(4)
	if len(seen) != 2 || seen[1] != 6 {
		t.Fatalf("writes = %v", seen)
	}
	if r.Get() != 7 {
		t.Fatalf("hooked read = %d", r.Get())
	}
	if r.Raw() != 6 {
		t.Fatalf("raw = %d", r.Raw())
	}
}
