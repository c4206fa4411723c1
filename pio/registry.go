package pio

import (
	"github.com/compenguy/atsam3xa/chip"
	"github.com/compenguy/atsam3xa/errcode"
)

type assignment struct {
	owner chip.PeripheralID
	fn    Func
}

// Registry owns the pin assignment map: exactly one owner per pin,
// enforced here rather than by convention. Claims take effect on the
// hardware immediately; there is no staged application.
//
// The registry is not internally locked. Call it from a single execution
// context, or wrap mutations in an application critical section when
// interrupt handlers claim or release pins.
type Registry struct {
	variant *chip.Variant
	groups  [numGroups]*Block
	owners  map[Pin]assignment
}

// NewRegistry builds a registry over the controller blocks present on
// the board. Groups absent from the variant may be left nil.
func NewRegistry(variant *chip.Variant, groups [numGroups]*Block) *Registry {
	return &Registry{
		variant: variant,
		groups:  groups,
		owners:  make(map[Pin]assignment),
	}
}

func (r *Registry) lookup(pin Pin, op string) (*Block, error) {
	if pin.Group >= numGroups ||
		r.variant.GroupPins[pin.Group]&pin.mask() == 0 ||
		r.groups[pin.Group] == nil {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: op, Msg: pin.String()}
	}
	return r.groups[pin.Group], nil
}

// Claim assigns the pin to owner with the given function and programs
// the multiplexer. Claiming a pin held by a different owner fails and
// leaves the pin untouched. Re-claiming the same function by the same
// owner is a no-op success; the same owner may also reconfigure its pin
// to a new function.
func (r *Registry) Claim(pin Pin, fn Func, owner chip.PeripheralID) error {
	b, err := r.lookup(pin, "pio.claim")
	if err != nil {
		return err
	}
	if cur, held := r.owners[pin]; held {
		if cur.owner != owner {
			return &errcode.E{C: errcode.AlreadyClaimed, Op: "pio.claim",
				Msg: pin.String() + " held by " + cur.owner.String()}
		}
		if cur.fn == fn {
			return nil
		}
	}
	if err := apply(b, pin, fn); err != nil {
		return err
	}
	r.owners[pin] = assignment{owner: owner, fn: fn}
	return nil
}

// apply programs the pin for fn. For peripheral functions the A/B select
// is written before the pin leaves PIO control, so the line never
// glitches through a half-selected function.
func apply(b *Block, pin Pin, fn Func) error {
	mask := pin.mask()
	switch fn {
	case FuncPeriphA:
		b.ABSR.ClearBits(mask)
		b.PDR.Set(mask)
	case FuncPeriphB:
		b.ABSR.SetBits(mask)
		b.PDR.Set(mask)
	case FuncInput:
		b.PER.Set(mask)
		b.ODR.Set(mask)
		b.PUDR.Set(mask)
	case FuncInputPullUp:
		b.PER.Set(mask)
		b.ODR.Set(mask)
		b.PUER.Set(mask)
	case FuncOutput:
		b.PER.Set(mask)
		b.OER.Set(mask)
		b.MDDR.Set(mask)
		b.PUDR.Set(mask)
	case FuncOutputOpenDrain:
		b.PER.Set(mask)
		b.OER.Set(mask)
		b.MDER.Set(mask)
		b.PUDR.Set(mask)
	default:
		return &errcode.E{C: errcode.OutOfRange, Op: "pio.claim", Msg: "function"}
	}
	return nil
}

// Release returns the pin to an unclaimed floating input. Only the
// current owner may release.
func (r *Registry) Release(pin Pin, owner chip.PeripheralID) error {
	b, err := r.lookup(pin, "pio.release")
	if err != nil {
		return err
	}
	cur, held := r.owners[pin]
	if !held || cur.owner != owner {
		return &errcode.E{C: errcode.NotOwner, Op: "pio.release", Msg: pin.String()}
	}
	// Park the line before forgetting the claim.
	mask := pin.mask()
	b.PER.Set(mask)
	b.ODR.Set(mask)
	b.PUDR.Set(mask)
	delete(r.owners, pin)
	return nil
}

// Assignment reports the current owner and function of a pin. Drivers
// use this to assert they still hold their pins.
func (r *Registry) Assignment(pin Pin) (chip.PeripheralID, Func, bool) {
	a, ok := r.owners[pin]
	return a.owner, a.fn, ok
}

// GPIO returns a level handle for a pin the owner has claimed with one
// of the GPIO functions.
func (r *Registry) GPIO(pin Pin, owner chip.PeripheralID) (*GPIO, error) {
	b, err := r.lookup(pin, "pio.gpio")
	if err != nil {
		return nil, err
	}
	a, held := r.owners[pin]
	if !held || a.owner != owner {
		return nil, &errcode.E{C: errcode.NotOwner, Op: "pio.gpio", Msg: pin.String()}
	}
	if !a.fn.isGPIO() {
		return nil, &errcode.E{C: errcode.OutOfRange, Op: "pio.gpio",
			Msg: pin.String() + " claimed as " + a.fn.String()}
	}
	return &GPIO{b: b, mask: pin.mask()}, nil
}
