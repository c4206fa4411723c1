package errcode

// Code is a stable error identifier for HAL failures.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Static misconfiguration, caught before any register is touched.
	OutOfRange    Code = "out_of_range"
	InvalidSource Code = "invalid_source"

	// Sequencing: hardware did not reach the requested state in time.
	OscTimeout     Code = "osc_timeout"
	PLLLockTimeout Code = "pll_lock_timeout"
	SwitchTimeout  Code = "switch_timeout"

	// Pin ownership.
	AlreadyClaimed Code = "already_claimed"
	NotOwner       Code = "not_owner"
	UnknownPin     Code = "unknown_pin"

	// Clock gating.
	UnknownPeripheral Code = "unknown_peripheral"

	// Bus transactions (TWI).
	NACK    Code = "nack"
	Timeout Code = "timeout"

	Error Code = "error" // generic fallback
)

// E is an optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string // operation, e.g. "pmc.validate"
	Msg string // offending field or detail
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is match a wrapped E against its bare Code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
