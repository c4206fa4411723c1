// Package mathx carries the small generic helpers the clock and divisor
// calculations lean on.
package mathx

import "golang.org/x/exp/constraints"

// Between reports lo <= v <= hi.
func Between[T constraints.Ordered](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// CeilDiv returns ceil(a/b). A zero divisor yields zero rather than a
// fault so divisor searches can run over sparse tables.
func CeilDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// RoundDiv returns a/b rounded to nearest.
func RoundDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}
