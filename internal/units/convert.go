package units

import (
	"fmt"
	"math"
)

// Convert converts value from one unit to another within category c by
// pivoting through the category's base unit. Converting a unit to itself
// returns value unchanged. A result that overflows is ErrInvalidNumber.
func Convert(value float64, from, to string, c Category) (float64, error) {
	if err := CheckFinite(value); err != nil {
		return 0, err
	}
	src, err := Lookup(c, from)
	if err != nil {
		return 0, err
	}
	dst, err := Lookup(c, to)
	if err != nil {
		return 0, err
	}
	if src.Code == dst.Code {
		return value, nil
	}
	out := dst.FromBase(src.ToBase(value))
	if err := CheckFinite(out); err != nil {
		return 0, fmt.Errorf("%s to %s: %w", from, to, err)
	}
	return out, nil
}

// CheckFinite rejects NaN and infinite values before they reach the engine.
func CheckFinite(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidNumber, value)
	}
	return nil
}
