// Package units holds the static category and unit tables and the conversion,
// formatting and expansion functions built on them. Every value in this package
// is immutable after init, so all functions are safe for concurrent use.
package units

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownUnit     = errors.New("unknown unit")
	ErrInvalidNumber   = errors.New("invalid number")
)

type Category string

const (
	Length      Category = "length"
	Weight      Category = "weight"
	Temperature Category = "temperature"
	Volume      Category = "volume"
	Area        Category = "area"
	Speed       Category = "speed"
	Data        Category = "data"
	Time        Category = "time"
	Pressure    Category = "pressure"
	Energy      Category = "energy"
)

// categoryOrder is the closed set of categories in display order.
var categoryOrder = []Category{
	Length,
	Weight,
	Temperature,
	Volume,
	Area,
	Speed,
	Data,
	Time,
	Pressure,
	Energy,
}

func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the ten known categories.
func (c Category) Valid() bool {
	_, ok := tables[c]
	return ok
}

// BaseUnit returns the code of the pivot unit for c, or "" for an unknown category.
func (c Category) BaseUnit() string {
	t, ok := tables[c]
	if !ok {
		return ""
	}
	return t.base
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(strings.ToLower(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Categories returns every category code in table order. The slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}
