package units

import "fmt"

// Unit is one entry of a category table. ToBase and FromBase convert to and
// from the category's base unit and are inverse to each other within
// floating-point tolerance.
type Unit struct {
	Code     string
	Category Category
	// Label is the short form shown next to converted values ("kilometers", "°C").
	Label string
	// Name is the title-cased form used in unit pickers ("Kilometers", "Celsius").
	Name string

	toBase   func(float64) float64
	fromBase func(float64) float64
}

func (u Unit) ToBase(v float64) float64 {
	return u.toBase(v)
}

func (u Unit) FromBase(v float64) float64 {
	return u.fromBase(v)
}

type categoryTable struct {
	base  string
	units []Unit
	index map[string]int
}

// multiplied returns a unit where one of it equals factor base units.
func multiplied(code, label, name string, factor float64) Unit {
	return Unit{
		Code:     code,
		Label:    label,
		Name:     name,
		toBase:   func(v float64) float64 { return v * factor },
		fromBase: func(v float64) float64 { return v / factor },
	}
}

// divided returns a unit where divisor of it equal one base unit.
func divided(code, label, name string, divisor float64) Unit {
	return Unit{
		Code:     code,
		Label:    label,
		Name:     name,
		toBase:   func(v float64) float64 { return v / divisor },
		fromBase: func(v float64) float64 { return v * divisor },
	}
}

func identity(code, label, name string) Unit {
	return Unit{
		Code:     code,
		Label:    label,
		Name:     name,
		toBase:   func(v float64) float64 { return v },
		fromBase: func(v float64) float64 { return v },
	}
}

const (
	kibi = 1024
	mebi = kibi * 1024
	gibi = mebi * 1024
	tebi = gibi * 1024
)

var tables = buildTables(map[Category][]Unit{
	// base = m
	Length: {
		divided("mm", "millimeters", "Millimeters", 1000),
		divided("cm", "centimeters", "Centimeters", 100),
		identity("m", "meters", "Meters"),
		multiplied("km", "kilometers", "Kilometers", 1000),
		multiplied("in", "inches", "Inches", 0.0254),
		multiplied("ft", "feet", "Feet", 0.3048),
		multiplied("yd", "yards", "Yards", 0.9144),
		multiplied("mi", "miles", "Miles", 1609.344),
	},
	// base = kg
	Weight: {
		divided("mg", "milligrams", "Milligrams", 1_000_000),
		divided("g", "grams", "Grams", 1000),
		identity("kg", "kilograms", "Kilograms"),
		multiplied("oz", "ounces", "Ounces", 0.0283495),
		multiplied("lb", "pounds", "Pounds", 0.453592),
		multiplied("ton", "tons", "Tons", 1000),
	},
	// base = celsius
	Temperature: {
		identity("celsius", "°C", "Celsius"),
		{
			Code:     "fahrenheit",
			Label:    "°F",
			Name:     "Fahrenheit",
			toBase:   func(v float64) float64 { return (v - 32) * 5 / 9 },
			fromBase: func(v float64) float64 { return v*9/5 + 32 },
		},
		{
			Code:     "kelvin",
			Label:    "K",
			Name:     "Kelvin",
			toBase:   func(v float64) float64 { return v - 273.15 },
			fromBase: func(v float64) float64 { return v + 273.15 },
		},
	},
	// base = l
	Volume: {
		divided("ml", "milliliters", "Milliliters", 1000),
		identity("l", "liters", "Liters"),
		multiplied("gal", "gallons", "Gallons", 3.78541),
		multiplied("cup", "cups", "Cups", 0.236588),
		multiplied("pint", "pints", "Pints", 0.473176),
		multiplied("quart", "quarts", "Quarts", 0.946353),
	},
	// base = m2
	Area: {
		identity("m2", "m²", "Square Meters"),
		multiplied("km2", "km²", "Square Kilometers", 1_000_000),
		multiplied("ft2", "ft²", "Square Feet", 0.092903),
		multiplied("acre", "acres", "Acres", 4046.86),
		multiplied("hectare", "hectares", "Hectares", 10_000),
	},
	// base = ms (meters per second)
	Speed: {
		identity("ms", "m/s", "Meters/Second"),
		divided("kmh", "km/h", "Kilometers/Hour", 3.6),
		multiplied("mph", "mph", "Miles/Hour", 0.44704),
		multiplied("knots", "knots", "Knots", 0.514444),
	},
	// base = byte, binary multiples
	Data: {
		divided("bit", "bits", "Bits", 8),
		identity("byte", "bytes", "Bytes"),
		multiplied("kb", "KB", "Kilobytes", kibi),
		multiplied("mb", "MB", "Megabytes", mebi),
		multiplied("gb", "GB", "Gigabytes", gibi),
		multiplied("tb", "TB", "Terabytes", tebi),
	},
	// base = second; month is 30 days, year is 365 days
	Time: {
		identity("second", "seconds", "Seconds"),
		multiplied("minute", "minutes", "Minutes", 60),
		multiplied("hour", "hours", "Hours", 3600),
		multiplied("day", "days", "Days", 86_400),
		multiplied("week", "weeks", "Weeks", 604_800),
		multiplied("month", "months", "Months", 2_592_000),
		multiplied("year", "years", "Years", 31_536_000),
	},
	// base = pa
	Pressure: {
		identity("pa", "Pa", "Pascals"),
		multiplied("bar", "bar", "Bar", 100_000),
		multiplied("psi", "PSI", "PSI", 6894.76),
		multiplied("atm", "atm", "Atmospheres", 101_325),
		multiplied("mmhg", "mmHg", "mmHg", 133.322),
	},
	// base = j
	Energy: {
		identity("j", "joules", "Joules"),
		multiplied("cal", "calories", "Calories", 4.184),
		multiplied("kcal", "kilocalories", "Kilocalories", 4184),
		multiplied("btu", "BTU", "BTU", 1055.06),
		multiplied("kwh", "kWh", "kWh", 3_600_000),
	},
})

// unitCategories maps every unit code to its category. Codes are unique
// across the whole table.
var unitCategories = func() map[string]Category {
	out := map[string]Category{}
	for _, c := range categoryOrder {
		for _, u := range tables[c].units {
			out[u.Code] = c
		}
	}
	return out
}()

var baseUnits = map[Category]string{
	Length:      "m",
	Weight:      "kg",
	Temperature: "celsius",
	Volume:      "l",
	Area:        "m2",
	Speed:       "ms",
	Data:        "byte",
	Time:        "second",
	Pressure:    "pa",
	Energy:      "j",
}

func buildTables(defs map[Category][]Unit) map[Category]*categoryTable {
	out := make(map[Category]*categoryTable, len(defs))
	for c, list := range defs {
		t := &categoryTable{
			base:  baseUnits[c],
			units: make([]Unit, len(list)),
			index: make(map[string]int, len(list)),
		}
		for i, u := range list {
			u.Category = c
			t.units[i] = u
			t.index[u.Code] = i
		}
		out[c] = t
	}
	return out
}

// Lookup returns the unit with the given code in category c.
func Lookup(c Category, code string) (Unit, error) {
	t, ok := tables[c]
	if !ok {
		return Unit{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	i, ok := t.index[code]
	if !ok {
		return Unit{}, fmt.Errorf("%w in category %s: %q", ErrUnknownUnit, c, code)
	}
	return t.units[i], nil
}

// CategoryOf returns the category a unit code belongs to.
func CategoryOf(code string) (Category, bool) {
	c, ok := unitCategories[code]
	return c, ok
}

// UnitCodes returns the unit codes of c in table order, or nil when c is unknown.
func UnitCodes(c Category) []string {
	t, ok := tables[c]
	if !ok {
		return nil
	}
	out := make([]string, len(t.units))
	for i, u := range t.units {
		out[i] = u.Code
	}
	return out
}

// UnitsOf returns a copy of the unit table of c in table order.
func UnitsOf(c Category) []Unit {
	t, ok := tables[c]
	if !ok {
		return nil
	}
	out := make([]Unit, len(t.units))
	copy(out, t.units)
	return out
}
