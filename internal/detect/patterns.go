package detect

import (
	"regexp"

	"github.com/saadjs/unitconv/internal/units"
)

// numberPattern matches an optional minus sign, digits, an optional fraction
// and an optional exponent.
const numberPattern = `-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`

type tokenPattern struct {
	category units.Category
	unit     string
	// tokens is a regexp alternation of spellings, longest first. Bare
	// abbreviations whose case carries meaning (m, g, b, B, K) sit outside
	// the (?i:...) groups.
	tokens string
	// exclude lists runes that may not follow the token in addition to
	// letters, digits and underscore.
	exclude string
	// prescale maps a token-specific value onto the unit's own scale
	// (1500 mbar is detected as 1.5 bar).
	prescale func(float64) float64

	re *regexp.Regexp
}

func per(d float64) func(float64) float64 {
	return func(v float64) float64 { return v / d }
}

func times(m float64) func(float64) float64 {
	return func(v float64) float64 { return v * m }
}

// patterns are tried in slice order when two matches start at the same
// offset. Compound units (speed, area, pressure) come before the simple
// units they are spelled with.
var patterns = compile([]tokenPattern{
	// speed
	{category: units.Speed, unit: "kmh", tokens: `(?i:km/h|kmh|kph|kilometers?\s+per\s+hour|kilometres?\s+per\s+hour)`},
	{category: units.Speed, unit: "mph", tokens: `(?i:mph|mi/h|miles?\s+per\s+hour)`},
	{category: units.Speed, unit: "ms", tokens: `(?i:m/s|meters?\s+per\s+second|metres?\s+per\s+second)`},
	{category: units.Speed, unit: "knots", tokens: `(?i:knots?|kts?)`},

	// area
	{category: units.Area, unit: "m2", tokens: `(?i:m²|m2|square\s+meters?|square\s+metres?|sq\s+m)`},
	{category: units.Area, unit: "km2", tokens: `(?i:km²|km2|square\s+kilometers?|square\s+kilometres?|sq\s+km)`},
	{category: units.Area, unit: "ft2", tokens: `(?i:ft²|ft2|square\s+feet|square\s+foot|sq\.?\s*ft)`},
	{category: units.Area, unit: "hectare", tokens: `(?i:hectares?|ha)`},
	{category: units.Area, unit: "acre", tokens: `(?i:acres?)`},

	// pressure
	{category: units.Pressure, unit: "psi", tokens: `(?i:psi|pounds?\s+per\s+square\s+inch)`},
	{category: units.Pressure, unit: "mmhg", tokens: `(?i:mmhg|mm\s+hg|millimeters?\s+of\s+mercury|millimetres?\s+of\s+mercury)`},
	{category: units.Pressure, unit: "bar", tokens: `(?i:millibars?|mbar)|hPa`, prescale: per(1000)},
	{category: units.Pressure, unit: "bar", tokens: `(?i:bars?)`},
	{category: units.Pressure, unit: "atm", tokens: `(?i:atmospheres?|atm)`},
	{category: units.Pressure, unit: "pa", tokens: `(?i:kilopascals?)|kPa`, prescale: times(1000)},
	{category: units.Pressure, unit: "pa", tokens: `(?i:pascals?)|Pa|pa`},

	// length
	{category: units.Length, unit: "mm", tokens: `(?i:millimeters?|millimetres?|mm)`},
	{category: units.Length, unit: "cm", tokens: `(?i:centimeters?|centimetres?|cm)`},
	{category: units.Length, unit: "km", tokens: `(?i:kilometers?|kilometres?|km)`, exclude: "/²³"},
	{category: units.Length, unit: "m", tokens: `(?i:meters?|metres?)|m`, exclude: "/²³"},
	{category: units.Length, unit: "in", tokens: `(?i:inches|inch)|in`},
	{category: units.Length, unit: "ft", tokens: `(?i:feet|foot|ft)`, exclude: "²³"},
	{category: units.Length, unit: "yd", tokens: `(?i:yards?|yds?)`},
	{category: units.Length, unit: "mi", tokens: `(?i:miles?|mi)`, exclude: "/"},

	// weight
	{category: units.Weight, unit: "mg", tokens: `(?i:milligrams?|milligrammes?|mg)`},
	{category: units.Weight, unit: "kg", tokens: `(?i:kilograms?|kilogrammes?|kgs?)`},
	{category: units.Weight, unit: "g", tokens: `(?i:grams?|grammes?)|g`},
	{category: units.Weight, unit: "oz", tokens: `(?i:ounces?|oz)`},
	{category: units.Weight, unit: "lb", tokens: `(?i:pounds?|lbs?)`},
	{category: units.Weight, unit: "ton", tokens: `(?i:tonnes?|tons?)`},

	// temperature
	{category: units.Temperature, unit: "celsius", tokens: `(?i:°\s*c|celsius|centigrade)|℃`},
	{category: units.Temperature, unit: "fahrenheit", tokens: `(?i:°\s*f|fahrenheit)|℉`},
	{category: units.Temperature, unit: "kelvin", tokens: `(?i:kelvins?)|K`},

	// volume
	{category: units.Volume, unit: "ml", tokens: `(?i:milliliters?|millilitres?|ml)`},
	{category: units.Volume, unit: "l", tokens: `(?i:liters?|litres?)|l|L`},
	{category: units.Volume, unit: "gal", tokens: `(?i:gallons?|gal)`},
	{category: units.Volume, unit: "cup", tokens: `(?i:cups?)`},
	{category: units.Volume, unit: "pint", tokens: `(?i:pints?|pt)`},
	{category: units.Volume, unit: "quart", tokens: `(?i:quarts?|qt)`},

	// time
	{category: units.Time, unit: "second", tokens: `(?i:seconds?|secs?)|s`},
	{category: units.Time, unit: "minute", tokens: `(?i:minutes?|mins?)`},
	{category: units.Time, unit: "hour", tokens: `(?i:hours?|hrs?)`},
	{category: units.Time, unit: "day", tokens: `(?i:days?)`},
	{category: units.Time, unit: "week", tokens: `(?i:weeks?|wks?)`},
	{category: units.Time, unit: "month", tokens: `(?i:months?)`},
	{category: units.Time, unit: "year", tokens: `(?i:years?|yrs?)`},

	// data; bit multiples are decimal
	{category: units.Data, unit: "bit", tokens: `(?i:kilobits?|kbits?)|Kb`, prescale: times(1e3)},
	{category: units.Data, unit: "bit", tokens: `(?i:megabits?|mbits?)|Mb`, prescale: times(1e6)},
	{category: units.Data, unit: "bit", tokens: `(?i:gigabits?|gbits?)|Gb`, prescale: times(1e9)},
	{category: units.Data, unit: "bit", tokens: `(?i:bits?)|b`},
	{category: units.Data, unit: "kb", tokens: `(?i:kilobytes?)|KiB|KB|kB`},
	{category: units.Data, unit: "mb", tokens: `(?i:megabytes?)|MiB|MB`},
	{category: units.Data, unit: "gb", tokens: `(?i:gigabytes?)|GiB|GB`},
	{category: units.Data, unit: "tb", tokens: `(?i:terabytes?)|TiB|TB`},
	{category: units.Data, unit: "byte", tokens: `(?i:bytes?)|B`},

	// energy
	{category: units.Energy, unit: "kwh", tokens: `(?i:kilowatt[\s-]+hours?|kwh)`},
	{category: units.Energy, unit: "kcal", tokens: `(?i:kilocalories?|kcal)`},
	{category: units.Energy, unit: "cal", tokens: `(?i:calories?|cal)`},
	{category: units.Energy, unit: "btu", tokens: `(?i:british\s+thermal\s+units?|btus?)`},
	{category: units.Energy, unit: "j", tokens: `(?i:kilojoules?)|kJ`, prescale: times(1000)},
	{category: units.Energy, unit: "j", tokens: `(?i:joules?)|J`},
})

func compile(list []tokenPattern) []tokenPattern {
	for i := range list {
		list[i].re = regexp.MustCompile(`(` + numberPattern + `)\s*(` + list[i].tokens + `)`)
	}
	return list
}
