package units

import "sort"

const unrankedPriority = 999

// priorities orders the most commonly wanted units of each category first.
// Lower is earlier; equal priorities keep their expansion order.
var priorities = map[Category]map[string]int{
	Length:      {"m": 1, "ft": 2, "in": 3, "cm": 4, "km": 5, "mi": 6, "mm": 7, "yd": 8},
	Weight:      {"kg": 1, "lb": 2, "g": 3, "oz": 4, "mg": 5, "ton": 6},
	Temperature: {"fahrenheit": 1, "celsius": 1, "kelvin": 3},
	Volume:      {"l": 1, "gal": 2, "ml": 3, "cup": 4, "pint": 5, "quart": 6},
	Speed:       {"kmh": 1, "mph": 2, "ms": 3, "knots": 4},
	Data:        {"mb": 1, "gb": 2, "kb": 3, "byte": 4, "tb": 5, "bit": 6},
	Time:        {"minute": 1, "hour": 2, "day": 3, "second": 4, "week": 5, "month": 6, "year": 7},
	Area:        {"m2": 1, "ft2": 2, "km2": 3, "acre": 4, "hectare": 5},
	Pressure:    {"psi": 1, "bar": 2, "pa": 3, "atm": 4, "mmhg": 5},
	Energy:      {"j": 1, "cal": 2, "kcal": 3, "kwh": 4, "btu": 5},
}

// Priority returns the display priority of a unit code in c.
func Priority(c Category, code string) int {
	if p, ok := priorities[c][code]; ok {
		return p
	}
	return unrankedPriority
}

// Rank returns results sorted by the built-in priority table of c.
func Rank(c Category, results []ConversionResult) []ConversionResult {
	out := make([]ConversionResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return Priority(c, out[i].UnitCode) < Priority(c, out[j].UnitCode)
	})
	return out
}

// RankByOrder returns results sorted by their position in order. Codes
// missing from order go last, keeping their relative order.
func RankByOrder(results []ConversionResult, order []string) []ConversionResult {
	pos := make(map[string]int, len(order))
	for i, code := range order {
		if _, ok := pos[code]; !ok {
			pos[code] = i
		}
	}
	rank := func(code string) int {
		if p, ok := pos[code]; ok {
			return p
		}
		return len(order)
	}
	out := make([]ConversionResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i].UnitCode) < rank(out[j].UnitCode)
	})
	return out
}
