package units

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultDecimalPlaces = 2
	MaxDecimalPlaces     = 20
)

// FormatNumber renders value with magnitude-adaptive notation. Branches are
// checked in order:
//
//	0 < |v| < 0.01  exponential, decimalPlaces digits ("5.00e-3")
//	|v| >= 1e12     v/1e12 fixed to decimalPlaces + "T"
//	|v| >= 1e9      v/1e9 + "B"
//	|v| >= 1e6      v/1e6 + "M"
//	|v| >= 1e4      v/1e3 + "K", no fraction from 1e5 up, otherwise one digit
//	|v| >= 100      nearest integer with thousands separators
//	otherwise       rounded to decimalPlaces, trailing zeros trimmed
//
// value must be finite; see CheckFinite.
func FormatNumber(value float64, decimalPlaces int) string {
	dp := clampPlaces(decimalPlaces)
	abs := math.Abs(value)
	sign := ""
	if value < 0 {
		sign = "-"
	}

	switch {
	case abs > 0 && abs < 0.01:
		return exponential(value, dp)
	case abs >= 1e12:
		return sign + fixed(abs/1e12, dp) + "T"
	case abs >= 1e9:
		return sign + fixed(abs/1e9, dp) + "B"
	case abs >= 1e6:
		return sign + fixed(abs/1e6, dp) + "M"
	case abs >= 1e5:
		return sign + fixed(abs/1e3, 0) + "K"
	case abs >= 1e4:
		return sign + strings.TrimSuffix(fixed(abs/1e3, 1), ".0") + "K"
	case abs >= 100:
		return grouped(roundHalfUp(value))
	}

	mult := math.Pow(10, float64(dp))
	rounded := roundHalfUp(value*mult) / mult
	if rounded == 0 {
		return "0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func clampPlaces(dp int) int {
	if dp < 0 {
		return 0
	}
	if dp > MaxDecimalPlaces {
		return MaxDecimalPlaces
	}
	return dp
}

// roundHalfUp rounds ties towards positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func fixed(v float64, dp int) string {
	return strconv.FormatFloat(v, 'f', dp, 64)
}

func grouped(v float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", int64(v))
}

// exponential writes v as d.ddde±x with an unpadded exponent.
func exponential(v float64, dp int) string {
	s := strconv.FormatFloat(v, 'e', dp, 64)
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	if n < 0 {
		return mantissa + "e-" + strconv.Itoa(-n)
	}
	return mantissa + "e+" + strconv.Itoa(n)
}
