package units

// ConversionResult is one display-ready entry of an expansion.
type ConversionResult struct {
	FormattedValue string   `json:"formattedValue" yaml:"formatted_value"`
	UnitLabel      string   `json:"unitLabel" yaml:"unit_label"`
	UnitCode       string   `json:"unitCode" yaml:"unit_code"`
	Category       Category `json:"category" yaml:"category"`
}

// ExpandToAllUnits converts value into every other unit of c using the
// default number of decimal places. See ExpandWithPlaces.
func ExpandToAllUnits(value float64, from string, c Category, preferred []string) ([]ConversionResult, error) {
	return ExpandWithPlaces(value, from, c, preferred, DefaultDecimalPlaces)
}

// ExpandWithPlaces converts value into every unit of c except from. When
// preferred is non-empty only those codes are expanded, in that order, and
// codes that are not part of c are ignored. A unit whose conversion fails is
// left out of the result rather than failing the whole expansion.
func ExpandWithPlaces(value float64, from string, c Category, preferred []string, decimalPlaces int) ([]ConversionResult, error) {
	if err := CheckFinite(value); err != nil {
		return nil, err
	}
	if _, err := Lookup(c, from); err != nil {
		return nil, err
	}

	targets := UnitCodes(c)
	if len(preferred) > 0 {
		targets = make([]string, 0, len(preferred))
		for _, code := range preferred {
			if _, ok := tables[c].index[code]; ok {
				targets = append(targets, code)
			}
		}
	}

	out := make([]ConversionResult, 0, len(targets))
	seen := make(map[string]bool, len(targets))
	for _, code := range targets {
		if code == from || seen[code] {
			continue
		}
		seen[code] = true
		converted, err := Convert(value, from, code, c)
		if err != nil {
			continue
		}
		if CheckFinite(converted) != nil {
			continue
		}
		u, err := Lookup(c, code)
		if err != nil {
			continue
		}
		out = append(out, ConversionResult{
			FormattedValue: FormatNumber(converted, decimalPlaces),
			UnitLabel:      u.Label,
			UnitCode:       u.Code,
			Category:       c,
		})
	}
	return out, nil
}
