package detect_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/saadjs/unitconv/internal/detect"
	"github.com/saadjs/unitconv/internal/units"
)

func TestDetectOrderingAndOffsets(t *testing.T) {
	t.Parallel()
	text := "I ran 5km in 25 minutes, or about 3.1 mi"
	got := detect.Detect(text)
	want := []struct {
		unit  string
		value float64
		match string
	}{
		{"km", 5, "5km"},
		{"minute", 25, "25 minutes"},
		{"mi", 3.1, "3.1 mi"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d detections, got %+v", len(want), got)
	}
	lastEnd := -1
	for i, w := range want {
		d := got[i]
		if d.UnitCode != w.unit || d.Value != w.value || d.FullMatch != w.match {
			t.Fatalf("detection %d: got %+v, want %+v", i, d, w)
		}
		if text[d.Start:d.End] != d.FullMatch {
			t.Fatalf("detection %d offsets slice to %q, want %q", i, text[d.Start:d.End], d.FullMatch)
		}
		if d.Start < lastEnd {
			t.Fatalf("detection %d overlaps the previous one", i)
		}
		lastEnd = d.End
	}
}

func TestDetectCompoundBeforeSimple(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text     string
		category units.Category
		unit     string
	}{
		{"60 km/h", units.Speed, "kmh"},
		{"100 kilometers per hour", units.Speed, "kmh"},
		{"30 mph", units.Speed, "mph"},
		{"9.8 m/s", units.Speed, "ms"},
		{"12 knots", units.Speed, "knots"},
		{"50 m² flat", units.Area, "m2"},
		{"3 km²", units.Area, "km2"},
		{"900 sq ft", units.Area, "ft2"},
		{"5 ft²", units.Area, "ft2"},
		{"760 mm Hg", units.Pressure, "mmhg"},
		{"32 pounds per square inch", units.Pressure, "psi"},
	}
	for _, tc := range cases {
		got := detect.Detect(tc.text)
		if len(got) != 1 {
			t.Fatalf("%q: expected one detection, got %+v", tc.text, got)
		}
		if got[0].Category != tc.category || got[0].UnitCode != tc.unit {
			t.Fatalf("%q: expected %s/%s, got %s/%s", tc.text, tc.category, tc.unit, got[0].Category, got[0].UnitCode)
		}
		if got[0].FullMatch != tc.text[got[0].Start:got[0].End] {
			t.Fatalf("%q: offsets do not slice back to the match", tc.text)
		}
	}
}

func TestDetectCommonMentions(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text  string
		unit  string
		value float64
	}{
		{"98.6°F", "fahrenheit", 98.6},
		{"-40 °C outside", "celsius", -40},
		{"300 K", "kelvin", 300},
		{"3.5 GB", "gb", 3.5},
		{"512 KB", "kb", 512},
		{"5 bytes", "byte", 5},
		{"10 b", "bit", 10},
		{"2 kg", "kg", 2},
		{"250 g", "g", 250},
		{"12 oz", "oz", 12},
		{"2 cups", "cup", 2},
		{"1.5 L", "l", 1.5},
		{"6 ft", "ft", 6},
		{"1e3 m", "m", 1000},
		{"2.5E-2 km", "km", 0.025},
		{"45 s", "second", 45},
		{"3 hrs", "hour", 3},
		{"2 weeks", "week", 2},
		{"1 atm", "atm", 1},
		{"2 bar", "bar", 2},
		{"500 kcal", "kcal", 500},
		{"10 kWh", "kwh", 10},
		{"100 J", "j", 100},
		{"5 acres", "acre", 5},
	}
	for _, tc := range cases {
		d, ok := detect.First(tc.text)
		if !ok {
			t.Fatalf("%q: expected a detection", tc.text)
		}
		if d.UnitCode != tc.unit {
			t.Fatalf("%q: expected unit %s, got %s", tc.text, tc.unit, d.UnitCode)
		}
		if math.Abs(d.Value-tc.value) > 1e-12 {
			t.Fatalf("%q: expected value %v, got %v", tc.text, tc.value, d.Value)
		}
	}
}

func TestDetectPrescaledTokens(t *testing.T) {
	t.Parallel()
	d, ok := detect.First("1500 mbar")
	if !ok {
		t.Fatalf("expected mbar detection")
	}
	if d.Category != units.Pressure || d.UnitCode != "bar" {
		t.Fatalf("expected pressure/bar, got %s/%s", d.Category, d.UnitCode)
	}
	if d.UnitToken != "mbar" {
		t.Fatalf("expected original token mbar, got %q", d.UnitToken)
	}
	got, err := units.Convert(d.Value, d.UnitCode, "pa", d.Category)
	if err != nil {
		t.Fatalf("convert detected value: %v", err)
	}
	want, err := units.Convert(1.5, "bar", "pa", units.Pressure)
	if err != nil {
		t.Fatalf("convert reference value: %v", err)
	}
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v Pa, got %v", want, got)
	}

	d, ok = detect.First("101.3 kPa")
	if !ok || d.UnitCode != "pa" || math.Abs(d.Value-101300) > 1e-9 {
		t.Fatalf("expected 101300 pa, got %+v", d)
	}
	d, ok = detect.First("8 kbit")
	if !ok || d.UnitCode != "bit" || d.Value != 8000 {
		t.Fatalf("expected 8000 bit, got %+v", d)
	}
}

func TestDetectBitPrefixes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text  string
		unit  string
		value float64
	}{
		{"2 Kb", "bit", 2000},
		{"5 Mb", "bit", 5e6},
		{"3 Gb", "bit", 3e9},
		{"5 MB", "mb", 5},
		{"5 KB", "kb", 5},
	}
	for _, tc := range cases {
		d, ok := detect.First(tc.text)
		if !ok || d.UnitCode != tc.unit || d.Value != tc.value {
			t.Fatalf("%q: expected %v %s, got %+v (ok=%v)", tc.text, tc.value, tc.unit, d, ok)
		}
	}
}

func TestDetectSkipsValuesThatOverflowWhenScaled(t *testing.T) {
	t.Parallel()
	for _, text := range []string{"1e306 kbit", "1e305 gigabits", "1e400 km"} {
		got := detect.Detect(text)
		if len(got) != 0 {
			t.Fatalf("%q: expected overflowing value to be skipped, got %+v", text, got)
		}
	}
	got := detect.Detect("1e306 kbit and 5 km")
	if len(got) != 1 || got[0].UnitCode != "km" {
		t.Fatalf("expected only the finite detection, got %+v", got)
	}
}

func TestDetectLongDigitRunIsLinear(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("1", 20000) + "mx then 5 km"
	start := time.Now()
	got := detect.Detect(text)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("detection over a long digit run took %s", elapsed)
	}
	if len(got) != 1 || got[0].UnitCode != "km" || got[0].Value != 5 {
		t.Fatalf("expected only 5 km, got %+v", got)
	}
}

func TestDetectGuardsAgainstCollisions(t *testing.T) {
	t.Parallel()
	if got := detect.Detect("5 bytes"); len(got) != 1 || got[0].UnitCode != "byte" {
		t.Fatalf("expected bare b not to match inside byte, got %+v", got)
	}
	if got := detect.Detect("5 mangoes"); len(got) != 0 {
		t.Fatalf("expected no detection inside a longer word, got %+v", got)
	}
	if got := detect.Detect("the 5 KB file"); len(got) != 1 || got[0].UnitCode != "kb" {
		t.Fatalf("expected KB not to be read as kelvin, got %+v", got)
	}
}

func TestDetectNonOverlappingLeftToRight(t *testing.T) {
	t.Parallel()
	text := "Upload 3.5 GB at 60 km/h in 30 °C heat over 2 days"
	got := detect.Detect(text)
	wantUnits := []string{"gb", "kmh", "celsius", "day"}
	if len(got) != len(wantUnits) {
		t.Fatalf("unexpected detections: %+v", got)
	}
	for i, u := range wantUnits {
		if got[i].UnitCode != u {
			t.Fatalf("detection %d: got %s want %s", i, got[i].UnitCode, u)
		}
		if i > 0 && got[i].Start < got[i-1].End {
			t.Fatalf("detections %d and %d overlap", i-1, i)
		}
	}
}

func TestDetectNothing(t *testing.T) {
	t.Parallel()
	for _, text := range []string{"", "   \n\t", "no numbers here", "42 apples", "version 3"} {
		got := detect.Detect(text)
		if got == nil || len(got) != 0 {
			t.Fatalf("%q: expected an empty, non-nil result, got %+v", text, got)
		}
	}
	if _, ok := detect.First("nothing"); ok {
		t.Fatalf("expected First to report no detection")
	}
}

func TestDetectByteOffsetsWithMultibyteText(t *testing.T) {
	t.Parallel()
	text := "café → 5 km"
	got := detect.Detect(text)
	if len(got) != 1 {
		t.Fatalf("unexpected detections: %+v", got)
	}
	if text[got[0].Start:got[0].End] != "5 km" {
		t.Fatalf("expected byte offsets to slice back to 5 km, got %q", text[got[0].Start:got[0].End])
	}
}
