package extract

import (
	"fmt"
	"regexp"
	"strconv"
)

// scalePattern matches K-NET scale factor descriptors such as 7845(gal)/8223790.
var scalePattern = regexp.MustCompile(`(?P<numerator>\d+)\(gal\)/(?P<denominator>\d+)`)

var (
	numeratorIdx   = scalePattern.SubexpIndex("numerator")
	denominatorIdx = scalePattern.SubexpIndex("denominator")
)

// ScaleFactor is a parsed <numerator>(gal)/<denominator> descriptor.
// Coefficient is numerator/denominator, computed once at parse time.
type ScaleFactor struct {
	Numerator   uint64
	Denominator uint64
	Coefficient float64
}

// ParseScaleFactor parses the first descriptor found in s.
func ParseScaleFactor(s string) (ScaleFactor, error) {
	m := scalePattern.FindStringSubmatch(s)
	if m == nil {
		return ScaleFactor{}, fmt.Errorf("no <n>(gal)/<d> descriptor in %q: %w", s, ErrPatternNotMatched)
	}
	return newScaleFactor(m)
}

// FindAllScaleFactors returns every descriptor in s in order of appearance.
// Descriptors whose halves do not fit a uint64 or divide by zero are skipped.
func FindAllScaleFactors(s string) []ScaleFactor {
	var out []ScaleFactor
	for _, m := range scalePattern.FindAllStringSubmatch(s, -1) {
		sf, err := newScaleFactor(m)
		if err != nil {
			continue
		}
		out = append(out, sf)
	}
	return out
}

func newScaleFactor(m []string) (ScaleFactor, error) {
	num, err := strconv.ParseUint(m[numeratorIdx], 10, 64)
	if err != nil {
		return ScaleFactor{}, fmt.Errorf("numerator %q: %w", m[numeratorIdx], err)
	}
	den, err := strconv.ParseUint(m[denominatorIdx], 10, 64)
	if err != nil {
		return ScaleFactor{}, fmt.Errorf("denominator %q: %w", m[denominatorIdx], err)
	}
	if den == 0 {
		return ScaleFactor{}, fmt.Errorf("zero denominator in %q: %w", m[0], ErrPatternNotMatched)
	}
	return ScaleFactor{
		Numerator:   num,
		Denominator: den,
		Coefficient: float64(num) / float64(den),
	}, nil
}
