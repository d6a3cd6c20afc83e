package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScaleFactor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		num  uint64
		den  uint64
	}{
		{"basic", "7845(gal)/8223790", 7845, 8223790},
		{"surrounding spaces", "  123(gal)/4567  ", 123, 4567},
		{"inside a header line", "Scale Factor      9999(gal)/8888", 9999, 8888},
		{"ten digit halves", "1234567890(gal)/9876543210", 1234567890, 9876543210},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf, err := ParseScaleFactor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.num, sf.Numerator)
			assert.Equal(t, tt.den, sf.Denominator)
			assert.Equal(t, float64(tt.num)/float64(tt.den), sf.Coefficient)
		})
	}
}

func TestParseScaleFactor_NoMatch(t *testing.T) {
	for _, in := range []string{"no scale factor here", "7845(cm)/8223790", "(gal)/12", ""} {
		_, err := ParseScaleFactor(in)
		assert.ErrorIs(t, err, ErrPatternNotMatched, in)
	}
}

func TestParseScaleFactor_ZeroDenominator(t *testing.T) {
	_, err := ParseScaleFactor("1(gal)/0")
	assert.ErrorIs(t, err, ErrPatternNotMatched)
}

func TestParseScaleFactor_Overflow(t *testing.T) {
	_, err := ParseScaleFactor("99999999999999999999999(gal)/1")
	assert.Error(t, err)
}

func TestFindAllScaleFactors(t *testing.T) {
	all := FindAllScaleFactors("First: 1(gal)/2, Second: 3(gal)/4")
	require.Len(t, all, 2)
	assert.Equal(t, ScaleFactor{Numerator: 1, Denominator: 2, Coefficient: 0.5}, all[0])
	assert.Equal(t, ScaleFactor{Numerator: 3, Denominator: 4, Coefficient: 0.75}, all[1])

	assert.Empty(t, FindAllScaleFactors("nothing"))
	assert.Len(t, FindAllScaleFactors("1(gal)/0 5(gal)/4"), 1)
}
