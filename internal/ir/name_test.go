package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStem(t *testing.T) {
	r := sampleIR()
	stem, err := FileStem(NameYyyymmddHhmmssSnN, JpNiedKnet, r)
	require.NoError(t, err)
	assert.Equal(t, "20240101-161018-ISK005-knet", stem)
}

func TestFileStem_SanitizesStation(t *testing.T) {
	r := sampleIR()
	r.Metadata.StationCode = " W/21 B "
	stem, err := FileStem(NameYyyymmddHhmmssSnN, TwPalertSac, r)
	require.NoError(t, err)
	assert.Equal(t, "20240101-161018-W21B-palert", stem)

	r.Metadata.StationCode = "   "
	stem, err = FileStem(NameYyyymmddHhmmssSnN, TwPalertSac, r)
	require.NoError(t, err)
	assert.Equal(t, "20240101-161018-unknown-palert", stem)
}

func TestFileStem_Errors(t *testing.T) {
	_, err := FileStem(NameYyyymmddHhmmssSnN, JpNiedKnet, SeismicIR{})
	assert.Error(t, err)

	r := sampleIR()
	r.Timestamp = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = FileStem(NameFormat("iso"), JpNiedKnet, r)
	assert.Error(t, err)
	assert.False(t, NameFormat("iso").Valid())
	assert.True(t, NameYyyymmddHhmmssSnN.Valid())
}
