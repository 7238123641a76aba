package duration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMillis_EpochDifference(t *testing.T) {
	beginning := time.Date(1977, time.October, 1, 15, 30, 42, 0, time.UTC)
	ending := time.Date(2016, time.August, 22, 10, 27, 13, 0, time.UTC)

	d := FromMillis(ending.UnixMilli() - beginning.UnixMilli())

	assert.Equal(t, "P38Y10M20DT18H56M31S", d.ISOString())
	assert.Equal(t, "P38Y10M20D", d.DateString())
	assert.Equal(t, "PT18H56M31S", d.TimeString())
	assert.Equal(t, d.ISOString(), d.String())
}

func TestFormat_RoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "P1Y", want: "P1Y"},
		{in: "P2M", want: "P2M"},
		{in: "P3D", want: "P3D"},
		{in: "PT4H", want: "PT4H"},
		{in: "PT5M", want: "PT5M"},
		{in: "PT6S", want: "PT6S"},
		{in: "P1Y2M3DT4H5M6S", want: "P1Y2M3DT4H5M6S"},
		{in: "P38Y10M20DT18H56M31S", want: "P38Y10M20DT18H56M31S"},
		{in: "P1Y0M0D", want: "P1Y"},
		{in: "PT0H30M", want: "PT30M"},
		{in: "P0D", want: "P0D"},
		{in: "PT36H", want: "P1DT12H"},
		{in: "P0038-10-20T18:56:31", want: "P38Y10M20DT18H56M31S"},
		{in: "-P1DT2H", want: "-P1DT2H"},
		{in: "-P0D", want: "P0D"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.ISOString())
		})
	}
}

func TestFormat_DateAndTimeOnly(t *testing.T) {
	d, err := Parse("PT1H")
	require.NoError(t, err)
	assert.Equal(t, "P0D", d.DateString())
	assert.Equal(t, "PT1H", d.TimeString())

	d, err = Parse("P1D")
	require.NoError(t, err)
	assert.Equal(t, "P1D", d.DateString())
	assert.Equal(t, "PT0S", d.TimeString())

	// Hours are printed even when minutes are zero.
	d, err = Parse("PT2H7S")
	require.NoError(t, err)
	assert.Equal(t, "PT2H7S", d.TimeString())
}

func TestFormatDate_SkipsNonPositive(t *testing.T) {
	d, err := Parse("-P1D")
	require.NoError(t, err)

	// The signed accumulator is 1969-12-31, whose year offset is negative.
	assert.Equal(t, -1, d.UTCFullYear())
	assert.Equal(t, "11M30D", FormatDate(d))
	assert.Equal(t, "-P1D", d.ISOString())
}
