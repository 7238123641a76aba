package ics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeduration/internal/interval"
	"timeduration/internal/isoerr"
)

func TestExportCalendar_RoundTrip(t *testing.T) {
	in := []ExportEvent{
		{UID: "sprint", Summary: "Sprint", Interval: interval.MustParse("R4/2007-03-01T09:00:00Z/P2W")},
		{UID: "offsite", Interval: interval.MustParse("2007-03-02T13:00:00Z/2007-03-02T15:00:00Z")},
		{UID: "quarter", Interval: interval.MustParse("2007-01-31T00:00:00Z/P1M")},
	}

	body, err := ExportCalendar(in)
	require.NoError(t, err)
	assert.Contains(t, body, "RRULE:FREQ=WEEKLY;INTERVAL=2;COUNT=5")
	assert.Contains(t, body, "DURATION:P14D")
	assert.Contains(t, body, "DTEND:20070303T000000Z")
	assert.Contains(t, body, "SUMMARY:Sprint")

	events, err := ParseICS(testSource, []byte(body))
	require.NoError(t, err)
	require.Len(t, events, 3)

	want := []string{
		"R4/2007-03-01T09:00:00.000Z/P14D",
		"2007-03-02T13:00:00.000Z/2007-03-02T15:00:00.000Z",
		"2007-01-31T00:00:00.000Z/2007-03-03T00:00:00.000Z",
	}
	for i, ev := range events {
		assert.Equal(t, in[i].UID, ev.UID)
		iv, err := ev.Interval()
		require.NoError(t, err)
		assert.Equal(t, want[i], iv.ISOString())
	}

	rec, err := events[0].Recurrence()
	require.NoError(t, err)
	assert.Equal(t, "R4/2007-03-01T09:00:00.000Z/P14D", rec.ISOString())
}

func TestExportCalendar_FixedLengthRoundTrip(t *testing.T) {
	tests := []struct {
		in       string
		property string
	}{
		{in: "2021-02-01T00:00:00Z/P40D", property: "DURATION:P40D"},
		{in: "2021-02-01T00:00:00Z/P6W", property: "DURATION:P42D"},
		{in: "2021-02-01T00:00:00Z/P30DT1H30M", property: "DURATION:P30DT1H30M"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			iv := interval.MustParse(tt.in)
			body, err := ExportCalendar([]ExportEvent{{UID: "long", Interval: iv}})
			require.NoError(t, err)
			assert.Contains(t, body, tt.property)
			assert.NotContains(t, body, "DURATION:P1M")

			events, err := ParseICS(testSource, []byte(body))
			require.NoError(t, err)
			require.Len(t, events, 1)

			start := iv.Start().Time()
			end, err := events[0].EndAt(start)
			require.NoError(t, err)
			assert.Equal(t, iv.End().Duration().AddTo(start), end)
		})
	}
}

func TestICalDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "PT0S"},
		{in: 500 * time.Millisecond, want: "PT0S"},
		{in: 90 * time.Second, want: "PT1M30S"},
		{in: 2 * time.Hour, want: "PT2H"},
		{in: 24 * time.Hour, want: "P1D"},
		{in: 40 * 24 * time.Hour, want: "P40D"},
		{in: 49*time.Hour + 5*time.Second, want: "P2DT1H5S"},
		{in: -36 * time.Hour, want: "-P1DT12H"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, icalDuration(tt.in))
		})
	}
}

func TestExportCalendar_Stamp(t *testing.T) {
	stamp := time.Date(2020, time.May, 5, 5, 5, 5, 0, time.UTC)
	body, err := ExportCalendar([]ExportEvent{
		{UID: "a", Interval: interval.MustParse("2007-03-01T09:00:00Z/PT1H"), Stamp: stamp},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "DTSTAMP:20200505T050505Z")
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
}

func TestExportCalendar_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		iv   *interval.Interval
		kind isoerr.Kind
	}{
		{name: "duration start", iv: interval.MustParse("P1D/2007-03-01T00:00:00Z"), kind: isoerr.UnsupportedCombination},
		{name: "missing interval", iv: nil, kind: isoerr.UnsupportedCombination},
		{name: "repeating instants", iv: interval.MustParse("R2/2007-03-01T00:00:00Z/2007-03-02T00:00:00Z"), kind: isoerr.UnsupportedCombination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExportCalendar([]ExportEvent{{UID: "x", Interval: tt.iv}})
			assert.True(t, errors.Is(err, tt.kind), "%v", err)
		})
	}
}
