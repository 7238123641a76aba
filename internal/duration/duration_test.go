package duration

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"timeduration/internal/isoerr"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		deltas   []Delta
		negative bool
		want     int64
	}{
		{name: "empty", want: 0},
		{name: "one year", deltas: []Delta{{Year, 1}}, want: 365 * msPerDay},
		{name: "leap year", deltas: []Delta{{Year, 2}, {Year, 1}}, want: (365 + 365 + 366) * msPerDay},
		{name: "january", deltas: []Delta{{Month, 1}}, want: 31 * msPerDay},
		{name: "month then days rolls into march", deltas: []Delta{{Month, 1}, {Day, 30}}, want: 61 * msPerDay},
		{name: "week", deltas: []Delta{{Week, 3}}, want: 21 * msPerDay},
		{name: "negated", deltas: []Delta{{Day, 1}}, negative: true, want: -msPerDay},
		{name: "milliseconds", deltas: []Delta{{Second, 1}, {Millisecond, 5}}, want: 1005},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.deltas, tt.negative))
		})
	}
}

func TestEvaluate_Concurrent(t *testing.T) {
	deltas := []Delta{{Year, 38}, {Month, 10}, {Day, 20}, {Hour, 18}, {Minute, 56}, {Second, 31}}
	want := Evaluate(deltas, false)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Evaluate(deltas, false))
		}()
	}
	wg.Wait()
}

func TestDuration_Accessors(t *testing.T) {
	zero, err := Parse("P0D")
	require.NoError(t, err)
	assert.Equal(t, 0, zero.FullYear())
	assert.Equal(t, 0, zero.Month())
	assert.Equal(t, 0, zero.Date())
	assert.Equal(t, 0, zero.UTCDate())
	assert.Equal(t, 0, zero.Hours())
	assert.Equal(t, 0, zero.TimezoneOffset())
	assert.Equal(t, int(time.Thursday), zero.Day())

	d, err := Parse("P3W")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, d.WeeksOfYear(), 1e-9)
	assert.Equal(t, 21, d.Date())
	assert.Equal(t, 21*24*time.Hour, d.Std())
}

func TestDuration_DeltasAreCopied(t *testing.T) {
	d, err := Parse("P1Y2M")
	require.NoError(t, err)

	deltas := d.Deltas()
	deltas[0].Quantity = 99

	assert.Equal(t, float64(1), d.Deltas()[0].Quantity)
	assert.Equal(t, 1, d.FullYear())
}

func TestFromFields(t *testing.T) {
	d := FromFields(2016, 7, 22, 10, 27, 13)
	assert.True(t, d.IsInstant())
	assert.Equal(t, time.Date(2016, time.August, 22, 10, 27, 13, 0, time.UTC), d.Time())

	yearOnly := FromFields(2000, 0)
	assert.Equal(t, time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC), yearOnly.Time())
}

func TestDuration_Compare(t *testing.T) {
	month := MustParse("P1M")
	days := MustParse("P30D")

	assert.Equal(t, 1, month.Compare(days))
	assert.Equal(t, -1, days.Compare(month))
	assert.True(t, MustParse("PT60M").Equal(MustParse("PT1H")))
	assert.True(t, Duration{}.IsZero())
	assert.Equal(t, int64(0), Duration{}.UnixMilli())
}

type window struct {
	Step Duration `yaml:"step"`
	At   Duration `yaml:"at"`
}

func TestDuration_YAML(t *testing.T) {
	var w window
	require.NoError(t, yaml.Unmarshal([]byte("step: P1DT12H\nat: 2007-03-01T13:00:00Z\n"), &w))

	assert.Equal(t, int64(36*60*60*1000), w.Step.UnixMilli())
	assert.True(t, w.At.IsInstant())

	out, err := yaml.Marshal(w)
	require.NoError(t, err)
	assert.Equal(t, "step: P1DT12H\nat: \"2007-03-01T13:00:00.000Z\"\n", string(out))
}

func TestDuration_UnmarshalTextImmutable(t *testing.T) {
	d := MustParse("P1D")
	err := d.UnmarshalText([]byte("P2D"))
	assert.True(t, errors.Is(err, isoerr.ImmutabilityViolation))
	assert.Equal(t, "P1D", d.ISOString())

	var fresh Duration
	require.NoError(t, fresh.UnmarshalText([]byte("P2D")))
	assert.Equal(t, "P2D", fresh.ISOString())

	text, err := fresh.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "P2D", string(text))
}

func TestDuration_AddTo(t *testing.T) {
	jan31 := time.Date(2007, time.January, 31, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "P1M", want: time.Date(2007, time.March, 3, 9, 0, 0, 0, time.UTC)},
		{in: "P1DT2H", want: time.Date(2007, time.February, 1, 11, 0, 0, 0, time.UTC)},
		{in: "P2W", want: time.Date(2007, time.February, 14, 9, 0, 0, 0, time.UTC)},
		{in: "-P1D", want: time.Date(2007, time.January, 30, 9, 0, 0, 0, time.UTC)},
		{in: "PT1.5H", want: time.Date(2007, time.January, 31, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.in).AddTo(jan31))
		})
	}

	assert.Equal(t, jan31.Add(90*time.Minute), FromMillis(90*60*1000).AddTo(jan31))

	loc := time.FixedZone("KST", 9*60*60)
	local := time.Date(2007, time.January, 31, 9, 0, 0, 0, loc)
	assert.Equal(t, loc, MustParse("P1D").AddTo(local).Location())
}

func TestDuration_HasCalendarUnits(t *testing.T) {
	assert.True(t, MustParse("P1Y").HasCalendarUnits())
	assert.True(t, MustParse("P0001-00-00T00:00:00").HasCalendarUnits())
	assert.False(t, MustParse("P0000-00-01T00:00:00").HasCalendarUnits())
	assert.False(t, MustParse("P2W").HasCalendarUnits())
	assert.False(t, FromMillis(1000).HasCalendarUnits())
}
