package duration

import (
	"strconv"
	"strings"
)

// Fields is the calendar view the formatters read.
type Fields interface {
	UTCFullYear() int
	UTCMonth() int
	UTCDate() int
	UTCHours() int
	UTCMinutes() int
	UTCSeconds() int
}

// FormatDate returns the nYnMnD part of a designator form duration. A
// component that is zero or negative is omitted; the result may be empty.
func FormatDate(f Fields) string {
	var b strings.Builder
	writePart(&b, f.UTCFullYear(), 'Y')
	writePart(&b, f.UTCMonth(), 'M')
	writePart(&b, f.UTCDate(), 'D')
	return b.String()
}

// FormatTime returns the TnHnMnS part of a designator form duration, or ""
// when hours, minutes and seconds are all zero or negative.
func FormatTime(f Fields) string {
	h, m, s := f.UTCHours(), f.UTCMinutes(), f.UTCSeconds()
	if h <= 0 && m <= 0 && s <= 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('T')
	writePart(&b, h, 'H')
	writePart(&b, m, 'M')
	writePart(&b, s, 'S')
	return b.String()
}

func writePart(b *strings.Builder, v int, designator byte) {
	if v <= 0 {
		return
	}
	b.WriteString(strconv.Itoa(v))
	b.WriteByte(designator)
}

// magnitude is d with its sign dropped.
func (d Duration) magnitude() Duration {
	m := d
	if d.set {
		m.acc = d.abs
	}
	m.negative = false
	return m
}

// withSign prefixes body with 'P' and, for a negative non-zero d, '-'.
// Zero bodies are replaced by fallback and never signed.
func (d Duration) withSign(body, fallback string) string {
	if body == "" {
		return "P" + fallback
	}
	if d.negative {
		return "-P" + body
	}
	return "P" + body
}

// ISOString formats d in designator form, e.g. P38Y10M20DT18H56M31S.
// Negative durations are prefixed with '-'. Milliseconds are not emitted.
func (d Duration) ISOString() string {
	m := d.magnitude()
	return d.withSign(FormatDate(m)+FormatTime(m), "0D")
}

// DateString formats only the year, month and day components.
func (d Duration) DateString() string {
	return d.withSign(FormatDate(d.magnitude()), "0D")
}

// TimeString formats only the hour, minute and second components.
func (d Duration) TimeString() string {
	return d.withSign(FormatTime(d.magnitude()), "T0S")
}

func (d Duration) String() string {
	return d.ISOString()
}
