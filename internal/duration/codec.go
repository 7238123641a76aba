package duration

import (
	"gopkg.in/yaml.v3"

	"timeduration/internal/isoerr"
)

// InstantLayout is how point-in-time values are written back out.
const InstantLayout = "2006-01-02T15:04:05.000Z"

// MarshalText implements encoding.TextMarshaler. Durations are written in
// designator form; values that wrap a point in time keep their instant form.
func (d Duration) MarshalText() ([]byte, error) {
	if d.instant {
		return []byte(d.acc.Format(InstantLayout)), nil
	}
	return []byte(d.ISOString()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only a zero Duration
// may be decoded into.
func (d *Duration) UnmarshalText(text []byte) error {
	if d.set {
		return isoerr.New(isoerr.ImmutabilityViolation, "duration is already set", string(text))
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	if d.IsZero() {
		return nil, nil
	}
	text, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	return d.UnmarshalText([]byte(s))
}
