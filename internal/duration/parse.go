package duration

import (
	"strconv"
	"strings"
	"time"

	"timeduration/internal/isoerr"
)

// Form identifies which duration grammar a literal was written in.
type Form int

const (
	// FormNone marks values that were not parsed from a duration literal.
	FormNone Form = iota
	// FormNormal is the designator form PnYnMnDTnHnMnS or PnW.
	FormNormal
	// FormBasic is PYYYYMMDDTHHMMSS[.fraction].
	FormBasic
	// FormExtended is PYYYY-MM-DDTHH:MM:SS[.fraction].
	FormExtended
)

func (f Form) String() string {
	switch f {
	case FormNormal:
		return "normal"
	case FormBasic:
		return "basic"
	case FormExtended:
		return "extended"
	}
	return "none"
}

// literal is the outcome of a successful grammar attempt.
type literal struct {
	form     Form
	negative bool
	deltas   []Delta
	// fields holds year, month, day, hour, minute, second, millisecond of
	// the positional forms.
	fields [7]int
}

// grammar is one parse attempt. matched is false when the text is not in
// this grammar at all; err is only set for text that is in the grammar but
// violates one of its rules.
type grammar func(body string, negative bool) (lit literal, matched bool, err error)

// grammars are tried in this order; the first match wins.
var grammars = []grammar{parseNormal, parseBasic, parseExtended}

// parseLiteral runs the grammar attempts over s.
func parseLiteral(s string) (literal, error) {
	body, negative := splitSign(s)
	if !strings.HasPrefix(body, "P") {
		return literal{}, isoerr.New(isoerr.GrammarMismatch, "duration must start with P", s)
	}
	body = body[1:]

	for _, g := range grammars {
		lit, matched, err := g(body, negative)
		if err != nil {
			err.(*isoerr.Error).Input = s
			return literal{}, err
		}
		if matched {
			return lit, nil
		}
	}
	return literal{}, isoerr.New(isoerr.GrammarMismatch, "not a basic, extended or designator duration", s)
}

// splitSign strips a leading '+', '-' or U+2212 MINUS SIGN.
func splitSign(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "+"):
		return s[1:], false
	case strings.HasPrefix(s, "-"):
		return s[1:], true
	case strings.HasPrefix(s, "−"):
		return s[len("−"):], true
	}
	return s, false
}

// Designator letters per section. 'M' is a month before the 'T' marker and
// a minute after it.
var dateDesignators = map[byte]Unit{'Y': Year, 'M': Month, 'W': Week, 'D': Day}
var timeDesignators = map[byte]Unit{'H': Hour, 'M': Minute, 'S': Second}

func parseNormal(body string, negative bool) (literal, bool, error) {
	lit := literal{form: FormNormal, negative: negative}
	if body == "" {
		return lit, false, nil
	}

	inTime := false
	timeSeen := false
	last := Unit(-1)
	for len(body) > 0 {
		if body[0] == 'T' {
			if inTime {
				return lit, false, nil
			}
			inTime = true
			body = body[1:]
			continue
		}
		n, designator, consumed, ok := consumeN(body)
		if !ok {
			return lit, false, nil
		}
		body = body[consumed:]

		table := dateDesignators
		if inTime {
			table = timeDesignators
		}
		unit, known := table[designator]
		if !known {
			if strings.IndexByte("YMWDHS", designator) >= 0 {
				// A real designator in the wrong section.
				return lit, false, nil
			}
			return lit, false, isoerr.New(isoerr.UnknownUnitDesignator,
				"unexpected duration designator '"+string(designator)+"'", "")
		}
		if unit <= last {
			return lit, false, nil
		}
		last = unit
		if inTime {
			timeSeen = true
		}
		lit.deltas = append(lit.deltas, Delta{Unit: unit, Quantity: n})
	}

	if len(lit.deltas) == 0 || (inTime && !timeSeen) {
		return lit, false, nil
	}
	for _, d := range lit.deltas {
		if d.Unit == Week && len(lit.deltas) > 1 {
			return lit, false, nil
		}
	}
	for _, d := range lit.deltas[:len(lit.deltas)-1] {
		if d.Quantity != float64(int64(d.Quantity)) {
			return lit, false, isoerr.New(isoerr.FractionPlacementViolation,
				"only the smallest unit may have a decimal fraction, got "+d.String(), "")
		}
	}
	return lit, true, nil
}

// consumeN reads a decimal quantity and the designator letter after it.
// The fractional separator is either '.' or ','.
func consumeN(s string) (float64, byte, int, bool) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return 0, 0, 0, false
	}
	if i < len(s) && (s[i] == '.' || s[i] == ',') {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j == i+1 {
			return 0, 0, 0, false
		}
		i = j
	}
	if i >= len(s) || !isLetter(s[i]) || s[i] == 'T' {
		return 0, 0, 0, false
	}
	n, err := strconv.ParseFloat(strings.Replace(s[:i], ",", ".", 1), 64)
	if err != nil {
		return 0, 0, 0, false
	}
	return n, s[i], i + 1, true
}

func parseBasic(body string, negative bool) (literal, bool, error) {
	return parsePositional(FormBasic, body, negative, "########T######")
}

func parseExtended(body string, negative bool) (literal, bool, error) {
	return parsePositional(FormExtended, body, negative, "####-##-##T##:##:##")
}

// positionalWidths are the digit counts of year, month, day, hour, minute
// and second in both positional forms.
var positionalWidths = [6]int{4, 2, 2, 2, 2, 2}

// parsePositional matches body against pattern, where '#' is a digit and
// any other byte must appear literally, then reads the six fixed-width
// fields and an optional fraction of a second.
func parsePositional(form Form, body string, negative bool, pattern string) (literal, bool, error) {
	lit := literal{form: form, negative: negative}
	if len(body) < len(pattern) {
		return lit, false, nil
	}
	digits := make([]byte, 0, 14)
	for i := 0; i < len(pattern); i++ {
		switch {
		case pattern[i] == '#' && isDigit(body[i]):
			digits = append(digits, body[i])
		case pattern[i] != '#' && body[i] == pattern[i]:
		default:
			return lit, false, nil
		}
	}
	body = body[len(pattern):]

	// The pattern guarantees all six whole fields are present.
	for i, w := range positionalWidths {
		lit.fields[i], _ = strconv.Atoi(string(digits[:w]))
		digits = digits[w:]
	}
	if body != "" {
		if body[0] != '.' && body[0] != ',' {
			return lit, false, nil
		}
		frac := body[1:]
		if frac == "" || !allDigits(frac) {
			return lit, false, nil
		}
		f, err := strconv.ParseFloat("0."+frac, 64)
		if err != nil {
			return lit, false, nil
		}
		lit.fields[6] = int(time.Duration(f * float64(time.Second)).Round(time.Millisecond).Milliseconds())
	}

	units := [...]Unit{Year, Month, Day, Hour, Minute, Second, Millisecond}
	for i, u := range units {
		if lit.fields[i] != 0 || i < 6 {
			lit.deltas = append(lit.deltas, Delta{Unit: u, Quantity: float64(lit.fields[i])})
		}
	}
	return lit, true, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// instantLayouts is the point-in-time grammar
// YYYY-MM-DDTHH:MM:SS[.fraction][zone]. A missing zone means UTC.
// time.Parse accepts a '.' or ',' fraction after the seconds field even
// when the layout does not name one.
var instantLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseInstant parses an absolute point in time. The result is in UTC.
func ParseInstant(s string) (time.Time, error) {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, isoerr.New(isoerr.GrammarMismatch, "not a point in time", s)
}
