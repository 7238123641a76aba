package interval

import (
	"strconv"
	"strings"

	"timeduration/internal/duration"
	"timeduration/internal/isoerr"
)

// Parse parses an interval literal of the form
//
//	[R[n](/|--)]start[(/|--)end]
//
// Each endpoint is a point in time or a duration in any of the three
// duration grammars.
func Parse(s string) (*Interval, error) {
	iv, err := parse(s)
	if err != nil {
		if e, ok := err.(*isoerr.Error); ok && e.Input == "" {
			e.Input = s
		}
		return nil, err
	}
	return iv, nil
}

func parse(s string) (*Interval, error) {
	count, prefixSep, rest, err := splitRepetition(s)
	if err != nil {
		return nil, err
	}

	sep := prefixSep
	if sep != "" {
		if other := otherSeparator(sep); strings.Contains(rest, other) {
			return nil, isoerr.New(isoerr.DesignatorMismatch, "mixed interval designators", "")
		}
	} else {
		sep = detectSeparator(rest)
	}

	startText, endText := rest, ""
	if sep != "" {
		if strings.Count(rest, sep) > 1 {
			return nil, isoerr.New(isoerr.GrammarMismatch, "too many interval endpoints", "")
		}
		if i := strings.Index(rest, sep); i >= 0 {
			startText, endText = rest[:i], rest[i+len(sep):]
			if endText == "" {
				return nil, isoerr.New(isoerr.GrammarMismatch, "empty interval end", "")
			}
		}
	}

	start, err := classify(startText)
	if err != nil {
		return nil, err
	}
	end := None()
	if endText != "" {
		if end, err = classify(endText); err != nil {
			return nil, err
		}
	}
	if err := validate(start, end); err != nil {
		return nil, err
	}

	if sep == "" {
		sep = Solidus
	}
	return &Interval{start: start, end: end, designator: sep, count: count}, nil
}

// splitRepetition strips an optional R[n] prefix and its separator. The
// count is 0 without a prefix and -1 for a bare R.
func splitRepetition(s string) (count int, sep, rest string, err error) {
	if !strings.HasPrefix(s, "R") {
		return Once, "", s, nil
	}

	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	count = Unbounded
	if i > 1 {
		if count, err = strconv.Atoi(s[1:i]); err != nil {
			return 0, "", "", isoerr.Wrap(isoerr.GrammarMismatch, err, "invalid repetition count", "")
		}
	}

	switch {
	case strings.HasPrefix(s[i:], DoubleHyphen):
		sep = DoubleHyphen
	case strings.HasPrefix(s[i:], Solidus):
		sep = Solidus
	default:
		return 0, "", "", isoerr.New(isoerr.GrammarMismatch, "repetition prefix must be followed by \"/\" or \"--\"", "")
	}
	return count, sep, s[i+len(sep):], nil
}

func otherSeparator(sep string) string {
	if sep == Solidus {
		return DoubleHyphen
	}
	return Solidus
}

// detectSeparator picks whichever separator occurs first in s, or "" when
// s holds a single endpoint.
func detectSeparator(s string) string {
	slash := strings.Index(s, Solidus)
	hyphens := strings.Index(s, DoubleHyphen)
	switch {
	case slash < 0 && hyphens < 0:
		return ""
	case hyphens < 0 || (slash >= 0 && slash < hyphens):
		return Solidus
	}
	return DoubleHyphen
}

// classify turns endpoint text into an Endpoint, trying the point in time
// grammar before the duration grammars.
func classify(text string) (Endpoint, error) {
	if text == "" {
		return Endpoint{}, isoerr.New(isoerr.GrammarMismatch, "empty interval endpoint", "")
	}
	if t, err := duration.ParseInstant(text); err == nil {
		return At(t), nil
	}
	d, err := duration.ParseLiteral(text)
	if err != nil {
		if isoerr.KindOf(err) == isoerr.GrammarMismatch {
			return Endpoint{}, isoerr.New(isoerr.GrammarMismatch, "endpoint is neither a point in time nor a duration", text)
		}
		return Endpoint{}, err
	}
	return Span(d), nil
}
