package routematch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dunglas/whatwg-url/url"
)

var (
	MissingCaptureValueError = errors.New("missing capture value")
	InvalidCaptureValueError = errors.New("invalid capture value")
)

type section uint8

const (
	sectionPath section = iota
	sectionQuery
	sectionFragment
)

// Characters a capture cannot contain, and '%' so that encoded values decode back unchanged.
var captureReservedBytes = []uint{'%', '?', '&', '#', '=', '{', '}'}

// captureEncodeSets holds, per section, the percent-encode sets of single-segment captures
// and of captures spanning several segments, which keep their '/'.
var captureEncodeSets = [...][2]*url.PercentEncodeSet{
	sectionPath: {
		url.PathPercentEncodeSet.Set(append(captureReservedBytes, '/')...),
		url.PathPercentEncodeSet.Set(captureReservedBytes...),
	},
	sectionQuery: {
		url.QueryPercentEncodeSet.Set(append(captureReservedBytes, '/')...),
		url.QueryPercentEncodeSet.Set(captureReservedBytes...),
	},
	sectionFragment: {
		url.FragmentPercentEncodeSet.Set(append(captureReservedBytes, '/')...),
		url.FragmentPercentEncodeSet.Set(captureReservedBytes...),
	},
}

type expander struct {
	values map[string]string
	// escaped lists the keys of values that are already encoded.
	escaped map[string]bool
	section section
	emitted Captures
}

// Expand builds a string matched by m from plain capture values.
//
// Named captures take their value from values[name]; any capture, named or not, can also be
// given by its declaration index formatted in decimal ("0", "1"...).
// Values are percent-encoded for the section of the URL they appear in, together with '%' and
// the characters a capture cannot contain ('/' too, except in {*} and {N} captures): Match
// captures the encoded form, which percent-decodes back to the value.
// Optional groups are only emitted when they contain captures and all of them have a value.
func (m *Matcher) Expand(values map[string]string) (string, error) {
	return m.expand(values, nil)
}

func (m *Matcher) expand(values map[string]string, escaped map[string]bool) (string, error) {
	e := expander{values: values, escaped: escaped}

	var b strings.Builder
	if err := e.expand(&b, m.program); err != nil {
		return "", err
	}

	result := b.String()

	captures, ok := m.Match(result)
	if !ok {
		return "", fmt.Errorf("%w: %q would not match %q", InvalidCaptureValueError, result, m.pattern)
	}
	for _, p := range e.emitted {
		if v, _ := captures.At(p.Index); v != p.Value {
			return "", fmt.Errorf("%w: capture %d would match %q instead of %q", InvalidCaptureValueError, p.Index, v, p.Value)
		}
	}

	return result, nil
}

func (e *expander) expand(b *strings.Builder, program []MatcherToken) error {
	for _, token := range program {
		switch token.Kind {
		case MatcherExact:
			b.WriteString(token.Literal)
			if strings.Contains(token.Literal, "#") {
				e.section = sectionFragment
			} else if strings.Contains(token.Literal, "?") && e.section == sectionPath {
				e.section = sectionQuery
			}

		case MatcherCapture:
			value, err := e.captureValue(token)
			if err != nil {
				return err
			}
			b.WriteString(value)
			e.emitted = append(e.emitted, Param{Index: token.Index, Name: token.Capture.Name, Value: value})

		case MatcherOptional:
			if !hasCapture(token.Tokens) {
				continue
			}

			saved := *e
			saved.emitted = append(Captures(nil), e.emitted...)

			var group strings.Builder
			err := e.expand(&group, token.Tokens)
			if errors.Is(err, MissingCaptureValueError) {
				*e = saved

				continue
			}
			if err != nil {
				return err
			}

			b.WriteString(group.String())
		}
	}

	return nil
}

func (e *expander) captureValue(token MatcherToken) (string, error) {
	c := token.Capture

	key := strconv.Itoa(token.Index)
	value, ok := e.values[key]
	if c.Named() {
		if v, found := e.values[c.Name]; found {
			key, value, ok = c.Name, v, true
		}
	}

	if !ok {
		if c.Named() {
			return "", fmt.Errorf("%w: %q", MissingCaptureValueError, c.Name)
		}

		return "", fmt.Errorf("%w: capture %d", MissingCaptureValueError, token.Index)
	}

	encoded := value
	if !e.escaped[key] {
		sets := captureEncodeSets[e.section]
		encodeSet := sets[0]
		if c.many() || c.numbered() {
			encodeSet = sets[1]
		}
		encoded = urlParser.PercentEncodeString(value, encodeSet)
	}

	if !validCaptureValue(c, encoded) {
		return "", fmt.Errorf("%w: %q cannot be matched by %s", InvalidCaptureValueError, value, c)
	}

	return encoded, nil
}

func validCaptureValue(c CaptureVariant, value string) bool {
	switch {
	case c.many():
		return validCapturePrefix(value, true) == len(value)
	case c.numbered():
		segments := strings.Split(value, "/")
		if len(segments) != c.Count {
			return false
		}
		for _, s := range segments {
			if s == "" || validCapturePrefix(s, false) != len(s) {
				return false
			}
		}

		return true
	}

	return value != "" && validCapturePrefix(value, false) == len(value)
}

func hasCapture(program []MatcherToken) bool {
	for _, token := range program {
		if token.Kind == MatcherCapture || (token.Kind == MatcherOptional && hasCapture(token.Tokens)) {
			return true
		}
	}

	return false
}
