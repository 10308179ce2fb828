// Package routematch implements a small route-matching language.
//
// A matcher string such as "/users/{id}/posts/{*:rest}?sort={order}#{anchor}" is parsed,
// validated by an explicit grammar automaton, optimized into a condensed token program
// and matched against concrete URL-like strings by a linear, backtracking-free capture engine.
//
// Syntax:
//
//	/segment      literal text
//	{name} {}     a single path segment, named or discarded
//	{*:name} {*}  any number of path segments
//	{3:name} {3}  exactly three path segments
//	( ... )       an optional group
//	?k=v&k={v}    query pairs, with literal or captured values
//	#literal      fragment
//	!             the input must end here
//
// Switch builds on compiled matchers to map an input to the first declared route variant that
// matches and whose fields can be bound from the captures.
package routematch

import (
	"strings"

	"github.com/dunglas/whatwg-url/url"
)

var urlParser = url.NewParser()

// Matcher is a compiled matcher string. It is immutable and safe for concurrent use.
type Matcher struct {
	pattern string
	options Options
	program []MatcherToken
	names   []string
	count   int
}

// Compile parses and optimizes a matcher string.
// The returned error is a *ParseError when the matcher string is malformed.
func Compile(pattern string, options Options) (*Matcher, error) {
	tokens, err := Parse(pattern)
	if err != nil {
		return nil, err
	}

	if !options.Strict {
		tokens = withOptionalTrailingSlash(tokens)
	}

	m := &Matcher{
		pattern: pattern,
		options: options,
		program: Optimize(tokens),
	}
	m.collectCaptures(m.program)

	return m, nil
}

// MustCompile is like Compile but panics if the matcher string cannot be parsed.
func MustCompile(pattern string, options Options) *Matcher {
	m, err := Compile(pattern, options)
	if err != nil {
		panic(err)
	}

	return m
}

func (m *Matcher) collectCaptures(program []MatcherToken) {
	for _, token := range program {
		switch token.Kind {
		case MatcherCapture:
			m.count++
			if token.Capture.Named() {
				m.names = append(m.names, token.Capture.Name)
			}
		case MatcherOptional:
			m.collectCaptures(token.Tokens)
		}
	}
}

// String returns the matcher string the matcher was compiled from.
func (m *Matcher) String() string {
	return m.pattern
}

// Options returns the options the matcher was compiled with.
func (m *Matcher) Options() Options {
	return m.options
}

// Program returns the optimized token program. It must not be modified.
func (m *Matcher) Program() []MatcherToken {
	return m.program
}

// CaptureNames returns the names of all named captures, in declaration order.
// It allows verifying statically that a bound structure can be populated.
func (m *Matcher) CaptureNames() []string {
	return append([]string(nil), m.names...)
}

// NumCaptures returns the number of captures of the pattern, named or not.
func (m *Matcher) NumCaptures() int {
	return m.count
}

// Match matches input against the program.
// It reports false when the input does not match: this is not an error condition.
func (m *Matcher) Match(input string) (Captures, bool) {
	mt := matcher{options: m.options, captures: make(Captures, 0, m.count)}

	rest, ok := mt.matchTokens(m.program, input)
	if !ok {
		return nil, false
	}

	if !m.options.Incomplete && rest != "" {
		return nil, false
	}

	return mt.captures, true
}

// MatchURL parses rawURL with the WHATWG URL parser and matches its path, query and fragment.
// rawURL is either an absolute URL or a path starting with a slash.
// The error is only set when rawURL cannot be parsed.
func (m *Matcher) MatchURL(rawURL string) (Captures, bool, error) {
	input, err := urlInput(rawURL)
	if err != nil {
		return nil, false, err
	}

	c, ok := m.Match(input)

	return c, ok, nil
}

// urlInput returns the canonical path, query and fragment of rawURL.
func urlInput(rawURL string) (string, error) {
	if strings.HasPrefix(rawURL, "/") && !strings.HasPrefix(rawURL, "//") {
		rawURL = "http://dummy.test" + rawURL
	}

	u, err := urlParser.Parse(rawURL)
	if err != nil {
		return "", err
	}

	var input strings.Builder
	input.WriteString(u.Pathname())
	if q := u.Query(); q != "" {
		input.WriteByte('?')
		input.WriteString(q)
	}
	if f := u.Fragment(); f != "" {
		input.WriteByte('#')
		input.WriteString(f)
	}

	return input.String(), nil
}
