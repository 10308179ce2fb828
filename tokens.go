package routematch

import (
	"strconv"
	"strings"
)

// Token is a parse-time token produced by Parse.
type Token struct {
	Kind TokenKind
	// Offset is the byte offset of the token in the matcher string.
	Offset int
	// Text is the literal text of a TokenLiteral, or the key of a TokenQueryCapture.
	Text string
	// Capture is set for TokenCapture, and for TokenQueryCapture when ValueIsCapture is true.
	Capture CaptureVariant
	// Value is the literal value of a TokenQueryCapture.
	Value          string
	ValueIsCapture bool
	// Tokens holds the content of a TokenOptional group.
	Tokens []Token
}

type TokenKind uint8

const (
	// TokenSeparator represents a U+002F (/) code point.
	TokenSeparator TokenKind = iota
	// TokenLiteral represents a run of code points without any special syntactical meaning.
	TokenLiteral
	// TokenCapture represents a capture block delimited by "{" and "}".
	TokenCapture
	// TokenQueryBegin represents a U+003F (?) code point.
	TokenQueryBegin
	// TokenQuerySeparator represents a U+0026 (&) code point.
	TokenQuerySeparator
	// TokenQueryCapture represents a "key=value" or "key={capture}" query pair.
	TokenQueryCapture
	// TokenFragmentBegin represents a U+0023 (#) code point.
	TokenFragmentBegin
	// TokenEnd represents a U+0021 (!) code point forcing an exact end of input.
	TokenEnd
	// TokenOptional represents a group delimited by "(" and ")" that may be absent.
	TokenOptional
)

func (k TokenKind) String() string {
	switch k {
	case TokenSeparator:
		return "separator"
	case TokenLiteral:
		return "literal"
	case TokenCapture:
		return "capture"
	case TokenQueryBegin:
		return "query begin"
	case TokenQuerySeparator:
		return "query separator"
	case TokenQueryCapture:
		return "query pair"
	case TokenFragmentBegin:
		return "fragment begin"
	case TokenEnd:
		return "end"
	case TokenOptional:
		return "optional"
	}

	return "unknown"
}

type CaptureKind uint8

const (
	// CaptureUnnamed matches a single path segment and discards it: "{}".
	CaptureUnnamed CaptureKind = iota
	// CaptureManyUnnamed matches any number of path segments and discards them: "{*}".
	CaptureManyUnnamed
	// CaptureNumberedUnnamed matches exactly Count path segments and discards them: "{3}".
	CaptureNumberedUnnamed
	// CaptureNamed matches a single path segment: "{name}".
	CaptureNamed
	// CaptureManyNamed matches any number of path segments: "{*:name}".
	CaptureManyNamed
	// CaptureNumberedNamed matches exactly Count path segments: "{3:name}".
	CaptureNumberedNamed
)

// CaptureVariant describes what a capture block matches and where it stores the result.
type CaptureVariant struct {
	Kind  CaptureKind
	Name  string
	Count int
}

// Named reports whether the captured text is stored under a name.
func (c CaptureVariant) Named() bool {
	return c.Kind == CaptureNamed || c.Kind == CaptureManyNamed || c.Kind == CaptureNumberedNamed
}

func (c CaptureVariant) many() bool {
	return c.Kind == CaptureManyNamed || c.Kind == CaptureManyUnnamed
}

func (c CaptureVariant) numbered() bool {
	return c.Kind == CaptureNumberedNamed || c.Kind == CaptureNumberedUnnamed
}

// String returns the capture block as it is written in a matcher string.
func (c CaptureVariant) String() string {
	var b strings.Builder
	b.WriteByte('{')

	switch c.Kind {
	case CaptureManyUnnamed:
		b.WriteByte('*')
	case CaptureManyNamed:
		b.WriteString("*:")
		b.WriteString(c.Name)
	case CaptureNumberedUnnamed:
		b.WriteString(strconv.Itoa(c.Count))
	case CaptureNumberedNamed:
		b.WriteString(strconv.Itoa(c.Count))
		b.WriteByte(':')
		b.WriteString(c.Name)
	case CaptureNamed:
		b.WriteString(c.Name)
	}

	b.WriteByte('}')

	return b.String()
}

// MatcherToken is an instruction of an optimized matcher program.
type MatcherToken struct {
	Kind MatcherTokenKind
	// Literal is the text an Exact token must match.
	Literal string
	Capture CaptureVariant
	// Index is the position of a capture among all captures of the pattern, in declaration order.
	Index int
	// Tokens holds the sub-program of an Optional token.
	Tokens []MatcherToken
}

type MatcherTokenKind uint8

const (
	MatcherExact MatcherTokenKind = iota
	MatcherCapture
	MatcherOptional
	MatcherEnd
)

func (t MatcherToken) String() string {
	switch t.Kind {
	case MatcherExact:
		return strconv.Quote(t.Literal)
	case MatcherCapture:
		return t.Capture.String()
	case MatcherOptional:
		parts := make([]string, len(t.Tokens))
		for i, sub := range t.Tokens {
			parts[i] = sub.String()
		}

		return "(" + strings.Join(parts, " ") + ")"
	case MatcherEnd:
		return "!"
	}

	return "?"
}
