package routematch

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/utf8string"
)

// tokenizer holds the lexical cursor over a matcher string together with the grammar automaton
// every recognized token is fed through.
type tokenizer struct {
	input     *utf8string.String
	len       int
	index     int
	codePoint rune
	state     grammarState
	depth     int
	names     map[string]struct{}
}

func newTokenizer(pattern string) *tokenizer {
	input := utf8string.NewString(pattern)

	return &tokenizer{
		input: input,
		len:   input.RuneCount(),
		names: make(map[string]struct{}),
	}
}

// offset converts a code point index to a byte offset.
func (t *tokenizer) offset(index int) int {
	if index >= t.len {
		return len(t.input.String())
	}

	return len(t.input.Slice(0, index))
}

func (t *tokenizer) peek() (rune, bool) {
	if t.index >= t.len {
		return 0, false
	}

	t.codePoint = t.input.At(t.index)

	return t.codePoint, true
}

func (t *tokenizer) errorAt(index int, reason error, expected ...ExpectedToken) *ParseError {
	return &ParseError{
		Input:    t.input.String(),
		Offset:   t.offset(index),
		Expected: expected,
		Reason:   reason,
	}
}

// feed runs a token of kind k starting at index through the grammar automaton.
func (t *tokenizer) feed(k TokenKind, index int) error {
	next, err := t.state.transition(k)
	if err != nil {
		return t.errorAt(index, err, t.state.expected(t.depth > 0)...)
	}

	t.state = next

	return nil
}

// scanLiteral consumes a run of code points without special meaning.
func (t *tokenizer) scanLiteral() string {
	start := t.index
	for t.index < t.len {
		c := t.input.At(t.index)
		if c < utf8.RuneSelf && reservedPattern(byte(c)) {
			break
		}
		t.index++
	}

	return t.input.Slice(start, t.index)
}

// scanCapture consumes a capture block, the cursor being on its opening brace.
func (t *tokenizer) scanCapture() (CaptureVariant, error) {
	t.index++

	c, ok := t.peek()
	if !ok {
		return CaptureVariant{}, t.errorAt(t.index, UnexpectedTokenError, ExpectCaptureClose, ExpectStar, ExpectNumber, ExpectIdent)
	}

	switch {
	case c == '}':
		t.index++

		return CaptureVariant{Kind: CaptureUnnamed}, nil

	case c == '*':
		t.index++

		c, _ = t.peek()
		switch {
		case t.index < t.len && c == '}':
			t.index++

			return CaptureVariant{Kind: CaptureManyUnnamed}, nil

		case t.index < t.len && c == ':':
			t.index++
			name, err := t.scanName()
			if err != nil {
				return CaptureVariant{}, err
			}

			return CaptureVariant{Kind: CaptureManyNamed, Name: name}, nil
		}

		return CaptureVariant{}, t.errorAt(t.index, UnexpectedTokenError, ExpectColon, ExpectCaptureClose)

	case isDigit(c):
		start := t.index
		for t.index < t.len && isDigit(t.input.At(t.index)) {
			t.index++
		}

		count, err := strconv.Atoi(t.input.Slice(start, t.index))
		if err != nil || count < 1 {
			return CaptureVariant{}, t.errorAt(start, InvalidCountError, ExpectNumber)
		}

		c, _ = t.peek()
		switch {
		case t.index < t.len && c == '}':
			t.index++

			return CaptureVariant{Kind: CaptureNumberedUnnamed, Count: count}, nil

		case t.index < t.len && c == ':':
			t.index++
			name, err := t.scanName()
			if err != nil {
				return CaptureVariant{}, err
			}

			return CaptureVariant{Kind: CaptureNumberedNamed, Count: count, Name: name}, nil
		}

		return CaptureVariant{}, t.errorAt(t.index, UnexpectedTokenError, ExpectNumber, ExpectColon, ExpectCaptureClose)
	}

	name, err := t.scanName()
	if err != nil {
		return CaptureVariant{}, err
	}

	return CaptureVariant{Kind: CaptureNamed, Name: name}, nil
}

// scanName consumes a capture name and the closing brace that follows it.
func (t *tokenizer) scanName() (string, error) {
	start := t.index

	for t.index < t.len {
		c := t.input.At(t.index)
		if c == '}' {
			break
		}

		if !isValidNameCodePoint(c, t.index == start) {
			err := t.errorAt(t.index, BadIdentError, ExpectIdent, ExpectCaptureClose)
			err.Char = c

			return "", err
		}

		t.index++
	}

	if t.index == start {
		return "", t.errorAt(t.index, UnexpectedTokenError, ExpectIdent)
	}

	if t.index >= t.len {
		return "", t.errorAt(t.index, UnexpectedTokenError, ExpectIdent, ExpectCaptureClose)
	}

	name := t.input.Slice(start, t.index)
	if _, ok := t.names[name]; ok {
		return "", t.errorAt(start, DuplicateCaptureNameError, ExpectIdent)
	}
	t.names[name] = struct{}{}

	t.index++

	return name, nil
}

// leafKind maps a code point starting a leaf token to the kind of that token.
func leafKind(c rune) TokenKind {
	switch c {
	case '/':
		return TokenSeparator
	case '?':
		return TokenQueryBegin
	case '&':
		return TokenQuerySeparator
	case '#':
		return TokenFragmentBegin
	case '!':
		return TokenEnd
	case '{':
		return TokenCapture
	}

	return TokenLiteral
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isValidNameCodePoint(codePoint rune, first bool) bool {
	if first {
		return isIdentifierStart(codePoint)
	}

	return isIdentifierPart(codePoint)
}

func isIdentifierStart(codePoint rune) bool {
	if codePoint == '_' {
		return true
	}

	return unicode.In(
		codePoint,
		unicode.L,
		unicode.Nl,
		unicode.Other_ID_Start,
	) && !unicode.In(
		codePoint,
		unicode.Pattern_Syntax,
		unicode.Pattern_White_Space,
	)
}

func isIdentifierPart(codePoint rune) bool {
	return unicode.In(
		codePoint,
		unicode.L,
		unicode.Nl,
		unicode.Other_ID_Start,
		unicode.Mn,
		unicode.Mc,
		unicode.Nd,
		unicode.Pc,
		unicode.Other_ID_Continue,
	) && !unicode.In(
		codePoint,
		unicode.Pattern_Syntax,
		unicode.Pattern_White_Space,
	)
}
