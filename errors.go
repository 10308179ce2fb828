package routematch

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	TokensAfterEndTokenError       = errors.New("no tokens may follow the end token")
	DoubleSlashError               = errors.New("two slashes may not appear next to each other")
	AndBeforeQuestionError         = errors.New("the first query pair must be introduced by '?', not '&'")
	MultipleQuestionsError         = errors.New("only one '?' may begin the query section")
	AdjacentCapturesError          = errors.New("two captures may not appear next to each other")
	BadIdentError                  = errors.New("invalid character in capture name")
	DuplicateCaptureNameError      = errors.New("duplicate capture name")
	InvalidCountError              = errors.New("numbered captures must match at least one segment")
	EmptyOptionalError             = errors.New("optional groups may not be empty")
	UnexpectedTokenError           = errors.New("unexpected token")
	NotAllowedStateTransitionError = errors.New("token is not allowed in this section")
	InvalidStateError              = errors.New("parser reached an invalid state")
)

// ExpectedToken is a kind of syntax element the parser would have accepted at the position of an error.
type ExpectedToken uint8

const (
	ExpectSeparator ExpectedToken = iota
	ExpectLiteral
	ExpectCaptureOpen
	ExpectCaptureClose
	ExpectIdent
	ExpectStar
	ExpectColon
	ExpectNumber
	ExpectOptionalOpen
	ExpectOptionalClose
	ExpectQueryBegin
	ExpectQuerySeparator
	ExpectQueryKey
	ExpectEquals
	ExpectFragmentBegin
	ExpectEnd
	ExpectEndOfInput
)

func (e ExpectedToken) String() string {
	switch e {
	case ExpectSeparator:
		return "'/'"
	case ExpectLiteral:
		return "literal"
	case ExpectCaptureOpen:
		return "'{'"
	case ExpectCaptureClose:
		return "'}'"
	case ExpectIdent:
		return "identifier"
	case ExpectStar:
		return "'*'"
	case ExpectColon:
		return "':'"
	case ExpectNumber:
		return "number"
	case ExpectOptionalOpen:
		return "'('"
	case ExpectOptionalClose:
		return "')'"
	case ExpectQueryBegin:
		return "'?'"
	case ExpectQuerySeparator:
		return "'&'"
	case ExpectQueryKey:
		return "query key"
	case ExpectEquals:
		return "'='"
	case ExpectFragmentBegin:
		return "'#'"
	case ExpectEnd:
		return "'!'"
	case ExpectEndOfInput:
		return "end of input"
	}

	return "unknown"
}

// ParseError reports a matcher string that could not be compiled.
type ParseError struct {
	// Input is the matcher string.
	Input string
	// Offset is the byte offset of the offending character.
	Offset int
	// Expected lists what would have been accepted at Offset.
	Expected []ExpectedToken
	// Reason is one of the sentinel errors of this package.
	Reason error
	// Char is the offending code point when Reason is BadIdentError.
	Char rune
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("routematch: %s at offset %d in %q", e.message(), e.Offset, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}

func (e *ParseError) message() string {
	if errors.Is(e.Reason, BadIdentError) {
		return fmt.Sprintf("%s: %q", e.Reason, e.Char)
	}

	return e.Reason.Error()
}

// Pretty renders the error over several lines: the input, a caret under the offending character,
// the expected tokens and the reason.
func (e *ParseError) Pretty() string {
	var b strings.Builder

	b.WriteString(e.Input)
	b.WriteByte('\n')

	column := e.Offset
	if column > len(e.Input) {
		column = len(e.Input)
	}
	b.WriteString(strings.Repeat(" ", utf8.RuneCountInString(e.Input[:column])))
	b.WriteString("^\n")

	if len(e.Expected) > 0 {
		b.WriteString("Expected one of: ")
		for i, x := range e.Expected {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(x.String())
		}
		b.WriteByte('\n')
	}

	b.WriteString(e.message())

	return b.String()
}
