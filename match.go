package routematch

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// matcher holds the state of a single Match call.
type matcher struct {
	options  Options
	captures Captures
}

// matchTokens runs program against input and returns the unconsumed input.
// The extent of every capture is fixed as soon as its delimiter is found: there is no backtracking.
func (mt *matcher) matchTokens(program []MatcherToken, input string) (string, bool) {
	for i, token := range program {
		switch token.Kind {
		case MatcherExact:
			n, ok := mt.prefixLen(input, token.Literal)
			if !ok {
				return "", false
			}
			input = input[n:]

		case MatcherCapture:
			// The optimizer guarantees that a capture is never directly followed by another one,
			// so the next Exact token, if any, bounds the capture.
			var delimiter string
			if i+1 < len(program) && program[i+1].Kind == MatcherExact {
				delimiter = program[i+1].Literal
			}

			rest, ok := mt.matchCapture(token, input, delimiter)
			if !ok {
				return "", false
			}

			// A {*} capture hands its trailing slash over to a following "(/)" group,
			// such as the one added to the path when Strict is not set.
			if delimiter == "" && token.Capture.many() && i+1 < len(program) && isSlashGroup(program[i+1]) {
				p := &mt.captures[len(mt.captures)-1]
				if len(p.Value) > 1 && strings.HasSuffix(p.Value, "/") {
					p.Value = p.Value[:len(p.Value)-1]
					rest = input[len(p.Value):]
				}
			}
			input = rest

		case MatcherOptional:
			saved := len(mt.captures)
			if rest, ok := mt.matchTokens(token.Tokens, input); ok {
				input = rest
			} else {
				mt.captures = mt.captures[:saved]
			}

		case MatcherEnd:
			if input != "" {
				return "", false
			}
		}
	}

	return input, true
}

func (mt *matcher) matchCapture(token MatcherToken, input, delimiter string) (string, bool) {
	c := token.Capture

	var value, rest string
	var ok bool
	if c.numbered() {
		value, rest, ok = mt.captureSegments(c.Count, input, delimiter)
	} else {
		value, rest, ok = mt.captureOnce(input, delimiter, c.many())
	}

	if !ok {
		return "", false
	}

	mt.captures = append(mt.captures, Param{Index: token.Index, Name: c.Name, Value: value})

	return rest, true
}

// captureOnce captures everything before the first occurrence of delimiter,
// or the longest run of valid capture code points when there is no delimiter.
func (mt *matcher) captureOnce(input, delimiter string, many bool) (string, string, bool) {
	var end int

	if delimiter != "" {
		end = mt.index(input, delimiter)
		if end < 0 || validCapturePrefix(input[:end], many) != end {
			return "", "", false
		}
	} else {
		end = validCapturePrefix(input, many)
	}

	if end == 0 && !(many && input == "") {
		return "", "", false
	}

	return input[:end], input[end:], true
}

// captureSegments captures count slash-separated segments. The last one is bounded like captureOnce.
func (mt *matcher) captureSegments(count int, input, delimiter string) (string, string, bool) {
	pos := 0
	for i := 1; i < count; i++ {
		l := validCapturePrefix(input[pos:], false)
		if l == 0 {
			return "", "", false
		}
		pos += l

		if !strings.HasPrefix(input[pos:], "/") {
			return "", "", false
		}
		pos++
	}

	last, rest, ok := mt.captureOnce(input[pos:], delimiter, false)
	if !ok {
		return "", "", false
	}

	return input[:pos+len(last)], rest, true
}

func isSlashGroup(token MatcherToken) bool {
	return token.Kind == MatcherOptional && len(token.Tokens) == 1 &&
		token.Tokens[0].Kind == MatcherExact && token.Tokens[0].Literal == "/"
}

// prefixLen reports whether s starts with prefix and returns the length in bytes of the matching part of s,
// which differs from len(prefix) when case folding maps code points of different UTF-8 lengths.
func (mt *matcher) prefixLen(s, prefix string) (int, bool) {
	if !mt.options.CaseInsensitive {
		if !strings.HasPrefix(s, prefix) {
			return 0, false
		}

		return len(prefix), true
	}

	n := 0
	for _, pr := range prefix {
		if n >= len(s) {
			return 0, false
		}

		r, size := utf8.DecodeRuneInString(s[n:])
		if !equalFold(r, pr) {
			return 0, false
		}
		n += size
	}

	return n, true
}

// equalFold reports whether a and b are equal under simple Unicode case folding.
func equalFold(a, b rune) bool {
	if a == b {
		return true
	}

	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}

	return false
}

// index returns the index of the first occurrence of substr in s.
func (mt *matcher) index(s, substr string) int {
	if !mt.options.CaseInsensitive {
		return strings.Index(s, substr)
	}

	for i := range s {
		if _, ok := mt.prefixLen(s[i:], substr); ok {
			return i
		}
	}

	return -1
}
