package routematch

// programBuilder condenses parse-time tokens into a matcher program.
type programBuilder struct {
	program           []MatcherToken
	pendingExactValue string
	// nextIndex is shared with the builders of nested optional groups.
	nextIndex *int
}

// Optimize converts a token sequence to a matcher program in a single left-to-right pass.
//
// Separators, literals and query/fragment markers are merged into a single Exact token,
// so the token following a capture is always an Exact delimiter, an Optional group, End, or nothing.
// Optional groups are optimized recursively and kept nested.
func Optimize(tokens []Token) []MatcherToken {
	var index int

	return optimize(tokens, &index)
}

func optimize(tokens []Token, nextIndex *int) []MatcherToken {
	b := programBuilder{program: make([]MatcherToken, 0, len(tokens)), nextIndex: nextIndex}

	for _, token := range tokens {
		switch token.Kind {
		case TokenSeparator:
			b.pendingExactValue += "/"

		case TokenLiteral:
			b.pendingExactValue += token.Text

		case TokenQueryBegin:
			b.pendingExactValue += "?"

		case TokenQuerySeparator:
			b.pendingExactValue += "&"

		case TokenFragmentBegin:
			b.pendingExactValue += "#"

		case TokenQueryCapture:
			b.pendingExactValue += token.Text + "="
			if !token.ValueIsCapture {
				b.pendingExactValue += token.Value

				continue
			}

			b.addCapture(token.Capture)

		case TokenCapture:
			b.addCapture(token.Capture)

		case TokenOptional:
			b.maybeAddExactFromPendingValue()
			b.program = append(b.program, MatcherToken{Kind: MatcherOptional, Tokens: optimize(token.Tokens, nextIndex)})

		case TokenEnd:
			b.maybeAddExactFromPendingValue()
			b.program = append(b.program, MatcherToken{Kind: MatcherEnd})
		}
	}

	b.maybeAddExactFromPendingValue()

	return b.program
}

func (b *programBuilder) maybeAddExactFromPendingValue() {
	if b.pendingExactValue == "" {
		return
	}

	b.program = append(b.program, MatcherToken{Kind: MatcherExact, Literal: b.pendingExactValue})
	b.pendingExactValue = ""
}

func (b *programBuilder) addCapture(capture CaptureVariant) {
	b.maybeAddExactFromPendingValue()

	b.program = append(b.program, MatcherToken{Kind: MatcherCapture, Capture: capture, Index: *b.nextIndex})
	*b.nextIndex++
}

// withOptionalTrailingSlash makes the path section of a token sequence accept an optional trailing separator.
// A path ending with a separator has it turned optional; other non-empty paths get one appended.
// A path made of a single separator is left as is.
func withOptionalTrailingSlash(tokens []Token) []Token {
	end := len(tokens)
	for i, token := range tokens {
		if token.Kind == TokenQueryBegin || token.Kind == TokenFragmentBegin || token.Kind == TokenEnd {
			end = i

			break
		}
	}

	if end == 0 || (end == 1 && tokens[0].Kind == TokenSeparator) {
		return tokens
	}

	last := tokens[end-1]
	result := make([]Token, 0, len(tokens)+1)

	if last.Kind == TokenSeparator {
		result = append(result, tokens[:end-1]...)
	} else {
		result = append(result, tokens[:end]...)
	}

	result = append(result, Token{
		Kind:   TokenOptional,
		Offset: last.Offset,
		Tokens: []Token{{Kind: TokenSeparator, Offset: last.Offset}},
	})

	return append(result, tokens[end:]...)
}
