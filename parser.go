package routematch

// Parse converts a matcher string to its token sequence.
//
// Every token is validated by the grammar automaton as soon as it is recognized, so the returned
// *ParseError points at the earliest offending character.
func Parse(pattern string) ([]Token, error) {
	t := newTokenizer(pattern)

	tokens, err := t.parseSequence()
	if err != nil {
		return nil, err
	}

	if t.index < t.len {
		// Only an unbalanced closing parenthesis stops the top-level sequence early.
		return nil, t.errorAt(t.index, UnexpectedTokenError, t.state.expected(false)...)
	}

	if !t.state.acceptsEndOfInput() {
		return nil, t.errorAt(t.len, InvalidStateError, t.state.expected(false)...)
	}

	return tokens, nil
}

// parseSequence consumes tokens until the end of input or a closing parenthesis.
func (t *tokenizer) parseSequence() ([]Token, error) {
	var tokens []Token

	for t.index < t.len {
		start := t.index
		c := t.input.At(t.index)

		if t.state.phase == phaseEnd && c != ')' {
			return nil, t.errorAt(start, TokensAfterEndTokenError)
		}

		switch c {
		case ')':
			if t.depth > 0 {
				return tokens, nil
			}

			return nil, t.errorAt(start, UnexpectedTokenError, t.state.expected(false)...)

		case '(':
			group, err := t.parseGroup()
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, group)

			continue

		case '}', '=':
			return nil, t.errorAt(start, UnexpectedTokenError, t.state.expected(t.depth > 0)...)

		case '?', '&':
			kind := leafKind(c)
			if err := t.feed(kind, start); err != nil {
				return nil, err
			}
			t.index++
			tokens = append(tokens, Token{Kind: kind, Offset: t.offset(start)})

			pair, err := t.parseQueryPair()
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, pair)

			continue
		}

		kind := leafKind(c)
		if err := t.feed(kind, start); err != nil {
			return nil, err
		}

		token := Token{Kind: kind, Offset: t.offset(start)}

		switch kind {
		case TokenCapture:
			capture, err := t.scanCapture()
			if err != nil {
				return nil, err
			}
			token.Capture = capture

		case TokenLiteral:
			token.Text = t.scanLiteral()

		default:
			t.index++
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

// parseGroup consumes an optional group, the cursor being on its opening parenthesis.
func (t *tokenizer) parseGroup() (Token, error) {
	start := t.index
	t.index++
	t.depth++

	inner, err := t.parseSequence()
	if err != nil {
		return Token{}, err
	}

	if t.index >= t.len {
		return Token{}, t.errorAt(t.index, UnexpectedTokenError, t.state.expected(true)...)
	}

	if len(inner) == 0 {
		return Token{}, t.errorAt(start, EmptyOptionalError, t.state.expected(true)...)
	}

	t.index++
	t.depth--

	return Token{Kind: TokenOptional, Offset: t.offset(start), Tokens: inner}, nil
}

// parseQueryPair consumes a "key=value" or "key={capture}" pair following a '?' or a '&'.
func (t *tokenizer) parseQueryPair() (Token, error) {
	start := t.index

	key := t.scanLiteral()
	if key == "" {
		if c, ok := t.peek(); ok {
			// Report grammar violations such as "??" with their own reason.
			if _, err := t.state.transition(leafKind(c)); err != nil && err != NotAllowedStateTransitionError {
				return Token{}, t.errorAt(t.index, err, ExpectQueryKey)
			}
		}

		return Token{}, t.errorAt(t.index, UnexpectedTokenError, ExpectQueryKey)
	}

	if err := t.feed(TokenQueryCapture, start); err != nil {
		return Token{}, err
	}

	if c, ok := t.peek(); !ok || c != '=' {
		return Token{}, t.errorAt(t.index, UnexpectedTokenError, ExpectLiteral, ExpectEquals)
	}
	t.index++

	token := Token{Kind: TokenQueryCapture, Offset: t.offset(start), Text: key}

	if c, ok := t.peek(); ok && c == '{' {
		capture, err := t.scanCapture()
		if err != nil {
			return Token{}, err
		}

		token.Capture = capture
		token.ValueIsCapture = true

		return token, nil
	}

	token.Value = t.scanLiteral()
	if token.Value == "" {
		return Token{}, t.errorAt(t.index, UnexpectedTokenError, ExpectLiteral, ExpectCaptureOpen)
	}

	return token, nil
}
