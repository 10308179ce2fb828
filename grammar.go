package routematch

// phase is the section of the matcher string the parser is in.
type phase uint8

const (
	phaseNone phase = iota
	phasePath
	phaseFirstQuery
	phaseNthQuery
	phaseFragment
	phaseEnd
)

// grammarState is the state of the grammar automaton: the current section and the previously accepted token.
type grammarState struct {
	phase phase
	prev  TokenKind
}

// transition returns the state reached by accepting a token of kind k, or the reason why k is not allowed.
// It only deals with leaf tokens: the content of optional groups is fed through it token by token.
func (s grammarState) transition(k TokenKind) (grammarState, error) {
	if s.phase == phaseEnd {
		return s, TokensAfterEndTokenError
	}

	if k == TokenOptional {
		return s, InvalidStateError
	}

	switch s.phase {
	case phaseNone, phasePath:
		switch k {
		case TokenSeparator:
			if s.phase == phasePath && s.prev == TokenSeparator {
				return s, DoubleSlashError
			}
		case TokenCapture:
			if s.phase == phasePath && s.prev == TokenCapture {
				return s, AdjacentCapturesError
			}
		case TokenLiteral:
		case TokenQueryBegin:
			return grammarState{phaseFirstQuery, k}, nil
		case TokenQuerySeparator:
			return s, AndBeforeQuestionError
		case TokenFragmentBegin:
			return grammarState{phaseFragment, k}, nil
		case TokenEnd:
			return grammarState{phaseEnd, k}, nil
		default:
			return s, NotAllowedStateTransitionError
		}

		return grammarState{phasePath, k}, nil

	case phaseFirstQuery, phaseNthQuery:
		if s.prev == TokenQueryBegin || s.prev == TokenQuerySeparator {
			switch k {
			case TokenQueryCapture:
				return grammarState{s.phase, k}, nil
			case TokenQueryBegin:
				return s, MultipleQuestionsError
			}

			return s, NotAllowedStateTransitionError
		}

		switch k {
		case TokenQuerySeparator:
			return grammarState{phaseNthQuery, k}, nil
		case TokenQueryBegin:
			return s, MultipleQuestionsError
		case TokenFragmentBegin:
			return grammarState{phaseFragment, k}, nil
		case TokenEnd:
			return grammarState{phaseEnd, k}, nil
		}

		return s, NotAllowedStateTransitionError

	case phaseFragment:
		switch k {
		case TokenSeparator:
			if s.prev == TokenSeparator {
				return s, DoubleSlashError
			}
		case TokenCapture:
			if s.prev == TokenCapture {
				return s, AdjacentCapturesError
			}
		case TokenLiteral:
		case TokenEnd:
			return grammarState{phaseEnd, k}, nil
		default:
			return s, NotAllowedStateTransitionError
		}

		return grammarState{phaseFragment, k}, nil
	}

	return s, InvalidStateError
}

// acceptsEndOfInput reports whether the matcher string may stop in this state.
func (s grammarState) acceptsEndOfInput() bool {
	if s.phase == phaseFirstQuery || s.phase == phaseNthQuery {
		return s.prev == TokenQueryCapture
	}

	return true
}

var expectationsByKind = [...]struct {
	kind     TokenKind
	expected ExpectedToken
}{
	{TokenSeparator, ExpectSeparator},
	{TokenLiteral, ExpectLiteral},
	{TokenCapture, ExpectCaptureOpen},
	{TokenQueryBegin, ExpectQueryBegin},
	{TokenQuerySeparator, ExpectQuerySeparator},
	{TokenQueryCapture, ExpectQueryKey},
	{TokenFragmentBegin, ExpectFragmentBegin},
	{TokenEnd, ExpectEnd},
}

// expected lists the tokens the automaton accepts in this state.
func (s grammarState) expected(inGroup bool) []ExpectedToken {
	var result []ExpectedToken
	groupable := false

	for _, e := range expectationsByKind {
		if _, err := s.transition(e.kind); err != nil {
			continue
		}

		result = append(result, e.expected)
		switch e.kind {
		case TokenSeparator, TokenLiteral, TokenCapture, TokenQuerySeparator:
			groupable = true
		}
	}

	if groupable {
		result = append(result, ExpectOptionalOpen)
	}

	if inGroup {
		result = append(result, ExpectOptionalClose)
	} else if s.acceptsEndOfInput() {
		result = append(result, ExpectEndOfInput)
	}

	return result
}
