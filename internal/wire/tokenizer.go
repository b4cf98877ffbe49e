package wire

// Tokenize splits a measurement datagram into whitespace-delimited words,
// treating '[' and ']' as individual one-character tokens even when they
// are not surrounded by whitespace (as in "[0 0.950][100.0 200.0 -50.5]").
// Any run of ASCII whitespace -- spaces, tabs, and the LF line
// terminators between records -- is a token separator and is otherwise
// insignificant to the grammar.
func Tokenize(buf []byte) []string {
	tokens := make([]string, 0, 64)
	var word []byte

	flush := func() {
		if len(word) > 0 {
			tokens = append(tokens, string(word))
			word = word[:0]
		}
	}

	for _, b := range buf {
		switch {
		case isSpace(b):
			flush()
		case b == '[' || b == ']':
			flush()
			tokens = append(tokens, string(b))
		default:
			word = append(word, b)
		}
	}
	flush()
	return tokens
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// Stream walks a token slice produced by Tokenize, offering the
// group-aware reads the frame grammar needs.
type Stream struct {
	tokens []string
	pos    int
}

// NewStream returns a Stream over buf's tokens.
func NewStream(buf []byte) *Stream {
	return &Stream{tokens: Tokenize(buf)}
}

// NewStreamFromTokens returns a Stream over an already-tokenized slice,
// used to re-parse a captured record in isolation.
func NewStreamFromTokens(tokens []string) *Stream {
	return &Stream{tokens: tokens}
}

// Next returns the next token and advances the cursor, or ok=false at
// end of stream.
func (s *Stream) Next() (string, bool) {
	if s.pos >= len(s.tokens) {
		return "", false
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, true
}

// Peek returns the next token without advancing the cursor.
func (s *Stream) Peek() (string, bool) {
	if s.pos >= len(s.tokens) {
		return "", false
	}
	return s.tokens[s.pos], true
}

// Done reports whether the stream is exhausted.
func (s *Stream) Done() bool {
	return s.pos >= len(s.tokens)
}

// ReadGroup consumes a single "[ ... ]" bracketed group and returns its
// inner tokens. Groups do not nest in this grammar: a '[' inside a group
// is returned as an ordinary token and the first ']' ends the group;
// consecutive groups are read by calling ReadGroup repeatedly. It is an
// error if the next token is not '['.
func (s *Stream) ReadGroup() ([]string, error) {
	tok, ok := s.Next()
	if !ok || tok != "[" {
		return nil, errMalformed("expected '[', got end of input or %q", tok)
	}
	inner := make([]string, 0, 8)
	for {
		tok, ok := s.Next()
		if !ok {
			return nil, errMalformed("unterminated group, missing ']'")
		}
		if tok == "]" {
			return inner, nil
		}
		inner = append(inner, tok)
	}
}

// SkipUnknownRecord discards the payload of a record whose tag this SDK
// does not recognize. It consumes tokens -- tracking bracket nesting so
// it does not stop inside a group -- until it reaches a token, at
// bracket depth zero, that looks like the start of the next record's
// tag (a word containing a letter other than 'e'/'E', see isTagLike), or the end of
// the stream. This is the forward-compatibility rule: unknown tags
// must never fail the frame.
func (s *Stream) SkipUnknownRecord() {
	depth := 0
	for {
		tok, ok := s.Peek()
		if !ok {
			return
		}
		if depth == 0 && isTagLike(tok) {
			return
		}
		s.pos++
		switch tok {
		case "[":
			depth++
		case "]":
			if depth > 0 {
				depth--
			}
		}
	}
}

// CaptureRecord consumes and returns the tokens belonging to the record
// starting at the cursor -- the same bracket-depth-aware scan used by
// SkipUnknownRecord, except the tokens are collected rather than
// discarded. It is used for records whose malformed payload must be
// treated as absent rather than failing the whole datagram: the caller
// re-parses the captured tokens in isolation so a failure there cannot
// desynchronize the outer stream.
func (s *Stream) CaptureRecord() []string {
	depth := 0
	captured := make([]string, 0, 8)
	for {
		tok, ok := s.Peek()
		if !ok {
			return captured
		}
		if depth == 0 && isTagLike(tok) {
			return captured
		}
		s.pos++
		captured = append(captured, tok)
		switch tok {
		case "[":
			depth++
		case "]":
			if depth > 0 {
				depth--
			}
		}
	}
}

// isTagLike reports whether tok looks like the lead word of a new
// record rather than a numeric field. Tags are not purely alphabetic --
// "6d", "3d", "6df2", "6dmt3", "6di" all lead with a digit -- so the
// rule that actually separates a tag from a numeric field is letters:
// every tag contains at least one letter other than the scientific
// notation exponent marker ('e'/'E'), and no numeric field ever does.
func isTagLike(tok string) bool {
	for _, c := range tok {
		if (c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') && c != 'e' && c != 'E' {
			return true
		}
	}
	return false
}
