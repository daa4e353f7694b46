package scanner

import (
	"strings"

	"github.com/teascript-go/teascript/lang/token"
)

// stringLiteral scans a `"…"` string, or a triple-(or-more)-quoted raw
// string `"""…"""` (spec §4.6). The opening '"' has not yet been consumed.
func (s *Scanner) stringLiteral(pos token.Pos) (token.Token, token.Value) {
	startOff := s.cur.ByteOffset()
	s.advance() // consume opening '"'

	quoteLevel := 1
	for s.cur0() == '"' {
		quoteLevel++
		s.advance()
	}
	if quoteLevel >= 3 {
		return s.rawString(pos, startOff, quoteLevel)
	}
	if quoteLevel == 2 {
		// `""` with nothing between is simply an empty short string.
		raw := s.cur.Slice(startOff, s.cur.ByteOffset())
		return token.STRING, token.Value{Raw: raw, Pos: pos, String: ""}
	}
	return s.shortString(pos, startOff)
}

func (s *Scanner) shortString(pos token.Pos, startOff int) (token.Token, token.Value) {
	var b strings.Builder
	hasInterp := false

	for {
		cur := s.cur0()
		if s.cur.AtEnd() || cur == '\n' {
			s.error("string literal not terminated")
			break
		}
		if cur == '"' {
			s.advance()
			break
		}
		if cur == '\\' {
			s.advance()
			s.escape(&b)
			continue
		}
		if cur == '%' && s.peek(1) == '(' {
			hasInterp = true
			b.WriteRune('%')
			b.WriteRune('(')
			s.advance()
			s.advance()
			depth := 1
			for depth > 0 {
				if s.cur.AtEnd() {
					s.error("unterminated %(...) in-string expression")
					break
				}
				c := s.cur0()
				if c == '(' {
					depth++
				} else if c == ')' {
					depth--
					if depth == 0 {
						b.WriteRune(')')
						s.advance()
						break
					}
				}
				b.WriteRune(c)
				s.advance()
			}
			continue
		}
		b.WriteRune(cur)
		s.advance()
	}

	raw := s.cur.Slice(startOff, s.cur.ByteOffset())
	return token.STRING, token.Value{Raw: raw, Pos: pos, String: b.String(), HasInterp: hasInterp}
}

// escape resolves one backslash escape: `\t \r \n \" \\ \%` (spec §4.6).
func (s *Scanner) escape(b *strings.Builder) {
	cur := s.cur0()
	switch cur {
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'n':
		b.WriteByte('\n')
	case '"':
		b.WriteByte('"')
	case '\\':
		b.WriteByte('\\')
	case '%':
		b.WriteByte('%')
	default:
		s.error("unknown escape sequence '\\" + string(cur) + "'")
		b.WriteRune(cur)
	}
	s.advance()
}

// rawString scans a triple-or-more-quoted raw string. The opening run of
// quoteLevel '"' characters has already been consumed; the closing run must
// match the same length (spec §4.6). Raw strings are multi-line and are not
// escape-processed.
func (s *Scanner) rawString(pos token.Pos, startOff, quoteLevel int) (token.Token, token.Value) {
	contentStart := s.cur.ByteOffset()
	for {
		if s.cur.AtEnd() {
			s.error("raw string literal not terminated")
			break
		}
		if s.cur0() == '"' {
			closeStart := s.cur.ByteOffset()
			level := 0
			for s.cur0() == '"' {
				level++
				s.advance()
			}
			if level == quoteLevel {
				raw := s.cur.Slice(startOff, s.cur.ByteOffset())
				content := s.cur.Slice(contentStart, closeStart)
				return token.STRING, token.Value{Raw: raw, Pos: pos, String: content, IsRaw: true}
			}
			continue
		}
		s.advance()
	}
	raw := s.cur.Slice(startOff, s.cur.ByteOffset())
	return token.STRING, token.Value{Raw: raw, Pos: pos, IsRaw: true}
}
