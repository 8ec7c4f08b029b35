package scanner

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/leftmike/colcalc/parser/token"
	"github.com/leftmike/colcalc/types"
)

type Position struct {
	Filename string
	Line     int
	Column   int
}

type ScanCtx struct {
	Token      rune
	Error      error
	Identifier types.Identifier // Identifier and Reserved
	String     string           // String and Formula
	Bytes      []byte
	Integer    int64
	Float      float64
	Position
}

type Scanner struct {
	initialized bool
	rr          io.RuneReader
	unread      bool
	read        rune
	filename    string
	line        int
	column      int
	buffer      bytes.Buffer
}

func (pos Position) String() string {
	s := pos.Filename
	if pos.Line > 0 {
		s += fmt.Sprintf(":%d:%d", pos.Line, pos.Column)
	}
	return s
}

func (s *Scanner) Init(rr io.RuneReader, fn string) {
	if s.initialized {
		panic("scanner already initialized")
	}
	s.initialized = true

	s.rr = rr
	s.filename = fn
	s.line = 1
}

func (s *Scanner) Scan(sctx *ScanCtx) {
	s.buffer.Reset()
	sctx.Error = nil
	sctx.Filename = s.filename
	sctx.Line = s.line
	sctx.Column = s.column
	sctx.Token = s.scan(sctx)
}

func (s *Scanner) skipSpace(sctx *ScanCtx) rune {
	for {
		r := s.readRune(sctx)
		if r < 0 {
			return r
		}
		if unicode.IsSpace(r) {
			continue
		}

		if r == '#' {
			if !s.skipLine(sctx) {
				return token.EOF
			}
			continue
		} else if r == '-' || r == '/' {
			r2 := s.readRune(sctx)
			if r == '-' && r2 == '-' {
				if !s.skipLine(sctx) {
					return token.EOF
				}
				continue
			} else if r == '/' && r2 == '*' {
				var p rune
				for {
					r2 = s.readRune(sctx)
					if r2 < 0 {
						sctx.Error = fmt.Errorf("scanner: comment missing terminating \"*/\"")
						return token.Error
					}
					if p == '*' && r2 == '/' {
						break
					}
					p = r2
				}
				continue
			} else if r2 == token.Error {
				return r2
			} else if r2 != token.EOF {
				s.unreadRune()
			}
		}
		return r
	}
}

func (s *Scanner) skipLine(sctx *ScanCtx) bool {
	for {
		r := s.readRune(sctx)
		if r < 0 {
			return false
		}
		if r == '\n' {
			return true
		}
	}
}

func (s *Scanner) scan(sctx *ScanCtx) rune {
	r := s.skipSpace(sctx)
	if r < 0 {
		return r
	}

	sctx.Column = s.column
	sctx.Line = s.line

	switch {
	case r == ';':
		return token.EndOfStatement
	case r == 'e' || r == 'E' || r == 'x' || r == 'X':
		r2 := s.readRune(sctx)
		if r2 == '\'' {
			if r == 'x' || r == 'X' {
				return s.scanBytes(sctx)
			}
			return s.scanString(sctx, true)
		}
		if r2 == token.Error {
			return r2
		}
		if r2 != token.EOF {
			s.unreadRune()
		}
		return s.scanIdentifier(sctx, r)
	case unicode.IsLetter(r) || r == '_':
		return s.scanIdentifier(sctx, r)
	case unicode.IsDigit(r):
		return s.scanNumber(sctx, r)
	case r == '"' || r == '`':
		return s.scanQuotedIdentifier(sctx, r)
	case r == '\'':
		return s.scanString(sctx, false)
	case r == '{':
		return s.scanFormula(sctx)
	case token.IsOpRune(r):
		r2 := s.readRune(sctx)
		if r2 == token.Error {
			return r2
		}
		if r2 != token.EOF {
			if op, ok := token.Operators[string([]rune{r, r2})]; ok {
				return op
			}
			s.unreadRune()
		}
		if r == '|' || r == '&' {
			sctx.Error = fmt.Errorf("scanner: unexpected operator %c", r)
			return token.Error
		}
		return r
	case r == '.' || r == ',' || r == '(' || r == ')':
		return r
	}

	sctx.Error = fmt.Errorf("scanner: unexpected character '%c'", r)
	return token.Error
}

func (s *Scanner) readRune(sctx *ScanCtx) rune {
	if s.unread {
		s.unread = false
		return s.read
	}

	var err error
	s.read, _, err = s.rr.ReadRune()
	if err == io.EOF {
		s.read = token.EOF
		return token.EOF
	} else if err != nil {
		sctx.Error = err
		s.read = token.Error
		return token.Error
	}

	if s.read == '\n' {
		s.line += 1
		s.column = 0
	} else {
		s.column += 1
	}

	return s.read
}

func (s *Scanner) unreadRune() {
	s.unread = true
}

func (s *Scanner) scanIdentifier(sctx *ScanCtx, r rune) rune {
	for {
		s.buffer.WriteRune(r)
		r = s.readRune(sctx)
		if r == token.EOF {
			break
		} else if r == token.Error {
			return token.Error
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			s.unreadRune()
			break
		}
	}

	sctx.Identifier = types.ID(s.buffer.String())
	if sctx.Identifier.IsReserved() {
		return token.Reserved
	}
	return token.Identifier
}

func (s *Scanner) scanNumber(sctx *ScanCtx, r rune) rune {
	dbl := false
	exp := false
	for {
		s.buffer.WriteRune(r)
		r = s.readRune(sctx)
		if r == token.EOF {
			break
		} else if r == token.Error {
			return token.Error
		}
		if !dbl && r == '.' {
			dbl = true
		} else if !exp && (r == 'e' || r == 'E') {
			dbl = true
			exp = true
			s.buffer.WriteRune(r)
			r = s.readRune(sctx)
			if r != '-' && r != '+' && !unicode.IsDigit(r) {
				sctx.Error = fmt.Errorf("scanner: bad exponent in %s", s.buffer.String())
				return token.Error
			}
		} else if !unicode.IsDigit(r) {
			s.unreadRune()
			break
		}
	}

	var err error
	if dbl {
		sctx.Float, err = strconv.ParseFloat(s.buffer.String(), 64)
	} else {
		sctx.Integer, err = strconv.ParseInt(s.buffer.String(), 10, 64)
	}
	if err != nil {
		sctx.Error = fmt.Errorf("scanner: %s", err)
		return token.Error
	}
	if dbl {
		return token.Float
	}
	return token.Integer
}

func (s *Scanner) scanQuotedIdentifier(sctx *ScanCtx, delim rune) rune {
	for {
		r := s.readRune(sctx)
		if r == token.EOF {
			sctx.Error = fmt.Errorf("scanner: quoted identifier missing terminating '%c'", delim)
			return token.Error
		}
		if r == token.Error {
			return token.Error
		}
		if r == delim {
			break
		}
		s.buffer.WriteRune(r)
	}

	if s.buffer.Len() == 0 {
		sctx.Error = fmt.Errorf("scanner: empty quoted identifier")
		return token.Error
	}
	sctx.Identifier = types.QuotedID(s.buffer.String())
	return token.Identifier
}

func (s *Scanner) scanEscape(sctx *ScanCtx) rune {
	r := s.readRune(sctx)
	switch r {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case '0':
		return 0
	case 'x':
		var digits [2]byte
		for idx := range digits {
			d := s.readRune(sctx)
			if d < 0 {
				return d
			}
			digits[idx] = byte(d)
		}
		b, err := hex.DecodeString(string(digits[:]))
		if err != nil {
			sctx.Error = fmt.Errorf("scanner: bad hex escape: %s", err)
			return token.Error
		}
		return rune(b[0])
	}
	return r
}

func (s *Scanner) scanString(sctx *ScanCtx, esc bool) rune {
	for {
		r := s.readRune(sctx)
		if r == token.EOF {
			sctx.Error = fmt.Errorf("scanner: string missing terminating \"'\"")
			return token.Error
		}
		if r == token.Error {
			return token.Error
		}
		if r == '\'' {
			r = s.readRune(sctx)
			if r != '\'' {
				if r == token.Error {
					return token.Error
				} else if r != token.EOF {
					s.unreadRune()
				}
				break
			}
		} else if r == '\\' && esc {
			r = s.scanEscape(sctx)
			if r == token.EOF {
				sctx.Error = fmt.Errorf("scanner: incomplete string escape")
				return token.Error
			} else if r == token.Error {
				return token.Error
			}
		}
		s.buffer.WriteRune(r)
	}

	sctx.String = s.buffer.String()
	return token.String
}

func (s *Scanner) scanBytes(sctx *ScanCtx) rune {
	for {
		r := s.readRune(sctx)
		if r == token.EOF {
			sctx.Error = fmt.Errorf("scanner: bytes missing terminating \"'\"")
			return token.Error
		}
		if r == token.Error {
			return token.Error
		}
		if r == '\'' {
			break
		}
		if !unicode.IsSpace(r) {
			s.buffer.WriteRune(r)
		}
	}

	b, err := hex.DecodeString(s.buffer.String())
	if err != nil {
		sctx.Error = fmt.Errorf("scanner: bad bytes literal: %s", err)
		return token.Error
	}
	sctx.Bytes = b
	return token.Bytes
}

// scanFormula returns the text between '{' and the matching '}'; braces inside strings
// and quoted identifiers do not count.
func (s *Scanner) scanFormula(sctx *ScanCtx) rune {
	depth := 1
	var quote rune
	for {
		r := s.readRune(sctx)
		if r == token.EOF {
			sctx.Error = fmt.Errorf("scanner: formula missing terminating '}'")
			return token.Error
		}
		if r == token.Error {
			return token.Error
		}

		if quote != 0 {
			if r == quote {
				quote = 0
			}
		} else if r == '\'' || r == '"' || r == '`' {
			quote = r
		} else if r == '{' {
			depth += 1
		} else if r == '}' {
			depth -= 1
			if depth == 0 {
				break
			}
		}
		s.buffer.WriteRune(r)
	}

	sctx.String = s.buffer.String()
	return token.Formula
}
