package parser

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/leftmike/colcalc/expr"
	"github.com/leftmike/colcalc/parser/scanner"
	"github.com/leftmike/colcalc/parser/token"
	"github.com/leftmike/colcalc/stmt"
	"github.com/leftmike/colcalc/types"
)

type Parser interface {
	Parse() (stmt.Stmt, error)
	ParseExpr() (expr.Expr, error)
}

type parser struct {
	scanner   scanner.Scanner
	sctx      scanner.ScanCtx
	unscanned bool
}

func NewParser(rr io.RuneReader, fn string) Parser {
	var p parser
	p.scanner.Init(rr, fn)
	return &p
}

// ParseExpr parses all of s as one expression.
func ParseExpr(s string) (expr.Expr, error) {
	p := NewParser(strings.NewReader(s), "formula").(*parser)
	return p.parseOnly()
}

func (p *parser) recoverError(err *error) {
	if r := recover(); r != nil {
		if _, ok := r.(runtime.Error); ok {
			panic(r)
		}
		*err = r.(error)
	}
}

// Parse returns the next statement; io.EOF is returned when there are no more statements.
// After an error, the rest of the statement is skipped.
func (p *parser) Parse() (s stmt.Stmt, err error) {
	defer func() {
		if err != nil && err != io.EOF {
			s = nil
			p.skipStatement()
		}
	}()
	defer p.recoverError(&err)

	for p.scan() == token.EndOfStatement {
	}
	if p.sctx.Token == token.EOF {
		return nil, io.EOF
	}
	p.unscan()

	s = p.parseStmt()
	p.expectEndOfStatement()
	return
}

func (p *parser) ParseExpr() (e expr.Expr, err error) {
	defer p.recoverError(&err)

	e = p.parseExpr(0)
	return
}

func (p *parser) parseOnly() (e expr.Expr, err error) {
	defer p.recoverError(&err)

	e = p.parseExpr(0)
	if p.scan() != token.EOF {
		p.error(fmt.Sprintf("expected the end of the expression got %s", p.got()))
	}
	return
}

func (p *parser) skipStatement() {
	p.unscanned = false
	for {
		switch p.sctx.Token {
		case token.EOF, token.EndOfStatement, token.Error:
			return
		}
		p.scanner.Scan(&p.sctx)
	}
}

func (p *parser) error(msg string) {
	panic(fmt.Errorf("parser: %s: %s", p.sctx.Position, msg))
}

func (p *parser) scan() rune {
	if p.unscanned {
		p.unscanned = false
		return p.sctx.Token
	}

	p.scanner.Scan(&p.sctx)
	if p.sctx.Token == token.Error {
		p.error(p.sctx.Error.Error())
	}
	return p.sctx.Token
}

func (p *parser) unscan() {
	p.unscanned = true
}

func (p *parser) got() string {
	switch p.sctx.Token {
	case token.EOF:
		return "end of input"
	case token.EndOfStatement:
		return "end of statement"
	case token.Identifier:
		return fmt.Sprintf("identifier %s", p.sctx.Identifier)
	case token.Reserved:
		return fmt.Sprintf("keyword %s", p.sctx.Identifier)
	case token.String:
		return fmt.Sprintf("string %q", p.sctx.String)
	case token.Formula:
		return fmt.Sprintf("formula {%s}", p.sctx.String)
	case token.Bytes:
		return fmt.Sprintf("bytes %v", types.BytesValue(p.sctx.Bytes))
	case token.Integer:
		return fmt.Sprintf("integer %d", p.sctx.Integer)
	case token.Float:
		return fmt.Sprintf("float %g", p.sctx.Float)
	}
	return token.Format(p.sctx.Token)
}

func keywordList(ids []types.Identifier) string {
	var msg string
	for i, kw := range ids {
		if i == len(ids)-1 && i > 0 {
			msg += ", or "
		} else if i > 0 {
			msg += ", "
		}
		msg += strings.ToUpper(kw.String())
	}
	return msg
}

// expectKeyword expects one of ids; statement keywords are not reserved, so they are
// scanned as identifiers.
func (p *parser) expectKeyword(ids ...types.Identifier) types.Identifier {
	r := p.scan()
	if r == token.Identifier {
		for _, kw := range ids {
			if kw == p.sctx.Identifier {
				return kw
			}
		}
	}

	p.error(fmt.Sprintf("expected %s got %s", keywordList(ids), p.got()))
	return 0
}

func (p *parser) optionalKeyword(ids ...types.Identifier) types.Identifier {
	if p.scan() == token.Identifier {
		for _, kw := range ids {
			if kw == p.sctx.Identifier {
				return kw
			}
		}
	}

	p.unscan()
	return 0
}

func (p *parser) expectIdentifier(msg string) types.Identifier {
	if p.scan() != token.Identifier {
		p.error(fmt.Sprintf("%s got %s", msg, p.got()))
	}
	return p.sctx.Identifier
}

func (p *parser) expectTokens(tokens ...rune) rune {
	r := p.scan()
	for _, t := range tokens {
		if r == t {
			return r
		}
	}

	var msg string
	for i, t := range tokens {
		if i == len(tokens)-1 && i > 0 {
			msg += ", or "
		} else if i > 0 {
			msg += ", "
		}
		msg += token.Format(t)
	}
	p.error(fmt.Sprintf("expected %s got %s", msg, p.got()))
	return 0
}

func (p *parser) maybeToken(t rune) bool {
	if p.scan() == t {
		return true
	}
	p.unscan()
	return false
}

func (p *parser) expectInteger(min, max int64) int64 {
	if p.scan() != token.Integer || p.sctx.Integer < min || p.sctx.Integer > max {
		p.error(fmt.Sprintf("expected a number between %d and %d inclusive got %s", min, max,
			p.got()))
	}
	return p.sctx.Integer
}

func (p *parser) expectFormula() string {
	r := p.scan()
	if r != token.Formula && r != token.String {
		p.error(fmt.Sprintf("expected a formula got %s", p.got()))
	}
	return p.sctx.String
}

func (p *parser) expectEndOfStatement() {
	r := p.scan()
	if r == token.EOF {
		return
	} else if r != token.EndOfStatement {
		p.error(fmt.Sprintf("expected the end of the statement got %s", p.got()))
	}
}
