package parser

import (
	"fmt"

	"github.com/leftmike/colcalc/expr"
	"github.com/leftmike/colcalc/parser/token"
	"github.com/leftmike/colcalc/types"
)

/*
<expr>:
      <literal>
    | - <expr>
    | NOT <expr>
    | ! <expr>
    | ( <expr> )
    | <expr> <op> <expr>
    | OUT
    | <ref> [. <ref> ...]
    | <func> ( [<expr> [,...]] )
<op>:
      + - * / %
    | = == != <> < <= > >=
    | ||
    | AND | OR | &&
*/

var binaryOps = map[rune]expr.Op{
	token.AmpAmp:       expr.AndOp,
	token.BarBar:       expr.ConcatOp,
	token.Equal:        expr.EqualOp,
	token.EqualEqual:   expr.EqualOp,
	token.BangEqual:    expr.NotEqualOp,
	token.Greater:      expr.GreaterThanOp,
	token.GreaterEqual: expr.GreaterEqualOp,
	token.Less:         expr.LessThanOp,
	token.LessEqual:    expr.LessEqualOp,
	token.LessGreater:  expr.NotEqualOp,
	token.Minus:        expr.SubtractOp,
	token.Percent:      expr.ModuloOp,
	token.Plus:         expr.AddOp,
	token.Slash:        expr.DivideOp,
	token.Star:         expr.MultiplyOp,
}

func (p *parser) binaryOp() (expr.Op, bool) {
	r := p.scan()
	if op, ok := binaryOps[r]; ok {
		return op, true
	}
	if r == token.Reserved {
		switch p.sctx.Identifier {
		case types.AND:
			return expr.AndOp, true
		case types.OR:
			return expr.OrOp, true
		}
	}
	p.unscan()
	return 0, false
}

// parseExpr parses binary operators of at least precedence prec; operators of the same
// precedence associate to the left.
func (p *parser) parseExpr(prec int) expr.Expr {
	e := p.parseUnary()
	for {
		op, ok := p.binaryOp()
		if !ok {
			return e
		}
		if op.Precedence() < prec {
			p.unscan()
			return e
		}
		e = &expr.Binary{
			Op:    op,
			Left:  e,
			Right: p.parseExpr(op.Precedence() + 1),
		}
	}
}

func (p *parser) parseUnary() expr.Expr {
	r := p.scan()
	if r == token.Minus {
		return &expr.Unary{Op: expr.NegateOp, Expr: p.parseUnary()}
	} else if r == token.Bang || (r == token.Reserved && p.sctx.Identifier == types.NOT) {
		return &expr.Unary{Op: expr.NotOp, Expr: p.parseExpr(expr.NotOp.Precedence() + 1)}
	}
	p.unscan()
	return p.parsePrimary()
}

func (p *parser) parsePrimary() expr.Expr {
	switch p.scan() {
	case token.Reserved:
		switch p.sctx.Identifier {
		case types.TRUE:
			return &expr.Literal{Value: types.BoolValue(true)}
		case types.FALSE:
			return &expr.Literal{Value: types.BoolValue(false)}
		case types.NULL:
			return &expr.Literal{Value: nil}
		case types.OUT:
			return expr.Out{}
		}
	case token.String:
		return &expr.Literal{Value: types.StringValue(p.sctx.String)}
	case token.Bytes:
		return &expr.Literal{Value: types.BytesValue(p.sctx.Bytes)}
	case token.Integer:
		return &expr.Literal{Value: types.Int64Value(p.sctx.Integer)}
	case token.Float:
		return &expr.Literal{Value: types.Float64Value(p.sctx.Float)}
	case token.LParen:
		// ( <expr> )
		e := &expr.Unary{Op: expr.NoOp, Expr: p.parseExpr(0)}
		if p.scan() != token.RParen {
			p.error(fmt.Sprintf("expected closing parenthesis got %s", p.got()))
		}
		return e
	case token.Identifier:
		id := p.sctx.Identifier
		if p.maybeToken(token.LParen) {
			// <func> ( <expr> [,...] )
			c := &expr.Call{Name: id}
			if !p.maybeToken(token.RParen) {
				for {
					c.Args = append(c.Args, p.parseExpr(0))
					if p.expectTokens(token.Comma, token.RParen) == token.RParen {
						break
					}
				}
			}
			return c
		}

		// <ref> [. <ref> ...]
		ref := expr.Ref{id}
		for p.maybeToken(token.Dot) {
			ref = append(ref, p.expectIdentifier("expected a column"))
		}
		return ref
	}

	p.error(fmt.Sprintf("expected an expression got %s", p.got()))
	return nil
}
