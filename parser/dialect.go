package parser

import (
	"github.com/leftmike/colcalc/engine"
	"github.com/leftmike/colcalc/expr"
)

type expDialect struct{}

// Translate parses formula as an expression and binds it to the columns of the table tid.
func (_ expDialect) Translate(s *engine.Schema, tid engine.TableID,
	formula string) (engine.Expression, error) {

	e, err := ParseExpr(formula)
	if err != nil {
		return nil, engine.NewError(engine.ParseError, "cannot parse formula", formula, err)
	}
	f, err := expr.Bind(s, tid, e)
	if err != nil {
		return nil, engine.AsError(err, engine.DefinitionError, "binding error")
	}
	return f, nil
}

func init() {
	engine.RegisterDialect(engine.DefaultDialect, expDialect{})
}
