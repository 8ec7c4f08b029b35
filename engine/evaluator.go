package engine

import (
	"fmt"
	"strings"

	"github.com/leftmike/colcalc/types"
)

// Evaluator computes one value from the values of its parameters; out is the current
// value of the column being computed (the running value when accumulating).
type Evaluator interface {
	Evaluate(params []types.Value, out types.Value) (types.Value, error)
}

type EvaluatorFunc func(params []types.Value, out types.Value) (types.Value, error)

func (fn EvaluatorFunc) Evaluate(params []types.Value, out types.Value) (types.Value, error) {
	return fn(params, out)
}

// Expression is an Evaluator which knows the column paths its parameters are read from.
type Expression interface {
	Evaluator
	ParameterPaths() []ColumnPath
	SetParameterPaths(paths []ColumnPath)
}

// Factory makes a new Evaluator; an Evaluator which is also an Expression will have its
// parameter paths set.
type Factory func() (Evaluator, error)

type pathExpression struct {
	eval  Evaluator
	paths []ColumnPath
}

// NewExpression binds eval to parameter paths.
func NewExpression(eval Evaluator, paths []ColumnPath) Expression {
	return &pathExpression{
		eval:  eval,
		paths: paths,
	}
}

func (pe *pathExpression) Evaluate(params []types.Value, out types.Value) (types.Value, error) {
	return pe.eval.Evaluate(params, out)
}

func (pe *pathExpression) ParameterPaths() []ColumnPath {
	return pe.paths
}

func (pe *pathExpression) SetParameterPaths(paths []ColumnPath) {
	pe.paths = paths
}

// Translator turns formula text into an Expression bound to a table of the schema.
type Translator interface {
	Translate(s *Schema, tid TableID, formula string) (Expression, error)
}

const DefaultDialect = "exp"

var (
	dialects = map[string]Translator{}
)

// RegisterDialect makes a formula dialect available by name; it is intended to be called
// from init functions.
func RegisterDialect(name string, tr Translator) {
	name = strings.ToLower(name)
	if _, dup := dialects[name]; dup {
		panic(fmt.Sprintf("engine: dialect %s registered twice", name))
	}
	dialects[name] = tr
}

func Dialects() []string {
	var names []string
	for name := range dialects {
		names = append(names, name)
	}
	return names
}

func (s *Schema) translate(dialect string, tid TableID, formula string) (Expression, *Error) {
	if dialect == "" {
		dialect = DefaultDialect
	}
	tr, ok := dialects[strings.ToLower(dialect)]
	if !ok {
		return nil, NewError(DefinitionError, "unknown formula dialect", dialect, nil)
	}
	e, err := tr.Translate(s, tid, formula)
	if err != nil {
		return nil, AsError(err, ParseError, fmt.Sprintf("formula %q", formula))
	}
	return e, nil
}
