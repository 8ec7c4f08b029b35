package stmt

import (
	"fmt"

	"github.com/leftmike/colcalc/engine"
	"github.com/leftmike/colcalc/types"
)

// Env is what statements execute against.
type Env struct {
	Schema  *engine.Schema
	Dialect string
}

// Result is the output of a statement: a message, rows, or both.
type Result struct {
	Message string
	Columns []string
	Rows    [][]types.Value
}

type Stmt interface {
	fmt.Stringer
	Execute(env *Env) (*Result, error)
}

type ColumnName struct {
	Table  types.Identifier
	Column types.Identifier
}

func (cn ColumnName) String() string {
	return fmt.Sprintf("%s.%s", cn.Table, cn.Column)
}

func (env *Env) dialect(d string) string {
	if d != "" {
		return d
	}
	if env.Dialect != "" {
		return env.Dialect
	}
	return engine.DefaultDialect
}

func (env *Env) lookupTable(tbl types.Identifier) (*engine.Table, error) {
	t := env.Schema.Table(tbl.String())
	if t == nil || t.IsPrimitive() {
		return nil, fmt.Errorf("stmt: table %s not found", tbl)
	}
	return t, nil
}

func (env *Env) lookupColumn(cn ColumnName) (*engine.Column, error) {
	t, err := env.lookupTable(cn.Table)
	if err != nil {
		return nil, err
	}
	c := env.Schema.Column(t.ID(), cn.Column.String())
	if c == nil {
		return nil, fmt.Errorf("stmt: column %s not found", cn)
	}
	return c, nil
}

// columnState describes whether the column is up to date and, if not, why not.
func columnState(s *engine.Schema, c *engine.Column) string {
	if !c.IsDerived() {
		if c.IsDirty() {
			return "modified"
		}
		return "ok"
	}
	if len(c.DefinitionErrors()) > 0 {
		return "definition errors"
	} else if s.HasDefinitionErrorsDeep(c.ID()) {
		return "blocked"
	} else if len(c.EvaluationErrors()) > 0 {
		return "evaluation errors"
	} else if c.IsDirty() {
		return "dirty"
	}
	return "ok"
}

func errorStrings(errs []*engine.Error) []string {
	strs := make([]string, len(errs))
	for idx, err := range errs {
		strs[idx] = err.Error()
	}
	return strs
}
