package stmt

import (
	"fmt"
	"strings"

	"github.com/leftmike/colcalc/types"
)

type Calc struct {
	Column  ColumnName
	Dialect string
	Formula string
}

func usingDialect(d string) string {
	if d == "" {
		return ""
	}
	return fmt.Sprintf(" USING %s", d)
}

func (stmt *Calc) String() string {
	return fmt.Sprintf("CALC %s%s {%s}", stmt.Column, usingDialect(stmt.Dialect),
		stmt.Formula)
}

func (stmt *Calc) Execute(env *Env) (*Result, error) {
	c, err := env.lookupColumn(stmt.Column)
	if err != nil {
		return nil, err
	}
	err = env.Schema.CalculateFormula(c.ID(), env.dialect(stmt.Dialect), stmt.Formula)
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("column %s defined", stmt.Column)}, nil
}

type Link struct {
	Column   ColumnName
	Dialect  string
	Keys     []types.Identifier
	Formulas []string
	Append   bool
}

func (stmt *Link) String() string {
	var keys []string
	for idx, key := range stmt.Keys {
		keys = append(keys, fmt.Sprintf("%s = {%s}", key, stmt.Formulas[idx]))
	}
	s := fmt.Sprintf("LINK %s%s BY %s", stmt.Column, usingDialect(stmt.Dialect),
		strings.Join(keys, ", "))
	if stmt.Append {
		s += " APPEND"
	}
	return s
}

func (stmt *Link) Execute(env *Env) (*Result, error) {
	c, err := env.lookupColumn(stmt.Column)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(stmt.Keys))
	for idx, key := range stmt.Keys {
		names[idx] = key.String()
	}
	err = env.Schema.LinkFormulas(c.ID(), env.dialect(stmt.Dialect), names, stmt.Formulas,
		stmt.Append)
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("column %s defined", stmt.Column)}, nil
}

type Accu struct {
	Column     ColumnName
	Dialect    string
	Init       string
	Accumulate string
	Finalize   string
	From       types.Identifier
	By         []types.Identifier
}

func (stmt *Accu) String() string {
	s := fmt.Sprintf("ACCU %s%s INIT {%s} ACCUMULATE {%s}", stmt.Column,
		usingDialect(stmt.Dialect), stmt.Init, stmt.Accumulate)
	if stmt.Finalize != "" {
		s += fmt.Sprintf(" FINALIZE {%s}", stmt.Finalize)
	}
	var by []string
	for _, id := range stmt.By {
		by = append(by, id.String())
	}
	return s + fmt.Sprintf(" FROM %s BY %s", stmt.From, strings.Join(by, "."))
}

func (stmt *Accu) Execute(env *Env) (*Result, error) {
	c, err := env.lookupColumn(stmt.Column)
	if err != nil {
		return nil, err
	}

	by := make([]string, len(stmt.By))
	for idx, id := range stmt.By {
		by[idx] = id.String()
	}
	err = env.Schema.AccumulateFormulas(c.ID(), env.dialect(stmt.Dialect), stmt.Init,
		stmt.Accumulate, stmt.Finalize, stmt.From.String(), by)
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("column %s defined", stmt.Column)}, nil
}
