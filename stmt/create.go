package stmt

import (
	"fmt"

	"github.com/leftmike/colcalc/types"
)

type CreateTable struct {
	Table types.Identifier
}

func (stmt *CreateTable) String() string {
	return fmt.Sprintf("CREATE TABLE %s", stmt.Table)
}

func (stmt *CreateTable) Execute(env *Env) (*Result, error) {
	_, err := env.Schema.CreateTable(stmt.Table.String())
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("table %s created", stmt.Table)}, nil
}

type CreateColumn struct {
	Column ColumnName
	Output types.Identifier
	Key    bool
}

func (stmt *CreateColumn) String() string {
	s := fmt.Sprintf("CREATE COLUMN %s %s", stmt.Column, stmt.Output)
	if stmt.Key {
		s += " KEY"
	}
	return s
}

func (stmt *CreateColumn) Execute(env *Env) (*Result, error) {
	t, err := env.lookupTable(stmt.Column.Table)
	if err != nil {
		return nil, err
	}

	out := env.Schema.Table(stmt.Output.String())
	if out == nil {
		dt, ok := types.LookupDataType(stmt.Output.String())
		if !ok {
			return nil, fmt.Errorf("stmt: %s is not a type or a table", stmt.Output)
		}
		out = env.Schema.PrimitiveTable(dt)
	}

	_, err = env.Schema.CreateColumn(stmt.Column.Column.String(), t.ID(), out.ID(), stmt.Key)
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("column %s created", stmt.Column)}, nil
}
