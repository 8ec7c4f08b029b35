package stmt

import (
	"fmt"

	"github.com/leftmike/colcalc/engine"
	"github.com/leftmike/colcalc/expr"
	"github.com/leftmike/colcalc/types"
)

type InsertValues struct {
	Table   types.Identifier
	Columns []types.Identifier
	Rows    [][]expr.Expr
}

func (stmt *InsertValues) String() string {
	s := fmt.Sprintf("INSERT INTO %s ", stmt.Table)
	if stmt.Columns != nil {
		s += "("
		for i, col := range stmt.Columns {
			if i > 0 {
				s += ", "
			}
			s += col.String()
		}
		s += ") "
	}

	s += "VALUES"
	for i, r := range stmt.Rows {
		if i > 0 {
			s += ", ("
		} else {
			s += " ("
		}

		for j, v := range r {
			if j > 0 {
				s += ", "
			}
			s += v.String()
		}

		s += ")"
	}
	return s
}

func (stmt *InsertValues) Execute(env *Env) (*Result, error) {
	t, err := env.lookupTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	var cols []*engine.Column
	if stmt.Columns == nil {
		for _, c := range env.Schema.TableColumns(t.ID()) {
			if !c.IsDerived() {
				cols = append(cols, c)
			}
		}
	} else {
		for _, id := range stmt.Columns {
			c, err := env.lookupColumn(ColumnName{Table: stmt.Table, Column: id})
			if err != nil {
				return nil, err
			}
			if c.IsDerived() {
				return nil, fmt.Errorf("stmt: column %s.%s is derived", stmt.Table, id)
			}
			cols = append(cols, c)
		}
	}

	rows := make([][]types.Value, len(stmt.Rows))
	for rdx, r := range stmt.Rows {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("stmt: %s: want %d values got %d", stmt.Table, len(cols),
				len(r))
		}
		rows[rdx] = make([]types.Value, len(r))
		for cdx, e := range r {
			v, err := expr.Const(e)
			if err != nil {
				return nil, err
			}
			rows[rdx][cdx], err = types.ConvertValue(env.Schema.OutputType(cols[cdx].ID()), v)
			if err != nil {
				return nil, fmt.Errorf("stmt: %s.%s: %s", stmt.Table, cols[cdx].Name(), err)
			}
		}
	}

	first, err := env.Schema.AddRows(t.ID(), int64(len(rows)))
	if err != nil {
		return nil, err
	}
	for rdx, r := range rows {
		for cdx, v := range r {
			cols[cdx].SetValue(first+int64(rdx), v)
		}
	}
	return &Result{Message: fmt.Sprintf("%d rows inserted", len(rows))}, nil
}

// SetValue assigns Value to the column at Row, or to every row if AllRows is true.
type SetValue struct {
	Column  ColumnName
	AllRows bool
	Row     int64
	Value   expr.Expr
}

func (stmt *SetValue) String() string {
	if stmt.AllRows {
		return fmt.Sprintf("SET %s = %s", stmt.Column, stmt.Value)
	}
	return fmt.Sprintf("SET %s ROW %d = %s", stmt.Column, stmt.Row, stmt.Value)
}

func (stmt *SetValue) Execute(env *Env) (*Result, error) {
	c, err := env.lookupColumn(stmt.Column)
	if err != nil {
		return nil, err
	}
	if c.IsDerived() {
		return nil, fmt.Errorf("stmt: column %s is derived", stmt.Column)
	}

	v, err := expr.Const(stmt.Value)
	if err != nil {
		return nil, err
	}
	v, err = types.ConvertValue(env.Schema.OutputType(c.ID()), v)
	if err != nil {
		return nil, fmt.Errorf("stmt: %s: %s", stmt.Column, err)
	}

	if stmt.AllRows {
		c.SetAllValues(v)
		return &Result{Message: fmt.Sprintf("column %s set", stmt.Column)}, nil
	}

	start, end := env.Schema.TableByID(c.Input()).Range()
	if stmt.Row < start || stmt.Row >= end {
		return nil, fmt.Errorf("stmt: %s: row %d not in [%d, %d)", stmt.Column, stmt.Row,
			start, end)
	}
	c.SetValue(stmt.Row, v)
	return &Result{Message: fmt.Sprintf("column %s row %d set", stmt.Column, stmt.Row)}, nil
}

type RemoveRows struct {
	Table types.Identifier
	Count int64
}

func (stmt *RemoveRows) String() string {
	return fmt.Sprintf("REMOVE ROWS %d FROM %s", stmt.Count, stmt.Table)
}

func (stmt *RemoveRows) Execute(env *Env) (*Result, error) {
	t, err := env.lookupTable(stmt.Table)
	if err != nil {
		return nil, err
	}
	n := t.Len()
	err = env.Schema.RemoveRows(t.ID(), stmt.Count)
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("%d rows removed", n-t.Len())}, nil
}
