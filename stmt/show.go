package stmt

import (
	"fmt"
	"strings"

	"github.com/leftmike/colcalc/types"
)

// Evaluate brings one column, or every column if Column is nil, up to date.
type Evaluate struct {
	Column *ColumnName
}

func (stmt *Evaluate) String() string {
	if stmt.Column == nil {
		return "EVALUATE"
	}
	return fmt.Sprintf("EVALUATE %s", stmt.Column)
}

func (stmt *Evaluate) Execute(env *Env) (*Result, error) {
	if stmt.Column == nil {
		cnt := env.Schema.EvaluateAll()
		if cnt == 0 {
			return &Result{Message: "all columns up to date"}, nil
		}
		return &Result{Message: fmt.Sprintf("%d columns not up to date", cnt)}, nil
	}

	c, err := env.lookupColumn(*stmt.Column)
	if err != nil {
		return nil, err
	}
	err = env.Schema.Evaluate(c.ID())
	if err != nil {
		return nil, err
	}
	return &Result{
		Message: fmt.Sprintf("%s: %s", stmt.Column, columnState(env.Schema, c)),
	}, nil
}

type ShowTables struct{}

func (_ ShowTables) String() string {
	return "SHOW TABLES"
}

func (_ ShowTables) Execute(env *Env) (*Result, error) {
	res := Result{
		Columns: []string{"table", "rows", "columns"},
	}
	for _, t := range env.Schema.Tables() {
		if t.IsPrimitive() {
			continue
		}
		res.Rows = append(res.Rows, []types.Value{
			types.StringValue(t.Name()),
			types.Int64Value(t.Len()),
			types.Int64Value(len(env.Schema.TableColumns(t.ID()))),
		})
	}
	return &res, nil
}

// ShowTable returns the values of every column of a table, one row per row id.
type ShowTable struct {
	Table types.Identifier
}

func (stmt *ShowTable) String() string {
	return fmt.Sprintf("SHOW TABLE %s", stmt.Table)
}

func (stmt *ShowTable) Execute(env *Env) (*Result, error) {
	t, err := env.lookupTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	cols := env.Schema.TableColumns(t.ID())
	res := Result{
		Columns: []string{"row"},
	}
	for _, c := range cols {
		res.Columns = append(res.Columns, c.Name())
	}

	start, end := t.Range()
	for row := start; row < end; row++ {
		vals := []types.Value{types.Int64Value(row)}
		for _, c := range cols {
			vals = append(vals, c.Value(row))
		}
		res.Rows = append(res.Rows, vals)
	}
	return &res, nil
}

// Status reports the definition type, dirty flag, state and errors of every column.
type Status struct{}

func (_ Status) String() string {
	return "STATUS"
}

func (_ Status) Execute(env *Env) (*Result, error) {
	res := Result{
		Columns: []string{"column", "output", "type", "dirty", "state", "errors"},
	}
	for _, cs := range env.Schema.Status() {
		c := env.Schema.ColumnByID(cs.ID)
		errs := errorStrings(cs.DefinitionErrors)
		errs = append(errs, errorStrings(cs.EvaluationErrors)...)
		res.Rows = append(res.Rows, []types.Value{
			types.StringValue(fmt.Sprintf("%s.%s", cs.Table, cs.Column)),
			types.StringValue(env.Schema.TableByID(c.Output()).Name()),
			types.StringValue(cs.Type.String()),
			types.BoolValue(cs.Dirty),
			types.StringValue(columnState(env.Schema, c)),
			types.StringValue(strings.Join(errs, "; ")),
		})
	}
	return &res, nil
}
