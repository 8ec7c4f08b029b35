package engine

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/leftmike/colcalc/storage"
	"github.com/leftmike/colcalc/types"
)

// definition is one of *calcDefinition, *linkDefinition, or *accuDefinition.
type definition interface {
	definitionType() DefinitionType
}

type calcDefinition struct {
	expr Expression
}

type linkDefinition struct {
	keys   []ColumnID // columns of the output table
	exprs  []Expression
	append bool
}

type accuDefinition struct {
	init      Expression
	accu      Expression
	fin       Expression // optional
	accuTable TableID
	groupPath ColumnPath
}

func (_ *calcDefinition) definitionType() DefinitionType {
	return CalcDefinition
}

func (_ *linkDefinition) definitionType() DefinitionType {
	return LinkDefinition
}

func (_ *accuDefinition) definitionType() DefinitionType {
	return AccuDefinition
}

type dependencySet struct {
	cids []ColumnID
	seen map[ColumnID]struct{}
}

func (ds *dependencySet) add(cids ...ColumnID) {
	if ds.seen == nil {
		ds.seen = map[ColumnID]struct{}{}
	}
	for _, cid := range cids {
		if _, ok := ds.seen[cid]; !ok {
			ds.seen[cid] = struct{}{}
			ds.cids = append(ds.cids, cid)
		}
	}
}

func (ds *dependencySet) addExpr(e Expression) {
	if e == nil {
		return
	}
	for _, cp := range e.ParameterPaths() {
		ds.add(cp...)
	}
}

func definitionDependencies(def definition) []ColumnID {
	var ds dependencySet
	switch def := def.(type) {
	case *calcDefinition:
		ds.addExpr(def.expr)
	case *linkDefinition:
		for _, e := range def.exprs {
			ds.addExpr(e)
		}
		ds.add(def.keys...)
	case *accuDefinition:
		ds.addExpr(def.init)
		ds.addExpr(def.accu)
		ds.addExpr(def.fin)
		ds.add(def.groupPath...)
	default:
		panic(fmt.Sprintf("unexpected column definition: %T", def))
	}
	return ds.cids
}

// run executes the definition of c over all of the rows of its input table.
func (s *Schema) run(c *Column) []*Error {
	re := rowErrors{max: s.MaxRowErrors}
	switch def := c.def.(type) {
	case *calcDefinition:
		s.evaluateCalc(c, def, &re)
	case *linkDefinition:
		s.evaluateLink(c, def, &re)
	case *accuDefinition:
		s.evaluateAccu(c, def, &re)
	default:
		panic(fmt.Sprintf("unexpected column definition: %T", def))
	}
	return re.errors()
}

// evalRow evaluates e at row of its table; out is passed through to the evaluator.
func (s *Schema) evalRow(e Expression, row int64, params []types.Value,
	out types.Value) (types.Value, error) {

	err := s.readParams(e.ParameterPaths(), row, params)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(params, out)
}

func (s *Schema) store(c *Column, dt types.DataType, row int64, val types.Value,
	re *rowErrors) {

	val, err := types.ConvertValue(dt, val)
	if err != nil {
		re.add(row, errors.Wrapf(err, "column %s", c.name))
		val = nil
	}
	c.data.Set(row, val)
}

func (s *Schema) evaluateCalc(c *Column, def *calcDefinition, re *rowErrors) {
	dt := s.outputType(c)
	params := make([]types.Value, len(def.expr.ParameterPaths()))
	start, end := s.tables[c.input].Range()
	for row := start; row < end; row++ {
		val, err := s.evalRow(def.expr, row, params, c.data.Get(row))
		if err != nil {
			re.add(row, err)
			c.data.Set(row, nil)
			continue
		}
		s.store(c, dt, row, val, re)
	}
}

func (s *Schema) evaluateLink(c *Column, def *linkDefinition, re *rowErrors) {
	out := s.tables[c.output]
	keyTypes := make([]types.DataType, len(def.keys))
	for idx, cid := range def.keys {
		keyTypes[idx] = s.outputType(s.columns[cid])
	}

	key := make([]types.Value, len(def.keys))
	idx := storage.NewIndex()
	outStart, outEnd := out.Range()
	for row := outStart; row < outEnd; row++ {
		for kdx, cid := range def.keys {
			key[kdx] = s.columns[cid].data.Get(row)
		}
		idx.Insert(key, row)
	}

	start, end := s.tables[c.input].Range()
	for row := start; row < end; row++ {
		var err error
		for edx, e := range def.exprs {
			params := make([]types.Value, len(e.ParameterPaths()))
			key[edx], err = s.evalRow(e, row, params, nil)
			if err != nil {
				break
			}
			key[edx], err = types.ConvertValue(keyTypes[edx], key[edx])
			if err != nil {
				err = errors.Wrapf(err, "column %s", s.columns[def.keys[edx]].name)
				break
			}
		}
		if err != nil {
			re.add(row, err)
			c.data.Set(row, nil)
			continue
		}

		found, ok := idx.Lookup(key)
		if !ok && def.append {
			found, err = s.appendRow(out, def.keys, key)
			if err != nil {
				re.add(row, err)
				c.data.Set(row, nil)
				continue
			}
			idx.Insert(key, found)
			ok = true
		}
		if !ok {
			re.add(row, fmt.Errorf("engine: no matching row in %s", out.name))
			c.data.Set(row, nil)
			continue
		}
		c.data.Set(row, types.Int64Value(found))
	}
}

func (s *Schema) appendRow(t *Table, keys []ColumnID, key []types.Value) (int64, error) {
	row, err := s.AddRows(t.id, 1)
	if err != nil {
		return 0, err
	}
	for kdx, cid := range keys {
		s.columns[cid].data.Set(row, key[kdx])
	}
	s.appended += 1
	return row, nil
}

func (s *Schema) evaluateAccu(c *Column, def *accuDefinition, re *rowErrors) {
	dt := s.outputType(c)
	start, end := s.tables[c.input].Range()

	params := make([]types.Value, len(def.init.ParameterPaths()))
	for row := start; row < end; row++ {
		val, err := s.evalRow(def.init, row, params, c.data.Get(row))
		if err != nil {
			re.add(row, err)
			c.data.Set(row, nil)
			continue
		}
		s.store(c, dt, row, val, re)
	}

	params = make([]types.Value, len(def.accu.ParameterPaths()))
	accuStart, accuEnd := s.tables[def.accuTable].Range()
	for row := accuStart; row < accuEnd; row++ {
		grp, err := s.PathValue(def.groupPath, row)
		if err != nil {
			re.add(row, errors.Wrapf(err, "table %s", s.tables[def.accuTable].name))
			continue
		}
		if grp == nil {
			continue
		}
		id, ok := grp.(types.Int64Value)
		if !ok {
			re.add(row, fmt.Errorf("engine: table %s: group %s is not a row id",
				s.tables[def.accuTable].name, types.Format(grp)))
			continue
		}
		g := int64(id)
		if g < start || g >= end {
			continue
		}

		val, err := s.evalRow(def.accu, row, params, c.data.Get(g))
		if err != nil {
			re.add(row, errors.Wrapf(err, "table %s", s.tables[def.accuTable].name))
			continue
		}
		s.store(c, dt, g, val, re)
	}

	if def.fin == nil {
		return
	}
	params = make([]types.Value, len(def.fin.ParameterPaths()))
	for row := start; row < end; row++ {
		val, err := s.evalRow(def.fin, row, params, c.data.Get(row))
		if err != nil {
			re.add(row, err)
			c.data.Set(row, nil)
			continue
		}
		s.store(c, dt, row, val, re)
	}
}
