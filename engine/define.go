package engine

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// reset clears the definition and all errors of c and marks it dirty.
func (s *Schema) reset(c *Column, dt DefinitionType) {
	c.defType = dt
	c.def = nil
	c.definitionErrors = nil
	c.evaluationErrors = nil
	c.dirty = true
}

func (s *Schema) definitionError(c *Column, e *Error) error {
	c.definitionErrors = append(c.definitionErrors, e)
	log.WithFields(log.Fields{
		"table":  s.tables[c.input].name,
		"column": c.name,
		"type":   c.defType,
	}).WithError(e).Warn("column definition rejected")
	return e
}

// bind accepts def for c unless it would make c depend on itself; a rejected definition
// leaves c without dependencies.
func (s *Schema) bind(c *Column, def definition) error {
	if s.reaches(definitionDependencies(def), c.id) {
		return s.definitionError(c, cyclicDependencyError())
	}
	c.def = def
	log.WithFields(log.Fields{
		"table":        s.tables[c.input].name,
		"column":       c.name,
		"type":         c.defType,
		"dependencies": len(definitionDependencies(def)),
	}).Debug("column defined")
	return nil
}

func (s *Schema) lookupColumn(cid ColumnID) (*Column, error) {
	c := s.ColumnByID(cid)
	if c == nil {
		return nil, fmt.Errorf("engine: unknown column %d", cid)
	}
	return c, nil
}

// checkExpr checks that every parameter path of e starts at the table tid, which is the
// table e is evaluated over.
func (s *Schema) checkExpr(c *Column, e Expression, what string, tid TableID) error {
	if e == nil {
		return s.definitionError(c,
			NewError(DefinitionError, fmt.Sprintf("missing %s expression", what), "", nil))
	}
	for _, cp := range e.ParameterPaths() {
		if len(cp) == 0 {
			return s.definitionError(c, NewError(DefinitionError, "bad parameter path",
				fmt.Sprintf("empty path in %s expression", what), nil))
		}
		if err := s.checkPath(cp); err != nil {
			return s.definitionError(c, AsError(err, DefinitionError, "bad parameter path"))
		}
		if first := s.columns[cp[0]]; first.input != tid {
			return s.definitionError(c, NewError(DefinitionError, "bad parameter path",
				fmt.Sprintf("%s is not a column of %s", s.PathString(cp), s.tables[tid].name),
				nil))
		}
	}
	return nil
}

// ClearDefinition makes c a column without a definition.
func (s *Schema) ClearDefinition(cid ColumnID) error {
	c, err := s.lookupColumn(cid)
	if err != nil {
		return err
	}
	s.reset(c, NoDefinition)
	return nil
}

// Calculate defines the column cid to be computed row by row by eval from the values of
// paths.
func (s *Schema) Calculate(cid ColumnID, eval Evaluator, paths []ColumnPath) error {
	c, err := s.lookupColumn(cid)
	if err != nil {
		return err
	}
	s.reset(c, CalcDefinition)

	if eval == nil {
		return s.definitionError(c, NewError(DefinitionError, "missing evaluator", "", nil))
	}
	e := NewExpression(eval, paths)
	if err := s.checkExpr(c, e, "calculate", c.input); err != nil {
		return err
	}
	return s.bind(c, &calcDefinition{expr: e})
}

// CalculateFactory is Calculate with the evaluator made by factory; a factory failure is a
// definition error.
func (s *Schema) CalculateFactory(cid ColumnID, factory Factory, paths []ColumnPath) error {
	c, err := s.lookupColumn(cid)
	if err != nil {
		return err
	}
	s.reset(c, CalcDefinition)

	eval, err := factory()
	if err == nil && eval == nil {
		err = fmt.Errorf("engine: factory returned no evaluator")
	}
	if err != nil {
		return s.definitionError(c, NewError(InstantiationError, "instantiation error",
			"cannot create an evaluator", err))
	}

	var e Expression
	if ex, ok := eval.(Expression); ok {
		ex.SetParameterPaths(paths)
		e = ex
	} else {
		e = NewExpression(eval, paths)
	}
	if err := s.checkExpr(c, e, "calculate", c.input); err != nil {
		return err
	}
	return s.bind(c, &calcDefinition{expr: e})
}

// CalculateFormula translates formula with dialect against the input table of the column.
func (s *Schema) CalculateFormula(cid ColumnID, dialect, formula string) error {
	c, err := s.lookupColumn(cid)
	if err != nil {
		return err
	}
	s.reset(c, CalcDefinition)

	e, derr := s.translate(dialect, c.input, formula)
	if derr != nil {
		return s.definitionError(c, derr)
	}
	return s.bind(c, &calcDefinition{expr: e})
}

// Link defines the column cid to hold, for each row, the row of its output table whose
// keys match the values of exprs. If appendRows is true, missing rows are added to the
// output table.
func (s *Schema) Link(cid ColumnID, keys []ColumnID, exprs []Expression,
	appendRows bool) error {

	c, err := s.lookupColumn(cid)
	if err != nil {
		return err
	}
	s.reset(c, LinkDefinition)

	if s.tables[c.output].primitive {
		return s.definitionError(c, NewError(DefinitionError, "link to primitive table",
			s.tables[c.output].name, nil))
	}
	if len(keys) == 0 || len(keys) != len(exprs) {
		return s.definitionError(c, NewError(DefinitionError, "bad link",
			fmt.Sprintf("%d key columns and %d expressions", len(keys), len(exprs)), nil))
	}
	for _, kid := range keys {
		kc := s.ColumnByID(kid)
		if kc == nil || kc.input != c.output {
			return s.definitionError(c, NewError(DefinitionError, "bad link key column",
				fmt.Sprintf("not a column of %s", s.tables[c.output].name), nil))
		}
	}
	for _, e := range exprs {
		if err := s.checkExpr(c, e, "link", c.input); err != nil {
			return err
		}
	}

	return s.bind(c, &linkDefinition{
		keys:   append([]ColumnID(nil), keys...),
		exprs:  append([]Expression(nil), exprs...),
		append: appendRows,
	})
}

// LinkFormulas resolves names as columns of the output table and translates formulas
// against the input table.
func (s *Schema) LinkFormulas(cid ColumnID, dialect string, names, formulas []string,
	appendRows bool) error {

	c, err := s.lookupColumn(cid)
	if err != nil {
		return err
	}
	s.reset(c, LinkDefinition)

	var keys []ColumnID
	for _, nam := range names {
		kc := s.Column(c.output, nam)
		if kc == nil {
			return s.definitionError(c, NewError(NameResolutionError,
				"cannot resolve column name", nam, nil))
		}
		keys = append(keys, kc.id)
	}

	var exprs []Expression
	for _, formula := range formulas {
		e, derr := s.translate(dialect, c.input, formula)
		if derr != nil {
			return s.definitionError(c, derr)
		}
		exprs = append(exprs, e)
	}

	return s.Link(cid, keys, exprs, appendRows)
}

// Accumulate defines the column cid as a fold over the rows of the table at the start of
// groupPath: init is evaluated for each row of the input table, accu for each row of the
// accumulation table in the group given by groupPath, and then fin, if not nil.
func (s *Schema) Accumulate(cid ColumnID, init, accu, fin Expression,
	groupPath ColumnPath) error {

	c, err := s.lookupColumn(cid)
	if err != nil {
		return err
	}
	s.reset(c, AccuDefinition)

	if len(groupPath) == 0 {
		return s.definitionError(c, NewError(DefinitionError, "missing grouping path", "",
			nil))
	}
	if err := s.checkPath(groupPath); err != nil {
		return s.definitionError(c, AsError(err, DefinitionError, "bad grouping path"))
	}
	last := s.columns[groupPath[len(groupPath)-1]]
	if last.output != c.input {
		return s.definitionError(c, NewError(DefinitionError, "bad grouping path",
			fmt.Sprintf("%s does not lead to %s", s.PathString(groupPath),
				s.tables[c.input].name), nil))
	}
	accuTable := s.columns[groupPath[0]].input
	if err := s.checkExpr(c, init, "init", c.input); err != nil {
		return err
	}
	if err := s.checkExpr(c, accu, "accumulate", accuTable); err != nil {
		return err
	}
	if fin != nil {
		if err := s.checkExpr(c, fin, "finalize", c.input); err != nil {
			return err
		}
	}

	return s.bind(c, &accuDefinition{
		init:      init,
		accu:      accu,
		fin:       fin,
		accuTable: accuTable,
		groupPath: append(ColumnPath(nil), groupPath...),
	})
}

// AccumulateFormulas resolves accuTable and groupPath by name and translates the formulas;
// accuFormula is bound to accuTable and the others to the input table of the column. An
// empty finFormula means no finalization.
func (s *Schema) AccumulateFormulas(cid ColumnID, dialect, initFormula, accuFormula,
	finFormula, accuTable string, groupPath []string) error {

	c, err := s.lookupColumn(cid)
	if err != nil {
		return err
	}
	s.reset(c, AccuDefinition)

	at := s.Table(accuTable)
	if at == nil || at.primitive {
		return s.definitionError(c, NewError(DefinitionError, "binding error",
			fmt.Sprintf("cannot find table %s", accuTable), nil))
	}
	gp, err := s.ResolvePath(at.id, groupPath)
	if err != nil {
		return s.definitionError(c, AsError(err, DefinitionError, "binding error"))
	}

	init, derr := s.translate(dialect, c.input, initFormula)
	if derr != nil {
		return s.definitionError(c, derr)
	}
	accu, derr := s.translate(dialect, at.id, accuFormula)
	if derr != nil {
		return s.definitionError(c, derr)
	}
	var fin Expression
	if finFormula != "" {
		fin, derr = s.translate(dialect, c.input, finFormula)
		if derr != nil {
			return s.definitionError(c, derr)
		}
	}

	return s.Accumulate(cid, init, accu, fin, gp)
}
