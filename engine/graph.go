package engine

// Dependencies returns the columns read by the definition of the column cid; it is empty
// for columns without a (valid) definition.
func (s *Schema) Dependencies(cid ColumnID) []ColumnID {
	c := s.ColumnByID(cid)
	if c == nil || c.def == nil {
		return nil
	}
	return definitionDependencies(c.def)
}

// DependenciesOf returns the union of the dependencies of cids without duplicates.
func (s *Schema) DependenciesOf(cids []ColumnID) []ColumnID {
	var deps []ColumnID
	seen := map[ColumnID]struct{}{}
	for _, cid := range cids {
		for _, dep := range s.Dependencies(cid) {
			if _, ok := seen[dep]; ok {
				continue
			}
			seen[dep] = struct{}{}
			deps = append(deps, dep)
		}
	}
	return deps
}

// Dependants returns the columns which directly depend on the column cid.
func (s *Schema) Dependants(cid ColumnID) []ColumnID {
	var cids []ColumnID
	for _, c := range s.columns {
		for _, dep := range s.Dependencies(c.id) {
			if dep == cid {
				cids = append(cids, c.id)
				break
			}
		}
	}
	return cids
}

// walk visits each column reachable from start through dependencies exactly once, until fn
// returns true; it returns true if fn did.
func (s *Schema) walk(start []ColumnID, fn func(c *Column) bool) bool {
	visited := map[ColumnID]struct{}{}
	stack := append([]ColumnID(nil), start...)
	for len(stack) > 0 {
		cid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[cid]; ok {
			continue
		}
		visited[cid] = struct{}{}

		c := s.columns[cid]
		if fn(c) {
			return true
		}
		stack = append(stack, s.Dependencies(cid)...)
	}
	return false
}

// reaches is true if target can be reached from start.
func (s *Schema) reaches(start []ColumnID, target ColumnID) bool {
	return s.walk(start,
		func(c *Column) bool {
			return c.id == target
		})
}

// IsInCycle is true if the column cid depends on itself.
func (s *Schema) IsInCycle(cid ColumnID) bool {
	return s.reaches(s.Dependencies(cid), cid)
}

// HasDirtyDeep is true if the column or any column it depends on is dirty; the column then
// needs to be evaluated.
func (s *Schema) HasDirtyDeep(cid ColumnID) bool {
	if s.columns[cid].dirty {
		return true
	}
	return s.walk(s.Dependencies(cid),
		func(c *Column) bool {
			return c.dirty
		})
}

// HasDefinitionErrorsDeep is true if the column or any column it depends on has definition
// errors (or is part of a cycle); the column then can not be evaluated.
func (s *Schema) HasDefinitionErrorsDeep(cid ColumnID) bool {
	if len(s.columns[cid].definitionErrors) > 0 {
		return true
	}
	return s.walk(s.Dependencies(cid),
		func(c *Column) bool {
			return c.id == cid || len(c.definitionErrors) > 0
		})
}

// HasEvaluationErrorsDeep is true if the last evaluation attempt of the column or of any
// column it depends on failed.
func (s *Schema) HasEvaluationErrorsDeep(cid ColumnID) bool {
	if len(s.columns[cid].evaluationErrors) > 0 {
		return true
	}
	return s.walk(s.Dependencies(cid),
		func(c *Column) bool {
			return c.id == cid || len(c.evaluationErrors) > 0
		})
}
