package engine

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

type evalState int

const (
	notVisited evalState = iota
	inProgress
	done
)

type frame struct {
	cid     ColumnID
	entered bool
}

// An append by a link column grows its output table in the middle of a pass; the columns of
// that table which were already evaluated are settled by another pass.
const maxEvaluationPasses = 10

// pass holds the marks of one evaluation pass over the columns reachable from its start.
type pass struct {
	states map[ColumnID]evalState

	// Computed once when the pass starts: the column or a dependency, directly or
	// indirectly, has definition errors (blocked) or is dirty (stale).
	blocked map[ColumnID]bool
	stale   map[ColumnID]bool

	// The column or a dependency failed to evaluate during this pass.
	failed map[ColumnID]bool
}

func (s *Schema) newPass(start []ColumnID) *pass {
	p := &pass{
		states:  map[ColumnID]evalState{},
		blocked: map[ColumnID]bool{},
		stale:   map[ColumnID]bool{},
		failed:  map[ColumnID]bool{},
	}

	marks := map[ColumnID]evalState{}
	var stack []frame
	for _, cid := range start {
		stack = append(stack, frame{cid: cid})
	}
	for len(stack) > 0 {
		top := len(stack) - 1
		cid := stack[top].cid

		if stack[top].entered {
			stack = stack[:top]
			c := s.columns[cid]
			blocked := len(c.definitionErrors) > 0
			stale := c.dirty
			for _, dep := range s.Dependencies(cid) {
				blocked = blocked || p.blocked[dep]
				stale = stale || p.stale[dep]
			}
			p.blocked[cid] = blocked
			p.stale[cid] = stale
			marks[cid] = done
			continue
		}

		if marks[cid] != notVisited {
			stack = stack[:top]
			continue
		}
		marks[cid] = inProgress
		stack[top].entered = true
		for _, dep := range s.Dependencies(cid) {
			if marks[dep] == notVisited {
				stack = append(stack, frame{cid: dep})
			}
		}
	}
	return p
}

// settle evaluates the columns start, and what they depend on, until no link column
// appended rows to its output table during a pass.
func (s *Schema) settle(start []ColumnID) {
	for n := 1; ; n++ {
		appended := s.appended
		p := s.newPass(start)
		for _, cid := range start {
			s.evaluate(cid, p)
		}
		if s.appended == appended {
			return
		}
		if n == maxEvaluationPasses {
			log.WithFields(log.Fields{
				"schema": s.name,
				"passes": n,
				"rows":   s.appended - appended,
			}).Warn("link columns still appending rows")
			return
		}
	}
}

// Evaluate brings the column cid up to date: its dependencies are evaluated first and then
// its definition is run if anything it depends on changed. The outcome is reported by the
// dirty flag and the error lists of the columns.
func (s *Schema) Evaluate(cid ColumnID) error {
	if s.ColumnByID(cid) == nil {
		return fmt.Errorf("engine: unknown column %d", cid)
	}
	s.settle([]ColumnID{cid})
	return nil
}

// EvaluateAll evaluates every column of the schema; it returns the number of derived columns
// which are not up to date afterwards.
func (s *Schema) EvaluateAll() int {
	cids := make([]ColumnID, len(s.columns))
	for idx, c := range s.columns {
		cids[idx] = c.id
	}
	s.settle(cids)

	var cnt int
	for _, c := range s.columns {
		if c.IsDerived() && c.dirty {
			cnt += 1
		}
	}
	log.WithFields(log.Fields{
		"schema":  s.name,
		"columns": len(s.columns),
		"dirty":   cnt,
	}).Debug("schema evaluated")
	return cnt
}

func (s *Schema) evaluate(cid ColumnID, p *pass) {
	stack := []frame{{cid: cid}}
	for len(stack) > 0 {
		top := len(stack) - 1
		c := s.columns[stack[top].cid]

		if stack[top].entered {
			stack = stack[:top]
			s.finish(c, p)
			p.states[c.id] = done
			continue
		}

		if p.states[c.id] != notVisited || !s.enter(c, p) {
			stack = stack[:top]
			if p.states[c.id] == notVisited {
				p.states[c.id] = done
			}
			continue
		}
		stack[top].entered = true
		p.states[c.id] = inProgress

		deps := s.Dependencies(c.id)
		for idx := len(deps) - 1; idx >= 0; idx-- {
			switch p.states[deps[idx]] {
			case done:
				continue
			case inProgress:
				log.WithFields(log.Fields{
					"column":     c.name,
					"dependency": s.columns[deps[idx]].name,
				}).Warn("dependency already being evaluated")
				continue
			}
			stack = append(stack, frame{cid: deps[idx]})
		}
	}
}

// enter returns true if the definition of c might need to be run once its dependencies
// have been evaluated.
func (s *Schema) enter(c *Column, p *pass) bool {
	if c.defType == NoDefinition {
		if c.dirty {
			for _, cid := range s.Dependants(c.id) {
				s.columns[cid].dirty = true
			}
			c.dirty = false
		}
		return false
	}

	c.evaluationErrors = nil
	if p.blocked[c.id] {
		log.WithField("column", c.name).Trace("column has definition errors")
		return false
	}
	return c.dirty || p.stale[c.id]
}

func (s *Schema) finish(c *Column, p *pass) {
	for _, dep := range s.Dependencies(c.id) {
		if p.failed[dep] {
			p.failed[c.id] = true
			log.WithField("column", c.name).Trace("dependency failed to evaluate")
			return
		}
	}

	errs := s.run(c)
	c.evaluationErrors = append(c.evaluationErrors, errs...)
	for _, cid := range s.Dependants(c.id) {
		s.columns[cid].dirty = true
	}
	c.dirty = len(c.evaluationErrors) > 0
	p.failed[c.id] = c.dirty

	log.WithFields(log.Fields{
		"table":  s.tables[c.input].name,
		"column": c.name,
		"type":   c.defType,
		"rows":   s.tables[c.input].Len(),
		"errors": len(errs),
	}).Debug("column evaluated")
}

// ColumnStatus is a snapshot of the state of one column.
type ColumnStatus struct {
	ID               ColumnID
	Table            string
	Column           string
	Type             DefinitionType
	Dirty            bool
	DefinitionErrors []*Error
	EvaluationErrors []*Error
}

func (s *Schema) Status() []ColumnStatus {
	var status []ColumnStatus
	for _, c := range s.columns {
		status = append(status, ColumnStatus{
			ID:               c.id,
			Table:            s.tables[c.input].name,
			Column:           c.name,
			Type:             c.defType,
			Dirty:            c.dirty,
			DefinitionErrors: c.definitionErrors,
			EvaluationErrors: c.evaluationErrors,
		})
	}
	return status
}
