package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/leftmike/colcalc/types"
)

type ColumnID int

type DefinitionType int

const (
	NoDefinition DefinitionType = iota
	CalcDefinition
	LinkDefinition
	AccuDefinition
)

func (dt DefinitionType) String() string {
	switch dt {
	case NoDefinition:
		return "NONE"
	case CalcDefinition:
		return "CALC"
	case LinkDefinition:
		return "LINK"
	case AccuDefinition:
		return "ACCU"
	}
	return fmt.Sprintf("DefinitionType(%d)", int(dt))
}

// Store holds the values of a column for the row range of its input table.
type Store interface {
	Get(row int64) types.Value
	Set(row int64, val types.Value)
	SetAll(val types.Value)
	Grow(count int64)
	Shrink(count int64)
}

type Column struct {
	id     ColumnID
	uid    uuid.UUID
	name   string
	input  TableID
	output TableID
	key    bool
	data   Store

	defType DefinitionType
	def     definition

	// Set when the values might be stale: new definition, values written, rows added or
	// removed, or the last evaluation failed.
	dirty bool

	definitionErrors []*Error
	evaluationErrors []*Error
}

func (c *Column) ID() ColumnID {
	return c.id
}

func (c *Column) UUID() uuid.UUID {
	return c.uid
}

func (c *Column) Name() string {
	return c.name
}

func (c *Column) SetName(name string) {
	c.name = name
}

func (c *Column) Input() TableID {
	return c.input
}

func (c *Column) Output() TableID {
	return c.output
}

func (c *Column) IsKey() bool {
	return c.key
}

func (c *Column) Value(row int64) types.Value {
	return c.data.Get(row)
}

func (c *Column) SetValue(row int64, val types.Value) {
	c.data.Set(row, val)
	c.dirty = true
}

func (c *Column) SetAllValues(val types.Value) {
	c.data.SetAll(val)
	c.dirty = true
}

func (c *Column) IsDirty() bool {
	return c.dirty
}

func (c *Column) SetDirty() {
	c.dirty = true
}

func (c *Column) DefinitionType() DefinitionType {
	return c.defType
}

// IsDerived is true for columns computed by a definition.
func (c *Column) IsDerived() bool {
	return c.defType == CalcDefinition || c.defType == LinkDefinition ||
		c.defType == AccuDefinition
}

// DefinitionErrors is empty if the definition is well formed.
func (c *Column) DefinitionErrors() []*Error {
	return c.definitionErrors
}

// EvaluationErrors is empty if the last evaluation attempt succeeded.
func (c *Column) EvaluationErrors() []*Error {
	return c.evaluationErrors
}

func (c *Column) String() string {
	return c.name
}
