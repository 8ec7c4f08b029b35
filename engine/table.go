package engine

import (
	"github.com/leftmike/colcalc/types"
)

type TableID int

// Table is a set of rows identified by the row ids in [start, end). Primitive tables are
// value domains and have no rows.
type Table struct {
	id        TableID
	name      string
	primitive bool
	dataType  types.DataType
	start     int64
	end       int64
}

func (t *Table) ID() TableID {
	return t.id
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) IsPrimitive() bool {
	return t.primitive
}

// DataType is the domain of a primitive table.
func (t *Table) DataType() types.DataType {
	return t.dataType
}

func (t *Table) Range() (int64, int64) {
	return t.start, t.end
}

func (t *Table) Len() int64 {
	return t.end - t.start
}

func (t *Table) String() string {
	return t.name
}
