package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/leftmike/colcalc/storage"
	"github.com/leftmike/colcalc/types"
)

const DefaultMaxRowErrors = 10

// Schema owns all of the tables and columns; they refer to each other by id.
type Schema struct {
	name    string
	tables  []*Table
	columns []*Column

	// MaxRowErrors limits the row errors kept by one evaluation attempt of a column;
	// zero or less keeps all of them.
	MaxRowErrors int

	// NewStore makes the store for a new column; the default keeps the values in memory.
	NewStore func(start, end int64) Store

	// Rows appended by link columns while evaluating.
	appended int64
}

var primitiveTables = []struct {
	name string
	dt   types.DataType
}{
	{"Object", types.UnknownType},
	{"Boolean", types.BooleanType},
	{"Integer", types.IntegerType},
	{"Float", types.FloatType},
	{"String", types.StringType},
	{"Bytes", types.BytesType},
}

func newColumnData(start, end int64) Store {
	return storage.NewColumnData(start, end)
}

// NewSchema returns a schema containing only the primitive tables.
func NewSchema(name string) *Schema {
	s := &Schema{
		name:         name,
		MaxRowErrors: DefaultMaxRowErrors,
		NewStore:     newColumnData,
	}
	for _, pt := range primitiveTables {
		s.tables = append(s.tables, &Table{
			id:        TableID(len(s.tables)),
			name:      pt.name,
			primitive: true,
			dataType:  pt.dt,
		})
	}
	return s
}

func (s *Schema) Name() string {
	return s.name
}

// PrimitiveTable returns the primitive table for dt.
func (s *Schema) PrimitiveTable(dt types.DataType) *Table {
	for _, t := range s.tables {
		if t.primitive && t.dataType == dt {
			return t
		}
	}
	panic(fmt.Sprintf("engine: no primitive table for %s", dt))
}

func (s *Schema) CreateTable(name string) (*Table, error) {
	if s.Table(name) != nil {
		return nil, fmt.Errorf("engine: table %s already exists", name)
	}
	t := &Table{
		id:   TableID(len(s.tables)),
		name: name,
	}
	s.tables = append(s.tables, t)
	log.WithField("table", name).Debug("table created")
	return t, nil
}

// Table returns nil if there is no table named name.
func (s *Schema) Table(name string) *Table {
	for _, t := range s.tables {
		if strings.EqualFold(t.name, name) {
			return t
		}
	}
	return nil
}

func (s *Schema) TableByID(tid TableID) *Table {
	if tid < 0 || int(tid) >= len(s.tables) {
		return nil
	}
	return s.tables[tid]
}

func (s *Schema) Tables() []*Table {
	return s.tables
}

// CreateColumn adds a column without a definition. Its values are null and it is dirty.
func (s *Schema) CreateColumn(name string, input, output TableID, key bool) (*Column, error) {
	in := s.TableByID(input)
	if in == nil || in.primitive {
		return nil, fmt.Errorf("engine: column %s: bad input table %d", name, input)
	}
	if s.TableByID(output) == nil {
		return nil, fmt.Errorf("engine: column %s: bad output table %d", name, output)
	}
	if s.Column(input, name) != nil {
		return nil, fmt.Errorf("engine: column %s.%s already exists", in.name, name)
	}

	c := &Column{
		id:     ColumnID(len(s.columns)),
		uid:    uuid.New(),
		name:   name,
		input:  input,
		output: output,
		key:    key,
		data:   s.NewStore(in.start, in.end),
		dirty:  true,
	}
	s.columns = append(s.columns, c)
	log.WithFields(log.Fields{
		"table":  in.name,
		"column": name,
		"output": s.tables[output].name,
	}).Debug("column created")
	return c, nil
}

// Column returns nil if the table tid does not have a column named name.
func (s *Schema) Column(tid TableID, name string) *Column {
	for _, c := range s.columns {
		if c.input == tid && strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

func (s *Schema) ColumnByID(cid ColumnID) *Column {
	if cid < 0 || int(cid) >= len(s.columns) {
		return nil
	}
	return s.columns[cid]
}

func (s *Schema) Columns() []*Column {
	return s.columns
}

// TableColumns returns the columns whose input is the table tid.
func (s *Schema) TableColumns(tid TableID) []*Column {
	var cols []*Column
	for _, c := range s.columns {
		if c.input == tid {
			cols = append(cols, c)
		}
	}
	return cols
}

// SetOutput changes the output table of a column; its values are reset to null.
func (s *Schema) SetOutput(cid ColumnID, output TableID) error {
	c := s.ColumnByID(cid)
	if c == nil {
		return fmt.Errorf("engine: unknown column %d", cid)
	}
	if s.TableByID(output) == nil {
		return fmt.Errorf("engine: column %s: bad output table %d", c.name, output)
	}
	c.output = output
	c.SetAllValues(nil)
	return nil
}

// AddRows appends count rows to the table tid and returns the id of the first new row.
// Every column of the table grows and becomes dirty.
func (s *Schema) AddRows(tid TableID, count int64) (int64, error) {
	t := s.TableByID(tid)
	if t == nil || t.primitive {
		return 0, fmt.Errorf("engine: can not add rows to table %d", tid)
	}
	if count < 0 {
		return 0, fmt.Errorf("engine: table %s: bad row count %d", t.name, count)
	}

	row := t.end
	t.end += count
	for _, c := range s.columns {
		if c.input == tid {
			c.data.Grow(count)
			c.dirty = true
		}
	}
	return row, nil
}

// RemoveRows removes the oldest count rows of the table tid.
func (s *Schema) RemoveRows(tid TableID, count int64) error {
	t := s.TableByID(tid)
	if t == nil || t.primitive {
		return fmt.Errorf("engine: can not remove rows from table %d", tid)
	}
	if count < 0 {
		return fmt.Errorf("engine: table %s: bad row count %d", t.name, count)
	}
	if count > t.end-t.start {
		count = t.end - t.start
	}

	t.start += count
	for _, c := range s.columns {
		if c.input == tid {
			c.data.Shrink(count)
			c.dirty = true
		}
	}
	return nil
}

// OutputType is the type values of the column are converted to; columns whose output is not
// a primitive table hold row ids.
func (s *Schema) OutputType(cid ColumnID) types.DataType {
	return s.outputType(s.columns[cid])
}

func (s *Schema) outputType(c *Column) types.DataType {
	out := s.tables[c.output]
	if out.primitive {
		return out.dataType
	}
	return types.IntegerType
}
