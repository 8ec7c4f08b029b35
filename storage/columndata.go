package storage

import (
	"fmt"

	"github.com/leftmike/colcalc/types"
)

// ColumnData stores the values of one column for the rows [start, end) of its table.
// Rows are appended at the end and removed from the start.
type ColumnData struct {
	start  int64
	values []types.Value
}

func NewColumnData(start, end int64) *ColumnData {
	if end < start {
		panic(fmt.Sprintf("storage: bad row range [%d, %d)", start, end))
	}
	return &ColumnData{
		start:  start,
		values: make([]types.Value, end-start),
	}
}

func (cd *ColumnData) Range() (int64, int64) {
	return cd.start, cd.start + int64(len(cd.values))
}

func (cd *ColumnData) inRange(row int64) bool {
	return row >= cd.start && row < cd.start+int64(len(cd.values))
}

// Get returns nil for rows outside of the range.
func (cd *ColumnData) Get(row int64) types.Value {
	if !cd.inRange(row) {
		return nil
	}
	return cd.values[row-cd.start]
}

func (cd *ColumnData) Set(row int64, val types.Value) {
	if !cd.inRange(row) {
		panic(fmt.Sprintf("storage: row %d out of range [%d, %d)", row, cd.start,
			cd.start+int64(len(cd.values))))
	}
	cd.values[row-cd.start] = val
}

func (cd *ColumnData) SetAll(val types.Value) {
	for idx := range cd.values {
		cd.values[idx] = val
	}
}

// Grow appends count rows with nil values.
func (cd *ColumnData) Grow(count int64) {
	if count <= 0 {
		return
	}
	cd.values = append(cd.values, make([]types.Value, count)...)
}

// Shrink removes the oldest count rows.
func (cd *ColumnData) Shrink(count int64) {
	if count <= 0 {
		return
	}
	if count > int64(len(cd.values)) {
		count = int64(len(cd.values))
	}
	for idx := int64(0); idx < count; idx++ {
		cd.values[idx] = nil
	}
	cd.values = cd.values[count:]
	cd.start += count
}
