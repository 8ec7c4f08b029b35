package storage_test

import (
	"testing"

	"github.com/leftmike/colcalc/storage"
	"github.com/leftmike/colcalc/types"
)

func TestColumnData(t *testing.T) {
	cd := storage.NewColumnData(0, 3)
	if start, end := cd.Range(); start != 0 || end != 3 {
		t.Errorf("Range() got [%d, %d) want [0, 3)", start, end)
	}
	cd.SetAll(types.Int64Value(7))
	cd.Set(1, types.Int64Value(8))
	for row, want := range []types.Value{types.Int64Value(7), types.Int64Value(8),
		types.Int64Value(7)} {

		if got := cd.Get(int64(row)); types.Compare(got, want) != 0 {
			t.Errorf("Get(%d) got %s want %s", row, types.Format(got), types.Format(want))
		}
	}

	cd.Grow(2)
	if got := cd.Get(4); got != nil {
		t.Errorf("Get(4) got %s want NULL", types.Format(got))
	}
	cd.Shrink(2)
	if start, end := cd.Range(); start != 2 || end != 5 {
		t.Errorf("Range() got [%d, %d) want [2, 5)", start, end)
	}
	if got := cd.Get(1); got != nil {
		t.Errorf("Get(1) got %s want NULL", types.Format(got))
	}
	if got := cd.Get(2); types.Compare(got, types.Int64Value(7)) != 0 {
		t.Errorf("Get(2) got %s want 7", types.Format(got))
	}

	cd.Shrink(10)
	if start, end := cd.Range(); start != 5 || end != 5 {
		t.Errorf("Range() got [%d, %d) want [5, 5)", start, end)
	}
}

func TestIndex(t *testing.T) {
	idx := storage.NewIndex()
	keys := [][]types.Value{
		{types.StringValue("a"), types.Int64Value(1)},
		{types.StringValue("a"), types.Int64Value(2)},
		{types.StringValue("b"), nil},
		{types.StringValue("a"), types.Int64Value(1)},
	}
	want := []bool{true, true, true, false}
	for row, key := range keys {
		if ok := idx.Insert(key, int64(row)); ok != want[row] {
			t.Errorf("Insert(%v, %d) got %v want %v", key, row, ok, want[row])
		}
	}
	if idx.Len() != 3 {
		t.Errorf("Len() got %d want 3", idx.Len())
	}

	cases := []struct {
		key []types.Value
		row int64
		ok  bool
	}{
		{[]types.Value{types.StringValue("a"), types.Int64Value(1)}, 0, true},
		{[]types.Value{types.StringValue("a"), types.Float64Value(2)}, 1, true},
		{[]types.Value{types.StringValue("b"), nil}, 2, true},
		{[]types.Value{types.StringValue("c"), nil}, 0, false},
	}
	for _, c := range cases {
		row, ok := idx.Lookup(c.key)
		if ok != c.ok || (ok && row != c.row) {
			t.Errorf("Lookup(%v) got %d, %v want %d, %v", c.key, row, ok, c.row, c.ok)
		}
	}

	var n int
	idx.Ascend(
		func(key []types.Value, row int64) bool {
			n += 1
			return true
		})
	if n != 3 {
		t.Errorf("Ascend() visited %d keys want 3", n)
	}
}
