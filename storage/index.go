package storage

import (
	"github.com/google/btree"

	"github.com/leftmike/colcalc/types"
)

type indexItem struct {
	key []types.Value
	row int64
}

func compareKeys(k1, k2 []types.Value) int {
	for idx := 0; idx < len(k1) && idx < len(k2); idx++ {
		cmp := types.Compare(k1[idx], k2[idx])
		if cmp != 0 {
			return cmp
		}
	}
	if len(k1) < len(k2) {
		return -1
	} else if len(k1) > len(k2) {
		return 1
	}
	return 0
}

func (ii indexItem) Less(item btree.Item) bool {
	return compareKeys(ii.key, item.(indexItem).key) < 0
}

// Index maps a tuple of values to the first row inserted with that tuple.
type Index struct {
	tree *btree.BTree
}

func NewIndex() *Index {
	return &Index{
		tree: btree.New(16),
	}
}

// Insert adds key for row unless the key is already present; it returns false if the key
// was already present.
func (idx *Index) Insert(key []types.Value, row int64) bool {
	if idx.tree.Has(indexItem{key: key}) {
		return false
	}
	k := make([]types.Value, len(key))
	copy(k, key)
	idx.tree.ReplaceOrInsert(indexItem{key: k, row: row})
	return true
}

func (idx *Index) Lookup(key []types.Value) (int64, bool) {
	item := idx.tree.Get(indexItem{key: key})
	if item == nil {
		return 0, false
	}
	return item.(indexItem).row, true
}

func (idx *Index) Len() int {
	return idx.tree.Len()
}

// Ascend calls fn for each key in order until fn returns false.
func (idx *Index) Ascend(fn func(key []types.Value, row int64) bool) {
	idx.tree.Ascend(
		func(item btree.Item) bool {
			ii := item.(indexItem)
			return fn(ii.key, ii.row)
		})
}
