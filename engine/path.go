package engine

import (
	"fmt"
	"strings"

	"github.com/leftmike/colcalc/types"
)

// ColumnPath is a sequence of columns where the output table of each column is the input
// table of the next one; the values of all but the last column are row ids.
type ColumnPath []ColumnID

func (cp ColumnPath) Equal(cp2 ColumnPath) bool {
	if len(cp) != len(cp2) {
		return false
	}
	for idx := range cp {
		if cp[idx] != cp2[idx] {
			return false
		}
	}
	return true
}

// PathValue follows cp starting at row of the input table of its first column. A null
// anywhere along the path is the value of the path.
func (s *Schema) PathValue(cp ColumnPath, row int64) (types.Value, error) {
	var val types.Value
	for idx, cid := range cp {
		if idx > 0 {
			if val == nil {
				return nil, nil
			}
			id, ok := val.(types.Int64Value)
			if !ok {
				return nil, fmt.Errorf("engine: path %s: expected a row id got %s",
					s.PathString(cp), types.Format(val))
			}
			row = int64(id)
		}
		val = s.columns[cid].data.Get(row)
	}
	return val, nil
}

// ResolvePath resolves names as a path starting at the table tid.
func (s *Schema) ResolvePath(tid TableID, names []string) (ColumnPath, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("engine: empty column path")
	}

	var cp ColumnPath
	for _, nam := range names {
		c := s.Column(tid, nam)
		if c == nil {
			return nil, NewError(NameResolutionError, "cannot resolve column name",
				fmt.Sprintf("%s.%s", s.tables[tid].name, nam), nil)
		}
		cp = append(cp, c.id)
		tid = c.output
	}
	return cp, nil
}

func (s *Schema) PathString(cp ColumnPath) string {
	names := make([]string, len(cp))
	for idx, cid := range cp {
		names[idx] = s.columns[cid].name
	}
	return strings.Join(names, ".")
}

func (s *Schema) checkPath(cp ColumnPath) error {
	for idx, cid := range cp {
		if cid < 0 || int(cid) >= len(s.columns) {
			return fmt.Errorf("engine: column path: unknown column %d", cid)
		}
		if idx > 0 && s.columns[cp[idx-1]].output != s.columns[cid].input {
			return fmt.Errorf("engine: column path %s: %s is not a column of %s",
				s.PathString(cp[:idx+1]), s.columns[cid].name,
				s.tables[s.columns[cp[idx-1]].output].name)
		}
	}
	return nil
}

func (s *Schema) readParams(paths []ColumnPath, row int64, params []types.Value) error {
	for idx, cp := range paths {
		val, err := s.PathValue(cp, row)
		if err != nil {
			return err
		}
		params[idx] = val
	}
	return nil
}
