package testutil

import (
	"strings"

	"github.com/leftmike/colcalc/types"
)

// ValuesEqual compares rows of values with types.Compare, so Int64Value(1) and
// Float64Value(1) are equal.
func ValuesEqual(rows1, rows2 [][]types.Value) bool {
	if len(rows1) != len(rows2) {
		return false
	}
	for rdx := range rows1 {
		if len(rows1[rdx]) != len(rows2[rdx]) {
			return false
		}
		for vdx := range rows1[rdx] {
			if types.Compare(rows1[rdx][vdx], rows2[rdx][vdx]) != 0 {
				return false
			}
		}
	}
	return true
}

func FormatValues(rows [][]types.Value) string {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString("[")
		for vdx, v := range row {
			if vdx > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(types.Format(v))
		}
		sb.WriteString("]")
	}
	return sb.String()
}
