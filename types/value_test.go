package types_test

import (
	"testing"

	"github.com/leftmike/colcalc/types"
)

func TestCompare(t *testing.T) {
	cases := []struct {
		v1, v2 types.Value
		cmp    int
	}{
		{nil, types.BoolValue(true), -1},
		{nil, nil, 0},

		{types.BoolValue(false), nil, 1},
		{types.BoolValue(true), types.BoolValue(true), 0},
		{types.BoolValue(false), types.BoolValue(true), -1},
		{types.BoolValue(true), types.BoolValue(false), 1},
		{types.BoolValue(false), types.Float64Value(1.23), -1},

		{types.Float64Value(1.23), types.BoolValue(false), 1},
		{types.Float64Value(1.23), types.Int64Value(123), -1},
		{types.Float64Value(1.23), types.StringValue("abc"), -1},
		{types.Float64Value(1.23), types.Float64Value(1.23), 0},

		{types.Int64Value(123), types.Float64Value(1.23), 1},
		{types.Int64Value(123), types.Int64Value(234), -1},
		{types.Int64Value(2), types.Float64Value(2.0), 0},

		{types.StringValue("abc"), types.Int64Value(123), 1},
		{types.StringValue("def"), types.StringValue("ghi"), -1},
		{types.StringValue("def"), types.BytesValue("def"), -1},
		{types.BytesValue{1, 2}, types.BytesValue{1, 3}, -1},
	}

	for _, c := range cases {
		cmp := types.Compare(c.v1, c.v2)
		if cmp != c.cmp {
			t.Errorf("Compare(%v, %v) got %d want %d", c.v1, c.v2, cmp, c.cmp)
		}
	}
}

func TestConvertValue(t *testing.T) {
	cases := []struct {
		dt   types.DataType
		v    types.Value
		r    types.Value
		fail bool
	}{
		{dt: types.IntegerType, v: types.Float64Value(2.5), r: types.Int64Value(2)},
		{dt: types.IntegerType, v: types.StringValue(" 12 "), r: types.Int64Value(12)},
		{dt: types.IntegerType, v: types.StringValue("abc"), fail: true},
		{dt: types.FloatType, v: types.Int64Value(3), r: types.Float64Value(3)},
		{dt: types.StringType, v: types.Int64Value(3), r: types.StringValue("3")},
		{dt: types.StringType, v: types.BoolValue(true), r: types.StringValue("true")},
		{dt: types.BooleanType, v: types.StringValue("yes"), r: types.BoolValue(true)},
		{dt: types.BooleanType, v: types.Int64Value(1), fail: true},
		{dt: types.BytesType, v: types.StringValue("ab"), r: types.BytesValue("ab")},
		{dt: types.UnknownType, v: types.Int64Value(7), r: types.Int64Value(7)},
		{dt: types.IntegerType, v: nil, r: nil},
	}

	for _, c := range cases {
		r, err := types.ConvertValue(c.dt, c.v)
		if c.fail {
			if err == nil {
				t.Errorf("ConvertValue(%s, %s) did not fail", c.dt, types.Format(c.v))
			}
			continue
		}
		if err != nil {
			t.Errorf("ConvertValue(%s, %s) failed with %s", c.dt, types.Format(c.v), err)
		} else if types.Compare(r, c.r) != 0 || types.TypeOf(r) != types.TypeOf(c.r) {
			t.Errorf("ConvertValue(%s, %s) got %s want %s", c.dt, types.Format(c.v),
				types.Format(r), types.Format(c.r))
		}
	}
}

func TestLookupDataType(t *testing.T) {
	cases := []struct {
		s  string
		dt types.DataType
		ok bool
	}{
		{"int", types.IntegerType, true},
		{"DOUBLE", types.FloatType, true},
		{"Object", types.UnknownType, true},
		{"text", types.StringType, true},
		{"widget", types.UnknownType, false},
	}

	for _, c := range cases {
		dt, ok := types.LookupDataType(c.s)
		if dt != c.dt || ok != c.ok {
			t.Errorf("LookupDataType(%q) got %s, %v want %s, %v", c.s, dt, ok, c.dt, c.ok)
		}
	}
}
