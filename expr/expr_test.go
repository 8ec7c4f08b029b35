package expr_test

import (
	"testing"

	"github.com/leftmike/colcalc/engine"
	"github.com/leftmike/colcalc/expr"
	"github.com/leftmike/colcalc/parser"
	"github.com/leftmike/colcalc/types"
)

func TestConst(t *testing.T) {
	cases := []struct {
		s    string
		v    types.Value
		fail bool
	}{
		{s: "1 + 2 * 3", v: types.Int64Value(7)},
		{s: "(1 + 2) * 3", v: types.Int64Value(9)},
		{s: "10 - 4 - 3", v: types.Int64Value(3)},
		{s: "7 / 2", v: types.Int64Value(3)},
		{s: "7 / 2.0", v: types.Float64Value(3.5)},
		{s: "7 % 3", v: types.Int64Value(1)},
		{s: "-5 + 2", v: types.Int64Value(-3)},
		{s: "- -5", v: types.Int64Value(5)},
		{s: "1.5 * 2", v: types.Float64Value(3)},
		{s: "1 / 0", fail: true},
		{s: "1.0 / 0", v: types.Float64Value(1.0 / zero)},
		{s: "1 % 0", fail: true},
		{s: "1.5 % 2", fail: true},
		{s: "1 + 'abc'", fail: true},
		{s: "-'abc'", fail: true},
		{s: "1 + NULL", v: nil},
		{s: "NULL / 0", v: nil},
		{s: "'abc' || 'def'", v: types.StringValue("abcdef")},
		{s: "'abc' || 12", v: types.StringValue("abc12")},
		{s: "'abc' || NULL", v: nil},
		{s: "1 < 2", v: types.BoolValue(true)},
		{s: "2 <= 2.0", v: types.BoolValue(true)},
		{s: "1 > 2", v: types.BoolValue(false)},
		{s: "3 >= 2", v: types.BoolValue(true)},
		{s: "1 = 1", v: types.BoolValue(true)},
		{s: "1 == 2", v: types.BoolValue(false)},
		{s: "1 != 2", v: types.BoolValue(true)},
		{s: "1 <> 1", v: types.BoolValue(false)},
		{s: "'a' < 'b'", v: types.BoolValue(true)},
		{s: "'a' < 1", fail: true},
		{s: "NULL = NULL", v: nil},
		{s: "TRUE AND FALSE", v: types.BoolValue(false)},
		{s: "TRUE && TRUE", v: types.BoolValue(true)},
		{s: "FALSE AND NULL", v: types.BoolValue(false)},
		{s: "TRUE AND NULL", v: nil},
		{s: "TRUE OR NULL", v: types.BoolValue(true)},
		{s: "FALSE OR NULL", v: nil},
		{s: "FALSE OR FALSE", v: types.BoolValue(false)},
		{s: "NULL AND FALSE", v: types.BoolValue(false)},
		{s: "NULL OR TRUE", v: types.BoolValue(true)},
		{s: "NULL OR NULL", v: nil},
		{s: "TRUE AND 1", fail: true},
		{s: "1 AND TRUE", fail: true},
		{s: "NOT TRUE", v: types.BoolValue(false)},
		{s: "!FALSE", v: types.BoolValue(true)},
		{s: "NOT 1", fail: true},
		{s: "NOT 1 = 2", v: types.BoolValue(true)},
		{s: "1 < 2 AND 2 < 3 OR FALSE", v: types.BoolValue(true)},
		{s: "abs(-3)", v: types.Int64Value(3)},
		{s: "abs(-2.5)", v: types.Float64Value(2.5)},
		{s: "abs('a')", fail: true},
		{s: "coalesce(NULL, NULL, 3, 4)", v: types.Int64Value(3)},
		{s: "coalesce(NULL)", v: nil},
		{s: "concat('a', NULL, 1, TRUE)", v: types.StringValue("a1true")},
		{s: "if(1 < 2, 'yes', 'no')", v: types.StringValue("yes")},
		{s: "if(NULL, 'yes', 'no')", v: types.StringValue("no")},
		{s: "if(1, 'yes', 'no')", fail: true},
		{s: "is_null(NULL)", v: types.BoolValue(true)},
		{s: "is_null(0)", v: types.BoolValue(false)},
		{s: "length('héllo')", v: types.Int64Value(5)},
		{s: "length(x'0102')", v: types.Int64Value(2)},
		{s: "length(1)", fail: true},
		{s: "lower('ABC')", v: types.StringValue("abc")},
		{s: "upper('abc')", v: types.StringValue("ABC")},
		{s: "max(1, 5, NULL, 3)", v: types.Int64Value(5)},
		{s: "min(4, 2.5, 3)", v: types.Float64Value(2.5)},
		{s: "min(NULL, NULL)", v: nil},
		{s: "max(1, 'a')", fail: true},
		{s: "OUT", v: nil},
		{s: "nosuchfunc(1)", fail: true},
		{s: "abs()", fail: true},
		{s: "abs(1, 2)", fail: true},
		{s: "if(TRUE, 1)", fail: true},
		{s: "x + 1", fail: true},
	}

	for _, c := range cases {
		e, err := parser.ParseExpr(c.s)
		if err != nil {
			t.Errorf("ParseExpr(%q) failed with %s", c.s, err)
			continue
		}
		v, err := expr.Const(e)
		if c.fail {
			if err == nil {
				t.Errorf("Const(%q) did not fail", c.s)
			}
			continue
		}
		if err != nil {
			t.Errorf("Const(%q) failed with %s", c.s, err)
		} else if types.Compare(v, c.v) != 0 || types.TypeOf(v) != types.TypeOf(c.v) {
			t.Errorf("Const(%q) got %s want %s", c.s, types.Format(v), types.Format(c.v))
		}
	}
}

var zero float64

func newSchema(t *testing.T) (*engine.Schema, *engine.Table) {
	t.Helper()

	s := engine.NewSchema("test")
	groups, err := s.CreateTable("groups")
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.CreateColumn("name", groups.ID(), s.PrimitiveTable(types.StringType).ID(), true)
	if err != nil {
		t.Fatal(err)
	}

	items, err := s.CreateTable("items")
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct {
		name string
		out  *engine.Table
	}{
		{"x", s.PrimitiveTable(types.IntegerType)},
		{"y", s.PrimitiveTable(types.FloatType)},
		{"grp", groups},
	} {
		_, err = s.CreateColumn(c.name, items.ID(), c.out.ID(), false)
		if err != nil {
			t.Fatal(err)
		}
	}
	return s, items
}

func TestBind(t *testing.T) {
	s, items := newSchema(t)

	cases := []struct {
		s     string
		r     string
		paths []string
		fail  bool
	}{
		{s: "1 + 2", r: `"+"(1, 2)`},
		{s: "x * 2", r: `"*"($1, 2)`, paths: []string{"x"}},
		{s: "(x + y) * x", r: `"*"("+"($1, $2), $1)`, paths: []string{"x", "y"}},
		{s: "X + Items_x", fail: true},
		{s: "upper(grp.name) || OUT", r: `"||"(upper($1), OUT)`,
			paths: []string{"grp.name"}},
		{s: "coalesce(grp, -1)", r: `coalesce($1, "-"(1))`, paths: []string{"grp"}},
		{s: "grp.name.x", fail: true},
		{s: "grp.nosuch", fail: true},
		{s: "nosuch", fail: true},
		{s: "x.y", fail: true},
	}

	for _, c := range cases {
		e, err := parser.ParseExpr(c.s)
		if err != nil {
			t.Errorf("ParseExpr(%q) failed with %s", c.s, err)
			continue
		}
		f, err := expr.Bind(s, items.ID(), e)
		if c.fail {
			if err == nil {
				t.Errorf("Bind(%q) did not fail", c.s)
			}
			continue
		}
		if err != nil {
			t.Errorf("Bind(%q) failed with %s", c.s, err)
			continue
		}
		if f.String() != c.r {
			t.Errorf("Bind(%q) got %s want %s", c.s, f.String(), c.r)
		}
		paths := f.ParameterPaths()
		if len(paths) != len(c.paths) {
			t.Errorf("Bind(%q).ParameterPaths() got %d paths want %d", c.s, len(paths),
				len(c.paths))
			continue
		}
		for pdx, cp := range paths {
			if s.PathString(cp) != c.paths[pdx] {
				t.Errorf("Bind(%q).ParameterPaths()[%d] got %s want %s", c.s, pdx,
					s.PathString(cp), c.paths[pdx])
			}
		}
	}
}

func TestNameResolution(t *testing.T) {
	s, items := newSchema(t)

	e, err := parser.ParseExpr("grp.nosuch + 1")
	if err != nil {
		t.Fatalf("ParseExpr() failed with %s", err)
	}
	_, err = expr.Bind(s, items.ID(), e)
	if err == nil {
		t.Fatal("Bind(grp.nosuch) did not fail")
	}
	if ee := engine.AsError(err, engine.DefinitionError, "binding error"); ee.Code !=
		engine.NameResolutionError {

		t.Errorf("Bind(grp.nosuch) got %s want %s", ee.Code, engine.NameResolutionError)
	}
}

func TestFormula(t *testing.T) {
	s, items := newSchema(t)

	cases := []struct {
		s      string
		params []types.Value
		out    types.Value
		v      types.Value
		fail   bool
	}{
		{
			s:      "x * 2",
			params: []types.Value{types.Int64Value(21)},
			v:      types.Int64Value(42),
		},
		{
			s:      "x * 2",
			params: []types.Value{nil},
			v:      nil,
		},
		{
			s:      "OUT + x",
			params: []types.Value{types.Int64Value(2)},
			out:    types.Int64Value(40),
			v:      types.Int64Value(42),
		},
		{
			s:      "coalesce(OUT, 0) + x",
			params: []types.Value{types.Int64Value(2)},
			v:      types.Int64Value(2),
		},
		{
			s:      "max(OUT, y)",
			params: []types.Value{types.Float64Value(1.5)},
			out:    types.Int64Value(3),
			v:      types.Int64Value(3),
		},
		{
			s:      "x / (y - y)",
			params: []types.Value{types.Int64Value(1), types.Float64Value(2)},
			v:      types.Float64Value(1.0 / zero),
		},
		{
			s:      "x % (x - x)",
			params: []types.Value{types.Int64Value(1)},
			fail:   true,
		},
		{
			s:    "x + 1",
			fail: true,
		},
	}

	for _, c := range cases {
		e, err := parser.ParseExpr(c.s)
		if err != nil {
			t.Errorf("ParseExpr(%q) failed with %s", c.s, err)
			continue
		}
		f, err := expr.Bind(s, items.ID(), e)
		if err != nil {
			t.Errorf("Bind(%q) failed with %s", c.s, err)
			continue
		}
		v, err := f.Evaluate(c.params, c.out)
		if c.fail {
			if err == nil {
				t.Errorf("Evaluate(%q) did not fail", c.s)
			}
			continue
		}
		if err != nil {
			t.Errorf("Evaluate(%q) failed with %s", c.s, err)
		} else if types.Compare(v, c.v) != 0 {
			t.Errorf("Evaluate(%q) got %s want %s", c.s, types.Format(v), types.Format(c.v))
		}
	}
}
