package stmt_test

import (
	"io"
	"strings"
	"testing"

	"github.com/leftmike/colcalc/engine"
	"github.com/leftmike/colcalc/parser"
	"github.com/leftmike/colcalc/stmt"
	"github.com/leftmike/colcalc/testutil"
	"github.com/leftmike/colcalc/types"
)

type step struct {
	s    string
	msg  string
	rows [][]types.Value
	fail bool
}

func str(v string) types.Value {
	return types.StringValue(v)
}

func i(v int64) types.Value {
	return types.Int64Value(v)
}

func runSteps(t *testing.T, env *stmt.Env, steps []step) {
	t.Helper()

	for _, st := range steps {
		p := parser.NewParser(strings.NewReader(st.s), "test")
		s, err := p.Parse()
		if err != nil {
			t.Errorf("Parse(%q) failed with %s", st.s, err)
			continue
		}
		if _, err := p.Parse(); err != io.EOF {
			t.Errorf("Parse(%q) got more than one statement", st.s)
		}

		res, err := s.Execute(env)
		if st.fail {
			if err == nil {
				t.Errorf("Execute(%q) did not fail", st.s)
			}
			continue
		}
		if err != nil {
			t.Errorf("Execute(%q) failed with %s", st.s, err)
			continue
		}
		if st.msg != "" && res.Message != st.msg {
			t.Errorf("Execute(%q) got %q want %q", st.s, res.Message, st.msg)
		}
		if st.rows != nil && !testutil.ValuesEqual(res.Rows, st.rows) {
			t.Errorf("Execute(%q) got %s want %s", st.s, testutil.FormatValues(res.Rows),
				testutil.FormatValues(st.rows))
		}
	}
}

func TestCalc(t *testing.T) {
	env := &stmt.Env{Schema: engine.NewSchema("test")}
	runSteps(t, env, []step{
		{s: "create table items", msg: "table items created"},
		{s: "create table items", fail: true},
		{s: "create column items.x integer", msg: "column items.x created"},
		{s: "create column items.y int", msg: "column items.y created"},
		{s: "create column items.z nosuchtype", fail: true},
		{s: "create column nosuch.z integer", fail: true},
		{s: "insert into items values (1), (2), (3)", fail: true},
		{s: "insert into items (x) values (1), (2), (3)", msg: "3 rows inserted"},
		{s: "insert into items (x, y) values (4, 0), ('5', 0)", msg: "2 rows inserted"},
		{s: "insert into items (x) values ('abc')", fail: true},
		{s: "insert into items (x) values (1, 2)", fail: true},
		{s: "insert into items (nosuch) values (1)", fail: true},
		{s: "calc items.y {x * 10}", msg: "column items.y defined"},
		{s: "insert into items (x, y) values (1, 2)", fail: true},
		{s: "set items.y = 1", fail: true},
		{s: "evaluate items.y", msg: "items.y: ok"},
		{
			s: "show table items",
			rows: [][]types.Value{
				{i(0), i(1), i(10)},
				{i(1), i(2), i(20)},
				{i(2), i(3), i(30)},
				{i(3), i(4), i(40)},
				{i(4), i(5), i(50)},
			},
		},
		{s: "set items.x row 1 = 7 * 3", msg: "column items.x row 1 set"},
		{s: "set items.x row 10 = 1", fail: true},
		{
			s: "status",
			rows: [][]types.Value{
				{str("items.x"), str("Integer"), str("NONE"), types.BoolValue(true),
					str("modified"), str("")},
				{str("items.y"), str("Integer"), str("CALC"), types.BoolValue(false), str("ok"),
					str("")},
			},
		},
		{s: "evaluate", msg: "all columns up to date"},
		{s: "evaluate items.x", msg: "items.x: ok"},
		{
			s: "show table items",
			rows: [][]types.Value{
				{i(0), i(1), i(10)},
				{i(1), i(21), i(210)},
				{i(2), i(3), i(30)},
				{i(3), i(4), i(40)},
				{i(4), i(5), i(50)},
			},
		},
		{s: "remove rows 3 from items", msg: "3 rows removed"},
		{s: "set items.x = 0", msg: "column items.x set"},
		{s: "evaluate"},
		{
			s:    "show table items",
			rows: [][]types.Value{{i(3), i(0), i(0)}, {i(4), i(0), i(0)}},
		},
		{s: "remove rows 10 from items", msg: "2 rows removed"},
		{s: "show tables", rows: [][]types.Value{{str("items"), i(0), i(2)}}},
	})
}

func TestColumnStates(t *testing.T) {
	env := &stmt.Env{Schema: engine.NewSchema("test")}
	runSteps(t, env, []step{
		{s: "create table items"},
		{s: "create column items.x integer"},
		{s: "create column items.y integer"},
		{s: "create column items.z integer"},
		{s: "insert into items (x) values (1), (0)"},
		{s: "calc items.y {10 / x}"},
		{s: "calc items.z {y + 1}"},
		{s: "evaluate", msg: "2 columns not up to date"},
		{s: "evaluate items.y", msg: "items.y: evaluation errors"},
		{s: "evaluate items.z", msg: "items.z: dirty"},
		{s: "calc items.y {10 / }", fail: true},
		{s: "evaluate items.y", msg: "items.y: definition errors"},
		{s: "evaluate items.z", msg: "items.z: blocked"},
		{s: "calc items.y {z}", fail: true},
		{s: "calc items.y using nosuch {x}", fail: true},
		{
			s: "status",
			rows: [][]types.Value{
				{str("items.x"), str("Integer"), str("NONE"), types.BoolValue(false), str("ok"), str("")},
				{str("items.y"), str("Integer"), str("CALC"), types.BoolValue(true),
					str("definition errors"),
					str("engine: definition error: unknown formula dialect: nosuch")},
				{str("items.z"), str("Integer"), str("CALC"), types.BoolValue(true), str("blocked"),
					str("")},
			},
		},
		{s: "calc items.y {x + 1}"},
		{s: "evaluate items.z", msg: "items.z: ok"},
		{
			s:    "show table items",
			rows: [][]types.Value{{i(0), i(1), i(2), i(3)}, {i(1), i(0), i(1), i(2)}},
		},
	})
}

func TestLinkAccu(t *testing.T) {
	env := &stmt.Env{Schema: engine.NewSchema("test"), Dialect: "exp"}
	runSteps(t, env, []step{
		{s: "create table groups"},
		{s: "create column groups.name string key"},
		{s: "create table items"},
		{s: "create column items.gname string"},
		{s: "create column items.value float"},
		{s: "create column items.grp groups", msg: "column items.grp created"},
		{s: "create column groups.total float"},
		{s: "create column groups.cnt integer"},
		{s: "create column groups.avg float"},
		{s: "insert into groups (name) values ('a')"},
		{
			s: "insert into items (gname, value) values ('a', 1), ('b', 2.5), ('a', 3), " +
				"('b', 4.5), ('c', 5)",
			msg: "5 rows inserted",
		},
		{s: "link items.grp by nosuch = {gname}", fail: true},
		{s: "link items.grp by name = {gname}", msg: "column items.grp defined"},
		{s: "evaluate items.grp", msg: "items.grp: evaluation errors"},
		{s: "link items.grp by name = {gname} append"},
		{s: "evaluate items.grp", msg: "items.grp: ok"},
		{
			s: "show table groups",
			rows: [][]types.Value{
				{i(0), str("a"), nil, nil, nil},
				{i(1), str("b"), nil, nil, nil},
				{i(2), str("c"), nil, nil, nil},
			},
		},
		{
			s:   "accu groups.total init {0} accumulate {out + value} from items by grp",
			msg: "column groups.total defined",
		},
		{s: "accu groups.cnt init {0} accumulate {out + 1} from items by grp"},
		{s: "calc groups.avg {total / cnt}"},
		{s: "accu groups.cnt init {0} accumulate {out + 1} from nosuch by grp", fail: true},
		{s: "accu groups.cnt init {0} accumulate {out + 1} from items by value", fail: true},
		{s: "accu groups.cnt init {0} accumulate {out + 1} from items by grp"},
		{s: "evaluate", msg: "all columns up to date"},
		{
			s: "show table groups",
			rows: [][]types.Value{
				{i(0), str("a"), types.Float64Value(4), i(2), types.Float64Value(2)},
				{i(1), str("b"), types.Float64Value(7), i(2), types.Float64Value(3.5)},
				{i(2), str("c"), types.Float64Value(5), i(1), types.Float64Value(5)},
			},
		},
		{s: "set items.value row 4 = 15"},
		{s: "insert into items (gname, value) values ('d', 1)"},
		{s: "evaluate groups.avg", msg: "groups.avg: ok"},
		{
			s: "show table groups",
			rows: [][]types.Value{
				{i(0), str("a"), types.Float64Value(4), i(2), types.Float64Value(2)},
				{i(1), str("b"), types.Float64Value(7), i(2), types.Float64Value(3.5)},
				{i(2), str("c"), types.Float64Value(15), i(1), types.Float64Value(15)},
				{i(3), str("d"), types.Float64Value(1), i(1), types.Float64Value(1)},
			},
		},
		{
			s: "show tables",
			rows: [][]types.Value{
				{str("groups"), i(4), i(4)},
				{str("items"), i(6), i(3)},
			},
		},
	})
}
