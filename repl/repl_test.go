package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leftmike/colcalc/engine"
	"github.com/leftmike/colcalc/parser"
	"github.com/leftmike/colcalc/stmt"
	"github.com/leftmike/colcalc/types"
)

func TestRepl(t *testing.T) {
	cases := []struct {
		s      string
		r      string
		failed int
	}{
		{
			s: "create table t; create column t.x integer; create column t.y string;",
			r: "table t created\ncolumn t.x created\ncolumn t.y created\n",
		},
		{
			s: "insert into t values (1, 'one'), (22, NULL); show table t;",
			r: `2 rows inserted
+-----+----+------+
| row | x  |  y   |
+-----+----+------+
|   0 |  1 | one  |
|   1 | 22 | NULL |
+-----+----+------+
(2 rows)
`,
		},
		{
			s:      "show table nosuch; create table t; status",
			r:      "stmt: table nosuch not found\nengine: table t already exists\n",
			failed: 2,
		},
		{
			s:      "create nothing; create table u",
			r:      "table u created\n",
			failed: 1,
		},
	}

	env := &stmt.Env{Schema: engine.NewSchema("test")}
	for i, c := range cases {
		var b bytes.Buffer
		failed := Repl(env, parser.NewParser(strings.NewReader(c.s), "test"), &b)
		if failed != c.failed {
			t.Errorf("Repl(%q) got %d failed want %d", c.s, failed, c.failed)
		}
		if i == 2 {
			if !strings.HasPrefix(b.String(), c.r) {
				t.Errorf("Repl(%q) got\n%s\nwant\n%s", c.s, b.String(), c.r)
			}
		} else if i == 3 {
			if !strings.HasPrefix(b.String(), "parser: test:1:8: ") ||
				!strings.HasSuffix(b.String(), c.r) {

				t.Errorf("Repl(%q) got\n%s", c.s, b.String())
			}
		} else if b.String() != c.r {
			t.Errorf("Repl(%q) got\n%s\nwant\n%s", c.s, b.String(), c.r)
		}
	}
}

func TestWriteResult(t *testing.T) {
	var b bytes.Buffer
	WriteResult(&stmt.Result{Message: "no rows", Columns: []string{"a"}}, &b)
	want := `no rows
+---+
| a |
+---+
+---+
(0 rows)
`
	if b.String() != want {
		t.Errorf("WriteResult() got\n%s\nwant\n%s", b.String(), want)
	}

	b.Reset()
	WriteResult(&stmt.Result{
		Columns: []string{"name", "value"},
		Rows: [][]types.Value{
			{types.StringValue("abc"), types.Float64Value(1.5)},
			{types.StringValue("de"), types.BoolValue(true)},
		},
	}, &b)
	want = `+------+-------+
| name | value |
+------+-------+
| abc  |   1.5 |
| de   | true  |
+------+-------+
(2 rows)
`
	if b.String() != want {
		t.Errorf("WriteResult() got\n%s\nwant\n%s", b.String(), want)
	}
}
