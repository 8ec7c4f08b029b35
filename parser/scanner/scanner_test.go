package scanner_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	. "github.com/leftmike/colcalc/parser/scanner"
	"github.com/leftmike/colcalc/parser/token"
	"github.com/leftmike/colcalc/types"
)

func scanOne(s string, fn string) ScanCtx {
	var scn Scanner
	scn.Init(strings.NewReader(s), fn)
	var sctx ScanCtx
	scn.Scan(&sctx)
	return sctx
}

func TestScan(t *testing.T) {
	cases := []struct {
		s string
		r rune
	}{
		{"", token.EOF},
		{"   \n\t", token.EOF},
		{";", token.EndOfStatement},
		{"abc", token.Identifier},
		{"x", token.Identifier},
		{"e", token.Identifier},
		{"not", token.Reserved},
		{"NULL", token.Reserved},
		{"out", token.Reserved},
		{"create", token.Identifier},
		{"'not'", token.String},
		{"`not`", token.Identifier},
		{"\"not\"", token.Identifier},
		{"x'00ff'", token.Bytes},
		{"12345", token.Integer},
		{"1234.5678", token.Float},
		{"1e3", token.Float},
		{"{x + 1}", token.Formula},
		{", ", token.Comma},
		{".id", token.Dot},
		{"(123", token.LParen},
		{")+", token.RParen},
		{"-abc", token.Minus},
		{"-123", token.Minus},
		{"+abc", token.Plus},
		{"*(abc)", token.Star},
		{"/12", token.Slash},
		{"%", token.Percent},
		{"=123", token.Equal},
		{"<123", token.Less},
		{">123", token.Greater},
		{"!x", token.Bang},
		{"||", token.BarBar},
		{"&&", token.AmpAmp},
		{"<=", token.LessEqual},
		{"<>", token.LessGreater},
		{">=", token.GreaterEqual},
		{"==", token.EqualEqual},
		{"!=", token.BangEqual},
		{">-1", token.Greater},
		{"|x", token.Error},
		{"&", token.Error},
		{"@", token.Error},
		{"[x]", token.Error},
		{"'abc", token.Error},
		{"\"abc", token.Error},
		{"\"\"", token.Error},
		{"{x + 1", token.Error},
		{"x'0g'", token.Error},
		{"/* abc", token.Error},
		{"1e+", token.Error},
	}

	for i, c := range cases {
		sctx := scanOne(c.s, fmt.Sprintf("cases[%d]", i))
		if sctx.Token != c.r {
			t.Errorf("Scan(%q) got %s want %s", c.s, token.Format(sctx.Token),
				token.Format(c.r))
		}
		if c.r == token.Error && sctx.Error == nil {
			t.Errorf("Scan(%q) did not fail", c.s)
		}
	}
}

func TestScanValues(t *testing.T) {
	strs := []struct {
		s   string
		ret string
	}{
		{"'abc'", "abc"},
		{"'abc' 123", "abc"},
		{"'abc''def' 123", "abc'def"},
		{"''", ""},
		{`'a\nb'`, `a\nb`},
		{`e'a\nb'`, "a\nb"},
		{`E'\x61\tc'`, "a\tc"},
		{`e'it\'s'`, "it's"},
		{"'{}'", "{}"},
	}

	for i, c := range strs {
		sctx := scanOne(c.s, fmt.Sprintf("strings[%d]", i))
		if sctx.Token != token.String {
			t.Errorf("Scan(%q) got %s want string", c.s, token.Format(sctx.Token))
		} else if sctx.String != c.ret {
			t.Errorf("Scan(%q).String got %q want %q", c.s, sctx.String, c.ret)
		}
	}

	byts := []struct {
		s string
		b []byte
	}{
		{`x'6263646566'`, []byte{0x62, 0x63, 0x64, 0x65, 0x66}},
		{`X'00 ff'`, []byte{0x00, 0xff}},
		{`x''`, []byte{}},
	}

	for i, c := range byts {
		sctx := scanOne(c.s, fmt.Sprintf("bytes[%d]", i))
		if sctx.Token != token.Bytes {
			t.Errorf("Scan(%q) got %s want bytes", c.s, token.Format(sctx.Token))
		} else if !bytes.Equal(sctx.Bytes, c.b) {
			t.Errorf("Scan(%q).Bytes got %v want %v", c.s, sctx.Bytes, c.b)
		}
	}

	integers := []struct {
		s string
		n int64
	}{
		{"12345", 12345},
		{"999 ", 999},
		{"999zzz", 999},
		{"0", 0},
	}

	for i, c := range integers {
		sctx := scanOne(c.s, fmt.Sprintf("integers[%d]", i))
		if sctx.Token != token.Integer {
			t.Errorf("Scan(%q) got %s want integer", c.s, token.Format(sctx.Token))
		} else if sctx.Integer != c.n {
			t.Errorf("Scan(%q).Integer got %d want %d", c.s, sctx.Integer, c.n)
		}
	}

	floats := []struct {
		s string
		n float64
	}{
		{"123.456", 123.456},
		{"999.", 999.0},
		{"9.99zzz", 9.99},
		{"1e3", 1000.0},
		{"2.5e-1", 0.25},
	}

	for i, c := range floats {
		sctx := scanOne(c.s, fmt.Sprintf("floats[%d]", i))
		if sctx.Token != token.Float {
			t.Errorf("Scan(%q) got %s want float", c.s, token.Format(sctx.Token))
		} else if sctx.Float != c.n {
			t.Errorf("Scan(%q).Float got %f want %f", c.s, sctx.Float, c.n)
		}
	}

	formulas := []struct {
		s   string
		ret string
	}{
		{"{x + 1}", "x + 1"},
		{"{ {a} }", " {a} "},
		{"{concat(s, '}')}", "concat(s, '}')"},
		{"{}", ""},
	}

	for i, c := range formulas {
		sctx := scanOne(c.s, fmt.Sprintf("formulas[%d]", i))
		if sctx.Token != token.Formula {
			t.Errorf("Scan(%q) got %s want formula", c.s, token.Format(sctx.Token))
		} else if sctx.String != c.ret {
			t.Errorf("Scan(%q).String got %q want %q", c.s, sctx.String, c.ret)
		}
	}
}

func TestScanSource(t *testing.T) {
	src := `
-- start with a comment
not -- reserved keyword
"Not" /* identifier */
'not' /* string

*/
# another comment
Abcd;
`
	expected := []struct {
		ret  rune
		id   types.Identifier
		s    string
		line int
	}{
		{ret: token.Reserved, id: types.NOT, line: 3},
		{ret: token.Identifier, id: types.QuotedID("Not"), line: 4},
		{ret: token.String, s: "not", line: 5},
		{ret: token.Identifier, id: types.ID("abcd"), line: 9},
		{ret: token.EndOfStatement, line: 9},
		{ret: token.EOF},
	}

	var scn Scanner
	scn.Init(strings.NewReader(src), "src")
	for i, e := range expected {
		var sctx ScanCtx
		scn.Scan(&sctx)
		if sctx.Token != e.ret {
			t.Errorf("Scan(src)[%d] got %s want %s", i, token.Format(sctx.Token),
				token.Format(e.ret))
			continue
		}
		switch e.ret {
		case token.Identifier, token.Reserved:
			if sctx.Identifier != e.id {
				t.Errorf("Scan(src)[%d].Identifier got %s want %s", i, sctx.Identifier, e.id)
			}
		case token.String:
			if sctx.String != e.s {
				t.Errorf("Scan(src)[%d].String got %q want %q", i, sctx.String, e.s)
			}
		}
		if e.line > 0 && sctx.Line != e.line {
			t.Errorf("Scan(src)[%d].Line got %d want %d", i, sctx.Line, e.line)
		}
	}
}
