package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/leftmike/colcalc/parser"
	"github.com/leftmike/colcalc/stmt"
)

type lineReader struct {
	line *liner.State
	r    *strings.Reader
}

func (lr *lineReader) ReadRune() (r rune, size int, err error) {
	for {
		if lr.r == nil {
			s, err := lr.line.Prompt("colcalc: ")
			if err != nil {
				return 0, 0, err
			}
			lr.line.AppendHistory(s)
			lr.r = strings.NewReader(s + "\n")
		}

		r, sz, err := lr.r.ReadRune()
		if err == io.EOF {
			lr.r = nil
		} else if err != nil {
			return 0, 0, err
		} else {
			return r, sz, nil
		}
	}
}

// Interact runs a console session against env; the history is kept in historyFile, unless
// it is empty.
func Interact(env *stmt.Env, historyFile string) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	Repl(env, parser.NewParser(&lineReader{line: line}, "console"), os.Stdout)

	if historyFile != "" {
		if f, err := os.Create(historyFile); err != nil {
			fmt.Fprintf(os.Stderr, "colcalc: error writing history file, %s: %s", historyFile,
				err)
		} else {
			line.WriteHistory(f)
			f.Close()
		}
	}
}
