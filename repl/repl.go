package repl

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"

	"github.com/leftmike/colcalc/parser"
	"github.com/leftmike/colcalc/stmt"
	"github.com/leftmike/colcalc/types"
)

// Repl executes each statement parsed by p against env and writes the results to w. It
// returns the number of statements which failed.
func Repl(env *stmt.Env, p parser.Parser, w io.Writer) int {
	var failed int
	for {
		s, err := p.Parse()
		if err == io.EOF {
			return failed
		}
		if err != nil {
			fmt.Fprintln(w, err)
			failed += 1
			continue
		}

		res, err := s.Execute(env)
		if err != nil {
			log.WithField("stmt", s.String()).WithError(err).Debug("statement failed")
			fmt.Fprintln(w, err)
			failed += 1
			continue
		}
		WriteResult(res, w)
	}
}

// WriteResult writes the message of res followed by its rows, if it has columns.
func WriteResult(res *stmt.Result, w io.Writer) {
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
	if res.Columns == nil {
		return
	}

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader(res.Columns)

	row := make([]string, len(res.Columns))
	for _, vals := range res.Rows {
		for vdx, v := range vals {
			if s, ok := v.(types.StringValue); ok {
				row[vdx] = string(s)
				continue
			}
			row[vdx] = types.Format(v)
		}
		tw.Append(row)
	}
	tw.Render()
	fmt.Fprintf(w, "(%d rows)\n", tw.NumLines())
}
