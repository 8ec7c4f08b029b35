package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leftmike/colcalc/engine"
	"github.com/leftmike/colcalc/parser"
	"github.com/leftmike/colcalc/repl"
	"github.com/leftmike/colcalc/stmt"
)

var (
	runCmd = &cobra.Command{
		Use:   "run [file ...]",
		Short: "Run statements from files and exit",
		RunE:  runRun,
	}

	replCmd = &cobra.Command{
		Use:   "repl [file ...]",
		Short: "Run statements from files and then an interactive console session",
		RunE:  replRun,
	}

	schemaName   = "colcalc"
	dialect      = engine.DefaultDialect
	maxRowErrors = engine.DefaultMaxRowErrors
	historyFile  = ".colcalc_history"

	execArgs = []string{}
)

func initSchemaFlags(fs *pflag.FlagSet) {
	fs.StringVar(&schemaName, "schema", schemaName, "`name` of the schema")
	cfgVars["schema"] = fs.Lookup("schema")

	fs.StringVar(&dialect, "dialect", dialect, "default formula `dialect`")
	cfgVars["dialect"] = fs.Lookup("dialect")

	fs.IntVar(&maxRowErrors, "max-row-errors", maxRowErrors,
		"maximum `number` of row errors kept per column; zero keeps all of them")
	cfgVars["max-row-errors"] = fs.Lookup("max-row-errors")

	fs.StringSliceVarP(&execArgs, "exec", "e", execArgs,
		"`statements` to execute; multiple allowed")
}

func init() {
	initSchemaFlags(runCmd.Flags())
	colcalcCmd.AddCommand(runCmd)

	fs := replCmd.Flags()
	initSchemaFlags(fs)
	fs.StringVar(&historyFile, "history-file", historyFile,
		"`file` to keep the console history in")
	cfgVars["history-file"] = fs.Lookup("history-file")
	colcalcCmd.AddCommand(replCmd)
}

func newEnv() (*stmt.Env, error) {
	found := false
	for _, d := range engine.Dialects() {
		if strings.EqualFold(d, dialect) {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("colcalc: got %s for dialect; want one of %s", dialect,
			strings.Join(engine.Dialects(), ", "))
	}

	s := engine.NewSchema(schemaName)
	s.MaxRowErrors = maxRowErrors
	return &stmt.Env{
		Schema:  s,
		Dialect: dialect,
	}, nil
}

// runSources executes the exec arguments and then the files against env; it returns the
// number of statements which failed.
func runSources(env *stmt.Env, execs, files []string, w io.Writer) (int, error) {
	var failed int
	for idx, e := range execs {
		failed += repl.Repl(env, parser.NewParser(strings.NewReader(e),
			"exec["+strconv.Itoa(idx)+"]"), w)
	}

	for _, fn := range files {
		f, err := os.Open(fn)
		if err != nil {
			return failed, fmt.Errorf("colcalc: %s", err)
		}
		log.WithField("file", fn).Info("running file")
		failed += repl.Repl(env, parser.NewParser(bufio.NewReader(f), fn), w)
		f.Close()
	}
	return failed, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	failed, err := runSources(env, execArgs, args, os.Stdout)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("colcalc: %d statements failed", failed)
	}
	return nil
}

func replRun(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	_, err = runSources(env, execArgs, args, os.Stdout)
	if err != nil {
		return err
	}
	repl.Interact(env, historyFile)
	return nil
}
