package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/hcl"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	colcalcCmd = &cobra.Command{
		Use:   "colcalc",
		Short: "A column calculator",
		Long: "Colcalc keeps tables of columns in memory and computes derived columns " +
			"from formulas.",
		PersistentPreRunE: colcalcPreRun,
		PersistentPostRun: colcalcPostRun,
		SilenceUsage:      true,
	}

	logFile   = "colcalc.log"
	logLevel  = "info"
	logStderr = false
	logWriter io.WriteCloser

	configFile = "colcalc.hcl"
	noConfig   = false

	cfgVars   = map[string]*pflag.Flag{}
	cfg       = map[string]interface{}{}
	usedFlags = map[string]struct{}{}
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		DisableLevelTruncation: true,
	})

	fs := colcalcCmd.PersistentFlags()

	fs.StringVar(&logFile, "log-file", logFile, "`file` to use for logging")
	cfgVars["log-file"] = fs.Lookup("log-file")

	fs.StringVar(&logLevel, "log-level", logLevel,
		"log level: trace, debug, info, warn, error, fatal, or panic")
	cfgVars["log-level"] = fs.Lookup("log-level")

	fs.BoolVarP(&logStderr, "log-stderr", "s", logStderr, "log to standard error")

	fs.StringVar(&configFile, "config-file", configFile, "`file` to load config from")
	fs.BoolVar(&noConfig, "no-config", noConfig, "don't load config file")
}

func Execute() error {
	return colcalcCmd.Execute()
}

func colcalcPreRun(cmd *cobra.Command, args []string) error {
	cmd.Flags().Visit(
		func(flg *pflag.Flag) {
			usedFlags[flg.Name] = struct{}{}
		})

	if configFile != "" && !noConfig {
		b, err := os.ReadFile(configFile)
		if err == nil {
			err = loadConfig(string(b))
		} else if _, ok := usedFlags["config-file"]; !ok && os.IsNotExist(err) {
			err = nil
		}
		if err != nil {
			return fmt.Errorf("colcalc: %s", err)
		}
	}

	if !logStderr && logFile != "" {
		var err error
		logWriter, err = os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			logWriter = nil
			return fmt.Errorf("colcalc: %s", err)
		}
		log.SetOutput(logWriter)
	}

	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("colcalc: %s", err)
	}
	log.SetLevel(ll)

	log.WithField("pid", os.Getpid()).Info("colcalc starting")
	return nil
}

func colcalcPostRun(cmd *cobra.Command, args []string) {
	log.WithField("pid", os.Getpid()).Info("colcalc done")

	if logWriter != nil {
		logWriter.Close()
	}
}

// loadConfig sets the config variables in src which were not set on the command line.
func loadConfig(src string) error {
	err := hcl.Decode(&cfg, src)
	if err != nil {
		return err
	}

	for name, val := range cfg {
		flg, ok := cfgVars[name]
		if !ok {
			return fmt.Errorf("%s is not a config variable", name)
		}
		if _, ok := usedFlags[flg.Name]; ok {
			continue
		}
		err := flg.Value.Set(fmt.Sprintf("%v", val))
		if err != nil {
			return fmt.Errorf("%s: %s", name, err)
		}
	}

	return nil
}
