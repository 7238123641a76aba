package main

import (
	"os"
	"path/filepath"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"timeduration/internal/config"
	appLog "timeduration/internal/log"
)

// app carries state shared by all subcommands once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	conf *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		appLog.Error("isodur failed", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "isodur",
		Short:         "Parse, format and iterate ISO-8601 durations and intervals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "Path to config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (overrides config if set)")

	root.AddCommand(
		newParseCmd(a),
		newFormatCmd(a),
		newIterateCmd(a),
		newIncludesCmd(a),
		newNextCmd(a),
		newWatchCmd(a),
		newICSCmd(a),
	)
	return root
}

func (a *app) loadConfig() error {
	conf, err := config.Load(a.configPath)
	switch {
	case err != nil && conf != nil:
		// Default config could not be written; run with it anyway.
		appLog.Warn("using default config", "path", a.configPath, "err", err)
	case err != nil:
		return errors.Wrapf(err, "load config %s", a.configPath)
	}

	// CLI --log-level overrides config file log level if provided.
	level := conf.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	lvl, err := appLog.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	appLog.SetLevel(lvl)

	appLog.Debug("effective config",
		"config_path", a.configPath,
		"log_level", lvl,
		"designator", conf.Designator,
		"max_occurrences", conf.MaxOccurrences,
		"timezone", conf.Timezone,
		"window", conf.Window,
		"calendar_count", len(conf.Calendars),
	)

	a.conf = conf
	return nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "isodur", "config.yaml")
}
