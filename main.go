// Command swell drives the toolkit from the command line: it runs selector
// queries against HTML documents, replays input into scripted pages and
// evaluates hotkey combos.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chrisuehlinger/swell/config"
	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/html"
	"github.com/chrisuehlinger/swell/metrics"
)

// app is the state shared by every subcommand, built before any of them
// runs.
type app struct {
	configPath string
	logLevel   string
	dumpMetric bool

	cfg     config.Config
	logger  zerolog.Logger
	metrics *metrics.Collectors
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}
	rootCmd := &cobra.Command{
		Use:   "swell",
		Short: "Cross-host event dispatch and selector queries",
		Long: `Swell normalizes events across host profiles and resolves selector
queries with the Marlin engine.

Commands load an HTML document, attach a host profile (standard, legacy,
webkit or bare) and then query it, script it or replay input into it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.dumpMetric && a.metrics != nil {
				return a.metrics.WriteText(cmd.OutOrStdout())
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "TOML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&a.dumpMetric, "metrics", false, "print collected metrics on exit")

	rootCmd.AddCommand(
		queryCmd(a),
		runCmd(a),
		hotkeyCmd(a),
		keysCmd(),
	)
	return rootCmd
}

// setup loads the configuration, then applies flag overrides and builds
// the logger and collectors.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	if cfg.Metrics.Enabled || a.dumpMetric {
		a.metrics = metrics.New()
		a.dumpMetric = true
	}
	return nil
}

// loadDocument parses path, or stdin when path is empty or "-".
func loadDocument(cmd *cobra.Command, path string) (*dom.Document, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening document: %w", err)
		}
		defer f.Close()
		r = f
	}
	return html.Parse(r)
}

// blankPage is the document scripts run against when no file is given.
const blankPage = `<!DOCTYPE html><html><head></head><body></body></html>`

func trimID(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "#")
}
