package main

import (
	"fmt"
	"io"
	"time"

	apppkg "github.com/kk-code-lab/rcomments/internal/app"
	"github.com/kk-code-lab/rcomments/internal/config"
	"github.com/kk-code-lab/rcomments/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options holds the raw persistent flag values. Only flags the user set
// override the loaded configuration.
type options struct {
	configPath string
	source     string
	url        string
	file       string
	db         string
	timeout    time.Duration
	refresh    time.Duration
	logFile    string
	verbose    bool
	noWatch    bool
}

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	opts   options

	// logger replaces the configured logger when set.
	logger *zap.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	return c.rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rcomments",
		Short: "Terminal viewer for comment feeds",
		Long: `rcomments fetches a list of comments and shows them in the terminal.

Comments come from an HTTP endpoint returning a JSON array, a local JSON file
(a bare array or a FETCH_COMMENTS action envelope), or a SQLite cache filled
by "rcomments sync".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          c.runTUI,
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.opts.configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&c.opts.source, "source", "s", "", "comment source: http, file or sqlite")
	flags.StringVar(&c.opts.url, "url", "", "comments endpoint for the http source")
	flags.StringVarP(&c.opts.file, "file", "f", "", "JSON file for the file source")
	flags.StringVar(&c.opts.db, "db", "", "SQLite cache for the sqlite source and sync")
	flags.DurationVar(&c.opts.timeout, "timeout", 0, "request timeout")
	flags.DurationVar(&c.opts.refresh, "refresh", 0, "refetch interval (0 disables)")
	flags.StringVar(&c.opts.logFile, "log-file", "", "write logs to this file")
	flags.BoolVarP(&c.opts.verbose, "verbose", "v", false, "debug logging")
	root.Flags().BoolVar(&c.opts.noWatch, "no-watch", false, "do not reload the file source when it changes")

	root.AddCommand(c.dumpCmd(), c.syncCmd(), c.reduceCmd(), c.configCmd())
	return root
}

// loadConfig layers flags the user set over config.Load.
func (c *cli) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(c.opts.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = c.opts.source
	}
	if flags.Changed("url") {
		cfg.URL = c.opts.url
	}
	if flags.Changed("file") {
		cfg.File = c.opts.file
		if !flags.Changed("source") {
			cfg.Source = config.SourceFile
		}
	}
	if flags.Changed("db") {
		cfg.DB = c.opts.db
	}
	if flags.Changed("timeout") {
		cfg.Timeout = c.opts.timeout
	}
	if flags.Changed("refresh") {
		cfg.Refresh = c.opts.refresh
	}
	if flags.Changed("log-file") {
		cfg.LogFile = c.opts.logFile
	}
	if flags.Changed("verbose") {
		cfg.Verbose = c.opts.verbose
	}
	if flags.Lookup("no-watch") != nil && flags.Changed("no-watch") {
		cfg.Watch = !c.opts.noWatch
	}
	return config.Normalize(cfg), nil
}

// newLogger returns the logger for cfg. The TUI owns the terminal, so it only
// logs to a file; one-shot commands log to stderr unless a file is set.
func (c *cli) newLogger(cfg config.Config, tui bool) (*zap.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	if tui || cfg.LogFile != "" {
		return logging.NewFile(cfg.LogFile, cfg.Verbose)
	}
	return logging.NewConsole(cfg.Verbose)
}

func (c *cli) runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := c.newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := apppkg.NewApplication(cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	logger.Info("viewer started", zap.String("source", cfg.Source))
	return app.Run(cmd.Context())
}
