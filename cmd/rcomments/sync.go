package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/kk-code-lab/rcomments/internal/config"
	"github.com/kk-code-lab/rcomments/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch comments from the http or file source into the SQLite cache",
		Long: `sync fetches the configured http or file source and replaces the
comments cached in the --db SQLite file. The viewer reads the cache with
--source sqlite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Source == config.SourceSQLite {
				return fmt.Errorf("sync needs an http or file source, got %q", cfg.Source)
			}
			if strings.TrimSpace(cfg.DB) == "" {
				return fmt.Errorf("sync requires --db")
			}

			logger, err := c.newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			src, err := source.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				_ = src.Close()
			}()

			store, err := fetchInto(cmd, src, logger)
			if err != nil {
				return err
			}

			cache, err := source.OpenSQLite(cfg.DB)
			if err != nil {
				return err
			}
			defer func() {
				_ = cache.Close()
			}()

			state := store.State()
			syncedAt := state.Fetch.LastFetched
			if syncedAt.IsZero() {
				syncedAt = time.Now()
			}
			if err := cache.Save(cmd.Context(), state.Comments, syncedAt); err != nil {
				return err
			}

			logger.Info("synced comments",
				zap.String("source", src.Name()),
				zap.String("db", cfg.DB),
				zap.Int("count", len(state.Comments)),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "synced %d comments from %s to %s\n", len(state.Comments), src.Name(), cfg.DB)
			return err
		},
	}
}
