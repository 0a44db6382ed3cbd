package main

import (
	"fmt"

	"github.com/kk-code-lab/rcomments/internal/source"
	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Fetch comments once and print the resulting state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
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
			data, err := statepkg.Snapshot(store.State())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

// fetchInto runs one fetch from src through a fresh store.
func fetchInto(cmd *cobra.Command, src source.Source, logger *zap.Logger) (*statepkg.Store, error) {
	store := statepkg.NewStore(nil, statepkg.NewStateReducer(), logger.Named("store"))
	var dispatchErr error
	fetcher := source.NewFetcher(logger.Named("fetch"))
	err := fetcher.Run(cmd.Context(), src, func(action statepkg.Action) {
		if err := store.Dispatch(action); err != nil && dispatchErr == nil {
			dispatchErr = err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("fetch from %s: %w", src.Name(), err)
	}
	if dispatchErr != nil {
		return nil, dispatchErr
	}
	return store, nil
}
