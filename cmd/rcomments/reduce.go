package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const maxActionLine = 16 * 1024 * 1024

func (c *cli) reduceCmd() *cobra.Command {
	var snapshot bool
	cmd := &cobra.Command{
		Use:   "reduce [FILE]",
		Short: "Fold newline-delimited action envelopes and print the comments",
		Long: `reduce reads one JSON action per line from FILE (or stdin), for example

    {"type":"FETCH_COMMENTS","payload":{"data":[{"id":1,"body":"hi"}]}}

dispatches each through a store starting from the initial state and prints
the resulting comments. Actions with other types leave the comments as they
are. A FETCH_COMMENTS action without payload.data is an error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open actions: %w", err)
				}
				defer func() {
					_ = f.Close()
				}()
				in = f
			}

			store := statepkg.NewStore(nil, statepkg.NewStateReducer(), logger.Named("store"))
			if err := foldActions(in, store); err != nil {
				return err
			}

			var data []byte
			if snapshot {
				data, err = statepkg.Snapshot(store.State())
			} else {
				data, err = json.MarshalIndent(store.State().Comments, "", "  ")
			}
			if err != nil {
				return err
			}
			logger.Debug("reduced actions", zap.Int("comments", len(store.State().Comments)))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().BoolVar(&snapshot, "snapshot", false, "print the whole state snapshot instead of the comments")
	return cmd
}

// foldActions dispatches every non-blank line of r as an action envelope.
func foldActions(r io.Reader, store *statepkg.Store) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxActionLine)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		action, err := statepkg.DecodeAction(raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := store.Dispatch(action); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read actions: %w", err)
	}
	return nil
}
