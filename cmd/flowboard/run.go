package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"flowboard/internal/boardio"
	"flowboard/internal/config"
	"flowboard/internal/core"
	"flowboard/internal/event"
	"flowboard/internal/obslog"
	"flowboard/internal/run"
	"flowboard/pkg/board"
)

type runOptions struct {
	boardPath string
	startNode string
	state     []string
	out       string
	events    bool
	debug     bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a board from a starting node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.boardPath, "board", "", "path to the board document")
	cmd.Flags().StringVar(&opts.startNode, "start", "", "node ID to begin execution at")
	cmd.Flags().StringArrayVar(&opts.state, "state", nil, "key=value app-state entry, repeatable")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "path to write the run's trace JSON (defaults to stdout)")
	cmd.Flags().BoolVar(&opts.events, "events", false, "print node start/complete events to stderr as they flush")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "single-step the run, printing a line per top-level trigger")
	cmd.MarkFlagRequired("board") //nolint:errcheck
	cmd.MarkFlagRequired("start") //nolint:errcheck

	return cmd
}

func runBoard(cmd *cobra.Command, root *rootFlags, opts runOptions) error {
	cfg, err := config.Load(root.configPath)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if root.logLevel != "" {
		level = root.logLevel
	}
	zlevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zlevel = zerolog.InfoLevel
	}
	logger := obslog.New(cmd.ErrOrStderr(), zlevel, opts.startNode)

	b, err := boardio.Load(opts.boardPath, buildRegistry())
	if err != nil {
		return err
	}

	appState, err := parseAppState(opts.state)
	if err != nil {
		return err
	}
	profile := &core.Profile{ID: "cli", DisplayName: "flowboard CLI"}

	var sink event.DownstreamFunc
	if opts.events {
		sink = func(_ context.Context, batch []event.InterComEvent) error {
			for _, ev := range batch {
				data, _ := json.Marshal(ev)
				fmt.Fprintln(cmd.ErrOrStderr(), string(data))
			}
			return nil
		}
	}

	mgr := run.NewManager(logger, cfg.Events.Interval(), cfg.Events.Capacity, cfg.Events.PerTypeCap)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var r *run.Run
	if opts.debug {
		r, err = debugRun(ctx, cmd, mgr, b, opts.startNode, appState, profile, sink)
	} else {
		r = mgr.Execute(ctx, b, opts.startNode, appState, profile, sink)
	}
	if err != nil {
		return err
	}

	return writeRunResult(cmd, opts.out, r)
}

// debugRun drives the execution one top-level trigger at a time via
// DebugSession, printing a line per step to stderr before returning the
// finished run for the same trace/result reporting a normal run gets. A
// board's dispatcher has no node-granular pause point (see DebugSession),
// so "step" here always means one Trigger call, which may itself push
// through an entire branch.
func debugRun(ctx context.Context, cmd *cobra.Command, mgr *run.Manager, b *board.Board, startNode string, appState core.AppState, profile *core.Profile, sink event.DownstreamFunc) (*run.Run, error) {
	session, err := mgr.NewDebugSession(b, startNode, appState, profile, sink)
	if err != nil {
		return nil, err
	}
	for step := 1; ; step++ {
		more, err := session.Step(ctx)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "step %d: error: %v\n", step, err)
			return session.Run(), err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "step %d complete\n", step)
		if !more {
			break
		}
	}
	return session.Run(), nil
}

func parseAppState(entries []string) (core.AppState, error) {
	state := core.MapAppState{}
	for _, entry := range entries {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("--state entry %q must be key=value", entry)
		}
		state[k] = v
	}
	return state, nil
}

// runResult is the CLI's JSON report of a finished run: its status and the
// full trace tree, flattened of the dispatcher-internal fields a host has
// no use for.
type runResult struct {
	RunID   string           `json:"runId"`
	BoardID string           `json:"boardId"`
	Status  string           `json:"status"`
	Error   string           `json:"error,omitempty"`
	Trace   interface{}      `json:"trace,omitempty"`
}

func writeRunResult(cmd *cobra.Command, out string, r *run.Run) error {
	result := runResult{
		RunID:   r.ID,
		BoardID: r.BoardID,
		Status:  string(r.Status),
		Trace:   r.Trace,
	}
	if r.Err != nil {
		result.Error = r.Err.Error()
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("run: encode result: %w", err)
	}

	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("run: write %s: %w", out, err)
	}
	if r.Status == run.StatusFailed {
		return r.Err
	}
	return nil
}
