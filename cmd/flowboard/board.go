package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"flowboard/internal/boardio"
	"flowboard/pkg/board"
	"flowboard/pkg/board/commands"
)

func newBoardCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Create and edit board documents",
	}
	cmd.AddCommand(newBoardNewCmd())
	cmd.AddCommand(newBoardApplyCmd())
	return cmd
}

func newBoardNewCmd() *cobra.Command {
	var name, out string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an empty board document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("board new: --out is required")
			}
			b := board.New(uuid.NewString(), name, buildRegistry())
			b.Version = [3]int{0, 1, 0}
			return boardio.Save(out, b)
		},
	}
	cmd.Flags().StringVar(&name, "name", "untitled", "board name")
	cmd.Flags().StringVarP(&out, "out", "o", "", "path to write the new board document")
	return cmd
}

func newBoardApplyCmd() *cobra.Command {
	var boardPath, journalPath, out string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Replay a command journal onto a board document",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := boardio.Load(boardPath, buildRegistry())
			if err != nil {
				return err
			}

			data, err := os.ReadFile(journalPath)
			if err != nil {
				return fmt.Errorf("board apply: read %s: %w", journalPath, err)
			}
			cmds, err := commands.DecodeJournal(data)
			if err != nil {
				return fmt.Errorf("board apply: %w", err)
			}
			for i, cmd := range cmds {
				if err := b.ExecuteCommand(cmd, false); err != nil {
					return fmt.Errorf("board apply: entry %d: %w", i, err)
				}
			}

			if out == "" {
				out = boardPath
			}
			return boardio.Save(out, b)
		},
	}
	cmd.Flags().StringVar(&boardPath, "board", "", "path to the board document")
	cmd.Flags().StringVar(&journalPath, "journal", "", "path to a command journal JSON file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "path to write the updated board (defaults to --board)")
	cmd.MarkFlagRequired("board")   //nolint:errcheck
	cmd.MarkFlagRequired("journal") //nolint:errcheck
	return cmd
}
