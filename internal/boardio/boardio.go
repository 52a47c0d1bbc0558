// Package boardio reads and writes a Board as the JSON document a host
// persists it as — a file on disk for the CLI, a row's blob column for a
// server. Loading always rebinds the registry, since Board.Registry is
// unexported-from-JSON on purpose: a registry is process config, not board
// state, and two processes can legitimately wire different node catalogs
// against the same saved board.
package boardio

import (
	"encoding/json"
	"fmt"
	"os"

	"flowboard/internal/registry"
	"flowboard/pkg/board"
)

// Load reads a board document from path and binds it to reg.
func Load(path string, reg *registry.GlobalNodeRegistry) (*board.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("boardio: read %s: %w", path, err)
	}
	b := &board.Board{}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("boardio: parse %s: %w", path, err)
	}
	b.Registry = reg
	b.FixPins()
	return b, nil
}

// Save writes b as indented JSON to path.
func Save(path string, b *board.Board) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("boardio: encode board: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("boardio: write %s: %w", path, err)
	}
	return nil
}
