// Package jsonfmt stores a whole game, every timeline and both move logs, as
// JSON. Unlike the move notations it needs no replay to load.
package jsonfmt

import (
	"encoding/json"
	"fmt"

	"github.com/hailam/chessplay5d/internal/board"
	"github.com/hailam/chessplay5d/internal/notation"
)

// Codec is the JSON notation.Codec.
type Codec struct {
	// Compact drops indentation from the output.
	Compact bool
}

// Name implements notation.Codec.
func (Codec) Name() string { return "json" }

// Decode implements notation.Codec.
func (Codec) Decode(raw string) (*board.Game, error) {
	var s board.Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", notation.ErrSyntax, err)
	}
	return board.FromSnapshot(&s)
}

// Encode implements notation.Codec.
func (c Codec) Encode(g *board.Game) (string, error) {
	var (
		data []byte
		err  error
	)
	if c.Compact {
		data, err = json.Marshal(g.Snapshot())
	} else {
		data, err = json.MarshalIndent(g.Snapshot(), "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
