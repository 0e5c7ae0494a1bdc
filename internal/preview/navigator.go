// Package preview shows games in the terminal: colored text renderings of
// boards and an interactive viewer for walking through the multiverse.
package preview

import (
	"fmt"

	"github.com/hailam/chessplay5d/internal/board"
)

// Navigator is a cursor over the boards of a game. It holds no terminal
// state so the viewer's key handling can be tested on its own.
type Navigator struct {
	game *board.Game
	l    board.TimelineIndex
	ply  int
}

// NewNavigator places the cursor on the first board of the central
// starting timeline: 0, or -0 when the game starts with the half-offset
// pair.
func NewNavigator(g *board.Game) *Navigator {
	initial := g.InitialTimelines()
	l := initial[0]
	for _, idx := range initial {
		if idx == board.Whole(0) || idx == board.HalfNeg {
			l = idx
			break
		}
	}
	return &Navigator{game: g, l: l, ply: g.Timeline(l).BeginsAt}
}

// Game returns the game being viewed.
func (n *Navigator) Game() *board.Game { return n.game }

// Position returns the cursor.
func (n *Navigator) Position() (board.TimelineIndex, int) { return n.l, n.ply }

// Seek moves the cursor to (l, ply) if a board is shown there.
func (n *Navigator) Seek(l board.TimelineIndex, ply int) bool {
	if n.boardAt(l, ply) == nil {
		return false
	}
	n.l, n.ply = l, ply
	return true
}

// owner returns the timeline whose boards are shown at (l, ply). Plies
// before a spawned timeline begins belong to its parent.
func (n *Navigator) owner(l board.TimelineIndex, ply int) *board.Timeline {
	tl := n.game.Timeline(l)
	for tl != nil && ply < tl.BeginsAt && tl.SpawnedFrom != nil {
		tl = n.game.Timeline(*tl.SpawnedFrom)
	}
	return tl
}

func (n *Navigator) boardAt(l board.TimelineIndex, ply int) *board.Board {
	if ply < 0 {
		return nil
	}
	tl := n.owner(l, ply)
	if tl == nil {
		return nil
	}
	return tl.Board(ply)
}

// Board returns the board under the cursor, or nil when the cursor sits on
// a timeline that has no board at that ply.
func (n *Navigator) Board() *board.Board { return n.boardAt(n.l, n.ply) }

func (n *Navigator) CanLeft() bool  { return n.boardAt(n.l, n.ply-1) != nil }
func (n *Navigator) CanRight() bool { return n.boardAt(n.l, n.ply+1) != nil }

func (n *Navigator) CanUp() bool {
	_, ok := n.game.TimelineBelow(n.l)
	return ok
}

func (n *Navigator) CanDown() bool {
	_, ok := n.game.TimelineAbove(n.l)
	return ok
}

// Left steps one ply back, continuing into the parent timeline before a
// spawned timeline's first board.
func (n *Navigator) Left() bool {
	if !n.CanLeft() {
		return false
	}
	n.ply--
	return true
}

// Right steps one ply forward.
func (n *Navigator) Right() bool {
	if !n.CanRight() {
		return false
	}
	n.ply++
	return true
}

// Up moves to the next timeline with a smaller index, keeping the ply.
// Lower timelines are drawn above higher ones.
func (n *Navigator) Up() bool {
	l, ok := n.game.TimelineBelow(n.l)
	if ok {
		n.l = l
	}
	return ok
}

// Down moves to the next timeline with a larger index, keeping the ply.
func (n *Navigator) Down() bool {
	l, ok := n.game.TimelineAbove(n.l)
	if ok {
		n.l = l
	}
	return ok
}

// Present moves the cursor to the newest board of its timeline.
func (n *Navigator) Present() {
	n.ply = n.game.LastPly(n.l)
}

// Title names the cursor, e.g. "(+1T3) b".
func (n *Navigator) Title() string {
	side := "w"
	if board.ColorOfPly(n.ply) == board.Black {
		side = "b"
	}
	return fmt.Sprintf("(%sT%d) %s", n.l.Signed(), board.TurnOf(n.ply)+1, side)
}

// MoveHere returns the timeline move that produced the board under the
// cursor. Starting boards have none.
func (n *Navigator) MoveHere() (board.SubMove, bool) {
	tl := n.owner(n.l, n.ply)
	if tl == nil {
		return board.SubMove{}, false
	}
	i := n.ply - tl.BeginsAt
	if !tl.Synthetic() {
		i--
	}
	moves := tl.Moves()
	if i < 0 || i >= len(moves) {
		return board.SubMove{}, false
	}
	return moves[i], true
}

// Highlight returns the square the move under the cursor landed on.
func (n *Navigator) Highlight() (Highlight, bool) {
	m, ok := n.MoveHere()
	if !ok {
		return Highlight{}, false
	}
	switch m.Kind {
	case board.MoveOnBoard, board.JumpIn:
		return Highlight{Square: board.Square{X: m.To.X, Y: m.To.Y}, Jump: m.Kind == board.JumpIn}, true
	}
	return Highlight{}, false
}
