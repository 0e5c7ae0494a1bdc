package preview

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/hailam/chessplay5d/internal/board"
)

var unicodePieces = map[board.Piece]string{
	board.NewPiece(board.Pawn, board.White):   "♙",
	board.NewPiece(board.Knight, board.White): "♘",
	board.NewPiece(board.Bishop, board.White): "♗",
	board.NewPiece(board.Rook, board.White):   "♖",
	board.NewPiece(board.Queen, board.White):  "♕",
	board.NewPiece(board.King, board.White):   "♔",
	board.NewPiece(board.Pawn, board.Black):   "♟",
	board.NewPiece(board.Knight, board.Black): "♞",
	board.NewPiece(board.Bishop, board.Black): "♝",
	board.NewPiece(board.Rook, board.Black):   "♜",
	board.NewPiece(board.Queen, board.Black):  "♛",
	board.NewPiece(board.King, board.Black):   "♚",
}

// Renderer draws boards as text. With Color set the output carries ANSI
// escapes regardless of whether stdout is a terminal.
type Renderer struct {
	Unicode bool
	Color   bool
	// DarkBackground paints the dark squares black instead of leaving them
	// in the terminal's background color.
	DarkBackground bool
}

var (
	whiteFg = []color.Attribute{color.FgHiCyan, color.Bold}
	blackFg = []color.Attribute{color.FgHiRed, color.Bold}
	frameFg = []color.Attribute{color.FgHiBlack}
)

const (
	lightBg = color.BgHiBlack
	darkBg  = color.BgBlack
	moveBg  = color.BgYellow
	jumpBg  = color.BgBlue
)

func (r *Renderer) paint(s string, attrs ...color.Attribute) string {
	if !r.Color || len(attrs) == 0 {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// Symbol returns the glyph of p without color.
func (r *Renderer) Symbol(p board.Piece) string {
	switch {
	case p.IsBlank():
		return " "
	case p == board.Marker:
		return "*"
	}
	if r.Unicode {
		if s, ok := unicodePieces[p]; ok {
			return s
		}
	}
	return p.String()
}

func pieceFg(p board.Piece) []color.Attribute {
	if p.IsBlank() || p == board.Marker {
		return nil
	}
	if p.Color() == board.Black {
		return blackFg
	}
	return whiteFg
}

// Highlight marks one square of a board.
type Highlight struct {
	Square board.Square
	Jump   bool
}

// BoardLines draws b one rank per line, rank 1 at the bottom, followed by a
// line of file letters. Every line has the same visible width.
func (r *Renderer) BoardLines(b *board.Board, hl ...Highlight) []string {
	w, h := b.Width(), b.Height()
	lines := make([]string, 0, h+1)
	for y := h - 1; y >= 0; y-- {
		var sb strings.Builder
		sb.WriteString(r.paint(fmt.Sprintf("%2d ", y+1), frameFg...))
		for x := 0; x < w; x++ {
			p := b.At(x, y)
			attrs := append([]color.Attribute(nil), pieceFg(p)...)
			switch {
			case highlighted(hl, x, y) == 1:
				attrs = append(attrs, moveBg)
			case highlighted(hl, x, y) == 2:
				attrs = append(attrs, jumpBg)
			case (x+y)%2 == 1:
				attrs = append(attrs, lightBg)
			case r.DarkBackground:
				attrs = append(attrs, darkBg)
			}
			sb.WriteString(r.paint(" "+r.Symbol(p)+" ", attrs...))
		}
		lines = append(lines, sb.String())
	}

	var files strings.Builder
	files.WriteString("   ")
	for x := 0; x < w; x++ {
		files.WriteString(" " + string(rune('a'+x)) + " ")
	}
	return append(lines, r.paint(files.String(), frameFg...))
}

// highlighted returns 1 for a move highlight, 2 for a jump, 0 for none.
func highlighted(hl []Highlight, x, y int) int {
	for _, h := range hl {
		if h.Square.X == x && h.Square.Y == y {
			if h.Jump {
				return 2
			}
			return 1
		}
	}
	return 0
}

// BoardWidth returns the visible width of BoardLines output.
func BoardWidth(b *board.Board) int {
	return 3 + 3*b.Width()
}

// Board draws b as a single string.
func (r *Renderer) Board(b *board.Board, hl ...Highlight) string {
	return strings.Join(r.BoardLines(b, hl...), "\n") + "\n"
}

// Move describes a timeline move, e.g. "Ng1 → (0T1)" for the departure
// half of a jump.
func (r *Renderer) Move(m board.SubMove) string {
	piece := r.paint(r.Symbol(m.Piece), pieceFg(m.Piece)...)
	from := board.SquareName(m.From.X, m.From.Y)
	to := board.SquareName(m.To.X, m.To.Y)
	ref := func(c board.Coord) string {
		ply := board.PlyOf(c.T, m.Color)
		return fmt.Sprintf("(%sT%d)", c.L.Signed(), board.TurnOf(ply)+1)
	}
	arrow := func(s string) string { return r.paint(s, color.FgYellow) }

	switch m.Kind {
	case board.CastleShortMove:
		return "O-O"
	case board.CastleLongMove:
		return "O-O-O"
	case board.JumpOut:
		return fmt.Sprintf("%s%s %s %s", piece, from, arrow("→"), ref(m.To))
	case board.JumpIn:
		return fmt.Sprintf("%s%s %s %s%s", ref(m.To), to, arrow("←"), ref(m.From), piece)
	}
	if m.Captured != board.Blank {
		return fmt.Sprintf("%s%s x %s", piece, from, to)
	}
	return fmt.Sprintf("%s%s %s", piece, from, to)
}

func (r *Renderer) label(tl *board.Timeline, ply int) string {
	side := "w"
	if board.ColorOfPly(ply) == board.Black {
		side = "b"
	}
	return fmt.Sprintf("(%sT%d%s)", tl.Index.Signed(), board.TurnOf(ply)+1, side)
}

func pad(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// Timeline draws every board of tl from left to right, at most last boards
// counted from the present. last <= 0 draws all of them.
func (r *Renderer) Timeline(tl *board.Timeline, last int) string {
	first := tl.BeginsAt
	if last > 0 && tl.LastPly()-last+1 > first {
		first = tl.LastPly() - last + 1
	}
	return r.row(tl, first, tl.LastPly())
}

// row draws the boards of tl at plies [from, to] side by side, leaving a
// gap where tl has no board.
func (r *Renderer) row(tl *board.Timeline, from, to int) string {
	b0 := tl.Present()
	width, height := BoardWidth(b0), b0.Height()+1
	blank := strings.Repeat(" ", width)

	cols := make([][]string, 0, to-from+1)
	heads := make([]string, 0, to-from+1)
	for ply := from; ply <= to; ply++ {
		b := tl.Board(ply)
		if b == nil {
			col := make([]string, height)
			for i := range col {
				col[i] = blank
			}
			cols = append(cols, col)
			heads = append(heads, blank)
			continue
		}
		cols = append(cols, r.BoardLines(b))
		heads = append(heads, pad(r.label(tl, ply), width))
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(strings.Join(heads, "  "), " ") + "\n")
	for i := 0; i < height; i++ {
		parts := make([]string, len(cols))
		for j, col := range cols {
			parts[j] = col[i]
		}
		sb.WriteString(strings.Join(parts, "  ") + "\n")
	}
	return sb.String()
}

// Multiverse draws every timeline as a row of boards aligned by ply, lowest
// timeline first. Only the newest last plies are drawn; last <= 0 draws
// all of them.
func (r *Renderer) Multiverse(g *board.Game, last int) string {
	tls := g.Timelines()
	from, to := tls[0].BeginsAt, tls[0].LastPly()
	for _, tl := range tls[1:] {
		if tl.BeginsAt < from {
			from = tl.BeginsAt
		}
		if tl.LastPly() > to {
			to = tl.LastPly()
		}
	}
	if last > 0 && to-last+1 > from {
		from = to - last + 1
	}

	var sb strings.Builder
	for i, tl := range tls {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(r.row(tl, from, to))
	}
	return sb.String()
}
