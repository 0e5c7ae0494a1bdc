package pgn

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/chessplay5d/internal/board"
	"github.com/hailam/chessplay5d/internal/notation"
)

var tagEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Codec is the 5dpgn notation.Codec.
type Codec struct {
	Mode notation.ErrorMode
	Log  *zap.SugaredLogger
}

// Name implements notation.Codec.
func (Codec) Name() string { return "5dpgn" }

// Decode implements notation.Codec.
func (c Codec) Decode(raw string) (*board.Game, error) {
	tokens, err := Tokenize(raw)
	if err != nil {
		return nil, err
	}
	return notation.Load(tokens, notation.Options{Mode: c.Mode, Log: c.Log})
}

// Encode implements notation.Codec.
func (Codec) Encode(g *board.Game) (string, error) {
	return Write(g), nil
}

// Write renders the tags and move log of g.
func Write(g *board.Game) string {
	var sb strings.Builder
	tags := notation.SetupTags(g)
	for _, k := range tags.Keys() {
		v, _ := tags.Get(k)
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", k, tagEscaper.Replace(v))
	}

	white := true
	turn := -1
	for _, m := range g.Moves() {
		if m.Turn > turn {
			turn = m.Turn
			fmt.Fprintf(&sb, "\n%d.", turn+1)
			white = true
		}
		if m.Color == board.Black && white {
			sb.WriteString(" /")
			white = false
		}
		sb.WriteByte(' ')
		sb.WriteString(WriteMove(g, m))
		for _, c := range m.Comments {
			if IsResult(c) {
				sb.WriteString(" " + c)
			} else {
				sb.WriteString(" {" + strings.ReplaceAll(c, "}", `\}`) + "}")
			}
		}
	}
	if len(g.Moves()) > 0 {
		sb.WriteByte('\n')
	}
	return sb.String()
}

func superphysical(c board.Coord) string {
	return "(" + c.L.String() + "T" + strconv.Itoa(c.T+1) + ")"
}

func marks(m board.Move) string {
	var sb strings.Builder
	if m.Check {
		sb.WriteByte('+')
	}
	if m.Checkmate {
		sb.WriteByte('#')
	}
	if m.Softmate {
		sb.WriteByte('*')
	}
	return sb.String()
}

// WriteMove renders one executed move of g. Physical moves carry only as
// much of the source square as is needed to identify the piece.
func WriteMove(g *board.Game, m board.Move) string {
	var sb strings.Builder
	sb.WriteString(superphysical(m.From))

	switch m.Castle {
	case board.CastleShort:
		return sb.String() + "O-O" + marks(m)
	case board.CastleLong:
		return sb.String() + "O-O-O" + marks(m)
	}

	kind := m.Piece.Kind()
	if m.IsJump() {
		sb.WriteString(kind.Letter())
		sb.WriteString(board.SquareName(m.From.X, m.From.Y))
		if m.NewTimeline != nil {
			sb.WriteString(">>")
		} else {
			sb.WriteString(">")
		}
		if m.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(superphysical(m.To))
		sb.WriteString(board.SquareName(m.To.X, m.To.Y))
		sb.WriteString(marks(m))
		if m.MovesPresent {
			sb.WriteByte('~')
		}
		return sb.String()
	}

	var omitX, omitY bool
	if kind == board.Pawn {
		omitY = true
		omitX = m.From.X == m.To.X
	} else {
		sb.WriteString(kind.Letter())
		omitX, omitY = g.CanOmit(m.Piece, m.From, m.To)
	}
	if !omitX {
		sb.WriteByte(byte('a' + m.From.X))
	}
	if !omitY {
		sb.WriteString(strconv.Itoa(m.From.Y + 1))
	}
	if m.IsCapture() {
		sb.WriteByte('x')
	}
	sb.WriteString(board.SquareName(m.To.X, m.To.Y))
	if m.Promotion != board.Blank {
		sb.WriteString("=" + m.Promotion.Kind().Letter())
	}
	sb.WriteString(marks(m))
	return sb.String()
}
