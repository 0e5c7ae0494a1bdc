// Package ran reads and writes 4xel RAN, a fully spelled-out notation in
// which every move names both of its boards.
package ran

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/hailam/chessplay5d/internal/board"
	"github.com/hailam/chessplay5d/internal/notation"
)

var (
	turnRe      = regexp.MustCompile(`^(?:([bwBW])\s*)?(\d+)\s*(?:T\s*(\d+)\s*)?\.`)
	timelineRe  = regexp.MustCompile(`^L\s*([+-]?\d+)`)
	timeRe      = regexp.MustCompile(`^T\s*([+-]?\d+)`)
	pieceRe     = regexp.MustCompile(`^(?:BR|CK|RQ|PR|[PKNRQDUBS])`)
	branchRe    = regexp.MustCompile(`^\(\+\s*L\s*([+-]?\d*)\s*(?:(p)\s*)?\)`)
	squareRe    = regexp.MustCompile(`^([a-w])(\d+)`)
	fileRe      = regexp.MustCompile(`^[a-w]`)
	rankRe      = regexp.MustCompile(`^\d+`)
	castleRe    = regexp.MustCompile(`^[O0]-[O0](-[O0])?`)
	promotionRe = regexp.MustCompile(`^=(PR|RQ|[NBRQDUS])`)
	glyphRe     = regexp.MustCompile(`^[!?]{1,2}`)
	skipRe      = regexp.MustCompile(`^-\s*;`)
)

// Codec is the 4xel RAN notation.Codec. RAN carries no tags, so the
// starting position comes from Board.
type Codec struct {
	Mode  notation.ErrorMode
	Board string
	Log   *zap.SugaredLogger
}

// Name implements notation.Codec.
func (Codec) Name() string { return "4xel" }

// Decode implements notation.Codec.
func (c Codec) Decode(raw string) (*board.Game, error) {
	tokens, err := Tokenize(raw)
	if err != nil {
		return nil, err
	}
	tokens = append([]notation.Token{{
		Kind: notation.TagToken, Name: notation.TagMode, Value: "5D",
		Turn: board.Omitted, Present: board.Omitted,
	}}, tokens...)
	return notation.Load(tokens, notation.Options{Mode: c.Mode, Board: c.Board, Log: c.Log})
}

// Encode implements notation.Codec.
func (Codec) Encode(g *board.Game) (string, error) {
	return Write(g), nil
}

// Tokenize splits RAN text into turn, separator and move tokens. A turn
// prefix without a color hands the move to the other side.
func Tokenize(raw string) ([]notation.Token, error) {
	src := strings.ReplaceAll(raw, "..", ";..")
	pos := 0
	white := false
	var tokens []notation.Token

	for {
		for pos < len(src) && unicode.IsSpace(rune(src[pos])) {
			pos++
		}
		if pos >= len(src) {
			return tokens, nil
		}
		rest := src[pos:]
		tok := notation.Token{Turn: board.Omitted, Present: board.Omitted}

		if m := turnRe.FindStringSubmatch(rest); m != nil {
			if m[1] != "" {
				white = strings.ToLower(m[1]) == "w"
			} else {
				white = !white
			}
			n, _ := strconv.Atoi(m[2])
			tok.Kind, tok.Turn = notation.TurnToken, n-1
			tok.Color = board.Black
			if white {
				tok.Color = board.White
			}
			if m[3] != "" {
				p, _ := strconv.Atoi(m[3])
				tok.Present = p - 1
			}
			tok.Raw = m[0]
			tokens = append(tokens, tok)
			pos += len(m[0])
			continue
		}
		if strings.HasPrefix(rest, "..") {
			if !white {
				return nil, notation.NewSyntaxError(pos, rest, "cannot switch player: already black")
			}
			white = false
			tok.Kind, tok.Color, tok.Raw = notation.PlayerToken, board.Black, ".."
			tokens = append(tokens, tok)
			pos += 2
			continue
		}
		if m := skipRe.FindString(rest); m != "" {
			pos += len(m)
			continue
		}

		end := strings.IndexAny(rest, ";.")
		if end < 0 {
			return nil, notation.NewSyntaxError(pos, rest, "unterminated move")
		}
		text := rest[:end]
		if strings.TrimSpace(text) != "" {
			mi, err := ParseMove(text)
			if err != nil {
				var se *notation.SyntaxError
				if errors.As(err, &se) {
					se.Offset += pos
				}
				return nil, err
			}
			tok.Kind, tok.Move, tok.Raw = notation.MoveToken, mi, strings.TrimSpace(text)
			tokens = append(tokens, tok)
		}
		pos += end + 1
	}
}

type part struct {
	kind  byte // 'L', 'T', 'P'iece, 'S'quare, 'C'astle, '='promotion
	l     board.TimelineIndex
	n     int
	x, y  int
	piece board.Kind
	long  bool
}

// ParseMove reads one RAN move. The destination square must be complete.
// Timeline and time markers before the piece letter address the source
// board; markers after it address the destination.
func ParseMove(text string) (*notation.MoveIntent, error) {
	s := strings.TrimSpace(text)
	pos := 0
	mi := notation.NewMoveIntent(board.Pawn)
	mi.Raw = s
	var parts []part

	for pos < len(s) {
		for pos < len(s) && unicode.IsSpace(rune(s[pos])) {
			pos++
		}
		if pos >= len(s) {
			break
		}
		rest := s[pos:]
		var m []string
		switch {
		case timelineRe.MatchString(rest):
			m = timelineRe.FindStringSubmatch(rest)
			l, err := board.ParseTimelineIndex(m[1])
			if err != nil {
				return nil, notation.NewSyntaxError(pos, rest, err.Error())
			}
			parts = append(parts, part{kind: 'L', l: l})
		case timeRe.MatchString(rest):
			m = timeRe.FindStringSubmatch(rest)
			n, _ := strconv.Atoi(m[1])
			parts = append(parts, part{kind: 'T', n: n - 1})
		case castleRe.MatchString(rest):
			m = castleRe.FindStringSubmatch(rest)
			parts = append(parts, part{kind: 'C', long: m[1] != ""})
		case pieceRe.MatchString(rest):
			m = []string{pieceRe.FindString(rest)}
			k, _ := board.KindFromLetter(m[0])
			parts = append(parts, part{kind: 'P', piece: k})
		case squareRe.MatchString(rest):
			m = squareRe.FindStringSubmatch(rest)
			n, _ := strconv.Atoi(m[2])
			parts = append(parts, part{kind: 'S', x: int(m[1][0] - 'a'), y: n - 1})
		case fileRe.MatchString(rest):
			m = []string{fileRe.FindString(rest)}
			parts = append(parts, part{kind: 'S', x: int(m[0][0] - 'a'), y: board.Omitted})
		case rankRe.MatchString(rest):
			m = []string{rankRe.FindString(rest)}
			n, _ := strconv.Atoi(m[0])
			parts = append(parts, part{kind: 'S', x: board.Omitted, y: n - 1})
		case strings.HasPrefix(rest, "++"):
			m = []string{"++"}
			mi.Softmate = true
		case strings.HasPrefix(rest, "*+"), strings.HasPrefix(rest, "+"), strings.HasPrefix(rest, "*"):
			m = []string{rest[:1]}
			if strings.HasPrefix(rest, "*+") {
				m[0] = "*+"
			}
			mi.Check = true
		case strings.HasPrefix(rest, "#"):
			m = []string{"#"}
			mi.Checkmate = true
		case strings.HasPrefix(rest, "x"):
			m = []string{"x"}
			mi.Capture = true
		case glyphRe.MatchString(rest):
			m = []string{glyphRe.FindString(rest)}
		case branchRe.MatchString(rest):
			m = branchRe.FindStringSubmatch(rest)
			mi.Branch = true
			if m[1] != "" {
				l, err := board.ParseTimelineIndex(m[1])
				if err != nil {
					return nil, notation.NewSyntaxError(pos, rest, err.Error())
				}
				mi.NewTimeline = &l
			}
			mi.MovesPresent = m[2] != ""
		case promotionRe.MatchString(rest):
			m = promotionRe.FindStringSubmatch(rest)
			k, _ := board.KindFromLetter(m[1])
			parts = append(parts, part{kind: '=', piece: k})
		default:
			return nil, notation.NewSyntaxError(pos, rest, "unexpected text within move")
		}
		pos += len(m[0])
	}

	for _, p := range parts {
		if p.kind == 'C' {
			mi.Kind, mi.Castle, mi.Long = board.King, true, p.long
			for _, q := range parts {
				applySource(mi, q)
			}
			return mi, nil
		}
	}

	var squares []part
	pieceAt := -1
	for i, p := range parts {
		switch p.kind {
		case 'S':
			squares = append(squares, p)
		case 'P':
			if pieceAt < 0 {
				pieceAt = i
				mi.Kind = p.piece
			}
		case '=':
			mi.Promotion = p.piece
		}
	}
	switch len(squares) {
	case 1, 2:
	case 0:
		return nil, notation.NewSyntaxError(0, s, "missing target square")
	default:
		return nil, notation.NewSyntaxError(0, s, fmt.Sprintf("expected 1 or 2 squares, got %d", len(squares)))
	}
	target := squares[len(squares)-1]
	if target.x == board.Omitted || target.y == board.Omitted {
		return nil, notation.NewSyntaxError(0, s, "target square must be fully specified")
	}
	mi.To.X, mi.To.Y = target.x, target.y
	if len(squares) == 2 {
		mi.From.X, mi.From.Y = squares[0].x, squares[0].y
	}

	for i, p := range parts {
		if pieceAt < 0 || i < pieceAt {
			applySource(mi, p)
			continue
		}
		switch p.kind {
		case 'L':
			mi.To = mi.To.Timeline(p.l)
			mi.To.T = mi.From.T
		case 'T':
			mi.To.T = p.n
		}
	}
	mi.Jump = mi.To.HasL || mi.To.T != board.Omitted
	return mi, nil
}

// applySource lets a timeline or time marker address the source board.
// A timeline marker resets the turn so it defaults to that timeline's
// newest board.
func applySource(mi *notation.MoveIntent, p part) {
	switch p.kind {
	case 'L':
		mi.From = mi.From.Timeline(p.l)
		mi.From.T = board.Omitted
	case 'T':
		mi.From.T = p.n
	}
}

// Write renders every move of g fully specified.
func Write(g *board.Game) string {
	var sb strings.Builder
	moves := g.Moves()
	for i, m := range moves {
		if i == 0 || m.Color != moves[i-1].Color || m.Turn != moves[i-1].Turn {
			if i > 0 {
				sb.WriteString(".\n")
			}
			c := "w"
			if m.Color == board.Black {
				c = "b"
			}
			fmt.Fprintf(&sb, "%s%d. ", c, m.Turn+1)
		} else {
			sb.WriteString("; ")
		}
		sb.WriteString(WriteMove(m))
	}
	if len(moves) > 0 {
		sb.WriteString(".\n")
	}
	return sb.String()
}

func boardRef(c board.Coord) string {
	return "L" + c.L.Signed() + "T" + strconv.Itoa(c.T+1)
}

// WriteMove renders one move with both boards and squares spelled out.
func WriteMove(m board.Move) string {
	var sb strings.Builder
	sb.WriteString(boardRef(m.From))
	switch m.Castle {
	case board.CastleShort:
		return sb.String() + " O-O"
	case board.CastleLong:
		return sb.String() + " O-O-O"
	}
	sb.WriteByte(' ')
	sb.WriteString(m.Piece.Kind().Letter())
	sb.WriteString(board.SquareName(m.From.X, m.From.Y))
	if m.IsCapture() {
		sb.WriteString(" x ")
	} else {
		sb.WriteByte(' ')
	}
	sb.WriteString(boardRef(m.To))
	sb.WriteByte(' ')
	sb.WriteString(board.SquareName(m.To.X, m.To.Y))
	if m.Promotion != board.Blank {
		sb.WriteString("=" + m.Promotion.Kind().Letter())
	}
	switch {
	case m.Softmate:
		sb.WriteString("++")
	case m.Check:
		sb.WriteString("+")
	}
	if m.Checkmate {
		sb.WriteString("#")
	}
	if m.NewTimeline != nil {
		sb.WriteString(" (+L" + m.NewTimeline.Signed())
		if m.MovesPresent {
			sb.WriteString(" p")
		}
		sb.WriteString(")")
	}
	return sb.String()
}
