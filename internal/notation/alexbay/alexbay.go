// Package alexbay reads and writes the line-oriented notation produced by
// Alexbay's 5D chess client: one "[tag "value"]" per line followed by one
// move per line.
package alexbay

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/chessplay5d/internal/board"
	"github.com/hailam/chessplay5d/internal/notation"
)

var (
	tagRe       = regexp.MustCompile(`^\[\s*(\w+)\s+"((?:[^"\\]|\\.)*)"\s*\]$`)
	turnRe      = regexp.MustCompile(`^(\d+)([bwBW])\s*\.`)
	firstPartRe = regexp.MustCompile(`^\s*(\d+)\s*([+-]\d+)?\s*$`)
	pieceRe     = regexp.MustCompile(`^(?:BR|CK|RQ|[KQRBNPUDS])`)
	coordsRe    = regexp.MustCompile(`^([a-w])(\d+)`)
	branchRe    = regexp.MustCompile(`^<\s*([+-]\d+)?\s*>`)
	destRe      = regexp.MustCompile(`^(\d+)?\s*([+-]\d+)?`)
	tagUnescape = strings.NewReplacer(`\"`, `"`, `\\`, `\`)
	tagEscape   = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
)

// knownBoards maps the client's variant names onto board names. Names with no
// matching variant here decode as Standard.
var knownBoards = []struct{ variant, board string }{
	{"standard", "STANDARD"},
	{"princess", "STANDARD - PRINCESS"},
	{"defended_pawn", "STANDARD - DEFENDED PAWN"},
	{"half_reflected", "STANDARD - HALF REFLECTED"},
	{"turn_zero", "STANDARD - TURN ZERO"},
	{"custom", "CUSTOM"},
}

func boardFor(variant string) (string, bool) {
	for _, kb := range knownBoards {
		if strings.EqualFold(kb.variant, variant) {
			return kb.board, true
		}
	}
	return "", false
}

func variantFor(boardName string) string {
	for _, kb := range knownBoards {
		if strings.EqualFold(kb.board, boardName) {
			return kb.variant
		}
	}
	return "custom"
}

// Codec is the Alexbay notation.Codec.
type Codec struct {
	Mode notation.ErrorMode
	Log  *zap.SugaredLogger
}

// Name implements notation.Codec.
func (Codec) Name() string { return "alexbay" }

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
	return Write(g)
}

func tagToken(name, value string) notation.Token {
	return notation.Token{
		Kind: notation.TagToken, Name: name, Value: value,
		Turn: board.Omitted, Present: board.Omitted,
		Raw: fmt.Sprintf("[%s %q]", name, value),
	}
}

// canonicalTags are matched without regard to case, the client writes them
// in lower case.
var canonicalTags = []string{
	notation.TagBoard, notation.TagSize, notation.TagInitialMultiverses, notation.TagFEN, notation.TagMode,
}

// Tokenize reads tag lines and move lines. The "variant" tag selects the
// board unless a Board tag is present.
func Tokenize(raw string) ([]notation.Token, error) {
	var tags, moves []notation.Token
	hasBoard := false
	variant := "standard"
	offset := 0

	for _, line := range strings.Split(raw, "\n") {
		start := offset
		offset += len(line) + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			m := tagRe.FindStringSubmatch(line)
			if m == nil {
				return nil, notation.NewSyntaxError(start, line, "unsupported board line")
			}
			name, value := m[1], tagUnescape.Replace(m[2])
			for _, c := range canonicalTags {
				if strings.EqualFold(name, c) {
					name = c
				}
			}
			if name == notation.TagBoard {
				hasBoard = true
			}
			if strings.EqualFold(name, "variant") {
				variant = value
			}
			tags = append(tags, tagToken(name, value))
			continue
		}

		turn, color, mi, err := ParseLine(line)
		if err != nil {
			if se, ok := err.(*notation.SyntaxError); ok {
				se.Offset += start
			}
			return nil, err
		}
		moves = append(moves,
			notation.Token{Kind: notation.TurnToken, Turn: turn, Color: color, Present: board.Omitted, Raw: line},
			notation.Token{Kind: notation.MoveToken, Move: mi, Turn: board.Omitted, Present: board.Omitted, Raw: line},
		)
	}

	if !hasBoard {
		name, ok := boardFor(variant)
		if _, known := board.LookupVariant(name); !ok || (!known && name != "CUSTOM") {
			name = notation.DefaultBoard
		}
		tags = append(tags, tagToken(notation.TagBoard, name))
	}
	return append(tags, moves...), nil
}

// ParseLine reads one move line such as "3w. 2:Nb1<+1>1:c3".
func ParseLine(line string) (turn int, color board.Color, mi *notation.MoveIntent, err error) {
	m := turnRe.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, nil, notation.NewSyntaxError(0, line, "missing turn prefix")
	}
	n, _ := strconv.Atoi(m[1])
	turn, color = n-1, board.White
	if strings.EqualFold(m[2], "b") {
		color = board.Black
	}
	mi, err = ParseMove(line[len(m[0]):])
	return turn, color, mi, err
}

func timeline(s string) board.TimelineIndex {
	n, _ := strconv.Atoi(s)
	return board.Whole(n)
}

func kindOf(letter string) board.Kind {
	if letter == "P" {
		return board.Princess
	}
	k, _ := board.KindFromLetter(letter)
	return k
}

func letterOf(k board.Kind) string {
	if k == board.Princess {
		return "P"
	}
	return k.Letter()
}

// ParseMove reads the part of a move line after the turn prefix.
func ParseMove(text string) (*notation.MoveIntent, error) {
	text = strings.TrimSpace(text)
	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, notation.NewSyntaxError(0, text, "expected two or three ':' separated parts")
	}

	first := firstPartRe.FindStringSubmatch(parts[0])
	if first == nil {
		return nil, notation.NewSyntaxError(0, parts[0], "invalid board reference")
	}
	t, _ := strconv.Atoi(first[1])
	from := notation.Unset().Timeline(board.Whole(0))
	if first[2] != "" {
		from = from.Timeline(timeline(first[2]))
	}
	from.T = t - 1

	if len(parts) == 2 {
		castle := strings.TrimSpace(parts[1])
		if castle != "0-0" && castle != "0-0-0" && castle != "O-O" && castle != "O-O-O" {
			return nil, notation.NewSyntaxError(0, parts[1], "invalid castle")
		}
		mi := notation.NewMoveIntent(board.King)
		mi.Castle, mi.Long = true, len(castle) == 5
		mi.From = from
		mi.Raw = text
		return mi, nil
	}

	mi := notation.NewMoveIntent(board.NoKind)
	mi.Raw = text
	second := strings.TrimSpace(parts[1])
	if p := pieceRe.FindString(second); p != "" {
		mi.Kind = kindOf(p)
		second = strings.TrimSpace(second[len(p):])
	}
	c := coordsRe.FindStringSubmatch(second)
	if c == nil {
		return nil, notation.NewSyntaxError(0, second, "invalid source square")
	}
	mi.From = from
	mi.From.X, mi.From.Y = square(c[1], c[2])
	second = strings.TrimSpace(second[len(c[0]):])

	if b := branchRe.FindStringSubmatch(second); b != nil {
		second = strings.TrimSpace(second[len(b[0]):])
		mi.Jump = true
		if b[1] != "" {
			l := timeline(b[1])
			mi.NewTimeline = &l
			mi.Branch = true
		}
	}
	mi.To = notation.Unset().Timeline(from.L)
	mi.To.T = from.T
	if d := destRe.FindStringSubmatch(second); d != nil && d[0] != "" {
		if d[1] != "" {
			n, _ := strconv.Atoi(d[1])
			mi.To.T = n - 1
		}
		if d[2] != "" {
			mi.To = mi.To.Timeline(timeline(d[2]))
		}
		second = strings.TrimSpace(second[len(d[0]):])
	}
	if second != "" {
		return nil, notation.NewSyntaxError(0, second, "unexpected text after source")
	}

	third := strings.TrimSpace(parts[2])
	if strings.HasPrefix(third, "x") {
		mi.Capture = true
		third = strings.TrimSpace(third[1:])
	}
	if p := pieceRe.FindString(third); p != "" {
		mi.Promotion = kindOf(p)
		third = strings.TrimSpace(third[len(p):])
	}
	c = coordsRe.FindStringSubmatch(third)
	if c == nil {
		return nil, notation.NewSyntaxError(0, third, "invalid target square")
	}
	mi.To.X, mi.To.Y = square(c[1], c[2])
	third = strings.TrimSpace(third[len(c[0]):])
	if strings.HasPrefix(third, "e.p.") {
		mi.EnPassant = true
		third = strings.TrimSpace(third[4:])
	}
	switch {
	case third == "":
	case third == "+":
		mi.Check = true
	case third == "#":
		mi.Checkmate = true
	case third == "=":
		mi.Stalemate = true
	default:
		return nil, notation.NewSyntaxError(0, third, "unexpected text after target")
	}
	return mi, nil
}

func square(file, rank string) (x, y int) {
	n, _ := strconv.Atoi(rank)
	return int(file[0] - 'a'), n - 1
}

func signed(l board.TimelineIndex) string {
	if l.Trunc() >= 0 {
		return "+" + strconv.Itoa(l.Trunc())
	}
	return strconv.Itoa(l.Trunc())
}

// Write renders g. Games with half-offset timelines cannot be written.
func Write(g *board.Game) (string, error) {
	for _, tl := range g.Timelines() {
		if tl.Index.IsHalf() {
			return "", fmt.Errorf("%w: timeline %s", notation.ErrUnrepresentable, tl.Index)
		}
	}

	tags := notation.SetupTags(g)
	hasVariant := false
	for _, k := range tags.Keys() {
		if strings.EqualFold(k, "variant") {
			hasVariant = true
		}
	}
	if !hasVariant {
		name, _ := tags.Get(notation.TagBoard)
		tags.Set("variant", variantFor(name))
	}

	var sb strings.Builder
	for _, k := range tags.Keys() {
		v, _ := tags.Get(k)
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", k, tagEscape.Replace(v))
	}
	for _, m := range g.Moves() {
		c := "w"
		if m.Color == board.Black {
			c = "b"
		}
		fmt.Fprintf(&sb, "\n%d%s. %s", m.Turn+1, c, WriteMove(m))
	}
	sb.WriteByte('\n')
	return sb.String(), nil
}

// WriteMove renders one move without its turn prefix.
func WriteMove(m board.Move) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(m.From.T + 1))
	if m.From.L != board.Whole(0) {
		sb.WriteString(signed(m.From.L))
	}
	sb.WriteByte(':')

	switch m.Castle {
	case board.CastleShort:
		return sb.String() + "0-0"
	case board.CastleLong:
		return sb.String() + "0-0-0"
	}

	if k := m.Piece.Kind(); k != board.Pawn {
		sb.WriteString(letterOf(k))
	}
	sb.WriteString(board.SquareName(m.From.X, m.From.Y))
	if m.NewTimeline != nil {
		sb.WriteString("<" + signed(*m.NewTimeline) + ">")
	}
	if !m.From.SameBoard(m.To) {
		if m.NewTimeline == nil {
			sb.WriteString("<>")
		}
		if m.To.T != m.From.T {
			sb.WriteString(strconv.Itoa(m.To.T + 1))
		}
		if m.To.L != m.From.L {
			sb.WriteString(signed(m.To.L))
		}
	}
	sb.WriteByte(':')
	if m.IsCapture() {
		sb.WriteByte('x')
	}
	if m.Promotion != board.Blank {
		sb.WriteString(letterOf(m.Promotion.Kind()))
	}
	sb.WriteString(board.SquareName(m.To.X, m.To.Y))
	if m.EnPassant {
		sb.WriteString("e.p.")
	}
	switch {
	case m.Check || m.Softmate:
		sb.WriteByte('+')
	case m.Checkmate:
		sb.WriteByte('#')
	case m.Stalemate:
		sb.WriteByte('=')
	}
	return sb.String()
}
