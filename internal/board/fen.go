package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StandardFEN is the piece placement of the standard starting board.
const StandardFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// ParseBoard parses a single piece placement. Ranks are separated by '/',
// listed from the top rank (Y = height-1) down; digits are runs of empty
// squares and may span more than one character.
func ParseBoard(fen string, width, height int) (*Board, error) {
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}
	ranks := strings.Split(strings.TrimSpace(fen), "/")
	if len(ranks) != height {
		return nil, fmt.Errorf("%w: need %d ranks, got %d", ErrInvalidFEN, height, len(ranks))
	}

	b := NewBoard(width, height)
	for i, rank := range ranks {
		y := height - 1 - i
		x := 0
		for j := 0; j < len(rank); j++ {
			c := rank[j]
			if c >= '0' && c <= '9' {
				k := j
				for k+1 < len(rank) && rank[k+1] >= '0' && rank[k+1] <= '9' {
					k++
				}
				n, _ := strconv.Atoi(rank[j : k+1])
				x += n
				j = k
				continue
			}
			p, ok := PieceFromChar(c)
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, c)
			}
			if x >= width {
				return nil, fmt.Errorf("%w: rank %d is longer than %d files", ErrInvalidFEN, y+1, width)
			}
			b.Set(x, y, p)
			x++
		}
		if x != width {
			return nil, fmt.Errorf("%w: rank %d has %d files, want %d", ErrInvalidFEN, y+1, x, width)
		}
	}
	return b, nil
}

// FEN returns the piece placement of the board in the format read by
// ParseBoard.
func (b *Board) FEN() string {
	var sb strings.Builder
	for y := b.height - 1; y >= 0; y-- {
		empty := 0
		for x := 0; x < b.width; x++ {
			p := b.At(x, y)
			if p == Blank {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if y > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// SeedFEN installs the first board of every initial timeline from a
// whitespace separated list of placements, in the order the timelines were
// configured.
func (g *Game) SeedFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) != len(g.initial) {
		return fmt.Errorf("%w: %d boards for %d timelines", ErrInvalidFEN, len(fields), len(g.initial))
	}
	boards := make([]*Board, len(fields))
	for i, f := range fields {
		b, err := ParseBoard(f, g.Width, g.Height)
		if err != nil {
			return fmt.Errorf("board %d: %w", i+1, err)
		}
		boards[i] = b
	}
	for i, b := range boards {
		if err := g.SeedBoard(g.initial[i], b); err != nil {
			return err
		}
	}
	return nil
}

// ParseTimelineList parses a space separated list of timeline indices such
// as "-0 +0" or "-1 0 1".
func ParseTimelineList(s string) ([]TimelineIndex, error) {
	var out []TimelineIndex
	for _, f := range strings.Fields(s) {
		l, err := ParseTimelineIndex(f)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// ParseSize parses a board size written as "8x8". Sizes beyond CheckSize
// are rejected.
func ParseSize(s string) (width, height int, err error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	width, err = strconv.Atoi(w)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	height, err = strconv.Atoi(h)
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	if err := CheckSize(width, height); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}
