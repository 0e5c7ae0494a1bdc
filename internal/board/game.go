package board

import "sort"

// Game is the whole multiverse: every timeline, the global move log and the
// metadata a notation carried. A Game is not safe for concurrent use.
type Game struct {
	Width  int
	Height int
	Kinds  KindSet
	Tags   *Tags

	// ActiveColor and Turn record the color and turn of the last executed
	// move. They are bookkeeping only and never restrict what Play accepts.
	ActiveColor Color
	Turn        int

	timelines map[TimelineIndex]*Timeline
	order     []TimelineIndex
	initial   []TimelineIndex
	half      bool
	moves     []Move
}

// NewSizedGame is NewGame for sizes that come from input: it fails instead
// of building an unsupported board.
func NewSizedGame(width, height int, initial ...TimelineIndex) (*Game, error) {
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}
	return NewGame(width, height, initial...), nil
}

// NewGame creates a game whose initial timelines each hold one empty board
// at ply 0. With no indices the game starts with the single timeline 0.
// The size must pass CheckSize.
func NewGame(width, height int, initial ...TimelineIndex) *Game {
	if len(initial) == 0 {
		initial = []TimelineIndex{Whole(0)}
	}
	g := &Game{
		Width:     width,
		Height:    height,
		Kinds:     AllKinds,
		Tags:      NewTags(),
		timelines: make(map[TimelineIndex]*Timeline, len(initial)),
	}
	for _, idx := range initial {
		if _, dup := g.timelines[idx]; dup {
			continue
		}
		if idx.IsHalf() {
			g.half = true
		}
		g.addTimeline(newTimeline(idx, 0, nil, NewBoard(width, height)))
		g.initial = append(g.initial, idx)
	}
	return g
}

func (g *Game) addTimeline(tl *Timeline) {
	g.timelines[tl.Index] = tl
	g.order = append(g.order, tl.Index)
}

// InitialTimelines returns the indices the game started with, in the order
// they were configured.
func (g *Game) InitialTimelines() []TimelineIndex {
	out := make([]TimelineIndex, len(g.initial))
	copy(out, g.initial)
	return out
}

// SeedBoard replaces the first board of an initial timeline. It fails once
// moves have been played on that timeline.
func (g *Game) SeedBoard(l TimelineIndex, b *Board) error {
	tl := g.timelines[l]
	if tl == nil || tl.Synthetic() {
		return ErrInvalidBoardReference
	}
	if tl.Len() != 1 {
		return ErrNotPlayable
	}
	if b.Width() != g.Width || b.Height() != g.Height {
		return ErrInvalidFEN
	}
	tl.boards[0] = b.Clone()
	return nil
}

// Timeline returns the timeline with index l, or nil.
func (g *Game) Timeline(l TimelineIndex) *Timeline {
	return g.timelines[l]
}

// Timelines returns every timeline sorted by index.
func (g *Game) Timelines() []*Timeline {
	out := make([]*Timeline, 0, len(g.order))
	for _, idx := range g.order {
		out = append(out, g.timelines[idx])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index.Less(out[j].Index) })
	return out
}

// Moves returns the global move log. The slice must not be modified.
func (g *Game) Moves() []Move {
	return g.moves
}

// Board returns the board of timeline l at ply, or nil.
func (g *Game) Board(l TimelineIndex, ply int) *Board {
	tl := g.timelines[l]
	if tl == nil {
		return nil
	}
	return tl.Board(ply)
}

// BoardAs returns the board color moves on at turn of timeline l, or nil.
func (g *Game) BoardAs(l TimelineIndex, turn int, c Color) *Board {
	return g.Board(l, PlyOf(turn, c))
}

// pieceAs reads the square of c as color sees it. ok is false when the board
// or the square does not exist.
func (g *Game) pieceAs(c Coord, color Color) (Piece, bool) {
	b := g.BoardAs(c.L, c.T, color)
	if b == nil || !b.InBounds(c.X, c.Y) {
		return Blank, false
	}
	return b.At(c.X, c.Y), true
}

// LastPly returns the ply of the newest board of timeline l, or -1.
func (g *Game) LastPly(l TimelineIndex) int {
	tl := g.timelines[l]
	if tl == nil {
		return -1
	}
	return tl.LastPly()
}

// LastTurnIn returns the turn of the newest board of timeline l, or -1.
func (g *Game) LastTurnIn(l TimelineIndex) int {
	ply := g.LastPly(l)
	if ply < 0 {
		return -1
	}
	return TurnOf(ply)
}

// IsAtPresent reports whether ply is the newest board of timeline l.
func (g *Game) IsAtPresent(l TimelineIndex, ply int) bool {
	tl := g.timelines[l]
	return tl != nil && tl.LastPly() == ply
}

// LowestTimeline returns the smallest timeline index.
func (g *Game) LowestTimeline() TimelineIndex {
	low := g.order[0]
	for _, idx := range g.order[1:] {
		if idx.Less(low) {
			low = idx
		}
	}
	return low
}

// HighestTimeline returns the largest timeline index.
func (g *Game) HighestTimeline() TimelineIndex {
	high := g.order[0]
	for _, idx := range g.order[1:] {
		if high.Less(idx) {
			high = idx
		}
	}
	return high
}

// LowestActiveTimeline returns the smallest index among timelines where c is
// to move. When there is none it returns the highest timeline and false.
func (g *Game) LowestActiveTimeline(c Color) (TimelineIndex, bool) {
	best, found := g.HighestTimeline(), false
	for _, idx := range g.order {
		if g.timelines[idx].ActiveColor() != c {
			continue
		}
		if !found || idx.Less(best) {
			best, found = idx, true
		}
	}
	return best, found
}

// HighestActiveTimeline returns the largest index among timelines where c is
// to move. When there is none it returns the lowest timeline and false.
func (g *Game) HighestActiveTimeline(c Color) (TimelineIndex, bool) {
	best, found := g.LowestTimeline(), false
	for _, idx := range g.order {
		if g.timelines[idx].ActiveColor() != c {
			continue
		}
		if !found || best.Less(idx) {
			best, found = idx, true
		}
	}
	return best, found
}

// TimelineAbove returns the next existing timeline with a larger index.
func (g *Game) TimelineAbove(l TimelineIndex) (TimelineIndex, bool) {
	var best TimelineIndex
	found := false
	for _, idx := range g.order {
		if l.Less(idx) && (!found || idx.Less(best)) {
			best, found = idx, true
		}
	}
	return best, found
}

// TimelineBelow returns the next existing timeline with a smaller index.
func (g *Game) TimelineBelow(l TimelineIndex) (TimelineIndex, bool) {
	var best TimelineIndex
	found := false
	for _, idx := range g.order {
		if idx.Less(l) && (!found || best.Less(idx)) {
			best, found = idx, true
		}
	}
	return best, found
}

// ordinal maps a timeline index onto consecutive integers so that branch
// distances can be measured. With the half-offset pair configured, -0 and +0
// sit between -1 and +1.
func (g *Game) ordinal(l TimelineIndex) int {
	if !g.half {
		return l.Trunc()
	}
	switch {
	case l == HalfPos:
		return 0
	case l == HalfNeg:
		return -1
	case l.halves < 0:
		return l.Trunc() - 1
	}
	return l.Trunc()
}

// lineAt is the inverse of ordinal.
func (g *Game) lineAt(ord int) TimelineIndex {
	if !g.half {
		return Whole(ord)
	}
	switch {
	case ord == 0:
		return HalfPos
	case ord == -1:
		return HalfNeg
	case ord < 0:
		return Whole(ord + 1)
	}
	return Whole(ord)
}
