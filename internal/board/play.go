package board

import "fmt"

// Play executes a move. A partial source is resolved first. Moving within a
// board or onto another timeline's present appends boards; moving onto a
// past board spawns a new timeline. The game is left untouched when an error
// is returned.
func (g *Game) Play(req MoveRequest) (Move, error) {
	p := req.Piece
	if p == Blank || p == Marker {
		return Move{}, fmt.Errorf("%w: no piece given", ErrUnsupportedPiece)
	}
	if !g.Kinds.Has(p.Kind()) {
		return Move{}, fmt.Errorf("%w: %s", ErrUnsupportedPiece, p.Kind())
	}
	color := p.Color()
	from, to := req.From, req.To
	if to.Partial() {
		return Move{}, fmt.Errorf("%w: destination square not given", ErrInvalidBoardReference)
	}

	fromPly, toPly := PlyOf(from.T, color), PlyOf(to.T, color)
	src, dst := g.Board(from.L, fromPly), g.Board(to.L, toPly)
	if src == nil {
		return Move{}, fmt.Errorf("%w: source (%sT%d)", ErrInvalidBoardReference, from.L, from.T+1)
	}
	if dst == nil {
		return Move{}, fmt.Errorf("%w: destination (%sT%d)", ErrInvalidBoardReference, to.L, to.T+1)
	}
	if !g.IsAtPresent(from.L, fromPly) {
		return Move{}, fmt.Errorf("%w: (%sT%d) for %s", ErrNotPlayable, from.L, from.T+1, color)
	}

	if from.Partial() {
		resolved, err := g.ResolveSource(p, from, to)
		if err != nil {
			return Move{}, err
		}
		from = resolved
	} else {
		if src.At(from.X, from.Y) != p {
			return Move{}, &NoCandidateError{Piece: p, From: from, To: to}
		}
		if !g.CanMove(p, from, to) {
			return Move{}, fmt.Errorf("%w: %s %s to %s", ErrIllegalGeometry, p.Kind(), from, to)
		}
	}

	placed, err := g.promotion(p, to, req.Promotion)
	if err != nil {
		return Move{}, err
	}

	m := Move{
		From:         from,
		To:           to,
		Piece:        p,
		Captured:     dst.At(to.X, to.Y),
		Color:        color,
		Turn:         req.Turn,
		Promotion:    req.Promotion,
		Annotations:  req.Annotations,
		MovesPresent: req.MovesPresent,
	}
	var victim Coord
	if m.Captured == Blank && g.IsEnPassant(p, from, to) {
		victim = enPassantVictim(to, color)
		m.EnPassant = true
		m.Captured = dst.At(victim.X, victim.Y)
	}

	srcTL := g.timelines[from.L]
	sub := SubMove{Piece: p, Captured: m.Captured, Color: color, From: from, To: to}

	switch {
	case from.SameBoard(to):
		next := src.Clone()
		next.Set(from.X, from.Y, Blank)
		next.Set(to.X, to.Y, placed)
		if m.EnPassant {
			next.Set(victim.X, victim.Y, Blank)
		}
		srcTL.push(next)
		sub.Kind = MoveOnBoard
		srcTL.record(sub)

	case g.IsAtPresent(to.L, toPly):
		left := src.Clone()
		left.Set(from.X, from.Y, Blank)
		arrived := dst.Clone()
		arrived.Set(to.X, to.Y, placed)

		dstTL := g.timelines[to.L]
		srcTL.push(left)
		dstTL.push(arrived)
		sub.Kind = JumpOut
		srcTL.record(sub)
		sub.Kind = JumpIn
		dstTL.record(sub)

	default:
		left := src.Clone()
		left.Set(from.X, from.Y, Blank)
		arrived := dst.Clone()
		arrived.Set(to.X, to.Y, placed)

		idx := g.nextTimeline(color)
		parent := to.L
		tl := newTimeline(idx, toPly+1, &parent, arrived)

		srcTL.push(left)
		sub.Kind = JumpOut
		srcTL.record(sub)
		g.addTimeline(tl)
		sub.Kind = JumpIn
		tl.record(sub)

		m.NewTimeline = &idx
		m.MovesPresent = m.MovesPresent || g.balanced()
	}

	g.ActiveColor = color
	g.Turn = req.Turn
	g.moves = append(g.moves, m)
	return m, nil
}

// promotion returns the piece that lands on to, validating any promotion.
func (g *Game) promotion(p Piece, to Coord, promo Piece) (Piece, error) {
	color := p.Color()
	reaches := p.Kind().IsPawnlike() && to.Y == g.lastRank(color)
	if promo == Blank {
		if reaches {
			return Blank, ErrPawnPromotionRequired
		}
		return p, nil
	}
	k := promo.Kind()
	if !reaches || promo.Color() != color || k.IsPawnlike() || k.IsRoyal() || !g.Kinds.Has(k) {
		return Blank, fmt.Errorf("%w: %s", ErrInvalidPromotion, k)
	}
	return promo, nil
}

func (g *Game) lastRank(c Color) int {
	if c == White {
		return g.Height - 1
	}
	return 0
}

// nextTimeline returns the index a new timeline created by c receives: one
// past the outermost timeline on c's side.
func (g *Game) nextTimeline(c Color) TimelineIndex {
	if c == White {
		return Whole(g.HighestTimeline().Trunc() + 1)
	}
	return Whole(g.LowestTimeline().Trunc() - 1)
}

// balanced reports whether neither side has more than one timeline beyond
// the other, which keeps every timeline active. It holds when
// |trunc(highest) + trunc(lowest)| < 2.
func (g *Game) balanced() bool {
	return abs(g.HighestTimeline().Trunc()+g.LowestTimeline().Trunc()) < 2
}

// AppendComment attaches text to the last executed move. It reports false
// when no move has been played.
func (g *Game) AppendComment(text string) bool {
	if len(g.moves) == 0 {
		return false
	}
	last := &g.moves[len(g.moves)-1]
	last.Comments = append(last.Comments, text)
	return true
}

// Annotate merges flags into the last executed move. It reports false when
// no move has been played.
func (g *Game) Annotate(a Annotations, movesPresent bool) bool {
	if len(g.moves) == 0 {
		return false
	}
	last := &g.moves[len(g.moves)-1]
	last.Annotations = last.Annotations.Merge(a)
	last.MovesPresent = last.MovesPresent || movesPresent
	return true
}
