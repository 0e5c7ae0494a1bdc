package board

import "fmt"

// ForEachAncestorBoard visits the board of timeline l at ply and then every
// earlier board it descends from, following a spawned timeline into its
// parent at the ply it branched from. Returning false from visit stops the
// walk.
func (g *Game) ForEachAncestorBoard(l TimelineIndex, ply int, visit func(b *Board, l TimelineIndex, ply int) bool) {
	tl := g.timelines[l]
	for tl != nil && ply >= 0 {
		b := tl.Board(ply)
		if b == nil {
			return
		}
		if !visit(b, tl.Index, ply) {
			return
		}
		if ply == tl.BeginsAt {
			if tl.SpawnedFrom == nil {
				return
			}
			tl = g.timelines[*tl.SpawnedFrom]
		}
		ply--
	}
}

// keepUnmoved drops squares of sqs that do not hold p on b.
func keepUnmoved(sqs []Square, b *Board, p Piece) []Square {
	out := sqs[:0]
	for _, sq := range sqs {
		if b.At(sq.X, sq.Y) == p {
			out = append(out, sq)
		}
	}
	return out
}

// Castle moves the color's unmoved king and the nearest unmoved rook on its
// rank toward the requested side. A piece counts as unmoved when it stood on
// the same square on every ancestor board.
func (g *Game) Castle(req CastleRequest) (Move, error) {
	color := req.Color
	ply := PlyOf(req.T, color)
	b := g.Board(req.L, ply)
	if b == nil {
		return Move{}, fmt.Errorf("%w: (%sT%d)", ErrInvalidBoardReference, req.L, req.T+1)
	}
	if !g.IsAtPresent(req.L, ply) {
		return Move{}, fmt.Errorf("%w: (%sT%d) for %s", ErrNotPlayable, req.L, req.T+1, color)
	}

	king, rook := NewPiece(King, color), NewPiece(Rook, color)
	kings, rooks := b.Find(king), b.Find(rook)
	g.ForEachAncestorBoard(req.L, ply, func(ab *Board, _ TimelineIndex, _ int) bool {
		kings = keepUnmoved(kings, ab, king)
		rooks = keepUnmoved(rooks, ab, rook)
		return len(kings) > 0
	})

	switch {
	case len(kings) == 0:
		return Move{}, ErrNoKingOrRookForCastle
	case len(kings) > 1:
		return Move{}, &AmbiguousCastleKingError{Kings: kings}
	}
	k := kings[0]

	var r Square
	found := false
	for _, sq := range rooks {
		if sq.Y != k.Y {
			continue
		}
		if req.Long && sq.X < k.X && (!found || sq.X > r.X) {
			r, found = sq, true
		}
		if !req.Long && sq.X > k.X && (!found || sq.X < r.X) {
			r, found = sq, true
		}
	}
	if !found {
		return Move{}, ErrNoKingOrRookForCastle
	}

	kingTo, rookTo := g.Width-2, g.Width-3
	if req.Long {
		kingTo, rookTo = 2, 3
	}
	if !b.InBounds(kingTo, k.Y) || !b.InBounds(rookTo, k.Y) {
		return Move{}, fmt.Errorf("%w: board too narrow to castle", ErrIllegalGeometry)
	}
	lo, hi := min(k.X, r.X), max(k.X, r.X)
	for x := lo + 1; x < hi; x++ {
		if b.At(x, k.Y) != Blank {
			return Move{}, fmt.Errorf("%w: %s blocks castling", ErrIllegalGeometry, SquareName(x, k.Y))
		}
	}
	for _, x := range [2]int{kingTo, rookTo} {
		if x != k.X && x != r.X && b.At(x, k.Y) != Blank {
			return Move{}, fmt.Errorf("%w: %s is occupied", ErrIllegalGeometry, SquareName(x, k.Y))
		}
	}

	next := b.Clone()
	next.Set(k.X, k.Y, Blank)
	next.Set(r.X, r.Y, Blank)
	next.Set(kingTo, k.Y, king)
	next.Set(rookTo, k.Y, rook)

	m := Move{
		From:        Coord{L: req.L, T: req.T, X: k.X, Y: k.Y},
		To:          Coord{L: req.L, T: req.T, X: kingTo, Y: k.Y},
		Piece:       king,
		Color:       color,
		Turn:        req.Turn,
		Annotations: req.Annotations,
		Castle:      CastleShort,
	}
	kind := CastleShortMove
	if req.Long {
		m.Castle = CastleLong
		kind = CastleLongMove
	}

	tl := g.timelines[req.L]
	tl.push(next)
	tl.record(SubMove{Kind: kind, Piece: king, Color: color, From: m.From, To: m.To})

	g.ActiveColor = color
	g.Turn = req.Turn
	g.moves = append(g.moves, m)
	return m, nil
}
