package board

// ResolveSource finds the single square on from's board holding p that can
// legally reach to. from.X and from.Y may be Omitted; any given component
// restricts the search.
func (g *Game) ResolveSource(p Piece, from, to Coord) (Coord, error) {
	b := g.BoardAs(from.L, from.T, p.Color())
	if b == nil {
		return Coord{}, ErrInvalidBoardReference
	}

	var found []Coord
	for _, sq := range b.Find(p) {
		if from.X != Omitted && sq.X != from.X {
			continue
		}
		if from.Y != Omitted && sq.Y != from.Y {
			continue
		}
		c := Coord{L: from.L, T: from.T, X: sq.X, Y: sq.Y}
		if g.CanMove(p, c, to) {
			found = append(found, c)
		}
	}

	switch len(found) {
	case 0:
		return Coord{}, &NoCandidateError{Piece: p, From: from, To: to}
	case 1:
		return found[0], nil
	}
	return Coord{}, &AmbiguousSourceError{Piece: p, To: to, Candidates: found}
}

// CanOmit reports which parts of from a written move may leave out while
// still identifying the moving piece. Both are omitted when no other piece of
// the same kind and color can reach to. Otherwise the file is kept when it
// alone disambiguates, then the rank; when neither does, both are kept.
func (g *Game) CanOmit(p Piece, from, to Coord) (omitX, omitY bool) {
	b := g.BoardAs(from.L, from.T, p.Color())
	if b == nil {
		return false, false
	}

	all, sameFile, sameRank := 0, 0, 0
	for _, sq := range b.Find(p) {
		c := Coord{L: from.L, T: from.T, X: sq.X, Y: sq.Y}
		if !g.CanMove(p, c, to) {
			continue
		}
		all++
		if sq.X == from.X {
			sameFile++
		}
		if sq.Y == from.Y {
			sameRank++
		}
	}

	switch {
	case all <= 1:
		return true, true
	case sameFile == 1:
		return false, true
	case sameRank == 1:
		return true, false
	}
	return false, false
}
