package board

// offset is a displacement across the four axes. L is measured in timeline
// ordinals, T in turns.
type offset struct {
	l, t, x, y int
}

func (g *Game) offset(from, to Coord) offset {
	return offset{
		l: g.ordinal(to.L) - g.ordinal(from.L),
		t: to.T - from.T,
		x: to.X - from.X,
		y: to.Y - from.Y,
	}
}

// magnitudes returns the absolute components sorted in descending order.
func (o offset) magnitudes() [4]int {
	a := [4]int{abs(o.l), abs(o.t), abs(o.x), abs(o.y)}
	for i := 1; i < 4; i++ {
		for j := i; j > 0 && a[j] > a[j-1]; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// slide reports whether a is a straight line through exactly axes axes.
func slide(a [4]int, axes int) bool {
	if a[0] == 0 {
		return false
	}
	for i := 1; i < 4; i++ {
		if i < axes && a[i] != a[0] {
			return false
		}
		if i >= axes && a[i] != 0 {
			return false
		}
	}
	return true
}

func orthogonal(a [4]int) bool { return slide(a, 1) }
func diagonal(a [4]int) bool   { return slide(a, 2) }
func triagonal(a [4]int) bool  { return slide(a, 3) }
func quadragonal(a [4]int) bool {
	return slide(a, 4)
}

// CanMove reports whether p may move from one square to another, reading the
// multiverse as p's color sees it. It checks geometry, path obstruction and
// the destination only; it never considers check.
func (g *Game) CanMove(p Piece, from, to Coord) bool {
	if p == Blank || p == Marker || from == to {
		return false
	}
	color := p.Color()
	dest, ok := g.pieceAs(to, color)
	if !ok {
		return false
	}
	if dest != Blank && dest.Color() == color {
		return false
	}

	o := g.offset(from, to)
	a := o.magnitudes()

	switch p.Kind() {
	case Pawn:
		return g.pawnCanMove(p, from, to, o, dest)
	case Brawn:
		return g.brawnCanCapture(color, o, dest) || g.pawnCanMove(p, from, to, o, dest)
	case Knight:
		return a == [4]int{2, 1, 0, 0}
	case Rook:
		return orthogonal(a) && g.PathClear(from, to, color)
	case Bishop:
		return diagonal(a) && g.PathClear(from, to, color)
	case Unicorn:
		return triagonal(a) && g.PathClear(from, to, color)
	case Dragon:
		return quadragonal(a) && g.PathClear(from, to, color)
	case Queen, ReflectedQueen:
		return (orthogonal(a) || diagonal(a) || triagonal(a) || quadragonal(a)) &&
			g.PathClear(from, to, color)
	case Princess:
		return (orthogonal(a) || diagonal(a)) && g.PathClear(from, to, color)
	case King, ConsulKing:
		return a[0] <= 1
	}
	return false
}

// pawnCanMove applies the forward-only pawn rules on a single board.
func (g *Game) pawnCanMove(p Piece, from, to Coord, o offset, dest Piece) bool {
	if g.IsEnPassant(p, from, to) {
		return true
	}
	color := p.Color()
	dir := color.forward()
	if o.l != 0 || o.t != 0 {
		return false
	}
	if dest != Blank {
		return abs(o.x) == 1 && o.y == dir
	}
	if o.x != 0 {
		return false
	}
	if o.y == dir {
		return true
	}
	if o.y == 2*dir && from.Y == g.startRank(color) {
		mid := from
		mid.Y += dir
		q, ok := g.pieceAs(mid, color)
		return ok && q == Blank
	}
	return false
}

// brawnCanCapture accepts a one-step forward capture combined with a single
// step along any one other axis.
func (g *Game) brawnCanCapture(color Color, o offset, dest Piece) bool {
	if dest == Blank || o.y != color.forward() {
		return false
	}
	steps := 0
	for _, v := range [3]int{o.x, o.l, o.t} {
		switch abs(v) {
		case 0:
		case 1:
			steps++
		default:
			return false
		}
	}
	return steps == 1
}

func (g *Game) startRank(c Color) int {
	if c == White {
		return 1
	}
	return g.Height - 2
}

// PathClear reports whether every square strictly between from and to is
// empty. The displacement must be a straight line, with every moving axis
// advancing by the same amount; anything else is not clear.
func (g *Game) PathClear(from, to Coord, color Color) bool {
	o := g.offset(from, to)
	n := 0
	for _, v := range [4]int{o.l, o.t, o.x, o.y} {
		if v == 0 {
			continue
		}
		if n != 0 && abs(v) != n {
			return false
		}
		n = abs(v)
	}
	if n == 0 {
		return false
	}

	sl, st, sx, sy := sign(o.l), sign(o.t), sign(o.x), sign(o.y)
	base := g.ordinal(from.L)
	for k := 1; k < n; k++ {
		c := Coord{
			L: g.lineAt(base + k*sl),
			T: from.T + k*st,
			X: from.X + k*sx,
			Y: from.Y + k*sy,
		}
		q, ok := g.pieceAs(c, color)
		if !ok || q != Blank {
			return false
		}
	}
	return true
}

// IsEnPassant reports whether the pawn-like p moving from one square to
// another captures en passant: an opposing pawn-like piece advanced two
// ranks past the destination on the previous turn.
func (g *Game) IsEnPassant(p Piece, from, to Coord) bool {
	if !p.Kind().IsPawnlike() {
		return false
	}
	color := p.Color()
	dir := color.forward()
	o := g.offset(from, to)
	if o.l != 0 || o.t != 0 || abs(o.x) != 1 || o.y != dir {
		return false
	}

	prev := to
	prev.T--
	behind, origin := to.Y-dir, to.Y+dir

	return g.blankAs(to, color) &&
		g.blankAs(square(prev, behind), color) &&
		g.opposingPawnAs(square(to, behind), color) &&
		g.opposingPawnAs(square(prev, origin), color) &&
		g.blankAs(square(to, origin), color)
}

// enPassantVictim returns the square captured by an en passant move to c.
func enPassantVictim(c Coord, color Color) Coord {
	return square(c, c.Y-color.forward())
}

func square(c Coord, y int) Coord {
	c.Y = y
	return c
}

func (g *Game) blankAs(c Coord, color Color) bool {
	q, ok := g.pieceAs(c, color)
	return ok && q == Blank
}

func (g *Game) opposingPawnAs(c Coord, color Color) bool {
	q, ok := g.pieceAs(c, color)
	return ok && q.Color() == color.Other() && q.Kind().IsPawnlike()
}
