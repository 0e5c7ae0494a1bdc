package board

import (
	"testing"
)

func TestCanMoveGeometry(t *testing.T) {
	g := NewGame(8, 8)
	grow(g, 9)
	l0 := Whole(0)
	at := func(turn, x, y int) Coord { return At(l0, turn, x, y) }

	tests := []struct {
		name string
		kind Kind
		from Coord
		to   Coord
		want bool
	}{
		{"KnightBoard", Knight, at(2, 1, 0), at(2, 2, 2), true},
		{"KnightStraight", Knight, at(2, 1, 0), at(2, 1, 2), false},
		{"KnightBackInTime", Knight, at(2, 1, 0), at(1, 1, 2), true},
		{"KnightTwoTurnsBack", Knight, at(2, 1, 0), at(0, 2, 0), true},
		{"KnightFuture", Knight, at(2, 1, 0), at(5, 1, 1), false},
		{"KnightMissingTimeline", Knight, at(2, 1, 0), At(Whole(1), 2, 1, 2), false},
		{"RookFile", Rook, at(2, 0, 0), at(2, 0, 7), true},
		{"RookThroughTime", Rook, at(2, 0, 0), at(0, 0, 0), true},
		{"RookDiagonal", Rook, at(2, 0, 0), at(2, 1, 1), false},
		{"BishopBoard", Bishop, at(2, 2, 0), at(2, 4, 2), true},
		{"BishopTimeAndFile", Bishop, at(2, 2, 0), at(1, 3, 0), true},
		{"BishopThreeAxes", Bishop, at(2, 2, 0), at(1, 3, 1), false},
		{"UnicornThreeAxes", Unicorn, at(2, 3, 3), at(1, 4, 4), true},
		{"UnicornBoardDiagonal", Unicorn, at(2, 3, 3), at(2, 4, 4), false},
		{"QueenTriagonal", Queen, at(2, 3, 3), at(0, 5, 1), true},
		{"QueenKnightJump", Queen, at(2, 3, 3), at(2, 4, 5), false},
		{"PrincessOrthogonal", Princess, at(2, 3, 3), at(0, 3, 3), true},
		{"PrincessTriagonal", Princess, at(2, 3, 3), at(1, 4, 4), false},
		{"KingTimeDiagonal", King, at(2, 3, 3), at(1, 4, 3), true},
		{"KingTwoSquares", King, at(2, 3, 3), at(2, 5, 3), false},
		{"ConsulKingStep", ConsulKing, at(2, 3, 3), at(2, 4, 4), true},
		{"SameSquare", King, at(2, 3, 3), at(2, 3, 3), false},
		{"OffBoard", Rook, at(2, 0, 0), at(2, 0, 8), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPiece(tt.kind, White)
			put(t, g, tt.from, White, p)
			defer put(t, g, tt.from, White, Blank)
			if got := g.CanMove(p, tt.from, tt.to); got != tt.want {
				t.Errorf("CanMove(%s, %v, %v) = %v, want %v", tt.kind, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanMoveBlocked(t *testing.T) {
	g := NewGame(8, 8)
	grow(g, 5)
	l0 := Whole(0)
	rook := NewPiece(Rook, White)
	put(t, g, At(l0, 2, 0, 0), White, rook)
	put(t, g, At(l0, 2, 0, 3), White, NewPiece(Pawn, White))
	put(t, g, At(l0, 1, 0, 0), White, NewPiece(Knight, Black))

	if g.CanMove(rook, At(l0, 2, 0, 0), At(l0, 2, 0, 7)) {
		t.Errorf("rook should be blocked by its own pawn")
	}
	if g.CanMove(rook, At(l0, 2, 0, 0), At(l0, 2, 0, 3)) {
		t.Errorf("rook should not capture its own pawn")
	}
	if !g.CanMove(rook, At(l0, 2, 0, 0), At(l0, 2, 0, 2)) {
		t.Errorf("rook should reach the square before the pawn")
	}
	if !g.CanMove(rook, At(l0, 2, 0, 0), At(l0, 1, 0, 0)) {
		t.Errorf("rook should capture one turn back")
	}
	if g.CanMove(rook, At(l0, 2, 0, 0), At(l0, 0, 0, 0)) {
		t.Errorf("rook should be blocked by the knight one turn back")
	}
	if g.PathClear(At(l0, 2, 0, 0), At(l0, 2, 1, 2), White) {
		t.Errorf("a knight-shaped offset is never a clear path")
	}
}

func TestCanMoveAcrossTimelines(t *testing.T) {
	g := NewGame(5, 5, Whole(0), Whole(1), Whole(2))
	grow(g, 7)

	// Every destination in the box is reachable iff the offset has the
	// closed-form shape of the piece, since all boards exist and are empty.
	shape := func(k Kind, o offset) bool {
		nonzero, n, equal := 0, 0, true
		for _, v := range [4]int{o.l, o.t, o.x, o.y} {
			if v == 0 {
				continue
			}
			if nonzero > 0 && abs(v) != n {
				equal = false
			}
			nonzero++
			n = abs(v)
		}
		a := o.magnitudes()
		switch k {
		case Knight:
			return a == [4]int{2, 1, 0, 0}
		case Rook:
			return nonzero == 1
		case Bishop:
			return nonzero == 2 && equal
		case Unicorn:
			return nonzero == 3 && equal
		case Dragon:
			return nonzero == 4 && equal
		case Queen:
			return nonzero > 0 && equal
		case Princess:
			return (nonzero == 1 || nonzero == 2) && equal
		case King:
			return nonzero > 0 && a[0] == 1
		}
		return false
	}

	from := At(Whole(1), 2, 2, 2)
	for _, k := range []Kind{Knight, Rook, Bishop, Unicorn, Dragon, Queen, Princess, King} {
		p := NewPiece(k, White)
		put(t, g, from, White, p)
		for l := 0; l <= 2; l++ {
			for turn := 0; turn <= 3; turn++ {
				for x := 0; x < 5; x++ {
					for y := 0; y < 5; y++ {
						to := At(Whole(l), turn, x, y)
						if to == from {
							continue
						}
						want := shape(k, g.offset(from, to))
						if got := g.CanMove(p, from, to); got != want {
							t.Errorf("%s %v -> %v: got %v, want %v", k, from, to, got, want)
						}
					}
				}
			}
		}
		put(t, g, from, White, Blank)
	}
}

func TestCanMoveHalfOffsetTimelines(t *testing.T) {
	g := NewGame(5, 5, HalfNeg, HalfPos)
	grow(g, 3)
	rook := NewPiece(Rook, White)
	put(t, g, At(HalfNeg, 1, 2, 2), White, rook)

	if !g.CanMove(rook, At(HalfNeg, 1, 2, 2), At(HalfPos, 1, 2, 2)) {
		t.Errorf("rook should step from -0 to +0")
	}
	king := NewPiece(King, White)
	put(t, g, At(HalfPos, 1, 0, 0), White, king)
	if !g.CanMove(king, At(HalfPos, 1, 0, 0), At(HalfNeg, 1, 0, 1)) {
		t.Errorf("king should step diagonally from +0 to -0")
	}
}

func TestPawnMoves(t *testing.T) {
	g := NewGame(8, 8)
	grow(g, 5)
	l0 := Whole(0)
	wp, bp := NewPiece(Pawn, White), NewPiece(Pawn, Black)

	put(t, g, At(l0, 2, 4, 1), White, wp)
	put(t, g, At(l0, 2, 3, 2), White, NewPiece(Knight, Black))
	put(t, g, At(l0, 2, 6, 3), White, wp)
	put(t, g, At(l0, 2, 4, 6), Black, bp)

	tests := []struct {
		name string
		p    Piece
		from Coord
		to   Coord
		want bool
	}{
		{"WhiteSingle", wp, At(l0, 2, 4, 1), At(l0, 2, 4, 2), true},
		{"WhiteDouble", wp, At(l0, 2, 4, 1), At(l0, 2, 4, 3), true},
		{"WhiteTriple", wp, At(l0, 2, 4, 1), At(l0, 2, 4, 4), false},
		{"WhiteDoubleOffStartRank", wp, At(l0, 2, 6, 3), At(l0, 2, 6, 5), false},
		{"WhiteCapture", wp, At(l0, 2, 4, 1), At(l0, 2, 3, 2), true},
		{"WhiteDiagonalEmpty", wp, At(l0, 2, 4, 1), At(l0, 2, 5, 2), false},
		{"WhiteBackward", wp, At(l0, 2, 6, 3), At(l0, 2, 6, 2), false},
		{"WhiteThroughTime", wp, At(l0, 2, 4, 1), At(l0, 1, 4, 1), false},
		{"BlackSingle", bp, At(l0, 2, 4, 6), At(l0, 2, 4, 5), true},
		{"BlackDouble", bp, At(l0, 2, 4, 6), At(l0, 2, 4, 4), true},
		{"BlackForwardIsDown", bp, At(l0, 2, 4, 6), At(l0, 2, 4, 7), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.CanMove(tt.p, tt.from, tt.to); got != tt.want {
				t.Errorf("CanMove(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}

	t.Run("BlockedDouble", func(t *testing.T) {
		put(t, g, At(l0, 2, 4, 2), White, NewPiece(Rook, Black))
		defer put(t, g, At(l0, 2, 4, 2), White, Blank)
		if g.CanMove(wp, At(l0, 2, 4, 1), At(l0, 2, 4, 3)) {
			t.Errorf("double step should be blocked")
		}
		if g.CanMove(wp, At(l0, 2, 4, 1), At(l0, 2, 4, 2)) {
			t.Errorf("pawn should not capture straight ahead")
		}
	})
}

func TestBrawnCapture(t *testing.T) {
	g := NewGame(5, 5, Whole(0), Whole(1))
	grow(g, 5)
	brawn := NewPiece(Brawn, White)
	from := At(Whole(0), 2, 2, 1)
	put(t, g, from, White, brawn)
	put(t, g, At(Whole(1), 2, 2, 2), White, NewPiece(Knight, Black))
	put(t, g, At(Whole(0), 1, 2, 2), White, NewPiece(Knight, Black))

	if !g.CanMove(brawn, from, At(Whole(1), 2, 2, 2)) {
		t.Errorf("brawn should capture forward across timelines")
	}
	if !g.CanMove(brawn, from, At(Whole(0), 1, 2, 2)) {
		t.Errorf("brawn should capture forward across time")
	}
	if g.CanMove(NewPiece(Pawn, White), from, At(Whole(1), 2, 2, 2)) {
		t.Errorf("pawn should not capture across timelines")
	}
	if g.CanMove(brawn, from, At(Whole(1), 2, 2, 3)) {
		t.Errorf("brawn should not move two ranks across timelines")
	}
	if !g.CanMove(brawn, from, At(Whole(0), 2, 2, 2)) {
		t.Errorf("brawn should still advance like a pawn")
	}
}

func TestEnPassant(t *testing.T) {
	g := newTestGame(t, 8, 8, "k7/3p4/8/4P3/8/8/8/K7")
	l0 := Whole(0)
	wk, bp, wp := NewPiece(King, White), NewPiece(Pawn, Black), NewPiece(Pawn, White)

	mustPlay(t, g, MoveRequest{Piece: wk, From: At(l0, 0, 0, 0), To: At(l0, 0, 0, 1)})
	mustPlay(t, g, MoveRequest{Piece: bp, From: At(l0, 0, 3, 6), To: At(l0, 0, 3, 4)})

	from, to := At(l0, 1, 4, 4), At(l0, 1, 3, 5)
	if !g.IsEnPassant(wp, from, to) {
		t.Fatalf("exd6 should be en passant")
	}
	if g.IsEnPassant(wp, from, At(l0, 1, 5, 5)) {
		t.Errorf("exf6 should not be en passant")
	}
	if !g.CanMove(wp, from, to) {
		t.Fatalf("exd6 should be legal")
	}

	m := mustPlay(t, g, MoveRequest{Piece: wp, From: At(l0, 1, Omitted, Omitted), To: to, Turn: 1})
	if !m.EnPassant || m.Captured != bp {
		t.Errorf("move should record an en passant capture, got %+v", m)
	}
	b := g.Timeline(l0).Present()
	if b.At(3, 4) != Blank {
		t.Errorf("captured pawn should be removed")
	}
	if b.At(3, 5) != wp || b.At(4, 4) != Blank {
		t.Errorf("white pawn should stand on d6")
	}
}
