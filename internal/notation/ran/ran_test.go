package ran

import (
	"errors"
	"testing"

	"github.com/hailam/chessplay5d/internal/board"
	"github.com/hailam/chessplay5d/internal/notation"
)

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("1. L0T1 Pe2 L0T1 e4 .. L0T1 Pe7 L0T1 e5. 2T2. -; L0T2 Ng1 L0T2 f3.")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	want := []struct {
		kind  notation.TokenKind
		color board.Color
	}{
		{notation.TurnToken, board.White},
		{notation.MoveToken, board.White},
		{notation.PlayerToken, board.Black},
		{notation.MoveToken, board.White},
		{notation.TurnToken, board.White},
		{notation.MoveToken, board.White},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Kind != w.kind {
			t.Errorf("token %d = %s, want %s", i, tokens[i].Kind, w.kind)
		}
		if w.kind != notation.MoveToken && tokens[i].Color != w.color {
			t.Errorf("token %d hands the move to %s, want %s", i, tokens[i].Color, w.color)
		}
	}
	if tokens[4].Turn != 1 || tokens[4].Present != 1 {
		t.Errorf("second turn prefix = turn %d present %d", tokens[4].Turn, tokens[4].Present)
	}

	bad := []string{"b1. .. L0T1 Pe7 L0T1 e5.", "w1. L0T1 Pe2 L0T1 e4", "w1. L0T1 Pe2 L0T1 @e4."}
	for _, in := range bad {
		if _, err := Tokenize(in); !errors.Is(err, notation.ErrSyntax) {
			t.Errorf("Tokenize(%q) error = %v, want syntax error", in, err)
		}
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in    string
		check func(t *testing.T, mi *notation.MoveIntent)
	}{
		{"L-1T3 Qd1 x L0T2 d3+", func(t *testing.T, mi *notation.MoveIntent) {
			if mi.Kind != board.Queen || !mi.Capture || !mi.Check {
				t.Errorf("flags = %+v", mi)
			}
			if mi.From.L != board.Whole(-1) || mi.From.T != 2 || mi.From.X != 3 || mi.From.Y != 0 {
				t.Errorf("from = %+v", mi.From)
			}
			if !mi.To.HasL || mi.To.L != board.Whole(0) || mi.To.T != 1 || mi.To.X != 3 || mi.To.Y != 2 {
				t.Errorf("to = %+v", mi.To)
			}
		}},
		{"L+0T1 Rh1 L-0 h3", func(t *testing.T, mi *notation.MoveIntent) {
			if mi.To.L != board.HalfNeg || mi.To.T != 0 {
				t.Errorf("destination turn should follow the source: %+v", mi.To)
			}
		}},
		{"Nf3", func(t *testing.T, mi *notation.MoveIntent) {
			if mi.From.HasL || mi.From.X != board.Omitted || mi.To.X != 5 || mi.To.Y != 2 {
				t.Errorf("intent = %+v", mi)
			}
		}},
		{"L0T7 Pe7 L0T7 e8=Q#", func(t *testing.T, mi *notation.MoveIntent) {
			if mi.Promotion != board.Queen || !mi.Checkmate {
				t.Errorf("intent = %+v", mi)
			}
		}},
		{"L0T1 O-O-O", func(t *testing.T, mi *notation.MoveIntent) {
			if !mi.Castle || !mi.Long || mi.From.L != board.Whole(0) || mi.From.T != 0 {
				t.Errorf("castle = %+v", mi)
			}
		}},
		{"L0T2 Ng1 L0T1 g3 (+L+1 p)", func(t *testing.T, mi *notation.MoveIntent) {
			if !mi.Branch || mi.NewTimeline == nil || *mi.NewTimeline != board.Whole(1) || !mi.MovesPresent {
				t.Errorf("branch = %+v", mi)
			}
		}},
		{"L0T1 e4", func(t *testing.T, mi *notation.MoveIntent) {
			if mi.Kind != board.Pawn || mi.From.L != board.Whole(0) || mi.To.HasL {
				t.Errorf("pawn move = %+v", mi)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			mi, err := ParseMove(tt.in)
			if err != nil {
				t.Fatalf("ParseMove(%q) failed: %v", tt.in, err)
			}
			tt.check(t, mi)
		})
	}

	for _, in := range []string{"L0T1 Pe2 L0T1 e", "L0T1 Nb1 c3 d5 e7", "L0T1"} {
		if _, err := ParseMove(in); err == nil {
			t.Errorf("ParseMove(%q) should fail", in)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	const raw = `w1. L0T1 Pe2 L0T1 e4.
b1. L0T1 Pe7 L0T1 e5.
w2. L0T2 Ng1 L0T1 g3 (+L+1 p).
`
	g, err := Codec{}.Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(g.Timelines()) != 2 {
		t.Fatalf("got %d timelines, want 2", len(g.Timelines()))
	}
	if v, _ := g.Tags.Get(notation.TagBoard); v != notation.DefaultBoard {
		t.Errorf("Board tag = %q", v)
	}
	if got := Write(g); got != raw {
		t.Errorf("Write() =\n%s\nwant\n%s", got, raw)
	}
}

func TestDecodeWithBoard(t *testing.T) {
	g, err := Codec{Board: "MISC - TIMELINE INVASION"}.Decode("w1. L-0T1 Pb1 L-0T1 b2; L+0T1 Pb2 L+0T1 b3.")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for _, l := range []board.TimelineIndex{board.HalfNeg, board.HalfPos} {
		if g.LastPly(l) != 1 {
			t.Errorf("timeline %s should have advanced one ply", l)
		}
	}
	if _, err := (Codec{Board: "nowhere"}).Decode("w1. L0T1 Pe2 L0T1 e4."); !errors.Is(err, notation.ErrUnknownBoard) {
		t.Errorf("expected ErrUnknownBoard, got %v", err)
	}
}
