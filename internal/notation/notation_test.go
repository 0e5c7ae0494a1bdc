package notation

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hailam/chessplay5d/internal/board"
)

func tagsOf(kv ...string) *board.Tags {
	t := board.NewTags()
	for i := 0; i+1 < len(kv); i += 2 {
		t.Set(kv[i], kv[i+1])
	}
	return t
}

func pawnMove(fromX, toX, toY int) *MoveIntent {
	mi := NewMoveIntent(board.Pawn)
	mi.From.X = fromX
	mi.To.X, mi.To.Y = toX, toY
	return mi
}

func TestNewGame(t *testing.T) {
	tests := []struct {
		name      string
		tags      *board.Tags
		fallback  string
		timelines int
		width     int
		wantErr   error
	}{
		{"DefaultsToStandard", tagsOf(), "", 1, 8, nil},
		{"NamedVariant", tagsOf(TagBoard, "misc - timeline invasion"), "", 2, 5, nil},
		{"Fallback", tagsOf(), "Focused - Just Kings", 1, 3, nil},
		{"CustomFEN", tagsOf(TagBoard, "Custom", TagSize, "4x4", TagInitialMultiverses, "-1 0 1", TagFEN, "k3/4/4/3K k3/4/4/3K k3/4/4/3K"), "", 3, 4, nil},
		{"CustomEmpty", tagsOf(TagBoard, "custom"), "", 1, 8, nil},
		{"Unknown", tagsOf(TagBoard, "Hexagonal"), "", 0, 0, ErrUnknownBoard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGame(tt.tags, tt.fallback)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewGame failed: %v", err)
			}
			if len(g.Timelines()) != tt.timelines || g.Width != tt.width {
				t.Errorf("got %d timelines of width %d, want %d of width %d",
					len(g.Timelines()), g.Width, tt.timelines, tt.width)
			}
		})
	}

	if _, err := NewGame(tagsOf(TagBoard, "Custom", TagSize, "eight"), ""); err == nil {
		t.Errorf("bad size should fail")
	}
	if _, err := NewGame(tagsOf(TagBoard, "Custom", TagFEN, "8/8"), ""); err == nil {
		t.Errorf("bad FEN should fail")
	}
}

func TestReplayerDefaults(t *testing.T) {
	v, _ := board.LookupVariant("MISC - TIMELINE BATTLEGROUNDS")
	g, err := v.NewGame()
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	r := NewReplayer(g, FailFast)

	// White without a timeline plays on its lowest active timeline.
	m, err := r.Play(pawnMove(0, 0, 1))
	if err != nil {
		t.Fatalf("white pawn move failed: %v", err)
	}
	if m.From.L != board.Whole(-1) || m.From.T != 0 {
		t.Errorf("white defaulted to %v, want timeline -1 turn 0", m.From)
	}

	explicit := pawnMove(0, 0, 3)
	explicit.From = explicit.From.Timeline(board.Whole(1))
	if _, err := r.Play(explicit); err != nil {
		t.Fatalf("explicit white move failed: %v", err)
	}

	if err := r.Apply(Token{Kind: PlayerToken}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if r.Color() != board.Black {
		t.Fatalf("separator should hand the move to Black")
	}
	// Black plays on its highest active timeline.
	m, err = r.Play(pawnMove(1, 1, 3))
	if err != nil {
		t.Fatalf("black pawn move failed: %v", err)
	}
	if m.From.L != board.Whole(1) {
		t.Errorf("black defaulted to timeline %s, want 1", m.From.L)
	}

	if err := r.Apply(Token{Kind: TurnToken, Turn: 4, Color: board.NoColor}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if r.Color() != board.White || r.Turn() != 4 {
		t.Errorf("turn token should reset to White on turn 4, got %s %d", r.Color(), r.Turn())
	}
}

func TestReplayerTakesPieceFromSource(t *testing.T) {
	g, _ := board.Variants["STANDARD"].NewGame()
	r := NewReplayer(g, FailFast)

	mi := NewMoveIntent(board.NoKind)
	mi.From.X, mi.From.Y = 6, 0
	mi.To.X, mi.To.Y = 5, 2
	m, err := r.Play(mi)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if m.Piece != board.NewPiece(board.Knight, board.White) {
		t.Errorf("moved %v, want the white knight", m.Piece)
	}

	r.Apply(Token{Kind: PlayerToken})
	empty := NewMoveIntent(board.NoKind)
	empty.From.X, empty.From.Y = 4, 4
	empty.To.X, empty.To.Y = 4, 3
	if _, err := r.Play(empty); !errors.Is(err, board.ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate for an empty source, got %v", err)
	}

	partial := NewMoveIntent(board.NoKind)
	partial.From.X = 4
	partial.To.X, partial.To.Y = 4, 4
	if _, err := r.Play(partial); !errors.Is(err, ErrSourceRequired) {
		t.Errorf("expected ErrSourceRequired, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	tokens := []Token{
		{Kind: TagToken, Name: "White", Value: "Ada"},
		{Kind: TurnToken, Turn: 0},
		{Kind: MoveToken, Move: pawnMove(4, 4, 3), Raw: "e4"},
		{Kind: CommentToken, Value: "open"},
		{Kind: PlayerToken},
		{Kind: MoveToken, Move: pawnMove(4, 4, 4), Raw: "e5"},
		{Kind: ResultToken, Value: "1/2-1/2"},
	}
	g, err := Load(tokens, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := g.Tags.Get("White"); v != "Ada" {
		t.Errorf("tag lost")
	}
	if v, _ := g.Tags.Get(TagBoard); v != DefaultBoard {
		t.Errorf("Board tag = %q, want %q", v, DefaultBoard)
	}
	moves := g.Moves()
	if len(moves) != 2 || len(moves[0].Comments) != 1 || moves[1].Comments[0] != "1/2-1/2" {
		t.Errorf("comments attached wrong: %+v", moves)
	}

	// e5 is blocked once e4 and e5 are both occupied.
	tokens = append(tokens, Token{Kind: TurnToken, Turn: 1}, Token{Kind: MoveToken, Move: pawnMove(4, 4, 4), Raw: "e5"})
	if _, err := Load(tokens, Options{}); !errors.Is(err, board.ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}
	g, err = Load(tokens, Options{Mode: Collect})
	if g == nil || err == nil {
		t.Fatalf("Collect mode should return the game and the failure")
	}
	var ae *ApplyError
	if !errors.As(err, &ae) || ae.Index != 8 {
		t.Errorf("failure should name token 8, got %v", err)
	}
}

func TestSetupTags(t *testing.T) {
	g, _ := board.Variants["STANDARD"].NewGame()
	g.Tags.Set(TagBoard, "Standard")
	if tags := SetupTags(g); tags.Len() != 1 {
		t.Errorf("a known variant needs no extra tags, got %v", tags.Keys())
	}

	g = board.NewGame(4, 4, board.HalfNeg, board.HalfPos)
	if err := g.SeedFEN("k3/4/4/3K 4/4/4/K3"); err != nil {
		t.Fatalf("SeedFEN failed: %v", err)
	}
	tags := SetupTags(g)
	want := map[string]string{
		TagBoard:              "Custom",
		TagSize:               "4x4",
		TagInitialMultiverses: "-0 +0",
		TagFEN:                "k3/4/4/3K 4/4/4/K3",
	}
	for k, v := range want {
		if got, _ := tags.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	rebuilt, err := NewGame(tags, "")
	if err != nil {
		t.Fatalf("NewGame from setup tags failed: %v", err)
	}
	if !rebuilt.Timeline(board.HalfPos).Present().Equal(g.Timeline(board.HalfPos).Present()) {
		t.Errorf("rebuilt board differs")
	}
}

func TestParseErrorMode(t *testing.T) {
	if m, err := ParseErrorMode("Collect"); err != nil || m != Collect {
		t.Errorf("ParseErrorMode(Collect) = %v, %v", m, err)
	}
	if m, err := ParseErrorMode(""); err != nil || m != FailFast {
		t.Errorf("ParseErrorMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseErrorMode("sometimes"); err == nil {
		t.Errorf("ParseErrorMode should reject unknown modes")
	}
}

func TestPresentTokenMarksLastMove(t *testing.T) {
	g, _ := board.Variants["STANDARD"].NewGame()
	r := NewReplayer(g, FailFast)

	// Nothing to mark yet.
	if err := r.Apply(Token{Kind: PresentToken, Present: 0}); err != nil {
		t.Fatalf("leading present token failed: %v", err)
	}
	if err := r.Apply(Token{Kind: MoveToken, Move: pawnMove(4, 4, 3), Raw: "e4"}); err != nil {
		t.Fatalf("e4 failed: %v", err)
	}
	if g.Moves()[0].MovesPresent {
		t.Fatalf("e4 should not move the present on its own")
	}
	if err := r.Apply(Token{Kind: PresentToken, Present: 1}); err != nil {
		t.Fatalf("present token failed: %v", err)
	}
	if !g.Moves()[0].MovesPresent {
		t.Errorf("present token should mark e4 as moving the present")
	}
}

func TestReplayerLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	g, _ := board.Variants["STANDARD"].NewGame()
	r := NewReplayer(g, Collect)
	r.SetLogger(zap.New(core).Sugar())

	r.Apply(Token{Kind: MoveToken, Move: pawnMove(4, 4, 3), Raw: "e4"})
	r.Apply(Token{Kind: MoveToken, Move: pawnMove(3, 3, 5), Raw: "d6"})

	if n := logs.FilterMessage("move applied").Len(); n != 1 {
		t.Errorf("got %d applied entries, want 1", n)
	}
	rejected := logs.FilterMessage("token rejected").All()
	if len(rejected) != 1 || rejected[0].ContextMap()["raw"] != "d6" {
		t.Errorf("rejected entries = %+v", rejected)
	}
}
