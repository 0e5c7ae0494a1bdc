package notation

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/chessplay5d/internal/board"
)

// Codec reads and writes one move-text format.
type Codec interface {
	Name() string
	Decode(raw string) (*board.Game, error)
	Encode(g *board.Game) (string, error)
}

// Well-known tag names.
const (
	TagBoard              = "Board"
	TagSize               = "Size"
	TagInitialMultiverses = "InitialMultiverses"
	TagFEN                = "FEN"
	TagMode               = "Mode"
)

// DefaultBoard is used when a document names no board.
const DefaultBoard = "Standard"

// Options controls Load.
type Options struct {
	Mode ErrorMode
	// Board is used when the tags name none.
	Board string
	// Log receives debug output from the replay. Nil disables it.
	Log *zap.SugaredLogger
}

// NewGame builds the starting position described by tags. A Board tag
// naming a known variant wins; otherwise Size, InitialMultiverses and FEN
// describe a custom setup. fallback is used when there is no Board tag.
func NewGame(tags *board.Tags, fallback string) (*board.Game, error) {
	name, ok := tags.Get(TagBoard)
	if !ok || strings.TrimSpace(name) == "" {
		name = fallback
	}
	if name == "" {
		name = DefaultBoard
	}
	if v, ok := board.LookupVariant(name); ok {
		return v.NewGame()
	}

	fen, hasFEN := tags.Get(TagFEN)
	if !hasFEN && !strings.EqualFold(name, "custom") {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBoard, name)
	}

	size, ok := tags.Get(TagSize)
	if !ok {
		size = "8x8"
	}
	w, h, err := board.ParseSize(size)
	if err != nil {
		return nil, &SyntaxError{Near: size, Msg: "Size tag", Err: err}
	}
	multiverses, ok := tags.Get(TagInitialMultiverses)
	if !ok {
		multiverses = "0"
	}
	idx, err := board.ParseTimelineList(multiverses)
	if err != nil {
		return nil, err
	}
	g, err := board.NewSizedGame(w, h, idx...)
	if err != nil {
		return nil, err
	}
	if hasFEN {
		if err := g.SeedFEN(fen); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Load builds a game from the tag tokens in tokens and replays the rest.
// In Collect mode the game is returned together with the joined failures.
func Load(tokens []Token, opts Options) (*board.Game, error) {
	tags := board.NewTags()
	for _, tok := range tokens {
		if tok.Kind == TagToken {
			tags.Set(tok.Name, tok.Value)
		}
	}
	if _, ok := tags.Get(TagBoard); !ok {
		name := opts.Board
		if name == "" {
			name = DefaultBoard
		}
		if _, known := board.LookupVariant(name); known {
			tags.Set(TagBoard, name)
		}
	}
	g, err := NewGame(tags, opts.Board)
	if err != nil {
		return nil, err
	}
	g.Tags = tags

	r := NewReplayer(g, opts.Mode)
	r.SetLogger(opts.Log)
	if err := r.Replay(tokens); err != nil {
		if opts.Mode == FailFast {
			return nil, err
		}
		return g, err
	}
	return g, nil
}

// SetupTags copies g's tags and, unless they name a known variant, adds the
// Board, Size, InitialMultiverses and FEN tags needed to rebuild the
// starting position.
func SetupTags(g *board.Game) *board.Tags {
	out := board.NewTags()
	for _, k := range g.Tags.Keys() {
		v, _ := g.Tags.Get(k)
		out.Set(k, v)
	}
	if name, ok := out.Get(TagBoard); ok {
		if _, known := board.LookupVariant(name); known {
			return out
		}
	} else {
		out.Set(TagBoard, "Custom")
	}

	initial := g.InitialTimelines()
	idx := make([]string, len(initial))
	fens := make([]string, len(initial))
	for i, l := range initial {
		idx[i] = l.String()
		tl := g.Timeline(l)
		fens[i] = tl.Board(tl.BeginsAt).FEN()
	}
	out.Set(TagSize, fmt.Sprintf("%dx%d", g.Width, g.Height))
	out.Set(TagInitialMultiverses, strings.Join(idx, " "))
	if _, ok := out.Get(TagFEN); !ok {
		out.Set(TagFEN, strings.Join(fens, " "))
	}
	return out
}
