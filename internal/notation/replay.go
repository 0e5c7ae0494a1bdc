package notation

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/chessplay5d/internal/board"
)

// ErrorMode selects how a Replayer reacts to a token that fails.
type ErrorMode uint8

const (
	// FailFast stops at the first failing token.
	FailFast ErrorMode = iota
	// Collect skips failing tokens and reports all of them at the end.
	Collect
)

// ParseErrorMode reads "failfast" or "collect".
func ParseErrorMode(s string) (ErrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "failfast", "fail-fast":
		return FailFast, nil
	case "collect":
		return Collect, nil
	}
	return FailFast, fmt.Errorf("unknown error mode %q", s)
}

// Replayer folds tokens into a game. The side to move and the turn counter
// are explicit state driven only by turn and separator tokens.
type Replayer struct {
	game  *board.Game
	mode  ErrorMode
	color board.Color
	turn  int
	index int
	errs  []error
	log   *zap.SugaredLogger
}

// NewReplayer starts a replay on g with White to move on turn 0.
func NewReplayer(g *board.Game, mode ErrorMode) *Replayer {
	return &Replayer{game: g, mode: mode, color: board.White, log: zap.NewNop().Sugar()}
}

// SetLogger makes the replayer log every applied move and every failure at
// debug level. A nil logger turns logging off.
func (r *Replayer) SetLogger(log *zap.SugaredLogger) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r.log = log
}

// Game returns the game being built.
func (r *Replayer) Game() *board.Game { return r.game }

// Color returns the side that plays the next move token.
func (r *Replayer) Color() board.Color { return r.color }

// Turn returns the current zero-based turn.
func (r *Replayer) Turn() int { return r.turn }

// Apply consumes one token. In FailFast mode the returned error is an
// *ApplyError; in Collect mode failures are recorded and nil is returned.
func (r *Replayer) Apply(tok Token) error {
	i := r.index
	r.index++
	if err := r.apply(tok); err != nil {
		ae := &ApplyError{Index: i, Raw: tok.Raw, Err: err}
		r.log.Debugw("token rejected", "index", i, "raw", tok.Raw, "error", err)
		if r.mode == FailFast {
			return ae
		}
		r.errs = append(r.errs, ae)
	}
	return nil
}

// Replay applies every token in order.
func (r *Replayer) Replay(tokens []Token) error {
	for _, tok := range tokens {
		if err := r.Apply(tok); err != nil {
			return err
		}
	}
	return r.Err()
}

// Err joins every failure recorded in Collect mode.
func (r *Replayer) Err() error {
	return errors.Join(r.errs...)
}

func (r *Replayer) apply(tok Token) error {
	g := r.game
	switch tok.Kind {
	case TagToken:
		g.Tags.Set(tok.Name, tok.Value)
	case TurnToken:
		r.color = board.White
		if tok.Color != board.NoColor {
			r.color = tok.Color
		}
		if tok.Turn != board.Omitted {
			r.turn = tok.Turn
		}
	case PlayerToken:
		r.color = board.Black
	case MoveToken:
		if tok.Move == nil {
			return fmt.Errorf("%w: empty move", ErrSyntax)
		}
		m, err := r.Play(tok.Move)
		if err != nil {
			return err
		}
		r.log.Debugw("move applied", "index", r.index-1, "move", m.String(), "color", r.color.String(), "turn", r.turn)
	case CommentToken, ResultToken:
		g.AppendComment(tok.Value)
	case PresentToken:
		// A present marker after a move records the shift it caused.
		g.Annotate(board.Annotations{}, true)
	case AnnotationToken, TimelineToken:
		// Informational only.
	default:
		return fmt.Errorf("%w: unexpected %s token", ErrSyntax, tok.Kind)
	}
	return nil
}

// Play executes mi for the side to move, filling omitted coordinates: a
// missing source timeline is the mover's lowest active timeline for White
// and highest for Black, a missing turn is the last turn of that timeline,
// and a missing destination timeline or turn repeats the source's.
func (r *Replayer) Play(mi *MoveIntent) (board.Move, error) {
	g, color := r.game, r.color
	from := r.source(mi.From)

	if mi.Castle {
		return g.Castle(board.CastleRequest{
			Color:       color,
			L:           from.L,
			T:           from.T,
			Long:        mi.Long,
			Turn:        r.turn,
			Annotations: mi.Annotations,
		})
	}

	to := board.At(from.L, from.T, mi.To.X, mi.To.Y)
	if mi.To.HasL {
		to.L = mi.To.L
	}
	if mi.To.T != board.Omitted {
		to.T = mi.To.T
	}

	var p board.Piece
	if mi.Kind == board.NoKind {
		if from.Partial() {
			return board.Move{}, ErrSourceRequired
		}
		b := g.BoardAs(from.L, from.T, color)
		if b == nil {
			return board.Move{}, board.ErrInvalidBoardReference
		}
		p = b.At(from.X, from.Y)
		if p.Color() != color {
			return board.Move{}, fmt.Errorf("%w: no %s piece on %s", board.ErrNoCandidate, color, from)
		}
	} else {
		p = board.NewPiece(mi.Kind, color)
	}

	promo := board.Blank
	if mi.Promotion != board.NoKind {
		promo = board.NewPiece(mi.Promotion, color)
	}

	return g.Play(board.MoveRequest{
		Piece:        p,
		From:         from,
		To:           to,
		Promotion:    promo,
		Turn:         r.turn,
		Annotations:  mi.Annotations,
		MovesPresent: mi.MovesPresent,
	})
}

func (r *Replayer) source(t Target) board.Coord {
	g := r.game
	c := board.Coord{T: t.T, X: t.X, Y: t.Y}
	switch {
	case t.HasL:
		c.L = t.L
	case r.color == board.White:
		c.L, _ = g.LowestActiveTimeline(board.White)
	default:
		c.L, _ = g.HighestActiveTimeline(board.Black)
	}
	if c.T == board.Omitted {
		c.T = g.LastTurnIn(c.L)
	}
	return c
}
