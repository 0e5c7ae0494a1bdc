package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors returned by move resolution and execution. Detailed errors wrap or
// match one of these, so callers can use errors.Is.
var (
	ErrInvalidBoardReference = errors.New("no board at the referenced timeline and ply")
	ErrNoCandidate           = errors.New("no piece can make this move")
	ErrAmbiguousSource       = errors.New("more than one piece can make this move")
	ErrIllegalGeometry       = errors.New("piece cannot move that way")
	ErrPawnPromotionRequired = errors.New("pawn reaching the last rank must promote")
	ErrNoKingOrRookForCastle = errors.New("no unmoved king and rook to castle with")
	ErrAmbiguousCastleKing   = errors.New("more than one unmoved king can castle")
	ErrNotPlayable           = errors.New("board is not the present of its timeline")
	ErrUnsupportedPiece      = errors.New("piece is not part of this ruleset")
	ErrInvalidPromotion      = errors.New("invalid promotion piece")
	ErrInvalidFEN            = errors.New("invalid FEN")
	ErrInvalidSize           = errors.New("invalid board size")
)

// NoCandidateError reports that no piece of the given kind can reach To.
type NoCandidateError struct {
	Piece Piece
	From  Coord
	To    Coord
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("%v: %s %s to %s", ErrNoCandidate, e.Piece.Color(), e.Piece.Kind(), e.To)
}

func (e *NoCandidateError) Is(target error) bool { return target == ErrNoCandidate }

// AmbiguousSourceError lists every square a partially specified move could
// have started from.
type AmbiguousSourceError struct {
	Piece      Piece
	To         Coord
	Candidates []Coord
}

func (e *AmbiguousSourceError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = SquareName(c.X, c.Y)
	}
	return fmt.Sprintf("%v: %s %s to %s from one of %s",
		ErrAmbiguousSource, e.Piece.Color(), e.Piece.Kind(), e.To, strings.Join(names, ", "))
}

func (e *AmbiguousSourceError) Is(target error) bool { return target == ErrAmbiguousSource }

// AmbiguousCastleKingError lists the kings that survived the ancestry check.
type AmbiguousCastleKingError struct {
	Kings []Square
}

func (e *AmbiguousCastleKingError) Error() string {
	names := make([]string, len(e.Kings))
	for i, s := range e.Kings {
		names[i] = SquareName(s.X, s.Y)
	}
	return fmt.Sprintf("%v: %s", ErrAmbiguousCastleKing, strings.Join(names, ", "))
}

func (e *AmbiguousCastleKingError) Is(target error) bool { return target == ErrAmbiguousCastleKing }

func itoa(n int) string {
	return strconv.Itoa(n)
}
