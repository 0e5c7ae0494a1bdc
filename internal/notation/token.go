// Package notation holds what the move-text formats have in common: the
// token stream they decode into and the Replayer that folds tokens into a
// board.Game.
package notation

import (
	"github.com/hailam/chessplay5d/internal/board"
)

// TokenKind identifies a token produced by a format's tokenizer.
type TokenKind uint8

const (
	TagToken TokenKind = iota
	TurnToken
	PlayerToken
	MoveToken
	CommentToken
	AnnotationToken
	ResultToken
	TimelineToken
	PresentToken
)

var tokenNames = [...]string{
	"Tag", "Turn", "PlayerSeparator", "Move", "Comment", "Annotation", "Result", "Timeline", "Present",
}

// String returns the token kind name.
func (k TokenKind) String() string {
	if int(k) >= len(tokenNames) {
		return "Unknown"
	}
	return tokenNames[k]
}

// Token is one unit of move text.
type Token struct {
	Kind TokenKind

	// Name and Value carry tags. Value also holds comment text, annotation
	// glyphs and results.
	Name  string
	Value string

	// Turn is the zero-based turn of a TurnToken, or board.Omitted.
	Turn int
	// Color is the side a TurnToken hands the move to. NoColor means White.
	// A PlayerToken always hands the move to Black.
	Color board.Color
	// Present is the zero-based present turn of a PresentToken or of a turn
	// prefix that spells it out, or board.Omitted.
	Present int
	// L is the timeline a TimelineToken names.
	L board.TimelineIndex

	Move *MoveIntent
	Raw  string
}

// Target is a possibly partial square reference. L is only meaningful when
// HasL is set; T, X and Y use board.Omitted for missing components.
type Target struct {
	L    board.TimelineIndex
	HasL bool
	T    int
	X    int
	Y    int
}

// Unset returns a target with every component omitted.
func Unset() Target {
	return Target{T: board.Omitted, X: board.Omitted, Y: board.Omitted}
}

// Timeline returns t with the timeline set.
func (t Target) Timeline(l board.TimelineIndex) Target {
	t.L, t.HasL = l, true
	return t
}

// MoveIntent is a move as written, before defaults are filled in.
type MoveIntent struct {
	// Kind is the moving piece. NoKind takes whatever stands on a fully
	// specified source square.
	Kind board.Kind
	From Target
	To   Target

	Castle bool
	Long   bool

	// Promotion is NoKind unless the text asked for one.
	Promotion board.Kind

	Capture bool
	Jump    bool
	Branch  bool
	// NewTimeline is the timeline index the text claims the move creates.
	NewTimeline *board.TimelineIndex
	EnPassant   bool

	board.Annotations
	MovesPresent bool

	Raw string
}

// NewMoveIntent returns an intent for kind with both squares unset.
func NewMoveIntent(kind board.Kind) *MoveIntent {
	return &MoveIntent{Kind: kind, From: Unset(), To: Unset(), Promotion: board.NoKind}
}
