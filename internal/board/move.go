package board

import "strings"

// MoveKind classifies an entry of a timeline's move log.
type MoveKind uint8

const (
	// MoveOnBoard starts and ends on the same board.
	MoveOnBoard MoveKind = iota
	// JumpOut is the departure half of a move between boards.
	JumpOut
	// JumpIn is the arrival half of a move between boards.
	JumpIn
	// CastleShortMove castles toward the higher files.
	CastleShortMove
	// CastleLongMove castles toward the lower files.
	CastleLongMove
)

// String returns the move kind name.
func (k MoveKind) String() string {
	switch k {
	case MoveOnBoard:
		return "Move"
	case JumpOut:
		return "JumpOut"
	case JumpIn:
		return "JumpIn"
	case CastleShortMove:
		return "CastleShort"
	case CastleLongMove:
		return "CastleLong"
	default:
		return "Unknown"
	}
}

// CastleSide records whether, and how, a move castled.
type CastleSide uint8

const (
	NoCastle CastleSide = iota
	CastleShort
	CastleLong
)

// Annotations are flags a notation attaches to a move. The engine stores
// them as given; it never computes check or mate.
type Annotations struct {
	Check     bool `json:"check,omitempty"`
	Checkmate bool `json:"checkmate,omitempty"`
	Softmate  bool `json:"softmate,omitempty"`
	Stalemate bool `json:"stalemate,omitempty"`
}

// Merge returns the union of both flag sets.
func (a Annotations) Merge(o Annotations) Annotations {
	return Annotations{
		Check:     a.Check || o.Check,
		Checkmate: a.Checkmate || o.Checkmate,
		Softmate:  a.Softmate || o.Softmate,
		Stalemate: a.Stalemate || o.Stalemate,
	}
}

// Move is an entry of the game's global move log.
type Move struct {
	From     Coord
	To       Coord
	Piece    Piece
	Captured Piece
	Color    Color
	Turn     int

	// Promotion is Blank unless a pawn promoted.
	Promotion Piece
	Annotations
	Castle CastleSide

	// NewTimeline is set when the move spawned a timeline.
	NewTimeline  *TimelineIndex
	MovesPresent bool
	EnPassant    bool

	// Comments holds free text a notation attached after the move.
	Comments []string
}

// IsCapture reports whether the move took a piece.
func (m *Move) IsCapture() bool {
	return m.Captured != Blank
}

// IsJump reports whether the move left its source board.
func (m *Move) IsJump() bool {
	return m.Castle == NoCastle && !m.From.SameBoard(m.To)
}

// String returns a compact human readable form, e.g. "N(0T2)g1→(0T1)g3".
func (m *Move) String() string {
	var sb strings.Builder
	switch m.Castle {
	case CastleShort:
		sb.WriteString("(" + m.From.L.String() + "T")
		sb.WriteString(itoa(m.From.T + 1))
		sb.WriteString(")O-O")
		return sb.String()
	case CastleLong:
		sb.WriteString("(" + m.From.L.String() + "T")
		sb.WriteString(itoa(m.From.T + 1))
		sb.WriteString(")O-O-O")
		return sb.String()
	}
	sb.WriteString(m.Piece.Kind().Letter())
	sb.WriteString(m.From.String())
	if m.IsJump() {
		sb.WriteString("→")
	} else {
		sb.WriteString("-")
	}
	if m.IsCapture() {
		sb.WriteString("x")
	}
	sb.WriteString(m.To.String())
	return sb.String()
}

// SubMove is an entry of a single timeline's move log.
type SubMove struct {
	Kind     MoveKind
	Piece    Piece
	Captured Piece
	Color    Color
	From     Coord
	To       Coord
}

// MoveRequest describes a move to execute. The moving color is the color of
// Piece. From may be partial (X or Y Omitted); To must be complete.
type MoveRequest struct {
	Piece     Piece
	From      Coord
	To        Coord
	Promotion Piece
	Turn      int
	Annotations

	// MovesPresent is a caller-supplied present-shift annotation. It is
	// combined with the value computed on timeline creation.
	MovesPresent bool
}

// CastleRequest describes a castling move on board (L, T) as seen by Color.
type CastleRequest struct {
	Color Color
	L     TimelineIndex
	T     int
	Long  bool
	Turn  int
	Annotations
}
