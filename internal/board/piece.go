package board

import "strings"

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// forward is the rank direction pawns of this color advance in.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// Kind is the movement class of a piece.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	Unicorn
	Dragon
	Princess
	Brawn
	ConsulKing
	ReflectedQueen
	NoKind Kind = 12
)

const numKinds = int(NoKind)

var kindNames = [...]string{
	"Pawn", "Knight", "Bishop", "Rook", "Queen", "King",
	"Unicorn", "Dragon", "Princess", "Brawn", "ConsulKing", "ReflectedQueen",
}

// String returns the kind name.
func (k Kind) String() string {
	if k >= NoKind {
		return "None"
	}
	return kindNames[k]
}

// fenChars holds the single-letter encoding of every kind (uppercase = white).
const fenChars = "PNBRQKUDSWCY"

// Char returns the FEN character for the kind (uppercase).
func (k Kind) Char() byte {
	if k >= NoKind {
		return ' '
	}
	return fenChars[k]
}

// Letter returns the notation letter used by move text. Kinds that share a
// first letter with a classic piece use two letters.
func (k Kind) Letter() string {
	switch k {
	case Princess:
		return "PR"
	case Brawn:
		return "BR"
	case ConsulKing:
		return "CK"
	case ReflectedQueen:
		return "RQ"
	case NoKind:
		return ""
	default:
		return string(k.Char())
	}
}

// KindFromLetter parses a notation letter produced by Letter. "S" is accepted
// as an alias for Princess.
func KindFromLetter(s string) (Kind, bool) {
	switch strings.ToUpper(s) {
	case "PR", "S":
		return Princess, true
	case "BR", "W":
		return Brawn, true
	case "CK", "C":
		return ConsulKing, true
	case "RQ", "Y":
		return ReflectedQueen, true
	}
	if len(s) != 1 {
		return NoKind, false
	}
	i := strings.IndexByte(fenChars[:Unicorn+2], s[0]&^0x20)
	if i < 0 {
		return NoKind, false
	}
	return Kind(i), true
}

// IsPawnlike reports whether the kind moves like a pawn.
func (k Kind) IsPawnlike() bool {
	return k == Pawn || k == Brawn
}

// IsRoyal reports whether the kind is a king.
func (k Kind) IsRoyal() bool {
	return k == King || k == ConsulKing
}

// KindSet is the set of kinds a ruleset allows.
type KindSet uint16

const (
	// ClassicKinds is the piece set of the classic multiverse variants.
	ClassicKinds KindSet = 1<<Pawn | 1<<Knight | 1<<Bishop | 1<<Rook | 1<<Queen | 1<<King | 1<<Unicorn | 1<<Dragon
	// AllKinds allows every kind.
	AllKinds KindSet = 1<<NoKind - 1
)

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return k < NoKind && s&(1<<k) != 0
}

// With returns the set extended by kinds.
func (s KindSet) With(kinds ...Kind) KindSet {
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Piece combines Kind and Color into a single value.
// Encoded as: 1 + kind + color*numKinds, with 0 reserved for an empty square.
type Piece uint8

const (
	// Blank is an empty square.
	Blank Piece = 0
	// Marker highlights a square in diagnostic output. It is never stored by
	// move execution.
	Marker Piece = 0xFF
)

// NewPiece creates a piece from kind and color.
func NewPiece(k Kind, c Color) Piece {
	if k >= NoKind || c > Black {
		return Blank
	}
	return Piece(1 + int(k) + int(c)*numKinds)
}

// Kind returns the kind of the piece.
func (p Piece) Kind() Kind {
	if p == Blank || p == Marker {
		return NoKind
	}
	return Kind((int(p) - 1) % numKinds)
}

// Color returns the color of the piece.
func (p Piece) Color() Color {
	if p == Blank || p == Marker {
		return NoColor
	}
	return Color((int(p) - 1) / numKinds)
}

// IsBlank reports whether the square is empty.
func (p Piece) IsBlank() bool {
	return p == Blank
}

// Char returns the FEN character for the piece.
func (p Piece) Char() byte {
	switch p {
	case Blank:
		return '.'
	case Marker:
		return '*'
	}
	c := p.Kind().Char()
	if p.Color() == Black {
		c += 'a' - 'A'
	}
	return c
}

// String returns the FEN character as a string.
func (p Piece) String() string {
	return string(p.Char())
}

// PieceFromChar returns the piece for a FEN character.
func PieceFromChar(c byte) (Piece, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	i := strings.IndexByte(fenChars, c)
	if i < 0 {
		return Blank, false
	}
	return NewPiece(Kind(i), color), true
}
