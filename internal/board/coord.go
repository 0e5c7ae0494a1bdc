package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Omitted marks a coordinate component the caller left unspecified.
const Omitted = -1

// TimelineIndex identifies a timeline. Besides whole integers it can hold
// the two half offsets "-0" and "+0" used by variants that start with a pair
// of timelines around zero. The value is kept in half units so comparison
// never involves floating point.
type TimelineIndex struct {
	halves int32
}

var (
	// HalfNeg is the "-0" timeline.
	HalfNeg = TimelineIndex{-1}
	// HalfPos is the "+0" timeline.
	HalfPos = TimelineIndex{1}
)

// Whole returns the timeline index n.
func Whole(n int) TimelineIndex {
	return TimelineIndex{int32(n) * 2}
}

// IsHalf reports whether l is one of the half offsets.
func (l TimelineIndex) IsHalf() bool {
	return l.halves%2 != 0
}

// Trunc returns the integer part of l, rounding toward zero.
func (l TimelineIndex) Trunc() int {
	return int(l.halves / 2)
}

// Compare returns -1, 0 or +1 ordering l against o.
func (l TimelineIndex) Compare(o TimelineIndex) int {
	switch {
	case l.halves < o.halves:
		return -1
	case l.halves > o.halves:
		return 1
	}
	return 0
}

// Less reports whether l sorts before o.
func (l TimelineIndex) Less(o TimelineIndex) bool {
	return l.halves < o.halves
}

// String formats l as used by move notation: "-0", "+0", "3", "-2".
func (l TimelineIndex) String() string {
	switch l {
	case HalfNeg:
		return "-0"
	case HalfPos:
		return "+0"
	}
	return strconv.Itoa(l.Trunc())
}

// Signed formats l with an explicit sign for positive whole values. Zero
// stays "0" so it cannot be read back as the "+0" half offset.
func (l TimelineIndex) Signed() string {
	if l.IsHalf() || l.halves <= 0 {
		return l.String()
	}
	return "+" + l.String()
}

// ParseTimelineIndex parses the output of String or Signed. "-0" and "+0"
// are the half offsets; a bare "0" is the whole timeline zero.
func ParseTimelineIndex(s string) (TimelineIndex, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "-0":
		return HalfNeg, nil
	case "+0":
		return HalfPos, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return TimelineIndex{}, fmt.Errorf("invalid timeline index: %q", s)
	}
	return Whole(n), nil
}

// MarshalText implements encoding.TextMarshaler.
func (l TimelineIndex) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *TimelineIndex) UnmarshalText(b []byte) error {
	v, err := ParseTimelineIndex(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Coord addresses a square in the multiverse. T is the turn as seen by the
// moving color; the board it names depends on that color (see PlyOf).
type Coord struct {
	L TimelineIndex `json:"l"`
	T int           `json:"t"`
	X int           `json:"x"`
	Y int           `json:"y"`
}

// At returns a coordinate with the given components.
func At(l TimelineIndex, t, x, y int) Coord {
	return Coord{L: l, T: t, X: x, Y: y}
}

// Partial reports whether the square of c is not fully specified.
func (c Coord) Partial() bool {
	return c.X == Omitted || c.Y == Omitted
}

// SameBoard reports whether c and o address the same board.
func (c Coord) SameBoard(o Coord) bool {
	return c.L == o.L && c.T == o.T
}

// String returns "(L T x y)" with the square in algebraic form when possible.
func (c Coord) String() string {
	return fmt.Sprintf("(%sT%d)%s", c.L, c.T+1, SquareName(c.X, c.Y))
}

// SquareName returns the algebraic name of a square, e.g. "e4". Omitted
// components are left out.
func SquareName(x, y int) string {
	var sb strings.Builder
	if x != Omitted {
		sb.WriteByte(byte('a' + x))
	}
	if y != Omitted {
		sb.WriteString(strconv.Itoa(y + 1))
	}
	return sb.String()
}

// PlyOf returns the internal ply of the board on which color moves at turn.
func PlyOf(turn int, c Color) int {
	if c == Black {
		return turn*2 + 1
	}
	return turn * 2
}

// TurnOf returns the turn a ply belongs to.
func TurnOf(ply int) int {
	return ply / 2
}

// ColorOfPly returns the color to move on the board at ply.
func ColorOfPly(ply int) Color {
	if ply%2 == 0 {
		return White
	}
	return Black
}
