package board

import "fmt"

// Board is a single width x height grid of pieces, stored row-major with
// index X + Y*width. Y=0 is White's back rank.
type Board struct {
	width   int
	height  int
	squares []Piece
}

// Largest supported board. Files are lettered a through w.
const (
	MaxWidth  = 23
	MaxHeight = 99
)

// CheckSize reports whether a width x height board is supported.
func CheckSize(width, height int) error {
	if width < 1 || width > MaxWidth || height < 1 || height > MaxHeight {
		return fmt.Errorf("%w: %dx%d (at most %dx%d)", ErrInvalidSize, width, height, MaxWidth, MaxHeight)
	}
	return nil
}

// NewBoard creates an empty board. The size must pass CheckSize; use
// NewSizedBoard for sizes that come from input.
func NewBoard(width, height int) *Board {
	return &Board{
		width:   width,
		height:  height,
		squares: make([]Piece, width*height),
	}
}

// NewSizedBoard is NewBoard for unchecked sizes.
func NewSizedBoard(width, height int) (*Board, error) {
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}
	return NewBoard(width, height), nil
}

// Width returns the number of files.
func (b *Board) Width() int { return b.width }

// Height returns the number of ranks.
func (b *Board) Height() int { return b.height }

// InBounds reports whether (x, y) lies on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// At returns the piece on (x, y), or Blank when off the board.
func (b *Board) At(x, y int) Piece {
	if !b.InBounds(x, y) {
		return Blank
	}
	return b.squares[x+y*b.width]
}

// Set places p on (x, y). Off-board writes are ignored.
func (b *Board) Set(x, y int, p Piece) {
	if !b.InBounds(x, y) {
		return
	}
	b.squares[x+y*b.width] = p
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{width: b.width, height: b.height, squares: make([]Piece, len(b.squares))}
	copy(c.squares, b.squares)
	return c
}

// Equal reports whether both boards hold the same pieces.
func (b *Board) Equal(o *Board) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i := range b.squares {
		if b.squares[i] != o.squares[i] {
			return false
		}
	}
	return true
}

// Square is a location on a single board.
type Square struct {
	X, Y int
}

// Find returns every square holding p, in index order.
func (b *Board) Find(p Piece) []Square {
	var out []Square
	for i, q := range b.squares {
		if q == p {
			out = append(out, Square{X: i % b.width, Y: i / b.width})
		}
	}
	return out
}
