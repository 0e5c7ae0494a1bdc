package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/hailam/chessplay5d/internal/board"
	"github.com/hailam/chessplay5d/internal/notation/pgn"
)

func near(c color.Color, want color.RGBA, tol int) bool {
	r, g, b, _ := c.RGBA()
	d := func(a uint32, w uint8) bool {
		diff := int(a>>8) - int(w)
		return diff <= tol && diff >= -tol
	}
	return d(r, want.R) && d(g, want.G) && d(b, want.B)
}

func TestBoard(t *testing.T) {
	r, err := New(40)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	g, _ := board.Variants["STANDARD"].NewGame()
	img, err := r.Board(g.Board(board.Whole(0), 0))
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 320 {
		t.Fatalf("bounds = %v, want 320x320", b)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		// a3 is dark and empty, b3 light and empty.
		{"DarkSquare", 2, 5*40 + 2, DarkSquare},
		{"LightSquare", 40 + 2, 5*40 + 2, LightSquare},
		// Left of the letter but inside the token.
		{"WhiteToken", 4*40 + 10, 7*40 + 20, WhiteFill},
		{"BlackToken", 4*40 + 10, 20, BlackFill},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c := img.At(tt.x, tt.y); !near(c, tt.want, 24) {
				t.Errorf("pixel (%d,%d) = %v, want about %v", tt.x, tt.y, c, tt.want)
			}
		})
	}
}

func TestMultiverse(t *testing.T) {
	g, err := pgn.Codec{}.Decode("1. e3 / e6 2. (0T2)Ng1>>(0T1)g3 / (1T1)d6 (0T2)d5")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	r, err := New(10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	img, err := r.Multiverse(g, 0)
	if err != nil {
		t.Fatalf("Multiverse failed: %v", err)
	}
	w, h := r.Layout(8, 8, 5, 2)
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Errorf("bounds = %v, want %dx%d", img.Bounds(), w, h)
	}
	// Timeline +1 has no board at ply 0, so its first column stays empty.
	if c := img.At(gap+5, gap+(labelHeight+80+gap)+labelHeight+5); !near(c, Background, 2) {
		t.Errorf("missing board was painted: %v", c)
	}

	img, err = r.Multiverse(g, 2)
	if err != nil {
		t.Fatalf("Multiverse failed: %v", err)
	}
	if w, _ := r.Layout(8, 8, 2, 2); img.Bounds().Dx() != w {
		t.Errorf("limited width = %d, want %d", img.Bounds().Dx(), w)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v", decoded.Bounds())
	}
}
