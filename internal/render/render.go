// Package render draws boards and whole multiverses as PNG images.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chessplay5d/internal/board"
)

const (
	defaultSquare = 48
	// renderScale oversamples piece tokens before scaling them down.
	renderScale = 3
)

var (
	Background  = color.RGBA{0x20, 0x20, 0x20, 0xff}
	LightSquare = color.RGBA{0xf0, 0xd9, 0xb5, 0xff}
	DarkSquare  = color.RGBA{0xb5, 0x88, 0x63, 0xff}
	LabelColor  = color.RGBA{0xd0, 0xd0, 0xd0, 0xff}
	WhiteFill   = color.RGBA{0xf8, 0xf8, 0xf8, 0xff}
	BlackFill   = color.RGBA{0x30, 0x30, 0x30, 0xff}
)

// tokenSVG is a round piece token; royal pieces get an inner ring.
const tokenSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
<circle cx="50" cy="50" r="40" fill="%s" stroke="%s" stroke-width="6"/>
%s</svg>`

const royalRing = `<circle cx="50" cy="50" r="31" fill="none" stroke="%s" stroke-width="3"/>
`

// Renderer draws boards with Square pixels per square.
type Renderer struct {
	Square int

	letters font.Face
	labels  font.Face
	tokens  map[board.Piece]*image.RGBA
}

// New returns a renderer; square <= 0 selects the default size.
func New(square int) (*Renderer, error) {
	if square <= 0 {
		square = defaultSquare
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	r := &Renderer{Square: square, tokens: make(map[board.Piece]*image.RGBA)}
	r.letters, err = opentype.NewFace(bold, &opentype.FaceOptions{
		Size: float64(square*renderScale) * 0.4, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	r.labels, err = opentype.NewFace(regular, &opentype.FaceOptions{
		Size: 14, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// token renders the piece p at Square size.
func (r *Renderer) token(p board.Piece) (*image.RGBA, error) {
	if t, ok := r.tokens[p]; ok {
		return t, nil
	}

	fill, ink := WhiteFill, BlackFill
	if p.Color() == board.Black {
		fill, ink = BlackFill, WhiteFill
	}
	ring := ""
	if p.Kind().IsRoyal() {
		ring = fmt.Sprintf(royalRing, hex(ink))
	}
	svg := fmt.Sprintf(tokenSVG, hex(fill), hex(ink), ring)

	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(svg)))
	if err != nil {
		return nil, fmt.Errorf("piece token %s: %w", p, err)
	}

	size := r.Square * renderScale
	icon.SetTarget(0, 0, float64(size), float64(size))
	big := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, big, big.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	letter := p.Kind().Letter()
	d := &font.Drawer{Dst: big, Src: image.NewUniform(ink), Face: r.letters}
	width := d.MeasureString(letter)
	m := r.letters.Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.I(size/2) - width/2,
		Y: fixed.I(size/2) + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(letter)

	t := image.NewRGBA(image.Rect(0, 0, r.Square, r.Square))
	draw.CatmullRom.Scale(t, t.Bounds(), big, big.Bounds(), draw.Over, nil)
	r.tokens[p] = t
	return t, nil
}

// drawBoard paints b with its top-left corner at (x0, y0).
func (r *Renderer) drawBoard(dst *image.RGBA, filler *rasterx.Filler, b *board.Board, x0, y0 int) error {
	sq := r.Square
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			px := x0 + x*sq
			py := y0 + (b.Height()-1-y)*sq

			c := DarkSquare
			if (x+y)%2 == 1 {
				c = LightSquare
			}
			filler.Clear()
			filler.SetColor(c)
			rasterx.AddRect(float64(px), float64(py), float64(px+sq), float64(py+sq), 0, filler)
			filler.Draw()

			p := b.At(x, y)
			if p.IsBlank() || p == board.Marker {
				continue
			}
			t, err := r.token(p)
			if err != nil {
				return err
			}
			draw.Draw(dst, image.Rect(px, py, px+sq, py+sq), t, image.Point{}, draw.Over)
		}
	}
	return nil
}

func newCanvas(w, h int) (*image.RGBA, *rasterx.Filler) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	filler := rasterx.NewFiller(w, h, scanner)
	filler.SetColor(Background)
	rasterx.AddRect(0, 0, float64(w), float64(h), 0, filler)
	filler.Draw()
	return img, filler
}

// Board draws a single board, rank 1 at the bottom.
func (r *Renderer) Board(b *board.Board) (*image.RGBA, error) {
	img, filler := newCanvas(b.Width()*r.Square, b.Height()*r.Square)
	if err := r.drawBoard(img, filler, b, 0, 0); err != nil {
		return nil, err
	}
	return img, nil
}

const (
	gap         = 12
	labelHeight = 18
)

// Layout returns the size of a multiverse image of cols plies and rows
// timelines of w x h boards.
func (r *Renderer) Layout(w, h, cols, rows int) (width, height int) {
	bw, bh := w*r.Square, h*r.Square
	return gap + cols*(bw+gap), gap + rows*(labelHeight+bh+gap)
}

// Multiverse draws one row per timeline, lowest first, with boards placed
// in columns by ply. Only the newest last plies are drawn; last <= 0 draws
// all of them.
func (r *Renderer) Multiverse(g *board.Game, last int) (*image.RGBA, error) {
	tls := g.Timelines()
	from, to := tls[0].BeginsAt, tls[0].LastPly()
	for _, tl := range tls[1:] {
		from = min(from, tl.BeginsAt)
		to = max(to, tl.LastPly())
	}
	if last > 0 && to-last+1 > from {
		from = to - last + 1
	}

	cols := to - from + 1
	bw, bh := g.Width*r.Square, g.Height*r.Square
	img, filler := newCanvas(r.Layout(g.Width, g.Height, cols, len(tls)))

	for row, tl := range tls {
		for ply := from; ply <= to; ply++ {
			b := tl.Board(ply)
			if b == nil {
				continue
			}
			x0 := gap + (ply-from)*(bw+gap)
			y0 := gap + row*(labelHeight+bh+gap) + labelHeight
			r.label(img, x0, y0-4, fmt.Sprintf("(%sT%d%s)", tl.Index.Signed(), board.TurnOf(ply)+1, side(ply)))
			if err := r.drawBoard(img, filler, b, x0, y0); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

func side(ply int) string {
	if board.ColorOfPly(ply) == board.Black {
		return "b"
	}
	return "w"
}

func (r *Renderer) label(dst *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(LabelColor),
		Face: r.labels,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
