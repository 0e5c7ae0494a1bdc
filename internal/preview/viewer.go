package preview

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hailam/chessplay5d/internal/board"
)

const helpText = "←/→ ply  ↑/↓ timeline  p present  m multiverse  q quit"

// multiversePlies is how many plies the multiverse view shows around the
// newest boards.
const multiversePlies = 4

// Viewer is the interactive terminal previewer.
type Viewer struct {
	nav   *Navigator
	r     Renderer
	multi bool

	app    *tview.Application
	header *tview.TextView
	body   *tview.TextView
	footer *tview.TextView
}

// NewViewer builds a viewer for g. r.Color is forced on; the escapes are
// translated into tview colors.
func NewViewer(g *board.Game, r Renderer) *Viewer {
	r.Color = true
	v := &Viewer{
		nav:    NewNavigator(g),
		r:      r,
		app:    tview.NewApplication(),
		header: tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
		body:   tview.NewTextView().SetDynamicColors(true).SetWrap(false),
		footer: tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
	}
	v.body.SetBorder(true)
	v.footer.SetBorder(true)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.header, 1, 0, false).
		AddItem(v.body, 0, 1, true).
		AddItem(v.footer, 3, 0, false).
		AddItem(tview.NewTextView().SetText(helpText).SetTextAlign(tview.AlignCenter), 1, 0, false)

	v.app.SetRoot(layout, true).SetInputCapture(v.HandleKey)
	v.refresh()
	return v
}

// Navigator exposes the cursor.
func (v *Viewer) Navigator() *Navigator { return v.nav }

// Run blocks until the user quits.
func (v *Viewer) Run() error {
	return v.app.Run()
}

// Run opens a viewer on g and blocks until the user quits.
func Run(g *board.Game, r Renderer) error {
	return NewViewer(g, r).Run()
}

// HandleKey moves the cursor for arrow keys and the wasd/hjkl letters.
func (v *Viewer) HandleKey(ev *tcell.EventKey) *tcell.EventKey {
	n := v.nav
	switch ev.Key() {
	case tcell.KeyLeft:
		n.Left()
	case tcell.KeyRight:
		n.Right()
	case tcell.KeyUp:
		n.Up()
	case tcell.KeyDown:
		n.Down()
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.app.Stop()
		return nil
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'h':
			n.Left()
		case 'd', 'l':
			n.Right()
		case 'w', 'k':
			n.Up()
		case 's', 'j':
			n.Down()
		case 'p':
			n.Present()
		case 'm':
			v.multi = !v.multi
		case 'q':
			v.app.Stop()
			return nil
		default:
			return ev
		}
	default:
		return ev
	}
	v.refresh()
	return nil
}

func (v *Viewer) arrows() string {
	var parts []string
	for _, a := range []struct {
		ok    bool
		glyph string
	}{
		{v.nav.CanLeft(), "←"},
		{v.nav.CanUp(), "↑"},
		{v.nav.CanDown(), "↓"},
		{v.nav.CanRight(), "→"},
	} {
		if a.ok {
			parts = append(parts, "[::b]"+a.glyph+"[::-]")
		} else {
			parts = append(parts, " ")
		}
	}
	return strings.Join(parts, " ")
}

func (v *Viewer) refresh() {
	n := v.nav
	v.header.SetText(fmt.Sprintf("%s   %s", n.Title(), v.arrows()))

	v.body.Clear()
	w := tview.ANSIWriter(v.body)
	switch b := n.Board(); {
	case v.multi:
		fmt.Fprint(w, v.r.Multiverse(n.Game(), multiversePlies))
	case b == nil:
		fmt.Fprint(w, "(No board)")
	default:
		var hl []Highlight
		if h, ok := n.Highlight(); ok {
			hl = append(hl, h)
		}
		fmt.Fprint(w, v.r.Board(b, hl...))
	}

	v.footer.Clear()
	fw := tview.ANSIWriter(v.footer)
	if m, ok := n.MoveHere(); ok {
		fmt.Fprint(fw, v.r.Move(m))
	} else if n.Board() != nil {
		fmt.Fprint(fw, "(Starting pos.)")
	}
}
