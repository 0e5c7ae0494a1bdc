// Package repl is a line-oriented console for playing and inspecting
// games.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/chessplay5d/internal/board"
	"github.com/hailam/chessplay5d/internal/notation"
	"github.com/hailam/chessplay5d/internal/notation/codecs"
	"github.com/hailam/chessplay5d/internal/notation/pgn"
	"github.com/hailam/chessplay5d/internal/preview"
)

const help = `commands:
  new [variant]          start a new game (default Standard)
  load <file> [format]   load a game from a file
  play <moves>           play 5dpgn move text for the side to move
  pass                   end the current side's moves
  status                 show the side to move
  show [plies]           print every timeline, optionally only the newest plies
  timelines              list the timelines
  export [format]        print the game in a notation (default 5dpgn)
  variants               list the known variants
  quit                   leave
`

// Session holds the game a console is working on.
type Session struct {
	out    io.Writer
	opts   codecs.Options
	log    *zap.SugaredLogger
	render preview.Renderer
	rep    *notation.Replayer
}

// New starts a session on the opts.Board variant, or Standard. Output goes
// to w.
func New(w io.Writer, opts codecs.Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Session{out: w, opts: opts, log: log}
	if err := s.newGame(opts.Board); err != nil {
		return nil, err
	}
	return s, nil
}

// Game returns the game being played.
func (s *Session) Game() *board.Game { return s.rep.Game() }

// SetRenderer changes how boards are printed.
func (s *Session) SetRenderer(r preview.Renderer) { s.render = r }

// Run reads commands from r until quit or end of input.
func (s *Session) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !s.Exec(line) {
			return nil
		}
	}
	return scanner.Err()
}

// Exec runs a single command line. It returns false once the session
// should end.
func (s *Session) Exec(line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	var err error
	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return false
	case "help", "?":
		fmt.Fprint(s.out, help)
	case "new":
		if err = s.newGame(rest); err == nil {
			s.status()
		}
	case "load":
		err = s.handleLoad(args)
	case "play":
		err = s.handlePlay(rest)
	case "pass":
		err = s.handlePass()
	case "status":
		s.status()
	case "show":
		err = s.handleShow(args)
	case "timelines":
		s.timelines()
	case "export":
		err = s.handleExport(args)
	case "variants":
		for _, name := range board.VariantNames() {
			fmt.Fprintln(s.out, name)
		}
	default:
		err = fmt.Errorf("unknown command %q (try help)", cmd)
	}
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	return true
}

func (s *Session) replayer(g *board.Game) *notation.Replayer {
	r := notation.NewReplayer(g, notation.FailFast)
	r.SetLogger(s.log)
	return r
}

func (s *Session) newGame(name string) error {
	if name == "" {
		name = notation.DefaultBoard
	}
	v, ok := board.LookupVariant(name)
	if !ok {
		return fmt.Errorf("%w: %q", notation.ErrUnknownBoard, name)
	}
	g, err := v.NewGame()
	if err != nil {
		return err
	}
	g.Tags.Set(notation.TagBoard, v.Name)
	s.rep = s.replayer(g)
	return nil
}

func (s *Session) handleLoad(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: load <file> [format]")
	}
	format := "5dpgn"
	if len(args) > 1 {
		format = args[1]
	}
	c, err := codecs.Lookup(format, s.opts)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	g, err := c.Decode(string(data))
	if err != nil {
		return err
	}

	r := s.replayer(g)
	// Continue from the side and turn of the last recorded move.
	if moves := g.Moves(); len(moves) > 0 {
		last := moves[len(moves)-1]
		if err := r.Apply(notation.Token{Kind: notation.TurnToken, Turn: last.Turn, Color: last.Color}); err != nil {
			return err
		}
	}
	s.rep = r
	s.log.Infow("game loaded", "file", args[0], "format", c.Name(), "moves", len(g.Moves()))
	s.status()
	return nil
}

func (s *Session) handlePlay(text string) error {
	if text == "" {
		return fmt.Errorf("usage: play <moves>")
	}
	tokens, err := pgn.Tokenize(text)
	if err != nil {
		return err
	}
	g := s.Game()
	for _, tok := range tokens {
		n := len(g.Moves())
		if err := s.rep.Apply(tok); err != nil {
			return err
		}
		if moves := g.Moves(); len(moves) > n {
			m := moves[len(moves)-1]
			fmt.Fprintln(s.out, pgn.WriteMove(g, m))
		}
	}
	return nil
}

func (s *Session) handlePass() error {
	tok := notation.Token{Kind: notation.PlayerToken, Color: board.Black, Turn: board.Omitted, Present: board.Omitted}
	if s.rep.Color() == board.Black {
		tok = notation.Token{Kind: notation.TurnToken, Color: board.White, Turn: s.rep.Turn() + 1, Present: board.Omitted}
	}
	if err := s.rep.Apply(tok); err != nil {
		return err
	}
	s.status()
	return nil
}

func (s *Session) status() {
	fmt.Fprintf(s.out, "%s to move, turn %d\n", s.rep.Color(), s.rep.Turn()+1)
}

func (s *Session) handleShow(args []string) error {
	last := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid ply count %q", args[0])
		}
		last = n
	}
	fmt.Fprint(s.out, s.render.Multiverse(s.Game(), last))
	return nil
}

func ply(p int) string {
	side := "w"
	if board.ColorOfPly(p) == board.Black {
		side = "b"
	}
	return fmt.Sprintf("T%d%s", board.TurnOf(p)+1, side)
}

func (s *Session) timelines() {
	for _, tl := range s.Game().Timelines() {
		origin := "initial"
		if tl.Synthetic() {
			origin = "from " + tl.SpawnedFrom.Signed()
		}
		fmt.Fprintf(s.out, "%-4s %s..%s  %s to move  %s\n",
			tl.Index.Signed(), ply(tl.BeginsAt), ply(tl.LastPly()), tl.ActiveColor(), origin)
	}
}

func (s *Session) handleExport(args []string) error {
	format := "5dpgn"
	if len(args) > 0 {
		format = args[0]
	}
	c, err := codecs.Lookup(format, s.opts)
	if err != nil {
		return err
	}
	out, err := c.Encode(s.Game())
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(s.out)
	}
	return nil
}
