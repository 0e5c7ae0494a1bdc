package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/hailam/chessplay5d/internal/board"
	"github.com/hailam/chessplay5d/internal/notation"
	"github.com/hailam/chessplay5d/internal/notation/codecs"
	"github.com/hailam/chessplay5d/internal/preview"
	"github.com/hailam/chessplay5d/internal/render"
	"github.com/hailam/chessplay5d/internal/repl"
	"github.com/hailam/chessplay5d/internal/server"
	"github.com/hailam/chessplay5d/internal/storage"
)

type gameInput struct {
	game   *board.Game
	raw    string
	format string
}

func runConvert(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	from := fs.String("from", a.cfg.DefaultFrom, "input notation")
	to := fs.String("to", a.cfg.DefaultTo, "output notation")
	out := fs.String("o", "", "output file (default stdout)")
	compact := fs.Bool("compact", false, "compact json output")
	collect := fs.Bool("collect", false, "skip moves that fail to replay and report them all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *collect {
		a.opts.Mode = notation.Collect
	}
	in, err := a.decodeFile(fs, *from)
	if err != nil {
		return err
	}
	opts := a.opts
	opts.Compact = *compact
	c, err := codecs.Lookup(*to, opts)
	if err != nil {
		return err
	}
	text, err := c.Encode(in.game)
	if err != nil {
		return err
	}
	return writeOutput(*out, text)
}

func runShow(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	from := fs.String("from", a.cfg.DefaultFrom, "input notation")
	last := fs.Int("last", 0, "only the newest plies (0 for all)")
	unicode := fs.Bool("unicode", a.cfg.Unicode, "chess glyphs instead of letters")
	color := fs.Bool("color", false, "ANSI colors")
	only := fs.String("timeline", "", "only this timeline, e.g. 0, +1 or -0")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := a.decodeFile(fs, *from)
	if err != nil {
		return err
	}
	r := preview.Renderer{Unicode: *unicode, Color: *color, DarkBackground: true}
	if *only == "" {
		fmt.Fprint(a.out, r.Multiverse(in.game, *last))
		return nil
	}
	l, err := board.ParseTimelineIndex(*only)
	if err != nil {
		return err
	}
	tl := in.game.Timeline(l)
	if tl == nil {
		return fmt.Errorf("no timeline %s", l.Signed())
	}
	fmt.Fprint(a.out, r.Timeline(tl, *last))
	return nil
}

func runView(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	from := fs.String("from", a.cfg.DefaultFrom, "input notation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("a file is required")
	}
	in, err := a.decodeFile(fs, *from)
	if err != nil {
		return err
	}
	return viewGame(a, in.game)
}

// viewGame opens the terminal viewer with the saved preferences and records
// the visit.
func viewGame(a *app, g *board.Game) error {
	prefs := storage.DefaultPreferences()
	store, err := a.openStore()
	if err != nil {
		a.log.Warnw("library unavailable, using default preferences", "error", err)
	} else {
		defer store.Close()
		if p, err := store.LoadPreferences(); err == nil {
			prefs = p
		}
	}
	r := preview.Renderer{Unicode: prefs.Unicode || a.cfg.Unicode, DarkBackground: prefs.DarkBackground}
	if err := preview.Run(g, r); err != nil {
		return err
	}
	if store != nil {
		return store.SavePreferences(prefs)
	}
	return nil
}

func runRender(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	from := fs.String("from", a.cfg.DefaultFrom, "input notation")
	out := fs.String("o", "multiverse.png", "output png")
	square := fs.Int("square", 0, "square size in pixels")
	last := fs.Int("last", 0, "only the newest plies (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := a.decodeFile(fs, *from)
	if err != nil {
		return err
	}
	r, err := render.New(*square)
	if err != nil {
		return err
	}
	img, err := r.Multiverse(in.game, *last)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	a.log.Infow("rendered", "file", *out, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return f.Close()
}

func runSave(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	from := fs.String("format", a.cfg.DefaultFrom, "input notation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := a.decodeFile(fs, *from)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.SaveGame(storage.NewGameRecord(in.game, in.format, in.raw))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func runLoad(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	to := fs.String("format", a.cfg.DefaultTo, "output notation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("exactly one game id is required")
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	rec, err := store.LoadGame(fs.Arg(0))
	if err != nil {
		return err
	}
	g, err := rec.Restore()
	if err != nil {
		return err
	}
	c, err := codecs.Lookup(*to, a.opts)
	if err != nil {
		return err
	}
	text, err := c.Encode(g)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, text)
	return nil
}

func runList(ctx context.Context, a *app, args []string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	games, err := store.ListGames()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tFORMAT\tMOVES\tTIMELINES\tSAVED")
	for _, g := range games {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			g.ID, g.Title, g.Format, g.Moves, g.Timelines, g.Created.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func runDelete(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one game id is required")
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return store.DeleteGame(args[0])
}

func runStats(ctx context.Context, a *app, args []string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "games: %d\nmoves: %d\ntimelines: %d\n", stats.Games, stats.Moves, stats.Timelines)
	for _, name := range codecs.Names() {
		if n := stats.ByFormat[name]; n > 0 {
			fmt.Fprintf(a.out, "  %s: %d\n", name, n)
		}
	}
	return nil
}

func runServe(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", a.cfg.ServerAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	h := server.NewHandler(store, a.log, a.opts)
	h.DefaultFormat = a.cfg.DefaultFrom
	srv := &http.Server{
		Addr:              *addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Infow("server listening", "addr", *addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runRepl(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	variant := fs.String("board", a.cfg.Board, "starting variant")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts := a.opts
	opts.Board = *variant
	s, err := repl.New(a.out, opts)
	if err != nil {
		return err
	}
	s.SetRenderer(preview.Renderer{Unicode: a.cfg.Unicode})
	return s.Run(os.Stdin)
}

func runVariants(ctx context.Context, a *app, args []string) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tTIMELINES")
	for _, name := range board.VariantNames() {
		v := board.Variants[name]
		fmt.Fprintf(tw, "%s\t%dx%d\t%s\n", v.Name, v.Width, v.Height, v.Timelines)
	}
	return tw.Flush()
}

func runFormats(ctx context.Context, a *app, args []string) error {
	_, err := fmt.Fprint(a.out, joinNames(codecs.Names()))
	return err
}
