// Command chessplay5d works with 5D chess game files and the saved game library.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/hailam/chessplay5d/internal/config"
	"github.com/hailam/chessplay5d/internal/logging"
	"github.com/hailam/chessplay5d/internal/notation"
	"github.com/hailam/chessplay5d/internal/notation/codecs"
	"github.com/hailam/chessplay5d/internal/storage"
)

type app struct {
	cfg  *config.Config
	log  *zap.SugaredLogger
	opts codecs.Options
	out  io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"convert":  {"convert [-from fmt] [-to fmt] [-collect] [-compact] [-o file] [file]", runConvert},
	"show":     {"show [-from fmt] [-timeline L] [-last n] [-unicode] [-color] [file]", runShow},
	"view":     {"view [-from fmt] file", runView},
	"render":   {"render [-from fmt] [-o file.png] [-square px] [-last n] [file]", runRender},
	"save":     {"save [-format fmt] [file]", runSave},
	"load":     {"load [-format fmt] id", runLoad},
	"list":     {"list", runList},
	"delete":   {"delete id", runDelete},
	"stats":    {"stats", runStats},
	"serve":    {"serve [-addr host:port]", runServe},
	"repl":     {"repl [-board variant]", runRepl},
	"variants": {"variants", runVariants},
	"formats":  {"formats", runFormats},
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: chessplay5d [-config file] [-log-level level] <command> [args]")
	fmt.Fprintln(os.Stderr, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

func main() {
	configPath := flag.String("config", "", "config file (yaml, toml or json)")
	logLevel := flag.String("log-level", "", "log level, overrides the config")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	log := logging.Must(cfg.LogLevel)
	defer log.Sync()

	mode, err := notation.ParseErrorMode(cfg.ErrorMode)
	if err != nil {
		log.Fatalw("invalid error mode", "error", err)
	}

	a := &app{
		cfg:  cfg,
		log:  log,
		opts: codecs.Options{Mode: mode, Board: cfg.Board, Log: log},
		out:  os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, a, flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", flag.Arg(0), err)
		stop()
		os.Exit(1)
	}
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(name string) (string, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

// decodeFile reads a game in format from the first remaining argument.
func (a *app) decodeFile(fs *flag.FlagSet, format string) (*gameInput, error) {
	raw, err := readInput(fs.Arg(0))
	if err != nil {
		return nil, err
	}
	c, err := codecs.Lookup(format, a.opts)
	if err != nil {
		return nil, err
	}
	g, err := c.Decode(raw)
	if err != nil {
		if g == nil {
			return nil, err
		}
		// Collect mode: keep the moves that replayed.
		fmt.Fprintf(os.Stderr, "skipped moves:\n%v\n", err)
	}
	a.log.Debugw("game decoded", "format", c.Name(), "moves", len(g.Moves()), "timelines", len(g.Timelines()))
	return &gameInput{game: g, raw: raw, format: c.Name()}, nil
}

func (a *app) openStore() (*storage.Store, error) {
	dir, err := storage.GetDatabaseDir(a.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	a.log.Debugw("opening library", "dir", dir)
	return storage.Open(dir, a.log)
}

func writeOutput(name, text string) error {
	if name == "" || name == "-" {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	return os.WriteFile(name, []byte(text), 0o644)
}

func joinNames(names []string) string {
	return strings.Join(names, "\n") + "\n"
}
