// Package codecs looks notations up by name and converts between them.
package codecs

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/chessplay5d/internal/notation"
	"github.com/hailam/chessplay5d/internal/notation/alexbay"
	"github.com/hailam/chessplay5d/internal/notation/jsonfmt"
	"github.com/hailam/chessplay5d/internal/notation/pgn"
	"github.com/hailam/chessplay5d/internal/notation/ran"
)

// Options configures the codecs Lookup builds.
type Options struct {
	Mode notation.ErrorMode
	// Board names the starting setup for notations without tags.
	Board string
	// Compact drops JSON indentation.
	Compact bool
	Log     *zap.SugaredLogger
}

type factory func(Options) notation.Codec

var registry = map[string]factory{
	"5dpgn":   func(o Options) notation.Codec { return pgn.Codec{Mode: o.Mode, Log: o.Log} },
	"4xel":    func(o Options) notation.Codec { return ran.Codec{Mode: o.Mode, Board: o.Board, Log: o.Log} },
	"alexbay": func(o Options) notation.Codec { return alexbay.Codec{Mode: o.Mode, Log: o.Log} },
	"json":    func(o Options) notation.Codec { return jsonfmt.Codec{Compact: o.Compact} },
}

var aliases = map[string]string{
	"pgn":  "5dpgn",
	"axel": "4xel",
	"ran":  "4xel",
}

// Lookup returns the codec called name. Names are case-insensitive.
func Lookup(name string, opts Options) (notation.Codec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[key]; ok {
		key = a
	}
	f, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", notation.ErrUnknownFormat, name, strings.Join(Names(), ", "))
	}
	return f(opts), nil
}

// Names lists the canonical codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Convert decodes raw as from and encodes the result as to.
func Convert(raw, from, to string, opts Options) (string, error) {
	dec, err := Lookup(from, opts)
	if err != nil {
		return "", err
	}
	enc, err := Lookup(to, opts)
	if err != nil {
		return "", err
	}
	g, err := dec.Decode(raw)
	if err != nil {
		return "", err
	}
	return enc.Encode(g)
}
