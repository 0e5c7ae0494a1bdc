// chessplay5d-preview opens a 5D chess game in a terminal viewer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hailam/chessplay5d/internal/notation"
	"github.com/hailam/chessplay5d/internal/notation/codecs"
	"github.com/hailam/chessplay5d/internal/preview"
)

func main() {
	format := flag.String("format", "5dpgn", "notation of the game file")
	board := flag.String("board", "", "starting variant for notations without tags")
	unicode := flag.Bool("unicode", false, "chess glyphs instead of letters")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: chessplay5d-preview [flags] <file>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	c, err := codecs.Lookup(*format, codecs.Options{Mode: notation.Collect, Board: *board})
	if err != nil {
		log.Fatal(err)
	}
	g, err := c.Decode(string(data))
	if g == nil {
		log.Fatal(err)
	}
	if err != nil {
		log.Printf("some moves could not be replayed: %v", err)
	}

	if err := preview.Run(g, preview.Renderer{Unicode: *unicode, DarkBackground: true}); err != nil {
		log.Fatal(err)
	}
}
