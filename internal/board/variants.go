package board

import (
	"fmt"
	"sort"
	"strings"
)

// Variant is a named starting setup.
type Variant struct {
	Name      string
	FEN       string
	Timelines string
	Width     int
	Height    int
	Kinds     KindSet
}

func variant(name, fen, timelines string, width, height int) Variant {
	return Variant{Name: name, FEN: fen, Timelines: timelines, Width: width, Height: height, Kinds: ClassicKinds}
}

// Variants lists the known starting setups, keyed by upper-case name.
var Variants = map[string]Variant{}

func init() {
	for _, v := range []Variant{
		variant("STANDARD", StandardFEN, "0", 8, 8),
		variant("MISC - SMALL", "kqbnr/ppppp/5/PPPPP/KQBNR", "0", 5, 5),
		variant("MISC - TIMELINE INVASION", "nbkrb/ppppp/5/5/PPPPP ppppp/5/5/PPPPP/NBKRB", "-0 +0", 5, 5),
		variant("SIMPLE - NO QUEENS", "rnbknbr/ppppppp/7/7/7/PPPPPPP/RNBKNBR", "0", 7, 7),
		variant("SIMPLE - KNIGHTS VS. BISHOP", "rbqkbr/pppppp/6/6/PPPPPP/RNQKNR", "0", 6, 6),
		variant("SIMPLE - NO BISHOPS", "rnqknr/pppppp/6/6/PPPPPP/RNQKNR", "0", 6, 6),
		variant("SIMPLE - NO KNIGHTS", "rbqkbr/pppppp/6/6/PPPPPP/RBQKBR", "0", 6, 6),
		variant("SIMPLE - NO ROOKS", "nbqkbn/pppppp/6/6/PPPPPP/NBQKBN", "0", 6, 6),
		variant("MISC - SMALL FLIPPED", "nbrqk/ppppp/5/PPPPP/KQRBN", "0", 5, 5),
		variant("MISC - SMALL CENTERED", "rnkqr/ppppp/5/PPPPP/RQKNR", "0", 5, 5),
		variant("MISC - SMALL OPEN", "prnbk/3pp/5/PP3/KBNRP", "0", 5, 5),
		variant("MISC - VERY SMALL", "krbn/pppp/PPPP/KRBN", "0", 4, 4),
		variant("MISC - VERY SMALL OPEN", "nbrk/3p/P3/KRBN", "0", 4, 4),
		variant("MISC - TIMELINE FORMATIONS", "ppppp/5/5/5/2K2 2k2/5/5/5/PPPPP", "-0 +0", 5, 5),
		variant("MISC - TIMELINE TACTITIAN", "kbnr/pppp/4/4 4/4/PPPP/KBNR", "-0 +0", 4, 4),
		variant("MISC - TIMELINE STRATEGOS", "nbkur/ppppp/5/5/5 5/5/5/PPPPP/RUKBN", "-0 +0", 5, 5),
		variant("MISC - TIMELINE BATTLEGROUNDS", "rrkrr/bbqbb/ppppp/5/PPPPP nnnnn/ppppp/5/PPPPP/NNNNN ppppp/5/PPPPP/BBQBB/RRKRR", "-1 0 1", 5, 5),
		variant("MISC - EXCESSIVE", "kruqdrk/rnbknbr/ppppppp/7/PPPPPPP/RNBKNBR/KRUQDRK", "0", 7, 7),
		variant("MISC - REFLECTED STANDARD", "rnbkqbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBKQBNR", "0", 8, 8),
		variant("MISC - GLOBAL WARMING", "1", "0", 1, 1),
		variant("FOCUSED - JUST KNIGHTS", "n1kn1/5/5/5/1NK1N", "0", 5, 5),
		variant("FOCUSED - JUST BISHOPS", "1bbk1/5/5/5/1KBB1", "0", 5, 5),
		variant("FOCUSED - JUST ROOKS", "1rk1r/5/5/5/R1KR1", "0", 5, 5),
		variant("FOCUSED - JUST QUEENS", "1q1k2/6/6/6/6/2K1Q1", "0", 6, 6),
		variant("FOCUSED - JUST PAWNS", "ppppk/5/5/5/KPPPP", "0", 5, 5),
		variant("FOCUSED - JUST KINGS", "2k/3/k2", "0", 3, 3),
		variant("FOCUSED - JUST UNICORNS", "1u1uk/5/5/5/KU1U1", "0", 5, 5),
		variant("FOCUSED - JUST DRAGONS", "2ddk/5/5/5/KDD2", "0", 5, 5),
		variant("CHECKMATE PRACTICE - KNIGHT", "5n/6/6/6/6/K5", "0", 6, 6),
		variant("CHECKMATE PRACTICE - BISHOP", "4b1/6/6/6/6/K5", "0", 6, 6),
		variant("CHECKMATE PRACTICE - ROOK", "5r/6/6/6/6/K5", "0", 6, 6),
		variant("CHECKMATE PRACTICE - QUEEN", "4q1/6/6/6/6/K5", "0", 6, 6),
		variant("CHECKMATE PRACTICE - PAWNS", "2ppp1/6/6/6/6/3K2", "0", 6, 6),
		{
			Name: "STANDARD - PRINCESS", FEN: "rnbskbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBSKBNR",
			Timelines: "0", Width: 8, Height: 8, Kinds: ClassicKinds.With(Princess),
		},
		variant("STANDARD - HALF REFLECTED", "rnbkqbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR", "0", 8, 8),
	} {
		Variants[v.Name] = v
	}
}

// LookupVariant finds a variant by name, ignoring case.
func LookupVariant(name string) (Variant, bool) {
	v, ok := Variants[strings.ToUpper(strings.TrimSpace(name))]
	return v, ok
}

// VariantNames returns every variant name in sorted order.
func VariantNames() []string {
	names := make([]string, 0, len(Variants))
	for name := range Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewGame creates a game set up for the variant.
func (v Variant) NewGame() (*Game, error) {
	idx, err := ParseTimelineList(v.Timelines)
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", v.Name, err)
	}
	g, err := NewSizedGame(v.Width, v.Height, idx...)
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", v.Name, err)
	}
	g.Kinds = v.Kinds
	if err := g.SeedFEN(v.FEN); err != nil {
		return nil, fmt.Errorf("variant %s: %w", v.Name, err)
	}
	return g, nil
}
