package board

import (
	"errors"
	"fmt"
)

// Snapshot is a plain, serializable copy of a Game. Boards are stored as
// FEN placements and pieces as FEN characters.
type Snapshot struct {
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Kinds     KindSet            `json:"kinds"`
	Initial   []TimelineIndex    `json:"initial"`
	Tags      []TagSnapshot      `json:"tags,omitempty"`
	Timelines []TimelineSnapshot `json:"timelines"`
	Moves     []MoveSnapshot     `json:"moves"`
}

// TagSnapshot is one metadata entry.
type TagSnapshot struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TimelineSnapshot holds one timeline.
type TimelineSnapshot struct {
	Index       TimelineIndex     `json:"index"`
	BeginsAt    int               `json:"begins_at"`
	SpawnedFrom *TimelineIndex    `json:"spawned_from,omitempty"`
	Boards      []string          `json:"boards"`
	Moves       []SubMoveSnapshot `json:"moves,omitempty"`
}

// SubMoveSnapshot holds one entry of a timeline's move log.
type SubMoveSnapshot struct {
	Kind     string `json:"kind"`
	Piece    string `json:"piece"`
	Captured string `json:"captured,omitempty"`
	Color    string `json:"color"`
	From     Coord  `json:"from"`
	To       Coord  `json:"to"`
}

// MoveSnapshot holds one entry of the global move log.
type MoveSnapshot struct {
	From      Coord  `json:"from"`
	To        Coord  `json:"to"`
	Piece     string `json:"piece"`
	Captured  string `json:"captured,omitempty"`
	Color     string `json:"color"`
	Turn      int    `json:"turn"`
	Promotion string `json:"promotion,omitempty"`
	Annotations
	Castle       string         `json:"castle,omitempty"`
	NewTimeline  *TimelineIndex `json:"new_timeline,omitempty"`
	MovesPresent bool           `json:"moves_present,omitempty"`
	EnPassant    bool           `json:"en_passant,omitempty"`
	Comments     []string       `json:"comments,omitempty"`
}

var errSnapshot = errors.New("invalid game snapshot")

func pieceText(p Piece) string {
	if p == Blank {
		return ""
	}
	return p.String()
}

func pieceFromText(s string) (Piece, error) {
	switch len(s) {
	case 0:
		return Blank, nil
	case 1:
		if p, ok := PieceFromChar(s[0]); ok {
			return p, nil
		}
	}
	return Blank, fmt.Errorf("%w: unknown piece %q", errSnapshot, s)
}

func colorText(c Color) string {
	if c == Black {
		return "black"
	}
	return "white"
}

func colorFromText(s string) (Color, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return NoColor, fmt.Errorf("%w: unknown color %q", errSnapshot, s)
}

var castleNames = map[CastleSide]string{CastleShort: "short", CastleLong: "long"}

// Snapshot copies the game into its serializable form.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		Width:   g.Width,
		Height:  g.Height,
		Kinds:   g.Kinds,
		Initial: g.InitialTimelines(),
	}
	for _, k := range g.Tags.Keys() {
		v, _ := g.Tags.Get(k)
		s.Tags = append(s.Tags, TagSnapshot{Name: k, Value: v})
	}

	for _, idx := range g.order {
		tl := g.timelines[idx]
		ts := TimelineSnapshot{Index: tl.Index, BeginsAt: tl.BeginsAt, SpawnedFrom: tl.SpawnedFrom}
		for _, b := range tl.boards {
			ts.Boards = append(ts.Boards, b.FEN())
		}
		for _, m := range tl.moves {
			ts.Moves = append(ts.Moves, SubMoveSnapshot{
				Kind:     m.Kind.String(),
				Piece:    pieceText(m.Piece),
				Captured: pieceText(m.Captured),
				Color:    colorText(m.Color),
				From:     m.From,
				To:       m.To,
			})
		}
		s.Timelines = append(s.Timelines, ts)
	}

	for _, m := range g.moves {
		s.Moves = append(s.Moves, MoveSnapshot{
			From:         m.From,
			To:           m.To,
			Piece:        pieceText(m.Piece),
			Captured:     pieceText(m.Captured),
			Color:        colorText(m.Color),
			Turn:         m.Turn,
			Promotion:    pieceText(m.Promotion),
			Annotations:  m.Annotations,
			Castle:       castleNames[m.Castle],
			NewTimeline:  m.NewTimeline,
			MovesPresent: m.MovesPresent,
			EnPassant:    m.EnPassant,
			Comments:     m.Comments,
		})
	}
	return s
}

// FromSnapshot rebuilds a game from its serializable form.
func FromSnapshot(s *Snapshot) (*Game, error) {
	if err := CheckSize(s.Width, s.Height); err != nil {
		return nil, fmt.Errorf("%w: %w", errSnapshot, err)
	}
	if len(s.Timelines) == 0 {
		return nil, fmt.Errorf("%w: no timelines", errSnapshot)
	}

	g := &Game{
		Width:     s.Width,
		Height:    s.Height,
		Kinds:     s.Kinds,
		Tags:      NewTags(),
		timelines: make(map[TimelineIndex]*Timeline, len(s.Timelines)),
		initial:   append([]TimelineIndex(nil), s.Initial...),
	}
	if g.Kinds == 0 {
		g.Kinds = AllKinds
	}
	for _, idx := range g.initial {
		if idx.IsHalf() {
			g.half = true
		}
	}
	for _, t := range s.Tags {
		g.Tags.Set(t.Name, t.Value)
	}

	for _, ts := range s.Timelines {
		if _, dup := g.timelines[ts.Index]; dup {
			return nil, fmt.Errorf("%w: duplicate timeline %s", errSnapshot, ts.Index)
		}
		if len(ts.Boards) == 0 {
			return nil, fmt.Errorf("%w: timeline %s has no boards", errSnapshot, ts.Index)
		}
		tl := &Timeline{Index: ts.Index, BeginsAt: ts.BeginsAt, SpawnedFrom: ts.SpawnedFrom}
		for _, fen := range ts.Boards {
			b, err := ParseBoard(fen, s.Width, s.Height)
			if err != nil {
				return nil, fmt.Errorf("timeline %s: %w", ts.Index, err)
			}
			tl.boards = append(tl.boards, b)
		}
		for _, ms := range ts.Moves {
			sub, err := subMoveFromSnapshot(ms)
			if err != nil {
				return nil, fmt.Errorf("timeline %s: %w", ts.Index, err)
			}
			tl.moves = append(tl.moves, sub)
		}
		g.addTimeline(tl)
	}
	for _, tl := range g.timelines {
		if tl.SpawnedFrom != nil && g.timelines[*tl.SpawnedFrom] == nil {
			return nil, fmt.Errorf("%w: timeline %s spawned from unknown %s", errSnapshot, tl.Index, *tl.SpawnedFrom)
		}
	}

	for i, ms := range s.Moves {
		m, err := moveFromSnapshot(ms)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		g.moves = append(g.moves, m)
		g.ActiveColor, g.Turn = m.Color, m.Turn
	}
	return g, nil
}

func subMoveFromSnapshot(ms SubMoveSnapshot) (SubMove, error) {
	sub := SubMove{From: ms.From, To: ms.To}
	found := false
	for k := MoveOnBoard; k <= CastleLongMove; k++ {
		if k.String() == ms.Kind {
			sub.Kind, found = k, true
		}
	}
	if !found {
		return SubMove{}, fmt.Errorf("%w: unknown move kind %q", errSnapshot, ms.Kind)
	}
	var err error
	if sub.Piece, err = pieceFromText(ms.Piece); err != nil {
		return SubMove{}, err
	}
	if sub.Captured, err = pieceFromText(ms.Captured); err != nil {
		return SubMove{}, err
	}
	if sub.Color, err = colorFromText(ms.Color); err != nil {
		return SubMove{}, err
	}
	return sub, nil
}

func moveFromSnapshot(ms MoveSnapshot) (Move, error) {
	m := Move{
		From:         ms.From,
		To:           ms.To,
		Turn:         ms.Turn,
		Annotations:  ms.Annotations,
		NewTimeline:  ms.NewTimeline,
		MovesPresent: ms.MovesPresent,
		EnPassant:    ms.EnPassant,
		Comments:     ms.Comments,
	}
	var err error
	if m.Piece, err = pieceFromText(ms.Piece); err != nil {
		return Move{}, err
	}
	if m.Captured, err = pieceFromText(ms.Captured); err != nil {
		return Move{}, err
	}
	if m.Promotion, err = pieceFromText(ms.Promotion); err != nil {
		return Move{}, err
	}
	if m.Color, err = colorFromText(ms.Color); err != nil {
		return Move{}, err
	}
	switch ms.Castle {
	case "":
	case "short":
		m.Castle = CastleShort
	case "long":
		m.Castle = CastleLong
	default:
		return Move{}, fmt.Errorf("%w: unknown castle side %q", errSnapshot, ms.Castle)
	}
	return m, nil
}
