package board

import (
	"encoding/json"
	"testing"
)

func TestSnapshotRestoresGame(t *testing.T) {
	g := NewGame(8, 8, Whole(0), Whole(1))
	if err := g.SeedFEN("8/8/8/8/8/8/8/1N2K3 8/8/8/8/8/8/8/4k3"); err != nil {
		t.Fatalf("SeedFEN failed: %v", err)
	}
	g.Tags.Set("Board", "Custom")
	grow(g, 4)
	mustPlay(t, g, MoveRequest{Piece: NewPiece(Knight, White), From: At(Whole(0), 2, 1, 0), To: At(Whole(1), 0, 1, 0), Turn: 2})
	g.AppendComment("into the past")

	data, err := json.Marshal(g.Snapshot())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	restored, err := FromSnapshot(&s)
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}

	if len(restored.Timelines()) != 3 {
		t.Fatalf("restored %d timelines, want 3", len(restored.Timelines()))
	}
	for _, tl := range g.Timelines() {
		rt := restored.Timeline(tl.Index)
		if rt == nil {
			t.Fatalf("timeline %s missing after restore", tl.Index)
		}
		if rt.BeginsAt != tl.BeginsAt || rt.Len() != tl.Len() || rt.Synthetic() != tl.Synthetic() {
			t.Errorf("timeline %s shape differs after restore", tl.Index)
		}
		for ply := tl.BeginsAt; ply <= tl.LastPly(); ply++ {
			if !rt.Board(ply).Equal(tl.Board(ply)) {
				t.Errorf("timeline %s ply %d differs after restore", tl.Index, ply)
			}
		}
	}

	moves := restored.Moves()
	if len(moves) != 1 {
		t.Fatalf("restored %d moves, want 1", len(moves))
	}
	m := moves[0]
	if m.NewTimeline == nil || *m.NewTimeline != Whole(2) || m.Piece != NewPiece(Knight, White) {
		t.Errorf("restored move differs: %+v", m)
	}
	if len(m.Comments) != 1 || m.Comments[0] != "into the past" {
		t.Errorf("comments lost: %v", m.Comments)
	}
	if v, _ := restored.Tags.Get("Board"); v != "Custom" {
		t.Errorf("tags lost")
	}
}

func TestFromSnapshotRejectsBrokenInput(t *testing.T) {
	base := func() *Snapshot { return NewGame(4, 4).Snapshot() }

	tests := []struct {
		name   string
		modify func(s *Snapshot)
	}{
		{"NoTimelines", func(s *Snapshot) { s.Timelines = nil }},
		{"BadSize", func(s *Snapshot) { s.Width = 0 }},
		{"TooWide", func(s *Snapshot) { s.Width = MaxWidth + 1 }},
		{"HugeSize", func(s *Snapshot) { s.Width, s.Height = 1<<20, 1<<20 }},
		{"BadBoard", func(s *Snapshot) { s.Timelines[0].Boards[0] = "8/8" }},
		{"UnknownParent", func(s *Snapshot) {
			p := Whole(9)
			s.Timelines[0].SpawnedFrom = &p
		}},
		{"BadMove", func(s *Snapshot) { s.Moves = append(s.Moves, MoveSnapshot{Piece: "?", Color: "white"}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.modify(s)
			if _, err := FromSnapshot(s); err == nil {
				t.Errorf("FromSnapshot should fail")
			}
		})
	}
}
