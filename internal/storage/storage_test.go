package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hailam/chessplay5d/internal/board"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleGame(t *testing.T) *board.Game {
	t.Helper()
	g, err := board.Variants["STANDARD"].NewGame()
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	g.Tags.Set("Board", "Standard")
	_, err = g.Play(board.MoveRequest{
		Piece: board.NewPiece(board.Pawn, board.White),
		From:  board.At(board.Whole(0), 0, 4, 1),
		To:    board.At(board.Whole(0), 0, 4, 3),
	})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	return g
}

func TestGames(t *testing.T) {
	s := openTest(t)
	g := sampleGame(t)

	rec := NewGameRecord(g, "5dpgn", "1. e4")
	if rec.Title != "Standard" || rec.Moves != 1 || rec.Timelines != 1 {
		t.Errorf("record = %+v", rec)
	}
	id, err := s.SaveGame(rec)
	if err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}
	if id == "" || rec.Created.IsZero() {
		t.Fatalf("SaveGame should assign an id and a creation time")
	}

	t.Run("Load", func(t *testing.T) {
		got, err := s.LoadGame(id)
		if err != nil {
			t.Fatalf("LoadGame failed: %v", err)
		}
		if got.Source != "1. e4" || got.Format != "5dpgn" {
			t.Errorf("loaded %+v", got)
		}
		restored, err := got.Restore()
		if err != nil {
			t.Fatalf("Restore failed: %v", err)
		}
		if !restored.Timeline(board.Whole(0)).Present().Equal(g.Timeline(board.Whole(0)).Present()) {
			t.Errorf("restored board differs")
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		older := NewGameRecord(g, "4xel", "")
		older.Created = rec.Created.Add(-time.Hour)
		if _, err := s.SaveGame(older); err != nil {
			t.Fatalf("SaveGame failed: %v", err)
		}
		games, err := s.ListGames()
		if err != nil {
			t.Fatalf("ListGames failed: %v", err)
		}
		if len(games) != 2 || games[0].ID != id || games[1].ID != older.ID {
			t.Fatalf("unexpected order: %+v", games)
		}
		if games[0].Game != nil || games[0].Source != "" {
			t.Errorf("listing should leave out snapshots")
		}

		stats, err := s.Stats()
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.Games != 2 || stats.Moves != 2 || stats.ByFormat["4xel"] != 1 {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.DeleteGame(id); err != nil {
			t.Fatalf("DeleteGame failed: %v", err)
		}
		if _, err := s.LoadGame(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := s.DeleteGame(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for a second delete, got %v", err)
		}
	})
}

func TestPreferences(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if !prefs.DarkBackground || prefs.DefaultFormat != "5dpgn" || prefs.Unicode {
		t.Errorf("unexpected defaults: %+v", prefs)
	}

	prefs.Unicode = true
	prefs.DefaultFormat = "alexbay"
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}
	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if !got.Unicode || got.DefaultFormat != "alexbay" || got.LastOpened.IsZero() {
		t.Errorf("preferences not saved: %+v", got)
	}
}

func TestOpenDir(t *testing.T) {
	dir := t.TempDir()
	dbDir, err := GetDatabaseDir(dir)
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	s, err := Open(dbDir, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id, err := s.SaveGame(NewGameRecord(sampleGame(t), "json", ""))
	if err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}
	s.Close()

	s, err = Open(dbDir, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	if _, err := s.LoadGame(id); err != nil {
		t.Errorf("game lost across reopen: %v", err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	t.Logf("Data directory: %s", dataDir)

	custom := t.TempDir()
	dbDir, err := GetDatabaseDir(custom)
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if dbDir != filepath.Join(custom, "db") {
		t.Errorf("GetDatabaseDir(%q) = %q", custom, dbDir)
	}
}
