package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/chessplay5d/internal/board"
)

// Storage keys
const (
	keyPreferences = "preferences"
	gamePrefix     = "game/"
)

// ErrNotFound is returned for ids with no saved game.
var ErrNotFound = errors.New("game not found")

// Preferences stores viewer settings
type Preferences struct {
	Unicode        bool      `json:"unicode"`
	DarkBackground bool      `json:"dark_background"`
	DefaultFormat  string    `json:"default_format"`
	LastOpened     time.Time `json:"last_opened"`
}

// DefaultPreferences returns default viewer preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		DarkBackground: true,
		DefaultFormat:  "5dpgn",
	}
}

// GameRecord is a saved game: the text it was imported from and the full
// multiverse it replays to.
type GameRecord struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Format    string          `json:"format"`
	Source    string          `json:"source,omitempty"`
	Game      *board.Snapshot `json:"game,omitempty"`
	Moves     int             `json:"moves"`
	Timelines int             `json:"timelines"`
	Created   time.Time       `json:"created"`
}

// NewGameRecord captures g. Title comes from the Event tag, then the Board
// tag.
func NewGameRecord(g *board.Game, format, source string) *GameRecord {
	title, ok := g.Tags.Get("Event")
	if !ok {
		title, ok = g.Tags.Get("Board")
	}
	if !ok {
		title = "Untitled"
	}
	return &GameRecord{
		Title:     title,
		Format:    format,
		Source:    source,
		Game:      g.Snapshot(),
		Moves:     len(g.Moves()),
		Timelines: len(g.Timelines()),
	}
}

// Restore rebuilds the saved game.
func (r *GameRecord) Restore() (*board.Game, error) {
	if r.Game == nil {
		return nil, fmt.Errorf("game %s has no snapshot", r.ID)
	}
	return board.FromSnapshot(r.Game)
}

// LibraryStats summarizes the saved games
type LibraryStats struct {
	Games     int            `json:"games"`
	Moves     int            `json:"moves"`
	Timelines int            `json:"timelines"`
	ByFormat  map[string]int `json:"by_format"`
}

// Store wraps BadgerDB for persistent storage
type Store struct {
	db *badger.DB
}

// badgerLogger routes badger's own messages into zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// Open opens the database in dir, creating it if needed. With a nil
// logger badger stays silent.
func Open(dir string, log *zap.SugaredLogger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	if log != nil {
		opts.Logger = badgerLogger{log.Named("badger")}
	}
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the Store.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

// SaveGame stores rec, assigning an id and creation time when missing, and
// returns the id.
func (s *Store) SaveGame(rec *GameRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Created.IsZero() {
		rec.Created = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// LoadGame returns the game saved under id.
func (s *Store) LoadGame(id string) (*GameRecord, error) {
	rec := &GameRecord{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListGames returns every saved game, newest first. Snapshots and sources
// are left out.
func (s *Store) ListGames() ([]*GameRecord, error) {
	var out []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			rec.Game, rec.Source = nil, ""
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.After(out[j].Created)
		}
		return strings.Compare(out[i].ID, out[j].ID) < 0
	})
	return out, nil
}

// DeleteGame removes the game saved under id.
func (s *Store) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

// Stats totals the saved games.
func (s *Store) Stats() (*LibraryStats, error) {
	games, err := s.ListGames()
	if err != nil {
		return nil, err
	}
	stats := &LibraryStats{ByFormat: make(map[string]int)}
	for _, g := range games {
		stats.Games++
		stats.Moves += g.Moves
		stats.Timelines += g.Timelines
		stats.ByFormat[g.Format]++
	}
	return stats, nil
}

// SavePreferences saves viewer preferences
func (s *Store) SavePreferences(prefs *Preferences) error {
	prefs.LastOpened = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads viewer preferences, returns defaults if not found
func (s *Store) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}
