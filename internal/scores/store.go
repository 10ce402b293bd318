// Package scores persists high-score records to a JSON file and keeps them
// ranked per difficulty.
package scores

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tomz197/snake/internal/difficulty"
)

// Options configures a Store.
type Options struct {
	MaxPerDifficulty int         // Entries kept per difficulty; 0 keeps all
	Logger           *log.Logger // nil discards
}

// Store owns the in-memory record list and is the only writer of its file.
// It is safe for concurrent use so that several sessions can share one file.
type Store struct {
	path string
	max  int
	log  *log.Logger

	mu      sync.Mutex
	records []Record

	// writeMu orders file writes: it is held from taking the copy until the
	// rename, so the newest copy is always the last one on disk.
	writeMu sync.Mutex
}

// Open creates a store for path and loads it. A missing or unreadable file
// leaves the store empty; the returned result says which case applied.
func Open(path string, opts Options) (*Store, LoadResult) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{
		path:    path,
		max:     opts.MaxPerDifficulty,
		log:     logger,
		records: []Record{},
	}
	return s, s.Load()
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory list with the file contents. On failure the
// list becomes empty and a warning is logged.
func (s *Store) Load() LoadResult {
	res := ReadFile(s.path)
	switch res.Status {
	case LoadOK:
		s.log.Debug("loaded high scores", "path", s.path, "records", len(res.Records))
	case LoadMissing:
		s.log.Info("no high score file yet, starting empty", "path", s.path)
	default:
		s.log.Warn("high score file ignored, starting empty", "path", s.path, "status", res.Status, "err", res.Err)
	}

	records := normalize(res.Records, s.max)
	res.Records = append([]Record(nil), records...)

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return res
}

// Record inserts r, re-ranks its difficulty and applies the retention cap.
// It returns a copy of the updated list. Negative scores are stored as 0.
func (s *Store) Record(r Record) []Record {
	if r.Score < 0 {
		r.Score = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = normalize(append(s.records, r), s.max)
	return append([]Record(nil), s.records...)
}

// Persist writes the current list to disk. The in-memory list is unaffected
// by a failed write.
func (s *Store) Persist() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	snapshot := append([]Record(nil), s.records...)
	s.mu.Unlock()

	if err := writeFile(s.path, snapshot); err != nil {
		return err
	}
	s.log.Debug("saved high scores", "path", s.path, "records", len(snapshot))
	return nil
}

// Records returns a copy of all records grouped by difficulty, best first.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

// Top returns up to n best records for level (all of them when n <= 0).
func (s *Store) Top(level difficulty.Level, n int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := filter(s.records, level)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Best returns the top record for level.
func (s *Store) Best(level difficulty.Level) (Record, bool) {
	top := s.Top(level, 1)
	if len(top) == 0 {
		return Record{}, false
	}
	return top[0], true
}
