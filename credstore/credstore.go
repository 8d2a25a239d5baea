// Package credstore is a best-effort keyed-string store for credentials,
// backed by a single JSON file. Every failure mode is swallowed: a missing or
// unreadable file, a corrupt document, or a failed write must never crash the
// caller, so Get falls back to the provided default and Set simply logs.
package credstore

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store persists key/value pairs at a fixed path.
type Store struct {
	mu   sync.Mutex
	path string
	log  *slog.Logger
}

// New returns a store writing to path. The file is created on first Set.
func New(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{path: path, log: log}
}

// Get returns the stored value for key, or fallback on any failure.
func (s *Store) Get(key, fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	if v, ok := values[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Set stores a value for key. Best effort: failures are logged and dropped.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	values[key] = value
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		s.log.Warn("credstore: marshal failed", slog.String("error", err.Error()))
		return
	}
	if err := s.writeAtomic(data); err != nil {
		s.log.Warn("credstore: write failed", slog.String("error", err.Error()))
	}
}

func (s *Store) load() map[string]string {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}
	if err := json.Unmarshal(data, &values); err != nil {
		s.log.Warn("credstore: corrupt store file, ignoring", slog.String("path", s.path))
		return make(map[string]string)
	}
	return values
}

// writeAtomic writes content via tmp file then rename so a crash mid-write
// never leaves a truncated store.
func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".credstore-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}
