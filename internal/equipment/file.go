package equipment

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileStore serves equipment from a JSONL snapshot, one object per line.
type FileStore struct {
	path  string
	mu    sync.RWMutex
	items map[string]Equipment
}

// NewFileStore creates an empty store bound to path. Call Load to read it.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:  path,
		items: make(map[string]Equipment),
	}
}

// Load reads the snapshot. A missing file leaves the store empty.
func (s *FileStore) Load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", s.path).Msg("Equipment snapshot not found, starting empty")
			return nil
		}
		return fmt.Errorf("failed to open equipment snapshot: %w", err)
	}
	defer file.Close()

	var loaded []Equipment
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var e Equipment
		if err := json.Unmarshal([]byte(raw), &e); err != nil || e.ID == "" {
			log.Warn().Err(err).Int("line", line).Msg("Skipping invalid equipment line")
			continue
		}
		loaded = append(loaded, e)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading equipment snapshot: %w", err)
	}

	s.Put(loaded...)
	log.Info().Str("path", s.path).Int("count", len(loaded)).Msg("Loaded equipment snapshot")
	return nil
}

// Put adds or replaces items by id.
func (s *FileStore) Put(items ...Equipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range items {
		s.items[e.ID] = e
	}
}

// Get returns a copy of the item with the given id.
func (s *FileStore) Get(_ context.Context, id string) (*Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if e.EstimatedRevenueHourly != nil {
		rev := *e.EstimatedRevenueHourly
		e.EstimatedRevenueHourly = &rev
	}
	return &e, nil
}

// List returns every item ordered by id.
func (s *FileStore) List() []Equipment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Equipment, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Equipment) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Save writes the snapshot atomically through a temporary file.
func (s *FileStore) Save() error {
	items := s.List()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	tmpPath := s.path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, e := range items {
		if err := encoder.Encode(e); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode equipment %s: %w", e.ID, err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	log.Info().Str("path", s.path).Int("count", len(items)).Msg("Equipment snapshot saved")
	return nil
}
