package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/parkmon/swiss-parking-monitor/internal/parking"
)

// FileStore appends one JSON file per snapshot under
// {base}/{city}/{YYYY-MM-DD}/{HH-MM-SS}.json, keyed by the wall-clock
// time of the write. When a second name is already taken the store
// appends a counter suffix so rapid cycles never overwrite each other.
type FileStore struct {
	baseDir string

	// now is swappable in tests.
	now func() time.Time
}

// NewFileStore creates a store rooted at baseDir. Directories are created
// lazily on the first write for each city and day.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		now:     time.Now,
	}
}

// Save writes the snapshot and returns the path it landed on. A nil
// snapshot is a no-op. Output is indented and keeps non-ASCII facility
// names unescaped so they round-trip byte-exactly.
func (s *FileStore) Save(snapshot *parking.Snapshot) (string, error) {
	if snapshot == nil {
		return "", nil
	}

	now := s.now()
	dayDir := filepath.Join(s.baseDir, snapshot.City, now.Format("2006-01-02"))
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	f, path, err := createUnique(dayDir, now.Format("15-04-05"))
	if err != nil {
		return "", err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snapshot); err != nil {
		f.Close()
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot file: %w", err)
	}
	return path, nil
}

// createUnique claims {stem}.json, falling back to {stem}-2.json,
// {stem}-3.json and so on when the second already has a snapshot.
// O_EXCL makes the claim atomic.
func createUnique(dir, stem string) (*os.File, string, error) {
	for n := 1; ; n++ {
		name := stem + ".json"
		if n > 1 {
			name = fmt.Sprintf("%s-%d.json", stem, n)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create snapshot file: %w", err)
		}
	}
}
