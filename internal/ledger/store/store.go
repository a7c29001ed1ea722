// Package store persists the ledger as a single JSON file. There is no
// locking and no partial write: every save rewrites the whole file, so
// concurrent writers follow last-write-wins semantics.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the entire ledger from disk. A missing file yields an empty
// ledger; a file that exists but cannot be decoded is an error, since saving
// over it would wipe the recorded data.
func (s *Store) Load(_ context.Context) (*ledger.Ledger, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ledger.Ledger{}, nil
		}

		return nil, fmt.Errorf("reading ledger file: %w", err)
	}

	var l ledger.Ledger
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("decoding ledger file %s: %w", s.path, err)
	}

	return &l, nil
}

// Save rewrites the entire ledger file.
func (s *Store) Save(_ context.Context, l *ledger.Ledger) error {
	raw, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing ledger file: %w", err)
	}

	return nil
}
