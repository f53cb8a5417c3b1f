// Package preset stores reusable booking presets.
package preset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Domenick1991/thsrbook/internal/domain"
)

type Store interface {
	Load(ctx context.Context) ([]domain.Preset, error)
	Save(ctx context.Context, presets []domain.Preset) error
}

// FileStore keeps presets as an indented JSON array in one file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns an empty list when the file does not exist yet.
func (s *FileStore) Load(_ context.Context) ([]domain.Preset, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Preset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}

	var presets []domain.Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("decode presets %s: %w", s.path, err)
	}
	if presets == nil {
		presets = []domain.Preset{}
	}
	return presets, nil
}

func (s *FileStore) Save(_ context.Context, presets []domain.Preset) error {
	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, append(data, '\n'), 0o600)
}

// Append loads the stored presets, adds p and saves the result.
func Append(ctx context.Context, store Store, p domain.Preset) error {
	presets, err := store.Load(ctx)
	if err != nil {
		return err
	}
	return store.Save(ctx, append(presets, p))
}

// Select returns the preset at the 1-based index.
func Select(presets []domain.Preset, index int) (domain.Preset, error) {
	if index < 1 || index > len(presets) {
		return domain.Preset{}, fmt.Errorf("%w: index %d of %d", domain.ErrPresetNotFound, index, len(presets))
	}
	return presets[index-1], nil
}
