package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"svw.info/suko/internal/domain"
)

// HighscoreFile keeps the highscore list as a single JSON array on disk.
// A missing or unreadable file is treated as an empty list; front ends
// should never fail to start over a corrupt highscore file.
type HighscoreFile struct{ path string }

func NewHighscoreFile(path string) *HighscoreFile { return &HighscoreFile{path: path} }

func (h *HighscoreFile) Load(ctx context.Context) ([]domain.HighscoreEntry, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return []domain.HighscoreEntry{}, nil
	}
	var list []domain.HighscoreEntry
	if err := json.Unmarshal(data, &list); err != nil {
		return []domain.HighscoreEntry{}, nil
	}
	return list, nil
}

func (h *HighscoreFile) Append(ctx context.Context, e domain.HighscoreEntry) error {
	list, _ := h.Load(ctx)
	list = append(list, e)
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(h.path, data, 0o644)
}
