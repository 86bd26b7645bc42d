// Package settings persists user choices between runs.
package settings

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type Settings struct {
	// Backend is the name of the last chosen renderer.
	Backend string
}

type Store interface {
	Load() (Settings, error)
	Save(Settings) error
}

// FileStore keeps settings gob encoded in a single file.
type FileStore struct {
	Path string
}

// DefaultPath is settings.gob inside the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("settings: %w", err)
	}
	return filepath.Join(dir, "glmandel", "settings.gob"), nil
}

// Load returns zero Settings when the file does not exist yet.
func (s FileStore) Load() (Settings, error) {
	var settings Settings

	file, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("settings: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&settings); err != nil {
		return Settings{}, fmt.Errorf("settings: decoding %v: %w", s.Path, err)
	}
	return settings, nil
}

// Save writes to a temporary file and renames it over the old one.
func (s FileStore) Save(settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	file, err := os.CreateTemp(filepath.Dir(s.Path), ".settings-*")
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	defer os.Remove(file.Name())

	if err := gob.NewEncoder(file).Encode(settings); err != nil {
		file.Close()
		return fmt.Errorf("settings: encoding: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	if err := os.Rename(file.Name(), s.Path); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}
