// Package storage is the blob store for profile images: write bytes under a
// generated name, hand back the path, delete on request.
package storage

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Storage interface {
	Store(data []byte, name string) (string, error)
	Delete(path string) error
}

type localStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) (Storage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &localStorage{baseDir: baseDir}, nil
}

// Store prefixes the suggested name with a uuid so uploads never collide.
func (s *localStorage) Store(data []byte, name string) (string, error) {
	filename := uuid.NewString() + "_" + filepath.Base(name)
	path := filepath.Join(s.baseDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *localStorage) Delete(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
