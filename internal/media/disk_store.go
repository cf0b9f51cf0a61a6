package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore keeps media in a local directory that the server exposes as static files
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(_ context.Context, name string, u Upload) error {
	return os.WriteFile(filepath.Join(s.dir, name), u.Data, 0o644)
}

// Remove treats a missing file as already removed
func (s *DiskStore) Remove(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
