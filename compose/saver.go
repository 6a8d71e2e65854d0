package compose

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Saver stores finished documents and can take one back when a later
// document of the same generation fails.
type Saver interface {
	Save(name string, data []byte) (string, error)
	Remove(path string) error
}

// FileSaver writes documents into Dir on Fs.
type FileSaver struct {
	Fs  afero.Fs
	Dir string
}

// NewFileSaver returns a saver writing into dir on the OS filesystem.
func NewFileSaver(dir string) *FileSaver {
	return &FileSaver{Fs: afero.NewOsFs(), Dir: dir}
}

// Save writes data to Dir/name through a temporary file, so a reader never
// sees a half-written PDF. It returns the final path.
func (s *FileSaver) Save(name string, data []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name)
	if err := s.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".part"
	if err := afero.WriteFile(s.Fs, tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := s.Fs.Rename(tmp, path); err != nil {
		_ = s.Fs.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", tmp, err)
	}
	return path, nil
}

// Remove deletes a saved document.
func (s *FileSaver) Remove(path string) error {
	if err := s.Fs.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
