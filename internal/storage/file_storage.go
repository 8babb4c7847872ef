package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStorage provides methods to manage files in a specific directory.
// It backs both the converter's artifact bucket and the client's local
// download target.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a new FileStorage instance with the given directory.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Dir returns the directory managed by this storage.
func (s *FileStorage) Dir() string {
	return s.dir
}

// FileExists checks whether a file exists in the storage directory.
func (s *FileStorage) FileExists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.dir, filename))
	return err == nil
}

// GetFileSize returns the size of the file in bytes.
func (s *FileStorage) GetFileSize(filename string) (int64, error) {
	info, err := os.Stat(filepath.Join(s.dir, filename))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// WriteFile writes the given data to a file with the specified filename.
func (s *FileStorage) WriteFile(filename string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, filename), data, 0644)
}

// ReadFile returns the full content of the named file.
func (s *FileStorage) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filename))
}

// CopyFile copies data from the provided reader to a file with the specified
// filename. Returns the number of bytes written and any error encountered.
func (s *FileStorage) CopyFile(src io.Reader, dstFilename string) (int64, error) {
	dst, err := os.Create(filepath.Join(s.dir, dstFilename))
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	return io.Copy(dst, src)
}

// List returns the names of all regular files in the storage directory.
func (s *FileStorage) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Clear removes every file in the storage directory.
func (s *FileStorage) Clear() error {
	names, err := s.List()
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

// Save writes converted artifact bytes under the suggested name. It
// satisfies the workflow's local delivery contract.
func (s *FileStorage) Save(data []byte, suggestedName string) error {
	return s.WriteFile(suggestedName, data)
}
