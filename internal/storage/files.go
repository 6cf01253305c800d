package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists capture artifacts (raw HTML, cleaned Markdown) on the
// local filesystem under a configured data root. Paths stored in the
// database are the same paths handed to Save, so absolute paths pass
// through unchanged and relative ones resolve under the root.
type FileStore struct {
	dataRoot string
}

// NewFileStore creates a file store rooted at dataRoot.
func NewFileStore(dataRoot string) *FileStore {
	return &FileStore{dataRoot: dataRoot}
}

// RawHTMLPath returns the relative artifact path for a role's raw HTML.
func (fs *FileStore) RawHTMLPath(companySlug string, roleID int64) string {
	return filepath.Join("jobs", "raw", companySlug, fmt.Sprintf("%d.html", roleID))
}

// CleanedMDPath returns the relative artifact path for a role's cleaned
// Markdown.
func (fs *FileStore) CleanedMDPath(companySlug string, roleID int64) string {
	return filepath.Join("jobs", "cleaned", companySlug, fmt.Sprintf("%d.md", roleID))
}

// Save writes content to path, creating parent directories as needed.
func (fs *FileStore) Save(path, content string) error {
	full := fs.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}

// Load reads the artifact at path.
func (fs *FileStore) Load(path string) (string, error) {
	data, err := os.ReadFile(fs.resolve(path))
	if err != nil {
		return "", fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return string(data), nil
}

// Exists reports whether an artifact is present at path.
func (fs *FileStore) Exists(path string) bool {
	_, err := os.Stat(fs.resolve(path))
	return err == nil
}

func (fs *FileStore) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(fs.dataRoot, path)
}
