package pipeline

import (
	"io/fs"
	"os"
)

// FileSystem is the slice of file access the runner needs. Tests substitute
// failing implementations; production uses OSFileSystem.
type FileSystem interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}

// OSFileSystem reads and writes in place on the local disk.
type OSFileSystem struct{}

func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	// #nosec G304 -- paths come from traversing the configured root.
	return os.ReadFile(name)
}

// WriteFile replaces the file's content, keeping its permission bits.
func (OSFileSystem) WriteFile(name string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(name); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(name, data, perm)
}
