package snapshot

import (
	"io"
	"os"
	"path/filepath"

	"github.com/siherrmann/dataManager/helper"
)

// FilesystemLocal implements the Filesystem interface for local file storage
type FilesystemLocal struct {
	basePath string
}

// NewFilesystemLocal creates a new local filesystem instance with the specified base path
func NewFilesystemLocal(basePath string) Filesystem {
	return &FilesystemLocal{
		basePath: basePath,
	}
}

// Write streams data from reader to a file at the specified path relative to the base path
func (fs *FilesystemLocal) Write(path string, reader io.Reader, size int64) error {
	fullPath := filepath.Join(fs.basePath, filepath.Base(path))
	if err := os.MkdirAll(fs.basePath, 0750); err != nil {
		return err
	}

	// #nosec G304 -- path is reduced to its base name inside the snapshot directory.
	file, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, reader)
	return err
}

// Open opens a file at the specified path and returns a ReadCloser
func (fs *FilesystemLocal) Open(path string) (io.ReadCloser, error) {
	// #nosec G304 -- path is reduced to its base name inside the snapshot directory.
	return os.Open(filepath.Join(fs.basePath, filepath.Base(path)))
}

// Delete removes the file at the specified path
func (fs *FilesystemLocal) Delete(path string) error {
	return os.Remove(filepath.Join(fs.basePath, filepath.Base(path)))
}

// ListFiles returns a list of all files in the base path
func (fs *FilesystemLocal) ListFiles() ([]File, error) {
	files := []File{}

	entries, err := os.ReadDir(fs.basePath)
	if os.IsNotExist(err) {
		return files, nil
	}
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, File{
			Name:     entry.Name(),
			Size:     info.Size(),
			MimeType: helper.GetMimeType(entry.Name()),
		})
	}

	return files, nil
}
