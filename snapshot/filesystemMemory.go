package snapshot

import (
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/siherrmann/dataManager/helper"
)

// FilesystemMemory implements the Filesystem interface for in-memory file storage using go-billy's memfs
type FilesystemMemory struct {
	fs billy.Filesystem
}

// NewFilesystemMemory creates a new in-memory filesystem instance
func NewFilesystemMemory() Filesystem {
	return &FilesystemMemory{
		fs: memfs.New(),
	}
}

// Write streams data from reader to a file at the specified path
func (fs *FilesystemMemory) Write(path string, reader io.Reader, size int64) error {
	file, err := fs.fs.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, reader)
	return err
}

func (fs *FilesystemMemory) Open(path string) (io.ReadCloser, error) {
	return fs.fs.Open(path)
}

func (fs *FilesystemMemory) Delete(path string) error {
	return fs.fs.Remove(path)
}

// ListFiles returns a list of all files in the filesystem
func (fs *FilesystemMemory) ListFiles() ([]File, error) {
	files := []File{}

	entries, err := fs.fs.ReadDir(".")
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, File{
			Name:     entry.Name(),
			Size:     entry.Size(),
			MimeType: helper.GetMimeType(entry.Name()),
		})
	}

	return files, nil
}
