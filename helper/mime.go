package helper

import (
	"mime"
	"path/filepath"
	"strings"
)

// GetMimeType returns the MIME type of a snapshot file. JSON snapshots are
// always application/json, other files fall back to the system table.
func GetMimeType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".json" {
		return "application/json"
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}
