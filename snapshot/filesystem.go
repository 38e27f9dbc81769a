package snapshot

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/siherrmann/dataManager/helper"
)

const (
	STORAGE_MODE_LOCAL  = "local"
	STORAGE_MODE_S3     = "s3"
	STORAGE_MODE_MEMORY = "memory"
)

type File struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

// Filesystem stores snapshot files.
type Filesystem interface {
	Write(path string, reader io.Reader, size int64) error
	Open(path string) (io.ReadCloser, error)
	Delete(path string) error
	ListFiles() ([]File, error)
}

// CreateFilesystemFromEnv creates a filesystem based on environment variables
func CreateFilesystemFromEnv() (Filesystem, error) {
	storageMode := strings.ToLower(helper.GetEnvOrDefault("DATA_MANAGER_SNAPSHOT_MODE", STORAGE_MODE_LOCAL))

	switch storageMode {
	case STORAGE_MODE_S3:
		config := S3Config{
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			Region:          helper.GetEnvOrDefault("S3_REGION", "us-east-1"),
			BucketName:      os.Getenv("S3_BUCKET_NAME"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		}
		if config.BucketName == "" || config.AccessKeyID == "" || config.SecretAccessKey == "" {
			return nil, fmt.Errorf("missing required S3 configuration: S3_BUCKET_NAME, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY")
		}
		return NewFilesystemS3(config)
	case STORAGE_MODE_MEMORY:
		return NewFilesystemMemory(), nil
	case STORAGE_MODE_LOCAL:
		basePath := helper.GetEnvOrDefault("DATA_MANAGER_SNAPSHOT_PATH", "./snapshots")
		return NewFilesystemLocal(basePath), nil
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s (supported: local, s3, memory)", storageMode)
	}
}
