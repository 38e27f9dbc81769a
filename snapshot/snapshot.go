package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/siherrmann/dataManager/model"
)

const fileExtension = ".json"

// FileName returns the snapshot file name of a table.
func FileName(table string) string {
	return path.Base(table) + fileExtension
}

// TableName returns the table a snapshot file name refers to.
func TableName(name string) string {
	return strings.TrimSuffix(path.Base(name), fileExtension)
}

// Write stores the snapshot of a table and returns the file name used.
func Write(fs Filesystem, snapshot model.Snapshot) (string, error) {
	if snapshot.Table == "" {
		return "", fmt.Errorf("snapshot table name is required")
	}
	if snapshot.Rows == nil {
		snapshot.Rows = []model.Row{}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	name := FileName(snapshot.Table)
	err = fs.Write(name, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", name, err)
	}

	return name, nil
}

// Read loads a snapshot file. A snapshot without table name takes it from the file name.
func Read(fs Filesystem, name string) (model.Snapshot, error) {
	file, err := fs.Open(name)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("open snapshot %s: %w", name, err)
	}
	defer file.Close()

	var snapshot model.Snapshot
	err = json.NewDecoder(file).Decode(&snapshot)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", name, err)
	}

	if snapshot.Table == "" {
		snapshot.Table = TableName(name)
	}

	return snapshot, nil
}
