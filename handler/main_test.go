package handler

import (
	"io"
	"log/slog"
	"testing"

	"github.com/siherrmann/dataManager/database"
	"github.com/siherrmann/dataManager/model"
	"github.com/siherrmann/dataManager/snapshot"

	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*ManagerHandler, *database.RowDBHandlerMemory, snapshot.Filesystem) {
	t.Helper()

	rowDB := database.NewRowDBHandlerMemory()
	require.NoError(t, rowDB.ReplaceRows("users", []model.Row{
		model.NewRow("id", "1", "name", "A"),
		model.NewRow("id", "2", "name", "B"),
	}))
	require.NoError(t, rowDB.ReplaceRows("orders", []model.Row{
		model.NewRow("id", "1", "total", "10"),
	}))

	fs := snapshot.NewFilesystemMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManagerHandler(fs, rowDB, logger), rowDB, fs
}
