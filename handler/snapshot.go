package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/siherrmann/dataManager/model"
	"github.com/siherrmann/dataManager/snapshot"

	"github.com/labstack/echo/v4"
)

// ExportSnapshot writes all rows of a table to the snapshot filesystem.
func (m *ManagerHandler) ExportSnapshot(c echo.Context) error {
	table := c.Param("table")

	rows, err := m.rowDB.SelectAllRows(table)
	if err != nil {
		return m.renderError(c, fmt.Sprintf("Failed to export table %s", table), err)
	}

	name, err := snapshot.Write(m.filesystem, model.Snapshot{
		Table:     table,
		Rows:      rows,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		m.logger.Error("Failed to write snapshot", "table", table, "error", err)
		return renderPopupOrJson(c, http.StatusInternalServerError, fmt.Sprintf("Failed to write snapshot of table %s", table))
	}

	return renderPopupOrJson(c, http.StatusOK, fmt.Sprintf("Exported %d row(s) of table %s", len(rows), table), name)
}

// ImportSnapshot replaces the rows of the table named by the snapshot file.
func (m *ManagerHandler) ImportSnapshot(c echo.Context) error {
	name := c.Param("name")

	snap, err := snapshot.Read(m.filesystem, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return renderPopupOrJson(c, http.StatusNotFound, fmt.Sprintf("Snapshot %s not found", name))
		}
		return renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Failed to read snapshot %s: %v", name, err))
	}

	table := snapshot.TableName(name)
	err = m.rowDB.ReplaceRows(table, snap.Rows)
	if err != nil {
		return m.renderError(c, fmt.Sprintf("Failed to import snapshot %s", name), err)
	}

	return renderPopupOrJson(c, http.StatusOK, fmt.Sprintf("Imported %d row(s) into table %s", len(snap.Rows), table), table)
}

func (m *ManagerHandler) GetSnapshots(c echo.Context) error {
	files, err := m.filesystem.ListFiles()
	if err != nil {
		m.logger.Error("Failed to list snapshots", "error", err)
		return renderPopupOrJson(c, http.StatusInternalServerError, "Failed to list snapshots")
	}
	if files == nil {
		files = []snapshot.File{}
	}
	return c.JSON(http.StatusOK, files)
}

func (m *ManagerHandler) DeleteSnapshot(c echo.Context) error {
	name := c.Param("name")

	err := m.filesystem.Delete(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return renderPopupOrJson(c, http.StatusNotFound, fmt.Sprintf("Snapshot %s not found", name))
		}
		m.logger.Error("Failed to delete snapshot", "name", name, "error", err)
		return renderPopupOrJson(c, http.StatusInternalServerError, fmt.Sprintf("Failed to delete snapshot %s", name))
	}

	return renderPopupOrJson(c, http.StatusOK, fmt.Sprintf("Snapshot %s deleted successfully", name))
}
