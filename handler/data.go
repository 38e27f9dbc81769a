package handler

import (
	"fmt"
	"net/http"

	"github.com/siherrmann/dataManager/model"
	"github.com/siherrmann/dataManager/view"

	"github.com/labstack/echo/v4"
	vm "github.com/siherrmann/validator/model"
)

// =======API Handlers=======

// GetTables lists the names of all tables.
func (m *ManagerHandler) GetTables(c echo.Context) error {
	tables, err := m.rowDB.SelectAllTables()
	if err != nil {
		return m.renderError(c, "Failed to list tables", err)
	}
	return c.JSON(http.StatusOK, tables)
}

// GetRows returns all rows of a table in insertion order.
func (m *ManagerHandler) GetRows(c echo.Context) error {
	table := c.Param("table")

	rows, err := m.rowDB.SelectAllRows(table)
	if err != nil {
		return m.renderError(c, fmt.Sprintf("Failed to get rows of table %s", table), err)
	}
	return c.JSON(http.StatusOK, rows)
}

// AddRow creates a row in the table given by the table query parameter.
// htmx requests get a confirmation popup and a rowAdded trigger that
// reloads the row table.
func (m *ManagerHandler) AddRow(c echo.Context) error {
	table := c.QueryParam("table")

	row, err := bindRow(c)
	if err != nil {
		return renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Invalid row: %v", err))
	}

	err = m.validateParameters(map[string]any{"table": table, "id": row.ID()}, []vm.Validation{
		{Key: "table", Type: vm.String, Requirement: "min1"},
		{Key: "id", Type: vm.String, Requirement: "min1"},
	})
	if err != nil {
		return renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
	}

	inserted, err := m.rowDB.InsertRow(table, row)
	if err != nil {
		return m.renderError(c, "Failed to add row", err)
	}

	if c.Request().Header.Get("HX-Request") != "" {
		c.Response().Header().Set("HX-Trigger", "rowAdded")
		return renderPopup(c, view.PopupSuccess("Info", fmt.Sprintf("Row %s added to table %s", inserted.ID(), table)), http.StatusCreated)
	}

	return c.JSON(http.StatusCreated, inserted)
}

// UpdateRow replaces the fields of the row with the path id. Without table
// query parameter the table is resolved from the id.
func (m *ManagerHandler) UpdateRow(c echo.Context) error {
	id := c.Param("id")
	table := c.QueryParam("table")

	err := m.validateParameters(map[string]any{"id": id}, []vm.Validation{
		{Key: "id", Type: vm.String, Requirement: "min1"},
	})
	if err != nil {
		return renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
	}

	row, err := bindRow(c)
	if err != nil {
		return renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Invalid row: %v", err))
	}

	if table == "" {
		table, err = m.rowDB.ResolveTable(id)
		if err != nil {
			return m.renderError(c, "Failed to resolve table", err)
		}
	}

	updated, err := m.rowDB.UpdateRow(table, id, row)
	if err != nil {
		return m.renderError(c, "Failed to update row", err)
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteRow deletes one row. Deleting a missing row is answered with 404.
func (m *ManagerHandler) DeleteRow(c echo.Context) error {
	table := c.Param("table")
	id := c.Param("id")

	err := m.validateParameters(map[string]any{"table": table, "id": id}, []vm.Validation{
		{Key: "table", Type: vm.String, Requirement: "min1"},
		{Key: "id", Type: vm.String, Requirement: "min1"},
	})
	if err != nil {
		return renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
	}

	err = m.rowDB.DeleteRow(table, id)
	if err != nil {
		return m.renderError(c, "Failed to delete row", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func bindRow(c echo.Context) (model.Row, error) {
	var row model.Row
	err := c.Bind(&row)
	if err != nil {
		return model.Row{}, err
	}
	return row, nil
}
