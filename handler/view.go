package handler

import (
	"fmt"
	"net/url"

	"github.com/siherrmann/dataManager/model"
	"github.com/siherrmann/dataManager/view"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
)

// DataView renders the grid page of the table given by the table query parameter.
func (m *ManagerHandler) DataView(c echo.Context) error {
	table := c.QueryParam("table")

	tables, err := m.rowDB.SelectAllTables()
	if err != nil {
		return m.renderError(c, "Failed to list tables", err)
	}

	rows := []model.Row{}
	if table != "" {
		rows, err = m.rowDB.SelectAllRows(table)
		if err != nil {
			return m.renderError(c, fmt.Sprintf("Failed to get rows of table %s", table), err)
		}
	}

	c.Response().Header().Add("HX-Push-Url", "/data?table="+url.QueryEscape(table))

	return render(c, view.DataPage(view.DataPageProps{
		Tables:    tables,
		Table:     table,
		Rows:      rows,
		CsrfToken: csrf.Token(c.Request()),
	}))
}
