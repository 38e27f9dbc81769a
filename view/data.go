package view

import (
	"encoding/json"
	"net/url"

	"github.com/siherrmann/dataManager/grid"
	"github.com/siherrmann/dataManager/model"
)

type DataPageProps struct {
	Tables    []string
	Table     string
	Rows      []model.Row
	CsrfToken string
}

// AddRowColumns returns the inputs of the add-row form: the columns of the
// table, or the fields of an empty new-row draft when the table has no rows.
func AddRowColumns(rows []model.Row) []string {
	if len(rows) == 0 {
		return grid.NewDrafts().NewDraft().Keys()
	}
	return grid.Columns(rows)
}

func addRowURL(table string) string {
	return "/api/data?table=" + url.QueryEscape(table)
}

func dataURL(table string) string {
	return "/data?table=" + url.QueryEscape(table)
}

func csrfHeaders(token string) string {
	headers, err := json.Marshal(map[string]string{"X-CSRF-Token": token})
	if err != nil {
		return "{}"
	}
	return string(headers)
}
