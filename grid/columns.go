package grid

import "github.com/siherrmann/dataManager/model"

// Columns returns the column identifiers of a row sequence: the fields of
// its first row in their order. An empty sequence has no columns.
func Columns(rows []model.Row) []string {
	if len(rows) == 0 {
		return []string{}
	}
	return rows[0].Keys()
}
