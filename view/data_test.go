package view

import (
	"bytes"
	"context"
	"testing"

	"github.com/siherrmann/dataManager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataPage(t *testing.T) {
	t.Run("Renders header from first row and escapes values", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := DataPage(DataPageProps{
			Tables: []string{"users", "orders"},
			Table:  "users",
			Rows: []model.Row{
				model.NewRow("id", "1", "name", "<b>A</b>"),
			},
			CsrfToken: "token",
		}).Render(context.Background(), buf)
		require.NoError(t, err)

		html := buf.String()
		assert.Contains(t, html, `<th>Id</th><th>Name</th>`)
		assert.Contains(t, html, `&lt;b&gt;A&lt;/b&gt;`)
		assert.NotContains(t, html, `<b>A</b>`)
		assert.Contains(t, html, `<option value="users" selected>users</option>`)
		assert.Contains(t, html, `content="token"`)
	})

	t.Run("Renders empty state", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := DataPage(DataPageProps{}).Render(context.Background(), buf)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "No data available.")
		assert.NotContains(t, buf.String(), `id="add-row"`)
	})

	t.Run("Renders add row form for the selected table", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := DataPage(DataPageProps{
			Tables: []string{"users"},
			Table:  "users",
			Rows: []model.Row{
				model.NewRow("id", "1", "name", "A"),
			},
			CsrfToken: "token",
		}).Render(context.Background(), buf)
		require.NoError(t, err)

		html := buf.String()
		assert.Contains(t, html, `hx-post="/api/data?table=users"`)
		assert.Contains(t, html, `hx-ext="json-enc"`)
		assert.Contains(t, html, `hx-headers="{&#34;X-CSRF-Token&#34;:&#34;token&#34;}"`)
		assert.Contains(t, html, `name="id"`)
		assert.Contains(t, html, `name="name"`)
		assert.Contains(t, html, `<button type="submit">Add Row</button>`)
		assert.Contains(t, html, `hx-trigger="rowAdded from:body"`)
	})

	t.Run("Add row form of an empty table uses the initial draft fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := AddRowForm("items", AddRowColumns(nil), "token").Render(context.Background(), buf)
		require.NoError(t, err)

		html := buf.String()
		assert.Contains(t, html, `hx-post="/api/data?table=items"`)
		assert.Contains(t, html, `name="id"`)
		assert.Contains(t, html, `name="field1"`)
	})

	t.Run("Table name is escaped in request urls", func(t *testing.T) {
		assert.Equal(t, "/api/data?table=a+b%26c", addRowURL("a b&c"))
		assert.Equal(t, "/data?table=a+b%26c", dataURL("a b&c"))
	})
}

func TestPopups(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, PopupError("Error", "bad & worse").Render(context.Background(), buf))
	assert.Contains(t, buf.String(), "popup-error")
	assert.Contains(t, buf.String(), "bad &amp; worse")

	t.Run("Success popup", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, PopupSuccess("Info", "Row 3 added to table users").Render(context.Background(), buf))
		assert.Contains(t, buf.String(), "popup-success")
		assert.Contains(t, buf.String(), "<h2>Info</h2>")
		assert.Contains(t, buf.String(), "Row 3 added to table users")
	})
}
