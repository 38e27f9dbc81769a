package grid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/siherrmann/dataManager/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusServer(t *testing.T, status int, body string) *Client {
	t.Helper()
	e := echo.New()
	e.Any("/*", func(c echo.Context) error {
		return c.Blob(status, echo.MIMEApplicationJSON, []byte(body))
	})
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return NewClient(server.URL, WithHTTPClient(server.Client()))
}

func TestClientStatusMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("Not found", func(t *testing.T) {
		client := newStatusServer(t, http.StatusNotFound, `{"message":"row not found"}`)
		err := client.DeleteRow(ctx, "users", "2")

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "row not found", notFound.Message)
		assert.Equal(t, "delete row", notFound.Op)
	})

	t.Run("Conflict is a validation error", func(t *testing.T) {
		client := newStatusServer(t, http.StatusConflict, `{"message":"duplicate"}`)
		_, err := client.CreateRow(ctx, "users", model.NewRow("id", "1"))

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, http.StatusConflict, validationErr.StatusCode)
	})

	t.Run("Server error is a network error", func(t *testing.T) {
		client := newStatusServer(t, http.StatusInternalServerError, `not json`)
		_, err := client.FetchRows(ctx, "users")

		var networkErr *NetworkError
		require.ErrorAs(t, err, &networkErr)
		assert.Equal(t, http.StatusInternalServerError, networkErr.StatusCode)
	})

	t.Run("Undecodable success body is a network error", func(t *testing.T) {
		client := newStatusServer(t, http.StatusOK, `{"id":`)
		_, err := client.UpdateRow(ctx, "users", "1", model.NewRow("id", "1"))

		var networkErr *NetworkError
		require.ErrorAs(t, err, &networkErr)
	})

	t.Run("Unreachable server is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := NewClient(url).ListTables(ctx)
		var networkErr *NetworkError
		require.ErrorAs(t, err, &networkErr)
		assert.Equal(t, 0, networkErr.StatusCode)
	})
}

func TestClientRequests(t *testing.T) {
	ctx := context.Background()

	var method, path, query string
	e := echo.New()
	e.Any("/*", func(c echo.Context) error {
		method = c.Request().Method
		path = c.Request().URL.EscapedPath()
		query = c.Request().URL.RawQuery
		if method == http.MethodDelete {
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"id":"a b","name":"Z"}`))
	})
	server := httptest.NewServer(e)
	defer server.Close()

	client := NewClient(server.URL+"/", WithHTTPClient(server.Client()))

	updated, err := client.UpdateRow(ctx, "my table", "a b", model.NewRow("id", "a b", "name", "Z"))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/api/data/a%20b", path)
	assert.Equal(t, "table=my+table", query)
	assert.Equal(t, "a b", updated.ID())

	require.NoError(t, client.DeleteRow(ctx, "my table", "a b"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/api/data/my%20table/a%20b", path)

	_, err = client.CreateRow(ctx, "users", model.NewRow("id", "1"))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/data", path)
	assert.Equal(t, "table=users", query)
}
