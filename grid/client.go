package grid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/siherrmann/dataManager/model"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RowStore is the remote per-table row store a Session synchronizes with.
type RowStore interface {
	ListTables(ctx context.Context) ([]string, error)
	FetchRows(ctx context.Context, table string) ([]model.Row, error)
	CreateRow(ctx context.Context, table string, row model.Row) (model.Row, error)
	UpdateRow(ctx context.Context, table string, id string, row model.Row) (model.Row, error)
	DeleteRow(ctx context.Context, table string, id string) error
}

// Client implements RowStore against the /api/data HTTP surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default otelhttp instrumented client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for response diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a row store client for the service at baseURL,
// e.g. "http://localhost:3000".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTables fetches the table names with GET /api/data.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	tables := []string{}
	err := c.do(ctx, "list tables", http.MethodGet, "/api/data", nil, &tables)
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// FetchRows fetches the rows of a table with GET /api/data/{table}.
func (c *Client) FetchRows(ctx context.Context, table string) ([]model.Row, error) {
	rows := []model.Row{}
	err := c.do(ctx, "fetch rows", http.MethodGet, "/api/data/"+url.PathEscape(table), nil, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateRow creates a row with POST /api/data?table={table} and returns the canonical row.
func (c *Client) CreateRow(ctx context.Context, table string, row model.Row) (model.Row, error) {
	var created model.Row
	path := "/api/data?table=" + url.QueryEscape(table)
	err := c.do(ctx, "create row", http.MethodPost, path, row, &created)
	if err != nil {
		return model.Row{}, err
	}
	return created, nil
}

// UpdateRow replaces a row with PUT /api/data/{id}?table={table} and returns the canonical row.
func (c *Client) UpdateRow(ctx context.Context, table string, id string, row model.Row) (model.Row, error) {
	var updated model.Row
	path := "/api/data/" + url.PathEscape(id) + "?table=" + url.QueryEscape(table)
	err := c.do(ctx, "update row", http.MethodPut, path, row, &updated)
	if err != nil {
		return model.Row{}, err
	}
	return updated, nil
}

// DeleteRow deletes a row with DELETE /api/data/{table}/{id}.
func (c *Client) DeleteRow(ctx context.Context, table string, id string) error {
	path := "/api/data/" + url.PathEscape(table) + "/" + url.PathEscape(id)
	return c.do(ctx, "delete row", http.MethodDelete, path, nil, nil)
}

// do sends one request and decodes a successful response into out when out is not nil.
func (c *Client) do(ctx context.Context, op string, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Row store response", "op", op, "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode >= 300 {
		return statusError(op, resp)
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	message := errorMessage(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Op: op, StatusCode: resp.StatusCode, Message: message}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ValidationError{Op: op, StatusCode: resp.StatusCode, Message: message}
	default:
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(message)}
	}
}

// errorMessage reads the {"message": "..."} error body, falling back to the status text.
func errorMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && json.Unmarshal(data, &body) == nil && body.Message != "" {
		return body.Message
	}
	return http.StatusText(resp.StatusCode)
}
