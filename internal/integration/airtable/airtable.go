// Package airtable is a minimal client for the Airtable REST API, scoped
// to what imports need: reading a base's schema and listing records.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Record is one row of an Airtable table. Fields are kept raw; the import
// pipeline maps them onto domain params.
type Record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime"`
}

// Table describes one table in a base schema.
type Table struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListRecordsQuery narrows a record listing.
type ListRecordsQuery struct {
	View            string
	Fields          []string
	FilterByFormula string
	PageSize        int
}

// Client reads base data from Airtable.
type Client interface {
	ListTables(ctx context.Context, baseID string) ([]Table, error)
	ListRecords(ctx context.Context, baseID, tableIDOrName string, query ListRecordsQuery) ([]Record, error)
}

const defaultBaseURL = "https://api.airtable.com/v0"

// HTTPClient implements Client over the REST API with bearer-token auth.
type HTTPClient struct {
	http    *http.Client
	baseURL string
	token   string
}

type HTTPOption func(*HTTPClient)

// WithBaseURL points the client at a non-default endpoint, for tests.
func WithBaseURL(baseURL string) HTTPOption {
	return func(c *HTTPClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPDoer(h *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if h != nil {
			c.http = h
		}
	}
}

func NewHTTPClient(token string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, dest any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build airtable request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("airtable request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("airtable request %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode airtable response: %w", err)
	}
	return nil
}

func (c *HTTPClient) ListTables(ctx context.Context, baseID string) ([]Table, error) {
	var out struct {
		Tables []Table `json:"tables"`
	}
	if err := c.get(ctx, "/meta/bases/"+baseID+"/tables", nil, &out); err != nil {
		return nil, err
	}
	return out.Tables, nil
}

// ListRecords follows the offset cursor until the listing is exhausted.
func (c *HTTPClient) ListRecords(ctx context.Context, baseID, tableIDOrName string, query ListRecordsQuery) ([]Record, error) {
	values := url.Values{}
	if query.View != "" {
		values.Set("view", query.View)
	}
	if query.FilterByFormula != "" {
		values.Set("filterByFormula", query.FilterByFormula)
	}
	for _, f := range query.Fields {
		values.Add("fields[]", f)
	}
	if query.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(query.PageSize))
	}

	var records []Record
	for {
		var page struct {
			Records []Record `json:"records"`
			Offset  string   `json:"offset"`
		}
		if err := c.get(ctx, "/"+baseID+"/"+url.PathEscape(tableIDOrName), values, &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)
		if page.Offset == "" {
			return records, nil
		}
		values.Set("offset", page.Offset)
	}
}

// Noop satisfies Client for environments without an API token.
type Noop struct{}

func (Noop) ListTables(context.Context, string) ([]Table, error) { return nil, nil }

func (Noop) ListRecords(context.Context, string, string, ListRecordsQuery) ([]Record, error) {
	return nil, nil
}
