package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookstore-migrator/internal/config"
	"bookstore-migrator/internal/infrastructure/httpx"
	"bookstore-migrator/internal/shared/utils"
)

// InChunkSize là số value tối đa trong một filter in.(...)
const InChunkSize = 100

// Client là wrapper mỏng cho Supabase REST (PostgREST), Auth admin và Storage
// Mọi request đều gửi service key qua apikey + Authorization: Bearer
type Client struct {
	baseURL    string
	key        string
	bucket     string
	httpClient *http.Client
}

func NewClient(cfg config.SupabaseConfig, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		key:        cfg.ServiceKey,
		bucket:     cfg.StorageBucket,
		httpClient: httpClient,
	}
}

// =====================================================
// LOW-LEVEL REQUEST HELPERS
// =====================================================

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, query url.Values, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes req and decodes the JSON body into out. HTTP 204 and empty
// bodies mean "no data" and leave out untouched.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Supabase: %w", err)
	}

	status := resp.StatusCode
	body, err := httpx.ReadBody(resp)
	if err != nil {
		return err
	}

	if out == nil || status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// =====================================================
// POSTGREST
// =====================================================

// SelectWhereIn runs one GET per chunk of 100 values and concatenates results.
func SelectWhereIn[T any](ctx context.Context, c *Client, table, columns, column string, values []string) ([]T, error) {
	var all []T
	for _, chunk := range utils.Chunk(values, InChunkSize) {
		query := url.Values{}
		query.Set("select", columns)
		query.Set(column, InFilter(chunk))

		req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/"+table, query, nil)
		if err != nil {
			return nil, err
		}

		var rows []T
		if err := c.do(req, &rows); err != nil {
			return nil, fmt.Errorf("select %s where %s in (...): %w", table, column, err)
		}
		all = append(all, rows...)
	}
	return all, nil
}

// SelectPage fetches one page of rows with PostgREST filters (e.g.
// photo_url=like.*wp-content*), ordered by order.
func SelectPage[T any](ctx context.Context, c *Client, table, columns string, filters url.Values, order string, limit, offset int) ([]T, error) {
	query := url.Values{}
	for k, vs := range filters {
		query[k] = append([]string(nil), vs...)
	}
	query.Set("select", columns)
	if order != "" {
		query.Set("order", order)
	}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/"+table, query, nil)
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := c.do(req, &rows); err != nil {
		return nil, fmt.Errorf("select page of %s: %w", table, err)
	}
	return rows, nil
}

// Upsert issues a single POST with on_conflict and merge-duplicates.
// The caller is responsible for chunking rows.
func (c *Client) Upsert(ctx context.Context, table string, rows any, onConflict string) error {
	query := url.Values{}
	if onConflict != "" {
		query.Set("on_conflict", onConflict)
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, "/rest/v1/"+table, query, rows)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("upsert into %s: %w", table, err)
	}
	return nil
}

// Update patches the rows where column equals value.
func (c *Client) Update(ctx context.Context, table, column, value string, patch any) error {
	query := url.Values{}
	query.Set(column, "eq."+value)

	req, err := c.newJSONRequest(ctx, http.MethodPatch, "/rest/v1/"+table, query, patch)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("update %s where %s=%s: %w", table, column, value, err)
	}
	return nil
}

// InFilter builds a PostgREST in.(...) filter, double-quoting every value.
func InFilter(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		quoted[i] = `"` + v + `"`
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}

// LikeFilter: like.*value* (PostgREST dùng * thay cho %)
func LikeFilter(substr string) string {
	return "like.*" + substr + "*"
}
