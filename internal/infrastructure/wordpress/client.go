package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookstore-migrator/internal/config"
	"bookstore-migrator/internal/infrastructure/httpx"

	"github.com/rs/zerolog/log"
)

// DefaultPageSize là page size tối đa WordPress REST API cho phép
const DefaultPageSize = 100

// Client đọc dữ liệu từ WordPress REST API (wp-json/wp/v2) với Basic auth
// (Application Password)
type Client struct {
	baseURL    string
	user       string
	password   string
	pageSize   int
	httpClient *http.Client
}

func NewClient(cfg config.WordPressConfig, httpClient *http.Client) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		user:       cfg.User,
		password:   cfg.AppPassword,
		pageSize:   pageSize,
		httpClient: httpClient,
	}
}

// FetchAll requests every page of a collection resource and returns the raw
// items in server order. Paging stops at X-WP-TotalPages; a missing or zero
// header ends after the current page. Non-2xx responses are returned as
// *httpx.RequestError without retrying.
func (c *Client) FetchAll(ctx context.Context, resource string, params url.Values) ([]json.RawMessage, error) {
	var all []json.RawMessage

	for page := 1; ; page++ {
		items, totalPages, err := c.fetchPage(ctx, resource, params, page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		log.Debug().
			Str("resource", resource).
			Int("page", page).
			Int("total_pages", totalPages).
			Int("items", len(items)).
			Msg("WordPress page fetched")

		if totalPages <= 0 || page >= totalPages || len(items) == 0 {
			break
		}
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, resource string, params url.Values, page int) ([]json.RawMessage, int, error) {
	query := url.Values{}
	for k, vs := range params {
		query[k] = append([]string(nil), vs...)
	}
	query.Set("per_page", strconv.Itoa(c.pageSize))
	query.Set("page", strconv.Itoa(page))

	endpoint := fmt.Sprintf("%s/wp-json/wp/v2/%s?%s", c.baseURL, strings.Trim(resource, "/"), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to call WordPress API: %w", err)
	}

	body, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, 0, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s page %d: %w", resource, page, err)
	}

	totalPages, _ := strconv.Atoi(resp.Header.Get("X-WP-TotalPages"))
	return items, totalPages, nil
}

// FetchAllAs is FetchAll decoding every item into T.
func FetchAllAs[T any](ctx context.Context, c *Client, resource string, params url.Values) ([]T, error) {
	raw, err := c.FetchAll(ctx, resource, params)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for i, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s item %d: %w", resource, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
