package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookstore-migrator/internal/infrastructure/httpx"
)

// ErrUserAlreadyExists is returned by CreateUser when GoTrue reports the
// email as registered; callers recover by looking the user up.
var ErrUserAlreadyExists = errors.New("auth user already registered")

const adminUsersPerPage = 1000

type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type createUserRequest struct {
	Email        string         `json:"email"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

type listUsersResponse struct {
	Users []AuthUser `json:"users"`
}

// CreateUser tạo auth identity đã confirm email (không password,
// user tự đặt qua magic link / reset)
func (c *Client) CreateUser(ctx context.Context, email string, metadata map[string]any) (*AuthUser, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/auth/v1/admin/users", nil, createUserRequest{
		Email:        email,
		EmailConfirm: true,
		UserMetadata: metadata,
	})
	if err != nil {
		return nil, err
	}

	var user AuthUser
	if err := c.do(req, &user); err != nil {
		if isAlreadyRegistered(err) {
			return nil, fmt.Errorf("%w: %s", ErrUserAlreadyExists, email)
		}
		return nil, fmt.Errorf("create auth user %s: %w", email, err)
	}
	return &user, nil
}

// ListUsers walks the admin users listing page by page.
func (c *Client) ListUsers(ctx context.Context, fn func(AuthUser) bool) error {
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(adminUsersPerPage))

		req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/admin/users", query, nil)
		if err != nil {
			return err
		}

		var resp listUsersResponse
		if err := c.do(req, &resp); err != nil {
			return fmt.Errorf("list auth users page %d: %w", page, err)
		}

		for _, u := range resp.Users {
			if !fn(u) {
				return nil
			}
		}
		if len(resp.Users) < adminUsersPerPage {
			return nil
		}
	}
}

func isAlreadyRegistered(err error) bool {
	var reqErr *httpx.RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	body := strings.ToLower(reqErr.Body)
	return strings.Contains(body, "already registered") ||
		strings.Contains(body, "already been registered") ||
		strings.Contains(body, "email_exists")
}
