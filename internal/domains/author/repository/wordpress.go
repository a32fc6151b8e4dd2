package repository

import (
	"context"
	"net/url"

	"bookstore-migrator/internal/domains/author/model"
	"bookstore-migrator/internal/infrastructure/wordpress"
)

type wordpressSource struct {
	client    *wordpress.Client
	authorCPT string
}

func NewWordPressSource(client *wordpress.Client, authorCPT string) WordPressSource {
	return &wordpressSource{
		client:    client,
		authorCPT: authorCPT,
	}
}

// FetchUsers dùng context=edit để lấy email và roles
func (s *wordpressSource) FetchUsers(ctx context.Context) ([]model.WPUser, error) {
	params := url.Values{}
	params.Set("context", "edit")
	return wordpress.FetchAllAs[model.WPUser](ctx, s.client, "users", params)
}

func (s *wordpressSource) FetchAutores(ctx context.Context, status string) ([]model.WPAutor, error) {
	params := url.Values{}
	params.Set("_embed", "1")
	if status != "" {
		params.Set("status", status)
	}
	return wordpress.FetchAllAs[model.WPAutor](ctx, s.client, s.authorCPT, params)
}
