package repository

import (
	"context"

	"bookstore-migrator/internal/domains/author/model"
)

// WordPressSource - Đọc dữ liệu nguồn từ WordPress
type WordPressSource interface {
	FetchUsers(ctx context.Context) ([]model.WPUser, error)
	// FetchAutores fetches the author CPT with embedded media; an empty
	// status means no status filter.
	FetchAutores(ctx context.Context, status string) ([]model.WPAutor, error)
}

// ProfileStore - bảng profiles
type ProfileStore interface {
	FindByEmails(ctx context.Context, emails []string) (map[string]model.ExistingProfile, error)
	// FindByIDs keys the result by profile id (= auth user id).
	FindByIDs(ctx context.Context, ids []string) (map[string]model.ExistingProfile, error)
	Upsert(ctx context.Context, profiles []model.Profile) error
	UpdateStatus(ctx context.Context, id, status string) error
}

// IdentityProvider resolves auth identities. CreateUser returns
// model.ErrIdentityExists for a registered email; FindUserByEmail
// returns "" when there is no identity.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email string, metadata map[string]any) (string, error)
	FindUserByEmail(ctx context.Context, email string) (string, error)
}

// AuthorStore - bảng authors (hoặc table cấu hình qua --table)
type AuthorStore interface {
	ExistingWPIDs(ctx context.Context, table string, wpIDs []int64) (map[int64]bool, error)
	Upsert(ctx context.Context, table string, authors []model.Author) error
}

// PhotoStore reads and patches rows whose photo_url still points at the
// old site.
type PhotoStore interface {
	ListByPhotoMatch(ctx context.Context, query PhotoQuery, limit, offset int) ([]model.PhotoRow, error)
	UpdatePhoto(ctx context.Context, query PhotoQuery, id, photoURL, photoPath string) error
}

type PhotoQuery struct {
	Table    string
	IDColumn string
	Match    string
}
