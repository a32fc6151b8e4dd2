package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"bookstore-migrator/internal/domains/author/model"
	"bookstore-migrator/internal/infrastructure/supabase"
	"bookstore-migrator/internal/shared/utils"
)

// UpsertChunkSize là số row tối đa mỗi POST upsert
const UpsertChunkSize = 100

const profilesTable = "profiles"

// =====================================================
// PROFILES
// =====================================================

type profileStore struct {
	client *supabase.Client
}

func NewProfileStore(client *supabase.Client) ProfileStore {
	return &profileStore{client: client}
}

// FindByEmails keys the result by lower-cased email.
func (s *profileStore) FindByEmails(ctx context.Context, emails []string) (map[string]model.ExistingProfile, error) {
	rows, err := supabase.SelectWhereIn[model.ExistingProfile](ctx, s.client, profilesTable, "id,email,role,status", "email", emails)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]model.ExistingProfile, len(rows))
	for _, row := range rows {
		existing[model.NormalizeEmail(row.Email)] = row
	}
	return existing, nil
}

// FindByIDs bắt được profile mà email match (case-sensitive) bỏ sót,
// ví dụ email lưu dạng Admin@Livraria.mz.
func (s *profileStore) FindByIDs(ctx context.Context, ids []string) (map[string]model.ExistingProfile, error) {
	rows, err := supabase.SelectWhereIn[model.ExistingProfile](ctx, s.client, profilesTable, "id,email,role,status", "id", ids)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]model.ExistingProfile, len(rows))
	for _, row := range rows {
		existing[row.ID] = row
	}
	return existing, nil
}

// Upsert gửi theo chunk. PostgREST yêu cầu mọi row trong một bulk insert
// có cùng tập key, nên row có status và row không có status đi riêng.
func (s *profileStore) Upsert(ctx context.Context, profiles []model.Profile) error {
	var withStatus, withoutStatus []model.Profile
	for _, p := range profiles {
		if p.Status != nil {
			withStatus = append(withStatus, p)
		} else {
			withoutStatus = append(withoutStatus, p)
		}
	}

	for _, group := range [][]model.Profile{withStatus, withoutStatus} {
		for _, chunk := range utils.Chunk(group, UpsertChunkSize) {
			if err := s.client.Upsert(ctx, profilesTable, chunk, "id"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *profileStore) UpdateStatus(ctx context.Context, id, status string) error {
	return s.client.Update(ctx, profilesTable, "id", id, map[string]string{"status": status})
}

// =====================================================
// AUTH IDENTITIES
// =====================================================

// identityProvider caches the admin user listing on first lookup so a run
// with many "already registered" emails lists users once.
type identityProvider struct {
	client *supabase.Client

	mu      sync.Mutex
	byEmail map[string]string
}

func NewIdentityProvider(client *supabase.Client) IdentityProvider {
	return &identityProvider{client: client}
}

func (p *identityProvider) CreateUser(ctx context.Context, email string, metadata map[string]any) (string, error) {
	user, err := p.client.CreateUser(ctx, email, metadata)
	if errors.Is(err, supabase.ErrUserAlreadyExists) {
		return "", fmt.Errorf("%w: %s", model.ErrIdentityExists, email)
	}
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	if p.byEmail != nil {
		p.byEmail[model.NormalizeEmail(user.Email)] = user.ID
	}
	p.mu.Unlock()
	return user.ID, nil
}

func (p *identityProvider) FindUserByEmail(ctx context.Context, email string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.byEmail == nil {
		byEmail := make(map[string]string)
		err := p.client.ListUsers(ctx, func(u supabase.AuthUser) bool {
			byEmail[model.NormalizeEmail(u.Email)] = u.ID
			return true
		})
		if err != nil {
			return "", fmt.Errorf("failed to list auth users: %w", err)
		}
		p.byEmail = byEmail
	}
	return p.byEmail[model.NormalizeEmail(email)], nil
}

// =====================================================
// AUTHORS
// =====================================================

type authorStore struct {
	client *supabase.Client
}

func NewAuthorStore(client *supabase.Client) AuthorStore {
	return &authorStore{client: client}
}

func (s *authorStore) ExistingWPIDs(ctx context.Context, table string, wpIDs []int64) (map[int64]bool, error) {
	values := make([]string, len(wpIDs))
	for i, id := range wpIDs {
		values[i] = strconv.FormatInt(id, 10)
	}

	type row struct {
		WPID int64 `json:"wp_id"`
	}
	rows, err := supabase.SelectWhereIn[row](ctx, s.client, table, "wp_id", "wp_id", values)
	if err != nil {
		return nil, err
	}

	existing := make(map[int64]bool, len(rows))
	for _, r := range rows {
		existing[r.WPID] = true
	}
	return existing, nil
}

func (s *authorStore) Upsert(ctx context.Context, table string, authors []model.Author) error {
	for _, chunk := range utils.Chunk(authors, UpsertChunkSize) {
		if err := s.client.Upsert(ctx, table, chunk, "wp_id"); err != nil {
			return err
		}
	}
	return nil
}

// =====================================================
// PHOTOS
// =====================================================

type photoStore struct {
	client *supabase.Client
}

func NewPhotoStore(client *supabase.Client) PhotoStore {
	return &photoStore{client: client}
}

func (s *photoStore) ListByPhotoMatch(ctx context.Context, q PhotoQuery, limit, offset int) ([]model.PhotoRow, error) {
	filters := url.Values{}
	filters.Set("photo_url", supabase.LikeFilter(q.Match))

	rows, err := supabase.SelectPage[map[string]json.RawMessage](ctx, s.client, q.Table,
		q.IDColumn+",photo_url", filters, q.IDColumn+".asc", limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]model.PhotoRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.PhotoRow{
			ID:       rawScalar(r[q.IDColumn]),
			PhotoURL: rawScalar(r["photo_url"]),
		})
	}
	return out, nil
}

func (s *photoStore) UpdatePhoto(ctx context.Context, q PhotoQuery, id, photoURL, photoPath string) error {
	return s.client.Update(ctx, q.Table, q.IDColumn, id, map[string]string{
		"photo_url":  photoURL,
		"photo_path": photoPath,
	})
}

// rawScalar: id có thể là uuid (string) hoặc bigint (number)
func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return strings.TrimSpace(s)
		}
	}
	return string(raw)
}
