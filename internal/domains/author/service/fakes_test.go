package service

import (
	"context"
	"errors"
	"fmt"

	"bookstore-migrator/internal/domains/author/model"
	"bookstore-migrator/internal/domains/author/repository"
	"bookstore-migrator/internal/infrastructure/storage"
)

// ========== WordPress ==========

type fakeSource struct {
	users         []model.WPUser
	autores       []model.WPAutor
	failOnStatus  bool
	autorStatuses []string
}

func (f *fakeSource) FetchUsers(ctx context.Context) ([]model.WPUser, error) {
	return f.users, nil
}

func (f *fakeSource) FetchAutores(ctx context.Context, status string) ([]model.WPAutor, error) {
	f.autorStatuses = append(f.autorStatuses, status)
	if f.failOnStatus && status != "" {
		return nil, errors.New("rest_invalid_param")
	}
	return f.autores, nil
}

// ========== Profiles ==========

type fakeProfiles struct {
	existing      map[string]model.ExistingProfile
	upserted      []model.Profile
	statusUpdates map[string]string
}

func newFakeProfiles(existing ...model.ExistingProfile) *fakeProfiles {
	f := &fakeProfiles{
		existing:      make(map[string]model.ExistingProfile),
		statusUpdates: make(map[string]string),
	}
	for _, p := range existing {
		f.existing[p.Email] = p
	}
	return f
}

func (f *fakeProfiles) FindByEmails(ctx context.Context, emails []string) (map[string]model.ExistingProfile, error) {
	out := make(map[string]model.ExistingProfile)
	for _, e := range emails {
		if p, ok := f.existing[e]; ok {
			out[e] = p
		}
	}
	return out, nil
}

func (f *fakeProfiles) FindByIDs(ctx context.Context, ids []string) (map[string]model.ExistingProfile, error) {
	out := make(map[string]model.ExistingProfile)
	for _, id := range ids {
		for _, p := range f.existing {
			if p.ID == id {
				out[id] = p
			}
		}
	}
	return out, nil
}

func (f *fakeProfiles) Upsert(ctx context.Context, profiles []model.Profile) error {
	f.upserted = append(f.upserted, profiles...)
	return nil
}

func (f *fakeProfiles) UpdateStatus(ctx context.Context, id, status string) error {
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeProfiles) writes() int {
	return len(f.upserted) + len(f.statusUpdates)
}

// ========== Identities ==========

type fakeIdentities struct {
	registered map[string]string // email đã có auth user
	listed     map[string]string // email lookup thấy được
	created    []string
	nextID     int
}

func (f *fakeIdentities) CreateUser(ctx context.Context, email string, metadata map[string]any) (string, error) {
	if _, ok := f.registered[email]; ok {
		return "", fmt.Errorf("%w: %s", model.ErrIdentityExists, email)
	}
	f.nextID++
	f.created = append(f.created, email)
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", f.nextID), nil
}

func (f *fakeIdentities) FindUserByEmail(ctx context.Context, email string) (string, error) {
	return f.listed[email], nil
}

// ========== Authors ==========

type fakeAuthors struct {
	existing map[int64]bool
	upserted []model.Author
	tables   []string
}

func (f *fakeAuthors) ExistingWPIDs(ctx context.Context, table string, wpIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	for _, id := range wpIDs {
		if f.existing[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeAuthors) Upsert(ctx context.Context, table string, authors []model.Author) error {
	f.tables = append(f.tables, table)
	f.upserted = append(f.upserted, authors...)
	return nil
}

// ========== Photos ==========

type photoUpdate struct {
	id, url, path string
}

type fakePhotos struct {
	rows    []model.PhotoRow
	offsets []int
	updates []photoUpdate
}

func (f *fakePhotos) ListByPhotoMatch(ctx context.Context, q repository.PhotoQuery, limit, offset int) ([]model.PhotoRow, error) {
	f.offsets = append(f.offsets, offset)
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], nil
}

func (f *fakePhotos) UpdatePhoto(ctx context.Context, q repository.PhotoQuery, id, photoURL, photoPath string) error {
	f.updates = append(f.updates, photoUpdate{id: id, url: photoURL, path: photoPath})
	return nil
}

type fakeFetcher struct {
	bodies map[string][]byte
	calls  []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*storage.Download, error) {
	f.calls = append(f.calls, url)
	body, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("404 not found")
	}
	return &storage.Download{Data: body, Attempts: 1}, nil
}

type fakeTranscoder struct {
	fail  bool
	calls int
}

func (f *fakeTranscoder) Transcode(src storage.Image) (storage.Image, error) {
	f.calls++
	if f.fail {
		return storage.Image{}, errors.New("cannot decode image")
	}
	return storage.Image{Data: []byte("jpeg"), ContentType: storage.ContentTypeJPEG, Ext: ".jpg"}, nil
}

type upload struct {
	key, contentType string
	data             []byte
}

type fakeStore struct {
	uploads []upload
	taken   map[string]bool
}

func (f *fakeStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.taken[key] {
		return "", storage.ErrObjectExists
	}
	f.uploads = append(f.uploads, upload{key: key, contentType: contentType, data: data})
	return f.PublicURL(key), nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.example/authors/" + key
}
