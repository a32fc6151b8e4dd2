package service

import (
	"context"
	"testing"

	"bookstore-migrator/internal/domains/author/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func wpUsers() []model.WPUser {
	return []model.WPUser{
		{ID: 1, Email: "Admin@Livraria.mz", Name: "Admin", Roles: []string{"administrator"}},
		{ID: 2, Email: "mia@livraria.mz", Name: "Mia Couto", Roles: []string{"Author"}},
		{ID: 3, Email: "", Name: "Sem Email", Roles: []string{"author"}},
		{ID: 4, Email: "MIA@livraria.mz", Name: "Mia Duplicada", Roles: []string{"author"}},
		{ID: 5, Email: "paulina@livraria.mz", Name: "Paulina", Roles: nil},
		{ID: 6, Email: "leitor@livraria.mz", Name: "Leitor", Roles: []string{"subscriber"}},
	}
}

func TestUserImport_AdminNeverModified(t *testing.T) {
	profiles := newFakeProfiles(model.ExistingProfile{
		ID:    "a0000000-0000-4000-8000-000000000001",
		Email: "admin@livraria.mz",
		Role:  strPtr(model.RoleAdmin),
	})
	ids := &fakeIdentities{}
	svc := NewUserImportService(&fakeSource{users: wpUsers()}, profiles, ids)

	for _, opts := range []UserImportOptions{
		{},
		{UpdateExisting: true},
		{UpdateExisting: true, ForceStatus: true, Status: model.StatusPending},
	} {
		profiles.upserted = nil
		res, err := svc.Run(context.Background(), opts)
		require.NoError(t, err)
		assert.Equal(t, 1, res.SkippedAdmin)

		for _, p := range profiles.upserted {
			assert.NotEqual(t, "admin@livraria.mz", p.Email)
		}
		_, touched := profiles.statusUpdates["a0000000-0000-4000-8000-000000000001"]
		assert.False(t, touched)
	}
}

func TestUserImport_CountersAndStatusRules(t *testing.T) {
	profiles := newFakeProfiles(
		model.ExistingProfile{ID: "b0000000-0000-4000-8000-000000000002", Email: "mia@livraria.mz", Role: strPtr(model.RoleAuthor)},
		model.ExistingProfile{ID: "b0000000-0000-4000-8000-000000000005", Email: "paulina@livraria.mz", Role: strPtr(model.RoleAuthor), Status: strPtr(model.StatusRejected)},
	)
	ids := &fakeIdentities{}
	svc := NewUserImportService(&fakeSource{users: wpUsers()}, profiles, ids)

	res, err := svc.Run(context.Background(), UserImportOptions{
		Roles:  []string{"AUTHOR", "administrator"},
		Status: model.StatusApproved,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Fetched)
	assert.Equal(t, 1, res.SkippedNoEmail)
	assert.Equal(t, 1, res.SkippedDuplicateEmail)
	assert.Equal(t, 1, res.StatusBackfilled) // mia chưa có status
	assert.Equal(t, 1, res.SkippedExisting)  // paulina giữ rejected
	assert.Equal(t, 1, res.Created)          // admin@ chưa có profile → tạo mới
	assert.Equal(t, 0, res.Updated)

	assert.Equal(t, map[string]string{"b0000000-0000-4000-8000-000000000002": model.StatusApproved}, profiles.statusUpdates)
	require.Len(t, profiles.upserted, 1)
	created := profiles.upserted[0]
	assert.Equal(t, "admin@livraria.mz", created.Email)
	assert.Equal(t, model.RoleAuthor, created.Role)
	require.NotNil(t, created.Status)
	assert.Equal(t, model.StatusApproved, *created.Status)
	assert.Equal(t, []string{"admin@livraria.mz"}, ids.created)
}

func TestUserImport_UpdateExistingPreservesStatusUnlessForced(t *testing.T) {
	existing := model.ExistingProfile{
		ID:     "c0000000-0000-4000-8000-000000000005",
		Email:  "paulina@livraria.mz",
		Role:   strPtr(model.RoleAuthor),
		Status: strPtr(model.StatusRejected),
	}
	users := []model.WPUser{{ID: 5, Email: "paulina@livraria.mz", Name: "Paulina Chiziane"}}

	profiles := newFakeProfiles(existing)
	svc := NewUserImportService(&fakeSource{users: users}, profiles, &fakeIdentities{})

	res, err := svc.Run(context.Background(), UserImportOptions{UpdateExisting: true, Status: model.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, profiles.upserted, 1)
	assert.Equal(t, existing.ID, profiles.upserted[0].ID)
	// update-existing ghi lại status
	require.NotNil(t, profiles.upserted[0].Status)

	// existing author, không update: force-status ghi đè status
	profiles = newFakeProfiles(existing)
	svc = NewUserImportService(&fakeSource{users: users}, profiles, &fakeIdentities{})
	res, err = svc.Run(context.Background(), UserImportOptions{ForceStatus: true, Status: model.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, res.StatusBackfilled)
	assert.Equal(t, model.StatusPending, profiles.statusUpdates[existing.ID])
	assert.Empty(t, profiles.upserted)
}

func TestUserImport_DryRunWritesNothing(t *testing.T) {
	profiles := newFakeProfiles(
		model.ExistingProfile{ID: "b0000000-0000-4000-8000-000000000002", Email: "mia@livraria.mz", Role: strPtr(model.RoleAuthor)},
	)
	ids := &fakeIdentities{}
	svc := NewUserImportService(&fakeSource{users: wpUsers()}, profiles, ids)

	dry, err := svc.Run(context.Background(), UserImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Zero(t, profiles.writes())
	assert.Empty(t, ids.created)

	real, err := svc.Run(context.Background(), UserImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, real, dry)
	assert.NotZero(t, profiles.writes())
}

func TestUserImport_AlreadyRegisteredFallsBackToLookup(t *testing.T) {
	users := []model.WPUser{
		{ID: 10, Email: "found@livraria.mz", Name: "Found"},
		{ID: 11, Email: "ghost@livraria.mz", Name: "Ghost"},
	}
	ids := &fakeIdentities{
		registered: map[string]string{"found@livraria.mz": "", "ghost@livraria.mz": ""},
		listed:     map[string]string{"found@livraria.mz": "d0000000-0000-4000-8000-000000000010"},
	}
	profiles := newFakeProfiles()
	svc := NewUserImportService(&fakeSource{users: users}, profiles, ids)

	res, err := svc.Run(context.Background(), UserImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.SkippedNoIdentity)
	require.Len(t, profiles.upserted, 1)
	assert.Equal(t, "d0000000-0000-4000-8000-000000000010", profiles.upserted[0].ID)
}

func TestUserImport_LimitTruncatesBeforeFiltering(t *testing.T) {
	profiles := newFakeProfiles()
	svc := NewUserImportService(&fakeSource{users: wpUsers()}, profiles, &fakeIdentities{})

	res, err := svc.Run(context.Background(), UserImportOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 2, res.Created)
}

func TestFilterByRoles(t *testing.T) {
	out := filterByRoles(wpUsers(), []string{" author "})
	var got []int64
	for _, u := range out {
		got = append(got, u.ID)
	}
	assert.Equal(t, []int64{2, 3, 4, 5}, got)
	assert.Len(t, filterByRoles(wpUsers(), nil), 6)
}

func TestUserImport_AdminFoundByIdentityIsSkipped(t *testing.T) {
	const adminID = "a0000000-0000-4000-8000-000000000001"
	// Email lưu khác hoa thường nên FindByEmails không match
	profiles := newFakeProfiles(model.ExistingProfile{
		ID:    adminID,
		Email: "Admin@Livraria.mz",
		Role:  strPtr(model.RoleAdmin),
	})
	ids := &fakeIdentities{
		registered: map[string]string{"admin@livraria.mz": adminID},
		listed:     map[string]string{"admin@livraria.mz": adminID},
	}
	users := []model.WPUser{{ID: 1, Email: "admin@livraria.mz", Name: "Admin"}}
	svc := NewUserImportService(&fakeSource{users: users}, profiles, ids)

	for _, opts := range []UserImportOptions{{}, {UpdateExisting: true, ForceStatus: true}} {
		res, err := svc.Run(context.Background(), opts)
		require.NoError(t, err)
		assert.Equal(t, 1, res.SkippedAdmin)
		assert.Zero(t, res.Created)
		assert.Zero(t, res.Updated)
		assert.Zero(t, profiles.writes())
	}
}

func TestUserImport_AuthorFoundByIdentityKeepsStatus(t *testing.T) {
	const authorID = "b0000000-0000-4000-8000-000000000009"
	profiles := newFakeProfiles(model.ExistingProfile{
		ID:     authorID,
		Email:  "Mia@Livraria.mz",
		Role:   strPtr(model.RoleAuthor),
		Status: strPtr(model.StatusRejected),
	})
	ids := &fakeIdentities{
		registered: map[string]string{"mia@livraria.mz": authorID},
		listed:     map[string]string{"mia@livraria.mz": authorID},
	}
	users := []model.WPUser{{ID: 2, Email: "mia@livraria.mz", Name: "Mia Couto"}}
	svc := NewUserImportService(&fakeSource{users: users}, profiles, ids)

	res, err := svc.Run(context.Background(), UserImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.SkippedExisting)
	assert.Zero(t, res.Created)
	assert.Zero(t, profiles.writes())
}
