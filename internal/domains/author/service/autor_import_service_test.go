package service

import (
	"context"
	"testing"

	"bookstore-migrator/internal/domains/author/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func autores() []model.WPAutor {
	return []model.WPAutor{
		{ID: 11, Slug: "mia-couto", Title: model.Rendered{Rendered: "Mia Couto"}},
		{ID: 12, Slug: "paulina-chiziane", Title: model.Rendered{Rendered: "Paulina Chiziane"}},
		{ID: 13, Slug: "ungulani", Title: model.Rendered{Rendered: "Ungulani Ba Ka Khosa"}},
		{ID: 12, Slug: "paulina-chiziane", Title: model.Rendered{Rendered: "Paulina Chiziane"}},
	}
}

func TestAutorImport_SkipsExistingAndDedupes(t *testing.T) {
	authors := &fakeAuthors{existing: map[int64]bool{11: true}}
	svc := NewAutorImportService(&fakeSource{autores: autores()}, authors)

	res, err := svc.Run(context.Background(), AutorImportOptions{Status: "publish"})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Fetched)
	assert.Equal(t, 2, res.Upserted)
	assert.Equal(t, 1, res.SkippedExisting)

	require.Len(t, authors.upserted, 2)
	assert.Equal(t, int64(12), authors.upserted[0].WPID)
	assert.Equal(t, "Paulina Chiziane", authors.upserted[0].Name)
	assert.Equal(t, int64(13), authors.upserted[1].WPID)
	assert.Equal(t, []string{DefaultAuthorsTable}, authors.tables)
}

func TestAutorImport_UpdateExistingUpsertsAll(t *testing.T) {
	authors := &fakeAuthors{existing: map[int64]bool{11: true, 12: true}}
	svc := NewAutorImportService(&fakeSource{autores: autores()}, authors)

	res, err := svc.Run(context.Background(), AutorImportOptions{UpdateExisting: true, Table: "writers"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Upserted)
	assert.Zero(t, res.SkippedExisting)
	assert.Equal(t, []string{"writers"}, authors.tables)
}

func TestAutorImport_FallsBackToUnfilteredFetch(t *testing.T) {
	source := &fakeSource{autores: autores(), failOnStatus: true}
	svc := NewAutorImportService(source, &fakeAuthors{})

	res, err := svc.Run(context.Background(), AutorImportOptions{Status: "publish", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"publish", ""}, source.autorStatuses)
	assert.Equal(t, 1, res.Fetched)
	assert.Equal(t, 1, res.Upserted)
}

func TestAutorImport_DryRunReportsWouldBeCount(t *testing.T) {
	authors := &fakeAuthors{}
	svc := NewAutorImportService(&fakeSource{autores: autores()}, authors)

	res, err := svc.Run(context.Background(), AutorImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Upserted)
	assert.Empty(t, authors.upserted)
	assert.Empty(t, authors.tables)
}
