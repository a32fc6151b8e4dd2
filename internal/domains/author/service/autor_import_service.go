package service

import (
	"context"
	"fmt"

	"bookstore-migrator/internal/domains/author/model"
	"bookstore-migrator/internal/domains/author/repository"
	"bookstore-migrator/internal/shared/utils"

	"github.com/rs/zerolog/log"
)

const DefaultAuthorsTable = "authors"

type AutorImportOptions struct {
	Limit          int
	DryRun         bool
	UpdateExisting bool
	Status         string // WP post status; rỗng = không filter
	Table          string
	AuthorType     string // fallback khi ACF không có author_type
}

type AutorImportResult struct {
	Fetched         int `json:"fetched"`
	Upserted        int `json:"upserted"`
	SkippedExisting int `json:"skipped_existing"`
}

type autorImportService struct {
	source  repository.WordPressSource
	authors repository.AuthorStore
}

func NewAutorImportService(source repository.WordPressSource, authors repository.AuthorStore) AutorImportServiceInterface {
	return &autorImportService{
		source:  source,
		authors: authors,
	}
}

func (s *autorImportService) Run(ctx context.Context, opts AutorImportOptions) (*AutorImportResult, error) {
	if opts.Table == "" {
		opts.Table = DefaultAuthorsTable
	}
	result := &AutorImportResult{}

	posts, err := s.fetch(ctx, opts.Status)
	if err != nil {
		return nil, err
	}
	posts = utils.Truncate(posts, opts.Limit)
	result.Fetched = len(posts)

	// Dedupe theo wp id, giữ thứ tự server trả về
	ids := utils.NewOrderedSet[int64]()
	byID := make(map[int64]model.WPAutor, len(posts))
	for _, p := range posts {
		if ids.Add(p.ID) {
			byID[p.ID] = p
		}
	}

	existing, err := s.authors.ExistingWPIDs(ctx, opts.Table, ids.Items())
	if err != nil {
		return nil, fmt.Errorf("failed to load existing authors: %w", err)
	}

	payloads := make([]model.Author, 0, ids.Len())
	for _, id := range ids.Items() {
		if existing[id] && !opts.UpdateExisting {
			result.SkippedExisting++
			continue
		}
		payloads = append(payloads, model.BuildAuthor(byID[id], opts.AuthorType))
	}
	result.Upserted = len(payloads)

	if opts.DryRun {
		log.Info().Int("count", len(payloads)).Str("table", opts.Table).Msg("[dry-run] would upsert authors")
		return result, nil
	}

	if err := s.authors.Upsert(ctx, opts.Table, payloads); err != nil {
		return nil, fmt.Errorf("failed to upsert authors: %w", err)
	}
	return result, nil
}

// fetch thử với status filter trước; lỗi thì fetch lại một lần không filter
func (s *autorImportService) fetch(ctx context.Context, status string) ([]model.WPAutor, error) {
	posts, err := s.source.FetchAutores(ctx, status)
	if err == nil || status == "" {
		if err != nil {
			return nil, fmt.Errorf("failed to fetch author posts: %w", err)
		}
		return posts, nil
	}

	log.Warn().Err(err).Str("status", status).Msg("Status-filtered fetch failed, retrying without status")
	posts, err = s.source.FetchAutores(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch author posts: %w", err)
	}
	return posts, nil
}
