package service

import (
	"context"
	"fmt"
	"time"

	"bookstore-migrator/internal/domains/author/model"
	"bookstore-migrator/internal/domains/author/repository"
	"bookstore-migrator/internal/infrastructure/storage"

	"github.com/rs/zerolog/log"
)

const (
	PhotoPageSize       = 50
	DefaultPhotoMatch   = "wp-content/uploads"
	DefaultPhotoIDField = "id"
)

type PhotoMigrationOptions struct {
	Table    string
	Match    string
	IDColumn string
	Folder   string // prefix object key; rỗng = table
	Limit    int
	DryRun   bool
}

type PhotoMigrationResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type photoMigrationService struct {
	photos     repository.PhotoStore
	fetcher    ImageFetcher
	transcoder ImageTranscoder
	store      storage.ObjectStore
	now        func() time.Time
}

func NewPhotoMigrationService(
	photos repository.PhotoStore,
	fetcher ImageFetcher,
	transcoder ImageTranscoder,
	store storage.ObjectStore,
) PhotoMigrationServiceInterface {
	return &photoMigrationService{
		photos:     photos,
		fetcher:    fetcher,
		transcoder: transcoder,
		store:      store,
		now:        time.Now,
	}
}

// Run migrates every matching row. A failing row is logged and counted;
// it never aborts the batch.
func (s *photoMigrationService) Run(ctx context.Context, opts PhotoMigrationOptions) (*PhotoMigrationResult, error) {
	q := repository.PhotoQuery{
		Table:    opts.Table,
		IDColumn: opts.IDColumn,
		Match:    opts.Match,
	}
	if q.Table == "" {
		q.Table = DefaultAuthorsTable
	}
	if q.IDColumn == "" {
		q.IDColumn = DefaultPhotoIDField
	}
	if q.Match == "" {
		q.Match = DefaultPhotoMatch
	}
	if opts.Folder == "" {
		opts.Folder = q.Table
	}

	rows, err := s.collect(ctx, q, opts.Limit)
	if err != nil {
		return nil, err
	}
	log.Info().Int("candidates", len(rows)).Str("table", q.Table).Msg("Photo migration started")

	result := &PhotoMigrationResult{}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		if row.PhotoURL == "" {
			result.Skipped++
			continue
		}

		publicURL, key, err := s.migrate(ctx, q, row, opts)
		if err != nil {
			result.Failed++
			log.Error().Err(err).Str("id", row.ID).Str("url", row.PhotoURL).Msg("Photo migration failed")
			continue
		}

		result.Updated++
		event := log.Info().Str("id", row.ID).Str("photo_url", publicURL).Str("photo_path", key)
		if opts.DryRun {
			event.Msg("[dry-run] would update photo")
		} else {
			event.Msg("Photo migrated")
		}
	}

	return result, nil
}

// collect đọc hết các page trước khi xử lý: row đã update sẽ rơi khỏi
// filter và làm lệch offset.
func (s *photoMigrationService) collect(ctx context.Context, q repository.PhotoQuery, limit int) ([]model.PhotoRow, error) {
	var rows []model.PhotoRow
	for offset := 0; ; offset += PhotoPageSize {
		page, err := s.photos.ListByPhotoMatch(ctx, q, PhotoPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list rows with legacy photos: %w", err)
		}
		rows = append(rows, page...)

		if limit > 0 && len(rows) >= limit {
			return rows[:limit], nil
		}
		if len(page) < PhotoPageSize {
			return rows, nil
		}
	}
}

// migrate chạy DOWNLOAD → TRANSCODE → UPLOAD → RECORD-UPDATE cho một row.
// Dry-run dừng sau TRANSCODE và trả về URL/path dự kiến.
func (s *photoMigrationService) migrate(ctx context.Context, q repository.PhotoQuery, row model.PhotoRow, opts PhotoMigrationOptions) (string, string, error) {
	dl, err := s.fetcher.Fetch(ctx, row.PhotoURL)
	if err != nil {
		return "", "", fmt.Errorf("download: %w", err)
	}

	img := storage.Sniff(dl.Data, dl.ContentType, row.PhotoURL)
	if !storage.IsPassthrough(img) {
		converted, err := s.transcoder.Transcode(img)
		if err != nil {
			log.Warn().Err(err).Str("id", row.ID).Msg("Transcode failed, uploading original bytes")
		} else {
			img = converted
		}
	}

	key := fmt.Sprintf("%s/%s/%d%s", opts.Folder, row.ID, s.now().UnixMilli(), img.Ext)
	if opts.DryRun {
		return s.store.PublicURL(key), key, nil
	}

	publicURL, err := s.store.Upload(ctx, key, img.Data, img.ContentType)
	if err != nil {
		return "", "", fmt.Errorf("upload %s: %w", key, err)
	}

	if err := s.photos.UpdatePhoto(ctx, q, row.ID, publicURL, key); err != nil {
		return "", "", fmt.Errorf("update row: %w", err)
	}
	return publicURL, key, nil
}
