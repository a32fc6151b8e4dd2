package service

import (
	"context"

	"bookstore-migrator/internal/infrastructure/storage"
)

// UserImportServiceInterface imports WordPress users as author profiles
// backed by auth identities.
type UserImportServiceInterface interface {
	Run(ctx context.Context, opts UserImportOptions) (*UserImportResult, error)
}

// AutorImportServiceInterface imports the "autores" custom post type into
// the authors table.
type AutorImportServiceInterface interface {
	Run(ctx context.Context, opts AutorImportOptions) (*AutorImportResult, error)
}

// PhotoMigrationServiceInterface re-hosts photos that still point at the
// WordPress uploads folder.
type PhotoMigrationServiceInterface interface {
	Run(ctx context.Context, opts PhotoMigrationOptions) (*PhotoMigrationResult, error)
}

// ImageFetcher - download ảnh có retry (storage.Downloader)
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*storage.Download, error)
}

// ImageTranscoder - convert ảnh sang format web (storage.ImageProcessor)
type ImageTranscoder interface {
	Transcode(src storage.Image) (storage.Image, error)
}
