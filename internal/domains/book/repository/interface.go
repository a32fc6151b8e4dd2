package repository

import (
	"context"

	"bookstore-migrator/internal/domains/book/model"
)

// EntryReader - đọc book entries từ file local
type EntryReader interface {
	ReadEntries(path string) ([]model.BookEntry, error)
}

// SeedWriter writes the rendered script, creating parent directories.
type SeedWriter interface {
	WriteSeed(path string, script string) error
}

// SeedApplier runs the seed statements against the database in one
// transaction.
type SeedApplier interface {
	Apply(ctx context.Context, statements []string) error
}
