package repository

import (
	"context"

	"bookstore-migrator/pkg/database"
)

type postgresApplier struct {
	db database.Beginner
}

// NewPostgresApplier takes a *pgxpool.Pool (or any pgx Beginner).
func NewPostgresApplier(db database.Beginner) SeedApplier {
	return &postgresApplier{db: db}
}

func (a *postgresApplier) Apply(ctx context.Context, statements []string) error {
	return database.ExecStatements(ctx, a.db, statements)
}
