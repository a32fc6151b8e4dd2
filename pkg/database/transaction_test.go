package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx chỉ implement các method transaction helper dùng tới
type fakeTx struct {
	pgx.Tx

	execs      []string
	failOn     string
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.execs = append(tx.execs, sql)
	if tx.failOn != "" && strings.Contains(sql, tx.failOn) {
		return pgconn.CommandTag{}, errors.New("duplicate key value violates unique constraint")
	}
	return pgconn.CommandTag{}, nil
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	tx.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestExecStatements_CommitsAll(t *testing.T) {
	tx := &fakeTx{}
	stmts := []string{"insert into a", "insert into b", "insert into c"}

	require.NoError(t, ExecStatements(context.Background(), &fakeBeginner{tx: tx}, stmts))
	assert.Equal(t, stmts, tx.execs)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestExecStatements_RollsBackOnError(t *testing.T) {
	tx := &fakeTx{failOn: "books"}
	stmts := []string{"insert into authors", "insert into books", "insert into author_books"}

	err := ExecStatements(context.Background(), &fakeBeginner{tx: tx}, stmts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement 2 failed")
	assert.Len(t, tx.execs, 2)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestWithTransaction_BeginError(t *testing.T) {
	err := WithTransaction(context.Background(), &fakeBeginner{err: errors.New("connection refused")}, func(pgx.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}

func TestWithTransaction_RollsBackAndRepanics(t *testing.T) {
	tx := &fakeTx{}

	assert.Panics(t, func() {
		_ = WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
			panic("boom")
		})
	})
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}
