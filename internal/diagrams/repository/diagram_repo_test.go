package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrahamCHill/diagram-studio/internal/diagrams/domain"
)

// setupTestDB opens a test PostgreSQL connection.
// Skips the test if TEST_DB_DSN is not set.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func setupRepo(t *testing.T) *DiagramRepository {
	t.Helper()
	db := setupTestDB(t)
	repo := NewDiagramRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	t.Cleanup(func() {
		_, _ = db.Exec(`delete from diagrams where created_by = 'repo-test'`)
	})
	return repo
}

func testFields(title string) domain.DiagramFields {
	return domain.DiagramFields{
		Title:     title,
		Content:   "graph TD\n  A --> B",
		CreatedBy: "repo-test",
		Tags:      []string{"mermaid"},
	}
}

func TestRepositoryCreateAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "repo-test-1", "diagrams/key1.mmd", testFields("First"))
	require.NoError(t, err)
	assert.Equal(t, "repo-test-1", created.ID)
	assert.Equal(t, "diagram", created.DiagramType)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, "repo-test-1")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
	assert.Equal(t, "diagrams/key1.mmd", got.StorageKey)
	assert.Equal(t, []string{"mermaid"}, got.Tags)
}

func TestRepositoryListNewestFirst(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "repo-test-older", "diagrams/a.mmd", testFields("Older"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, "repo-test-newer", "diagrams/b.mmd", testFields("Newer"))
	require.NoError(t, err)

	items, err := repo.List(ctx, 100, 0)
	require.NoError(t, err)

	var olderIdx, newerIdx int
	for i, d := range items {
		switch d.ID {
		case "repo-test-older":
			olderIdx = i
		case "repo-test-newer":
			newerIdx = i
		}
	}
	assert.Less(t, newerIdx, olderIdx)
}

func TestRepositoryUpdateRewritesKeyAndFields(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "repo-test-upd", "diagrams/old.mmd", testFields("Before"))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, "repo-test-upd", "diagrams/new.mmd", testFields("After"))
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "diagrams/new.mmd", updated.StorageKey)

	key, err := repo.StorageKey(ctx, "repo-test-upd")
	require.NoError(t, err)
	assert.Equal(t, "diagrams/new.mmd", key)
}

func TestRepositoryMissingRowsReportNotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "repo-test-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.StorageKey(ctx, "repo-test-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Update(ctx, "repo-test-missing", "diagrams/x.mmd", testFields("X"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "repo-test-missing"), domain.ErrNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "repo-test-del", "diagrams/del.mmd", testFields("Doomed"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "repo-test-del"))

	_, err = repo.Get(ctx, "repo-test-del")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
