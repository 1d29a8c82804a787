package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetLayoutAndDefaultPage(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	fixed := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.SetLayout(ctx, "/docs", "++layout++document"))
	require.NoError(t, s.SetDefaultPage(ctx, "/docs", "intro"))
	require.NoError(t, s.SetLayout(ctx, "/about", "summary_view"))
	require.NoError(t, s.SetLayout(ctx, "/about", "document_view"))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, Selection{Path: "/docs", Layout: "++layout++document", DefaultPage: "intro", UpdatedAt: fixed}, all["/docs"])
	assert.Equal(t, "document_view", all["/about"].Layout)
	assert.Equal(t, "", all["/about"].DefaultPage)
}

func TestSelectionsPersistAcrossOpen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "mosaic.db")

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.SetLayout(ctx, "/", "++layout++home"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "++layout++home", all["/"].Layout)
}

func TestAllEmpty(t *testing.T) {
	all, err := openTestStore(t).All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAllRejectsBadTimestamp(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO selections (path, layout, updated_at) VALUES ('/docs', 'document_view', 'yesterday')`)
	require.NoError(t, err)

	_, err = s.All(ctx)
	assert.ErrorContains(t, err, "parse updated_at of /docs")
}
