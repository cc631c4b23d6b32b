package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates in-memory repositories for tests
func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewRepositories(context.Background(), Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func TestNewRepositories(t *testing.T) {
	repos := setupTestDB(t)
	require.NoError(t, repos.Ping(context.Background()))
	require.NotNil(t, repos.Alert)

	var tables []string
	err := repos.DB.Select(&tables, "SELECT name FROM sqlite_master WHERE type='table' AND name='alerts'")
	require.NoError(t, err)
	assert.Equal(t, []string{"alerts"}, tables)

	var indexes []string
	err = repos.DB.Select(&indexes, "SELECT name FROM sqlite_master WHERE type='index' AND tbl_name='alerts' AND name LIKE 'idx_%' ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"idx_alerts_keyword_recent", "idx_alerts_keyword_title_published"}, indexes)
}

func TestNewRepositories_FileReopen(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "alerts.db") + "?mode=rwc"

	repos, err := NewRepositories(context.Background(), Config{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, repos.Close())

	// schema init is idempotent
	repos, err = NewRepositories(context.Background(), Config{DSN: dsn})
	require.NoError(t, err)
	defer repos.Close()

	var mode string
	require.NoError(t, repos.DB.Get(&mode, "PRAGMA journal_mode"))
	assert.Equal(t, "wal", mode)
}

func TestNewRepositories_BadDSN(t *testing.T) {
	_, err := NewRepositories(context.Background(), Config{DSN: "file:" + filepath.Join(t.TempDir(), "missing", "dir", "x.db") + "?mode=ro"})
	require.Error(t, err)
}
