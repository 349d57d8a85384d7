package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/jbudget-be/internal/config"
	"github.com/hongminglow/jbudget-be/internal/storage/memory"
	"github.com/hongminglow/jbudget-be/internal/storage/sqlite"
)

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), config.Config{DataBackend: config.BackendMemory})
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &memory.Store{}, store)
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jbudget.db")
	store, err := Open(context.Background(), config.Config{DataBackend: config.BackendSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &sqlite.Store{}, store)
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open(context.Background(), config.Config{DataBackend: "mysql"})
	assert.ErrorContains(t, err, "unknown data backend")
}
