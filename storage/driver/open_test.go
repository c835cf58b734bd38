package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"paper-search/config"
	"paper-search/query"
	"paper-search/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenMemoryWithSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"A","conference":"CVPR","year":"2024"}`+"\n"), 0o600))

	s, err := Open(context.Background(), &config.Config{StoreDriver: "memory", MemorySeedFile: path}, zap.NewNop())
	require.NoError(t, err)

	n, err := s.Count(context.Background(), query.And{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOpenMemoryEmpty(t *testing.T) {
	s, err := Open(context.Background(), &config.Config{StoreDriver: "memory"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "sqlite"}, zap.NewNop())
	assert.ErrorIs(t, err, storage.ErrUnknownDriver)
}
