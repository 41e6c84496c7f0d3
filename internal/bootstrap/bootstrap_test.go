package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpp0ca/playlist-transfer/internal/adapters/cache"
	"github.com/jpp0ca/playlist-transfer/internal/config"
)

func TestNew_InMemory(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	cfg := config.Default()

	a, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, []string{"spotify", "youtube"}, a.Registry.Available())

	dest, err := a.Registry.Destination("youtube")
	require.NoError(t, err)
	_, cached := dest.(*cache.Destination)
	assert.True(t, cached)

	require.NoError(t, a.Service.ClearSearchCache(context.Background()))
}

func TestNew_SQLiteAndNoCache(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	cfg := config.Default()
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "transfers.db")
	cfg.Storage.SearchCacheTTL = 0

	a, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	dest, err := a.Registry.Destination("youtube")
	require.NoError(t, err)
	_, cached := dest.(*cache.Destination)
	assert.False(t, cached)

	list, err := a.Service.ListTransfers(context.Background(), "nobody", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}
