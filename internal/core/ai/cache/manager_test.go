package cache

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			Backend:         "memory",
			MaxSize:         4,
			TTL:             time.Minute,
			CleanupInterval: time.Hour,
		},
	}
}

func TestMemoryStoreSetGet(t *testing.T) {
	m := newMemoryStore(memoryConfig())
	defer m.Close()

	require.NoError(t, m.Set(context.Background(), "text:abc", "回覆"))

	value, err := m.Get(context.Background(), "text:abc")
	require.NoError(t, err)
	assert.Equal(t, "回覆", value)

	_, err = m.Get(context.Background(), "text:missing")
	assert.Error(t, err)
}

func TestMemoryStoreCloseStopsCleanup(t *testing.T) {
	m := newMemoryStore(memoryConfig())

	require.NoError(t, m.Close())

	// done 關閉後清理協程才會退出
	select {
	case <-m.done:
	default:
		t.Fatal("done channel should be closed after Close")
	}

	// 重複關閉不得 panic
	assert.NoError(t, m.Close())
}
