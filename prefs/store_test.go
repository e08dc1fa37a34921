package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			return NewFileStore(filepath.Join(t.TempDir(), "qrshare", "prefs.yaml"))
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, ok, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "theme", "dark"))
			value, ok, err := store.Get(ctx, "theme")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "dark", value)

			require.NoError(t, store.Set(ctx, "theme", "light"))
			value, _, err = store.Get(ctx, "theme")
			require.NoError(t, err)
			assert.Equal(t, "light", value)

			require.NoError(t, store.Delete(ctx, "theme"))
			_, ok, err = store.Get(ctx, "theme")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Delete(ctx, "never-set"))
		})
	}
}

func TestWelcomeFlag(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	seen, err := WelcomeSeen(ctx, store)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, MarkWelcomeSeen(ctx, store))

	seen, err = WelcomeSeen(ctx, store)
	require.NoError(t, err)
	assert.True(t, seen)

	value, _, err := store.Get(ctx, WelcomeSeenKey)
	require.NoError(t, err)
	assert.Equal(t, "true", value)
}

func TestWelcomeFlag_OtherValueIsNotSeen(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, WelcomeSeenKey, "false"))

	seen, err := WelcomeSeen(ctx, store)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	pth := filepath.Join(t.TempDir(), "prefs.yaml")

	require.NoError(t, MarkWelcomeSeen(ctx, NewFileStore(pth)))

	seen, err := WelcomeSeen(ctx, NewFileStore(pth))
	require.NoError(t, err)
	assert.True(t, seen)

	data, err := os.ReadFile(pth)
	require.NoError(t, err)
	assert.Equal(t, "qrshare-welcome-seen: \"true\"\n", string(data))
}

func TestFileStore_CorruptFile(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(pth, []byte("- not\n- a map\n"), 0600))

	_, _, err := NewFileStore(pth).Get(context.Background(), WelcomeSeenKey)
	assert.ErrorContains(t, err, "parse prefs file")
}

func TestRedisStore_Unreachable(t *testing.T) {
	store := NewRedisStore(RedisOptions{Host: "127.0.0.1", Port: 1})
	defer store.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, ok, err := store.Get(ctx, WelcomeSeenKey)
	assert.Error(t, err)
	assert.False(t, ok)
}
