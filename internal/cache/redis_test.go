package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ""), mr
}

func TestRedisStore_SetGetAndExpire(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "/api/tags")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "/api/tags", []byte(`{"status":true}`), time.Minute, TagTaxonomy))

	body, ok, err := store.Get(ctx, "/api/tags")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"status":true}`, string(body))

	mr.FastForward(2 * time.Minute)
	_, ok, err = store.Get(ctx, "/api/tags")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_RevalidateTagOnlyDropsTaggedKeys(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "/api/content", []byte("a"), time.Minute, TagContent))
	require.NoError(t, store.Set(ctx, "/api/content/x", []byte("b"), time.Minute, TagContent))
	require.NoError(t, store.Set(ctx, "/api/tags", []byte("c"), time.Minute, TagTaxonomy))

	require.NoError(t, store.RevalidateTag(ctx, TagContent))

	for _, key := range []string{"/api/content", "/api/content/x"} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
	_, ok, err := store.Get(ctx, "/api/tags")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists(DefaultPrefix+"tag:"+TagContent))

	// revalidating an unused tag is fine
	assert.NoError(t, store.RevalidateTag(ctx, "unused"))
}

func TestRedisStore_ErrorsWhenRedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, _, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, store.RevalidateTag(context.Background(), TagContent))
}

func TestMiddleware_CachesUntilRevalidated(t *testing.T) {
	store, _ := newTestStore(t)
	calls := 0
	handler := Middleware(store, time.Minute, zap.NewNop(), TagContent)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"data":[]}`))
	}))

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content?limit=5", nil))
		return rec
	}

	first := get()
	assert.Equal(t, "MISS", first.Header().Get(StatusHeader))
	second := get()
	assert.Equal(t, "HIT", second.Header().Get(StatusHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	require.NoError(t, store.RevalidateTag(context.Background(), TagContent))
	third := get()
	assert.Equal(t, "MISS", third.Header().Get(StatusHeader))
	assert.Equal(t, 2, calls)
}

func TestMiddleware_SkipsErrorsAndNonGet(t *testing.T) {
	store, _ := newTestStore(t)
	calls := 0
	handler := Middleware(store, time.Minute, zap.NewNop(), TagContent)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/content/missing", nil))
	assert.Equal(t, 3, calls)
	assert.Empty(t, rec.Header().Get(StatusHeader))
}

func TestNoopStore(t *testing.T) {
	var store Store = NoopStore{}
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute, TagContent))
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, store.RevalidateTag(ctx, TagContent))
}
