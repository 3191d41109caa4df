package respcache

import (
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	scanErr error
	delErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeStore) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = val
	return nil
}

func (f *fakeStore) Scan(_ context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeStore) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.data))
	for k := range f.data {
		out = append(out, k)
	}
	return out
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func gatedConfig() Config {
	return Config{Production: true, Enabled: true}
}

func jsonHandler(calls *int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func TestMiddlewareStoresAndServesFromCache(t *testing.T) {
	store := newFakeStore()
	svc := New(store, gatedConfig(), testLogger())

	calls := 0
	h := svc.Middleware(jsonHandler(&calls, `{"status":"success"}`))

	// miss populates the store
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/faq", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)

	stored, ok := store.data["response_cache_api/public/faq"]
	require.True(t, ok)
	body, err := decodeBody(stored)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success"}`, string(body))

	// hit skips the handler
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/faq", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestMiddlewareBypass(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		cfg    Config
	}{
		{"non-get", http.MethodPost, "/api/public/faq", gatedConfig()},
		{"non-api path", http.MethodGet, "/healthz", gatedConfig()},
		{"live config endpoint", http.MethodGet, "/api/private/config", gatedConfig()},
		{"public only, private path", http.MethodGet, "/api/private/faq/paginate",
			Config{Production: true, Enabled: true, PublicOnly: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			svc := New(store, tc.cfg, testLogger())

			calls := 0
			h := svc.Middleware(jsonHandler(&calls, `{}`))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, 1, calls)
			assert.Empty(t, store.keys(), "bypassed request must not populate the store")
		})
	}
}

func TestMiddlewareGateDisabled(t *testing.T) {
	for _, cfg := range []Config{
		{Production: false, Enabled: true},
		{Production: true, Enabled: false},
	} {
		store := newFakeStore()
		svc := New(store, cfg, testLogger())

		calls := 0
		h := svc.Middleware(jsonHandler(&calls, `{"a":1}`))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/faq", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, calls)
		assert.Empty(t, store.keys())
	}
}

func TestMiddlewareStoreFailSoft(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("redis down")
	store.setErr = errors.New("redis down")
	svc := New(store, gatedConfig(), testLogger())

	calls := 0
	h := svc.Middleware(jsonHandler(&calls, `{"ok":true}`))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/faq", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, 1, calls)
}

func TestMiddlewareCorruptEntryFallsThrough(t *testing.T) {
	store := newFakeStore()
	store.data["response_cache_api/public/faq"] = []byte("corrupt!!")
	svc := New(store, gatedConfig(), testLogger())

	calls := 0
	h := svc.Middleware(jsonHandler(&calls, `{"fresh":true}`))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/faq", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"fresh":true}`, rec.Body.String())
	assert.Equal(t, 1, calls, "decode failure must behave as a miss")
}

func TestMiddlewareDoesNotStoreErrors(t *testing.T) {
	store := newFakeStore()
	svc := New(store, gatedConfig(), testLogger())

	h := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error"}`))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/product/get/999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, store.keys())
}

func TestMiddlewareStreamedResponseNotCached(t *testing.T) {
	store := newFakeStore()
	svc := New(store, gatedConfig(), testLogger())

	h := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"part":1}`))
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte(`{"part":2}`))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/faq", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `{"part":1}`)
	assert.Contains(t, rec.Body.String(), `{"part":2}`)
	assert.Empty(t, store.keys())
}

func TestCompressGzip(t *testing.T) {
	svc := New(newFakeStore(), Config{}, testLogger())

	calls := 0
	h := svc.Middleware(jsonHandler(&calls, `{"payload":"abcabcabcabc"}`))

	req := httptest.NewRequest(http.MethodGet, "/api/public/faq", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"payload":"abcabcabcabc"}`, string(out))
}

func TestCompressSkipsAuthAndNonJSON(t *testing.T) {
	svc := New(newFakeStore(), Config{}, testLogger())

	// auth route stays uncompressed
	h := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))

	// non-JSON content type stays uncompressed
	h = svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("hello"))
	}))
	req = httptest.NewRequest(http.MethodGet, "/api/public/faq", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
}

func TestConditionalGet(t *testing.T) {
	svc := New(newFakeStore(), Config{}, testLogger())

	body := `{"status":"success","data":[]}`
	calls := 0
	h := svc.Middleware(jsonHandler(&calls, body))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/faq", nil))

	sum := md5.Sum([]byte(body))
	wantETag := hex.EncodeToString(sum[:])
	assert.Equal(t, wantETag, rec.Header().Get("ETag"))
	assert.Equal(t, "public, max-age=21600", rec.Header().Get("Cache-Control"))

	// matching If-None-Match short-circuits to 304 with an empty body
	req := httptest.NewRequest(http.MethodGet, "/api/public/faq", nil)
	req.Header.Set("If-None-Match", wantETag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	// a stale tag gets the full body again
	req = httptest.NewRequest(http.MethodGet, "/api/public/faq", nil)
	req.Header.Set("If-None-Match", "deadbeef")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, body, rec.Body.String())
}

func TestConditionalGetAllowListOnly(t *testing.T) {
	svc := New(newFakeStore(), Config{}, testLogger())

	calls := 0
	h := svc.Middleware(jsonHandler(&calls, `{}`))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/product/paginate", nil))

	assert.Empty(t, rec.Header().Get("ETag"))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestInvalidateDeletesEveryKeyShapeOfEntity(t *testing.T) {
	store := newFakeStore()
	seed := func(key string) {
		v, err := encodeBody([]byte(`{}`))
		require.NoError(t, err)
		store.data[key] = v
	}
	seed("response_cache_api/public/product/get/5")
	seed("response_cache_api/public/product/paginate?page=2")
	seed("response_cache_api/private/product/paginate")
	seed("response_cache_api/private/search?query=lego")
	seed("response_cache_api/public/show/old")

	svc := New(store, gatedConfig(), testLogger())
	svc.Invalidate(context.Background(), "product", "5")

	remaining := store.keys()
	assert.ElementsMatch(t, []string{
		"response_cache_api/private/search?query=lego",
		"response_cache_api/public/show/old",
	}, remaining)
}

func TestInvalidateNoMatchesIsNoop(t *testing.T) {
	store := newFakeStore()
	v, err := encodeBody([]byte(`{}`))
	require.NoError(t, err)
	store.data["response_cache_api/public/show/old"] = v

	svc := New(store, gatedConfig(), testLogger())
	svc.Invalidate(context.Background(), "faq", "")

	assert.Len(t, store.keys(), 1)
}

func TestInvalidateSwallowsStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.scanErr = errors.New("redis down")
	svc := New(store, gatedConfig(), testLogger())

	// must not panic and must not propagate
	svc.Invalidate(context.Background(), "product", "1")

	store.scanErr = nil
	store.delErr = errors.New("redis down")
	v, err := encodeBody([]byte(`{}`))
	require.NoError(t, err)
	store.data["response_cache_api/public/product/get/1"] = v
	svc.Invalidate(context.Background(), "product", "1")
}

func TestWriteThenReadCycle(t *testing.T) {
	store := newFakeStore()
	svc := New(store, gatedConfig(), testLogger())

	version := 0
	read := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if version == 0 {
			_, _ = w.Write([]byte(`{"name":"old"}`))
		} else {
			_, _ = w.Write([]byte(`{"name":"new"}`))
		}
	}))

	get := func() string {
		rec := httptest.NewRecorder()
		read.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/product/get/5", nil))
		return rec.Body.String()
	}

	assert.JSONEq(t, `{"name":"old"}`, get())
	version = 1
	// still cached
	assert.JSONEq(t, `{"name":"old"}`, get())

	// a write invalidates, the next read sees fresh data
	svc.Invalidate(context.Background(), "product", "5")
	assert.JSONEq(t, `{"name":"new"}`, get())
}
