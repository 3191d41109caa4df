// Package respcache implements the response caching layer: a request-level
// cache with gzip transfer compression, conditional GET (ETag/304) support
// and entity-scoped invalidation. The cache is a best-effort optimization:
// every failure mode degrades to "behave as if caching were off".
package respcache

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	publicPrefix = "/api/public"
	authPrefix   = "/api/auth"
	excludedPath = "/api/private/config"
	cacheControl = "public, max-age=21600" // 6 hours
	DefaultTTL   = 30 * 24 * time.Hour
)

// Paths that get Cache-Control and ETag/304 handling. Fixed allow-list of
// public endpoints whose payload changes rarely.
var conditionalGetPaths = map[string]bool{
	"/api/public/faq":              true,
	"/api/public/contact":          true,
	"/api/public/contact/specific": true,
}

// Store is the key-value backend. Per-key get/put/delete are atomic;
// no multi-key guarantees are required.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, keys ...string) error
}

type Config struct {
	// Cache reads/writes happen only when both are true. Compression and
	// conditional GET are applied regardless.
	Production bool
	Enabled    bool
	// Restrict caching to the public path prefix.
	PublicOnly bool
	TTL        time.Duration
}

type Service struct {
	log   *log.Logger
	store Store
	cfg   Config
}

func New(store Store, cfg Config, logger *log.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Service{store: store, cfg: cfg, log: logger}
}

// Middleware is the read path. GET responses flow through cache lookup,
// handler execution, storage, gzip compression and conditional GET.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.bypass(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := BuildKey(r.URL.Path, r.URL.RawQuery)
		gated := s.cfg.Production && s.cfg.Enabled

		if gated {
			if body, ok := s.lookup(r.Context(), key); ok {
				cacheHits.Inc()
				s.log.Printf("hit key=%q", key)
				resp := &captured{status: http.StatusOK, header: http.Header{}, body: *bytes.NewBuffer(body)}
				resp.header.Set("Content-Type", "application/json")
				s.finalize(w, r, resp)
				return
			}
			cacheMisses.Inc()
		}

		cw := newCaptured(w)
		next.ServeHTTP(cw, r)
		if cw.streamed {
			// Streamed responses are never cached or compressed.
			return
		}

		if gated && cw.status >= 200 && cw.status < 300 {
			if val, err := encodeBody(cw.body.Bytes()); err != nil {
				s.log.Printf("encode key=%q: %v", key, err)
			} else if err := s.store.Set(r.Context(), key, val, s.cfg.TTL); err != nil {
				storeErrors.WithLabelValues("set").Inc()
				s.log.Printf("set key=%q: %v", key, err)
			} else {
				s.log.Printf("store key=%q (%d bytes)", key, len(val))
			}
		}

		s.finalize(w, r, cw)
	})
}

// bypass: non-GET methods, non-API paths, the live config endpoint, and
// (when caching is restricted to public) everything outside /api/public.
func (s *Service) bypass(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return true
	}
	p := r.URL.Path
	if !strings.HasPrefix(p, "/api/") {
		return true
	}
	if strings.HasPrefix(p, excludedPath) {
		return true
	}
	if s.cfg.PublicOnly && !strings.HasPrefix(p, publicPrefix) {
		return true
	}
	return false
}

// lookup fetches and decodes a stored body. Decode failures count as a
// miss so the request falls through to the live handler.
func (s *Service) lookup(ctx context.Context, key string) ([]byte, bool) {
	val, found, err := s.store.Get(ctx, key)
	if err != nil {
		storeErrors.WithLabelValues("get").Inc()
		s.log.Printf("get key=%q: %v", key, err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	body, err := decodeBody(val)
	if err != nil {
		s.log.Printf("decode key=%q: %v", key, err)
		return nil, false
	}
	return body, true
}

// finalize applies transfer compression, then conditional GET for public
// paths, and writes the response.
func (s *Service) finalize(w http.ResponseWriter, r *http.Request, resp *captured) {
	s.compress(r, resp)
	if strings.HasPrefix(r.URL.Path, publicPrefix) {
		s.conditionalGet(r, resp)
	}
	resp.writeTo(w)
}

// compress gzips JSON bodies when the client accepts it. Auth routes and
// already-encoded responses are left alone. Compression failures serve
// the body uncompressed.
func (s *Service) compress(r *http.Request, resp *captured) {
	if strings.HasPrefix(r.URL.Path, authPrefix) {
		return
	}
	if resp.header.Get("Content-Encoding") == "gzip" {
		return
	}
	if ct := resp.header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return
	}
	if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		return
	}
	compressed, err := gzipBytes(resp.body.Bytes())
	if err != nil {
		s.log.Printf("gzip %s: %v", r.URL.Path, err)
		return
	}
	resp.body = *bytes.NewBuffer(compressed)
	resp.header.Set("Content-Encoding", "gzip")
	resp.header.Set("Content-Type", "application/json")
	resp.header.Set("Content-Length", strconv.Itoa(len(compressed)))
}

// conditionalGet handles the ETag contract on the allow-listed public
// endpoints. The If-None-Match comparison is an exact string match.
func (s *Service) conditionalGet(r *http.Request, resp *captured) {
	if !conditionalGetPaths[r.URL.Path] {
		return
	}
	resp.header.Set("Cache-Control", cacheControl)

	sum := md5.Sum(resp.body.Bytes())
	etag := hex.EncodeToString(sum[:])
	resp.header.Set("ETag", etag)

	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		notModified.Inc()
		s.log.Printf("etag match path=%s", r.URL.Path)
		resp.status = http.StatusNotModified
		resp.body.Reset()
		resp.header.Del("Content-Length")
	}
}

// Invalidate removes every cached response belonging to an entity, under
// both scopes and every key shape (direct get, paginated listings). The
// id only narrows logging; deletion is deliberately broad so that any
// write clears all reads it could affect. Errors are logged and swallowed:
// invalidation never fails the triggering write.
func (s *Service) Invalidate(ctx context.Context, entity string, id string) {
	keys, err := s.store.Scan(ctx, KeyPrefix+"api/*")
	if err != nil {
		storeErrors.WithLabelValues("scan").Inc()
		s.log.Printf("invalidate %s id=%s: scan: %v", entity, id, err)
		return
	}

	var doomed []string
	for _, k := range keys {
		if pk, ok := ParseKey(k); ok && pk.Entity == entity {
			doomed = append(doomed, k)
		}
	}
	if len(doomed) == 0 {
		s.log.Printf("invalidate %s id=%s: no entries", entity, id)
		return
	}

	if err := s.store.Del(ctx, doomed...); err != nil {
		storeErrors.WithLabelValues("del").Inc()
		s.log.Printf("invalidate %s id=%s: del: %v", entity, id, err)
		return
	}
	invalidatedKeys.WithLabelValues(entity).Add(float64(len(doomed)))
	s.log.Printf("invalidate %s id=%s: deleted=%d", entity, id, len(doomed))
}
