package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"travelbook/pkg/logger"
)

type cachedEntry struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

type cacheWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *cacheWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cacheWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// ResponseCache serves public listing GETs from redis. Only paths under
// the given prefixes are cached, and only for anonymous requests: a
// response produced for an authenticated caller must never be replayed
// to anyone else. A nil client disables caching entirely, so the server
// runs fine without redis.
func ResponseCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger, pathPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.Header.Get("Authorization") != "" || !cacheablePath(r.URL.Path, pathPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(r)

			if raw, err := rdb.Get(r.Context(), key).Bytes(); err == nil {
				var entry cachedEntry
				if json.Unmarshal(raw, &entry) == nil {
					w.Header().Set("Content-Type", entry.ContentType)
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(entry.Status)
					_, _ = w.Write(entry.Body)
					return
				}
			}

			cw := &cacheWriter{ResponseWriter: w, status: 200}
			next.ServeHTTP(cw, r)

			if cw.status != http.StatusOK {
				return
			}

			entry := cachedEntry{
				Status:      cw.status,
				ContentType: w.Header().Get("Content-Type"),
				Body:        cw.buf.Bytes(),
			}
			raw, err := json.Marshal(entry)
			if err != nil {
				return
			}
			if err := rdb.Set(r.Context(), key, raw, ttl).Err(); err != nil {
				log.Warn("Response cache write failed", "key", key, "error", err)
			}
		})
	}
}

func cacheablePath(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func cacheKey(r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("travelbook:resp:%x", sum)
}
