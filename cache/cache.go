// Package cache is the process-wide response cache. It is an explicit
// service instance with the lifetime of the server, created in main and
// injected into the request context; handlers that mutate a resource clear
// the matching key prefix so reads never serve stale data past a write.
package cache

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const contextKey = "response_cache"

// Service caches rendered JSON responses in Redis, keyed by request path,
// query string and the authenticated user. Listings are role- and
// owner-scoped, so a key without the user would hand one user's body to
// another.
type Service struct {
	client *redis.Client
	prefix string
}

func New(client *redis.Client) *Service {
	return &Service{client: client, prefix: "respcache"}
}

// Key builds the cache key for a request path, raw query and requesting
// user. The user id goes last so InvalidatePrefix can still match on the
// resource path alone.
func (s *Service) Key(path, rawQuery, userID string) string {
	k := s.prefix + ":" + path
	if rawQuery != "" {
		k += "?" + rawQuery
	}
	if userID != "" {
		k += "@" + userID
	}
	return k
}

func (s *Service) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (s *Service) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, body, ttl).Err()
}

// InvalidatePrefix removes every cached response under the given resource
// path prefix, e.g. "/api/issues".
func (s *Service) InvalidatePrefix(ctx context.Context, resource string) error {
	pattern := s.prefix + ":" + resource + "*"
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Inject makes the cache service reachable from handlers via FromContext.
func Inject(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, s)
		c.Next()
	}
}

// FromContext returns the injected service, or nil when caching is disabled.
func FromContext(c *gin.Context) *Service {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Service)
	return s
}

// Invalidate clears a resource prefix if a cache service is present. Mutating
// handlers call this after a successful write.
func Invalidate(c *gin.Context, resource string) {
	if s := FromContext(c); s != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.InvalidatePrefix(ctx, resource)
	}
}

type cachedWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *cachedWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

// Middleware serves GET responses from the cache and stores successful ones
// with the given TTL. Non-GET requests pass through untouched.
func Middleware(s *Service, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := s.Key(c.Request.URL.Path, c.Request.URL.RawQuery, c.GetString("user_id"))
		if body, ok := s.Get(c.Request.Context(), key); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		writer := &cachedWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() == http.StatusOK && len(writer.body) > 0 {
			_ = s.Set(c.Request.Context(), key, writer.body, ttl)
		}
	}
}
