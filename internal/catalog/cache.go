package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/pai-lms/internal/content"
)

const cacheKeyPrefix = "lms:course:"

// CachedStore is a read-through Redis cache in front of another Store.
// Cache errors are logged and the inner store is used instead.
type CachedStore struct {
	inner  Store
	client redis.Cmdable
	ttl    time.Duration
}

// NewCachedStore wraps inner with a Redis cache. A non-positive ttl keeps
// entries until the course is written.
func NewCachedStore(inner Store, client redis.Cmdable, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl}
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

func (s *CachedStore) Get(ctx context.Context, id string) (content.Course, error) {
	raw, err := s.client.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		c, err := content.DecodeCourse(raw)
		if err == nil {
			return c, nil
		}
		slog.Warn("dropping unreadable cached course", "course_id", id, "error", err)
		s.evict(ctx, id)
	case !errors.Is(err, redis.Nil):
		slog.Warn("course cache read failed", "course_id", id, "error", err)
	}

	c, err := s.inner.Get(ctx, id)
	if err != nil {
		return content.Course{}, err
	}
	s.fill(ctx, c)
	return c, nil
}

func (s *CachedStore) List(ctx context.Context) ([]content.Course, error) {
	return s.inner.List(ctx)
}

func (s *CachedStore) Put(ctx context.Context, c content.Course) error {
	if err := s.inner.Put(ctx, c); err != nil {
		return err
	}
	s.evict(ctx, c.ID)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, id string) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *CachedStore) fill(ctx context.Context, c content.Course) {
	raw, err := json.Marshal(c)
	if err != nil {
		slog.Warn("course cache encode failed", "course_id", c.ID, "error", err)
		return
	}
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, cacheKey(c.ID), raw, ttl).Err(); err != nil {
		slog.Warn("course cache write failed", "course_id", c.ID, "error", err)
	}
}

func (s *CachedStore) evict(ctx context.Context, id string) {
	if err := s.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		slog.Warn("course cache evict failed", "course_id", id, "error", err)
	}
}
