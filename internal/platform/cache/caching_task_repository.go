// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/usecase"
)

// CachingTaskRepository decorates a TaskRepository with Redis caching of reads.
// Every key is scoped by owner and generation, so a write invalidates only that owner's entries.
type CachingTaskRepository struct {
	inner     usecase.TaskRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TaskRepository = (*CachingTaskRepository)(nil)

// NewCachingTaskRepository decorates a TaskRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "tasks".
// A nil rdb disables caching entirely.
func NewCachingTaskRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TaskRepository, namespace string) *CachingTaskRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "tasks"
	}
	return &CachingTaskRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the task and invalidates the owner's cached reads.
func (c *CachingTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	if err := c.inner.Create(ctx, task); err != nil {
		return err
	}
	c.invalidate(ctx, task.CreatedByUserID)
	return nil
}

// FindByID checks the cache first then falls back to the inner repository.
// Not-found results are never cached.
func (c *CachingTaskRepository) FindByID(ctx context.Context, id, userID uint) (*entity.Task, error) {
	gen, ok := c.generation(ctx, userID)
	if !ok {
		return c.inner.FindByID(ctx, id, userID)
	}

	key := fmt.Sprintf("%s:%d:g%d:id:%d", c.namespace, userID, gen, id)
	var cached entity.Task
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	task, err := c.inner.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, task)
	return task, nil
}

// List checks the cache first then falls back to the inner repository.
func (c *CachingTaskRepository) List(ctx context.Context, userID uint, filter usecase.TaskFilter) ([]entity.Task, error) {
	gen, ok := c.generation(ctx, userID)
	if !ok {
		return c.inner.List(ctx, userID, filter)
	}

	key := c.listKey(userID, gen, filter)
	var cached []entity.Task
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	tasks, err := c.inner.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, tasks)
	return tasks, nil
}

// Update delegates to the inner repository and invalidates the owner's cached reads on success.
func (c *CachingTaskRepository) Update(ctx context.Context, id, userID uint, mutate func(*entity.Task) error) (*entity.Task, error) {
	task, err := c.inner.Update(ctx, id, userID, mutate)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, userID)
	return task, nil
}

// Delete delegates to the inner repository and invalidates the owner's cached reads on success.
func (c *CachingTaskRepository) Delete(ctx context.Context, id, userID uint) error {
	if err := c.inner.Delete(ctx, id, userID); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

// generationKey holds the owner's write counter. Every data key embeds the value read
// before the inner call, so a fill that races a write lands under a generation nobody reads.
func (c *CachingTaskRepository) generationKey(userID uint) string {
	return fmt.Sprintf("%s:%d:gen", c.namespace, userID)
}

// generation returns the owner's current generation. ok is false when Redis is
// unavailable, in which case the caller skips the cache.
func (c *CachingTaskRepository) generation(ctx context.Context, userID uint) (int64, bool) {
	if c.rdb == nil {
		return 0, false
	}
	gen, err := c.rdb.Get(ctx, c.generationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	return gen, true
}

// listKey generates a cache key for one filter combination.
func (c *CachingTaskRepository) listKey(userID uint, gen int64, filter usecase.TaskFilter) string {
	status := "any"
	if filter.Status != nil {
		status = filter.Status.String()
	}
	day := "any"
	if filter.DueDate != nil {
		day = filter.DueDate.UTC().Format(time.DateOnly)
	}
	return fmt.Sprintf("%s:%d:g%d:list:%s:%s", c.namespace, userID, gen, status, day)
}

// load reads key into dest. Corrupted entries are deleted and reported as a miss.
func (c *CachingTaskRepository) load(ctx context.Context, key string, dest any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store writes value under key (best effort).
func (c *CachingTaskRepository) store(ctx context.Context, key string, value any) {
	if b, err := json.Marshal(value); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// invalidate bumps the owner's generation so every earlier entry becomes unreachable.
// Entries of old generations are left to expire with the TTL.
func (c *CachingTaskRepository) invalidate(ctx context.Context, userID uint) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, c.generationKey(userID)).Err(); err != nil {
		slog.Warn("task cache invalidation failed", "error", err, "user_id", userID)
	}
}
