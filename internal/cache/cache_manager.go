package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// CacheManager groups the helpers by keyspace.
type CacheManager struct {
	Catalog *CacheHelper
	Profile *CacheHelper
}

func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		Catalog: NewCacheHelper(client, CatalogCacheConfig.Prefix),
		Profile: NewCacheHelper(client, ProfileCacheConfig.Prefix),
	}
}

// SafeInvalidatePattern invalidates a pattern, logging instead of failing.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes keys, logging instead of failing.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCourseCache drops every cached view of a course.
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID uint, slug string) {
	SafeDelete(ctx, cm.Catalog,
		fmt.Sprintf("course:id:%d", courseID),
		fmt.Sprintf("course:slug:%s", slug))
	SafeInvalidatePattern(ctx, cm.Catalog, "courses:*")
}

// InvalidateProfileCache drops the cached public profile view.
func InvalidateProfileCache(ctx context.Context, cm *CacheManager, profileID uint) {
	SafeDelete(ctx, cm.Profile, fmt.Sprintf("id:%d", profileID))
}
