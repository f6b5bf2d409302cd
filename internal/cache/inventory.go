package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	UserSkillsKeyPrefix  = "user:%d:skills"
	UserRatingsKeyPrefix = "user:%d:ratings"
	PopularSkillsKey     = "skills:popular"
	AdminStatsKey        = "admin:stats"
)

const (
	UserTTL          = 5 * time.Minute
	UserSkillsTTL    = 5 * time.Minute
	UserRatingsTTL   = 5 * time.Minute
	PopularSkillsTTL = 10 * time.Minute
	AdminStatsTTL    = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func UserSkillsKey(userID uint) string {
	return fmt.Sprintf(UserSkillsKeyPrefix, userID)
}

func UserRatingsKey(userID uint) string {
	return fmt.Sprintf(UserRatingsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, UserSkillsKey(userID))
}

func InvalidateUserRatings(ctx context.Context, userID uint) {
	Invalidate(ctx, UserRatingsKey(userID))
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePopularSkills(ctx context.Context) {
	Invalidate(ctx, PopularSkillsKey)
}

func InvalidateAdminStats(ctx context.Context) {
	Invalidate(ctx, AdminStatsKey)
}
