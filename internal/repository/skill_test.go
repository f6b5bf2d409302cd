package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillRepository_Integration(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(testDB)
	repo := NewSkillRepository(testDB)

	ts := time.Now().UnixNano()
	owner := &models.User{Username: fmt.Sprintf("sk_%d", ts), Email: fmt.Sprintf("sk_%d@e.com", ts), Password: "x"}
	require.NoError(t, users.Create(ctx, owner))

	t.Run("Create and duplicate pair", func(t *testing.T) {
		skill := &models.Skill{UserID: owner.ID, Name: "Baking", Type: models.SkillTypeOffered, Proficiency: models.ProficiencyAdvanced}
		require.NoError(t, repo.Create(ctx, skill))

		dup := &models.Skill{UserID: owner.ID, Name: "Baking", Type: models.SkillTypeOffered}
		err := repo.Create(ctx, dup)
		var appErr *models.AppError
		if assert.Error(t, err) && errors.As(err, &appErr) {
			assert.Equal(t, models.CodeDuplicateResource, appErr.Code)
		}

		// The same name as a wanted skill is a different pair.
		wanted := &models.Skill{UserID: owner.ID, Name: "Baking", Type: models.SkillTypeWanted}
		assert.NoError(t, repo.Create(ctx, wanted))
	})

	t.Run("GetByUserIDAndType", func(t *testing.T) {
		offered, err := repo.GetByUserIDAndType(ctx, owner.ID, models.SkillTypeOffered)
		require.NoError(t, err)
		assert.Len(t, offered, 1)

		all, err := repo.GetByUserID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		skill := &models.Skill{UserID: owner.ID, Name: "Whittling", Type: models.SkillTypeOffered}
		require.NoError(t, repo.Create(ctx, skill))
		assert.NoError(t, repo.Delete(ctx, skill.ID))

		_, err := repo.GetByID(ctx, skill.ID)
		assert.Error(t, err)

		err = repo.Delete(ctx, skill.ID)
		var appErr *models.AppError
		if assert.Error(t, err) && errors.As(err, &appErr) {
			assert.Equal(t, models.CodeNotFound, appErr.Code)
		}
	})
}

func TestSkillRepository_Popular(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(testDB)
	repo := NewSkillRepository(testDB)

	ts := time.Now().UnixNano()
	name := fmt.Sprintf("Juggling %d", ts)
	for i := 0; i < 3; i++ {
		owner := &models.User{Username: fmt.Sprintf("pop_%d_%d", ts, i), Email: fmt.Sprintf("pop_%d_%d@e.com", ts, i), Password: "x"}
		require.NoError(t, users.Create(ctx, owner))
		require.NoError(t, repo.Create(ctx, &models.Skill{UserID: owner.ID, Name: name, Type: models.SkillTypeOffered}))
	}

	popular, err := repo.Popular(ctx, 100)
	require.NoError(t, err)

	var count int64
	for _, p := range popular {
		if p.Name == name {
			count = p.Count
		}
	}
	assert.Equal(t, int64(3), count)
}

// A small first request must not pin the cached ranking for later callers
// asking for more entries.
func TestSkillRepository_Popular_CacheIgnoresFirstLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	prev := cache.GetClient()
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer cache.SetClient(prev)

	ctx := context.Background()
	users := NewUserRepository(testDB)
	repo := NewSkillRepository(testDB)

	ts := time.Now().UnixNano()
	for i := 0; i < 3; i++ {
		owner := &models.User{Username: fmt.Sprintf("rank_%d_%d", ts, i), Email: fmt.Sprintf("rank_%d_%d@e.com", ts, i), Password: "x"}
		require.NoError(t, users.Create(ctx, owner))
		require.NoError(t, repo.Create(ctx, &models.Skill{
			UserID: owner.ID,
			Name:   fmt.Sprintf("Ranked %d %d", ts, i),
			Type:   models.SkillTypeOffered,
		}))
	}

	first, err := repo.Popular(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	wider, err := repo.Popular(ctx, 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(wider), 3)
}
