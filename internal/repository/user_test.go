package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        uint
		mockBehavior  func()
		expectedUser  *models.User
		expectedError bool
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(1, "testuser", "test@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Username: "testuser", Email: "test@example.com"},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
				var appErr *models.AppError
				if assert.ErrorAs(t, err, &appErr) {
					assert.Equal(t, models.CodeNotFound, appErr.Code)
				}
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.expectedUser.Username, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(1, 1).
		WillReturnError(errors.New("connection timeout"))

	user, err := repo.GetByID(ctx, 1)
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NoRowIsNotAnError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("nobody@example.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Integration(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	t.Run("Create and Duplicate", func(t *testing.T) {
		u := &models.User{Username: "dup_check", Email: "dup_check@example.com", Password: "x"}
		assert.NoError(t, repo.Create(ctx, u))

		again := &models.User{Username: "dup_check", Email: "other@example.com", Password: "x"}
		err := repo.Create(ctx, again)
		var appErr *models.AppError
		if assert.Error(t, err) && errors.As(err, &appErr) {
			assert.Equal(t, models.CodeDuplicateResource, appErr.Code)
		}
	})

	t.Run("SetBanned", func(t *testing.T) {
		u := &models.User{Username: "ban_target", Email: "ban_target@example.com", Password: "x"}
		assert.NoError(t, repo.Create(ctx, u))

		assert.NoError(t, repo.SetBanned(ctx, u.ID, true, "spamming"))

		fresh, err := repo.GetByID(ctx, u.ID)
		assert.NoError(t, err)
		assert.True(t, fresh.IsBanned)
		assert.Equal(t, "spamming", fresh.BannedReason)
		assert.NotNil(t, fresh.BannedAt)

		assert.NoError(t, repo.SetBanned(ctx, u.ID, false, ""))
		fresh, err = repo.GetByID(ctx, u.ID)
		assert.NoError(t, err)
		assert.False(t, fresh.IsBanned)
		assert.Nil(t, fresh.BannedAt)
	})

	t.Run("SetBanned missing user", func(t *testing.T) {
		err := repo.SetBanned(ctx, 999999, true, "gone")
		var appErr *models.AppError
		if assert.Error(t, err) && errors.As(err, &appErr) {
			assert.Equal(t, models.CodeNotFound, appErr.Code)
		}
	})

	t.Run("SearchBySkill", func(t *testing.T) {
		teacher := &models.User{Username: "search_teacher", Email: "search_teacher@example.com", Password: "x", IsPublic: true}
		hidden := &models.User{Username: "search_hidden", Email: "search_hidden@example.com", Password: "x", IsPublic: false}
		assert.NoError(t, repo.Create(ctx, teacher))
		assert.NoError(t, repo.Create(ctx, hidden))

		skills := NewSkillRepository(testDB)
		assert.NoError(t, skills.Create(ctx, &models.Skill{UserID: teacher.ID, Name: "Guitar", Type: models.SkillTypeOffered}))
		assert.NoError(t, skills.Create(ctx, &models.Skill{UserID: hidden.ID, Name: "Guitar", Type: models.SkillTypeOffered}))
		// A wanted skill must not make its owner searchable.
		assert.NoError(t, skills.Create(ctx, &models.Skill{UserID: teacher.ID, Name: "Piano", Type: models.SkillTypeWanted}))

		found, err := repo.SearchBySkill(ctx, "guit", 20, 0)
		assert.NoError(t, err)
		if assert.Len(t, found, 1) {
			assert.Equal(t, teacher.ID, found[0].ID)
		}

		found, err = repo.SearchBySkill(ctx, "piano", 20, 0)
		assert.NoError(t, err)
		assert.Empty(t, found)
	})
}

// A cached user round-trips through JSON, which strips the password hash.
// GetByIDFresh must bypass the cache so read-modify-write paths never save
// the stripped copy back.
func TestUserRepository_GetByIDFresh_BypassesCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	prev := cache.GetClient()
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer cache.SetClient(prev)

	repo := NewUserRepository(testDB)
	ctx := context.Background()

	const hash = "$2a$10$abcdefghijklmnopqrstuv"
	u := &models.User{Username: "cache_fresh", Email: "cache_fresh@example.com", Password: hash}
	assert.NoError(t, repo.Create(ctx, u))

	// First read populates the cache, second read is served from it.
	_, err = repo.GetByID(ctx, u.ID)
	assert.NoError(t, err)
	cached, err := repo.GetByID(ctx, u.ID)
	assert.NoError(t, err)
	assert.Empty(t, cached.Password)

	fresh, err := repo.GetByIDFresh(ctx, u.ID)
	assert.NoError(t, err)
	assert.Equal(t, hash, fresh.Password)
}
