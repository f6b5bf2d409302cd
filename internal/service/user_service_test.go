package service

import (
	"context"
	"strings"
	"testing"

	"skillswap/internal/models"
)

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()

	repoWith := func(user *models.User) *userRepoStub {
		stub := noopUserRepo()
		stub.getByIDWithSkillsFn = func(_ context.Context, id uint) (*models.User, error) {
			return user, nil
		}
		return stub
	}

	t.Run("public profile is visible to anyone", func(t *testing.T) {
		svc := NewUserService(repoWith(&models.User{ID: 2, IsPublic: true}))
		if _, err := svc.GetProfile(ctx, 1, 2, false); err != nil {
			t.Errorf("GetProfile: %v", err)
		}
	})

	t.Run("private profile hides from other users", func(t *testing.T) {
		svc := NewUserService(repoWith(&models.User{ID: 2, IsPublic: false}))
		_, err := svc.GetProfile(ctx, 1, 2, false)
		assertAppCode(t, err, models.CodeNotFound)
	})

	t.Run("private profile still visible to its owner", func(t *testing.T) {
		svc := NewUserService(repoWith(&models.User{ID: 2, IsPublic: false}))
		if _, err := svc.GetProfile(ctx, 2, 2, false); err != nil {
			t.Errorf("GetProfile: %v", err)
		}
	})

	t.Run("banned profile hides from other users but not admins", func(t *testing.T) {
		banned := &models.User{ID: 2, IsPublic: true, IsBanned: true}
		svc := NewUserService(repoWith(banned))
		_, err := svc.GetProfile(ctx, 1, 2, false)
		assertAppCode(t, err, models.CodeNotFound)
		if _, err := svc.GetProfile(ctx, 1, 2, true); err != nil {
			t.Errorf("admin view: %v", err)
		}
	})
}

func TestUserService_SearchBySkill(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a search term", func(t *testing.T) {
		svc := NewUserService(noopUserRepo())
		for _, term := range []string{"", "   "} {
			_, err := svc.SearchBySkill(ctx, term, 20, 0)
			assertAppCode(t, err, models.CodeValidation)
		}
	})

	t.Run("passes the trimmed term through", func(t *testing.T) {
		var gotTerm string
		userRepo := noopUserRepo()
		userRepo.searchBySkillFn = func(_ context.Context, skillName string, limit, offset int) ([]models.User, error) {
			gotTerm = skillName
			return []models.User{{ID: 2}}, nil
		}
		svc := NewUserService(userRepo)
		users, err := svc.SearchBySkill(ctx, "  guitar ", 20, 0)
		if err != nil {
			t.Fatalf("SearchBySkill: %v", err)
		}
		if gotTerm != "guitar" {
			t.Errorf("expected trimmed term, got %q", gotTerm)
		}
		if len(users) != 1 {
			t.Errorf("expected one match, got %d", len(users))
		}
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	repoWith := func(user *models.User) (*userRepoStub, **models.User) {
		var saved *models.User
		stub := noopUserRepo()
		stub.getByIDFreshFn = func(_ context.Context, id uint) (*models.User, error) {
			return user, nil
		}
		stub.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		return stub, &saved
	}

	t.Run("updates only the provided fields", func(t *testing.T) {
		current := &models.User{ID: 1, Username: "old_name", Bio: "old bio", Location: "Lisbon"}
		repo, saved := repoWith(current)
		svc := NewUserService(repo)
		user, err := svc.UpdateProfile(ctx, UpdateProfileInput{
			UserID: 1,
			Bio:    "Now teaching guitar",
		})
		if err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
		if user.Bio != "Now teaching guitar" {
			t.Errorf("expected new bio, got %q", user.Bio)
		}
		if user.Username != "old_name" || user.Location != "Lisbon" {
			t.Errorf("untouched fields changed: %+v", user)
		}
		if *saved == nil {
			t.Error("expected the user to be persisted")
		}
	})

	t.Run("preserves the password hash through a profile edit", func(t *testing.T) {
		const hash = "$2a$10$abcdefghijklmnopqrstuv"
		// The cached copy of a user has no password field. A profile edit
		// must never persist that copy.
		repo, saved := repoWith(&models.User{ID: 1, Password: hash})
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		}
		svc := NewUserService(repo)
		if _, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Bio: "hello"}); err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
		if *saved == nil || (*saved).Password != hash {
			t.Errorf("expected the stored hash to survive, got %+v", *saved)
		}
	})

	t.Run("rejects an invalid username", func(t *testing.T) {
		repo, _ := repoWith(&models.User{ID: 1})
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Username: "x"})
		assertAppCode(t, err, models.CodeValidation)
	})

	t.Run("rejects an oversized bio", func(t *testing.T) {
		repo, _ := repoWith(&models.User{ID: 1})
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Bio: strings.Repeat("x", 501)})
		assertAppCode(t, err, models.CodeValidation)
	})
}

func TestUserService_SetVisibility(t *testing.T) {
	ctx := context.Background()
	userRepo := noopUserRepo()
	userRepo.getByIDFreshFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, IsPublic: true}, nil
	}
	var saved *models.User
	userRepo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}

	svc := NewUserService(userRepo)
	user, err := svc.SetVisibility(ctx, 1, false)
	if err != nil {
		t.Fatalf("SetVisibility: %v", err)
	}
	if user.IsPublic {
		t.Error("expected profile hidden")
	}
	if saved == nil || saved.IsPublic {
		t.Error("expected the change to be persisted")
	}
}
