package service

import (
	"context"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followTarget(id uint, username string) func(context.Context, string) (*models.User, error) {
	return func(_ context.Context, name string) (*models.User, error) {
		if name == username {
			return &models.User{ID: id, Username: username, Email: username + "@example.com"}, nil
		}
		return nil, nil
	}
}

func TestFollowService_Follow(t *testing.T) {
	t.Parallel()

	t.Run("creates the edge", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByUsernameFn = followTarget(2, "bob")

		followRepo := noopFollowRepo()
		var created *models.Follow
		followRepo.createFn = func(_ context.Context, f *models.Follow) error {
			created = f
			return nil
		}

		svc := NewFollowService(followRepo, userRepo)
		require.NoError(t, svc.Follow(context.Background(), 1, "bob"))
		require.NotNil(t, created)
		assert.Equal(t, uint(2), created.FollowedID)
		assert.Equal(t, uint(1), created.VisitorID)
	})

	t.Run("unknown target reports a single error", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()

		followRepo := noopFollowRepo()
		followRepo.existsFn = func(context.Context, uint, uint) (bool, error) {
			t.Fatal("duplicate check must not run for an unresolved username")
			return false, nil
		}

		svc := NewFollowService(followRepo, userRepo)
		err := svc.Follow(context.Background(), 1, "ghost")
		msgs := validationMessages(t, err)
		assert.Equal(t, []string{"You cannot follow a user that does not exist."}, msgs)
	})

	t.Run("duplicate and self violations accumulate", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByUsernameFn = followTarget(1, "alice")

		followRepo := noopFollowRepo()
		followRepo.existsFn = func(context.Context, uint, uint) (bool, error) { return true, nil }

		svc := NewFollowService(followRepo, userRepo)
		err := svc.Follow(context.Background(), 1, "alice")
		msgs := validationMessages(t, err)
		assert.Equal(t, []string{
			"You are already following this user.",
			"You cannot follow yourself.",
		}, msgs)
	})
}

func TestFollowService_Unfollow(t *testing.T) {
	t.Parallel()

	t.Run("removes the edge", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByUsernameFn = followTarget(2, "bob")

		followRepo := noopFollowRepo()
		followRepo.existsFn = func(context.Context, uint, uint) (bool, error) { return true, nil }
		var deleted bool
		followRepo.deleteFn = func(_ context.Context, followedID, visitorID uint) error {
			deleted = true
			assert.Equal(t, uint(2), followedID)
			assert.Equal(t, uint(1), visitorID)
			return nil
		}

		svc := NewFollowService(followRepo, userRepo)
		require.NoError(t, svc.Unfollow(context.Background(), 1, "bob"))
		assert.True(t, deleted)
	})

	t.Run("unknown target", func(t *testing.T) {
		t.Parallel()
		svc := NewFollowService(noopFollowRepo(), noopUserRepo())
		err := svc.Unfollow(context.Background(), 1, "ghost")
		msgs := validationMessages(t, err)
		assert.Equal(t, []string{"You cannot stop following a user that does not exist."}, msgs)
	})

	t.Run("not currently following", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByUsernameFn = followTarget(2, "bob")

		svc := NewFollowService(noopFollowRepo(), userRepo)
		err := svc.Unfollow(context.Background(), 1, "bob")
		msgs := validationMessages(t, err)
		assert.Equal(t, []string{"You cannot stop following a user you do not already follow."}, msgs)
	})
}

func TestFollowService_Lists(t *testing.T) {
	t.Parallel()

	followRepo := noopFollowRepo()
	followRepo.followersFn = func(context.Context, uint) ([]models.User, error) {
		return []models.User{
			{ID: 2, Username: "bob", Email: "bob@example.com", Password: "secret"},
			{ID: 3, Username: "carol", Email: "carol@example.com", Password: "secret"},
		}, nil
	}

	svc := NewFollowService(followRepo, noopUserRepo())
	followers, err := svc.Followers(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	// Order is preserved and only public identity fields survive.
	assert.Equal(t, "bob", followers[0].Username)
	assert.Equal(t, "carol", followers[1].Username)
	assert.NotEmpty(t, followers[0].Avatar)
}
