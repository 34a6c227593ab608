package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow creates a follow edge from visitorID to the account behind
// targetUsername. Violations are collected rather than short-circuited; the
// duplicate and self-follow checks are skipped when the username does not
// resolve since there is no edge to compare against.
func (s *FollowService) Follow(ctx context.Context, visitorID uint, targetUsername string) error {
	var errs []string

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		errs = append(errs, "You cannot follow a user that does not exist.")
	} else {
		exists, err := s.followRepo.Exists(ctx, target.ID, visitorID)
		if err != nil {
			return err
		}
		if exists {
			errs = append(errs, "You are already following this user.")
		}
		if target.ID == visitorID {
			errs = append(errs, "You cannot follow yourself.")
		}
	}

	if len(errs) > 0 {
		return models.NewValidationErrors(errs)
	}

	return s.followRepo.Create(ctx, &models.Follow{
		FollowedID: target.ID,
		VisitorID:  visitorID,
	})
}

// Unfollow removes the follow edge from visitorID to targetUsername.
func (s *FollowService) Unfollow(ctx context.Context, visitorID uint, targetUsername string) error {
	var errs []string

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		errs = append(errs, "You cannot stop following a user that does not exist.")
	} else {
		exists, err := s.followRepo.Exists(ctx, target.ID, visitorID)
		if err != nil {
			return err
		}
		if !exists {
			errs = append(errs, "You cannot stop following a user you do not already follow.")
		}
	}

	if len(errs) > 0 {
		return models.NewValidationErrors(errs)
	}

	return s.followRepo.Delete(ctx, target.ID, visitorID)
}

// IsFollowing reports whether visitorID currently follows followedID.
func (s *FollowService) IsFollowing(ctx context.Context, followedID, visitorID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followedID, visitorID)
}

// Followers lists the public identities of everyone following the given
// user, oldest edge first.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.PublicUser, error) {
	users, err := s.followRepo.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toPublicUsers(users), nil
}

// Following lists the public identities of everyone the given user follows,
// oldest edge first.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.PublicUser, error) {
	users, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toPublicUsers(users), nil
}

func toPublicUsers(users []models.User) []models.PublicUser {
	public := make([]models.PublicUser, len(users))
	for i := range users {
		public[i] = users[i].Public()
	}
	return public
}
