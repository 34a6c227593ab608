package service

import (
	"context"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/repository"

	"golang.org/x/sync/errgroup"
)

// ProfileCounts are the post/follower/following tallies shown on a profile
// header.
type ProfileCounts struct {
	Posts     int64 `json:"posts"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// Profile is a user's profile screen rendered for a particular viewer.
type Profile struct {
	User         models.PublicUser   `json:"user"`
	Counts       ProfileCounts       `json:"counts"`
	IsFollowing  bool                `json:"is_following"`
	IsOwnProfile bool                `json:"is_own_profile"`
	Posts        []models.PostView   `json:"posts,omitempty"`
	Followers    []models.PublicUser `json:"followers,omitempty"`
	Following    []models.PublicUser `json:"following,omitempty"`
}

type ProfileService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
}

func NewProfileService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
) *ProfileService {
	return &ProfileService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
	}
}

// header assembles the shared top of every profile screen. The three counts,
// the viewer's follow status and the profile identity are independent reads,
// so they run concurrently and the whole screen fails if any of them fails.
func (s *ProfileService) header(ctx context.Context, username string, viewerID uint) (*Profile, *models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, models.NewNotFoundError("User")
	}

	profile := &Profile{
		User:         user.Public(),
		IsOwnProfile: viewerID != 0 && viewerID == user.ID,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return cache.Aside(gctx, cache.ProfileCountsKey(user.ID), &profile.Counts, cache.CountsTTL, func() error {
			cg, cctx := errgroup.WithContext(gctx)
			cg.Go(func() error {
				n, err := s.postRepo.CountByAuthor(cctx, user.ID)
				profile.Counts.Posts = n
				return err
			})
			cg.Go(func() error {
				n, err := s.followRepo.CountFollowers(cctx, user.ID)
				profile.Counts.Followers = n
				return err
			})
			cg.Go(func() error {
				n, err := s.followRepo.CountFollowing(cctx, user.ID)
				profile.Counts.Following = n
				return err
			})
			return cg.Wait()
		})
	})

	if viewerID != 0 && viewerID != user.ID {
		g.Go(func() error {
			following, err := s.followRepo.Exists(gctx, user.ID, viewerID)
			profile.IsFollowing = following
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profile, user, nil
}

// Posts returns the profile screen with the user's posts, newest first.
func (s *ProfileService) Posts(ctx context.Context, username string, viewerID uint) (*Profile, error) {
	profile, user, err := s.header(ctx, username, viewerID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.GetByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	profile.Posts = toViews(posts, viewerID)
	return profile, nil
}

// Followers returns the profile screen with the follower list in edge
// insertion order.
func (s *ProfileService) Followers(ctx context.Context, username string, viewerID uint) (*Profile, error) {
	profile, user, err := s.header(ctx, username, viewerID)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.Followers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	profile.Followers = toPublicUsers(followers)
	return profile, nil
}

// Following returns the profile screen with the list of accounts the user
// follows in edge insertion order.
func (s *ProfileService) Following(ctx context.Context, username string, viewerID uint) (*Profile, error) {
	profile, user, err := s.header(ctx, username, viewerID)
	if err != nil {
		return nil, err
	}

	following, err := s.followRepo.Following(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	profile.Following = toPublicUsers(following)
	return profile, nil
}
