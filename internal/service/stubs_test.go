package service

import (
	"context"
	"errors"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Function-field stubs so each test overrides only the calls it cares about.

type userRepoStub struct {
	getByIDFn        func(ctx context.Context, id uint) (*models.User, error)
	getByUsernameFn  func(ctx context.Context, username string) (*models.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*models.User, error)
	createFn         func(ctx context.Context, user *models.User) error
	usernameExistsFn func(ctx context.Context, username string) (bool, error)
	emailExistsFn    func(ctx context.Context, email string) (bool, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *userRepoStub) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.usernameExistsFn(ctx, username)
}

func (s *userRepoStub) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.emailExistsFn(ctx, email)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:        func(context.Context, uint) (*models.User, error) { return nil, nil },
		getByUsernameFn:  func(context.Context, string) (*models.User, error) { return nil, nil },
		getByEmailFn:     func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:         func(context.Context, *models.User) error { return nil },
		usernameExistsFn: func(context.Context, string) (bool, error) { return false, nil },
		emailExistsFn:    func(context.Context, string) (bool, error) { return false, nil },
	}
}

type postRepoStub struct {
	createFn        func(ctx context.Context, post *models.Post) error
	getByIDFn       func(ctx context.Context, id uint) (*models.Post, error)
	getByAuthorFn   func(ctx context.Context, authorID uint) ([]models.Post, error)
	getByAuthorsFn  func(ctx context.Context, authorIDs []uint) ([]models.Post, error)
	updateFn        func(ctx context.Context, id uint, title, body string) error
	deleteFn        func(ctx context.Context, id uint) error
	searchFn        func(ctx context.Context, term string) ([]models.Post, error)
	countByAuthorFn func(ctx context.Context, authorID uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}

func (s *postRepoStub) GetByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	return s.getByAuthorFn(ctx, authorID)
}

func (s *postRepoStub) GetByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error) {
	return s.getByAuthorsFn(ctx, authorIDs)
}

func (s *postRepoStub) Update(ctx context.Context, id uint, title, body string) error {
	return s.updateFn(ctx, id, title, body)
}

func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func (s *postRepoStub) Search(ctx context.Context, term string) ([]models.Post, error) {
	return s.searchFn(ctx, term)
}

func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(context.Context, *models.Post) error { return nil },
		getByIDFn:       func(context.Context, uint) (*models.Post, error) { return &models.Post{}, nil },
		getByAuthorFn:   func(context.Context, uint) ([]models.Post, error) { return nil, nil },
		getByAuthorsFn:  func(context.Context, []uint) ([]models.Post, error) { return nil, nil },
		updateFn:        func(context.Context, uint, string, string) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
		searchFn:        func(context.Context, string) ([]models.Post, error) { return nil, nil },
		countByAuthorFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type followRepoStub struct {
	createFn         func(ctx context.Context, follow *models.Follow) error
	deleteFn         func(ctx context.Context, followedID, visitorID uint) error
	existsFn         func(ctx context.Context, followedID, visitorID uint) (bool, error)
	followersFn      func(ctx context.Context, followedID uint) ([]models.User, error)
	followingFn      func(ctx context.Context, visitorID uint) ([]models.User, error)
	followedIDsFn    func(ctx context.Context, visitorID uint) ([]uint, error)
	countFollowersFn func(ctx context.Context, followedID uint) (int64, error)
	countFollowingFn func(ctx context.Context, visitorID uint) (int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}

func (s *followRepoStub) Delete(ctx context.Context, followedID, visitorID uint) error {
	return s.deleteFn(ctx, followedID, visitorID)
}

func (s *followRepoStub) Exists(ctx context.Context, followedID, visitorID uint) (bool, error) {
	return s.existsFn(ctx, followedID, visitorID)
}

func (s *followRepoStub) Followers(ctx context.Context, followedID uint) ([]models.User, error) {
	return s.followersFn(ctx, followedID)
}

func (s *followRepoStub) Following(ctx context.Context, visitorID uint) ([]models.User, error) {
	return s.followingFn(ctx, visitorID)
}

func (s *followRepoStub) FollowedIDs(ctx context.Context, visitorID uint) ([]uint, error) {
	return s.followedIDsFn(ctx, visitorID)
}

func (s *followRepoStub) CountFollowers(ctx context.Context, followedID uint) (int64, error) {
	return s.countFollowersFn(ctx, followedID)
}

func (s *followRepoStub) CountFollowing(ctx context.Context, visitorID uint) (int64, error) {
	return s.countFollowingFn(ctx, visitorID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(context.Context, *models.Follow) error { return nil },
		deleteFn:         func(context.Context, uint, uint) error { return nil },
		existsFn:         func(context.Context, uint, uint) (bool, error) { return false, nil },
		followersFn:      func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followingFn:      func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followedIDsFn:    func(context.Context, uint) ([]uint, error) { return nil, nil },
		countFollowersFn: func(context.Context, uint) (int64, error) { return 0, nil },
		countFollowingFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %v", err)
	return appErr.Code
}

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %v", err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	return appErr.Errors
}
