package service

import (
	"context"
	"errors"

	"quill/internal/cache"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"
)

type PostService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewPostService(
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// CreatePost sanitizes and validates the payload and stores the post. Both
// field violations are reported together when title and body are missing.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, title, body string) (*models.PostView, error) {
	in := validation.NormalizePost(title, body)
	if errs := validation.PostErrors(in); len(errs) > 0 {
		return nil, models.NewValidationErrors(errs)
	}

	post := &models.Post{
		Title:    in.Title,
		Body:     in.Body,
		AuthorID: authorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidateProfileCounts(ctx, authorID)

	return s.GetPost(ctx, post.ID, authorID)
}

// GetPost returns a single post rendered for the given viewer. viewerID is
// zero for anonymous visitors.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.PostView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	view := toView(post, viewerID)
	return &view, nil
}

// ownedPost loads a post for a mutating request. An absent post and a post
// owned by someone else collapse into the same permission error.
func (s *PostService) ownedPost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("You do not have permission to perform that action")
		}
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewUnauthorizedError("You do not have permission to perform that action")
	}
	return post, nil
}

// UpdatePost edits a post. Ownership is checked before validation and fails
// closed: a viewer who does not own the post gets the same response whether
// or not the payload is valid.
func (s *PostService) UpdatePost(ctx context.Context, postID, userID uint, title, body string) (*models.PostView, error) {
	if _, err := s.ownedPost(ctx, postID, userID); err != nil {
		return nil, err
	}

	in := validation.NormalizePost(title, body)
	if errs := validation.PostErrors(in); len(errs) > 0 {
		return nil, models.NewValidationErrors(errs)
	}

	if err := s.postRepo.Update(ctx, postID, in.Title, in.Body); err != nil {
		return nil, err
	}

	return s.GetPost(ctx, postID, userID)
}

// DeletePost removes a post after the same fail-closed ownership check as
// UpdatePost.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.ownedPost(ctx, postID, userID)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	cache.InvalidateProfileCounts(ctx, post.AuthorID)
	return nil
}

// ListByAuthor returns an author's posts, newest first, rendered for the
// viewer.
func (s *PostService) ListByAuthor(ctx context.Context, authorID, viewerID uint) ([]models.PostView, error) {
	posts, err := s.postRepo.GetByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return toViews(posts, viewerID), nil
}

// Search runs a relevance-ranked full-text search over every post.
func (s *PostService) Search(ctx context.Context, term string, viewerID uint) ([]models.PostView, error) {
	term = validation.SanitizePlainText(term)
	if term == "" {
		return nil, models.NewValidationError("You must provide a search term.")
	}

	middleware.SearchQueries.Inc()

	posts, err := s.postRepo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return toViews(posts, viewerID), nil
}

// Feed returns every post authored by accounts the user follows, newest
// first. A user following nobody gets an empty feed without touching the
// post store.
func (s *PostService) Feed(ctx context.Context, userID uint) ([]models.PostView, error) {
	authorIDs, err := s.followRepo.FollowedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(authorIDs) == 0 {
		return []models.PostView{}, nil
	}

	posts, err := s.postRepo.GetByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	return toViews(posts, userID), nil
}

func toView(post *models.Post, viewerID uint) models.PostView {
	return models.PostView{
		ID:             post.ID,
		Title:          post.Title,
		Body:           post.Body,
		BodyHTML:       validation.RenderMarkdown(post.Body),
		CreatedAt:      post.CreatedAt,
		Author:         post.Author.Public(),
		IsVisitorOwner: viewerID != 0 && post.AuthorID == viewerID,
	}
}

func toViews(posts []models.Post, viewerID uint) []models.PostView {
	views := make([]models.PostView, len(posts))
	for i := range posts {
		views[i] = toView(&posts[i], viewerID)
	}
	return views
}
