// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register validates a registration attempt and creates the account. Every
// violated rule is collected and reported in one response; uniqueness is only
// checked for fields whose shape already passed, so a malformed username never
// produces a confusing "already taken" message.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	in := validation.NormalizeRegistration(username, email, password)

	// All shape rules run first, then uniqueness, so the aggregated list
	// reads shape violations before "already taken" messages.
	var errs []string

	usernameErrs := validation.UsernameShapeErrors(in.Username)
	errs = append(errs, usernameErrs...)

	emailValid := validation.ValidEmail(in.Email)
	if !emailValid {
		errs = append(errs, "You must provide a valid email address.")
	}

	errs = append(errs, validation.PasswordErrors(in.Password)...)

	if len(usernameErrs) == 0 {
		taken, err := s.userRepo.UsernameExists(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			errs = append(errs, "That username is already taken.")
		}
	}

	if emailValid {
		used, err := s.userRepo.EmailExists(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if used {
			errs = append(errs, "That email is already being used.")
		}
	}

	if len(errs) > 0 {
		return nil, models.NewValidationErrors(errs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies credentials. The failure message is identical for an
// unknown username and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	in := validation.NormalizeRegistration(username, "", password)

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewAuthError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewAuthError()
	}

	return user, nil
}

// GetByID returns the user for an authenticated ID.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ResolveUsername returns the user behind a profile username or a not-found
// error.
func (s *UserService) ResolveUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User")
	}
	return user, nil
}

// UsernameAvailable reports whether a username is free to register. Used by
// the live availability check on the registration form.
func (s *UserService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	in := validation.NormalizeRegistration(username, "", "")
	if len(validation.UsernameShapeErrors(in.Username)) > 0 {
		return false, nil
	}
	taken, err := s.userRepo.UsernameExists(ctx, in.Username)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// EmailAvailable reports whether an email is free to register.
func (s *UserService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	in := validation.NormalizeRegistration("", email, "")
	if !validation.ValidEmail(in.Email) {
		return false, nil
	}
	used, err := s.userRepo.EmailExists(ctx, in.Email)
	if err != nil {
		return false, err
	}
	return !used, nil
}
