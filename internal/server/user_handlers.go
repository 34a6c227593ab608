package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CheckUsername handles POST /api/users/check-username. Backs the live
// availability indicator on the registration form.
func (s *Server) CheckUsername(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	available, err := s.userService.UsernameAvailable(c.UserContext(), req.Username)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"available": available})
}

// CheckEmail handles POST /api/users/check-email
func (s *Server) CheckEmail(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	available, err := s.userService.EmailAvailable(c.UserContext(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"available": available})
}

// Me handles GET /api/users/me
func (s *Server) Me(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userService.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, models.NewNotFoundError("User"))
	}

	return c.JSON(fiber.Map{"user": user})
}

// ProfilePosts handles GET /api/profile/:username
func (s *Server) ProfilePosts(c *fiber.Ctx) error {
	profile, err := s.profileService.Posts(c.UserContext(), c.Params("username"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// ProfileFollowers handles GET /api/profile/:username/followers
func (s *Server) ProfileFollowers(c *fiber.Ctx) error {
	profile, err := s.profileService.Followers(c.UserContext(), c.Params("username"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// ProfileFollowing handles GET /api/profile/:username/following
func (s *Server) ProfileFollowing(c *fiber.Ctx) error {
	profile, err := s.profileService.Following(c.UserContext(), c.Params("username"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}
