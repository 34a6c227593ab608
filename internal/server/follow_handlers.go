package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/follows/:username
func (s *Server) Follow(c *fiber.Ctx) error {
	username := c.Params("username")

	if err := s.followService.Follow(c.UserContext(), currentUserID(c), username); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "You are now following " + username + "!",
	})
}

// Unfollow handles DELETE /api/follows/:username
func (s *Server) Unfollow(c *fiber.Ctx) error {
	username := c.Params("username")

	if err := s.followService.Unfollow(c.UserContext(), currentUserID(c), username); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "You have stopped following " + username + ".",
	})
}
