package server

import (
	"github.com/gofiber/fiber/v2"
)

// ProfileFollow handles /profile/:username/follow and returns to the
// author's page.
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	author, err := s.followService.Follow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return err
	}
	return c.RedirectToRoute("posts.profile", fiber.Map{"username": author.Username})
}

// ProfileUnfollow handles /profile/:username/unfollow and returns to the
// viewer's own page.
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	if _, err := s.followService.Unfollow(c.UserContext(), currentUserID(c), c.Params("username")); err != nil {
		return err
	}
	return c.RedirectToRoute("posts.profile", fiber.Map{"username": currentUser(c).Username})
}
