package server

import (
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignUpForm handles GET /signup
func (s *Server) SignUpForm(c *fiber.Ctx) error {
	return s.render(c, "signup", fiber.Map{"Title": "Sign up"})
}

// SignUp handles POST /signup. A new account is logged in straight away.
func (s *Server) SignUp(c *fiber.Ctx) error {
	form := formValues(c, "first_name", "last_name", "username", "email")

	user, err := s.accountService.SignUp(c.UserContext(), service.SignUpInput{
		FirstName: form["first_name"],
		LastName:  form["last_name"],
		Username:  form["username"],
		Email:     form["email"],
		Password1: c.FormValue("password1"),
		Password2: c.FormValue("password2"),
	})
	if err != nil {
		if models.IsValidation(err) {
			return s.render(c, "signup", fiber.Map{"Title": "Sign up", "Form": form, "Errors": models.FieldErrors(err)})
		}
		return err
	}

	if err := s.issueSession(c, user); err != nil {
		return err
	}
	return c.RedirectToRoute("posts.index", nil)
}

// LoginForm handles GET /auth/login
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.render(c, "login", fiber.Map{"Title": "Log in", "Next": c.Query("next")})
}

// Login handles POST /auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	form := formValues(c, "username")
	next := c.FormValue("next")

	user, err := s.accountService.Authenticate(c.UserContext(), form["username"], c.FormValue("password"))
	if err != nil {
		if models.IsUnauthorized(err) {
			middleware.Logger.InfoContext(c.UserContext(), "login rejected", slog.String("username", form["username"]))
			return s.render(c, "login", fiber.Map{
				"Title":  "Log in",
				"Form":   form,
				"Next":   next,
				"Errors": map[string][]string{"__all__": {err.Error()}},
			})
		}
		return err
	}

	if err := s.issueSession(c, user); err != nil {
		return err
	}
	index, err := s.urlFor("posts.index")
	if err != nil {
		return err
	}
	return c.Redirect(safeNext(next, index), fiber.StatusFound)
}

// Logout handles /auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSession(c)
	return c.RedirectToRoute("posts.index", nil)
}
