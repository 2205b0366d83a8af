package server

import (
	"yatube/internal/media"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

var profileFields = []string{"first_name", "last_name", "email", "bio", "location"}

const profileEditTitle = "Edit profile"

// ProfileEditForm handles GET /profile/edit
func (s *Server) ProfileEditForm(c *fiber.Ctx) error {
	user, profile, err := s.profileService.Get(c.UserContext(), currentUserID(c))
	if err != nil {
		return err
	}
	return s.render(c, "profile_edit", fiber.Map{
		"Title":   profileEditTitle,
		"Profile": profile,
		"Form": map[string]string{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"bio":        profile.Bio,
			"location":   profile.Location,
		},
	})
}

// ProfileEdit handles POST /profile/edit
func (s *Server) ProfileEdit(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	form := formValues(c, profileFields...)

	_, current, err := s.profileService.Get(ctx, userID)
	if err != nil {
		return err
	}
	previousAvatar := current.Avatar

	avatar, uploadErrs, err := s.saveUpload(c, "avatar", media.KindAvatars)
	if err != nil {
		return err
	}
	if uploadErrs != nil {
		return s.render(c, "profile_edit", fiber.Map{"Title": profileEditTitle, "Profile": current, "Form": form, "Errors": uploadErrs})
	}

	user, profile, err := s.profileService.Edit(ctx, userID,
		service.UserInput{
			FirstName: form["first_name"],
			LastName:  form["last_name"],
			Email:     form["email"],
		},
		service.ProfileInput{
			Bio:      form["bio"],
			Location: form["location"],
			Avatar:   avatar,
		},
	)
	if err != nil {
		s.media.Remove(avatar)
		if !models.IsValidation(err) || profile == nil {
			return err
		}
		profile.Avatar = previousAvatar
		return s.render(c, "profile_edit", fiber.Map{"Title": profileEditTitle, "Profile": profile, "Form": form, "Errors": models.FieldErrors(err)})
	}

	if avatar != "" && previousAvatar != "" && previousAvatar != avatar {
		s.media.Remove(previousAvatar)
	}
	return c.RedirectToRoute("posts.profile", fiber.Map{"username": user.Username})
}
