package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

// ProfileService reads and edits a user's account details and profile.
type ProfileService struct {
	userRepo repository.UserRepository
}

// UserInput is the account half of the profile edit form.
type UserInput struct {
	FirstName string
	LastName  string
	Email     string
}

// ProfileInput is the profile half of the profile edit form.
type ProfileInput struct {
	Bio      string
	Location string
	// Avatar is the stored media path of a new upload; empty keeps the
	// current avatar.
	Avatar string
}

func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// Get returns the user and profile. An account without a profile row gets a
// blank, unsaved profile.
func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.User, *models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		// Written by the next successful Edit.
		profile = &models.Profile{UserID: userID}
	}
	return user, profile, nil
}

// Edit validates both halves of the form and saves them together. On a
// validation error the returned user and profile carry the submitted values
// for re-rendering and nothing is persisted.
func (s *ProfileService) Edit(ctx context.Context, userID uint, userIn UserInput, profileIn ProfileInput) (user *models.User, profile *models.Profile, err error) {
	ctx, span := observability.StartSpan(ctx, "profile", "edit")
	defer func() { observability.EndSpan(span, err) }()

	user, profile, err = s.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	user.FirstName = strings.TrimSpace(userIn.FirstName)
	user.LastName = strings.TrimSpace(userIn.LastName)
	user.Email = strings.ToLower(strings.TrimSpace(userIn.Email))
	profile.Bio = strings.TrimSpace(profileIn.Bio)
	profile.Location = strings.TrimSpace(profileIn.Location)
	if profileIn.Avatar != "" {
		profile.Avatar = profileIn.Avatar
	}

	errs, err := s.validateUser(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	errs.Merge(validateProfile(profile))
	if errs.Any() {
		return user, profile, models.NewFormError(errs)
	}

	if err := s.userRepo.SaveWithProfile(ctx, user, profile); err != nil {
		return user, profile, err
	}
	return user, profile, nil
}

func (s *ProfileService) validateUser(ctx context.Context, user *models.User) (validation.FieldErrors, error) {
	errs := validation.FieldErrors{}
	errs.MaxLength("first_name", user.FirstName, 150)
	errs.MaxLength("last_name", user.LastName, 150)

	if user.Email == "" {
		errs.Add("email", validation.MsgRequired)
		return errs, nil
	}
	if vErr := validation.ValidateEmail(user.Email); vErr != nil {
		errs.AddErr("email", vErr)
		return errs, nil
	}
	other, err := s.userRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != user.ID {
		errs.Add("email", "A user with that email already exists.")
	}
	return errs, nil
}

func validateProfile(profile *models.Profile) validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.MaxLength("location", profile.Location, 100)
	return errs
}
