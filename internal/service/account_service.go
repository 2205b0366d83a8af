package service

import (
	"context"
	"log/slog"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const msgBadCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// AccountService provisions and authenticates user accounts.
type AccountService struct {
	userRepo repository.UserRepository
	hashCost int
}

// SignUpInput is the submitted registration form.
type SignUpInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password1 string
	Password2 string
}

func NewAccountService(userRepo repository.UserRepository) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		hashCost: bcrypt.DefaultCost,
	}
}

// SignUp validates the form and creates the user together with an empty
// profile. Either both rows are written or neither is.
func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "account", "signup")
	defer func() { observability.EndSpan(span, err) }()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	errs := validation.FieldErrors{}
	errs.MaxLength("first_name", in.FirstName, 150)
	errs.MaxLength("last_name", in.LastName, 150)

	if in.Username == "" {
		errs.Add("username", validation.MsgRequired)
	} else if vErr := validation.ValidateUsername(in.Username); vErr != nil {
		errs.AddErr("username", vErr)
	} else {
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs.Add("username", "A user with that username already exists.")
		}
	}

	if in.Email == "" {
		errs.Add("email", validation.MsgRequired)
	} else if vErr := validation.ValidateEmail(in.Email); vErr != nil {
		errs.AddErr("email", vErr)
	} else {
		existing, err := s.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs.Add("email", "A user with that email already exists.")
		}
	}

	if in.Password1 == "" {
		errs.Add("password1", validation.MsgRequired)
	} else {
		errs.AddErr("password1", validation.ValidatePassword(in.Password1))
	}
	if in.Password2 == "" {
		errs.Add("password2", validation.MsgRequired)
	} else if in.Password1 != "" && in.Password1 != in.Password2 {
		errs.Add("password2", "The two password fields didn't match.")
	}

	if errs.Any() {
		return nil, models.NewFormError(errs)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password1), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashed),
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := s.userRepo.CreateWithProfile(ctx, user, &models.Profile{}); err != nil {
		return nil, err
	}

	observability.Signups.Inc()
	middleware.Logger.InfoContext(ctx, "account created",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Authenticate checks a username/password pair.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, models.NewUnauthorizedError(msgBadCredentials)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError(msgBadCredentials)
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError(msgBadCredentials)
	}
	return user, nil
}
