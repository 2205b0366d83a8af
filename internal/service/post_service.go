package service

import (
	"context"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const msgInvalidGroup = "Select a valid choice. That choice is not one of the available choices."

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
}

// PostInput is the submitted post form.
type PostInput struct {
	Text string
	// Group is the raw group id from the form; empty means no group.
	Group string
	// Image is the stored media path of a new upload; empty keeps the
	// current image on update.
	Image string
}

func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
	}
}

func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) Create(ctx context.Context, authorID uint, in PostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post", "create")
	defer func() { observability.EndSpan(span, err) }()

	text, groupID, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		Text:     text,
		Image:    in.Image,
		AuthorID: authorID,
		GroupID:  groupID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()
	return post, nil
}

// Update edits text, group and image of a post owned by userID. The author
// is never reassigned.
func (s *PostService) Update(ctx context.Context, userID, postID uint, in PostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post", "update", attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err = s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}

	text, groupID, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = groupID
	if in.Image != "" {
		post.Image = in.Image
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) validate(ctx context.Context, in PostInput) (string, *uint, error) {
	errs := validation.FieldErrors{}

	text := strings.TrimSpace(in.Text)
	errs.Required("text", validation.CleanText(text))

	var groupID *uint
	if raw := strings.TrimSpace(in.Group); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			errs.Add("group", msgInvalidGroup)
		} else if group, err := s.groupRepo.GetByID(ctx, uint(id)); err != nil {
			if !models.IsNotFound(err) {
				return "", nil, err
			}
			errs.Add("group", msgInvalidGroup)
		} else {
			groupID = &group.ID
		}
	}

	if errs.Any() {
		return "", nil, models.NewFormError(errs)
	}
	return text, groupID, nil
}
