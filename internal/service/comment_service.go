package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

// CommentService handles comment business logic.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// CommentInput is the submitted comment form.
type CommentInput struct {
	Text string
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// AddComment attaches a comment by authorID to postID.
func (s *CommentService) AddComment(ctx context.Context, authorID, postID uint, in CommentInput) (comment *models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "comment", "add")
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	errs := validation.FieldErrors{}
	text := strings.TrimSpace(in.Text)
	errs.Required("text", validation.CleanText(text))
	if errs.Any() {
		return nil, models.NewFormError(errs)
	}

	comment = &models.Comment{
		Text:     text,
		PostID:   post.ID,
		AuthorID: authorID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.Inc()
	return comment, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}
