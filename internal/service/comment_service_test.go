package service

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddComment_Validation(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, _ *models.Comment) error {
		t.Error("invalid comment must not be persisted")
		return nil
	}
	svc := NewCommentService(comments, noopPostRepo())
	ctx := context.Background()

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		_, err := svc.AddComment(ctx, 1, 1, CommentInput{})
		assertFieldError(t, err, "text")
	})

	t.Run("markup only", func(t *testing.T) {
		t.Parallel()
		_, err := svc.AddComment(ctx, 1, 1, CommentInput{Text: "<p></p>"})
		assertFieldError(t, err, "text")
	})

	t.Run("blank text", func(t *testing.T) {
		t.Parallel()
		_, err := svc.AddComment(ctx, 1, 1, CommentInput{Text: "  \n "})
		assertFieldError(t, err, "text")
	})
}

func TestCommentService_AddComment_PostNotFound(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewCommentService(noopCommentRepo(), posts)
	_, err := svc.AddComment(context.Background(), 1, 99, CommentInput{Text: "hi"})
	assert.True(t, models.IsNotFound(err))
}

func TestCommentService_AddComment_Success(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 42
		return nil
	}
	svc := NewCommentService(comments, noopPostRepo())

	comment, err := svc.AddComment(context.Background(), 3, 5, CommentInput{Text: " a<b>c "})
	require.NoError(t, err)
	assert.Equal(t, uint(42), comment.ID)
	assert.Equal(t, uint(3), comment.AuthorID)
	assert.Equal(t, uint(5), comment.PostID)
	assert.Equal(t, "a<b>c", comment.Text)
}

func TestCommentService_AddComment_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("insert failed")
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, _ *models.Comment) error { return repoErr }
	svc := NewCommentService(comments, noopPostRepo())

	_, err := svc.AddComment(context.Background(), 1, 1, CommentInput{Text: "hi"})
	assert.ErrorIs(t, err, repoErr)
}
