package service

import (
	"context"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"
)

// FollowService manages the follow graph and the personalized feed.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, postRepo repository.PostRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
	}
}

// IsFollowing reports whether followerID follows authorID. Anonymous viewers
// (followerID zero) and authors on their own page never follow.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	if followerID == 0 || followerID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, authorID)
}

// Follow subscribes followerID to username. Following yourself or an author
// you already follow does nothing.
func (s *FollowService) Follow(ctx context.Context, followerID uint, username string) (author *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "follow", "follow")
	defer func() { observability.EndSpan(span, err) }()

	author, err = s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	if author.ID == followerID {
		return author, nil
	}

	created, err := s.followRepo.Create(ctx, followerID, author.ID)
	if err != nil {
		return nil, err
	}
	if created {
		observability.FollowChanges.WithLabelValues("follow").Inc()
		middleware.Logger.InfoContext(ctx, "author followed", slog.Uint64("author_id", uint64(author.ID)))
	}
	return author, nil
}

// Unfollow removes the edge if present.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, username string) (author *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "follow", "unfollow")
	defer func() { observability.EndSpan(span, err) }()

	author, err = s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}

	removed, err := s.followRepo.Delete(ctx, followerID, author.ID)
	if err != nil {
		return nil, err
	}
	if removed {
		observability.FollowChanges.WithLabelValues("unfollow").Inc()
	}
	return author, nil
}

// Feed returns a page of posts by the authors viewerID follows.
func (s *FollowService) Feed(ctx context.Context, viewerID uint, rawPage string) (page pagination.Page[*models.Post], err error) {
	ctx, span := observability.StartSpan(ctx, "follow", "feed")
	defer func() { observability.EndSpan(span, err) }()

	return loadPage(ctx, s.postRepo, repository.PostFilter{FollowerID: viewerID}, rawPage)
}

func (s *FollowService) resolve(ctx context.Context, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return author, nil
}
