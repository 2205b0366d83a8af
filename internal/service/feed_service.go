// Package service holds the application's business logic between the HTTP
// handlers and the repositories.
package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedService assembles the paginated post listings and the post detail view.
type FeedService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	follows     *FollowService
	commentRepo repository.CommentRepository
}

// GroupFeed is one page of a group's posts.
type GroupFeed struct {
	Group *models.Group
	Page  pagination.Page[*models.Post]
	Count int64
}

// AuthorFeed is one page of an author's posts as seen by a viewer.
type AuthorFeed struct {
	Author *models.User
	Page   pagination.Page[*models.Post]
	Count  int64
	// Following is true when the viewer already follows Author.
	Following bool
	// ShowFollowButton is false only when the viewer is Author.
	ShowFollowButton bool
}

// PostDetail is a single post with its comments.
type PostDetail struct {
	Post            *models.Post
	AuthorPostCount int64
	Comments        []*models.Comment
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	follows *FollowService,
	commentRepo repository.CommentRepository,
) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		follows:     follows,
		commentRepo: commentRepo,
	}
}

// Index returns a page of every post, newest first.
func (s *FeedService) Index(ctx context.Context, rawPage string) (page pagination.Page[*models.Post], err error) {
	ctx, span := observability.StartSpan(ctx, "feed", "index")
	defer func() { observability.EndSpan(span, err) }()

	return loadPage(ctx, s.postRepo, repository.PostFilter{}, rawPage)
}

// Group returns a page of the posts filed under slug.
func (s *FeedService) Group(ctx context.Context, slug, rawPage string) (feed *GroupFeed, err error) {
	ctx, span := observability.StartSpan(ctx, "feed", "group", attribute.String("group.slug", slug))
	defer func() { observability.EndSpan(span, err) }()

	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	page, err := loadPage(ctx, s.postRepo, repository.PostFilter{GroupID: group.ID}, rawPage)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: page, Count: page.Count}, nil
}

// Author returns a page of username's posts. viewerID is zero for anonymous
// visitors.
func (s *FeedService) Author(ctx context.Context, username string, viewerID uint, rawPage string) (feed *AuthorFeed, err error) {
	ctx, span := observability.StartSpan(ctx, "feed", "author", attribute.String("author.username", username))
	defer func() { observability.EndSpan(span, err) }()

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	page, err := loadPage(ctx, s.postRepo, repository.PostFilter{AuthorID: author.ID}, rawPage)
	if err != nil {
		return nil, err
	}

	following, err := s.follows.IsFollowing(ctx, viewerID, author.ID)
	if err != nil {
		return nil, err
	}
	return &AuthorFeed{
		Author:           author,
		Page:             page,
		Count:            page.Count,
		Following:        following,
		ShowFollowButton: viewerID != author.ID,
	}, nil
}

// PostDetail loads a post with its comments and the author's post count.
func (s *FeedService) PostDetail(ctx context.Context, postID uint) (detail *PostDetail, err error) {
	ctx, span := observability.StartSpan(ctx, "feed", "post_detail", attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, AuthorPostCount: count, Comments: comments}, nil
}

// loadPage counts the filtered posts, resolves rawPage and loads that page.
func loadPage(ctx context.Context, repo repository.PostRepository, filter repository.PostFilter, rawPage string) (pagination.Page[*models.Post], error) {
	count, err := repo.Count(ctx, filter)
	if err != nil {
		return pagination.Page[*models.Post]{}, err
	}
	window := pagination.Paginator{Count: count, PerPage: pagination.PostsPerPage}.Page(rawPage)
	posts, err := repo.List(ctx, filter, window.Limit, window.Offset)
	if err != nil {
		return pagination.Page[*models.Post]{}, err
	}
	return pagination.NewPage(posts, window), nil
}
