package server

import (
	"yatube/internal/media"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.feedService.Index(c.UserContext(), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "index", fiber.Map{"Title": "Latest posts", "Page": page})
}

// GroupPosts handles GET /group/:slug
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	feed, err := s.feedService.Group(c.UserContext(), c.Params("slug"), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "group_list", fiber.Map{
		"Title": "Posts of the group " + feed.Group.Title,
		"Group": feed.Group,
		"Page":  feed.Page,
		"Count": feed.Count,
	})
}

// Profile handles GET /profile/:username
func (s *Server) Profile(c *fiber.Ctx) error {
	feed, err := s.feedService.Author(c.UserContext(), c.Params("username"), currentUserID(c), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "profile", fiber.Map{
		"Title":            "Profile of " + feed.Author.DisplayName(),
		"Author":           feed.Author,
		"Page":             feed.Page,
		"Count":            feed.Count,
		"Following":        feed.Following,
		"ShowFollowButton": feed.ShowFollowButton,
	})
}

// FollowIndex handles GET /follow
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	page, err := s.followService.Feed(c.UserContext(), currentUserID(c), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "follow", fiber.Map{"Title": "Following", "Page": page})
}

// PostDetail handles GET /posts/:id
func (s *Server) PostDetail(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}
	return s.renderPostDetail(c, postID, nil, nil)
}

func (s *Server) renderPostDetail(c *fiber.Ctx, postID uint, form map[string]string, errs map[string][]string) error {
	detail, err := s.feedService.PostDetail(c.UserContext(), postID)
	if err != nil {
		return err
	}
	data := fiber.Map{
		"Title":           "Post " + formatID(detail.Post.ID),
		"Post":            detail.Post,
		"AuthorPostCount": detail.AuthorPostCount,
		"Comments":        detail.Comments,
		"CanEdit":         currentUserID(c) == detail.Post.AuthorID,
		"Errors":          errs,
	}
	if form != nil {
		data["Form"] = form
	}
	return s.render(c, "post_detail", data)
}

// PostCreateForm handles GET /create
func (s *Server) PostCreateForm(c *fiber.Ctx) error {
	return s.renderPostForm(c, nil, map[string]string{}, nil)
}

// PostCreate handles POST /create
func (s *Server) PostCreate(c *fiber.Ctx) error {
	user := currentUser(c)
	form := formValues(c, "text", "group")

	image, uploadErrs, err := s.saveUpload(c, "image", media.KindPosts)
	if err != nil {
		return err
	}
	if uploadErrs != nil {
		return s.renderPostForm(c, nil, form, uploadErrs)
	}

	_, err = s.postService.Create(c.UserContext(), user.ID, service.PostInput{
		Text:  form["text"],
		Group: form["group"],
		Image: image,
	})
	if err != nil {
		s.media.Remove(image)
		if models.IsValidation(err) {
			return s.renderPostForm(c, nil, form, models.FieldErrors(err))
		}
		return err
	}

	return c.RedirectToRoute("posts.profile", fiber.Map{"username": user.Username})
}

// PostEditForm handles GET /posts/:id/edit
func (s *Server) PostEditForm(c *fiber.Ctx) error {
	post, err := s.editablePost(c)
	if err != nil || post == nil {
		return err
	}

	form := map[string]string{"text": post.Text, "group": ""}
	if post.GroupID != nil {
		form["group"] = formatID(*post.GroupID)
	}
	return s.renderPostForm(c, post, form, nil)
}

// PostEdit handles POST /posts/:id/edit
func (s *Server) PostEdit(c *fiber.Ctx) error {
	post, err := s.editablePost(c)
	if err != nil || post == nil {
		return err
	}
	form := formValues(c, "text", "group")

	image, uploadErrs, err := s.saveUpload(c, "image", media.KindPosts)
	if err != nil {
		return err
	}
	if uploadErrs != nil {
		return s.renderPostForm(c, post, form, uploadErrs)
	}

	previousImage := post.Image
	_, err = s.postService.Update(c.UserContext(), currentUserID(c), post.ID, service.PostInput{
		Text:  form["text"],
		Group: form["group"],
		Image: image,
	})
	switch {
	case err == nil:
		if image != "" && previousImage != "" && previousImage != image {
			s.media.Remove(previousImage)
		}
	case models.IsValidation(err):
		s.media.Remove(image)
		return s.renderPostForm(c, post, form, models.FieldErrors(err))
	case models.IsForbidden(err):
		s.media.Remove(image)
	default:
		s.media.Remove(image)
		return err
	}

	return c.RedirectToRoute("posts.post_detail", fiber.Map{"id": formatID(post.ID)})
}

// editablePost loads the post named in the route for its author. Anyone else
// is sent to the post page, in which case both return values are nil.
func (s *Server) editablePost(c *fiber.Ctx) (*models.Post, error) {
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return nil, err
	}
	post, err := s.postService.Get(c.UserContext(), postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != currentUserID(c) {
		return nil, c.RedirectToRoute("posts.post_detail", fiber.Map{"id": formatID(post.ID)})
	}
	return post, nil
}

func (s *Server) renderPostForm(c *fiber.Ctx, post *models.Post, form map[string]string, errs map[string][]string) error {
	groups, err := s.groupRepo.List(c.UserContext())
	if err != nil {
		return err
	}
	title := "New post"
	if post != nil {
		title = "Edit post"
	}
	return s.render(c, "create_post", fiber.Map{
		"Title":  title,
		"IsEdit": post != nil,
		"Post":   post,
		"Groups": groups,
		"Form":   form,
		"Errors": errs,
	})
}

// AddComment handles POST /posts/:id/comment
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}
	form := formValues(c, "text")

	_, err = s.commentService.AddComment(c.UserContext(), currentUserID(c), postID, service.CommentInput{Text: form["text"]})
	if err != nil {
		if models.IsValidation(err) {
			return s.renderPostDetail(c, postID, form, models.FieldErrors(err))
		}
		return err
	}

	return c.RedirectToRoute("posts.post_detail", fiber.Map{"id": formatID(postID)})
}
