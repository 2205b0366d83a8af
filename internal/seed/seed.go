package seed

import (
	"context"
	"fmt"
	"log"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// Seeder fills the database with a connected set of users, posts, comments
// and follows.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a seeder writing through db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// Result counts what a run created.
type Result struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int
}

// ClearAll removes every row the seeder can create, children first.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []interface{}{
		&models.Comment{}, &models.Follow{}, &models.Post{}, &models.Profile{}, &models.Group{}, &models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run creates numUsers users and numPosts posts spread over them and the
// built-in groups. Every user follows a few others and every post gets a
// comment or two.
func (s *Seeder) Run(numUsers, numPosts int) (*Result, error) {
	res := &Result{}
	if numUsers <= 0 {
		return res, nil
	}

	groups := append([]models.Group(nil), BuiltInGroups...)
	if !s.factory.opts.DryRun {
		var err error
		if groups, err = Groups(context.Background(), s.db); err != nil {
			return nil, err
		}
	}
	res.Groups = len(groups)

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	res.Users = len(users)

	rng := s.factory.rng
	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[rng.Intn(len(users))]
		var group *models.Group
		// Roughly a third of posts stay outside any group.
		if len(groups) > 0 && rng.Intn(3) != 0 {
			group = &groups[rng.Intn(len(groups))]
		}
		posts = append(posts, s.factory.BuildPost(author, group))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	res.Posts = len(posts)

	for _, post := range posts {
		for n := rng.Intn(3); n > 0; n-- {
			if _, err := s.factory.CreateComment(post, users[rng.Intn(len(users))]); err != nil {
				return nil, fmt.Errorf("create comment: %w", err)
			}
			res.Comments++
		}
	}

	if len(users) > 1 {
		for _, user := range users {
			for n := 1 + rng.Intn(3); n > 0; n-- {
				created, err := s.factory.Follow(user, users[rng.Intn(len(users))])
				if err != nil {
					return nil, fmt.Errorf("create follow: %w", err)
				}
				if created {
					res.Follows++
				}
			}
		}
	}

	return res, nil
}
