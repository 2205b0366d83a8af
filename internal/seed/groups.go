package seed

import (
	"context"
	"fmt"

	"yatube/internal/cache"
	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInGroups are the communities every fresh installation starts with.
// Groups have no UI of their own and are managed through seeding.
var BuiltInGroups = []models.Group{
	{Title: "Writers' Room", Slug: "writers", Description: "Drafts, feedback and the craft of writing."},
	{Title: "Books", Slug: "books", Description: "What we are reading and why."},
	{Title: "Travel", Slug: "travel", Description: "Notes from the road."},
	{Title: "Cats", Slug: "cats", Description: "The only topic that matters."},
	{Title: "Cooking", Slug: "cooking", Description: "Recipes, disasters and triumphs."},
	{Title: "Photography", Slug: "photo", Description: "Pictures and how they were taken."},
}

// Groups upserts BuiltInGroups by slug. Running it twice changes nothing.
// Cached copies are dropped so renamed groups show up straight away.
func Groups(ctx context.Context, db *gorm.DB) ([]models.Group, error) {
	db = db.WithContext(ctx)
	out := make([]models.Group, 0, len(BuiltInGroups))
	for _, item := range BuiltInGroups {
		group := item
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
		}).Create(&group).Error
		if err != nil {
			return nil, fmt.Errorf("seed group %s: %w", item.Slug, err)
		}
		if group.ID == 0 {
			if err := db.Where("slug = ?", item.Slug).First(&group).Error; err != nil {
				return nil, fmt.Errorf("reload group %s: %w", item.Slug, err)
			}
		}
		cache.InvalidateGroup(ctx, group.Slug)
		out = append(out, group)
	}
	return out, nil
}
