// Command seed fills the database with demo users, groups, posts, comments
// and follows.
package main

import (
	"context"
	"flag"
	"log"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 120, "Number of posts to create")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	groupsOnly := flag.Bool("groups-only", false, "Only upsert the built-in groups")
	fast := flag.Bool("fast", true, "Hash passwords with the minimum bcrypt cost")
	maxDays := flag.Int("max-days", 90, "Spread post dates over this many days")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Optional: lets the group upsert drop stale cached groups.
	cache.InitRedis(cfg.RedisURL)

	s := seed.NewSeeder(db, seed.Options{SkipBcrypt: *fast, MaxDays: *maxDays})
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if *groupsOnly {
		groups, err := seed.Groups(context.Background(), db)
		if err != nil {
			log.Fatalf("Group seeding failed: %v", err)
		}
		log.Printf("%d groups available", len(groups))
		return
	}

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)
	res, err := s.Run(*numUsers, *numPosts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Created %d users, %d groups, %d posts, %d comments, %d follows",
		res.Users, res.Groups, res.Posts, res.Comments, res.Follows)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
