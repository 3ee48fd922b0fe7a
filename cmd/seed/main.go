// Command main runs the database seeder for Inkwell.
package main

import (
	"context"
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	numAuthors := flag.Int("authors", 30, "Number of authors to create")
	numStories := flag.Int("stories", 120, "Number of stories to create")
	followRatio := flag.Float64("follow-ratio", 0.3, "Chance that an author follows another author")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Store plain passwords instead of bcrypt hashes")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d authors, %d stories, clean=%v\n", *numAuthors, *numStories, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumAuthors:   *numAuthors,
		NumStories:   *numStories,
		FollowRatio:  *followRatio,
		FeatureFlags: cfg.FeatureFlags,
		SkipBcrypt:   *fast,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d authors, %d follows, %d stories (%d published), %d notifications",
		res.Authors, res.Follows, res.Stories, res.Published, res.Notifications)
	log.Printf("All seeded authors have the password: %s", seed.DefaultPassword)
}
