// Command seed fills the database with demo users, categories and posts.
package main

import (
	"flag"
	"log"

	"creatorr/internal/config"
	"creatorr/internal/database"
	"creatorr/internal/seed"
)

func main() {
	users := flag.Int("users", 5, "number of demo users to create")
	postsPerUser := flag.Int("posts", 4, "posts per demo user")
	adminPassword := flag.String("admin-password", "admin123", "password for the admin account")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	opts := seed.DefaultOptions()
	opts.Users = *users
	opts.PostsPerUser = *postsPerUser
	opts.AdminEmail = cfg.AdminEmail
	opts.AdminPassword = *adminPassword
	opts.BcryptCost = cfg.BcryptCost

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
