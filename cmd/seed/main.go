package main

import (
	"log"

	"microblog/internal/config"
	"microblog/internal/db"
	"microblog/internal/model"
)

type seedUser struct {
	Username string
	Email    string
	Posts    []seedPost
}

type seedPost struct {
	Title   string
	Content string
}

var fixtures = []seedUser{
	{
		Username: "ana",
		Email:    "ana@example.com",
		Posts: []seedPost{
			{Title: "First Post", Content: "Hello from the seed data."},
			{Title: "Second Post", Content: "Still here, still writing."},
		},
	},
	{
		Username: "bruno",
		Email:    "bruno@example.com",
		Posts: []seedPost{
			{Title: "On Gardening", Content: "Tomatoes want more sun than you think."},
		},
	},
	{
		Username: "carla",
		Email:    "carla@example.com",
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	created := 0
	for _, fixture := range fixtures {
		user := model.User{Username: fixture.Username, Email: fixture.Email}
		result := gormDB.Where("username = ?", fixture.Username).FirstOrCreate(&user)
		if result.Error != nil {
			log.Fatalf("Failed to seed user %s: %v", fixture.Username, result.Error)
		}
		if result.RowsAffected > 0 {
			created++
		}

		for _, p := range fixture.Posts {
			post := model.Post{Title: p.Title, Content: p.Content, UserID: user.ID}
			err := gormDB.
				Where("title = ? AND user_id = ?", p.Title, user.ID).
				FirstOrCreate(&post).Error
			if err != nil {
				log.Fatalf("Failed to seed post %q: %v", p.Title, err)
			}
		}
	}

	log.Printf("Seed complete: %d new users, %d users total", created, len(fixtures))
}
