package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears all tables.
//  2. Creates 10 users with bcrypt-hashed passwords ("password").
//  3. Creates 4 genres and 40 movies spread over catalog pages 1-2.
//  4. Generates interests with ~60% likes so connected users overlap.
//  5. Creates a mix of pending and active connections.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	tables := []string{"movie_user_interests", "connections", "movie_x_genres", "movies", "movie_genres", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Reset auto-increment sequences
	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range tables {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence")
	}

	log.Println("Cleared existing data")

	// --- Seed Users ---
	for i := 1; i <= 10; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user := User{
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 10 users.")

	// --- Seed Genres ---
	genres := []Genre{
		{SourceID: 28, Name: "Action"},
		{SourceID: 35, Name: "Komödie"},
		{SourceID: 18, Name: "Drama"},
		{SourceID: 878, Name: "Science Fiction"},
	}
	if err := db.Create(&genres).Error; err != nil {
		return fmt.Errorf("failed to seed genres: %w", err)
	}

	// --- Seed Movies (pages 1 and 2) ---
	var movies []Movie
	for i := 1; i <= 40; i++ {
		page := 1
		if i > 20 {
			page = 2
		}
		movie := Movie{
			SourceID:    uint64(100000 + i),
			Title:       fmt.Sprintf("Demo Movie %d", i),
			ReleaseDate: fmt.Sprintf("201%d-0%d-01", i%10, i%9+1),
			SourcePage:  page,
			Genres:      []Genre{genres[i%len(genres)]},
		}
		if err := db.Create(&movie).Error; err != nil {
			return fmt.Errorf("failed to seed movie: %w", err)
		}
		movies = append(movies, movie)
	}
	log.Println("Seeded 40 movies.")

	// --- Seed Interests (~60% likes) ---
	for userID := uint64(1); userID <= 10; userID++ {
		judged := r.Intn(20) + 10
		for j := 0; j < judged && j < len(movies); j++ {
			interest := Interest{
				UserID:  userID,
				MovieID: movies[j].ID,
				Liked:   r.Intn(100) < 60,
			}
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
			}).Create(&interest).Error; err != nil {
				return fmt.Errorf("failed to seed interest: %w", err)
			}
		}
	}

	// --- Seed Connections (every other one accepted) ---
	for i := uint64(1); i <= 8; i += 2 {
		conn := Connection{
			UserAID: i,
			UserBID: i + 1,
			Active:  i%4 == 1,
		}
		if err := db.Create(&conn).Error; err != nil {
			return fmt.Errorf("failed to seed connection: %w", err)
		}
	}

	return nil
}
