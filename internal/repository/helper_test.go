package repository_test

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/filmatch/internal/db"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

// addMovie inserts a movie directly, for tests that need known rows.
func addMovie(t *testing.T, database *gorm.DB, sourceID uint64, title string, page int) db.Movie {
	t.Helper()
	movie := db.Movie{SourceID: sourceID, Title: title, ReleaseDate: "2015-06-01", SourcePage: page}
	if err := database.Create(&movie).Error; err != nil {
		t.Fatalf("failed to add movie: %v", err)
	}
	return movie
}

// addUser inserts a user directly.
func addUser(t *testing.T, database *gorm.DB, email string) db.User {
	t.Helper()
	user := db.User{Email: email, PasswordHash: "x"}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("failed to add user: %v", err)
	}
	return user
}
