package db

import (
	"time"

	"gorm.io/gorm"
)

// User table
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Movie is a locally cached catalog entry. SourceID is the id assigned by
// the remote catalog; ingestion is keyed on it, so re-ingesting a known
// movie is a no-op. SourcePage records which catalog page the row came
// from, which the feed uses to decide where to refill from.
type Movie struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	SourceID    uint64    `gorm:"uniqueIndex;not null"`
	Title       string    `gorm:"size:255;not null"`
	ReleaseDate string    `gorm:"size:10"`
	Poster      []byte    `gorm:"type:mediumblob"`
	SourcePage  int       `gorm:"not null;index"`
	Genres      []Genre   `gorm:"many2many:movie_x_genres"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// Genre mirrors the remote catalog's genre lookup (source id -> name).
type Genre struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	SourceID uint64 `gorm:"uniqueIndex;not null"`
	Name     string `gorm:"size:64;not null"`
}

func (Genre) TableName() string { return "movie_genres" }

// MovieGenre is the movie<->genre join row. Composite PK makes duplicate
// links a constraint violation, which the ingester treats as "already
// linked" and skips.
type MovieGenre struct {
	MovieID uint64 `gorm:"primaryKey"`
	GenreID uint64 `gorm:"primaryKey"`
}

func (MovieGenre) TableName() string { return "movie_x_genres" }

// Connection is a friend link requested by UserA, directed at UserB.
// It is created pending (Active=false) and flips to active exactly once
// when the receiving side accepts.
//
// PairLow/PairHigh hold the two user ids in canonical order and carry a
// composite unique index, so at most one connection can exist per
// unordered user pair no matter which side requested first. Enforced in
// the schema rather than check-then-insert so concurrent requests cannot
// race past an application-level lookup.
type Connection struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserAID   uint64    `gorm:"not null;index"`
	UserBID   uint64    `gorm:"not null;index"`
	PairLow   uint64    `gorm:"not null;uniqueIndex:idx_connection_pair,priority:1"`
	PairHigh  uint64    `gorm:"not null;uniqueIndex:idx_connection_pair,priority:2"`
	Active    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate fills the canonical pair columns from the directed edge.
func (c *Connection) BeforeCreate(*gorm.DB) error {
	c.PairLow, c.PairHigh = c.UserAID, c.UserBID
	if c.PairLow > c.PairHigh {
		c.PairLow, c.PairHigh = c.PairHigh, c.PairLow
	}
	return nil
}

// Interest represents a user's like/pass decision on a movie.
//
// Composite PK (UserID, MovieID) keeps a single row per pair; re-swiping
// the same movie overwrites the stored decision instead of appending a
// conflicting duplicate.
type Interest struct {
	UserID    uint64    `gorm:"primaryKey"`
	MovieID   uint64    `gorm:"primaryKey;index:idx_interest_movie_liked,priority:1"`
	Liked     bool      `gorm:"not null;index:idx_interest_movie_liked,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Interest) TableName() string { return "movie_user_interests" }
