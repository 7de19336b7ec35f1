package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/filmatch/internal/db"
	svcErr "github.com/oggyb/filmatch/internal/errors"
)

// InterestRepository provides data access methods for the Interest model.
// It encapsulates all queries related to like/pass decisions on movies.
type InterestRepository struct {
	db *gorm.DB
}

// NewInterestRepository creates a new repository bound to the given DB connection.
func NewInterestRepository(database *gorm.DB) *InterestRepository {
	return &InterestRepository{db: database}
}

// RecordDecision inserts or updates a user's decision on a movie.
//
// Behavior:
//   - If the (user_id, movie_id) pair exists → the row is updated with the
//     new "liked" value (re-swipe is an update, never a duplicate).
//   - If it doesn't exist → a new row is inserted.
//   - Composite PK ensures overwrite guarantee.
//
// Example:
//
//	repo.RecordDecision(ctx, 1, 42, true) // user 1 liked movie 42
func (r *InterestRepository) RecordDecision(
	ctx context.Context,
	userID, movieID uint64,
	liked bool,
) error {
	interest := db.Interest{
		UserID:  userID,
		MovieID: movieID,
		Liked:   liked,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
		}).
		Create(&interest).Error
	return svcErr.FromStorage(err)
}

// LastJudgedMovieID returns the movie id of the user's most recent
// decision, or 0 when the user has not judged anything yet.
//
// The feed uses only this single id as its "already judged" cutoff; a
// user who somehow judges out of order can see earlier movies resurface.
// Known simplification.
func (r *InterestRepository) LastJudgedMovieID(ctx context.Context, userID uint64) (uint64, error) {
	var interest db.Interest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, movie_id DESC").
		First(&interest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, svcErr.FromStorage(err)
	}
	return interest.MovieID, nil
}

// MoviesLikedByBoth returns movies both users liked, with id strictly
// greater than afterMovieID, in ascending movie id order, limited to
// limit rows. Genre names are preloaded.
//
// Cursor-based: repeated calls with the previous page's last movie id
// continue forward without re-scanning or duplicating rows.
func (r *InterestRepository) MoviesLikedByBoth(
	ctx context.Context,
	userA, userB uint64,
	afterMovieID uint64,
	limit int,
) ([]db.Movie, error) {
	var movies []db.Movie
	err := r.db.WithContext(ctx).
		Model(&db.Movie{}).
		Joins("JOIN movie_user_interests ia ON ia.movie_id = movies.id AND ia.user_id = ? AND ia.liked = ?", userA, true).
		Joins("JOIN movie_user_interests ib ON ib.movie_id = movies.id AND ib.user_id = ? AND ib.liked = ?", userB, true).
		Where("movies.id > ?", afterMovieID).
		Order("movies.id ASC").
		Limit(limit).
		Preload("Genres").
		Find(&movies).Error
	if err != nil {
		return nil, svcErr.FromStorage(err)
	}
	return movies, nil
}
