package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/filmatch/internal/db"
	svcErr "github.com/oggyb/filmatch/internal/errors"
)

// MovieRepository provides data access methods for the cached movie
// catalog: movies, genres and their links. All inserts are idempotent by
// construction (insert-or-skip keyed on the source's stable ids), so
// overlapping ingestion calls cannot corrupt state.
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new repository bound to the given DB connection.
func NewMovieRepository(database *gorm.DB) *MovieRepository {
	return &MovieRepository{db: database}
}

// InsertMovie inserts a movie unless its source_id is already cached.
//
// Behavior:
//   - ON CONFLICT (source_id) DO NOTHING: a duplicate is skipped, not
//     updated and not an error.
//   - Returns true when the row was actually inserted (movie.ID is then
//     populated with the local surrogate id).
func (r *MovieRepository) InsertMovie(ctx context.Context, movie *db.Movie) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit("Genres").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_id"}},
			DoNothing: true,
		}).
		Create(movie)
	if res.Error != nil {
		return false, svcErr.FromStorage(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// InsertGenre inserts a genre unless its source_id is already cached.
// Returns true when the row was actually inserted.
func (r *MovieRepository) InsertGenre(ctx context.Context, genre *db.Genre) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_id"}},
			DoNothing: true,
		}).
		Create(genre)
	if res.Error != nil {
		return false, svcErr.FromStorage(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetPoster stores the poster bytes for an already cached movie.
func (r *MovieRepository) SetPoster(ctx context.Context, movieID uint64, poster []byte) error {
	err := r.db.WithContext(ctx).
		Model(&db.Movie{}).
		Where("id = ?", movieID).
		Update("poster", poster).Error
	return svcErr.FromStorage(err)
}

// GenresBySourceID returns the full local genre lookup keyed by the
// source's genre id.
func (r *MovieRepository) GenresBySourceID(ctx context.Context) (map[uint64]db.Genre, error) {
	var genres []db.Genre
	if err := r.db.WithContext(ctx).Find(&genres).Error; err != nil {
		return nil, svcErr.FromStorage(err)
	}
	lookup := make(map[uint64]db.Genre, len(genres))
	for _, g := range genres {
		lookup[g.SourceID] = g
	}
	return lookup, nil
}

// LinkGenre associates a movie with a genre, skipping the pair if the
// link already exists (composite PK conflict → DO NOTHING).
func (r *MovieRepository) LinkGenre(ctx context.Context, movieID, genreID uint64) error {
	link := db.MovieGenre{MovieID: movieID, GenreID: genreID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
	return svcErr.FromStorage(err)
}

// MoviesAfter returns up to limit movies with local id strictly greater
// than afterID, in ascending id order (insertion order), with genre names
// preloaded. This is the feed's "not yet judged" window.
func (r *MovieRepository) MoviesAfter(ctx context.Context, afterID uint64, limit int) ([]db.Movie, error) {
	var movies []db.Movie
	err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Preload("Genres").
		Find(&movies).Error
	if err != nil {
		return nil, svcErr.FromStorage(err)
	}
	return movies, nil
}
