package catalog

import (
	"context"

	"github.com/oggyb/filmatch/internal/app"
	"github.com/oggyb/filmatch/internal/db"
	"github.com/oggyb/filmatch/internal/repository"
)

// Service is the movie catalog cache: it pulls genres and movie pages from
// the remote catalog source into local storage. All ingestion is
// idempotent (insert-or-skip keyed on the source's stable ids), so
// repeated or overlapping calls triggered by concurrent recommendation
// misses cannot corrupt state or double-charge the remote quota.
type Service struct {
	appCtx    *app.AppContext
	movieRepo *repository.MovieRepository
}

// NewCatalogService creates a new catalog service with dependencies from AppContext.
func NewCatalogService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		movieRepo: repository.NewMovieRepository(appCtx.DB),
	}
}

// IngestedMovie pairs a newly inserted movie with the source genre ids it
// arrived with, so the genre links can be resolved afterwards.
type IngestedMovie struct {
	Movie          db.Movie
	SourceGenreIDs []uint64
}

// IngestGenres fetches the full genre list from the catalog source and
// inserts every genre whose source id is not cached yet.
//
// Behavior:
//   - Returns the number of newly inserted genres.
//   - Fails with ErrSourceUnavailable when the remote call errors or
//     returns a non-success status; nothing is written in that case.
func (s *Service) IngestGenres(ctx context.Context) (int, error) {
	s.appCtx.Logger.Debug("IngestGenres called")

	genres, err := s.appCtx.Catalog.MovieGenres(ctx)
	if err != nil {
		s.appCtx.Logger.Error("genre fetch failed", "err", err)
		return 0, err
	}

	inserted := 0
	for _, g := range genres {
		genre := db.Genre{SourceID: g.ID, Name: g.Name}
		ok, err := s.movieRepo.InsertGenre(ctx, &genre)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}

	s.appCtx.Logger.Debug("IngestGenres result", "fetched", len(genres), "inserted", inserted)
	return inserted, nil
}

// IngestMovies fetches one page of the filtered movie listing and caches
// every movie not already present, tagged with the page it came from.
//
// Behavior:
//   - Duplicates (matched by source_id) are skipped, not updated.
//   - The poster image is fetched only for movies that were actually
//     inserted, so re-ingesting a cached page costs no image requests; an
//     image failure degrades to a null poster, never a hard failure.
//   - Genre links for the new movies are resolved against the cached genre
//     lookup; the lookup is refreshed best-effort first.
//   - Returns the newly inserted movies only.
//   - Fails with ErrSourceUnavailable when the movie-list fetch fails.
func (s *Service) IngestMovies(ctx context.Context, page int) ([]db.Movie, error) {
	s.appCtx.Logger.Debug("IngestMovies called", "page", page)

	// Refresh the genre lookup so links resolve; a genre outage must not
	// block movie ingestion.
	if _, err := s.IngestGenres(ctx); err != nil {
		s.appCtx.Logger.Warn("genre refresh failed, linking against cached genres", "err", err)
	}

	sourceMovies, err := s.appCtx.Catalog.DiscoverMovies(ctx, page)
	if err != nil {
		s.appCtx.Logger.Error("movie page fetch failed", "page", page, "err", err)
		return nil, err
	}

	var batch []IngestedMovie
	for _, sm := range sourceMovies {
		movie := db.Movie{
			SourceID:    sm.ID,
			Title:       sm.Title,
			ReleaseDate: sm.ReleaseDate,
			SourcePage:  page,
		}

		inserted, err := s.movieRepo.InsertMovie(ctx, &movie)
		if err != nil {
			return nil, err
		}
		if !inserted {
			continue
		}

		// Poster fetch happens after the duplicate check so re-ingesting an
		// already cached page spends no image requests.
		if sm.PosterPath != "" {
			poster, err := s.appCtx.Catalog.Image(ctx, sm.PosterPath)
			if err != nil {
				s.appCtx.Logger.Warn("poster fetch failed", "source_id", sm.ID, "err", err)
			} else if err := s.movieRepo.SetPoster(ctx, movie.ID, poster); err != nil {
				return nil, err
			} else {
				movie.Poster = poster
			}
		}

		batch = append(batch, IngestedMovie{Movie: movie, SourceGenreIDs: sm.GenreIDs})
	}

	if err := s.LinkGenres(ctx, batch); err != nil {
		return nil, err
	}

	movies := make([]db.Movie, 0, len(batch))
	for _, im := range batch {
		movies = append(movies, im.Movie)
	}

	s.appCtx.Logger.Info("IngestMovies result", "page", page, "fetched", len(sourceMovies), "inserted", len(movies))
	return movies, nil
}

// LinkGenres resolves each new movie's source genre ids against the local
// genre lookup and inserts the association rows.
//
// Behavior:
//   - Duplicate (movie, genre) pairs are skipped.
//   - A source genre id that is not cached yet is silently dropped; the
//     next genre ingest plus re-ingest would pick it up, and a missing
//     genre label is not worth failing a movie batch over.
func (s *Service) LinkGenres(ctx context.Context, batch []IngestedMovie) error {
	if len(batch) == 0 {
		return nil
	}

	lookup, err := s.movieRepo.GenresBySourceID(ctx)
	if err != nil {
		return err
	}

	for _, im := range batch {
		for _, sourceGenreID := range im.SourceGenreIDs {
			genre, ok := lookup[sourceGenreID]
			if !ok {
				continue
			}
			if err := s.movieRepo.LinkGenre(ctx, im.Movie.ID, genre.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
