package feed

import (
	"context"
	"time"

	"github.com/oggyb/filmatch/internal/app"
	"github.com/oggyb/filmatch/internal/db"
	"github.com/oggyb/filmatch/internal/repository"
	"github.com/oggyb/filmatch/internal/service/catalog"
)

const (
	// BatchSize is how many movies one feed call returns.
	BatchSize = 8
	// lowWater is the supply level below which a background refill is
	// triggered so the cache grows ahead of demand.
	lowWater = 5
	// defaultRefillPage is where ingestion starts on an empty cache.
	defaultRefillPage = 1

	refillTimeout = 30 * time.Second
)

// Service is the recommendation engine: it serves each user the next
// batch of movies they have not judged yet, lazily pulling fresh catalog
// pages through the cache when the local supply runs low.
type Service struct {
	appCtx       *app.AppContext
	movieRepo    *repository.MovieRepository
	interestRepo *repository.InterestRepository
	catalog      *catalog.Service

	// refillDone is signalled after an opportunistic background refill
	// finishes. Tests hook it; nil otherwise.
	refillDone chan struct{}
}

// NewFeedService creates a new feed service with dependencies from AppContext.
func NewFeedService(appCtx *app.AppContext, catalogSvc *catalog.Service) *Service {
	return &Service{
		appCtx:       appCtx,
		movieRepo:    repository.NewMovieRepository(appCtx.DB),
		interestRepo: repository.NewInterestRepository(appCtx.DB),
		catalog:      catalogSvc,
	}
}

// NextBatch returns the next movies for the user to judge, in strictly
// increasing local id order, genres included.
//
// Behavior:
//   - The cutoff is the id of the user's most recently judged movie;
//     everything above it is fair game, so in-order judges never see a
//     movie twice.
//   - An empty result triggers one blocking cache refill (default page),
//     then a single retry; a second empty result is returned as an empty
//     batch, not an error.
//   - A non-empty result below the low-water mark triggers a background
//     refill for the page before the oldest page in the batch, without
//     blocking the response. Ingestion is idempotent, so re-fetching an
//     already cached page is a cheap no-op.
func (s *Service) NextBatch(ctx context.Context, userID uint64) ([]db.Movie, error) {
	s.appCtx.Logger.Debug("NextBatch called", "user", userID)

	cutoff, err := s.interestRepo.LastJudgedMovieID(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("cutoff lookup failed", "user", userID, "err", err)
		return nil, err
	}

	movies, err := s.movieRepo.MoviesAfter(ctx, cutoff, BatchSize)
	if err != nil {
		return nil, err
	}

	if len(movies) == 0 {
		if _, err := s.catalog.IngestMovies(ctx, defaultRefillPage); err != nil {
			return nil, err
		}
		movies, err = s.movieRepo.MoviesAfter(ctx, cutoff, BatchSize)
		if err != nil {
			return nil, err
		}
		// still empty → terminal "no movies available" for this call
	}

	if n := len(movies); n > 0 && n < lowWater {
		s.refillAhead(movies)
	}

	s.appCtx.Logger.Debug("NextBatch result", "user", userID, "cutoff", cutoff, "count", len(movies))
	return movies, nil
}

// refillAhead triggers an opportunistic ingest in the background.
func (s *Service) refillAhead(movies []db.Movie) {
	page := movies[0].SourcePage
	for _, m := range movies {
		if m.SourcePage < page {
			page = m.SourcePage
		}
	}
	if page > 1 {
		page--
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refillTimeout)
		defer cancel()

		if _, err := s.catalog.IngestMovies(ctx, page); err != nil {
			s.appCtx.Logger.Warn("background refill failed", "page", page, "err", err)
		}
		if s.refillDone != nil {
			s.refillDone <- struct{}{}
		}
	}()
}
