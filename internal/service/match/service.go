package match

import (
	"context"

	"github.com/oggyb/filmatch/internal/app"
	"github.com/oggyb/filmatch/internal/db"
	svcErr "github.com/oggyb/filmatch/internal/errors"
	"github.com/oggyb/filmatch/internal/repository"
)

// PageSize is how many matched movies one call returns.
const PageSize = 20

// Service records swipe decisions and computes the movies two connected
// users both liked.
type Service struct {
	appCtx       *app.AppContext
	connRepo     *repository.ConnectionRepository
	interestRepo *repository.InterestRepository
}

// NewMatchService creates a new match service with dependencies from AppContext.
func NewMatchService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		connRepo:     repository.NewConnectionRepository(appCtx.DB),
		interestRepo: repository.NewInterestRepository(appCtx.DB),
	}
}

// RecordInterest stores a user's like/pass decision on a movie.
// Re-swiping the same movie updates the stored decision.
func (s *Service) RecordInterest(ctx context.Context, userID, movieID uint64, liked bool) error {
	s.appCtx.Logger.Debug("RecordInterest called", "user", userID, "movie", movieID, "liked", liked)

	if userID == 0 || movieID == 0 {
		return svcErr.Validation("user and movie are required")
	}
	return s.interestRepo.RecordDecision(ctx, userID, movieID, liked)
}

// Matches returns the movies both parties of a connection liked, with id
// strictly greater than afterMovieID, ascending, paginated at PageSize.
//
// Behavior:
//   - The counterpart is resolved from the connection; an unknown
//     connection id, or a caller who is not a party to it, →
//     ErrNotFound (the caller learns nothing about foreign connections).
//   - Cursor-based: pass the previous page's last movie id to continue.
func (s *Service) Matches(ctx context.Context, userID, connectionID, afterMovieID uint64) ([]db.Movie, error) {
	s.appCtx.Logger.Debug("Matches called", "user", userID, "connection", connectionID, "after", afterMovieID)

	conn, err := s.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	var counterpart uint64
	switch userID {
	case conn.UserAID:
		counterpart = conn.UserBID
	case conn.UserBID:
		counterpart = conn.UserAID
	default:
		return nil, svcErr.NotFound("connection")
	}

	movies, err := s.interestRepo.MoviesLikedByBoth(ctx, userID, counterpart, afterMovieID, PageSize)
	if err != nil {
		return nil, err
	}

	s.appCtx.Logger.Debug("Matches result", "connection", connectionID, "count", len(movies))
	return movies, nil
}
