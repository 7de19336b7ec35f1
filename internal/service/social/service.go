package social

import (
	"context"
	"strings"

	"github.com/oggyb/filmatch/internal/app"
	svcErr "github.com/oggyb/filmatch/internal/errors"
	"github.com/oggyb/filmatch/internal/repository"
)

// Service is the connection graph: it manages friend links between users.
// A link is requested by one side, lands pending at the other, and flips
// to active exactly once on acceptance.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
	connRepo *repository.ConnectionRepository
}

// NewSocialService creates a new social service with dependencies from AppContext.
func NewSocialService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
		connRepo: repository.NewConnectionRepository(appCtx.DB),
	}
}

// Request creates a pending connection from requesterID towards the user
// owning targetEmail and returns the new connection id.
//
// Behavior:
//   - Empty email → ErrValidation; unknown email → ErrNotFound.
//   - Requesting a connection to yourself → ErrValidation.
//   - An existing connection for the pair, in either direction, surfaces
//     as ErrDuplicateKey (enforced by the storage-level pair index, so two
//     concurrent requests cannot both win).
func (s *Service) Request(ctx context.Context, requesterID uint64, targetEmail string) (uint64, error) {
	s.appCtx.Logger.Debug("Request called", "requester", requesterID, "target", targetEmail)

	targetEmail = strings.TrimSpace(targetEmail)
	if targetEmail == "" {
		return 0, svcErr.Validation("target email is required")
	}

	target, err := s.userRepo.FindByEmail(ctx, targetEmail)
	if err != nil {
		return 0, err
	}

	if target.ID == requesterID {
		return 0, svcErr.Validation("cannot connect to yourself")
	}

	conn, err := s.connRepo.Create(ctx, requesterID, target.ID)
	if err != nil {
		s.appCtx.Logger.Debug("Request rejected", "requester", requesterID, "target", target.ID, "err", err)
		return 0, err
	}

	s.appCtx.Logger.Info("connection requested", "connection", conn.ID, "requester", requesterID, "target", target.ID)
	return conn.ID, nil
}

// List returns the connections where userID is the receiving side, as a
// connection id → requester email mapping.
//
// pending=true lists requests awaiting acceptance, pending=false the
// active ones. Connections the user initiated are not listed; only the
// receiver sees and acts on a pending request.
func (s *Service) List(ctx context.Context, userID uint64, pending bool) (map[uint64]string, error) {
	rows, err := s.connRepo.ListReceived(ctx, userID, !pending)
	if err != nil {
		return nil, err
	}

	result := make(map[uint64]string, len(rows))
	for _, row := range rows {
		result[row.ID] = row.RequesterEmail
	}
	return result, nil
}

// Accept flips a pending connection to active.
//
// Behavior:
//   - Only the receiving side of a still-pending connection may accept;
//     anything else (unknown id, wrong user, already active) →
//     ErrNotFound. The transition is a single conditional UPDATE, so it
//     happens at most once even under concurrent accepts.
func (s *Service) Accept(ctx context.Context, userID, connectionID uint64) error {
	s.appCtx.Logger.Debug("Accept called", "user", userID, "connection", connectionID)

	ok, err := s.connRepo.AcceptPending(ctx, connectionID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return svcErr.NotFound("pending connection")
	}

	s.appCtx.Logger.Info("connection accepted", "connection", connectionID, "user", userID)
	return nil
}
