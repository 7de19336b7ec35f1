package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/filmatch/internal/app"
	svcErr "github.com/oggyb/filmatch/internal/errors"
	"github.com/oggyb/filmatch/internal/repository"
)

// Service is the credential store: it creates accounts and verifies
// logins. Passwords are hashed with bcrypt; only email+hash pairs are
// persisted.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
}

// NewAuthService creates a new auth service with dependencies from AppContext.
func NewAuthService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
	}
}

// SignUp creates a new account and returns its user id.
//
// Behavior:
//   - Empty email or password is rejected with ErrValidation before any
//     storage call.
//   - A taken email surfaces as ErrDuplicateKey (benign "already exists").
func (s *Service) SignUp(ctx context.Context, email, password string) (uint64, error) {
	s.appCtx.Logger.Debug("SignUp called", "email", email)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return 0, svcErr.Validation("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	user, err := s.userRepo.Create(ctx, email, string(hash))
	if err != nil {
		s.appCtx.Logger.Debug("SignUp rejected", "email", email, "err", err)
		return 0, err
	}

	s.appCtx.Logger.Info("user created", "user", user.ID)
	return user.ID, nil
}

// TryLogin verifies credentials and returns the user id, or -1 when the
// email is unknown or the password does not match. A -1 is a result, not
// an error; errors are reserved for storage faults.
func (s *Service) TryLogin(ctx context.Context, email, password string) (int64, error) {
	s.appCtx.Logger.Debug("TryLogin called", "email", email)

	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, svcErr.ErrNotFound) {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return -1, nil
	}
	return int64(user.ID), nil
}
