package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/filmatch/internal/app"
	svcErr "github.com/oggyb/filmatch/internal/errors"
	"github.com/oggyb/filmatch/internal/server"
)

// Registrar ties the auth service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the auth service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the auth endpoints to the router
func (r *Registrar) Register(router chi.Router) {
	svc := NewAuthService(r.appCtx)
	router.Post("/auth/signup", signUpHandler(svc))
	router.Post("/auth/login", loginHandler(svc))
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func signUpHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := server.DecodeJSON(r, &req); err != nil {
			server.WriteError(w, err)
			return
		}

		userID, err := svc.SignUp(r.Context(), req.Email, req.Password)
		if err != nil {
			if svcErr.IsDuplicate(err) {
				server.WriteJSON(w, http.StatusConflict, map[string]string{
					"error": "email already registered",
				})
				return
			}
			server.WriteError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusCreated, map[string]uint64{"user_id": userID})
	}
}

func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := server.DecodeJSON(r, &req); err != nil {
			server.WriteError(w, err)
			return
		}

		userID, err := svc.TryLogin(r.Context(), req.Email, req.Password)
		if err != nil {
			server.WriteError(w, err)
			return
		}
		if userID < 0 {
			server.WriteJSON(w, http.StatusUnauthorized, map[string]any{
				"user_id": -1,
				"error":   "invalid credentials",
			})
			return
		}
		server.WriteJSON(w, http.StatusOK, map[string]int64{"user_id": userID})
	}
}
