package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/filmatch/internal/app"
	"github.com/oggyb/filmatch/internal/server"
)

// Registrar ties the social service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the social service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the connection endpoints to the router
func (r *Registrar) Register(router chi.Router) {
	svc := NewSocialService(r.appCtx)
	router.Post("/users/{userID}/connections", requestHandler(svc))
	router.Get("/users/{userID}/connections", listHandler(svc))
	router.Post("/users/{userID}/connections/{connectionID}/accept", acceptHandler(svc))
}

func requestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := server.URLParamUint(r, "userID")
		if err != nil {
			server.WriteError(w, err)
			return
		}

		var req struct {
			Email string `json:"email"`
		}
		if err := server.DecodeJSON(r, &req); err != nil {
			server.WriteError(w, err)
			return
		}

		connID, err := svc.Request(r.Context(), userID, req.Email)
		if err != nil {
			server.WriteError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusCreated, map[string]uint64{"connection_id": connID})
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := server.URLParamUint(r, "userID")
		if err != nil {
			server.WriteError(w, err)
			return
		}

		pending := r.URL.Query().Get("pending") == "true"

		connections, err := svc.List(r.Context(), userID, pending)
		if err != nil {
			server.WriteError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, map[string]any{"connections": connections})
	}
}

func acceptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := server.URLParamUint(r, "userID")
		if err != nil {
			server.WriteError(w, err)
			return
		}
		connID, err := server.URLParamUint(r, "connectionID")
		if err != nil {
			server.WriteError(w, err)
			return
		}

		if err := svc.Accept(r.Context(), userID, connID); err != nil {
			server.WriteError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, map[string]bool{"accepted": true})
	}
}
