package match

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/filmatch/internal/app"
	svcErr "github.com/oggyb/filmatch/internal/errors"
	"github.com/oggyb/filmatch/internal/server"
	"github.com/oggyb/filmatch/internal/utils/pagination"
)

// Registrar ties the match service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the interest and match endpoints to the router
func (r *Registrar) Register(router chi.Router) {
	svc := NewMatchService(r.appCtx)
	router.Post("/users/{userID}/interests", recordInterestHandler(svc))
	router.Get("/users/{userID}/connections/{connectionID}/matches", matchesHandler(svc))
}

func recordInterestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := server.URLParamUint(r, "userID")
		if err != nil {
			server.WriteError(w, err)
			return
		}

		var req struct {
			MovieID uint64 `json:"movie_id"`
			Liked   bool   `json:"liked"`
		}
		if err := server.DecodeJSON(r, &req); err != nil {
			server.WriteError(w, err)
			return
		}

		if err := svc.RecordInterest(r.Context(), userID, req.MovieID, req.Liked); err != nil {
			server.WriteError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, map[string]bool{"recorded": true})
	}
}

func matchesHandler(svc *Service) http.HandlerFunc {
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

		cursor, err := pagination.Decode(r.URL.Query().Get("cursor"))
		if err != nil {
			server.WriteError(w, svcErr.Validation("invalid pagination cursor"))
			return
		}

		movies, err := svc.Matches(r.Context(), userID, connID, cursor.MovieID)
		if err != nil {
			server.WriteError(w, err)
			return
		}

		resp := map[string]any{"movies": server.NewMovieResponses(movies)}
		if len(movies) == PageSize {
			token, _ := pagination.Encode(pagination.Cursor{MovieID: movies[len(movies)-1].ID})
			resp["next_cursor"] = token
		}
		server.WriteJSON(w, http.StatusOK, resp)
	}
}
