package feed

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/filmatch/internal/app"
	"github.com/oggyb/filmatch/internal/server"
	"github.com/oggyb/filmatch/internal/service/catalog"
)

// Registrar ties the feed service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the feed service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the feed endpoint to the router
func (r *Registrar) Register(router chi.Router) {
	svc := NewFeedService(r.appCtx, catalog.NewCatalogService(r.appCtx))
	router.Get("/users/{userID}/feed", nextBatchHandler(svc))
}

func nextBatchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := server.URLParamUint(r, "userID")
		if err != nil {
			server.WriteError(w, err)
			return
		}

		movies, err := svc.NextBatch(r.Context(), userID)
		if err != nil {
			server.WriteError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, map[string]any{
			"movies": server.NewMovieResponses(movies),
		})
	}
}
