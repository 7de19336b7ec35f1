package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/oggyb/filmatch/internal/db"
	svcErr "github.com/oggyb/filmatch/internal/errors"
)

// MovieResponse is the wire shape of a cached movie. Poster bytes encode
// to base64 in JSON; a missing poster is omitted.
type MovieResponse struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Poster      []byte   `json:"poster,omitempty"`
	Genres      []string `json:"genres"`
}

// NewMovieResponse maps a movie row (with genres preloaded) to its wire shape.
func NewMovieResponse(m db.Movie) MovieResponse {
	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}
	return MovieResponse{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		Poster:      m.Poster,
		Genres:      genres,
	}
}

// NewMovieResponses maps a batch of movie rows.
func NewMovieResponses(movies []db.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, NewMovieResponse(m))
	}
	return out
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error to its HTTP status and a JSON error body,
// so every failure reaches the client as a distinguishable message.
func WriteError(w http.ResponseWriter, err error) {
	status := svcErr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// don't leak storage internals
		msg = "internal error"
	}
	WriteJSON(w, status, map[string]string{"error": msg})
}

// DecodeJSON parses a request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return svcErr.Validation("invalid request body")
	}
	return nil
}
