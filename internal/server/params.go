package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	svcErr "github.com/oggyb/filmatch/internal/errors"
)

// URLParamUint parses a chi URL parameter as an id.
func URLParamUint(r *http.Request, key string) (uint64, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, key), 10, 64)
	if err != nil || v == 0 {
		return 0, svcErr.Validation(key + " must be a valid id")
	}
	return v, nil
}
