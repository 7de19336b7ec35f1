package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/oggyb/filmatch/internal/cache"
	"github.com/oggyb/filmatch/internal/config"
	svcErr "github.com/oggyb/filmatch/internal/errors"
)

// Discover filter policy. These are catalog policy constants, not user
// input: recent-ish, reasonably rated movies in ascending release order so
// pages are stable between calls.
const discoverFilter = "include_adult=false&include_video=false&language=de-DE" +
	"&primary_release_date.gte=2010-01-01&sort_by=primary_release_date.asc" +
	"&vote_average.gte=6&vote_count.gte=100"

// Movie is one entry of a discover page, in the source's shape.
type Movie struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	PosterPath  string   `json:"poster_path"`
	GenreIDs    []uint64 `json:"genre_ids"`
}

// Genre is one entry of the source's genre lookup.
type Genre struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Client is the catalog source consumed by the ingestion layer. Kept as an
// interface so services can be tested against a mock instead of the
// network.
type Client interface {
	// DiscoverMovies fetches one page of the filtered movie listing.
	DiscoverMovies(ctx context.Context, page int) ([]Movie, error)
	// MovieGenres fetches the full genre id->name lookup.
	MovieGenres(ctx context.Context) ([]Genre, error)
	// Image fetches a poster image by its source path.
	Image(ctx context.Context, path string) ([]byte, error)
}

// HTTPClient talks to the TMDb REST API. Responses are cached in Redis
// keyed by the exact request URL for a bounded interval, which keeps
// overlapping ingestion calls from double-charging the rate-limited
// remote quota.
//
// Constructed once at process start and injected into the catalog
// service; never global.
type HTTPClient struct {
	baseURL      string
	imageBaseURL string
	token        string
	cacheTTL     time.Duration
	httpClient   *http.Client
	cache        *cache.RedisCache
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds the TMDb client from config.
func NewHTTPClient(cfg *config.Config, rc *cache.RedisCache) *HTTPClient {
	return &HTTPClient{
		baseURL:      strings.TrimSuffix(cfg.TMDB.BaseURL, "/"),
		imageBaseURL: strings.TrimSuffix(cfg.TMDB.ImageBaseURL, "/"),
		token:        cfg.TMDB.Token,
		cacheTTL:     cfg.TMDB.CacheTTL,
		httpClient:   &http.Client{Timeout: cfg.TMDB.Timeout},
		cache:        rc,
	}
}

// DiscoverMovies fetches one page of the filtered discover listing.
func (c *HTTPClient) DiscoverMovies(ctx context.Context, page int) ([]Movie, error) {
	url := fmt.Sprintf("%s/discover/movie?%s&page=%d", c.baseURL, discoverFilter, page)

	body, err := c.get(ctx, url, true)
	if err != nil {
		return nil, svcErr.SourceUnavailable("discover movies", err)
	}

	var payload struct {
		Results []Movie `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, svcErr.SourceUnavailable("decode discover response", err)
	}
	return payload.Results, nil
}

// MovieGenres fetches the genre id->name lookup.
func (c *HTTPClient) MovieGenres(ctx context.Context) ([]Genre, error) {
	url := c.baseURL + "/genre/movie/list?language=de"

	body, err := c.get(ctx, url, true)
	if err != nil {
		return nil, svcErr.SourceUnavailable("fetch genres", err)
	}

	var payload struct {
		Genres []Genre `json:"genres"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, svcErr.SourceUnavailable("decode genre response", err)
	}
	return payload.Genres, nil
}

// Image fetches a poster by source path (e.g. "/abc.jpg").
func (c *HTTPClient) Image(ctx context.Context, path string) ([]byte, error) {
	url := c.imageBaseURL + "/" + strings.TrimPrefix(path, "/")

	body, err := c.get(ctx, url, false)
	if err != nil {
		return nil, svcErr.SourceUnavailable("fetch image", err)
	}
	return body, nil
}

// get performs a cached GET. Cache hits skip the network entirely; a
// Redis outage degrades to uncached fetching.
func (c *HTTPClient) get(ctx context.Context, url string, authed bool) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.GetResponse(ctx, url); ok {
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if authed && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.PutResponse(ctx, url, body, c.cacheTTL)
	}
	return body, nil
}
