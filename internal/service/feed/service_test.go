package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/filmatch/internal/app"
	"github.com/oggyb/filmatch/internal/db"
	"github.com/oggyb/filmatch/internal/repository"
	"github.com/oggyb/filmatch/internal/service/catalog"
	"github.com/oggyb/filmatch/internal/tmdb"
)

// mockSource records which pages were discovered.
type mockSource struct {
	mu    sync.Mutex
	pages map[int][]tmdb.Movie
	seen  []int
}

func (m *mockSource) DiscoverMovies(_ context.Context, page int) ([]tmdb.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, page)
	return m.pages[page], nil
}

func (m *mockSource) MovieGenres(context.Context) ([]tmdb.Genre, error) { return nil, nil }

func (m *mockSource) Image(context.Context, string) ([]byte, error) { return nil, nil }

func (m *mockSource) seenPages() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.seen...)
}

func sourcePage(page, n int) []tmdb.Movie {
	movies := make([]tmdb.Movie, 0, n)
	for i := 0; i < n; i++ {
		id := uint64(page*1000 + i)
		movies = append(movies, tmdb.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id), ReleaseDate: "2012-01-01"})
	}
	return movies
}

func setupFeed(t *testing.T, source *mockSource) (*Service, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(dbase, nil, source, logger)

	svc := NewFeedService(appCtx, catalog.NewCatalogService(appCtx))
	svc.refillDone = make(chan struct{}, 1)
	return svc, dbase
}

func waitRefill(t *testing.T, svc *Service) {
	t.Helper()
	select {
	case <-svc.refillDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for background refill")
	}
}

// TestNextBatchRefillsEmptyCache: an empty cache triggers one blocking
// ingest at the default page and retries once.
func TestNextBatchRefillsEmptyCache(t *testing.T) {
	ctx := context.Background()
	source := &mockSource{pages: map[int][]tmdb.Movie{1: sourcePage(1, 12)}}
	svc, _ := setupFeed(t, source)

	movies, err := svc.NextBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, movies, BatchSize)
	assert.Equal(t, []int{1}, source.seenPages())

	// strictly increasing local id order
	for i := 1; i < len(movies); i++ {
		assert.Greater(t, movies[i].ID, movies[i-1].ID)
	}
}

// TestNextBatchTerminalEmpty: a second empty result is "no movies
// available", not an error.
func TestNextBatchTerminalEmpty(t *testing.T) {
	ctx := context.Background()
	source := &mockSource{pages: map[int][]tmdb.Movie{}}
	svc, _ := setupFeed(t, source)

	movies, err := svc.NextBatch(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, movies)
}

// TestMonotonicDelivery: a user who judges in increasing id order never
// sees a movie twice.
func TestMonotonicDelivery(t *testing.T) {
	ctx := context.Background()
	source := &mockSource{pages: map[int][]tmdb.Movie{1: sourcePage(1, 16)}}
	svc, dbase := setupFeed(t, source)

	interests := repository.NewInterestRepository(dbase)

	seen := make(map[uint64]bool)
	for round := 0; round < 2; round++ {
		movies, err := svc.NextBatch(ctx, 1)
		require.NoError(t, err)
		require.Len(t, movies, BatchSize)

		for _, m := range movies {
			assert.False(t, seen[m.ID], "movie %d delivered twice", m.ID)
			seen[m.ID] = true
			require.NoError(t, interests.RecordDecision(ctx, 1, m.ID, m.ID%2 == 0))
		}
	}
	assert.Len(t, seen, 16)
}

// TestLowWaterBackgroundRefill: a short batch triggers a non-blocking
// ingest for the page before the oldest one in the result.
func TestLowWaterBackgroundRefill(t *testing.T) {
	ctx := context.Background()
	source := &mockSource{pages: map[int][]tmdb.Movie{1: sourcePage(1, 6)}}
	svc, dbase := setupFeed(t, source)

	// three unjudged movies from page 2: below the low-water mark
	for i := 0; i < 3; i++ {
		movie := db.Movie{SourceID: uint64(2000 + i), Title: "Seeded", ReleaseDate: "2013-01-01", SourcePage: 2}
		require.NoError(t, dbase.Create(&movie).Error)
	}

	movies, err := svc.NextBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, movies, 3)

	waitRefill(t, svc)
	assert.Equal(t, []int{1}, source.seenPages())

	var count int64
	dbase.Model(&db.Movie{}).Count(&count)
	assert.Equal(t, int64(9), count)
}
