package match_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/filmatch/internal/app"
	"github.com/oggyb/filmatch/internal/db"
	svcErr "github.com/oggyb/filmatch/internal/errors"
	"github.com/oggyb/filmatch/internal/service/match"
)

func setupService(t *testing.T) (*match.Service, *gorm.DB) {
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

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests
	appCtx := app.New(dbase, nil, nil, logger)
	return match.NewMatchService(appCtx), dbase
}

// seedMatchData creates two connected users and four movies; the tests
// let U1 like the first three and U2 the last three, overlapping in the
// middle two.
func seedMatchData(t *testing.T, dbase *gorm.DB) (u1, u2 uint64, connID uint64, movieIDs []uint64) {
	t.Helper()

	users := []db.User{
		{Email: "u1@x.com", PasswordHash: "x"},
		{Email: "u2@x.com", PasswordHash: "x"},
	}
	require.NoError(t, dbase.Create(&users).Error)
	u1, u2 = users[0].ID, users[1].ID

	conn := db.Connection{UserAID: u1, UserBID: u2, Active: true}
	require.NoError(t, dbase.Create(&conn).Error)
	connID = conn.ID

	for i := 0; i < 4; i++ {
		movie := db.Movie{SourceID: uint64(9000 + i), Title: fmt.Sprintf("Movie %d", i), ReleaseDate: "2016-03-01", SourcePage: 1}
		require.NoError(t, dbase.Create(&movie).Error)
		movieIDs = append(movieIDs, movie.ID)
	}

	return u1, u2, connID, movieIDs
}

func TestRecordInterest(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	require.NoError(t, svc.RecordInterest(ctx, 1, 42, true))

	// re-swipe updates the stored decision
	require.NoError(t, svc.RecordInterest(ctx, 1, 42, false))

	var interests []db.Interest
	require.NoError(t, dbase.Find(&interests).Error)
	require.Len(t, interests, 1)
	assert.False(t, interests[0].Liked)

	assert.ErrorIs(t, svc.RecordInterest(ctx, 0, 42, true), svcErr.ErrValidation)
	assert.ErrorIs(t, svc.RecordInterest(ctx, 1, 0, true), svcErr.ErrValidation)
}

// TestMatchesIntersection: U1 likes {m0,m1,m2}, U2 likes {m1,m2,m3} →
// matches are [m1,m2], ascending.
func TestMatchesIntersection(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)
	u1, u2, connID, movieIDs := seedMatchData(t, dbase)

	for _, idx := range []int{0, 1, 2} {
		require.NoError(t, svc.RecordInterest(ctx, u1, movieIDs[idx], true))
	}
	for _, idx := range []int{1, 2, 3} {
		require.NoError(t, svc.RecordInterest(ctx, u2, movieIDs[idx], true))
	}

	movies, err := svc.Matches(ctx, u1, connID, 0)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, movieIDs[1], movies[0].ID)
	assert.Equal(t, movieIDs[2], movies[1].ID)

	// symmetric for the counterpart
	movies, err = svc.Matches(ctx, u2, connID, 0)
	require.NoError(t, err)
	assert.Len(t, movies, 2)

	// cursor continues past the first match
	movies, err = svc.Matches(ctx, u1, connID, movieIDs[1])
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, movieIDs[2], movies[0].ID)
}

func TestMatchesAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)
	u1, _, connID, _ := seedMatchData(t, dbase)

	outsider := db.User{Email: "u3@x.com", PasswordHash: "x"}
	require.NoError(t, dbase.Create(&outsider).Error)

	// unknown connection
	_, err := svc.Matches(ctx, u1, connID+100, 0)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	// not a party to the connection
	_, err = svc.Matches(ctx, outsider.ID, connID, 0)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestMatchesPageSize(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	users := []db.User{
		{Email: "a@x.com", PasswordHash: "x"},
		{Email: "b@x.com", PasswordHash: "x"},
	}
	require.NoError(t, dbase.Create(&users).Error)

	conn := db.Connection{UserAID: users[0].ID, UserBID: users[1].ID, Active: true}
	require.NoError(t, dbase.Create(&conn).Error)

	// both users like 25 movies → first page capped at 20
	var lastFirstPage uint64
	for i := 0; i < 25; i++ {
		movie := db.Movie{SourceID: uint64(7000 + i), Title: "Movie", ReleaseDate: "2017-01-01", SourcePage: 1}
		require.NoError(t, dbase.Create(&movie).Error)
		require.NoError(t, svc.RecordInterest(ctx, users[0].ID, movie.ID, true))
		require.NoError(t, svc.RecordInterest(ctx, users[1].ID, movie.ID, true))
		if i == 19 {
			lastFirstPage = movie.ID
		}
	}

	page1, err := svc.Matches(ctx, users[0].ID, conn.ID, 0)
	require.NoError(t, err)
	require.Len(t, page1, match.PageSize)
	assert.Equal(t, lastFirstPage, page1[len(page1)-1].ID)

	page2, err := svc.Matches(ctx, users[0].ID, conn.ID, page1[len(page1)-1].ID)
	require.NoError(t, err)
	require.Len(t, page2, 5)
	assert.Greater(t, page2[0].ID, lastFirstPage)
}
