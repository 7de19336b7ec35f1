package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/filmatch/internal/db"
	"github.com/oggyb/filmatch/internal/repository"
)

func TestRecordDecisionUpsert(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInterestRepository(dbase)

	// insert like
	err := repo.RecordDecision(ctx, 1, 2, true)
	assert.NoError(t, err)

	// re-swipe overwrites instead of duplicating
	err = repo.RecordDecision(ctx, 1, 2, false)
	assert.NoError(t, err)

	var interests []db.Interest
	require.NoError(t, dbase.Find(&interests).Error)
	require.Len(t, interests, 1)
	assert.Equal(t, false, interests[0].Liked)
}

func TestLastJudgedMovieID(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInterestRepository(dbase)

	// nothing judged yet → 0
	id, err := repo.LastJudgedMovieID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	require.NoError(t, repo.RecordDecision(ctx, 7, 10, true))
	require.NoError(t, repo.RecordDecision(ctx, 7, 11, false))

	id, err = repo.LastJudgedMovieID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), id)

	// another user's decisions don't leak in
	require.NoError(t, repo.RecordDecision(ctx, 8, 99, true))
	id, err = repo.LastJudgedMovieID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), id)
}

func TestMoviesLikedByBoth(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInterestRepository(dbase)

	var movieIDs []uint64
	for i := 10; i <= 13; i++ {
		m := addMovie(t, dbase, uint64(i), "Movie", 1)
		movieIDs = append(movieIDs, m.ID)
	}
	// U1 likes the first three movies, U2 the last three
	for _, idx := range []int{0, 1, 2} {
		require.NoError(t, repo.RecordDecision(ctx, 1, movieIDs[idx], true))
	}
	for _, idx := range []int{1, 2, 3} {
		require.NoError(t, repo.RecordDecision(ctx, 2, movieIDs[idx], true))
	}
	// a pass on a shared movie must not count
	require.NoError(t, repo.RecordDecision(ctx, 1, movieIDs[3], false))

	movies, err := repo.MoviesLikedByBoth(ctx, 1, 2, 0, 20)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, movieIDs[1], movies[0].ID)
	assert.Equal(t, movieIDs[2], movies[1].ID)

	// cursor continues strictly after the given id
	movies, err = repo.MoviesLikedByBoth(ctx, 1, 2, movieIDs[1], 20)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, movieIDs[2], movies[0].ID)

	// limit applies
	movies, err = repo.MoviesLikedByBoth(ctx, 1, 2, 0, 1)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, movieIDs[1], movies[0].ID)
}
