package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/model"
)

func TestGenreRepoCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepo(db)
	ctx := context.Background()

	g := seedGenre(t, db, "Science Fiction")
	assert.NotZero(t, g.ID)
	assert.NotEmpty(t, g.CreatedAt)
	assert.NotEmpty(t, g.UpdatedAt)

	got, err := repo.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", got.Name)
	assert.Nil(t, got.Description)
}

func TestGenreRepoGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := NewGenreRepo(db).GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrGenreNotFound)
}

func TestGenreRepoDuplicateName(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepo(db)
	ctx := context.Background()

	seedGenre(t, db, "Drama")
	err := repo.Create(ctx, &model.Genre{Name: "Drama"})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
}

func TestGenreRepoListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepo(db)
	ctx := context.Background()

	for _, name := range []string{"Horror", "Action", "Comedy", "Drama", "Western"} {
		seedGenre(t, db, name)
	}

	page1, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page1, 2)
	// Listing is ordered by name.
	assert.Equal(t, "Action", page1[0].Name)
	assert.Equal(t, "Comedy", page1[1].Name)

	page3, total, err := repo.List(ctx, 3, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page3, 1)
	assert.Equal(t, "Western", page3[0].Name)
}

func TestGenreRepoUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepo(db)
	ctx := context.Background()

	g := seedGenre(t, db, "Thriler")
	g.Name = "Thriller"
	g.Description = strptr("Suspense-driven stories")
	require.NoError(t, repo.Update(ctx, g))

	got, err := repo.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thriller", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Suspense-driven stories", *got.Description)
}

func TestGenreRepoDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepo(db)
	ctx := context.Background()

	g := seedGenre(t, db, "Noir")
	require.NoError(t, repo.Delete(ctx, g.ID))

	_, err := repo.GetByID(ctx, g.ID)
	assert.ErrorIs(t, err, ErrGenreNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, g.ID), ErrGenreNotFound)
}

func TestGenreRepoCountMovies(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepo(db)
	ctx := context.Background()

	g := seedGenre(t, db, "Action")
	other := seedGenre(t, db, "Drama")
	d := seedDirector(t, db, "Kathryn", "Bigelow")
	seedMovie(t, db, "Point Break", 1991, 73, g.ID, d.ID)
	seedMovie(t, db, "The Hurt Locker", 2008, 76, g.ID, d.ID)

	n, err := repo.CountMovies(ctx, g.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.CountMovies(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
