package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/apperror"
)

func TestGenreServiceCreateDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustGenre(t, "Drama")
	_, err := env.genres.Create(ctx, CreateGenreInput{Name: "Drama"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Contains(t, err.Error(), "already exists")
}

func TestGenreServiceFindAllEnvelope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustGenre(t, "Horror")
	env.mustGenre(t, "Action")

	payload, err := env.genres.FindAll(ctx, 1, 10)
	require.NoError(t, err)

	var out struct {
		Data  []struct{ Name string } `json:"data"`
		Total int64                   `json:"total"`
		Page  int                     `json:"page"`
		Limit int                     `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.EqualValues(t, 2, out.Total)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 10, out.Limit)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "Action", out.Data[0].Name)
}

func TestGenreServiceFindOneAttachesMovies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gid := env.mustGenre(t, "Sci-Fi")
	did := env.mustDirector(t, "Denis", "Villeneuve")
	env.mustMovie(t, "Arrival", gid, did)
	env.mustMovie(t, "Dune", gid, did)

	g, err := env.genres.FindOne(ctx, gid)
	require.NoError(t, err)
	assert.Len(t, g.Movies, 2)

	_, err = env.genres.FindOne(ctx, 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Contains(t, err.Error(), "Genre with ID 999 not found")
}

func TestGenreServiceUpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gid := env.mustGenre(t, "Thriler")
	name := "Thriller"
	g, err := env.genres.Update(ctx, gid, UpdateGenreInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Thriller", g.Name)
	assert.Nil(t, g.Movies)

	// Untouched fields survive a partial update.
	desc := "Suspense-driven stories"
	g, err = env.genres.Update(ctx, gid, UpdateGenreInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Thriller", g.Name)
	require.NotNil(t, g.Description)
}

func TestGenreServiceRemoveRestricted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gid := env.mustGenre(t, "Sci-Fi")
	did := env.mustDirector(t, "Denis", "Villeneuve")
	env.mustMovie(t, "Dune", gid, did)

	err := env.genres.Remove(ctx, gid)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Contains(t, err.Error(), "1 movies still reference it")

	// Still present after the refused delete.
	_, err = env.genres.FindOne(ctx, gid)
	require.NoError(t, err)
}

func TestGenreServiceRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gid := env.mustGenre(t, "Noir")
	require.NoError(t, env.genres.Remove(ctx, gid))

	err := env.genres.Remove(ctx, gid)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
