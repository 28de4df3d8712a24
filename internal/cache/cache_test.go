package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newRedisStore backs a Store with an embedded Redis so the real read, write
// and sweep paths run.
func newRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb, zap.NewNop()), mr
}

func TestKey(t *testing.T) {
	t.Run("no params yields bare namespace", func(t *testing.T) {
		assert.Equal(t, "movies:popular", Key(NSMoviesPopular, nil))
		assert.Equal(t, "genres:all", Key(NSGenresAll, map[string]string{}))
	})

	t.Run("params are sorted by name", func(t *testing.T) {
		a := Key(NSMoviesAll, map[string]string{"page": "1", "limit": "10"})
		b := Key(NSMoviesAll, map[string]string{"limit": "10", "page": "1"})
		assert.Equal(t, a, b)
		assert.Equal(t, "movies:all:limit:10|page:1", a)
	})

	t.Run("different params yield different keys", func(t *testing.T) {
		a := Key(NSMoviesAll, map[string]string{"page": "1", "limit": "10"})
		b := Key(NSMoviesAll, map[string]string{"page": "2", "limit": "10"})
		assert.NotEqual(t, a, b)
	})
}

func TestNamespaces(t *testing.T) {
	movies := Namespaces(EntityMovie)
	assert.ElementsMatch(t, []Namespace{
		NSMoviesAll, NSMoviesByGenre, NSMoviesByDirector, NSMoviesPopular, NSMoviesSearch,
	}, movies)

	// Genre and director mutations cascade into every movie namespace on
	// top of their own listing namespace.
	genres := Namespaces(EntityGenre)
	assert.ElementsMatch(t, append([]Namespace{NSGenresAll}, movies...), genres)

	directors := Namespaces(EntityDirector)
	assert.ElementsMatch(t, append([]Namespace{NSDirectorsAll}, movies...), directors)

	assert.Empty(t, Namespaces("unknown"))
}

func TestStoreSetGetRoundTrip(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	params := map[string]string{"page": "1", "limit": "10"}
	payload := []byte(`{"data":[],"total":0,"page":1,"limit":10}`)

	assert.Nil(t, s.Get(ctx, NSMoviesAll, params)) // cold miss

	s.Set(ctx, NSMoviesAll, params, payload, TTLShort)
	assert.Equal(t, payload, s.Get(ctx, NSMoviesAll, params))
	assert.Equal(t, TTLShort, mr.TTL(Key(NSMoviesAll, params)))

	// Other parameterizations of the namespace stay misses.
	assert.Nil(t, s.Get(ctx, NSMoviesAll, map[string]string{"page": "2", "limit": "10"}))

	// Entries expire with their TTL.
	mr.FastForward(TTLShort + time.Second)
	assert.Nil(t, s.Get(ctx, NSMoviesAll, params))
}

func TestInvalidateSweepsNamespaces(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	// Seed a bare and a parameterized entry in every namespace.
	all := []Namespace{
		NSMoviesAll, NSMoviesByGenre, NSMoviesByDirector, NSMoviesPopular,
		NSMoviesSearch, NSGenresAll, NSDirectorsAll,
	}
	params := map[string]string{"limit": "10", "page": "1"}
	for _, ns := range all {
		s.Set(ctx, ns, nil, []byte("bare"), TTLLong)
		s.Set(ctx, ns, params, []byte("paged"), TTLLong)
	}

	// A genre mutation wipes its own namespace and every movie namespace,
	// bare and parameterized keys alike.
	s.Invalidate(ctx, EntityGenre)
	for _, ns := range Namespaces(EntityGenre) {
		assert.Nil(t, s.Get(ctx, ns, nil), string(ns))
		assert.Nil(t, s.Get(ctx, ns, params), string(ns))
	}

	// The director listings were not touched.
	require.Equal(t, []byte("bare"), s.Get(ctx, NSDirectorsAll, nil))
	require.Equal(t, []byte("paged"), s.Get(ctx, NSDirectorsAll, params))

	// A movie mutation leaves both entity listings alone.
	s.Set(ctx, NSGenresAll, nil, []byte("bare"), TTLLong)
	s.Invalidate(ctx, EntityMovie)
	assert.Equal(t, []byte("bare"), s.Get(ctx, NSGenresAll, nil))
	assert.Equal(t, []byte("bare"), s.Get(ctx, NSDirectorsAll, nil))
}

func TestNilClientDisablesStore(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	assert.False(t, s.Enabled())
	assert.Nil(t, s.Get(ctx, NSMoviesAll, nil))

	// Set and Invalidate must be safe no-ops without a client.
	s.Set(ctx, NSMoviesAll, nil, []byte(`{}`), time.Minute)
	s.Invalidate(ctx, EntityMovie)
}
