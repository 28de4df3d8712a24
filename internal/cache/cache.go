// Package cache implements the Redis-backed listing cache.  Entries are
// JSON-encoded response envelopes keyed by a namespace plus the sorted
// request parameters.  Invalidation is whole-namespace: a mutation wipes
// every parameterization of the affected namespaces, since the writer cannot
// know which parameter sets are stale.  Over-invalidation is deliberate —
// stale data must never be served past a write.
//
// A nil Redis client disables the cache entirely: every Get is a miss and
// every Set and Invalidate is a no-op.  Read errors are also treated as
// misses so a failing Redis never takes down the read path.
package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Namespace identifies a group of cache entries sharing one invalidation
// lifecycle.
type Namespace string

const (
	NSMoviesAll        Namespace = "movies:all"
	NSMoviesByGenre    Namespace = "movies:genre"
	NSMoviesByDirector Namespace = "movies:director"
	NSMoviesPopular    Namespace = "movies:popular"
	NSMoviesSearch     Namespace = "movies:search"
	NSGenresAll        Namespace = "genres:all"
	NSDirectorsAll     Namespace = "directors:all"
)

// TTL tiers.  Short covers frequently-changing listings, medium moderately
// stable aggregates, long near-static lists such as all genres/directors.
const (
	TTLShort  = 5 * time.Minute
	TTLMedium = 15 * time.Minute
	TTLLong   = time.Hour
)

// Entity names used by the invalidation graph.
const (
	EntityMovie    = "movie"
	EntityGenre    = "genre"
	EntityDirector = "director"
)

// movieNamespaces is every namespace whose payloads embed movie data.
var movieNamespaces = []Namespace{
	NSMoviesAll, NSMoviesByGenre, NSMoviesByDirector, NSMoviesPopular, NSMoviesSearch,
}

// invalidationGraph declares which namespaces each entity mutation wipes.
// Genre and director mutations cascade into the movie namespaces because
// movie payloads embed denormalized genre/director objects.  Kept as data,
// not conditionals, so adding a namespace cannot be silently forgotten.
var invalidationGraph = map[string][]Namespace{
	EntityMovie:    movieNamespaces,
	EntityGenre:    append([]Namespace{NSGenresAll}, movieNamespaces...),
	EntityDirector: append([]Namespace{NSDirectorsAll}, movieNamespaces...),
}

// Store is the cache facade handed to the entity services.
type Store struct {
	rdb    *redis.Client // nil disables the cache
	logger *zap.Logger
}

// NewStore builds a Store.  Pass a nil client to run without caching.
func NewStore(rdb *redis.Client, logger *zap.Logger) *Store {
	return &Store{rdb: rdb, logger: logger}
}

// Enabled reports whether a Redis client is configured.
func (s *Store) Enabled() bool {
	return s.rdb != nil
}

// Key builds the cache key for a namespace and its parameters.  Parameters
// are sorted by name and joined as key:value pairs so equivalent parameter
// sets always collide on the same key; empty params yield the bare
// namespace.
func Key(ns Namespace, params map[string]string) string {
	if len(params) == 0 {
		return string(ns)
	}
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, k := range names {
		pairs = append(pairs, k+":"+params[k])
	}
	return string(ns) + ":" + strings.Join(pairs, "|")
}

// Get returns the cached payload for the namespace/params pair, or nil on a
// miss.  Redis errors are logged and reported as misses.
func (s *Store) Get(ctx context.Context, ns Namespace, params map[string]string) []byte {
	if s.rdb == nil {
		return nil
	}
	key := Key(ns, params)
	bs, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("cache get failed, treating as miss",
				zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	return bs
}

// Set stores a payload under the namespace/params key with the given TTL.
// Failures are logged and swallowed; the caller already has the data.
func (s *Store) Set(ctx context.Context, ns Namespace, params map[string]string, payload []byte, ttl time.Duration) {
	if s.rdb == nil {
		return
	}
	key := Key(ns, params)
	if err := s.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate wipes every namespace the entity's mutations touch, per the
// declarative graph above.  Failures are logged and swallowed: the write
// already stands, and a stale entry expires with its TTL.
func (s *Store) Invalidate(ctx context.Context, entity string) {
	if s.rdb == nil {
		return
	}
	for _, ns := range invalidationGraph[entity] {
		if err := s.invalidateNamespace(ctx, ns); err != nil {
			s.logger.Warn("cache invalidation failed",
				zap.String("namespace", string(ns)), zap.Error(err))
		}
	}
}

// invalidateNamespace deletes the bare namespace key and every
// parameterized key beneath it via SCAN.
func (s *Store) invalidateNamespace(ctx context.Context, ns Namespace) error {
	keys := []string{string(ns)}
	iter := s.rdb.Scan(ctx, 0, string(ns)+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// Namespaces returns the namespaces wiped for an entity.  Exposed for tests
// and diagnostics.
func Namespaces(entity string) []Namespace {
	return invalidationGraph[entity]
}
