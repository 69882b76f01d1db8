// Package session implements the Redis-backed token store: one credential
// pair per chat, evicted after a sliding idle window. The store is the single
// source of truth for "is this chat logged in".
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no token pair is cached for the chat, either
// because it was never saved or because the sliding TTL ran out.
var ErrNotFound = errors.New("tokens not found")

// ErrRedisUnavailable is returned on storage-backend faults. Callers must
// treat a failed Save as "not saved"; partial persistence never happens.
var ErrRedisUnavailable = errors.New("redis unavailable")

// touchScript reads an entry and renews its sliding TTL in one atomic step,
// so a concurrent Delete can neither resurrect the entry nor leave a
// dangling expiry behind.
const touchScript = `
local data = redis.call("GET", KEYS[1])
if not data then
  return false
end
redis.call("PEXPIRE", KEYS[1], ARGV[1])
return data
`

var touchLua = redis.NewScript(touchScript)

// Store is the Redis-backed token store keyed by chat ID.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStore creates a token [Store] backed by the given Redis client. prefix
// sets the key namespace; ttl is the sliding idle window, reset on every
// write and read.
func NewStore(redisClient redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "et"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		redis:  redisClient,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *Store) key(chatID int64) string {
	return s.prefix + ":" + strconv.FormatInt(chatID, 10)
}

// Save overwrites any cached pair for the chat and resets the sliding TTL.
func (s *Store) Save(ctx context.Context, chatID int64, tokens *Tokens) error {
	data, err := Encode(tokens)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(chatID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get returns the cached pair for the chat and extends its sliding TTL.
// Reading keeps the session alive: an entry not touched for longer than the
// TTL is gone afterward, regardless of the access token's own expiry claim.
func (s *Store) Get(ctx context.Context, chatID int64) (*Tokens, error) {
	result, err := touchLua.Run(ctx, s.redis, []string{s.key(chatID)}, s.ttl.Milliseconds()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var blob []byte
	switch v := result.(type) {
	case string:
		blob = []byte(v)
	case []byte:
		blob = v
	default:
		return nil, fmt.Errorf("%w: invalid touch script response", ErrRedisUnavailable)
	}

	return Decode(blob)
}

// Delete removes the cached pair for the chat. Removing an absent entry is
// not an error.
func (s *Store) Delete(ctx context.Context, chatID int64) error {
	if err := s.redis.Del(ctx, s.key(chatID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
