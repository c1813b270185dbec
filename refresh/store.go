package refresh

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps Redis transport failures and timeouts. Callers treat
// it as transient; every other failure in this package is terminal for the
// request.
var ErrUnavailable = errors.New("redis unavailable")

// ErrNotRecognized is returned by Rotate when the presented token value is
// not a currently tracked record: either it was already consumed by a prior
// rotation or it never existed.
var ErrNotRecognized = errors.New("refresh record not recognized")

const rotateScript = `
local existed = redis.call("DEL", KEYS[1])
if existed == 0 then
  return 0
end
redis.call("SET", KEYS[2], ARGV[1], "PX", ARGV[2])
return 1
`

var rotateLua = redis.NewScript(rotateScript)

// Record is one outstanding refresh token: the subject it was issued to, the
// signed token value, and when it stops being honored.
type Record struct {
	Subject    string
	TokenValue string
	ExpiresAt  time.Time
}

// Store is a Redis-backed refresh-token table. Token values are never used
// as raw keys; each key is the SHA-256 of the token value under the
// configured prefix, and the stored value is the subject. Record lifetime is
// enforced by the key TTL.
//
// All methods bound their Redis round-trip with the configured timeout and
// are safe for concurrent callers.
type Store struct {
	redis   redis.UniversalClient
	prefix  string
	timeout time.Duration
}

// NewStore creates a refresh [Store] on the given Redis client. prefix
// namespaces the keys; timeout bounds every round-trip and must be positive.
func NewStore(rdb redis.UniversalClient, prefix string, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Store{
		redis:   rdb,
		prefix:  prefix,
		timeout: timeout,
	}
}

func (s *Store) key(tokenValue string) string {
	sum := sha256.Sum256([]byte(tokenValue))
	return s.prefix + ":" + hex.EncodeToString(sum[:])
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Save inserts a record. The Redis TTL mirrors the record expiry so expired
// garbage reaps itself; a record at or past expiry is not written.
//
//	Performance: 1 Redis SET.
func (s *Store) Save(ctx context.Context, rec Record) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.redis.Set(ctx, s.key(rec.TokenValue), rec.Subject, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Exists reports whether the exact token value is currently tracked.
//
//	Performance: 1 Redis EXISTS.
func (s *Store) Exists(ctx context.Context, tokenValue string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.redis.Exists(ctx, s.key(tokenValue)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return n == 1, nil
}

// Delete removes the record for the token value. Absence is not an error;
// logout is idempotent.
//
//	Performance: 1 Redis DEL.
func (s *Store) Delete(ctx context.Context, tokenValue string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.redis.Del(ctx, s.key(tokenValue)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Rotate consumes the record for oldValue and inserts next in one atomic
// Lua step. If oldValue is not tracked (already rotated, logged out, or
// forged) it returns [ErrNotRecognized] and writes nothing. The script runs
// atomically inside Redis, so concurrent rotations of the same value
// linearize: exactly one caller wins and every other sees ErrNotRecognized.
//
//	Performance: 1 Lua EVALSHA (DEL + SET).
func (s *Store) Rotate(ctx context.Context, oldValue string, next Record) error {
	ttl := time.Until(next.ExpiresAt)
	if ttl <= 0 {
		return errors.New("refresh: replacement record already expired")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := rotateLua.Run(
		ctx,
		s.redis,
		[]string{s.key(oldValue), s.key(next.TokenValue)},
		next.Subject,
		ttl.Milliseconds(),
	).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	code, ok := result.(int64)
	if !ok {
		return fmt.Errorf("%w: invalid rotate script response", ErrUnavailable)
	}
	if code == 0 {
		return ErrNotRecognized
	}

	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return time.Since(start), nil
}
