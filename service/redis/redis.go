package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/goroyalty/base/ctx"
)

// Forever keeps a key without expiry
const Forever time.Duration = 0

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis key not found")
	// ErrNoTTL is returned by TTL when the key exists without expiry
	ErrNoTTL = errors.New("redis key has no ttl")
	// ErrNoPool is returned when no pool serves the command
	ErrNoPool = errors.New("no redis pool")
)

// Service is the subset of redis commands the service relies on
type Service interface {
	Get(c ctx.Ctx, key string) ([]byte, error)
	Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(c ctx.Ctx, keys ...string) (int, error)
	Exists(c ctx.Ctx, key string) (bool, error)
	// TTL returns the remaining seconds of key
	TTL(c ctx.Ctx, key string) (int, error)
	Ping(c ctx.Ctx) error
}
