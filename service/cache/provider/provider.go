package provider

import (
	"errors"
	"time"

	"github.com/x-xyz/goroyalty/base/ctx"
)

// NoExpiry as ttl keeps an entry until it is evicted or deleted
const NoExpiry time.Duration = 0

// ErrNotFound reports a miss, expired entries included
var ErrNotFound = errors.New("cache miss")

// Provider is a raw byte cache. Layers are stacked with compound.
type Provider interface {
	// Get returns the value and its remaining ttl, NoExpiry for entries set without one
	Get(c ctx.Ctx, key string) ([]byte, time.Duration, error)
	Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error
	Del(c ctx.Ctx, key string) error
}
