package cache

import (
	"time"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/service/cache/provider"
)

// ErrNotFound is the provider miss surfaced by Get
var ErrNotFound = provider.ErrNotFound

// OneTimeGetter loads the value on a miss, it must return a pointer
type OneTimeGetter func() (interface{}, error)

type Serializer func(interface{}) ([]byte, error)

type Deserializer func([]byte, interface{}) error

// Service caches typed values under Pfx on top of a byte Provider.
// Values expire after ServiceConfig.Ttl.
type Service interface {
	// GetByFunc fills container from the cache, or from getter on a miss and
	// stores the result. Getter errors are returned untouched.
	GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error
	Get(c ctx.Ctx, key string, container interface{}) error
	Set(c ctx.Ctx, key string, value interface{}) error
	Del(c ctx.Ctx, key string) error
}

// ServiceConfig defaults to json when Serialize or Deserialize is nil
type ServiceConfig struct {
	Ttl         time.Duration
	Pfx         string
	Cache       provider.Provider
	Serialize   Serializer
	Deserialize Deserializer
}
