package healthcheck

import (
	"github.com/x-xyz/goroyalty/base/ctx"
)

// Status is what /health reports when every backend answers
type Status struct {
	Healthy string `json:"healthy"`
	// Round is the number of groups committed so far
	Round uint64 `json:"round"`
}

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) (*Status, error)
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	// PingDB probes every configured backend, absent ones are skipped
	PingDB(context ctx.Ctx) error
}
