package usecase

import (
	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/metrics"
	hcdomain "github.com/x-xyz/goroyalty/domain/healthcheck"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

var met = metrics.New("healthcheck")

type impl struct {
	repo   hcdomain.HealthCheckRepo
	ledger ledger.Repo
}

// HealthCheckUseCaseCfg wires the backends probed by Check
type HealthCheckUseCaseCfg struct {
	Repo hcdomain.HealthCheckRepo
	// Ledger is read for the current round, it proves the world state is reachable
	Ledger ledger.Repo
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(cfg *HealthCheckUseCaseCfg) hcdomain.HealthCheckUsecase {
	return &impl{
		repo:   cfg.Repo,
		ledger: cfg.Ledger,
	}
}

func (im *impl) Check(c ctx.Ctx) (*hcdomain.Status, error) {
	defer met.BumpTime("check").End()

	if err := im.repo.PingDB(c); err != nil {
		met.BumpSum("check.err", 1, "stage", "ping")
		return nil, err
	}

	round, err := im.ledger.FindCounter(c, ledger.CounterRound)
	if err != nil {
		met.BumpSum("check.err", 1, "stage", "ledger")
		c.WithField("err", err).Error("ledger.FindCounter failed")
		return nil, err
	}
	return &hcdomain.Status{Healthy: "ok", Round: round}, nil
}
