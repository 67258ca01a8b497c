package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/base/metrics"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

var (
	timeNow = time.Now
)

type LedgerUseCaseCfg struct {
	Repo      ledger.Repo
	Contracts []ledger.Contract
}

type impl struct {
	repo      ledger.Repo
	contracts map[string]ledger.Contract
	met       metrics.Service

	// mu serializes groups, no two groups interleave
	mu sync.Mutex
}

func New(cfg *LedgerUseCaseCfg) ledger.UseCase {
	contracts := make(map[string]ledger.Contract, len(cfg.Contracts))
	for _, c := range cfg.Contracts {
		contracts[c.Program()] = c
	}
	return &impl{
		repo:      cfg.Repo,
		contracts: contracts,
		met:       metrics.New("ledger"),
	}
}

func (im *impl) Submit(c ctx.Ctx, group *ledger.Group) (*ledger.GroupRecord, error) {
	defer im.met.BumpTime("submit.time").End()

	if len(group.Txns) == 0 || len(group.Txns) > ledger.MaxGroupSize {
		return nil, xerrors.Errorf("group of %d txns, allowed 1 to %d: %w", len(group.Txns), ledger.MaxGroupSize, domain.ErrBadParamInput)
	}

	groupId := uuid.NewString()
	c = ctx.WithValue(c, "groupId", groupId)

	im.mu.Lock()
	defer im.mu.Unlock()

	ex := &execution{
		overlay:   newOverlay(im.repo),
		contracts: im.contracts,
	}
	returns, err := ex.applyGroup(c, group.Txns, 0)
	if err != nil {
		im.met.BumpSum("submit.reject", 1)
		c.WithFields(log.Fields{"err": err}).Warn("group rejected")
		return nil, err
	}

	round, err := ex.next(c, ledger.CounterRound)
	if err != nil {
		c.WithFields(log.Fields{"err": err}).Error("failed to ex.next")
		return nil, err
	}
	record := &ledger.GroupRecord{
		GroupId:     groupId,
		Round:       round,
		Txns:        group.Txns,
		Returns:     returns,
		InnerTxns:   ex.inner,
		CommittedAt: timeNow().UTC(),
	}
	ex.delta.Group = record

	if err := im.repo.Commit(c, ex.delta); err != nil {
		im.met.BumpSum("commit.err", 1)
		c.WithFields(log.Fields{"err": err}).Error("failed to repo.Commit")
		return nil, err
	}

	im.met.BumpSum("submit.commit", 1)
	im.met.BumpSum("submit.applied", float64(ex.applied))
	c.WithFields(log.Fields{"round": round, "applied": ex.applied}).Info("group committed")
	return record, nil
}

func (im *impl) Genesis(c ctx.Ctx, accounts []ledger.Account) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	round, err := im.repo.FindCounter(c, ledger.CounterRound)
	if err != nil {
		c.WithFields(log.Fields{"err": err}).Error("failed to repo.FindCounter")
		return err
	}
	if round > 0 {
		return xerrors.Errorf("ledger at round %d: %w", round, domain.ErrPrecondition)
	}

	delta := ledger.NewDelta()
	for i := range accounts {
		a := accounts[i]
		if a.Address.IsZero() {
			return xerrors.Errorf("genesis account %d has no address: %w", i, domain.ErrBadParamInput)
		}
		if prev, ok := delta.Accounts[a.Address]; ok {
			a.Balance += prev.Balance
		}
		delta.Accounts[a.Address] = &a
	}
	if err := im.repo.Commit(c, delta); err != nil {
		c.WithFields(log.Fields{"err": err}).Error("failed to repo.Commit")
		return err
	}
	c.WithFields(log.Fields{"accounts": len(delta.Accounts)}).Info("genesis committed")
	return nil
}

func (im *impl) FindGroup(c ctx.Ctx, groupId string) (*ledger.GroupRecord, error) {
	res, err := im.repo.FindGroup(c, groupId)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "groupId": groupId}).Error("failed to repo.FindGroup")
		return nil, err
	}
	return res, nil
}

// FindAccount loads the account and its holdings side by side
func (im *impl) FindAccount(c ctx.Ctx, addr domain.Address) (*ledger.AccountState, error) {
	b := goroutines.NewBatch(2, goroutines.WithBatchSize(2))
	defer b.Close()
	b.Queue(func() (interface{}, error) {
		return im.View().Account(c, addr)
	})
	b.Queue(func() (interface{}, error) {
		return im.repo.FindHoldings(c, addr)
	})
	b.QueueComplete()

	res := &ledger.AccountState{}
	for ret := range b.Results() {
		if err := ret.Error(); err != nil {
			c.WithFields(log.Fields{"err": err, "address": addr}).Error("failed to load account")
			return nil, err
		}
		switch v := ret.Value().(type) {
		case *ledger.Account:
			res.Account = *v
		case []ledger.Holding:
			res.Holdings = v
		}
	}
	return res, nil
}

func (im *impl) FindHolding(c ctx.Ctx, addr domain.Address, id domain.AssetId) (*ledger.Holding, error) {
	res, err := im.repo.FindHolding(c, addr, id)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "address": addr, "assetId": id}).Error("failed to repo.FindHolding")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindAsset(c ctx.Ctx, id domain.AssetId) (*ledger.Asset, error) {
	res, err := im.repo.FindAsset(c, id)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "assetId": id}).Error("failed to repo.FindAsset")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindApp(c ctx.Ctx, id domain.AppId) (*ledger.AppState, error) {
	b := goroutines.NewBatch(2, goroutines.WithBatchSize(2))
	defer b.Close()
	b.Queue(func() (interface{}, error) {
		return im.repo.FindApp(c, id)
	})
	b.Queue(func() (interface{}, error) {
		return im.repo.FindGlobals(c, id)
	})
	b.QueueComplete()

	res := &ledger.AppState{Address: id.Address()}
	for ret := range b.Results() {
		if err := ret.Error(); err != nil {
			c.WithFields(log.Fields{"err": err, "appId": id}).Error("failed to load app")
			return nil, err
		}
		switch v := ret.Value().(type) {
		case *ledger.App:
			res.App = *v
		case []ledger.KeyValue:
			res.Globals = v
		}
	}
	return res, nil
}

// View reads committed state through an empty overlay
func (im *impl) View() ledger.StateView {
	return newOverlay(im.repo)
}
