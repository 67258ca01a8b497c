package usecase

import (
	"errors"

	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

// overlay is a copy-on-write view over the repository. Writes land in delta
// only; reads see delta first. Every returned record is a copy.
type overlay struct {
	repo  ledger.Repo
	delta *ledger.Delta
}

func newOverlay(repo ledger.Repo) *overlay {
	return &overlay{
		repo:  repo,
		delta: ledger.NewDelta(),
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func (o *overlay) Account(c ctx.Ctx, addr domain.Address) (*ledger.Account, error) {
	if a, ok := o.delta.Accounts[addr]; ok {
		cp := *a
		return &cp, nil
	}
	a, err := o.repo.FindAccount(c, addr)
	if isNotFound(err) {
		return &ledger.Account{Address: addr}, nil
	} else if err != nil {
		return nil, err
	}
	return a, nil
}

func (o *overlay) putAccount(a *ledger.Account) {
	cp := *a
	o.delta.Accounts[a.Address] = &cp
}

func (o *overlay) Asset(c ctx.Ctx, id domain.AssetId) (*ledger.Asset, error) {
	if a, ok := o.delta.Assets[id]; ok {
		if a == nil {
			return nil, xerrors.Errorf("asset %s: %w", id, domain.ErrNotFound)
		}
		cp := *a
		return &cp, nil
	}
	a, err := o.repo.FindAsset(c, id)
	if isNotFound(err) {
		return nil, xerrors.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	return a, err
}

func (o *overlay) putAsset(a *ledger.Asset) {
	cp := *a
	o.delta.Assets[a.Id] = &cp
}

func (o *overlay) Holding(c ctx.Ctx, addr domain.Address, id domain.AssetId) (*ledger.Holding, error) {
	key := ledger.HoldingKey{Address: addr, AssetId: id}
	if h, ok := o.delta.Holdings[key]; ok {
		if h == nil {
			return nil, xerrors.Errorf("holding of %s by %s: %w", id, addr, domain.ErrAssetNotOptedIn)
		}
		cp := *h
		return &cp, nil
	}
	h, err := o.repo.FindHolding(c, addr, id)
	if isNotFound(err) {
		return nil, xerrors.Errorf("holding of %s by %s: %w", id, addr, domain.ErrAssetNotOptedIn)
	}
	return h, err
}

func (o *overlay) putHolding(h *ledger.Holding) {
	cp := *h
	o.delta.Holdings[ledger.HoldingKey{Address: h.Address, AssetId: h.AssetId}] = &cp
}

func (o *overlay) delHolding(addr domain.Address, id domain.AssetId) {
	o.delta.Holdings[ledger.HoldingKey{Address: addr, AssetId: id}] = nil
}

func (o *overlay) App(c ctx.Ctx, id domain.AppId) (*ledger.App, error) {
	if a, ok := o.delta.Apps[id]; ok {
		if a == nil {
			return nil, xerrors.Errorf("app %s: %w", id, domain.ErrNotFound)
		}
		cp := *a
		return &cp, nil
	}
	a, err := o.repo.FindApp(c, id)
	if isNotFound(err) {
		return nil, xerrors.Errorf("app %s: %w", id, domain.ErrNotFound)
	}
	return a, err
}

func (o *overlay) putApp(a *ledger.App) {
	cp := *a
	o.delta.Apps[a.Id] = &cp
}

// delApp drops the app. The repository removes its global and local state on commit.
func (o *overlay) delApp(id domain.AppId) {
	o.delta.Apps[id] = nil
	for k := range o.delta.Globals {
		if k.App == id {
			delete(o.delta.Globals, k)
		}
	}
	for k := range o.delta.Locals {
		if k.App == id {
			delete(o.delta.Locals, k)
		}
	}
}

func (o *overlay) Global(c ctx.Ctx, app domain.AppId, key []byte) (*ledger.Value, bool, error) {
	if v, ok := o.delta.Globals[ledger.GlobalKey{App: app, Key: string(key)}]; ok {
		return copyValue(v)
	}
	v, err := o.repo.FindGlobal(c, app, key)
	if isNotFound(err) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (o *overlay) putGlobal(app domain.AppId, key []byte, v ledger.Value) {
	o.delta.Globals[ledger.GlobalKey{App: app, Key: string(key)}] = &v
}

func (o *overlay) delGlobal(app domain.AppId, key []byte) {
	o.delta.Globals[ledger.GlobalKey{App: app, Key: string(key)}] = nil
}

func (o *overlay) Local(c ctx.Ctx, app domain.AppId, addr domain.Address, key []byte) (*ledger.Value, bool, error) {
	if v, ok := o.delta.Locals[ledger.LocalKey{App: app, Address: addr, Key: string(key)}]; ok {
		return copyValue(v)
	}
	v, err := o.repo.FindLocal(c, app, addr, key)
	if isNotFound(err) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (o *overlay) putLocal(app domain.AppId, addr domain.Address, key []byte, v ledger.Value) {
	o.delta.Locals[ledger.LocalKey{App: app, Address: addr, Key: string(key)}] = &v
}

func (o *overlay) delLocal(app domain.AppId, addr domain.Address, key []byte) {
	o.delta.Locals[ledger.LocalKey{App: app, Address: addr, Key: string(key)}] = nil
}

// next increments a counter and returns the new value
func (o *overlay) next(c ctx.Ctx, name string) (uint64, error) {
	cur, ok := o.delta.Counters[name]
	if !ok {
		var err error
		if cur, err = o.repo.FindCounter(c, name); err != nil {
			return 0, err
		}
	}
	o.delta.Counters[name] = cur + 1
	return cur + 1, nil
}

func copyValue(v *ledger.Value) (*ledger.Value, bool, error) {
	if v == nil {
		return nil, false, nil
	}
	cp := *v
	cp.Bytes = append([]byte(nil), v.Bytes...)
	return &cp, true, nil
}
