package repository

import (
	"sort"
	"sync"

	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

type memoryRepo struct {
	mu       sync.RWMutex
	accounts map[domain.Address]ledger.Account
	assets   map[domain.AssetId]ledger.Asset
	holdings map[ledger.HoldingKey]ledger.Holding
	apps     map[domain.AppId]ledger.App
	globals  map[ledger.GlobalKey]ledger.Value
	locals   map[ledger.LocalKey]ledger.Value
	counters map[string]uint64
	groups   map[string]ledger.GroupRecord
}

// NewMemoryRepo keeps world state in process, for development and tests
func NewMemoryRepo() ledger.Repo {
	return &memoryRepo{
		accounts: make(map[domain.Address]ledger.Account),
		assets:   make(map[domain.AssetId]ledger.Asset),
		holdings: make(map[ledger.HoldingKey]ledger.Holding),
		apps:     make(map[domain.AppId]ledger.App),
		globals:  make(map[ledger.GlobalKey]ledger.Value),
		locals:   make(map[ledger.LocalKey]ledger.Value),
		counters: make(map[string]uint64),
		groups:   make(map[string]ledger.GroupRecord),
	}
}

func notFound(format string, args ...interface{}) error {
	return xerrors.Errorf(format+": %w", append(args, domain.ErrNotFound)...)
}

func (r *memoryRepo) FindAccount(c ctx.Ctx, addr domain.Address) (*ledger.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[addr]
	if !ok {
		return nil, notFound("account %s", addr)
	}
	return &a, nil
}

func (r *memoryRepo) FindAsset(c ctx.Ctx, id domain.AssetId) (*ledger.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, notFound("asset %s", id)
	}
	return &a, nil
}

func (r *memoryRepo) FindHolding(c ctx.Ctx, addr domain.Address, id domain.AssetId) (*ledger.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.holdings[ledger.HoldingKey{Address: addr, AssetId: id}]
	if !ok {
		return nil, notFound("holding of %s by %s", id, addr)
	}
	return &h, nil
}

func (r *memoryRepo) FindHoldings(c ctx.Ctx, addr domain.Address) ([]ledger.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := []ledger.Holding{}
	for k, h := range r.holdings {
		if k.Address == addr {
			res = append(res, h)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].AssetId < res[j].AssetId })
	return res, nil
}

func (r *memoryRepo) FindApp(c ctx.Ctx, id domain.AppId) (*ledger.App, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, notFound("app %s", id)
	}
	return &a, nil
}

func (r *memoryRepo) FindGlobal(c ctx.Ctx, app domain.AppId, key []byte) (*ledger.Value, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.globals[ledger.GlobalKey{App: app, Key: string(key)}]
	if !ok {
		return nil, notFound("global %x of app %s", key, app)
	}
	v.Bytes = append([]byte(nil), v.Bytes...)
	return &v, nil
}

func (r *memoryRepo) FindGlobals(c ctx.Ctx, app domain.AppId) ([]ledger.KeyValue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := []ledger.KeyValue{}
	for k, v := range r.globals {
		if k.App == app {
			v.Bytes = append([]byte(nil), v.Bytes...)
			res = append(res, ledger.KeyValue{Key: []byte(k.Key), Value: v})
		}
	}
	sort.Slice(res, func(i, j int) bool { return string(res[i].Key) < string(res[j].Key) })
	return res, nil
}

func (r *memoryRepo) FindLocal(c ctx.Ctx, app domain.AppId, addr domain.Address, key []byte) (*ledger.Value, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.locals[ledger.LocalKey{App: app, Address: addr, Key: string(key)}]
	if !ok {
		return nil, notFound("local %x of %s in app %s", key, addr, app)
	}
	v.Bytes = append([]byte(nil), v.Bytes...)
	return &v, nil
}

func (r *memoryRepo) FindCounter(c ctx.Ctx, name string) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name], nil
}

func (r *memoryRepo) FindGroup(c ctx.Ctx, groupId string) (*ledger.GroupRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[groupId]
	if !ok {
		return nil, notFound("group %s", groupId)
	}
	return &g, nil
}

func (r *memoryRepo) Commit(c ctx.Ctx, delta *ledger.Delta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for addr, a := range delta.Accounts {
		r.accounts[addr] = *a
	}
	for id, a := range delta.Assets {
		if a == nil {
			delete(r.assets, id)
			continue
		}
		r.assets[id] = *a
	}
	for k, h := range delta.Holdings {
		if h == nil {
			delete(r.holdings, k)
			continue
		}
		r.holdings[k] = *h
	}
	for id, a := range delta.Apps {
		if a != nil {
			r.apps[id] = *a
			continue
		}
		delete(r.apps, id)
		for k := range r.globals {
			if k.App == id {
				delete(r.globals, k)
			}
		}
		for k := range r.locals {
			if k.App == id {
				delete(r.locals, k)
			}
		}
	}
	for k, v := range delta.Globals {
		if v == nil {
			delete(r.globals, k)
			continue
		}
		r.globals[k] = *v
	}
	for k, v := range delta.Locals {
		if v == nil {
			delete(r.locals, k)
			continue
		}
		r.locals[k] = *v
	}
	for name, v := range delta.Counters {
		r.counters[name] = v
	}
	if delta.Group != nil {
		r.groups[delta.Group.GroupId] = *delta.Group
	}
	return nil
}
