package repository

import (
	"errors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/keys"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/service/cache"
)

// cachedRepo serves asset and app records out of cache. Both change rarely
// and are read by every call that touches them.
type cachedRepo struct {
	ledger.Repo
	assets cache.Service
	apps   cache.Service
}

type CachedRepoCfg struct {
	Repo ledger.Repo
	// Assets is keyed by asset id
	Assets cache.Service
	// Apps is keyed by app id
	Apps cache.Service
}

// NewCachedRepo decorates cfg.Repo. It assumes this process is the only writer.
func NewCachedRepo(cfg *CachedRepoCfg) ledger.Repo {
	return &cachedRepo{
		Repo:   cfg.Repo,
		assets: cfg.Assets,
		apps:   cfg.Apps,
	}
}

func (r *cachedRepo) FindAsset(c ctx.Ctx, id domain.AssetId) (*ledger.Asset, error) {
	res := &ledger.Asset{}
	if err := r.assets.GetByFunc(c, id.String(), res, func() (interface{}, error) {
		return r.Repo.FindAsset(c, id)
	}); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.WithFields(log.Fields{"err": err, "assetId": id}).Error("failed to assets.GetByFunc")
		}
		return nil, err
	}
	return res, nil
}

func (r *cachedRepo) FindApp(c ctx.Ctx, id domain.AppId) (*ledger.App, error) {
	res := &ledger.App{}
	if err := r.apps.GetByFunc(c, id.String(), res, func() (interface{}, error) {
		return r.Repo.FindApp(c, id)
	}); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.WithFields(log.Fields{"err": err, "appId": id}).Error("failed to apps.GetByFunc")
		}
		return nil, err
	}
	return res, nil
}

// Commit writes through and then drops every cached record the delta touched
func (r *cachedRepo) Commit(c ctx.Ctx, delta *ledger.Delta) error {
	if err := r.Repo.Commit(c, delta); err != nil {
		return err
	}
	for id := range delta.Assets {
		if err := r.assets.Del(c, id.String()); err != nil {
			c.WithFields(log.Fields{"err": err, "key": keys.RedisKey(keys.PfxLedgerAsset, id.String())}).Warn("failed to assets.Del")
		}
	}
	for id := range delta.Apps {
		if err := r.apps.Del(c, id.String()); err != nil {
			c.WithFields(log.Fields{"err": err, "key": keys.RedisKey(keys.PfxLedgerApp, id.String())}).Warn("failed to apps.Del")
		}
	}
	return nil
}
