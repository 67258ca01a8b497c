package usecase

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/domain/marketplace"
)

type MarketplaceUseCaseCfg struct {
	Ledger ledger.UseCase
}

type impl struct {
	ledger ledger.UseCase
}

func New(cfg *MarketplaceUseCaseCfg) marketplace.UseCase {
	return &impl{ledger: cfg.Ledger}
}

func (im *impl) FindListing(c ctx.Ctx, id domain.AppId) (*marketplace.Listing, error) {
	view := im.ledger.View()
	app, err := view.App(c, id)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "appId": id}).Error("failed to view.App")
		return nil, err
	}
	if app.Program != marketplace.Program {
		return nil, xerrors.Errorf("app %s runs %q: %w", id, app.Program, domain.ErrNotFound)
	}

	l, ok, err := loadListing(c, view, id)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "appId": id}).Error("failed to loadListing")
		return nil, err
	}
	if !ok {
		return nil, xerrors.Errorf("no active listing on %s: %w", id, domain.ErrNotFound)
	}
	return l, nil
}
