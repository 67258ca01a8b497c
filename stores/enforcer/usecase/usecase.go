package usecase

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/enforcer"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

type EnforcerUseCaseCfg struct {
	Ledger ledger.UseCase
}

type impl struct {
	ledger ledger.UseCase
}

func New(cfg *EnforcerUseCaseCfg) enforcer.UseCase {
	return &impl{ledger: cfg.Ledger}
}

// findApp loads app and requires it to run the enforcer program
func (im *impl) findApp(c ctx.Ctx, view ledger.StateView, id domain.AppId) (*ledger.App, error) {
	app, err := view.App(c, id)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "appId": id}).Error("failed to view.App")
		return nil, err
	}
	if app.Program != enforcer.Program {
		return nil, xerrors.Errorf("app %s runs %q: %w", id, app.Program, domain.ErrNotFound)
	}
	return app, nil
}

func (im *impl) FindPolicy(c ctx.Ctx, id domain.AppId) (*enforcer.PolicyView, error) {
	view := im.ledger.View()
	if _, err := im.findApp(c, view, id); err != nil {
		return nil, err
	}
	p, err := loadPolicy(c, view, id)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "appId": id}).Error("failed to loadPolicy")
		return nil, err
	}
	return &enforcer.PolicyView{
		Receiver:   p.Receiver,
		Basis:      p.Basis,
		Percentage: p.Percentage(),
	}, nil
}

func (im *impl) FindAdministrator(c ctx.Ctx, id domain.AppId) (domain.Address, error) {
	view := im.ledger.View()
	app, err := im.findApp(c, view, id)
	if err != nil {
		return domain.Address{}, err
	}
	admin, err := loadAdministrator(c, view, id, app.Creator)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "appId": id}).Error("failed to loadAdministrator")
		return domain.Address{}, err
	}
	return admin, nil
}

func (im *impl) FindOffer(c ctx.Ctx, id domain.AppId, owner domain.Address, asset domain.AssetId) (*enforcer.OfferView, error) {
	view := im.ledger.View()
	if _, err := im.findApp(c, view, id); err != nil {
		return nil, err
	}
	offer, err := activeOffer(c, view, id, owner, asset)
	if err != nil {
		return nil, err
	}
	return &enforcer.OfferView{
		Owner:   owner,
		AssetId: asset,
		Auth:    offer.Auth,
		Amount:  offer.Amount,
	}, nil
}
