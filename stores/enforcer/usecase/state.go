package usecase

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/enforcer"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

// loadAdministrator falls back to the creator when no administrator was stored
func loadAdministrator(c ctx.Ctx, view ledger.StateView, app domain.AppId, creator domain.Address) (domain.Address, error) {
	v, ok, err := view.Global(c, app, enforcer.KeyAdministrator)
	if err != nil {
		return domain.Address{}, err
	}
	if !ok {
		return creator, nil
	}
	return domain.BytesToAddress(v.AsBytes())
}

func loadPolicy(c ctx.Ctx, view ledger.StateView, app domain.AppId) (*enforcer.Policy, error) {
	p := &enforcer.Policy{}
	basis, _, err := view.Global(c, app, enforcer.KeyRoyaltyBasis)
	if err != nil {
		return nil, err
	}
	p.Basis = basis.AsUint()

	receiver, ok, err := view.Global(c, app, enforcer.KeyRoyaltyReceiver)
	if err != nil {
		return nil, err
	}
	if ok {
		if p.Receiver, err = domain.BytesToAddress(receiver.AsBytes()); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// loadOffer reads the offer of owner on asset, NoOffer when nothing is stored
func loadOffer(c ctx.Ctx, view ledger.StateView, app domain.AppId, owner domain.Address, asset domain.AssetId) (enforcer.OfferState, error) {
	v, ok, err := view.Local(c, app, owner, asset.Key())
	if err != nil {
		return nil, err
	}
	if !ok {
		return enforcer.NoOffer{}, nil
	}
	return enforcer.DecodeOffer(v.AsBytes())
}

// activeOffer is loadOffer for callers that need an offer to exist
func activeOffer(c ctx.Ctx, view ledger.StateView, app domain.AppId, owner domain.Address, asset domain.AssetId) (*enforcer.ActiveOffer, error) {
	state, err := loadOffer(c, view, app, owner, asset)
	if err != nil {
		return nil, err
	}
	offer, ok := state.(enforcer.ActiveOffer)
	if !ok {
		return nil, xerrors.Errorf("offer of %s on asset %s: %w", owner, asset, domain.ErrNotFound)
	}
	return &offer, nil
}

// offerEffect writes next, or deletes the record when next is nil
func offerEffect(owner domain.Address, asset domain.AssetId, next *enforcer.ActiveOffer) ledger.Effect {
	if next == nil {
		return ledger.LocalDel{Account: owner, Key: asset.Key()}
	}
	return ledger.LocalPut{Account: owner, Key: asset.Key(), Value: ledger.BytesValue(next.Encode())}
}
