package usecase

import (
	"errors"

	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/enforcer"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

// offer(asset,uint64,address,uint64,address)void
func (ct *contract) offer(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	assetId, err := call.AssetArg(1)
	if err != nil {
		return nil, err
	}
	amount, err := call.Uint64Arg(2)
	if err != nil {
		return nil, err
	}
	auth, err := call.AddressArg(3)
	if err != nil {
		return nil, err
	}
	expectedAmount, err := call.Uint64Arg(4)
	if err != nil {
		return nil, err
	}
	expectedAuth, err := call.AddressArg(5)
	if err != nil {
		return nil, err
	}

	owner := call.Sender()
	// an owner who left the asset holds 0 and may still clear its offer
	held := uint64(0)
	holding, err := call.View.Holding(c, owner, assetId)
	switch {
	case err == nil:
		held = holding.Amount
	case !errors.Is(err, domain.ErrAssetNotOptedIn):
		return nil, err
	}
	if held < amount {
		return nil, xerrors.Errorf("%s holds %d of asset %s, offers %d: %w", owner, held, assetId, amount, domain.ErrInsufficientBalance)
	}

	asset, err := call.View.Asset(c, assetId)
	if err != nil {
		return nil, err
	}
	if asset.Params.Clawback != call.AppAddress() {
		return nil, xerrors.Errorf("clawback of asset %s is %s: %w", assetId, asset.Params.Clawback, domain.ErrPrecondition)
	}

	current, err := loadOffer(c, call.View, call.AppId, owner, assetId)
	if err != nil {
		return nil, err
	}
	next, err := enforcer.NextOffer(current, auth, amount, expectedAmount, expectedAuth)
	if err != nil {
		return nil, err
	}
	return ledger.NewResult(offerEffect(owner, assetId, next)), nil
}

// royalty_free_move(asset,uint64,account,account,uint64)void
func (ct *contract) royaltyFreeMove(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	assetId, err := call.AssetArg(1)
	if err != nil {
		return nil, err
	}
	amount, err := call.Uint64Arg(2)
	if err != nil {
		return nil, err
	}
	from, err := call.AccountArg(3)
	if err != nil {
		return nil, err
	}
	to, err := call.AccountArg(4)
	if err != nil {
		return nil, err
	}
	expectedAmount, err := call.Uint64Arg(5)
	if err != nil {
		return nil, err
	}

	// the admin gate already ran, the sender is the administrator
	admin := call.Sender()
	current, err := activeOffer(c, call.View, call.AppId, from, assetId)
	if err != nil {
		return nil, err
	}
	if current.Auth != admin {
		return nil, xerrors.Errorf("offer of %s is authorized to %s: %w", from, current.Auth, domain.ErrUnauthorized)
	}
	next, err := enforcer.NextOffer(*current, domain.ZeroAddress, 0, expectedAmount, admin)
	if err != nil {
		return nil, err
	}
	if current.Amount > amount {
		return nil, xerrors.Errorf("offer of %d above moved amount %d: %w", current.Amount, amount, domain.ErrPrecondition)
	}

	return ledger.NewResult(
		offerEffect(from, assetId, next),
		ledger.InnerGroup{Txns: []ledger.Txn{
			ledger.Clawback(call.AppAddress(), from, to, assetId, amount),
		}},
	), nil
}

// get_offer(uint64,account)(address,uint64), the asset is a raw id
func (ct *contract) getOffer(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	id, err := call.Uint64Arg(1)
	if err != nil {
		return nil, err
	}
	owner, err := call.AccountArg(2)
	if err != nil {
		return nil, err
	}
	offer, err := activeOffer(c, call.View, call.AppId, owner, domain.AssetId(id))
	if err != nil {
		return nil, err
	}
	return ledger.NewResult().WithReturn(offer.Encode()), nil
}
