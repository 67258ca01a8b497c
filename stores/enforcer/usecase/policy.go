package usecase

import (
	"errors"

	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/enforcer"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

// set_policy(uint64,address)void, a rejected call leaves the policy as it was
func (ct *contract) setPolicy(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	basis, err := call.Uint64Arg(1)
	if err != nil {
		return nil, err
	}
	receiver, err := call.AddressArg(2)
	if err != nil {
		return nil, err
	}
	if basis > enforcer.BasisPointMultiplier {
		return nil, xerrors.Errorf("royalty basis %d above %d: %w", basis, enforcer.BasisPointMultiplier, domain.ErrPrecondition)
	}
	if receiver.IsZero() {
		return nil, xerrors.Errorf("royalty receiver unset: %w", domain.ErrBadParamInput)
	}
	return ledger.NewResult(
		ledger.GlobalPut{Key: enforcer.KeyRoyaltyBasis, Value: ledger.UintValue(basis)},
		ledger.GlobalPut{Key: enforcer.KeyRoyaltyReceiver, Value: ledger.BytesValue(receiver.Bytes())},
	), nil
}

func (ct *contract) getPolicy(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	p, err := loadPolicy(c, call.View, call.AppId)
	if err != nil {
		return nil, err
	}
	return ledger.NewResult().WithReturn(p.Encode()), nil
}

// set_payment_asset(asset,bool)void opts the application account in to a
// payment asset, or closes it out back to the asset creator
func (ct *contract) setPaymentAsset(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	assetId, err := call.AssetArg(1)
	if err != nil {
		return nil, err
	}
	allowed, err := call.BoolArg(2)
	if err != nil {
		return nil, err
	}
	asset, err := call.View.Asset(c, assetId)
	if err != nil {
		return nil, err
	}

	appAddr := call.AppAddress()
	held := true
	if _, err := call.View.Holding(c, appAddr, assetId); errors.Is(err, domain.ErrAssetNotOptedIn) {
		held = false
	} else if err != nil {
		return nil, err
	}

	res := ledger.NewResult()
	switch {
	case allowed && !held:
		res.Add(ledger.InnerGroup{Txns: []ledger.Txn{ledger.AssetOptIn(appAddr, assetId)}})
	case !allowed && held:
		closeOut := ledger.AssetTransfer(appAddr, asset.Params.Creator, assetId, 0)
		closeOut.AssetCloseTo = asset.Params.Creator
		res.Add(ledger.InnerGroup{Txns: []ledger.Txn{closeOut}})
	}
	return res, nil
}
