package usecase

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/abi"
	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/base/metrics"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/enforcer"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/domain/marketplace"
)

type contract struct {
	met metrics.Service
}

// NewContract returns the marketplace program. It lists one asset at a time
// and settles sales through the enforcer governing the asset.
func NewContract() ledger.Contract {
	return &contract{met: metrics.New("marketplace")}
}

func (ct *contract) Program() string {
	return marketplace.Program
}

func (ct *contract) Approve(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	if call.Creating {
		return ledger.NewResult(), nil
	}

	switch call.Txn().Completion() {
	case ledger.OnCompletionOptIn, ledger.OnCompletionCloseOut:
		return ledger.NewResult(), nil
	case ledger.OnCompletionDelete, ledger.OnCompletionUpdate:
		if call.Sender() != call.Creator {
			return nil, xerrors.Errorf("%s is not the creator: %w", call.Sender(), domain.ErrUnauthorized)
		}
		return ledger.NewResult(), nil
	}

	var (
		method abi.Method
		handle func(ctx.Ctx, *ledger.Call) (*ledger.Result, error)
	)
	switch selector := call.Selector(); {
	case marketplace.MethodList.Matches(selector):
		method, handle = marketplace.MethodList, ct.list
	case marketplace.MethodBuy.Matches(selector):
		method, handle = marketplace.MethodBuy, ct.buy
	case marketplace.MethodDelist.Matches(selector):
		method, handle = marketplace.MethodDelist, ct.delist
	case marketplace.MethodGetListing.Matches(selector):
		method, handle = marketplace.MethodGetListing, ct.getListing
	default:
		return nil, xerrors.Errorf("selector %x: %w", selector, domain.ErrUnknownSelector)
	}

	defer ct.met.BumpTime("call.time", "method", method.Name()).End()
	res, err := handle(c, call)
	if err != nil {
		ct.met.BumpSum("call.reject", 1, "method", method.Name())
		c.WithFields(log.Fields{"err": err, "appId": call.AppId, "method": method.Name()}).Debug("call rejected")
		return nil, err
	}
	return res, nil
}

// list(asset,application,uint64,uint64,appl)void
func (ct *contract) list(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	assetId, err := call.AssetArg(1)
	if err != nil {
		return nil, err
	}
	enforcerApp, err := call.AppArg(2)
	if err != nil {
		return nil, err
	}
	amount, err := call.Uint64Arg(3)
	if err != nil {
		return nil, err
	}
	price, err := call.Uint64Arg(4)
	if err != nil {
		return nil, err
	}

	if _, ok, err := loadListing(c, call.View, call.AppId); err != nil {
		return nil, err
	} else if ok {
		return nil, xerrors.Errorf("a listing is active: %w", domain.ErrPrecondition)
	}
	if amount == 0 {
		return nil, xerrors.Errorf("listing of 0 units: %w", domain.ErrBadParamInput)
	}

	offerCall, err := call.Preceding()
	if err != nil {
		return nil, err
	}
	if offerCall.Type != ledger.TxnTypeAppCall || offerCall.ApplicationId != enforcerApp ||
		len(offerCall.Args) == 0 || !enforcer.MethodOffer.Matches(offerCall.Args[0]) {
		return nil, xerrors.Errorf("preceding txn is not an offer to enforcer %s: %w", enforcerApp, domain.ErrPrecondition)
	}

	seller := call.Sender()
	holding, err := call.View.Holding(c, seller, assetId)
	if err != nil {
		return nil, err
	}
	if holding.Amount < amount {
		return nil, xerrors.Errorf("%s holds %d of asset %s, lists %d: %w", seller, holding.Amount, assetId, amount, domain.ErrInsufficientBalance)
	}

	enforcerAddr := enforcerApp.Address()
	asset, err := call.View.Asset(c, assetId)
	if err != nil {
		return nil, err
	}
	if asset.Params.Clawback != enforcerAddr || asset.Params.Freeze != enforcerAddr {
		return nil, xerrors.Errorf("asset %s is not governed by enforcer %s: %w", assetId, enforcerApp, domain.ErrPrecondition)
	}

	offer, err := recordedOffer(c, call.View, enforcerApp, seller, assetId)
	if err != nil {
		return nil, err
	}
	if offer.Auth != call.AppAddress() || offer.Amount < amount {
		return nil, xerrors.Errorf("%s does not cover %d units for the marketplace: %w", offer, amount, domain.ErrPrecondition)
	}

	l := &marketplace.Listing{
		App:     enforcerApp,
		Asset:   assetId,
		Amount:  amount,
		Price:   price,
		Account: seller,
	}
	return ledger.NewResult(listingPuts(l)...), nil
}

// buy(asset,application,account,account,account,uint64,pay)void
func (ct *contract) buy(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	assetId, err := call.AssetArg(1)
	if err != nil {
		return nil, err
	}
	enforcerApp, err := call.AppArg(2)
	if err != nil {
		return nil, err
	}
	enforcerAccount, err := call.AccountArg(3)
	if err != nil {
		return nil, err
	}
	seller, err := call.AccountArg(4)
	if err != nil {
		return nil, err
	}
	royaltyReceiver, err := call.AccountArg(5)
	if err != nil {
		return nil, err
	}
	amount, err := call.Uint64Arg(6)
	if err != nil {
		return nil, err
	}

	l, ok, err := loadListing(c, call.View, call.AppId)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, xerrors.Errorf("no active listing: %w", domain.ErrNotFound)
	}
	if l.Asset != assetId || l.App != enforcerApp || l.Account != seller || amount == 0 || amount > l.Amount {
		return nil, xerrors.Errorf("listing %+v does not match asset %s enforcer %s seller %s amount %d: %w",
			*l, assetId, enforcerApp, seller, amount, domain.ErrPrecondition)
	}
	if enforcerAccount != enforcerApp.Address() {
		return nil, xerrors.Errorf("%s is not the account of enforcer %s: %w", enforcerAccount, enforcerApp, domain.ErrBadParamInput)
	}

	pay, err := call.Preceding()
	if err != nil {
		return nil, err
	}
	if pay.Type != ledger.TxnTypePayment || pay.Receiver != call.AppAddress() || !pay.CloseRemainderTo.IsZero() {
		return nil, xerrors.Errorf("preceding txn is not a payment to the marketplace: %w", domain.ErrPrecondition)
	}
	if pay.Amount < l.Price {
		return nil, xerrors.Errorf("paid %d, price is %d: %w", pay.Amount, l.Price, domain.ErrPrecondition)
	}

	offer, err := recordedOffer(c, call.View, enforcerApp, seller, assetId)
	if err != nil {
		return nil, err
	}

	marketAddr := call.AppAddress()
	transfer := ledger.AppCall(marketAddr, enforcerApp, enforcer.MethodTransfer.Args(
		abi.Uint64(0),
		abi.Uint64(amount),
		abi.Uint64(1),
		abi.Uint64(2),
		abi.Uint64(3),
		abi.Uint64(0),
		abi.Uint64(offer.Amount),
	))
	transfer.Accounts = []domain.Address{seller, call.Sender(), royaltyReceiver}
	transfer.ForeignAssets = []domain.AssetId{assetId}

	res := ledger.NewResult(ledger.InnerGroup{Txns: []ledger.Txn{
		ledger.Payment(marketAddr, enforcerAccount, pay.Amount),
		transfer,
	}})
	return res.Add(listingDels()...), nil
}

// delist()void, only the seller clears its listing
func (ct *contract) delist(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	l, ok, err := loadListing(c, call.View, call.AppId)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, xerrors.Errorf("no active listing: %w", domain.ErrNotFound)
	}
	if call.Sender() != l.Account {
		return nil, xerrors.Errorf("%s did not list: %w", call.Sender(), domain.ErrUnauthorized)
	}
	return ledger.NewResult(listingDels()...), nil
}

func (ct *contract) getListing(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	l, ok, err := loadListing(c, call.View, call.AppId)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, xerrors.Errorf("no active listing: %w", domain.ErrNotFound)
	}
	return ledger.NewResult().WithReturn(l.Encode()), nil
}

// recordedOffer reads the offer the enforcer holds for owner
func recordedOffer(c ctx.Ctx, view ledger.StateView, enforcerApp domain.AppId, owner domain.Address, asset domain.AssetId) (*enforcer.ActiveOffer, error) {
	v, ok, err := view.Local(c, enforcerApp, owner, asset.Key())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, xerrors.Errorf("offer of %s on asset %s: %w", owner, asset, domain.ErrNotFound)
	}
	state, err := enforcer.DecodeOffer(v.AsBytes())
	if err != nil {
		return nil, err
	}
	offer, ok := state.(enforcer.ActiveOffer)
	if !ok {
		return nil, xerrors.Errorf("offer of %s on asset %s: %w", owner, asset, domain.ErrNotFound)
	}
	return &offer, nil
}
