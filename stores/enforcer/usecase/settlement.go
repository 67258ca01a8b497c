package usecase

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/enforcer"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

// settlement holds everything a transfer decides on. plan reads nothing else.
type settlement struct {
	AppAddress domain.Address
	AssetId    domain.AssetId
	Amount     uint64
	Owner      ledger.Account
	Buyer      ledger.Account
	Caller     domain.Address
	// RoyaltyReceiver is the receiver the caller expects
	RoyaltyReceiver domain.Address
	GroupSize       int
	Index           int
	// Payment is the group member right before the call
	Payment             ledger.Txn
	Policy              enforcer.Policy
	Offer               enforcer.OfferState
	ExpectedOfferAmount uint64
}

// transfer(asset,uint64,account,account,account,txn,asset,uint64)void
func (ct *contract) transfer(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	s, err := readSettlement(c, call)
	if err != nil {
		return nil, err
	}
	res, err := s.plan()
	if err != nil {
		return nil, err
	}
	c.WithFields(log.Fields{
		"appId":   call.AppId,
		"assetId": s.AssetId,
		"amount":  s.Amount,
		"owner":   s.Owner.Address,
		"buyer":   s.Buyer.Address,
	}).Debug("transfer settled")
	return res, nil
}

func readSettlement(c ctx.Ctx, call *ledger.Call) (*settlement, error) {
	s := &settlement{
		AppAddress: call.AppAddress(),
		Caller:     call.Sender(),
		GroupSize:  len(call.Group),
		Index:      call.Index,
	}

	var err error
	if s.AssetId, err = call.AssetArg(1); err != nil {
		return nil, err
	}
	if s.Amount, err = call.Uint64Arg(2); err != nil {
		return nil, err
	}
	owner, err := call.AccountArg(3)
	if err != nil {
		return nil, err
	}
	buyer, err := call.AccountArg(4)
	if err != nil {
		return nil, err
	}
	if s.RoyaltyReceiver, err = call.AccountArg(5); err != nil {
		return nil, err
	}
	// arg 6 is a reserved asset slot
	if s.ExpectedOfferAmount, err = call.Uint64Arg(7); err != nil {
		return nil, err
	}

	ownerAcct, err := call.View.Account(c, owner)
	if err != nil {
		return nil, err
	}
	s.Owner = *ownerAcct
	buyerAcct, err := call.View.Account(c, buyer)
	if err != nil {
		return nil, err
	}
	s.Buyer = *buyerAcct

	if call.Index > 0 {
		s.Payment = call.Group[call.Index-1]
	}

	policy, err := loadPolicy(c, call.View, call.AppId)
	if err != nil {
		return nil, err
	}
	s.Policy = *policy

	if s.Offer, err = loadOffer(c, call.View, call.AppId, owner, s.AssetId); err != nil {
		return nil, err
	}
	return s, nil
}

// validate checks every precondition before anything is planned
func (s *settlement) validate() (*enforcer.ActiveOffer, error) {
	if s.Owner.IsRekeyed() {
		return nil, xerrors.Errorf("owner %s is rekeyed: %w", s.Owner.Address, domain.ErrUnauthorized)
	}
	if s.Buyer.IsRekeyed() {
		return nil, xerrors.Errorf("buyer %s is rekeyed: %w", s.Buyer.Address, domain.ErrUnauthorized)
	}
	if s.GroupSize != 2 || s.Index != 1 {
		return nil, xerrors.Errorf("transfer at %d in a group of %d, needs a payment then the call: %w", s.Index, s.GroupSize, domain.ErrPrecondition)
	}
	if !s.Policy.IsSet() {
		return nil, xerrors.Errorf("royalty policy not set: %w", domain.ErrPrecondition)
	}

	offer, ok := s.Offer.(enforcer.ActiveOffer)
	if !ok {
		return nil, xerrors.Errorf("offer of %s on asset %s: %w", s.Owner.Address, s.AssetId, domain.ErrNotFound)
	}
	if s.Caller != offer.Auth {
		return nil, xerrors.Errorf("caller %s, offer authorizes %s: %w", s.Caller, offer.Auth, domain.ErrUnauthorized)
	}
	if s.Payment.Sender != offer.Auth {
		return nil, xerrors.Errorf("payment from %s, offer authorizes %s: %w", s.Payment.Sender, offer.Auth, domain.ErrUnauthorized)
	}
	if err := s.validatePayment(); err != nil {
		return nil, err
	}
	if s.Amount > offer.Amount {
		return nil, xerrors.Errorf("transfer of %d above offered %d: %w", s.Amount, offer.Amount, domain.ErrPrecondition)
	}
	if s.RoyaltyReceiver != s.Policy.Receiver {
		return nil, xerrors.Errorf("royalty receiver %s, policy pays %s: %w", s.RoyaltyReceiver, s.Policy.Receiver, domain.ErrPrecondition)
	}
	return &offer, nil
}

func (s *settlement) validatePayment() error {
	pay := &s.Payment
	if !pay.RekeyTo.IsZero() {
		return xerrors.Errorf("payment rekeys its sender: %w", domain.ErrPrecondition)
	}
	switch pay.Type {
	case ledger.TxnTypePayment:
		if !pay.CloseRemainderTo.IsZero() {
			return xerrors.Errorf("payment closes its sender: %w", domain.ErrPrecondition)
		}
		if pay.Receiver != s.AppAddress {
			return xerrors.Errorf("payment to %s, not the enforcer: %w", pay.Receiver, domain.ErrPrecondition)
		}
	case ledger.TxnTypeAssetTransfer:
		if !pay.AssetCloseTo.IsZero() || pay.IsClawback() {
			return xerrors.Errorf("asset payment closes out or claws back: %w", domain.ErrPrecondition)
		}
		if pay.AssetReceiver != s.AppAddress {
			return xerrors.Errorf("asset payment to %s, not the enforcer: %w", pay.AssetReceiver, domain.ErrPrecondition)
		}
	default:
		return xerrors.Errorf("preceding %s txn is not a payment: %w", pay.Type, domain.ErrPrecondition)
	}
	return nil
}

// plan turns a valid settlement into the payment split, the asset move and
// the offer update
func (s *settlement) plan() (*ledger.Result, error) {
	offer, err := s.validate()
	if err != nil {
		return nil, err
	}

	paid := s.Payment.Amount
	if s.Payment.Type == ledger.TxnTypeAssetTransfer {
		paid = s.Payment.AssetAmount
	}
	ownerShare, royalty, err := enforcer.Split(paid, s.Policy.Basis)
	if err != nil {
		return nil, err
	}

	next, err := enforcer.NextOffer(*offer, s.Caller, offer.Amount-s.Amount, s.ExpectedOfferAmount, s.Caller)
	if err != nil {
		return nil, err
	}

	txns := []ledger.Txn{s.payout(s.Owner.Address, ownerShare)}
	if royalty > 0 {
		txns = append(txns, s.payout(s.Policy.Receiver, royalty))
	}
	txns = append(txns, ledger.Clawback(s.AppAddress, s.Owner.Address, s.Buyer.Address, s.AssetId, s.Amount))

	return ledger.NewResult(
		ledger.InnerGroup{Txns: txns},
		offerEffect(s.Owner.Address, s.AssetId, next),
	), nil
}

// payout pays in whatever the buyer paid with
func (s *settlement) payout(to domain.Address, amount uint64) ledger.Txn {
	if s.Payment.Type == ledger.TxnTypeAssetTransfer {
		return ledger.AssetTransfer(s.AppAddress, to, s.Payment.XferAsset, amount)
	}
	return ledger.Payment(s.AppAddress, to, amount)
}
