package enforcer

import (
	"github.com/shopspring/decimal"

	"github.com/x-xyz/goroyalty/base/abi"
	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
)

// Program is the name the enforcer registers under
const Program = "royalty-enforcer"

// BasisPointMultiplier is 100% in basis points
const BasisPointMultiplier = 10_000

// global state keys
var (
	KeyAdministrator   = []byte("administrator")
	KeyRoyaltyBasis    = []byte("royalty_basis")
	KeyRoyaltyReceiver = []byte("royalty_receiver")
)

var (
	MethodSetAdministrator = abi.NewMethod("set_administrator(address)void")
	MethodOffer            = abi.NewMethod("offer(asset,uint64,address,uint64,address)void")
	MethodSetPolicy        = abi.NewMethod("set_policy(uint64,address)void")
	MethodSetPaymentAsset  = abi.NewMethod("set_payment_asset(asset,bool)void")
	MethodTransfer         = abi.NewMethod("transfer(asset,uint64,account,account,account,txn,asset,uint64)void")
	MethodRoyaltyFreeMove  = abi.NewMethod("royalty_free_move(asset,uint64,account,account,uint64)void")

	MethodGetPolicy        = abi.NewMethod("get_policy()(address,uint64)")
	MethodGetOffer         = abi.NewMethod("get_offer(uint64,account)(address,uint64)")
	MethodGetAdministrator = abi.NewMethod("get_administrator()address")
)

// Policy is the royalty configuration of one enforcer instance
type Policy struct {
	Receiver domain.Address `json:"receiver"`
	Basis    uint64         `json:"basis"`
}

// IsSet reports whether a receiver was ever configured
func (p *Policy) IsSet() bool {
	return !p.Receiver.IsZero()
}

// Percentage renders the basis points as a percentage, 1000 is "10"
func (p *Policy) Percentage() decimal.Decimal {
	return decimal.NewFromInt(int64(p.Basis)).Shift(-2)
}

// Encode is the get_policy return value: receiver(32) || basis(8)
func (p *Policy) Encode() []byte {
	return append(p.Receiver.Bytes(), domain.Itob(p.Basis)...)
}

// PolicyView is the JSON shape of a policy
type PolicyView struct {
	Receiver   domain.Address  `json:"receiver"`
	Basis      uint64          `json:"basis"`
	Percentage decimal.Decimal `json:"percentage"`
}

type OfferView struct {
	Owner   domain.Address `json:"owner"`
	AssetId domain.AssetId `json:"assetId"`
	Auth    domain.Address `json:"auth"`
	Amount  uint64         `json:"amount"`
}

// UseCase reads committed enforcer state
type UseCase interface {
	FindPolicy(c ctx.Ctx, app domain.AppId) (*PolicyView, error)
	FindAdministrator(c ctx.Ctx, app domain.AppId) (domain.Address, error)
	// FindOffer returns domain.ErrNotFound when no offer is active
	FindOffer(c ctx.Ctx, app domain.AppId, owner domain.Address, asset domain.AssetId) (*OfferView, error)
}
