package marketplace

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/abi"
	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
)

// Program is the name the marketplace registers under
const Program = "royalty-marketplace"

// global state keys of the single active listing
var (
	KeyApp     = []byte("app")
	KeyAsset   = []byte("asset")
	KeyPrice   = []byte("price")
	KeyAmount  = []byte("amount")
	KeyAccount = []byte("account")
)

// ListingKeys are present together or absent together
var ListingKeys = [][]byte{KeyApp, KeyAsset, KeyPrice, KeyAmount, KeyAccount}

var (
	MethodList       = abi.NewMethod("list(asset,application,uint64,uint64,appl)void")
	MethodBuy        = abi.NewMethod("buy(asset,application,account,account,account,uint64,pay)void")
	MethodDelist     = abi.NewMethod("delist()void")
	MethodGetListing = abi.NewMethod("get_listing()(uint64,uint64,uint64,uint64,address)")
)

// ListingLength is the encoded size: app, asset, amount, price (8 each) || account(32)
const ListingLength = 4*8 + domain.AddressLength

type Listing struct {
	App     domain.AppId   `json:"app"`
	Asset   domain.AssetId `json:"asset"`
	Amount  uint64         `json:"amount"`
	Price   uint64         `json:"price"`
	Account domain.Address `json:"account"`
}

// Encode is the get_listing return value
func (l *Listing) Encode() []byte {
	b := make([]byte, 0, ListingLength)
	b = append(b, domain.Itob(uint64(l.App))...)
	b = append(b, domain.Itob(uint64(l.Asset))...)
	b = append(b, domain.Itob(l.Amount)...)
	b = append(b, domain.Itob(l.Price)...)
	return append(b, l.Account.Bytes()...)
}

func DecodeListing(b []byte) (*Listing, error) {
	if len(b) != ListingLength {
		return nil, xerrors.Errorf("listing has %d bytes: %w", len(b), domain.ErrBadParamInput)
	}
	account, err := domain.BytesToAddress(b[32:])
	if err != nil {
		return nil, err
	}
	l := &Listing{Account: account}
	for i, dst := range []*uint64{(*uint64)(&l.App), (*uint64)(&l.Asset), &l.Amount, &l.Price} {
		v, err := domain.Btoi(b[i*8 : (i+1)*8])
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	return l, nil
}

// UseCase reads committed marketplace state
type UseCase interface {
	// FindListing returns domain.ErrNotFound when nothing is listed
	FindListing(c ctx.Ctx, app domain.AppId) (*Listing, error)
}
