package usecase

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/goroyalty/base/abi"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/enforcer"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/domain/marketplace"
	enforcerUC "github.com/x-xyz/goroyalty/stores/enforcer/usecase"
	"github.com/x-xyz/goroyalty/stores/ledger/ledgertest"
)

const price = 10_000_000

type marketSuite struct {
	suite.Suite

	w        *ledgertest.World
	uc       marketplace.UseCase
	admin    domain.Address
	seller   domain.Address
	buyer    domain.Address
	receiver domain.Address
	operator domain.Address

	enforcer   domain.AppId
	market     domain.AppId
	marketAddr domain.Address
	asset      domain.AssetId
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(marketSuite))
}

func (s *marketSuite) SetupTest() {
	s.admin = ledgertest.Addr(1)
	s.seller = ledgertest.Addr(2)
	s.buyer = ledgertest.Addr(3)
	s.receiver = ledgertest.Addr(4)
	s.operator = ledgertest.Addr(5)

	s.w = ledgertest.New(s.T(), []domain.Address{s.admin, s.seller, s.buyer, s.operator},
		enforcerUC.NewContract(), NewContract())
	s.uc = New(&MarketplaceUseCaseCfg{Ledger: s.w.Ledger})

	s.enforcer = s.w.CreateApp(s.admin, enforcer.Program)
	s.market = s.w.CreateApp(s.operator, marketplace.Program)
	s.marketAddr = s.market.Address()

	s.w.MustSubmit(ledger.AppCall(s.admin, s.enforcer, enforcer.MethodSetPolicy.Args(abi.Uint64(1000), abi.Address(s.receiver))))
	s.asset = s.w.CreateAsset(s.seller, ledgertest.ProtectedAsset(1, s.enforcer.Address()))
	s.w.MustSubmit(ledger.AssetOptIn(s.buyer, s.asset))
}

func (s *marketSuite) offerTxn(auth domain.Address, amount uint64) ledger.Txn {
	txn := ledger.AppCall(s.seller, s.enforcer, enforcer.MethodOffer.Args(
		abi.Uint64(0), abi.Uint64(amount), abi.Address(auth), abi.Uint64(0), abi.Address(domain.ZeroAddress)))
	txn.ForeignAssets = []domain.AssetId{s.asset}
	return txn
}

func (s *marketSuite) listTxn(amount uint64) ledger.Txn {
	txn := ledger.AppCall(s.seller, s.market, marketplace.MethodList.Args(
		abi.Uint64(0), abi.Uint64(1), abi.Uint64(amount), abi.Uint64(price)))
	txn.ForeignAssets = []domain.AssetId{s.asset}
	txn.ForeignApps = []domain.AppId{s.enforcer}
	return txn
}

func (s *marketSuite) buyGroup(paid uint64) []ledger.Txn {
	buy := ledger.AppCall(s.buyer, s.market, marketplace.MethodBuy.Args(
		abi.Uint64(0), abi.Uint64(1), abi.Uint64(1), abi.Uint64(2), abi.Uint64(3), abi.Uint64(1)))
	buy.Accounts = []domain.Address{s.enforcer.Address(), s.seller, s.receiver}
	buy.ForeignAssets = []domain.AssetId{s.asset}
	buy.ForeignApps = []domain.AppId{s.enforcer}
	return []ledger.Txn{ledger.Payment(s.buyer, s.marketAddr, paid), buy}
}

func (s *marketSuite) list() {
	s.w.MustSubmit(s.offerTxn(s.marketAddr, 1), s.listTxn(1))
}

func (s *marketSuite) TestPurchaseSplitsRoyalty() {
	s.list()
	listing, err := s.uc.FindListing(s.w.Ctx, s.market)
	s.Require().NoError(err)
	s.Equal(&marketplace.Listing{App: s.enforcer, Asset: s.asset, Amount: 1, Price: price, Account: s.seller}, listing)

	sellerBefore := s.w.Balance(s.seller)
	buyerBefore := s.w.Balance(s.buyer)

	record := s.w.MustSubmit(s.buyGroup(price)...)

	s.Equal(sellerBefore+9_000_000, s.w.Balance(s.seller))
	s.Equal(uint64(1_000_000), s.w.Balance(s.receiver))
	s.Equal(buyerBefore-price, s.w.Balance(s.buyer))
	s.Equal(uint64(0), s.w.Balance(s.marketAddr))
	s.Equal(uint64(0), s.w.Balance(s.enforcer.Address()))
	s.Equal(uint64(0), s.w.AssetBalance(s.seller, s.asset))
	s.Equal(uint64(1), s.w.AssetBalance(s.buyer, s.asset))

	_, err = s.uc.FindListing(s.w.Ctx, s.market)
	s.ErrorIs(err, domain.ErrNotFound)
	for _, key := range marketplace.ListingKeys {
		_, ok := s.w.Global(s.market, key)
		s.False(ok, string(key))
	}
	_, ok := s.w.Global(s.enforcer, enforcer.KeyRoyaltyBasis)
	s.True(ok)

	// payment and transfer call from the marketplace, then the enforcer's split and move
	s.Len(record.InnerTxns, 5)
}

func (s *marketSuite) TestGetListing() {
	get := ledger.AppCall(s.buyer, s.market, marketplace.MethodGetListing.Args())
	_, err := s.w.Call(get)
	s.ErrorIs(err, domain.ErrNotFound)

	s.list()
	ret, err := s.w.Call(get)
	s.Require().NoError(err)
	l, err := marketplace.DecodeListing(ret)
	s.Require().NoError(err)
	s.Equal(s.seller, l.Account)
	s.Equal(uint64(price), l.Price)
}

func (s *marketSuite) TestListRejections() {
	tests := []struct {
		name    string
		txns    func() []ledger.Txn
		wantErr error
	}{
		{"offer to someone else", func() []ledger.Txn {
			return []ledger.Txn{s.offerTxn(s.buyer, 1), s.listTxn(1)}
		}, domain.ErrPrecondition},
		{"preceding txn is a payment", func() []ledger.Txn {
			return []ledger.Txn{ledger.Payment(s.seller, s.marketAddr, 1), s.listTxn(1)}
		}, domain.ErrPrecondition},
		{"list alone", func() []ledger.Txn {
			return []ledger.Txn{s.listTxn(1)}
		}, domain.ErrBadParamInput},
		{"more than held", func() []ledger.Txn {
			return []ledger.Txn{s.offerTxn(s.marketAddr, 1), s.listTxn(2)}
		}, domain.ErrInsufficientBalance},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.w.Submit(tt.txns()...)
			s.ErrorIs(err, tt.wantErr)
			_, err = s.uc.FindListing(s.w.Ctx, s.market)
			s.ErrorIs(err, domain.ErrNotFound)
		})
	}
}

func (s *marketSuite) TestListWhileActive() {
	s.list()
	offer := s.offerTxn(s.marketAddr, 1)
	offer.Args[4] = abi.Uint64(1)
	offer.Args[5] = abi.Address(s.marketAddr)
	_, err := s.w.Submit(offer, s.listTxn(1))
	s.ErrorIs(err, domain.ErrPrecondition)
}

func (s *marketSuite) TestListUngovernedAsset() {
	plain := s.w.CreateAsset(s.seller, ledger.AssetParams{Total: 1, Clawback: s.enforcer.Address()})
	offer := s.offerTxn(s.marketAddr, 1)
	offer.ForeignAssets = []domain.AssetId{plain}
	list := s.listTxn(1)
	list.ForeignAssets = []domain.AssetId{plain}

	_, err := s.w.Submit(offer, list)
	s.ErrorIs(err, domain.ErrPrecondition)
}

func (s *marketSuite) TestBuyRejections() {
	s.list()

	wrongSeller := s.buyGroup(price)
	wrongSeller[1].Accounts[1] = s.operator

	wrongEnforcerAccount := s.buyGroup(price)
	wrongEnforcerAccount[1].Accounts[0] = s.operator

	wrongReceiver := s.buyGroup(price)
	wrongReceiver[1].Accounts[2] = s.operator

	tests := []struct {
		name    string
		txns    []ledger.Txn
		wantErr error
	}{
		{"underpaid", s.buyGroup(price - 1), domain.ErrPrecondition},
		{"wrong seller", wrongSeller, domain.ErrPrecondition},
		{"wrong enforcer account", wrongEnforcerAccount, domain.ErrBadParamInput},
		{"royalty redirected", wrongReceiver, domain.ErrPrecondition},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			buyerBefore := s.w.Balance(s.buyer)
			_, err := s.w.Submit(tt.txns...)
			s.ErrorIs(err, tt.wantErr)

			s.Equal(buyerBefore, s.w.Balance(s.buyer))
			s.Equal(uint64(1), s.w.AssetBalance(s.seller, s.asset))
			_, err = s.uc.FindListing(s.w.Ctx, s.market)
			s.NoError(err)
		})
	}
}

func (s *marketSuite) TestBuyRekeyedBuyerRollsBack() {
	s.list()
	rekey := ledger.Payment(s.buyer, s.buyer, 0)
	rekey.RekeyTo = s.operator
	s.w.MustSubmit(rekey)
	buyerBefore := s.w.Balance(s.buyer)

	_, err := s.w.Submit(s.buyGroup(price)...)
	s.ErrorIs(err, domain.ErrUnauthorized)
	s.Equal(buyerBefore, s.w.Balance(s.buyer))
	s.Equal(uint64(0), s.w.Balance(s.marketAddr))
	_, err = s.uc.FindListing(s.w.Ctx, s.market)
	s.NoError(err)
}

func (s *marketSuite) TestDelist() {
	s.list()
	delist := ledger.AppCall(s.buyer, s.market, marketplace.MethodDelist.Args())
	_, err := s.w.Submit(delist)
	s.ErrorIs(err, domain.ErrUnauthorized)

	delist.Sender = s.seller
	s.w.MustSubmit(delist)
	_, err = s.uc.FindListing(s.w.Ctx, s.market)
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.w.Submit(delist)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *marketSuite) TestDeleteRequiresCreator() {
	del := ledger.AppCall(s.seller, s.market, nil)
	del.OnCompletion = ledger.OnCompletionDelete
	_, err := s.w.Submit(del)
	s.ErrorIs(err, domain.ErrUnauthorized)

	del.Sender = s.operator
	s.w.MustSubmit(del)
	_, err = s.uc.FindListing(s.w.Ctx, s.market)
	s.ErrorIs(err, domain.ErrNotFound)
}
