package repository

import (
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/database/mongoclient"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/service/query"
)

// repoSuite runs the same checks against every Repo implementation
type repoSuite struct {
	suite.Suite
	newRepo func() ledger.Repo

	c     ctx.Ctx
	im    ledger.Repo
	alice domain.Address
	bob   domain.Address
}

func TestMemoryRepo(t *testing.T) {
	suite.Run(t, &repoSuite{newRepo: NewMemoryRepo})
}

// TestMongoRepo needs a replica set on mongo 4.4 or later, set TEST_MONGO_URI to run it
func TestMongoRepo(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	suite.Run(t, &repoSuite{newRepo: func() ledger.Repo {
		client := mongoclient.MustConnectMongoClient(&mongoclient.MongoCfg{
			URI:        uri,
			AuthDBName: "admin",
			DBName:     "repotest_" + uuid.NewString()[:8],
			SetSafe:    true,
		})
		return NewMongoRepo(query.New(client))
	}})
}

func (s *repoSuite) SetupTest() {
	s.c = ctx.Background()
	s.im = s.newRepo()
	s.alice = domain.Address{0xa1}
	s.bob = domain.Address{0xb0}
}

func (s *repoSuite) commit(fill func(d *ledger.Delta)) {
	d := ledger.NewDelta()
	fill(d)
	s.Require().NoError(s.im.Commit(s.c, d))
}

func (s *repoSuite) TestMissingRecords() {
	_, err := s.im.FindAccount(s.c, s.alice)
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.im.FindAsset(s.c, 1)
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.im.FindHolding(s.c, s.alice, 1)
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.im.FindApp(s.c, 1)
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.im.FindGlobal(s.c, 1, []byte("k"))
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.im.FindLocal(s.c, 1, s.alice, []byte("k"))
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.im.FindGroup(s.c, "nope")
	s.ErrorIs(err, domain.ErrNotFound)

	n, err := s.im.FindCounter(s.c, ledger.CounterAsset)
	s.NoError(err)
	s.Zero(n)

	hs, err := s.im.FindHoldings(s.c, s.alice)
	s.NoError(err)
	s.Empty(hs)
}

func (s *repoSuite) TestAccountsAndHoldings() {
	s.commit(func(d *ledger.Delta) {
		d.Accounts[s.alice] = &ledger.Account{Address: s.alice, Balance: 100, AuthAddr: s.bob}
		d.Accounts[s.bob] = &ledger.Account{Address: s.bob, App: 4}
		d.Assets[2] = &ledger.Asset{Id: 2, Params: ledger.AssetParams{Total: 10, Name: "b", Creator: s.alice, Clawback: s.bob}}
		d.Assets[1] = &ledger.Asset{Id: 1, Params: ledger.AssetParams{Total: 5, DefaultFrozen: true}}
		d.Holdings[ledger.HoldingKey{Address: s.alice, AssetId: 2}] = &ledger.Holding{Address: s.alice, AssetId: 2, Amount: 10}
		d.Holdings[ledger.HoldingKey{Address: s.alice, AssetId: 1}] = &ledger.Holding{Address: s.alice, AssetId: 1, Frozen: true}
		d.Counters[ledger.CounterAsset] = 2
	})

	acct, err := s.im.FindAccount(s.c, s.alice)
	s.Require().NoError(err)
	s.Equal(ledger.Account{Address: s.alice, Balance: 100, AuthAddr: s.bob}, *acct)

	acct, err = s.im.FindAccount(s.c, s.bob)
	s.Require().NoError(err)
	s.Equal(domain.AppId(4), acct.App)

	asset, err := s.im.FindAsset(s.c, 2)
	s.Require().NoError(err)
	s.Equal(s.bob, asset.Params.Clawback)
	s.Equal(s.alice, asset.Params.Creator)

	hs, err := s.im.FindHoldings(s.c, s.alice)
	s.Require().NoError(err)
	s.Require().Len(hs, 2)
	s.Equal(domain.AssetId(1), hs[0].AssetId)
	s.True(hs[0].Frozen)
	s.Equal(uint64(10), hs[1].Amount)

	n, err := s.im.FindCounter(s.c, ledger.CounterAsset)
	s.NoError(err)
	s.Equal(uint64(2), n)

	s.commit(func(d *ledger.Delta) {
		d.Holdings[ledger.HoldingKey{Address: s.alice, AssetId: 1}] = nil
		d.Assets[1] = nil
	})
	_, err = s.im.FindHolding(s.c, s.alice, 1)
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.im.FindAsset(s.c, 1)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *repoSuite) TestAppState() {
	global := ledger.GlobalKey{App: 4, Key: "policy"}
	s.commit(func(d *ledger.Delta) {
		d.Apps[4] = &ledger.App{Id: 4, Creator: s.alice, Program: "enforcer"}
		v, u := ledger.BytesValue([]byte{1, 2}), ledger.UintValue(9)
		d.Globals[global] = &v
		d.Globals[ledger.GlobalKey{App: 4, Key: "basis"}] = &u
		d.Locals[ledger.LocalKey{App: 4, Address: s.bob, Key: "offer"}] = &v
	})

	v, err := s.im.FindGlobal(s.c, 4, []byte("policy"))
	s.Require().NoError(err)
	s.Equal([]byte{1, 2}, v.AsBytes())

	kvs, err := s.im.FindGlobals(s.c, 4)
	s.Require().NoError(err)
	s.Require().Len(kvs, 2)
	s.Equal("basis", string(kvs[0].Key))
	s.Equal(uint64(9), kvs[0].Value.AsUint())

	l, err := s.im.FindLocal(s.c, 4, s.bob, []byte("offer"))
	s.Require().NoError(err)
	s.Equal([]byte{1, 2}, l.AsBytes())

	// deleting an app drops its state
	s.commit(func(d *ledger.Delta) {
		d.Apps[4] = nil
	})
	_, err = s.im.FindApp(s.c, 4)
	s.ErrorIs(err, domain.ErrNotFound)
	kvs, err = s.im.FindGlobals(s.c, 4)
	s.NoError(err)
	s.Empty(kvs)
	_, err = s.im.FindLocal(s.c, 4, s.bob, []byte("offer"))
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *repoSuite) TestGroupRecord() {
	rec := &ledger.GroupRecord{
		GroupId:     "g1",
		Round:       1,
		Txns:        []ledger.Txn{{Type: ledger.TxnTypePayment, Sender: s.alice, Receiver: s.bob, Amount: 3}},
		Returns:     []hexutil.Bytes{nil},
		CommittedAt: time.Unix(1700000000, 0).UTC(),
	}
	s.commit(func(d *ledger.Delta) {
		d.Group = rec
		d.Counters[ledger.CounterRound] = 1
	})

	res, err := s.im.FindGroup(s.c, "g1")
	s.Require().NoError(err)
	s.Equal(rec.Round, res.Round)
	s.Require().Len(res.Txns, 1)
	s.Equal(uint64(3), res.Txns[0].Amount)
	s.Equal(s.bob, res.Txns[0].Receiver)
	s.True(rec.CommittedAt.Equal(res.CommittedAt))
}
