package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/keys"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/domain/ledger/mocks"
	"github.com/x-xyz/goroyalty/service/cache"
	"github.com/x-xyz/goroyalty/service/cache/provider/primitive"
)

type cachedSuite struct {
	suite.Suite
	c    ctx.Ctx
	repo *mocks.Repo
	im   ledger.Repo
}

func TestCachedRepo(t *testing.T) {
	suite.Run(t, new(cachedSuite))
}

func (s *cachedSuite) SetupTest() {
	s.c = ctx.Background()
	s.repo = &mocks.Repo{}
	local := primitive.NewPrimitive("test", 1)
	s.im = NewCachedRepo(&CachedRepoCfg{
		Repo:   s.repo,
		Assets: cache.New(cache.ServiceConfig{Ttl: time.Minute, Pfx: keys.PfxLedgerAsset, Cache: local}),
		Apps:   cache.New(cache.ServiceConfig{Ttl: time.Minute, Pfx: keys.PfxLedgerApp, Cache: local}),
	})
}

func (s *cachedSuite) TearDownTest() {
	s.repo.AssertExpectations(s.T())
}

func (s *cachedSuite) TestFindAssetServedFromCache() {
	asset := &ledger.Asset{Id: 7, Params: ledger.AssetParams{Total: 10, Name: "art"}}
	s.repo.On("FindAsset", mock.Anything, domain.AssetId(7)).Return(asset, nil).Once()

	for i := 0; i < 3; i++ {
		res, err := s.im.FindAsset(s.c, 7)
		s.Require().NoError(err)
		s.Equal(asset, res)
	}
}

func (s *cachedSuite) TestMissIsNotCached() {
	s.repo.On("FindApp", mock.Anything, domain.AppId(3)).Return(nil, domain.ErrNotFound).Twice()

	_, err := s.im.FindApp(s.c, 3)
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.im.FindApp(s.c, 3)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *cachedSuite) TestCommitInvalidates() {
	before := &ledger.App{Id: 3, Program: "enforcer"}
	s.repo.On("FindApp", mock.Anything, domain.AppId(3)).Return(before, nil).Once()
	res, err := s.im.FindApp(s.c, 3)
	s.Require().NoError(err)
	s.Equal(before, res)

	delta := ledger.NewDelta()
	delta.Apps[3] = nil
	s.repo.On("Commit", mock.Anything, delta).Return(nil).Once()
	s.Require().NoError(s.im.Commit(s.c, delta))

	s.repo.On("FindApp", mock.Anything, domain.AppId(3)).Return(nil, domain.ErrNotFound).Once()
	_, err = s.im.FindApp(s.c, 3)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *cachedSuite) TestFailedCommitKeepsCache() {
	asset := &ledger.Asset{Id: 1, Params: ledger.AssetParams{Total: 1}}
	s.repo.On("FindAsset", mock.Anything, domain.AssetId(1)).Return(asset, nil).Once()
	_, err := s.im.FindAsset(s.c, 1)
	s.Require().NoError(err)

	boom := errors.New("boom")
	delta := ledger.NewDelta()
	delta.Assets[1] = &ledger.Asset{Id: 1, Params: ledger.AssetParams{Total: 2}}
	s.repo.On("Commit", mock.Anything, delta).Return(boom).Once()
	s.Equal(boom, s.im.Commit(s.c, delta))

	res, err := s.im.FindAsset(s.c, 1)
	s.Require().NoError(err)
	s.Equal(uint64(1), res.Params.Total)
}

func (s *cachedSuite) TestPassThrough() {
	addr := domain.Address{1}
	acct := &ledger.Account{Address: addr, Balance: 5}
	s.repo.On("FindAccount", mock.Anything, addr).Return(acct, nil).Twice()

	for i := 0; i < 2; i++ {
		res, err := s.im.FindAccount(s.c, addr)
		s.Require().NoError(err)
		s.Equal(acct, res)
	}
}
