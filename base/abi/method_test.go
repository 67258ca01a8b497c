package abi

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/goroyalty/domain"
)

type MethodTestSuite struct {
	suite.Suite
}

func (s *MethodTestSuite) TestSelector() {
	m := NewMethod("set_policy(uint64,address)void")
	s.Equal(crypto.Keccak256([]byte("set_policy(uint64,address)void"))[:4], m.Selector)
	s.Equal("set_policy", m.Name())
	s.True(m.Matches(m.Selector))
	s.False(m.Matches(NewMethod("get_policy()(address,uint64)").Selector))
}

func (s *MethodTestSuite) TestArgs() {
	m := NewMethod("offer(asset,uint64,address,uint64,address)void")
	args := m.Args(Uint64(0), Uint64(5))
	s.Len(args, 3)
	s.Equal(m.Selector, args[0])
	s.Equal([]byte{0, 0, 0, 0, 0, 0, 0, 5}, args[2])
}

func (s *MethodTestSuite) TestDecode() {
	v, err := DecodeUint64(Uint64(1 << 40))
	s.Require().NoError(err)
	s.Equal(uint64(1<<40), v)

	_, err = DecodeUint64([]byte{1})
	s.True(errors.Is(err, domain.ErrBadParamInput))

	b, err := DecodeBool(Bool(true))
	s.Require().NoError(err)
	s.True(b)

	addr := domain.MustHexToAddress("0x00000000000000000000000000000000000000000000000000000000000000ff")
	got, err := DecodeAddress(Address(addr))
	s.Require().NoError(err)
	s.Equal(addr, got)

	_, err = DecodeAddress(make([]byte, 20))
	s.True(errors.Is(err, domain.ErrBadParamInput))
}

func TestMethodTestSuite(t *testing.T) {
	suite.Run(t, new(MethodTestSuite))
}
