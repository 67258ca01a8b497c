package enforcer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/goroyalty/domain"
)

type OfferTestSuite struct {
	suite.Suite
	auth  domain.Address
	other domain.Address
}

func (s *OfferTestSuite) SetupSuite() {
	s.auth = domain.MustHexToAddress("0x1111111111111111111111111111111111111111111111111111111111111111")
	s.other = domain.MustHexToAddress("0x2222222222222222222222222222222222222222222222222222222222222222")
}

func (s *OfferTestSuite) TestEncodeLayout() {
	b := ActiveOffer{Auth: s.auth, Amount: 5}.Encode()
	s.Len(b, OfferLength)
	s.Equal(s.auth.Bytes(), b[:32])
	s.Equal([]byte{0, 0, 0, 0, 0, 0, 0, 5}, b[32:])

	state, err := DecodeOffer(b)
	s.Require().NoError(err)
	s.Equal(ActiveOffer{Auth: s.auth, Amount: 5}, state)
}

func (s *OfferTestSuite) TestDecodeZeroAmountIsNoOffer() {
	state, err := DecodeOffer(ActiveOffer{Auth: s.auth}.Encode())
	s.Require().NoError(err)
	s.Equal(NoOffer{}, state)
}

func (s *OfferTestSuite) TestDecodeWrongLength() {
	_, err := DecodeOffer(make([]byte, 39))
	s.True(errors.Is(err, domain.ErrBadParamInput))
}

func (s *OfferTestSuite) TestNextOffer() {
	tests := []struct {
		desc           string
		current        OfferState
		amount         uint64
		expectedAmount uint64
		expectedAuth   domain.Address
		exp            *ActiveOffer
		expErr         error
	}{
		{
			desc:    "create from nothing",
			current: NoOffer{},
			amount:  5,
			exp:     &ActiveOffer{Auth: s.auth, Amount: 5},
		},
		{
			desc:           "create from nothing with stale expectation",
			current:        NoOffer{},
			amount:         5,
			expectedAmount: 1,
			expErr:         domain.ErrConflict,
		},
		{
			desc:         "create from nothing with non zero auth",
			current:      NoOffer{},
			amount:       5,
			expectedAuth: s.other,
			expErr:       domain.ErrConflict,
		},
		{
			desc:           "overwrite",
			current:        ActiveOffer{Auth: s.other, Amount: 3},
			amount:         7,
			expectedAmount: 3,
			expectedAuth:   s.other,
			exp:            &ActiveOffer{Auth: s.auth, Amount: 7},
		},
		{
			desc:           "overwrite with wrong auth",
			current:        ActiveOffer{Auth: s.other, Amount: 3},
			amount:         7,
			expectedAmount: 3,
			expectedAuth:   s.auth,
			expErr:         domain.ErrConflict,
		},
		{
			desc:           "zero amount deletes",
			current:        ActiveOffer{Auth: s.other, Amount: 3},
			amount:         0,
			expectedAmount: 3,
			expectedAuth:   s.other,
		},
	}
	for _, t := range tests {
		next, err := NextOffer(t.current, s.auth, t.amount, t.expectedAmount, t.expectedAuth)
		if t.expErr != nil {
			s.True(errors.Is(err, t.expErr), t.desc)
			continue
		}
		s.NoError(err, t.desc)
		s.Equal(t.exp, next, t.desc)
	}
}

func TestOfferTestSuite(t *testing.T) {
	suite.Run(t, new(OfferTestSuite))
}
