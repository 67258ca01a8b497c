package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

type ValidatorTestSuite struct {
	suite.Suite
}

func (s *ValidatorTestSuite) TestIsValidAddress() {
	tests := []struct {
		desc       string
		address    string
		expIsValid bool
	}{
		{
			desc:       "invalid address",
			address:    "0x000",
			expIsValid: false,
		},
		{
			desc:       "20 byte address",
			address:    "0x939ae6A4C8dfDBB1f7085189574F0A938013952A",
			expIsValid: false,
		},
		{
			desc:       "valid address",
			address:    "0x939ae6a4c8dfdbb1f7085189574f0a938013952b939ae6a4c8dfdbb1f7085189",
			expIsValid: true,
		},
		{
			desc:       "missing prefix",
			address:    "939ae6a4c8dfdbb1f7085189574f0a938013952b939ae6a4c8dfdbb1f7085189",
			expIsValid: false,
		},
	}
	for _, t := range tests {
		s.Equal(t.expIsValid, IsValidAddress(t.address), t.desc)
	}
}

type sender struct {
	From domain.Address `validate:"nonzeroaddr"`
}

func (s *ValidatorTestSuite) TestValidate() {
	v := NewCustomValidator(validator.New())

	s.Error(v.Validate(&sender{}))
	s.NoError(v.Validate(&sender{From: domain.Address{1}}))

	s.Error(v.Validate(&ledger.Group{}))
	s.Error(v.Validate(&ledger.Group{Txns: []ledger.Txn{{Type: "bogus"}}}))
	s.Error(v.Validate(&ledger.Group{Txns: []ledger.Txn{{Type: ledger.TxnTypePayment}}}))
	s.NoError(v.Validate(&ledger.Group{Txns: []ledger.Txn{{Type: ledger.TxnTypePayment, Sender: domain.Address{1}}}}))
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}
