package enforcer

import (
	"fmt"

	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/domain"
)

// OfferLength is the stored size of an offer: auth(32) || amount(8)
const OfferLength = domain.AddressLength + 8

// OfferState is either NoOffer or an ActiveOffer
type OfferState interface {
	isOfferState()
	// Matches checks the expected previous values of an update against the state
	Matches(expectedAmount uint64, expectedAuth domain.Address) bool
}

// NoOffer is an (owner, asset) pair with nothing stored
type NoOffer struct{}

// ActiveOffer lets Auth move up to Amount units. Amount is never 0.
type ActiveOffer struct {
	Auth   domain.Address
	Amount uint64
}

func (NoOffer) isOfferState()     {}
func (ActiveOffer) isOfferState() {}

// Matches requires the zero pair, nothing was ever offered
func (NoOffer) Matches(expectedAmount uint64, expectedAuth domain.Address) bool {
	return expectedAmount == 0 && expectedAuth.IsZero()
}

func (o ActiveOffer) Matches(expectedAmount uint64, expectedAuth domain.Address) bool {
	return o.Amount == expectedAmount && o.Auth == expectedAuth
}

func (NoOffer) String() string {
	return "no offer"
}

func (o ActiveOffer) String() string {
	return fmt.Sprintf("offer(auth=%s, amount=%d)", o.Auth, o.Amount)
}

func (o ActiveOffer) Encode() []byte {
	b := make([]byte, 0, OfferLength)
	b = append(b, o.Auth.Bytes()...)
	return append(b, domain.Itob(o.Amount)...)
}

// DecodeOffer parses a stored record. A stored zero amount decodes to NoOffer.
func DecodeOffer(b []byte) (OfferState, error) {
	if len(b) != OfferLength {
		return nil, xerrors.Errorf("offer record has %d bytes: %w", len(b), domain.ErrBadParamInput)
	}
	auth, err := domain.BytesToAddress(b[:domain.AddressLength])
	if err != nil {
		return nil, err
	}
	amount, err := domain.Btoi(b[domain.AddressLength:])
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return NoOffer{}, nil
	}
	return ActiveOffer{Auth: auth, Amount: amount}, nil
}

// NextOffer is the conflict-checked update shared by offer, transfer and
// royalty_free_move. A nil result deletes the record.
func NextOffer(current OfferState, auth domain.Address, amount, expectedAmount uint64, expectedAuth domain.Address) (*ActiveOffer, error) {
	if !current.Matches(expectedAmount, expectedAuth) {
		return nil, xerrors.Errorf("%s, expected amount=%d auth=%s: %w", current, expectedAmount, expectedAuth, domain.ErrConflict)
	}
	if amount == 0 {
		return nil, nil
	}
	return &ActiveOffer{Auth: auth, Amount: amount}, nil
}
