package enforcer

import (
	"math/bits"

	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/domain"
)

// Royalty is floor(payment * basis / 10000) with a 128 bit intermediate
func Royalty(payment, basis uint64) (uint64, error) {
	if basis > BasisPointMultiplier {
		return 0, xerrors.Errorf("basis %d above %d: %w", basis, BasisPointMultiplier, domain.ErrPrecondition)
	}
	hi, lo := bits.Mul64(payment, basis)
	// basis <= multiplier keeps the quotient within 64 bits
	q, _ := bits.Div64(hi, lo, BasisPointMultiplier)
	return q, nil
}

// Split divides a payment into the owner share and the royalty.
// owner + royalty == payment.
func Split(payment, basis uint64) (owner, royalty uint64, err error) {
	royalty, err = Royalty(payment, basis)
	if err != nil {
		return 0, 0, err
	}
	return payment - royalty, royalty, nil
}
