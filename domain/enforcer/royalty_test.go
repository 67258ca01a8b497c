package enforcer

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/goroyalty/domain"
)

func TestRoyalty(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		payment uint64
		basis   uint64
		exp     uint64
	}{
		{10_000_000, 1000, 1_000_000},
		{0, 1000, 0},
		{999, 1, 0},
		{10_000, 1, 1},
		{12345, 10000, 12345},
		{12345, 0, 0},
		{math.MaxUint64, 10000, math.MaxUint64},
		{math.MaxUint64, 5000, math.MaxUint64 / 2},
	}
	for _, tt := range tests {
		r, err := Royalty(tt.payment, tt.basis)
		req.NoError(err)
		req.Equal(tt.exp, r, "payment %d basis %d", tt.payment, tt.basis)
	}

	_, err := Royalty(1, 10001)
	req.True(errors.Is(err, domain.ErrPrecondition))
}

func TestSplitConservesValue(t *testing.T) {
	req := require.New(t)
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		payment := rnd.Uint64()
		if i%3 == 0 {
			payment = uint64(rnd.Int63n(1_000_000))
		}
		basis := uint64(rnd.Int63n(BasisPointMultiplier + 1))

		owner, royalty, err := Split(payment, basis)
		req.NoError(err)
		req.Equal(payment, owner+royalty)
		req.LessOrEqual(royalty, payment)
	}
}

func TestPolicyPercentage(t *testing.T) {
	p := Policy{Basis: 1000}
	require.Equal(t, "10", p.Percentage().String())
	p.Basis = 125
	require.Equal(t, "1.25", p.Percentage().String())
}
