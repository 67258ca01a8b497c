package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/domain/ledger/mocks"
)

type pingFunc func(ctx.Ctx) error

func (f pingFunc) PingDB(c ctx.Ctx) error { return f(c) }

func TestCheck(t *testing.T) {
	c := ctx.Background()
	boom := errors.New("boom")

	repo := mocks.NewRepo(t)
	repo.On("FindCounter", mock.Anything, ledger.CounterRound).Return(uint64(7), nil).Once()
	st, err := New(&HealthCheckUseCaseCfg{
		Repo:   pingFunc(func(ctx.Ctx) error { return nil }),
		Ledger: repo,
	}).Check(c)
	require.NoError(t, err)
	require.Equal(t, "ok", st.Healthy)
	require.Equal(t, uint64(7), st.Round)

	// ping failure stops before the ledger is read
	_, err = New(&HealthCheckUseCaseCfg{
		Repo:   pingFunc(func(ctx.Ctx) error { return boom }),
		Ledger: repo,
	}).Check(c)
	require.Equal(t, boom, err)

	repo.On("FindCounter", mock.Anything, ledger.CounterRound).Return(uint64(0), boom).Once()
	_, err = New(&HealthCheckUseCaseCfg{
		Repo:   pingFunc(func(ctx.Ctx) error { return nil }),
		Ledger: repo,
	}).Check(c)
	require.Equal(t, boom, err)
}
