// Package ledgertest runs contracts against an in-memory ledger
package ledgertest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/stores/ledger/repository"
	"github.com/x-xyz/goroyalty/stores/ledger/usecase"
)

// InitialBalance is what Fund credits when no balance is given
const InitialBalance = 100_000_000_000

type World struct {
	T      *testing.T
	Ctx    ctx.Ctx
	Repo   ledger.Repo
	Ledger ledger.UseCase
}

func New(t *testing.T, funded []domain.Address, contracts ...ledger.Contract) *World {
	repo := repository.NewMemoryRepo()
	w := &World{
		T:    t,
		Ctx:  ctx.Background(),
		Repo: repo,
		Ledger: usecase.New(&usecase.LedgerUseCaseCfg{
			Repo:      repo,
			Contracts: contracts,
		}),
	}
	accounts := make([]ledger.Account, len(funded))
	for i, addr := range funded {
		accounts[i] = ledger.Account{Address: addr, Balance: InitialBalance}
	}
	require.NoError(t, w.Ledger.Genesis(w.Ctx, accounts))
	return w
}

// Addr is a deterministic test address
func Addr(n byte) domain.Address {
	var a domain.Address
	a[0] = 0xaa
	a[domain.AddressLength-1] = n
	return a
}

func (w *World) Submit(txns ...ledger.Txn) (*ledger.GroupRecord, error) {
	return w.Ledger.Submit(w.Ctx, &ledger.Group{Txns: txns})
}

func (w *World) MustSubmit(txns ...ledger.Txn) *ledger.GroupRecord {
	w.T.Helper()
	res, err := w.Submit(txns...)
	require.NoError(w.T, err)
	return res
}

// Call submits a single app call and returns its method return
func (w *World) Call(txn ledger.Txn) ([]byte, error) {
	res, err := w.Submit(txn)
	if err != nil {
		return nil, err
	}
	return res.Returns[0], nil
}

func (w *World) CreateApp(creator domain.Address, program string) domain.AppId {
	w.T.Helper()
	res := w.MustSubmit(ledger.AppCreate(creator, program))
	id, err := domain.Btoi(res.Returns[0])
	require.NoError(w.T, err)
	return domain.AppId(id)
}

func (w *World) CreateAsset(creator domain.Address, params ledger.AssetParams) domain.AssetId {
	w.T.Helper()
	res := w.MustSubmit(ledger.AssetCreate(creator, params))
	id, err := domain.Btoi(res.Returns[0])
	require.NoError(w.T, err)
	return domain.AssetId(id)
}

// ProtectedAsset is a default-frozen asset clawed back and frozen by the application account
func ProtectedAsset(total uint64, enforcerAddr domain.Address) ledger.AssetParams {
	return ledger.AssetParams{
		Total:         total,
		DefaultFrozen: true,
		UnitName:      "NFT",
		Name:          "protected",
		Manager:       enforcerAddr,
		Reserve:       enforcerAddr,
		Freeze:        enforcerAddr,
		Clawback:      enforcerAddr,
	}
}

func (w *World) Balance(addr domain.Address) uint64 {
	w.T.Helper()
	acct, err := w.Ledger.View().Account(w.Ctx, addr)
	require.NoError(w.T, err)
	return acct.Balance
}

// AssetBalance reads 0 for accounts not opted in
func (w *World) AssetBalance(addr domain.Address, asset domain.AssetId) uint64 {
	w.T.Helper()
	h, err := w.Ledger.View().Holding(w.Ctx, addr, asset)
	if errors.Is(err, domain.ErrAssetNotOptedIn) {
		return 0
	}
	require.NoError(w.T, err)
	return h.Amount
}

func (w *World) Global(app domain.AppId, key []byte) (*ledger.Value, bool) {
	w.T.Helper()
	v, ok, err := w.Ledger.View().Global(w.Ctx, app, key)
	require.NoError(w.T, err)
	return v, ok
}
