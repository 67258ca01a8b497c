package ledger

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/abi"
	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
)

// StateView is a read-only view of world state. Reads inside a group observe
// every effect applied before them.
type StateView interface {
	// Account returns a zero-balance account for unknown addresses
	Account(c ctx.Ctx, addr domain.Address) (*Account, error)
	// Asset returns domain.ErrNotFound for unknown assets
	Asset(c ctx.Ctx, id domain.AssetId) (*Asset, error)
	// Holding returns domain.ErrAssetNotOptedIn when addr is not opted in
	Holding(c ctx.Ctx, addr domain.Address, id domain.AssetId) (*Holding, error)
	App(c ctx.Ctx, id domain.AppId) (*App, error)
	// Global and Local report whether the key is present
	Global(c ctx.Ctx, app domain.AppId, key []byte) (*Value, bool, error)
	Local(c ctx.Ctx, app domain.AppId, addr domain.Address, key []byte) (*Value, bool, error)
}

// Contract is application logic registered under a program name
type Contract interface {
	Program() string
	// Approve decides the call. A returned error rejects the enclosing group.
	Approve(c ctx.Ctx, call *Call) (*Result, error)
}

// Call is the execution environment of one application call
type Call struct {
	AppId    domain.AppId
	Creator  domain.Address
	Creating bool
	// Group is the group the call belongs to, Index its position
	Group []Txn
	Index int
	View  StateView
}

func (c *Call) Txn() *Txn {
	return &c.Group[c.Index]
}

func (c *Call) Sender() domain.Address {
	return c.Txn().Sender
}

func (c *Call) AppAddress() domain.Address {
	return c.AppId.Address()
}

// Preceding returns the group member right before the call
func (c *Call) Preceding() (*Txn, error) {
	if c.Index < 1 {
		return nil, xerrors.Errorf("no txn precedes index %d: %w", c.Index, domain.ErrBadParamInput)
	}
	return &c.Group[c.Index-1], nil
}

func (c *Call) Selector() []byte {
	args := c.Txn().Args
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func (c *Call) Arg(i int) ([]byte, error) {
	args := c.Txn().Args
	if i < 0 || i >= len(args) {
		return nil, xerrors.Errorf("missing arg %d of %d: %w", i, len(args), domain.ErrBadParamInput)
	}
	return args[i], nil
}

func (c *Call) Uint64Arg(i int) (uint64, error) {
	b, err := c.Arg(i)
	if err != nil {
		return 0, err
	}
	return abi.DecodeUint64(b)
}

func (c *Call) BoolArg(i int) (bool, error) {
	b, err := c.Arg(i)
	if err != nil {
		return false, err
	}
	return abi.DecodeBool(b)
}

func (c *Call) AddressArg(i int) (domain.Address, error) {
	b, err := c.Arg(i)
	if err != nil {
		return domain.Address{}, err
	}
	return abi.DecodeAddress(b)
}

// AccountArg resolves an account reference: 0 is the sender, n is Accounts[n-1]
func (c *Call) AccountArg(i int) (domain.Address, error) {
	idx, err := c.Uint64Arg(i)
	if err != nil {
		return domain.Address{}, err
	}
	if idx == 0 {
		return c.Sender(), nil
	}
	accounts := c.Txn().Accounts
	if idx > uint64(len(accounts)) {
		return domain.Address{}, xerrors.Errorf("account ref %d out of %d: %w", idx, len(accounts), domain.ErrBadParamInput)
	}
	return accounts[idx-1], nil
}

// AssetArg resolves an asset reference into ForeignAssets
func (c *Call) AssetArg(i int) (domain.AssetId, error) {
	idx, err := c.Uint64Arg(i)
	if err != nil {
		return 0, err
	}
	assets := c.Txn().ForeignAssets
	if idx >= uint64(len(assets)) {
		return 0, xerrors.Errorf("asset ref %d out of %d: %w", idx, len(assets), domain.ErrBadParamInput)
	}
	return assets[idx], nil
}

// AppArg resolves an application reference: 0 is the called app, n is ForeignApps[n-1]
func (c *Call) AppArg(i int) (domain.AppId, error) {
	idx, err := c.Uint64Arg(i)
	if err != nil {
		return 0, err
	}
	if idx == 0 {
		return c.AppId, nil
	}
	apps := c.Txn().ForeignApps
	if idx > uint64(len(apps)) {
		return 0, xerrors.Errorf("app ref %d out of %d: %w", idx, len(apps), domain.ErrBadParamInput)
	}
	return apps[idx-1], nil
}
