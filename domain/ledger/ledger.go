package ledger

import (
	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
)

const (
	// MaxGroupSize bounds the top-level transactions of a submitted group
	MaxGroupSize = 16
	// MaxAppliedTxns bounds every applied transaction of a group, inner ones included
	MaxAppliedTxns = 256
	// MaxInnerDepth bounds nested inner groups
	MaxInnerDepth = 8
)

const (
	CounterAsset = "asset"
	CounterApp   = "app"
	CounterRound = "round"
)

type HoldingKey struct {
	Address domain.Address
	AssetId domain.AssetId
}

type GlobalKey struct {
	App domain.AppId
	// Key is the raw state key
	Key string
}

type LocalKey struct {
	App     domain.AppId
	Address domain.Address
	Key     string
}

// Delta is the set of records written by one group. A nil value deletes.
type Delta struct {
	Accounts map[domain.Address]*Account
	Assets   map[domain.AssetId]*Asset
	Holdings map[HoldingKey]*Holding
	Apps     map[domain.AppId]*App
	Globals  map[GlobalKey]*Value
	Locals   map[LocalKey]*Value
	Counters map[string]uint64
	Group    *GroupRecord
}

func NewDelta() *Delta {
	return &Delta{
		Accounts: make(map[domain.Address]*Account),
		Assets:   make(map[domain.AssetId]*Asset),
		Holdings: make(map[HoldingKey]*Holding),
		Apps:     make(map[domain.AppId]*App),
		Globals:  make(map[GlobalKey]*Value),
		Locals:   make(map[LocalKey]*Value),
		Counters: make(map[string]uint64),
	}
}

// Repo persists world state. Find* return domain.ErrNotFound for missing records.
type Repo interface {
	FindAccount(c ctx.Ctx, addr domain.Address) (*Account, error)
	FindAsset(c ctx.Ctx, id domain.AssetId) (*Asset, error)
	FindHolding(c ctx.Ctx, addr domain.Address, id domain.AssetId) (*Holding, error)
	FindHoldings(c ctx.Ctx, addr domain.Address) ([]Holding, error)
	FindApp(c ctx.Ctx, id domain.AppId) (*App, error)
	FindGlobal(c ctx.Ctx, app domain.AppId, key []byte) (*Value, error)
	FindGlobals(c ctx.Ctx, app domain.AppId) ([]KeyValue, error)
	FindLocal(c ctx.Ctx, app domain.AppId, addr domain.Address, key []byte) (*Value, error)
	// FindCounter returns 0 for a counter never written
	FindCounter(c ctx.Ctx, name string) (uint64, error)
	FindGroup(c ctx.Ctx, groupId string) (*GroupRecord, error)

	// Commit writes delta atomically
	Commit(c ctx.Ctx, delta *Delta) error
}

type AccountState struct {
	Account
	Holdings []Holding `json:"holdings"`
}

type AppState struct {
	App
	Address domain.Address `json:"address"`
	Globals []KeyValue     `json:"globals"`
}

type UseCase interface {
	// Submit applies group atomically and returns the committed record
	Submit(c ctx.Ctx, group *Group) (*GroupRecord, error)
	// Genesis credits the initial balances, only before the first group
	Genesis(c ctx.Ctx, accounts []Account) error

	FindGroup(c ctx.Ctx, groupId string) (*GroupRecord, error)
	FindAccount(c ctx.Ctx, addr domain.Address) (*AccountState, error)
	FindHolding(c ctx.Ctx, addr domain.Address, id domain.AssetId) (*Holding, error)
	FindAsset(c ctx.Ctx, id domain.AssetId) (*Asset, error)
	FindApp(c ctx.Ctx, id domain.AppId) (*AppState, error)

	// View reads committed state
	View() StateView
}
