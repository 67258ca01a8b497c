package ledger

import (
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/x-xyz/goroyalty/domain"
)

type Account struct {
	Address domain.Address `json:"address"`
	Balance uint64         `json:"balance"`
	// AuthAddr is set when signing authority was delegated (rekeyed)
	AuthAddr domain.Address `json:"authAddr"`
	// App marks the account of an application. It has no key and only
	// sends from inner transactions of that application.
	App domain.AppId `json:"app,omitempty"`
}

func (a *Account) IsRekeyed() bool {
	return !a.AuthAddr.IsZero()
}

type AssetParams struct {
	Total         uint64         `json:"total" validate:"gt=0"`
	Decimals      uint32         `json:"decimals"`
	DefaultFrozen bool           `json:"defaultFrozen"`
	UnitName      string         `json:"unitName"`
	Name          string         `json:"name"`
	URL           string         `json:"url"`
	Creator       domain.Address `json:"creator"`
	Manager       domain.Address `json:"manager"`
	Reserve       domain.Address `json:"reserve"`
	Freeze        domain.Address `json:"freeze"`
	Clawback      domain.Address `json:"clawback"`
}

type Asset struct {
	Id     domain.AssetId `json:"assetId"`
	Params AssetParams    `json:"params"`
}

type Holding struct {
	Address domain.Address `json:"address"`
	AssetId domain.AssetId `json:"assetId"`
	Amount  uint64         `json:"amount"`
	Frozen  bool           `json:"frozen"`
}

type App struct {
	Id      domain.AppId   `json:"appId"`
	Creator domain.Address `json:"creator"`
	Program string         `json:"program"`
}

type ValueType uint8

const (
	ValueTypeBytes ValueType = 1
	ValueTypeUint  ValueType = 2
)

// Value is a stored application state value
type Value struct {
	Type  ValueType     `json:"type"`
	Bytes hexutil.Bytes `json:"bytes,omitempty"`
	Uint  uint64        `json:"uint,omitempty"`
}

func BytesValue(b []byte) Value {
	return Value{Type: ValueTypeBytes, Bytes: append([]byte(nil), b...)}
}

func UintValue(v uint64) Value {
	return Value{Type: ValueTypeUint, Uint: v}
}

// AsUint reads a uint value; missing or bytes values read as 0
func (v *Value) AsUint() uint64 {
	if v == nil || v.Type != ValueTypeUint {
		return 0
	}
	return v.Uint
}

// AsBytes reads a bytes value; missing or uint values read as nil
func (v *Value) AsBytes() []byte {
	if v == nil || v.Type != ValueTypeBytes {
		return nil
	}
	return v.Bytes
}

type KeyValue struct {
	Key   hexutil.Bytes `json:"key"`
	Value Value         `json:"value"`
}

// GroupRecord is the committed outcome of a group
type GroupRecord struct {
	GroupId string `json:"groupId"`
	Round   uint64 `json:"round"`
	Txns    []Txn  `json:"txns"`
	// Returns holds the method return of each top-level txn, nil when none
	Returns     []hexutil.Bytes `json:"returns"`
	InnerTxns   []Txn           `json:"innerTxns"`
	CommittedAt time.Time       `json:"committedAt"`
}
